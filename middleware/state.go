package middleware

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jkhoffman/cogni/core"
	"github.com/jkhoffman/cogni/state"
)

type conversationIDKey struct{}

// WithConversationID attaches id to ctx so a stateLayer knows which
// conversation a Call belongs to.
func WithConversationID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, conversationIDKey{}, id)
}

// ConversationIDFromContext returns the conversation ID attached by
// WithConversationID, if any.
func ConversationIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(conversationIDKey{}).(uuid.UUID)
	return id, ok
}

// stateLayer prepends a conversation's stored history onto every outgoing
// Request and appends the new turn back into the store once the call
// succeeds. A Call with no conversation ID in its context passes through
// unchanged, so the layer is safe to include in a chain used by callers
// that never touch conversation state.
type stateLayer struct {
	store state.Store
}

// NewStateLayer returns a Layer that stitches conversation history from
// store into and out of every Call, keyed by WithConversationID.
func NewStateLayer(store state.Store) Layer {
	return &stateLayer{store: store}
}

func (l *stateLayer) Wrap(next Service) Service {
	return ServiceFunc(func(ctx context.Context, req core.Request) (core.Response, error) {
		id, ok := ConversationIDFromContext(ctx)
		if !ok {
			return next.Call(ctx, req)
		}

		cs, err := l.store.Load(id)
		newConversation := false
		if err != nil {
			if !errors.Is(err, state.ErrNotFound) {
				return core.Response{}, err
			}
			cs = state.WithID(id)
			newConversation = true
		}

		turn := req
		turn.Messages = append(append([]core.Message{}, cs.Messages...), req.Messages...)

		resp, err := next.Call(ctx, turn)
		if err != nil {
			return core.Response{}, err
		}

		cs.AddMessages(req.Messages...)
		cs.AddMessage(responseToMessage(resp))

		if newConversation {
			err = l.store.Save(cs)
		} else {
			err = l.store.Upsert(cs)
		}
		if err != nil {
			return core.Response{}, err
		}

		return resp, nil
	})
}

func responseToMessage(resp core.Response) core.Message {
	msg := core.AssistantMessage(resp.Content)
	return msg
}
