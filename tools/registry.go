package tools

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jkhoffman/cogni/core"
)

// Registry holds the set of tools a client call can offer a model and
// dispatches the model's resulting ToolCalls back to their Executors.
// Safe for concurrent use: reads take an RLock and clone before releasing
// it, the same discipline state/inmem's Store uses.
type Registry struct {
	mu        sync.RWMutex
	executors map[string]*Executor
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{executors: make(map[string]*Executor)}
}

// Register adds or replaces executors by tool name.
func (r *Registry) Register(executors ...*Executor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range executors {
		r.executors[e.Tool.Name] = e
	}
}

// Remove deletes a tool by name, reporting whether it was present.
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.executors[name]; !ok {
		return false
	}
	delete(r.executors, name)
	return true
}

// Contains reports whether name is registered.
func (r *Registry) Contains(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.executors[name]
	return ok
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.executors)
}

// Tools returns the core.Tool definitions of every registered executor, in
// no particular order, suitable for attaching to a core.Request.
func (r *Registry) Tools() []core.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.Tool, 0, len(r.executors))
	for _, e := range r.executors {
		out = append(out, e.Tool)
	}
	return out
}

func (r *Registry) get(name string) (*Executor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.executors[name]
	return e, ok
}

// Execute dispatches a single ToolCall to its registered Executor. A call
// naming an unregistered tool produces a failed ToolResult rather than an
// error return, consistent with Executor.Execute's "tool failure isn't a
// framework fault" rule.
func (r *Registry) Execute(ctx context.Context, call core.ToolCall) core.ToolResult {
	e, ok := r.get(call.Name)
	if !ok {
		return core.ErrorResult(call.ID, fmt.Sprintf("tool not found: %s", call.Name))
	}
	return e.Execute(ctx, call)
}

// ExecuteMany runs calls concurrently via errgroup and returns their
// results in the same order as calls, mirroring cogni-tools'
// execute_many/join_all semantics. No individual call failure aborts the
// others: each slot always gets a ToolResult.
func (r *Registry) ExecuteMany(ctx context.Context, calls []core.ToolCall) []core.ToolResult {
	results := make([]core.ToolResult, len(calls))
	g, ctx := errgroup.WithContext(ctx)
	for i, call := range calls {
		i, call := i, call
		g.Go(func() error {
			results[i] = r.Execute(ctx, call)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
