package middleware_test

import (
	"context"
	"testing"
	"time"

	"github.com/jkhoffman/cogni/core"
	"github.com/jkhoffman/cogni/middleware"
	"github.com/stretchr/testify/require"
)

func req(text string) core.Request {
	return core.NewRequest([]core.Message{core.UserMessage(text)})
}

func TestCacheKeyStableForIdenticalRequests(t *testing.T) {
	require.Equal(t, middleware.NewCacheKey(req("hi")), middleware.NewCacheKey(req("hi")))
}

func TestCacheKeyDivergesOnMessageContent(t *testing.T) {
	require.NotEqual(t, middleware.NewCacheKey(req("hi")), middleware.NewCacheKey(req("bye")))
}

func TestCacheKeyDivergesOnModel(t *testing.T) {
	a := req("hi")
	b := req("hi")
	b.Model = "gpt-4o"
	require.NotEqual(t, middleware.NewCacheKey(a), middleware.NewCacheKey(b))
}

func TestCacheLayerServesHitWithoutCallingNext(t *testing.T) {
	calls := 0
	inner := middleware.ServiceFunc(func(ctx context.Context, req core.Request) (core.Response, error) {
		calls++
		return core.TextResponse("fresh"), nil
	})

	cache := middleware.NewCache(10, time.Minute)
	svc := middleware.Chain(inner, middleware.NewCacheLayer(cache))

	r := req("hi")
	resp1, err := svc.Call(context.Background(), r)
	require.NoError(t, err)
	resp2, err := svc.Call(context.Background(), r)
	require.NoError(t, err)

	require.Equal(t, resp1, resp2)
	require.Equal(t, 1, calls)
}

func TestCacheLayerDoesNotCacheErrors(t *testing.T) {
	calls := 0
	inner := middleware.ServiceFunc(func(ctx context.Context, req core.Request) (core.Response, error) {
		calls++
		return core.Response{}, core.NewError(core.ErrValidation, "nope")
	})

	cache := middleware.NewCache(10, time.Minute)
	svc := middleware.Chain(inner, middleware.NewCacheLayer(cache))

	r := req("hi")
	_, _ = svc.Call(context.Background(), r)
	_, _ = svc.Call(context.Background(), r)

	require.Equal(t, 2, calls)
}

func TestCacheEvictsBeyondCapacity(t *testing.T) {
	cache := middleware.NewCache(2, time.Minute)
	k1 := middleware.NewCacheKey(req("a"))
	k2 := middleware.NewCacheKey(req("b"))
	k3 := middleware.NewCacheKey(req("c"))

	cache.Put(k1, core.TextResponse("a"))
	cache.Put(k2, core.TextResponse("b"))
	cache.Put(k3, core.TextResponse("c"))

	_, ok := cache.Get(k1)
	require.False(t, ok, "oldest entry should have been evicted")
	_, ok = cache.Get(k3)
	require.True(t, ok)
}

func TestCacheExpiresByTTL(t *testing.T) {
	cache := middleware.NewCache(10, 10*time.Millisecond)
	k := middleware.NewCacheKey(req("a"))
	cache.Put(k, core.TextResponse("a"))

	time.Sleep(30 * time.Millisecond)
	_, ok := cache.Get(k)
	require.False(t, ok)
}
