package sse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"hero_store/internal/domain"
	"hero_store/internal/model"
)

func TestHubBroadcast(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	first := &Client{Ch: make(chan model.HeroEvent, 1)}
	second := &Client{Ch: make(chan model.HeroEvent, 1)}
	hub.Register(first)
	hub.Register(second)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	require.True(t, hub.Broadcast(model.HeroEvent{Type: domain.EventHeroDeleted, HeroID: "1"}))

	for _, c := range []*Client{first, second} {
		select {
		case got := <-c.Ch:
			require.Equal(t, domain.EventHeroDeleted, got.Type)
			require.Equal(t, "1", got.HeroID)
		case <-time.After(time.Second):
			t.Fatalf("expected event")
		}
	}

	hub.Unregister(first)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
}

func TestHubDropsForSlowClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	slow := &Client{Ch: make(chan model.HeroEvent)}
	hub.Register(slow)

	require.True(t, hub.Broadcast(model.HeroEvent{Type: domain.EventHeroCreated}))
	require.Eventually(t, func() bool { return len(hub.broadcast) == 0 }, time.Second, 10*time.Millisecond)

	// Run must keep serving after dropping the event for the slow client.
	fast := &Client{Ch: make(chan model.HeroEvent, 1)}
	hub.Register(fast)
	require.True(t, hub.Broadcast(model.HeroEvent{Type: domain.EventHeroUpdated}))

	select {
	case got := <-fast.Ch:
		require.Equal(t, domain.EventHeroUpdated, got.Type)
	case <-time.After(time.Second):
		t.Fatalf("expected event for fast client")
	}
}

func TestHubBroadcastFullQueue(t *testing.T) {
	hub := NewHub()
	for i := 0; i < cap(hub.broadcast); i++ {
		require.True(t, hub.Broadcast(model.HeroEvent{Type: domain.EventHeroCreated}))
	}
	require.False(t, hub.Broadcast(model.HeroEvent{Type: domain.EventHeroCreated}))
}

func TestHubStoppedDoesNotBlock(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	done := make(chan struct{})
	go func() {
		client := &Client{Ch: make(chan model.HeroEvent, 1)}
		hub.Register(client)
		hub.Unregister(client)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("register/unregister blocked after hub stopped")
	}
}
