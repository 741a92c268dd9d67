package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"
	"time"
)

// mockClient creates a client for testing without a real WebSocket connection
func mockClient(hub *Hub, topic string) *Client {
	return &Client{
		hub:   hub,
		topic: topic,
		send:  make(chan []byte, 256),
	}
}

func TestHubRegistration(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := mockClient(hub, TopicConfig)
	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	if hub.rooms[TopicConfig] == nil {
		t.Fatal("topic room not created")
	}
	if !hub.rooms[TopicConfig][client] {
		t.Fatal("client not registered in topic room")
	}
}

func TestHubCleanupEmptyRoom(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client1 := mockClient(hub, TopicConfig)
	client2 := mockClient(hub, TopicConfig)
	hub.register <- client1
	hub.register <- client2
	time.Sleep(10 * time.Millisecond)

	if got := hub.ClientCount(); got != 2 {
		t.Fatalf("expected 2 clients, got %d", got)
	}

	hub.unregister <- client1
	time.Sleep(10 * time.Millisecond)
	if got := hub.ClientCount(); got != 1 {
		t.Fatalf("expected 1 client after first unregister, got %d", got)
	}

	hub.unregister <- client2
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()
	if hub.rooms[TopicConfig] != nil {
		t.Fatal("room should be deleted when last client unregisters")
	}
}

func TestBroadcastReachesAllClientsInTopic(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	clients := []*Client{
		mockClient(hub, TopicConfig),
		mockClient(hub, TopicConfig),
		mockClient(hub, TopicConfig),
	}
	for _, c := range clients {
		hub.register <- c
	}
	time.Sleep(10 * time.Millisecond)

	hub.ConfigUpdated()

	for i, client := range clients {
		select {
		case msg := <-client.send:
			var received Event
			if err := json.Unmarshal(msg, &received); err != nil {
				t.Fatalf("client%d: failed to unmarshal: %v", i+1, err)
			}
			if received.Type != EventConfigUpdated {
				t.Errorf("client%d: expected type %q, got %q", i+1, EventConfigUpdated, received.Type)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("client%d did not receive message", i+1)
		}
	}
}

func TestBroadcastIsolatedByTopic(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	other := mockClient(hub, "other")
	hub.register <- other
	time.Sleep(10 * time.Millisecond)

	hub.Broadcast(TopicConfig, Event{Type: EventConfigUpdated})

	select {
	case <-other.send:
		t.Fatal("client should not receive message for different topic")
	case <-time.After(50 * time.Millisecond):
		// Expected - no message
	}
}

func TestServeWSAndSubscribe(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWS(hub, TopicConfig, w, r)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan Event, 4)
	done := make(chan error, 1)
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	go func() {
		done <- Subscribe(ctx, url, func(ev Event) { events <- ev })
	}()

	// Wait for the subscriber to register.
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.ConfigUpdated()
	hub.ConfigUpdated()

	for i := 0; i < 2; i++ {
		select {
		case ev := <-events:
			if ev.Type != EventConfigUpdated {
				t.Errorf("event %d type = %q, want %q", i, ev.Type, EventConfigUpdated)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("event %d not received", i)
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Subscribe returned %v after cancel", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Subscribe did not return after cancel")
	}
}

func TestSubscribeReleasesResourcesWhenServerHangsUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn.Close()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	before := runtime.NumGoroutine()
	const attempts = 30
	for i := 0; i < attempts; i++ {
		if err := Subscribe(ctx, url, func(Event) {}); err == nil {
			t.Fatalf("attempt %d: expected read error from closed stream", i)
		}
	}

	// Server-side handler goroutines wind down asynchronously.
	deadline := time.Now().Add(2 * time.Second)
	after := runtime.NumGoroutine()
	for after > before+5 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
		after = runtime.NumGoroutine()
	}
	if after > before+5 {
		t.Errorf("goroutines before=%d after %d failed subscriptions=%d", before, attempts, after)
	}
}
