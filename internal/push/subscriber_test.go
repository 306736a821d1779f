package push

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cachewatch/cachewatch/internal/lancache"
	"github.com/cachewatch/cachewatch/internal/optimistic"
	"github.com/cachewatch/cachewatch/internal/state"
)

func TestCalculateBackoff(t *testing.T) {
	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, time.Second},
		{"negative failures", -1, time.Second},
		{"one failure", 1, 2 * time.Second},
		{"three failures", 3, 8 * time.Second},
		{"five failures capped", 5, 30 * time.Second}, // would be 32s
		{"many failures capped", 12, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, time.Second)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d) = %v, want %v", tt.failures, got, tt.want)
			}
		})
	}
}

func TestSubscriber_DeliversSnapshots(t *testing.T) {
	upgrader := websocket.Upgrader{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		// An unknown event type must be skipped, not break the stream.
		_ = conn.WriteJSON(Envelope{Event: "heartbeat"})
		_ = conn.WriteJSON(Envelope{
			Event: "snapshot",
			Data: lancache.Snapshot{
				Cache: lancache.CacheInfo{TotalBytes: 500, UsedBytes: 100},
				Prefs: lancache.SessionPrefs{RefreshIntervalSeconds: 10},
			},
		})

		// Hold the connection until the client disconnects.
		_, _, _ = conn.ReadMessage()
	}))
	t.Cleanup(server.Close)

	store := state.NewStore(optimistic.NewGuard())
	sub := New("ws"+strings.TrimPrefix(server.URL, "http"), store)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sub.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(3 * time.Second)
	for {
		snap := store.Snapshot()
		if snap.HasData {
			if snap.Cache.TotalBytes != 500 || snap.Prefs.RefreshIntervalSeconds != 10 {
				t.Fatalf("snapshot = %#v, want broadcast values", snap.Cache)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("snapshot never delivered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestSubscriber_RecordsDialFailure(t *testing.T) {
	store := state.NewStore(optimistic.NewGuard())
	sub := New("ws://127.0.0.1:1/api/ws", store)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sub.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(3 * time.Second)
	for {
		if store.Snapshot().LastError != nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("dial failure never recorded")
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
