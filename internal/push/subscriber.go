package push

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cachewatch/cachewatch/internal/lancache"
	"github.com/cachewatch/cachewatch/internal/state"
)

const (
	// readWait is how long to wait for any frame (snapshot or ping) before
	// treating the connection as dead. Must exceed the server's broadcast
	// and ping intervals.
	readWait = 90 * time.Second

	// maxMessageSize bounds a single snapshot frame.
	maxMessageSize = 1 << 20

	// baseRetry is the initial reconnect delay; it doubles per consecutive
	// failure up to maxBackoff.
	baseRetry  = time.Second
	maxBackoff = 30 * time.Second
)

// Envelope is the JSON frame the server sends on every broadcast tick.
type Envelope struct {
	Event string            `json:"event"`
	Data  lancache.Snapshot `json:"data"`
}

// Subscriber maintains a websocket connection to the server's push channel
// and feeds every received snapshot into the state store. Connection loss is
// recorded in the store and followed by reconnect attempts with exponential
// backoff; the fallback poller keeps the dashboard alive in the meantime.
type Subscriber struct {
	url    string
	store  *state.Store
	dialer *websocket.Dialer
}

// New creates a Subscriber for the given ws:// or wss:// URL.
func New(wsURL string, store *state.Store) *Subscriber {
	return &Subscriber{
		url:    wsURL,
		store:  store,
		dialer: websocket.DefaultDialer,
	}
}

// Run connects, reads snapshots, and reconnects until ctx is cancelled.
func (s *Subscriber) Run(ctx context.Context) {
	failures := 0
	for {
		delivered, err := s.connectAndRead(ctx)
		if ctx.Err() != nil {
			return
		}
		if delivered > 0 {
			failures = 0
		}
		failures++
		s.store.RecordError(err)

		delay := calculateBackoff(failures-1, baseRetry)
		slog.Warn("push: connection lost", "err", err, "retry_in", delay)
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}
}

// connectAndRead dials the push channel and consumes frames until the
// connection fails or ctx is cancelled. It returns how many snapshots were
// delivered on this connection.
func (s *Subscriber) connectAndRead(ctx context.Context) (int, error) {
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return 0, fmt.Errorf("dial push channel: %w", err)
	}
	defer conn.Close()

	// Unblock the read loop when the context is cancelled.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	slog.Info("push: connected", "url", s.url)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(readWait))
	conn.SetPingHandler(func(appData string) error {
		_ = conn.SetReadDeadline(time.Now().Add(readWait))
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(10*time.Second))
	})

	delivered := 0
	for {
		var env Envelope
		if err := conn.ReadJSON(&env); err != nil {
			return delivered, fmt.Errorf("read push frame: %w", err)
		}
		_ = conn.SetReadDeadline(time.Now().Add(readWait))

		if env.Event != "snapshot" {
			slog.Debug("push: ignoring frame", "event", env.Event)
			continue
		}
		s.store.Apply(env.Data)
		delivered++
	}
}

// calculateBackoff returns baseInterval doubled per failure, capped at
// maxBackoff. Zero or negative failure counts yield baseInterval.
func calculateBackoff(failures int, baseInterval time.Duration) time.Duration {
	delay := baseInterval
	for i := 0; i < failures; i++ {
		delay *= 2
		if delay >= maxBackoff {
			return maxBackoff
		}
	}
	return delay
}
