// Package broadcast is the real-time fan-out channel: a topic-based
// publish/subscribe bus carried by an embedded NATS server. Publishers never
// block on subscribers; delivery is best-effort and FIFO per topic per
// subscriber. Disconnected subscribers get nothing replayed and are expected
// to re-fetch current state over the HTTP API.
package broadcast

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/sportsfest/livescore/internal/domain"
)

const readyTimeout = 5 * time.Second

// Options configures the embedded broker. With Port 0 the server accepts only
// in-process connections; a non-zero port additionally listens for external
// subscribers (other scoreboard processes).
type Options struct {
	ListenAddr string
	Port       int
}

// Bus is the broadcast channel. It owns the embedded NATS server and one
// client connection used for publishing and subscribing.
type Bus struct {
	srv *server.Server
	nc  *nats.Conn
}

// New starts the embedded server and connects to it in-process.
func New(opts Options) (*Bus, error) {
	sopts := &server.Options{
		ServerName: "livescore-broadcast",
		Host:       opts.ListenAddr,
		Port:       opts.Port,
		DontListen: opts.Port == 0,
	}
	srv, err := server.NewServer(sopts)
	if err != nil {
		return nil, fmt.Errorf("creating broadcast server: %w", err)
	}
	go srv.Start()
	if !srv.ReadyForConnections(readyTimeout) {
		return nil, fmt.Errorf("broadcast server not ready after %v", readyTimeout)
	}

	nc, err := nats.Connect("", nats.InProcessServer(srv), nats.Name("livescore"))
	if err != nil {
		srv.Shutdown()
		return nil, fmt.Errorf("connecting to broadcast server: %w", err)
	}
	return &Bus{srv: srv, nc: nc}, nil
}

// subject maps a topic like "match:update" to the NATS subject "match.update".
func subject(event string) string {
	return strings.ReplaceAll(event, ":", ".")
}

// Publish wraps the payload in an event envelope and pushes it to all current
// subscribers of the topic. It returns as soon as the message is handed to
// the broker.
func (b *Bus) Publish(event string, payload interface{}) error {
	ev := domain.Event{Type: event, Timestamp: time.Now().UTC(), Payload: payload}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", event, err)
	}
	return b.nc.Publish(subject(event), data)
}

// Subscription is a handle to one topic subscription.
type Subscription struct {
	sub *nats.Subscription
}

// Unsubscribe detaches the subscriber without affecting publishers.
func (s *Subscription) Unsubscribe() error {
	return s.sub.Unsubscribe()
}

// Subscribe delivers each event's JSON envelope to fn. Handlers for one
// subscription run sequentially, preserving per-topic order.
func (b *Bus) Subscribe(event string, fn func(data []byte)) (*Subscription, error) {
	sub, err := b.nc.Subscribe(subject(event), func(m *nats.Msg) {
		fn(m.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribing to %s: %w", event, err)
	}
	return &Subscription{sub: sub}, nil
}

// Flush blocks until all published messages have been processed by the
// broker. Used in tests and during shutdown.
func (b *Bus) Flush() error {
	return b.nc.FlushTimeout(readyTimeout)
}

// ClientURL returns the broker URL for external subscribers; empty when the
// broker is in-process only.
func (b *Bus) ClientURL() string {
	if b.srv.Addr() == nil {
		return ""
	}
	return b.srv.ClientURL()
}

// Close drains the client connection and stops the embedded server.
func (b *Bus) Close() {
	b.nc.Close()
	b.srv.Shutdown()
	b.srv.WaitForShutdown()
}
