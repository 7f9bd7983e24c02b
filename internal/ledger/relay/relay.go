// Package relay streams the event log to Kafka. It polls the log with a
// sequence cursor, so the log itself stays the source of truth and the relay
// can restart from wherever it left off.
package relay

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"verifi/internal/ledger"
)

// EventSource is the slice of the log store the relay reads.
type EventSource interface {
	ListSince(ctx context.Context, since uint64, limit int) ([]ledger.Event, error)
}

// Publisher delivers one event downstream. Publish must not return until the
// event is durably accepted; the relay only advances its cursor on success.
type Publisher interface {
	Publish(ctx context.Context, event ledger.Event) error
}

const defaultBatchSize = 100

// Relay pumps events from the log to the publisher in sequence order.
type Relay struct {
	source    EventSource
	publisher Publisher
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
	cursor    atomic.Uint64
}

type Option func(*Relay)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) { r.logger = logger }
}

func WithBatchSize(n int) Option {
	return func(r *Relay) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

// WithCursor starts the relay after the given sequence number.
func WithCursor(seq uint64) Option {
	return func(r *Relay) { r.cursor.Store(seq) }
}

func New(source EventSource, publisher Publisher, interval time.Duration, opts ...Option) *Relay {
	r := &Relay{
		source:    source,
		publisher: publisher,
		interval:  interval,
		batchSize: defaultBatchSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run polls until the context is canceled. Publish failures stop the current
// batch and leave the cursor so the event is retried next tick.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.Drain(ctx); err != nil {
				if r.logger != nil {
					r.logger.WarnContext(ctx, "relay drain failed",
						"error", err.Error(),
						"cursor", r.cursor.Load(),
					)
				}
			}
		}
	}
}

// Drain publishes everything past the cursor. Exported so tests and shutdown
// paths can flush without the ticker.
func (r *Relay) Drain(ctx context.Context) error {
	for {
		events, err := r.source.ListSince(ctx, r.cursor.Load(), r.batchSize)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return nil
		}
		for _, event := range events {
			if err := r.publisher.Publish(ctx, event); err != nil {
				return err
			}
			r.cursor.Store(event.Seq)
		}
	}
}

// Cursor reports the last published sequence number.
func (r *Relay) Cursor() uint64 {
	return r.cursor.Load()
}
