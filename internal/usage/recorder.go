// Package usage aggregates query audit events into per-query counters.
package usage

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/Domenick1991/flightdata/internal/kafka"
	"github.com/Domenick1991/flightdata/internal/logging"
	kafkago "github.com/segmentio/kafka-go"
)

type Counters struct {
	Calls  int64 `json:"calls"`
	Rows   int64 `json:"rows"`
	Errors int64 `json:"errors"`
}

type QueryStats struct {
	Query string `json:"query"`
	Counters
	LastAt *time.Time `json:"last_at,omitempty"`
}

type Store interface {
	Incr(ctx context.Context, query string, delta Counters, at time.Time) error
	Queries(ctx context.Context) ([]string, error)
	Counters(ctx context.Context, query string) (map[string]string, error)
}

type Recorder struct {
	store Store
}

func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store}
}

func (r *Recorder) Record(ctx context.Context, event kafka.QueryEvent) error {
	delta := Counters{Calls: 1, Rows: int64(event.Rows)}
	if event.Failed() {
		delta.Errors = 1
	}
	at := event.At
	if at.IsZero() {
		at = time.Now()
	}
	return r.store.Incr(ctx, event.Query, delta, at)
}

// Handle is a kafka.Consumer handler. Undecodable messages are logged and skipped so one
// bad event does not stall the group.
func (r *Recorder) Handle(ctx context.Context, msg kafkago.Message) error {
	event, err := kafka.DecodeQueryEvent(msg.Value)
	if err != nil {
		logging.Warn().Err(err).Int64("offset", msg.Offset).Msg("skipping malformed query event")
		return nil
	}
	return r.Record(ctx, event)
}

// Stats returns the counters of every recorded query sorted by name.
func (r *Recorder) Stats(ctx context.Context) ([]QueryStats, error) {
	names, err := r.store.Queries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list queries: %w", err)
	}
	sort.Strings(names)

	out := make([]QueryStats, 0, len(names))
	for _, name := range names {
		fields, err := r.store.Counters(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("read counters for %s: %w", name, err)
		}
		out = append(out, parseStats(name, fields))
	}
	return out, nil
}

func parseStats(name string, fields map[string]string) QueryStats {
	s := QueryStats{Query: name}
	s.Calls, _ = strconv.ParseInt(fields[fieldCalls], 10, 64)
	s.Rows, _ = strconv.ParseInt(fields[fieldRows], 10, 64)
	s.Errors, _ = strconv.ParseInt(fields[fieldErrors], 10, 64)
	if v, ok := fields[fieldLastAt]; ok {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			s.LastAt = &t
		}
	}
	return s
}
