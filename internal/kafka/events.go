package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// QueryEvent is published after every catalog query the service runs.
type QueryEvent struct {
	ID         uuid.UUID      `json:"id"`
	Query      string         `json:"query"`
	Params     map[string]any `json:"params,omitempty"`
	Rows       int            `json:"rows"`
	Error      string         `json:"error,omitempty"`
	DurationMS int64          `json:"duration_ms"`
	RequestID  string         `json:"request_id,omitempty"`
	At         time.Time      `json:"at"`
}

func (e QueryEvent) Failed() bool {
	return e.Error != ""
}

func DecodeQueryEvent(data []byte) (QueryEvent, error) {
	var event QueryEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return QueryEvent{}, fmt.Errorf("decode query event: %w", err)
	}
	if event.Query == "" {
		return QueryEvent{}, fmt.Errorf("decode query event: missing query name")
	}
	return event, nil
}
