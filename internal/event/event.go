// Package event defines the ingested log record the routing evaluator
// tests against a parsed rule.
package event

import (
	"fmt"
	"time"
)

// Event is a document with a fixed event_message/timestamp and a
// free-form, recursive metadata subtree. Events are immutable once
// constructed; the map is never mutated by the evaluator.
type Event struct {
	EventMessage string
	Timestamp    time.Time
	Metadata     map[string]any
}

// FromMap builds an Event from a generic decoded-JSON document with
// "event_message", "timestamp", and "metadata" top-level keys. timestamp
// must be an RFC3339 ("...Z") string; metadata, if present, must be a
// map[string]any (as produced by encoding/json).
func FromMap(doc map[string]any) (Event, error) {
	ev := Event{}

	if v, ok := doc["event_message"]; ok {
		s, ok := v.(string)
		if !ok {
			return Event{}, fmt.Errorf("event: event_message must be a string, got %T", v)
		}
		ev.EventMessage = s
	}

	if v, ok := doc["timestamp"]; ok {
		s, ok := v.(string)
		if !ok {
			return Event{}, fmt.Errorf("event: timestamp must be a string, got %T", v)
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return Event{}, fmt.Errorf("event: invalid timestamp %q: %w", s, err)
		}
		ev.Timestamp = t.UTC()
	}

	if v, ok := doc["metadata"]; ok {
		m, ok := v.(map[string]any)
		if !ok {
			return Event{}, fmt.Errorf("event: metadata must be an object, got %T", v)
		}
		ev.Metadata = m
	} else {
		ev.Metadata = map[string]any{}
	}

	return ev, nil
}
