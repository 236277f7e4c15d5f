package nats

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"techno-ai-be/pkg/events"
)

const (
	StreamName    = "EVENTS"
	subjectPrefix = "events."

	occurredAtKey = "occurred_at"
)

// SubjectFor maps an event type to its subject on the EVENTS stream.
func SubjectFor(eventType string) string {
	return subjectPrefix + eventType
}

// TypeFromSubject is the inverse of SubjectFor.
func TypeFromSubject(subject string) string {
	return strings.TrimPrefix(subject, subjectPrefix)
}

func encode(event events.Event) ([]byte, error) {
	payload := make(map[string]interface{}, len(event.Payload())+1)
	for k, v := range event.Payload() {
		payload[k] = v
	}
	payload[occurredAtKey] = event.Timestamp().UTC().Format(time.RFC3339Nano)

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}
	return data, nil
}

func decode(subject string, data []byte) (events.BaseEvent, error) {
	var payload map[string]interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		return events.BaseEvent{}, err
	}

	occurredAt := time.Now()
	if raw, ok := payload[occurredAtKey].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			occurredAt = t
		}
		delete(payload, occurredAtKey)
	}

	return events.BaseEvent{
		Type:       TypeFromSubject(subject),
		Data:       payload,
		OccurredAt: occurredAt,
	}, nil
}
