package telemetry

import (
	"encoding/json"
	"sync"
)

// Repository stores telemetry events
type Repository interface {
	RecordEvent(time float64, eventType EventType, metadata EventMetadata) error
	GetEvents(eventTypes []EventType) ([]Event, error)
	Clear() error
}

// MemoryRepository stores events in memory (dev/test use)
type MemoryRepository struct {
	mu     sync.RWMutex
	events []Event
	nextID int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		events: make([]Event, 0),
		nextID: 1,
	}
}

func (r *MemoryRepository) RecordEvent(time float64, eventType EventType, metadata EventMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return err
	}

	event := Event{
		ID:       r.nextID,
		Time:     time,
		Type:     eventType,
		Metadata: string(metadataJSON),
	}
	r.events = append(r.events, event)
	r.nextID++
	return nil
}

func (r *MemoryRepository) GetEvents(eventTypes []EventType) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(eventTypes) == 0 {
		out := make([]Event, len(r.events))
		copy(out, r.events)
		return out, nil
	}

	wanted := make(map[EventType]struct{}, len(eventTypes))
	for _, t := range eventTypes {
		wanted[t] = struct{}{}
	}

	var out []Event
	for _, e := range r.events {
		if _, ok := wanted[e.Type]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *MemoryRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = r.events[:0]
	return nil
}
