// Package events provides a lightweight in-process event bus for broadcasting
// timer progress to subscribers (status API WebSocket, MQTT publisher).
package events

import (
	"encoding/json"
	"sync"
	"time"
)

// EventType identifies the kind of event.
type EventType string

const (
	// Pomodoro events
	WorkStarted   EventType = "pomodoro.work_started"
	Tick          EventType = "pomodoro.tick"
	WorkFinished  EventType = "pomodoro.work_finished"
	BreakStarted  EventType = "pomodoro.break_started"
	BreakFinished EventType = "pomodoro.break_finished"

	// Light events
	LightsApplied EventType = "lights.applied"
)

// IsPhaseChange reports whether t marks a transition between timer phases.
func (t EventType) IsPhaseChange() bool {
	switch t {
	case WorkStarted, WorkFinished, BreakStarted, BreakFinished:
		return true
	}
	return false
}

// PhaseData is the payload of the phase change events.
type PhaseData struct {
	SessionID string `json:"session_id"`
	Cycle     int    `json:"cycle"`
	Phase     string `json:"phase"`
	Minutes   int    `json:"minutes"`
}

// TickData is the payload of Tick.
type TickData struct {
	SessionID        string `json:"session_id"`
	Cycle            int    `json:"cycle"`
	RemainingMinutes int    `json:"remaining_minutes"`
}

// LightsData is the payload of LightsApplied.
type LightsData struct {
	Bridge string `json:"bridge"`
	Lights []int  `json:"lights"`
	Hue    uint16 `json:"hue"`
	Sat    uint8  `json:"sat"`
	Bri    uint8  `json:"bri"`
}

// Event is a single event emitted by a producer.
type Event struct {
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// NewEvent creates an Event, marshaling data to JSON.
// If marshaling fails the Data field is set to null.
func NewEvent(t EventType, data any) Event {
	raw, err := json.Marshal(data)
	if err != nil {
		raw = []byte("null")
	}
	return Event{
		Type:      t,
		Timestamp: time.Now(),
		Data:      raw,
	}
}

// SubscriberFunc is a callback invoked for each event.
// Implementations must not block; slow subscribers should buffer internally.
type SubscriberFunc func(Event)

// Bus is a simple synchronous fan-out event bus.
// Publishing blocks until all subscribers have been called, so subscribers
// should be fast (e.g., write to a channel).
type Bus struct {
	mu          sync.RWMutex
	subscribers map[int]SubscriberFunc
	nextID      int
}

// NewBus creates a new event bus.
func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[int]SubscriberFunc),
	}
}

// Subscribe registers a callback and returns an unsubscribe function.
func (b *Bus) Subscribe(fn SubscriberFunc) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subscribers[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subscribers, id)
		b.mu.Unlock()
	}
}

// Publish sends an event to all current subscribers. Publishing on a nil Bus
// is a no-op, so producers can hold an optional bus.
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	// Snapshot subscriber list under read lock so we don't hold it during callbacks.
	subs := make([]SubscriberFunc, 0, len(b.subscribers))
	for _, fn := range b.subscribers {
		subs = append(subs, fn)
	}
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(e)
	}
}
