package service

import "sync"

// EventType defines the type of event
type EventType string

const (
	EventTableLoaded   EventType = "table_loaded"
	EventScanCompleted EventType = "scan_completed"
	EventOrganized     EventType = "organized"
	EventExported      EventType = "exported"
)

// Event represents something the App finished doing
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// TableStats summarizes a device table for event payloads
type TableStats struct {
	Devices  int `json:"devices"`
	Known    int `json:"known"`
	Reserved int `json:"reserved"`
	Active   int `json:"active"`
}

// EventBus allows publishing and subscribing to events
type EventBus struct {
	mu          sync.RWMutex
	subscribers []chan<- Event
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make([]chan<- Event, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (eb *EventBus) Subscribe(ch chan<- Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subscribers = append(eb.subscribers, ch)
}

// Publish sends an event to all subscribers
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is slow, skip
		}
	}
}
