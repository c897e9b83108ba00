// Package events carries device-state change notifications from the write
// path to live subscribers (the focus TUI in-process, remote clients over
// SSE). Subscribers get pushed updates instead of polling.
package events

import (
	"sync"
	"time"
)

// Event types published by the write path.
const (
	TypeDeviceLocked    = "device_locked"
	TypeDeviceUnlocked  = "device_unlocked"
	TypeSessionStarted  = "session_started"
	TypeSessionEnded    = "session_ended"
	TypeDeviceHeartbeat = "device_heartbeat"
)

// Event describes one device-state change.
type Event struct {
	Type      string    `json:"type"`
	AccountID string    `json:"account_id"`
	DeviceID  string    `json:"device_id"`
	Status    string    `json:"status,omitempty"`
	SessionID uint      `json:"session_id,omitempty"`
	At        time.Time `json:"at"`
}

// Bus is a fan-out broadcaster. Publish never blocks: a subscriber that
// falls behind its buffer misses events rather than stalling the writer.
type Bus struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe registers a listener. The returned cancel function must be
// called to release the channel.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan Event, 16)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber with buffer space.
func (b *Bus) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
			// Subscriber is full; drop rather than block the write path.
		}
	}
}

// Default is the process-wide bus shared by the db services, the SSE
// endpoint, and the focus TUI.
var Default = NewBus()
