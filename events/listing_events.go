// Package events decouples the listing lifecycle from its observers.
// The listing controllers emit a status-change event; the notification
// service (and anything added later) subscribes without the lifecycle
// code knowing about delivery.
package events

import "sync"

type ListingStatusEvent struct {
	ListingID uint
	Title     string
	BrokerID  uint
	AdminID   uint
	Status    string
}

type StatusListener func(ListingStatusEvent)

var (
	mu        sync.RWMutex
	listeners []StatusListener
)

// OnStatusChange registers a listener for listing status transitions.
func OnStatusChange(l StatusListener) {
	mu.Lock()
	defer mu.Unlock()
	listeners = append(listeners, l)
}

// EmitStatusChange fans the event out synchronously. The HTTP response
// is not sent until every listener has run, so a test that approves a
// listing can immediately observe the resulting notification.
func EmitStatusChange(ev ListingStatusEvent) {
	mu.RLock()
	subs := make([]StatusListener, len(listeners))
	copy(subs, listeners)
	mu.RUnlock()

	for _, l := range subs {
		l(ev)
	}
}

// Reset drops all listeners. Used by tests to isolate subscriptions.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	listeners = nil
}
