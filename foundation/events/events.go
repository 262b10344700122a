// Package events fans out chain and validator events to subscribers such as
// websocket clients.
package events

import (
	"fmt"
	"strings"
	"sync"
)

// messageBuffer is the number of events a subscriber can fall behind before
// new events are dropped for it.
const messageBuffer = 100

// Events maintains the set of subscribers by id. Only messages that start
// with the configured prefix are delivered.
type Events struct {
	prefix string
	mu     sync.RWMutex
	subs   map[string]chan string
}

// New constructs the hub. An empty prefix delivers every message.
func New(prefix string) *Events {
	return &Events{
		prefix: prefix,
		subs:   make(map[string]chan string),
	}
}

// Acquire returns the channel for the subscriber with the specified id,
// creating it when it does not exist yet.
func (evt *Events) Acquire(id string) chan string {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	if ch, exists := evt.subs[id]; exists {
		return ch
	}

	ch := make(chan string, messageBuffer)
	evt.subs[id] = ch

	return ch
}

// Release closes and removes the channel for the specified subscriber.
func (evt *Events) Release(id string) error {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	ch, exists := evt.subs[id]
	if !exists {
		return fmt.Errorf("subscriber %q does not exist", id)
	}

	delete(evt.subs, id)
	close(ch)

	return nil
}

// Subscribers returns the number of subscribers currently registered.
func (evt *Events) Subscribers() int {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	return len(evt.subs)
}

// Send delivers the message to every subscriber that has room for it and
// returns how many received it. Send never blocks on a slow subscriber.
func (evt *Events) Send(s string) int {
	if !strings.HasPrefix(s, evt.prefix) {
		return 0
	}

	evt.mu.RLock()
	defer evt.mu.RUnlock()

	var sent int
	for _, ch := range evt.subs {
		select {
		case ch <- s:
			sent++
		default:
		}
	}

	return sent
}

// Shutdown closes and removes every subscriber channel.
func (evt *Events) Shutdown() {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for id, ch := range evt.subs {
		delete(evt.subs, id)
		close(ch)
	}
}
