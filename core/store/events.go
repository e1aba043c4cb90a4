package store

import (
	"sync"
)

// EventKind identifies a change of the store state.
type EventKind int

// Events
const (
	EntryAdded EventKind = iota + 1
	EntryUpdated
	EntryRemoved
	EntryCompleted
	EntryUncompleted
	EntriesNotified
	UserAdded
	SessionChanged
)

var eventNames = map[EventKind]string{
	EntryAdded:       "entry_added",
	EntryUpdated:     "entry_updated",
	EntryRemoved:     "entry_removed",
	EntryCompleted:   "entry_completed",
	EntryUncompleted: "entry_uncompleted",
	EntriesNotified:  "entries_notified",
	UserAdded:        "user_added",
	SessionChanged:   "session_changed",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsEntryChange reports whether the event changed the entry collection.
func (k EventKind) IsEntryChange() bool {
	return k >= EntryAdded && k <= EntriesNotified
}

type (
	Event struct {
		Kind    EventKind
		UserID  string // owner of the changed entries, or the user concerned
		EntryID string // empty for multi-entry events
		Count   int    // entries concerned
	}

	// Listener is called synchronously after a mutation is applied.
	Listener func(Event)

	broker struct {
		mu        sync.RWMutex
		nextID    int
		listeners map[int]Listener
		order     []int
	}
)

func newBroker() *broker {
	return &broker{listeners: make(map[int]Listener)}
}

func (b *broker) subscribe(l Listener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.listeners[id] = l
	b.order = append(b.order, id)

	var once sync.Once
	return func() {
		once.Do(func() { b.unsubscribe(id) })
	}
}

func (b *broker) unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.listeners, id)
	for i, lid := range b.order {
		if lid == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

func (b *broker) publish(evt Event) {
	b.mu.RLock()
	listeners := make([]Listener, 0, len(b.order))
	for _, id := range b.order {
		listeners = append(listeners, b.listeners[id])
	}
	b.mu.RUnlock()

	for _, l := range listeners {
		l(evt)
	}
}
