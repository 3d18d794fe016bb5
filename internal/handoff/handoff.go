package handoff

import "sync"

// Mailbox carries one-shot values from a page to the page it navigates to.
// Each destination holds at most one pending value; a later Put replaces an
// unconsumed one. Take clears the slot so a value is applied at most once.
type Mailbox struct {
	mu    sync.Mutex
	slots map[string]any
}

// NewMailbox returns an empty mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{slots: make(map[string]any)}
}

// Put leaves value for the next visit to destination.
func (m *Mailbox) Put(destination string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[destination] = value
}

// Take returns and clears the pending value for destination.
func (m *Mailbox) Take(destination string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.slots[destination]
	if ok {
		delete(m.slots, destination)
	}
	return v, ok
}

// Peek reports whether a value is pending for destination without consuming it.
func (m *Mailbox) Peek(destination string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.slots[destination]
	return ok
}
