// Package announce implements the polite live-region channel used to tell
// assistive technology about cart changes.
package announce

import "sync"

// Announcement is one message for the live region. Seq increases with every
// announcement, so a client that re-renders on Seq change speaks a repeated
// identical text again instead of treating it as unchanged content.
type Announcement struct {
	Text string `json:"text"`
	Seq  uint64 `json:"seq"`
}

// Region is a polite live region. The zero value is ready to use.
type Region struct {
	mu   sync.Mutex
	last Announcement
}

// Announce replaces the region's content and returns the new announcement.
func (r *Region) Announce(text string) Announcement {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = Announcement{Text: text, Seq: r.last.Seq + 1}
	return r.last
}

// Last returns the most recent announcement; the zero Announcement if none.
func (r *Region) Last() Announcement {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Added is the text announced when a product goes into the cart.
func Added(name string) string {
	return name + " agregado al carrito"
}
