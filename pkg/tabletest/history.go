package tabletest

import (
	"sync"
	"testing"

	"github.com/vango-dev/tablesync/pkg/urlquery"
)

// Entry is one recorded history change.
type Entry struct {
	Mode urlquery.Mode
	URL  string
}

// History is a urlquery.History that records every change.
type History struct {
	mu       sync.Mutex
	location string
	entries  []Entry
}

// NewHistory creates a history starting at location.
func NewHistory(location string) *History {
	return &History{location: location}
}

// Location implements urlquery.History.
func (h *History) Location() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.location
}

// PushState implements urlquery.History.
func (h *History) PushState(url string) {
	h.record(urlquery.ModePush, url)
}

// ReplaceState implements urlquery.History.
func (h *History) ReplaceState(url string) {
	h.record(urlquery.ModeReplace, url)
}

// Navigate moves to url without recording an entry, like the back button.
func (h *History) Navigate(url string) {
	h.mu.Lock()
	h.location = url
	h.mu.Unlock()
}

// Entries returns the recorded changes in order.
func (h *History) Entries() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Entry(nil), h.entries...)
}

func (h *History) record(mode urlquery.Mode, url string) {
	h.mu.Lock()
	h.location = url
	h.entries = append(h.entries, Entry{Mode: mode, URL: url})
	h.mu.Unlock()
}

// ExpectURL asserts the current location of h.
func ExpectURL(t *testing.T, h *History, want string) {
	t.Helper()
	if got := h.Location(); got != want {
		t.Errorf("location = %q, want %q", got, want)
	}
}

// ExpectEntries asserts the number of recorded history changes.
func ExpectEntries(t *testing.T, h *History, want int) {
	t.Helper()
	if got := len(h.Entries()); got != want {
		t.Errorf("history entries = %d, want %d: %v", got, want, h.Entries())
	}
}
