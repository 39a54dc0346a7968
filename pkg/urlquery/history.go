package urlquery

import (
	"log/slog"
	"strings"
)

// Mode determines how a URL change is recorded in the browser history.
type Mode int

const (
	// ModePush adds a new history entry.
	ModePush Mode = iota

	// ModeReplace replaces the current history entry (no back button spam).
	ModeReplace
)

// String returns "push" or "replace".
func (m Mode) String() string {
	if m == ModeReplace {
		return "replace"
	}
	return "push"
}

// ParseMode parses "push" or "replace". Anything else is ModePush.
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), "replace") {
		return ModeReplace
	}
	return ModePush
}

// History is the non-navigating browser history API: recording a URL does
// not reload the page or reset the scroll position.
type History interface {
	// Location returns the current page URL.
	Location() string

	// PushState adds a history entry for url.
	PushState(url string)

	// ReplaceState replaces the current history entry with url.
	ReplaceState(url string)
}

// Synchronizer mirrors query parameter changes into a History.
//
// A Synchronizer without a History is valid: every method is then a silent
// no-op, the way a browser without the history API is treated.
type Synchronizer struct {
	history History
	logger  *slog.Logger
}

// NewSynchronizer creates a Synchronizer over h. h may be nil.
func NewSynchronizer(h History, logger *slog.Logger) *Synchronizer {
	if logger == nil {
		logger = slog.Default().With("component", "urlquery")
	}
	return &Synchronizer{history: h, logger: logger}
}

// Supported reports whether a History is attached.
func (s *Synchronizer) Supported() bool {
	return s != nil && s.history != nil
}

// Push records the current URL with name set to value as a new entry.
func (s *Synchronizer) Push(name, value string) {
	s.Sync(ModePush, name, value)
}

// Replace records the current URL with name set to value in place of the
// current entry.
func (s *Synchronizer) Replace(name, value string) {
	s.Sync(ModeReplace, name, value)
}

// Sync applies Update to the current location and records the result with
// the given mode. Nothing is recorded when the URL does not change.
func (s *Synchronizer) Sync(mode Mode, name, value string) {
	if !s.Supported() {
		return
	}
	current := s.history.Location()
	s.record(mode, current, Update(current, name, value))
}

// Param is one query parameter assignment. An empty Value removes Name.
type Param struct {
	Name  string
	Value string
}

// Apply runs Update for every param against the current location and
// records the combined result as a single history entry.
func (s *Synchronizer) Apply(mode Mode, params ...Param) {
	if !s.Supported() {
		return
	}
	current := s.history.Location()
	next := current
	for _, p := range params {
		next = Update(next, p.Name, p.Value)
	}
	s.record(mode, current, next)
}

// PushQueryString replaces the whole query section of the current URL and
// records it as a new entry.
func (s *Synchronizer) PushQueryString(query string) {
	s.SyncQueryString(ModePush, query)
}

// ReplaceQueryString replaces the whole query section of the current URL
// in place of the current entry.
func (s *Synchronizer) ReplaceQueryString(query string) {
	s.SyncQueryString(ModeReplace, query)
}

// SyncQueryString applies ReplaceQuery to the current location and records
// the result with the given mode.
func (s *Synchronizer) SyncQueryString(mode Mode, query string) {
	if !s.Supported() {
		return
	}
	current := s.history.Location()
	s.record(mode, current, ReplaceQuery(current, query))
}

func (s *Synchronizer) record(mode Mode, current, next string) {
	if next == current {
		return
	}
	if mode == ModeReplace {
		s.history.ReplaceState(next)
	} else {
		s.history.PushState(next)
	}
	s.logger.Debug("history updated", "mode", mode.String(), "url", next)
}
