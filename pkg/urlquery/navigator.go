package urlquery

import (
	"sync"

	"github.com/vango-dev/tablesync/pkg/protocol"
)

// Navigator is the History of a server-driven session. It tracks the
// client's current location and queues history patches that are sent to
// the client with the DOM patches of the same tick.
type Navigator struct {
	mu         sync.Mutex
	location   string
	queuePatch func(protocol.Patch)
}

// NewNavigator creates a navigator starting at location. The session passes
// in a closure that appends to its pending patch buffer.
func NewNavigator(location string, queuePatch func(protocol.Patch)) *Navigator {
	return &Navigator{location: location, queuePatch: queuePatch}
}

// Location returns the URL the client is currently showing.
func (n *Navigator) Location() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.location
}

// SetLocation records a location change made by the client itself, such as
// a popstate after the back button.
func (n *Navigator) SetLocation(url string) {
	n.mu.Lock()
	n.location = url
	n.mu.Unlock()
}

// PushState queues a history push patch.
func (n *Navigator) PushState(url string) {
	n.navigate(url, protocol.NewHistoryPushPatch(url))
}

// ReplaceState queues a history replace patch.
func (n *Navigator) ReplaceState(url string) {
	n.navigate(url, protocol.NewHistoryReplacePatch(url))
}

func (n *Navigator) navigate(url string, patch protocol.Patch) {
	n.mu.Lock()
	n.location = url
	queue := n.queuePatch
	n.mu.Unlock()

	if queue != nil {
		queue(patch)
	}
}
