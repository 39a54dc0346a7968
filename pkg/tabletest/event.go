package tabletest

import (
	"slices"
	"testing"

	"github.com/vango-dev/tablesync/pkg/protocol"
)

// Click builds a click event.
func Click(hid string, mods ...protocol.Modifiers) *protocol.Event {
	return &protocol.Event{
		Type:    protocol.EventClick,
		HID:     hid,
		Payload: &protocol.MouseEventData{Modifiers: combine(mods)},
	}
}

// KeyDown builds a keydown event. The code is derived from key.
func KeyDown(hid, key string, mods ...protocol.Modifiers) *protocol.Event {
	return &protocol.Event{
		Type:    protocol.EventKeyDown,
		HID:     hid,
		Payload: &protocol.KeyboardEventData{Key: key, Code: key, Modifiers: combine(mods)},
	}
}

// KeyPress builds a keypress event.
func KeyPress(hid, key string) *protocol.Event {
	return &protocol.Event{
		Type:    protocol.EventKeyPress,
		HID:     hid,
		Payload: &protocol.KeyboardEventData{Key: key, Code: key},
	}
}

// Focus builds a focus event.
func Focus(hid string) *protocol.Event {
	return &protocol.Event{Type: protocol.EventFocus, HID: hid}
}

// Blur builds a blur event.
func Blur(hid string) *protocol.Event {
	return &protocol.Event{Type: protocol.EventBlur, HID: hid}
}

// Input builds an input event carrying the element value.
func Input(hid, value string) *protocol.Event {
	return &protocol.Event{Type: protocol.EventInput, HID: hid, Payload: value}
}

// Change builds a change event carrying the element value.
func Change(hid, value string) *protocol.Event {
	return &protocol.Event{Type: protocol.EventChange, HID: hid, Payload: value}
}

// Search builds a search event carrying the input value.
func Search(hid, value string) *protocol.Event {
	return &protocol.Event{Type: protocol.EventSearch, HID: hid, Payload: value}
}

// PopState builds the event sent after back or forward navigation.
func PopState(url string) *protocol.Event {
	return &protocol.Event{Type: protocol.EventPopState, Payload: url}
}

// WithTarget sets the tag of the element the event originated on.
func WithTarget(ev *protocol.Event, tag string) *protocol.Event {
	ev.Target = tag
	return ev
}

func combine(mods []protocol.Modifiers) protocol.Modifiers {
	var m protocol.Modifiers
	for _, mod := range mods {
		m |= mod
	}
	return m
}

// Find returns the patches with the given op on hid.
func Find(patches []protocol.Patch, op protocol.PatchOp, hid string) []protocol.Patch {
	var out []protocol.Patch
	for _, p := range patches {
		if p.Op == op && p.HID == hid {
			out = append(out, p)
		}
	}
	return out
}

// Index returns the position of want in patches, or -1.
func Index(patches []protocol.Patch, want protocol.Patch) int {
	return slices.Index(patches, want)
}

// ExpectPatch asserts that patches contain want.
func ExpectPatch(t *testing.T, patches []protocol.Patch, want protocol.Patch) {
	t.Helper()
	if Index(patches, want) < 0 {
		t.Errorf("expected patch %s %q %q=%q, got:\n%s", want.Op, want.HID, want.Key, want.Value, dump(patches))
	}
}

// ExpectNoPatch asserts that patches do not contain unwanted.
func ExpectNoPatch(t *testing.T, patches []protocol.Patch, unwanted protocol.Patch) {
	t.Helper()
	if Index(patches, unwanted) >= 0 {
		t.Errorf("unexpected patch %s %q %q=%q", unwanted.Op, unwanted.HID, unwanted.Key, unwanted.Value)
	}
}

func dump(patches []protocol.Patch) string {
	var s string
	for _, p := range patches {
		s += "  " + p.Op.String() + " " + p.HID + " " + p.Key + "=" + p.Value + "\n"
	}
	return s
}
