package protocol

import (
	"errors"
	"io"
	"reflect"
	"testing"
)

func TestEventEncodeDecode(t *testing.T) {
	tests := []struct {
		name  string
		event *Event
	}{
		{
			name:  "header_click",
			event: &Event{Seq: 1, Type: EventClick, HID: "h3", Target: "span", Payload: &MouseEventData{}},
		},
		{
			name: "ctrl_click",
			event: &Event{Seq: 2, Type: EventClick, HID: "h3", Target: "th",
				Payload: &MouseEventData{Button: 0, Modifiers: ModCtrl}},
		},
		{
			name: "enter_keydown",
			event: &Event{Seq: 300, Type: EventKeyDown, HID: "h4", Target: "th",
				Payload: &KeyboardEventData{Key: "Enter", Code: "NumpadEnter", Modifiers: ModMeta | ModShift}},
		},
		{
			name: "keypress_repeat",
			event: &Event{Seq: 4, Type: EventKeyPress, HID: "search", Target: "input",
				Payload: &KeyboardEventData{Key: "a", Code: "KeyA", Repeat: true}},
		},
		{
			name:  "focus",
			event: &Event{Seq: 5, Type: EventFocus, HID: "search", Target: "input"},
		},
		{
			name:  "input",
			event: &Event{Seq: 6, Type: EventInput, HID: "search", Target: "input", Payload: "Grün & co"},
		},
		{
			name:  "popstate",
			event: &Event{Seq: 7, Type: EventPopState, Payload: "https://x/y?sort=-name"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			decoded, err := DecodeEvent(EncodeEvent(tc.event))
			if err != nil {
				t.Fatalf("DecodeEvent() error = %v", err)
			}
			if !reflect.DeepEqual(decoded, tc.event) {
				t.Errorf("decoded = %+v, want %+v", decoded, tc.event)
			}
		})
	}
}

func TestEventNilPayloadEncodesZeroValue(t *testing.T) {
	decoded, err := DecodeEvent(EncodeEvent(&Event{Type: EventKeyDown, HID: "h1"}))
	if err != nil {
		t.Fatalf("DecodeEvent() error = %v", err)
	}
	k := decoded.Keyboard()
	if k == nil || k.Key != "" || k.Modifiers != 0 {
		t.Errorf("Keyboard() = %+v", k)
	}
}

func TestEventTargetLowercased(t *testing.T) {
	decoded, err := DecodeEvent(EncodeEvent(&Event{Type: EventFocus, HID: "h1", Target: "INPUT"}))
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Target != "input" {
		t.Errorf("Target = %q, want input", decoded.Target)
	}
}

func TestDecodeEventErrors(t *testing.T) {
	unknown := EncodeEvent(&Event{Type: EventType(0x99), HID: "h1"})
	if _, err := DecodeEvent(unknown); !errors.Is(err, ErrUnknownEvent) {
		t.Errorf("unknown type error = %v", err)
	}

	data := EncodeEvent(&Event{Type: EventInput, HID: "h1", Payload: "value"})
	if _, err := DecodeEvent(data[:len(data)-2]); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("truncated error = %v", err)
	}
	if _, err := DecodeEvent(append(data, 0x00)); !errors.Is(err, ErrTrailingPayload) {
		t.Errorf("trailing error = %v", err)
	}
}

func TestEventAccessors(t *testing.T) {
	click := &Event{Type: EventClick, Payload: &MouseEventData{Modifiers: ModCtrl}}
	if !click.Modifiers().Has(ModCtrl) || click.Modifiers().Has(ModMeta) {
		t.Errorf("Modifiers() = %v", click.Modifiers())
	}
	if click.Keyboard() != nil {
		t.Error("Keyboard() on click should be nil")
	}
	if click.Value() != "" {
		t.Error("Value() on click should be empty")
	}

	input := &Event{Type: EventInput, Payload: "abc"}
	if input.Value() != "abc" || input.Modifiers() != 0 {
		t.Errorf("input accessors = %q, %v", input.Value(), input.Modifiers())
	}
}

func TestEventTypeString(t *testing.T) {
	tests := map[EventType]string{
		EventClick:      "Click",
		EventSearch:     "Search",
		EventPopState:   "PopState",
		EventType(0xEE): "Unknown",
	}
	for et, want := range tests {
		if got := et.String(); got != want {
			t.Errorf("%#x.String() = %q, want %q", uint8(et), got, want)
		}
	}
}
