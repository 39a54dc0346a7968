package protocol

import "strings"

// EventType identifies the type of client event.
type EventType uint8

// Event type constants.
const (
	EventClick EventType = 0x01

	// Form events
	EventInput  EventType = 0x10
	EventChange EventType = 0x11
	EventFocus  EventType = 0x13
	EventBlur   EventType = 0x14
	EventSearch EventType = 0x15 // <input type=search> clear button or Enter

	// Keyboard events
	EventKeyDown  EventType = 0x20
	EventKeyPress EventType = 0x22

	// Navigation
	EventPopState EventType = 0x71 // Back/forward changed the location
)

// String returns the string representation of the event type.
func (et EventType) String() string {
	switch et {
	case EventClick:
		return "Click"
	case EventInput:
		return "Input"
	case EventChange:
		return "Change"
	case EventFocus:
		return "Focus"
	case EventBlur:
		return "Blur"
	case EventSearch:
		return "Search"
	case EventKeyDown:
		return "KeyDown"
	case EventKeyPress:
		return "KeyPress"
	case EventPopState:
		return "PopState"
	default:
		return "Unknown"
	}
}

// Modifiers represents keyboard/mouse modifier keys.
type Modifiers uint8

const (
	ModCtrl  Modifiers = 0x01
	ModShift Modifiers = 0x02
	ModAlt   Modifiers = 0x04
	ModMeta  Modifiers = 0x08
)

// Has returns true if the specified modifier is set.
func (m Modifiers) Has(mod Modifiers) bool {
	return m&mod != 0
}

// KeyboardEventData contains keyboard event data.
type KeyboardEventData struct {
	Key       string
	Code      string // Physical key code (e.g. "Enter", "NumpadEnter")
	Modifiers Modifiers
	Repeat    bool
}

// MouseEventData contains mouse event data.
type MouseEventData struct {
	Button    uint8
	Modifiers Modifiers
}

// Event represents a decoded event from the client.
//
// Target is the lower-case tag name of the element the event originated on,
// which may be a descendant of the element identified by HID.
type Event struct {
	Seq     uint64
	Type    EventType
	HID     string
	Target  string
	Payload any // *KeyboardEventData, *MouseEventData, string or nil
}

// Modifiers returns the modifier keys held during the event, if any.
func (e *Event) Modifiers() Modifiers {
	switch p := e.Payload.(type) {
	case *KeyboardEventData:
		return p.Modifiers
	case *MouseEventData:
		return p.Modifiers
	}
	return 0
}

// Keyboard returns the keyboard payload, or nil for other event types.
func (e *Event) Keyboard() *KeyboardEventData {
	k, _ := e.Payload.(*KeyboardEventData)
	return k
}

// Value returns the string payload of Input, Change, Search and PopState.
func (e *Event) Value() string {
	s, _ := e.Payload.(string)
	return s
}

// EncodeEvent encodes an event to bytes.
func EncodeEvent(e *Event) []byte {
	enc := NewEncoder()
	EncodeEventTo(enc, e)
	return enc.Bytes()
}

// EncodeEventTo encodes an event using the provided encoder.
func EncodeEventTo(enc *Encoder, e *Event) {
	enc.WriteUvarint(e.Seq)
	enc.WriteByte(byte(e.Type))
	enc.WriteString(e.HID)
	enc.WriteString(e.Target)

	switch e.Type {
	case EventFocus, EventBlur:
		// No payload

	case EventClick:
		data, _ := e.Payload.(*MouseEventData)
		if data == nil {
			data = &MouseEventData{}
		}
		enc.WriteByte(data.Button)
		enc.WriteByte(byte(data.Modifiers))

	case EventKeyDown, EventKeyPress:
		data, _ := e.Payload.(*KeyboardEventData)
		if data == nil {
			data = &KeyboardEventData{}
		}
		enc.WriteString(data.Key)
		enc.WriteString(data.Code)
		enc.WriteByte(byte(data.Modifiers))
		enc.WriteBool(data.Repeat)

	case EventInput, EventChange, EventSearch, EventPopState:
		s, _ := e.Payload.(string)
		enc.WriteString(s)
	}
}

// DecodeEvent decodes an event from bytes.
func DecodeEvent(data []byte) (*Event, error) {
	d := NewDecoder(data)
	e, err := DecodeEventFrom(d)
	if err != nil {
		return nil, err
	}
	if !d.EOF() {
		return nil, ErrTrailingPayload
	}
	return e, nil
}

// DecodeEventFrom decodes an event from a decoder.
func DecodeEventFrom(d *Decoder) (*Event, error) {
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}

	typeByte, err := d.ReadByte()
	if err != nil {
		return nil, err
	}

	hid, err := d.ReadString()
	if err != nil {
		return nil, err
	}

	target, err := d.ReadString()
	if err != nil {
		return nil, err
	}

	e := &Event{
		Seq:    seq,
		Type:   EventType(typeByte),
		HID:    hid,
		Target: strings.ToLower(target),
	}

	switch e.Type {
	case EventFocus, EventBlur:
		// No payload

	case EventClick:
		button, err := d.ReadByte()
		if err != nil {
			return nil, err
		}
		mods, err := d.ReadByte()
		if err != nil {
			return nil, err
		}
		e.Payload = &MouseEventData{Button: button, Modifiers: Modifiers(mods)}

	case EventKeyDown, EventKeyPress:
		key, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		code, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		mods, err := d.ReadByte()
		if err != nil {
			return nil, err
		}
		repeat, err := d.ReadBool()
		if err != nil {
			return nil, err
		}
		e.Payload = &KeyboardEventData{
			Key:       key,
			Code:      code,
			Modifiers: Modifiers(mods),
			Repeat:    repeat,
		}

	case EventInput, EventChange, EventSearch, EventPopState:
		s, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		e.Payload = s

	default:
		return nil, ErrUnknownEvent
	}

	return e, nil
}
