package protocol

// PatchOp is the type of patch operation.
type PatchOp uint8

// Patch operation constants.
const (
	PatchSetAttr     PatchOp = 0x02 // Set attribute
	PatchRemoveAttr  PatchOp = 0x03 // Remove attribute
	PatchSetValue    PatchOp = 0x08 // Set input value
	PatchAddClass    PatchOp = 0x10 // Add CSS class
	PatchRemoveClass PatchOp = 0x11 // Remove CSS class
	PatchToggleClass PatchOp = 0x12 // Toggle CSS class
	PatchSetData     PatchOp = 0x15 // Set data attribute

	// History operations carry the full URL in Value and no HID.
	PatchHistoryPush    PatchOp = 0x30
	PatchHistoryReplace PatchOp = 0x31
)

// MaxPatchesPerFrame bounds the patch count a decoder accepts.
const MaxPatchesPerFrame = 4096

// String returns the string representation of the patch operation.
func (op PatchOp) String() string {
	switch op {
	case PatchSetAttr:
		return "SetAttr"
	case PatchRemoveAttr:
		return "RemoveAttr"
	case PatchSetValue:
		return "SetValue"
	case PatchAddClass:
		return "AddClass"
	case PatchRemoveClass:
		return "RemoveClass"
	case PatchToggleClass:
		return "ToggleClass"
	case PatchSetData:
		return "SetData"
	case PatchHistoryPush:
		return "HistoryPush"
	case PatchHistoryReplace:
		return "HistoryReplace"
	default:
		return "Unknown"
	}
}

// Patch represents a single client-side operation.
type Patch struct {
	Op    PatchOp
	HID   string // Target element's hydration ID
	Key   string // Attribute, data or class name
	Value string // Attribute value, input value or URL
}

// PatchesFrame represents a batch of patches with sequence number.
type PatchesFrame struct {
	Seq     uint64
	Patches []Patch
}

// EncodePatches encodes a patches frame to bytes.
func EncodePatches(pf *PatchesFrame) []byte {
	e := NewEncoder()
	e.WriteUvarint(pf.Seq)
	e.WriteUvarint(uint64(len(pf.Patches)))
	for i := range pf.Patches {
		encodePatch(e, &pf.Patches[i])
	}
	return e.Bytes()
}

func encodePatch(e *Encoder, p *Patch) {
	e.WriteByte(byte(p.Op))

	switch p.Op {
	case PatchSetAttr, PatchSetData:
		e.WriteString(p.HID)
		e.WriteString(p.Key)
		e.WriteString(p.Value)
	case PatchRemoveAttr, PatchAddClass, PatchRemoveClass, PatchToggleClass:
		e.WriteString(p.HID)
		e.WriteString(p.Key)
	case PatchSetValue:
		e.WriteString(p.HID)
		e.WriteString(p.Value)
	case PatchHistoryPush, PatchHistoryReplace:
		e.WriteString(p.Value)
	}
}

// DecodePatches decodes a patches frame from bytes.
func DecodePatches(data []byte) (*PatchesFrame, error) {
	d := NewDecoder(data)

	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	count, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	if count > MaxPatchesPerFrame {
		return nil, ErrTooManyPatches
	}

	pf := &PatchesFrame{Seq: seq, Patches: make([]Patch, count)}
	for i := range pf.Patches {
		if err := decodePatch(d, &pf.Patches[i]); err != nil {
			return nil, err
		}
	}
	if !d.EOF() {
		return nil, ErrTrailingPayload
	}
	return pf, nil
}

func decodePatch(d *Decoder, p *Patch) error {
	op, err := d.ReadByte()
	if err != nil {
		return err
	}
	p.Op = PatchOp(op)

	switch p.Op {
	case PatchSetAttr, PatchSetData:
		if p.HID, err = d.ReadString(); err != nil {
			return err
		}
		if p.Key, err = d.ReadString(); err != nil {
			return err
		}
		p.Value, err = d.ReadString()
	case PatchRemoveAttr, PatchAddClass, PatchRemoveClass, PatchToggleClass:
		if p.HID, err = d.ReadString(); err != nil {
			return err
		}
		p.Key, err = d.ReadString()
	case PatchSetValue:
		if p.HID, err = d.ReadString(); err != nil {
			return err
		}
		p.Value, err = d.ReadString()
	case PatchHistoryPush, PatchHistoryReplace:
		p.Value, err = d.ReadString()
	default:
		return ErrUnknownPatchOp
	}
	return err
}

// NewSetAttrPatch creates a SetAttr patch.
func NewSetAttrPatch(hid, key, value string) Patch {
	return Patch{Op: PatchSetAttr, HID: hid, Key: key, Value: value}
}

// NewRemoveAttrPatch creates a RemoveAttr patch.
func NewRemoveAttrPatch(hid, key string) Patch {
	return Patch{Op: PatchRemoveAttr, HID: hid, Key: key}
}

// NewSetValuePatch creates a SetValue patch.
func NewSetValuePatch(hid, value string) Patch {
	return Patch{Op: PatchSetValue, HID: hid, Value: value}
}

// NewAddClassPatch creates an AddClass patch.
func NewAddClassPatch(hid, class string) Patch {
	return Patch{Op: PatchAddClass, HID: hid, Key: class}
}

// NewRemoveClassPatch creates a RemoveClass patch.
func NewRemoveClassPatch(hid, class string) Patch {
	return Patch{Op: PatchRemoveClass, HID: hid, Key: class}
}

// NewToggleClassPatch creates a ToggleClass patch.
func NewToggleClassPatch(hid, class string) Patch {
	return Patch{Op: PatchToggleClass, HID: hid, Key: class}
}

// NewClassPatch adds class when on is true and removes it otherwise.
func NewClassPatch(hid, class string, on bool) Patch {
	if on {
		return NewAddClassPatch(hid, class)
	}
	return NewRemoveClassPatch(hid, class)
}

// NewSetDataPatch creates a SetData patch (data-* attribute).
func NewSetDataPatch(hid, key, value string) Patch {
	return Patch{Op: PatchSetData, HID: hid, Key: key, Value: value}
}

// NewHistoryPushPatch asks the client to pushState url.
func NewHistoryPushPatch(url string) Patch {
	return Patch{Op: PatchHistoryPush, Value: url}
}

// NewHistoryReplacePatch asks the client to replaceState url.
func NewHistoryReplacePatch(url string) Patch {
	return Patch{Op: PatchHistoryReplace, Value: url}
}
