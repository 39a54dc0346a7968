package protocol

import (
	"errors"
	"io"
	"math"
	"strings"
	"testing"
)

func TestVarints(t *testing.T) {
	uvals := []uint64{0, 1, 127, 128, 300, 1 << 32, math.MaxUint64}
	svals := []int64{0, -1, 1, -64, 64, math.MinInt64, math.MaxInt64}

	e := NewEncoder()
	for _, v := range uvals {
		e.WriteUvarint(v)
	}
	for _, v := range svals {
		e.WriteSvarint(v)
	}

	d := NewDecoder(e.Bytes())
	for _, want := range uvals {
		got, err := d.ReadUvarint()
		if err != nil || got != want {
			t.Errorf("ReadUvarint() = %d, %v, want %d", got, err, want)
		}
	}
	for _, want := range svals {
		got, err := d.ReadSvarint()
		if err != nil || got != want {
			t.Errorf("ReadSvarint() = %d, %v, want %d", got, err, want)
		}
	}
	if !d.EOF() {
		t.Errorf("Remaining() = %d after reading everything", d.Remaining())
	}
}

func TestVarintSizes(t *testing.T) {
	tests := []struct {
		v    uint64
		size int
	}{
		{0, 1}, {127, 1}, {128, 2}, {16383, 2}, {16384, 3},
	}
	for _, tc := range tests {
		e := NewEncoder()
		e.WriteUvarint(tc.v)
		if e.Len() != tc.size {
			t.Errorf("WriteUvarint(%d) size = %d, want %d", tc.v, e.Len(), tc.size)
		}
	}
}

func TestVarintOverflow(t *testing.T) {
	data := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x01}
	if _, err := NewDecoder(data).ReadUvarint(); !errors.Is(err, ErrVarintOverflow) {
		t.Errorf("error = %v, want ErrVarintOverflow", err)
	}
}

func TestStringLimits(t *testing.T) {
	e := NewEncoder()
	e.WriteUvarint(MaxStringLen + 1)
	if _, err := NewDecoder(e.Bytes()).ReadString(); !errors.Is(err, ErrStringTooLarge) {
		t.Errorf("oversize error = %v", err)
	}

	e.Reset()
	e.WriteUvarint(10)
	e.WriteBytes([]byte("abc"))
	if _, err := NewDecoder(e.Bytes()).ReadString(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("short error = %v", err)
	}

	long := strings.Repeat("x", MaxStringLen)
	e.Reset()
	e.WriteString(long)
	got, err := NewDecoder(e.Bytes()).ReadString()
	if err != nil || got != long {
		t.Errorf("max length string: err = %v, len = %d", err, len(got))
	}
}

func TestFixedWidth(t *testing.T) {
	e := NewEncoder()
	e.WriteUint16(0xBEEF)
	e.WriteUint64(0x0102030405060708)
	e.WriteBool(true)
	e.WriteBool(false)

	d := NewDecoder(e.Bytes())
	if v, _ := d.ReadUint16(); v != 0xBEEF {
		t.Errorf("ReadUint16() = %#x", v)
	}
	if v, _ := d.ReadUint64(); v != 0x0102030405060708 {
		t.Errorf("ReadUint64() = %#x", v)
	}
	if v, _ := d.ReadBool(); !v {
		t.Error("ReadBool() = false, want true")
	}
	if v, _ := d.ReadBool(); v {
		t.Error("ReadBool() = true, want false")
	}
	if _, err := d.ReadByte(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadByte() at end error = %v", err)
	}
}
