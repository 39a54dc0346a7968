package protocol

import (
	"errors"
	"testing"
)

func TestClientHello(t *testing.T) {
	ch := NewClientHello("people", "https://example.com/people?sort=-age#top")
	ch.SessionID = "0b6a5c1e"

	decoded, err := DecodeClientHello(EncodeClientHello(ch))
	if err != nil {
		t.Fatalf("DecodeClientHello() error = %v", err)
	}
	if *decoded != *ch {
		t.Errorf("decoded = %+v, want %+v", decoded, ch)
	}
	if !decoded.Version.Compatible() {
		t.Error("current version should be compatible")
	}
}

func TestClientHelloTrailing(t *testing.T) {
	data := append(EncodeClientHello(NewClientHello("t", "/")), 0x00)
	if _, err := DecodeClientHello(data); !errors.Is(err, ErrTrailingPayload) {
		t.Errorf("error = %v, want ErrTrailingPayload", err)
	}
}

func TestServerHello(t *testing.T) {
	tests := []*ServerHello{
		NewServerHello("session-1", 1700000000000),
		NewServerHelloError(HandshakeUnknownTable),
	}
	for _, sh := range tests {
		decoded, err := DecodeServerHello(EncodeServerHello(sh))
		if err != nil {
			t.Fatalf("DecodeServerHello() error = %v", err)
		}
		if *decoded != *sh {
			t.Errorf("decoded = %+v, want %+v", decoded, sh)
		}
	}
}

func TestProtocolVersionCompatible(t *testing.T) {
	newer := ProtocolVersion{Major: CurrentVersion.Major, Minor: CurrentVersion.Minor + 1}
	if !newer.Compatible() {
		t.Error("minor bump should be compatible")
	}
	other := ProtocolVersion{Major: CurrentVersion.Major + 1}
	if other.Compatible() {
		t.Error("major bump should not be compatible")
	}
}

func TestHandshakeStatusString(t *testing.T) {
	if got := HandshakeUnknownTable.String(); got != "UnknownTable" {
		t.Errorf("String() = %q", got)
	}
	if got := HandshakeStatus(0x77).String(); got != "Unknown" {
		t.Errorf("String() = %q", got)
	}
}
