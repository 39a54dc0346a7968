package protocol

import (
	"testing"
)

func TestErrorMessageEncodeDecode(t *testing.T) {
	tests := []struct {
		name string
		em   *ErrorMessage
	}{
		{"handler_not_found", NewError(ErrHandlerNotFound, "no element h42")},
		{"fatal", NewFatalError(ErrSessionExpired, "session has expired")},
		{"empty_message", NewError(ErrUnknown, "")},
		{"fetch_failed", NewError(ErrFetchFailed, "upstream timeout")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			decoded, err := DecodeErrorMessage(EncodeErrorMessage(tc.em))
			if err != nil {
				t.Fatalf("DecodeErrorMessage() error = %v", err)
			}
			if *decoded != *tc.em {
				t.Errorf("decoded = %+v, want %+v", decoded, tc.em)
			}
		})
	}
}

func TestErrorMessageError(t *testing.T) {
	if got := NewError(ErrInvalidEvent, "bad").Error(); got != "InvalidEvent: bad" {
		t.Errorf("Error() = %q", got)
	}
	if got := NewFatalError(ErrServerError, "boom").Error(); got != "fatal: ServerError: boom" {
		t.Errorf("Error() = %q", got)
	}
}

func TestDecodeErrorMessageTruncated(t *testing.T) {
	data := EncodeErrorMessage(NewError(ErrServerError, "message"))
	for i := 0; i < len(data); i++ {
		if _, err := DecodeErrorMessage(data[:i]); err == nil {
			t.Errorf("DecodeErrorMessage(data[:%d]) succeeded", i)
		}
	}
}
