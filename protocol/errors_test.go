package protocol

import (
	"errors"
	"fmt"
	"testing"

	maelstrom "github.com/jepsen-io/maelstrom/demo/go"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{Unexpected(TypeEchoOk), "unexpected reply: received echo_ok message"},
		{Unsupported(TypeAdd, "log"), "unsupported request: add is not served by the log workload"},
		{Malformed(nil, "missing src"), "malformed message: missing src"},
		{WriteFailure(errors.New("broken pipe")), "transport write failure: write reply: broken pipe"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error = %q, want %q", got, tt.want)
		}
	}
}

func TestError_Code(t *testing.T) {
	for _, tt := range []struct {
		kind ErrorKind
		code int
		text string
	}{
		{MalformedMessage, maelstrom.MalformedRequest, "MalformedRequest"},
		{UnexpectedReply, maelstrom.Abort, "Abort"},
		{UnsupportedRequest, maelstrom.NotSupported, "NotSupported"},
		{TransportWriteFailure, maelstrom.Crash, "Crash"},
	} {
		err := &Error{Kind: tt.kind}
		if got := err.Code(); got != tt.code {
			t.Errorf("%s: code = %d, want %d", tt.kind, got, tt.code)
		}
		if got := err.CodeText(); got != tt.text {
			t.Errorf("%s: code text = %s, want %s", tt.kind, got, tt.text)
		}
	}
}

func TestIsKind(t *testing.T) {
	cause := errors.New("eof")
	err := fmt.Errorf("line 3: %w", WriteFailure(cause))
	if !IsKind(err, TransportWriteFailure) {
		t.Errorf("IsKind(%v, TransportWriteFailure) = false", err)
	}
	if IsKind(err, MalformedMessage) {
		t.Errorf("IsKind(%v, MalformedMessage) = true", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("wrapped cause lost: %v", err)
	}
	if IsKind(cause, TransportWriteFailure) {
		t.Errorf("plain error classified as protocol error")
	}
}
