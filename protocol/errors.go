package protocol

import (
	"errors"
	"fmt"

	maelstrom "github.com/jepsen-io/maelstrom/demo/go"
)

// ErrorKind classifies the failures a node can hit while processing input.
type ErrorKind int

const (
	// MalformedMessage: the inbound line is not a valid envelope.
	MalformedMessage ErrorKind = iota
	// UnexpectedReply: a reply-family payload other than init_ok arrived.
	UnexpectedReply
	// UnsupportedRequest: a workload request the configured workload does not serve.
	UnsupportedRequest
	// TransportWriteFailure: the output sink rejected an encoded reply.
	TransportWriteFailure
)

func (k ErrorKind) String() string {
	switch k {
	case MalformedMessage:
		return "malformed message"
	case UnexpectedReply:
		return "unexpected reply"
	case UnsupportedRequest:
		return "unsupported request"
	case TransportWriteFailure:
		return "transport write failure"
	default:
		return fmt.Sprintf("ErrorKind<%d>", int(k))
	}
}

// Code maps the kind onto the Maelstrom RPC error code space.
func (k ErrorKind) Code() int {
	switch k {
	case MalformedMessage:
		return maelstrom.MalformedRequest
	case UnexpectedReply:
		return maelstrom.Abort
	case UnsupportedRequest:
		return maelstrom.NotSupported
	default:
		return maelstrom.Crash
	}
}

// Error is returned for every protocol-level failure.
type Error struct {
	Kind   ErrorKind
	Detail string
	Err    error
}

func newError(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{
		Kind:   kind,
		Detail: fmt.Sprintf(format, args...),
		Err:    err,
	}
}

// Malformed returns a MalformedMessage error.
func Malformed(err error, format string, args ...any) *Error {
	return newError(MalformedMessage, err, format, args...)
}

// Unexpected returns an UnexpectedReply error for an inbound reply payload.
func Unexpected(typ Type) *Error {
	return newError(UnexpectedReply, nil, "received %s message", typ)
}

// Unsupported returns an UnsupportedRequest error for a request the workload does not serve.
func Unsupported(typ Type, workload string) *Error {
	return newError(UnsupportedRequest, nil, "%s is not served by the %s workload", typ, workload)
}

// WriteFailure returns a TransportWriteFailure error.
func WriteFailure(err error) *Error {
	return newError(TransportWriteFailure, err, "write reply")
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Code returns the Maelstrom error code of the failure.
func (e *Error) Code() int {
	return e.Kind.Code()
}

// CodeText returns the Maelstrom name of the failure's code.
func (e *Error) CodeText() string {
	return maelstrom.ErrorCodeText(e.Code())
}

// IsKind reports whether err, or any error it wraps, is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var perr *Error
	return errors.As(err, &perr) && perr.Kind == kind
}
