package node

import (
	"fmt"
	"strings"

	"github.com/tobiajo/whirlpool/protocol"
	"golang.org/x/exp/slices"
)

// Kind names a workload.
type Kind string

const (
	// Counter serves add and read against a single accumulator.
	Counter Kind = "counter"
	// Log serves broadcast and read against an append-only log.
	Log Kind = "log"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case Counter:
		return Counter, nil
	case Log:
		return Log, nil
	default:
		return "", fmt.Errorf("unknown workload %q", s)
	}
}

// Workload applies the domain-specific requests (add, broadcast, read) and
// returns the reply payload. Envelope and id bookkeeping stay in Node.
type Workload interface {
	Kind() Kind
	Apply(req protocol.Payload) (protocol.Payload, error)
}

func NewWorkload(kind Kind) (Workload, error) {
	switch kind {
	case Counter:
		return &CounterWorkload{}, nil
	case Log:
		return &LogWorkload{}, nil
	default:
		return nil, fmt.Errorf("unknown workload %q", kind)
	}
}

type CounterWorkload struct {
	value uint64
}

func (w *CounterWorkload) Kind() Kind { return Counter }

func (w *CounterWorkload) Value() uint64 { return w.value }

func (w *CounterWorkload) Apply(req protocol.Payload) (protocol.Payload, error) {
	switch req := req.(type) {
	case protocol.Add:
		return w.addHandler(req)
	case protocol.Read:
		return w.readHandler(req)
	default:
		return nil, protocol.Unsupported(req.Type(), string(Counter))
	}
}

func (w *CounterWorkload) addHandler(req protocol.Add) (protocol.AddOk, error) {
	w.value += req.Delta
	return protocol.AddOk{}, nil
}

func (w *CounterWorkload) readHandler(req protocol.Read) (protocol.ReadOk, error) {
	return protocol.ReadValue(w.value), nil
}

type LogWorkload struct {
	messages []uint64
}

func (w *LogWorkload) Kind() Kind { return Log }

// Messages returns a copy of the log in arrival order.
func (w *LogWorkload) Messages() []uint64 {
	return slices.Clone(w.messages)
}

func (w *LogWorkload) Apply(req protocol.Payload) (protocol.Payload, error) {
	switch req := req.(type) {
	case protocol.Broadcast:
		return w.broadcastHandler(req)
	case protocol.Read:
		return w.readHandler(req)
	default:
		return nil, protocol.Unsupported(req.Type(), string(Log))
	}
}

func (w *LogWorkload) broadcastHandler(req protocol.Broadcast) (protocol.BroadcastOk, error) {
	w.messages = append(w.messages, req.Message)
	return protocol.BroadcastOk{}, nil
}

func (w *LogWorkload) readHandler(req protocol.Read) (protocol.ReadOk, error) {
	return protocol.ReadMessages(w.Messages()), nil
}
