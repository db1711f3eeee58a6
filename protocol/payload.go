package protocol

import (
	"encoding/json"

	"github.com/tobiajo/whirlpool/common"
)

// Type is the value of a body's "type" tag.
type Type string

const (
	TypeEcho        Type = "echo"
	TypeEchoOk      Type = "echo_ok"
	TypeInit        Type = "init"
	TypeInitOk      Type = "init_ok"
	TypeGenerate    Type = "generate"
	TypeGenerateOk  Type = "generate_ok"
	TypeAdd         Type = "add"
	TypeAddOk       Type = "add_ok"
	TypeBroadcast   Type = "broadcast"
	TypeBroadcastOk Type = "broadcast_ok"
	TypeRead        Type = "read"
	TypeReadOk      Type = "read_ok"
	TypeTopology    Type = "topology"
	TypeTopologyOk  Type = "topology_ok"
)

// Payload is the closed set of body variants. Field names follow the wire.
type Payload interface {
	Type() Type
	isPayload()
}

// IsReply reports whether p belongs to the reply family.
func IsReply(p Payload) bool {
	v, ok := variants[p.Type()]
	return ok && v.reply
}

type Echo struct {
	Echo string `json:"echo"`
}

type EchoOk struct {
	Echo string `json:"echo"`
}

type Init struct {
	NodeID  string   `json:"node_id"`
	NodeIDs []string `json:"node_ids"`
}

type InitOk struct{}

type Generate struct{}

type GenerateOk struct {
	ID string `json:"id"`
}

type Add struct {
	Delta uint64 `json:"delta"`
}

type AddOk struct{}

type Broadcast struct {
	Message uint64 `json:"message"`
}

type BroadcastOk struct{}

type Read struct{}

// ReadOk carries either the counter value or the broadcast log, never both.
type ReadOk struct {
	Value    *uint64  `json:"value"`
	Messages []uint64 `json:"messages"`
}

// ReadValue builds the counter workload's read reply.
func ReadValue(v uint64) ReadOk {
	return ReadOk{Value: &v}
}

// ReadMessages builds the log workload's read reply. An empty log is
// encoded as an empty array.
func ReadMessages(messages []uint64) ReadOk {
	if messages == nil {
		messages = []uint64{}
	}
	return ReadOk{Messages: messages}
}

func (r ReadOk) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any)
	if r.Value != nil {
		obj["value"] = *r.Value
	}
	if r.Messages != nil {
		obj["messages"] = r.Messages
	}
	return json.Marshal(obj)
}

type Topology struct {
	Topology map[string]common.NodeSet `json:"topology"`
}

type TopologyOk struct{}

func (Echo) Type() Type        { return TypeEcho }
func (EchoOk) Type() Type      { return TypeEchoOk }
func (Init) Type() Type        { return TypeInit }
func (InitOk) Type() Type      { return TypeInitOk }
func (Generate) Type() Type    { return TypeGenerate }
func (GenerateOk) Type() Type  { return TypeGenerateOk }
func (Add) Type() Type         { return TypeAdd }
func (AddOk) Type() Type       { return TypeAddOk }
func (Broadcast) Type() Type   { return TypeBroadcast }
func (BroadcastOk) Type() Type { return TypeBroadcastOk }
func (Read) Type() Type        { return TypeRead }
func (ReadOk) Type() Type      { return TypeReadOk }
func (Topology) Type() Type    { return TypeTopology }
func (TopologyOk) Type() Type  { return TypeTopologyOk }

func (Echo) isPayload()        {}
func (EchoOk) isPayload()      {}
func (Init) isPayload()        {}
func (InitOk) isPayload()      {}
func (Generate) isPayload()    {}
func (GenerateOk) isPayload()  {}
func (Add) isPayload()         {}
func (AddOk) isPayload()       {}
func (Broadcast) isPayload()   {}
func (BroadcastOk) isPayload() {}
func (Read) isPayload()        {}
func (ReadOk) isPayload()      {}
func (Topology) isPayload()    {}
func (TopologyOk) isPayload()  {}

// variant describes how to decode one payload tag.
type variant struct {
	decode   func(body []byte) (Payload, error)
	required []string
	anyOf    []string
	reply    bool
}

var variants = map[Type]variant{
	TypeEcho:        {decode: decodeAs[Echo], required: []string{"echo"}},
	TypeEchoOk:      {decode: decodeAs[EchoOk], required: []string{"echo"}, reply: true},
	TypeInit:        {decode: decodeAs[Init], required: []string{"node_id", "node_ids"}},
	TypeInitOk:      {decode: decodeAs[InitOk], reply: true},
	TypeGenerate:    {decode: decodeAs[Generate]},
	TypeGenerateOk:  {decode: decodeAs[GenerateOk], required: []string{"id"}, reply: true},
	TypeAdd:         {decode: decodeAs[Add], required: []string{"delta"}},
	TypeAddOk:       {decode: decodeAs[AddOk], reply: true},
	TypeBroadcast:   {decode: decodeAs[Broadcast], required: []string{"message"}},
	TypeBroadcastOk: {decode: decodeAs[BroadcastOk], reply: true},
	TypeRead:        {decode: decodeAs[Read]},
	TypeReadOk:      {decode: decodeAs[ReadOk], anyOf: []string{"value", "messages"}, reply: true},
	TypeTopology:    {decode: decodeAs[Topology], required: []string{"topology"}},
	TypeTopologyOk:  {decode: decodeAs[TopologyOk], reply: true},
}

func decodeAs[P Payload](body []byte) (Payload, error) {
	var p P
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, err
	}
	return p, nil
}
