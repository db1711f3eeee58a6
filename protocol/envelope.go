package protocol

import "fmt"

// Envelope is one directed message between nodes or clients.
type Envelope struct {
	Src  string
	Dest string
	Body Body
}

// Body holds the payload plus message identification metadata. Nil ids are
// absent on the wire, except in_reply_to on replies which encodes as null.
type Body struct {
	MsgID     *uint64
	InReplyTo *uint64
	Payload   Payload
}

// Reply builds the response to e: source and destination swapped, msgID as
// the reply's own id and e's msg_id echoed as in_reply_to.
func (e Envelope) Reply(msgID uint64, payload Payload) Envelope {
	return Envelope{
		Src:  e.Dest,
		Dest: e.Src,
		Body: Body{
			MsgID:     ID(msgID),
			InReplyTo: copyID(e.Body.MsgID),
			Payload:   payload,
		},
	}
}

// Type returns the payload tag, or "" when the body carries no payload.
func (e Envelope) Type() Type {
	if e.Body.Payload == nil {
		return ""
	}
	return e.Body.Payload.Type()
}

func (e Envelope) String() string {
	id := "-"
	if e.Body.MsgID != nil {
		id = fmt.Sprint(*e.Body.MsgID)
	}
	return fmt.Sprintf("%s %s->%s msg_id=%s", e.Type(), e.Src, e.Dest, id)
}

// ID returns a pointer to a copy of v, for populating optional ids.
func ID(v uint64) *uint64 {
	return &v
}

func copyID(id *uint64) *uint64 {
	if id == nil {
		return nil
	}
	return ID(*id)
}
