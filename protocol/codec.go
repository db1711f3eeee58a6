package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tobiajo/whirlpool/utils"
)

// wireEnvelope is the JSON shape of an envelope. Pointers detect missing keys.
type wireEnvelope struct {
	Src  *string         `json:"src"`
	Dest *string         `json:"dest"`
	Body json.RawMessage `json:"body"`
}

type outboundEnvelope struct {
	Src  string         `json:"src"`
	Dest string         `json:"dest"`
	Body map[string]any `json:"body"`
}

// Decode parses one wire line into an Envelope. Every failure is a
// MalformedMessage error.
func Decode(line []byte) (Envelope, error) {
	var wire wireEnvelope
	if err := json.Unmarshal(line, &wire); err != nil {
		return Envelope{}, Malformed(err, "unmarshal envelope")
	}
	if wire.Src == nil {
		return Envelope{}, Malformed(nil, "missing src")
	}
	if wire.Dest == nil {
		return Envelope{}, Malformed(nil, "missing dest")
	}

	body, err := decodeBody(wire.Body)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		Src:  *wire.Src,
		Dest: *wire.Dest,
		Body: body,
	}, nil
}

func decodeBody(raw json.RawMessage) (Body, error) {
	if isNull(raw) {
		return Body{}, Malformed(nil, "missing body")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Body{}, Malformed(err, "unmarshal body")
	}

	rawType, ok := fields["type"]
	if !ok || isNull(rawType) {
		return Body{}, Malformed(nil, "missing type")
	}
	var typ Type
	if err := json.Unmarshal(rawType, &typ); err != nil {
		return Body{}, Malformed(err, "invalid type")
	}
	v, ok := variants[typ]
	if !ok {
		return Body{}, Malformed(nil, "unknown type %q", typ)
	}

	msgID, err := optionalID(fields, "msg_id")
	if err != nil {
		return Body{}, err
	}
	inReplyTo, err := optionalID(fields, "in_reply_to")
	if err != nil {
		return Body{}, err
	}

	for _, key := range v.required {
		if f, ok := fields[key]; !ok || isNull(f) {
			return Body{}, Malformed(nil, "%s: missing field %q", typ, key)
		}
	}
	if len(v.anyOf) > 0 && !hasAny(fields, v.anyOf) {
		return Body{}, Malformed(nil, "%s: expected one of %q", typ, v.anyOf)
	}

	payload, err := v.decode(raw)
	if err != nil {
		return Body{}, Malformed(err, "decode %s payload", typ)
	}
	return Body{
		MsgID:     msgID,
		InReplyTo: inReplyTo,
		Payload:   payload,
	}, nil
}

func optionalID(fields map[string]json.RawMessage, key string) (*uint64, error) {
	raw, ok := fields[key]
	if !ok || isNull(raw) {
		return nil, nil
	}
	var id uint64
	if err := json.Unmarshal(raw, &id); err != nil {
		return nil, Malformed(err, "invalid %s", key)
	}
	return &id, nil
}

func hasAny(fields map[string]json.RawMessage, keys []string) bool {
	for _, key := range keys {
		if f, ok := fields[key]; ok && !isNull(f) {
			return true
		}
	}
	return false
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// Encode renders env as a single JSON document without a trailing newline.
// Payload fields are flattened into the body next to type, msg_id and
// in_reply_to; absent ids are omitted.
func Encode(env Envelope) ([]byte, error) {
	if env.Body.Payload == nil {
		return nil, fmt.Errorf("encode envelope to %s: missing payload", env.Dest)
	}

	body, err := utils.AsJSON(env.Body.Payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", env.Type(), err)
	}
	body["type"] = env.Type()
	if env.Body.MsgID != nil {
		body["msg_id"] = *env.Body.MsgID
	}
	switch {
	case env.Body.InReplyTo != nil:
		body["in_reply_to"] = *env.Body.InReplyTo
	case IsReply(env.Body.Payload):
		// Replies always carry in_reply_to, null when the request had no msg_id.
		body["in_reply_to"] = nil
	}

	return json.Marshal(outboundEnvelope{
		Src:  env.Src,
		Dest: env.Dest,
		Body: body,
	})
}
