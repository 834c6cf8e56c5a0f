package types

import (
	"bytes"
	"time"

	"github.com/spacemeshos/go-scale"
	"go.uber.org/zap/zapcore"
)

//go:generate scalegen -types Message

// MaxMessageBodySize bounds the opaque payload of a message.
const MaxMessageBodySize = 1 << 16

// Epoch is the origin of message timestamps, 2021-01-01 00:00:00 UTC.
var Epoch = time.Unix(1_609_459_200, 0).UTC()

// ToMessageTime converts a wall clock time to a message timestamp.
// Times before Epoch map to zero.
func ToMessageTime(t time.Time) uint32 {
	if t.Before(Epoch) {
		return 0
	}
	return uint32(t.Sub(Epoch) / time.Second)
}

// Message is a content-addressed protocol message. Only its fid, timestamp and
// hash matter for sync, the body is carried through untouched.
type Message struct {
	Fid       uint64
	Timestamp uint32
	Type      uint8
	Body      []byte `scale:"max=65536"`
	Hash      Hash20
}

// NewMessage builds a message and computes its hash.
func NewMessage(fid uint64, timestamp uint32, typ uint8, body []byte) *Message {
	msg := &Message{Fid: fid, Timestamp: timestamp, Type: typ, Body: body}
	msg.Hash = msg.CalcHash()
	return msg
}

// CalcHash returns the digest of the scale encoded header followed by the raw body.
func (m *Message) CalcHash() Hash20 {
	var buf bytes.Buffer
	enc := scale.NewEncoder(&buf)
	// writes to a bytes.Buffer do not fail
	_, _ = scale.EncodeCompact64(enc, m.Fid)
	_, _ = scale.EncodeCompact32(enc, m.Timestamp)
	_, _ = scale.EncodeCompact8(enc, m.Type)
	return CalcHash20(buf.Bytes(), m.Body)
}

// Time returns the wall clock time the author put on the message.
func (m *Message) Time() time.Time {
	return Epoch.Add(time.Duration(m.Timestamp) * time.Second)
}

// Verify reports whether the carried hash matches the content.
func (m *Message) Verify() bool {
	return m.CalcHash() == m.Hash
}

// MarshalLogObject implements logging interface.
func (m *Message) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddUint64("fid", m.Fid)
	encoder.AddUint32("timestamp", m.Timestamp)
	encoder.AddUint8("type", m.Type)
	encoder.AddString("hash", m.Hash.ShortString())
	encoder.AddInt("body_size", len(m.Body))
	return nil
}
