package log

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ShortString is implemented by identifiers that have a compact log form.
type ShortString interface {
	ShortString() string
}

// ZShortStringer is a zap field for a value with a ShortString method.
func ZShortStringer(key string, val ShortString) zap.Field {
	return zap.Stringer(key, shortStringAdapter{val: val})
}

type shortStringAdapter struct {
	val ShortString
}

func (a shortStringAdapter) String() string {
	return a.val.ShortString()
}

// ZHex logs bytes as a hex string.
func ZHex(key string, val []byte) zap.Field {
	return zap.String(key, fmt.Sprintf("%x", val))
}

// ZContext adds request and session ids carried by ctx to the log entry.
func ZContext(ctx context.Context) zap.Field {
	return zap.Inline(&marshalledContext{Context: ctx})
}

type marshalledContext struct {
	context.Context
}

func (c *marshalledContext) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	if c.Context == nil {
		return nil
	}
	if reqID, ok := ExtractRequestID(c.Context); ok {
		encoder.AddString("requestId", reqID)
	}
	if sessionID, ok := ExtractSessionID(c.Context); ok {
		encoder.AddString("sessionId", sessionID)
	}
	for _, field := range ExtractRequestFields(c.Context) {
		field.AddTo(encoder)
	}
	return nil
}
