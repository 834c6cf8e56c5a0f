package log

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// Common errors that can happen on node startup.
var (
	ErrMalformedConfig  = newFatalError("ERR_MALFORMED_CONFIG", "config file is malformed: %v")
	ErrEnsureDataDir    = newFatalError("ERR_ENSURE_DATA_DIR", "could not open/create data dir %v: %v")
	ErrLockDataDir      = newFatalError("ERR_LOCK_DATA_DIR", "data dir %v is used by another process")
	ErrRetrieveIdentity = newFatalError("ERR_RETRIEVE_IDENTITY", "could not retrieve identity: %v")
	ErrOpenDatabase     = newFatalError("ERR_OPEN_DATABASE", "could not open database at %v: %v")
)

// FatalError describes an error that stops the hub from starting.
type FatalError struct {
	Code string
	Text string
	Args []any
}

func newFatalError(code, text string) func(args ...any) *FatalError {
	return func(args ...any) *FatalError {
		return &FatalError{
			Code: code,
			Text: text,
			Args: args,
		}
	}
}

func (fe *FatalError) Error() string {
	return fmt.Sprintf(fe.Text, fe.Args...)
}

// Unwrap exposes wrapped error arguments to errors.Is and errors.As.
func (fe *FatalError) Unwrap() []error {
	var errs []error
	for _, arg := range fe.Args {
		if err, ok := arg.(error); ok {
			errs = append(errs, err)
		}
	}
	return errs
}

// MarshalLogObject implements logging encoder for FatalError.
func (fe *FatalError) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("code", fe.Code)
	encoder.AddString("error", fe.Error())
	return nil
}
