package appointments

import (
	"context"
	"errors"
	"fmt"
)

// UpstreamError reports a failed completion call: transport, auth, rate limit,
// provider-side rejection or timeout.
type UpstreamError struct {
	Provider string
	Model    string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("appointments: %s completion failed (model %s): %v", e.Provider, e.Model, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Timeout reports whether the call ran out of time rather than being rejected.
func (e *UpstreamError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// MalformedResponseError reports completion text that is not JSON after the
// code fences were stripped. Raw keeps the untouched text for diagnostics.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("appointments: could not parse completion response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }
