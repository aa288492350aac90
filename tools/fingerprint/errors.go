package fingerprint

import "errors"

// Error kinds. Match them with errors.Is.
var (
	ErrEnvironmentUnavailable = errors.New("environment unavailable")
	ErrAttributeUnavailable   = errors.New("attribute unavailable")
	ErrSerializationFailed    = errors.New("serialization failed")
)

// Messages carried by Error.
const (
	MsgNoWindow     = "No global window available"
	MsgNoScreen     = "No screen available"
	MsgUserAgent    = "Failed to get user agent"
	MsgPlatform     = "Failed to get platform"
	MsgLanguages    = "Failed to get languages"
	MsgScreenWidth  = "Failed to get screen width"
	MsgScreenHeight = "Failed to get screen height"
	MsgColorDepth   = "Failed to get color depth"
	MsgSerialize    = "Failed to serialize fingerprint"
)

// Error is the single error type returned by fingerprint generation.
// Message is meant to be shown to the caller as is.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	return e.Kind != nil && e.Kind == target
}

// EnvironmentUnavailable reports a missing host execution context.
func EnvironmentUnavailable(message string) *Error {
	return &Error{Kind: ErrEnvironmentUnavailable, Message: message}
}

// AttributeUnavailable reports an accessor that could not produce a value.
func AttributeUnavailable(message string, cause error) *Error {
	return &Error{Kind: ErrAttributeUnavailable, Message: message, Err: cause}
}
