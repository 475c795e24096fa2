package sntp

import (
	"errors"
	"fmt"

	"github.com/AndrewLester/sntpal/internal/ntp"
)

// Kind classifies why a synchronization attempt failed.
type Kind int

const (
	KindResolution Kind = iota + 1
	KindTransport
	KindMalformedPacket
	KindUntrustedReply
)

var (
	ErrResolution      = errors.New("server resolution failed")
	ErrTransport       = errors.New("transport failed")
	ErrMalformedPacket = ntp.ErrMalformedPacket
	ErrUntrustedReply  = errors.New("untrusted reply")

	ErrNotSynced = errors.New("not synchronized yet")
)

// Reasons a reply is untrusted. They are wrapped by a KindUntrustedReply SyncError.
var (
	ErrUnsynchronized    = errors.New("unsynchronized server")
	ErrUntrustedMode     = errors.New("untrusted mode")
	ErrUntrustedStratum  = errors.New("untrusted stratum")
	ErrOriginateMismatch = errors.New("originate timestamp does not match request transmit timestamp")
	ErrZeroTransmit      = errors.New("zero transmit timestamp")
	ErrZeroReference     = errors.New("zero reference timestamp")
)

func (k Kind) String() string {
	switch k {
	case KindResolution:
		return "resolution"
	case KindTransport:
		return "transport"
	case KindMalformedPacket:
		return "malformed packet"
	case KindUntrustedReply:
		return "untrusted reply"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindResolution:
		return ErrResolution
	case KindTransport:
		return ErrTransport
	case KindMalformedPacket:
		return ErrMalformedPacket
	case KindUntrustedReply:
		return ErrUntrustedReply
	}
	return nil
}

// SyncError is returned by every failed synchronization attempt.
type SyncError struct {
	Kind   Kind
	Server string
	Err    error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sntp %s: %s: %v", e.Server, e.Kind, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind, so errors.Is(err, ErrTransport)
// works without inspecting the cause.
func (e *SyncError) Is(target error) bool {
	sentinel := e.Kind.sentinel()
	return sentinel != nil && target == sentinel
}

// KindOf returns the failure kind of err, or 0 if err is not a SyncError.
func KindOf(err error) Kind {
	var syncErr *SyncError
	if errors.As(err, &syncErr) {
		return syncErr.Kind
	}
	return 0
}
