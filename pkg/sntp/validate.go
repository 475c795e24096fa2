package sntp

import (
	"fmt"

	"github.com/AndrewLester/sntpal/internal/ntp"
)

// broadcastReplyMode is the mode accepted for broadcast replies. It is the
// same value as the server mode, so a mode 5 (ntp.BROADCAST_SERVER) reply is
// rejected.
// TODO: confirm with upstream whether broadcast replies should be matched on
// ntp.BROADCAST_SERVER instead.
const broadcastReplyMode = ntp.SERVER

// validateReply checks a decoded reply against the transmit timestamp that was
// sent in the request.
func validateReply(reply *ntp.Packet, sent ntp.Timestamp) error {
	if reply.Leap == ntp.LeapNoSync {
		return ErrUnsynchronized
	}

	if reply.Mode != ntp.SERVER && reply.Mode != broadcastReplyMode {
		return fmt.Errorf("%w: %d", ErrUntrustedMode, reply.Mode)
	}

	if reply.Stratum == 0 || reply.Stratum > ntp.MAXSTRAT {
		return fmt.Errorf("%w: %d", ErrUntrustedStratum, reply.Stratum)
	}

	if reply.Originate != sent {
		return ErrOriginateMismatch
	}

	if reply.Transmit.IsZero() {
		return ErrZeroTransmit
	}

	if reply.Reference.IsZero() {
		return ErrZeroReference
	}

	return nil
}
