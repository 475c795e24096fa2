//go:build darwin || linux

package settimeofday

import (
	"time"

	"golang.org/x/sys/unix"
)

// Settimeofday sets the realtime clock. Requires CAP_SYS_TIME or root.
func Settimeofday(sec int64, usec int32) error {
	timeVal := unix.NsecToTimeval(sec*int64(time.Second) + int64(usec)*int64(time.Microsecond))
	return unix.Settimeofday(&timeVal)
}
