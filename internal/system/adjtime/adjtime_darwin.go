package adjtime

import (
	"time"

	"golang.org/x/sys/unix"
)

// Adjtime slews the clock by the given amount.
func Adjtime(sec int64, usec int32) error {
	timeVal := unix.NsecToTimeval(sec*int64(time.Second) + int64(usec)*int64(time.Microsecond))
	return unix.Adjtime(&timeVal, nil)
}
