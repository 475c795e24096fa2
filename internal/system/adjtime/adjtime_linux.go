package adjtime

import (
	"time"

	"golang.org/x/sys/unix"
)

// Adjtime applies the offset through adjtimex(ADJ_SETOFFSET), which the kernel
// adds to the current time atomically.
func Adjtime(sec int64, usec int32) error {
	buf := &unix.Timex{
		Time:  unix.NsecToTimeval(sec*int64(time.Second) + int64(usec)*int64(time.Microsecond)),
		Modes: unix.ADJ_SETOFFSET,
	}
	_, err := unix.Adjtimex(buf)
	return err
}
