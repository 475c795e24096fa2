//go:build darwin || linux

package system

import (
	"math"

	"github.com/AndrewLester/sntpal/internal/system/adjtime"
	"github.com/AndrewLester/sntpal/internal/system/settimeofday"
	"golang.org/x/sys/unix"
)

// Clock reads the host's realtime and elapsed clocks.
type Clock struct{}

func (Clock) WallClockMillis() uint64 {
	return readMillis(unix.CLOCK_REALTIME)
}

// ElapsedMillis is immune to settimeofday and to slewing by other NTP daemons.
func (Clock) ElapsedMillis() uint64 {
	return readMillis(elapsedClockID)
}

func readMillis(clockID int32) uint64 {
	var ts unix.Timespec
	if err := unix.ClockGettime(clockID, &ts); err != nil {
		return 0
	}
	return uint64(ts.Sec)*1000 + uint64(ts.Nsec)/1e6
}

// StepTime moves the realtime clock by offset seconds in one jump.
func StepTime(offset float64) error {
	var now unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_REALTIME, &now); err != nil {
		return err
	}

	target := float64(now.Sec) + float64(now.Nsec)/1e9 + offset
	sec, usec := splitSeconds(target)
	return settimeofday.Settimeofday(sec, usec)
}

// AdjustTime hands the offset to the kernel instead of setting the clock directly.
func AdjustTime(offset float64) error {
	if offset == 0 {
		return nil
	}

	sec, usec := splitSeconds(offset)
	return adjtime.Adjtime(sec, usec)
}

// splitSeconds breaks seconds into whole seconds and a non-negative microsecond part.
func splitSeconds(seconds float64) (int64, int32) {
	sec := math.Floor(seconds)
	usec := int32(math.Round((seconds - sec) * 1e6))
	if usec >= 1e6 {
		sec++
		usec -= 1e6
	}
	return int64(sec), usec
}
