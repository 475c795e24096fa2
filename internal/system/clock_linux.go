package system

import "golang.org/x/sys/unix"

// CLOCK_BOOTTIME keeps counting across suspend, like Android's elapsedRealtime.
const elapsedClockID = unix.CLOCK_BOOTTIME
