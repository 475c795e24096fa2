package system

import "golang.org/x/sys/unix"

const elapsedClockID = unix.CLOCK_MONOTONIC
