package main

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/AndrewLester/sntpal/pkg/sntp"
)

const samplePause = time.Second

var ErrNoResponse = errors.New("server did not respond")

// sample runs up to n exchanges, records the one with the lowest delay and
// returns it. An unsynchronized server ends the run early.
func sample(client *sntp.Client, n int, pause time.Duration, progress func()) (*sntp.SyncResult, error) {
	var best *sntp.SyncResult
	var lastErr error

	for i := 0; i < n; i++ {
		if i > 0 && pause > 0 {
			time.Sleep(pause)
		}

		result, err := client.SyncOnce()
		if progress != nil {
			progress()
		}
		if err != nil {
			if errors.Is(err, sntp.ErrUnsynchronized) {
				return nil, err
			}
			lastErr = err
			continue
		}

		if best == nil || result.Delay < best.Delay {
			best = result
		}
	}

	if best == nil {
		if lastErr == nil {
			lastErr = ErrNoResponse
		}
		return nil, lastErr
	}

	client.RecordSync(*best)
	return best, nil
}

func formatResult(result *sntp.SyncResult) string {
	offsetString := strconv.FormatFloat(result.Offset, 'G', 5, 64)
	if result.Offset > 0 {
		offsetString = "+" + offsetString
	}
	errString := strconv.FormatFloat(result.ErrorBound(), 'G', 5, 64)

	host := result.Address
	if h, _, err := net.SplitHostPort(result.Address); err == nil {
		host = h
	}
	return fmt.Sprint(offsetString, " +/- ", errString, " ", result.Server, " ", host)
}
