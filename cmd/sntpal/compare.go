package main

import (
	"fmt"
	"time"

	beevik "github.com/beevik/ntp"
)

// referenceOffset asks the server for the clock offset through an independent
// SNTP implementation.
func referenceOffset(server string, timeout time.Duration) (time.Duration, error) {
	response, err := beevik.QueryWithOptions(server, beevik.QueryOptions{Timeout: timeout})
	if err != nil {
		return 0, err
	}
	if err := response.Validate(); err != nil {
		return 0, err
	}
	return response.ClockOffset, nil
}

func formatComparison(offset float64, reference time.Duration) string {
	difference := offset - reference.Seconds()
	return fmt.Sprintf("reference offset: %+.6f s (difference %+.3f ms)", reference.Seconds(), difference*1e3)
}
