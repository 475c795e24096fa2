package main

import (
	"testing"
	"time"

	"github.com/AndrewLester/sntpal/internal/rpc"
	"github.com/stretchr/testify/assert"
)

func TestStatusRowUnsynchronized(t *testing.T) {
	row := statusRow(rpc.Status{Server: "pool.example"})
	assert.Equal(t, "pool.example", row[0])
	assert.Equal(t, "unsynchronized", row[1])
}

func TestStatusRowSynchronized(t *testing.T) {
	serverTime := time.Date(2024, 3, 9, 12, 30, 15, 0, time.Local)
	row := statusRow(rpc.Status{
		Server:        "pool.example",
		Synced:        true,
		ServerTime:    float64(serverTime.Unix()) + 0.25,
		SinceLastSync: 75.6,
		Offset:        -0.0125,
		ErrorBound:    0.004,
		Stratum:       2,
		ReferenceID:   "10.0.0.1",
	})

	assert.Equal(t, []string{
		"pool.example",
		"2024-03-09 12:30:15",
		"-12.5",
		"4",
		"2 (10.0.0.1)",
		"1m15s ago",
	}, []string(row))
}
