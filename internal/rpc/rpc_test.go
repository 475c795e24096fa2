package rpc

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchStatus(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "sntpal.sock")
	var calls atomic.Int32
	server := &SNTPalRPCServer{
		Socket: socket,
		Status: func() Status {
			calls.Add(1)
			return Status{Server: "time.apple.com", Synced: true, ServerTime: 1_700_000_000.5, Stratum: 1}
		},
	}
	require.NoError(t, server.Listen())

	done := make(chan error, 1)
	go func() { done <- server.Serve() }()

	client, err := Dial(socket)
	require.NoError(t, err)
	defer client.Close()

	status, err := client.FetchStatus()
	require.NoError(t, err)
	assert.Equal(t, "time.apple.com", status.Server)
	assert.True(t, status.Synced)
	assert.Equal(t, 1_700_000_000.5, status.ServerTime)
	assert.Equal(t, uint8(1), status.Stratum)
	assert.Equal(t, int32(1), calls.Load())

	require.NoError(t, server.Close())
	assert.NoError(t, <-done)
}

func TestListenReplacesStaleSocket(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "sntpal.sock")
	require.NoError(t, os.WriteFile(socket, nil, 0600))

	server := &SNTPalRPCServer{Socket: socket, Status: func() Status { return Status{} }}
	require.NoError(t, server.Listen())
	assert.NoError(t, server.Close())
}

func TestServeWithoutListen(t *testing.T) {
	server := &SNTPalRPCServer{Socket: "unused"}
	assert.Error(t, server.Serve())
	assert.NoError(t, server.Close())
}
