package sntp

import (
	"math"
	"testing"
	"time"

	"github.com/AndrewLester/sntpal/internal/ntp"
	"github.com/AndrewLester/sntpal/internal/ntptest"
	"github.com/AndrewLester/sntpal/internal/transport"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T, options ntptest.Options) *ntptest.Server {
	t.Helper()
	server, err := ntptest.Start(options)
	require.NoError(t, err)
	t.Cleanup(func() { server.Close() })
	return server
}

func TestClientDefaults(t *testing.T) {
	client := NewClient()
	assert.Equal(t, DefaultTimeout, client.Timeout())
	assert.Empty(t, client.Server())
	assert.False(t, client.IsSynced())
	assert.Zero(t, client.TimeSinceLastSync())
	assert.True(t, client.NeedsResync(DefaultMaxInterval))

	_, err := client.Now()
	assert.ErrorIs(t, err, ErrNotSynced)
	_, err = client.FormattedServerTime()
	assert.ErrorIs(t, err, ErrNotSynced)

	client.SetTimeout(-4)
	assert.Equal(t, 0, client.Timeout())
}

func TestClientSetServerLastWins(t *testing.T) {
	client := NewClient()
	client.SetServer("time.windows.com")
	client.SetServer("time.apple.com")
	client.SetServer("ntp.aliyun.com")
	assert.Equal(t, "ntp.aliyun.com", client.Server())
}

func TestClientEndToEnd(t *testing.T) {
	server := startServer(t, ntptest.DefaultOptions())

	clock := &fakeClock{wall: uint64(time.Now().UnixMilli()), elapsed: 90_000}
	logger, _ := test.NewNullLogger()
	client := NewClient(WithClock(clock), WithTransport(&transport.UDP{}), WithLogger(logger))
	client.SetServer(server.Addr())
	client.SetTimeout(1)

	require.NoError(t, client.Sync())
	assert.True(t, client.IsSynced())
	assert.False(t, client.NeedsResync(3600))

	result, ok := client.LastResult()
	require.True(t, ok)
	assert.Equal(t, uint64(90_000), result.AnchorMonotonicMs)

	clock.Advance(time.Second)
	serverTime, err := client.CurrentServerTime()
	require.NoError(t, err)
	assert.InDelta(t, result.AnchorServerTime+1.0, serverTime, 1e-9)
	assert.InDelta(t, 1.0, client.TimeSinceLastSync(), 1e-9)
}

func TestClientSystemClockOffset(t *testing.T) {
	options := ntptest.DefaultOptions()
	options.Offset = 2.5
	server := startServer(t, options)

	logger, _ := test.NewNullLogger()
	client := NewClient(WithLogger(logger))
	client.SetServer(server.Addr())

	require.NoError(t, client.Sync())
	result, _ := client.LastResult()
	assert.InDelta(t, 2.5, result.Offset, 0.05)
	assert.GreaterOrEqual(t, result.Delay, -0.01)
	assert.Less(t, result.Delay, 0.5)

	now, err := client.Now()
	require.NoError(t, err)
	expected := time.Now().Add(2500 * time.Millisecond)
	assert.WithinDuration(t, expected, now, 100*time.Millisecond)

	formatted, err := client.FormattedServerTime()
	require.NoError(t, err)
	assert.Len(t, formatted, len(time.DateTime))
}

func TestClientRejectsFaultyServer(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(o *ntptest.Options)
		kind   Kind
		reason error
	}{
		{"leap", func(o *ntptest.Options) { o.Leap = ntp.LeapNoSync }, KindUntrustedReply, ErrUnsynchronized},
		{"stratum", func(o *ntptest.Options) { o.Stratum = 16 }, KindUntrustedReply, ErrUntrustedStratum},
		{"originate", func(o *ntptest.Options) { o.WrongOriginate = true }, KindUntrustedReply, ErrOriginateMismatch},
		{"reference", func(o *ntptest.Options) { o.ZeroReference = true }, KindUntrustedReply, ErrZeroReference},
		{"transmit", func(o *ntptest.Options) { o.ZeroTransmit = true }, KindUntrustedReply, ErrZeroTransmit},
		{"truncated", func(o *ntptest.Options) { o.Truncate = true }, KindMalformedPacket, ErrMalformedPacket},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			options := ntptest.DefaultOptions()
			tt.mutate(&options)
			server := startServer(t, options)

			logger, _ := test.NewNullLogger()
			client := NewClient(WithLogger(logger))
			client.SetServer(server.Addr())

			err := client.Sync()
			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err))
			assert.ErrorIs(t, err, tt.reason)
			assert.False(t, client.IsSynced())
		})
	}
}

func TestClientTimeoutKeepsAnchor(t *testing.T) {
	server := startServer(t, ntptest.DefaultOptions())

	logger, _ := test.NewNullLogger()
	client := NewClient(WithLogger(logger))
	client.SetServer(server.Addr())
	require.NoError(t, client.Sync())
	before, _ := client.LastResult()

	options := ntptest.DefaultOptions()
	options.Drop = true
	server.Set(options)

	start := time.Now()
	err := client.Sync()
	require.Error(t, err)
	assert.Equal(t, KindTransport, KindOf(err))
	assert.Less(t, time.Since(start), 3*time.Second)

	after, _ := client.LastResult()
	assert.Equal(t, before, after)
	assert.True(t, client.IsSynced())
	serverTime, err := client.CurrentServerTime()
	require.NoError(t, err)
	assert.False(t, math.IsNaN(serverTime))
}

func TestClientRecordSync(t *testing.T) {
	clock := &fakeClock{elapsed: 7_000}
	client := NewClient(WithClock(clock))

	client.RecordSync(SyncResult{Offset: 0.5, AnchorMonotonicMs: 7_000, AnchorServerTime: 1_700_000_000})
	assert.True(t, client.IsSynced())

	now, err := client.Now()
	require.NoError(t, err)
	assert.Equal(t, int64(1_700_000_000), now.Unix())
}

func TestSyncResultErrorBound(t *testing.T) {
	result := SyncResult{Delay: 0.02, RootDelay: 0.01, RootDispersion: 0.003}
	assert.InDelta(t, 0.028, result.ErrorBound(), 1e-12)
}
