package transport

import (
	"net"
	"testing"
	"time"

	"github.com/AndrewLester/sntpal/internal/ntp"
	"github.com/AndrewLester/sntpal/internal/ntptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAddsNTPPort(t *testing.T) {
	var udp UDP
	addr, err := udp.Resolve("127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:123", addr.String())
}

func TestResolveKeepsExplicitPort(t *testing.T) {
	var udp UDP
	addr, err := udp.Resolve("127.0.0.1:1230")
	require.NoError(t, err)
	assert.Equal(t, 1230, addr.(*net.UDPAddr).Port)
}

func TestResolveFailures(t *testing.T) {
	var udp UDP
	_, err := udp.Resolve("")
	assert.Error(t, err)

	_, err = udp.Resolve("127.0.0.1:99999")
	assert.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	server, err := ntptest.Start(ntptest.DefaultOptions())
	require.NoError(t, err)
	defer server.Close()

	udp := UDP{TTL: 32}
	addr, err := udp.Resolve(server.Addr())
	require.NoError(t, err)

	request := ntp.EncodeRequest(1_700_000_000.25)
	reply, err := udp.RoundTrip(addr, request, time.Second)
	require.NoError(t, err)
	require.Len(t, reply, ntp.PacketSize)

	packet, err := ntp.DecodeReply(reply)
	require.NoError(t, err)
	assert.Equal(t, ntp.SERVER, packet.Mode)
	assert.Equal(t, ntp.TimestampFromUnix(1_700_000_000.25), packet.Originate)
	assert.Equal(t, 1, server.Requests())
}

func TestRoundTripTimeout(t *testing.T) {
	options := ntptest.DefaultOptions()
	options.Drop = true
	server, err := ntptest.Start(options)
	require.NoError(t, err)
	defer server.Close()

	var udp UDP
	addr, err := udp.Resolve(server.Addr())
	require.NoError(t, err)

	start := time.Now()
	_, err = udp.RoundTrip(addr, ntp.EncodeRequest(1), 100*time.Millisecond)
	require.Error(t, err)

	var netErr net.Error
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout())
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestRoundTripReturnsShortReply(t *testing.T) {
	options := ntptest.DefaultOptions()
	options.Truncate = true
	server, err := ntptest.Start(options)
	require.NoError(t, err)
	defer server.Close()

	var udp UDP
	addr, err := udp.Resolve(server.Addr())
	require.NoError(t, err)

	reply, err := udp.RoundTrip(addr, ntp.EncodeRequest(1), time.Second)
	require.NoError(t, err)
	assert.Len(t, reply, ntp.PacketSize-1)
}
