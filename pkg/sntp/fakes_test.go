package sntp

import (
	"errors"
	"net"
	"time"

	"github.com/AndrewLester/sntpal/internal/ntp"
)

type fakeClock struct {
	wall    uint64
	elapsed uint64
}

func (c *fakeClock) WallClockMillis() uint64 { return c.wall }
func (c *fakeClock) ElapsedMillis() uint64   { return c.elapsed }

func (c *fakeClock) Advance(d time.Duration) {
	c.wall += uint64(d.Milliseconds())
	c.elapsed += uint64(d.Milliseconds())
}

type fakeTransport struct {
	resolveErr   error
	roundTripErr error
	handler      func(request *ntp.Packet) []byte

	resolved []string
	timeouts []time.Duration
}

func (f *fakeTransport) Resolve(server string) (net.Addr, error) {
	f.resolved = append(f.resolved, server)
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	return &net.UDPAddr{IP: net.IPv4(192, 0, 2, 1), Port: 123}, nil
}

func (f *fakeTransport) RoundTrip(addr net.Addr, request []byte, timeout time.Duration) ([]byte, error) {
	f.timeouts = append(f.timeouts, timeout)
	if f.roundTripErr != nil {
		return nil, f.roundTripErr
	}
	packet, err := ntp.Decode(request)
	if err != nil {
		return nil, err
	}
	if f.handler == nil {
		return nil, errors.New("no handler")
	}
	return f.handler(packet), nil
}

// serverReply builds a valid stratum 1 reply to request.
func serverReply(request *ntp.Packet, t2, t3 float64) *ntp.Packet {
	return &ntp.Packet{
		Leap:        ntp.LeapNone,
		Version:     request.Version,
		Mode:        ntp.SERVER,
		Stratum:     1,
		ReferenceID: [4]byte{'G', 'P', 'S', 0},
		Reference:   ntp.TimestampFromUnix(t2 - 8),
		Originate:   request.Transmit,
		Receive:     ntp.TimestampFromUnix(t2),
		Transmit:    ntp.TimestampFromUnix(t3),
	}
}
