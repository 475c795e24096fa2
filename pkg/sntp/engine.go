package sntp

import (
	"time"

	"github.com/AndrewLester/sntpal/internal/ntp"
)

// SyncResult is the outcome of one validated exchange. Times are in seconds.
type SyncResult struct {
	Offset            float64 // server minus local
	Delay             float64 // round trip, not clamped
	AnchorMonotonicMs uint64
	AnchorServerTime  float64 // Unix seconds at AnchorMonotonicMs

	Server         string
	Address        string
	Leap           ntp.LeapIndicator
	Stratum        uint8
	ReferenceID    string
	RootDelay      float64
	RootDispersion float64
}

// ErrorBound is the maximum error of Offset: half the root delay plus the root
// dispersion plus the measured delay.
func (r SyncResult) ErrorBound() float64 {
	return r.RootDelay/2 + r.RootDispersion + r.Delay
}

// SyncOnce performs a single exchange with the configured server. It never
// retries and never touches the client's anchor.
func (c *Client) SyncOnce() (*SyncResult, error) {
	addr, err := c.transport.Resolve(c.server)
	if err != nil {
		c.infof("resolve failed: %v", err)
		return nil, c.fail(KindResolution, err)
	}

	t1 := c.wallClockSeconds()
	request := ntp.EncodeRequest(t1)
	sent := ntp.TimestampFromUnix(t1)
	c.dumpPacket("SNTP Request", request)

	reply, err := c.transport.RoundTrip(addr, request, time.Duration(c.timeout)*time.Second)
	if err != nil {
		c.infof("exchange failed: %v (timeout=%ds)", err, c.timeout)
		return nil, c.fail(KindTransport, err)
	}
	t4 := c.wallClockSeconds()

	packet, err := ntp.DecodeReply(reply)
	if err != nil {
		c.infof("received packet is invalid: %v", err)
		return nil, c.fail(KindMalformedPacket, err)
	}
	c.dumpPacket("SNTP Response", reply)

	if err := validateReply(packet, sent); err != nil {
		c.infof("rejected reply: %v", err)
		return nil, c.fail(KindUntrustedReply, err)
	}

	originate := packet.Originate.Unix()
	t2 := packet.Receive.Unix()
	t3 := packet.Transmit.Unix()

	delay := (t4 - originate) - (t3 - t2)
	offset := ((t2 - originate) + (t3 - t4)) / 2

	result := &SyncResult{
		Offset:            offset,
		Delay:             delay,
		AnchorMonotonicMs: c.clock.ElapsedMillis(),
		AnchorServerTime:  t4 + offset,
		Server:            c.server,
		Address:           addr.String(),
		Leap:              packet.Leap,
		Stratum:           packet.Stratum,
		ReferenceID:       packet.RefIDString(),
		RootDelay:         packet.RootDelay.Seconds(),
		RootDispersion:    packet.RootDispersion.Seconds(),
	}
	c.dumpExchange(originate, t2, t3, t4, result)

	return result, nil
}

func (c *Client) wallClockSeconds() float64 {
	return float64(c.clock.WallClockMillis()) / 1000
}

func (c *Client) fail(kind Kind, err error) error {
	return &SyncError{Kind: kind, Server: c.server, Err: err}
}
