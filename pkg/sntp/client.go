// Package sntp synchronizes against a single SNTP server and answers
// "what time is it on the server" from a monotonic anchor between syncs.
//
// A Client is not safe for concurrent use.
package sntp

import (
	"net"
	"time"

	"github.com/AndrewLester/sntpal/internal/system"
	"github.com/AndrewLester/sntpal/internal/transport"
	"github.com/sirupsen/logrus"
)

const (
	DefaultTimeout     = 1    // seconds
	DefaultMaxInterval = 3600 // seconds
)

// Clock supplies wall clock and monotonic elapsed time in milliseconds.
// ElapsedMillis must never go backwards.
type Clock interface {
	WallClockMillis() uint64
	ElapsedMillis() uint64
}

// Transport resolves a server and performs one request/reply exchange.
type Transport interface {
	Resolve(server string) (net.Addr, error)
	RoundTrip(addr net.Addr, request []byte, timeout time.Duration) ([]byte, error)
}

type Client struct {
	clock     Clock
	transport Transport
	logger    logrus.FieldLogger

	server  string
	timeout int
	verbose bool

	anchor Anchor
	last   *SyncResult
}

type Option func(*Client)

func WithClock(clock Clock) Option {
	return func(c *Client) { c.clock = clock }
}

func WithTransport(t Transport) Option {
	return func(c *Client) { c.transport = t }
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Client) { c.logger = logger }
}

func NewClient(options ...Option) *Client {
	c := &Client{
		clock:     system.Clock{},
		transport: &transport.UDP{},
		logger:    logrus.StandardLogger(),
		timeout:   DefaultTimeout,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// SetServer replaces the configured server. Only one server is kept.
func (c *Client) SetServer(server string) {
	c.server = server
}

func (c *Client) Server() string {
	return c.server
}

// SetTimeout sets the receive timeout in seconds. Zero waits indefinitely.
func (c *Client) SetTimeout(seconds int) {
	if seconds < 0 {
		seconds = 0
	}
	c.timeout = seconds
}

func (c *Client) Timeout() int {
	return c.timeout
}

func (c *Client) SetVerbose(verbose bool) {
	c.verbose = verbose
}

// Sync performs one synchronization and records it on success. On failure
// the previous anchor is left as it was.
func (c *Client) Sync() error {
	result, err := c.SyncOnce()
	if err != nil {
		return err
	}
	c.RecordSync(*result)
	return nil
}

func (c *Client) RecordSync(result SyncResult) {
	c.anchor.Record(result)
	c.last = &result
}

// LastResult is the most recently recorded synchronization.
func (c *Client) LastResult() (SyncResult, bool) {
	if c.last == nil {
		return SyncResult{}, false
	}
	return *c.last, true
}

func (c *Client) IsSynced() bool {
	return c.anchor.Synced()
}

// CurrentServerTime is the estimated server time in Unix seconds, or
// ErrNotSynced before the first successful sync.
func (c *Client) CurrentServerTime() (float64, error) {
	return c.anchor.ServerTime(c.clock)
}

func (c *Client) Now() (time.Time, error) {
	seconds, err := c.CurrentServerTime()
	if err != nil {
		return time.Time{}, err
	}
	return unixSecondsToTime(seconds), nil
}

// FormattedServerTime renders the current server time in local time.
func (c *Client) FormattedServerTime() (string, error) {
	now, err := c.Now()
	if err != nil {
		return "", err
	}
	return now.Local().Format(time.DateTime), nil
}

// TimeSinceLastSync is in seconds and is 0 before the first sync.
func (c *Client) TimeSinceLastSync() float64 {
	return c.anchor.SinceLastSync(c.clock)
}

func (c *Client) NeedsResync(maxInterval float64) bool {
	return c.anchor.NeedsResync(c.clock, maxInterval)
}

func unixSecondsToTime(seconds float64) time.Time {
	return time.Unix(0, int64(seconds*float64(time.Second)))
}
