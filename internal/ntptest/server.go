// Package ntptest runs a loopback SNTP responder for tests.
package ntptest

import (
	"errors"
	"net"
	"sync"
	"time"

	"github.com/AndrewLester/sntpal/internal/ntp"
)

const PRECISION = -20

// Options controls how the responder answers. The fault flags produce the
// replies a careful client has to reject.
type Options struct {
	Leap    ntp.LeapIndicator
	Mode    ntp.Mode
	Stratum uint8
	RefID   [4]byte

	Offset float64 // seconds the responder's clock is ahead of the host

	ZeroReference  bool
	ZeroTransmit   bool
	WrongOriginate bool
	Truncate       bool // answer with a 47 byte datagram
	Drop           bool // never answer
}

func DefaultOptions() Options {
	return Options{
		Leap:    ntp.LeapNone,
		Mode:    ntp.SERVER,
		Stratum: 1,
		RefID:   [4]byte{'L', 'O', 'C', 'L'},
	}
}

type Server struct {
	conn net.PacketConn
	wg   sync.WaitGroup

	lock     sync.Mutex
	options  Options
	requests int
}

// Start listens on an ephemeral loopback port.
func Start(options Options) (*Server, error) {
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}

	server := &Server{conn: conn, options: options}
	server.wg.Add(1)
	go server.serve()
	return server, nil
}

// Addr is host:port, usable directly as a client's server setting.
func (s *Server) Addr() string {
	return s.conn.LocalAddr().String()
}

func (s *Server) Set(options Options) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.options = options
}

func (s *Server) Requests() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.requests
}

func (s *Server) Close() error {
	err := s.conn.Close()
	s.wg.Wait()
	return err
}

func (s *Server) serve() {
	defer s.wg.Done()

	packet := make([]byte, 1300)

	for {
		n, addr, err := s.conn.ReadFrom(packet)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			continue
		}
		received := now()

		request, err := ntp.Decode(packet[:n])
		if err != nil {
			continue
		}

		s.lock.Lock()
		s.requests++
		options := s.options
		s.lock.Unlock()

		if options.Drop {
			continue
		}

		encoded := Reply(request, received+options.Offset, options).Encode()
		if options.Truncate {
			encoded = encoded[:ntp.PacketSize-1]
		}
		s.conn.WriteTo(encoded, addr)
	}
}

// Reply answers request as a server whose clock read serverTime when the
// request arrived.
func Reply(request *ntp.Packet, serverTime float64, options Options) *ntp.Packet {
	reply := &ntp.Packet{
		Leap:           options.Leap,
		Version:        request.Version,
		Mode:           options.Mode,
		Stratum:        options.Stratum,
		Poll:           request.Poll,
		Precision:      PRECISION,
		RootDelay:      ntp.ShortFromSeconds(0.001),
		RootDispersion: ntp.ShortFromSeconds(0.0005),
		ReferenceID:    options.RefID,
		Reference:      ntp.TimestampFromUnix(serverTime - 16),
		Originate:      request.Transmit,
		Receive:        ntp.TimestampFromUnix(serverTime),
		Transmit:       ntp.TimestampFromUnix(serverTime + 0.0001),
	}

	if options.ZeroReference {
		reply.Reference = ntp.Timestamp{}
	}
	if options.ZeroTransmit {
		reply.Transmit = ntp.Timestamp{}
	}
	if options.WrongOriginate {
		reply.Originate.Fraction ^= 1
	}
	return reply
}

func now() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}
