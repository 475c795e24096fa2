package transport

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/AndrewLester/sntpal/internal/ntp"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

const MTU = 1300

// UDP sends one datagram and waits for one reply. Zero values for TTL and TOS
// leave the system defaults in place.
type UDP struct {
	TTL int // IPv4 TTL or IPv6 hop limit
	TOS int // IPv4 TOS or IPv6 traffic class, DSCP << 2
}

// Resolve accepts either a bare host, which gets the NTP port, or host:port.
func (u *UDP) Resolve(server string) (net.Addr, error) {
	if server == "" {
		return nil, errors.New("no server configured")
	}

	address := server
	if _, _, err := net.SplitHostPort(server); err != nil {
		address = net.JoinHostPort(server, ntp.Port)
	}
	return net.ResolveUDPAddr("udp", address)
}

func (u *UDP) RoundTrip(addr net.Addr, request []byte, timeout time.Duration) ([]byte, error) {
	udpAddr, ok := addr.(*net.UDPAddr)
	if !ok {
		return nil, fmt.Errorf("unsupported address type %T", addr)
	}

	conn, err := net.DialUDP("udp", nil, udpAddr)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if err := u.setSocketOptions(conn, udpAddr); err != nil {
		return nil, err
	}

	if timeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return nil, err
		}
	}

	if _, err := conn.Write(request); err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	reply := make([]byte, MTU)
	n, err := conn.Read(reply)
	if err != nil {
		return nil, fmt.Errorf("receive reply (timeout=%v): %w", timeout, err)
	}
	return reply[:n], nil
}

func (u *UDP) setSocketOptions(conn *net.UDPConn, addr *net.UDPAddr) error {
	if u.TTL == 0 && u.TOS == 0 {
		return nil
	}

	if addr.IP.To4() != nil {
		pc := ipv4.NewConn(conn)
		if u.TTL != 0 {
			if err := pc.SetTTL(u.TTL); err != nil {
				return fmt.Errorf("set ttl: %w", err)
			}
		}
		if u.TOS != 0 {
			if err := pc.SetTOS(u.TOS); err != nil {
				return fmt.Errorf("set tos: %w", err)
			}
		}
		return nil
	}

	pc := ipv6.NewConn(conn)
	if u.TTL != 0 {
		if err := pc.SetHopLimit(u.TTL); err != nil {
			return fmt.Errorf("set hop limit: %w", err)
		}
	}
	if u.TOS != 0 {
		if err := pc.SetTrafficClass(u.TOS); err != nil {
			return fmt.Errorf("set traffic class: %w", err)
		}
	}
	return nil
}
