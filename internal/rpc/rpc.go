package rpc

import (
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"os"
	"sync"
)

const serviceName = "SNTPalRPCServer"

// Status is a snapshot of the daemon's client.
type Status struct {
	Server        string
	Synced        bool
	ServerTime    float64 // Unix seconds
	SinceLastSync float64
	Offset        float64
	Delay         float64
	ErrorBound    float64
	Stratum       uint8
	ReferenceID   string
	LastError     string
}

type StatusFunc func() Status

type SNTPalRPCServer struct {
	Socket string
	Status StatusFunc

	lock     sync.Mutex
	listener net.Listener
}

// Listen binds the unix socket, replacing a stale one left by a previous run.
func (s *SNTPalRPCServer) Listen() error {
	err := os.Remove(s.Socket)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("bind error: %w", err)
	}

	l, err := net.Listen("unix", s.Socket)
	if err != nil {
		return fmt.Errorf("listen error: %w", err)
	}

	s.lock.Lock()
	s.listener = l
	s.lock.Unlock()
	return nil
}

// Serve accepts connections until Close is called.
func (s *SNTPalRPCServer) Serve() error {
	s.lock.Lock()
	l := s.listener
	s.lock.Unlock()
	if l == nil {
		return errors.New("rpc server is not listening")
	}

	server := rpc.NewServer()
	if err := server.RegisterName(serviceName, &handler{status: s.Status}); err != nil {
		return err
	}

	for {
		conn, err := l.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		go server.ServeConn(conn)
	}
}

func (s *SNTPalRPCServer) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

type handler struct {
	status StatusFunc
}

func (h *handler) FetchStatus(args int, reply *Status) error {
	*reply = h.status()
	return nil
}

type Client struct {
	client *rpc.Client
}

func Dial(socket string) (*Client, error) {
	client, err := rpc.Dial("unix", socket)
	if err != nil {
		return nil, err
	}
	return &Client{client: client}, nil
}

func (c *Client) FetchStatus() (Status, error) {
	var status Status
	err := c.client.Call(serviceName+".FetchStatus", 0, &status)
	return status, err
}

func (c *Client) Close() error {
	return c.client.Close()
}
