// Package ipc implements the local inter-process trajectory channel
// (spec.md §4.H/§9 "Inter-process coordination: local socket, pipe, or
// in-process channel"): a Unix-domain socket carrying gob-encoded game
// trajectories from self-play worker processes to the trainer process, used
// when the orchestrator spawns real OS processes rather than in-process
// goroutines.
package ipc

import (
	"encoding/gob"
	"net"
	"os"

	"github.com/pkg/errors"

	"github.com/mnkzero/mnkzero/internal/trajectory"
)

// Server accepts connections from self-play workers and forwards each
// decoded game onto a trajectory.Buffer for the trainer to consume.
type Server struct {
	ln  net.Listener
	buf *trajectory.Buffer
}

// Listen creates a Unix-domain socket at path (removing any stale socket
// file first) and returns a Server that will forward decoded games onto buf.
func Listen(path string, buf *trajectory.Buffer) (*Server, error) {
	_ = os.Remove(path)
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, errors.Wrap(err, "ipc: listen on trajectory socket")
	}
	return &Server{ln: ln, buf: buf}, nil
}

// Serve accepts connections until the listener is closed, decoding a stream
// of games from each connection and pushing them onto the Buffer. Each
// connection is handled in its own goroutine so multiple self-play workers
// can be connected at once.
func (s *Server) Serve() error {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return err
		}
		go s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()
	dec := gob.NewDecoder(conn)
	for {
		var game []trajectory.Record
		if err := dec.Decode(&game); err != nil {
			return
		}
		s.buf.Push(game)
	}
}

// Close stops accepting new connections.
func (s *Server) Close() error {
	return s.ln.Close()
}

// Client is a self-play worker's handle to the trainer's trajectory socket.
type Client struct {
	conn net.Conn
	enc  *gob.Encoder
}

// Dial connects to a Server listening at path.
func Dial(path string) (*Client, error) {
	conn, err := net.Dial("unix", path)
	if err != nil {
		return nil, errors.Wrap(err, "ipc: dial trajectory socket")
	}
	return &Client{conn: conn, enc: gob.NewEncoder(conn)}, nil
}

// Send gob-encodes one completed game's records and writes it to the socket.
func (c *Client) Send(game []trajectory.Record) error {
	return errors.Wrap(c.enc.Encode(game), "ipc: send trajectory")
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
