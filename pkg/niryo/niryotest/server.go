// Package niryotest provides an in-process fake controller for tests.
package niryotest

import (
	"bufio"
	"encoding/json"
	"net"
	"strconv"
	"sync"
	"testing"

	"github.com/polibarobotics/niryodraw/pkg/niryo"
)

// Handler answers a request. Returning nil replies OK with no parameters.
type Handler func(req *niryo.Request) *niryo.Response

// Server is a fake controller listening on the loopback interface.
type Server struct {
	ln      net.Listener
	handler Handler

	mu       sync.Mutex
	requests []*niryo.Request
	conns    map[net.Conn]struct{}

	wg sync.WaitGroup
}

// NewServer starts a fake controller that is shut down when the test ends.
func NewServer(t testing.TB, handler Handler) *Server {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	s := &Server{ln: ln, handler: handler, conns: make(map[net.Conn]struct{})}
	s.wg.Add(1)
	go s.serve()

	t.Cleanup(s.Close)
	return s
}

// Host returns the address the server listens on.
func (s *Server) Host() string {
	host, _, _ := net.SplitHostPort(s.ln.Addr().String())
	return host
}

// Port returns the port the server listens on.
func (s *Server) Port() int {
	_, port, _ := net.SplitHostPort(s.ln.Addr().String())
	p, _ := strconv.Atoi(port)
	return p
}

// Requests returns every request received so far, in arrival order.
func (s *Server) Requests() []*niryo.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*niryo.Request(nil), s.requests...)
}

// Commands returns the command names received so far, in arrival order.
func (s *Server) Commands() []string {
	reqs := s.Requests()
	cmds := make([]string, len(reqs))
	for i, r := range reqs {
		cmds[i] = r.Command
	}
	return cmds
}

// Close stops accepting connections, drops open ones and waits for
// handlers to return.
func (s *Server) Close() {
	s.ln.Close()
	s.mu.Lock()
	for c := range s.conns {
		c.Close()
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Server) serve() {
	defer s.wg.Done()
	for {
		c, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.mu.Lock()
		s.conns[c] = struct{}{}
		s.mu.Unlock()
		s.wg.Add(1)
		go s.handle(c)
	}
}

func (s *Server) handle(c net.Conn) {
	defer s.wg.Done()
	defer func() {
		c.Close()
		s.mu.Lock()
		delete(s.conns, c)
		s.mu.Unlock()
	}()

	r := bufio.NewReader(c)
	for {
		req, err := niryo.ReadRequest(r)
		if err != nil {
			return
		}

		s.mu.Lock()
		s.requests = append(s.requests, req)
		s.mu.Unlock()

		var resp *niryo.Response
		if s.handler != nil {
			resp = s.handler(req)
		}
		if resp == nil {
			resp = OK()
		}
		if resp.Command == "" {
			resp.Command = req.Command
		}
		if err := niryo.WriteResponse(c, resp); err != nil {
			return
		}
	}
}

// OK builds a successful response returning params.
func OK(params ...any) *niryo.Response {
	resp := &niryo.Response{Status: niryo.StatusOK}
	for _, p := range params {
		raw, err := json.Marshal(p)
		if err != nil {
			panic(err)
		}
		resp.Params = append(resp.Params, raw)
	}
	return resp
}

// KO builds a failed response with message.
func KO(message string) *niryo.Response {
	return &niryo.Response{Status: niryo.StatusKO, Message: message}
}
