package niryo

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"time"
)

// Options configures Dial.
type Options struct {
	// ConnectTimeout bounds the TCP handshake. Zero means no limit beyond ctx.
	ConnectTimeout time.Duration
	Logger         *slog.Logger
}

// Conn is a command connection to a controller. Calls are serialized:
// the controller answers requests strictly in order.
type Conn struct {
	mu     sync.Mutex
	conn   net.Conn
	reader *bufio.Reader
	logger *slog.Logger
	closed bool
}

// Dial opens a command connection to the controller at host:port.
func Dial(ctx context.Context, host string, port int, opts Options) (*Conn, error) {
	if port == 0 {
		port = DefaultPort
	}
	if opts.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.ConnectTimeout)
		defer cancel()
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	var d net.Dialer
	c, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", addr, err)
	}
	return NewConn(c, opts.Logger), nil
}

// NewConn wraps an established connection.
func NewConn(c net.Conn, logger *slog.Logger) *Conn {
	if logger == nil {
		logger = slog.Default()
	}
	return &Conn{
		conn:   c,
		reader: bufio.NewReader(c),
		logger: logger.With("remote", c.RemoteAddr().String()),
	}
}

// Call sends command with params and waits for the controller's answer.
// A KO status is returned as a *CommandError alongside the response.
func (c *Conn) Call(ctx context.Context, command string, params ...any) (*Response, error) {
	req, err := NewRequest(command, params...)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}
	// Nothing may reach the controller once ctx is done.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", command, err)
	}

	if deadline, ok := ctx.Deadline(); ok {
		c.conn.SetDeadline(deadline)
	}
	// Unblock pending I/O when ctx is cancelled.
	stop := context.AfterFunc(ctx, func() {
		c.conn.SetDeadline(time.Unix(1, 0))
	})
	defer func() {
		stop()
		c.conn.SetDeadline(time.Time{})
	}()

	start := time.Now()
	c.logger.Debug("send command", "command", command, "params", len(req.Params))

	if err := WriteRequest(c.conn, req); err != nil {
		return nil, c.ioError(ctx, command, err)
	}
	resp, err := ReadResponse(c.reader)
	if err != nil {
		return nil, c.ioError(ctx, command, err)
	}

	c.logger.Debug("command done",
		"command", command,
		"status", resp.Status,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	if resp.Command != "" && resp.Command != command {
		return nil, fmt.Errorf("%s: controller answered %s", command, resp.Command)
	}
	if resp.Command == "" {
		resp.Command = command
	}
	return resp, resp.Err()
}

func (c *Conn) ioError(ctx context.Context, command string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s: %w", command, ctxErr)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%s: %w", command, context.DeadlineExceeded)
	}
	return fmt.Errorf("%s: %w", command, err)
}

// Close closes the connection. It is safe to call more than once.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}
