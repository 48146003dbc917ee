// Package niryo implements the TCP command protocol spoken by Niryo robot
// controllers.
//
// Every frame is a little-endian uint16 length followed by a JSON document.
// Responses may carry a binary payload whose size is announced in the JSON
// header and which follows it directly on the wire.
package niryo

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// DefaultPort is the controller's TCP command port.
const DefaultPort = 40001

// MaxFrameSize is the largest JSON document a frame can carry.
const MaxFrameSize = 1<<16 - 1

// MaxPayloadSize bounds the binary payload a response may announce.
const MaxPayloadSize = 16 << 20

// Response statuses.
const (
	StatusOK = "OK"
	StatusKO = "KO"
)

// ErrFrameTooLarge is returned when an encoded frame does not fit the length prefix.
var ErrFrameTooLarge = errors.New("niryo: frame too large")

// Request is a single command sent to the controller.
type Request struct {
	Command string            `json:"command"`
	Params  []json.RawMessage `json:"param_list"`
}

// NewRequest builds a request, JSON-encoding each parameter.
func NewRequest(command string, params ...any) (*Request, error) {
	req := &Request{
		Command: command,
		Params:  make([]json.RawMessage, 0, len(params)),
	}
	for i, p := range params {
		raw, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("encode %s param %d: %w", command, i, err)
		}
		req.Params = append(req.Params, raw)
	}
	return req, nil
}

// Decode unmarshals the i-th parameter into v.
func (r *Request) Decode(i int, v any) error {
	return decodeParam(r.Command, r.Params, i, v)
}

// Response is the controller's answer to a Request.
type Response struct {
	Command     string            `json:"command"`
	Status      string            `json:"status"`
	Message     string            `json:"message,omitempty"`
	Params      []json.RawMessage `json:"list_ret_param"`
	PayloadSize int               `json:"payload_size"`
	Payload     []byte            `json:"-"`
}

// Decode unmarshals the i-th returned parameter into v.
func (r *Response) Decode(i int, v any) error {
	return decodeParam(r.Command, r.Params, i, v)
}

// Err converts a KO status into a *CommandError.
func (r *Response) Err() error {
	if r.Status == StatusOK {
		return nil
	}
	return &CommandError{Command: r.Command, Status: r.Status, Message: r.Message}
}

func decodeParam(command string, params []json.RawMessage, i int, v any) error {
	if i < 0 || i >= len(params) {
		return fmt.Errorf("%s: param %d out of range (have %d)", command, i, len(params))
	}
	if err := json.Unmarshal(params[i], v); err != nil {
		return fmt.Errorf("%s: decode param %d: %w", command, i, err)
	}
	return nil
}

// WriteRequest writes one request frame to w.
func WriteRequest(w io.Writer, req *Request) error {
	if req.Params == nil {
		req.Params = []json.RawMessage{}
	}
	return writeFrame(w, req)
}

// ReadRequest reads one request frame from r.
func ReadRequest(r io.Reader) (*Request, error) {
	var req Request
	if err := readFrame(r, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// WriteResponse writes one response frame, followed by its payload, to w.
func WriteResponse(w io.Writer, resp *Response) error {
	if resp.Params == nil {
		resp.Params = []json.RawMessage{}
	}
	resp.PayloadSize = len(resp.Payload)
	if err := writeFrame(w, resp); err != nil {
		return err
	}
	if len(resp.Payload) > 0 {
		if _, err := w.Write(resp.Payload); err != nil {
			return fmt.Errorf("write payload: %w", err)
		}
	}
	return nil
}

// ReadResponse reads one response frame and its payload from r.
func ReadResponse(r io.Reader) (*Response, error) {
	var resp Response
	if err := readFrame(r, &resp); err != nil {
		return nil, err
	}
	if resp.PayloadSize < 0 || resp.PayloadSize > MaxPayloadSize {
		return nil, fmt.Errorf("invalid payload size %d", resp.PayloadSize)
	}
	if resp.PayloadSize > 0 {
		resp.Payload = make([]byte, resp.PayloadSize)
		if _, err := io.ReadFull(r, resp.Payload); err != nil {
			return nil, fmt.Errorf("read payload: %w", err)
		}
	}
	return &resp, nil
}

func writeFrame(w io.Writer, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	if len(body) > MaxFrameSize {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(body))
	}

	buf := make([]byte, 2+len(body))
	binary.LittleEndian.PutUint16(buf, uint16(len(body)))
	copy(buf[2:], body)

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

func readFrame(r io.Reader, v any) error {
	var size [2]byte
	if _, err := io.ReadFull(r, size[:]); err != nil {
		return err
	}
	body := make([]byte, binary.LittleEndian.Uint16(size[:]))
	if _, err := io.ReadFull(r, body); err != nil {
		return fmt.Errorf("read frame: %w", err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode frame: %w", err)
	}
	return nil
}
