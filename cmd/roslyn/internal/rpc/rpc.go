// Package rpc implements the minimal JSON-RPC 2.0 client used to talk to a
// language server over stdio pipes, with Content-Length framing, request
// correlation and server-to-client notification dispatch.
package rpc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

// NotifyHandler receives server-to-client notifications and requests. For
// requests a null result is replied automatically before the handler runs.
type NotifyHandler func(method string, params json.RawMessage)

type Client struct {
	r *bufio.Reader

	w     io.Writer
	wLock sync.Mutex

	nextID      int
	pending     map[int]chan *response
	pendingLock sync.Mutex

	notify NotifyHandler
	logf   func(format string, args ...interface{})
}

type request struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      *int        `json:"id,omitempty"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *int            `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is a JSON-RPC error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc error %v: %v", e.Code, e.Message)
}

// NewClient builds a client reading server output from in and writing to
// out. notify may be nil. Run must be called for any call to complete.
func NewClient(in io.Reader, out io.Writer, notify NotifyHandler, logf func(format string, args ...interface{})) *Client {
	if logf == nil {
		logf = func(format string, args ...interface{}) {}
	}
	return &Client{
		r:       bufio.NewReader(in),
		w:       out,
		nextID:  1,
		pending: make(map[int]chan *response),
		notify:  notify,
		logf:    logf,
	}
}

// Run reads and dispatches incoming messages until in is closed or a
// protocol error occurs.
func (c *Client) Run() error {
	for {
		byts, err := c.readMessage()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("failed to read message from server: %v", err)
		}
		var msg response
		if err := json.Unmarshal(byts, &msg); err != nil {
			return fmt.Errorf("failed to unmarshal message from server: %v", err)
		}
		switch {
		case msg.Method != "" && msg.ID != nil:
			// server-to-client request; we support none, so reply null and
			// let the notification handler observe it
			if err := c.write(response{JSONRPC: "2.0", ID: msg.ID, Result: json.RawMessage("null")}); err != nil {
				return err
			}
			if c.notify != nil {
				c.notify(msg.Method, msg.Params)
			}
		case msg.Method != "":
			if c.notify != nil {
				c.notify(msg.Method, msg.Params)
			}
		case msg.ID != nil:
			c.pendingLock.Lock()
			ch, ok := c.pending[*msg.ID]
			delete(c.pending, *msg.ID)
			c.pendingLock.Unlock()
			if !ok {
				c.logf("rpc: received response for unknown id %v", *msg.ID)
				continue
			}
			ch <- &msg
		default:
			c.logf("rpc: dropping message with neither method nor id: %s", byts)
		}
	}
}

// Call performs method with params, decoding the result into result if
// non-nil. If ctx is cancelled whilst the call is in flight a
// $/cancelRequest notification is sent and ctx.Err() returned.
func (c *Client) Call(ctx context.Context, method string, params, result interface{}) error {
	c.pendingLock.Lock()
	id := c.nextID
	c.nextID++
	ch := make(chan *response, 1)
	c.pending[id] = ch
	c.pendingLock.Unlock()

	if err := c.write(request{JSONRPC: "2.0", ID: &id, Method: method, Params: params}); err != nil {
		c.pendingLock.Lock()
		delete(c.pending, id)
		c.pendingLock.Unlock()
		return fmt.Errorf("failed to send %v call: %v", method, err)
	}

	select {
	case <-ctx.Done():
		c.pendingLock.Lock()
		delete(c.pending, id)
		c.pendingLock.Unlock()
		c.Notify("$/cancelRequest", struct {
			ID int `json:"id"`
		}{ID: id})
		return ctx.Err()
	case resp := <-ch:
		if resp.Error != nil {
			return resp.Error
		}
		if result != nil && len(resp.Result) > 0 && string(resp.Result) != "null" {
			if err := json.Unmarshal(resp.Result, result); err != nil {
				return fmt.Errorf("failed to unmarshal %v result: %v", method, err)
			}
		}
		return nil
	}
}

// Notify sends a notification; there is no response.
func (c *Client) Notify(method string, params interface{}) error {
	if err := c.write(request{JSONRPC: "2.0", Method: method, Params: params}); err != nil {
		return fmt.Errorf("failed to send %v notification: %v", method, err)
	}
	return nil
}

func (c *Client) write(msg interface{}) error {
	byts, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %v", err)
	}
	c.wLock.Lock()
	defer c.wLock.Unlock()
	if _, err := fmt.Fprintf(c.w, "Content-Length: %v\r\n\r\n", len(byts)); err != nil {
		return err
	}
	_, err = c.w.Write(byts)
	return err
}

func (c *Client) readMessage() ([]byte, error) {
	var length int
	for {
		line, err := c.r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		if v := strings.TrimPrefix(line, "Content-Length:"); v != line {
			length, err = strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return nil, fmt.Errorf("bad Content-Length header %q: %v", line, err)
			}
		}
	}
	if length <= 0 {
		return nil, fmt.Errorf("missing Content-Length header")
	}
	byts := make([]byte, length)
	if _, err := io.ReadFull(c.r, byts); err != nil {
		return nil, err
	}
	return byts, nil
}
