package rpc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"testing"
)

// fakeServer reads framed client messages from in and lets tests send
// framed responses on out.
type fakeServer struct {
	in  *bufio.Reader
	out io.Writer
}

func (s *fakeServer) read(t *testing.T) map[string]interface{} {
	t.Helper()
	var length int
	for {
		line, err := s.in.ReadString('\n')
		if err != nil {
			t.Fatalf("fake server failed to read header: %v", err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		if v := strings.TrimPrefix(line, "Content-Length:"); v != line {
			length, _ = strconv.Atoi(strings.TrimSpace(v))
		}
	}
	byts := make([]byte, length)
	if _, err := io.ReadFull(s.in, byts); err != nil {
		t.Fatalf("fake server failed to read body: %v", err)
	}
	var msg map[string]interface{}
	if err := json.Unmarshal(byts, &msg); err != nil {
		t.Fatalf("fake server failed to unmarshal %q: %v", byts, err)
	}
	return msg
}

func (s *fakeServer) send(t *testing.T, msg string) {
	t.Helper()
	if _, err := fmt.Fprintf(s.out, "Content-Length: %v\r\n\r\n%v", len(msg), msg); err != nil {
		t.Fatalf("fake server failed to send: %v", err)
	}
}

func newPair(t *testing.T, notify NotifyHandler) (*Client, *fakeServer) {
	t.Helper()
	clientIn, serverOut := io.Pipe()
	serverIn, clientOut := io.Pipe()
	c := NewClient(clientIn, clientOut, notify, t.Logf)
	go c.Run()
	t.Cleanup(func() {
		serverOut.Close()
		clientOut.Close()
	})
	return c, &fakeServer{in: bufio.NewReader(serverIn), out: serverOut}
}

func TestCallRoundTrip(t *testing.T) {
	c, s := newPair(t, nil)

	type result struct {
		Value string `json:"value"`
	}
	callErr := make(chan error, 1)
	var got result
	go func() {
		callErr <- c.Call(context.Background(), "test/echo", map[string]string{"value": "hello"}, &got)
	}()

	msg := s.read(t)
	if msg["method"] != "test/echo" {
		t.Fatalf("server saw method %v; want test/echo", msg["method"])
	}
	id := int(msg["id"].(float64))
	s.send(t, fmt.Sprintf(`{"jsonrpc":"2.0","id":%v,"result":{"value":"hello"}}`, id))

	if err := <-callErr; err != nil {
		t.Fatalf("Call() error: %v", err)
	}
	if got.Value != "hello" {
		t.Fatalf("Call() result = %q; want %q", got.Value, "hello")
	}
}

func TestCallError(t *testing.T) {
	c, s := newPair(t, nil)

	callErr := make(chan error, 1)
	go func() {
		callErr <- c.Call(context.Background(), "test/fail", nil, nil)
	}()

	msg := s.read(t)
	id := int(msg["id"].(float64))
	s.send(t, fmt.Sprintf(`{"jsonrpc":"2.0","id":%v,"error":{"code":-32601,"message":"method not found"}}`, id))

	err := <-callErr
	rpcErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("Call() error = %v (%T); want *Error", err, err)
	}
	if rpcErr.Code != -32601 {
		t.Fatalf("error code = %v; want -32601", rpcErr.Code)
	}
}

func TestCallCancelSendsCancelRequest(t *testing.T) {
	c, s := newPair(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	callErr := make(chan error, 1)
	go func() {
		callErr <- c.Call(ctx, "test/slow", nil, nil)
	}()

	msg := s.read(t)
	id := int(msg["id"].(float64))
	cancel()

	if err := <-callErr; err != context.Canceled {
		t.Fatalf("Call() error = %v; want context.Canceled", err)
	}
	cancelMsg := s.read(t)
	if cancelMsg["method"] != "$/cancelRequest" {
		t.Fatalf("server saw %v after cancel; want $/cancelRequest", cancelMsg["method"])
	}
	params := cancelMsg["params"].(map[string]interface{})
	if int(params["id"].(float64)) != id {
		t.Fatalf("cancelRequest id = %v; want %v", params["id"], id)
	}
}

func TestNotificationDispatch(t *testing.T) {
	gotMethod := make(chan string, 1)
	_, s := newPair(t, func(method string, params json.RawMessage) {
		gotMethod <- method
	})

	s.send(t, `{"jsonrpc":"2.0","method":"window/logMessage","params":{"type":3,"message":"hi"}}`)
	if m := <-gotMethod; m != "window/logMessage" {
		t.Fatalf("notify handler saw %v; want window/logMessage", m)
	}
}

func TestServerRequestGetsNullReply(t *testing.T) {
	_, s := newPair(t, nil)

	s.send(t, `{"jsonrpc":"2.0","id":99,"method":"window/workDoneProgress/create","params":{"token":"t"}}`)
	reply := s.read(t)
	if int(reply["id"].(float64)) != 99 {
		t.Fatalf("reply id = %v; want 99", reply["id"])
	}
	if v, ok := reply["result"]; !ok || v != nil {
		t.Fatalf("reply result = %v; want null", v)
	}
}
