// Package kodi speaks JSON-RPC 2.0 to a Kodi media center over HTTP or
// WebSocket.
package kodi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// Transport carries one JSON-RPC request to a device and returns its reply.
type Transport interface {
	RoundTrip(ctx context.Context, req *Request) (*Response, error)
	Close() error
}

// ──────────────────── Client ────────────────────

// Client issues JSON-RPC calls over a Transport and decodes typed results.
type Client struct {
	transport Transport
	nextID    atomic.Int64
}

// NewClient wraps a transport. The caller owns the transport's lifetime
// through Client.Close.
func NewClient(t Transport) *Client {
	return &Client{transport: t}
}

// Call invokes method with params and unmarshals the result into out.
// Pass a nil out to discard the result. An error object in the reply
// envelope comes back as an *RPCError.
func (c *Client) Call(ctx context.Context, method string, params, out interface{}) error {
	req := &Request{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	}
	resp, err := c.transport.RoundTrip(ctx, req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", method, err)
	}
	if resp.Error != nil {
		return fmt.Errorf("calling %s: %w", method, resp.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		return fmt.Errorf("decoding %s result: %w", method, err)
	}
	return nil
}

// Close releases the underlying transport.
func (c *Client) Close() error {
	return c.transport.Close()
}

// ──────────────────── HTTP transport ────────────────────

// HTTPTransport posts requests to Kodi's /jsonrpc web service endpoint.
type HTTPTransport struct {
	endpoint   string
	username   string
	password   string
	httpClient *http.Client
}

// NewHTTPTransport targets http://host:port/jsonrpc. Credentials are
// optional; Kodi without authentication ignores them.
func NewHTTPTransport(host string, port int, username, password string, timeout time.Duration) *HTTPTransport {
	return &HTTPTransport{
		endpoint:   fmt.Sprintf("http://%s:%d/jsonrpc", host, port),
		username:   username,
		password:   password,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (t *HTTPTransport) RoundTrip(ctx context.Context, req *Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if t.username != "" {
		httpReq.SetBasicAuth(t.username, t.password)
	}

	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, httpResp.Body)
		return nil, fmt.Errorf("unexpected status %d", httpResp.StatusCode)
	}

	var resp Response
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &resp, nil
}

// Close is a no-op; the HTTP client keeps no per-device state.
func (t *HTTPTransport) Close() error { return nil }

// ──────────────────── WebSocket transport ────────────────────

// WSTransport speaks JSON-RPC over Kodi's WebSocket interface (port 9090
// by default). The connection is dialed lazily on first use and calls are
// serialized; Kodi interleaves notifications on the same socket, so replies
// are matched by request ID and everything else is skipped. Each round
// trip, dial included, is bounded by the configured timeout.
type WSTransport struct {
	url     string
	timeout time.Duration

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewWSTransport targets ws://host:port/jsonrpc.
func NewWSTransport(host string, port int, timeout time.Duration) *WSTransport {
	return &WSTransport{
		url:     fmt.Sprintf("ws://%s:%d/jsonrpc", host, port),
		timeout: timeout,
	}
}

func (t *WSTransport) RoundTrip(ctx context.Context, req *Request) (*Response, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	if t.conn == nil {
		conn, _, err := websocket.Dial(ctx, t.url, nil)
		if err != nil {
			return nil, fmt.Errorf("dialing %s: %w", t.url, err)
		}
		conn.SetReadLimit(16 << 20)
		t.conn = conn
	}

	if err := wsjson.Write(ctx, t.conn, req); err != nil {
		t.reset()
		return nil, fmt.Errorf("writing request: %w", err)
	}

	// Notifications carry no ID and decode to 0; request IDs start at 1.
	for {
		var resp Response
		if err := wsjson.Read(ctx, t.conn, &resp); err != nil {
			t.reset()
			return nil, fmt.Errorf("reading response: %w", err)
		}
		if resp.ID == req.ID {
			return &resp, nil
		}
	}
}

func (t *WSTransport) reset() {
	if t.conn != nil {
		t.conn.Close(websocket.StatusInternalError, "transport error")
		t.conn = nil
	}
}

// Close shuts the socket down if one was dialed.
func (t *WSTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close(websocket.StatusNormalClosure, "")
	t.conn = nil
	return err
}
