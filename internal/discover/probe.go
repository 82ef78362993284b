// Package discover sweeps network ranges for reachable Kodi devices.
package discover

import (
	"context"
	"net"
	"strconv"
	"time"
)

// Prober checks whether a host looks like it runs a Kodi web service.
type Prober interface {
	Probe(ctx context.Context, host string) bool
}

// TCPProber dials the web service port with a short timeout. Anything
// accepting the connection is a candidate; the interrogator sorts out
// what actually answers JSON-RPC.
type TCPProber struct {
	Port    int
	Timeout time.Duration
}

func (p TCPProber) Probe(ctx context.Context, host string) bool {
	d := net.Dialer{Timeout: p.Timeout}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(p.Port)))
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
