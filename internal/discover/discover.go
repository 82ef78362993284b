package discover

import (
	"context"
	"fmt"
	"log"
	"net/netip"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/JustinTDCT/KodiSweep/internal/config"
)

// Engine sweeps network ranges for live devices with a fixed-width pool
// of probe workers.
type Engine struct {
	prober       Prober
	interrogator Interrogator
	networks     []string
	workers      int
}

// NewEngine builds an engine from discovery settings. The credentials
// are passed on to every interrogated device.
func NewEngine(cfg config.DiscoverConfig, username, password string) *Engine {
	return &Engine{
		prober: TCPProber{Port: cfg.Port, Timeout: cfg.ProbeTimeout},
		interrogator: &RPCInterrogator{
			Port:         cfg.Port,
			Username:     username,
			Password:     password,
			PingTimeout:  cfg.PingTimeout,
			QueryTimeout: cfg.QueryTimeout,
		},
		networks: cfg.Networks,
		workers:  cfg.Workers,
	}
}

// Discover probes every address in the configured networks and returns
// the devices that answered a JSON-RPC ping, in address order. Hosts
// that accept the TCP probe but fail interrogation are logged and left
// out.
func (e *Engine) Discover(ctx context.Context) ([]Device, error) {
	hosts, err := expandNetworks(e.networks)
	if err != nil {
		return nil, err
	}
	if len(hosts) == 0 {
		return nil, nil
	}

	alive := e.scan(ctx, hosts)
	if len(alive) == 0 {
		return nil, ctx.Err()
	}

	devices := make([]*Device, len(alive))
	var g errgroup.Group
	g.SetLimit(e.poolWidth())
	for i, host := range alive {
		g.Go(func() error {
			dev, err := e.interrogator.Interrogate(ctx, host)
			if err != nil {
				log.Printf("[discover] %s: %v", host, err)
				return nil
			}
			devices[i] = dev
			return nil
		})
	}
	_ = g.Wait()

	found := make([]Device, 0, len(alive))
	for _, dev := range devices {
		if dev != nil {
			found = append(found, *dev)
		}
	}
	return found, ctx.Err()
}

// poolWidth is the probe and interrogation fan-out bound, never below one.
func (e *Engine) poolWidth() int {
	if e.workers < 1 {
		return 1
	}
	return e.workers
}

// scan fans the address list out over the worker pool and keeps the
// hosts whose probe succeeded, preserving address order.
func (e *Engine) scan(ctx context.Context, hosts []string) []string {
	workers := e.poolWidth()

	jobs := make(chan string)
	results := make(chan string, len(hosts))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for host := range jobs {
				if e.prober.Probe(ctx, host) {
					results <- host
				}
			}
		}()
	}

feed:
	for _, host := range hosts {
		select {
		case jobs <- host:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	close(results)

	aliveSet := make(map[string]struct{}, len(results))
	for host := range results {
		aliveSet[host] = struct{}{}
	}

	alive := make([]string, 0, len(aliveSet))
	for _, host := range hosts {
		if _, ok := aliveSet[host]; ok {
			alive = append(alive, host)
		}
	}
	return alive
}

// expandNetworks lists every address in the given CIDR ranges, network
// and broadcast addresses included.
func expandNetworks(networks []string) ([]string, error) {
	var hosts []string
	for _, network := range networks {
		prefix, err := netip.ParsePrefix(network)
		if err != nil {
			return nil, &config.Error{Field: "discover.networks", Reason: fmt.Sprintf("bad CIDR %q", network)}
		}
		if !prefix.Addr().Is4() {
			return nil, &config.Error{Field: "discover.networks", Reason: fmt.Sprintf("%q is not an IPv4 range", network)}
		}
		for addr := prefix.Masked().Addr(); prefix.Contains(addr); addr = addr.Next() {
			hosts = append(hosts, addr.String())
		}
	}
	return hosts, nil
}
