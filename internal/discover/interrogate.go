package discover

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/JustinTDCT/KodiSweep/internal/kodi"
)

// Device is everything discovery learned about one responding host.
type Device struct {
	Host      string
	Reachable bool
	Name      string
	Version   string
	Volume    int

	CanShutdown  bool
	CanSuspend   bool
	CanHibernate bool
	CanReboot    bool

	TVShows     int
	Episodes    int
	Movies      int
	VideoAddons int

	// Playing holds one "title (player type)" entry per active player.
	// Empty means the device is idle.
	Playing []string
}

// Interrogator verifies a probed host answers JSON-RPC and gathers its
// details.
type Interrogator interface {
	Interrogate(ctx context.Context, host string) (*Device, error)
}

// InterrogationError means a probed host could not be verified as a Kodi
// device. The host is left out of the results and the sweep goes on.
type InterrogationError struct {
	Host string
	Err  error
}

func (e *InterrogationError) Error() string {
	return "interrogating " + e.Host + ": " + e.Err.Error()
}

func (e *InterrogationError) Unwrap() error { return e.Err }

// RPCInterrogator questions devices over the JSON-RPC web service.
type RPCInterrogator struct {
	Port         int
	Username     string
	Password     string
	PingTimeout  time.Duration
	QueryTimeout time.Duration
}

// Interrogate pings the host and, once it answers, collects system and
// library details. Everything after the ping is best effort: a device
// that refuses a query still counts as discovered, with that field left
// at its zero value.
func (ri *RPCInterrogator) Interrogate(ctx context.Context, host string) (*Device, error) {
	client := kodi.NewClient(kodi.NewHTTPTransport(host, ri.Port, ri.Username, ri.Password, ri.QueryTimeout))
	defer client.Close()

	pingCtx, cancel := context.WithTimeout(ctx, ri.PingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx); err != nil {
		return nil, &InterrogationError{Host: host, Err: err}
	}

	dev := &Device{Host: host, Reachable: true, Version: "Unknown"}

	if props, err := client.SystemProperties(ctx); err == nil {
		dev.Name = props.Name
		dev.Version = props.Version.String()
		dev.Volume = props.Volume
		dev.CanShutdown = props.CanShutdown
		dev.CanSuspend = props.CanSuspend
		dev.CanHibernate = props.CanHibernate
		dev.CanReboot = props.CanReboot
	} else {
		log.Printf("[discover] %s: system properties: %v", host, err)
	}

	if n, err := client.TVShowCount(ctx); err == nil {
		dev.TVShows = n
	}
	if n, err := client.EpisodeCount(ctx); err == nil {
		dev.Episodes = n
	}
	if n, err := client.MovieCount(ctx); err == nil {
		dev.Movies = n
	}
	if n, err := client.VideoAddonCount(ctx); err == nil {
		dev.VideoAddons = n
	}

	if players, err := client.ActivePlayers(ctx); err == nil {
		for _, p := range players {
			if title, err := client.PlayerItem(ctx, p.PlayerID); err == nil {
				if p.Type != "" {
					title = fmt.Sprintf("%s (%s)", title, p.Type)
				}
				dev.Playing = append(dev.Playing, title)
			}
		}
	}

	return dev, nil
}
