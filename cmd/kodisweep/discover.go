package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/JustinTDCT/KodiSweep/internal/discover"
)

var (
	discoverNetworks []string
	discoverPort     int
	discoverTimeout  time.Duration
	discoverWorkers  int
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Scan the local network for Kodi devices",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if len(discoverNetworks) > 0 {
			cfg.Discover.Networks = discoverNetworks
		}
		if cmd.Flags().Changed("port") {
			cfg.Discover.Port = discoverPort
		}
		if cmd.Flags().Changed("timeout") {
			cfg.Discover.ProbeTimeout = discoverTimeout
		}
		if cmd.Flags().Changed("workers") {
			cfg.Discover.Workers = discoverWorkers
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		engine := discover.NewEngine(cfg.Discover, cfg.RPC.Username, cfg.RPC.Password)

		fmt.Printf("Scanning %s...\n", strings.Join(cfg.Discover.Networks, ", "))
		devices, err := engine.Discover(cmd.Context())
		if err != nil {
			return err
		}
		if len(devices) == 0 {
			fmt.Println("No Kodi devices found.")
			return nil
		}

		fmt.Printf("Found %d Kodi device(s):\n", len(devices))
		for _, dev := range devices {
			fmt.Println()
			printDevice(dev)
		}
		return nil
	},
}

func init() {
	discoverCmd.Flags().StringArrayVar(&discoverNetworks, "network", nil,
		"CIDR range to scan, repeatable (default 192.168.0.0/24 and 192.168.1.0/24)")
	discoverCmd.Flags().IntVar(&discoverPort, "port", 8080, "Kodi JSON-RPC port to probe")
	discoverCmd.Flags().DurationVar(&discoverTimeout, "timeout", 500*time.Millisecond,
		"TCP probe timeout per host")
	discoverCmd.Flags().IntVar(&discoverWorkers, "workers", 100, "concurrent probe workers")
	rootCmd.AddCommand(discoverCmd)
}

func printDevice(dev discover.Device) {
	name := dev.Name
	if name == "" {
		name = "unnamed"
	}
	fmt.Printf("%s  %s (%s)\n", dev.Host, name, dev.Version)

	caps := deviceCaps(dev)
	if len(caps) > 0 {
		fmt.Printf("    volume %d%%, can %s\n", dev.Volume, strings.Join(caps, "/"))
	} else {
		fmt.Printf("    volume %d%%\n", dev.Volume)
	}

	fmt.Printf("    %d shows, %d episodes, %d movies, %d video addons\n",
		dev.TVShows, dev.Episodes, dev.Movies, dev.VideoAddons)
	if len(dev.Playing) > 0 {
		fmt.Printf("    playing: %s\n", strings.Join(dev.Playing, ", "))
	}
}

func deviceCaps(dev discover.Device) []string {
	var caps []string
	if dev.CanShutdown {
		caps = append(caps, "shutdown")
	}
	if dev.CanSuspend {
		caps = append(caps, "suspend")
	}
	if dev.CanHibernate {
		caps = append(caps, "hibernate")
	}
	if dev.CanReboot {
		caps = append(caps, "reboot")
	}
	return caps
}
