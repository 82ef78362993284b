package main

import (
	"github.com/spf13/cobra"

	"github.com/JustinTDCT/KodiSweep/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "kodisweep",
	Short: "Housekeeping for Kodi media shares",
	Long: `kodisweep finds Kodi devices on the local network, deletes watched
episodes and movies from the share behind them, and reports which media
directories no longer hold any video files.

Runs are dry by default; nothing is deleted until --real is passed.`,
	Version:       "0.3.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"config file (default is ~/.config/kodisweep/config.yaml)")
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	return config.Load(config.DefaultPath())
}
