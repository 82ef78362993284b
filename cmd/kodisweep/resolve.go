package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JustinTDCT/KodiSweep/internal/config"
	"github.com/JustinTDCT/KodiSweep/internal/kodi"
	"github.com/JustinTDCT/KodiSweep/internal/resolve"
	"github.com/JustinTDCT/KodiSweep/internal/storage"
)

var (
	resolveReal        bool
	resolveVerbose     bool
	resolveHideDeleted bool
	resolveTV          bool
	resolveMovies      bool
	resolveStorage     string
)

var resolveRPCCmd = &cobra.Command{
	Use:   "resolve-via-rpc HOST",
	Short: "Delete watched items, reading the library over JSON-RPC",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig()
		if err != nil {
			return err
		}

		client := rpcClient(cfg, args[0])
		defer client.Close()

		return runResolve(cmd.Context(), cfg, resolve.NewRPCSource(client))
	},
}

var resolveDBCmd = &cobra.Command{
	Use:   "resolve-via-db DBFILE",
	Short: "Delete watched items, reading a copy of Kodi's video database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig()
		if err != nil {
			return err
		}

		source, err := resolve.OpenDB(args[0])
		if err != nil {
			return err
		}
		defer source.Close()

		return runResolve(cmd.Context(), cfg, source)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{resolveRPCCmd, resolveDBCmd} {
		cmd.Flags().BoolVar(&resolveReal, "real", false, "actually delete files instead of only reporting")
		cmd.Flags().BoolVarP(&resolveVerbose, "verbose", "v", false, "report keep-list skips and summary counts")
		cmd.Flags().BoolVar(&resolveHideDeleted, "hide-deleted", false, "do not report files already gone from the share")
		cmd.Flags().BoolVar(&resolveTV, "tv", false, "only TV episodes")
		cmd.Flags().BoolVar(&resolveMovies, "movies", false, "only movies")
		cmd.Flags().StringVar(&resolveStorage, "storage", "", "override the storage mode (smb or mount)")
		rootCmd.AddCommand(cmd)
	}
}

func resolveConfig() (*config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if resolveStorage != "" {
		cfg.Storage.Mode = resolveStorage
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func rpcClient(cfg *config.Config, host string) *kodi.Client {
	if cfg.RPC.Transport == "ws" {
		return kodi.NewClient(kodi.NewWSTransport(host, cfg.RPC.WSPort, cfg.RPC.Timeout))
	}
	return kodi.NewClient(kodi.NewHTTPTransport(host, cfg.RPC.Port, cfg.RPC.Username, cfg.RPC.Password, cfg.RPC.Timeout))
}

func buildAccessor(cfg *config.Config) (storage.Accessor, error) {
	if cfg.Storage.Mode == "mount" {
		return storage.NewLocal(cfg.Storage.Mount.RemotePrefix, cfg.Storage.Mount.LocalPrefix)
	}
	return storage.NewSMB(
		cfg.Storage.SMB.Username,
		cfg.Storage.SMB.Password,
		cfg.Storage.SMB.Workgroup,
		cfg.Storage.SMB.DialTimeout,
	), nil
}

func mediaKind() resolve.MediaKind {
	switch {
	case resolveTV && !resolveMovies:
		return resolve.TV
	case resolveMovies && !resolveTV:
		return resolve.Movies
	}
	return resolve.All
}

func runResolve(ctx context.Context, cfg *config.Config, source resolve.Source) error {
	accessor, err := buildAccessor(cfg)
	if err != nil {
		return err
	}
	defer accessor.Close()

	keep := resolve.NewKeepList(cfg.KeepList)
	engine := resolve.NewEngine(source, accessor, keep, !resolveReal)

	report, err := engine.Run(ctx, mediaKind())
	if err != nil {
		return err
	}
	printReport(report)
	return nil
}

func printReport(report *resolve.Report) {
	for _, res := range report.Results {
		switch res.Outcome {
		case resolve.Deleted:
			fmt.Printf("%6s | %s\n", humanizeBytes(res.Size), shortenPath(res.Item.Path))
		case resolve.SkippedKeepList:
			if resolveVerbose {
				fmt.Printf("skipping: %s\n", res.Item.Show)
			}
		case resolve.SkippedNotFound:
			if !resolveHideDeleted {
				fmt.Printf("File does not exist: %s\n", res.Item.Path)
			}
		case resolve.Failed:
			fmt.Fprintf(os.Stderr, "failed: %s: %s\n", res.Item.Path, res.Reason)
		}
	}

	fmt.Printf("Total size: %s\n", humanizeBytes(report.BytesFreed))
	if resolveVerbose {
		fmt.Printf("run %s: %d deleted, %d on keep list, %d already gone, %d failed\n",
			report.ID, report.Deleted, report.SkippedKeepList, report.SkippedNotFound, report.Failed)
	}
	if report.DryRun && report.Deleted > 0 {
		fmt.Println("Dry run; nothing was deleted. Pass --real to delete.")
	}
}

// shortenPath keeps the file name and its last three parent directories,
// enough to recognize show/season/file without the share noise.
func shortenPath(p string) string {
	var parts []string
	for _, part := range strings.Split(p, "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) <= 4 {
		return p
	}
	return strings.Join(parts[len(parts)-4:], "/")
}

func humanizeBytes(n int64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%d Gb", int(math.Round(float64(n)/(1<<30))))
	case n >= 1<<20:
		return fmt.Sprintf("%d Mb", int(math.Round(float64(n)/(1<<20))))
	case n >= 1<<10:
		return fmt.Sprintf("%d Kb", int(math.Round(float64(n)/(1<<10))))
	}
	return fmt.Sprintf("%d Bytes", n)
}
