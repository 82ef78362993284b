package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JustinTDCT/KodiSweep/internal/cleanup"
	"github.com/JustinTDCT/KodiSweep/internal/config"
)

var (
	cleanupShow string
	cleanupNull bool
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup DIR [DIR...]",
	Short: "Classify media directories by leftover video files",
	Long: `cleanup walks each directory and sorts it by whether any video file
is still inside. Directories with no video left are the ones worth
removing; pipe them to xargs with --null.`,
	Example: `  kodisweep cleanup /mnt/media/tv/*
  kodisweep cleanup --show e --null /mnt/media/tv/* | xargs -0 rm -r`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cleanupShow != "e" && cleanupShow != "f" && cleanupShow != "b" {
			return &config.Error{Field: "show", Reason: fmt.Sprintf("unknown class %q, want e, f or b", cleanupShow)}
		}

		c, err := cleanup.Scan(args)
		if err != nil {
			return err
		}

		sep := "\n"
		if cleanupNull {
			sep = "\x00"
		}
		if cleanupShow == "e" || cleanupShow == "b" {
			for _, dir := range c.WithoutVideo {
				fmt.Printf("%s%s", dir, sep)
			}
		}
		if cleanupShow == "f" || cleanupShow == "b" {
			for _, dir := range c.WithVideo {
				fmt.Printf("%s%s", dir, sep)
			}
		}
		return nil
	},
}

func init() {
	cleanupCmd.Flags().StringVar(&cleanupShow, "show", "e",
		"which directories to print: e(mpty), f(ull) or b(oth)")
	cleanupCmd.Flags().BoolVarP(&cleanupNull, "null", "0", false,
		"terminate each directory with NUL instead of newline")
	rootCmd.AddCommand(cleanupCmd)
}
