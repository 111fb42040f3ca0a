package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func newSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Run one refresh cycle and print the snapshot as JSON",
		Long:  "Fetches all sensors and tickers once, scores them, and writes the resulting snapshot to stdout. Intended for cron jobs and debugging.",
		RunE:  runSnapshot,
	}
	cmd.Flags().Duration("timeout", 2*time.Minute, "Overall fetch timeout")
	cmd.Flags().Bool("pretty", false, "Indent the JSON output")
	return cmd
}

func runSnapshot(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	a := buildApp(cfg)
	snap, err := a.refresher.RunOnce(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	if pretty, _ := cmd.Flags().GetBool("pretty"); pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(snap)
}
