package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/mbneck/internal/format"
	"github.com/danielpatrickdp/mbneck/internal/search"
	"github.com/danielpatrickdp/mbneck/internal/sweep"
)

type sweepFlags struct {
	trace       string
	maxLen      int
	workers     int
	minLower    string
	table       string
	reachedOnly bool
}

func newSweepCmd(root *rootFlags) *cobra.Command {
	var flags sweepFlags
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Try every window of held input directly against the trace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSweep(cmd, root, &flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.trace, "trace", "", "Trace file (overrides trace.path)")
	f.IntVar(&flags.maxLen, "max-len", 0, "Longest window tried")
	f.IntVar(&flags.workers, "workers", 0, "Concurrent window starts")
	f.StringVar(&flags.minLower, "min-lower", "", "Lower angle counted as stood up (decimal or 0x hex)")
	f.StringVar(&flags.table, "table", "", "Table format: ascii or markdown")
	f.BoolVar(&flags.reachedOnly, "reached-only", false, "Only print windows that stand up")
	return cmd
}

func runSweep(cmd *cobra.Command, root *rootFlags, flags *sweepFlags) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	override(cmd, "trace", func() { cfg.Trace.Path = flags.trace })
	override(cmd, "max-len", func() { cfg.Sweep.MaxLen = flags.maxLen })
	override(cmd, "workers", func() { cfg.Sweep.Workers = flags.workers })
	override(cmd, "table", func() { cfg.Output.Table = flags.table })
	if cmd.Flags().Changed("min-lower") {
		if cfg.Goal.MinLower, err = parseAngle(flags.minLower); err != nil {
			return err
		}
	}
	logger, err := finish(cmd, cfg)
	if err != nil {
		return err
	}

	tr, err := loadTrace(cfg.Trace.Path)
	if err != nil {
		return err
	}
	results, err := sweep.Run(tr, sweep.Config{
		MaxLen:  cfg.Sweep.MaxLen,
		Workers: cfg.Sweep.Workers,
		Goal:    search.StoodUp(cfg.Goal.MinLower),
	})
	if err != nil {
		return fmt.Errorf("sweep %s: %w", cfg.Trace.Path, err)
	}
	reached := sweep.Reached(results)
	logger.Info("sweep finished", "windows", len(results), "reached", len(reached))

	if flags.reachedOnly {
		results = reached
	}
	mode, _ := format.ParseMode(cfg.Output.Table)
	fmt.Fprintln(cmd.OutOrStdout(), format.Windows(results, mode))
	return nil
}
