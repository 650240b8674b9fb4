package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/mbneck/internal/format"
	"github.com/danielpatrickdp/mbneck/internal/replay"
)

type validateFlags struct {
	trace   string
	fixture string
}

func newValidateCmd(root *rootFlags) *cobra.Command {
	var flags validateFlags
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Replay a trace or fixture and check it against the transition function",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd, root, &flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.trace, "trace", "", "Trace file (overrides trace.path)")
	f.StringVar(&flags.fixture, "fixture", "", "JSON replay fixture with jump cases")
	cmd.MarkFlagsMutuallyExclusive("trace", "fixture")
	return cmd
}

func runValidate(cmd *cobra.Command, root *rootFlags, flags *validateFlags) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	override(cmd, "trace", func() { cfg.Trace.Path = flags.trace })
	logger, err := finish(cmd, cfg)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if flags.fixture != "" {
		fx, err := replay.LoadFixture(flags.fixture)
		if err != nil {
			return err
		}
		results := replay.RunFixture(fx)
		mode, _ := format.ParseMode(cfg.Output.Table)
		fmt.Fprintln(out, format.Cases(results, mode))

		failed := 0
		for _, r := range results {
			if !r.Passed {
				failed++
			}
		}
		logger.Info("fixture replayed", "path", flags.fixture, "cases", len(results), "failed", failed)
		if failed > 0 {
			return fmt.Errorf("%d of %d fixture cases failed", failed, len(results))
		}
		return nil
	}

	tr, err := loadTrace(cfg.Trace.Path)
	if err != nil {
		return err
	}
	if err := replay.Validate(tr); err != nil {
		var me *replay.MismatchError
		if errors.As(err, &me) {
			fmt.Fprintf(out, "MISMATCH frame %d %s: got %d, want %d\n", me.Frame, me.Field, me.Got, me.Want)
		}
		return fmt.Errorf("trace %s failed validation: %w", cfg.Trace.Path, err)
	}
	fmt.Fprintf(out, "OK %d frames\n", len(tr))
	return nil
}
