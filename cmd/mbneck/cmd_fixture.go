package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/mbneck/internal/neck"
	"github.com/danielpatrickdp/mbneck/internal/replay"
	"github.com/danielpatrickdp/mbneck/internal/search"
	"github.com/danielpatrickdp/mbneck/internal/store"
	"github.com/danielpatrickdp/mbneck/internal/trace"
)

type fixtureFlags struct {
	db  string
	top int
	out string
}

// #region command

func newFixtureCmd(root *rootFlags) *cobra.Command {
	var flags fixtureFlags
	cmd := &cobra.Command{
		Use:   "fixture <run-id>",
		Short: "Export a recorded run's best sequences as a replay fixture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFixture(cmd, root, &flags, args[0])
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.db, "db", "", "SQLite database (default output.db or "+defaultDB+")")
	f.IntVar(&flags.top, "top", 4, "Number of ranked sequences to export")
	f.StringVar(&flags.out, "out", "", "Output fixture JSON path (required)")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

// #endregion command

// #region extract

func runFixture(cmd *cobra.Command, root *rootFlags, flags *fixtureFlags, runID string) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	override(cmd, "db", func() { cfg.Output.DB = flags.db })
	if cfg.Output.DB == "" {
		cfg.Output.DB = defaultDB
	}
	logger, err := finish(cmd, cfg)
	if err != nil {
		return err
	}

	s, err := store.NewStore(cfg.Output.DB)
	if err != nil {
		return err
	}
	defer s.Close()

	run, err := s.GetRun(runID)
	if err != nil {
		return err
	}
	seqs, err := s.LoadSequences(run.ID)
	if err != nil {
		return err
	}
	if len(seqs) == 0 {
		return fmt.Errorf("run %s has no sequences to export", run.ID)
	}
	if flags.top > 0 && flags.top < len(seqs) {
		seqs = seqs[:flags.top]
	}

	tr, err := trace.LoadFile(run.TracePath)
	if err != nil {
		return err
	}
	fx, err := buildFixture(run, tr, seqs)
	if err != nil {
		return err
	}
	if err := writeFixture(fx, flags.out); err != nil {
		return err
	}
	logger.Info("fixture written", "path", flags.out, "cases", len(fx.Cases))
	return nil
}

// #endregion extract

// #region output

// buildFixture turns ranked sequences into jump cases. Frames with no input
// requirement are left unasserted, and the expected final angle is whatever
// the replay produces, so the fixture pins the current transition function.
func buildFixture(run store.RunRecord, tr trace.Trace, seqs []search.Sequence) (replay.Fixture, error) {
	fx := replay.Fixture{
		Description: fmt.Sprintf("Run %s: top %d sequences over %s", run.ID, len(seqs), run.TracePath),
		Frames:      make([][5]uint16, len(tr)),
	}
	for i, f := range tr {
		fx.Frames[i] = f.Columns()
	}

	for rank, seq := range seqs {
		var jumps []int
		for i, in := range seq.Inputs {
			if in == neck.InputTrue {
				jumps = append(jumps, i)
			}
		}
		final, err := replay.Simulate(tr, replay.Frames(jumps...))
		if err != nil {
			return replay.Fixture{}, fmt.Errorf("replay rank %d: %w", rank+1, err)
		}
		fx.Cases = append(fx.Cases, replay.FixtureCase{
			Name:       fmt.Sprintf("rank_%d_%s", rank+1, neck.EncodeSequence(seq.Inputs)),
			JumpFrames: jumps,
			WantLower:  final.LowerAngle,
		})
	}
	return fx, nil
}

func writeFixture(fx replay.Fixture, outPath string) error {
	data, err := json.MarshalIndent(fx, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	return nil
}

// #endregion output
