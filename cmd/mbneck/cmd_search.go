package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/mbneck/internal/config"
	"github.com/danielpatrickdp/mbneck/internal/difficulty"
	"github.com/danielpatrickdp/mbneck/internal/format"
	"github.com/danielpatrickdp/mbneck/internal/graph"
	"github.com/danielpatrickdp/mbneck/internal/logging"
	"github.com/danielpatrickdp/mbneck/internal/neck"
	"github.com/danielpatrickdp/mbneck/internal/render"
	"github.com/danielpatrickdp/mbneck/internal/replay"
	"github.com/danielpatrickdp/mbneck/internal/search"
	"github.com/danielpatrickdp/mbneck/internal/store"
	"github.com/danielpatrickdp/mbneck/internal/trace"
)

type searchFlags struct {
	trace    string
	workers  int
	stepCap  int
	finalCap int
	minLower string
	png      string
	db       string
	limit    int
	table    string
	check    bool
}

func newSearchCmd(root *rootFlags) *cobra.Command {
	var flags searchFlags
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Rank the input sequences that stand up at the end of the trace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSearch(cmd, root, &flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.trace, "trace", "", "Trace file (overrides trace.path)")
	f.IntVar(&flags.workers, "workers", 1, "Parallel layer expansion workers")
	f.IntVar(&flags.stepCap, "step-cap", 0, "Cohorts kept after each backward frame")
	f.IntVar(&flags.finalCap, "final-cap", 0, "Sequences returned")
	f.StringVar(&flags.minLower, "min-lower", "", "Lower angle counted as stood up (decimal or 0x hex)")
	f.StringVar(&flags.png, "png", "", "Write the ranked sequences as a PNG")
	f.StringVar(&flags.db, "db", "", "Record the run in this SQLite database")
	f.IntVar(&flags.limit, "limit", 0, "Rows printed (0 prints all)")
	f.StringVar(&flags.table, "table", "", "Table format: ascii or markdown")
	f.BoolVar(&flags.check, "check", false, "Verify graph soundness after building")
	return cmd
}

func (f *searchFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	override(cmd, "trace", func() { cfg.Trace.Path = f.trace })
	override(cmd, "workers", func() { cfg.Search.Workers = f.workers })
	override(cmd, "step-cap", func() { cfg.Search.StepCap = f.stepCap })
	override(cmd, "final-cap", func() { cfg.Search.FinalCap = f.finalCap })
	override(cmd, "png", func() { cfg.Output.PNG = f.png })
	override(cmd, "db", func() { cfg.Output.DB = f.db })
	override(cmd, "limit", func() { cfg.Output.Limit = f.limit })
	override(cmd, "table", func() { cfg.Output.Table = f.table })
	override(cmd, "check", func() { cfg.Search.Check = f.check })
	if cmd.Flags().Changed("min-lower") {
		v, err := parseAngle(f.minLower)
		if err != nil {
			return err
		}
		cfg.Goal.MinLower = v
	}
	return nil
}

// searchRun carries what a finished search reports and persists.
type searchRun struct {
	graph  *graph.Graph
	seqs   []search.Sequence
	layers []int // states per frame, index 0 is frame 1
	took   time.Duration
}

func runSearch(cmd *cobra.Command, root *rootFlags, flags *searchFlags) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if err := flags.apply(cmd, &cfg); err != nil {
		return err
	}
	logger, err := finish(cmd, cfg)
	if err != nil {
		return err
	}

	tr, err := loadTrace(cfg.Trace.Path)
	if err != nil {
		return err
	}
	if err := replay.Validate(tr); err != nil {
		return fmt.Errorf("trace %s failed validation: %w", cfg.Trace.Path, err)
	}
	logger.Info("trace validated", "path", cfg.Trace.Path, "frames", len(tr))

	run, err := doSearch(cfg, tr, logger)
	if err != nil {
		return err
	}

	mode, _ := format.ParseMode(cfg.Output.Table)
	out := cmd.OutOrStdout()
	if len(run.seqs) == 0 {
		fmt.Fprintf(out, "No input sequence reaches lower angle >= 0x%04X.\n", cfg.Goal.MinLower)
	} else {
		fmt.Fprintln(out, format.Sequences(run.seqs, cfg.Output.Limit, mode))
	}

	if cfg.Output.PNG != "" {
		if err := writePNG(cfg.Output.PNG, run.seqs, run.graph.Frames()); err != nil {
			return err
		}
		logger.Info("image written", "path", cfg.Output.PNG)
	}

	if cfg.Output.DB != "" {
		id, err := saveRun(cfg, run)
		if err != nil {
			return err
		}
		logger.Info("run recorded", "db", cfg.Output.DB, "run_id", id)
	}
	return nil
}

func doSearch(cfg config.Config, tr trace.Trace, logger *slog.Logger) (searchRun, error) {
	start := time.Now()
	run := searchRun{layers: make([]int, 0, len(tr))}

	run.graph = graph.BuildWith(neck.Initial(), tr, graph.Options{
		Workers: cfg.Search.Workers,
		OnLayer: func(frame, states int) {
			run.layers = append(run.layers, states)
			logger.Debug("layer built", "frame", frame, "states", logging.Count(states))
		},
	})
	logger.Info("graph built", "frames", run.graph.Frames(), "states", logging.Count(run.graph.StateCount()))

	if cfg.Search.Check {
		if err := run.graph.Check(tr); err != nil {
			return run, fmt.Errorf("graph check: %w", err)
		}
		logger.Info("graph check passed")
	}

	x := search.NewExtractor(cfg.Search.Config, difficulty.NewScorer(cfg.Difficulty))
	x.OnFrame = func(frame, cohorts int) {
		logger.Debug("backstep", "frame", frame, "cohorts", logging.Count(cohorts))
	}
	run.seqs = x.Extract(run.graph, search.StoodUp(cfg.Goal.MinLower))
	run.took = time.Since(start)
	logger.Info("search finished", "sequences", len(run.seqs), "took", run.took.Round(time.Millisecond))
	return run, nil
}

func writePNG(path string, seqs []search.Sequence, frames int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}
	if err := render.PNG(f, seqs, frames); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func saveRun(cfg config.Config, run searchRun) (string, error) {
	s, err := store.NewStore(cfg.Output.DB)
	if err != nil {
		return "", err
	}
	defer s.Close()

	cfgYAML, err := cfg.Marshal()
	if err != nil {
		return "", err
	}
	rec, err := s.CreateRun(store.RunRecord{
		TracePath:  cfg.Trace.Path,
		Frames:     run.graph.Frames(),
		States:     run.graph.StateCount(),
		ConfigYAML: cfgYAML,
	})
	if err != nil {
		return "", err
	}
	if err := s.SaveSequences(rec.ID, run.seqs); err != nil {
		return "", err
	}

	events := []logging.Event{{RunID: rec.ID, Kind: logging.EventValidated, Frame: -1, Count: run.graph.Frames()}}
	for i, n := range run.layers {
		events = append(events, logging.Event{RunID: rec.ID, Kind: logging.EventLayer, Frame: i + 1, Count: n})
	}
	events = append(events, logging.Event{
		RunID: rec.ID, Kind: logging.EventExtracted, Frame: -1, Count: len(run.seqs),
		Detail: run.took.String(),
	})
	for _, ev := range events {
		if err := logging.LogEvent(s.DB(), ev); err != nil {
			return "", err
		}
	}
	return rec.ID, nil
}
