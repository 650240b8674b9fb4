package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/mbneck/internal/format"
	"github.com/danielpatrickdp/mbneck/internal/neck"
	"github.com/danielpatrickdp/mbneck/internal/search"
	"github.com/danielpatrickdp/mbneck/internal/store"
)

const defaultDB = "mbneck.db"

type runsFlags struct {
	db      string
	limit   int
	jsonOut bool
}

func newRunsCmd(root *rootFlags) *cobra.Command {
	var flags runsFlags
	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "List recorded search runs, or show one run's sequences",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(cmd, root, &flags, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.db, "db", "", "SQLite database (default output.db or "+defaultDB+")")
	f.IntVar(&flags.limit, "limit", 20, "Runs listed")
	f.BoolVar(&flags.jsonOut, "json", false, "Output as JSON instead of a table")
	return cmd
}

func runRuns(cmd *cobra.Command, root *rootFlags, flags *runsFlags, args []string) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	override(cmd, "db", func() { cfg.Output.DB = flags.db })
	if cfg.Output.DB == "" {
		cfg.Output.DB = defaultDB
	}
	if _, err := finish(cmd, cfg); err != nil {
		return err
	}

	s, err := store.NewStore(cfg.Output.DB)
	if err != nil {
		return err
	}
	defer s.Close()

	mode, _ := format.ParseMode(cfg.Output.Table)
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		runs, err := s.ListRuns(flags.limit)
		if err != nil {
			return err
		}
		if flags.jsonOut {
			return writeJSON(cmd, runs)
		}
		if len(runs) == 0 {
			fmt.Fprintf(out, "No runs recorded in %s\n", cfg.Output.DB)
			return nil
		}
		fmt.Fprintln(out, format.Runs(runs, mode))
		return nil
	}

	run, err := s.GetRun(args[0])
	if err != nil {
		return err
	}
	seqs, err := s.LoadSequences(run.ID)
	if err != nil {
		return err
	}
	if flags.jsonOut {
		return writeJSON(cmd, runDetail{Run: run, Sequences: encodeAll(seqs)})
	}
	fmt.Fprintln(out, format.Runs([]store.RunRecord{run}, mode))
	fmt.Fprintln(out, format.Sequences(seqs, cfg.Output.Limit, mode))
	return nil
}

// runDetail is the JSON shape of one run with its sequences.
type runDetail struct {
	Run       store.RunRecord `json:"run"`
	Sequences []jsonSequence  `json:"sequences"`
}

type jsonSequence struct {
	Score  uint64 `json:"score"`
	Inputs string `json:"inputs"`
}

func encodeAll(seqs []search.Sequence) []jsonSequence {
	out := make([]jsonSequence, len(seqs))
	for i, s := range seqs {
		out[i] = jsonSequence{Score: s.Score, Inputs: neck.EncodeSequence(s.Inputs)}
	}
	return out
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
