// Package format renders search results as terminal or Markdown tables.
package format

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/danielpatrickdp/mbneck/internal/neck"
	"github.com/danielpatrickdp/mbneck/internal/replay"
	"github.com/danielpatrickdp/mbneck/internal/search"
	"github.com/danielpatrickdp/mbneck/internal/store"
	"github.com/danielpatrickdp/mbneck/internal/sweep"
)

// Mode controls the output format.
type Mode int

const (
	ASCII    Mode = iota // Fixed-width terminal tables
	Markdown             // GitHub-flavoured Markdown tables
)

// ParseMode maps a config string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "ascii", "table":
		return ASCII, nil
	case "markdown", "md":
		return Markdown, nil
	}
	return ASCII, fmt.Errorf("unknown table format %q", s)
}

// #region writer
func newWriter(m Mode) table.Writer {
	w := table.NewWriter()
	if m == ASCII {
		w.SetStyle(table.StyleLight)
	}
	return w
}

func render(w table.Writer, m Mode) string {
	if m == Markdown {
		return w.RenderMarkdown()
	}
	return w.Render()
}

// #endregion writer

// #region sequences
// Sequences lists up to limit ranked sequences (all when limit <= 0).
// Each row carries the compact symbol string and a summary of the
// asserted inputs.
func Sequences(seqs []search.Sequence, limit int, m Mode) string {
	w := newWriter(m)
	w.AppendHeader(table.Row{"#", "Score", "Presses", "Releases", "Inputs"})
	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})

	n := len(seqs)
	if limit > 0 && limit < n {
		n = limit
	}
	for i, seq := range seqs[:n] {
		presses, releases := count(seq.Inputs)
		w.AppendRow(table.Row{i + 1, seq.Score, presses, releases, neck.EncodeSequence(seq.Inputs)})
	}
	if n < len(seqs) {
		w.AppendFooter(table.Row{"", "", "", "", fmt.Sprintf("%d more", len(seqs)-n)})
	}
	return render(w, m)
}

func count(seq []neck.Input) (presses, releases int) {
	for _, in := range seq {
		switch in {
		case neck.InputTrue:
			presses++
		case neck.InputFalse:
			releases++
		}
	}
	return presses, releases
}

// #endregion sequences

// #region windows
// Windows lists sweep results, one row per window.
func Windows(results []sweep.Result, m Mode) string {
	w := newWriter(m)
	w.AppendHeader(table.Row{"Start", "Len", "Lower", "Upper", "Stood up"})
	for _, r := range results {
		w.AppendRow(table.Row{
			r.Start, r.Len,
			fmt.Sprintf("0x%04X", r.Final.LowerAngle),
			fmt.Sprintf("0x%04X", r.Final.UpperAngle),
			BoolMark(r.Reached),
		})
	}
	return render(w, m)
}

// #endregion windows

// #region cases
// Cases lists replay fixture results.
func Cases(results []replay.CaseResult, m Mode) string {
	w := newWriter(m)
	w.AppendHeader(table.Row{"Case", "Lower", "Pass", "Error"})
	for _, r := range results {
		errText := ""
		if r.Err != nil {
			errText = r.Err.Error()
		}
		w.AppendRow(table.Row{r.Name, fmt.Sprintf("0x%04X", r.GotLower), BoolMark(r.Passed), errText})
	}
	return render(w, m)
}

// #endregion cases

// #region runs
// Runs lists stored search runs, newest first as given.
func Runs(runs []store.RunRecord, m Mode) string {
	w := newWriter(m)
	w.AppendHeader(table.Row{"ID", "Created", "Trace", "Frames", "States", "Sequences", "Best"})
	for _, r := range runs {
		best := "-"
		if r.Sequences > 0 {
			best = fmt.Sprint(r.BestScore)
		}
		w.AppendRow(table.Row{
			r.ID, r.CreatedAt.Format(time.DateTime), Truncate(r.TracePath, 40),
			r.Frames, r.States, r.Sequences, best,
		})
	}
	return render(w, m)
}

// #endregion runs

// #region helpers
// Truncate shortens s to maxLen characters, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// BoolMark returns "✓" for true and "✗" for false.
func BoolMark(v bool) string {
	if v {
		return "✓"
	}
	return "✗"
}

// #endregion helpers
