package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/danielpatrickdp/mbneck/internal/neck"
	"github.com/danielpatrickdp/mbneck/internal/search"
)

func tempDB(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := NewStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAndGetRun(t *testing.T) {
	s := tempDB(t)

	rec, err := s.CreateRun(RunRecord{TracePath: "neck.txt", Frames: 4, States: 9, ConfigYAML: "search:\n  step_cap: 10\n"})
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	if rec.ID == "" {
		t.Fatal("expected non-empty run ID")
	}
	if rec.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set")
	}

	got, err := s.GetRun(rec.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if diff := cmp.Diff(rec, got); diff != "" {
		t.Errorf("run mismatch (-want +got):\n%s", diff)
	}
}

func TestGetRun_Missing(t *testing.T) {
	s := tempDB(t)
	if _, err := s.GetRun("nope"); err == nil {
		t.Fatal("expected error for missing run")
	}
}

func TestSaveAndLoadSequences(t *testing.T) {
	s := tempDB(t)
	rec, err := s.CreateRun(RunRecord{TracePath: "neck.txt", Frames: 4, States: 9})
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	seqs := []search.Sequence{
		{Inputs: []neck.Input{neck.InputTrue, neck.InputAny, neck.InputTrue, neck.InputAny}, Score: 1},
		{Inputs: []neck.Input{neck.InputTrue, neck.InputFalse, neck.InputTrue, neck.InputFalse}, Score: 30000},
	}
	if err := s.SaveSequences(rec.ID, seqs); err != nil {
		t.Fatalf("SaveSequences: %v", err)
	}

	got, err := s.LoadSequences(rec.ID)
	if err != nil {
		t.Fatalf("LoadSequences: %v", err)
	}
	if diff := cmp.Diff(seqs, got); diff != "" {
		t.Errorf("sequences mismatch (-want +got):\n%s", diff)
	}

	run, _ := s.GetRun(rec.ID)
	if run.Sequences != 2 || run.BestScore != 1 {
		t.Errorf("expected summary 2 sequences best 1, got %d best %d", run.Sequences, run.BestScore)
	}

	// Saving again replaces the previous set
	if err := s.SaveSequences(rec.ID, seqs[1:]); err != nil {
		t.Fatalf("SaveSequences replace: %v", err)
	}
	got, _ = s.LoadSequences(rec.ID)
	if len(got) != 1 || got[0].Score != 30000 {
		t.Errorf("expected only the replacement sequence, got %+v", got)
	}
}

func TestSaveSequences_UnknownRun(t *testing.T) {
	s := tempDB(t)
	err := s.SaveSequences("missing", []search.Sequence{{Inputs: []neck.Input{neck.InputTrue}}})
	if err == nil {
		t.Fatal("expected error for unknown run")
	}
}

func TestListRuns(t *testing.T) {
	s := tempDB(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"r1", "r2", "r3"} {
		_, err := s.CreateRun(RunRecord{ID: id, TracePath: "t", CreatedAt: base.Add(time.Duration(i) * time.Hour)})
		if err != nil {
			t.Fatalf("CreateRun %s: %v", id, err)
		}
	}

	runs, err := s.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	var ids []string
	for _, r := range runs {
		ids = append(ids, r.ID)
	}
	if diff := cmp.Diff([]string{"r3", "r2"}, ids); diff != "" {
		t.Errorf("ListRuns order (-want +got):\n%s", diff)
	}
}
