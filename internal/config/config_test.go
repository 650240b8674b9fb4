package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/danielpatrickdp/mbneck/internal/difficulty"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mbneck.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault_Valid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeFile(t, `
trace:
  path: neck.txt
goal:
  min_lower: 0x8400
search:
  step_cap: 500
  workers: 8
difficulty:
  switch_penalty: 20000
output:
  table: markdown
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := Default()
	want.Trace.Path = "neck.txt"
	want.Goal.MinLower = 0x8400
	want.Search.StepCap = 500
	want.Search.Workers = 8
	want.Difficulty.SwitchPenalty = 20000
	want.Output.Table = "markdown"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	// Untouched constants keep their defaults
	if cfg.Difficulty.InitialGap != difficulty.DefaultConfig().InitialGap {
		t.Errorf("expected default initial gap, got %d", cfg.Difficulty.InitialGap)
	}
}

func TestLoad_Empty(t *testing.T) {
	cfg, err := Load(writeFile(t, ""))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("empty file should give defaults (-want +got):\n%s", diff)
	}
}

func TestLoad_UnknownKey(t *testing.T) {
	_, err := Load(writeFile(t, "search:\n  beam: 10\n"))
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestLoad_Overflow(t *testing.T) {
	_, err := Load(writeFile(t, "goal:\n  min_lower: 0x10000\n"))
	if err == nil {
		t.Fatal("expected error for 17-bit goal")
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate_CollectsErrors(t *testing.T) {
	cfg := Default()
	cfg.Search.StepCap = 0
	cfg.Sweep.MaxLen = 0
	cfg.Output.Table = "html"
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"search.step_cap", "sweep.max_len", "output.table", "log.format"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in error: %v", want, err)
		}
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Trace.Path = "neck.txt"
	out, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Load(writeFile(t, out))
	if err != nil {
		t.Fatalf("Load marshalled: %v", err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
