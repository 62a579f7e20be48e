package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultRunsEveryPhase(t *testing.T) {
	info := Default()
	if !info.Reaches(PhaseStateAnalysis) {
		t.Fatalf("Default() should reach the final phase")
	}
	if info.Verbosity != 0 || info.Timer {
		t.Fatalf("Default() should be silent and untimed, got %+v", info)
	}
}

func TestReachesOrdersPhasesCorrectly(t *testing.T) {
	info := &CompileInfo{CompilationPhase: PhaseInfer}
	if !info.Reaches(PhaseReify) || !info.Reaches(PhaseScope) || !info.Reaches(PhaseInfer) {
		t.Fatalf("expected phases up to and including E to be reached")
	}
	if info.Reaches(PhaseMonomorphize) {
		t.Fatalf("did not expect phase F to be reached when capped at E")
	}
}

func TestLoadParsesYAMLOverTop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "necro.yaml")
	yamlBody := "verbosity: 2\ncompilation_phase: \"F\"\nopt_level: basic\ntimer: true\n"
	if err := os.WriteFile(path, []byte(yamlBody), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	info, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if info.Verbosity != 2 || info.CompilationPhase != PhaseMonomorphize || info.OptLevel != OptBasic || !info.Timer {
		t.Fatalf("unexpected CompileInfo after Load: %+v", info)
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected an error for a missing config file")
	}
}

func TestStampTraceOnlyWhenTimed(t *testing.T) {
	info := Default()
	info.StampTrace()
	if info.TraceID.String() != "00000000-0000-0000-0000-000000000000" {
		t.Fatalf("expected a zero TraceID when Timer is unset, got %s", info.TraceID)
	}

	info.Timer = true
	info.StampTrace()
	if info.TraceID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Fatalf("expected StampTrace to assign a fresh TraceID when Timer is set")
	}
}
