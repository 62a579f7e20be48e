package coreartifact

import (
	"path/filepath"
	"testing"

	"github.com/sunholo/ailang/internal/core"
)

func TestBuildStampsHeaderFromProgram(t *testing.T) {
	prog := &core.Program{}
	a := Build(prog)

	if a.Header.Schema != schemaVersion {
		t.Fatalf("expected schema %d, got %d", schemaVersion, a.Header.Schema)
	}
	if a.Header.BuildID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Fatalf("expected Build to stamp a non-zero BuildID")
	}
	if a.Header.ContentHash == "" {
		t.Fatalf("expected a non-empty ContentHash")
	}
}

func TestWriteFileThenReadFileRoundTrips(t *testing.T) {
	prog := &core.Program{}
	a := Build(prog)

	path := filepath.Join(t.TempDir(), "out.ncore")
	if err := WriteFile(path, a); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got.Header.BuildID != a.Header.BuildID {
		t.Fatalf("BuildID mismatch after round trip: %s vs %s", got.Header.BuildID, a.Header.BuildID)
	}
	if got.Header.ContentHash != a.Header.ContentHash {
		t.Fatalf("ContentHash mismatch after round trip: %s vs %s", got.Header.ContentHash, a.Header.ContentHash)
	}
	if got.Core != a.Core {
		t.Fatalf("Core text mismatch after round trip")
	}
}

func TestReadFileRejectsMissingPath(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.ncore")); err == nil {
		t.Fatalf("expected an error reading a nonexistent artifact")
	}
}
