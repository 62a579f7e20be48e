// Package coreartifact serializes a finished internal/core.Program (the
// CoreAstArena spec.md §6 hands off to a downstream code generator) into a
// `.ncore` file a separate codegen process can consume.
//
// Grounded on _examples/vovakirdan-surge/internal/driver/dcache.go's
// msgpack-on-disk shape, reused here for a different payload: instead of
// per-module cache metadata, the artifact carries the textual Core dump
// (every CoreExpr already implements String(), spec.md's chosen debug
// rendering) plus a header identifying the artifact, since CoreExpr is an
// interface over a dozen node kinds and a generic msgpack round-trip of
// that interface graph would need per-variant registration for no
// consumer this repo actually has — the header and content-hash are what
// downstream tooling needs to detect staleness; the Core text is what it
// needs to read.
package coreartifact

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/sunholo/ailang/internal/core"
)

const schemaVersion uint16 = 1

// Header identifies one serialized artifact: a fresh google/uuid build ID
// per SPEC_FULL.md §1.6, stamped so a codegen tool can tell two `.ncore`
// files with identical content apart (e.g. across a rebuild that changed
// nothing but should still be treated as a new build), plus a content
// hash so it can tell two *different* artifacts apart cheaply.
type Header struct {
	Schema    uint16
	BuildID   uuid.UUID
	BuiltAt   time.Time
	NumBinds  int
	ContentHash string
}

// Artifact is the on-disk `.ncore` payload.
type Artifact struct {
	Header Header
	Core   string // core.Program.String()
}

// Build wraps prog into an Artifact, stamping a fresh BuildID.
func Build(prog *core.Program) *Artifact {
	text := prog.String()
	sum := sha256.Sum256([]byte(text))
	return &Artifact{
		Header: Header{
			Schema:      schemaVersion,
			BuildID:     uuid.New(),
			BuiltAt:     time.Now(),
			NumBinds:    len(prog.Binds),
			ContentHash: hex.EncodeToString(sum[:]),
		},
		Core: text,
	}
}

// WriteFile msgpack-encodes a and writes it to path (conventionally
// ending in ".ncore").
func WriteFile(path string, a *Artifact) error {
	data, err := msgpack.Marshal(a)
	if err != nil {
		return fmt.Errorf("coreartifact: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("coreartifact: write %s: %w", path, err)
	}
	return nil
}

// ReadFile loads and decodes a `.ncore` file written by WriteFile.
func ReadFile(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("coreartifact: read %s: %w", path, err)
	}
	var a Artifact
	if err := msgpack.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("coreartifact: decode %s: %w", path, err)
	}
	return &a, nil
}
