// Package config loads CompileInfo (spec.md §6): the small record of
// verbosity, target compilation phase, optimization level, and timing
// flags that internal/pipeline threads through every phase and
// cmd/necro's subcommands populate from flags plus an optional YAML file.
//
// Grounded on internal/eval_harness/models.go's LoadModelsConfig: plain
// os.ReadFile + gopkg.in/yaml.v3 Unmarshal into a tagged struct, no
// schema-registry machinery layered on top since CompileInfo is a single
// small record, not a catalog.
package config

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Phase names a pipeline stage A..K (spec.md §2), used by CompilationPhase
// to stop the driver early (e.g. `necro check` runs only through E).
type Phase string

const (
	PhaseReify         Phase = "A"
	PhaseScope         Phase = "B"
	PhaseRename        Phase = "C"
	PhaseDepAnalysis   Phase = "D"
	PhaseInfer         Phase = "E"
	PhaseMonomorphize  Phase = "F"
	PhaseCoreTranslate Phase = "G"
	PhasePresimplify   Phase = "H"
	PhaseLambdaLift    Phase = "I"
	PhaseDefunc        Phase = "J"
	PhaseStateAnalysis Phase = "K"
)

// OptLevel is spec.md §6's two-valued optimization knob; Necro's Non-goal
// list (spec.md §1) excludes any optimizer beyond defunctionalization's
// required inlining, so "basic" only toggles internal/presimplify's
// rewrite pass rather than selecting between distinct backends.
type OptLevel string

const (
	OptNone  OptLevel = "none"
	OptBasic OptLevel = "basic"
)

// CompileInfo is spec.md §6's compilation configuration record.
type CompileInfo struct {
	Verbosity        int      `yaml:"verbosity"`         // 0..2
	CompilationPhase Phase    `yaml:"compilation_phase"` // last phase to run, inclusive; "" means all (through K)
	OptLevel         OptLevel `yaml:"opt_level"`
	Timer            bool     `yaml:"timer"`

	// TraceID is stamped once per compilation when Timer is set (see
	// StampTrace). No phase records or reports timings, so this id is
	// Timer's only effect. It wires github.com/google/uuid for
	// SPEC_FULL.md §1.6's "trace span id"
	// rather than for symbol identity, which stays interned-string-based
	// per spec.md §3.
	TraceID uuid.UUID `yaml:"-"`
}

// Default returns the zero-config CompileInfo: silent, runs every phase,
// no optimization, no timing.
func Default() *CompileInfo {
	return &CompileInfo{Verbosity: 0, CompilationPhase: PhaseStateAnalysis, OptLevel: OptNone}
}

// Load reads a CompileInfo from a YAML file at path, falling back to
// Default()'s values for any field the file omits.
func Load(path string) (*CompileInfo, error) {
	info := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, info); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	return info, nil
}

// StampTrace assigns a fresh TraceID when Timer is enabled; a no-op
// otherwise, since an untimed run has nothing to correlate.
func (c *CompileInfo) StampTrace() {
	if c.Timer {
		c.TraceID = uuid.New()
	}
}

// Reaches reports whether phase p is at or before the configured
// CompilationPhase, the stop condition internal/pipeline.Compile checks
// after every phase.
func (c *CompileInfo) Reaches(p Phase) bool {
	order := []Phase{PhaseReify, PhaseScope, PhaseRename, PhaseDepAnalysis, PhaseInfer,
		PhaseMonomorphize, PhaseCoreTranslate, PhasePresimplify, PhaseLambdaLift, PhaseDefunc, PhaseStateAnalysis}
	stop := c.CompilationPhase
	if stop == "" {
		stop = PhaseStateAnalysis
	}
	idxOf := func(target Phase) int {
		for i, ph := range order {
			if ph == target {
				return i
			}
		}
		return len(order) - 1
	}
	return idxOf(p) <= idxOf(stop)
}
