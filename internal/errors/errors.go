// Package errors is the structured CompileError machinery of spec.md §7:
// "Every fallible phase returns a Result<T, CompileError>; all errors are
// values, never exceptions."
//
// Grounded on the teacher's internal/errors package: the
// Report/ReportError/Fix/"schema"-tagged-JSON shape and the
// internal/schema.MarshalDeterministic rendering convention are kept
// verbatim; the teacher's TC###/ELB###/LNK###/RT### code taxonomy is
// replaced with spec.md §7's thirteen named error kinds, since Necro's
// phases are not AILANG's.
package errors

import (
	"fmt"

	goerrors "errors"

	"github.com/sunholo/ailang/internal/ast"
	"github.com/sunholo/ailang/internal/schema"
)

// Kind enumerates spec.md §7's error-kind table.
type Kind string

const (
	NotInScope                   Kind = "not_in_scope"
	DuplicateDeclaration         Kind = "duplicate_declaration"
	MismatchedType               Kind = "mismatched_type"
	OccursCheck                  Kind = "occurs_check"
	RigidTypeVariable            Kind = "rigid_type_variable"
	KindMismatch                 Kind = "kind_mismatch"
	KindMismatchedArity          Kind = "kind_mismatched_arity"
	AmbiguousTypeVariable        Kind = "ambiguous_type_variable"
	NonRecursiveInitializedValue Kind = "non_recursive_initialized_value"
	NonConcreteInitializedValue  Kind = "non_concrete_initialized_value"
	MissingInstance              Kind = "missing_instance"
	UniquenessViolation          Kind = "uniqueness_violation"
	NonExhaustivePatterns        Kind = "non_exhaustive_patterns"
)

// phaseOf maps a Kind to the pipeline phase letter that raises it (spec.md
// §4), purely for diagnostic grouping.
func phaseOf(k Kind) string {
	switch k {
	case NotInScope:
		return "rename"
	case DuplicateDeclaration:
		return "reify"
	case MismatchedType, OccursCheck, RigidTypeVariable, KindMismatch, KindMismatchedArity, AmbiguousTypeVariable, NonRecursiveInitializedValue, NonConcreteInitializedValue, MissingInstance:
		return "infer"
	case UniquenessViolation:
		return "alias"
	case NonExhaustivePatterns:
		return "core"
	default:
		return "unknown"
	}
}

// Fix is an optional suggested remediation, carried through unchanged from
// the teacher's diagnostic shape.
type Fix struct {
	Suggestion string  `json:"suggestion"`
	Confidence float64 `json:"confidence"`
}

// CompileError is the canonical structured error value of spec.md §7:
// "Errors carry one or two type operands (in the type-related cases), a
// source location, and an end location."
type CompileError struct {
	Schema string `json:"schema"`
	Kind   Kind   `json:"kind"`
	Phase  string `json:"phase"`

	Message string   `json:"message"`
	Loc     ast.Pos  `json:"loc"`
	End     ast.Pos  `json:"end"`
	Type1   string   `json:"type1,omitempty"`
	Type2   string   `json:"type2,omitempty"`

	Fix *Fix `json:"fix,omitempty"`
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s at %s: %s", e.Kind, e.Loc, e.Message)
}

// New constructs a CompileError of kind at the given span.
func New(kind Kind, loc, end ast.Pos, msg string) *CompileError {
	return &CompileError{
		Schema:  schema.ErrorV1,
		Kind:    kind,
		Phase:   phaseOf(kind),
		Message: msg,
		Loc:     loc,
		End:     end,
	}
}

// WithTypes attaches the one or two type operands spec.md §7 calls for on
// type-related error kinds.
func (e *CompileError) WithTypes(t1, t2 string) *CompileError {
	e.Type1, e.Type2 = t1, t2
	return e
}

// WithFix attaches a suggested remediation, preserving the teacher's
// Fix{Suggestion, Confidence} convention.
func (e *CompileError) WithFix(suggestion string, confidence float64) *CompileError {
	e.Fix = &Fix{Suggestion: suggestion, Confidence: confidence}
	return e
}

// ToJSON renders the error deterministically, per spec.md §7's "error
// formatting is delegated to the driver" — the driver consumes this JSON
// shape rather than a plain .Error() string.
func (e *CompileError) ToJSON() ([]byte, error) {
	data, err := schema.MarshalDeterministic(e)
	if err != nil {
		return nil, fmt.Errorf("encode compile error: %w", err)
	}
	return schema.FormatJSON(data)
}

// As reports whether err wraps a *CompileError, mirroring the teacher's
// errors.As-based extraction helper.
func As(err error) (*CompileError, bool) {
	var ce *CompileError
	if goerrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
