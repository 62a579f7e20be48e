package parsetree

import (
	"encoding/gob"
	"fmt"
	"io"
)

// Arena is the wire format for the parser's output (spec.md §1: "Parser
// (produces a raw parse-tree into an arena)" — out of scope here, but its
// output is the interface boundary this package fixes). Rather than hand
// a JSON schema for every Decl/Expr/Pattern/Type variant, this uses
// encoding/gob exactly as it is meant to be used: register every
// concrete type once, then encode/decode the interface graph directly.
// No example repo in the pack ships a turnkey codec for an arbitrary
// interface-typed AST (internal/basecache and internal/coreartifact both
// deliberately stop at a fingerprint/text dump for the same reason), so
// this is the one place in the repo that takes on that job, and gob is
// the standard-library tool built for exactly this — registering a sum
// type's variants and decoding through the interface.
func init() {
	gob.Register(&SimpleAssignment{})
	gob.Register(&ApatsAssignment{})
	gob.Register(&PatAssignment{})
	gob.Register(&TypeSignature{})
	gob.Register(&DataDeclaration{})
	gob.Register(&TypeClassDeclaration{})
	gob.Register(&TypeClassInstance{})

	gob.Register(&Let{})
	gob.Register(&Lambda{})
	gob.Register(&App{})
	gob.Register(&Var{})
	gob.Register(&Constant{})
	gob.Register(&IfThenElse{})
	gob.Register(&Case{})
	gob.Register(&Tuple{})
	gob.Register(&ExpressionList{})
	gob.Register(&ExpressionArray{})
	gob.Register(&BinOp{})
	gob.Register(&BinOpSym{})
	gob.Register(&OpLeftSection{})
	gob.Register(&OpRightSection{})
	gob.Register(&ArithmeticSequence{})
	gob.Register(&Do{})
	gob.Register(&ForLoop{})
	gob.Register(&WhileLoop{})
	gob.Register(&SeqExpression{})

	gob.Register(&BindAssignment{})
	gob.Register(&PatBindAssignment{})
	gob.Register(&ExprStmt{})

	gob.Register(&VarPattern{})
	gob.Register(&Wildcard{})
	gob.Register(&ConstantPattern{})
	gob.Register(&ConstructorPattern{})
	gob.Register(&TuplePattern{})

	gob.Register(&ConId{})
	gob.Register(&TypeVarRef{})
	gob.Register(&TypeApp{})
	gob.Register(&FunctionType{})
	gob.Register(&TypeAttribute{})
}

// Encode writes m's arena to w in the registered gob format.
func Encode(w io.Writer, m *Module) error {
	if err := gob.NewEncoder(w).Encode(m); err != nil {
		return fmt.Errorf("parsetree: encode arena: %w", err)
	}
	return nil
}

// Decode reads a Module arena previously written by Encode.
func Decode(r io.Reader) (*Module, error) {
	var m Module
	if err := gob.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("parsetree: decode arena: %w", err)
	}
	return &m, nil
}
