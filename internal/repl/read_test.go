package repl

import (
	"testing"

	"github.com/sunholo/ailang/internal/parsetree"
)

func TestReadExprLiteralsAndApplication(t *testing.T) {
	e, err := ReadExpr("add 1 2")
	if err != nil {
		t.Fatalf("ReadExpr: %v", err)
	}
	outer, ok := e.(*parsetree.App)
	if !ok {
		t.Fatalf("got %T, want *parsetree.App", e)
	}
	inner, ok := outer.Func.(*parsetree.App)
	if !ok {
		t.Fatalf("got %T, want nested *parsetree.App", outer.Func)
	}
	if v, ok := inner.Func.(*parsetree.Var); !ok || v.Name != "add" {
		t.Fatalf("unexpected function: %+v", inner.Func)
	}
}

func TestReadExprOperatorPrecedence(t *testing.T) {
	// 1 + 2 * 3 must parse as 1 + (2 * 3).
	e, err := ReadExpr("1 + 2 * 3")
	if err != nil {
		t.Fatalf("ReadExpr: %v", err)
	}
	top, ok := e.(*parsetree.BinOp)
	if !ok || top.Op != "+" {
		t.Fatalf("unexpected top node: %+v", e)
	}
	right, ok := top.Right.(*parsetree.BinOp)
	if !ok || right.Op != "*" {
		t.Fatalf("expected */+ grouping, got right=%+v", top.Right)
	}
}

func TestReadExprIfThenElse(t *testing.T) {
	e, err := ReadExpr("if true then 1 else 2")
	if err != nil {
		t.Fatalf("ReadExpr: %v", err)
	}
	if _, ok := e.(*parsetree.IfThenElse); !ok {
		t.Fatalf("got %T, want *parsetree.IfThenElse", e)
	}
}

func TestReadExprLetIn(t *testing.T) {
	e, err := ReadExpr("let x = 1 in x")
	if err != nil {
		t.Fatalf("ReadExpr: %v", err)
	}
	let, ok := e.(*parsetree.Let)
	if !ok || len(let.Decls) != 1 {
		t.Fatalf("got %+v, want a one-decl Let", e)
	}
}

func TestReadExprLambda(t *testing.T) {
	e, err := ReadExpr(`\x y -> x`)
	if err != nil {
		t.Fatalf("ReadExpr: %v", err)
	}
	lam, ok := e.(*parsetree.Lambda)
	if !ok || len(lam.Apats) != 2 {
		t.Fatalf("got %+v, want a two-parameter Lambda", e)
	}
}

func TestReadExprUnaryMinusDesugarsToNegate(t *testing.T) {
	e, err := ReadExpr("-5")
	if err != nil {
		t.Fatalf("ReadExpr: %v", err)
	}
	app, ok := e.(*parsetree.App)
	if !ok {
		t.Fatalf("got %T, want *parsetree.App", e)
	}
	if v, ok := app.Func.(*parsetree.Var); !ok || v.Name != "negate" {
		t.Fatalf("unexpected desugaring: %+v", app.Func)
	}
}

func TestReadExprRejectsTrailingGarbage(t *testing.T) {
	if _, err := ReadExpr("1 2 )"); err == nil {
		t.Fatalf("expected a parse error for unbalanced input")
	}
}
