package expand

import (
	"testing"

	"quill/internal/ast"
	"quill/internal/source"
)

func litStr(v string) *ast.Expr {
	return &ast.Expr{
		Kind: ast.ExprLit,
		Span: source.Span{File: 0, Start: 0, End: uint32(len(v))},
		Lit:  ast.Lit{Kind: ast.LitStr, Value: v},
	}
}

func TestMacEagerAccessors(t *testing.T) {
	e := litStr("hi")
	res := EagerExpr(e)

	got, ok := res.MakeExpr()
	if !ok || got != e {
		t.Fatalf("MakeExpr = %+v, %v", got, ok)
	}
	if _, ok := res.MakeItems(); ok {
		t.Errorf("MakeItems reported supported on an expr-only result")
	}
	if _, ok := res.MakeTy(); ok {
		t.Errorf("MakeTy reported supported on an expr-only result")
	}
}

func TestMacEagerStmtsSynthesis(t *testing.T) {
	e := litStr("hi")
	res := EagerExpr(e)

	stmts, ok := res.MakeStmts()
	if !ok {
		t.Fatalf("MakeStmts unsupported despite an expression slot")
	}
	if len(stmts) != 1 || stmts[0].Kind != ast.StmtExpr || stmts[0].Expr != e {
		t.Errorf("synthesized stmts = %+v, want one expression statement", stmts)
	}

	// An explicit stmts slot wins over synthesis.
	own := []*ast.Stmt{{Kind: ast.StmtExpr, Expr: litStr("a")}, {Kind: ast.StmtExpr, Expr: litStr("b")}}
	res2 := &MacEager{Expr: e, Stmts: own}
	stmts, ok = res2.MakeStmts()
	if !ok || len(stmts) != 2 {
		t.Errorf("explicit stmts slot ignored: %+v", stmts)
	}

	// No expression, no statements.
	res3 := &MacEager{Ty: &ast.Ty{Kind: ast.TyTuple}}
	if _, ok := res3.MakeStmts(); ok {
		t.Errorf("MakeStmts synthesized from nothing")
	}
}

func TestMacEagerPatFromLiteral(t *testing.T) {
	res := EagerExpr(litStr("hi"))
	pat, ok := res.MakePat()
	if !ok {
		t.Fatalf("literal expression did not convert to a pattern")
	}
	if pat.Kind != ast.PatLit || pat.Lit == nil || pat.Lit.Lit.Value != "hi" {
		t.Errorf("pattern = %+v", pat)
	}

	// Non-literal expressions do not convert.
	tuple := &ast.Expr{Kind: ast.ExprTuple}
	if _, ok := EagerExpr(tuple).MakePat(); ok {
		t.Errorf("non-literal expression converted to a pattern")
	}

	// An explicit pattern slot wins.
	own := &ast.Pat{Kind: ast.PatWild}
	res2 := &MacEager{Pat: own, Expr: litStr("x")}
	pat, ok = res2.MakePat()
	if !ok || pat != own {
		t.Errorf("explicit pattern slot ignored")
	}
}

func TestEagerItemsEmpty(t *testing.T) {
	res := EagerItems()
	items, ok := res.MakeItems()
	if !ok {
		t.Fatalf("EagerItems() reports unsupported")
	}
	if len(items) != 0 {
		t.Errorf("items = %+v, want empty", items)
	}
}
