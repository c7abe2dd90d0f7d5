package expand

import (
	"quill/internal/ast"
	"quill/internal/source"
)

// DummyResult substitutes for a failed or deliberately empty expansion.
// It answers every fragment kind, so the driver can always splice
// something in and keep going.
type DummyResult struct {
	isError bool
	span    source.Span
}

// Any builds a dummy for a failed expansion. The error for the failure
// must already have been reported; the placeholders it produces are
// marked so later passes stay silent about them.
func Any(span source.Span) MacResult {
	return DummyResult{isError: true, span: span}
}

// AnyValid builds a dummy for an expansion that legitimately produced
// nothing, such as a conditionally compiled-out macro.
func AnyValid(span source.Span) MacResult {
	return DummyResult{isError: false, span: span}
}

// RawExpr is the placeholder expression a dummy produces: an error
// marker after a failure, a unit value otherwise.
func RawExpr(span source.Span, isError bool) *ast.Expr {
	if isError {
		return &ast.Expr{ID: ast.DummyNodeID, Kind: ast.ExprErr, Span: span}
	}
	return &ast.Expr{ID: ast.DummyNodeID, Kind: ast.ExprTuple, Span: span}
}

// RawPat is the placeholder pattern: a wildcard matches anything without
// binding, so it cannot cause follow-on errors.
func RawPat(span source.Span) *ast.Pat {
	return &ast.Pat{ID: ast.DummyNodeID, Kind: ast.PatWild, Span: span}
}

// RawTy is the placeholder type.
func RawTy(span source.Span, isError bool) *ast.Ty {
	if isError {
		return &ast.Ty{ID: ast.DummyNodeID, Kind: ast.TyErr, Span: span}
	}
	return &ast.Ty{ID: ast.DummyNodeID, Kind: ast.TyTuple, Span: span}
}

func (d DummyResult) MakeExpr() (*ast.Expr, bool) {
	return RawExpr(d.span, d.isError), true
}

func (d DummyResult) MakePat() (*ast.Pat, bool) {
	return RawPat(d.span), true
}

func (d DummyResult) MakeItems() ([]*ast.Item, bool) {
	return []*ast.Item{}, true
}

func (d DummyResult) MakeImplItems() ([]*ast.ImplItem, bool) {
	return []*ast.ImplItem{}, true
}

func (d DummyResult) MakeTraitItems() ([]*ast.TraitItem, bool) {
	return []*ast.TraitItem{}, true
}

func (d DummyResult) MakeForeignItems() ([]*ast.ForeignItem, bool) {
	return []*ast.ForeignItem{}, true
}

func (d DummyResult) MakeStmts() ([]*ast.Stmt, bool) {
	return []*ast.Stmt{{
		ID:   ast.DummyNodeID,
		Kind: ast.StmtExpr,
		Span: d.span,
		Expr: RawExpr(d.span, d.isError),
	}}, true
}

func (d DummyResult) MakeTy() (*ast.Ty, bool) {
	return RawTy(d.span, d.isError), true
}
