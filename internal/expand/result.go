package expand

import (
	"quill/internal/ast"
)

// MacResult is the output of one macro expansion. The driver queries it
// exactly once, for the fragment kind matching the call site; every
// accessor either yields that kind or reports false for "unsupported".
type MacResult interface {
	MakeExpr() (*ast.Expr, bool)
	MakePat() (*ast.Pat, bool)
	MakeItems() ([]*ast.Item, bool)
	MakeImplItems() ([]*ast.ImplItem, bool)
	MakeTraitItems() ([]*ast.TraitItem, bool)
	MakeForeignItems() ([]*ast.ForeignItem, bool)
	MakeStmts() ([]*ast.Stmt, bool)
	MakeTy() (*ast.Ty, bool)
}

// stmtsFromExpr is the shared default for MakeStmts: a produced expression
// becomes exactly one expression statement.
func stmtsFromExpr(r MacResult) ([]*ast.Stmt, bool) {
	e, ok := r.MakeExpr()
	if !ok {
		return nil, false
	}
	return []*ast.Stmt{{
		ID:   ast.DummyNodeID,
		Kind: ast.StmtExpr,
		Span: e.Span,
		Expr: e,
	}}, true
}

// MacEager is the MacResult for the common case where the extension has
// already built every form it can return. Populate only the slots that
// were actually produced; everything else reports unsupported.
type MacEager struct {
	Expr         *ast.Expr
	Pat          *ast.Pat
	Items        []*ast.Item
	ImplItems    []*ast.ImplItem
	TraitItems   []*ast.TraitItem
	ForeignItems []*ast.ForeignItem
	Stmts        []*ast.Stmt
	Ty           *ast.Ty
}

// EagerExpr builds a result holding one expression.
func EagerExpr(e *ast.Expr) MacResult { return &MacEager{Expr: e} }

// EagerPat builds a result holding one pattern.
func EagerPat(p *ast.Pat) MacResult { return &MacEager{Pat: p} }

// EagerItems builds a result holding zero or more items.
func EagerItems(items ...*ast.Item) MacResult {
	if items == nil {
		items = []*ast.Item{}
	}
	return &MacEager{Items: items}
}

// EagerStmts builds a result holding zero or more statements.
func EagerStmts(stmts ...*ast.Stmt) MacResult {
	if stmts == nil {
		stmts = []*ast.Stmt{}
	}
	return &MacEager{Stmts: stmts}
}

// EagerTy builds a result holding one type.
func EagerTy(t *ast.Ty) MacResult { return &MacEager{Ty: t} }

func (m *MacEager) MakeExpr() (*ast.Expr, bool) { return m.Expr, m.Expr != nil }

func (m *MacEager) MakeItems() ([]*ast.Item, bool) { return m.Items, m.Items != nil }

func (m *MacEager) MakeImplItems() ([]*ast.ImplItem, bool) {
	return m.ImplItems, m.ImplItems != nil
}

func (m *MacEager) MakeTraitItems() ([]*ast.TraitItem, bool) {
	return m.TraitItems, m.TraitItems != nil
}

func (m *MacEager) MakeForeignItems() ([]*ast.ForeignItem, bool) {
	return m.ForeignItems, m.ForeignItems != nil
}

// MakeStmts returns the stmts slot, falls back to wrapping a produced
// expression in one expression statement, and after that to wrapping
// produced items in item statements. Item-producing macros are thereby
// usable at statement positions.
func (m *MacEager) MakeStmts() ([]*ast.Stmt, bool) {
	if m.Stmts != nil {
		return m.Stmts, true
	}
	if m.Expr != nil {
		return stmtsFromExpr(m)
	}
	if m.Items != nil {
		stmts := make([]*ast.Stmt, 0, len(m.Items))
		for _, it := range m.Items {
			stmts = append(stmts, &ast.Stmt{
				ID:   ast.DummyNodeID,
				Kind: ast.StmtItem,
				Span: it.Span,
				Item: it,
			})
		}
		return stmts, true
	}
	return nil, false
}

// MakePat returns the pattern slot, or falls back to a literal pattern
// when only a literal expression was produced.
func (m *MacEager) MakePat() (*ast.Pat, bool) {
	if m.Pat != nil {
		return m.Pat, true
	}
	if m.Expr != nil && m.Expr.IsLiteral() {
		return &ast.Pat{
			ID:   ast.DummyNodeID,
			Kind: ast.PatLit,
			Span: m.Expr.Span,
			Lit:  m.Expr,
		}, true
	}
	return nil, false
}

func (m *MacEager) MakeTy() (*ast.Ty, bool) { return m.Ty, m.Ty != nil }
