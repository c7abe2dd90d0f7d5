package expand

import (
	"quill/internal/ast"
)

// FragmentKind is the syntactic category the call site expects an
// expansion to produce. It is fixed by the invocation's position in the
// tree, never inferred from what the macro returned.
type FragmentKind uint8

const (
	FragmentExpr FragmentKind = iota
	FragmentPat
	FragmentItems
	FragmentStmts
	FragmentTy
	FragmentImplItems
	FragmentTraitItems
	FragmentForeignItems
)

func (k FragmentKind) String() string {
	switch k {
	case FragmentExpr:
		return "expression"
	case FragmentPat:
		return "pattern"
	case FragmentItems:
		return "item"
	case FragmentStmts:
		return "statement"
	case FragmentTy:
		return "type"
	case FragmentImplItems:
		return "impl item"
	case FragmentTraitItems:
		return "trait item"
	case FragmentForeignItems:
		return "foreign item"
	}
	return "unknown fragment"
}

// AstFragment is one produced piece of tree, tagged with its kind. Only
// the slot matching Kind is populated.
type AstFragment struct {
	Kind FragmentKind

	Expr         *ast.Expr
	Pat          *ast.Pat
	Items        []*ast.Item
	Stmts        []*ast.Stmt
	Ty           *ast.Ty
	ImplItems    []*ast.ImplItem
	TraitItems   []*ast.TraitItem
	ForeignItems []*ast.ForeignItem
}

// ExprFragment wraps an expression.
func ExprFragment(e *ast.Expr) AstFragment {
	return AstFragment{Kind: FragmentExpr, Expr: e}
}

// PatFragment wraps a pattern.
func PatFragment(p *ast.Pat) AstFragment {
	return AstFragment{Kind: FragmentPat, Pat: p}
}

// ItemsFragment wraps an item list.
func ItemsFragment(items []*ast.Item) AstFragment {
	return AstFragment{Kind: FragmentItems, Items: items}
}

// StmtsFragment wraps a statement list.
func StmtsFragment(stmts []*ast.Stmt) AstFragment {
	return AstFragment{Kind: FragmentStmts, Stmts: stmts}
}

// TyFragment wraps a type.
func TyFragment(t *ast.Ty) AstFragment {
	return AstFragment{Kind: FragmentTy, Ty: t}
}

// FragmentFromResult queries res for the fragment kind the call site
// expects. A false result means the macro does not support that kind; the
// caller must report expected-vs-actual and substitute a dummy.
func FragmentFromResult(kind FragmentKind, res MacResult) (AstFragment, bool) {
	frag := AstFragment{Kind: kind}
	ok := false
	switch kind {
	case FragmentExpr:
		frag.Expr, ok = res.MakeExpr()
	case FragmentPat:
		frag.Pat, ok = res.MakePat()
	case FragmentItems:
		frag.Items, ok = res.MakeItems()
	case FragmentStmts:
		frag.Stmts, ok = res.MakeStmts()
	case FragmentTy:
		frag.Ty, ok = res.MakeTy()
	case FragmentImplItems:
		frag.ImplItems, ok = res.MakeImplItems()
	case FragmentTraitItems:
		frag.TraitItems, ok = res.MakeTraitItems()
	case FragmentForeignItems:
		frag.ForeignItems, ok = res.MakeForeignItems()
	}
	return frag, ok
}
