package expand

import (
	"fmt"

	"quill/internal/ast"
	"quill/internal/source"
)

// AnnotatableKind tags the node category held by an Annotatable.
type AnnotatableKind uint8

const (
	AnnItem AnnotatableKind = iota
	AnnTraitItem
	AnnImplItem
	AnnForeignItem
	AnnStmt
	AnnExpr
)

func (k AnnotatableKind) String() string {
	switch k {
	case AnnItem:
		return "item"
	case AnnTraitItem:
		return "trait item"
	case AnnImplItem:
		return "impl item"
	case AnnForeignItem:
		return "foreign item"
	case AnnStmt:
		return "statement"
	case AnnExpr:
		return "expression"
	}
	return "unknown"
}

// Annotatable is a node an attribute or derive macro may be attached to.
type Annotatable struct {
	Kind AnnotatableKind

	Item        *ast.Item
	TraitItem   *ast.TraitItem
	ImplItem    *ast.ImplItem
	ForeignItem *ast.ForeignItem
	Stmt        *ast.Stmt
	Expr        *ast.Expr
}

// AnnotateItem wraps a top-level item.
func AnnotateItem(it *ast.Item) Annotatable {
	return Annotatable{Kind: AnnItem, Item: it}
}

// AnnotateStmt wraps a statement.
func AnnotateStmt(s *ast.Stmt) Annotatable {
	return Annotatable{Kind: AnnStmt, Stmt: s}
}

// AnnotateExpr wraps an expression.
func AnnotateExpr(e *ast.Expr) Annotatable {
	return Annotatable{Kind: AnnExpr, Expr: e}
}

// Span returns the source extent of the wrapped node.
func (a Annotatable) Span() source.Span {
	switch a.Kind {
	case AnnItem:
		return a.Item.Span
	case AnnTraitItem:
		return a.TraitItem.Span
	case AnnImplItem:
		return a.ImplItem.Span
	case AnnForeignItem:
		return a.ForeignItem.Span
	case AnnStmt:
		return a.Stmt.Span
	case AnnExpr:
		return a.Expr.Span
	}
	return source.Span{}
}

// ExpectItem asserts the wrapped node is a top-level item. A mismatch is
// a caller bug, not user input.
func (a Annotatable) ExpectItem() *ast.Item {
	if a.Kind != AnnItem {
		panic(fmt.Sprintf("expected item, found %s", a.Kind))
	}
	return a.Item
}

// ExpectStmt asserts the wrapped node is a statement.
func (a Annotatable) ExpectStmt() *ast.Stmt {
	if a.Kind != AnnStmt {
		panic(fmt.Sprintf("expected statement, found %s", a.Kind))
	}
	return a.Stmt
}

// ExpectExpr asserts the wrapped node is an expression.
func (a Annotatable) ExpectExpr() *ast.Expr {
	if a.Kind != AnnExpr {
		panic(fmt.Sprintf("expected expression, found %s", a.Kind))
	}
	return a.Expr
}

// DeriveAllowed reports whether derive macros may target this node. Only
// nominal type definitions qualify.
func (a Annotatable) DeriveAllowed() bool {
	if a.Kind != AnnItem {
		return false
	}
	return a.Item.DeriveAllowed()
}
