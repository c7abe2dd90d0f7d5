package expand

import (
	"strconv"

	"quill/internal/ast"
	"quill/internal/source"
)

// Builders for the fragments extensions synthesize. Every node gets a
// fresh id from the resolver so later passes can address it.

// ExprStr builds a string literal expression.
func (cx *ExtCtxt) ExprStr(sp source.Span, v string) *ast.Expr {
	return &ast.Expr{
		ID:   cx.NextNodeID(),
		Kind: ast.ExprLit,
		Span: sp,
		Lit:  ast.Lit{Kind: ast.LitStr, Value: v},
	}
}

// ExprUsize builds an unsigned integer literal expression.
func (cx *ExtCtxt) ExprUsize(sp source.Span, v uint) *ast.Expr {
	return &ast.Expr{
		ID:   cx.NextNodeID(),
		Kind: ast.ExprLit,
		Span: sp,
		Lit:  ast.Lit{Kind: ast.LitInt, Value: strconv.FormatUint(uint64(v), 10)},
	}
}

// ExprBool builds a boolean literal expression.
func (cx *ExtCtxt) ExprBool(sp source.Span, v bool) *ast.Expr {
	return &ast.Expr{
		ID:   cx.NextNodeID(),
		Kind: ast.ExprLit,
		Span: sp,
		Lit:  ast.Lit{Kind: ast.LitBool, Value: strconv.FormatBool(v)},
	}
}

// ExprTuple builds a tuple expression. No elements is the unit value.
func (cx *ExtCtxt) ExprTuple(sp source.Span, elems ...*ast.Expr) *ast.Expr {
	return &ast.Expr{ID: cx.NextNodeID(), Kind: ast.ExprTuple, Span: sp, Elems: elems}
}

// ExprArray builds an array expression.
func (cx *ExtCtxt) ExprArray(sp source.Span, elems []*ast.Expr) *ast.Expr {
	return &ast.Expr{ID: cx.NextNodeID(), Kind: ast.ExprArray, Span: sp, Elems: elems}
}

// ExprPath builds a path expression.
func (cx *ExtCtxt) ExprPath(sp source.Span, path []string) *ast.Expr {
	return &ast.Expr{ID: cx.NextNodeID(), Kind: ast.ExprPath, Span: sp, Path: path}
}

// TyTuple builds a tuple type. No elements is the unit type.
func (cx *ExtCtxt) TyTuple(sp source.Span, elems ...*ast.Ty) *ast.Ty {
	return &ast.Ty{ID: cx.NextNodeID(), Kind: ast.TyTuple, Span: sp, Elems: elems}
}

// TyPath builds a path type.
func (cx *ExtCtxt) TyPath(sp source.Span, path []string) *ast.Ty {
	return &ast.Ty{ID: cx.NextNodeID(), Kind: ast.TyPath, Span: sp, Path: path}
}

// ItemConst builds a constant item.
func (cx *ExtCtxt) ItemConst(sp source.Span, name string, ty *ast.Ty, value *ast.Expr) *ast.Item {
	return &ast.Item{
		ID:         cx.NextNodeID(),
		Name:       name,
		Kind:       ast.ItemConst,
		Span:       sp,
		ConstTy:    ty,
		ConstValue: value,
	}
}

// StmtOfExpr wraps an expression as a statement.
func (cx *ExtCtxt) StmtOfExpr(e *ast.Expr) *ast.Stmt {
	return &ast.Stmt{ID: cx.NextNodeID(), Kind: ast.StmtExpr, Span: e.Span, Expr: e}
}
