package driver

import (
	"strconv"
	"strings"

	"quill/internal/ast"
)

// RenderStmts prints expanded statements back as source text, one per
// line. The output is the user-visible result of the expand command.
func RenderStmts(stmts []*ast.Stmt) string {
	var b strings.Builder
	for _, s := range stmts {
		renderStmt(&b, s)
		b.WriteByte('\n')
	}
	return b.String()
}

func renderStmt(b *strings.Builder, s *ast.Stmt) {
	switch s.Kind {
	case ast.StmtExpr:
		renderExpr(b, s.Expr)
		b.WriteByte(';')
	case ast.StmtItem:
		renderItem(b, s.Item)
	}
}

func renderItem(b *strings.Builder, it *ast.Item) {
	switch it.Kind {
	case ast.ItemConst:
		b.WriteString("const ")
		b.WriteString(it.Name)
		b.WriteString(": ")
		renderTy(b, it.ConstTy)
		b.WriteString(" = ")
		renderExpr(b, it.ConstValue)
		b.WriteByte(';')
	default:
		b.WriteString(it.Name)
		b.WriteByte(';')
	}
}

// RenderExpr prints one expression.
func RenderExpr(e *ast.Expr) string {
	var b strings.Builder
	renderExpr(&b, e)
	return b.String()
}

func renderExpr(b *strings.Builder, e *ast.Expr) {
	if e == nil {
		b.WriteString("<nil>")
		return
	}
	switch e.Kind {
	case ast.ExprErr:
		b.WriteString("<error>")
	case ast.ExprTuple:
		b.WriteByte('(')
		renderList(b, e.Elems)
		b.WriteByte(')')
	case ast.ExprArray:
		b.WriteByte('[')
		renderList(b, e.Elems)
		b.WriteByte(']')
	case ast.ExprLit:
		if e.Lit.Kind == ast.LitStr {
			b.WriteString(strconv.Quote(e.Lit.Value))
		} else {
			b.WriteString(e.Lit.Value)
		}
	case ast.ExprPath:
		b.WriteString(strings.Join(e.Path, "."))
	case ast.ExprMacCall:
		b.WriteString(strings.Join(e.Mac.Path, "."))
		b.WriteString("!(")
		b.WriteString(e.Mac.Args.String())
		b.WriteByte(')')
	}
}

func renderList(b *strings.Builder, elems []*ast.Expr) {
	for i, el := range elems {
		if i > 0 {
			b.WriteString(", ")
		}
		renderExpr(b, el)
	}
}

func renderTy(b *strings.Builder, t *ast.Ty) {
	if t == nil {
		b.WriteString("<nil>")
		return
	}
	switch t.Kind {
	case ast.TyErr:
		b.WriteString("<error>")
	case ast.TyTuple:
		b.WriteByte('(')
		for i, el := range t.Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			renderTy(b, el)
		}
		b.WriteByte(')')
	case ast.TyPath:
		b.WriteString(strings.Join(t.Path, "."))
	}
}
