package driver

import (
	"testing"

	"quill/internal/ast"
)

func lit(kind ast.LitKind, v string) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprLit, Lit: ast.Lit{Kind: kind, Value: v}}
}

func TestRenderExpr(t *testing.T) {
	tests := []struct {
		name string
		expr *ast.Expr
		want string
	}{
		{"string escaping", lit(ast.LitStr, "a\"b\n"), `"a\"b\n"`},
		{"integer", lit(ast.LitInt, "42"), "42"},
		{"bool", lit(ast.LitBool, "true"), "true"},
		{"error marker", &ast.Expr{Kind: ast.ExprErr}, "<error>"},
		{"empty tuple", &ast.Expr{Kind: ast.ExprTuple}, "()"},
		{
			"tuple",
			&ast.Expr{Kind: ast.ExprTuple, Elems: []*ast.Expr{lit(ast.LitInt, "1"), lit(ast.LitInt, "2")}},
			"(1, 2)",
		},
		{
			"array",
			&ast.Expr{Kind: ast.ExprArray, Elems: []*ast.Expr{lit(ast.LitStr, "x")}},
			`["x"]`,
		},
		{"path", &ast.Expr{Kind: ast.ExprPath, Path: []string{"a", "b"}}, "a.b"},
		{"nil", nil, "<nil>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderExpr(tt.expr); got != tt.want {
				t.Errorf("RenderExpr = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderStmts(t *testing.T) {
	stmts := []*ast.Stmt{
		{Kind: ast.StmtExpr, Expr: lit(ast.LitStr, "hi")},
		{Kind: ast.StmtItem, Item: &ast.Item{
			Kind:       ast.ItemConst,
			Name:       "TABLE",
			ConstTy:    &ast.Ty{Kind: ast.TyPath, Path: []string{"crate", "diagnostics", "Table"}},
			ConstValue: &ast.Expr{Kind: ast.ExprArray},
		}},
	}
	want := "\"hi\";\nconst TABLE: crate.diagnostics.Table = [];\n"
	if got := RenderStmts(stmts); got != want {
		t.Errorf("RenderStmts = %q, want %q", got, want)
	}
}
