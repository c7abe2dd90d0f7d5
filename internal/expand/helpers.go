package expand

import (
	"fmt"

	"quill/internal/ast"
	"quill/internal/diag"
	"quill/internal/source"
	"quill/internal/token"
)

// CheckZeroTokens reports an error when a macro that takes no arguments
// received some.
func CheckZeroTokens(cx *ExtCtxt, sp source.Span, ts token.Stream, name string) {
	if !ts.IsEmpty() {
		cx.SpanErr(sp, diag.ExpArgCount, fmt.Sprintf("%s takes no arguments", name))
	}
}

// SingleStrFromTokens extracts the single string-literal argument of a
// macro. A trailing comma is accepted. Returns false after reporting.
func SingleStrFromTokens(cx *ExtCtxt, sp source.Span, ts token.Stream, name string) (string, bool) {
	cur := ts.Cursor()
	expr, ok := parseExpr(cx, cur, sp)
	if !ok {
		cx.SpanErr(sp, diag.ExpArgCount, fmt.Sprintf("%s takes 1 argument", name))
		return "", false
	}
	if t, more := cur.Peek(); more && t.IsLeaf() && t.Token.Kind == token.Comma {
		cur.Next()
	}
	if !cur.AtEnd() {
		cx.SpanErr(sp, diag.ExpArgCount, fmt.Sprintf("%s takes 1 argument", name))
		return "", false
	}
	return ExprToString(cx, expr, "argument must be a string literal")
}

// ExprsFromTokens parses a comma-separated argument list, eagerly
// expanding any macro calls among the arguments. Returns false after
// reporting the first parse error.
func ExprsFromTokens(cx *ExtCtxt, sp source.Span, ts token.Stream) ([]*ast.Expr, bool) {
	exprs := []*ast.Expr{}
	cur := ts.Cursor()
	for !cur.AtEnd() {
		expr, ok := parseExpr(cx, cur, sp)
		if !ok {
			return nil, false
		}
		exprs = append(exprs, cx.ExpandExpr(expr))
		if cur.AtEnd() {
			break
		}
		t, _ := cur.Next()
		if !t.IsLeaf() || t.Token.Kind != token.Comma {
			cx.SpanErr(t.Span, diag.ExpExpectedComma, "expected token: `,`")
			return nil, false
		}
	}
	return exprs, true
}

// ExprToString reduces an expression to its string-literal value, eagerly
// expanding it first. Error-marker expressions stay silent: whatever put
// them there already reported.
func ExprToString(cx *ExtCtxt, expr *ast.Expr, errMsg string) (string, bool) {
	expr = cx.ExpandExpr(expr)
	switch expr.Kind {
	case ast.ExprErr:
		return "", false
	case ast.ExprLit:
		if expr.Lit.Kind == ast.LitStr {
			return expr.Lit.Value, true
		}
		if expr.Lit.Kind == ast.LitErr {
			return "", false
		}
	}
	cx.SpanErr(expr.Span, diag.ExpArgType, errMsg)
	return "", false
}

// ParseExpr reads one expression from cur. Drivers use it to cut a
// program into expandable pieces.
func ParseExpr(cx *ExtCtxt, cur *token.Cursor, sp source.Span) (*ast.Expr, bool) {
	return parseExpr(cx, cur, sp)
}

// ParseExprStream parses an entire stream as one expression.
func ParseExprStream(cx *ExtCtxt, ts token.Stream, sp source.Span) (*ast.Expr, bool) {
	cur := ts.Cursor()
	e, ok := parseExpr(cx, cur, sp)
	if !ok || !cur.AtEnd() {
		return nil, false
	}
	return e, true
}

// parseExpr reads one expression from the cursor: a literal, a dotted
// path, a macro call `path!(...)`, a parenthesized tuple, or a bracketed
// array. Macro argument grammars never need more than this.
func parseExpr(cx *ExtCtxt, cur *token.Cursor, fallback source.Span) (*ast.Expr, bool) {
	t, ok := cur.Next()
	if !ok {
		return nil, false
	}

	if !t.IsLeaf() {
		switch t.Delim {
		case token.Paren:
			elems, ok := parseCommaExprs(cx, t.Children, fallback)
			if !ok {
				return nil, false
			}
			return &ast.Expr{ID: ast.DummyNodeID, Kind: ast.ExprTuple, Span: t.Span, Elems: elems}, true
		case token.Bracket:
			elems, ok := parseCommaExprs(cx, t.Children, fallback)
			if !ok {
				return nil, false
			}
			return &ast.Expr{ID: ast.DummyNodeID, Kind: ast.ExprArray, Span: t.Span, Elems: elems}, true
		}
		return nil, false
	}

	switch t.Token.Kind {
	case token.StringLit:
		return litExpr(t, ast.LitStr), true
	case token.IntLit:
		return litExpr(t, ast.LitInt), true
	case token.BoolLit:
		return litExpr(t, ast.LitBool), true
	case token.Ident:
		return parsePathTail(cur, t)
	}
	return nil, false
}

// parsePathTail finishes a path that started with first: more dotted
// segments, then an optional `!(...)` making it a macro call.
func parsePathTail(cur *token.Cursor, first token.Tree) (*ast.Expr, bool) {
	path := []string{first.Token.Text}
	span := first.Span

	for {
		dot, ok := cur.Peek()
		if !ok || !dot.IsLeaf() || dot.Token.Kind != token.Dot {
			break
		}
		cur.Next()
		seg, ok := cur.Next()
		if !ok || !seg.IsLeaf() || seg.Token.Kind != token.Ident {
			return nil, false
		}
		path = append(path, seg.Token.Text)
		span = span.Cover(seg.Span)
	}

	bang, ok := cur.Peek()
	if ok && bang.IsLeaf() && bang.Token.Kind == token.Bang {
		cur.Next()
		args, ok := cur.Next()
		if !ok || args.IsLeaf() || args.Delim != token.Paren {
			return nil, false
		}
		span = span.Cover(args.Span)
		return &ast.Expr{
			ID:   ast.DummyNodeID,
			Kind: ast.ExprMacCall,
			Span: span,
			Mac:  &ast.MacCall{Path: path, Args: args.Children, Span: span},
		}, true
	}

	return &ast.Expr{ID: ast.DummyNodeID, Kind: ast.ExprPath, Span: span, Path: path}, true
}

func parseCommaExprs(cx *ExtCtxt, ts token.Stream, fallback source.Span) ([]*ast.Expr, bool) {
	elems := []*ast.Expr{}
	cur := ts.Cursor()
	for !cur.AtEnd() {
		e, ok := parseExpr(cx, cur, fallback)
		if !ok {
			return nil, false
		}
		elems = append(elems, e)
		if cur.AtEnd() {
			break
		}
		t, _ := cur.Next()
		if !t.IsLeaf() || t.Token.Kind != token.Comma {
			return nil, false
		}
	}
	return elems, true
}

func litExpr(t token.Tree, kind ast.LitKind) *ast.Expr {
	return &ast.Expr{
		ID:   ast.DummyNodeID,
		Kind: ast.ExprLit,
		Span: t.Span,
		Lit:  ast.Lit{Kind: kind, Value: t.Token.Text},
	}
}
