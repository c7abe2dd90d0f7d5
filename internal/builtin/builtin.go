// Package builtin provides the compiler-provided function-like macros.
package builtin

import (
	"fmt"

	"quill/internal/ast"
	"quill/internal/diag"
	"quill/internal/expand"
	"quill/internal/source"
	"quill/internal/token"
)

// RegisterAll makes every builtin macro resolvable. Call once per
// session, before expansion starts.
func RegisterAll(r expand.Resolver, edition source.Edition) {
	register := func(name string, f expand.TTMacroExpanderFunc) {
		ext := expand.DefaultExtension(expand.LegacyBangKind{Expander: f}, edition)
		ext.IsBuiltin = true
		r.RegisterBuiltin(name, ext)
	}
	register("concat", expandConcat)
	register("stringify", expandStringify)
	register("include", expandInclude)
	register("include_str", expandIncludeStr)
	register("compile_error", expandCompileError)
	register("trace_macros", expandTraceMacros)
}

// expandConcat evaluates `concat!(a, b, ...)` into one string literal.
// Arguments are expanded eagerly, so nested macro calls contribute their
// literal results.
func expandConcat(cx *expand.ExtCtxt, sp source.Span, ts token.Stream) expand.MacResult {
	exprs, ok := expand.ExprsFromTokens(cx, sp, ts)
	if !ok {
		return expand.Any(sp)
	}
	var out string
	failed := false
	for _, e := range exprs {
		switch e.Kind {
		case ast.ExprErr:
			// Already reported by whoever produced the marker.
			failed = true
		case ast.ExprLit:
			switch e.Lit.Kind {
			case ast.LitStr, ast.LitInt, ast.LitBool:
				out += e.Lit.Value
			default:
				failed = true
			}
		default:
			cx.SpanErr(e.Span, diag.ExpArgType, "expected a literal")
			failed = true
		}
	}
	if failed {
		return expand.Any(sp)
	}
	return expand.EagerExpr(cx.ExprStr(cx.WithCallSiteCtxt(sp), out))
}

// expandStringify renders the argument tokens back to text without
// expanding them.
func expandStringify(cx *expand.ExtCtxt, sp source.Span, ts token.Stream) expand.MacResult {
	return expand.EagerExpr(cx.ExprStr(cx.WithCallSiteCtxt(sp), ts.String()))
}

// expandInclude parses the named file as an expression and expands it in
// place. Expansions under it report causes relative to the included file,
// not to this call.
func expandInclude(cx *expand.ExtCtxt, sp source.Span, ts token.Stream) expand.MacResult {
	path, ok := expand.SingleStrFromTokens(cx, sp, ts, "include!")
	if !ok {
		return expand.Any(sp)
	}
	id, ok := loadFile(cx, sp, path)
	if !ok {
		return expand.Any(sp)
	}
	stream, problems := token.Scan(id, cx.Sess.Files.Get(id).Content)
	for _, p := range problems {
		cx.SpanErr(p.Span, diag.LexUnknownChar, p.Msg)
	}
	if len(problems) > 0 {
		return expand.Any(sp)
	}
	expr, ok := expand.ParseExprStream(cx, stream, sp)
	if !ok {
		cx.SpanErr(sp, diag.ExpWrongFragment, fmt.Sprintf(
			"%s does not contain an expression", path))
		return expand.Any(sp)
	}
	return expand.EagerExpr(cx.ExpandExpr(expr))
}

// expandIncludeStr yields the named file's contents as a string literal.
func expandIncludeStr(cx *expand.ExtCtxt, sp source.Span, ts token.Stream) expand.MacResult {
	path, ok := expand.SingleStrFromTokens(cx, sp, ts, "include_str!")
	if !ok {
		return expand.Any(sp)
	}
	id, ok := loadFile(cx, sp, path)
	if !ok {
		return expand.Any(sp)
	}
	content := cx.Sess.Files.Get(id).Content
	return expand.EagerExpr(cx.ExprStr(cx.WithCallSiteCtxt(sp), string(content)))
}

// expandCompileError emits the given message as an error at the call
// site. Used by macros to reject inputs their matchers cannot.
func expandCompileError(cx *expand.ExtCtxt, sp source.Span, ts token.Stream) expand.MacResult {
	msg, ok := expand.SingleStrFromTokens(cx, sp, ts, "compile_error!")
	if !ok {
		return expand.Any(sp)
	}
	cx.SpanErr(sp, diag.ExpCompileError, msg)
	return expand.Any(sp)
}

// expandTraceMacros toggles trace collection: `trace_macros!(true)` or
// `trace_macros!(false)`.
func expandTraceMacros(cx *expand.ExtCtxt, sp source.Span, ts token.Stream) expand.MacResult {
	trees := ts.Trees()
	if len(trees) != 1 || !trees[0].IsLeaf() || trees[0].Token.Kind != token.BoolLit {
		cx.SpanErr(sp, diag.ExpArgType, "trace_macros! accepts only `true` or `false`")
		return expand.Any(sp)
	}
	cx.Config.TraceMac = trees[0].Token.Text == "true"
	return expand.AnyValid(sp)
}

// loadFile resolves path relative to the outermost user-written call site
// and loads it into the session file set.
func loadFile(cx *expand.ExtCtxt, sp source.Span, path string) (source.FileID, bool) {
	resolved := cx.ResolvePath(path, sp)
	if f, ok := cx.Sess.Files.GetByPath(resolved); ok {
		return f.ID, true
	}
	id, err := cx.Sess.Files.Load(resolved)
	if err != nil {
		cx.SpanErr(sp, diag.IOLoadFileError, fmt.Sprintf("couldn't read %s: %v", resolved, err))
		return 0, false
	}
	return id, true
}
