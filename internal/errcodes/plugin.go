// Package errcodes provides the builtin macros behind the long-form
// error-code registry: registration, use tracking, and table emission.
package errcodes

import (
	"fmt"

	"quill/internal/ast"
	"quill/internal/diag"
	"quill/internal/expand"
	"quill/internal/source"
	"quill/internal/token"
)

const (
	RegisterMacro   = "__register_diagnostic"
	UsedMacro       = "__diagnostic_used"
	BuildArrayMacro = "__build_diagnostic_array"
)

// RegisterBuiltins makes the three registry macros resolvable. Call once
// per session, before expansion starts.
func RegisterBuiltins(r expand.Resolver, edition source.Edition) {
	r.RegisterBuiltin(RegisterMacro, builtinExt(expandRegisterDiagnostic, edition))
	r.RegisterBuiltin(UsedMacro, builtinExt(expandDiagnosticUsed, edition))
	r.RegisterBuiltin(BuildArrayMacro, builtinExt(expandBuildDiagnosticArray, edition))
}

func builtinExt(f expand.TTMacroExpanderFunc, edition source.Edition) *expand.SyntaxExtension {
	ext := expand.DefaultExtension(expand.LegacyBangKind{Expander: f}, edition)
	ext.IsBuiltin = true
	return ext
}

// expandRegisterDiagnostic handles `__register_diagnostic!(E0001)` and
// `__register_diagnostic!(E0001, "description")`. A malformed description
// is reported but the code still registers, so the rest of the session
// sees it.
func expandRegisterDiagnostic(cx *expand.ExtCtxt, sp source.Span, ts token.Stream) expand.MacResult {
	trees := ts.Trees()

	var code, desc string
	var codeSpan, descSpan source.Span
	hasDesc := false

	switch {
	case len(trees) == 1 && isIdent(trees[0]):
		code = trees[0].Token.Text
		codeSpan = trees[0].Span
	case len(trees) == 3 && isIdent(trees[0]) && isComma(trees[1]) && isString(trees[2]):
		code = trees[0].Token.Text
		codeSpan = trees[0].Span
		desc = trees[2].Token.Text
		descSpan = trees[2].Span
		hasDesc = true
	default:
		// These macros are only emitted by the compiler's own
		// registration front end; a bad shape is not user error.
		cx.SpanBug(sp, fmt.Sprintf("unexpected arguments to %s", RegisterMacro))
	}

	if hasDesc {
		ValidateDescription(cx, descSpan, code, desc)
	}

	if !cx.Sess.Diagnostics.Register(code, desc, hasDesc) {
		cx.SpanErr(codeSpan, diag.RegDuplicateCode,
			fmt.Sprintf("diagnostic code %s already registered", code))
	}
	return expand.EagerItems()
}

// expandDiagnosticUsed handles `__diagnostic_used!(E0001)`. The first use
// of a code is silent; reuse warns and points at the first site;
// using a code that was never registered is an error.
func expandDiagnosticUsed(cx *expand.ExtCtxt, sp source.Span, ts token.Stream) expand.MacResult {
	trees := ts.Trees()
	if len(trees) != 1 || !isIdent(trees[0]) {
		cx.SpanBug(sp, fmt.Sprintf("unexpected arguments to %s", UsedMacro))
	}
	code := trees[0].Token.Text
	codeSpan := trees[0].Span

	outcome, prev := cx.Sess.Diagnostics.MarkUsed(code, codeSpan)
	switch outcome {
	case diag.UseUnregistered:
		cx.SpanErr(codeSpan, diag.RegUnregisteredCode,
			fmt.Sprintf("used diagnostic code %s not registered", code))
	case diag.UseRepeated:
		cx.Sess.Handler.Builder(diag.SevWarning, diag.RegCodeReuse, codeSpan,
			fmt.Sprintf("diagnostic code %s already used", code)).
			WithNote(prev, "previous invocation").
			Emit()
	}
	return expand.EagerExpr(cx.ExprTuple(codeSpan))
}

// expandBuildDiagnosticArray handles
// `__build_diagnostic_array!(crate_name, TABLE_NAME)`: it freezes the
// registry into a constant of (code, description) pairs, described codes
// only, sorted by code.
func expandBuildDiagnosticArray(cx *expand.ExtCtxt, sp source.Span, ts token.Stream) expand.MacResult {
	trees := ts.Trees()
	if len(trees) != 3 || !isIdent(trees[0]) || !isComma(trees[1]) || !isIdent(trees[2]) {
		cx.SpanBug(sp, fmt.Sprintf("unexpected arguments to %s", BuildArrayMacro))
	}
	name := trees[2].Token.Text
	sp = cx.WithLegacyCtxt(sp)

	rows := cx.Sess.Diagnostics.Render()
	elems := make([]*ast.Expr, 0, len(rows))
	for _, row := range rows {
		elems = append(elems, cx.ExprTuple(sp,
			cx.ExprStr(sp, row.Code),
			cx.ExprStr(sp, row.Description)))
	}

	item := cx.ItemConst(sp, name,
		cx.TyPath(sp, cx.StdPath("diagnostics", "Table")),
		cx.ExprArray(sp, elems))
	return expand.EagerItems(item)
}

func isIdent(t token.Tree) bool {
	return t.IsLeaf() && t.Token.Kind == token.Ident
}

func isComma(t token.Tree) bool {
	return t.IsLeaf() && t.Token.Kind == token.Comma
}

func isString(t token.Tree) bool {
	return t.IsLeaf() && t.Token.Kind == token.StringLit
}
