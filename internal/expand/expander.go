package expand

import (
	"errors"
	"fmt"

	"quill/internal/ast"
	"quill/internal/diag"
	"quill/internal/source"
	"quill/internal/token"
)

// Expander drives invocations to completion: resolve, dispatch to the
// extension kind, query the result for the expected fragment, and
// substitute dummies on every failure path so one bad macro never stops
// the pass.
type Expander struct {
	cx *ExtCtxt
}

// Expander returns an expander bound to this context.
func (cx *ExtCtxt) Expander() *Expander {
	return &Expander{cx: cx}
}

// FullyExpandFragment expands every invocation reachable inside frag,
// innermost results included, and returns the rewritten fragment.
func (e *Expander) FullyExpandFragment(frag AstFragment) AstFragment {
	switch frag.Kind {
	case FragmentExpr:
		frag.Expr = e.expandExpr(frag.Expr)
	case FragmentStmts:
		frag.Stmts = e.expandStmts(frag.Stmts)
	case FragmentItems:
		for _, it := range frag.Items {
			if it.Kind == ast.ItemConst && it.ConstValue != nil {
				it.ConstValue = e.expandExpr(it.ConstValue)
			}
		}
	}
	return frag
}

func (e *Expander) expandStmts(stmts []*ast.Stmt) []*ast.Stmt {
	out := make([]*ast.Stmt, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, e.expandStmt(s, e.cx.CurrentExpansion.Depth)...)
	}
	return out
}

// expandStmt expands one statement. A macro call standing alone as a
// statement expands as a statement fragment, so item-producing macros
// splice their items in; results may themselves be macro statements and
// expand further, bounded by depth.
func (e *Expander) expandStmt(s *ast.Stmt, depth uint) []*ast.Stmt {
	cx := e.cx
	if s.Kind != ast.StmtExpr || s.Expr == nil {
		return []*ast.Stmt{s}
	}
	if s.Expr.Kind != ast.ExprMacCall {
		s.Expr = e.expandExpr(s.Expr)
		return []*ast.Stmt{s}
	}
	if depth >= cx.Config.RecursionLimit {
		cx.SpanErr(s.Expr.Span, diag.ExpRecursionLimit, fmt.Sprintf(
			"recursion limit reached while expanding the macro `%s`",
			s.Expr.Mac.Name()))
		s.Expr = RawExpr(s.Expr.Span, true)
		return []*ast.Stmt{s}
	}

	inv := &Invocation{
		Kind:     InvBang,
		Span:     s.Expr.Mac.Span,
		Mac:      s.Expr.Mac,
		Fragment: FragmentStmts,
	}
	frag := e.ExpandInvoc(inv)

	out := make([]*ast.Stmt, 0, len(frag.Stmts))
	for _, ns := range frag.Stmts {
		out = append(out, e.expandStmt(ns, depth+1)...)
	}
	return out
}

func (e *Expander) expandExpr(expr *ast.Expr) *ast.Expr {
	if expr == nil {
		return nil
	}
	cx := e.cx

	// The frame pushed for each invocation pops when it returns, so a
	// macro expanding to another macro call would otherwise never grow
	// the observed depth.
	depth := cx.CurrentExpansion.Depth
	for expr.Kind == ast.ExprMacCall {
		if depth >= cx.Config.RecursionLimit {
			cx.SpanErr(expr.Span, diag.ExpRecursionLimit, fmt.Sprintf(
				"recursion limit reached while expanding the macro `%s`",
				expr.Mac.Name()))
			return RawExpr(expr.Span, true)
		}
		inv := &Invocation{
			Kind:     InvBang,
			Span:     expr.Mac.Span,
			Mac:      expr.Mac,
			Fragment: FragmentExpr,
		}
		frag := e.ExpandInvoc(inv)
		expr = frag.Expr
		depth++
	}

	for i, el := range expr.Elems {
		expr.Elems[i] = e.expandExpr(el)
	}
	return expr
}

// ExpandInvoc resolves and runs one invocation, returning a fragment of
// the kind the call site expects. Every failure has already been reported
// and replaced by a dummy when this returns.
func (e *Expander) ExpandInvoc(inv *Invocation) AstFragment {
	cx := e.cx

	res, err := cx.Resolver.ResolveMacroInvocation(inv, cx.CurrentExpansion.ID, true)
	if err != nil {
		if errors.Is(err, ErrIndeterminate) {
			cx.SpanBug(inv.Span, "forced macro resolution returned indeterminate")
		}
		cx.SpanErr(inv.Span, diag.ExpUnknownMacro, fmt.Sprintf(
			"cannot find %s `%s` in this scope", invKindDescr(inv.Kind), inv.PathString()))
		return e.dummyFragment(inv, true)
	}

	switch r := res.(type) {
	case ResSingle:
		return e.runExtension(inv, r.Ext)
	case ResDeriveContainer:
		if inv.Kind != InvDerive {
			cx.SpanErr(inv.Span, diag.ExpWrongMacroKind, fmt.Sprintf(
				"`%s` is a derive group and cannot be used here", inv.PathString()))
			return e.dummyFragment(inv, true)
		}
		return e.runDeriveGroup(inv, r.Exts)
	}
	cx.SpanBug(inv.Span, "unknown resolution result")
	return AstFragment{}
}

// runExtension pushes the expansion frame for ext and dispatches to its
// kind. The frame is restored on every path, including unwinds.
func (e *Expander) runExtension(inv *Invocation, ext *SyntaxExtension) AstFragment {
	cx := e.cx

	if ext.Deprecation != nil {
		msg := fmt.Sprintf("use of deprecated macro `%s`", inv.PathString())
		if ext.Deprecation.Note != "" {
			msg += ": " + ext.Deprecation.Note
		}
		cx.SpanWarn(inv.Span, diag.ExpDeprecatedMacro, msg)
	}

	expnData := ext.ExpnData(cx.CurrentExpansion.ID, inv.Span, inv.Name())
	expnID := cx.Sess.Hygiene.Fresh(expnData)

	prev := cx.CurrentExpansion
	cx.CurrentExpansion = ExpansionData{
		ID:           expnID,
		Depth:        prev.Depth + 1,
		Module:       prev.Module,
		DirOwnership: prev.DirOwnership,
	}
	defer func() { cx.CurrentExpansion = prev }()

	res, ok := e.dispatch(inv, ext)
	if !ok {
		return e.dummyFragment(inv, true)
	}

	frag, ok := FragmentFromResult(inv.Fragment, res)
	if !ok {
		cx.SpanErr(inv.Span, diag.ExpWrongFragment, fmt.Sprintf(
			"macro `%s` does not produce %s, which this position requires",
			inv.PathString(), withArticle(inv.Fragment.String())))
		return e.dummyFragment(inv, true)
	}
	return frag
}

// dispatch runs the extension callable matching the invocation form. A
// false result means a kind-vs-form mismatch that was already reported.
func (e *Expander) dispatch(inv *Invocation, ext *SyntaxExtension) (MacResult, bool) {
	cx := e.cx

	switch k := ext.Kind.(type) {
	case LegacyBangKind:
		if inv.Kind != InvBang {
			return nil, e.wrongForm(inv, ext)
		}
		cx.Trace(inv.Span, fmt.Sprintf("expanding `%s!(%s)`", inv.PathString(), inv.Mac.Args))
		return k.Expander.ExpandTT(cx, inv.Span, inv.Mac.Args), true

	case BangKind:
		if inv.Kind != InvBang {
			return nil, e.wrongForm(inv, ext)
		}
		cx.Trace(inv.Span, fmt.Sprintf("expanding `%s!(%s)`", inv.PathString(), inv.Mac.Args))
		out := k.Expander.ExpandBang(cx, inv.Span, inv.Mac.Args)
		cx.Trace(inv.Span, fmt.Sprintf("to `%s`", out))
		return e.reparseStream(inv, out), true

	case AttrKind:
		if inv.Kind != InvAttr {
			return nil, e.wrongForm(inv, ext)
		}
		out := k.Expander.ExpandAttr(cx, inv.Span, inv.AttrTokens, inv.TargetTokens)
		return e.reparseStream(inv, out), true

	case LegacyAttrKind:
		if inv.Kind != InvAttr {
			return nil, e.wrongForm(inv, ext)
		}
		produced := k.Expander.ExpandItem(cx, inv.Span, inv.AttrMeta, inv.Target)
		return resultFromAnnotatables(inv, produced), true

	case NonMacroAttrKind:
		if inv.Kind != InvAttr {
			return nil, e.wrongForm(inv, ext)
		}
		if k.MarkUsed {
			cx.MarkAttrUsed(inv.Span)
		}
		// The attribute expands to nothing; the annotated node survives
		// unchanged.
		return resultFromAnnotatables(inv, []Annotatable{inv.Target}), true

	case DeriveKind:
		return e.dispatchDerive(inv, k.Expander)
	case LegacyDeriveKind:
		return e.dispatchDerive(inv, k.Expander)
	}
	cx.SpanBug(inv.Span, "unknown syntax extension kind")
	return nil, false
}

func (e *Expander) dispatchDerive(inv *Invocation, exp MultiItemModifier) (MacResult, bool) {
	cx := e.cx
	if inv.Kind != InvDerive {
		return nil, e.wrongFormDescr(inv, source.MacroDerive)
	}
	if !inv.Target.DeriveAllowed() {
		cx.SpanErr(inv.Span, diag.ExpDeriveNotAllowed,
			"derive may only be applied to a struct, enum, or union")
		return nil, false
	}
	meta := ast.Word(inv.Name(), inv.Span)
	produced := exp.ExpandItem(cx, inv.Span, &meta, inv.Target)
	// The derive target stays; produced items are companions.
	all := append([]Annotatable{inv.Target}, produced...)
	return resultFromAnnotatables(inv, all), true
}

// runDeriveGroup applies the group's members left to right in declaration
// order, accumulating companion items behind the shared target.
func (e *Expander) runDeriveGroup(inv *Invocation, exts []*SyntaxExtension) AstFragment {
	items := []*ast.Item{}
	if inv.Target.Kind == AnnItem {
		items = append(items, inv.Target.Item)
	}
	for _, ext := range exts {
		memberInv := &Invocation{
			Kind:       InvDerive,
			Span:       inv.Span,
			DerivePath: inv.DerivePath,
			Target:     inv.Target,
			Fragment:   FragmentItems,
		}
		frag := e.runExtension(memberInv, ext)
		for _, it := range frag.Items {
			if inv.Target.Kind == AnnItem && it == inv.Target.Item {
				continue
			}
			items = append(items, it)
		}
	}
	return ItemsFragment(items)
}

func (e *Expander) wrongForm(inv *Invocation, ext *SyntaxExtension) bool {
	return e.wrongFormDescr(inv, ext.MacroKind())
}

func (e *Expander) wrongFormDescr(inv *Invocation, kind source.MacroKind) bool {
	e.cx.SpanErr(inv.Span, diag.ExpWrongMacroKind, fmt.Sprintf(
		"`%s` is %s and cannot be invoked as %s",
		inv.PathString(), withArticle(kind.String()), withArticle(invKindDescr(inv.Kind))))
	return false
}

// reparseStream turns a token-stream expansion back into a fragment. Only
// expression and statement positions take raw streams; richer positions
// need the tree-building extension forms.
func (e *Expander) reparseStream(inv *Invocation, out token.Stream) MacResult {
	cx := e.cx
	if inv.Fragment != FragmentExpr && inv.Fragment != FragmentStmts {
		cx.SpanErr(inv.Span, diag.ExpWrongFragment, fmt.Sprintf(
			"token-stream macro `%s` cannot produce %s",
			inv.PathString(), withArticle(inv.Fragment.String())))
		return Any(inv.Span)
	}
	cur := out.Cursor()
	expr, ok := parseExpr(cx, cur, inv.Span)
	if !ok || !cur.AtEnd() {
		cx.SpanErr(inv.Span, diag.ExpWrongFragment, fmt.Sprintf(
			"macro `%s` produced tokens that do not form an expression",
			inv.PathString()))
		return Any(inv.Span)
	}
	return EagerExpr(expr)
}

func (e *Expander) dummyFragment(inv *Invocation, isError bool) AstFragment {
	var res MacResult
	if isError {
		res = Any(inv.Span)
	} else {
		res = AnyValid(inv.Span)
	}
	// DummyResult answers every kind, so this cannot fail.
	frag, _ := FragmentFromResult(inv.Fragment, res)
	return frag
}

func resultFromAnnotatables(inv *Invocation, nodes []Annotatable) MacResult {
	eager := &MacEager{}
	switch inv.Fragment {
	case FragmentItems:
		items := make([]*ast.Item, 0, len(nodes))
		for _, n := range nodes {
			if n.Kind == AnnItem {
				items = append(items, n.Item)
			}
		}
		eager.Items = items
	case FragmentStmts:
		stmts := make([]*ast.Stmt, 0, len(nodes))
		for _, n := range nodes {
			switch n.Kind {
			case AnnStmt:
				stmts = append(stmts, n.Stmt)
			case AnnItem:
				stmts = append(stmts, &ast.Stmt{
					ID:   ast.DummyNodeID,
					Kind: ast.StmtItem,
					Span: n.Item.Span,
					Item: n.Item,
				})
			}
		}
		eager.Stmts = stmts
	case FragmentExpr:
		for _, n := range nodes {
			if n.Kind == AnnExpr {
				eager.Expr = n.Expr
				break
			}
		}
	}
	return eager
}

func invKindDescr(k InvocationKind) string {
	switch k {
	case InvBang:
		return "macro"
	case InvAttr:
		return "attribute macro"
	case InvDerive:
		return "derive macro"
	}
	return "macro"
}

func withArticle(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case 'a', 'e', 'i', 'o', 'u':
		return "an " + s
	}
	return "a " + s
}
