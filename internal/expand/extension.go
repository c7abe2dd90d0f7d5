package expand

import (
	"quill/internal/ast"
	"quill/internal/diag"
	"quill/internal/source"
	"quill/internal/token"
)

// ProcMacro is a function-like expander over raw token streams.
type ProcMacro interface {
	ExpandBang(cx *ExtCtxt, span source.Span, args token.Stream) token.Stream
}

// ProcMacroFunc adapts a plain function to ProcMacro.
type ProcMacroFunc func(cx *ExtCtxt, span source.Span, args token.Stream) token.Stream

func (f ProcMacroFunc) ExpandBang(cx *ExtCtxt, span source.Span, args token.Stream) token.Stream {
	return f(cx, span, args)
}

// TTMacroExpander is a function-like expander that builds tree fragments
// directly instead of emitting tokens for reparsing.
type TTMacroExpander interface {
	ExpandTT(cx *ExtCtxt, span source.Span, args token.Stream) MacResult
}

// TTMacroExpanderFunc adapts a plain function to TTMacroExpander.
type TTMacroExpanderFunc func(cx *ExtCtxt, span source.Span, args token.Stream) MacResult

func (f TTMacroExpanderFunc) ExpandTT(cx *ExtCtxt, span source.Span, args token.Stream) MacResult {
	return f(cx, span, args)
}

// AttrProcMacro is an attribute expander over raw token streams: the
// attribute's own arguments plus the annotated node's tokens in, a
// replacement stream out.
type AttrProcMacro interface {
	ExpandAttr(cx *ExtCtxt, span source.Span, annotation, annotated token.Stream) token.Stream
}

// AttrProcMacroFunc adapts a plain function to AttrProcMacro.
type AttrProcMacroFunc func(cx *ExtCtxt, span source.Span, annotation, annotated token.Stream) token.Stream

func (f AttrProcMacroFunc) ExpandAttr(cx *ExtCtxt, span source.Span, annotation, annotated token.Stream) token.Stream {
	return f(cx, span, annotation, annotated)
}

// MultiItemModifier is an attribute or derive expander over parsed nodes.
// It returns the nodes that replace (for attributes) or accompany (for
// derives) the annotated one.
type MultiItemModifier interface {
	ExpandItem(cx *ExtCtxt, span source.Span, meta *ast.MetaItem, item Annotatable) []Annotatable
}

// MultiItemModifierFunc adapts a plain function to MultiItemModifier.
type MultiItemModifierFunc func(cx *ExtCtxt, span source.Span, meta *ast.MetaItem, item Annotatable) []Annotatable

func (f MultiItemModifierFunc) ExpandItem(cx *ExtCtxt, span source.Span, meta *ast.MetaItem, item Annotatable) []Annotatable {
	return f(cx, span, meta, item)
}

// SyntaxExtensionKind pairs an invocation form with the one callable that
// serves it. The set of implementations is closed.
type SyntaxExtensionKind interface {
	macroKind() source.MacroKind
}

// BangKind: `name!(...)` backed by a token-stream transformer whose
// output is reparsed at the call site.
type BangKind struct {
	Expander ProcMacro
}

// LegacyBangKind: `name!(...)` backed by an expander that builds tree
// fragments directly.
type LegacyBangKind struct {
	Expander TTMacroExpander
}

// AttrKind: `@name` backed by a token-stream transformer.
type AttrKind struct {
	Expander AttrProcMacro
}

// LegacyAttrKind: `@name` backed by a node-level modifier.
type LegacyAttrKind struct {
	Expander MultiItemModifier
}

// NonMacroAttrKind: an attribute that expands to nothing but still must
// resolve, such as built-in markers.
type NonMacroAttrKind struct {
	// MarkUsed records the attribute in the context's used-attribute
	// set on expansion; pure markers leave it alone.
	MarkUsed bool
}

// DeriveKind: `@derive(Name)` backed by a node-level generator.
type DeriveKind struct {
	Expander MultiItemModifier
}

// LegacyDeriveKind: `@derive(Name)` in the historical registration form.
type LegacyDeriveKind struct {
	Expander MultiItemModifier
}

func (BangKind) macroKind() source.MacroKind         { return source.MacroBang }
func (LegacyBangKind) macroKind() source.MacroKind   { return source.MacroBang }
func (AttrKind) macroKind() source.MacroKind         { return source.MacroAttr }
func (LegacyAttrKind) macroKind() source.MacroKind   { return source.MacroAttr }
func (NonMacroAttrKind) macroKind() source.MacroKind { return source.MacroAttr }
func (DeriveKind) macroKind() source.MacroKind       { return source.MacroDerive }
func (LegacyDeriveKind) macroKind() source.MacroKind { return source.MacroDerive }

// BackcompatUnstableFeature is the sentinel feature granted when
// @allow_internal_unstable appears without a feature list. Old
// registrations relied on the bare form meaning "everything".
const BackcompatUnstableFeature = "allow_internal_unstable_backcompat_hack"

// SyntaxExtension is one registered macro: its callable plus the
// definition metadata every expansion it performs will carry.
type SyntaxExtension struct {
	Kind    SyntaxExtensionKind
	DefSite source.Span

	// AllowInternalUnstable lists the feature gates expansions of this
	// macro may use without enabling them. Nil grants nothing.
	AllowInternalUnstable []string
	// AllowInternalUnsafe lets expansions contain unsafe code even under
	// a forbid at the call site.
	AllowInternalUnsafe bool
	// LocalInnerMacros resolves unqualified macro names inside the
	// expansion against the defining package instead of the call site.
	LocalInnerMacros bool

	Stability   *ast.Stability
	Deprecation *ast.Deprecation
	HelperAttrs []string
	Edition     source.Edition

	IsBuiltin bool
	// IsDeriveCopy feeds the shallow-copy fast path downstream.
	IsDeriveCopy bool
}

// MacroKind maps the extension kind to its invocation category. Total:
// every kind has exactly one category.
func (ext *SyntaxExtension) MacroKind() source.MacroKind {
	return ext.Kind.macroKind()
}

// Descr names the invocation category for diagnostics.
func (ext *SyntaxExtension) Descr() string {
	return ext.MacroKind().String()
}

// DefaultExtension builds an extension with empty metadata.
func DefaultExtension(kind SyntaxExtensionKind, edition source.Edition) *SyntaxExtension {
	return &SyntaxExtension{Kind: kind, Edition: edition}
}

// NewSyntaxExtension derives the metadata record from a definition's
// attributes. Malformed attributes degrade per field; the definition
// still registers.
func NewSyntaxExtension(
	h *diag.Handler,
	kind SyntaxExtensionKind,
	defSite source.Span,
	helperAttrs []string,
	edition source.Edition,
	name string,
	attrs []ast.Attribute,
) *SyntaxExtension {
	ext := &SyntaxExtension{
		Kind:        kind,
		DefSite:     defSite,
		HelperAttrs: helperAttrs,
		Edition:     edition,
	}

	if a, ok := ast.FindByName(attrs, "allow_internal_unstable"); ok {
		if a.Meta.HasList {
			features := make([]string, 0, len(a.Meta.Items))
			for _, it := range a.Meta.Items {
				if !it.IsWord() {
					h.SpanErr(it.Span, diag.ExpUnstableFeatureList,
						"allow_internal_unstable expects feature names")
					continue
				}
				features = append(features, it.Name)
			}
			ext.AllowInternalUnstable = features
		} else {
			h.SpanWarn(a.Span, diag.ExpUnstableFeatureList,
				"allow_internal_unstable expects a list of feature names; "+
					"in the future this will become a hard error")
			ext.AllowInternalUnstable = []string{BackcompatUnstableFeature}
		}
	}

	ext.AllowInternalUnsafe = ast.ContainsName(attrs, "allow_internal_unsafe")

	if a, ok := ast.FindByName(attrs, "macro_export"); ok {
		ext.LocalInnerMacros = a.Meta.HasList &&
			ast.ListContainsName(a.Meta.Items, "local_inner_macros")
	}

	if st, ok := ast.FindStability(attrs); ok {
		ext.Stability = &st
	}
	if dep, ok := ast.FindDeprecation(attrs); ok {
		ext.Deprecation = &dep
	}

	ext.IsBuiltin = ast.ContainsName(attrs, "builtin_macro")
	ext.IsDeriveCopy = ext.IsBuiltin && name == "Copy"

	return ext
}

// ExpnData builds the provenance record for one expansion performed by
// this extension.
func (ext *SyntaxExtension) ExpnData(parent source.ExpnID, callSite source.Span, descr string) source.ExpnData {
	return source.ExpnData{
		Kind:                  source.ExpnMacro,
		MacroKind:             ext.MacroKind(),
		Descr:                 descr,
		Parent:                parent,
		CallSite:              callSite,
		DefSite:               ext.DefSite,
		AllowInternalUnstable: ext.AllowInternalUnstable,
		AllowInternalUnsafe:   ext.AllowInternalUnsafe,
		LocalInnerMacros:      ext.LocalInnerMacros,
		Edition:               ext.Edition,
	}
}

// DummyBang is the stand-in registered after a definition error so later
// uses of the name resolve without cascading.
func DummyBang(edition source.Edition) *SyntaxExtension {
	exp := TTMacroExpanderFunc(func(_ *ExtCtxt, span source.Span, _ token.Stream) MacResult {
		return Any(span)
	})
	return DefaultExtension(LegacyBangKind{Expander: exp}, edition)
}

// DummyDerive is the derive counterpart of DummyBang.
func DummyDerive(edition source.Edition) *SyntaxExtension {
	exp := MultiItemModifierFunc(func(_ *ExtCtxt, _ source.Span, _ *ast.MetaItem, _ Annotatable) []Annotatable {
		return nil
	})
	return DefaultExtension(DeriveKind{Expander: exp}, edition)
}

// NonMacroAttrExtension registers an inert attribute.
func NonMacroAttrExtension(markUsed bool, edition source.Edition) *SyntaxExtension {
	return DefaultExtension(NonMacroAttrKind{MarkUsed: markUsed}, edition)
}
