package expand

import (
	"testing"

	"quill/internal/ast"
	"quill/internal/diag"
	"quill/internal/source"
	"quill/internal/token"
)

func noopBang() SyntaxExtensionKind {
	return LegacyBangKind{Expander: TTMacroExpanderFunc(
		func(_ *ExtCtxt, sp source.Span, _ token.Stream) MacResult { return AnyValid(sp) })}
}

func noopDerive() SyntaxExtensionKind {
	return DeriveKind{Expander: MultiItemModifierFunc(
		func(_ *ExtCtxt, _ source.Span, _ *ast.MetaItem, _ Annotatable) []Annotatable { return nil })}
}

func TestMacroKindTotal(t *testing.T) {
	tests := []struct {
		name string
		kind SyntaxExtensionKind
		want source.MacroKind
	}{
		{"bang", BangKind{}, source.MacroBang},
		{"legacy bang", LegacyBangKind{}, source.MacroBang},
		{"attr", AttrKind{}, source.MacroAttr},
		{"legacy attr", LegacyAttrKind{}, source.MacroAttr},
		{"non-macro attr", NonMacroAttrKind{MarkUsed: true}, source.MacroAttr},
		{"derive", DeriveKind{}, source.MacroDerive},
		{"legacy derive", LegacyDeriveKind{}, source.MacroDerive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext := DefaultExtension(tt.kind, source.Edition2024)
			if got := ext.MacroKind(); got != tt.want {
				t.Errorf("MacroKind = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewSyntaxExtensionUnstableList(t *testing.T) {
	env := newTestEnv(t, "")
	sp := env.span(0, 10)

	attrs := []ast.Attribute{{
		Meta: ast.List("allow_internal_unstable", sp,
			ast.Word("feature_a", sp), ast.Word("feature_b", sp)),
		Span: sp,
	}}
	ext := NewSyntaxExtension(env.cx.Sess.Handler, noopBang(), sp, nil, source.Edition2024, "m", attrs)

	if len(ext.AllowInternalUnstable) != 2 ||
		ext.AllowInternalUnstable[0] != "feature_a" ||
		ext.AllowInternalUnstable[1] != "feature_b" {
		t.Errorf("AllowInternalUnstable = %v", ext.AllowInternalUnstable)
	}
	if env.bag.Len() != 0 {
		t.Errorf("well-formed list produced diagnostics: %+v", env.bag.Items())
	}
}

func TestNewSyntaxExtensionUnstableBareForm(t *testing.T) {
	env := newTestEnv(t, "")
	sp := env.span(0, 10)

	attrs := []ast.Attribute{{Meta: ast.Word("allow_internal_unstable", sp), Span: sp}}
	ext := NewSyntaxExtension(env.cx.Sess.Handler, noopBang(), sp, nil, source.Edition2024, "m", attrs)

	if len(ext.AllowInternalUnstable) != 1 || ext.AllowInternalUnstable[0] != BackcompatUnstableFeature {
		t.Errorf("bare form did not fall back to the sentinel: %v", ext.AllowInternalUnstable)
	}
	if !env.hasCode(diag.ExpUnstableFeatureList) {
		t.Errorf("bare form did not warn")
	}
	if env.bag.HasErrors() {
		t.Errorf("bare form is a warning, not an error")
	}
}

func TestNewSyntaxExtensionUnstableBadEntry(t *testing.T) {
	env := newTestEnv(t, "")
	sp := env.span(0, 10)

	attrs := []ast.Attribute{{
		Meta: ast.List("allow_internal_unstable", sp,
			ast.Word("good", sp), ast.KeyValue("bad", "v", sp)),
		Span: sp,
	}}
	ext := NewSyntaxExtension(env.cx.Sess.Handler, noopBang(), sp, nil, source.Edition2024, "m", attrs)

	if len(ext.AllowInternalUnstable) != 1 || ext.AllowInternalUnstable[0] != "good" {
		t.Errorf("malformed entry not skipped: %v", ext.AllowInternalUnstable)
	}
	if !env.bag.HasErrors() {
		t.Errorf("malformed entry not reported")
	}
}

func TestNewSyntaxExtensionMetadata(t *testing.T) {
	env := newTestEnv(t, "")
	sp := env.span(0, 10)

	attrs := []ast.Attribute{
		{Meta: ast.Word("allow_internal_unsafe", sp), Span: sp},
		{Meta: ast.List("macro_export", sp, ast.Word("local_inner_macros", sp)), Span: sp},
		{Meta: ast.List("deprecated", sp, ast.KeyValue("note", "use other!", sp)), Span: sp},
		{Meta: ast.List("unstable", sp, ast.KeyValue("feature", "gate", sp)), Span: sp},
	}
	ext := NewSyntaxExtension(env.cx.Sess.Handler, noopBang(), sp, []string{"helper"}, source.Edition2025, "m", attrs)

	if !ext.AllowInternalUnsafe {
		t.Errorf("allow_internal_unsafe not picked up")
	}
	if !ext.LocalInnerMacros {
		t.Errorf("local_inner_macros not picked up")
	}
	if ext.Deprecation == nil || ext.Deprecation.Note != "use other!" {
		t.Errorf("deprecation = %+v", ext.Deprecation)
	}
	if ext.Stability == nil || ext.Stability.Level != ast.Unstable || ext.Stability.Feature != "gate" {
		t.Errorf("stability = %+v", ext.Stability)
	}
	if len(ext.HelperAttrs) != 1 || ext.HelperAttrs[0] != "helper" {
		t.Errorf("helper attrs = %v", ext.HelperAttrs)
	}
	if ext.Edition != source.Edition2025 {
		t.Errorf("edition = %v", ext.Edition)
	}
}

func TestIsDeriveCopy(t *testing.T) {
	env := newTestEnv(t, "")
	sp := env.span(0, 10)
	builtinAttr := []ast.Attribute{{Meta: ast.Word("builtin_macro", sp), Span: sp}}

	copyExt := NewSyntaxExtension(env.cx.Sess.Handler, noopDerive(), sp, nil, source.Edition2024, "Copy", builtinAttr)
	if !copyExt.IsBuiltin || !copyExt.IsDeriveCopy {
		t.Errorf("builtin Copy: IsBuiltin=%v IsDeriveCopy=%v", copyExt.IsBuiltin, copyExt.IsDeriveCopy)
	}

	cloneExt := NewSyntaxExtension(env.cx.Sess.Handler, noopDerive(), sp, nil, source.Edition2024, "Clone", builtinAttr)
	if cloneExt.IsDeriveCopy {
		t.Errorf("builtin Clone flagged as derive Copy")
	}

	userCopy := NewSyntaxExtension(env.cx.Sess.Handler, noopDerive(), sp, nil, source.Edition2024, "Copy", nil)
	if userCopy.IsDeriveCopy {
		t.Errorf("non-builtin Copy flagged as derive Copy")
	}
}

func TestExpnDataCarriesMetadata(t *testing.T) {
	sp := source.Span{File: 1, Start: 3, End: 8}
	def := source.Span{File: 2, Start: 0, End: 4}
	ext := DefaultExtension(noopBang(), source.Edition2025)
	ext.DefSite = def
	ext.AllowInternalUnstable = []string{"gate"}
	ext.LocalInnerMacros = true

	data := ext.ExpnData(source.RootExpnID, sp, "m")
	if data.Kind != source.ExpnMacro || data.MacroKind != source.MacroBang {
		t.Errorf("kind = %v/%v", data.Kind, data.MacroKind)
	}
	if data.CallSite != sp || data.DefSite != def {
		t.Errorf("sites = %+v / %+v", data.CallSite, data.DefSite)
	}
	if data.Descr != "m" || !data.LocalInnerMacros || data.Edition != source.Edition2025 {
		t.Errorf("metadata = %+v", data)
	}
	if len(data.AllowInternalUnstable) != 1 || data.AllowInternalUnstable[0] != "gate" {
		t.Errorf("AllowInternalUnstable = %v", data.AllowInternalUnstable)
	}
}

func TestSpecialDerives(t *testing.T) {
	d := DerivePartialEq | DeriveEq
	if !d.Contains(DerivePartialEq) || !d.Contains(DeriveEq) {
		t.Errorf("Contains misses set bits")
	}
	if d.Contains(DeriveCopy) {
		t.Errorf("Contains reports an unset bit")
	}
	if !d.Contains(DerivePartialEq | DeriveEq) {
		t.Errorf("Contains fails on the full mask")
	}
}
