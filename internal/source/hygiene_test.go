package source

import "testing"

func TestApplyMarkNeverRestamps(t *testing.T) {
	h := NewHygieneData(Edition2024)
	id := h.Fresh(ExpnData{Kind: ExpnMacro, Descr: "m"})

	ctxt := h.ApplyMark(EmptyCtxt, id, Opaque)
	if ctxt == EmptyCtxt {
		t.Fatalf("ApplyMark returned the empty context")
	}
	again := h.ApplyMark(ctxt, id, Opaque)
	if again != ctxt {
		t.Errorf("re-stamping with the same outermost mark: got %d, want %d", again, ctxt)
	}
}

func TestApplyMarkDedup(t *testing.T) {
	h := NewHygieneData(Edition2024)
	id := h.Fresh(ExpnData{Kind: ExpnMacro, Descr: "m"})

	a := h.ApplyMark(EmptyCtxt, id, Transparent)
	b := h.ApplyMark(EmptyCtxt, id, Transparent)
	if a != b {
		t.Errorf("same (parent, expn, transparency) produced distinct contexts: %d vs %d", a, b)
	}

	c := h.ApplyMark(EmptyCtxt, id, Opaque)
	if c == a {
		t.Errorf("different transparency reused context %d", a)
	}
}

func TestMarkChainNavigation(t *testing.T) {
	h := NewHygieneData(Edition2024)
	outer := h.Fresh(ExpnData{Kind: ExpnMacro, Descr: "outer"})
	inner := h.Fresh(ExpnData{Kind: ExpnMacro, Descr: "inner"})

	c1 := h.ApplyMark(EmptyCtxt, outer, SemiTransparent)
	c2 := h.ApplyMark(c1, inner, Opaque)

	if got := h.OuterExpn(c2); got != inner {
		t.Errorf("OuterExpn(c2) = %d, want %d", got, inner)
	}
	if got := h.ParentCtxt(c2); got != c1 {
		t.Errorf("ParentCtxt(c2) = %d, want %d", got, c1)
	}
	if got := h.Transparency(c2); got != Opaque {
		t.Errorf("Transparency(c2) = %v, want Opaque", got)
	}
	if got := h.Transparency(EmptyCtxt); got != Transparent {
		t.Errorf("Transparency(EmptyCtxt) = %v, want Transparent", got)
	}
	if got := h.OuterExpn(EmptyCtxt); got != RootExpnID {
		t.Errorf("OuterExpn(EmptyCtxt) = %d, want root", got)
	}
}

func TestSourceCallsite(t *testing.T) {
	h := NewHygieneData(Edition2024)

	userSite := Span{File: 1, Start: 10, End: 20}
	outer := h.Fresh(ExpnData{Kind: ExpnMacro, Descr: "outer", CallSite: userSite})
	outerCtxt := h.ApplyMark(EmptyCtxt, outer, SemiTransparent)

	innerSite := Span{File: 1, Start: 100, End: 110, Ctxt: outerCtxt}
	inner := h.Fresh(ExpnData{Kind: ExpnMacro, Descr: "inner", CallSite: innerSite})
	innerCtxt := h.ApplyMark(EmptyCtxt, inner, SemiTransparent)

	produced := Span{File: 1, Start: 200, End: 205, Ctxt: innerCtxt}
	got := h.SourceCallsite(produced)
	if got.Start != userSite.Start || got.Ctxt != EmptyCtxt {
		t.Errorf("SourceCallsite = %+v, want the user-written site %+v", got, userSite)
	}

	plain := Span{File: 1, Start: 5, End: 6}
	if got := h.SourceCallsite(plain); got != plain {
		t.Errorf("SourceCallsite of unmarked span changed it: %+v", got)
	}
}

func TestExpnDataRoot(t *testing.T) {
	h := NewHygieneData(Edition2025)
	root := h.ExpnData(RootExpnID)
	if !root.IsRoot() {
		t.Fatalf("root expansion is not marked root")
	}
	if root.Edition != Edition2025 {
		t.Errorf("root edition = %v, want 2025", root.Edition)
	}
}
