package source

import "fmt"

// ExpnID identifies one macro expansion. IDs form a tree: every expansion
// except the root has a parent. RootExpnID is the whole-file "expansion".
type ExpnID uint32

const RootExpnID ExpnID = 0

// SyntaxContext identifies a chain of (expansion, transparency) marks
// attached to a span. EmptyCtxt is code written directly in a file.
type SyntaxContext uint32

const EmptyCtxt SyntaxContext = 0

// Transparency controls how identifiers under a mark resolve.
type Transparency uint8

const (
	// Opaque: names resolve only against the macro definition site.
	Opaque Transparency = iota
	// Transparent: names resolve against the call site, as if written inline.
	Transparent
	// SemiTransparent: historical mixed hygiene. Locals are hygienic,
	// item-level names are not.
	SemiTransparent
)

func (t Transparency) String() string {
	switch t {
	case Opaque:
		return "opaque"
	case Transparent:
		return "transparent"
	case SemiTransparent:
		return "semi-transparent"
	}
	return "unknown"
}

// MacroKind is the invocation category of a macro.
type MacroKind uint8

const (
	MacroBang MacroKind = iota
	MacroAttr
	MacroDerive
)

func (k MacroKind) String() string {
	switch k {
	case MacroBang:
		return "macro"
	case MacroAttr:
		return "attribute macro"
	case MacroDerive:
		return "derive macro"
	}
	return "unknown macro kind"
}

// ExpnKind distinguishes the root pseudo-expansion from real macro expansions.
type ExpnKind uint8

const (
	ExpnRoot ExpnKind = iota
	ExpnMacro
)

// IncludeDescr marks textual-inclusion expansions; expansion-cause walks
// stop at this boundary.
const IncludeDescr = "include"

// ExpnData is the provenance record of one expansion. A copy of it is
// reachable from every span produced during that expansion.
type ExpnData struct {
	Kind      ExpnKind
	MacroKind MacroKind
	Descr     string

	Parent   ExpnID
	CallSite Span
	DefSite  Span

	AllowInternalUnstable []string
	AllowInternalUnsafe   bool
	LocalInnerMacros      bool
	Edition               Edition
}

// IsRoot reports whether this record belongs to the root pseudo-expansion.
func (d *ExpnData) IsRoot() bool {
	return d.Kind == ExpnRoot
}

type ctxtData struct {
	outer        ExpnID
	transparency Transparency
	parent       SyntaxContext
}

type markKey struct {
	parent       SyntaxContext
	outer        ExpnID
	transparency Transparency
}

// HygieneData owns the per-session expansion and syntax-context tables.
// One instance serves one compilation session; it is not safe for
// concurrent use.
type HygieneData struct {
	expns []ExpnData
	ctxts []ctxtData
	marks map[markKey]SyntaxContext
}

// NewHygieneData creates the tables with the root expansion preallocated.
func NewHygieneData(edition Edition) *HygieneData {
	h := &HygieneData{marks: make(map[markKey]SyntaxContext)}
	h.expns = append(h.expns, ExpnData{Kind: ExpnRoot, Edition: edition})
	h.ctxts = append(h.ctxts, ctxtData{outer: RootExpnID, parent: EmptyCtxt})
	return h
}

// Fresh allocates a new expansion identity carrying data.
func (h *HygieneData) Fresh(data ExpnData) ExpnID {
	id := ExpnID(len(h.expns))
	h.expns = append(h.expns, data)
	return id
}

// ExpnData returns the provenance record for id.
func (h *HygieneData) ExpnData(id ExpnID) ExpnData {
	if int(id) >= len(h.expns) {
		panic(fmt.Sprintf("hygiene: unknown expansion id %d", id))
	}
	return h.expns[id]
}

// ApplyMark appends an (expansion, transparency) mark to ctxt and returns
// the resulting context. Marks compose append-only: a context whose
// outermost mark already is (id, transparency) is returned unchanged, so a
// span stamped once is never re-stamped.
func (h *HygieneData) ApplyMark(ctxt SyntaxContext, id ExpnID, transparency Transparency) SyntaxContext {
	if ctxt != EmptyCtxt {
		d := h.ctxts[ctxt]
		if d.outer == id && d.transparency == transparency {
			return ctxt
		}
	}
	key := markKey{parent: ctxt, outer: id, transparency: transparency}
	if got, ok := h.marks[key]; ok {
		return got
	}
	next := SyntaxContext(len(h.ctxts))
	h.ctxts = append(h.ctxts, ctxtData{outer: id, transparency: transparency, parent: ctxt})
	h.marks[key] = next
	return next
}

// OuterExpn returns the expansion that applied the outermost mark of ctxt.
func (h *HygieneData) OuterExpn(ctxt SyntaxContext) ExpnID {
	if ctxt == EmptyCtxt {
		return RootExpnID
	}
	return h.ctxts[ctxt].outer
}

// ParentCtxt returns ctxt with its outermost mark removed.
func (h *HygieneData) ParentCtxt(ctxt SyntaxContext) SyntaxContext {
	if ctxt == EmptyCtxt {
		return EmptyCtxt
	}
	return h.ctxts[ctxt].parent
}

// Transparency returns the transparency of the outermost mark of ctxt.
// EmptyCtxt has no mark and reports Transparent.
func (h *HygieneData) Transparency(ctxt SyntaxContext) Transparency {
	if ctxt == EmptyCtxt {
		return Transparent
	}
	return h.ctxts[ctxt].transparency
}

// SourceCallsite walks span's provenance to the span of the outermost
// invocation written directly in a file.
func (h *HygieneData) SourceCallsite(span Span) Span {
	for span.Ctxt != EmptyCtxt {
		data := h.ExpnData(h.ctxts[span.Ctxt].outer)
		if data.IsRoot() {
			break
		}
		span = data.CallSite
	}
	return span
}
