package expand

import (
	"fmt"
	"path/filepath"

	"quill/internal/ast"
	"quill/internal/diag"
	"quill/internal/source"
)

// ExpansionConfig carries the per-session expansion knobs.
type ExpansionConfig struct {
	CrateName      string
	RecursionLimit uint
	TraceMac       bool
}

// DefaultRecursionLimit bounds nested expansion depth.
const DefaultRecursionLimit = 128

// DefaultExpansionConfig returns the config used when no manifest
// overrides anything.
func DefaultExpansionConfig(crateName string) ExpansionConfig {
	return ExpansionConfig{
		CrateName:      crateName,
		RecursionLimit: DefaultRecursionLimit,
	}
}

// Session bundles the per-compilation shared state: loaded files, the
// diagnostic sink, hygiene tables, and the long-form error-code registry.
type Session struct {
	Files       *source.FileSet
	Handler     *diag.Handler
	Hygiene     *source.HygieneData
	Diagnostics *diag.Registry
	Edition     source.Edition
}

// NewSession wires a fresh session around a reporter.
func NewSession(files *source.FileSet, handler *diag.Handler, edition source.Edition) *Session {
	return &Session{
		Files:       files,
		Handler:     handler,
		Hygiene:     source.NewHygieneData(edition),
		Diagnostics: diag.NewRegistry(),
		Edition:     edition,
	}
}

// ModuleData locates the module currently being expanded: its dotted path
// from the crate root and the directory that relative paths and nested
// file modules resolve against.
type ModuleData struct {
	ModPath   []string
	Directory string
}

// DirectoryOwnership says whether the current module owns its directory,
// which controls where nested file modules may live.
type DirectoryOwnership uint8

const (
	DirOwned DirectoryOwnership = iota
	DirUnowned
)

// ExpansionData is the mutable cursor of the expander: which expansion we
// are inside, how deep, and what module surrounds the invocation. Saved
// and restored around every invocation.
type ExpansionData struct {
	ID           source.ExpnID
	Depth        uint
	Module       *ModuleData
	DirOwnership DirectoryOwnership
}

// ExtCtxt is the context handed to every extension: session services,
// resolver access, and the current expansion cursor.
type ExtCtxt struct {
	Sess             *Session
	Config           ExpansionConfig
	RootPath         string
	Resolver         Resolver
	CurrentExpansion ExpansionData

	// Expansions accumulates trace notes per call-site span when
	// Config.TraceMac is on.
	Expansions map[source.Span][]string

	// usedAttrs records attribute spans consumed by mark-used
	// non-macro attributes, so an unused-attribute check can skip them.
	usedAttrs map[source.Span]bool
}

// NewExtCtxt builds a context positioned at the root expansion.
func NewExtCtxt(sess *Session, cfg ExpansionConfig, rootPath string, resolver Resolver) *ExtCtxt {
	return &ExtCtxt{
		Sess:     sess,
		Config:   cfg,
		RootPath: rootPath,
		Resolver: resolver,
		CurrentExpansion: ExpansionData{
			ID:     source.RootExpnID,
			Module: &ModuleData{Directory: filepath.Dir(rootPath)},
		},
		Expansions: make(map[source.Span][]string),
		usedAttrs:  make(map[source.Span]bool),
	}
}

// MarkAttrUsed records that the attribute at sp was consumed.
func (cx *ExtCtxt) MarkAttrUsed(sp source.Span) {
	cx.usedAttrs[sp] = true
}

// AttrUsed reports whether the attribute at sp was marked used.
func (cx *ExtCtxt) AttrUsed(sp source.Span) bool {
	return cx.usedAttrs[sp]
}

// CallSite returns the call site of the expansion currently in progress.
func (cx *ExtCtxt) CallSite() source.Span {
	return cx.Sess.Hygiene.ExpnData(cx.CurrentExpansion.ID).CallSite
}

// WithDefSiteCtxt stamps span as definition-site code of the current
// expansion: names in it resolve where the macro was defined.
func (cx *ExtCtxt) WithDefSiteCtxt(span source.Span) source.Span {
	return cx.applyMark(span, source.Opaque)
}

// WithCallSiteCtxt stamps span as call-site code of the current
// expansion: names in it resolve as if written at the invocation.
func (cx *ExtCtxt) WithCallSiteCtxt(span source.Span) source.Span {
	return cx.applyMark(span, source.Transparent)
}

// WithLegacyCtxt stamps span with the historical mixed hygiene.
func (cx *ExtCtxt) WithLegacyCtxt(span source.Span) source.Span {
	return cx.applyMark(span, source.SemiTransparent)
}

func (cx *ExtCtxt) applyMark(span source.Span, tr source.Transparency) source.Span {
	ctxt := cx.Sess.Hygiene.ApplyMark(span.Ctxt, cx.CurrentExpansion.ID, tr)
	return span.WithCtxt(ctxt)
}

// ExpansionCause walks from the current expansion to the outermost
// invocation attributable to code the user wrote. The walk stops at the
// root and does not cross textual-inclusion boundaries: a macro used
// inside an included file reports the use site, not the include site.
// Returns false at the root expansion, which has no cause.
func (cx *ExtCtxt) ExpansionCause() (source.Span, bool) {
	hy := cx.Sess.Hygiene
	id := cx.CurrentExpansion.ID

	var cause source.Span
	found := false
	for {
		data := hy.ExpnData(id)
		if data.IsRoot() || data.Descr == source.IncludeDescr {
			break
		}
		cause = data.CallSite
		found = true
		id = hy.OuterExpn(cause.Ctxt)
	}
	return cause, found
}

// SpanWarn emits a warning at sp.
func (cx *ExtCtxt) SpanWarn(sp source.Span, code diag.Code, msg string) {
	cx.Sess.Handler.SpanWarn(sp, code, msg)
}

// SpanErr emits a deferred-fatal error at sp.
func (cx *ExtCtxt) SpanErr(sp source.Span, code diag.Code, msg string) {
	cx.Sess.Handler.SpanErr(sp, code, msg)
}

// SpanErrWithCode emits an error tagged with a long-form registry code,
// for example E0001. The tag lets users look the error up with the codes
// command.
func (cx *ExtCtxt) SpanErrWithCode(sp source.Span, stableCode string, msg string) {
	cx.Sess.Handler.SpanErr(sp, diag.RegInfo, fmt.Sprintf("%s [%s]", msg, stableCode))
}

// SpanFatal emits an error and unwinds the pass.
func (cx *ExtCtxt) SpanFatal(sp source.Span, code diag.Code, msg string) {
	cx.Sess.Handler.SpanFatal(sp, code, msg)
}

// SpanBug reports an internal invariant violation at sp.
func (cx *ExtCtxt) SpanBug(sp source.Span, msg string) {
	cx.Sess.Handler.SpanBug(sp, msg)
}

// Bug reports an internal invariant violation without a location.
func (cx *ExtCtxt) Bug(msg string) {
	cx.Sess.Handler.Bug(msg)
}

// SpanUnimpl reports an unimplemented path.
func (cx *ExtCtxt) SpanUnimpl(sp source.Span, msg string) {
	cx.Sess.Handler.SpanUnimpl(sp, msg)
}

// Trace records a trace note for the invocation at sp when tracing is on.
func (cx *ExtCtxt) Trace(sp source.Span, note string) {
	if !cx.Config.TraceMac {
		return
	}
	cx.Expansions[sp] = append(cx.Expansions[sp], note)
}

// FlushTrace emits the accumulated trace notes as informational
// diagnostics and clears the buffer.
func (cx *ExtCtxt) FlushTrace() {
	for sp, notes := range cx.Expansions {
		b := cx.Sess.Handler.Builder(diag.SevInfo, diag.ExpTraceNote, sp, "trace_macros")
		for _, n := range notes {
			b.WithNote(sp, n)
		}
		b.Emit()
	}
	cx.Expansions = make(map[source.Span][]string)
}

// ResolvePath turns a path argument of a macro into a filesystem path.
// Absolute paths pass through. Relative paths resolve against the
// directory of the file containing the outermost invocation written by
// the user, so a helper macro wrapping include_str! anchors paths at its
// caller. Asking this of code with no real backing file is a bug in the
// calling extension.
func (cx *ExtCtxt) ResolvePath(path string, sp source.Span) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	callsite := cx.Sess.Hygiene.SourceCallsite(sp)
	dir, ok := cx.Sess.Files.Dir(callsite.File)
	if !ok {
		cx.Sess.Handler.SpanBug(sp, fmt.Sprintf(
			"cannot resolve relative path %q in a file without a real path", path))
	}
	return filepath.Clean(filepath.Join(dir, path))
}

// ExpandExpr fully expands any macro calls inside e and returns the
// result. Extensions use it to look through arguments that are themselves
// macro invocations.
func (cx *ExtCtxt) ExpandExpr(e *ast.Expr) *ast.Expr {
	frag := cx.Expander().FullyExpandFragment(ExprFragment(e))
	return frag.Expr
}

// StdPath prefixes components with the crate root segment, for synthesized
// references to runtime support items.
func (cx *ExtCtxt) StdPath(components ...string) []string {
	return append([]string{"crate"}, components...)
}

// NextNodeID allocates a node identity via the resolver.
func (cx *ExtCtxt) NextNodeID() ast.NodeID {
	return cx.Resolver.NextNodeID()
}
