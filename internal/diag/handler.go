package diag

import (
	"fmt"

	"quill/internal/source"
)

// FatalError is thrown (panicked) by fatal-severity emissions to unwind
// the current pass. Drivers recover it at the pass boundary.
type FatalError struct {
	Diag Diagnostic
}

func (e FatalError) Error() string {
	return fmt.Sprintf("fatal: %s", e.Diag.Message)
}

// ICEError is thrown by internal-invariant violations. Never recovered
// into normal control flow; the driver prints it and exits.
type ICEError struct {
	Diag Diagnostic
}

func (e ICEError) Error() string {
	return fmt.Sprintf("internal compiler error: %s", e.Diag.Message)
}

// Handler is the shared emission sink of one session. Every severity
// routes through Report so error counting stays in one place.
type Handler struct {
	reporter  Reporter
	errCount  int
	warnCount int
}

func NewHandler(r Reporter) *Handler {
	return &Handler{reporter: r}
}

// Report forwards d to the underlying reporter and updates the counters.
func (h *Handler) Report(d Diagnostic) {
	switch {
	case d.Severity >= SevError:
		h.errCount++
	case d.Severity == SevWarning:
		h.warnCount++
	}
	if h.reporter != nil {
		h.reporter.Report(d)
	}
}

// Builder starts a diagnostic that reports through this handler.
func (h *Handler) Builder(sev Severity, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(handlerReporter{h}, sev, code, primary, msg)
}

type handlerReporter struct{ h *Handler }

func (r handlerReporter) Report(d Diagnostic) { r.h.Report(d) }

// SpanWarn emits a warning.
func (h *Handler) SpanWarn(sp source.Span, code Code, msg string) {
	h.Report(Diagnostic{Severity: SevWarning, Code: code, Message: msg, Primary: sp})
}

// SpanErr emits a deferred-fatal error: the pass continues, the session
// aborts at the end of the pass.
func (h *Handler) SpanErr(sp source.Span, code Code, msg string) {
	h.Report(Diagnostic{Severity: SevError, Code: code, Message: msg, Primary: sp})
}

// SpanFatal emits an error and unwinds the pass immediately.
func (h *Handler) SpanFatal(sp source.Span, code Code, msg string) {
	d := Diagnostic{Severity: SevFatal, Code: code, Message: msg, Primary: sp}
	h.Report(d)
	panic(FatalError{Diag: d})
}

// SpanBug reports an internal invariant violation and unwinds. Not
// recoverable: it indicates a defect in the compiler, not in user input.
func (h *Handler) SpanBug(sp source.Span, msg string) {
	d := Diagnostic{Severity: SevBug, Code: IntBug, Message: msg, Primary: sp}
	h.Report(d)
	panic(ICEError{Diag: d})
}

// Bug is SpanBug without a location.
func (h *Handler) Bug(msg string) {
	h.SpanBug(source.Span{}, msg)
}

// SpanUnimpl reports an unimplemented code path. Always fatal.
func (h *Handler) SpanUnimpl(sp source.Span, msg string) {
	d := Diagnostic{Severity: SevBug, Code: IntUnimpl, Message: "unimplemented: " + msg, Primary: sp}
	h.Report(d)
	panic(ICEError{Diag: d})
}

// HasErrors reports whether any SevError-or-worse diagnostic was emitted.
func (h *Handler) HasErrors() bool { return h.errCount > 0 }

// ErrCount returns the number of error diagnostics emitted so far.
func (h *Handler) ErrCount() int { return h.errCount }

// WarnCount returns the number of warnings emitted so far.
func (h *Handler) WarnCount() int { return h.warnCount }

// AbortIfErrors returns a summary error when any errors were reported.
func (h *Handler) AbortIfErrors() error {
	if h.errCount == 0 {
		return nil
	}
	if h.errCount == 1 {
		return fmt.Errorf("aborting due to previous error")
	}
	return fmt.Errorf("aborting due to %d previous errors", h.errCount)
}
