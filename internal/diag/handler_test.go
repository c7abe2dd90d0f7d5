package diag

import (
	"testing"

	"quill/internal/source"
)

func TestHandlerCounts(t *testing.T) {
	bag := NewBag(16)
	h := NewHandler(BagReporter{Bag: bag})

	sp := source.Span{File: 0, Start: 0, End: 1}
	h.SpanWarn(sp, ExpInfo, "w")
	h.SpanErr(sp, ExpUnknownMacro, "e1")
	h.SpanErr(sp, ExpUnknownMacro, "e2")

	if h.WarnCount() != 1 {
		t.Errorf("WarnCount = %d, want 1", h.WarnCount())
	}
	if h.ErrCount() != 2 {
		t.Errorf("ErrCount = %d, want 2", h.ErrCount())
	}
	if !h.HasErrors() {
		t.Errorf("HasErrors = false")
	}
	if bag.Len() != 3 {
		t.Errorf("bag.Len = %d, want 3", bag.Len())
	}
	if err := h.AbortIfErrors(); err == nil {
		t.Errorf("AbortIfErrors = nil with errors present")
	}
}

func TestHandlerFatalUnwinds(t *testing.T) {
	bag := NewBag(16)
	h := NewHandler(BagReporter{Bag: bag})

	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("SpanFatal did not panic")
		}
		if _, ok := r.(FatalError); !ok {
			t.Fatalf("recovered %T, want FatalError", r)
		}
		if bag.Len() != 1 {
			t.Errorf("fatal was not reported before unwinding")
		}
	}()
	h.SpanFatal(source.Span{}, ExpRecursionLimit, "boom")
}

func TestHandlerBugUnwinds(t *testing.T) {
	h := NewHandler(NopReporter{})
	defer func() {
		if _, ok := recover().(ICEError); !ok {
			t.Fatalf("SpanBug did not panic with ICEError")
		}
	}()
	h.SpanBug(source.Span{}, "invariant broken")
}

func TestBuilderEmitOnce(t *testing.T) {
	bag := NewBag(16)
	h := NewHandler(BagReporter{Bag: bag})

	b := h.Builder(SevWarning, RegCodeReuse, source.Span{}, "already used").
		WithNote(source.Span{File: 1}, "previous invocation")
	b.Emit()
	b.Emit()

	if bag.Len() != 1 {
		t.Fatalf("builder emitted %d times", bag.Len())
	}
	d := bag.Items()[0]
	if len(d.Notes) != 1 || d.Notes[0].Msg != "previous invocation" {
		t.Errorf("notes = %+v", d.Notes)
	}
}
