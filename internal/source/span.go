package source

import (
	"fmt"
)

// Span is a half-open byte range inside one file, plus the syntax context
// describing which macro expansions produced it. A span lexed straight from
// a file carries EmptyCtxt.
type Span struct {
	File  FileID
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
	Ctxt  SyntaxContext
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	if s.Ctxt == EmptyCtxt {
		return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
	}
	return fmt.Sprintf("%d:%d-%d#%d", s.File, s.Start, s.End, s.Ctxt)
}

// WithCtxt returns the same byte range under a different syntax context.
func (s Span) WithCtxt(ctxt SyntaxContext) Span {
	s.Ctxt = ctxt
	return s
}

// Cover extends the span to include other. File and context are taken
// from the receiver.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// ZeroideToStart collapses the span to its start position.
func (s Span) ZeroideToStart() Span {
	s.End = s.Start
	return s
}

// ZeroideToEnd collapses the span to its end position.
func (s Span) ZeroideToEnd() Span {
	s.Start = s.End
	return s
}
