package ast

import (
	"quill/internal/source"
	"quill/internal/token"
)

// ExprKind is the shape tag of an expression node.
type ExprKind uint8

const (
	// ExprErr marks a position where expansion already failed; later passes
	// must not report follow-on errors for it.
	ExprErr ExprKind = iota
	// ExprTuple with no elements is the unit placeholder.
	ExprTuple
	ExprArray
	ExprLit
	ExprPath
	ExprMacCall
)

// Expr is an expression fragment produced by expansion.
type Expr struct {
	ID   NodeID
	Kind ExprKind
	Span source.Span

	Lit   Lit      // ExprLit
	Elems []*Expr  // ExprTuple, ExprArray
	Path  []string // ExprPath
	Mac   *MacCall // ExprMacCall
}

// IsLiteral reports whether the expression is a plain literal.
func (e *Expr) IsLiteral() bool { return e.Kind == ExprLit }

// LitKind tags a literal.
type LitKind uint8

const (
	LitErr LitKind = iota
	LitStr
	LitInt
	LitBool
)

// Lit is a decoded literal value.
type Lit struct {
	Kind  LitKind
	Value string
}

// MacCall is an unexpanded macro invocation `path!(args)` embedded in an
// expression position.
type MacCall struct {
	Path []string
	Args token.Stream
	Span source.Span
}

// Name returns the last path segment of the invoked macro.
func (m *MacCall) Name() string {
	if len(m.Path) == 0 {
		return ""
	}
	return m.Path[len(m.Path)-1]
}
