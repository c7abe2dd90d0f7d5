package ast

import "quill/internal/source"

// PatKind is the shape tag of a pattern node.
type PatKind uint8

const (
	PatWild PatKind = iota
	PatLit
)

// Pat is a pattern fragment produced by expansion.
type Pat struct {
	ID   NodeID
	Kind PatKind
	Span source.Span
	Lit  *Expr // PatLit
}
