package ast

import "quill/internal/source"

// TyKind is the shape tag of a type node.
type TyKind uint8

const (
	// TyErr marks a type position where expansion already failed.
	TyErr TyKind = iota
	// TyTuple with no elements is the unit type placeholder.
	TyTuple
	TyPath
)

// Ty is a type fragment produced by expansion.
type Ty struct {
	ID    NodeID
	Kind  TyKind
	Span  source.Span
	Elems []*Ty    // TyTuple
	Path  []string // TyPath
}
