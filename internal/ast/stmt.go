package ast

import "quill/internal/source"

// StmtKind is the shape tag of a statement node.
type StmtKind uint8

const (
	StmtExpr StmtKind = iota
	StmtItem
)

// Stmt is a statement fragment produced by expansion.
type Stmt struct {
	ID   NodeID
	Kind StmtKind
	Span source.Span

	Expr *Expr // StmtExpr
	Item *Item // StmtItem
}
