package token

import (
	"quill/internal/source"
)

// Token is a single leaf in a macro argument stream. Text holds the
// identifier spelling or the decoded literal value.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsLiteral reports whether the token is a literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, StringLit, BoolLit:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IdentNamed reports whether the token is the identifier name.
func (t Token) IdentNamed(name string) bool {
	return t.Kind == Ident && t.Text == name
}
