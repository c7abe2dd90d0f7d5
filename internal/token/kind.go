package token

// Kind enumerates the token kinds that can appear in a macro argument
// stream. This is intentionally a small alphabet: macro inputs are opaque
// trees, not the full language.
type Kind uint8

const (
	EOF Kind = iota
	Unknown

	Ident
	IntLit
	StringLit
	BoolLit

	Comma
	Colon
	Semicolon
	Dot
	Bang
	At
	Eq
	Arrow

	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Unknown:
		return "Unknown"
	case Ident:
		return "Ident"
	case IntLit:
		return "IntLit"
	case StringLit:
		return "StringLit"
	case BoolLit:
		return "BoolLit"
	case Comma:
		return ","
	case Colon:
		return ":"
	case Semicolon:
		return ";"
	case Dot:
		return "."
	case Bang:
		return "!"
	case At:
		return "@"
	case Eq:
		return "="
	case Arrow:
		return "->"
	case LParen:
		return "("
	case RParen:
		return ")"
	case LBrace:
		return "{"
	case RBrace:
		return "}"
	case LBracket:
		return "["
	case RBracket:
		return "]"
	}
	return "?"
}

// IsOpenDelim reports whether the kind opens a delimited group.
func (k Kind) IsOpenDelim() bool {
	return k == LParen || k == LBrace || k == LBracket
}

// CloseDelim returns the matching close kind for an open delimiter.
func (k Kind) CloseDelim() Kind {
	switch k {
	case LParen:
		return RParen
	case LBrace:
		return RBrace
	case LBracket:
		return RBracket
	}
	return Unknown
}
