package token

import (
	"strconv"
	"strings"

	"quill/internal/source"
)

// Delim tags a delimited subtree.
type Delim uint8

const (
	NoDelim Delim = iota
	Paren
	Brace
	Bracket
)

// Tree is either a single token (Delim == NoDelim) or a delimited group of
// nested trees.
type Tree struct {
	Token    Token
	Delim    Delim
	Children Stream
	Span     source.Span
}

// Leaf builds a single-token tree.
func Leaf(tok Token) Tree {
	return Tree{Token: tok, Span: tok.Span}
}

// Group builds a delimited tree covering span.
func Group(delim Delim, children Stream, span source.Span) Tree {
	return Tree{Delim: delim, Children: children, Span: span}
}

// IsLeaf reports whether the tree is a single token.
func (t Tree) IsLeaf() bool { return t.Delim == NoDelim }

// Stream is an immutable sequence of token trees, the input and output
// currency of token-based macros.
type Stream struct {
	trees []Tree
}

// NewStream builds a stream from trees.
func NewStream(trees ...Tree) Stream {
	return Stream{trees: trees}
}

// Concat appends other to the stream, returning a new stream.
func (s Stream) Concat(other Stream) Stream {
	out := make([]Tree, 0, len(s.trees)+len(other.trees))
	out = append(out, s.trees...)
	out = append(out, other.trees...)
	return Stream{trees: out}
}

// Len returns the number of top-level trees.
func (s Stream) Len() int { return len(s.trees) }

// IsEmpty reports whether the stream has no trees.
func (s Stream) IsEmpty() bool { return len(s.trees) == 0 }

// Trees returns the underlying trees. Callers must not modify the slice.
func (s Stream) Trees() []Tree { return s.trees }

// Span returns a span covering the whole stream, or false when empty.
func (s Stream) Span() (source.Span, bool) {
	if len(s.trees) == 0 {
		return source.Span{}, false
	}
	sp := s.trees[0].Span
	for _, t := range s.trees[1:] {
		sp = sp.Cover(t.Span)
	}
	return sp, true
}

func (s Stream) String() string {
	var b strings.Builder
	writeStream(&b, s)
	return b.String()
}

func writeStream(b *strings.Builder, s Stream) {
	for i, t := range s.trees {
		if i > 0 {
			b.WriteByte(' ')
		}
		if t.IsLeaf() {
			switch t.Token.Kind {
			case Ident, IntLit, BoolLit:
				b.WriteString(t.Token.Text)
			case StringLit:
				// Token.Text хранит уже раскодированное значение; кавычки,
				// переводы строк и бэкслеши экранируем обратно.
				b.WriteString(strconv.Quote(t.Token.Text))
			default:
				b.WriteString(t.Token.Kind.String())
			}
			continue
		}
		open, closed := "(", ")"
		switch t.Delim {
		case Brace:
			open, closed = "{", "}"
		case Bracket:
			open, closed = "[", "]"
		}
		b.WriteString(open)
		writeStream(b, t.Children)
		b.WriteString(closed)
	}
}

// Cursor iterates over the top-level trees of a stream.
type Cursor struct {
	trees []Tree
	pos   int
}

// Cursor returns a cursor at the start of the stream.
func (s Stream) Cursor() *Cursor {
	return &Cursor{trees: s.trees}
}

// Next returns the next tree and advances, or false at the end.
func (c *Cursor) Next() (Tree, bool) {
	if c.pos >= len(c.trees) {
		return Tree{}, false
	}
	t := c.trees[c.pos]
	c.pos++
	return t, true
}

// Peek returns the next tree without advancing.
func (c *Cursor) Peek() (Tree, bool) {
	if c.pos >= len(c.trees) {
		return Tree{}, false
	}
	return c.trees[c.pos], true
}

// AtEnd reports whether the cursor is exhausted.
func (c *Cursor) AtEnd() bool { return c.pos >= len(c.trees) }
