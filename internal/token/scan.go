package token

import (
	"fmt"

	"quill/internal/source"
)

// ScanProblem is a lexical defect found while scanning. The scanner does
// not depend on the diagnostics sink; callers convert problems to
// diagnostics themselves.
type ScanProblem struct {
	Span source.Span
	Msg  string
}

// Scan tokenizes content of file id into a delimited tree stream. Unknown
// bytes and unterminated constructs are reported as problems; scanning
// continues past them so a single bad character does not hide the rest of
// the file.
func Scan(id source.FileID, content []byte) (Stream, []ScanProblem) {
	s := scanner{file: id, src: content}
	stream := s.scanUntil(EOF)
	return stream, s.problems
}

type scanner struct {
	file     source.FileID
	src      []byte
	pos      uint32
	problems []ScanProblem
}

func (s *scanner) span(start uint32) source.Span {
	return source.Span{File: s.file, Start: start, End: s.pos}
}

func (s *scanner) problem(sp source.Span, format string, args ...any) {
	s.problems = append(s.problems, ScanProblem{Span: sp, Msg: fmt.Sprintf(format, args...)})
}

// scanUntil consumes trees until the given close delimiter (or EOF).
func (s *scanner) scanUntil(close Kind) Stream {
	var trees []Tree
	for {
		s.skipBlanks()
		if int(s.pos) >= len(s.src) {
			if close != EOF {
				s.problem(s.span(s.pos), "unclosed delimiter, expected %q", close.String())
			}
			return NewStream(trees...)
		}

		start := s.pos
		c := s.src[s.pos]

		switch {
		case isIdentStart(c):
			s.pos++
			for int(s.pos) < len(s.src) && isIdentCont(s.src[s.pos]) {
				s.pos++
			}
			text := string(s.src[start:s.pos])
			kind := Ident
			if text == "true" || text == "false" {
				kind = BoolLit
			}
			trees = append(trees, Leaf(Token{Kind: kind, Span: s.span(start), Text: text}))

		case c >= '0' && c <= '9':
			s.pos++
			for int(s.pos) < len(s.src) && (s.src[s.pos] >= '0' && s.src[s.pos] <= '9' || s.src[s.pos] == '_') {
				s.pos++
			}
			trees = append(trees, Leaf(Token{Kind: IntLit, Span: s.span(start), Text: string(s.src[start:s.pos])}))

		case c == '"':
			tok, ok := s.scanString(start)
			if ok {
				trees = append(trees, Leaf(tok))
			}

		case c == '(' || c == '{' || c == '[':
			s.pos++
			delim := Paren
			closeKind := RParen
			switch c {
			case '{':
				delim, closeKind = Brace, RBrace
			case '[':
				delim, closeKind = Bracket, RBracket
			}
			children := s.scanUntil(closeKind)
			trees = append(trees, Group(delim, children, s.span(start)))

		case c == ')' || c == '}' || c == ']':
			got := kindForClose(c)
			s.pos++
			if got == close {
				return NewStream(trees...)
			}
			s.problem(s.span(start), "unexpected closing %q", got.String())

		default:
			// '->' is the only two-byte punct in the stream alphabet.
			if c == '-' && int(s.pos)+1 < len(s.src) && s.src[s.pos+1] == '>' {
				s.pos += 2
				trees = append(trees, Leaf(Token{Kind: Arrow, Span: s.span(start)}))
				break
			}
			if kind := kindForPunct(c); kind != Unknown {
				s.pos++
				trees = append(trees, Leaf(Token{Kind: kind, Span: s.span(start)}))
				break
			}
			s.pos++
			s.problem(s.span(start), "unknown character %q", string(c))
		}
	}
}

func (s *scanner) scanString(start uint32) (Token, bool) {
	s.pos++ // opening quote
	var out []byte
	for int(s.pos) < len(s.src) {
		c := s.src[s.pos]
		switch c {
		case '"':
			s.pos++
			return Token{Kind: StringLit, Span: s.span(start), Text: string(out)}, true
		case '\n':
			s.problem(s.span(start), "unterminated string")
			return Token{}, false
		case '\\':
			s.pos++
			if int(s.pos) >= len(s.src) {
				break
			}
			switch s.src[s.pos] {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case '\\':
				out = append(out, '\\')
			case '"':
				out = append(out, '"')
			default:
				out = append(out, s.src[s.pos])
			}
			s.pos++
		default:
			out = append(out, c)
			s.pos++
		}
	}
	s.problem(s.span(start), "unterminated string")
	return Token{}, false
}

func (s *scanner) skipBlanks() {
	for int(s.pos) < len(s.src) {
		c := s.src[s.pos]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			s.pos++
			continue
		}
		// line comments
		if c == '/' && int(s.pos)+1 < len(s.src) && s.src[s.pos+1] == '/' {
			for int(s.pos) < len(s.src) && s.src[s.pos] != '\n' {
				s.pos++
			}
			continue
		}
		return
	}
}

func kindForClose(c byte) Kind {
	switch c {
	case ')':
		return RParen
	case '}':
		return RBrace
	case ']':
		return RBracket
	}
	return Unknown
}

func kindForPunct(c byte) Kind {
	switch c {
	case ',':
		return Comma
	case ':':
		return Colon
	case ';':
		return Semicolon
	case '.':
		return Dot
	case '!':
		return Bang
	case '@':
		return At
	case '=':
		return Eq
	}
	return Unknown
}

func isIdentStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9'
}
