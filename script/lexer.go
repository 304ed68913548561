package script

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type TokenKind string

const (
	TokEOF    TokenKind = "EOF"
	TokIdent  TokenKind = "IDENT"
	TokString TokenKind = "STRING"
	TokPunct  TokenKind = "PUNCT"
)

// Pos is a position in the script source.  Lines and columns start
// at 1.
type Pos struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Token struct {
	Kind TokenKind
	Val  string
	Pos  Pos
}

func (t Token) String() string {
	switch t.Kind {
	case TokEOF:
		return "end of script"
	case TokString:
		return fmt.Sprintf("string %q", t.Val)
	default:
		return fmt.Sprintf("%q", t.Val)
	}
}

// Is reports whether the token is the given keyword.  Keywords are
// case-insensitive and are only keywords where the parser expects
// them, so "a" can also name a holder.
func (t Token) Is(keyword string) bool {
	return t.Kind == TokIdent && strings.EqualFold(t.Val, keyword)
}

// SyntaxError reports a script that can't be parsed.
type SyntaxError struct {
	Pos Pos
	Msg string
}

func (e *SyntaxError) Error() string {
	return "syntax error at " + e.Pos.String() + ": " + e.Msg
}

type Lexer struct {
	Text   string
	Buffer *Token

	pos  int
	line int
	col  int
}

func NewLexer(text string) *Lexer {
	return &Lexer{Text: text, line: 1, col: 1}
}

func (l *Lexer) Peek() Token {
	if l.Buffer == nil {
		tok := l.nextToken()
		l.Buffer = &tok
	}
	return *l.Buffer
}

func (l *Lexer) Next() Token {
	if l.Buffer != nil {
		tok := *l.Buffer
		l.Buffer = nil
		return tok
	}
	return l.nextToken()
}

func (l *Lexer) fail(at Pos, format string, args ...interface{}) {
	panic(&SyntaxError{Pos: at, Msg: fmt.Sprintf(format, args...)})
}

func (l *Lexer) here() Pos {
	return Pos{Line: l.line, Column: l.col}
}

func (l *Lexer) advance() byte {
	ch := l.Text[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch
}

func (l *Lexer) skipWsComments() {
	for l.pos < len(l.Text) {
		ch := l.Text[l.pos]
		if ch < utf8.RuneSelf && unicode.IsSpace(rune(ch)) {
			l.advance()
			continue
		}
		if ch == '#' {
			for l.pos < len(l.Text) && l.Text[l.pos] != '\n' {
				l.advance()
			}
			continue
		}
		break
	}
}

// peek returns the rune at the current position.
func (l *Lexer) peek() rune {
	r, _ := utf8.DecodeRuneInString(l.Text[l.pos:])
	return r
}

// advanceRune moves past a rune that isn't a newline.
func (l *Lexer) advanceRune() {
	_, n := utf8.DecodeRuneInString(l.Text[l.pos:])
	l.pos += n
	l.col++
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || r == '.' || unicode.IsDigit(r)
}

func (l *Lexer) nextToken() Token {
	l.skipWsComments()
	start := l.here()
	if l.pos >= len(l.Text) {
		return Token{Kind: TokEOF, Pos: start}
	}

	ch := l.Text[l.pos]

	switch {
	case ch == ',':
		l.advance()
		return Token{Kind: TokPunct, Val: ",", Pos: start}

	case ch == '[':
		l.advance()
		if l.pos < len(l.Text) && l.Text[l.pos] == ']' {
			l.advance()
			return Token{Kind: TokPunct, Val: "[]", Pos: start}
		}
		l.fail(start, "expected ']' after '['")

	case ch == '"':
		return Token{Kind: TokString, Val: l.quoted(start), Pos: start}

	case isIdentStart(l.peek()):
		from := l.pos
		for l.pos < len(l.Text) && isIdentPart(l.peek()) {
			l.advanceRune()
		}
		return Token{Kind: TokIdent, Val: l.Text[from:l.pos], Pos: start}
	}

	l.fail(start, "unexpected character %q", l.peek())
	return Token{}
}

// quoted reads a double-quoted string.  Escapes follow the usual
// conventions; an unknown escape keeps its backslash so that regular
// expressions like "a\.b" survive.
func (l *Lexer) quoted(start Pos) string {
	l.advance()
	var out strings.Builder
	for l.pos < len(l.Text) {
		c := l.advance()
		switch c {
		case '"':
			return out.String()
		case '\n':
			l.fail(start, "newline in string")
		case '\\':
			if l.pos >= len(l.Text) {
				l.fail(start, "unterminated string")
			}
			esc := l.advance()
			switch esc {
			case 'n':
				out.WriteByte('\n')
			case 't':
				out.WriteByte('\t')
			case 'r':
				out.WriteByte('\r')
			case '\\', '"':
				out.WriteByte(esc)
			default:
				out.WriteByte('\\')
				out.WriteByte(esc)
			}
		default:
			out.WriteByte(c)
		}
	}
	l.fail(start, "unterminated string")
	return ""
}
