package script

import (
	"strings"
)

type Parser struct {
	lexer *Lexer
}

func NewParser(text string) *Parser {
	return &Parser{lexer: NewLexer(text)}
}

// Parse parses a whole script.
func Parse(src string) ([]Statement, error) {
	return NewParser(src).ParseScript()
}

// ParseScript returns the top-level statements.  Any problem is
// returned as a *SyntaxError.
func (p *Parser) ParseScript() (ss []Statement, err error) {
	defer func() {
		if r := recover(); r != nil {
			se, is := r.(*SyntaxError)
			if !is {
				panic(r)
			}
			ss, err = nil, se
		}
	}()

	ss = p.parseBlock()
	if tok := p.lexer.Peek(); tok.Kind != TokEOF {
		p.lexer.fail(tok.Pos, "unexpected %s", tok)
	}
	return ss, nil
}

func (p *Parser) expectKeyword(keyword string) Token {
	tok := p.lexer.Next()
	if !tok.Is(keyword) {
		p.lexer.fail(tok.Pos, "expected %q, found %s", keyword, tok)
	}
	return tok
}

func (p *Parser) expectIdent(what string) Token {
	tok := p.lexer.Next()
	if tok.Kind != TokIdent {
		p.lexer.fail(tok.Pos, "expected %s, found %s", what, tok)
	}
	return tok
}

func (p *Parser) acceptKeyword(keyword string) bool {
	if p.lexer.Peek().Is(keyword) {
		p.lexer.Next()
		return true
	}
	return false
}

func (p *Parser) acceptPunct(punct string) bool {
	tok := p.lexer.Peek()
	if tok.Kind == TokPunct && tok.Val == punct {
		p.lexer.Next()
		return true
	}
	return false
}

// parseBlock reads statements until a token that ends the block.
func (p *Parser) parseBlock() []Statement {
	ss := make([]Statement, 0, 8)
	for {
		tok := p.lexer.Peek()
		switch {
		case tok.Kind == TokEOF,
			tok.Is("endon"), tok.Is("endif"), tok.Is("else"):
			return ss
		case tok.Is("define"):
			ss = append(ss, p.parseDefine())
		case tok.Is("on"):
			ss = append(ss, p.parseOn())
		case tok.Is("if"):
			ss = append(ss, p.parseIf())
		case tok.Is("call"):
			ss = append(ss, p.parseCall())
		default:
			p.lexer.fail(tok.Pos, "unexpected %s", tok)
		}
	}
}

func (p *Parser) parseDefine() *DefineAs {
	at := p.expectKeyword("define").Pos
	s := &DefineAs{
		Pos:        at,
		Identifier: p.expectIdent("identifier").Val,
	}
	p.expectKeyword("as")
	s.New = p.acceptKeyword("new")
	s.ClassName = p.expectIdent("class name").Val
	s.Array = p.acceptPunct("[]")
	return s
}

func (p *Parser) parseOn() *On {
	at := p.expectKeyword("on").Pos
	s := &On{
		Pos:   at,
		Event: p.expectIdent("event name").Val,
	}
	if p.acceptKeyword("with") {
		for {
			s.Params = append(s.Params, p.parseParam())
			if !p.acceptPunct(",") {
				break
			}
		}
	}
	s.Statements = p.parseBlock()
	p.expectKeyword("endon")
	return s
}

func (p *Parser) parseParam() Param {
	if !p.acceptKeyword("a") && !p.acceptKeyword("an") {
		tok := p.lexer.Peek()
		p.lexer.fail(tok.Pos, "expected \"a\" or \"an\", found %s", tok)
	}
	param := Param{Type: p.expectIdent("type").Val}
	param.Array = p.acceptPunct("[]")
	p.expectKeyword("named")
	param.Name = p.expectIdent("parameter name").Val
	return param
}

func (p *Parser) parseIf() *If {
	at := p.expectKeyword("if").Pos
	s := &If{Pos: at}
	s.Alternatives = append(s.Alternatives, &Alternative{
		Pos:        at,
		Test:       p.parseTest(),
		Statements: p.parseBlock(),
	})
	for {
		tok := p.lexer.Peek()
		if !tok.Is("else") {
			break
		}
		p.lexer.Next()
		if p.acceptKeyword("if") {
			s.Alternatives = append(s.Alternatives, &Alternative{
				Pos:        tok.Pos,
				Test:       p.parseTest(),
				Statements: p.parseBlock(),
			})
			continue
		}
		s.Alternatives = append(s.Alternatives, &Alternative{
			Pos:        tok.Pos,
			Statements: p.parseBlock(),
		})
		break
	}
	p.expectKeyword("endif")
	return s
}

func (p *Parser) parseTest() *Test {
	t := &Test{
		Operator: OpIs,
		Left:     p.parseOperand(),
	}
	p.expectKeyword("is")
	if p.acceptKeyword("like") {
		t.Operator = OpIsLike
	}
	t.Right = p.parseOperand()
	return t
}

func (p *Parser) parseOperand() Expr {
	tok := p.lexer.Next()
	switch tok.Kind {
	case TokString:
		return &Literal{Value: tok.Val}
	case TokIdent:
		return &Ref{Name: tok.Val}
	}
	p.lexer.fail(tok.Pos, "expected operand, found %s", tok)
	return nil
}

func (p *Parser) parseCall() *Call {
	at := p.expectKeyword("call").Pos
	method := p.expectIdent("method name").Val
	p.expectKeyword("from")
	holder := p.expectIdent("holder").Val

	s := &Call{
		Pos:      at,
		Accessor: append(strings.Split(holder, "."), method),
	}
	if p.acceptKeyword("using") {
		for {
			arg := Argument{Value: p.expectIdent("argument").Val}
			p.expectKeyword("as")
			arg.Name = p.expectIdent("argument name").Val
			s.Using = append(s.Using, arg)
			if !p.acceptPunct(",") {
				break
			}
		}
	}
	return s
}
