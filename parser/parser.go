// Package parser reads the source grammar (identifiers, 0/1 constants,
// prefix negation, infix & binding tighter than |, parenthesized
// grouping) into a bf.Formula, interning every identifier it meets
// into a fresh solver.Instance.
package parser

import (
	"fmt"

	"github.com/baseng0815/satdpll/bf"
	"github.com/baseng0815/satdpll/solver"
)

// parser is a recursive-descent parser with a single token of
// lookahead, matching the grammar documented on lexer.
type parser struct {
	lex       *lexer
	tok       token
	nameToID  map[string]bf.VariableID
	idToName  map[bf.VariableID]string
}

// Parse lexes and parses src into a solver.Instance, interning every
// identifier encountered into a freshly-allocated, dense VariableID in
// order of first appearance. Malformed input yields a *ParseError.
func Parse(src string) (*solver.Instance, error) {
	p := &parser{
		lex:      newLexer(src),
		nameToID: make(map[string]bf.VariableID),
		idToName: make(map[bf.VariableID]string),
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.kind == tokEOF {
		return nil, &ParseError{Line: p.tok.line, Col: p.tok.col, Msg: "empty expression"}
	}

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, &ParseError{Line: p.tok.line, Col: p.tok.col, Msg: fmt.Sprintf("unexpected trailing input %q", p.tok.text)}
	}

	return solver.NewInstance(expr, p.idToName), nil
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) expect(kind tokenKind, what string) error {
	if p.tok.kind != kind {
		return &ParseError{Line: p.tok.line, Col: p.tok.col, Msg: fmt.Sprintf("expected %s, found %q", what, p.tok.text)}
	}
	return p.advance()
}

// expr := term ('|' term)*, right-associative.
func (p *parser) parseExpr() (bf.Formula, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokOr {
		return left, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	right, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return bf.Or(left, right), nil
}

// term := factor ('&' factor)*, right-associative.
func (p *parser) parseTerm() (bf.Formula, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokAnd {
		return left, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	right, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	return bf.And(left, right), nil
}

// factor := '-' factor | atom
func (p *parser) parseFactor() (bf.Formula, error) {
	if p.tok.kind == tokNot {
		if err := p.advance(); err != nil {
			return nil, err
		}
		child, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return bf.Not(child), nil
	}
	return p.parseAtom()
}

// atom := IDENT | '0' | '1' | '(' expr ')'
func (p *parser) parseAtom() (bf.Formula, error) {
	switch p.tok.kind {
	case tokIdent:
		name := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		return bf.Var(p.intern(name)), nil
	case tokZero:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return bf.Const(false), nil
	case tokOne:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return bf.Const(true), nil
	case tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return expr, nil
	default:
		return nil, &ParseError{Line: p.tok.line, Col: p.tok.col, Msg: fmt.Sprintf("expected variable, constant or '(', found %q", p.tok.text)}
	}
}

// intern returns name's VariableID, allocating a fresh dense one on
// first sight.
func (p *parser) intern(name string) bf.VariableID {
	if id, ok := p.nameToID[name]; ok {
		return id
	}
	id := bf.VariableID(len(p.nameToID))
	p.nameToID[name] = id
	p.idToName[id] = name
	return id
}
