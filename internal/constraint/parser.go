package constraint

import (
	"fmt"
	"strconv"

	"github.com/se-sic/vara-feature-go/internal/fmerr"
)

// Parser is a precedence-climbing parser over the constraint mini-language.
// It pulls tokens lazily from a Lexer, skipping Whitespace itself (the
// Lexer preserves whitespace tokens for round-trip tooling; the parser
// doesn't need them).
type Parser struct {
	lex  *Lexer
	cur  Token
	errs []string
}

// NewParser wraps src for parsing.
func NewParser(src string) *Parser {
	p := &Parser{lex: NewLexer(src)}
	p.advance()
	return p
}

// Parse is the one-shot entry point: tokenise and parse src as a single
// expr. On syntax error it returns a nil Expr and a single-line diagnostic
// identifying the offending token.
func Parse(src string) (Expr, error) {
	p := NewParser(src)
	e, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if p.cur.Kind == TokError {
		return nil, fmerr.Newf(fmerr.Generic, "unexpected character %q at position %d", p.cur.Text, p.cur.Pos)
	}
	if p.cur.Kind != TokEOF {
		return nil, fmerr.Newf(fmerr.Generic, "unexpected token %s at position %d", p.cur.Kind, p.cur.Pos)
	}
	return e, nil
}

func (p *Parser) advance() {
	for {
		p.cur = p.lex.Next()
		if p.cur.Kind != TokWhitespace {
			return
		}
	}
}

// parseExpr implements precedence climbing: parse a unary, then repeatedly
// fold in binary operators whose precedence is >= minPrec.
func (p *Parser) parseExpr(minPrec int) (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		op, prec, rightAssoc, ok := p.peekBinOp()
		if !ok || prec < minPrec {
			break
		}
		p.advance()

		nextMin := prec + 1
		if rightAssoc {
			nextMin = prec
		}
		right, err := p.parseExpr(nextMin)
		if err != nil {
			return nil, err
		}
		left = NewBinary(op, left, right)
	}
	return left, nil
}

func (p *Parser) parseUnary() (Expr, error) {
	switch p.cur.Kind {
	case TokNot:
		p.advance()
		child, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return NewUnary(Not, child), nil
	case TokNeg:
		p.advance()
		child, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return NewUnary(Neg, child), nil
	default:
		return p.parsePrimary()
	}
}

func (p *Parser) parsePrimary() (Expr, error) {
	switch p.cur.Kind {
	case TokLPar:
		p.advance()
		e, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if p.cur.Kind != TokRPar {
			return nil, fmerr.Newf(fmerr.Generic, "expected ')' at position %d, found %s", p.cur.Pos, p.cur.Kind)
		}
		p.advance()
		return e, nil
	case TokIdentifier:
		name := p.cur.Text
		p.advance()
		return NewPrimaryFeature(name), nil
	case TokNumber:
		v, err := strconv.ParseInt(p.cur.Text, 10, 64)
		if err != nil {
			return nil, fmerr.Newf(fmerr.Generic, "invalid number %q at position %d", p.cur.Text, p.cur.Pos)
		}
		p.advance()
		return NewPrimaryNumber(v), nil
	case TokEOF:
		return nil, fmerr.New(fmerr.Generic, "unexpected end of input")
	case TokError:
		return nil, fmerr.Newf(fmerr.Generic, "unexpected character %q at position %d", p.cur.Text, p.cur.Pos)
	default:
		return nil, fmerr.Newf(fmerr.Generic, "unexpected token %s at position %d", p.cur.Kind, p.cur.Pos)
	}
}

// peekBinOp reports the binary operator the current token denotes, if any.
// "excludes" is recognised here (as an Identifier whose text matches) and
// nowhere else, so a feature legitimately named "excludes" still parses as
// a primary when it isn't in infix position.
func (p *Parser) peekBinOp() (BinaryOp, int, bool, bool) {
	switch p.cur.Kind {
	case TokAnd:
		return And, And.precedence(), And.rightAssociative(), true
	case TokOr:
		return Or, Or.precedence(), Or.rightAssociative(), true
	case TokXor:
		return Xor, Xor.precedence(), Xor.rightAssociative(), true
	case TokImplies:
		return Implies, Implies.precedence(), Implies.rightAssociative(), true
	case TokEquivalent:
		return Equivalence, Equivalence.precedence(), Equivalence.rightAssociative(), true
	case TokEqual:
		return Equal, Equal.precedence(), Equal.rightAssociative(), true
	case TokNotEqual:
		return NotEqual, NotEqual.precedence(), NotEqual.rightAssociative(), true
	case TokLess:
		return Less, Less.precedence(), Less.rightAssociative(), true
	case TokLessEqual:
		return LessEqual, LessEqual.precedence(), LessEqual.rightAssociative(), true
	case TokGreater:
		return Greater, Greater.precedence(), Greater.rightAssociative(), true
	case TokGreaterEqual:
		return GreaterEqual, GreaterEqual.precedence(), GreaterEqual.rightAssociative(), true
	case TokPlus:
		return Add, Add.precedence(), Add.rightAssociative(), true
	case TokMinus:
		return Sub, Sub.precedence(), Sub.rightAssociative(), true
	case TokStar:
		return Mul, Mul.precedence(), Mul.rightAssociative(), true
	case TokSlash:
		return Div, Div.precedence(), Div.rightAssociative(), true
	case TokIdentifier:
		if p.cur.Text == "excludes" {
			return Excludes, Excludes.precedence(), Excludes.rightAssociative(), true
		}
		return 0, 0, false, false
	default:
		return 0, 0, false, false
	}
}

// Diagnostic formats a single-line error description for err: a single
// line identifying the offending token.
func Diagnostic(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("constraint parse error: %v", err)
}
