package expr

import (
	"fmt"
	"strings"
)

// MaxExpressionLength is the maximum allowed length for a single expression.
const MaxExpressionLength = 400

// Parser is a recursive descent parser for calculator expressions.
type Parser struct {
	tokens []Token
	pos    int
}

// ParseExpression parses a complete expression string into an AST.
func ParseExpression(input string) (Node, error) {
	if len(input) > MaxExpressionLength {
		return nil, fmt.Errorf("expression exceeds maximum length of %d characters", MaxExpressionLength)
	}
	if strings.TrimSpace(input) == "" {
		return nil, fmt.Errorf("empty expression")
	}

	lexer := NewLexer(input)
	tokens, err := lexer.Tokenize()
	if err != nil {
		return nil, err
	}

	p := &Parser{tokens: tokens}
	node, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if p.current().Type != TokenEOF {
		return nil, fmt.Errorf("unexpected token %s at position %d", p.current().Type, p.current().Pos)
	}

	return node, nil
}

// current returns the current token.
func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

// advance consumes the current token and returns it.
func (p *Parser) advance() Token {
	tok := p.current()
	p.pos++
	return tok
}

// parseExpression is the entry point: handles the lowest precedence operators.
// Precedence (low to high):
//
//	+, -
//	*, /
//	unary sign
func (p *Parser) parseExpression() (Node, error) {
	return p.parseAddition()
}

func (p *Parser) parseAddition() (Node, error) {
	left, err := p.parseMultiplication()
	if err != nil {
		return nil, err
	}

	for p.current().Type == TokenPlus || p.current().Type == TokenMinus {
		op := p.advance().Type
		right, err := p.parseMultiplication()
		if err != nil {
			return nil, err
		}
		left = &BinaryNode{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplication() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for p.current().Type == TokenStar || p.current().Type == TokenSlash {
		op := p.advance().Type
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryNode{Op: op, Left: left, Right: right}
	}
	return left, nil
}

// parseUnary parses a factor with at most one leading sign. Signs do not
// stack: "--5" is rejected.
func (p *Parser) parseUnary() (Node, error) {
	if p.current().Type == TokenPlus || p.current().Type == TokenMinus {
		op := p.advance().Type
		operand, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return &UnaryNode{Op: op, Operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (Node, error) {
	tok := p.current()

	switch tok.Type {
	case TokenNumber:
		p.advance()
		return &NumberNode{Value: tok.NumVal}, nil
	case TokenEOF:
		return nil, fmt.Errorf("unexpected end of expression at position %d", tok.Pos)
	default:
		return nil, fmt.Errorf("unexpected token %s (%q) at position %d", tok.Type, tok.Value, tok.Pos)
	}
}
