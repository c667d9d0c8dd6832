package formula

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError reports formula text outside the permitted grammar.
type ParseError struct {
	Offset  int // byte offset into the source
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("formula: offset %d: %s", e.Offset, e.Message)
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokRef
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokLParen
	tokRParen
)

type token struct {
	kind   tokenKind
	text   string
	number float64
	offset int
}

// Expr is a parsed formula expression. Expressions are immutable after
// Parse and safe to evaluate concurrently.
type Expr struct {
	src  string
	root node
	refs []string
}

// Parse compiles formula source into an Expr. Empty or blank source is
// rejected; so is any token outside the arithmetic grammar.
func Parse(src string) (*Expr, error) {
	if strings.TrimSpace(src) == "" {
		return nil, &ParseError{Offset: 0, Message: "empty formula"}
	}
	toks, err := scan(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	root, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, &ParseError{Offset: tok.offset, Message: fmt.Sprintf("unexpected %q after expression", tok.text)}
	}
	e := &Expr{src: src, root: root}
	e.refs = collectRefs(root)
	return e, nil
}

// Refs returns the distinct component ids the expression references, in
// first-appearance order.
func (e *Expr) Refs() []string {
	out := make([]string, len(e.refs))
	copy(out, e.refs)
	return out
}

// String returns the original formula source.
func (e *Expr) String() string { return e.src }

// ExtractRefs scans raw formula text for $id references without a full
// parse. Used by the dependency tracker, which must see edges even for
// formulas that fail to parse (their error surfaces at evaluation).
func ExtractRefs(src string) []string {
	var refs []string
	seen := make(map[string]bool)
	for i := 0; i < len(src); i++ {
		if src[i] != '$' {
			continue
		}
		j := i + 1
		for j < len(src) && isIdentChar(src[j]) {
			j++
		}
		if j > i+1 {
			id := src[i+1 : j]
			if !seen[id] {
				seen[id] = true
				refs = append(refs, id)
			}
			i = j - 1
		}
	}
	return refs
}

func isIdentChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

func scan(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '+':
			toks = append(toks, token{kind: tokPlus, text: "+", offset: i})
			i++
		case c == '-':
			toks = append(toks, token{kind: tokMinus, text: "-", offset: i})
			i++
		case c == '*':
			toks = append(toks, token{kind: tokStar, text: "*", offset: i})
			i++
		case c == '/':
			toks = append(toks, token{kind: tokSlash, text: "/", offset: i})
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", offset: i})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", offset: i})
			i++
		case c == '$':
			j := i + 1
			for j < len(src) && isIdentChar(src[j]) {
				j++
			}
			if j == i+1 {
				return nil, &ParseError{Offset: i, Message: "expected identifier after $"}
			}
			toks = append(toks, token{kind: tokRef, text: src[i+1 : j], offset: i})
			i = j
		case c >= '0' && c <= '9' || c == '.':
			j := i
			for j < len(src) && (src[j] >= '0' && src[j] <= '9' || src[j] == '.') {
				j++
			}
			text := src[i:j]
			n, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, &ParseError{Offset: i, Message: fmt.Sprintf("malformed number %q", text)}
			}
			toks = append(toks, token{kind: tokNumber, text: text, number: n, offset: i})
			i = j
		default:
			return nil, &ParseError{Offset: i, Message: fmt.Sprintf("illegal character %q", string(c))}
		}
	}
	toks = append(toks, token{kind: tokEOF, offset: len(src)})
	return toks, nil
}

// AST nodes. The node set is closed; evaluation switches exhaustively.

type node interface{ formulaNode() }

type numberNode struct{ value float64 }

type refNode struct{ id string }

type binaryNode struct {
	op          tokenKind // tokPlus, tokMinus, tokStar, tokSlash
	left, right node
}

type negateNode struct{ operand node }

func (numberNode) formulaNode() {}
func (refNode) formulaNode()    {}
func (binaryNode) formulaNode() {}
func (negateNode) formulaNode() {}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) parseExpr() (node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		if op.kind != tokPlus && op.kind != tokMinus {
			return left, nil
		}
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op.kind, left: left, right: right}
	}
}

func (p *parser) parseTerm() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		if op.kind != tokStar && op.kind != tokSlash {
			return left, nil
		}
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op.kind, left: left, right: right}
	}
}

func (p *parser) parseUnary() (node, error) {
	if p.peek().kind == tokMinus {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return negateNode{operand: operand}, nil
	}
	return p.parseFactor()
}

func (p *parser) parseFactor() (node, error) {
	tok := p.next()
	switch tok.kind {
	case tokNumber:
		return numberNode{value: tok.number}, nil
	case tokRef:
		return refNode{id: tok.text}, nil
	case tokLParen:
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, &ParseError{Offset: closing.offset, Message: "expected closing parenthesis"}
		}
		return inner, nil
	case tokEOF:
		return nil, &ParseError{Offset: tok.offset, Message: "unexpected end of formula"}
	default:
		return nil, &ParseError{Offset: tok.offset, Message: fmt.Sprintf("unexpected %q", tok.text)}
	}
}

func collectRefs(n node) []string {
	var refs []string
	seen := make(map[string]bool)
	var walk func(node)
	walk = func(n node) {
		switch v := n.(type) {
		case numberNode:
		case refNode:
			if !seen[v.id] {
				seen[v.id] = true
				refs = append(refs, v.id)
			}
		case binaryNode:
			walk(v.left)
			walk(v.right)
		case negateNode:
			walk(v.operand)
		}
	}
	walk(n)
	return refs
}
