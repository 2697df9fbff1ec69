// Package parser turns formulas and unit expressions into a small syntax tree.
//
// The same grammar serves both: unit expressions ("1 meter / second ** 2")
// enable implicit multiplication, formulas ("3*{a} + 15*{b}") enable
// placeholders.
package parser

import (
	"fmt"
	"sort"
)

// Kind identifies the type of a Node.
type Kind int

const (
	Number Kind = iota
	Ident
	Placeholder
	Unary
	Binary
	Call
)

// Node is an element of the syntax tree.
type Node struct {
	Kind Kind
	Op   string
	Num  float64
	Text string
	Args []*Node
	Pos  int
}

// Options toggles grammar features.
type Options struct {
	ImplicitMultiplication bool
	Placeholders            bool
}

const (
	precAdd   = 1
	precMul   = 2
	precUnary = 3
	precPow   = 4
)

type parser struct {
	toks []token
	pos  int
	opts Options
}

// Parse parses src according to opts.
func Parse(src string, opts Options) (*Node, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	if len(toks) == 1 {
		return nil, &SyntaxError{Pos: 0, Msg: "empty expression"}
	}
	p := &parser{toks: toks, opts: opts}
	n, err := p.expr(0)
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, &SyntaxError{Pos: t.pos, Msg: "unexpected " + t.String()}
	}
	return n, nil
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) startsOperand(t token) bool {
	switch t.kind {
	case tokNumber, tokIdent, tokLParen:
		return true
	case tokPlaceholder:
		return p.opts.Placeholders
	}
	return false
}

func (p *parser) expr(minPrec int) (*Node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		var op string
		var prec int
		implicit := false
		switch {
		case t.kind == tokOp && (t.text == "+" || t.text == "-"):
			op, prec = t.text, precAdd
		case t.kind == tokOp && (t.text == "*" || t.text == "/"):
			op, prec = t.text, precMul
		case t.kind == tokOp && t.text == "^":
			op, prec = "^", precPow
		case p.opts.ImplicitMultiplication && p.startsOperand(t):
			op, prec, implicit = "*", precMul, true
		default:
			return left, nil
		}
		if prec < minPrec {
			return left, nil
		}
		if !implicit {
			p.next()
		}
		nextMin := prec + 1
		if op == "^" {
			// right associative
			nextMin = prec
		}
		right, err := p.expr(nextMin)
		if err != nil {
			return nil, err
		}
		left = &Node{Kind: Binary, Op: op, Args: []*Node{left, right}, Pos: t.pos}
	}
}

func (p *parser) unary() (*Node, error) {
	t := p.peek()
	if t.kind == tokOp && (t.text == "-" || t.text == "+") {
		p.next()
		operand, err := p.expr(precUnary)
		if err != nil {
			return nil, err
		}
		if t.text == "+" {
			return operand, nil
		}
		return &Node{Kind: Unary, Op: "-", Args: []*Node{operand}, Pos: t.pos}, nil
	}
	return p.primary()
}

func (p *parser) primary() (*Node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return &Node{Kind: Number, Num: t.num, Text: t.text, Pos: t.pos}, nil
	case tokPlaceholder:
		if !p.opts.Placeholders {
			return nil, &SyntaxError{Pos: t.pos, Msg: "placeholders are not allowed here"}
		}
		return &Node{Kind: Placeholder, Text: t.text, Pos: t.pos}, nil
	case tokIdent:
		if p.peek().kind == tokLParen {
			p.next()
			return p.call(t)
		}
		return &Node{Kind: Ident, Text: t.text, Pos: t.pos}, nil
	case tokLParen:
		n, err := p.expr(0)
		if err != nil {
			return nil, err
		}
		if c := p.next(); c.kind != tokRParen {
			return nil, &SyntaxError{Pos: c.pos, Msg: "expected \")\", got " + c.String()}
		}
		return n, nil
	}
	return nil, &SyntaxError{Pos: t.pos, Msg: "unexpected " + t.String()}
}

func (p *parser) call(name token) (*Node, error) {
	n := &Node{Kind: Call, Text: name.text, Pos: name.pos}
	if p.peek().kind == tokRParen {
		p.next()
		return n, nil
	}
	for {
		arg, err := p.expr(0)
		if err != nil {
			return nil, err
		}
		n.Args = append(n.Args, arg)
		t := p.next()
		switch t.kind {
		case tokComma:
			continue
		case tokRParen:
			return n, nil
		default:
			return nil, &SyntaxError{Pos: t.pos, Msg: "expected \",\" or \")\", got " + t.String()}
		}
	}
}

// Placeholders returns the distinct placeholder names of n, sorted.
func Placeholders(n *Node) []string {
	seen := map[string]bool{}
	Walk(n, func(x *Node) {
		if x.Kind == Placeholder {
			seen[x.Text] = true
		}
	})
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Walk visits n and its descendants depth first.
func Walk(n *Node, fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, a := range n.Args {
		Walk(a, fn)
	}
}

// String renders n back to a fully parenthesized expression.
func (n *Node) String() string {
	switch n.Kind {
	case Number:
		return n.Text
	case Ident:
		return n.Text
	case Placeholder:
		return "{" + n.Text + "}"
	case Unary:
		return "(-" + n.Args[0].String() + ")"
	case Binary:
		return fmt.Sprintf("(%s %s %s)", n.Args[0], n.Op, n.Args[1])
	case Call:
		s := n.Text + "("
		for i, a := range n.Args {
			if i > 0 {
				s += ", "
			}
			s += a.String()
		}
		return s + ")"
	}
	return "?"
}
