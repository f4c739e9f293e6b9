package compiler

import "fmt"

// expression lowers the precedence chain (comparison -> additive ->
// multiplicative -> factor) bottom-up: each level emits its operands first,
// then its operator, giving the postfix code a stack machine expects. It
// returns whether the expression leaves a value on the stack, which is
// false only for a bare call to a built-in that doesn't return one.
func (p *parser) expression() (bool, error) { return p.comparison() }

var cmpOps = map[Kind]string{
	Eq:  "EQ",
	Neq: "NEQ",
	Gt:  "GT",
	Lt:  "LT",
	Gte: "GTE",
	Lte: "LTE",
}

// comparison accepts and left-folds chained comparisons (a < b < c); the
// language does not define what the result means, only that parsing must
// not reject it, so there is nothing special here beyond ordinary
// left-associative folding.
func (p *parser) comparison() (bool, error) {
	pushes, err := p.additive()
	if err != nil {
		return false, err
	}
	for {
		mnem, ok := cmpOps[p.cur().Kind]
		if !ok {
			return pushes, nil
		}
		p.advance()
		rhsPushes, err := p.additive()
		if err != nil {
			return false, err
		}
		if !pushes || !rhsPushes {
			return false, p.errorf("operand of %s does not produce a value", mnem)
		}
		p.emitOp(mnem)
		pushes = true
	}
}

var additiveOps = map[Kind]string{
	Plus:  "ADD",
	Minus: "SUB",
}

func (p *parser) additive() (bool, error) {
	pushes, err := p.multiplicative()
	if err != nil {
		return false, err
	}
	for {
		mnem, ok := additiveOps[p.cur().Kind]
		if !ok {
			return pushes, nil
		}
		p.advance()
		rhsPushes, err := p.multiplicative()
		if err != nil {
			return false, err
		}
		if !pushes || !rhsPushes {
			return false, p.errorf("operand of %s does not produce a value", mnem)
		}
		p.emitOp(mnem)
		pushes = true
	}
}

// multiplicative additionally accepts '%' (MOD): the shared ISA table
// already carries MOD and the lexer already recognizes '%', so refusing it
// here would only be an arbitrary restriction.
var multiplicativeOps = map[Kind]string{
	Star:    "MUL",
	Slash:   "DIV",
	Percent: "MOD",
}

func (p *parser) multiplicative() (bool, error) {
	pushes, err := p.factor()
	if err != nil {
		return false, err
	}
	for {
		mnem, ok := multiplicativeOps[p.cur().Kind]
		if !ok {
			return pushes, nil
		}
		p.advance()
		rhsPushes, err := p.factor()
		if err != nil {
			return false, err
		}
		if !pushes || !rhsPushes {
			return false, p.errorf("operand of %s does not produce a value", mnem)
		}
		p.emitOp(mnem)
		pushes = true
	}
}

// factor handles the grammar's terminal productions: a number, an
// identifier (either a variable load or, followed by '(', a built-in
// call), or a parenthesised sub-expression.
func (p *parser) factor() (bool, error) {
	switch p.cur().Kind {
	case Number:
		tok := p.advance()
		n, err := parseByteLiteral(tok.Text)
		if err != nil {
			return false, Error{Line: tok.Line, Msg: err.Error()}
		}
		p.emit("  PUSH %d", n)
		p.lastMnemonic = "PUSH"
		return true, nil

	case Ident:
		tok := p.advance()
		if p.check(LParen) {
			return p.call(tok)
		}
		sym, ok := p.syms.lookup(tok.Text)
		if !ok {
			return false, Error{Line: tok.Line, Msg: fmt.Sprintf("undefined identifier %q", tok.Text)}
		}
		p.emitOpAddr("LOAD", fmt.Sprintf("0x%04X", sym.Address))
		return true, nil

	case LParen:
		p.advance()
		pushes, err := p.expression()
		if err != nil {
			return false, err
		}
		if _, err := p.expect(RParen); err != nil {
			return false, err
		}
		return pushes, nil

	default:
		return false, p.errorf("unexpected token %s %q", p.cur().Kind, p.cur().Text)
	}
}

// call lowers a built-in function call: arguments evaluate left to right,
// pushed in source order, then a single SYS instruction dispatches to the
// host. halt() additionally emits a trailing HALT, so the program also stops
// when run with no host, where the VM skips SYS instructions.
func (p *parser) call(nameTok Token) (bool, error) {
	b, ok := builtins[nameTok.Text]
	if !ok {
		return false, Error{Line: nameTok.Line, Msg: fmt.Sprintf("unknown built-in function %q", nameTok.Text)}
	}
	if _, err := p.expect(LParen); err != nil {
		return false, err
	}

	argc := 0
	if !p.check(RParen) {
		for {
			pushes, err := p.expression()
			if err != nil {
				return false, err
			}
			if !pushes {
				return false, Error{Line: nameTok.Line, Msg: fmt.Sprintf("argument %d to %q does not produce a value", argc+1, nameTok.Text)}
			}
			argc++
			if !p.match(Comma) {
				break
			}
		}
	}
	if _, err := p.expect(RParen); err != nil {
		return false, err
	}
	if argc != b.arity {
		return false, Error{Line: nameTok.Line, Msg: fmt.Sprintf("%q takes %d argument(s), got %d", nameTok.Text, b.arity, argc)}
	}

	p.emitOpAddr("SYS", fmt.Sprintf("0x%02X", byte(b.id)))
	if nameTok.Text == "halt" {
		p.emitOp("HALT")
	}
	return b.returns, nil
}
