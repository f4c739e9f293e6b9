package asm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ked1108/kxn/isa"
)

// label records where a label resolves to once its defining line has been
// seen. Forward references patch in a second pass, the way the reference
// assembler's own two-pass label table works.
type label struct {
	address int
	defined bool
	line    int // line of definition, for redefinition diagnostics
}

// labelRef records one forward (or backward) use of a label: the patch
// position in the output buffer that needs the label's resolved address
// written back once parsing finishes.
type labelRef struct {
	name     string
	line     int
	patchPos int
}

// parser holds state threaded through a single Assemble call.
type parser struct {
	out    []byte
	labels map[string]*label
	refs   []labelRef
	errs   ErrList
}

func newParser() *parser {
	return &parser{
		labels: make(map[string]*label),
	}
}

func (p *parser) errorf(line int, format string, args ...interface{}) {
	p.errs = append(p.errs, Error{Line: line, Msg: fmt.Sprintf(format, args...)})
}

func (p *parser) emitByte(b byte) {
	p.out = append(p.out, b)
}

func (p *parser) emitWord(v uint16) {
	p.out = append(p.out, byte(v), byte(v>>8))
}

func (p *parser) defineLabel(name string, line int) {
	if l, ok := p.labels[name]; ok {
		if l.defined {
			p.errorf(line, "label %q redefined, first defined on line %d", name, l.line)
			return
		}
		l.address = len(p.out)
		l.defined = true
		l.line = line
		return
	}
	p.labels[name] = &label{address: len(p.out), defined: true, line: line}
}

func (p *parser) refLabel(name string, line int) {
	p.refs = append(p.refs, labelRef{name: name, line: line, patchPos: len(p.out)})
}

// parseNumber accepts decimal and 0x-prefixed hexadecimal literals.
func parseNumber(s string) (int64, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return strconv.ParseInt(s[2:], 16, 32)
	}
	return strconv.ParseInt(s, 10, 32)
}

func isIdentStart(r byte) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// parseLine assembles a single pre-trimmed, comment-stripped line.
func (p *parser) parseLine(line string, lineNo int) {
	// a label definition may prefix the rest of the line.
	if idx := strings.IndexByte(line, ':'); idx >= 0 {
		name := strings.TrimSpace(line[:idx])
		if name == "" {
			p.errorf(lineNo, "empty label name")
			return
		}
		p.defineLabel(name, lineNo)
		line = strings.TrimSpace(line[idx+1:])
		if line == "" {
			return
		}
	}

	fields := strings.Fields(line)
	mnemonic := strings.ToUpper(fields[0])
	def, ok := isa.ByMnemonic[mnemonic]
	if !ok {
		p.errorf(lineNo, "unknown instruction %q", fields[0])
		return
	}
	p.emitByte(def.Opcode)

	switch def.Kind {
	case isa.KindNone:
		if len(fields) > 1 {
			p.errorf(lineNo, "%s takes no operand", mnemonic)
		}
	case isa.KindImm8:
		if len(fields) < 2 {
			p.errorf(lineNo, "%s requires an immediate operand", mnemonic)
			return
		}
		n, err := parseNumber(fields[1])
		if err != nil {
			p.errorf(lineNo, "invalid operand %q: %v", fields[1], err)
			return
		}
		p.emitByte(byte(n))
	case isa.KindAddr16:
		if len(fields) < 2 {
			p.errorf(lineNo, "%s requires an address operand", mnemonic)
			return
		}
		operand := fields[1]
		if isIdentStart(operand[0]) {
			p.refLabel(operand, lineNo)
			p.emitWord(0)
			return
		}
		n, err := parseNumber(operand)
		if err != nil {
			p.errorf(lineNo, "invalid operand %q: %v", operand, err)
			return
		}
		p.emitWord(uint16(n))
	}
}

// patch resolves every recorded label reference against the final label
// table, appending an error for any label that was used but never defined.
func (p *parser) patch() {
	for _, ref := range p.refs {
		l, ok := p.labels[ref.name]
		if !ok || !l.defined {
			p.errorf(ref.line, "undefined label %q", ref.name)
			continue
		}
		addr := uint16(l.address)
		p.out[ref.patchPos] = byte(addr)
		p.out[ref.patchPos+1] = byte(addr >> 8)
	}
}
