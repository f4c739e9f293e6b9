package compiler

// Compile lexes and parses src in a single pass, emitting textual assembly
// for the asm package to consume. name is used only in diagnostics (it is
// not currently threaded into Error, since every diagnostic already carries
// its own line number; kept as a parameter for symmetry with asm.Assemble
// and so a future multi-file front end has somewhere to plug in).
//
// Compilation stops at the first error: Compile returns a single-entry
// ErrList rather than attempting to recover and report more.
func Compile(name string, src string) (string, error) {
	toks := tokenize(src)
	p := newParser(toks)
	if err := p.parseProgram(); err != nil {
		if e, ok := err.(Error); ok {
			return "", ErrList{e}
		}
		return "", ErrList{{Line: 0, Msg: err.Error()}}
	}
	return p.out.String(), nil
}

// tokenize drains a Lexer into a slice, including the trailing EOF token so
// the parser can always peek one token ahead without bounds-checking.
func tokenize(src string) []Token {
	lx := NewLexer(src)
	var toks []Token
	for {
		t := lx.Next()
		toks = append(toks, t)
		if t.Kind == EOF {
			return toks
		}
	}
}
