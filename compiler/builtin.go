package compiler

import "github.com/ked1108/kxn/isa"

// builtin describes one of the language's built-in functions: how many
// arguments it takes and whether evaluating it leaves a value on the stack
// for the caller to use. The shared isa.Builtins table carries a few extra
// host capabilities (poll_key, get_mouse_x, ...) useful to hand-written
// assembly; this language only exposes these seven names, since
// get_mouse_x/y push a 16-bit pair the single-byte variable model here
// can't round-trip through a plain assignment.
type builtin struct {
	id      isa.SysID
	arity   int
	returns bool
}

var builtins = map[string]builtin{
	"print_char": {isa.SysPrintChar, 1, false},
	"read_char":  {isa.SysReadChar, 0, true},
	"draw_pixel": {isa.SysDrawPixel, 3, false},
	"draw_line":  {isa.SysDrawLine, 5, false},
	"fill_rect":  {isa.SysFillRect, 5, false},
	"refresh":    {isa.SysRefresh, 0, false},
	"halt":       {isa.SysExit, 0, false},
}
