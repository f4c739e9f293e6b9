// Package hostio supplies vm.HostIO implementations: FakeHost for tests and
// ConsoleHost for running images against a real terminal. Neither package
// nor any type in it knows anything about the VM's opcode loop; they only
// see the Instance's stack, through its exported Push and Pop methods.
package hostio

import (
	"bytes"

	"github.com/ked1108/kxn/isa"
	"github.com/ked1108/kxn/vm"
	"github.com/pkg/errors"
)

// FakeHost is an in-memory HostIO for tests: a console sink, a latched key,
// a mouse tuple and an 8-bit grayscale framebuffer, with no dependency on a
// real terminal or window. Grounded on the reference machine's pattern of
// supplying small per-port fakes directly in its own tests.
type FakeHost struct {
	Console bytes.Buffer

	// Key is consumed by SysGetKey/SysReadChar; KeyAvail gates them.
	Key      byte
	KeyAvail bool

	// MouseX, MouseY are 16-bit coordinates; GetMouseX/Y push them low byte
	// then high byte, per the host I/O contract. MousePending is cleared by
	// GetMouseB, not by PollMouse, which only reports it.
	MouseX, MouseY uint16
	MouseButtons   byte
	MousePending   bool

	// Framebuffer is an 8-bit grayscale image; DrawPixel/DrawLine/FillRect
	// write into it and Refresh passes a slice of it (not a copy) to
	// OnRefresh if set.
	Framebuffer [isa.DisplayWidth * isa.DisplayHeight]byte
	RefreshN    int
	OnRefresh   func(fb []byte, w, h int)

	Shutdown bool
}

// PollEvents never asks the VM to stop on its own; tests that want a
// shutdown mid-run set Shutdown directly.
func (f *FakeHost) PollEvents() bool { return f.Shutdown }

// Dispatch implements vm.HostIO.
func (f *FakeHost) Dispatch(i *vm.Instance, id byte) error {
	switch isa.SysID(id) {
	case isa.SysExit:
		return vm.ErrHalt
	case isa.SysPrintChar:
		f.Console.WriteByte(i.Pop())
		return nil
	case isa.SysReadChar:
		if !f.KeyAvail {
			return vm.ErrWouldBlock
		}
		i.Push(f.Key)
		f.KeyAvail = false
		return nil
	case isa.SysDrawPixel:
		color := i.Pop()
		y := i.Pop()
		x := i.Pop()
		f.setPixel(x, y, color)
		return nil
	case isa.SysDrawLine:
		color := i.Pop()
		y1 := i.Pop()
		x1 := i.Pop()
		y0 := i.Pop()
		x0 := i.Pop()
		f.drawLine(x0, y0, x1, y1, color)
		return nil
	case isa.SysFillRect:
		color := i.Pop()
		h := i.Pop()
		w := i.Pop()
		y := i.Pop()
		x := i.Pop()
		f.fillRect(x, y, w, h, color)
		return nil
	case isa.SysRefresh:
		f.RefreshN++
		if f.OnRefresh != nil {
			f.OnRefresh(f.Framebuffer[:], isa.DisplayWidth, isa.DisplayHeight)
		}
		return nil
	case isa.SysPollKey:
		i.Push(boolByte(f.KeyAvail))
		return nil
	case isa.SysGetKey:
		if !f.KeyAvail {
			return vm.ErrWouldBlock
		}
		i.Push(f.Key)
		f.KeyAvail = false
		return nil
	case isa.SysPollMouse:
		i.Push(boolByte(f.MousePending))
		return nil
	case isa.SysGetMouseX:
		i.Push(byte(f.MouseX))
		i.Push(byte(f.MouseX >> 8))
		return nil
	case isa.SysGetMouseY:
		i.Push(byte(f.MouseY))
		i.Push(byte(f.MouseY >> 8))
		return nil
	case isa.SysGetMouseB:
		i.Push(f.MouseButtons)
		f.MousePending = false
		return nil
	default:
		return errors.Errorf("unknown SYS id 0x%02x", id)
	}
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func (f *FakeHost) setPixel(x, y, color byte) {
	if int(x) >= isa.DisplayWidth || int(y) >= isa.DisplayHeight {
		return
	}
	f.Framebuffer[int(y)*isa.DisplayWidth+int(x)] = color
}

func (f *FakeHost) fillRect(x, y, w, h, color byte) {
	for dy := 0; dy < int(h); dy++ {
		for dx := 0; dx < int(w); dx++ {
			f.setPixel(x+byte(dx), y+byte(dy), color)
		}
	}
}

// drawLine is a Bresenham rasterizer, the same algorithm the reference
// machine's display backend uses for this call.
func (f *FakeHost) drawLine(x0, y0, x1, y1, color byte) {
	ix0, iy0, ix1, iy1 := int(x0), int(y0), int(x1), int(y1)
	dx := abs(ix1 - ix0)
	dy := -abs(iy1 - iy0)
	sx, sy := 1, 1
	if ix0 >= ix1 {
		sx = -1
	}
	if iy0 >= iy1 {
		sy = -1
	}
	err := dx + dy
	x, y := ix0, iy0
	for {
		f.setPixel(byte(x), byte(y), color)
		if x == ix1 && y == iy1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
