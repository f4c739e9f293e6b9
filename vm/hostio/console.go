package hostio

import (
	"bufio"
	"io"
	"os"
	"syscall"

	"github.com/ked1108/kxn/internal/ngi"
	"github.com/ked1108/kxn/isa"
	"github.com/ked1108/kxn/vm"
	"github.com/pkg/errors"
	"github.com/pkg/term/termios"
)

// ConsoleHost is the one concrete, buildable HostIO: console text I/O goes
// to the given reader/writer with the input terminal switched to raw mode
// (so read_char sees individual keystrokes instead of line-buffered input),
// and the display/mouse SYS calls write into an in-memory ARGB8888
// framebuffer handed to an injected callback on SysRefresh. Neither a real
// window nor a real mouse is opened here: that seam is deliberately left to
// whatever the caller wires in through OnRefresh and the event fields.
type ConsoleHost struct {
	// errw latches the first write error against out (e.g. a closed pipe on
	// the far end of stdout) so print_char stops retrying a dead sink and
	// reports it once instead of failing silently forever.
	errw    *ngi.ErrWriter
	out     *bufio.Writer
	restore func()

	keys chan byte

	hasKey bool
	key    byte

	// Framebuffer is ARGB8888: four bytes per pixel, alpha fixed at 0xFF and
	// R == G == B == the grayscale value a DRAW_* call wrote.
	Framebuffer [isa.DisplayWidth * isa.DisplayHeight * 4]byte
	OnRefresh   func(fb []byte, w, h int)

	// mouseX/Y/Buttons/Pending are read by PollEvents through EventSource,
	// if set; with no EventSource the mouse always reads as idle at (0,0).
	// GetMouseX/Y push 16-bit coordinates low byte then high byte; Pending
	// is cleared by GetMouseB, not PollMouse.
	EventSource        func() (x, y uint16, buttons byte, pending bool)
	mouseX, mouseY     uint16
	mouseButtons       byte
	mousePending       bool
}

// NewConsoleHost places fd into raw mode (so single keystrokes are
// delivered without waiting for a newline) and starts a background reader
// feeding bytes read from in into the host's non-blocking key queue.
// Close must be called to restore the terminal's prior settings.
func NewConsoleHost(in *os.File, out io.Writer) (*ConsoleHost, error) {
	restore, err := setRawIO(in)
	if err != nil {
		return nil, errors.Wrap(err, "ConsoleHost: enable raw mode")
	}
	errw := ngi.NewErrWriter(out)
	h := &ConsoleHost{
		errw:    errw,
		out:     bufio.NewWriter(errw),
		restore: restore,
		keys:    make(chan byte, 256),
	}
	go h.readKeys(in)
	return h, nil
}

func (h *ConsoleHost) readKeys(in *os.File) {
	buf := make([]byte, 1)
	for {
		n, err := in.Read(buf)
		if n > 0 {
			h.keys <- buf[0]
		}
		if err != nil {
			close(h.keys)
			return
		}
	}
}

// Close flushes pending output and restores the terminal's original mode.
func (h *ConsoleHost) Close() error {
	err := h.out.Flush()
	if h.restore != nil {
		h.restore()
	}
	return err
}

// PollEvents drains at most one buffered keystroke and the injected mouse
// source into the host's latched state; it never asks the VM to stop.
func (h *ConsoleHost) PollEvents() bool {
	if !h.hasKey {
		select {
		case k, ok := <-h.keys:
			if ok {
				h.key, h.hasKey = k, true
			}
		default:
		}
	}
	if h.EventSource != nil {
		x, y, b, pending := h.EventSource()
		h.mouseX, h.mouseY, h.mouseButtons = x, y, b
		if pending {
			h.mousePending = true
		}
	}
	return false
}

// Dispatch implements vm.HostIO, mirroring FakeHost's semantics against a
// real terminal instead of in-memory state.
func (h *ConsoleHost) Dispatch(i *vm.Instance, id byte) error {
	switch isa.SysID(id) {
	case isa.SysExit:
		return vm.ErrHalt
	case isa.SysPrintChar:
		c := i.Pop()
		h.out.WriteByte(c)
		if c == '\n' {
			h.out.Flush()
		}
		return errors.Wrap(h.errw.Err, "console write")
	case isa.SysReadChar, isa.SysGetKey:
		if !h.hasKey {
			return vm.ErrWouldBlock
		}
		i.Push(h.key)
		h.hasKey = false
		return nil
	case isa.SysPollKey:
		i.Push(boolByte(h.hasKey))
		return nil
	case isa.SysDrawPixel:
		color := i.Pop()
		y := i.Pop()
		x := i.Pop()
		h.setPixel(x, y, color)
		return nil
	case isa.SysDrawLine:
		color := i.Pop()
		y1 := i.Pop()
		x1 := i.Pop()
		y0 := i.Pop()
		x0 := i.Pop()
		h.drawLine(x0, y0, x1, y1, color)
		return nil
	case isa.SysFillRect:
		color := i.Pop()
		rh := i.Pop()
		rw := i.Pop()
		y := i.Pop()
		x := i.Pop()
		h.fillRect(x, y, rw, rh, color)
		return nil
	case isa.SysRefresh:
		h.out.Flush()
		if h.OnRefresh != nil {
			h.OnRefresh(h.Framebuffer[:], isa.DisplayWidth, isa.DisplayHeight)
		}
		return errors.Wrap(h.errw.Err, "console write")
	case isa.SysPollMouse:
		i.Push(boolByte(h.mousePending))
		return nil
	case isa.SysGetMouseX:
		i.Push(byte(h.mouseX))
		i.Push(byte(h.mouseX >> 8))
		return nil
	case isa.SysGetMouseY:
		i.Push(byte(h.mouseY))
		i.Push(byte(h.mouseY >> 8))
		return nil
	case isa.SysGetMouseB:
		i.Push(h.mouseButtons)
		h.mousePending = false
		return nil
	default:
		return errors.Errorf("unknown SYS id 0x%02x", id)
	}
}

func (h *ConsoleHost) setPixel(x, y, color byte) {
	if int(x) >= isa.DisplayWidth || int(y) >= isa.DisplayHeight {
		return
	}
	off := (int(y)*isa.DisplayWidth + int(x)) * 4
	h.Framebuffer[off] = color
	h.Framebuffer[off+1] = color
	h.Framebuffer[off+2] = color
	h.Framebuffer[off+3] = 0xFF
}

func (h *ConsoleHost) fillRect(x, y, w, rows, color byte) {
	for dy := 0; dy < int(rows); dy++ {
		for dx := 0; dx < int(w); dx++ {
			h.setPixel(x+byte(dx), y+byte(dy), color)
		}
	}
}

func (h *ConsoleHost) drawLine(x0, y0, x1, y1, color byte) {
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
		h.setPixel(byte(x), byte(y), color)
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

// setRawIO switches fd into raw, unbuffered, unechoed mode the same way the
// reference toolchain's interactive listener does, and returns a function
// that restores the terminal's prior settings.
func setRawIO(f *os.File) (func(), error) {
	var tios syscall.Termios
	if err := termios.Tcgetattr(f.Fd(), &tios); err != nil {
		return nil, errors.Wrap(err, "Tcgetattr failed")
	}
	a := tios
	a.Iflag &^= syscall.IGNBRK | syscall.ISTRIP | syscall.IXON | syscall.IXOFF
	a.Iflag |= syscall.BRKINT | syscall.IGNPAR
	a.Lflag &^= syscall.ICANON | syscall.IEXTEN | syscall.ECHO
	a.Cc[syscall.VMIN] = 1
	a.Cc[syscall.VTIME] = 0
	if err := termios.Tcsetattr(f.Fd(), termios.TCSANOW, &a); err != nil {
		termios.Tcsetattr(f.Fd(), termios.TCSANOW, &tios)
		return nil, errors.Wrap(err, "Tcsetattr failed")
	}
	return func() {
		termios.Tcsetattr(f.Fd(), termios.TCSANOW, &tios)
	}, nil
}
