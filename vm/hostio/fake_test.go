package hostio_test

import (
	"testing"

	"github.com/ked1108/kxn/isa"
	"github.com/ked1108/kxn/vm"
	"github.com/ked1108/kxn/vm/hostio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeHostPrintChar(t *testing.T) {
	host := &hostio.FakeHost{}
	img := []byte{
		isa.OpPush, 'H',
		isa.OpSys, byte(isa.SysPrintChar),
		isa.OpHalt,
	}
	i, err := vm.New(vm.WithImage(img), vm.WithHost(host))
	require.NoError(t, err)
	require.NoError(t, i.Run())
	assert.Equal(t, "H", host.Console.String())
}

// shutdownAfterDispatch requests shutdown once the first SYS has been
// dispatched, so a blocking call runs exactly once instead of spinning.
type shutdownAfterDispatch struct{ *hostio.FakeHost }

func (s shutdownAfterDispatch) Dispatch(i *vm.Instance, id byte) error {
	err := s.FakeHost.Dispatch(i, id)
	s.Shutdown = true
	return err
}

func TestFakeHostReadCharBlocks(t *testing.T) {
	host := &hostio.FakeHost{}
	img := []byte{
		isa.OpSys, byte(isa.SysReadChar),
		isa.OpHalt,
	}
	// stop the loop after the first dispatch, before it spins forever on no input
	i, err := vm.New(vm.WithImage(img), vm.WithHost(shutdownAfterDispatch{host}))
	require.NoError(t, err)

	require.NoError(t, i.Run())
	assert.Equal(t, uint16(0), i.PC, "PC should not have advanced past the blocking SYS")
}

func TestFakeHostReadCharDelivers(t *testing.T) {
	host := &hostio.FakeHost{Key: 'x', KeyAvail: true}
	img := []byte{
		isa.OpSys, byte(isa.SysReadChar),
		isa.OpHalt,
	}
	i, err := vm.New(vm.WithImage(img), vm.WithHost(host))
	require.NoError(t, err)
	require.NoError(t, i.Run())
	assert.Equal(t, byte('x'), i.Peek())
	assert.False(t, host.KeyAvail)
}

func TestFakeHostSysExitHalts(t *testing.T) {
	host := &hostio.FakeHost{}
	img := []byte{
		isa.OpPush, 7,
		isa.OpSys, byte(isa.SysExit),
		isa.OpPush, 9, // must never execute
	}
	i, err := vm.New(vm.WithImage(img), vm.WithHost(host))
	require.NoError(t, err)
	require.NoError(t, i.Run())
	assert.Equal(t, byte(7), i.Peek(), "SYS exit should halt before the following PUSH runs")
}

func TestFakeHostDrawPixelAndRefresh(t *testing.T) {
	host := &hostio.FakeHost{}
	var gotW, gotH int
	host.OnRefresh = func(fb []byte, w, h int) {
		gotW, gotH = w, h
	}
	img := []byte{
		isa.OpPush, 5, // x
		isa.OpPush, 6, // y
		isa.OpPush, 0xAA, // color
		isa.OpSys, byte(isa.SysDrawPixel),
		isa.OpSys, byte(isa.SysRefresh),
		isa.OpHalt,
	}
	i, err := vm.New(vm.WithImage(img), vm.WithHost(host))
	require.NoError(t, err)
	require.NoError(t, i.Run())
	assert.Equal(t, byte(0xAA), host.Framebuffer[6*isa.DisplayWidth+5])
	assert.Equal(t, isa.DisplayWidth, gotW)
	assert.Equal(t, isa.DisplayHeight, gotH)
	assert.Equal(t, 1, host.RefreshN)
}

func TestFakeHostMouseCoordinatesPushLoThenHi(t *testing.T) {
	host := &hostio.FakeHost{MouseX: 0x0142, MouseY: 0x00FF, MouseButtons: 1, MousePending: true}
	img := []byte{
		isa.OpSys, byte(isa.SysGetMouseX),
		isa.OpSys, byte(isa.SysGetMouseY),
		isa.OpSys, byte(isa.SysGetMouseB),
		isa.OpHalt,
	}
	i, err := vm.New(vm.WithImage(img), vm.WithHost(host))
	require.NoError(t, err)
	require.NoError(t, i.Run())

	// stack, bottom to top: x.lo, x.hi, y.lo, y.hi, buttons
	assert.Equal(t, byte(1), i.Pop(), "buttons")
	assert.Equal(t, byte(0x00), i.Pop(), "y hi")
	assert.Equal(t, byte(0xFF), i.Pop(), "y lo")
	assert.Equal(t, byte(0x01), i.Pop(), "x hi")
	assert.Equal(t, byte(0x42), i.Pop(), "x lo")
}

func TestFakeHostMousePendingClearsOnGetButtonsNotPoll(t *testing.T) {
	host := &hostio.FakeHost{MousePending: true}
	img := []byte{
		isa.OpSys, byte(isa.SysPollMouse),
		isa.OpSys, byte(isa.SysGetMouseB),
		isa.OpSys, byte(isa.SysPollMouse),
		isa.OpHalt,
	}
	i, err := vm.New(vm.WithImage(img), vm.WithHost(host))
	require.NoError(t, err)
	require.NoError(t, i.Run())

	assert.Equal(t, byte(0), i.Pop(), "pending should be clear after GetMouseB")
	i.Pop() // buttons value
	assert.Equal(t, byte(1), i.Pop(), "first poll should still see pending")
}
