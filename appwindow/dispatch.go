package appwindow

import (
	"sync/atomic"

	"github.com/BobdaProgrammer/grout/internal/win32"
)

// dispatcher is the window procedure of the registered class. A window is
// unbound until WM_CREATE hands it an engine, bound from then on, and
// WM_DESTROY ends the message loop whatever state it is in.
type dispatcher struct {
	sys       OS
	engines   *registry
	destroyed atomic.Bool

	// quitOnDestroy is set once Create succeeds. A window destroyed while
	// Create unwinds must not leave WM_QUIT behind for the next message loop.
	quitOnDestroy atomic.Bool

	// onDestroy runs while the handle is still valid.
	onDestroy func()
}

func newDispatcher(sys OS) *dispatcher {
	return &dispatcher{sys: sys, engines: newRegistry()}
}

func (d *dispatcher) wndProc(hwnd win32.HWND, msg uint32, wparam, lparam uintptr) uintptr {
	switch msg {
	case win32.WM_DESTROY:
		d.destroyed.Store(true)
		if d.onDestroy != nil {
			d.onDestroy()
		}
		if d.quitOnDestroy.Load() {
			d.sys.PostQuitMessage(0)
		}
		return 0
	case win32.WM_CREATE:
		d.engines.bind(hwnd, d.sys.CreateParams(lparam))
		return d.sys.DefWindowProc(hwnd, msg, wparam, lparam)
	}

	if engine, ok := d.engines.lookup(hwnd); ok {
		return engine.HandleMessage(hwnd, msg, wparam, lparam)
	}
	return d.sys.DefWindowProc(hwnd, msg, wparam, lparam)
}
