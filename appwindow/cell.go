package appwindow

import (
	"sync"
	"sync/atomic"

	"github.com/BobdaProgrammer/grout/internal/win32"
)

// reservedHandle marks the cell as claimed by a Create still in progress.
const reservedHandle = ^uintptr(0)

// handleCell holds the one management window of the process. It is claimed
// and published by Create and only read afterwards; the hook callback has no
// context argument and finds its target here.
type handleCell struct {
	v atomic.Uintptr
}

var singleton handleCell

func (c *handleCell) claim() bool {
	return c.v.CompareAndSwap(0, reservedHandle)
}

func (c *handleCell) publish(hwnd win32.HWND) {
	c.v.Store(uintptr(hwnd))
}

// release gives the cell back after a failed Create.
func (c *handleCell) release() {
	c.v.Store(0)
}

// load returns 0 until a handle has been published.
func (c *handleCell) load() win32.HWND {
	h := c.v.Load()
	if h == reservedHandle {
		return 0
	}
	return win32.HWND(h)
}

// registry maps window handles to the engine that owns their messages. The
// engine travels through CreateWindow as an integer token rather than a Go
// pointer and is exchanged for a binding when WM_CREATE arrives. Bindings are
// never replaced or removed.
type registry struct {
	mu      sync.Mutex
	next    uintptr
	pending map[uintptr]Engine
	bound   map[win32.HWND]Engine
}

func newRegistry() *registry {
	return &registry{
		pending: map[uintptr]Engine{},
		bound:   map[win32.HWND]Engine{},
	}
}

func (r *registry) reserve(e Engine) uintptr {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	r.pending[r.next] = e
	return r.next
}

// bind attaches the engine reserved under token to hwnd. It reports false for
// unknown tokens and for windows that are already bound.
func (r *registry) bind(hwnd win32.HWND, token uintptr) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.pending[token]
	if !ok {
		return false
	}
	if _, exists := r.bound[hwnd]; exists {
		return false
	}
	delete(r.pending, token)
	r.bound[hwnd] = e
	return true
}

func (r *registry) forget(token uintptr) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, token)
}

func (r *registry) lookup(hwnd win32.HWND) (Engine, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.bound[hwnd]
	return e, ok
}
