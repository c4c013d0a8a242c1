// Package appwindow owns the hidden window grout uses as a message sink. The
// window is registered as the shell hook recipient, a WinEvent hook posts
// cloak and uncloak changes to it, and Run pumps everything into the engine.
//
// Create, Run and Close must all be called from one goroutine locked to its
// OS thread: the window, its queue and the out-of-context hook belong to the
// thread that created them.
package appwindow

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/BobdaProgrammer/grout/internal/win32"
)

const (
	DefaultClassName = "grout-wm.window"
	DefaultTitle     = "grout-wm"
)

// Engine receives every message for the management window once it is bound.
type Engine interface {
	// Manage tells the engine which window is the management window.
	Manage(hwnd win32.HWND)
	// SetShellHookID passes the message code the shell uses for this session.
	SetShellHookID(id uint32)
	// HandleMessage processes one message; its result is returned to the OS.
	HandleMessage(hwnd win32.HWND, msg uint32, wparam, lparam uintptr) uintptr
}

// OS is the part of the Win32 facade this package depends on.
type OS interface {
	ModuleHandle() (win32.HINSTANCE, error)
	RegisterClass(name string, instance win32.HINSTANCE, proc win32.WndProc) (uint16, error)
	UnregisterClass(name string, instance win32.HINSTANCE) error
	CreateWindow(class, title string, style uint32, instance win32.HINSTANCE, param uintptr) (win32.HWND, error)
	CreateParams(lparam uintptr) uintptr
	DestroyWindow(hwnd win32.HWND) error
	ShowWindow(hwnd win32.HWND, cmd int32) bool
	RegisterShellHookWindow(hwnd win32.HWND) error
	DeregisterShellHookWindow(hwnd win32.HWND) error
	RegisterWindowMessage(name string) (uint32, error)
	SetWinEventHook(eventMin, eventMax uint32, proc win32.WinEventProc, flags uint32) (win32.HWINEVENTHOOK, error)
	UnhookWinEvent(hook win32.HWINEVENTHOOK) error
	PostMessage(hwnd win32.HWND, msg uint32, wparam, lparam uintptr) error
	PostQuitMessage(code int32)
	GetMessage(msg *win32.Msg) (int32, error)
	TranslateMessage(msg *win32.Msg) bool
	DispatchMessage(msg *win32.Msg) uintptr
	DefWindowProc(hwnd win32.HWND, msg uint32, wparam, lparam uintptr) uintptr
}

type options struct {
	className string
	title     string
}

// Option customises Create.
type Option func(*options)

// WithClassName overrides the window class name.
func WithClassName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.className = name
		}
	}
}

// WithTitle overrides the window title.
func WithTitle(title string) Option {
	return func(o *options) {
		if title != "" {
			o.title = title
		}
	}
}

// Window is the process's management window.
type Window struct {
	sys         OS
	dispatch    *dispatcher
	hwnd        win32.HWND
	shellHookID uint32
	hook        win32.HWINEVENTHOOK

	// release undoes acquisitions in reverse order.
	release   []func() error
	closeOnce sync.Once
	closeErr  error
}

// Create builds the management window and binds engine to it. Only one
// window may exist per process; a second call fails with ErrAlreadyCreated
// even after Close. Whatever Create acquired before failing is released
// before it returns.
func Create(sys OS, engine Engine, opts ...Option) (_ *Window, err error) {
	o := options{className: DefaultClassName, title: DefaultTitle}
	for _, opt := range opts {
		opt(&o)
	}

	if !singleton.claim() {
		return nil, ErrAlreadyCreated
	}

	win := &Window{sys: sys, dispatch: newDispatcher(sys)}
	defer func() {
		if err != nil {
			if rerr := win.unwind(); rerr != nil {
				slog.Error("couldn't release partially created window", "error", rerr)
			}
			singleton.release()
		}
	}()

	instance, err := sys.ModuleHandle()
	if err != nil || instance == 0 {
		return nil, &ConstructionError{Step: "resolve instance", Kind: ErrInstanceUnavailable, Err: err}
	}

	atom, err := sys.RegisterClass(o.className, instance, win.dispatch.wndProc)
	if err != nil || atom == 0 {
		return nil, &ConstructionError{Step: "register class " + o.className, Kind: ErrClassRegistration, Err: err}
	}
	win.onRelease(func() error { return sys.UnregisterClass(o.className, instance) })

	token := win.dispatch.engines.reserve(engine)
	hwnd, err := sys.CreateWindow(o.className, o.title, win32.WS_OVERLAPPEDWINDOW, instance, token)
	if err != nil || hwnd == 0 {
		win.dispatch.engines.forget(token)
		return nil, &ConstructionError{Step: "create window", Kind: ErrWindowCreation, Err: err}
	}
	win.hwnd = hwnd
	win.onRelease(func() error {
		if win.dispatch.destroyed.Load() {
			return nil
		}
		return sys.DestroyWindow(hwnd)
	})
	singleton.publish(hwnd)
	slog.Debug("created management window", "hwnd", hwnd, "class", o.className)

	sys.ShowWindow(hwnd, win32.SW_SHOWMINNOACTIVE)
	engine.Manage(hwnd)

	if err = sys.RegisterShellHookWindow(hwnd); err != nil {
		return nil, &ConstructionError{Step: "register shell hook window", Kind: ErrShellHookRegistration, Err: err}
	}
	// Deregistration needs a live handle. It runs in WM_DESTROY at the latest
	// and Close only reports its result.
	deregister := sync.OnceValue(func() error { return sys.DeregisterShellHookWindow(hwnd) })
	win.dispatch.onDestroy = func() { _ = deregister() }
	win.onRelease(deregister)

	win.shellHookID, err = sys.RegisterWindowMessage(win32.ShellHookMessageName)
	if err != nil || win.shellHookID == 0 {
		return nil, &ConstructionError{Step: "register " + win32.ShellHookMessageName + " message", Kind: ErrShellHookRegistration, Err: err}
	}
	engine.SetShellHookID(win.shellHookID)

	win.hook, err = sys.SetWinEventHook(
		win32.EVENT_OBJECT_CLOAKED,
		win32.EVENT_OBJECT_UNCLOAKED,
		bridge{sys: sys}.onWinEvent,
		win32.WINEVENT_OUTOFCONTEXT,
	)
	if err != nil || win.hook == 0 {
		return nil, &ConstructionError{Step: "install cloak hook", Kind: ErrEventHook, Err: err}
	}
	hook := win.hook
	win.onRelease(func() error { return sys.UnhookWinEvent(hook) })
	win.dispatch.quitOnDestroy.Store(true)

	slog.Info("management window ready", "hwnd", hwnd, "shellhook", win.shellHookID)
	return win, nil
}

func (w *Window) onRelease(fn func() error) {
	w.release = append(w.release, fn)
}

func (w *Window) unwind() error {
	var errs []error
	for i := len(w.release) - 1; i >= 0; i-- {
		if err := w.release[i](); err != nil {
			errs = append(errs, err)
		}
	}
	w.release = nil
	return errors.Join(errs...)
}

// Handle returns the native handle of the window.
func (w *Window) Handle() win32.HWND {
	return w.hwnd
}

// ShellHookID returns the shell hook message code registered for this session.
func (w *Window) ShellHookID() uint32 {
	return w.shellHookID
}

// Run pumps messages until the window is destroyed. It blocks with no
// timeout; Stop, or anything else that destroys the window, ends it.
func (w *Window) Run() error {
	slog.Info("window manager up and running")

	var msg win32.Msg
	for {
		ret, err := w.sys.GetMessage(&msg)
		if ret == 0 {
			return nil
		}
		if ret < 0 {
			if err == nil {
				return ErrMessageQueue
			}
			return fmt.Errorf("%w: %w", ErrMessageQueue, err)
		}
		w.sys.TranslateMessage(&msg)
		w.sys.DispatchMessage(&msg)
	}
}

// Stop asks the window to close. It may be called from any goroutine; Run
// returns once the resulting WM_DESTROY has been processed.
func (w *Window) Stop() error {
	return w.sys.PostMessage(w.hwnd, win32.WM_CLOSE, 0, 0)
}

// Close deregisters the shell hook window, removes the cloak hook and frees
// the window and its class. Only the first call does any work; later calls
// return the same result.
func (w *Window) Close() error {
	w.closeOnce.Do(func() {
		w.closeErr = w.unwind()
		if w.closeErr != nil {
			slog.Error("couldn't release management window", "error", w.closeErr)
			return
		}
		slog.Debug("released management window", "hwnd", w.hwnd)
	})
	return w.closeErr
}
