package appwindow

import (
	"errors"
	"testing"

	"github.com/BobdaProgrammer/grout/internal/win32"
)

var (
	errQueueDrained  = errors.New("queue drained")
	errInvalidHandle = errors.New("invalid window handle")
)

// fakeOS emulates just enough of user32 for one thread: CreateWindow and
// DestroyWindow deliver their messages synchronously, PostMessage appends to
// an in-memory queue and GetMessage fails once that queue runs dry instead
// of blocking.
type fakeOS struct {
	instance   win32.HINSTANCE
	moduleErr  error
	classErr   error
	createErr  error
	shellErr   error
	messageID  uint32
	messageErr error
	hookHandle win32.HWINEVENTHOOK
	hookErr    error
	postErr    error

	classes    map[string]win32.WndProc
	windows    map[win32.HWND]string
	nextHWND   win32.HWND
	shown      map[win32.HWND]int32
	shellHooks map[win32.HWND]bool
	hooks      map[win32.HWINEVENTHOOK]bool

	hookMin, hookMax, hookFlags uint32
	winEvent                    win32.WinEventProc

	queue       []win32.Msg
	defProc     []win32.Msg
	deregisters int
	unhooks     int

	// released records teardown calls in the order they were made.
	released []string
}

func newFakeOS() *fakeOS {
	return &fakeOS{
		instance:   0x400000,
		messageID:  0xC0DE,
		hookHandle: 0x77,
		classes:    map[string]win32.WndProc{},
		windows:    map[win32.HWND]string{},
		nextHWND:   0x100,
		shown:      map[win32.HWND]int32{},
		shellHooks: map[win32.HWND]bool{},
		hooks:      map[win32.HWINEVENTHOOK]bool{},
	}
}

func (f *fakeOS) ModuleHandle() (win32.HINSTANCE, error) {
	return f.instance, f.moduleErr
}

func (f *fakeOS) RegisterClass(name string, _ win32.HINSTANCE, proc win32.WndProc) (uint16, error) {
	if f.classErr != nil {
		return 0, f.classErr
	}
	f.classes[name] = proc
	return 0xC001, nil
}

func (f *fakeOS) UnregisterClass(name string, _ win32.HINSTANCE) error {
	f.released = append(f.released, "unregister class")
	delete(f.classes, name)
	return nil
}

func (f *fakeOS) CreateWindow(class, _ string, _ uint32, _ win32.HINSTANCE, param uintptr) (win32.HWND, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	proc := f.classes[class]
	hwnd := f.nextHWND
	f.nextHWND++
	f.windows[hwnd] = class
	proc(hwnd, win32.WM_NCCREATE, 0, param)
	proc(hwnd, win32.WM_CREATE, 0, param)
	return hwnd, nil
}

// CreateParams treats lParam as the parameter itself; the fake never builds
// a CREATESTRUCT.
func (f *fakeOS) CreateParams(lparam uintptr) uintptr {
	return lparam
}

func (f *fakeOS) DestroyWindow(hwnd win32.HWND) error {
	class, ok := f.windows[hwnd]
	if !ok {
		return errInvalidHandle
	}
	f.released = append(f.released, "destroy window")
	f.classes[class](hwnd, win32.WM_DESTROY, 0, 0)
	delete(f.windows, hwnd)
	return nil
}

func (f *fakeOS) ShowWindow(hwnd win32.HWND, cmd int32) bool {
	f.shown[hwnd] = cmd
	return false
}

func (f *fakeOS) RegisterShellHookWindow(hwnd win32.HWND) error {
	if f.shellErr != nil {
		return f.shellErr
	}
	f.shellHooks[hwnd] = true
	return nil
}

func (f *fakeOS) DeregisterShellHookWindow(hwnd win32.HWND) error {
	if _, ok := f.windows[hwnd]; !ok {
		return errInvalidHandle
	}
	f.released = append(f.released, "deregister shell hook")
	f.deregisters++
	delete(f.shellHooks, hwnd)
	return nil
}

func (f *fakeOS) RegisterWindowMessage(string) (uint32, error) {
	if f.messageErr != nil {
		return 0, f.messageErr
	}
	return f.messageID, nil
}

func (f *fakeOS) SetWinEventHook(eventMin, eventMax uint32, proc win32.WinEventProc, flags uint32) (win32.HWINEVENTHOOK, error) {
	if f.hookErr != nil || f.hookHandle == 0 {
		return 0, f.hookErr
	}
	f.hookMin, f.hookMax, f.hookFlags = eventMin, eventMax, flags
	f.winEvent = proc
	f.hooks[f.hookHandle] = true
	return f.hookHandle, nil
}

func (f *fakeOS) UnhookWinEvent(hook win32.HWINEVENTHOOK) error {
	f.released = append(f.released, "unhook")
	f.unhooks++
	delete(f.hooks, hook)
	return nil
}

func (f *fakeOS) PostMessage(hwnd win32.HWND, msg uint32, wparam, lparam uintptr) error {
	if f.postErr != nil {
		return f.postErr
	}
	f.queue = append(f.queue, win32.Msg{HWnd: hwnd, Message: msg, WParam: wparam, LParam: lparam})
	return nil
}

func (f *fakeOS) PostQuitMessage(code int32) {
	f.queue = append(f.queue, win32.Msg{Message: win32.WM_QUIT, WParam: uintptr(code)})
}

func (f *fakeOS) GetMessage(msg *win32.Msg) (int32, error) {
	if len(f.queue) == 0 {
		return -1, errQueueDrained
	}
	*msg = f.queue[0]
	f.queue = f.queue[1:]
	if msg.Message == win32.WM_QUIT {
		return 0, nil
	}
	return 1, nil
}

func (f *fakeOS) TranslateMessage(*win32.Msg) bool {
	return false
}

func (f *fakeOS) DispatchMessage(msg *win32.Msg) uintptr {
	class, ok := f.windows[msg.HWnd]
	if !ok {
		return 0
	}
	return f.classes[class](msg.HWnd, msg.Message, msg.WParam, msg.LParam)
}

func (f *fakeOS) DefWindowProc(hwnd win32.HWND, msg uint32, wparam, lparam uintptr) uintptr {
	f.defProc = append(f.defProc, win32.Msg{HWnd: hwnd, Message: msg, WParam: wparam, LParam: lparam})
	if msg == win32.WM_CLOSE {
		_ = f.DestroyWindow(hwnd)
	}
	return 0
}

func (f *fakeOS) fire(event uint32, hwnd win32.HWND, object, child int32) {
	f.winEvent(win32.WinEvent{Event: event, HWND: hwnd, Object: object, Child: child})
}

type fakeEngine struct {
	sys         *fakeOS
	managed     win32.HWND
	shellHookID uint32
	messages    []win32.Msg
	result      uintptr
}

func (e *fakeEngine) Manage(hwnd win32.HWND) {
	e.managed = hwnd
}

func (e *fakeEngine) SetShellHookID(id uint32) {
	e.shellHookID = id
}

func (e *fakeEngine) HandleMessage(hwnd win32.HWND, msg uint32, wparam, lparam uintptr) uintptr {
	e.messages = append(e.messages, win32.Msg{HWnd: hwnd, Message: msg, WParam: wparam, LParam: lparam})
	if msg == win32.WM_CLOSE {
		return e.sys.DefWindowProc(hwnd, msg, wparam, lparam)
	}
	return e.result
}

// codes returns the message codes the engine received, in order.
func (e *fakeEngine) codes() []uint32 {
	out := make([]uint32, 0, len(e.messages))
	for _, m := range e.messages {
		out = append(out, m.Message)
	}
	return out
}

func newTestWindow(t *testing.T) (*Window, *fakeOS, *fakeEngine) {
	t.Helper()
	t.Cleanup(singleton.release)

	sys := newFakeOS()
	engine := &fakeEngine{sys: sys}
	w, err := Create(sys, engine)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return w, sys, engine
}
