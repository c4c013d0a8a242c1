//go:build windows

package win32

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procRegisterClassW            = user32.NewProc("RegisterClassW")
	procUnregisterClassW          = user32.NewProc("UnregisterClassW")
	procCreateWindowExW           = user32.NewProc("CreateWindowExW")
	procDestroyWindow             = user32.NewProc("DestroyWindow")
	procShowWindow                = user32.NewProc("ShowWindow")
	procRegisterShellHookWindow   = user32.NewProc("RegisterShellHookWindow")
	procDeregisterShellHookWindow = user32.NewProc("DeregisterShellHookWindow")
	procRegisterWindowMessageW    = user32.NewProc("RegisterWindowMessageW")
	procSetWinEventHook           = user32.NewProc("SetWinEventHook")
	procUnhookWinEvent            = user32.NewProc("UnhookWinEvent")
	procPostMessageW              = user32.NewProc("PostMessageW")
	procPostQuitMessage           = user32.NewProc("PostQuitMessage")
	procGetMessageW               = user32.NewProc("GetMessageW")
	procTranslateMessage          = user32.NewProc("TranslateMessage")
	procDispatchMessageW          = user32.NewProc("DispatchMessageW")
	procDefWindowProcW            = user32.NewProc("DefWindowProcW")
	procIsIconic                  = user32.NewProc("IsIconic")
	procGetParent                 = user32.NewProc("GetParent")
	procGetWindowLongPtrW         = user32.NewProc("GetWindowLongPtrW")
	procGetWindowLongW            = user32.NewProc("GetWindowLongW")
	procGetWindowTextW            = user32.NewProc("GetWindowTextW")
	procGetWindowTextLengthW      = user32.NewProc("GetWindowTextLengthW")
	procFindWindowW               = user32.NewProc("FindWindowW")
	procSystemParametersInfoW     = user32.NewProc("SystemParametersInfoW")
	procGetSystemMetrics          = user32.NewProc("GetSystemMetrics")
	procSetWindowPos              = user32.NewProc("SetWindowPos")
)

const (
	cwUseDefault = 0x80000000

	gwlStyle   = -16
	gwlExStyle = -20

	dwmwaCloaked = 14

	spiGetWorkArea = 0x0030

	smXVirtualScreen  = 76
	smYVirtualScreen  = 77
	smCXVirtualScreen = 78
	smCYVirtualScreen = 79

	hwndTop = 0
)

type wndClass struct {
	Style      uint32
	WndProc    uintptr
	ClsExtra   int32
	WndExtra   int32
	Instance   HINSTANCE
	Icon       windows.Handle
	Cursor     windows.Handle
	Background windows.Handle
	MenuName   *uint16
	ClassName  *uint16
}

type createStruct struct {
	CreateParams uintptr
	Instance     HINSTANCE
	Menu         windows.Handle
	Parent       HWND
	Cy           int32
	Cx           int32
	Y            int32
	X            int32
	Style        int32
	Name         *uint16
	Class        *uint16
	ExStyle      uint32
}

type rect struct {
	Left, Top, Right, Bottom int32
}

// System calls straight into the OS and holds no state. Callbacks passed to
// RegisterClass and SetWinEventHook become trampolines the runtime never
// frees, so each should be registered once per process.
type System struct{}

// NewSystem returns the OS facade.
func NewSystem() *System {
	return &System{}
}

// ModuleHandle returns the instance handle of the running executable.
func (s *System) ModuleHandle() (HINSTANCE, error) {
	var h windows.Handle
	if err := windows.GetModuleHandleEx(0, nil, &h); err != nil {
		return 0, fmt.Errorf("GetModuleHandleEx: %w", err)
	}
	return HINSTANCE(h), nil
}

// RegisterClass registers a window class whose window procedure is proc.
func (s *System) RegisterClass(name string, instance HINSTANCE, proc WndProc) (uint16, error) {
	className, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return 0, err
	}
	wc := wndClass{
		WndProc:    windows.NewCallback(wndProcTrampoline(proc)),
		Instance:   instance,
		Background: windows.Handle(COLOR_WINDOW + 1),
		ClassName:  className,
	}
	r, _, e := procRegisterClassW.Call(uintptr(unsafe.Pointer(&wc)))
	if r == 0 {
		return 0, fmt.Errorf("RegisterClassW(%s): %w", name, e)
	}
	return uint16(r), nil
}

// UnregisterClass removes a class registered by RegisterClass.
func (s *System) UnregisterClass(name string, instance HINSTANCE) error {
	className, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return err
	}
	r, _, e := procUnregisterClassW.Call(uintptr(unsafe.Pointer(className)), uintptr(instance))
	if r == 0 {
		return fmt.Errorf("UnregisterClassW(%s): %w", name, e)
	}
	return nil
}

// CreateWindow creates a top-level window of the given class at the default
// position. param is handed to the window procedure in CREATESTRUCT.
func (s *System) CreateWindow(class, title string, style uint32, instance HINSTANCE, param uintptr) (HWND, error) {
	className, err := windows.UTF16PtrFromString(class)
	if err != nil {
		return 0, err
	}
	windowName, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return 0, err
	}
	r, _, e := procCreateWindowExW.Call(
		0,
		uintptr(unsafe.Pointer(className)),
		uintptr(unsafe.Pointer(windowName)),
		uintptr(style),
		cwUseDefault, cwUseDefault, cwUseDefault, cwUseDefault,
		0, 0,
		uintptr(instance),
		param,
	)
	if r == 0 {
		return 0, fmt.Errorf("CreateWindowExW(%s): %w", class, e)
	}
	return HWND(r), nil
}

// CreateParams reads lpCreateParams from the CREATESTRUCT passed with WM_CREATE.
func (s *System) CreateParams(lparam uintptr) uintptr {
	if lparam == 0 {
		return 0
	}
	return (*createStruct)(unsafe.Pointer(lparam)).CreateParams
}

func (s *System) DestroyWindow(hwnd HWND) error {
	r, _, e := procDestroyWindow.Call(uintptr(hwnd))
	if r == 0 {
		return fmt.Errorf("DestroyWindow: %w", e)
	}
	return nil
}

// ShowWindow reports whether the window was previously visible.
func (s *System) ShowWindow(hwnd HWND, cmd int32) bool {
	r, _, _ := procShowWindow.Call(uintptr(hwnd), uintptr(cmd))
	return r != 0
}

func (s *System) RegisterShellHookWindow(hwnd HWND) error {
	r, _, e := procRegisterShellHookWindow.Call(uintptr(hwnd))
	if r == 0 {
		return fmt.Errorf("RegisterShellHookWindow: %w", e)
	}
	return nil
}

func (s *System) DeregisterShellHookWindow(hwnd HWND) error {
	r, _, e := procDeregisterShellHookWindow.Call(uintptr(hwnd))
	if r == 0 {
		return fmt.Errorf("DeregisterShellHookWindow: %w", e)
	}
	return nil
}

// RegisterWindowMessage returns the session-wide message code for name.
func (s *System) RegisterWindowMessage(name string) (uint32, error) {
	str, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return 0, err
	}
	r, _, e := procRegisterWindowMessageW.Call(uintptr(unsafe.Pointer(str)))
	if r == 0 {
		return 0, fmt.Errorf("RegisterWindowMessageW(%s): %w", name, e)
	}
	return uint32(r), nil
}

// SetWinEventHook installs proc for events in [eventMin, eventMax]. With
// WINEVENT_OUTOFCONTEXT the callback runs on the installing thread while it
// pumps messages.
func (s *System) SetWinEventHook(eventMin, eventMax uint32, proc WinEventProc, flags uint32) (HWINEVENTHOOK, error) {
	r, _, e := procSetWinEventHook.Call(
		uintptr(eventMin),
		uintptr(eventMax),
		0,
		windows.NewCallback(winEventTrampoline(proc)),
		0, 0,
		uintptr(flags),
	)
	if r == 0 {
		return 0, fmt.Errorf("SetWinEventHook: %w", e)
	}
	return HWINEVENTHOOK(r), nil
}

func (s *System) UnhookWinEvent(hook HWINEVENTHOOK) error {
	r, _, e := procUnhookWinEvent.Call(uintptr(hook))
	if r == 0 {
		return fmt.Errorf("UnhookWinEvent: %w", e)
	}
	return nil
}

// PostMessage queues a message without waiting for it to be processed. Safe
// from any thread.
func (s *System) PostMessage(hwnd HWND, msg uint32, wparam, lparam uintptr) error {
	r, _, e := procPostMessageW.Call(uintptr(hwnd), uintptr(msg), wparam, lparam)
	if r == 0 {
		return fmt.Errorf("PostMessageW: %w", e)
	}
	return nil
}

func (s *System) PostQuitMessage(code int32) {
	procPostQuitMessage.Call(uintptr(code))
}

// GetMessage blocks until a message arrives for the calling thread. It returns
// 0 on WM_QUIT and -1 on failure.
func (s *System) GetMessage(msg *Msg) (int32, error) {
	r, _, e := procGetMessageW.Call(uintptr(unsafe.Pointer(msg)), 0, 0, 0)
	ret := int32(r)
	if ret == -1 {
		return ret, fmt.Errorf("GetMessageW: %w", e)
	}
	return ret, nil
}

func (s *System) TranslateMessage(msg *Msg) bool {
	r, _, _ := procTranslateMessage.Call(uintptr(unsafe.Pointer(msg)))
	return r != 0
}

func (s *System) DispatchMessage(msg *Msg) uintptr {
	r, _, _ := procDispatchMessageW.Call(uintptr(unsafe.Pointer(msg)))
	return r
}

func (s *System) DefWindowProc(hwnd HWND, msg uint32, wparam, lparam uintptr) uintptr {
	r, _, _ := procDefWindowProcW.Call(uintptr(hwnd), uintptr(msg), wparam, lparam)
	return r
}

// IsCloaked reports whether DWM currently hides the window, for example
// because it lives on another virtual desktop.
func (s *System) IsCloaked(hwnd HWND) bool {
	var cloaked uint32
	err := windows.DwmGetWindowAttribute(windows.HWND(hwnd), dwmwaCloaked, unsafe.Pointer(&cloaked), uint32(unsafe.Sizeof(cloaked)))
	return err == nil && cloaked != 0
}

func (s *System) IsIconic(hwnd HWND) bool {
	r, _, _ := procIsIconic.Call(uintptr(hwnd))
	return r != 0
}

func (s *System) IsWindowVisible(hwnd HWND) bool {
	return windows.IsWindowVisible(windows.HWND(hwnd))
}

func (s *System) Parent(hwnd HWND) HWND {
	r, _, _ := procGetParent.Call(uintptr(hwnd))
	return HWND(r)
}

func (s *System) WindowStyle(hwnd HWND) uint32 {
	return s.windowLong(hwnd, gwlStyle)
}

func (s *System) WindowExStyle(hwnd HWND) uint32 {
	return s.windowLong(hwnd, gwlExStyle)
}

// windowLong reads a style word. 32-bit user32 only exports GetWindowLongW.
func (s *System) windowLong(hwnd HWND, index int32) uint32 {
	proc := procGetWindowLongPtrW
	if unsafe.Sizeof(uintptr(0)) == 4 {
		proc = procGetWindowLongW
	}
	r, _, _ := proc.Call(uintptr(hwnd), uintptr(index))
	return uint32(r)
}

// WindowText returns the window title, or "" for untitled windows.
func (s *System) WindowText(hwnd HWND) string {
	n, _, _ := procGetWindowTextLengthW.Call(uintptr(hwnd))
	if n == 0 {
		return ""
	}
	buf := make([]uint16, n+1)
	l, _, _ := procGetWindowTextW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return windows.UTF16ToString(buf[:l])
}

func (s *System) ClassName(hwnd HWND) string {
	buf := make([]uint16, 256)
	n, err := windows.GetClassName(windows.HWND(hwnd), &buf[0], int32(len(buf)))
	if err != nil {
		return ""
	}
	return windows.UTF16ToString(buf[:n])
}

// WorkingArea returns the desktop area not covered by the taskbar. Without a
// visible taskbar the whole virtual screen is used.
func (s *System) WorkingArea() (Rect, error) {
	tray, err := windows.UTF16PtrFromString("Shell_TrayWnd")
	if err != nil {
		return Rect{}, err
	}
	taskbar, _, _ := procFindWindowW.Call(uintptr(unsafe.Pointer(tray)), 0)
	if taskbar != 0 && s.IsWindowVisible(HWND(taskbar)) {
		var wa rect
		r, _, e := procSystemParametersInfoW.Call(spiGetWorkArea, 0, uintptr(unsafe.Pointer(&wa)), 0)
		if r == 0 {
			return Rect{}, fmt.Errorf("SystemParametersInfoW(SPI_GETWORKAREA): %w", e)
		}
		return Rect{
			X:      int(wa.Left),
			Y:      int(wa.Top),
			Width:  int(wa.Right - wa.Left),
			Height: int(wa.Bottom - wa.Top),
		}, nil
	}
	return Rect{
		X:      systemMetric(smXVirtualScreen),
		Y:      systemMetric(smYVirtualScreen),
		Width:  systemMetric(smCXVirtualScreen),
		Height: systemMetric(smCYVirtualScreen),
	}, nil
}

func systemMetric(index int32) int {
	r, _, _ := procGetSystemMetrics.Call(uintptr(index))
	return int(int32(r))
}

// SetWindowPos moves and resizes hwnd without activating it.
func (s *System) SetWindowPos(hwnd HWND, r Rect) error {
	ret, _, e := procSetWindowPos.Call(
		uintptr(hwnd),
		hwndTop,
		uintptr(r.X), uintptr(r.Y), uintptr(r.Width), uintptr(r.Height),
		SWP_NOACTIVATE,
	)
	if ret == 0 {
		return fmt.Errorf("SetWindowPos: %w", e)
	}
	return nil
}

var (
	enumMu       sync.Mutex
	enumVisit    func(HWND) bool
	enumCallback = windows.NewCallback(func(hwnd, _ uintptr) uintptr {
		if enumVisit(HWND(hwnd)) {
			return 1
		}
		return 0
	})
)

// EnumWindows calls visit for each top-level window until visit returns false.
func (s *System) EnumWindows(visit func(HWND) bool) error {
	enumMu.Lock()
	defer enumMu.Unlock()

	stopped := false
	enumVisit = func(h HWND) bool {
		if visit(h) {
			return true
		}
		stopped = true
		return false
	}
	defer func() { enumVisit = nil }()

	if err := windows.EnumWindows(enumCallback, nil); err != nil && !stopped {
		return fmt.Errorf("EnumWindows: %w", err)
	}
	return nil
}

func wndProcTrampoline(proc WndProc) func(hwnd, msg, wparam, lparam uintptr) uintptr {
	return func(hwnd, msg, wparam, lparam uintptr) uintptr {
		return proc(HWND(hwnd), uint32(msg), wparam, lparam)
	}
}

// winEventTrampoline adapts the raw WINEVENTPROC ABI. idObject and idChild are
// LONGs, so they are narrowed before the sign is interpreted.
func winEventTrampoline(proc WinEventProc) func(hook, event, hwnd, idObject, idChild, thread, ts uintptr) uintptr {
	return func(_, event, hwnd, idObject, idChild, _, _ uintptr) uintptr {
		proc(WinEvent{
			Event:  uint32(event),
			HWND:   HWND(hwnd),
			Object: int32(idObject),
			Child:  int32(idChild),
		})
		return 0
	}
}
