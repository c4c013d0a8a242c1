// Package win32 is a thin facade over the user32, kernel32 and dwmapi calls
// grout needs. Every method on System maps onto one OS call; the types and
// constants here build on every platform so callers can be tested off Windows.
package win32

// HWND is a native window handle. Zero is the null window.
type HWND uintptr

// HINSTANCE is a module instance handle.
type HINSTANCE uintptr

// HWINEVENTHOOK identifies an installed WinEvent hook.
type HWINEVENTHOOK uintptr

// Window messages.
const (
	WM_CREATE   = 0x0001
	WM_DESTROY  = 0x0002
	WM_CLOSE    = 0x0010
	WM_QUIT     = 0x0012
	WM_NCCREATE = 0x0081
	WM_APP      = 0x8000
)

// WinEvent constants.
const (
	EVENT_OBJECT_CLOAKED   = 0x8017
	EVENT_OBJECT_UNCLOAKED = 0x8018

	WINEVENT_OUTOFCONTEXT = 0x0000

	OBJID_WINDOW = 0
	OBJID_CURSOR = -9
	CHILDID_SELF = 0
)

// Shell hook codes carried in wParam of the SHELLHOOK message.
const (
	HSHELL_WINDOWCREATED    = 1
	HSHELL_WINDOWDESTROYED  = 2
	HSHELL_WINDOWACTIVATED  = 4
	HSHELL_HIGHBIT          = 0x8000
	HSHELL_RUDEAPPACTIVATED = HSHELL_WINDOWACTIVATED | HSHELL_HIGHBIT
)

// ShellHookMessageName is registered with RegisterWindowMessage to obtain the
// shell hook message code. The code differs between sessions.
const ShellHookMessageName = "SHELLHOOK"

// Window styles.
const (
	WS_OVERLAPPED       = 0x00000000
	WS_CAPTION          = 0x00C00000
	WS_SYSMENU          = 0x00080000
	WS_THICKFRAME       = 0x00040000
	WS_MINIMIZEBOX      = 0x00020000
	WS_MAXIMIZEBOX      = 0x00010000
	WS_OVERLAPPEDWINDOW = WS_OVERLAPPED | WS_CAPTION | WS_SYSMENU | WS_THICKFRAME | WS_MINIMIZEBOX | WS_MAXIMIZEBOX

	WS_EX_TOOLWINDOW = 0x00000080
)

const (
	SW_SHOWMINNOACTIVE = 7

	SWP_NOACTIVATE = 0x0010

	COLOR_WINDOW = 5
)

// Msg mirrors the native MSG structure.
type Msg struct {
	HWnd    HWND
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      Point
	private uint32
}

// Point is a screen coordinate pair.
type Point struct {
	X, Y int32
}

// Rect is a rectangle given by origin and size, not by edges.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// WinEvent is the typed form of a WinEvent hook callback invocation. The
// thread and timestamp arguments are dropped.
type WinEvent struct {
	Event  uint32
	HWND   HWND
	Object int32
	Child  int32
}

// WndProc is a window procedure.
type WndProc func(hwnd HWND, msg uint32, wparam, lparam uintptr) uintptr

// WinEventProc receives WinEvent hook notifications.
type WinEventProc func(ev WinEvent)
