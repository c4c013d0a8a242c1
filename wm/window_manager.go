// Package wm is grout's layout engine. It receives the messages of the
// management window, keeps the list of tiled windows in sync with the shell
// and re-tiles them whenever that list changes.
package wm

import (
	"log/slog"
	"slices"

	"github.com/BobdaProgrammer/grout/appwindow"
	"github.com/BobdaProgrammer/grout/internal/win32"
)

// Desktop is the part of the Win32 facade the engine needs.
type Desktop interface {
	DefWindowProc(hwnd win32.HWND, msg uint32, wparam, lparam uintptr) uintptr
	EnumWindows(visit func(win32.HWND) bool) error
	IsWindowVisible(hwnd win32.HWND) bool
	IsIconic(hwnd win32.HWND) bool
	IsCloaked(hwnd win32.HWND) bool
	Parent(hwnd win32.HWND) win32.HWND
	WindowStyle(hwnd win32.HWND) uint32
	WindowExStyle(hwnd win32.HWND) uint32
	WindowText(hwnd win32.HWND) string
	ClassName(hwnd win32.HWND) string
	WorkingArea() (win32.Rect, error)
	SetWindowPos(hwnd win32.HWND, r win32.Rect) error
}

// Options tune the layout.
type Options struct {
	// Gap is the spacing in pixels around and between tiles.
	Gap int
	// IgnoreClasses lists window classes that are never tiled.
	IgnoreClasses []string
}

type WindowManager struct {
	desktop     Desktop
	gap         int
	ignore      map[string]struct{}
	self        win32.HWND
	shellHookID uint32
	clients     []win32.HWND
}

var _ appwindow.Engine = (*WindowManager)(nil)

func New(desktop Desktop, opts Options) *WindowManager {
	ignore := make(map[string]struct{}, len(opts.IgnoreClasses))
	for _, class := range opts.IgnoreClasses {
		ignore[class] = struct{}{}
	}
	return &WindowManager{
		desktop: desktop,
		gap:     max(opts.Gap, 0),
		ignore:  ignore,
	}
}

// Manage records the management window and adopts every top-level window
// that is already open.
func (wm *WindowManager) Manage(hwnd win32.HWND) {
	wm.self = hwnd

	err := wm.desktop.EnumWindows(func(w win32.HWND) bool {
		wm.Frame(w)
		return true
	})
	if err != nil {
		slog.Error("couldn't enumerate existing windows", "error", err)
	}
	slog.Info("adopted existing windows", "count", len(wm.clients))
	wm.Arrange()
}

func (wm *WindowManager) SetShellHookID(id uint32) {
	wm.shellHookID = id
}

// HandleMessage handles shell hook and cloak notifications and leaves
// everything else to DefWindowProc.
func (wm *WindowManager) HandleMessage(hwnd win32.HWND, msg uint32, wparam, lparam uintptr) uintptr {
	if n, ok := appwindow.ParseNotification(msg, lparam); ok {
		wm.OnNotification(n)
		return 0
	}
	if wm.shellHookID != 0 && msg == wm.shellHookID {
		wm.OnShellHook(wparam, win32.HWND(lparam))
		return 0
	}
	return wm.desktop.DefWindowProc(hwnd, msg, wparam, lparam)
}

func (wm *WindowManager) OnShellHook(code uintptr, w win32.HWND) {
	switch code {
	case win32.HSHELL_WINDOWCREATED:
		if wm.Frame(w) {
			wm.Arrange()
		}
	case win32.HSHELL_WINDOWDESTROYED:
		if wm.UnFrame(w) {
			wm.Arrange()
		}
	case win32.HSHELL_WINDOWACTIVATED, win32.HSHELL_RUDEAPPACTIVATED:
		slog.Debug("window activated", "hwnd", w, "managed", wm.IsManaged(w))
	}
}

// OnNotification follows windows leaving and entering the current virtual
// desktop.
func (wm *WindowManager) OnNotification(n appwindow.Notification) {
	changed := false
	switch n.Kind {
	case appwindow.Uncloaked:
		changed = wm.Frame(n.Target)
	case appwindow.Cloaked:
		changed = wm.UnFrame(n.Target)
	}
	slog.Debug("visibility changed", "hwnd", n.Target, "kind", n.Kind, "changed", changed)
	if changed {
		wm.Arrange()
	}
}

// Frame starts tiling w. It reports whether w was added.
func (wm *WindowManager) Frame(w win32.HWND) bool {
	if wm.IsManaged(w) || !wm.manageable(w) {
		return false
	}
	wm.clients = append(wm.clients, w)
	slog.Debug("framed window", "hwnd", w, "title", wm.desktop.WindowText(w))
	return true
}

// UnFrame stops tiling w. It reports whether w was being tiled.
func (wm *WindowManager) UnFrame(w win32.HWND) bool {
	i := slices.Index(wm.clients, w)
	if i < 0 {
		return false
	}
	wm.clients = slices.Delete(wm.clients, i, i+1)
	slog.Debug("unframed window", "hwnd", w)
	return true
}

func (wm *WindowManager) IsManaged(w win32.HWND) bool {
	return slices.Contains(wm.clients, w)
}

// Clients returns the tiled windows in layout order.
func (wm *WindowManager) Clients() []win32.HWND {
	return slices.Clone(wm.clients)
}

func (wm *WindowManager) manageable(w win32.HWND) bool {
	d := wm.desktop
	if w == 0 || w == wm.self {
		return false
	}
	if !d.IsWindowVisible(w) || d.IsIconic(w) || d.IsCloaked(w) {
		return false
	}
	if d.Parent(w) != 0 {
		return false
	}
	if d.WindowStyle(w)&win32.WS_CAPTION != win32.WS_CAPTION {
		return false
	}
	if d.WindowExStyle(w)&win32.WS_EX_TOOLWINDOW != 0 {
		return false
	}
	if d.WindowText(w) == "" {
		return false
	}
	if _, skip := wm.ignore[d.ClassName(w)]; skip {
		return false
	}
	return true
}

// Arrange tiles the managed windows across the working area.
func (wm *WindowManager) Arrange() {
	if len(wm.clients) == 0 {
		return
	}
	area, err := wm.desktop.WorkingArea()
	if err != nil {
		slog.Error("couldn't get working area", "error", err)
		return
	}
	positions, err := Columns(area, len(wm.clients), wm.gap)
	if err != nil {
		slog.Error("couldn't compute layout", "error", err)
		return
	}
	for i, w := range wm.clients {
		if err := wm.desktop.SetWindowPos(w, positions[i]); err != nil {
			slog.Error("couldn't position window", "hwnd", w, "error", err)
		}
	}
}
