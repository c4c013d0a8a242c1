package appwindow

import (
	"github.com/BobdaProgrammer/grout/internal/win32"
)

// Application messages posted to the management window when another window
// is cloaked or uncloaked. The affected handle travels in lParam.
const (
	MsgCloaked   = win32.WM_APP + 1
	MsgUncloaked = win32.WM_APP + 2
)

// Kind tells cloak from uncloak.
type Kind uint8

const (
	Uncloaked Kind = iota + 1
	Cloaked
)

func (k Kind) String() string {
	switch k {
	case Uncloaked:
		return "uncloaked"
	case Cloaked:
		return "cloaked"
	default:
		return "unknown"
	}
}

// Message returns the application message that carries k.
func (k Kind) Message() uint32 {
	switch k {
	case Uncloaked:
		return MsgUncloaked
	case Cloaked:
		return MsgCloaked
	default:
		return 0
	}
}

// Notification is a visibility change of one top-level window.
type Notification struct {
	Kind   Kind
	Target win32.HWND
}

// ParseNotification decodes a message posted by the event hook. ok is false
// for any other message.
func ParseNotification(msg uint32, lparam uintptr) (n Notification, ok bool) {
	switch msg {
	case MsgUncloaked:
		return Notification{Kind: Uncloaked, Target: win32.HWND(lparam)}, true
	case MsgCloaked:
		return Notification{Kind: Cloaked, Target: win32.HWND(lparam)}, true
	default:
		return Notification{}, false
	}
}

// classify keeps events about whole top-level windows and drops those about
// child objects, carets, cursors and the like.
func classify(ev win32.WinEvent) (Notification, bool) {
	if ev.Object != win32.OBJID_WINDOW || ev.Child != win32.CHILDID_SELF || ev.HWND == 0 {
		return Notification{}, false
	}
	switch ev.Event {
	case win32.EVENT_OBJECT_UNCLOAKED:
		return Notification{Kind: Uncloaked, Target: ev.HWND}, true
	case win32.EVENT_OBJECT_CLOAKED:
		return Notification{Kind: Cloaked, Target: ev.HWND}, true
	default:
		return Notification{}, false
	}
}

// bridge is installed as the WinEvent hook. It runs on the pump thread in the
// middle of GetMessage, so it only posts; the engine sees the notification
// when the message is dequeued.
type bridge struct {
	sys OS
}

func (b bridge) onWinEvent(ev win32.WinEvent) {
	n, ok := classify(ev)
	if !ok {
		return
	}
	target := singleton.load()
	if target == 0 {
		return
	}
	// Dropped when the queue is full.
	_ = b.sys.PostMessage(target, n.Kind.Message(), 0, uintptr(n.Target))
}
