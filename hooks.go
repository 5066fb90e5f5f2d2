package danmaku

import "fmt"

// Subscription identifies one callback tapped on a Hook.
type Subscription uint64

type subscriber[T any] struct {
	id   Subscription
	fn   func(T)
	once bool
}

// Hook is a synchronous publish/subscribe point carrying a payload of type T.
// The zero value is ready to use. Hooks are not safe for concurrent use.
type Hook[T any] struct {
	subs []subscriber[T]
	next Subscription
}

// Tap registers fn and returns a handle for Untap.
func (h *Hook[T]) Tap(fn func(T)) Subscription {
	return h.add(fn, false)
}

// Once registers fn to run on the next Emit only.
func (h *Hook[T]) Once(fn func(T)) Subscription {
	return h.add(fn, true)
}

func (h *Hook[T]) add(fn func(T), once bool) Subscription {
	if fn == nil {
		panic("danmaku: cannot tap nil callback")
	}
	h.next++
	h.subs = append(h.subs, subscriber[T]{id: h.next, fn: fn, once: once})
	return h.next
}

// Untap removes the callback registered under s. Unknown handles are ignored.
func (h *Hook[T]) Untap(s Subscription) {
	for i, sub := range h.subs {
		if sub.id == s {
			h.subs = append(h.subs[:i:i], h.subs[i+1:]...)
			return
		}
	}
}

// Emit calls every registered callback in registration order. Callbacks
// tapped or untapped during Emit take effect from the next Emit.
func (h *Hook[T]) Emit(v T) {
	if len(h.subs) == 0 {
		return
	}
	snapshot := make([]subscriber[T], len(h.subs))
	copy(snapshot, h.subs)
	for _, sub := range snapshot {
		if sub.once {
			h.Untap(sub.id)
		}
		sub.fn(v)
	}
}

// Len returns the number of registered callbacks.
func (h *Hook[T]) Len() int {
	return len(h.subs)
}

// ItemEvent names one per-item lifecycle event.
type ItemEvent uint8

const (
	EventStart   ItemEvent = iota // item began moving
	EventEnd                      // item finished or was force-ended
	EventPause                    // item froze in place
	EventResume                   // item continued after a pause
	EventCancel                   // item was aborted
	EventMount                    // item's node was attached to a surface
	EventUnmount                  // item's node was removed
	EventFormat                   // item measured itself on first mount
	EventResize                   // item re-measured after a surface resize
)

var itemEvents = []ItemEvent{
	EventStart, EventEnd, EventPause, EventResume, EventCancel,
	EventMount, EventUnmount, EventFormat, EventResize,
}

// ItemEvents returns every per-item event in declaration order.
func ItemEvents() []ItemEvent {
	return append([]ItemEvent(nil), itemEvents...)
}

// String returns the event name.
func (e ItemEvent) String() string {
	switch e {
	case EventStart:
		return "start"
	case EventEnd:
		return "end"
	case EventPause:
		return "pause"
	case EventResume:
		return "resume"
	case EventCancel:
		return "cancel"
	case EventMount:
		return "mount"
	case EventUnmount:
		return "unmount"
	case EventFormat:
		return "format"
	case EventResize:
		return "resize"
	default:
		return fmt.Sprintf("ItemEvent(%d)", uint8(e))
	}
}

// ItemHooks is the registry of per-item lifecycle events.
type ItemHooks struct {
	Start   Hook[*Item]
	End     Hook[*Item]
	Pause   Hook[*Item]
	Resume  Hook[*Item]
	Cancel  Hook[*Item]
	Mount   Hook[*Item]
	Unmount Hook[*Item]
	Format  Hook[*Item]
	Resize  Hook[*Item]
}

// Hook returns the hook for e.
func (h *ItemHooks) Hook(e ItemEvent) *Hook[*Item] {
	switch e {
	case EventStart:
		return &h.Start
	case EventEnd:
		return &h.End
	case EventPause:
		return &h.Pause
	case EventResume:
		return &h.Resume
	case EventCancel:
		return &h.Cancel
	case EventMount:
		return &h.Mount
	case EventUnmount:
		return &h.Unmount
	case EventFormat:
		return &h.Format
	case EventResize:
		return &h.Resize
	default:
		panic(fmt.Sprintf("danmaku: unexpected item event %d", uint8(e)))
	}
}

// ItemPlugin bundles optional per-item callbacks. Nil fields are skipped.
type ItemPlugin struct {
	Start   func(*Item)
	End     func(*Item)
	Pause   func(*Item)
	Resume  func(*Item)
	Cancel  func(*Item)
	Mount   func(*Item)
	Unmount func(*Item)
	Format  func(*Item)
	Resize  func(*Item)
}

// Use taps every non-nil callback of p.
func (h *ItemHooks) Use(p ItemPlugin) {
	for _, pair := range []struct {
		hook *Hook[*Item]
		fn   func(*Item)
	}{
		{&h.Start, p.Start},
		{&h.End, p.End},
		{&h.Pause, p.Pause},
		{&h.Resume, p.Resume},
		{&h.Cancel, p.Cancel},
		{&h.Mount, p.Mount},
		{&h.Unmount, p.Unmount},
		{&h.Format, p.Format},
		{&h.Resize, p.Resize},
	} {
		if pair.fn != nil {
			pair.hook.Tap(pair.fn)
		}
	}
}

// Bridge forwards every event fired on src to the same event on dst and
// returns the subscriptions made on src, in ItemEvents order.
func Bridge(src, dst *ItemHooks) []Subscription {
	subs := make([]Subscription, 0, len(itemEvents))
	for _, e := range itemEvents {
		subs = append(subs, src.Hook(e).Tap(dst.Hook(e).Emit))
	}
	return subs
}

// ManagerHooks is the aggregate registry owned by a Manager. Item mirrors
// every per-item event of every launched item.
type ManagerHooks struct {
	Item ItemHooks

	Start       Hook[*Manager]
	Stop        Hook[*Manager]
	Cancel      Hook[*Manager]
	Freeze      Hook[*Manager]
	Unfreeze    Hook[*Manager]
	Format      Hook[*Manager]
	Resize      Hook[*Manager]
	Finish      Hook[*Manager]
	ScreenEmpty Hook[*Manager]

	Mount   Hook[Surface]
	Unmount Hook[Surface]
}

// ManagerPlugin bundles optional aggregate callbacks. Nil fields are skipped.
type ManagerPlugin struct {
	Item ItemPlugin

	Start       func(*Manager)
	Stop        func(*Manager)
	Cancel      func(*Manager)
	Freeze      func(*Manager)
	Unfreeze    func(*Manager)
	Format      func(*Manager)
	Resize      func(*Manager)
	Finish      func(*Manager)
	ScreenEmpty func(*Manager)

	Mount   func(Surface)
	Unmount func(Surface)
}

// Use taps every non-nil callback of p.
func (h *ManagerHooks) Use(p ManagerPlugin) {
	h.Item.Use(p.Item)
	for _, pair := range []struct {
		hook *Hook[*Manager]
		fn   func(*Manager)
	}{
		{&h.Start, p.Start},
		{&h.Stop, p.Stop},
		{&h.Cancel, p.Cancel},
		{&h.Freeze, p.Freeze},
		{&h.Unfreeze, p.Unfreeze},
		{&h.Format, p.Format},
		{&h.Resize, p.Resize},
		{&h.Finish, p.Finish},
		{&h.ScreenEmpty, p.ScreenEmpty},
	} {
		if pair.fn != nil {
			pair.hook.Tap(pair.fn)
		}
	}
	if p.Mount != nil {
		h.Mount.Tap(p.Mount)
	}
	if p.Unmount != nil {
		h.Unmount.Tap(p.Unmount)
	}
}
