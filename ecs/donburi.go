// Package ecs provides ECS adapters for danmaku.
package ecs

import (
	"github.com/phanxgames/danmaku"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// LifecycleEvent is one manager or item lifecycle event. Item is zero for
// manager events.
type LifecycleEvent struct {
	Name    string
	Item    uint32
	Text    string
	TrackID danmaku.TrackID
}

// LifecycleEventType is the Donburi event type for danmaku lifecycle events.
var LifecycleEventType = events.NewEventType[LifecycleEvent]()

// CaptionData describes a live caption.
type CaptionData struct {
	Item      uint32
	Text      string
	TrackID   danmaku.TrackID
	Direction danmaku.Direction
}

// Caption is the component carried by one entity per live caption.
var Caption = donburi.NewComponentType[CaptionData]()

// Live matches every live caption entity.
var Live = donburi.NewQuery(filter.Contains(Caption))

// Mirror forwards a manager's hooks into a world until Detach.
type Mirror struct {
	world    donburi.World
	entities map[uint32]donburi.Entity
	untap    []func()
}

// Attach starts mirroring m into world.
func Attach(m *danmaku.Manager, world donburi.World) *Mirror {
	mr := &Mirror{world: world, entities: make(map[uint32]donburi.Entity)}
	h := m.Hooks()

	for name, hook := range map[string]*danmaku.Hook[*danmaku.Manager]{
		"start":        &h.Start,
		"stop":         &h.Stop,
		"cancel":       &h.Cancel,
		"freeze":       &h.Freeze,
		"unfreeze":     &h.Unfreeze,
		"format":       &h.Format,
		"resize":       &h.Resize,
		"finish":       &h.Finish,
		"screen_empty": &h.ScreenEmpty,
	} {
		sub := hook.Tap(func(*danmaku.Manager) {
			LifecycleEventType.Publish(mr.world, LifecycleEvent{Name: name})
		})
		mr.untap = append(mr.untap, func() { hook.Untap(sub) })
	}

	for _, ev := range danmaku.ItemEvents() {
		hook := h.Item.Hook(ev)
		name := "item_" + ev.String()
		sub := hook.Tap(func(it *danmaku.Item) {
			mr.onItem(ev, it)
			LifecycleEventType.Publish(mr.world, LifecycleEvent{
				Name:    name,
				Item:    it.ID,
				Text:    danmaku.PlainText(it.Caption().Content),
				TrackID: it.TrackID(),
			})
		})
		mr.untap = append(mr.untap, func() { hook.Untap(sub) })
	}
	return mr
}

func (mr *Mirror) onItem(ev danmaku.ItemEvent, it *danmaku.Item) {
	switch ev {
	case danmaku.EventStart:
		e := mr.world.Create(Caption)
		Caption.SetValue(mr.world.Entry(e), CaptionData{
			Item:      it.ID,
			Text:      danmaku.PlainText(it.Caption().Content),
			TrackID:   it.TrackID(),
			Direction: it.Direction(),
		})
		mr.entities[it.ID] = e
	case danmaku.EventEnd, danmaku.EventCancel:
		mr.remove(it.ID)
	}
}

func (mr *Mirror) remove(id uint32) {
	e, ok := mr.entities[id]
	if !ok {
		return
	}
	delete(mr.entities, id)
	if mr.world.Valid(e) {
		mr.world.Remove(e)
	}
}

// Entity returns the entity of a live item.
func (mr *Mirror) Entity(item uint32) (donburi.Entity, bool) {
	e, ok := mr.entities[item]
	return e, ok
}

// Detach stops mirroring and removes every caption entity it created.
func (mr *Mirror) Detach() {
	for _, fn := range mr.untap {
		fn()
	}
	mr.untap = nil
	for id := range mr.entities {
		mr.remove(id)
	}
}
