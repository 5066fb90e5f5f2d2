package ecs

import (
	"testing"
	"time"

	"github.com/phanxgames/danmaku"

	"github.com/yohamta/donburi"
)

func newManager(t *testing.T) (*danmaku.Manager, *danmaku.Timeline) {
	t.Helper()
	tl := danmaku.NewTimeline()
	st := danmaku.NewStage(1000, 300, danmaku.CellMeasurer(10, 20))
	tl.OnFrame(st.Update)
	m, err := danmaku.New(danmaku.DefaultConfig(), tl)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Mount(st); err != nil {
		t.Fatal(err)
	}
	return m, tl
}

func TestAttach_PublishesLifecycleEvents(t *testing.T) {
	world := donburi.NewWorld()
	m, tl := newManager(t)
	mirror := Attach(m, world)
	defer mirror.Detach()

	var received []LifecycleEvent
	LifecycleEventType.Subscribe(world, func(w donburi.World, e LifecycleEvent) {
		received = append(received, e)
	})

	m.Push(danmaku.NewTextCaption("hello", time.Second, danmaku.ToLeft))
	m.StartRender()
	tl.Advance(time.Second)

	// Events are queued until processed.
	LifecycleEventType.ProcessEvents(world)

	names := map[string]int{}
	for _, e := range received {
		names[e.Name]++
	}
	for _, want := range []string{"start", "item_start", "item_end", "item_unmount", "screen_empty", "finish"} {
		if names[want] != 1 {
			t.Errorf("%s published %d times, want 1 (all: %v)", want, names[want], names)
		}
	}
	for _, e := range received {
		if e.Name == "item_start" && e.Text != "hello" {
			t.Errorf("item_start text = %q, want hello", e.Text)
		}
	}
}

func TestAttach_TracksLiveCaptionEntities(t *testing.T) {
	world := donburi.NewWorld()
	m, tl := newManager(t)
	mirror := Attach(m, world)
	defer mirror.Detach()

	m.Push(
		danmaku.NewTextCaption("short", time.Second, danmaku.ToLeft),
		danmaku.NewTextCaption("long", 2*time.Second, danmaku.ToRight),
	)
	m.StartRender()

	if n := Live.Count(world); n != 2 {
		t.Fatalf("live entities = %d, want 2", n)
	}
	var texts []string
	Live.Each(world, func(entry *donburi.Entry) {
		texts = append(texts, Caption.Get(entry).Text)
	})
	if len(texts) != 2 {
		t.Errorf("texts = %v", texts)
	}

	tl.Advance(time.Second)
	if n := Live.Count(world); n != 1 {
		t.Fatalf("live entities = %d after first ends, want 1", n)
	}
	m.Each(func(it *danmaku.Item) {
		e, ok := mirror.Entity(it.ID)
		if !ok {
			t.Fatalf("no entity for item %d", it.ID)
		}
		data := Caption.Get(world.Entry(e))
		if data.Direction != danmaku.ToRight || data.TrackID != it.TrackID() {
			t.Errorf("caption data = %+v", data)
		}
	})

	m.Cancel()
	if n := Live.Count(world); n != 0 {
		t.Errorf("live entities = %d after cancel, want 0", n)
	}
}

func TestMirror_DetachStopsPublishing(t *testing.T) {
	world := donburi.NewWorld()
	m, _ := newManager(t)
	mirror := Attach(m, world)

	count := 0
	LifecycleEventType.Subscribe(world, func(w donburi.World, e LifecycleEvent) {
		count++
	})

	m.Push(danmaku.NewTextCaption("x", time.Second, danmaku.ToLeft))
	m.StartRender()
	mirror.Detach()
	m.StopRender()
	LifecycleEventType.ProcessEvents(world)

	if got := Live.Count(world); got != 0 {
		t.Errorf("live entities = %d after detach, want 0", got)
	}
	// start and item_start were queued before Detach; stop was not.
	if count != 2 {
		t.Errorf("events = %d, want 2", count)
	}
}
