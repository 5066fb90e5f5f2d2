package termview

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/danmaku"
)

func newSimApp(t *testing.T, cols, rows int) (*App, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	screen.SetSize(cols, rows)
	t.Cleanup(screen.Fini)

	app, err := NewApp(screen, DefaultConfig())
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	return app, screen
}

func TestAppLaysOutOneTrackPerRow(t *testing.T) {
	app, _ := newSimApp(t, 40, 5)

	if n := len(app.Manager.Engine().Tracks()); n != 5 {
		t.Errorf("tracks = %d, want 5", n)
	}
}

func TestStepDrawsCaptionAtItsCell(t *testing.T) {
	app, screen := newSimApp(t, 40, 5)
	if err := app.Manager.Push(danmaku.NewTextCaption("hi", time.Second, danmaku.ToLeft)); err != nil {
		t.Fatal(err)
	}
	app.Manager.StartRender()

	// 42 cells in 1s: halfway the caption starts at column 40-21 = 19.
	app.Step(500 * time.Millisecond)

	for i, want := range "hi" {
		got, _, _, _ := screen.GetContent(19+i, 0)
		if got != want {
			t.Errorf("cell (%d, 0) = %q, want %q", 19+i, got, want)
		}
	}
}

func TestDrawSkipsOffscreenCells(t *testing.T) {
	app, screen := newSimApp(t, 10, 1)
	if err := app.Manager.Push(danmaku.NewTextCaption("abcd", time.Second, danmaku.ToLeft)); err != nil {
		t.Fatal(err)
	}
	app.Manager.StartRender()

	app.Step(0)

	for x := range 10 {
		if got, _, _, _ := screen.GetContent(x, 0); got != ' ' {
			t.Errorf("cell (%d, 0) = %q before the caption entered", x, got)
		}
	}
}

func TestStyleFor(t *testing.T) {
	s := StyleFor(danmaku.Style{"color": "red", "background": "#000080", "bold": "true"}, tcell.StyleDefault)

	want := tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.NewHexColor(0x000080)).Bold(true)
	if s != want {
		t.Errorf("style = %v, want %v", s, want)
	}
	if got := StyleFor(danmaku.Style{"color": "nope"}, tcell.StyleDefault); got != tcell.StyleDefault {
		t.Errorf("unknown color changed the style: %v", got)
	}
}

func TestHandleEventTogglesFreezeAndQuits(t *testing.T) {
	app, _ := newSimApp(t, 40, 5)
	app.Manager.StartRender()
	space := tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone)

	if ok, err := app.HandleEvent(space); !ok || err != nil {
		t.Fatalf("HandleEvent = %v, %v", ok, err)
	}
	if app.Manager.State() != danmaku.StateFrozen {
		t.Errorf("state = %s, want frozen", app.Manager.State())
	}
	app.HandleEvent(space)
	if app.Manager.State() != danmaku.StateRendering {
		t.Errorf("state = %s, want rendering", app.Manager.State())
	}

	if ok, _ := app.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)); ok {
		t.Error("escape did not quit")
	}
}

func TestHandleEventResize(t *testing.T) {
	app, screen := newSimApp(t, 40, 5)

	screen.SetSize(60, 8)
	if ok, err := app.HandleEvent(tcell.NewEventResize(60, 8)); !ok || err != nil {
		t.Fatalf("HandleEvent = %v, %v", ok, err)
	}

	if w, h := app.Stage.Size(); w != 60 || h != 8 {
		t.Errorf("stage = (%v, %v), want (60, 8)", w, h)
	}
	if n := len(app.Manager.Engine().Tracks()); n != 8 {
		t.Errorf("tracks = %d, want 8", n)
	}
}
