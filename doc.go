// Package danmaku animates a stream of scrolling overlay captions across a
// bounded surface, keeping every caption in a horizontal track so that
// captions moving at the same time never overlap.
//
// The package is headless. Drawing goes through the [Surface] and [Node]
// interfaces; [Stage] is an in-memory surface whose transitions are
// linear [gween] tweens, and the ebitenview and termview packages draw a
// Stage with [Ebitengine] or [tcell].
//
// # Quick start
//
//	tl := danmaku.NewTimeline()
//	stage := danmaku.NewStage(640, 360, nil)
//	tl.OnFrame(stage.Update)
//
//	m, err := danmaku.New(danmaku.DefaultConfig(), tl)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := m.Mount(stage); err != nil {
//		log.Fatal(err)
//	}
//	m.Push(danmaku.NewTextCaption("hello", 8*time.Second, danmaku.ToLeft))
//	m.StartRender()
//
//	// once per frame:
//	tl.Advance(dt)
//
// # Timing
//
// There is no background goroutine. The host advances a [Timeline] once per
// frame; the Timeline steps frame listeners such as [Stage.Update] and then
// runs the Manager's launch tick whenever it comes due. Every hook fires
// synchronously on the goroutine calling Advance.
//
// # Tracks and launching
//
// Tracks are laid out from the surface height, [Config.TrackHeight] and
// [Config.MinVerticalGap], centred as a block. Each tick the [Engine] pops
// captions from its queue and gives each the first track whose newest
// caption leaves enough room, as decided by [MayLaunch]. A faster caption
// only launches behind a slower one if the slower one will have left the
// surface before the gap closes.
//
// # Hooks
//
// Every [Item] has its own [ItemHooks]. The [Manager] bridges each launched
// item's hooks onto [ManagerHooks.Item] with [Bridge], and adds aggregate
// events such as [ManagerHooks.ScreenEmpty] (the last live caption left)
// and [ManagerHooks.Finish] (nothing live and nothing queued).
//
// [gween]: https://github.com/tanema/gween
// [Ebitengine]: https://ebitengine.org
// [tcell]: https://github.com/gdamore/tcell
package danmaku
