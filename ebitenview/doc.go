// Package ebitenview draws a [danmaku.Stage] with Ebitengine.
//
// [Renderer] measures and draws caption content with text/v2 and the vector
// package. [Host] is a ready-made [ebiten.Game] that advances a
// [danmaku.Timeline] once per tick, keeps the stage sized to the window and
// draws every live caption:
//
//	r, _ := ebitenview.NewDefaultRenderer(24)
//	host, _ := ebitenview.NewHost(danmaku.DefaultConfig(), r, 960, 540)
//	host.Manager.Push(captions...)
//	host.Manager.StartRender()
//	ebiten.RunGame(host)
//
// Recognised style keys are "color", "outline" and "background", each a
// "#rgb" or "#rrggbb" hex string.
package ebitenview
