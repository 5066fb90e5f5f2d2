// Package ecs mirrors a danmaku Manager into a [Donburi] world.
//
// [Attach] publishes every manager and item lifecycle event as a
// [LifecycleEvent] on [LifecycleEventType], and keeps one entity with a
// [Caption] component per live item so ECS systems can query what is on
// screen.
//
// Usage:
//
//	mirror := ecs.Attach(manager, world)
//	defer mirror.Detach()
//
//	ecs.LifecycleEventType.Subscribe(world, onCaptionEvent)
//	// once per frame:
//	ecs.LifecycleEventType.ProcessEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
