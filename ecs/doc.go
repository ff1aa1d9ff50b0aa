// Package ecs provides ECS adapters for strata's scroll events.
//
// The primary adapter is [NewDonburiSink], which bridges compositor layer
// scroll events into a [Donburi] world as typed events. Subscribe to
// [ScrollEventType] in your ECS systems to receive them, or [DonburiSink.Bind]
// a layer to keep a [ScrollComponent] in step with its offset.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	root.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
