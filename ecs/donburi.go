// Package ecs provides ECS adapters for strata.
package ecs

import (
	"github.com/phanxgames/strata"
	"github.com/phanxgames/strata/geom"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// ScrollEventType is the Donburi event type for compositor scroll events.
// Subscribe to this in your ECS systems to react to layers scrolling.
var ScrollEventType = events.NewEventType[strata.ScrollEvent]()

// ScrollState mirrors a compositor layer's scroll offset on an entity.
type ScrollState struct {
	LayerID strata.LayerID
	Offset  geom.Point[float32]
}

// ScrollComponent is the Donburi component holding ScrollState.
var ScrollComponent = donburi.NewComponentType[ScrollState]()

// DonburiSink is a strata.EventSink backed by a Donburi world.
type DonburiSink struct {
	world    donburi.World
	entities map[strata.LayerID]donburi.Entity
}

var _ strata.EventSink = (*DonburiSink)(nil)

// NewDonburiSink creates an EventSink backed by a Donburi world.
// Scroll events are published to ScrollEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) *DonburiSink {
	return &DonburiSink{
		world:    world,
		entities: make(map[strata.LayerID]donburi.Entity),
	}
}

// Bind creates an entity carrying ScrollComponent for the layer id. The
// component is kept in step with the layer's offset as events arrive.
func (s *DonburiSink) Bind(id strata.LayerID) donburi.Entity {
	if e, ok := s.entities[id]; ok && s.world.Valid(e) {
		return e
	}
	e := s.world.Create(ScrollComponent)
	ScrollComponent.Set(s.world.Entry(e), &ScrollState{LayerID: id})
	s.entities[id] = e
	return e
}

// Unbind removes the entity created by Bind for id, if any.
func (s *DonburiSink) Unbind(id strata.LayerID) {
	if e, ok := s.entities[id]; ok {
		if s.world.Valid(e) {
			s.world.Remove(e)
		}
		delete(s.entities, id)
	}
}

// EmitScroll implements strata.EventSink.
func (s *DonburiSink) EmitScroll(event strata.ScrollEvent) {
	if e, ok := s.entities[event.LayerID]; ok && s.world.Valid(e) {
		ScrollComponent.Get(s.world.Entry(e)).Offset = event.Offset
	}
	ScrollEventType.Publish(s.world, event)
}
