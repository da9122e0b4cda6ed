package system

import (
	"github.com/milk9111/skirmish/component"
	"github.com/milk9111/skirmish/ecs"
)

// ActorSystem feeds intents into actor state machines. Attack lifecycles
// without an actor (traps, hazards) are ticked directly. Hitbox shapes are
// synced afterwards so the physics step sees this tick's attack volumes.
type ActorSystem struct{}

func NewActorSystem() *ActorSystem {
	return &ActorSystem{}
}

func (s *ActorSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Dt()

	ecs.Each(w.Actors(), func(e ecs.Entity, actor *component.Actor) {
		var in component.Intent
		if intent := ecs.Lookup(w.Intents(), e); intent != nil {
			in = *intent
		}
		actor.Update(dt, in)
	})

	ecs.Each(w.Attacks(), func(e ecs.Entity, lc *component.AttackLifecycle) {
		if w.Actors().Has(e) {
			return
		}
		lc.Tick(dt)
	})

	pw := w.PhysicsWorld()
	ecs.Each(w.Hitboxes(), func(e ecs.Entity, hb *component.Hitbox) {
		pw.SyncHitbox(hb)
	})
}
