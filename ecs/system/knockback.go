package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/skirmish/ecs"
)

// KnockbackSystem integrates knockback and writes the body velocity for the
// next physics step. An active knockback overrides locomotion.
type KnockbackSystem struct{}

func NewKnockbackSystem() *KnockbackSystem {
	return &KnockbackSystem{}
}

func (s *KnockbackSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Dt()

	ecs.Each(w.Bodies(), func(e ecs.Entity, body *ecs.Body) {
		var vel cp.Vector
		if actor := ecs.Lookup(w.Actors(), e); actor != nil {
			vel = actor.Velocity()
		}
		if kb := ecs.Lookup(w.Knockbacks(), e); kb != nil {
			if kv, ok := kb.Tick(dt); ok {
				vel = kv
			}
		}
		body.SetVelocity(vel)
	})
}
