package system

import "github.com/milk9111/skirmish/ecs"

// PhysicsSystem steps the chipmunk space. Hitbox/hurtbox begin contacts land
// on the world event queue for CombatSystem.
type PhysicsSystem struct{}

func NewPhysicsSystem() *PhysicsSystem {
	return &PhysicsSystem{}
}

func (s *PhysicsSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	w.PhysicsWorld().Step(w.Dt())
}
