package system

import "github.com/milk9111/skirmish/ecs"

// Install adds the combat systems to w in tick order.
func Install(w *ecs.World) {
	if w == nil {
		return
	}
	w.AddSystem(NewTimerSystem())
	w.AddSystem(NewActorSystem())
	w.AddSystem(NewPhysicsSystem())
	w.AddSystem(NewCombatSystem())
	w.AddSystem(NewKnockbackSystem())
}
