package system

import (
	"github.com/milk9111/skirmish/component"
	"github.com/milk9111/skirmish/ecs"
)

// TimerSystem advances every time-based combat counter: invincibility and
// poise regeneration, status effect durations and hit cooldowns.
type TimerSystem struct{}

func NewTimerSystem() *TimerSystem {
	return &TimerSystem{}
}

func (s *TimerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Dt()

	ecs.Each(w.Stats(), func(e ecs.Entity, stats *component.CombatStats) {
		stats.Tick(dt)
	})
	ecs.Each(w.Effects(), func(e ecs.Entity, reg *component.StatusEffectRegistry) {
		reg.Tick(dt)
	})
	ecs.Each(w.Hitboxes(), func(e ecs.Entity, hb *component.Hitbox) {
		hb.Tick(dt)
	})
}
