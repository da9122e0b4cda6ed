package entity

import (
	"github.com/milk9111/skirmish/component"
	"github.com/milk9111/skirmish/ecs"
)

// Refit re-equips every spawned combatant from c, typically after a hot
// reload. Attacks already in flight finish with the definition they started
// with. It returns the number of combatants updated.
func Refit(w *ecs.World, c *Catalog) int {
	if w == nil || c == nil || c.Library == nil {
		return 0
	}
	updated := 0
	ecs.Each(w.Names(), func(e ecs.Entity, name string) {
		spec, ok := c.Library.Combatants[name]
		if !ok {
			c.Logger.WithField("combatant", name).Warn("entity: refit: combatant no longer defined")
			return
		}
		if lc := ecs.Lookup(w.Attacks(), e); lc != nil {
			weapon, err := c.Attack(spec.Weapon)
			if err != nil {
				c.Logger.WithField("combatant", name).WithError(err).Warn("entity: refit: weapon")
			} else {
				lc.Equip(weapon)
			}
		}
		if actor := ecs.Lookup(w.Actors(), e); actor != nil {
			skills := make([]*component.AttackDefinition, 0, len(spec.Skills))
			for _, skill := range spec.Skills {
				if def, err := c.Attack(skill); err == nil {
					skills = append(skills, def)
				}
			}
			actor.Skills = skills
			actor.Config = actorConfig(spec.Actor, c.Defaults.Actor)
		}
		updated++
	})
	return updated
}
