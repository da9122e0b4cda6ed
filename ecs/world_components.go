package ecs

import "github.com/milk9111/skirmish/component"

// Names returns the name storage.
func (w *World) Names() *SparseSet[string] {
	if w == nil {
		return nil
	}
	if w.names == nil {
		w.names = &SparseSet[string]{}
	}
	return w.names
}

// Emitters returns the per-entity emitter storage.
func (w *World) Emitters() *SparseSet[*component.CombatEventEmitter] {
	if w == nil {
		return nil
	}
	if w.emitters == nil {
		w.emitters = &SparseSet[*component.CombatEventEmitter]{}
	}
	return w.emitters
}

// Stats returns the combat stats storage.
func (w *World) Stats() *SparseSet[*component.CombatStats] {
	if w == nil {
		return nil
	}
	if w.stats == nil {
		w.stats = &SparseSet[*component.CombatStats]{}
	}
	return w.stats
}

// Effects returns the status effect registry storage.
func (w *World) Effects() *SparseSet[*component.StatusEffectRegistry] {
	if w == nil {
		return nil
	}
	if w.effects == nil {
		w.effects = &SparseSet[*component.StatusEffectRegistry]{}
	}
	return w.effects
}

// Hitboxes returns the attack hitbox storage.
func (w *World) Hitboxes() *SparseSet[*component.Hitbox] {
	if w == nil {
		return nil
	}
	if w.hitboxes == nil {
		w.hitboxes = &SparseSet[*component.Hitbox]{}
	}
	return w.hitboxes
}

// Hurtboxes returns the hurtbox list storage.
func (w *World) Hurtboxes() *SparseSet[[]*component.Hurtbox] {
	if w == nil {
		return nil
	}
	if w.hurtboxes == nil {
		w.hurtboxes = &SparseSet[[]*component.Hurtbox]{}
	}
	return w.hurtboxes
}

// Knockbacks returns the knockback integrator storage.
func (w *World) Knockbacks() *SparseSet[*component.Knockback] {
	if w == nil {
		return nil
	}
	if w.knockbacks == nil {
		w.knockbacks = &SparseSet[*component.Knockback]{}
	}
	return w.knockbacks
}

// Attacks returns the attack lifecycle storage.
func (w *World) Attacks() *SparseSet[*component.AttackLifecycle] {
	if w == nil {
		return nil
	}
	if w.attacks == nil {
		w.attacks = &SparseSet[*component.AttackLifecycle]{}
	}
	return w.attacks
}

// Actors returns the actor state machine storage.
func (w *World) Actors() *SparseSet[*component.Actor] {
	if w == nil {
		return nil
	}
	if w.actors == nil {
		w.actors = &SparseSet[*component.Actor]{}
	}
	return w.actors
}

// Intents returns the input intent storage.
func (w *World) Intents() *SparseSet[*component.Intent] {
	if w == nil {
		return nil
	}
	if w.intents == nil {
		w.intents = &SparseSet[*component.Intent]{}
	}
	return w.intents
}

// Bodies returns the physics body storage.
func (w *World) Bodies() *SparseSet[*Body] {
	if w == nil {
		return nil
	}
	if w.bodies == nil {
		w.bodies = &SparseSet[*Body]{}
	}
	return w.bodies
}
