package component

import "github.com/jakecoffman/cp"

// Damageable is anything that can run a damage envelope through its
// pipeline. *CombatStats implements it.
type Damageable interface {
	IsAlive() bool
	ProcessDamage(d *Damage) float64
}

// OverlapQuery reports the hurtboxes currently overlapping a hitbox. The
// physics world implements it.
type OverlapQuery interface {
	Overlapping(hb *Hitbox) []Contact
}

// Contact is one hitbox/hurtbox overlap with the world positions of both
// volumes.
type Contact struct {
	Hurtbox      *Hurtbox
	HitPosition  cp.Vector
	HurtPosition cp.Vector
}
