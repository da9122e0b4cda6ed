package component

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/skirmish/common"
)

// Knockback integrates an imposed velocity that decays by Friction per
// second. While active it replaces the owner's locomotion velocity.
type Knockback struct {
	Owner      uint64
	Multiplier float64
	Friction   float64
	Threshold  float64
	Emitter    *CombatEventEmitter

	velocity cp.Vector
	active   bool
}

func NewKnockback(owner uint64, multiplier, friction, threshold float64, emitter *CombatEventEmitter) *Knockback {
	return &Knockback{
		Owner:      owner,
		Multiplier: multiplier,
		Friction:   friction,
		Threshold:  threshold,
		Emitter:    emitter,
	}
}

// ApplyKnockback replaces any current knockback. A zero multiplier makes the
// owner immune, and a velocity at or below Threshold is rejected without
// touching the knockback already running.
func (k *Knockback) ApplyKnockback(dir cp.Vector, force float64) bool {
	if k == nil || k.Multiplier == 0 || force <= 0 {
		return false
	}
	dir = common.NormalizeOr(dir, common.DefaultHitDirection)
	vel := dir.Mult(force * k.Multiplier)
	if vel.Length() <= k.Threshold {
		return false
	}
	k.velocity = vel
	k.active = true
	k.emit(CombatEvent{Type: EventKnockbackStarted, Velocity: k.velocity})
	return true
}

// Tick decelerates the knockback and returns the velocity to drive the body
// with this tick. ok is false when the owner's own locomotion applies.
func (k *Knockback) Tick(dt float64) (vel cp.Vector, ok bool) {
	if k == nil || !k.active {
		return cp.Vector{}, false
	}
	vel = k.velocity

	speed := k.velocity.Length()
	next := math.Max(0, speed-k.Friction*dt)
	if next <= k.Threshold {
		k.stop()
		return vel, true
	}
	k.velocity = k.velocity.Mult(next / speed)
	return vel, true
}

// CancelKnockback zeroes the knockback immediately.
func (k *Knockback) CancelKnockback() {
	if k == nil || !k.active {
		return
	}
	k.stop()
}

func (k *Knockback) Velocity() cp.Vector {
	if k == nil {
		return cp.Vector{}
	}
	return k.velocity
}

func (k *Knockback) IsActive() bool {
	return k != nil && k.active
}

func (k *Knockback) stop() {
	k.velocity = cp.Vector{}
	k.active = false
	k.emit(CombatEvent{Type: EventKnockbackEnded})
}

func (k *Knockback) emit(evt CombatEvent) {
	if k.Emitter == nil {
		return
	}
	if evt.Entity == 0 {
		evt.Entity = k.Owner
	}
	k.Emitter.Emit(evt)
}
