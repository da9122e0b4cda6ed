package component

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/skirmish/common"
)

// permanentHit marks a target that may not be struck again until the hitbox
// is re-activated.
const permanentHit = math.MaxFloat64

// Hurtbox is a defensive volume. Target is nil for entities that cannot be
// damaged; overlaps with such a hurtbox have no effect.
type Hurtbox struct {
	ID      int
	Owner   uint64
	Active  bool
	Rect    common.Rect
	Target  Damageable
	Effects EffectTarget
}

// Hitbox is an offensive volume together with the attack parameters copied
// onto it when the attack started.
type Hitbox struct {
	ID    int
	Owner uint64
	Rect  common.Rect

	Amount      float64
	Kind        DamageKind
	Knockback   float64
	PoiseDamage float64
	CanCrit     bool
	MultiHit    bool
	HitInterval float64
	OnHit       []*StatusEffectTemplate

	Query   OverlapQuery
	Emitter *CombatEventEmitter

	active     bool
	hitTargets map[uint64]float64
}

// Configure copies the damage parameters and the facing's geometry from def.
func (h *Hitbox) Configure(def *AttackDefinition, facing Facing) {
	if h == nil || def == nil {
		return
	}
	h.Amount = def.Damage
	h.Kind = def.Kind
	h.Knockback = def.Knockback
	h.PoiseDamage = def.PoiseDamage
	h.CanCrit = def.CanCrit
	h.MultiHit = def.MultiHit
	h.HitInterval = def.HitInterval
	h.OnHit = def.OnHit
	h.Rect = def.HitboxFor(facing)
}

// Activate clears hit memory and enables overlap checks.
func (h *Hitbox) Activate() {
	if h == nil {
		return
	}
	h.hitTargets = make(map[uint64]float64)
	h.active = true
}

// Deactivate disables overlap checks. Hit memory is kept until the next
// Activate.
func (h *Hitbox) Deactivate() {
	if h == nil {
		return
	}
	h.active = false
}

func (h *Hitbox) IsActive() bool {
	return h != nil && h.active
}

// HasHit reports whether target is currently blocked by hit memory.
func (h *Hitbox) HasHit(target uint64) bool {
	if h == nil {
		return false
	}
	remaining, ok := h.hitTargets[target]
	return ok && remaining > 0
}

// OnOverlap resolves one overlap and reports whether a hit registered.
func (h *Hitbox) OnOverlap(c Contact) bool {
	if h == nil || !h.active {
		return false
	}
	hurt := c.Hurtbox
	if hurt == nil || !hurt.Active || hurt.Owner == h.Owner {
		return false
	}
	if remaining, ok := h.hitTargets[hurt.Owner]; ok {
		if !h.MultiHit || remaining > 0 {
			return false
		}
	}
	if hurt.Target == nil {
		return false
	}

	dir := common.NormalizeOr(c.HurtPosition.Sub(c.HitPosition), common.DefaultHitDirection)
	env := &Damage{
		Amount:      h.Amount,
		Kind:        h.Kind,
		Source:      h.Owner,
		Direction:   dir,
		Knockback:   h.Knockback,
		PoiseDamage: h.PoiseDamage,
		CanCrit:     h.CanCrit,
	}
	dealt := hurt.Target.ProcessDamage(env)
	if dealt <= 0 {
		return false
	}

	if h.hitTargets == nil {
		h.hitTargets = make(map[uint64]float64)
	}
	if h.MultiHit && h.HitInterval > 0 {
		h.hitTargets[hurt.Owner] = h.HitInterval
	} else if h.MultiHit {
		h.hitTargets[hurt.Owner] = 0
	} else {
		h.hitTargets[hurt.Owner] = permanentHit
	}

	if hurt.Effects != nil && hurt.Target.IsAlive() {
		for _, t := range h.OnHit {
			hurt.Effects.ApplyEffect(t)
		}
	}

	if h.Emitter != nil {
		h.Emitter.Emit(CombatEvent{
			Type:   EventHitConfirmed,
			Entity: h.Owner,
			Target: hurt.Owner,
			Amount: dealt,
			Damage: *env,
		})
	}
	return true
}

// CheckHitsNow resolves every hurtbox already inside the hitbox. Overlap
// providers only report new contacts, so this covers targets that were
// inside before activation.
func (h *Hitbox) CheckHitsNow() int {
	if h == nil || !h.active || h.Query == nil {
		return 0
	}
	hits := 0
	for _, c := range h.Query.Overlapping(h) {
		if h.OnOverlap(c) {
			hits++
		}
	}
	return hits
}

// Tick counts multi-hit cooldowns down. Permanent entries are left alone.
func (h *Hitbox) Tick(dt float64) {
	if h == nil || dt <= 0 {
		return
	}
	for id, remaining := range h.hitTargets {
		if remaining == permanentHit || remaining <= 0 {
			continue
		}
		remaining -= dt
		if remaining <= common.Epsilon {
			remaining = 0
		}
		h.hitTargets[id] = remaining
	}
}

// Center returns the hitbox centre in the owner's local space.
func (h *Hitbox) Center() cp.Vector {
	if h == nil {
		return cp.Vector{}
	}
	return h.Rect.Center()
}
