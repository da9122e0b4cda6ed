package component

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/skirmish/common"
)

// Facing is one of the four directions an attack volume can be placed in.
type Facing int

const (
	FacingRight Facing = iota
	FacingLeft
	FacingUp
	FacingDown
)

func (f Facing) String() string {
	switch f {
	case FacingRight:
		return "right"
	case FacingLeft:
		return "left"
	case FacingUp:
		return "up"
	case FacingDown:
		return "down"
	default:
		return "unknown"
	}
}

// ParseFacing maps a prefab key to a facing.
func ParseFacing(s string) (Facing, bool) {
	switch s {
	case "right":
		return FacingRight, true
	case "left":
		return FacingLeft, true
	case "up":
		return FacingUp, true
	case "down":
		return FacingDown, true
	}
	return FacingRight, false
}

// FacingFromVector picks the dominant axis of v. Ties favour the horizontal
// axis; a zero vector keeps fallback.
func FacingFromVector(v cp.Vector, fallback Facing) Facing {
	if math.Abs(v.X) < common.Epsilon && math.Abs(v.Y) < common.Epsilon {
		return fallback
	}
	if math.Abs(v.X) >= math.Abs(v.Y) {
		if v.X < 0 {
			return FacingLeft
		}
		return FacingRight
	}
	if v.Y < 0 {
		return FacingUp
	}
	return FacingDown
}

// Vector returns the unit vector for f in screen space (y grows down).
func (f Facing) Vector() cp.Vector {
	switch f {
	case FacingLeft:
		return cp.Vector{X: -1}
	case FacingUp:
		return cp.Vector{Y: -1}
	case FacingDown:
		return cp.Vector{Y: 1}
	default:
		return cp.Vector{X: 1}
	}
}

// AttackDefinition is read-only attack configuration. Phase durations are in
// seconds at Speed 1.
type AttackDefinition struct {
	Name string

	WindUp   float64
	Active   float64
	Recovery float64
	Speed    float64

	Damage      float64
	Kind        DamageKind
	Knockback   float64
	PoiseDamage float64
	CanCrit     bool
	MultiHit    bool
	HitInterval float64
	OnHit       []*StatusEffectTemplate

	Hitboxes map[Facing]common.Rect
}

// HitboxFor returns the geometry for facing, mirroring the right-facing box
// when no left box is configured.
func (d *AttackDefinition) HitboxFor(f Facing) common.Rect {
	if d == nil {
		return common.Rect{}
	}
	if r, ok := d.Hitboxes[f]; ok {
		return r
	}
	if f == FacingLeft {
		if r, ok := d.Hitboxes[FacingRight]; ok {
			return common.Rect{X: -r.X - r.Width, Y: r.Y, Width: r.Width, Height: r.Height}
		}
	}
	return d.Hitboxes[FacingRight]
}

// EffectiveSpeed returns the attack speed multiplier, defaulting to 1.
func (d *AttackDefinition) EffectiveSpeed() float64 {
	if d == nil || d.Speed <= 0 {
		return 1
	}
	return d.Speed
}

// TotalDuration is the wall time from Attack to attack-ended.
func (d *AttackDefinition) TotalDuration() float64 {
	if d == nil {
		return 0
	}
	return (d.WindUp + d.Active + d.Recovery) / d.EffectiveSpeed()
}

// AttackPhase is the lifecycle phase of an attack.
type AttackPhase int

const (
	PhaseNone AttackPhase = iota
	PhaseWindUp
	PhaseActive
	PhaseRecovery
)

func (p AttackPhase) String() string {
	switch p {
	case PhaseNone:
		return "none"
	case PhaseWindUp:
		return "wind_up"
	case PhaseActive:
		return "active"
	case PhaseRecovery:
		return "recovery"
	default:
		return "unknown"
	}
}

// AttackLifecycle sequences WindUp, Active and Recovery and gates the
// hitbox. The definition in use is captured when the attack starts, so
// Equip during an attack only affects the next one.
type AttackLifecycle struct {
	Owner      uint64
	Definition *AttackDefinition
	Hitbox     *Hitbox
	Emitter    *CombatEventEmitter

	phase     AttackPhase
	timer     float64
	current   *AttackDefinition
	direction cp.Vector
	facing    Facing
}

func NewAttackLifecycle(owner uint64, def *AttackDefinition, hitbox *Hitbox, emitter *CombatEventEmitter) *AttackLifecycle {
	return &AttackLifecycle{
		Owner:      owner,
		Definition: def,
		Hitbox:     hitbox,
		Emitter:    emitter,
	}
}

// Equip binds a new default definition.
func (a *AttackLifecycle) Equip(def *AttackDefinition) {
	if a == nil {
		return
	}
	a.Definition = def
}

// Attack starts the bound definition toward dir.
func (a *AttackLifecycle) Attack(dir cp.Vector) bool {
	if a == nil {
		return false
	}
	return a.AttackWith(a.Definition, dir)
}

// AttackWith starts def toward dir. It is rejected mid-attack.
func (a *AttackLifecycle) AttackWith(def *AttackDefinition, dir cp.Vector) bool {
	if a == nil || def == nil || a.phase != PhaseNone {
		return false
	}
	a.current = def
	a.direction = common.NormalizeOr(dir, FacingRight.Vector())
	a.facing = FacingFromVector(a.direction, FacingRight)
	if a.Hitbox != nil {
		a.Hitbox.Deactivate()
		a.Hitbox.Configure(def, a.facing)
	}
	a.enter(PhaseWindUp, def.WindUp)
	return true
}

// Tick advances the phase timer by dt scaled by the attack speed. Time left
// over when a phase ends carries into the next one.
func (a *AttackLifecycle) Tick(dt float64) {
	if a == nil || a.phase == PhaseNone || dt <= 0 {
		return
	}
	a.timer -= dt * a.current.EffectiveSpeed()
	for a.phase != PhaseNone && a.timer <= common.Epsilon {
		carry := a.timer
		switch a.phase {
		case PhaseWindUp:
			a.enter(PhaseActive, a.current.Active+carry)
			if a.Hitbox != nil {
				a.Hitbox.Activate()
				a.Hitbox.CheckHitsNow()
			}
		case PhaseActive:
			if a.Hitbox != nil {
				a.Hitbox.Deactivate()
			}
			a.enter(PhaseRecovery, a.current.Recovery+carry)
		case PhaseRecovery:
			name := a.current.Name
			a.reset()
			a.emit(CombatEvent{Type: EventAttackPhase, Phase: PhaseNone, Attack: name})
			a.emit(CombatEvent{Type: EventAttackEnded, Attack: name})
		}
	}
}

// Cancel disables the hitbox and returns to None immediately.
func (a *AttackLifecycle) Cancel() {
	if a == nil {
		return
	}
	if a.Hitbox != nil {
		a.Hitbox.Deactivate()
	}
	if a.phase == PhaseNone {
		return
	}
	name := a.current.Name
	a.reset()
	a.emit(CombatEvent{Type: EventAttackCancelled, Attack: name})
}

func (a *AttackLifecycle) Phase() AttackPhase {
	if a == nil {
		return PhaseNone
	}
	return a.phase
}

func (a *AttackLifecycle) IsAttacking() bool {
	return a != nil && a.phase != PhaseNone
}

// Current returns the definition of the attack in flight, if any.
func (a *AttackLifecycle) Current() *AttackDefinition {
	if a == nil {
		return nil
	}
	return a.current
}

// Remaining returns the time left in the current phase, in scaled seconds.
func (a *AttackLifecycle) Remaining() float64 {
	if a == nil {
		return 0
	}
	return a.timer
}

func (a *AttackLifecycle) Direction() cp.Vector {
	if a == nil {
		return cp.Vector{}
	}
	return a.direction
}

func (a *AttackLifecycle) Facing() Facing {
	if a == nil {
		return FacingRight
	}
	return a.facing
}

func (a *AttackLifecycle) enter(phase AttackPhase, duration float64) {
	a.phase = phase
	a.timer = duration
	a.emit(CombatEvent{Type: EventAttackPhase, Phase: phase, Attack: a.current.Name})
}

func (a *AttackLifecycle) reset() {
	a.phase = PhaseNone
	a.timer = 0
	a.current = nil
}

func (a *AttackLifecycle) emit(evt CombatEvent) {
	if a.Emitter == nil {
		return
	}
	if evt.Entity == 0 {
		evt.Entity = a.Owner
	}
	a.Emitter.Emit(evt)
}
