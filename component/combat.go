package component

import (
	"strings"

	"github.com/jakecoffman/cp"
)

// DamageKind identifies the element of a damage event for resistance lookups.
type DamageKind int

const (
	DamagePhysical DamageKind = iota
	DamageFire
	DamageIce
	DamageLightning
	DamagePoison
	DamageHoly
	DamageDark
	DamageTrue
)

var damageKindNames = [...]string{
	DamagePhysical:  "physical",
	DamageFire:      "fire",
	DamageIce:       "ice",
	DamageLightning: "lightning",
	DamagePoison:    "poison",
	DamageHoly:      "holy",
	DamageDark:      "dark",
	DamageTrue:      "true",
}

func (k DamageKind) String() string {
	if k < 0 || int(k) >= len(damageKindNames) {
		return "unknown"
	}
	return damageKindNames[k]
}

// ParseDamageKind maps a prefab name ("fire", "Physical", ...) to a kind.
func ParseDamageKind(s string) (DamageKind, bool) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return DamagePhysical, true
	}
	for i, n := range damageKindNames {
		if n == name {
			return DamageKind(i), true
		}
	}
	return DamagePhysical, false
}

// Damage describes one damage event. It is built once per hit attempt;
// ProcessDamage only writes WasCrit and Final.
type Damage struct {
	Amount      float64
	Kind        DamageKind
	Source      uint64
	Direction   cp.Vector
	Knockback   float64
	PoiseDamage float64
	CanCrit     bool

	WasCrit bool
	Final   float64
}

// CombatEventType defines the kind of combat event.
type CombatEventType string

const (
	EventHealthChanged     CombatEventType = "health_changed"
	EventHealed            CombatEventType = "healed"
	EventDied              CombatEventType = "died"
	EventPoiseChanged      CombatEventType = "poise_changed"
	EventPoiseBroken       CombatEventType = "poise_broken"
	EventDamageTaken       CombatEventType = "damage_taken"
	EventHitConfirmed      CombatEventType = "hit_confirmed"
	EventKnockbackStarted  CombatEventType = "knockback_started"
	EventKnockbackEnded    CombatEventType = "knockback_ended"
	EventEffectApplied     CombatEventType = "effect_applied"
	EventEffectRemoved     CombatEventType = "effect_removed"
	EventEffectStacked     CombatEventType = "effect_stacked"
	EventIFrameStart       CombatEventType = "iframe_start"
	EventIFrameEnd         CombatEventType = "iframe_end"
	EventAttackPhase       CombatEventType = "attack_phase"
	EventAttackEnded       CombatEventType = "attack_ended"
	EventAttackCancelled   CombatEventType = "attack_cancelled"
	EventActorStateChanged CombatEventType = "actor_state"
)

// CombatEvent is emitted during combat resolution. Only the fields relevant
// to Type are populated.
type CombatEvent struct {
	Type   CombatEventType
	Entity uint64
	Target uint64

	Current float64
	Max     float64
	Amount  float64

	Damage   Damage
	Velocity cp.Vector

	Effect string
	Stacks int

	Attack string
	Phase  AttackPhase
	State  ActorStateID
}

// CombatEventHandler handles combat events.
type CombatEventHandler func(evt CombatEvent)

// CombatEventEmitter delivers events to its handlers synchronously, in
// subscription order.
type CombatEventEmitter struct {
	Handlers []CombatEventHandler
}

// Subscribe appends a handler.
func (e *CombatEventEmitter) Subscribe(h CombatEventHandler) {
	if e == nil || h == nil {
		return
	}
	e.Handlers = append(e.Handlers, h)
}

// Emit sends a combat event to all handlers.
func (e *CombatEventEmitter) Emit(evt CombatEvent) {
	if e == nil || len(e.Handlers) == 0 {
		return
	}
	for _, h := range e.Handlers {
		if h != nil {
			h(evt)
		}
	}
}

// Forward returns a handler that re-emits every event on e.
func (e *CombatEventEmitter) Forward() CombatEventHandler {
	return func(evt CombatEvent) {
		e.Emit(evt)
	}
}
