package component

import (
	"math"

	"github.com/milk9111/skirmish/common"
)

// RandomSource supplies uniform values in [0,1) for crit rolls.
// *math/rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// StatsConfig is the spawn-time configuration of a CombatStats.
type StatsConfig struct {
	MaxHealth             float64
	Defense               float64
	DamageReduction       float64
	Resistances           map[DamageKind]float64
	MaxPoise              float64
	PoiseRegenRate        float64
	PoiseRegenDelay       float64
	CritChance            float64
	CritMultiplier        float64
	InvincibilityDuration float64
}

// CombatStats is the per-entity health/poise/defense ledger and owns the
// damage pipeline.
type CombatStats struct {
	Owner   uint64
	Emitter *CombatEventEmitter
	Rand    RandomSource

	MaxHealth       float64
	Defense         float64
	DamageReduction float64
	Resistances     map[DamageKind]float64

	MaxPoise        float64
	PoiseRegenRate  float64
	PoiseRegenDelay float64

	CritChance     float64
	CritMultiplier float64

	InvincibilityDuration float64

	health      float64
	poise       float64
	poiseDelay  float64
	poiseBroken bool
	invincible  bool
	iframeTimer float64
}

// NewCombatStats creates stats with both pools full.
func NewCombatStats(owner uint64, cfg StatsConfig, rng RandomSource, emitter *CombatEventEmitter) *CombatStats {
	maxHealth := cfg.MaxHealth
	if maxHealth <= 0 {
		maxHealth = 1
	}
	critMult := cfg.CritMultiplier
	if critMult < 1 {
		critMult = 1
	}
	res := make(map[DamageKind]float64, len(cfg.Resistances))
	for k, v := range cfg.Resistances {
		res[k] = v
	}
	return &CombatStats{
		Owner:                 owner,
		Emitter:               emitter,
		Rand:                  rng,
		MaxHealth:             maxHealth,
		Defense:               cfg.Defense,
		DamageReduction:       common.Clamp(cfg.DamageReduction, 0, 1),
		Resistances:           res,
		MaxPoise:              math.Max(0, cfg.MaxPoise),
		PoiseRegenRate:        cfg.PoiseRegenRate,
		PoiseRegenDelay:       cfg.PoiseRegenDelay,
		CritChance:            common.Clamp(cfg.CritChance, 0, 1),
		CritMultiplier:        critMult,
		InvincibilityDuration: cfg.InvincibilityDuration,
		health:                maxHealth,
		poise:                 math.Max(0, cfg.MaxPoise),
	}
}

// IsAlive reports whether current health is above zero.
func (s *CombatStats) IsAlive() bool {
	return s != nil && s.health > 0
}

func (s *CombatStats) Health() float64 {
	if s == nil {
		return 0
	}
	return s.health
}

func (s *CombatStats) Poise() float64 {
	if s == nil {
		return 0
	}
	return s.poise
}

// IsInvincible reports whether incoming damage is currently ignored.
func (s *CombatStats) IsInvincible() bool {
	return s != nil && s.invincible
}

// InvincibilityRemaining returns the seconds left on the i-frame timer.
func (s *CombatStats) InvincibilityRemaining() float64 {
	if s == nil {
		return 0
	}
	return s.iframeTimer
}

// PoiseBroken reports whether poise broke and has not been reset since.
func (s *CombatStats) PoiseBroken() bool {
	return s != nil && s.poiseBroken
}

// Resistance returns the modifier for kind; unset kinds have none.
func (s *CombatStats) Resistance(kind DamageKind) float64 {
	if s == nil || s.Resistances == nil {
		return 0
	}
	return s.Resistances[kind]
}

// ProcessDamage runs the damage pipeline and returns the health removed.
// The stage order is fixed: resistance, flat defense, percentage reduction,
// crit, poise, health, invincibility, notifications.
func (s *CombatStats) ProcessDamage(d *Damage) float64 {
	if s == nil || d == nil || !s.IsAlive() || s.invincible {
		return 0
	}

	amount := math.Max(0, d.Amount)
	amount *= 1 - s.Resistance(d.Kind)
	amount = math.Max(0, amount-s.Defense)
	amount *= 1 - s.DamageReduction

	d.WasCrit = false
	if d.CanCrit && s.Rand != nil && s.Rand.Float64() < s.CritChance {
		amount *= s.CritMultiplier
		d.WasCrit = true
	}

	if d.PoiseDamage > 0 && s.MaxPoise > 0 {
		s.poise = math.Max(0, s.poise-d.PoiseDamage)
		s.poiseDelay = s.PoiseRegenDelay
		s.emit(CombatEvent{Type: EventPoiseChanged, Current: s.poise, Max: s.MaxPoise})
		if s.poise <= 0 && !s.poiseBroken {
			s.poiseBroken = true
			s.emit(CombatEvent{Type: EventPoiseBroken})
		}
	}

	d.Final = amount
	before := s.health
	s.health = math.Max(0, s.health-amount)
	s.emit(CombatEvent{Type: EventHealthChanged, Current: s.health, Max: s.MaxHealth})

	if s.InvincibilityDuration > 0 {
		s.SetInvincible(s.InvincibilityDuration)
	}

	s.emit(CombatEvent{Type: EventDamageTaken, Target: s.Owner, Damage: *d, Amount: amount})
	if before > 0 && s.health <= 0 {
		s.emit(CombatEvent{Type: EventDied, Damage: *d})
	}
	return amount
}

// Heal restores up to amount health and returns the amount actually gained.
func (s *CombatStats) Heal(amount float64) float64 {
	if s == nil || !s.IsAlive() || amount <= 0 {
		return 0
	}
	before := s.health
	s.health = math.Min(s.MaxHealth, s.health+amount)
	delta := s.health - before
	if delta <= 0 {
		return 0
	}
	s.emit(CombatEvent{Type: EventHealed, Amount: delta})
	s.emit(CombatEvent{Type: EventHealthChanged, Current: s.health, Max: s.MaxHealth})
	return delta
}

// ResetPoise refills poise and re-arms the poise-broken notification.
func (s *CombatStats) ResetPoise() {
	if s == nil {
		return
	}
	s.poise = s.MaxPoise
	s.poiseDelay = 0
	s.poiseBroken = false
	s.emit(CombatEvent{Type: EventPoiseChanged, Current: s.poise, Max: s.MaxPoise})
}

// SetInvincible starts or extends the i-frame window. It never shortens it.
func (s *CombatStats) SetInvincible(duration float64) {
	if s == nil || duration <= 0 {
		return
	}
	wasInvincible := s.invincible
	s.iframeTimer = math.Max(s.iframeTimer, duration)
	s.invincible = true
	if !wasInvincible {
		s.emit(CombatEvent{Type: EventIFrameStart, Amount: s.iframeTimer})
	}
}

// ClearInvincibility ends the i-frame window immediately.
func (s *CombatStats) ClearInvincibility() {
	if s == nil {
		return
	}
	wasInvincible := s.invincible
	s.iframeTimer = 0
	s.invincible = false
	if wasInvincible {
		s.emit(CombatEvent{Type: EventIFrameEnd})
	}
}

// Tick advances the i-frame timer and poise regeneration by dt seconds.
func (s *CombatStats) Tick(dt float64) {
	if s == nil || dt <= 0 {
		return
	}

	if s.invincible {
		s.iframeTimer -= dt
		if s.iframeTimer <= common.Epsilon {
			s.ClearInvincibility()
		}
	}

	if !s.IsAlive() || s.MaxPoise <= 0 {
		return
	}
	if s.poiseDelay > 0 {
		s.poiseDelay -= dt
		if s.poiseDelay < common.Epsilon {
			s.poiseDelay = 0
		}
		return
	}
	if s.PoiseRegenRate > 0 && s.poise < s.MaxPoise {
		s.poise = math.Min(s.MaxPoise, s.poise+s.PoiseRegenRate*dt)
		s.emit(CombatEvent{Type: EventPoiseChanged, Current: s.poise, Max: s.MaxPoise})
	}
}

func (s *CombatStats) emit(evt CombatEvent) {
	if s.Emitter == nil {
		return
	}
	if evt.Entity == 0 {
		evt.Entity = s.Owner
	}
	s.Emitter.Emit(evt)
}
