package component

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStats(cfg StatsConfig, rng RandomSource) (*CombatStats, *eventLog) {
	emitter := &CombatEventEmitter{}
	log := newEventLog(emitter)
	return NewCombatStats(1, cfg, rng, emitter), log
}

func TestProcessDamagePipeline(t *testing.T) {
	cases := []struct {
		name   string
		cfg    StatsConfig
		dmg    Damage
		rand   []float64
		want   float64
		crit   bool
		health float64
	}{
		{
			name:   "defense_then_reduction",
			cfg:    StatsConfig{MaxHealth: 100, Defense: 5, DamageReduction: 0.2},
			dmg:    Damage{Amount: 20, Kind: DamageFire},
			want:   12,
			health: 88,
		},
		{
			name:   "weakness_amplifies",
			cfg:    StatsConfig{MaxHealth: 100, Resistances: map[DamageKind]float64{DamageIce: -0.5}},
			dmg:    Damage{Amount: 10, Kind: DamageIce},
			want:   15,
			health: 85,
		},
		{
			name:   "resistance_before_defense",
			cfg:    StatsConfig{MaxHealth: 100, Defense: 4, Resistances: map[DamageKind]float64{DamageFire: 0.5}},
			dmg:    Damage{Amount: 20, Kind: DamageFire},
			want:   6,
			health: 94,
		},
		{
			name:   "defense_floors_at_zero",
			cfg:    StatsConfig{MaxHealth: 100, Defense: 50},
			dmg:    Damage{Amount: 20},
			want:   0,
			health: 100,
		},
		{
			name:   "crit_applies_after_reduction",
			cfg:    StatsConfig{MaxHealth: 100, DamageReduction: 0.5, CritChance: 0.5, CritMultiplier: 2},
			dmg:    Damage{Amount: 20, CanCrit: true},
			rand:   []float64{0.25},
			want:   20,
			crit:   true,
			health: 80,
		},
		{
			name:   "crit_roll_misses",
			cfg:    StatsConfig{MaxHealth: 100, CritChance: 0.5, CritMultiplier: 2},
			dmg:    Damage{Amount: 20, CanCrit: true},
			rand:   []float64{0.75},
			want:   20,
			health: 80,
		},
		{
			name:   "crit_ineligible_never_crits",
			cfg:    StatsConfig{MaxHealth: 100, CritChance: 1, CritMultiplier: 3},
			dmg:    Damage{Amount: 20},
			rand:   []float64{0},
			want:   20,
			health: 80,
		},
		{
			name:   "health_clamps_at_zero",
			cfg:    StatsConfig{MaxHealth: 10},
			dmg:    Damage{Amount: 25},
			want:   25,
			health: 0,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, _ := newTestStats(c.cfg, &fixedRand{values: c.rand})
			d := c.dmg
			dealt := s.ProcessDamage(&d)
			require.InDelta(t, c.want, dealt, 1e-9)
			require.InDelta(t, c.want, d.Final, 1e-9)
			require.Equal(t, c.crit, d.WasCrit)
			require.InDelta(t, c.health, s.Health(), 1e-9)
		})
	}
}

func TestProcessDamageNeverCritsWithoutEligibility(t *testing.T) {
	rng := &fixedRand{values: []float64{0}}
	s, _ := newTestStats(StatsConfig{MaxHealth: 1000, CritChance: 1, CritMultiplier: 2}, rng)
	for i := 0; i < 10; i++ {
		d := Damage{Amount: 1}
		s.ProcessDamage(&d)
		require.False(t, d.WasCrit)
	}
	require.Zero(t, rng.calls, "crit roll must not draw for ineligible envelopes")
}

func TestProcessDamageEventOrder(t *testing.T) {
	s, log := newTestStats(StatsConfig{MaxHealth: 20, MaxPoise: 10}, nil)

	d := Damage{Amount: 30, PoiseDamage: 15, Source: 7}
	dealt := s.ProcessDamage(&d)
	require.Equal(t, 30.0, dealt)
	require.False(t, s.IsAlive())
	require.Equal(t, []CombatEventType{
		EventPoiseChanged,
		EventPoiseBroken,
		EventHealthChanged,
		EventDamageTaken,
		EventDied,
	}, log.types())

	taken, ok := log.last(EventDamageTaken)
	require.True(t, ok)
	require.Equal(t, uint64(7), taken.Damage.Source)
	require.Equal(t, 30.0, taken.Damage.Final)
}

func TestProcessDamageOnDeadEntityIsSilent(t *testing.T) {
	s, log := newTestStats(StatsConfig{MaxHealth: 10}, nil)
	s.ProcessDamage(&Damage{Amount: 10})
	require.Equal(t, 1, log.count(EventDied))
	log.reset()

	d := Damage{Amount: 50, PoiseDamage: 10}
	require.Zero(t, s.ProcessDamage(&d))
	require.Empty(t, log.events)
	require.Zero(t, d.Final)
}

func TestProcessDamageWhileInvincible(t *testing.T) {
	s, log := newTestStats(StatsConfig{MaxHealth: 100, InvincibilityDuration: 0.5}, nil)

	require.Equal(t, 10.0, s.ProcessDamage(&Damage{Amount: 10}))
	require.True(t, s.IsInvincible())
	require.Equal(t, 1, log.count(EventIFrameStart))
	log.reset()

	require.Zero(t, s.ProcessDamage(&Damage{Amount: 10}))
	require.Empty(t, log.events)

	s.Tick(0.25)
	require.True(t, s.IsInvincible())
	s.Tick(0.25)
	require.False(t, s.IsInvincible())
	require.Equal(t, 1, log.count(EventIFrameEnd))

	require.Equal(t, 10.0, s.ProcessDamage(&Damage{Amount: 10}))
	require.Equal(t, 80.0, s.Health())
}

func TestPoiseBreaksOnce(t *testing.T) {
	s, log := newTestStats(StatsConfig{MaxHealth: 100, MaxPoise: 50}, nil)

	s.ProcessDamage(&Damage{Amount: 1, PoiseDamage: 30})
	require.Equal(t, 20.0, s.Poise())
	require.Zero(t, log.count(EventPoiseBroken))

	s.ProcessDamage(&Damage{Amount: 1, PoiseDamage: 30})
	require.Zero(t, s.Poise())
	require.Equal(t, 1, log.count(EventPoiseBroken))
	require.True(t, s.PoiseBroken())

	s.ProcessDamage(&Damage{Amount: 1, PoiseDamage: 5})
	require.Zero(t, s.Poise())
	require.Equal(t, 1, log.count(EventPoiseBroken))

	s.ResetPoise()
	require.Equal(t, 50.0, s.Poise())
	require.False(t, s.PoiseBroken())

	s.ProcessDamage(&Damage{Amount: 1, PoiseDamage: 60})
	require.Equal(t, 2, log.count(EventPoiseBroken))
}

func TestPoiselessEntityIgnoresPoiseDamage(t *testing.T) {
	s, log := newTestStats(StatsConfig{MaxHealth: 100}, nil)
	s.ProcessDamage(&Damage{Amount: 1, PoiseDamage: 30})
	require.Zero(t, log.count(EventPoiseChanged))
	require.Zero(t, log.count(EventPoiseBroken))
}

func TestPoiseRegenWaitsForDelay(t *testing.T) {
	s, log := newTestStats(StatsConfig{MaxHealth: 100, MaxPoise: 50, PoiseRegenRate: 10, PoiseRegenDelay: 0.5}, nil)
	s.ProcessDamage(&Damage{Amount: 1, PoiseDamage: 20})
	require.Equal(t, 30.0, s.Poise())
	log.reset()

	s.Tick(0.25)
	require.Equal(t, 30.0, s.Poise())
	s.Tick(0.25)
	require.Equal(t, 30.0, s.Poise())
	require.Zero(t, log.count(EventPoiseChanged))

	s.Tick(0.5)
	require.Equal(t, 35.0, s.Poise())
	require.Equal(t, 1, log.count(EventPoiseChanged))

	s.Tick(4)
	require.Equal(t, 50.0, s.Poise())

	log.reset()
	s.Tick(1)
	require.Zero(t, log.count(EventPoiseChanged), "full poise does not emit")
}

func TestHeal(t *testing.T) {
	t.Run("full_health_is_silent", func(t *testing.T) {
		s, log := newTestStats(StatsConfig{MaxHealth: 100}, nil)
		require.Zero(t, s.Heal(25))
		require.Empty(t, log.events)
	})

	t.Run("clamps_to_max", func(t *testing.T) {
		s, log := newTestStats(StatsConfig{MaxHealth: 100}, nil)
		s.ProcessDamage(&Damage{Amount: 10})
		log.reset()

		require.Equal(t, 10.0, s.Heal(40))
		require.Equal(t, 100.0, s.Health())
		healed, ok := log.last(EventHealed)
		require.True(t, ok)
		require.Equal(t, 10.0, healed.Amount)
		require.Equal(t, []CombatEventType{EventHealed, EventHealthChanged}, log.types())
	})

	t.Run("non_positive_and_dead", func(t *testing.T) {
		s, _ := newTestStats(StatsConfig{MaxHealth: 10}, nil)
		s.ProcessDamage(&Damage{Amount: 5})
		require.Zero(t, s.Heal(0))
		require.Zero(t, s.Heal(-3))
		s.ProcessDamage(&Damage{Amount: 5})
		require.Zero(t, s.Heal(5))
		require.False(t, s.IsAlive())
	})
}

func TestSetInvincibleExtendsOnly(t *testing.T) {
	s, log := newTestStats(StatsConfig{MaxHealth: 10}, nil)

	s.SetInvincible(1)
	s.SetInvincible(0.5)
	require.Equal(t, 1.0, s.InvincibilityRemaining())
	s.SetInvincible(2)
	require.Equal(t, 2.0, s.InvincibilityRemaining())
	require.Equal(t, 1, log.count(EventIFrameStart))

	s.ClearInvincibility()
	require.False(t, s.IsInvincible())
	require.Zero(t, s.InvincibilityRemaining())
	require.Equal(t, 1, log.count(EventIFrameEnd))

	s.ClearInvincibility()
	require.Equal(t, 1, log.count(EventIFrameEnd))
}

func TestNewCombatStatsClampsConfig(t *testing.T) {
	s := NewCombatStats(3, StatsConfig{MaxHealth: 50, CritMultiplier: 0.5, CritChance: 4, DamageReduction: 2}, nil, nil)
	require.Equal(t, 1.0, s.CritMultiplier)
	require.Equal(t, 1.0, s.CritChance)
	require.Equal(t, 1.0, s.DamageReduction)
	require.Equal(t, 50.0, s.Health())
	require.True(t, s.IsAlive())
}

func TestThreeHitsBreakPoiseButLeaveTargetAlive(t *testing.T) {
	s, log := newTestStats(StatsConfig{MaxHealth: 100, MaxPoise: 50}, &fixedRand{values: []float64{0.99}})
	hit := func() {
		d := Damage{Amount: 25, Kind: DamagePhysical, PoiseDamage: 20}
		s.ProcessDamage(&d)
	}

	hit()
	hit()
	require.Equal(t, 10.0, s.Poise())
	require.Zero(t, log.count(EventPoiseBroken))

	hit()
	require.Zero(t, s.Poise())
	require.Equal(t, 1, log.count(EventPoiseBroken))
	require.Equal(t, 25.0, s.Health())
	require.True(t, s.IsAlive())
	require.Zero(t, log.count(EventDied))
}
