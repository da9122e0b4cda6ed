package effects

import (
	"testing"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/milk9111/skirmish/component"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func newTarget(cfg component.StatsConfig) (*component.CombatStats, *component.StatusEffectRegistry) {
	emitter := &component.CombatEventEmitter{}
	stats := component.NewCombatStats(1, cfg, nil, emitter)
	return stats, component.NewStatusEffectRegistry(1, stats, emitter)
}

func TestDamageOverTime(t *testing.T) {
	cases := []struct {
		name     string
		dot      *DamageOverTime
		stacks   int
		ticks    int
		dt       float64
		wantLoss float64
	}{
		{name: "continuous", dot: &DamageOverTime{DamagePerSecond: 8}, stacks: 1, ticks: 4, dt: 0.25, wantLoss: 8},
		{name: "interval_chunks", dot: &DamageOverTime{DamagePerSecond: 8, Interval: 0.5}, stacks: 1, ticks: 3, dt: 0.25, wantLoss: 4},
		{name: "stacks_multiply", dot: &DamageOverTime{DamagePerSecond: 8, Interval: 0.5}, stacks: 3, ticks: 4, dt: 0.25, wantLoss: 24},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			stats, reg := newTarget(component.StatsConfig{MaxHealth: 100})
			tmpl := &component.StatusEffectTemplate{Name: "burn", Duration: -1, Stackable: true, MaxStacks: 5, Behavior: c.dot}
			for i := 0; i < c.stacks; i++ {
				reg.ApplyEffect(tmpl)
			}
			for i := 0; i < c.ticks; i++ {
				reg.Tick(c.dt)
			}
			require.InDelta(t, 100-c.wantLoss, stats.Health(), 1e-9)
		})
	}
}

func TestDamageOverTimeUsesKindResistance(t *testing.T) {
	stats, reg := newTarget(component.StatsConfig{
		MaxHealth:   100,
		Resistances: map[component.DamageKind]float64{component.DamagePoison: 0.5},
	})
	reg.ApplyEffect(&component.StatusEffectTemplate{
		Name:     "poison",
		Duration: 1,
		Behavior: &DamageOverTime{DamagePerSecond: 10, Interval: 0.5, Kind: component.DamagePoison},
	})
	for i := 0; i < 4; i++ {
		reg.Tick(0.25)
	}
	require.InDelta(t, 95, stats.Health(), 1e-9, "two halved chunks of five")
	require.False(t, reg.Has("poison"))
}

func TestRegen(t *testing.T) {
	stats, reg := newTarget(component.StatsConfig{MaxHealth: 100})
	stats.ProcessDamage(&component.Damage{Amount: 50})
	reg.ApplyEffect(&component.StatusEffectTemplate{Name: "regen", Duration: 2, Behavior: &Regen{HealPerSecond: 10}})
	for i := 0; i < 8; i++ {
		reg.Tick(0.25)
	}
	require.InDelta(t, 70, stats.Health(), 1e-9)
}

func TestStatModifierRestoresOnExpire(t *testing.T) {
	stats, reg := newTarget(component.StatsConfig{MaxHealth: 100, Defense: 2, DamageReduction: 0.75})
	mod := &StatModifier{Defense: 3, DamageReduction: 0.5}
	reg.ApplyEffect(&component.StatusEffectTemplate{Name: "stoneskin", Duration: 0.5, Behavior: mod})

	require.Equal(t, 5.0, stats.Defense)
	require.Equal(t, 1.0, stats.DamageReduction, "reduction clamps at 1")

	reg.Tick(0.25)
	reg.Tick(0.25)
	require.False(t, reg.Has("stoneskin"))
	require.Equal(t, 2.0, stats.Defense)
	require.Equal(t, 0.75, stats.DamageReduction)
}

func TestStatModifierWeakens(t *testing.T) {
	stats, reg := newTarget(component.StatsConfig{MaxHealth: 100, Defense: 5})
	reg.ApplyEffect(&component.StatusEffectTemplate{Name: "sunder", Duration: -1, Behavior: &StatModifier{Defense: -5}})
	require.Equal(t, 20.0, stats.ProcessDamage(&component.Damage{Amount: 20}))
	reg.RemoveEffectByName("sunder")
	require.Equal(t, 15.0, stats.ProcessDamage(&component.Damage{Amount: 20}))
}

const emberScript = `
on_apply := func(effect, engine) {
	effect.state.elapsed = 0.0
}

on_tick := func(effect, engine, dt) {
	effect.state.elapsed += dt
	engine.damage(4 * dt * effect.stacks, "fire")
}

on_expire := func(effect, engine) {
	engine.heal(1)
}
`

func TestScriptHooks(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	script, err := NewScript("scripts/ember.tengo", []byte(emberScript), component.DamagePhysical, logger)
	require.NoError(t, err)

	stats, reg := newTarget(component.StatsConfig{
		MaxHealth:   100,
		Resistances: map[component.DamageKind]float64{component.DamageFire: 0.5},
	})
	reg.ApplyEffect(&component.StatusEffectTemplate{Name: "ember", Duration: 1, Behavior: script})
	inst := reg.Get("ember")

	reg.Tick(0.25)
	reg.Tick(0.25)
	require.InDelta(t, 99, stats.Health(), 1e-9)

	elapsed, ok := tengo.ToFloat64(script.state[inst].Value["elapsed"])
	require.True(t, ok)
	require.InDelta(t, 0.5, elapsed, 1e-9)

	reg.Tick(0.25)
	reg.Tick(0.25)
	require.False(t, reg.Has("ember"))
	require.InDelta(t, 99, stats.Health(), 1e-9, "expiry heals back the last point")
	require.Empty(t, script.state)
	require.Empty(t, hook.AllEntries())
}

func TestScriptCompileError(t *testing.T) {
	_, err := NewScript("scripts/broken.tengo", []byte(`on_apply := func(effect {`), component.DamagePhysical, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "scripts/broken.tengo")
}

func TestScriptRuntimeErrorIsLogged(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	src := `
on_apply := func(effect, engine) {}
on_tick := func(effect, engine, dt) { engine.damage("lots") }
on_expire := func(effect, engine) {}
`
	script, err := NewScript("scripts/bad.tengo", []byte(src), component.DamagePhysical, logger)
	require.NoError(t, err)

	stats, reg := newTarget(component.StatsConfig{MaxHealth: 100})
	reg.ApplyEffect(&component.StatusEffectTemplate{Name: "bad", Duration: -1, Behavior: script})
	reg.Tick(0.25)

	require.Equal(t, 100.0, stats.Health())
	require.True(t, reg.Has("bad"), "a failing hook does not remove the effect")
	require.Len(t, hook.AllEntries(), 1)
	entry := hook.LastEntry()
	require.Equal(t, logrus.ErrorLevel, entry.Level)
	require.Equal(t, "tick", entry.Data["phase"])
}

func TestLethalScriptTickExpiresAfterHookReturns(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	src := `
on_apply := func(effect, engine) {
	effect.state.ticks = 0
}

on_tick := func(effect, engine, dt) {
	effect.state.ticks += 1
	engine.damage(50, "fire")
}

on_expire := func(effect, engine) {
	if engine.health() > 0 {
		engine.heal(1)
	}
}
`
	script, err := NewScript("scripts/inferno.tengo", []byte(src), component.DamageFire, logger)
	require.NoError(t, err)

	emitter := &component.CombatEventEmitter{}
	stats := component.NewCombatStats(1, component.StatsConfig{MaxHealth: 10}, nil, emitter)
	reg := component.NewStatusEffectRegistry(1, stats, emitter)
	actor := component.NewActor(1, component.ActorConfig{}, emitter)
	actor.Stats = stats
	actor.Effects = reg

	removed := 0
	emitter.Subscribe(func(evt component.CombatEvent) {
		if evt.Type == component.EventEffectRemoved {
			removed++
		}
	})

	require.True(t, reg.ApplyEffect(&component.StatusEffectTemplate{Name: "inferno", Duration: -1, Behavior: script}))

	done := make(chan struct{})
	go func() {
		reg.Tick(1.0 / 60)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("lethal scripted tick never returned")
	}

	require.False(t, stats.IsAlive())
	require.Equal(t, component.StateDead, actor.State())
	require.Zero(t, reg.Len())
	require.Equal(t, 1, removed)
	require.Empty(t, script.state)
	require.Empty(t, hook.AllEntries())

	// the script is still usable by other owners afterwards
	other, otherReg := newTarget(component.StatsConfig{MaxHealth: 100})
	otherReg.ApplyEffect(&component.StatusEffectTemplate{Name: "inferno", Duration: -1, Behavior: script})
	otherReg.Tick(1.0 / 60)
	require.Equal(t, 50.0, other.Health())
}
