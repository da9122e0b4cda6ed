package component

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/require"
)

func TestApplyKnockback(t *testing.T) {
	cases := []struct {
		name       string
		multiplier float64
		dir        cp.Vector
		force      float64
		want       cp.Vector
		ok         bool
	}{
		{name: "normalizes_direction", multiplier: 1, dir: cp.Vector{X: 3, Y: 4}, force: 100, want: cp.Vector{X: 60, Y: 80}, ok: true},
		{name: "multiplier_scales", multiplier: 0.5, dir: cp.Vector{X: -1}, force: 100, want: cp.Vector{X: -50}, ok: true},
		{name: "immune", multiplier: 0, dir: cp.Vector{X: 1}, force: 100, ok: false},
		{name: "zero_direction_uses_default", multiplier: 1, dir: cp.Vector{}, force: 10, want: cp.Vector{Y: -10}, ok: true},
		{name: "below_threshold", multiplier: 1, dir: cp.Vector{X: 1}, force: 0.5, ok: false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			emitter := &CombatEventEmitter{}
			log := newEventLog(emitter)
			k := NewKnockback(1, c.multiplier, 100, 1, emitter)
			require.Equal(t, c.ok, k.ApplyKnockback(c.dir, c.force))
			require.Equal(t, c.ok, k.IsActive())
			require.InDelta(t, c.want.X, k.Velocity().X, 1e-9)
			require.InDelta(t, c.want.Y, k.Velocity().Y, 1e-9)
			if c.ok {
				require.Equal(t, 1, log.count(EventKnockbackStarted))
			} else {
				require.Empty(t, log.events)
			}
		})
	}
}

func TestKnockbackLatestHitWins(t *testing.T) {
	k := NewKnockback(1, 1, 100, 1, nil)
	k.ApplyKnockback(cp.Vector{X: 1}, 100)
	k.Tick(0.25)
	require.InDelta(t, 75, k.Velocity().X, 1e-9)

	k.ApplyKnockback(cp.Vector{X: 1}, 200)
	require.InDelta(t, 200, k.Velocity().X, 1e-9, "replaces rather than sums")

	k.ApplyKnockback(cp.Vector{X: -1}, 50)
	require.InDelta(t, -50, k.Velocity().X, 1e-9)
}

func TestKnockbackDecaysWithoutReversing(t *testing.T) {
	emitter := &CombatEventEmitter{}
	log := newEventLog(emitter)
	k := NewKnockback(1, 1, 200, 10, emitter)
	k.ApplyKnockback(cp.Vector{X: -1}, 100)

	vel, ok := k.Tick(0.25)
	require.True(t, ok)
	require.InDelta(t, -100, vel.X, 1e-9)
	require.InDelta(t, -50, k.Velocity().X, 1e-9)

	vel, ok = k.Tick(0.25)
	require.True(t, ok)
	require.InDelta(t, -50, vel.X, 1e-9)
	require.False(t, k.IsActive(), "snaps to zero once below threshold")
	require.Equal(t, cp.Vector{}, k.Velocity())
	require.Equal(t, 1, log.count(EventKnockbackEnded))

	vel, ok = k.Tick(0.25)
	require.False(t, ok)
	require.Equal(t, cp.Vector{}, vel)
}

func TestWeakKnockbackLeavesCurrentOne(t *testing.T) {
	emitter := &CombatEventEmitter{}
	log := newEventLog(emitter)
	k := NewKnockback(1, 1, 100, 5, emitter)
	require.True(t, k.ApplyKnockback(cp.Vector{X: 1}, 300))

	require.False(t, k.ApplyKnockback(cp.Vector{X: -1}, 2))
	require.True(t, k.IsActive())
	require.InDelta(t, 300, k.Velocity().X, 1e-9)
	require.Equal(t, 1, log.count(EventKnockbackStarted))
	require.Zero(t, log.count(EventKnockbackEnded))

	k.CancelKnockback()
	require.Equal(t, 1, log.count(EventKnockbackEnded))
}

func TestCancelKnockback(t *testing.T) {
	emitter := &CombatEventEmitter{}
	log := newEventLog(emitter)
	k := NewKnockback(1, 1, 10, 1, emitter)

	k.CancelKnockback()
	require.Zero(t, log.count(EventKnockbackEnded))

	k.ApplyKnockback(cp.Vector{Y: 1}, 40)
	k.CancelKnockback()
	require.False(t, k.IsActive())
	require.Equal(t, cp.Vector{}, k.Velocity())
	require.Equal(t, 1, log.count(EventKnockbackEnded))
}
