package effects

import (
	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/component"
)

// DamageOverTime deals DamagePerSecond to the owner. With an Interval the
// damage is dealt in chunks once per interval; otherwise it is spread across
// every tick. Each stack adds the full rate again.
type DamageOverTime struct {
	DamagePerSecond float64
	Interval        float64
	Kind            component.DamageKind
}

func (d *DamageOverTime) OnApply(ctx *component.EffectContext) {
	ctx.Effect.TickTimer = 0
}

func (d *DamageOverTime) OnTick(ctx *component.EffectContext, dt float64) {
	if ctx.Stats == nil || d.DamagePerSecond <= 0 {
		return
	}
	stacks := float64(max(1, ctx.Effect.Stacks))
	if d.Interval <= 0 {
		d.deal(ctx, d.DamagePerSecond*dt*stacks)
		return
	}
	ctx.Effect.TickTimer += dt
	for ctx.Effect.TickTimer >= d.Interval-common.Epsilon {
		ctx.Effect.TickTimer -= d.Interval
		d.deal(ctx, d.DamagePerSecond*d.Interval*stacks)
	}
}

func (d *DamageOverTime) OnExpire(ctx *component.EffectContext) {}

func (d *DamageOverTime) deal(ctx *component.EffectContext, amount float64) {
	ctx.Stats.ProcessDamage(&component.Damage{
		Amount: amount,
		Kind:   d.Kind,
	})
}
