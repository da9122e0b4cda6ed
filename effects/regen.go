package effects

import "github.com/milk9111/skirmish/component"

// Regen heals HealPerSecond per stack while active.
type Regen struct {
	HealPerSecond float64
}

func (r *Regen) OnApply(ctx *component.EffectContext) {}

func (r *Regen) OnTick(ctx *component.EffectContext, dt float64) {
	if ctx.Stats == nil || r.HealPerSecond <= 0 {
		return
	}
	ctx.Stats.Heal(r.HealPerSecond * dt * float64(max(1, ctx.Effect.Stacks)))
}

func (r *Regen) OnExpire(ctx *component.EffectContext) {}
