package effects

import (
	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/component"
)

type statDelta struct {
	defense   float64
	reduction float64
}

// StatModifier shifts flat defense and percentage reduction for as long as
// the effect is active. Negative values weaken the owner.
type StatModifier struct {
	Defense         float64
	DamageReduction float64

	applied map[*component.StatusEffect]statDelta
}

func (m *StatModifier) OnApply(ctx *component.EffectContext) {
	if ctx.Stats == nil {
		return
	}
	if m.applied == nil {
		m.applied = make(map[*component.StatusEffect]statDelta)
	}

	before := ctx.Stats.DamageReduction
	ctx.Stats.Defense += m.Defense
	ctx.Stats.DamageReduction = common.Clamp(before+m.DamageReduction, 0, 1)
	m.applied[ctx.Effect] = statDelta{
		defense:   m.Defense,
		reduction: ctx.Stats.DamageReduction - before,
	}
}

func (m *StatModifier) OnTick(ctx *component.EffectContext, dt float64) {}

func (m *StatModifier) OnExpire(ctx *component.EffectContext) {
	delta, ok := m.applied[ctx.Effect]
	if !ok || ctx.Stats == nil {
		return
	}
	delete(m.applied, ctx.Effect)
	ctx.Stats.Defense -= delta.defense
	ctx.Stats.DamageReduction = common.Clamp(ctx.Stats.DamageReduction-delta.reduction, 0, 1)
}
