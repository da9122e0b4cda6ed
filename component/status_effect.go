package component

// EffectContext is passed to behaviour callbacks. Stats may be nil for
// entities that cannot take damage.
type EffectContext struct {
	Owner  uint64
	Stats  *CombatStats
	Effect *StatusEffect
}

// EffectBehavior is the per-effect logic run by the registry.
type EffectBehavior interface {
	OnApply(ctx *EffectContext)
	OnTick(ctx *EffectContext, dt float64)
	OnExpire(ctx *EffectContext)
}

// StatusEffectTemplate is the immutable definition of an effect. Name is the
// identity key for stacking and refresh.
type StatusEffectTemplate struct {
	Name             string
	Duration         float64
	Stackable        bool
	MaxStacks        int
	RefreshOnReapply bool
	Behavior         EffectBehavior
}

// Infinite reports whether the effect lasts until removed.
func (t *StatusEffectTemplate) Infinite() bool {
	return t != nil && t.Duration < 0
}

// NewInstance creates a fresh runtime instance. Only runtime fields are
// initialised; the template is shared.
func (t *StatusEffectTemplate) NewInstance() *StatusEffect {
	if t == nil {
		return nil
	}
	return &StatusEffect{
		Template:  t,
		Stacks:    1,
		Remaining: t.Duration,
	}
}

// StatusEffect is a runtime instance of a template.
type StatusEffect struct {
	Template  *StatusEffectTemplate
	Stacks    int
	Remaining float64
	TickTimer float64

	expired bool
}

func (e *StatusEffect) Name() string {
	if e == nil || e.Template == nil {
		return ""
	}
	return e.Template.Name
}

// EffectTarget receives on-hit effects.
type EffectTarget interface {
	ApplyEffect(t *StatusEffectTemplate) bool
}

// StatusEffectRegistry holds at most one instance per effect name for a
// single entity. Iteration order is application order.
type StatusEffectRegistry struct {
	Owner   uint64
	Stats   *CombatStats
	Emitter *CombatEventEmitter

	order  []*StatusEffect
	byName map[string]*StatusEffect
}

func NewStatusEffectRegistry(owner uint64, stats *CombatStats, emitter *CombatEventEmitter) *StatusEffectRegistry {
	return &StatusEffectRegistry{
		Owner:   owner,
		Stats:   stats,
		Emitter: emitter,
		byName:  make(map[string]*StatusEffect),
	}
}

// ApplyEffect applies, stacks or refreshes t. It returns false when the
// application changed nothing.
func (r *StatusEffectRegistry) ApplyEffect(t *StatusEffectTemplate) bool {
	if r == nil || t == nil || t.Name == "" {
		return false
	}
	if r.byName == nil {
		r.byName = make(map[string]*StatusEffect)
	}

	if existing, ok := r.byName[t.Name]; ok {
		switch {
		case t.Stackable:
			limit := t.MaxStacks
			if limit < 1 {
				limit = 1
			}
			if existing.Stacks >= limit {
				return false
			}
			existing.Stacks++
			r.emit(CombatEvent{Type: EventEffectStacked, Effect: t.Name, Stacks: existing.Stacks})
			return true
		case t.RefreshOnReapply:
			existing.Remaining = t.Duration
			return true
		default:
			return false
		}
	}

	inst := t.NewInstance()
	if t.Behavior != nil {
		t.Behavior.OnApply(r.context(inst))
	}
	r.order = append(r.order, inst)
	r.byName[t.Name] = inst
	r.emit(CombatEvent{Type: EventEffectApplied, Effect: t.Name, Stacks: inst.Stacks})
	return true
}

// RemoveEffect expires and removes e if it is registered here.
func (r *StatusEffectRegistry) RemoveEffect(e *StatusEffect) bool {
	if r == nil || e == nil {
		return false
	}
	if r.byName[e.Name()] != e {
		return false
	}
	r.expire(e)
	r.remove(e)
	return true
}

func (r *StatusEffectRegistry) RemoveEffectByName(name string) bool {
	if r == nil {
		return false
	}
	return r.RemoveEffect(r.byName[name])
}

// ClearAllEffects expires every instance in application order.
func (r *StatusEffectRegistry) ClearAllEffects() {
	if r == nil {
		return
	}
	effects := r.order
	r.order = nil
	for _, e := range effects {
		r.expire(e)
		delete(r.byName, e.Name())
		r.emit(CombatEvent{Type: EventEffectRemoved, Effect: e.Name()})
	}
}

func (r *StatusEffectRegistry) Has(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.byName[name]
	return ok
}

func (r *StatusEffectRegistry) Get(name string) *StatusEffect {
	if r == nil {
		return nil
	}
	return r.byName[name]
}

// Stacks returns the stack count of name, or 0 when absent.
func (r *StatusEffectRegistry) Stacks(name string) int {
	if e := r.Get(name); e != nil {
		return e.Stacks
	}
	return 0
}

// Effects returns a copy of the active instances.
func (r *StatusEffectRegistry) Effects() []*StatusEffect {
	if r == nil || len(r.order) == 0 {
		return nil
	}
	out := make([]*StatusEffect, len(r.order))
	copy(out, r.order)
	return out
}

func (r *StatusEffectRegistry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

// Tick runs OnTick for every instance, then counts finite durations down.
// Instances that ran out are removed once the pass is complete.
func (r *StatusEffectRegistry) Tick(dt float64) {
	if r == nil || dt <= 0 || len(r.order) == 0 {
		return
	}

	snapshot := r.Effects()
	var finished []*StatusEffect
	for _, e := range snapshot {
		if e.expired {
			continue
		}
		if b := e.Template.Behavior; b != nil {
			b.OnTick(r.context(e), dt)
		}
		if e.expired || e.Template.Infinite() {
			continue
		}
		e.Remaining -= dt
		if e.Remaining <= 0 {
			finished = append(finished, e)
		}
	}

	for _, e := range finished {
		r.RemoveEffect(e)
	}
}

func (r *StatusEffectRegistry) expire(e *StatusEffect) {
	if e.expired {
		return
	}
	e.expired = true
	if b := e.Template.Behavior; b != nil {
		b.OnExpire(r.context(e))
	}
}

func (r *StatusEffectRegistry) remove(e *StatusEffect) {
	delete(r.byName, e.Name())
	for i, cur := range r.order {
		if cur == e {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.emit(CombatEvent{Type: EventEffectRemoved, Effect: e.Name()})
}

func (r *StatusEffectRegistry) context(e *StatusEffect) *EffectContext {
	return &EffectContext{Owner: r.Owner, Stats: r.Stats, Effect: e}
}

func (r *StatusEffectRegistry) emit(evt CombatEvent) {
	if r.Emitter == nil {
		return
	}
	if evt.Entity == 0 {
		evt.Entity = r.Owner
	}
	r.Emitter.Emit(evt)
}
