package effects

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/skirmish/component"
	"github.com/sirupsen/logrus"
)

const scriptDispatch = `
if __phase == "apply" {
	on_apply(__effect, __engine)
} else if __phase == "tick" {
	on_tick(__effect, __engine, __dt)
} else if __phase == "expire" {
	on_expire(__effect, __engine)
}
`

// Script runs an effect whose behaviour is written in tengo. The script must
// define on_apply(effect, engine), on_tick(effect, engine, dt) and
// on_expire(effect, engine). engine exposes damage(amount[, kind]),
// heal(amount), health() and max_health(). effect carries name, stacks,
// remaining and a per-instance state map.
type Script struct {
	Path   string
	Kind   component.DamageKind
	Logger logrus.FieldLogger

	compiled *tengo.Compiled
	state    map[*component.StatusEffect]*tengo.Map

	running bool
	pending []scriptHook
}

type scriptHook struct {
	phase string
	ctx   *component.EffectContext
	dt    float64
}

// NewScript compiles src. Compilation errors are returned; runtime errors are
// logged when a hook runs.
func NewScript(path string, src []byte, kind component.DamageKind, logger logrus.FieldLogger) (*Script, error) {
	script := tengo.NewScript([]byte(string(src) + "\n" + scriptDispatch))
	_ = script.Add("__phase", "")
	_ = script.Add("__effect", map[string]any{})
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__dt", 0.0)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("effects: compile %s: %w", path, err)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Script{
		Path:     path,
		Kind:     kind,
		Logger:   logger,
		compiled: compiled,
		state:    make(map[*component.StatusEffect]*tengo.Map),
	}, nil
}

func (s *Script) OnApply(ctx *component.EffectContext) {
	s.run("apply", ctx, 0)
}

func (s *Script) OnTick(ctx *component.EffectContext, dt float64) {
	s.run("tick", ctx, dt)
}

func (s *Script) OnExpire(ctx *component.EffectContext) {
	s.run("expire", ctx, 0)
}

// run executes one hook. The compiled program holds its lock while a hook
// runs, so a hook triggered from inside another one (lethal engine.damage
// clearing the owner's effects) is queued and run once the outer hook returns.
func (s *Script) run(phase string, ctx *component.EffectContext, dt float64) {
	if s == nil || s.compiled == nil || ctx == nil {
		return
	}
	if s.running {
		s.pending = append(s.pending, scriptHook{phase: phase, ctx: ctx, dt: dt})
		return
	}

	s.running = true
	defer func() { s.running = false }()

	s.exec(scriptHook{phase: phase, ctx: ctx, dt: dt})
	for len(s.pending) > 0 {
		next := s.pending[0]
		s.pending = s.pending[1:]
		s.exec(next)
	}
}

func (s *Script) exec(h scriptHook) {
	err := s.runPhase(h.phase, h.ctx, h.dt)
	if err != nil {
		s.Logger.WithFields(logrus.Fields{
			"script": s.Path,
			"phase":  h.phase,
			"effect": h.ctx.Effect.Name(),
			"entity": h.ctx.Owner,
		}).WithError(err).Error("effects: script hook failed")
	}
	if h.phase == "expire" {
		delete(s.state, h.ctx.Effect)
	}
}

func (s *Script) runPhase(phase string, ctx *component.EffectContext, dt float64) error {
	if err := s.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := s.compiled.Set("__effect", s.effectObject(ctx.Effect)); err != nil {
		return err
	}
	if err := s.compiled.Set("__engine", s.engine(ctx)); err != nil {
		return err
	}
	if err := s.compiled.Set("__dt", dt); err != nil {
		return err
	}
	return s.compiled.Run()
}

func (s *Script) effectObject(e *component.StatusEffect) *tengo.ImmutableMap {
	state, ok := s.state[e]
	if !ok {
		state = &tengo.Map{Value: map[string]tengo.Object{}}
		s.state[e] = state
	}
	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"name":      &tengo.String{Value: e.Name()},
		"stacks":    &tengo.Int{Value: int64(e.Stacks)},
		"remaining": &tengo.Float{Value: e.Remaining},
		"state":     state,
	}}
}

func (s *Script) engine(ctx *component.EffectContext) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["damage"] = &tengo.UserFunction{Name: "damage", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if ctx.Stats == nil || len(args) < 1 {
			return &tengo.Float{Value: 0}, nil
		}
		amount, ok := tengo.ToFloat64(args[0])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "amount", Expected: "float", Found: args[0].TypeName()}
		}
		kind := s.Kind
		if len(args) > 1 {
			if name, ok := tengo.ToString(args[1]); ok {
				if k, ok := component.ParseDamageKind(name); ok {
					kind = k
				}
			}
		}
		dealt := ctx.Stats.ProcessDamage(&component.Damage{Amount: amount, Kind: kind})
		return &tengo.Float{Value: dealt}, nil
	}}

	values["heal"] = &tengo.UserFunction{Name: "heal", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if ctx.Stats == nil || len(args) < 1 {
			return &tengo.Float{Value: 0}, nil
		}
		amount, ok := tengo.ToFloat64(args[0])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "amount", Expected: "float", Found: args[0].TypeName()}
		}
		return &tengo.Float{Value: ctx.Stats.Heal(amount)}, nil
	}}

	values["health"] = &tengo.UserFunction{Name: "health", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if ctx.Stats == nil {
			return &tengo.Float{Value: 0}, nil
		}
		return &tengo.Float{Value: ctx.Stats.Health()}, nil
	}}

	values["max_health"] = &tengo.UserFunction{Name: "max_health", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if ctx.Stats == nil {
			return &tengo.Float{Value: 0}, nil
		}
		return &tengo.Float{Value: ctx.Stats.MaxHealth}, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}
