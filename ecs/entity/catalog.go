package entity

import (
	"fmt"
	"sort"

	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/component"
	"github.com/milk9111/skirmish/effects"
	"github.com/milk9111/skirmish/prefabs"
	"github.com/sirupsen/logrus"
)

// Defaults fill actor and knockback fields a combatant spec leaves at zero.
type Defaults struct {
	Actor              component.ActorConfig
	KnockbackFriction  float64
	KnockbackThreshold float64
}

// Catalog holds the runtime attack definitions and effect templates built
// from a prefab library.
type Catalog struct {
	Library  *prefabs.Library
	Attacks  map[string]*component.AttackDefinition
	Effects  map[string]*component.StatusEffectTemplate
	Defaults Defaults
	Rand     component.RandomSource
	Logger   logrus.FieldLogger
}

// NewCatalog converts lib. Script effects are compiled here so a broken
// script fails the load instead of the first hit.
func NewCatalog(lib *prefabs.Library, defaults Defaults, rng component.RandomSource, logger logrus.FieldLogger) (*Catalog, error) {
	if lib == nil {
		return nil, fmt.Errorf("entity: catalog: library is nil")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	c := &Catalog{
		Library:  lib,
		Attacks:  make(map[string]*component.AttackDefinition, len(lib.Attacks)),
		Effects:  make(map[string]*component.StatusEffectTemplate, len(lib.Effects)),
		Defaults: defaults,
		Rand:     rng,
		Logger:   logger,
	}

	for _, name := range sortedKeys(lib.Effects) {
		tmpl, err := c.buildEffect(lib.Effects[name])
		if err != nil {
			return nil, fmt.Errorf("entity: effect %q: %w", name, err)
		}
		c.Effects[name] = tmpl
	}
	for _, name := range sortedKeys(lib.Attacks) {
		def, err := c.buildAttack(lib.Attacks[name])
		if err != nil {
			return nil, fmt.Errorf("entity: attack %q: %w", name, err)
		}
		c.Attacks[name] = def
	}
	return c, nil
}

func (c *Catalog) buildEffect(spec prefabs.EffectSpec) (*component.StatusEffectTemplate, error) {
	behavior, err := c.buildBehavior(spec)
	if err != nil {
		return nil, err
	}
	return &component.StatusEffectTemplate{
		Name:             spec.Name,
		Duration:         spec.Duration,
		Stackable:        spec.Stackable,
		MaxStacks:        spec.MaxStacks,
		RefreshOnReapply: spec.RefreshOnReapply,
		Behavior:         behavior,
	}, nil
}

func (c *Catalog) buildBehavior(spec prefabs.EffectSpec) (component.EffectBehavior, error) {
	switch spec.Behavior.Type {
	case "":
		return nil, nil
	case prefabs.BehaviorDamageOverTime:
		dot, err := prefabs.DecodeBehaviorSpec[prefabs.DamageOverTimeSpec](spec.Behavior)
		if err != nil {
			return nil, err
		}
		kind, err := parseKind(dot.Kind)
		if err != nil {
			return nil, err
		}
		return &effects.DamageOverTime{DamagePerSecond: dot.DamagePerSecond, Interval: dot.Interval, Kind: kind}, nil
	case prefabs.BehaviorStatModifier:
		mod, err := prefabs.DecodeBehaviorSpec[prefabs.StatModifierSpec](spec.Behavior)
		if err != nil {
			return nil, err
		}
		return &effects.StatModifier{Defense: mod.Defense, DamageReduction: mod.DamageReduction}, nil
	case prefabs.BehaviorRegen:
		regen, err := prefabs.DecodeBehaviorSpec[prefabs.RegenSpec](spec.Behavior)
		if err != nil {
			return nil, err
		}
		return &effects.Regen{HealPerSecond: regen.HealPerSecond}, nil
	case prefabs.BehaviorScript:
		s, err := prefabs.DecodeBehaviorSpec[prefabs.ScriptSpec](spec.Behavior)
		if err != nil {
			return nil, err
		}
		kind, err := parseKind(s.Kind)
		if err != nil {
			return nil, err
		}
		src, ok := c.Library.Scripts[s.Script]
		if !ok {
			return nil, fmt.Errorf("script %s not loaded", s.Script)
		}
		return effects.NewScript(s.Script, src, kind, c.Logger.WithField("effect", spec.Name))
	default:
		return nil, fmt.Errorf("%w: %q", prefabs.ErrUnknownBehavior, spec.Behavior.Type)
	}
}

func (c *Catalog) buildAttack(spec prefabs.AttackSpec) (*component.AttackDefinition, error) {
	kind, err := parseKind(spec.Kind)
	if err != nil {
		return nil, err
	}
	def := &component.AttackDefinition{
		Name:        spec.Name,
		WindUp:      spec.WindUp,
		Active:      spec.Active,
		Recovery:    spec.Recovery,
		Speed:       spec.Speed,
		Damage:      spec.Damage,
		Kind:        kind,
		Knockback:   spec.Knockback,
		PoiseDamage: spec.PoiseDamage,
		CanCrit:     spec.CanCrit,
		MultiHit:    spec.MultiHit,
		HitInterval: spec.HitInterval,
		Hitboxes:    make(map[component.Facing]common.Rect, len(spec.Hitboxes)),
	}
	for _, name := range spec.OnHit {
		tmpl, ok := c.Effects[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", prefabs.ErrUnknownEffect, name)
		}
		def.OnHit = append(def.OnHit, tmpl)
	}
	for name, r := range spec.Hitboxes {
		facing, ok := component.ParseFacing(name)
		if !ok {
			return nil, fmt.Errorf("unknown facing %q", name)
		}
		def.Hitboxes[facing] = rect(r)
	}
	return def, nil
}

// Attack returns the definition for name, or nil for an empty name.
func (c *Catalog) Attack(name string) (*component.AttackDefinition, error) {
	if name == "" {
		return nil, nil
	}
	def, ok := c.Attacks[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", prefabs.ErrUnknownAttack, name)
	}
	return def, nil
}

func parseKind(name string) (component.DamageKind, error) {
	kind, ok := component.ParseDamageKind(name)
	if !ok {
		return kind, fmt.Errorf("unknown damage kind %q", name)
	}
	return kind, nil
}

func rect(r prefabs.RectSpec) common.Rect {
	return common.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
