package prefabs

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrDuplicateName    = errors.New("duplicate name")
	ErrUnknownEffect    = errors.New("unknown effect")
	ErrUnknownAttack    = errors.New("unknown attack")
	ErrUnknownCombatant = errors.New("unknown combatant")
	ErrUnknownBehavior  = errors.New("unknown behavior type")
	ErrInvalidTiming    = errors.New("invalid attack timing")
)

// Library is the validated set of attack, effect and combatant specs keyed by
// name.
type Library struct {
	Attacks    map[string]AttackSpec
	Effects    map[string]EffectSpec
	Combatants map[string]CombatantSpec
	// Scripts holds the source of every script referenced by an effect.
	Scripts map[string][]byte
}

// LoadLibrary reads the three spec files and every referenced script.
func LoadLibrary() (*Library, error) {
	attacks, err := LoadSpec[AttackSetSpec](AttacksFile)
	if err != nil {
		return nil, err
	}
	effects, err := LoadSpec[EffectSetSpec](EffectsFile)
	if err != nil {
		return nil, err
	}
	combatants, err := LoadSpec[CombatantSetSpec](CombatantsFile)
	if err != nil {
		return nil, err
	}
	return NewLibrary(attacks, effects, combatants)
}

// NewLibrary indexes and cross-checks the given specs.
func NewLibrary(attacks AttackSetSpec, effects EffectSetSpec, combatants CombatantSetSpec) (*Library, error) {
	lib := &Library{
		Attacks:    make(map[string]AttackSpec, len(attacks.Attacks)),
		Effects:    make(map[string]EffectSpec, len(effects.Effects)),
		Combatants: make(map[string]CombatantSpec, len(combatants.Combatants)),
		Scripts:    make(map[string][]byte),
	}

	for _, e := range effects.Effects {
		if _, ok := lib.Effects[e.Name]; ok || e.Name == "" {
			return nil, fmt.Errorf("prefabs: effect %q: %w", e.Name, ErrDuplicateName)
		}
		if err := lib.loadBehavior(e); err != nil {
			return nil, err
		}
		lib.Effects[e.Name] = e
	}

	for _, a := range attacks.Attacks {
		if _, ok := lib.Attacks[a.Name]; ok || a.Name == "" {
			return nil, fmt.Errorf("prefabs: attack %q: %w", a.Name, ErrDuplicateName)
		}
		if a.WindUp < 0 || a.Active <= 0 || a.Recovery < 0 {
			return nil, fmt.Errorf("prefabs: attack %q: %w", a.Name, ErrInvalidTiming)
		}
		for _, name := range a.OnHit {
			if _, ok := lib.Effects[name]; !ok {
				return nil, fmt.Errorf("prefabs: attack %q on_hit %q: %w", a.Name, name, ErrUnknownEffect)
			}
		}
		lib.Attacks[a.Name] = a
	}

	for _, c := range combatants.Combatants {
		if _, ok := lib.Combatants[c.Name]; ok || c.Name == "" {
			return nil, fmt.Errorf("prefabs: combatant %q: %w", c.Name, ErrDuplicateName)
		}
		refs := append([]string{}, c.Skills...)
		if c.Weapon != "" {
			refs = append(refs, c.Weapon)
		}
		for _, name := range refs {
			if _, ok := lib.Attacks[name]; !ok {
				return nil, fmt.Errorf("prefabs: combatant %q attack %q: %w", c.Name, name, ErrUnknownAttack)
			}
		}
		lib.Combatants[c.Name] = c
	}

	return lib, nil
}

func (l *Library) loadBehavior(e EffectSpec) error {
	switch e.Behavior.Type {
	case "", BehaviorDamageOverTime, BehaviorStatModifier, BehaviorRegen:
		return nil
	case BehaviorScript:
		spec, err := DecodeBehaviorSpec[ScriptSpec](e.Behavior)
		if err != nil {
			return fmt.Errorf("prefabs: effect %q behavior: %w", e.Name, err)
		}
		if _, ok := l.Scripts[spec.Script]; ok {
			return nil
		}
		src, err := LoadScript(spec.Script)
		if err != nil {
			return fmt.Errorf("prefabs: effect %q script %s: %w", e.Name, spec.Script, err)
		}
		l.Scripts[spec.Script] = src
		return nil
	default:
		return fmt.Errorf("prefabs: effect %q behavior %q: %w", e.Name, e.Behavior.Type, ErrUnknownBehavior)
	}
}

// CombatantNames returns the combatant names sorted.
func (l *Library) CombatantNames() []string {
	if l == nil {
		return nil
	}
	names := make([]string, 0, len(l.Combatants))
	for name := range l.Combatants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
