package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

const (
	AttacksFile    = "attacks.yaml"
	EffectsFile    = "effects.yaml"
	CombatantsFile = "combatants.yaml"
)

type AttackSetSpec struct {
	Attacks []AttackSpec `yaml:"attacks"`
}

type AttackSpec struct {
	Name        string              `yaml:"name"`
	WindUp      float64             `yaml:"wind_up"`
	Active      float64             `yaml:"active"`
	Recovery    float64             `yaml:"recovery"`
	Speed       float64             `yaml:"speed"`
	Damage      float64             `yaml:"damage"`
	Kind        string              `yaml:"kind"`
	Knockback   float64             `yaml:"knockback"`
	PoiseDamage float64             `yaml:"poise_damage"`
	CanCrit     bool                `yaml:"can_crit"`
	MultiHit    bool                `yaml:"multi_hit"`
	HitInterval float64             `yaml:"hit_interval"`
	OnHit       []string            `yaml:"on_hit"`
	Hitboxes    map[string]RectSpec `yaml:"hitboxes"`
}

type RectSpec struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"w"`
	Height float64 `yaml:"h"`
}

type EffectSetSpec struct {
	Effects []EffectSpec `yaml:"effects"`
}

type EffectSpec struct {
	Name             string       `yaml:"name"`
	Duration         float64      `yaml:"duration"`
	Stackable        bool         `yaml:"stackable"`
	MaxStacks        int          `yaml:"max_stacks"`
	RefreshOnReapply bool         `yaml:"refresh_on_reapply"`
	Behavior         BehaviorSpec `yaml:"behavior"`
}

// BehaviorSpec names an effect behaviour; the remaining keys are its
// parameters, decoded with DecodeBehaviorSpec.
type BehaviorSpec struct {
	Type   string         `yaml:"type"`
	Params map[string]any `yaml:",inline"`
}

const (
	BehaviorDamageOverTime = "damage_over_time"
	BehaviorStatModifier   = "stat_modifier"
	BehaviorRegen          = "regen"
	BehaviorScript         = "script"
)

type DamageOverTimeSpec struct {
	DamagePerSecond float64 `yaml:"damage_per_second"`
	Interval        float64 `yaml:"interval"`
	Kind            string  `yaml:"kind"`
}

type StatModifierSpec struct {
	Defense         float64 `yaml:"defense"`
	DamageReduction float64 `yaml:"damage_reduction"`
}

type RegenSpec struct {
	HealPerSecond float64 `yaml:"heal_per_second"`
}

type ScriptSpec struct {
	Script string `yaml:"script"`
	Kind   string `yaml:"kind"`
}

type CombatantSetSpec struct {
	Combatants []CombatantSpec `yaml:"combatants"`
}

type CombatantSpec struct {
	Name      string        `yaml:"name"`
	Color     *YAMLColor    `yaml:"color"`
	Stats     StatsSpec     `yaml:"stats"`
	Actor     ActorSpec     `yaml:"actor"`
	Knockback KnockbackSpec `yaml:"knockback"`
	Hurtboxes []RectSpec    `yaml:"hurtboxes"`
	Weapon    string        `yaml:"weapon"`
	Skills    []string      `yaml:"skills"`
}

type StatsSpec struct {
	MaxHealth             float64            `yaml:"max_health"`
	Defense               float64            `yaml:"defense"`
	DamageReduction       float64            `yaml:"damage_reduction"`
	Resistances           map[string]float64 `yaml:"resistances"`
	MaxPoise              float64            `yaml:"max_poise"`
	PoiseRegenRate        float64            `yaml:"poise_regen_rate"`
	PoiseRegenDelay       float64            `yaml:"poise_regen_delay"`
	CritChance            float64            `yaml:"crit_chance"`
	CritMultiplier        float64            `yaml:"crit_multiplier"`
	InvincibilityDuration float64            `yaml:"invincibility_duration"`
}

// ActorSpec fields left at zero fall back to the configured defaults.
type ActorSpec struct {
	MoveSpeed        float64 `yaml:"move_speed"`
	DashDuration     float64 `yaml:"dash_duration"`
	DashSpeed        float64 `yaml:"dash_speed"`
	DashIFrames      float64 `yaml:"dash_iframes"`
	TeleportDuration float64 `yaml:"teleport_duration"`
	TeleportDelay    float64 `yaml:"teleport_delay"`
	TeleportDistance float64 `yaml:"teleport_distance"`
	StaggerDuration  float64 `yaml:"stagger_duration"`
}

type KnockbackSpec struct {
	Multiplier *float64 `yaml:"multiplier"`
	Friction   float64  `yaml:"friction"`
	Threshold  float64  `yaml:"threshold"`
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
