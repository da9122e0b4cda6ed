package entity

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/skirmish/component"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/prefabs"
	"github.com/sirupsen/logrus"
)

type buildContext struct {
	Catalog  *Catalog
	Spec     prefabs.CombatantSpec
	Owner    uint64
	Position cp.Vector
	Emitter  *component.CombatEventEmitter
	Logger   logrus.FieldLogger
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"emitter":   addEmitter,
	"stats":     addStats,
	"effects":   addEffects,
	"knockback": addKnockback,
	"body":      addBody,
	"hurtboxes": addHurtboxes,
	"attack":    addAttack,
	"actor":     addActor,
	"intent":    addIntent,
}

// Later components read earlier ones from the world.
var componentBuildOrder = []string{
	"emitter",
	"stats",
	"effects",
	"knockback",
	"body",
	"hurtboxes",
	"attack",
	"actor",
	"intent",
}

// SpawnCombatant builds the named combatant at pos with every combat
// component wired to its own emitter, which forwards to the world emitter.
func SpawnCombatant(w *ecs.World, c *Catalog, name string, pos cp.Vector) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}
	if c == nil || c.Library == nil {
		return 0, fmt.Errorf("build entity: catalog is nil")
	}
	if w.PhysicsWorld() == nil {
		w.SetPhysicsWorld(ecs.NewPhysicsWorld(w.Events()))
	}
	spec, ok := c.Library.Combatants[name]
	if !ok {
		return 0, fmt.Errorf("build entity: combatant %q: %w", name, prefabs.ErrUnknownCombatant)
	}

	e := w.CreateEntity()
	ctx := &buildContext{
		Catalog:  c,
		Spec:     spec,
		Owner:    e.Owner(),
		Position: pos,
		Logger:   c.Logger.WithFields(logrus.Fields{"combatant": name, "entity": e.String()}),
	}

	for _, step := range componentBuildOrder {
		builder, ok := componentRegistry[step]
		if !ok {
			w.DestroyEntity(e)
			return 0, fmt.Errorf("build entity: %q: no builder for component %q", name, step)
		}
		if err := builder(w, e, ctx); err != nil {
			w.DestroyEntity(e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", name, step, err)
		}
	}
	w.Names().Set(e, name)
	return e, nil
}

func addEmitter(w *ecs.World, e ecs.Entity, ctx *buildContext) error {
	ctx.Emitter = &component.CombatEventEmitter{}
	ctx.Emitter.Subscribe(w.Emitter().Forward())
	w.Emitters().Set(e, ctx.Emitter)
	return nil
}

// A combatant without max_health is a prop: it has hurtboxes for blocking
// but takes no damage.
func addStats(w *ecs.World, e ecs.Entity, ctx *buildContext) error {
	s := ctx.Spec.Stats
	if s.MaxHealth <= 0 {
		return nil
	}
	resist := make(map[component.DamageKind]float64, len(s.Resistances))
	for name, v := range s.Resistances {
		kind, err := parseKind(name)
		if err != nil {
			return err
		}
		resist[kind] = v
	}
	stats := component.NewCombatStats(ctx.Owner, component.StatsConfig{
		MaxHealth:             s.MaxHealth,
		Defense:               s.Defense,
		DamageReduction:       s.DamageReduction,
		Resistances:           resist,
		MaxPoise:              s.MaxPoise,
		PoiseRegenRate:        s.PoiseRegenRate,
		PoiseRegenDelay:       s.PoiseRegenDelay,
		CritChance:            s.CritChance,
		CritMultiplier:        s.CritMultiplier,
		InvincibilityDuration: s.InvincibilityDuration,
	}, ctx.Catalog.Rand, ctx.Emitter)
	w.Stats().Set(e, stats)
	return nil
}

func addEffects(w *ecs.World, e ecs.Entity, ctx *buildContext) error {
	stats := ecs.Lookup(w.Stats(), e)
	w.Effects().Set(e, component.NewStatusEffectRegistry(ctx.Owner, stats, ctx.Emitter))
	return nil
}

func addKnockback(w *ecs.World, e ecs.Entity, ctx *buildContext) error {
	spec := ctx.Spec.Knockback
	mult := 1.0
	if spec.Multiplier != nil {
		mult = *spec.Multiplier
	}
	friction := orDefault(spec.Friction, ctx.Catalog.Defaults.KnockbackFriction)
	threshold := orDefault(spec.Threshold, ctx.Catalog.Defaults.KnockbackThreshold)
	w.Knockbacks().Set(e, component.NewKnockback(ctx.Owner, mult, friction, threshold, ctx.Emitter))
	return nil
}

func addBody(w *ecs.World, e ecs.Entity, ctx *buildContext) error {
	body := w.PhysicsWorld().EnsureBody(e, ctx.Position)
	if body == nil {
		return fmt.Errorf("no physics body")
	}
	w.Bodies().Set(e, body)
	return nil
}

func addHurtboxes(w *ecs.World, e ecs.Entity, ctx *buildContext) error {
	if len(ctx.Spec.Hurtboxes) == 0 {
		return nil
	}
	stats := ecs.Lookup(w.Stats(), e)
	if stats == nil {
		ctx.Logger.Warn("entity: hurtbox without combat stats; hits will be ignored")
	}
	reg := ecs.Lookup(w.Effects(), e)

	pw := w.PhysicsWorld()
	hurtboxes := make([]*component.Hurtbox, 0, len(ctx.Spec.Hurtboxes))
	for i, r := range ctx.Spec.Hurtboxes {
		hb := &component.Hurtbox{
			ID:     i + 1,
			Owner:  ctx.Owner,
			Active: true,
			Rect:   rect(r),
		}
		if stats != nil {
			hb.Target = stats
			hb.Effects = reg
		}
		pw.AddHurtbox(e, hb)
		hurtboxes = append(hurtboxes, hb)
	}
	w.Hurtboxes().Set(e, hurtboxes)
	return nil
}

func addAttack(w *ecs.World, e ecs.Entity, ctx *buildContext) error {
	weapon, err := ctx.Catalog.Attack(ctx.Spec.Weapon)
	if err != nil {
		return err
	}
	hb := &component.Hitbox{ID: 1, Owner: ctx.Owner, Emitter: ctx.Emitter}
	w.PhysicsWorld().AddHitbox(e, hb)
	w.Hitboxes().Set(e, hb)
	w.Attacks().Set(e, component.NewAttackLifecycle(ctx.Owner, weapon, hb, ctx.Emitter))
	return nil
}

func addActor(w *ecs.World, e ecs.Entity, ctx *buildContext) error {
	skills := make([]*component.AttackDefinition, 0, len(ctx.Spec.Skills))
	for _, name := range ctx.Spec.Skills {
		def, err := ctx.Catalog.Attack(name)
		if err != nil {
			return err
		}
		skills = append(skills, def)
	}

	actor := component.NewActor(ctx.Owner, actorConfig(ctx.Spec.Actor, ctx.Catalog.Defaults.Actor), ctx.Emitter)
	actor.Stats = ecs.Lookup(w.Stats(), e)
	actor.Effects = ecs.Lookup(w.Effects(), e)
	actor.Attack = ecs.Lookup(w.Attacks(), e)
	actor.Knockback = ecs.Lookup(w.Knockbacks(), e)
	actor.Body = ecs.Lookup(w.Bodies(), e)
	actor.Skills = skills
	w.Actors().Set(e, actor)
	return nil
}

func addIntent(w *ecs.World, e ecs.Entity, _ *buildContext) error {
	w.Intents().Set(e, &component.Intent{})
	return nil
}

func actorConfig(spec prefabs.ActorSpec, def component.ActorConfig) component.ActorConfig {
	return component.ActorConfig{
		MoveSpeed:        orDefault(spec.MoveSpeed, def.MoveSpeed),
		DashDuration:     orDefault(spec.DashDuration, def.DashDuration),
		DashSpeed:        orDefault(spec.DashSpeed, def.DashSpeed),
		DashIFrames:      orDefault(spec.DashIFrames, def.DashIFrames),
		TeleportDuration: orDefault(spec.TeleportDuration, def.TeleportDuration),
		TeleportDelay:    orDefault(spec.TeleportDelay, def.TeleportDelay),
		TeleportDistance: orDefault(spec.TeleportDistance, def.TeleportDistance),
		StaggerDuration:  orDefault(spec.StaggerDuration, def.StaggerDuration),
	}
}

func orDefault(v, def float64) float64 {
	if v > 0 {
		return v
	}
	return def
}
