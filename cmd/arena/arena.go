package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/component"
	"github.com/milk9111/skirmish/config"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/entity"
	"github.com/milk9111/skirmish/ecs/system"
	"github.com/milk9111/skirmish/prefabs"
	"github.com/milk9111/skirmish/telemetry"
	"github.com/sirupsen/logrus"
)

const (
	hitFreezeFrames  = 3
	critFreezeFrames = 6
	flashFrames      = 12
	flashInterval    = 3
)

var arenaBounds = common.Rect{X: 40, Y: 60, Width: baseWidth - 80, Height: baseHeight - 100}

// Arena owns the world and the catalog it was spawned from.
type Arena struct {
	cfg     *config.Config
	logger  logrus.FieldLogger
	metrics *telemetry.Metrics
	rng     *rand.Rand

	playerName string
	opponents  []string

	world   *ecs.World
	catalog *entity.Catalog
	player  ecs.Entity
	rival   ecs.Entity
	flash   *system.WhiteFlashSystem

	// OnFreeze receives hit-stop requests from the current world.
	OnFreeze func(frames int)
}

func NewArena(cfg *config.Config, logger logrus.FieldLogger, metrics *telemetry.Metrics, player string, opponents []string) (*Arena, error) {
	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	a := &Arena{
		cfg:        cfg,
		logger:     logger,
		metrics:    metrics,
		rng:        rand.New(rand.NewSource(seed)),
		playerName: player,
		opponents:  opponents,
	}
	if err := a.loadCatalog(); err != nil {
		return nil, err
	}
	if err := a.Reset(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Arena) World() *ecs.World {
	return a.world
}

func (a *Arena) Player() ecs.Entity {
	return a.player
}

// Rival is the first opponent; a connected gamepad controls it.
func (a *Arena) Rival() ecs.Entity {
	return a.rival
}

func (a *Arena) Catalog() *entity.Catalog {
	return a.catalog
}

// Flashing reports whether e was hit recently enough to blink.
func (a *Arena) Flashing(e ecs.Entity) bool {
	return a.flash != nil && a.flash.Flashing(e)
}

func (a *Arena) freeze(frames int) {
	if a.OnFreeze != nil {
		a.OnFreeze(frames)
	}
}

func (a *Arena) loadCatalog() error {
	lib, err := prefabs.LoadLibrary()
	if err != nil {
		return err
	}
	catalog, err := entity.NewCatalog(lib, defaultsFrom(a.cfg.Combat), a.rng, a.logger)
	if err != nil {
		return err
	}
	a.catalog = catalog
	return nil
}

// Reset discards the current world and spawns every combatant afresh.
func (a *Arena) Reset() error {
	w := ecs.NewWorld(a.cfg.Simulation.TickRate)
	w.SetPhysicsWorld(ecs.NewPhysicsWorld(w.Events()))
	w.Emitter().Subscribe(telemetry.EventLogger(a.logger))
	if a.metrics != nil {
		w.Emitter().Subscribe(a.metrics.Observe)
	}

	system.Install(w)
	w.AddSystem(system.NewBoundsSystem(arenaBounds))
	w.AddSystem(system.NewHitFreezeSystem(w, hitFreezeFrames, critFreezeFrames, a.freeze))
	flash := system.NewWhiteFlashSystem(w, flashFrames, flashInterval)
	w.AddSystem(flash)

	center := arenaBounds.Center()
	player, err := entity.SpawnCombatant(w, a.catalog, a.playerName, cp.Vector{X: arenaBounds.X + arenaBounds.Width*0.25, Y: center.Y})
	if err != nil {
		return fmt.Errorf("arena: spawn player: %w", err)
	}
	spacing := arenaBounds.Height / float64(len(a.opponents)+1)
	opponents := make([]ecs.Entity, 0, len(a.opponents))
	for i, name := range a.opponents {
		pos := cp.Vector{X: arenaBounds.X + arenaBounds.Width*0.7, Y: arenaBounds.Y + spacing*float64(i+1)}
		e, err := entity.SpawnCombatant(w, a.catalog, name, pos)
		if err != nil {
			return fmt.Errorf("arena: spawn opponent: %w", err)
		}
		opponents = append(opponents, e)
	}

	a.world = w
	a.player = player
	a.rival = 0
	if len(opponents) > 0 {
		a.rival = opponents[0]
	}
	a.flash = flash
	a.logger.WithFields(logrus.Fields{"player": a.playerName, "opponents": len(a.opponents)}).Info("arena: reset")
	return nil
}

// Reload rebuilds the catalog from the prefab files and re-equips the live
// combatants. The previous catalog stays in use when the new one fails.
func (a *Arena) Reload() error {
	if err := a.loadCatalog(); err != nil {
		return err
	}
	n := entity.Refit(a.world, a.catalog)
	a.logger.WithField("combatants", n).Info("arena: prefabs reloaded")
	return nil
}

func defaultsFrom(c config.CombatConfig) entity.Defaults {
	return entity.Defaults{
		Actor: component.ActorConfig{
			MoveSpeed:        c.MoveSpeed,
			DashDuration:     c.DashDuration,
			DashSpeed:        c.DashSpeed,
			DashIFrames:      c.DashIFrames,
			TeleportDuration: c.TeleportDuration,
			TeleportDelay:    c.TeleportDelay,
			TeleportDistance: c.TeleportDistance,
			StaggerDuration:  c.StaggerDuration,
		},
		KnockbackFriction:  c.KnockbackFriction,
		KnockbackThreshold: c.KnockbackThreshold,
	}
}
