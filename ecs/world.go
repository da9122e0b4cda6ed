package ecs

import "github.com/milk9111/skirmish/component"

// DefaultTickRate is the fixed simulation rate used when none is configured.
const DefaultTickRate = 60

// World owns entities, components, the per-tick event queue and system order.
// Everything runs on the caller's goroutine.
type World struct {
	entities  entityStore
	scheduler *Scheduler
	events    EventQueue
	emitter   *component.CombatEventEmitter
	dt        float64
	tick      uint64
	paused    bool

	names      *SparseSet[string]
	emitters   *SparseSet[*component.CombatEventEmitter]
	stats      *SparseSet[*component.CombatStats]
	effects    *SparseSet[*component.StatusEffectRegistry]
	hitboxes   *SparseSet[*component.Hitbox]
	hurtboxes  *SparseSet[[]*component.Hurtbox]
	knockbacks *SparseSet[*component.Knockback]
	attacks    *SparseSet[*component.AttackLifecycle]
	actors     *SparseSet[*component.Actor]
	intents    *SparseSet[*component.Intent]
	bodies     *SparseSet[*Body]

	physicsWorld *PhysicsWorld
}

// NewWorld creates an empty world stepping tickRate times per second.
func NewWorld(tickRate int) *World {
	if tickRate <= 0 {
		tickRate = DefaultTickRate
	}
	return &World{
		scheduler: NewScheduler(),
		emitter:   &component.CombatEventEmitter{},
		dt:        1 / float64(tickRate),
	}
}

// CreateEntity allocates a new entity.
func (w *World) CreateEntity() Entity {
	return w.entities.create()
}

// DestroyEntity drops every component of e and removes its physics shapes.
func (w *World) DestroyEntity(e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	w.physicsWorld.RemoveEntity(e)
	w.Names().Remove(e)
	w.Emitters().Remove(e)
	w.Stats().Remove(e)
	w.Effects().Remove(e)
	w.Hitboxes().Remove(e)
	w.Hurtboxes().Remove(e)
	w.Knockbacks().Remove(e)
	w.Attacks().Remove(e)
	w.Actors().Remove(e)
	w.Intents().Remove(e)
	w.Bodies().Remove(e)
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// EntityCount returns the number of live entities.
func (w *World) EntityCount() int {
	if w == nil {
		return 0
	}
	return w.entities.count()
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	if w == nil || s == nil {
		return
	}
	w.scheduler.Add(s)
}

// Update runs all systems once and discards events nobody drained.
func (w *World) Update() {
	if w == nil || w.paused {
		return
	}
	w.tick++
	w.scheduler.Update(w)
	w.events.flush()
}

// Dt is the fixed step in seconds.
func (w *World) Dt() float64 {
	if w == nil {
		return 0
	}
	return w.dt
}

// Tick is the number of completed updates.
func (w *World) Tick() uint64 {
	if w == nil {
		return 0
	}
	return w.tick
}

func (w *World) SetPaused(paused bool) {
	if w == nil {
		return
	}
	w.paused = paused
}

func (w *World) Paused() bool {
	return w != nil && w.paused
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// Emitter is the world-level combat event sink. Per-entity emitters forward
// here; loggers and metrics subscribe to it.
func (w *World) Emitter() *component.CombatEventEmitter {
	if w == nil {
		return nil
	}
	return w.emitter
}

// SetPhysicsWorld attaches a physics world to this ECS world.
func (w *World) SetPhysicsWorld(pw *PhysicsWorld) {
	if w == nil {
		return
	}
	w.physicsWorld = pw
}

// PhysicsWorld returns the attached physics world, if any.
func (w *World) PhysicsWorld() *PhysicsWorld {
	if w == nil {
		return nil
	}
	return w.physicsWorld
}
