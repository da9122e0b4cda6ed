package component

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/skirmish/common"
)

// ActorStateID names a top-level actor state.
type ActorStateID string

const (
	StateIdle        ActorStateID = "idle"
	StateAttacking   ActorStateID = "attacking"
	StateDashing     ActorStateID = "dashing"
	StateTeleporting ActorStateID = "teleporting"
	StateStaggered   ActorStateID = "staggered"
	StateDead        ActorStateID = "dead"
)

// ActorState defines the interface for actor state machine states.
// Each state owns its own enter/exit, input handling, and update logic.
type ActorState interface {
	Name() ActorStateID
	Enter(ctx *ActorStateContext)
	Exit(ctx *ActorStateContext)
	HandleInput(ctx *ActorStateContext)
	Update(ctx *ActorStateContext)
}

// ActorStateContext is what a state sees during one step.
type ActorStateContext struct {
	Actor  *Actor
	Intent Intent
	Dt     float64
}

// Intent is the per-tick command for an actor. Skill is a 1-based skill
// slot; 0 means no skill was pressed.
type Intent struct {
	Move     cp.Vector
	Aim      cp.Vector
	Attack   bool
	Dash     bool
	Teleport bool
	Skill    int
}

// ActorConfig holds movement and state timings in seconds.
type ActorConfig struct {
	MoveSpeed        float64
	DashDuration     float64
	DashSpeed        float64
	DashIFrames      float64
	TeleportDuration float64
	TeleportDelay    float64
	TeleportDistance float64
	StaggerDuration  float64
}

// Body is the positional handle of an actor in the physics world.
type Body interface {
	Position() cp.Vector
	SetPosition(p cp.Vector)
}

// Actor is the top-level per-entity state machine. It reacts to its own
// entity's combat events and arbitrates which subsystems run each tick.
type Actor struct {
	Owner     uint64
	Config    ActorConfig
	Stats     *CombatStats
	Attack    *AttackLifecycle
	Knockback *Knockback
	Effects   *StatusEffectRegistry
	Body      Body
	Skills    []*AttackDefinition
	Emitter   *CombatEventEmitter

	state    ActorState
	timer    float64
	duration float64
	facing   Facing
	velocity cp.Vector
	moveDir  cp.Vector

	teleported  bool
	dashIFrames float64
}

// NewActor creates an idle actor and subscribes it to emitter, which must be
// the owning entity's own emitter.
func NewActor(owner uint64, cfg ActorConfig, emitter *CombatEventEmitter) *Actor {
	a := &Actor{
		Owner:   owner,
		Config:  cfg,
		Emitter: emitter,
		state:   actorStateIdle,
	}
	emitter.Subscribe(a.handleEvent)
	return a
}

func (a *Actor) State() ActorStateID {
	if a == nil || a.state == nil {
		return ""
	}
	return a.state.Name()
}

func (a *Actor) IsDead() bool {
	return a.State() == StateDead
}

// Velocity is the locomotion velocity the actor wants this tick.
func (a *Actor) Velocity() cp.Vector {
	if a == nil {
		return cp.Vector{}
	}
	return a.velocity
}

func (a *Actor) Facing() Facing {
	if a == nil {
		return FacingRight
	}
	return a.facing
}

// StateTime returns the time spent in the current state.
func (a *Actor) StateTime() float64 {
	if a == nil {
		return 0
	}
	return a.timer
}

// Update consumes one intent and advances the current state by dt.
func (a *Actor) Update(dt float64, in Intent) {
	if a == nil || a.state == nil {
		return
	}
	ctx := &ActorStateContext{Actor: a, Intent: in, Dt: dt}
	a.state.HandleInput(ctx)
	a.state.Update(ctx)
}

// ChangeState exits the current state and enters next. Dead is terminal.
func (a *Actor) ChangeState(next ActorState) bool {
	if a == nil || next == nil {
		return false
	}
	if a.state != nil && a.state.Name() == StateDead {
		return false
	}
	ctx := &ActorStateContext{Actor: a}
	if a.state != nil {
		a.state.Exit(ctx)
	}
	a.state = next
	a.timer = 0
	a.duration = 0
	a.velocity = cp.Vector{}
	next.Enter(ctx)
	a.emit(CombatEvent{Type: EventActorStateChanged, State: next.Name()})
	return true
}

// Dash starts a dash of the given duration along the current facing.
func (a *Actor) Dash(duration float64) bool {
	if a == nil || a.State() != StateIdle || duration <= 0 {
		return false
	}
	a.moveDir = a.facing.Vector()
	if !a.ChangeState(actorStateDashing) {
		return false
	}
	a.duration = duration
	return true
}

// Teleport starts a teleport of the given total duration.
func (a *Actor) Teleport(duration float64) bool {
	if a == nil || a.State() != StateIdle || duration <= 0 {
		return false
	}
	if !a.ChangeState(actorStateTeleporting) {
		return false
	}
	a.duration = duration
	return true
}

// StartAttack starts def (or the equipped attack when def is nil) toward
// dir. It is only accepted from Idle.
func (a *Actor) StartAttack(def *AttackDefinition, dir cp.Vector) bool {
	if a == nil || a.Attack == nil || a.State() != StateIdle {
		return false
	}
	dir = common.NormalizeOr(dir, a.facing.Vector())
	var ok bool
	if def != nil {
		ok = a.Attack.AttackWith(def, dir)
	} else {
		ok = a.Attack.Attack(dir)
	}
	if !ok {
		return false
	}
	a.facing = a.Attack.Facing()
	return a.ChangeState(actorStateAttacking)
}

// Skill returns the attack bound to a 1-based slot.
func (a *Actor) Skill(slot int) *AttackDefinition {
	if a == nil || slot < 1 || slot > len(a.Skills) {
		return nil
	}
	return a.Skills[slot-1]
}

func (a *Actor) handleEvent(evt CombatEvent) {
	if evt.Entity != a.Owner {
		return
	}
	switch evt.Type {
	case EventDied:
		a.ChangeState(actorStateDead)
	case EventPoiseBroken:
		if !a.IsDead() {
			a.ChangeState(actorStateStaggered)
		}
	case EventDamageTaken:
		if evt.Damage.Knockback > 0 && a.Knockback != nil {
			a.Knockback.ApplyKnockback(evt.Damage.Direction, evt.Damage.Knockback)
		}
	case EventAttackEnded:
		if a.State() == StateAttacking {
			a.ChangeState(actorStateIdle)
		}
	}
}

func (a *Actor) emit(evt CombatEvent) {
	if a.Emitter == nil {
		return
	}
	if evt.Entity == 0 {
		evt.Entity = a.Owner
	}
	a.Emitter.Emit(evt)
}
