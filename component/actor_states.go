package component

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/skirmish/common"
)

// Actor state singletons (avoid allocations on transitions).
var (
	actorStateIdle        ActorState = &actorIdleState{}
	actorStateAttacking   ActorState = &actorAttackingState{}
	actorStateDashing     ActorState = &actorDashingState{}
	actorStateTeleporting ActorState = &actorTeleportingState{}
	actorStateStaggered   ActorState = &actorStaggeredState{}
	actorStateDead        ActorState = &actorDeadState{}
)

type actorIdleState struct{}

type actorAttackingState struct{}

type actorDashingState struct{}

type actorTeleportingState struct{}

type actorStaggeredState struct{}

type actorDeadState struct{}

func (actorIdleState) Name() ActorStateID           { return StateIdle }
func (actorIdleState) Enter(ctx *ActorStateContext) {}
func (actorIdleState) Exit(ctx *ActorStateContext)  {}
func (actorIdleState) HandleInput(ctx *ActorStateContext) {
	a := ctx.Actor
	in := ctx.Intent
	aim := in.Aim
	if aim.LengthSq() == 0 {
		aim = in.Move
	}

	if in.Skill > 0 {
		if def := a.Skill(in.Skill); def != nil && a.StartAttack(def, aim) {
			return
		}
	}
	if in.Attack && a.StartAttack(nil, aim) {
		return
	}
	if in.Dash {
		if in.Move.LengthSq() > 0 {
			a.facing = FacingFromVector(in.Move, a.facing)
		}
		if a.Dash(a.Config.DashDuration) {
			a.moveDir = common.NormalizeOr(in.Move, a.facing.Vector())
			return
		}
	}
	if in.Teleport {
		a.moveDir = aim
		if a.Teleport(a.Config.TeleportDuration) {
			return
		}
		a.moveDir = cp.Vector{}
	}
}
func (actorIdleState) Update(ctx *ActorStateContext) {
	a := ctx.Actor
	move := ctx.Intent.Move
	if length := move.Length(); length > 1 {
		move = move.Mult(1 / length)
	}
	if move.LengthSq() > 0 {
		a.facing = FacingFromVector(move, a.facing)
	}
	a.velocity = move.Mult(a.Config.MoveSpeed)
	a.timer += ctx.Dt
}

func (actorAttackingState) Name() ActorStateID           { return StateAttacking }
func (actorAttackingState) Enter(ctx *ActorStateContext) {}
func (actorAttackingState) Exit(ctx *ActorStateContext) {
	ctx.Actor.Attack.Cancel()
}
func (actorAttackingState) HandleInput(ctx *ActorStateContext) {}
func (actorAttackingState) Update(ctx *ActorStateContext) {
	a := ctx.Actor
	a.velocity = cp.Vector{}
	a.timer += ctx.Dt
	if !a.Attack.IsAttacking() {
		a.ChangeState(actorStateIdle)
		return
	}
	a.Attack.Tick(ctx.Dt)
}

func (actorDashingState) Name() ActorStateID { return StateDashing }
func (actorDashingState) Enter(ctx *ActorStateContext) {
	a := ctx.Actor
	if a.moveDir.LengthSq() == 0 {
		a.moveDir = a.facing.Vector()
	}
	a.dashIFrames = 0
	if a.Config.DashIFrames > 0 && a.Stats != nil {
		a.Stats.SetInvincible(a.Config.DashIFrames)
		a.dashIFrames = a.Config.DashIFrames
	}
}
func (actorDashingState) Exit(ctx *ActorStateContext) {
	a := ctx.Actor
	if a.dashIFrames > 0 && a.timer < a.dashIFrames-common.Epsilon {
		a.Stats.ClearInvincibility()
	}
	a.dashIFrames = 0
	a.moveDir = cp.Vector{}
}
func (actorDashingState) HandleInput(ctx *ActorStateContext) {}
func (actorDashingState) Update(ctx *ActorStateContext) {
	a := ctx.Actor
	a.velocity = a.moveDir.Mult(a.Config.DashSpeed)
	a.timer += ctx.Dt
	if a.timer >= a.duration-common.Epsilon {
		a.ChangeState(actorStateIdle)
	}
}

func (actorTeleportingState) Name() ActorStateID { return StateTeleporting }
func (actorTeleportingState) Enter(ctx *ActorStateContext) {
	ctx.Actor.teleported = false
}
func (actorTeleportingState) Exit(ctx *ActorStateContext) {
	ctx.Actor.teleported = false
	ctx.Actor.moveDir = cp.Vector{}
}
func (actorTeleportingState) HandleInput(ctx *ActorStateContext) {
	a := ctx.Actor
	if a.teleported {
		return
	}
	if ctx.Intent.Aim.LengthSq() > 0 {
		a.moveDir = ctx.Intent.Aim
	} else if ctx.Intent.Move.LengthSq() > 0 {
		a.moveDir = ctx.Intent.Move
	}
}
func (actorTeleportingState) Update(ctx *ActorStateContext) {
	a := ctx.Actor
	a.velocity = cp.Vector{}
	a.timer += ctx.Dt
	if !a.teleported && a.timer >= a.Config.TeleportDelay-common.Epsilon {
		a.teleported = true
		if a.Body != nil {
			dir := common.NormalizeOr(a.moveDir, a.facing.Vector())
			a.facing = FacingFromVector(dir, a.facing)
			a.Body.SetPosition(a.Body.Position().Add(dir.Mult(a.Config.TeleportDistance)))
		}
	}
	if a.timer >= math.Max(a.duration, a.Config.TeleportDelay)-common.Epsilon {
		a.ChangeState(actorStateIdle)
	}
}

func (actorStaggeredState) Name() ActorStateID                 { return StateStaggered }
func (actorStaggeredState) Enter(ctx *ActorStateContext)       {}
func (actorStaggeredState) Exit(ctx *ActorStateContext)        {}
func (actorStaggeredState) HandleInput(ctx *ActorStateContext) {}
func (actorStaggeredState) Update(ctx *ActorStateContext) {
	a := ctx.Actor
	a.velocity = cp.Vector{}
	a.timer += ctx.Dt
	if a.timer >= a.Config.StaggerDuration-common.Epsilon {
		a.Stats.ResetPoise()
		a.ChangeState(actorStateIdle)
	}
}

func (actorDeadState) Name() ActorStateID { return StateDead }
func (actorDeadState) Enter(ctx *ActorStateContext) {
	a := ctx.Actor
	a.Attack.Cancel()
	a.Effects.ClearAllEffects()
}
func (actorDeadState) Exit(ctx *ActorStateContext)        {}
func (actorDeadState) HandleInput(ctx *ActorStateContext) {}
func (actorDeadState) Update(ctx *ActorStateContext) {
	ctx.Actor.velocity = cp.Vector{}
}
