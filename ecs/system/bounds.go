package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/ecs"
)

// BoundsSystem keeps every body inside Rect. It runs after physics so a
// knockback cannot carry a combatant out of the arena.
type BoundsSystem struct {
	Rect common.Rect
}

func NewBoundsSystem(rect common.Rect) *BoundsSystem {
	return &BoundsSystem{Rect: rect}
}

func (s *BoundsSystem) Update(w *ecs.World) {
	if w == nil || s.Rect.Empty() {
		return
	}
	ecs.Each(w.Bodies(), func(e ecs.Entity, body *ecs.Body) {
		pos := body.Position()
		clamped := cp.Vector{
			X: common.Clamp(pos.X, s.Rect.X, s.Rect.X+s.Rect.Width),
			Y: common.Clamp(pos.Y, s.Rect.Y, s.Rect.Y+s.Rect.Height),
		}
		if clamped != pos {
			body.SetPosition(clamped)
		}
	})
}
