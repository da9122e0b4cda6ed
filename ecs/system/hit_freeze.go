package system

import (
	"github.com/milk9111/skirmish/component"
	"github.com/milk9111/skirmish/ecs"
)

// HitFreezeSystem requests a short hit-stop whenever a hit lands. The
// longest request in a tick wins.
type HitFreezeSystem struct {
	FramesPerHit int
	CritFrames   int

	onFreeze func(frames int)
	pending  int
}

// NewHitFreezeSystem subscribes to w's combat events. onFreeze is called at
// most once per tick with the requested frame count.
func NewHitFreezeSystem(w *ecs.World, framesPerHit, critFrames int, onFreeze func(frames int)) *HitFreezeSystem {
	s := &HitFreezeSystem{FramesPerHit: framesPerHit, CritFrames: critFrames, onFreeze: onFreeze}
	if w != nil {
		w.Emitter().Subscribe(s.handle)
	}
	return s
}

func (s *HitFreezeSystem) handle(evt component.CombatEvent) {
	frames := 0
	switch evt.Type {
	case component.EventHitConfirmed:
		frames = s.FramesPerHit
	case component.EventDamageTaken:
		if evt.Damage.WasCrit {
			frames = s.CritFrames
		}
	}
	if frames > s.pending {
		s.pending = frames
	}
}

func (s *HitFreezeSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	frames := s.pending
	s.pending = 0
	if frames > 0 && s.onFreeze != nil {
		s.onFreeze(frames)
	}
}
