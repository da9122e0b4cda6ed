package system

import (
	"github.com/milk9111/skirmish/component"
	"github.com/milk9111/skirmish/ecs"
)

// WhiteFlashSystem blinks entities that just took damage. Renderers ask
// Flashing each frame.
type WhiteFlashSystem struct {
	Frames   int
	Interval int

	flashes map[ecs.Entity]*whiteFlash
}

type whiteFlash struct {
	frames int
	timer  int
	on     bool
}

func NewWhiteFlashSystem(w *ecs.World, frames, interval int) *WhiteFlashSystem {
	s := &WhiteFlashSystem{Frames: frames, Interval: interval, flashes: make(map[ecs.Entity]*whiteFlash)}
	if w != nil {
		w.Emitter().Subscribe(s.handle)
	}
	return s
}

func (s *WhiteFlashSystem) handle(evt component.CombatEvent) {
	if evt.Type != component.EventDamageTaken || evt.Amount <= 0 {
		return
	}
	s.flashes[ecs.Entity(evt.Entity)] = &whiteFlash{frames: s.Frames, on: true}
}

func (s *WhiteFlashSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	interval := s.Interval
	if interval <= 0 {
		interval = 1
	}
	for e, wf := range s.flashes {
		if !w.IsAlive(e) {
			delete(s.flashes, e)
			continue
		}
		wf.timer++
		if wf.timer >= interval {
			wf.timer = 0
			wf.on = !wf.on
			wf.frames -= interval
		}
		if wf.frames <= 0 {
			delete(s.flashes, e)
		}
	}
}

// Flashing reports whether e should currently be drawn white.
func (s *WhiteFlashSystem) Flashing(e ecs.Entity) bool {
	wf, ok := s.flashes[e]
	return ok && wf.on
}
