package main

import (
	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/prefabs"
	"github.com/sirupsen/logrus"
)

const (
	baseWidth  = 960
	baseHeight = 540
)

type Game struct {
	arena  *Arena
	logger logrus.FieldLogger
	debug  bool

	paused bool
	quit   bool
	freeze int
	ui     *ebitenui.UI

	watcher *prefabs.Watcher
}

func NewGame(arena *Arena, logger logrus.FieldLogger, debug bool) *Game {
	g := &Game{
		arena:  arena,
		logger: logger,
		debug:  debug,
	}
	g.ui = NewPauseUI(g)
	arena.OnFreeze = func(frames int) {
		if frames > g.freeze {
			g.freeze = frames
		}
	}
	return g
}

// Watch hot-reloads prefabs whenever w reports a change.
func (g *Game) Watch(w *prefabs.Watcher) {
	g.watcher = w
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	g.pollReload()

	if pausePressed() {
		g.paused = !g.paused
	}
	w := g.arena.World()
	w.SetPaused(g.paused)
	if g.paused {
		g.ui.Update()
		return nil
	}
	if g.freeze > 0 {
		g.freeze--
		return nil
	}

	if intent := ecs.Lookup(w.Intents(), g.arena.Player()); intent != nil {
		from := arenaBounds.Center()
		if body := ecs.Lookup(w.Bodies(), g.arena.Player()); body != nil {
			from = body.Position()
		}
		*intent = keyboardIntent(from)
	}
	if intent := ecs.Lookup(w.Intents(), g.arena.Rival()); intent != nil {
		if in, ok := gamepadIntent(); ok {
			*intent = in
		}
	}
	w.Update()
	return nil
}

func (g *Game) pollReload() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			log := g.logger.WithField("path", path)
			if prefabs.Classify(path) == prefabs.FileUnknown {
				continue
			}
			if err := g.arena.Reload(); err != nil {
				log.WithError(err).Warn("arena: reload failed; keeping previous prefabs")
			}
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			g.logger.WithError(err).Warn("arena: prefab watcher")
		default:
			return
		}
	}
}

func (g *Game) resume() {
	g.paused = false
}

func (g *Game) reset() {
	if err := g.arena.Reset(); err != nil {
		g.logger.WithError(err).Error("arena: reset failed")
		return
	}
	g.paused = false
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.drawArena(screen)
	if g.debug {
		drawPhysicsDebug(g, screen)
	}
	g.drawHUD(screen)
	if g.paused {
		g.ui.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}
