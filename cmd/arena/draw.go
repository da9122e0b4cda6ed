package main

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/component"
	"github.com/milk9111/skirmish/ecs"
	"golang.org/x/image/colornames"
)

const (
	healthBarWidth  = 40
	healthBarHeight = 4
	debugSegments   = 24
)

var (
	arenaFloor   = color.NRGBA{R: 0x1c, G: 0x1f, B: 0x26, A: 0xff}
	hitboxActive = color.NRGBA{R: 0xff, G: 0x30, B: 0x30, A: 0x70}
)

func (g *Game) drawArena(screen *ebiten.Image) {
	screen.Fill(colornames.Black)
	b := arenaBounds
	vector.FillRect(screen, float32(b.X), float32(b.Y), float32(b.Width), float32(b.Height), arenaFloor, false)
	vector.StrokeRect(screen, float32(b.X), float32(b.Y), float32(b.Width), float32(b.Height), 2, colornames.Slategray, false)

	w := g.arena.World()
	ecs.Each(w.Bodies(), func(e ecs.Entity, body *ecs.Body) {
		g.drawCombatant(screen, w, e, body.Position())
	})
}

func (g *Game) drawCombatant(screen *ebiten.Image, w *ecs.World, e ecs.Entity, pos cp.Vector) {
	name, _ := w.Names().Get(e)
	tint := g.combatantColor(name)

	dead := false
	if actor := ecs.Lookup(w.Actors(), e); actor != nil {
		dead = actor.IsDead()
	}
	if dead {
		tint = colornames.Dimgray
	} else if g.arena.Flashing(e) {
		tint = colornames.White
	}

	for _, hb := range ecs.Lookup(w.Hurtboxes(), e) {
		r := hb.Rect.Offset(pos)
		vector.FillRect(screen, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), tint, false)
	}

	if hb := ecs.Lookup(w.Hitboxes(), e); hb != nil && !hb.Rect.Empty() {
		r := hb.Rect.Offset(pos)
		if hb.IsActive() {
			vector.FillRect(screen, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), hitboxActive, false)
		} else {
			vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), 1, colornames.Orange, false)
		}
	}

	top := pos.Y - 36
	if stats := ecs.Lookup(w.Stats(), e); stats != nil {
		x := float32(pos.X - healthBarWidth/2)
		vector.FillRect(screen, x, float32(top), healthBarWidth, healthBarHeight, colornames.Darkred, false)
		vector.FillRect(screen, x, float32(top), float32(healthBarWidth*stats.Health()/stats.MaxHealth), healthBarHeight, colornames.Limegreen, false)
		if stats.MaxPoise > 0 {
			vector.FillRect(screen, x, float32(top+healthBarHeight+1), float32(healthBarWidth*stats.Poise()/stats.MaxPoise), 2, colornames.Gold, false)
		}
		if stats.IsInvincible() {
			vector.StrokeRect(screen, x-1, float32(top-1), healthBarWidth+2, healthBarHeight+2, 1, colornames.White, false)
		}
	}

	label := name
	if reg := ecs.Lookup(w.Effects(), e); reg != nil && reg.Len() > 0 {
		effects := make([]string, 0, reg.Len())
		for _, eff := range reg.Effects() {
			if eff.Stacks > 1 {
				effects = append(effects, fmt.Sprintf("%s x%d", eff.Name(), eff.Stacks))
			} else {
				effects = append(effects, eff.Name())
			}
		}
		label += "\n" + strings.Join(effects, ", ")
	}
	ebitenutil.DebugPrintAt(screen, label, int(pos.X)-healthBarWidth/2, int(top)-16)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	w := g.arena.World()
	player := g.arena.Player()
	lines := []string{fmt.Sprintf("tick %d  FPS %.1f", w.Tick(), ebiten.ActualFPS())}
	if actor := ecs.Lookup(w.Actors(), player); actor != nil {
		lines = append(lines, fmt.Sprintf("state: %s  facing: %s", actor.State(), actor.Facing()))
		if actor.Attack != nil && actor.Attack.IsAttacking() {
			lines = append(lines, fmt.Sprintf("attack: %s (%s)", actor.Attack.Current().Name, actor.Attack.Phase()))
		}
	}
	if stats := ecs.Lookup(w.Stats(), player); stats != nil {
		lines = append(lines, fmt.Sprintf("hp %.0f/%.0f  poise %.0f/%.0f", stats.Health(), stats.MaxHealth, stats.Poise(), stats.MaxPoise))
	}
	lines = append(lines, "WASD move  J/LMB attack  1-4 skills  SPACE dash  K/RMB teleport  ESC pause  (gamepad drives the first opponent)")
	ebitenutil.DebugPrintAt(screen, strings.Join(lines, "\n"), 10, 6)
}

func (g *Game) combatantColor(name string) color.Color {
	if g.arena.Catalog() != nil {
		if spec, ok := g.arena.Catalog().Library.Combatants[name]; ok && spec.Color != nil && spec.Color.Color != nil {
			return spec.Color.Color
		}
	}
	return colornames.Lightsteelblue
}

// physicsDebugDrawer draws every sensor in the space: hurtboxes in the
// owner's colour, hitboxes red.
type physicsDebugDrawer struct {
	screen *ebiten.Image
	game   *Game
}

func drawPhysicsDebug(g *Game, screen *ebiten.Image) {
	pw := g.arena.World().PhysicsWorld()
	if pw == nil {
		return
	}
	cp.DrawSpace(pw.Space(), &physicsDebugDrawer{screen: screen, game: g})
}

func (d *physicsDebugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	if radius <= 0 {
		return
	}
	points := make([]cp.Vector, 0, debugSegments)
	for i := 0; i < debugSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugSegments))
		points = append(points, cp.Vector{X: pos.X + math.Cos(t)*radius, Y: pos.Y + math.Sin(t)*radius})
	}
	d.drawPolygon(points, outline)
}

func (d *physicsDebugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
}

func (d *physicsDebugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, outline)
}

func (d *physicsDebugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	d.drawPolygon(verts[:count], fill)
}

func (d *physicsDebugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	half := size / 2
	d.drawLine(cp.Vector{X: pos.X - half, Y: pos.Y}, cp.Vector{X: pos.X + half, Y: pos.Y}, fill)
	d.drawLine(cp.Vector{X: pos.X, Y: pos.Y - half}, cp.Vector{X: pos.X, Y: pos.Y + half}, fill)
}

func (d *physicsDebugDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *physicsDebugDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	switch v := shape.UserData.(type) {
	case *component.Hitbox:
		if v.IsActive() {
			return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 1}
		}
		return cp.FColor{R: 1, G: 0.6, B: 0.1, A: 0.8}
	case *component.Hurtbox:
		e, _ := shape.Body().UserData.(ecs.Entity)
		name, _ := d.game.arena.World().Names().Get(e)
		return toFColor(d.game.combatantColor(name))
	}
	return d.OutlineColor()
}

func (d *physicsDebugDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
}

func (d *physicsDebugDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) Data() interface{} {
	return nil
}

func (d *physicsDebugDrawer) drawLine(a, b cp.Vector, c cp.FColor) {
	vector.StrokeLine(d.screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 1, toNRGBA(c), false)
}

func (d *physicsDebugDrawer) drawPolygon(verts []cp.Vector, c cp.FColor) {
	for i := range verts {
		d.drawLine(verts[i], verts[(i+1)%len(verts)], c)
	}
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(common.Clamp(float64(c.R), 0, 1) * 255),
		G: uint8(common.Clamp(float64(c.G), 0, 1) * 255),
		B: uint8(common.Clamp(float64(c.B), 0, 1) * 255),
		A: uint8(common.Clamp(float64(c.A), 0, 1) * 255),
	}
}

func toFColor(c color.Color) cp.FColor {
	r, g, b, a := c.RGBA()
	return cp.FColor{R: float32(r) / 0xffff, G: float32(g) / 0xffff, B: float32(b) / 0xffff, A: float32(a) / 0xffff}
}
