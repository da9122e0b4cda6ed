package ecs

import (
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/component"
)

const (
	collisionTypeHitbox cp.CollisionType = iota + 1
	collisionTypeHurtbox
)

// Body is the kinematic chipmunk body carrying an entity's hit volumes. It
// satisfies component.Body.
type Body struct {
	Entity Entity
	body   *cp.Body
}

func (b *Body) Position() cp.Vector {
	if b == nil || b.body == nil {
		return cp.Vector{}
	}
	return b.body.Position()
}

func (b *Body) SetPosition(p cp.Vector) {
	if b == nil || b.body == nil {
		return
	}
	b.body.SetPosition(p)
}

func (b *Body) Velocity() cp.Vector {
	if b == nil || b.body == nil {
		return cp.Vector{}
	}
	return b.body.Velocity()
}

func (b *Body) SetVelocity(v cp.Vector) {
	if b == nil || b.body == nil {
		return
	}
	b.body.SetVelocityVector(v)
}

// CP exposes the chipmunk body for debug drawing.
func (b *Body) CP() *cp.Body {
	if b == nil {
		return nil
	}
	return b.body
}

type hitVolume struct {
	entity Entity
	hitbox *component.Hitbox
	shape  *cp.Shape
	rect   common.Rect
}

type hurtVolume struct {
	entity  Entity
	hurtbox *component.Hurtbox
	shape   *cp.Shape
}

// PhysicsWorld owns the Chipmunk space. Hitboxes and hurtboxes are sensor
// boxes on kinematic bodies; a begin handler between the two collision types
// pushes a ContactEvent once per continuous overlap.
type PhysicsWorld struct {
	space         *cp.Space
	events        *EventQueue
	handlersReady bool

	bodies     map[Entity]*Body
	hitShapes  map[*cp.Shape]*hitVolume
	hurtShapes map[*cp.Shape]*hurtVolume
	byHitbox   map[*component.Hitbox]*hitVolume
}

// NewPhysicsWorld creates an empty space reporting contacts to events.
func NewPhysicsWorld(events *EventQueue) *PhysicsWorld {
	pw := &PhysicsWorld{
		space:      cp.NewSpace(),
		events:     events,
		bodies:     make(map[Entity]*Body),
		hitShapes:  make(map[*cp.Shape]*hitVolume),
		hurtShapes: make(map[*cp.Shape]*hurtVolume),
		byHitbox:   make(map[*component.Hitbox]*hitVolume),
	}
	pw.setupHandlers()
	return pw
}

// Space returns the underlying Chipmunk space.
func (pw *PhysicsWorld) Space() *cp.Space {
	if pw == nil {
		return nil
	}
	return pw.space
}

// EnsureBody creates a kinematic body for e at pos if it has none.
func (pw *PhysicsWorld) EnsureBody(e Entity, pos cp.Vector) *Body {
	if pw == nil || !e.Valid() {
		return nil
	}
	if b, ok := pw.bodies[e]; ok {
		return b
	}
	cpBody := cp.NewKinematicBody()
	cpBody.SetPosition(pos)
	cpBody.UserData = e
	pw.space.AddBody(cpBody)

	b := &Body{Entity: e, body: cpBody}
	pw.bodies[e] = b
	return b
}

// Body returns the body of e, or nil.
func (pw *PhysicsWorld) Body(e Entity) *Body {
	if pw == nil {
		return nil
	}
	return pw.bodies[e]
}

// AddHurtbox attaches hb to e's body as a sensor.
func (pw *PhysicsWorld) AddHurtbox(e Entity, hb *component.Hurtbox) {
	b := pw.Body(e)
	if b == nil || hb == nil || hb.Rect.Empty() {
		return
	}
	shape := pw.sensor(b, hb.Rect, collisionTypeHurtbox, hb)
	pw.hurtShapes[shape] = &hurtVolume{entity: e, hurtbox: hb, shape: shape}
}

// AddHitbox registers hb on e's body. The shape follows hb.Rect through
// SyncHitbox; hb.Query is pointed at this world.
func (pw *PhysicsWorld) AddHitbox(e Entity, hb *component.Hitbox) {
	if pw.Body(e) == nil || hb == nil {
		return
	}
	if _, ok := pw.byHitbox[hb]; ok {
		return
	}
	pw.byHitbox[hb] = &hitVolume{entity: e, hitbox: hb}
	hb.Query = pw
	pw.SyncHitbox(hb)
}

// SyncHitbox rebuilds the sensor when the hitbox rect changed. A rebuilt
// shape reports its current overlaps as new contacts on the next step; hit
// memory filters repeats. Must not be called during Step.
func (pw *PhysicsWorld) SyncHitbox(hb *component.Hitbox) {
	if pw == nil || hb == nil {
		return
	}
	vol, ok := pw.byHitbox[hb]
	if !ok {
		return
	}
	if vol.shape != nil && vol.rect == hb.Rect {
		return
	}
	if vol.shape != nil {
		pw.space.RemoveShape(vol.shape)
		delete(pw.hitShapes, vol.shape)
		vol.shape = nil
	}
	vol.rect = hb.Rect
	if hb.Rect.Empty() {
		return
	}
	b := pw.bodies[vol.entity]
	if b == nil {
		return
	}
	vol.shape = pw.sensor(b, hb.Rect, collisionTypeHitbox, hb)
	pw.hitShapes[vol.shape] = vol
}

// RemoveEntity removes e's body and every volume on it.
func (pw *PhysicsWorld) RemoveEntity(e Entity) {
	if pw == nil {
		return
	}
	for hb, vol := range pw.byHitbox {
		if vol.entity != e {
			continue
		}
		if vol.shape != nil {
			pw.space.RemoveShape(vol.shape)
			delete(pw.hitShapes, vol.shape)
		}
		delete(pw.byHitbox, hb)
	}
	for shape, vol := range pw.hurtShapes {
		if vol.entity != e {
			continue
		}
		pw.space.RemoveShape(shape)
		delete(pw.hurtShapes, shape)
	}
	if b, ok := pw.bodies[e]; ok {
		pw.space.RemoveBody(b.body)
		delete(pw.bodies, e)
	}
}

// Step advances the physics simulation.
func (pw *PhysicsWorld) Step(dt float64) {
	if pw == nil || pw.space == nil || dt <= 0 {
		return
	}
	pw.space.Step(dt)
}

// Overlapping reports the hurtboxes inside hb right now, ordered by owner and
// hurtbox id.
func (pw *PhysicsWorld) Overlapping(hb *component.Hitbox) []component.Contact {
	contacts := pw.Contacts(hb)
	if contacts == nil {
		return nil
	}
	out := make([]component.Contact, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, c.Contact())
	}
	return out
}

// Contacts is Overlapping with the owning entities attached.
func (pw *PhysicsWorld) Contacts(hb *component.Hitbox) []ContactEvent {
	if pw == nil || hb == nil {
		return nil
	}
	pw.SyncHitbox(hb)
	vol, ok := pw.byHitbox[hb]
	if !ok || vol.shape == nil {
		return nil
	}

	var found []*hurtVolume
	pw.space.ShapeQuery(vol.shape, func(other *cp.Shape, _ *cp.ContactPointSet) {
		if hurt, ok := pw.hurtShapes[other]; ok {
			found = append(found, hurt)
		}
	})
	sort.Slice(found, func(i, j int) bool {
		if found[i].entity != found[j].entity {
			return found[i].entity < found[j].entity
		}
		return found[i].hurtbox.ID < found[j].hurtbox.ID
	})

	out := make([]ContactEvent, 0, len(found))
	for _, hurt := range found {
		out = append(out, pw.contact(vol, hurt))
	}
	return out
}

// sensor adds a sensor box to b. data is the owning hitbox or hurtbox and is
// stored on the shape for debug drawing.
func (pw *PhysicsWorld) sensor(b *Body, rect common.Rect, kind cp.CollisionType, data any) *cp.Shape {
	shape := cp.NewBox2(b.body, rect.BB(), 0)
	shape.SetSensor(true)
	shape.SetCollisionType(kind)
	shape.UserData = data
	pw.space.AddShape(shape)
	return shape
}

func (pw *PhysicsWorld) contact(hit *hitVolume, hurt *hurtVolume) ContactEvent {
	return ContactEvent{
		Attacker:     hit.entity,
		Defender:     hurt.entity,
		Hitbox:       hit.hitbox,
		Hurtbox:      hurt.hurtbox,
		HitPosition:  pw.bodies[hit.entity].Position().Add(hit.rect.Center()),
		HurtPosition: pw.bodies[hurt.entity].Position().Add(hurt.hurtbox.Rect.Center()),
	}
}

func (pw *PhysicsWorld) setupHandlers() {
	if pw == nil || pw.handlersReady || pw.space == nil {
		return
	}

	hitHandler := pw.space.NewCollisionHandler(collisionTypeHitbox, collisionTypeHurtbox)
	hitHandler.UserData = pw
	hitHandler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*PhysicsWorld)
		if !ok || world == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		hit, okA := world.hitShapes[shapeA]
		hurt, okB := world.hurtShapes[shapeB]
		if !okA || !okB {
			// handler order is not guaranteed for swapped arbiters
			hit, okA = world.hitShapes[shapeB]
			hurt, okB = world.hurtShapes[shapeA]
		}
		if !okA || !okB {
			return true
		}
		world.events.Push(Event{Type: EventContact, Data: world.contact(hit, hurt)})
		return true
	}

	pw.handlersReady = true
}
