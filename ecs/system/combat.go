package system

import (
	"sort"

	"github.com/milk9111/skirmish/component"
	"github.com/milk9111/skirmish/ecs"
)

// CombatSystem resolves hitbox and hurtbox contacts once per tick. Begin
// contacts from the physics step are merged with the current overlaps of every
// active hitbox, so a target that stays inside a volume is offered again each
// tick and hit memory decides whether it lands. The space reports contacts in
// no particular order, so they are sorted by attacker, hitbox, defender and
// hurtbox before any damage is applied.
type CombatSystem struct{}

func NewCombatSystem() *CombatSystem { return &CombatSystem{} }

type contactKey struct {
	hitbox  *component.Hitbox
	hurtbox *component.Hurtbox
}

func (s *CombatSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	seen := make(map[contactKey]struct{})
	var contacts []ecs.ContactEvent
	add := func(c ecs.ContactEvent) {
		if c.Hitbox == nil || c.Hurtbox == nil {
			return
		}
		key := contactKey{hitbox: c.Hitbox, hurtbox: c.Hurtbox}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		contacts = append(contacts, c)
	}

	for _, evt := range w.Events().Drain() {
		if evt.Type != ecs.EventContact {
			// leave other events for later systems
			w.Events().Push(evt)
			continue
		}
		if c, ok := evt.Data.(ecs.ContactEvent); ok {
			add(c)
		}
	}

	if pw := w.PhysicsWorld(); pw != nil {
		ecs.Each(w.Hitboxes(), func(e ecs.Entity, hb *component.Hitbox) {
			if !hb.IsActive() {
				return
			}
			for _, c := range pw.Contacts(hb) {
				add(c)
			}
		})
	}

	sortContacts(contacts)
	for _, c := range contacts {
		c.Hitbox.OnOverlap(c.Contact())
	}
}

func sortContacts(contacts []ecs.ContactEvent) {
	sort.SliceStable(contacts, func(i, j int) bool {
		a, b := contacts[i], contacts[j]
		if a.Attacker != b.Attacker {
			return a.Attacker < b.Attacker
		}
		if a.Hitbox.ID != b.Hitbox.ID {
			return a.Hitbox.ID < b.Hitbox.ID
		}
		if a.Defender != b.Defender {
			return a.Defender < b.Defender
		}
		return a.Hurtbox.ID < b.Hurtbox.ID
	})
}
