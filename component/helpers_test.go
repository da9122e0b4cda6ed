package component

// fixedRand returns its values in order and then repeats the last one.
type fixedRand struct {
	values []float64
	calls  int
}

func (r *fixedRand) Float64() float64 {
	if len(r.values) == 0 {
		return 0
	}
	i := r.calls
	if i >= len(r.values) {
		i = len(r.values) - 1
	}
	r.calls++
	return r.values[i]
}

type eventLog struct {
	events []CombatEvent
}

func newEventLog(e *CombatEventEmitter) *eventLog {
	l := &eventLog{}
	e.Subscribe(func(evt CombatEvent) {
		l.events = append(l.events, evt)
	})
	return l
}

func (l *eventLog) count(t CombatEventType) int {
	n := 0
	for _, evt := range l.events {
		if evt.Type == t {
			n++
		}
	}
	return n
}

func (l *eventLog) types() []CombatEventType {
	out := make([]CombatEventType, 0, len(l.events))
	for _, evt := range l.events {
		out = append(out, evt.Type)
	}
	return out
}

func (l *eventLog) last(t CombatEventType) (CombatEvent, bool) {
	for i := len(l.events) - 1; i >= 0; i-- {
		if l.events[i].Type == t {
			return l.events[i], true
		}
	}
	return CombatEvent{}, false
}

func (l *eventLog) reset() {
	l.events = nil
}

// countingTarget records every envelope it receives and deals a fixed amount.
type countingTarget struct {
	alive bool
	deal  float64
	calls []Damage
}

func (c *countingTarget) IsAlive() bool { return c.alive }

func (c *countingTarget) ProcessDamage(d *Damage) float64 {
	c.calls = append(c.calls, *d)
	if !c.alive {
		return 0
	}
	d.Final = c.deal
	return c.deal
}
