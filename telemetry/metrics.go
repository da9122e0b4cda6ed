package telemetry

import (
	"net/http"

	"github.com/milk9111/skirmish/component"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics counts combat outcomes on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	DamageDealt    *prometheus.CounterVec
	Hits           prometheus.Counter
	Crits          prometheus.Counter
	Deaths         prometheus.Counter
	PoiseBreaks    prometheus.Counter
	EffectsApplied *prometheus.CounterVec
	HitDamage      prometheus.Histogram
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		DamageDealt: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skirmish_damage_dealt_total",
				Help: "Damage applied after mitigation, by damage kind",
			},
			[]string{"kind"},
		),
		Hits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skirmish_hits_total",
			Help: "Hitbox contacts that dealt damage",
		}),
		Crits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skirmish_crits_total",
			Help: "Critical damage events",
		}),
		Deaths: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skirmish_deaths_total",
			Help: "Entities whose health reached zero",
		}),
		PoiseBreaks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skirmish_poise_breaks_total",
			Help: "Poise pools that broke",
		}),
		EffectsApplied: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skirmish_effects_applied_total",
				Help: "Status effects newly applied, by effect name",
			},
			[]string{"effect"},
		),
		HitDamage: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "skirmish_hit_damage",
			Help:    "Damage dealt per confirmed hit",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
		}),
	}

	m.registry.MustRegister(
		m.DamageDealt,
		m.Hits,
		m.Crits,
		m.Deaths,
		m.PoiseBreaks,
		m.EffectsApplied,
		m.HitDamage,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Observe is a combat event handler; subscribe it to the world emitter.
func (m *Metrics) Observe(evt component.CombatEvent) {
	switch evt.Type {
	case component.EventDamageTaken:
		m.DamageDealt.WithLabelValues(evt.Damage.Kind.String()).Add(evt.Amount)
		if evt.Damage.WasCrit {
			m.Crits.Inc()
		}
	case component.EventHitConfirmed:
		m.Hits.Inc()
		m.HitDamage.Observe(evt.Amount)
	case component.EventDied:
		m.Deaths.Inc()
	case component.EventPoiseBroken:
		m.PoiseBreaks.Inc()
	case component.EventEffectApplied:
		m.EffectsApplied.WithLabelValues(evt.Effect).Inc()
	}
}
