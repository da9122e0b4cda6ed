package telemetry

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/milk9111/skirmish/component"
	"github.com/milk9111/skirmish/config"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(config.LoggingConfig{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)
	require.Equal(t, logrus.WarnLevel, logger.GetLevel())

	logger.Info("dropped")
	logger.WithField("entity", 3).Warn("kept")
	require.NotContains(t, buf.String(), "dropped")
	require.Contains(t, buf.String(), `"entity":3`)

	_, err = NewLogger(config.LoggingConfig{Level: "loud"}, &buf)
	require.Error(t, err)
}

func TestEventLogger(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	handle := EventLogger(logger)

	handle(component.CombatEvent{
		Type:   component.EventDamageTaken,
		Entity: 2,
		Amount: 12,
		Damage: component.Damage{Kind: component.DamageFire, Source: 1, WasCrit: true},
	})
	entry := hook.LastEntry()
	require.Equal(t, logrus.DebugLevel, entry.Level)
	require.Equal(t, "fire", entry.Data["kind"])
	require.Equal(t, 12.0, entry.Data["amount"])
	require.Equal(t, true, entry.Data["crit"])

	handle(component.CombatEvent{Type: component.EventDied, Entity: 2})
	entry = hook.LastEntry()
	require.Equal(t, logrus.InfoLevel, entry.Level)
	require.Equal(t, uint64(2), entry.Data["entity"])
	require.Len(t, hook.AllEntries(), 2)
}

func TestMetricsObserve(t *testing.T) {
	m := NewMetrics()
	emitter := &component.CombatEventEmitter{}
	emitter.Subscribe(m.Observe)

	emitter.Emit(component.CombatEvent{Type: component.EventHitConfirmed, Amount: 20})
	emitter.Emit(component.CombatEvent{Type: component.EventDamageTaken, Amount: 20, Damage: component.Damage{Kind: component.DamagePhysical, WasCrit: true}})
	emitter.Emit(component.CombatEvent{Type: component.EventDamageTaken, Amount: 3, Damage: component.Damage{Kind: component.DamagePoison}})
	emitter.Emit(component.CombatEvent{Type: component.EventDamageTaken, Amount: 2, Damage: component.Damage{Kind: component.DamagePoison}})
	emitter.Emit(component.CombatEvent{Type: component.EventEffectApplied, Effect: "poison"})
	emitter.Emit(component.CombatEvent{Type: component.EventPoiseBroken})
	emitter.Emit(component.CombatEvent{Type: component.EventDied})

	require.Equal(t, 20.0, testutil.ToFloat64(m.DamageDealt.WithLabelValues("physical")))
	require.Equal(t, 5.0, testutil.ToFloat64(m.DamageDealt.WithLabelValues("poison")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Hits))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Crits))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Deaths))
	require.Equal(t, 1.0, testutil.ToFloat64(m.PoiseBreaks))
	require.Equal(t, 1.0, testutil.ToFloat64(m.EffectsApplied.WithLabelValues("poison")))
	require.Equal(t, 1, testutil.CollectAndCount(m.HitDamage))
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics()
	m.Observe(component.CombatEvent{Type: component.EventDied})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), "skirmish_deaths_total 1"))
}
