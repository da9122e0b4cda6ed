package telemetry

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/milk9111/skirmish/component"
	"github.com/milk9111/skirmish/config"
	"github.com/sirupsen/logrus"
)

// NewLogger builds a logger from cfg. Output defaults to stdout.
func NewLogger(cfg config.LoggingConfig, out io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}

	logger := logrus.New()
	logger.SetLevel(level)
	if out == nil {
		out = os.Stdout
	}
	logger.SetOutput(out)

	switch strings.ToLower(cfg.Format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger, nil
}

// EventLogger returns a handler that writes combat events to logger. Deaths
// and poise breaks are logged at info, everything else at debug.
func EventLogger(logger logrus.FieldLogger) component.CombatEventHandler {
	return func(evt component.CombatEvent) {
		fields := logrus.Fields{"event": string(evt.Type), "entity": evt.Entity}

		switch evt.Type {
		case component.EventDied:
			logger.WithFields(fields).WithField("kind", evt.Damage.Kind.String()).Info("combat: entity died")
			return
		case component.EventPoiseBroken:
			logger.WithFields(fields).Info("combat: poise broken")
			return
		case component.EventHitConfirmed:
			fields["target"] = evt.Target
			fields["amount"] = evt.Amount
		case component.EventDamageTaken:
			fields["amount"] = evt.Amount
			fields["kind"] = evt.Damage.Kind.String()
			fields["source"] = evt.Damage.Source
			fields["crit"] = evt.Damage.WasCrit
		case component.EventHealed:
			fields["amount"] = evt.Amount
		case component.EventEffectApplied, component.EventEffectStacked, component.EventEffectRemoved:
			fields["effect"] = evt.Effect
			fields["stacks"] = evt.Stacks
		case component.EventAttackPhase:
			fields["attack"] = evt.Attack
			fields["phase"] = evt.Phase.String()
		case component.EventAttackEnded, component.EventAttackCancelled:
			fields["attack"] = evt.Attack
		case component.EventActorStateChanged:
			fields["state"] = string(evt.State)
		case component.EventHealthChanged, component.EventPoiseChanged:
			fields["current"] = evt.Current
			fields["max"] = evt.Max
		}
		logger.WithFields(fields).Debug("combat: event")
	}
}
