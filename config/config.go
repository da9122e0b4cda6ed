package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. SKIRMISH_LOGGING_LEVEL.
const EnvPrefix = "SKIRMISH"

type Config struct {
	Simulation SimulationConfig `mapstructure:"simulation"`
	Combat     CombatConfig     `mapstructure:"combat"`
	Prefabs    PrefabsConfig    `mapstructure:"prefabs"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

type SimulationConfig struct {
	TickRate int   `mapstructure:"tick_rate"`
	Seed     int64 `mapstructure:"seed"`
}

// CombatConfig holds the fallbacks for combatant fields a prefab leaves at
// zero.
type CombatConfig struct {
	KnockbackFriction  float64 `mapstructure:"knockback_friction"`
	KnockbackThreshold float64 `mapstructure:"knockback_threshold"`
	StaggerDuration    float64 `mapstructure:"stagger_duration"`
	DashDuration       float64 `mapstructure:"dash_duration"`
	DashSpeed          float64 `mapstructure:"dash_speed"`
	DashIFrames        float64 `mapstructure:"dash_iframes"`
	TeleportDuration   float64 `mapstructure:"teleport_duration"`
	TeleportDelay      float64 `mapstructure:"teleport_delay"`
	TeleportDistance   float64 `mapstructure:"teleport_distance"`
	MoveSpeed          float64 `mapstructure:"move_speed"`
}

type PrefabsConfig struct {
	Dir   string `mapstructure:"dir"`
	Watch bool   `mapstructure:"watch"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("simulation.tick_rate", 60)
	v.SetDefault("simulation.seed", 0)

	v.SetDefault("combat.knockback_friction", 900.0)
	v.SetDefault("combat.knockback_threshold", 5.0)
	v.SetDefault("combat.stagger_duration", 0.4)
	v.SetDefault("combat.dash_duration", 0.2)
	v.SetDefault("combat.dash_speed", 420.0)
	v.SetDefault("combat.dash_iframes", 0.12)
	v.SetDefault("combat.teleport_duration", 0.35)
	v.SetDefault("combat.teleport_delay", 0.15)
	v.SetDefault("combat.teleport_distance", 96.0)
	v.SetDefault("combat.move_speed", 120.0)

	v.SetDefault("prefabs.dir", "prefabs")
	v.SetDefault("prefabs.watch", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", ":9108")
}

// Load reads path (any format viper understands) over the built-in defaults,
// then applies SKIRMISH_* environment overrides. An empty path uses defaults
// and the environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: read %s: %w", path, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Simulation.TickRate <= 0 {
		return fmt.Errorf("simulation.tick_rate must be positive, got %d", c.Simulation.TickRate)
	}
	if c.Combat.KnockbackFriction < 0 {
		return fmt.Errorf("combat.knockback_friction must not be negative")
	}
	if c.Combat.KnockbackThreshold < 0 {
		return fmt.Errorf("combat.knockback_threshold must not be negative")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("metrics.addr is required when metrics are enabled")
	}
	return nil
}
