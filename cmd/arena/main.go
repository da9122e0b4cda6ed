package main

import (
	"errors"
	"flag"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/skirmish/config"
	"github.com/milk9111/skirmish/prefabs"
	"github.com/milk9111/skirmish/telemetry"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "", "config file (yaml, toml or json)")
	player := flag.String("player", "knight", "combatant controlled by keyboard and gamepad")
	opponents := flag.String("opponents", "training_dummy,rogue", "comma separated combatants to spawn against the player")
	debug := flag.Bool("debug", false, "draw physics shapes")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	logger, err := telemetry.NewLogger(cfg.Logging, nil)
	if err != nil {
		log.Fatal(err)
	}
	prefabs.SetDir(cfg.Prefabs.Dir)

	var metrics *telemetry.Metrics
	if cfg.Metrics.Enabled {
		metrics = telemetry.NewMetrics()
		srv := serveMetrics(cfg.Metrics.Addr, metrics, logger)
		defer srv.Close()
	}

	arena, err := NewArena(cfg, logger, metrics, *player, splitNames(*opponents))
	if err != nil {
		logger.WithError(err).Fatal("arena: setup")
	}
	game := NewGame(arena, logger, *debug)

	if cfg.Prefabs.Watch && cfg.Prefabs.Dir != "" {
		watcher, err := prefabs.NewWatcher(prefabs.DefaultDebounce, cfg.Prefabs.Dir)
		if err != nil {
			logger.WithError(err).Warn("arena: prefab hot reload disabled")
		} else {
			defer watcher.Close()
			game.Watch(watcher)
		}
	}

	ebiten.SetTPS(cfg.Simulation.TickRate)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle("skirmish")

	if err := ebiten.RunGame(game); err != nil {
		logger.WithError(err).Error("arena: run")
	}
}

func serveMetrics(addr string, metrics *telemetry.Metrics, logger logrus.FieldLogger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.WithField("addr", addr).Info("arena: serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("arena: metrics server")
		}
	}()
	return srv
}

func splitNames(s string) []string {
	var names []string
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}
