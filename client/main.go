// Command doom-telemetry-demo drives the telemetry core against a
// synthetic 35Hz tic loop, for smoke-testing a back-end configuration
// without a real game engine attached.
package main

import (
	"flag"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"telemetrycore/pkg/telemetry"
)

// ticRate matches the original engine's fixed 35 ticks/second loop.
const ticRate = 35

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "c", "config.yaml", "telemetry config path")
	flag.Parse()

	cfg, err := telemetry.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := telemetry.Init(cfg, func(err error) {
		log.Fatalf("telemetry setup failure: %v", err)
	}); err != nil {
		log.Fatalf("telemetry init: %v", err)
	}
	defer func() {
		if err := telemetry.Stop(); err != nil {
			log.Printf("telemetry stop: %v", err)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	player := &telemetry.GameObject{
		IsPlayer: true,
		Health:   100,
		Armor:    50,
		ID:       1,
		Position: telemetry.Position{X: 0, Y: 0, Z: 0, Angle: 0, Subsector: 1},
	}

	ticker := time.NewTicker(time.Second / ticRate)
	defer ticker.Stop()

	var tic uint32
	telemetry.OnStartLevel(tic, 1)

	for {
		select {
		case <-sigc:
			log.Printf("shutting down after %d tics", tic)
			telemetry.OnEndLevel(tic, 1)
			return
		case <-ticker.C:
			tic++
			player.Position.X += rand.Float64()
			telemetry.OnMove(tic, player)
			if tic%(ticRate*5) == 0 {
				enemy := &telemetry.GameObject{
					Health: 0,
					ID:     uint64(tic),
				}
				telemetry.OnKill(tic, player, enemy)
			}
		}
	}
}
