// Command simulator drives the garage fleet around for a while: it starts
// every engine, accelerates and brakes at random, shuffles truck cargo and
// logs a sample per vehicle on every tick. Vehicles are parked and switched
// off at the end, which leaves the saved snapshot in a clean state.
package main

import (
	"context"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/smart-garage/internal/config"
	"github.com/ukydev/smart-garage/internal/db"
	"github.com/ukydev/smart-garage/internal/garage"
	"github.com/ukydev/smart-garage/internal/logging"
	"github.com/ukydev/smart-garage/internal/models"
	"github.com/ukydev/smart-garage/internal/notify"
)

// Sample is what the simulator observes of one vehicle after a tick.
type Sample struct {
	Kind       models.Kind
	Model      string
	Speed      float64
	DistanceKm float64
	Load       float64
	Turbo      bool
}

// Simulator moves one garage. It is not safe for concurrent use.
type Simulator struct {
	g        *garage.Garage
	rng      *rand.Rand
	interval time.Duration
	odometer map[models.Kind]float64
}

func NewSimulator(g *garage.Garage, rng *rand.Rand, interval time.Duration) *Simulator {
	return &Simulator{
		g:        g,
		rng:      rng,
		interval: interval,
		odometer: make(map[models.Kind]float64, len(models.Kinds)),
	}
}

// Run performs up to ticks steps, one per interval, and parks the fleet when
// it stops. It returns early when ctx is cancelled.
func (s *Simulator) Run(ctx context.Context, ticks int) ([]Sample, error) {
	for _, kind := range models.Kinds {
		if kind.Motorized() {
			_ = s.g.TurnOn(ctx, kind)
		}
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	var last []Sample
	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			log.WithField("tick", i).Info("Simulation interrupted")
			s.park(context.WithoutCancel(ctx))
			return last, ctx.Err()
		case <-ticker.C:
			last = s.Step()
		}
	}
	s.park(ctx)
	return last, nil
}

// Step applies one random action to every vehicle and returns the samples.
func (s *Simulator) Step() []Sample {
	samples := make([]Sample, 0, len(models.Kinds))
	for _, kind := range models.Kinds {
		v, err := s.g.Vehicle(kind)
		if err != nil {
			continue
		}

		if s.rng.Float64() < 0.7 {
			_ = s.g.Accelerate(kind, kind.DefaultAccelerateStep()*(0.5+s.rng.Float64()))
		} else {
			_ = s.g.Brake(kind, kind.DefaultBrakeStep()*(0.5+s.rng.Float64()))
		}

		switch kind {
		case models.KindSportsCar:
			if v.Speed() > 100 && !v.TurboEngaged() {
				_ = s.g.EngageTurbo(context.Background(), kind)
			} else if v.Speed() < 60 && v.TurboEngaged() {
				_ = s.g.DisengageTurbo(context.Background(), kind)
			}
		case models.KindTruck:
			if v.Speed() == 0 && s.rng.Float64() < 0.5 {
				s.shiftCargo(kind)
			}
		}

		s.odometer[kind] += v.Speed() * s.interval.Hours()
		sample := Sample{
			Kind:       kind,
			Model:      v.Model(),
			Speed:      v.Speed(),
			DistanceKm: s.odometer[kind],
			Load:       v.CurrentLoad(),
			Turbo:      v.TurboEngaged(),
		}
		log.WithFields(log.Fields{
			"kind":        sample.Kind,
			"speed":       sample.Speed,
			"distance_km": sample.DistanceKm,
			"load":        sample.Load,
			"turbo":       sample.Turbo,
		}).Debug("Sample")
		samples = append(samples, sample)
	}
	return samples
}

// shiftCargo stops the engine, loads or unloads a random amount and starts
// the engine again. Cargo only moves while the truck is off.
func (s *Simulator) shiftCargo(kind models.Kind) {
	ctx := context.Background()
	if err := s.g.TurnOff(ctx, kind); err != nil && !models.IsWarning(err) {
		return
	}
	amount := formatKg(1000 + s.rng.Float64()*4000)
	if s.rng.Float64() < 0.6 {
		_ = s.g.LoadCargo(ctx, kind, amount)
	} else {
		_ = s.g.UnloadCargo(ctx, kind, amount)
	}
	_ = s.g.TurnOn(ctx, kind)
}

// park brakes every vehicle to a standstill, then turns the engines off and
// empties the truck. The last save must see a stopped fleet.
func (s *Simulator) park(ctx context.Context) {
	fleet := s.g.Fleet()
	for _, v := range fleet.Vehicles() {
		if v.TurboEngaged() {
			_ = s.g.DisengageTurbo(ctx, v.Kind())
		}
		for v.Speed() > 0 {
			if err := s.g.Brake(v.Kind(), v.Speed()); err != nil {
				break
			}
		}
	}
	for _, v := range fleet.Vehicles() {
		kind := v.Kind()
		if kind.Motorized() && v.IsRunning() {
			_ = s.g.TurnOff(ctx, kind)
		}
		if v.CurrentLoad() > 0 {
			_ = s.g.UnloadCargo(ctx, kind, formatKg(v.CurrentLoad()))
		}
		log.WithFields(log.Fields{
			"kind":        kind,
			"model":       v.Model(),
			"distance_km": s.odometer[kind],
		}).Info("Vehicle parked")
	}
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	logging.Setup(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := db.Open(ctx, cfg.Storage)
	if err != nil {
		log.WithError(err).Fatal("Failed to open storage")
	}
	defer store.Close()

	notifiers := notify.Fanout{notify.LogNotifier{}}
	if cfg.MQTT.Broker != "" {
		client, err := notify.NewMQTTClient(cfg.MQTT)
		if err != nil {
			log.WithError(err).Warn("MQTT unavailable, notifications stay local")
		} else {
			defer client.Disconnect(250)
			notifiers = append(notifiers, notify.NewMQTTNotifier(client, cfg.MQTT.Topic, cfg.MQTT.Timeout))
		}
	}

	g := garage.Open(ctx, garage.NewPersistence(store, cfg.Storage.Key),
		garage.WithNotifier(notifiers),
		garage.WithDateStyle(models.ParseDateStyle(cfg.Display.DateStyle)),
	)

	log.WithFields(log.Fields{
		"ticks":    cfg.Simulator.Ticks,
		"interval": cfg.Simulator.Interval,
		"backend":  cfg.Storage.Backend,
	}).Info("Starting fleet simulation")

	sim := NewSimulator(g, rand.New(rand.NewSource(time.Now().UnixNano())), cfg.Simulator.Interval)
	if _, err := sim.Run(ctx, cfg.Simulator.Ticks); err != nil {
		log.WithError(err).Warn("Simulation stopped early")
		return
	}
	log.Info("Simulation finished")
}

func formatKg(kg float64) string { return strconv.FormatFloat(kg, 'f', -1, 64) }
