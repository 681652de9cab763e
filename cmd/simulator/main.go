package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/shenikar/tourist_safety_system/internal/client"
	"github.com/shenikar/tourist_safety_system/internal/config"
	"github.com/shenikar/tourist_safety_system/internal/geofence"
	"github.com/shenikar/tourist_safety_system/internal/models"
	"github.com/shenikar/tourist_safety_system/pkg/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type options struct {
	api     string
	user    string
	lat     float64
	lng     float64
	seed    int64
	radius  float64
	autoSOS bool
}

func main() {
	cfg, err := config.LoadSimulatorConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(cfg).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.SimulatorConfig) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "simulator",
		Short: "Simulate a tourist walking through the city",
		Long: `Simulates a tourist position with a random walk, checks it against
danger zones built from the live alert feed and reports the escape route
to the nearest safe spot. With --auto-sos an inactivity period raises an alert.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cfg, opts)
		},
	}

	cmd.Flags().StringVar(&opts.api, "api", cfg.APIBaseURL, "base URL of the REST API")
	cmd.Flags().StringVar(&opts.user, "user", "sim-tourist", "user ID reported in alerts")
	cmd.Flags().Float64Var(&opts.lat, "lat", 12.2958, "start latitude")
	cmd.Flags().Float64Var(&opts.lng, "lng", 76.6394, "start longitude")
	cmd.Flags().Int64Var(&opts.seed, "seed", 1, "random walk seed")
	cmd.Flags().Float64Var(&opts.radius, "radius", 300, "danger zone radius in meters")
	cmd.Flags().BoolVar(&opts.autoSOS, "auto-sos", false, "create an alert when the tourist stays inactive")

	return cmd
}

func run(ctx context.Context, cfg *config.SimulatorConfig, opts *options) error {
	log := logger.New(cfg.LogLevel)
	api := client.New(opts.api)
	start := geofence.Point{Lat: opts.lat, Lng: opts.lng}

	var (
		mu      sync.RWMutex
		zones   []geofence.Zone
		lastPos = start
	)

	poller := client.NewPoller(api, cfg.PollInterval, log)
	go poller.Run(ctx, func(alerts []*models.Alert) {
		next := geofence.ZonesFromAlerts(alerts, opts.radius)
		mu.Lock()
		zones = next
		mu.Unlock()
		log.WithField("zones", len(next)).Debug("Danger zones refreshed")
	})

	walk := geofence.NewRandomWalk(start, opts.seed)
	walk.OnInactivity = func() {
		mu.RLock()
		pos := lastPos
		mu.RUnlock()

		log.WithFields(logrus.Fields{"lat": pos.Lat, "lng": pos.Lng}).Warn("Tourist inactive")
		if opts.autoSOS {
			go raiseSOS(ctx, api, log, opts.user, pos)
		}
	}

	currentZones := func() []geofence.Zone {
		mu.RLock()
		defer mu.RUnlock()
		return zones
	}

	onUpdate := func(a geofence.Assessment) {
		mu.Lock()
		lastPos = a.Position
		mu.Unlock()

		entry := log.WithFields(logrus.Fields{
			"lat":   a.Position.Lat,
			"lng":   a.Position.Lng,
			"state": walk.State(),
		})
		if !a.InDanger {
			entry.Debug("Position safe")
			return
		}
		entry = entry.WithField("zone", a.Zone.Name)
		if a.SafeSpot != nil {
			entry = entry.WithFields(logrus.Fields{
				"safe_spot": a.SafeSpot.Name,
				"route":     a.Route,
			})
		}
		entry.Warn("Tourist entered a danger zone")
	}

	tracker := geofence.NewTracker(walk, currentZones, geofence.FallbackSafeSpots(start), onUpdate, log)
	log.WithFields(logrus.Fields{"api": opts.api, "user": opts.user}).Info("Simulator started")
	tracker.Run(ctx, cfg.TickInterval)
	return nil
}

func raiseSOS(ctx context.Context, api *client.Client, log *logrus.Logger, userID string, pos geofence.Point) {
	alert, err := api.CreateAlert(ctx, &models.Alert{
		UserID:      userID,
		Type:        models.AlertTypeOther,
		Description: "Inactivity detected",
		Location:    models.Location{Latitude: pos.Lat, Longitude: pos.Lng},
	})
	if err != nil {
		log.WithError(err).Error("Failed to raise inactivity alert")
		return
	}
	log.WithField("alert_id", alert.ID).Info("Inactivity alert raised")
}
