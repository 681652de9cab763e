package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shenikar/tourist_safety_system/internal/config"
	"github.com/shenikar/tourist_safety_system/internal/geofence"
	"github.com/shenikar/tourist_safety_system/internal/models"
	"github.com/shenikar/tourist_safety_system/internal/webhook"
	"github.com/sirupsen/logrus"
)

type locationService struct {
	alerts    AlertService
	checks    LocationCheckRepository
	logger    *logrus.Logger
	cfg       *config.Config
	publisher webhook.Publisher
	now       func() time.Time
}

func NewLocationService(alerts AlertService, checks LocationCheckRepository, logger *logrus.Logger, cfg *config.Config, publisher webhook.Publisher) LocationService {
	return &locationService{
		alerts:    alerts,
		checks:    checks,
		logger:    logger,
		cfg:       cfg,
		publisher: publisher,
		now:       time.Now,
	}
}

// CheckLocation проверяет позицию туриста по зонам из живых сигналов и переданным клиентом зонам
func (s *locationService) CheckLocation(ctx context.Context, userID string, pos geofence.Point, zones []geofence.Zone, spots []geofence.SafeSpot) (*geofence.Assessment, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "location",
		"method":  "CheckLocation",
		"user_id": userID,
	})
	log.Info("Checking user location")

	alerts, err := s.alerts.ListAlerts(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to load alerts for hazard zones")
		return nil, fmt.Errorf("service: failed to load hazard zones: %w", err)
	}

	all := make([]geofence.Zone, 0, len(zones)+len(alerts))
	all = append(all, zones...)
	all = append(all, geofence.ZonesFromAlerts(alerts, s.cfg.DangerZoneRadiusMeters)...)

	result := geofence.Assess(pos, all, spots)

	check := &models.LocationCheck{
		UserID:      userID,
		Latitude:    pos.Lat,
		Longitude:   pos.Lng,
		IsDangerous: result.InDanger,
	}
	if err := s.checks.SaveLocationCheck(ctx, check); err != nil {
		log.WithError(err).Error("Failed to save location check")
		return nil, fmt.Errorf("service: failed to save location check: %w", err)
	}

	if result.InDanger && s.publisher != nil {
		event := webhook.Event{
			Type:        webhook.EventLocationDanger,
			UserID:      userID,
			Latitude:    pos.Lat,
			Longitude:   pos.Lng,
			IsDangerous: true,
			ZoneName:    result.Zone.Name,
			Timestamp:   s.now(),
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			log.WithError(err).Warn("Failed to publish webhook event")
		}
	}

	log.WithField("is_danger", result.InDanger).Info("Location check completed")
	return &result, nil
}

// GetStats возвращает число уникальных пользователей, проверявших позицию в окне статистики
func (s *locationService) GetStats(ctx context.Context) (int, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "location",
		"method":  "GetStats",
		"window":  s.cfg.StatsTimeWindowMinutes,
	})

	count, err := s.checks.GetLocationCheckStats(ctx, s.cfg.StatsTimeWindowMinutes)
	if err != nil {
		log.WithError(err).Error("Failed to get location check stats")
		return 0, fmt.Errorf("service: could not get stats: %w", err)
	}
	return count, nil
}
