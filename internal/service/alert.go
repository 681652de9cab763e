package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/tourist_safety_system/internal/config"
	"github.com/shenikar/tourist_safety_system/internal/models"
	"github.com/shenikar/tourist_safety_system/internal/triage"
	"github.com/shenikar/tourist_safety_system/internal/webhook"
	"github.com/sirupsen/logrus"
)

type alertService struct {
	repo      AlertRepository
	logger    *logrus.Logger
	cfg       *config.Config
	publisher webhook.Publisher
	engine    *triage.Engine
	now       func() time.Time
}

func NewAlertService(repo AlertRepository, logger *logrus.Logger, cfg *config.Config, publisher webhook.Publisher) AlertService {
	s := &alertService{
		repo:      repo,
		logger:    logger,
		cfg:       cfg,
		publisher: publisher,
		now:       time.Now,
	}
	// Движок записывает переходы через UpdateAlert, так что инварианты хранилища проверяются и для них
	s.engine = triage.NewEngine(s, func() time.Time { return s.now() })
	return s
}

// CreateAlert проверяет и сохраняет новый сигнал
func (s *alertService) CreateAlert(ctx context.Context, alert *models.Alert) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "alert",
		"method":  "CreateAlert",
		"user_id": alert.UserID,
		"type":    alert.Type,
	})
	log.Info("Attempting to create a new alert")

	if alert.UserID == "" {
		return fmt.Errorf("service: userId is required: %w", ErrValidation)
	}
	if !alert.Type.Valid() {
		return fmt.Errorf("service: type %q is not allowed: %w", alert.Type, ErrValidation)
	}

	if alert.ID == uuid.Nil {
		alert.ID = uuid.New()
	}
	if alert.Timestamp == 0 {
		alert.Timestamp = s.now().UnixMilli()
	}
	alert.Status = models.AlertStatusPending
	alert.Responder = nil
	alert.ResolutionNotes = ""
	alert.Timeline = []models.TimelineEvent{}

	if err := s.repo.Create(ctx, alert); err != nil {
		log.WithError(err).Error("Failed to create alert in repository")
		return fmt.Errorf("service: could not create alert: %w", err)
	}
	s.invalidateFeed(ctx, log)

	log.WithField("alert_id", alert.ID).Info("Alert created successfully")
	s.publish(ctx, log, webhook.AlertEvent(webhook.EventAlertCreated, alert, s.now()))
	return nil
}

// GetAlert получает сигнал по ID
func (s *alertService) GetAlert(ctx context.Context, id uuid.UUID) (*models.Alert, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "alert",
		"method":   "GetAlert",
		"alert_id": id,
	})
	log.Info("Fetching alert by ID")

	alert, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to get alert in repository")
		return nil, fmt.Errorf("service: could not get alert: %w", err)
	}
	return alert, nil
}

// ListAlerts возвращает все сигналы, новые первыми. Список читается из кеша,
// так как его опрашивает каждый подключенный клиент.
func (s *alertService) ListAlerts(ctx context.Context) ([]*models.Alert, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "alert",
		"method":  "ListAlerts",
	})

	cached, version, cacheErr := s.repo.GetAlertsFromCache(ctx)
	if cacheErr != nil {
		log.WithError(cacheErr).Warn("Failed to read alert feed from cache")
	}
	if cached != nil {
		log.WithField("count", len(cached)).Debug("Alert feed served from cache")
		return cached, nil
	}

	alerts, err := s.repo.List(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list alerts from repository")
		return nil, fmt.Errorf("service: could not list alerts: %w", err)
	}

	// Без известной версии ленты кеш не заполняется
	if cacheErr == nil {
		if err := s.repo.SetAlertsCache(ctx, alerts, version); err != nil {
			if errors.Is(err, ErrCacheStale) {
				log.Debug("Alert feed changed during read, cache fill skipped")
			} else {
				log.WithError(err).Warn("Failed to cache alert feed")
			}
		}
	}
	log.WithField("count", len(alerts)).Info("Alerts listed successfully")
	return alerts, nil
}

// UpdateAlert сливает патч в сохраненный сигнал
func (s *alertService) UpdateAlert(ctx context.Context, id uuid.UUID, patch *models.AlertPatch) (*models.Alert, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "alert",
		"method":   "UpdateAlert",
		"alert_id": id,
	})
	log.Info("Attempting to update alert")

	var previous models.AlertStatus
	updated, err := s.repo.Update(ctx, id, func(current *models.Alert) error {
		previous = current.Status
		return mergePatch(current, patch)
	})
	if err != nil {
		if errors.Is(err, ErrValidation) || errors.Is(err, ErrConflict) || errors.Is(err, ErrNotFound) {
			log.WithError(err).Warn("Alert update rejected")
		} else {
			log.WithError(err).Error("Failed to update alert in repository")
		}
		return nil, fmt.Errorf("service: could not update alert: %w", err)
	}
	s.invalidateFeed(ctx, log)

	log.WithField("status", updated.Status).Info("Alert updated successfully")
	s.publish(ctx, log, webhook.AlertEvent(eventFor(previous, updated.Status), updated, s.now()))
	return updated, nil
}

// PendingQueue возвращает очередь ожидающих сигналов в порядке обслуживания
func (s *alertService) PendingQueue(ctx context.Context) ([]*models.Alert, error) {
	alerts, err := s.ListAlerts(ctx)
	if err != nil {
		return nil, err
	}
	return triage.PendingQueue(alerts), nil
}

// Stats возвращает накопленную статистику обращений за сутки
func (s *alertService) Stats(ctx context.Context) ([]triage.StatsPoint, error) {
	alerts, err := s.ListAlerts(ctx)
	if err != nil {
		return nil, err
	}
	return triage.Stats(alerts, s.now()), nil
}

// DispatchAlert назначает бригаду на сигнал
func (s *alertService) DispatchAlert(ctx context.Context, id uuid.UUID, unit triage.UnitType) (*models.Alert, error) {
	return s.transition(ctx, id, "DispatchAlert", func(alert *models.Alert) (*models.Alert, error) {
		return s.engine.Dispatch(ctx, alert, unit)
	})
}

// AddStatusNote добавляет заметку о ходе работ
func (s *alertService) AddStatusNote(ctx context.Context, id uuid.UUID, note string) (*models.Alert, error) {
	return s.transition(ctx, id, "AddStatusNote", func(alert *models.Alert) (*models.Alert, error) {
		return s.engine.UpdateStatus(ctx, alert, note)
	})
}

// ResolveAlert закрывает сигнал
func (s *alertService) ResolveAlert(ctx context.Context, id uuid.UUID, notes string) (*models.Alert, error) {
	return s.transition(ctx, id, "ResolveAlert", func(alert *models.Alert) (*models.Alert, error) {
		return s.engine.Resolve(ctx, alert, notes)
	})
}

func (s *alertService) transition(ctx context.Context, id uuid.UUID, method string, apply func(*models.Alert) (*models.Alert, error)) (*models.Alert, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "alert",
		"method":   method,
		"alert_id": id,
	})

	alert, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to load alert for transition")
		return nil, fmt.Errorf("service: could not load alert: %w", err)
	}

	updated, err := apply(alert)
	if err != nil {
		log.WithError(err).Warn("Alert transition rejected")
		return nil, err
	}
	return updated, nil
}

func (s *alertService) invalidateFeed(ctx context.Context, log *logrus.Entry) {
	if err := s.repo.InvalidateAlertsCache(ctx); err != nil {
		log.WithError(err).Warn("Failed to invalidate alert feed cache")
	}
}

func (s *alertService) publish(ctx context.Context, log *logrus.Entry, event webhook.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.WithError(err).Warn("Failed to publish webhook event")
	}
}

// mergePatch проверяет патч относительно текущего состояния и применяет его
func mergePatch(current *models.Alert, patch *models.AlertPatch) error {
	if patch.IfStatus != nil && current.Status != *patch.IfStatus {
		return fmt.Errorf("alert %s is %s, expected %s: %w", current.ID, current.Status, *patch.IfStatus, ErrConflict)
	}
	if patch.Type != nil && !patch.Type.Valid() {
		return fmt.Errorf("type %q is not allowed: %w", *patch.Type, ErrValidation)
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return fmt.Errorf("status %q is not allowed: %w", *patch.Status, ErrValidation)
		}
		if !current.Status.CanAdvanceTo(*patch.Status) {
			return fmt.Errorf("status cannot move from %s to %s: %w", current.Status, *patch.Status, ErrValidation)
		}
	}
	if patch.Timeline != nil {
		if err := checkTimelineAppend(current.Timeline, patch.Timeline); err != nil {
			// С предусловием расхождение журнала означает параллельную запись
			if patch.IfStatus != nil {
				return fmt.Errorf("%v: %w", err, ErrConflict)
			}
			return fmt.Errorf("%v: %w", err, ErrValidation)
		}
	}

	next := current.Clone()
	patch.Apply(next)

	if next.ResolutionNotes != "" && next.Status != models.AlertStatusResolved {
		return fmt.Errorf("resolutionNotes require status %s: %w", models.AlertStatusResolved, ErrValidation)
	}
	if next.Responder == nil {
		if next.Status != models.AlertStatusPending {
			return fmt.Errorf("responder is required to leave %s: %w", models.AlertStatusPending, ErrValidation)
		}
		for _, event := range next.Timeline {
			if event.Status != models.AlertStatusPending {
				return fmt.Errorf("timeline entry %s requires a responder: %w", event.Status, ErrValidation)
			}
		}
	}

	*current = *next
	return nil
}

// checkTimelineAppend проверяет, что новый журнал только дописывает записи к сохраненному
func checkTimelineAppend(stored, next []models.TimelineEvent) error {
	if len(next) < len(stored) {
		return fmt.Errorf("timeline cannot be truncated from %d to %d entries", len(stored), len(next))
	}
	for i := range stored {
		if next[i] != stored[i] {
			return fmt.Errorf("timeline entry %d cannot be rewritten", i)
		}
	}
	return nil
}

func eventFor(previous, current models.AlertStatus) webhook.EventType {
	switch {
	case previous == current:
		return webhook.EventAlertUpdated
	case current == models.AlertStatusInProgress:
		return webhook.EventAlertDispatched
	case current == models.AlertStatusResolved:
		return webhook.EventAlertResolved
	}
	return webhook.EventAlertUpdated
}
