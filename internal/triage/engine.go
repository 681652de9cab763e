package triage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/tourist_safety_system/internal/models"
)

var (
	// ErrInvalidTransition - переход недопустим из текущего статуса сигнала
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrUnknownUnit - тип бригады отсутствует в справочнике
	ErrUnknownUnit = errors.New("unknown unit type")
)

// UnitType - тип выезжающей бригады
type UnitType string

const (
	UnitPolice    UnitType = "POLICE"
	UnitAmbulance UnitType = "AMBULANCE"
	UnitVolunteer UnitType = "VOLUNTEER"
	UnitFire      UnitType = "FIRE"
)

const emergencyNumber = "112"

var units = map[UnitType]models.Responder{
	UnitPolice:    responderFor(UnitPolice),
	UnitAmbulance: responderFor(UnitAmbulance),
	UnitVolunteer: responderFor(UnitVolunteer),
	UnitFire:      responderFor(UnitFire),
}

func responderFor(u UnitType) models.Responder {
	return models.Responder{
		Name:        fmt.Sprintf("%s Unit", u),
		Designation: fmt.Sprintf("Rapid Response %s", u),
		Contact:     emergencyNumber,
	}
}

// LookupUnit возвращает карточку бригады по ее типу
func LookupUnit(u UnitType) (models.Responder, bool) {
	r, ok := units[u]
	return r, ok
}

// AlertUpdater - хранилище, в которое движок записывает результат перехода
type AlertUpdater interface {
	UpdateAlert(ctx context.Context, id uuid.UUID, patch *models.AlertPatch) (*models.Alert, error)
}

// Engine выполняет переходы жизненного цикла сигнала.
// Каждый успешный переход добавляет ровно одну запись в журнал и сохраняет сигнал через AlertUpdater.
// Отклоненный переход не обращается к хранилищу.
type Engine struct {
	updater AlertUpdater
	now     func() time.Time
}

// NewEngine создает движок. now может быть nil, тогда используется time.Now.
func NewEngine(updater AlertUpdater, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{updater: updater, now: now}
}

// Dispatch назначает бригаду на сигнал в статусе PENDING и переводит его в IN_PROGRESS
func (e *Engine) Dispatch(ctx context.Context, alert *models.Alert, unit UnitType) (*models.Alert, error) {
	if alert.Status != models.AlertStatusPending {
		return nil, fmt.Errorf("dispatch alert %s in status %s: %w", alert.ID, alert.Status, ErrInvalidTransition)
	}
	responder, ok := LookupUnit(unit)
	if !ok {
		return nil, fmt.Errorf("dispatch %q: %w", unit, ErrUnknownUnit)
	}

	status := models.AlertStatusInProgress
	expected := models.AlertStatusPending
	patch := &models.AlertPatch{
		Status:    &status,
		Responder: &responder,
		Timeline:  e.appendEvent(alert, status, fmt.Sprintf("Team Dispatched: %s", unit)),
		IfStatus:  &expected,
	}
	return e.updater.UpdateAlert(ctx, alert.ID, patch)
}

// UpdateStatus добавляет заметку о ходе работ. Статус сигнала не меняется.
func (e *Engine) UpdateStatus(ctx context.Context, alert *models.Alert, note string) (*models.Alert, error) {
	if alert.Status != models.AlertStatusInProgress {
		return nil, fmt.Errorf("update alert %s in status %s: %w", alert.ID, alert.Status, ErrInvalidTransition)
	}

	expected := models.AlertStatusInProgress
	patch := &models.AlertPatch{
		Timeline: e.appendEvent(alert, models.AlertStatusInProgress, note),
		IfStatus: &expected,
	}
	return e.updater.UpdateAlert(ctx, alert.ID, patch)
}

// Resolve закрывает сигнал в статусе IN_PROGRESS
func (e *Engine) Resolve(ctx context.Context, alert *models.Alert, notes string) (*models.Alert, error) {
	if alert.Status != models.AlertStatusInProgress {
		return nil, fmt.Errorf("resolve alert %s in status %s: %w", alert.ID, alert.Status, ErrInvalidTransition)
	}

	status := models.AlertStatusResolved
	expected := models.AlertStatusInProgress
	patch := &models.AlertPatch{
		Status:          &status,
		ResolutionNotes: &notes,
		Timeline:        e.appendEvent(alert, status, fmt.Sprintf("Case Resolved: %s", notes)),
		IfStatus:        &expected,
	}
	return e.updater.UpdateAlert(ctx, alert.ID, patch)
}

func (e *Engine) appendEvent(alert *models.Alert, status models.AlertStatus, note string) []models.TimelineEvent {
	timeline := make([]models.TimelineEvent, len(alert.Timeline), len(alert.Timeline)+1)
	copy(timeline, alert.Timeline)
	return append(timeline, models.TimelineEvent{
		Status:    status,
		Note:      note,
		Timestamp: e.now().UnixMilli(),
	})
}
