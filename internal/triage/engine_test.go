package triage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/tourist_safety_system/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryUpdater применяет патчи к сигналам в памяти и считает обращения
type memoryUpdater struct {
	alerts map[uuid.UUID]*models.Alert
	calls  int
	err    error
}

func newMemoryUpdater(alerts ...*models.Alert) *memoryUpdater {
	u := &memoryUpdater{alerts: make(map[uuid.UUID]*models.Alert)}
	for _, a := range alerts {
		u.alerts[a.ID] = a.Clone()
	}
	return u
}

func (u *memoryUpdater) UpdateAlert(_ context.Context, id uuid.UUID, patch *models.AlertPatch) (*models.Alert, error) {
	u.calls++
	if u.err != nil {
		return nil, u.err
	}
	stored := u.alerts[id]
	patch.Apply(stored)
	return stored.Clone(), nil
}

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine(u *memoryUpdater) *Engine {
	return NewEngine(u, func() time.Time { return fixedNow })
}

func TestEngine_DispatchThenResolve(t *testing.T) {
	alert := &models.Alert{ID: uuid.New(), Type: models.AlertTypeMedical, Timestamp: 1000, Status: models.AlertStatusPending}
	updater := newMemoryUpdater(alert)
	engine := newTestEngine(updater)
	ctx := context.Background()

	dispatched, err := engine.Dispatch(ctx, alert, UnitAmbulance)
	require.NoError(t, err)
	assert.Equal(t, models.AlertStatusInProgress, dispatched.Status)
	require.NotNil(t, dispatched.Responder)
	assert.Equal(t, "AMBULANCE Unit", dispatched.Responder.Name)
	assert.Equal(t, "Rapid Response AMBULANCE", dispatched.Responder.Designation)
	assert.Equal(t, "112", dispatched.Responder.Contact)
	require.Len(t, dispatched.Timeline, 1)
	assert.Equal(t, "Team Dispatched: AMBULANCE", dispatched.Timeline[0].Note)
	assert.Equal(t, models.AlertStatusInProgress, dispatched.Timeline[0].Status)
	assert.Equal(t, fixedNow.UnixMilli(), dispatched.Timeline[0].Timestamp)

	resolved, err := engine.Resolve(ctx, dispatched, "Patient transported")
	require.NoError(t, err)
	assert.Equal(t, models.AlertStatusResolved, resolved.Status)
	assert.Equal(t, "Patient transported", resolved.ResolutionNotes)
	require.Len(t, resolved.Timeline, 2)
	assert.Equal(t, "Case Resolved: Patient transported", resolved.Timeline[1].Note)
	assert.Equal(t, 2, updater.calls)

	// исходный сигнал вызывающей стороны не изменяется
	assert.Equal(t, models.AlertStatusPending, alert.Status)
	assert.Empty(t, alert.Timeline)
}

func TestEngine_DispatchSendsPrecondition(t *testing.T) {
	alert := &models.Alert{ID: uuid.New(), Status: models.AlertStatusPending}
	var got *models.AlertPatch
	updater := updaterFunc(func(_ context.Context, _ uuid.UUID, p *models.AlertPatch) (*models.Alert, error) {
		got = p
		return &models.Alert{}, nil
	})

	_, err := NewEngine(updater, nil).Dispatch(context.Background(), alert, UnitPolice)

	require.NoError(t, err)
	require.NotNil(t, got.IfStatus)
	assert.Equal(t, models.AlertStatusPending, *got.IfStatus)
}

func TestEngine_DispatchRejectedWhenNotPending(t *testing.T) {
	for _, status := range []models.AlertStatus{models.AlertStatusInProgress, models.AlertStatusResolved} {
		t.Run(string(status), func(t *testing.T) {
			alert := &models.Alert{ID: uuid.New(), Status: status}
			updater := newMemoryUpdater(alert)

			_, err := newTestEngine(updater).Dispatch(context.Background(), alert, UnitPolice)

			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Zero(t, updater.calls)
		})
	}
}

func TestEngine_DispatchUnknownUnit(t *testing.T) {
	alert := &models.Alert{ID: uuid.New(), Status: models.AlertStatusPending}
	updater := newMemoryUpdater(alert)

	_, err := newTestEngine(updater).Dispatch(context.Background(), alert, UnitType("NAVY"))

	assert.ErrorIs(t, err, ErrUnknownUnit)
	assert.Zero(t, updater.calls)
}

func TestEngine_ResolveRejectedWhenNotInProgress(t *testing.T) {
	for _, status := range []models.AlertStatus{models.AlertStatusPending, models.AlertStatusResolved} {
		t.Run(string(status), func(t *testing.T) {
			alert := &models.Alert{ID: uuid.New(), Status: status}
			updater := newMemoryUpdater(alert)

			_, err := newTestEngine(updater).Resolve(context.Background(), alert, "done")

			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Zero(t, updater.calls)
		})
	}
}

func TestEngine_UpdateStatusAppendsEveryCall(t *testing.T) {
	alert := &models.Alert{
		ID:        uuid.New(),
		Status:    models.AlertStatusInProgress,
		Responder: &models.Responder{Name: "POLICE Unit"},
		Timeline:  []models.TimelineEvent{{Status: models.AlertStatusInProgress, Note: "Team Dispatched: POLICE"}},
	}
	updater := newMemoryUpdater(alert)
	engine := newTestEngine(updater)
	ctx := context.Background()

	first, err := engine.UpdateStatus(ctx, alert, "Unit On-Scene")
	require.NoError(t, err)
	second, err := engine.UpdateStatus(ctx, first, "Unit On-Scene")
	require.NoError(t, err)

	assert.Len(t, first.Timeline, 2)
	require.Len(t, second.Timeline, 3)
	assert.Equal(t, second.Timeline[1], second.Timeline[2])
	assert.Equal(t, models.AlertStatusInProgress, second.Status)
}

func TestEngine_UpdateStatusRejectedWhenNotInProgress(t *testing.T) {
	alert := &models.Alert{ID: uuid.New(), Status: models.AlertStatusPending}
	updater := newMemoryUpdater(alert)

	_, err := newTestEngine(updater).UpdateStatus(context.Background(), alert, "note")

	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Zero(t, updater.calls)
}

func TestEngine_PersistenceErrorPropagates(t *testing.T) {
	alert := &models.Alert{ID: uuid.New(), Status: models.AlertStatusPending}
	updater := newMemoryUpdater(alert)
	updater.err = errors.New("connection refused")

	got, err := newTestEngine(updater).Dispatch(context.Background(), alert, UnitFire)

	require.Error(t, err)
	assert.Nil(t, got)
	assert.Equal(t, models.AlertStatusPending, alert.Status)
}

func TestLookupUnit(t *testing.T) {
	for _, u := range []UnitType{UnitPolice, UnitAmbulance, UnitVolunteer, UnitFire} {
		r, ok := LookupUnit(u)
		require.True(t, ok, u)
		assert.Equal(t, string(u)+" Unit", r.Name)
	}
	_, ok := LookupUnit("ARMY")
	assert.False(t, ok)
}

type updaterFunc func(ctx context.Context, id uuid.UUID, patch *models.AlertPatch) (*models.Alert, error)

func (f updaterFunc) UpdateAlert(ctx context.Context, id uuid.UUID, patch *models.AlertPatch) (*models.Alert, error) {
	return f(ctx, id, patch)
}
