package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shenikar/tourist_safety_system/internal/config"
	"github.com/shenikar/tourist_safety_system/internal/geofence"
	"github.com/shenikar/tourist_safety_system/internal/models"
	"github.com/shenikar/tourist_safety_system/internal/service/mocks"
	"github.com/shenikar/tourist_safety_system/internal/webhook"
	webhook_mocks "github.com/shenikar/tourist_safety_system/internal/webhook/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestLocationService(t *testing.T) (*locationService, *mocks.MockAlertService, *mocks.MockLocationCheckRepository, *webhook_mocks.MockPublisher) {
	ctrl := gomock.NewController(t)
	alertsMock := mocks.NewMockAlertService(ctrl)
	checksMock := mocks.NewMockLocationCheckRepository(ctrl)
	webhookMock := webhook_mocks.NewMockPublisher(ctrl)

	cfg := &config.Config{DangerZoneRadiusMeters: 300, StatsTimeWindowMinutes: 60}

	svc := NewLocationService(alertsMock, checksMock, newTestLogger(), cfg, webhookMock).(*locationService)
	svc.now = func() time.Time { return testNow }
	return svc, alertsMock, checksMock, webhookMock
}

func TestCheckLocation_InsideAlertZone(t *testing.T) {
	svc, alertsMock, checksMock, webhookMock := newTestLocationService(t)
	ctx := context.Background()
	harassment := &models.Alert{
		UserID:   "other",
		Type:     models.AlertTypeHarassment,
		Status:   models.AlertStatusPending,
		Location: models.Location{Latitude: 12.3051, Longitude: 76.6551},
	}
	pos := geofence.Point{Lat: 12.3052, Lng: 76.6552}
	spots := []geofence.SafeSpot{
		{Name: "Mysore Palace", Point: geofence.Point{Lat: 12.3052, Lng: 76.6552 + 0.01}},
		{Name: "Chamundi Hills", Point: geofence.Point{Lat: 12.2724, Lng: 76.6730}},
	}

	alertsMock.EXPECT().ListAlerts(ctx).Return([]*models.Alert{harassment}, nil)
	checksMock.EXPECT().
		SaveLocationCheck(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, check *models.LocationCheck) error {
			assert.Equal(t, "tourist-1", check.UserID)
			assert.True(t, check.IsDangerous)
			return nil
		})
	webhookMock.EXPECT().
		Publish(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, e webhook.Event) error {
			assert.Equal(t, webhook.EventLocationDanger, e.Type)
			assert.Equal(t, "HARASSMENT reported in this area", e.ZoneName)
			assert.Equal(t, testNow, e.Timestamp)
			return nil
		})

	result, err := svc.CheckLocation(ctx, "tourist-1", pos, nil, spots)

	require.NoError(t, err)
	assert.True(t, result.InDanger)
	require.NotNil(t, result.SafeSpot)
	assert.Equal(t, "Mysore Palace", result.SafeSpot.Name)
	assert.Len(t, result.Route, 2)
}

func TestCheckLocation_RequestZones(t *testing.T) {
	svc, alertsMock, checksMock, webhookMock := newTestLocationService(t)
	ctx := context.Background()
	zones := []geofence.Zone{{Name: "Construction", Center: geofence.Point{Lat: 10, Lng: 10}, RadiusMeters: 500}}

	alertsMock.EXPECT().ListAlerts(ctx).Return([]*models.Alert{}, nil)
	checksMock.EXPECT().SaveLocationCheck(ctx, gomock.Any()).Return(nil)
	webhookMock.EXPECT().Publish(ctx, gomock.Any()).Return(nil)

	result, err := svc.CheckLocation(ctx, "tourist-1", geofence.Point{Lat: 10, Lng: 10}, zones, nil)

	require.NoError(t, err)
	assert.True(t, result.InDanger)
	assert.Equal(t, "Construction", result.Zone.Name)
	assert.Empty(t, result.Route)
}

func TestCheckLocation_Safe(t *testing.T) {
	svc, alertsMock, checksMock, webhookMock := newTestLocationService(t)
	ctx := context.Background()
	medical := &models.Alert{Type: models.AlertTypeMedical, Location: models.Location{Latitude: 1, Longitude: 1}}

	alertsMock.EXPECT().ListAlerts(ctx).Return([]*models.Alert{medical}, nil)
	checksMock.EXPECT().
		SaveLocationCheck(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, check *models.LocationCheck) error {
			assert.False(t, check.IsDangerous)
			return nil
		})
	webhookMock.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	result, err := svc.CheckLocation(ctx, "tourist-1", geofence.Point{Lat: 1, Lng: 1}, nil, nil)

	require.NoError(t, err)
	assert.False(t, result.InDanger)
	assert.Nil(t, result.Zone)
}

func TestCheckLocation_AlertsError(t *testing.T) {
	svc, alertsMock, checksMock, _ := newTestLocationService(t)
	ctx := context.Background()

	alertsMock.EXPECT().ListAlerts(ctx).Return(nil, errors.New("db down"))
	checksMock.EXPECT().SaveLocationCheck(gomock.Any(), gomock.Any()).Times(0)

	result, err := svc.CheckLocation(ctx, "tourist-1", geofence.Point{}, nil, nil)

	require.Error(t, err)
	assert.Nil(t, result)
}

func TestCheckLocation_SaveError(t *testing.T) {
	svc, alertsMock, checksMock, _ := newTestLocationService(t)
	ctx := context.Background()

	alertsMock.EXPECT().ListAlerts(ctx).Return(nil, nil)
	checksMock.EXPECT().SaveLocationCheck(ctx, gomock.Any()).Return(errors.New("db down"))

	_, err := svc.CheckLocation(ctx, "tourist-1", geofence.Point{}, nil, nil)

	assert.ErrorContains(t, err, "failed to save location check")
}

func TestLocationGetStats(t *testing.T) {
	svc, _, checksMock, _ := newTestLocationService(t)
	ctx := context.Background()

	checksMock.EXPECT().GetLocationCheckStats(ctx, 60).Return(4, nil)

	count, err := svc.GetStats(ctx)

	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestLocationGetStats_Error(t *testing.T) {
	svc, _, checksMock, _ := newTestLocationService(t)
	ctx := context.Background()

	checksMock.EXPECT().GetLocationCheckStats(ctx, 60).Return(0, errors.New("db down"))

	_, err := svc.GetStats(ctx)

	assert.Error(t, err)
}
