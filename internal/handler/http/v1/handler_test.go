package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/tourist_safety_system/internal/config"
	"github.com/shenikar/tourist_safety_system/internal/geofence"
	"github.com/shenikar/tourist_safety_system/internal/models"
	"github.com/shenikar/tourist_safety_system/internal/service"
	"github.com/shenikar/tourist_safety_system/internal/service/mocks"
	"github.com/shenikar/tourist_safety_system/internal/triage"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var apiKeyHeader = map[string]string{"X-API-Key": "test-api-key"}

type testMocks struct {
	alerts   *mocks.MockAlertService
	location *mocks.MockLocationService
	contacts *mocks.MockContactService
	auth     *mocks.MockAuthService
}

// newTestHandler создает новый экземпляр Handler с мокированными сервисами
func newTestHandler(t *testing.T) (*testMocks, *gin.Engine) {
	ctrl := gomock.NewController(t)
	m := &testMocks{
		alerts:   mocks.NewMockAlertService(ctrl),
		location: mocks.NewMockLocationService(ctrl),
		contacts: mocks.NewMockContactService(ctrl),
		auth:     mocks.NewMockAuthService(ctrl),
	}

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		APIKeys:                []string{"test-api-key"},
		StatsTimeWindowMinutes: 60,
		AuthRateLimit:          1,
		AuthRateBurst:          2,
	}

	handler := NewHandler(m.alerts, m.location, m.contacts, m.auth, logger, cfg)

	// Настройка Gin роутера для тестов
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api")
	handler.RegisterRoutes(api)

	return m, router
}

// makeRequest - вспомогательная функция для выполнения HTTP-запросов
func makeRequest(router *gin.Engine, method, url string, body io.Reader, headers ...map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		for key, value := range h {
			req.Header.Set(key, value)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func TestCreateAlert_Success(t *testing.T) {
	m, router := newTestHandler(t)
	alertID := uuid.New()
	reqBody := CreateAlertRequest{
		UserID:    "USR-8829-X",
		Type:      "PANIC",
		Location:  LocationDTO{Lat: 12.2958, Lng: 76.6394},
		RiskScore: 8,
	}

	m.alerts.EXPECT().
		CreateAlert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, a *models.Alert) error {
			assert.Equal(t, models.AlertTypePanic, a.Type)
			assert.Equal(t, 12.2958, a.Location.Latitude)
			a.ID = alertID
			a.Status = models.AlertStatusPending
			a.Timeline = []models.TimelineEvent{}
			return nil
		}).Times(1)

	w := makeRequest(router, "POST", "/api/alerts", jsonBody(t, reqBody))

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp AlertResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, alertID, resp.ID)
	assert.Equal(t, "PENDING", resp.Status)
	assert.Equal(t, LocationDTO{Lat: 12.2958, Lng: 76.6394}, resp.Location)
	assert.Contains(t, w.Body.String(), `"timeline":[]`)
}

func TestCreateAlert_InvalidJSON(t *testing.T) {
	m, router := newTestHandler(t)

	m.alerts.EXPECT().CreateAlert(gomock.Any(), gomock.Any()).Times(0) // Сервис не должен вызываться

	w := makeRequest(router, "POST", "/api/alerts", bytes.NewBufferString(`{"userId": "u1"`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestCreateAlert_ValidationError(t *testing.T) {
	tests := []struct {
		name string
		body CreateAlertRequest
	}{
		{"missing user", CreateAlertRequest{Type: "PANIC"}},
		{"unknown type", CreateAlertRequest{UserID: "u1", Type: "FLOOD"}},
		{"bad latitude", CreateAlertRequest{UserID: "u1", Type: "LOST", Location: LocationDTO{Lat: 123}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, router := newTestHandler(t)
			m.alerts.EXPECT().CreateAlert(gomock.Any(), gomock.Any()).Times(0)

			w := makeRequest(router, "POST", "/api/alerts", jsonBody(t, tt.body))

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestCreateAlert_ServiceError(t *testing.T) {
	m, router := newTestHandler(t)
	reqBody := CreateAlertRequest{UserID: "u1", Type: "MEDICAL"}

	m.alerts.EXPECT().CreateAlert(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

	w := makeRequest(router, "POST", "/api/alerts", jsonBody(t, reqBody))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestListAlerts_Success(t *testing.T) {
	m, router := newTestHandler(t)
	alerts := []*models.Alert{
		{ID: uuid.New(), Type: models.AlertTypeLost, Timestamp: 2},
		{ID: uuid.New(), Type: models.AlertTypePanic, Timestamp: 1},
	}

	m.alerts.EXPECT().ListAlerts(gomock.Any()).Return(alerts, nil)

	w := makeRequest(router, "GET", "/api/alerts", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []AlertResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, alerts[0].ID, resp[0].ID)
}

func TestGetAlert_NotFound(t *testing.T) {
	m, router := newTestHandler(t)
	id := uuid.New()

	m.alerts.EXPECT().GetAlert(gomock.Any(), id).Return(nil, fmt.Errorf("service: %w", service.ErrNotFound))

	w := makeRequest(router, "GET", "/api/alerts/"+id.String(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetAlert_InvalidID(t *testing.T) {
	m, router := newTestHandler(t)
	m.alerts.EXPECT().GetAlert(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "GET", "/api/alerts/invalid-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid alert ID")
}

func TestUpdateAlert_Success(t *testing.T) {
	m, router := newTestHandler(t)
	id := uuid.New()
	body := bytes.NewBufferString(`{"status":"IN_PROGRESS","responder":{"name":"POLICE Unit"},"timeline":[{"status":"IN_PROGRESS","note":"Team Dispatched: POLICE","timestamp":5}]}`)

	m.alerts.EXPECT().
		UpdateAlert(gomock.Any(), id, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, patch *models.AlertPatch) (*models.Alert, error) {
			require.NotNil(t, patch.Status)
			assert.Equal(t, models.AlertStatusInProgress, *patch.Status)
			assert.Equal(t, "POLICE Unit", patch.Responder.Name)
			assert.Len(t, patch.Timeline, 1)
			assert.Nil(t, patch.Type)
			assert.Nil(t, patch.Description)
			assert.Nil(t, patch.IfStatus)
			return &models.Alert{ID: id, Status: models.AlertStatusInProgress, Responder: patch.Responder, Timeline: patch.Timeline}, nil
		})

	w := makeRequest(router, "PUT", "/api/alerts/"+id.String(), body)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp AlertResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "IN_PROGRESS", resp.Status)
	require.NotNil(t, resp.Responder)
}

func TestUpdateAlert_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not found", service.ErrNotFound, http.StatusNotFound},
		{"invariant violated", service.ErrValidation, http.StatusBadRequest},
		{"precondition failed", service.ErrConflict, http.StatusConflict},
		{"storage failure", errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, router := newTestHandler(t)
			id := uuid.New()
			m.alerts.EXPECT().UpdateAlert(gomock.Any(), id, gomock.Any()).Return(nil, fmt.Errorf("service: %w", tt.err))

			w := makeRequest(router, "PUT", "/api/alerts/"+id.String(), bytes.NewBufferString(`{"description":"x"}`))

			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestUpdateAlert_InvalidStatus(t *testing.T) {
	m, router := newTestHandler(t)
	m.alerts.EXPECT().UpdateAlert(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "PUT", "/api/alerts/"+uuid.NewString(), bytes.NewBufferString(`{"status":"CLOSED"}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPendingQueue_RequiresAuth(t *testing.T) {
	m, router := newTestHandler(t)
	m.alerts.EXPECT().PendingQueue(gomock.Any()).Times(0)

	w := makeRequest(router, "GET", "/api/alerts/queue", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPendingQueue_InvalidAPIKey(t *testing.T) {
	m, router := newTestHandler(t)
	m.alerts.EXPECT().PendingQueue(gomock.Any()).Times(0)

	w := makeRequest(router, "GET", "/api/alerts/queue", nil, map[string]string{"X-API-Key": "wrong"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPendingQueue_TouristForbidden(t *testing.T) {
	m, router := newTestHandler(t)
	m.auth.EXPECT().ParseToken("tourist-token").Return(&models.Claims{UserID: uuid.New(), Role: models.RoleTourist}, nil)
	m.alerts.EXPECT().PendingQueue(gomock.Any()).Times(0)

	w := makeRequest(router, "GET", "/api/alerts/queue", nil, map[string]string{"Authorization": "Bearer tourist-token"})

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPendingQueue_AuthorityToken(t *testing.T) {
	m, router := newTestHandler(t)
	queue := []*models.Alert{{ID: uuid.New(), Type: models.AlertTypeMedical, Status: models.AlertStatusPending}}

	m.auth.EXPECT().ParseToken("officer-token").Return(&models.Claims{UserID: uuid.New(), Role: models.RoleAuthority}, nil)
	m.alerts.EXPECT().PendingQueue(gomock.Any()).Return(queue, nil)

	w := makeRequest(router, "GET", "/api/alerts/queue", nil, map[string]string{"Authorization": "Bearer officer-token"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), queue[0].ID.String())
}

func TestPendingQueue_ExpiredToken(t *testing.T) {
	m, router := newTestHandler(t)
	m.auth.EXPECT().ParseToken("expired").Return(nil, service.ErrUnauthorized)

	w := makeRequest(router, "GET", "/api/alerts/queue", nil, map[string]string{"Authorization": "Bearer expired"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAlertStats_Success(t *testing.T) {
	m, router := newTestHandler(t)
	points := []triage.StatsPoint{{Label: "08:00", Requested: 3, Resolved: 1}}

	m.alerts.EXPECT().Stats(gomock.Any()).Return(points, nil)

	w := makeRequest(router, "GET", "/api/alerts/stats", nil, apiKeyHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"name":"08:00","requested":3,"resolved":1}]`, w.Body.String())
}

func TestDispatchAlert_Success(t *testing.T) {
	m, router := newTestHandler(t)
	id := uuid.New()
	responder := models.Responder{Name: "AMBULANCE Unit", Designation: "Rapid Response AMBULANCE", Contact: "112"}

	m.alerts.EXPECT().
		DispatchAlert(gomock.Any(), id, triage.UnitAmbulance).
		Return(&models.Alert{ID: id, Status: models.AlertStatusInProgress, Responder: &responder}, nil)

	w := makeRequest(router, "POST", "/api/alerts/"+id.String()+"/dispatch", bytes.NewBufferString(`{"unit":"AMBULANCE"}`), apiKeyHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Rapid Response AMBULANCE")
}

func TestDispatchAlert_UnknownUnit(t *testing.T) {
	m, router := newTestHandler(t)
	m.alerts.EXPECT().DispatchAlert(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "POST", "/api/alerts/"+uuid.NewString()+"/dispatch", bytes.NewBufferString(`{"unit":"NAVY"}`), apiKeyHeader)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDispatchAlert_NotPending(t *testing.T) {
	m, router := newTestHandler(t)
	id := uuid.New()

	m.alerts.EXPECT().
		DispatchAlert(gomock.Any(), id, triage.UnitPolice).
		Return(nil, fmt.Errorf("dispatch: %w", triage.ErrInvalidTransition))

	w := makeRequest(router, "POST", "/api/alerts/"+id.String()+"/dispatch", bytes.NewBufferString(`{"unit":"POLICE"}`), apiKeyHeader)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAddStatusNote_Success(t *testing.T) {
	m, router := newTestHandler(t)
	id := uuid.New()

	m.alerts.EXPECT().
		AddStatusNote(gomock.Any(), id, "Unit On-Scene").
		Return(&models.Alert{ID: id, Status: models.AlertStatusInProgress}, nil)

	w := makeRequest(router, "POST", "/api/alerts/"+id.String()+"/status", bytes.NewBufferString(`{"note":"Unit On-Scene"}`), apiKeyHeader)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestResolveAlert_MissingNotes(t *testing.T) {
	m, router := newTestHandler(t)
	m.alerts.EXPECT().ResolveAlert(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "POST", "/api/alerts/"+uuid.NewString()+"/resolve", bytes.NewBufferString(`{}`), apiKeyHeader)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResolveAlert_Success(t *testing.T) {
	m, router := newTestHandler(t)
	id := uuid.New()

	m.alerts.EXPECT().
		ResolveAlert(gomock.Any(), id, "Tourist escorted to hotel").
		Return(&models.Alert{ID: id, Status: models.AlertStatusResolved, ResolutionNotes: "Tourist escorted to hotel"}, nil)

	w := makeRequest(router, "POST", "/api/alerts/"+id.String()+"/resolve", bytes.NewBufferString(`{"notes":"Tourist escorted to hotel"}`), apiKeyHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"RESOLVED"`)
}

func TestCreateContact_Success(t *testing.T) {
	m, router := newTestHandler(t)
	contactID := uuid.New()

	m.contacts.EXPECT().
		CreateContact(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c *models.Contact) error {
			c.ID = contactID
			return nil
		})

	w := makeRequest(router, "POST", "/api/contacts", jsonBody(t, ContactRequest{UserID: "u1", Name: "Asha", Phone: "100"}))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), contactID.String())
}

func TestListContacts_ByUser(t *testing.T) {
	m, router := newTestHandler(t)

	m.contacts.EXPECT().ListContacts(gomock.Any(), "u1").Return([]*models.Contact{{ID: uuid.New(), UserID: "u1"}}, nil)

	w := makeRequest(router, "GET", "/api/contacts?userId=u1", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteContact(t *testing.T) {
	m, router := newTestHandler(t)
	id := uuid.New()
	missing := uuid.New()

	m.contacts.EXPECT().DeleteContact(gomock.Any(), id).Return(nil)
	m.contacts.EXPECT().DeleteContact(gomock.Any(), missing).Return(service.ErrNotFound)

	w := makeRequest(router, "DELETE", "/api/contacts/"+id.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Deleted"}`, w.Body.String())

	w = makeRequest(router, "DELETE", "/api/contacts/"+missing.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegister_Success(t *testing.T) {
	m, router := newTestHandler(t)
	userID := uuid.New()
	reqBody := RegisterRequest{Username: "mysore-police", Password: "secret", Name: "Mysore Police", Role: "AGENCY", Jurisdiction: "Mysuru"}

	m.auth.EXPECT().
		Register(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, in *models.RegisterInput) (*models.User, error) {
			require.NotNil(t, in.Agency)
			assert.Equal(t, "Mysuru", in.Agency.Jurisdiction)
			return &models.User{ID: userID, Username: in.Username, Role: models.RoleAuthority}, nil
		})

	w := makeRequest(router, "POST", "/api/auth/register", jsonBody(t, reqBody))

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp RegisterResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, userID, resp.User.ID)
	assert.Equal(t, "AUTHORITY", resp.User.Role)
}

func TestRegister_Duplicate(t *testing.T) {
	m, router := newTestHandler(t)

	m.auth.EXPECT().Register(gomock.Any(), gomock.Any()).Return(nil, service.ErrUserExists)

	w := makeRequest(router, "POST", "/api/auth/register", jsonBody(t, RegisterRequest{Username: "ravi", Password: "secret", Name: "Ravi"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "username already exists")
}

func TestLogin_InvalidCredentials(t *testing.T) {
	m, router := newTestHandler(t)

	m.auth.EXPECT().Login(gomock.Any(), "ravi", "guess", models.RoleTourist).Return(nil, service.ErrInvalidCredentials)

	w := makeRequest(router, "POST", "/api/auth/login", jsonBody(t, LoginRequest{Username: "ravi", Password: "guess", Role: "TOURIST"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_RateLimited(t *testing.T) {
	m, router := newTestHandler(t)

	m.auth.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, service.ErrInvalidCredentials).Times(2)

	codes := make([]int, 0, 3)
	for range 3 {
		w := makeRequest(router, "POST", "/api/auth/login", jsonBody(t, LoginRequest{Username: "ravi", Password: "guess"}))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusBadRequest, http.StatusBadRequest, http.StatusTooManyRequests}, codes)
}

func TestCheckLocation_Danger(t *testing.T) {
	m, router := newTestHandler(t)
	reqBody := LocationCheckRequest{
		UserID:    "tourist-1",
		Latitude:  12.30,
		Longitude: 76.65,
		SafeSpots: []SafeSpotDTO{{Name: "Mysore Palace", Location: LocationDTO{Lat: 12.3052, Lng: 76.6552}}},
	}
	zone := geofence.Zone{Name: "HARASSMENT reported in this area", Center: geofence.Point{Lat: 12.30, Lng: 76.65}, RadiusMeters: 300}
	spot := geofence.SafeSpot{Name: "Mysore Palace", Point: geofence.Point{Lat: 12.3052, Lng: 76.6552}}

	m.location.EXPECT().
		CheckLocation(gomock.Any(), "tourist-1", geofence.Point{Lat: 12.30, Lng: 76.65}, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, pos geofence.Point, zones []geofence.Zone, spots []geofence.SafeSpot) (*geofence.Assessment, error) {
			assert.Empty(t, zones)
			assert.Equal(t, []geofence.SafeSpot{spot}, spots)
			return &geofence.Assessment{
				Position: pos,
				InDanger: true,
				Zone:     &zone,
				SafeSpot: &spot,
				Route:    []geofence.Point{pos, spot.Point},
			}, nil
		})

	w := makeRequest(router, "POST", "/api/location/check", jsonBody(t, reqBody))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp LocationCheckResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.IsDangerous)
	assert.Equal(t, "HARASSMENT reported in this area", resp.Zone.Name)
	assert.Len(t, resp.Route, 2)
}

func TestCheckLocation_ValidationError(t *testing.T) {
	m, router := newTestHandler(t)
	m.location.EXPECT().CheckLocation(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "POST", "/api/location/check", bytes.NewBufferString(`{"latitude": 10, "longitude": 20}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetLocationStats(t *testing.T) {
	m, router := newTestHandler(t)
	m.location.EXPECT().GetStats(gomock.Any()).Return(7, nil)

	w := makeRequest(router, "GET", "/api/location/stats", nil, apiKeyHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userCount":7}`, w.Body.String())
}

func TestHealthCheck(t *testing.T) {
	_, router := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
