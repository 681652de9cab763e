package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/shenikar/tourist_safety_system/internal/models"
)

const defaultTimeout = 10 * time.Second

// APIError - ответ сервера со статусом вне диапазона 2xx
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Message)
}

type errorBody struct {
	Error string `json:"error"`
}

// Client - HTTP-клиент REST API сервиса безопасности туристов
type Client struct {
	http *resty.Client
}

// New создает клиента для baseURL вида http://host:5000/api
func New(baseURL string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(defaultTimeout).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json"),
	}
}

// SetToken задает bearer-токен для последующих запросов
func (c *Client) SetToken(token string) {
	c.http.SetAuthToken(token)
}

// ListAlerts возвращает все сигналы, новые первыми
func (c *Client) ListAlerts(ctx context.Context) ([]*models.Alert, error) {
	alerts := make([]*models.Alert, 0)
	if err := c.do(ctx, http.MethodGet, "/alerts", nil, &alerts); err != nil {
		return nil, fmt.Errorf("client: list alerts: %w", err)
	}
	return alerts, nil
}

// CreateAlert отправляет новый сигнал и возвращает сохраненную запись
func (c *Client) CreateAlert(ctx context.Context, alert *models.Alert) (*models.Alert, error) {
	body := createAlertBody{
		UserID:      alert.UserID,
		Type:        alert.Type,
		Description: alert.Description,
		Timestamp:   alert.Timestamp,
		Location:    alert.Location,
		RiskScore:   alert.RiskScore,
	}
	if alert.ID != uuid.Nil {
		body.ID = alert.ID.String()
	}

	created := &models.Alert{}
	if err := c.do(ctx, http.MethodPost, "/alerts", body, created); err != nil {
		return nil, fmt.Errorf("client: create alert: %w", err)
	}
	return created, nil
}

// UpdateAlert сливает поля патча в сигнал на сервере.
// Условие IfStatus по HTTP не передается: PUT работает по принципу last-write-wins.
func (c *Client) UpdateAlert(ctx context.Context, id uuid.UUID, patch *models.AlertPatch) (*models.Alert, error) {
	body := updateAlertBody{
		Type:            patch.Type,
		Description:     patch.Description,
		Location:        patch.Location,
		Status:          patch.Status,
		RiskScore:       patch.RiskScore,
		Responder:       patch.Responder,
		Timeline:        patch.Timeline,
		ResolutionNotes: patch.ResolutionNotes,
	}

	updated := &models.Alert{}
	if err := c.do(ctx, http.MethodPut, "/alerts/"+id.String(), body, updated); err != nil {
		return nil, fmt.Errorf("client: update alert %s: %w", id, err)
	}
	return updated, nil
}

// Login получает токен и сохраняет его в клиенте
func (c *Client) Login(ctx context.Context, username, password string, role models.Role) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	body := map[string]string{"username": username, "password": password, "role": string(role)}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return "", fmt.Errorf("client: login: %w", err)
	}
	c.SetToken(resp.Token)
	return resp.Token, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	req := c.http.R().
		SetContext(ctx).
		SetResult(result).
		SetError(&errorBody{})
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		apiErr := &APIError{StatusCode: resp.StatusCode(), Message: resp.Status()}
		if e, ok := resp.Error().(*errorBody); ok && e.Error != "" {
			apiErr.Message = e.Error
		}
		return apiErr
	}
	return nil
}

type createAlertBody struct {
	ID          string           `json:"id,omitempty"`
	UserID      string           `json:"userId"`
	Type        models.AlertType `json:"type"`
	Description string           `json:"description,omitempty"`
	Timestamp   int64            `json:"timestamp,omitempty"`
	Location    models.Location  `json:"location"`
	RiskScore   float64          `json:"riskScore"`
}

type updateAlertBody struct {
	Type            *models.AlertType      `json:"type,omitempty"`
	Description     *string                `json:"description,omitempty"`
	Location        *models.Location       `json:"location,omitempty"`
	Status          *models.AlertStatus    `json:"status,omitempty"`
	RiskScore       *float64               `json:"riskScore,omitempty"`
	Responder       *models.Responder      `json:"responder,omitempty"`
	Timeline        []models.TimelineEvent `json:"timeline,omitempty"`
	ResolutionNotes *string                `json:"resolutionNotes,omitempty"`
}
