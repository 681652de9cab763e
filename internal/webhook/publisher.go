package webhook

//go:generate mockgen -source=publisher.go -destination=mocks/publisher_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/tourist_safety_system/internal/models"
)

const (
	webhookQueueKey = "webhook_events"
)

// EventType - тип уведомления
type EventType string

const (
	EventAlertCreated    EventType = "alert.created"
	EventAlertDispatched EventType = "alert.dispatched"
	EventAlertUpdated    EventType = "alert.updated"
	EventAlertResolved   EventType = "alert.resolved"
	EventLocationDanger  EventType = "location.danger"
)

// Event - данные вебхука
type Event struct {
	Type        EventType     `json:"type"`
	Alert       *models.Alert `json:"alert,omitempty"`
	UserID      string        `json:"userId,omitempty"`
	Latitude    float64       `json:"latitude,omitempty"`
	Longitude   float64       `json:"longitude,omitempty"`
	IsDangerous bool          `json:"isDangerous,omitempty"`
	ZoneName    string        `json:"zoneName,omitempty"`
	Timestamp   time.Time     `json:"timestamp"`
}

// AlertEvent строит уведомление об изменении сигнала
func AlertEvent(t EventType, alert *models.Alert, at time.Time) Event {
	return Event{
		Type:      t,
		Alert:     alert,
		UserID:    alert.UserID,
		Latitude:  alert.Location.Latitude,
		Longitude: alert.Location.Longitude,
		Timestamp: at,
	}
}

// Publisher - интерфейс для публикации вебхуков
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// RedisPublisher - реализация Publisher, использующая очередь Redis
type RedisPublisher struct {
	redisClient *redis.Client
}

// NewRedisPublisher создает новый RedisPublisher
func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{
		redisClient: client,
	}
}

// Publish публикует событие вебхука в очередь Redis
func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook event: %w", err)
	}

	// LPUSH в голову списка, воркер забирает с хвоста через BRPOP
	if err := p.redisClient.LPush(ctx, webhookQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish webhook event to Redis: %w", err)
	}
	return nil
}
