package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/tourist_safety_system/internal/models"
	"github.com/shenikar/tourist_safety_system/internal/service"
)

const (
	alertFeedKey        = "alerts:feed"
	alertFeedVersionKey = "alerts:feed:version"
)

const alertColumns = `
	id,
	user_id,
	type,
	description,
	timestamp,
	latitude,
	longitude,
	status,
	risk_score,
	responder,
	timeline,
	resolution_notes,
	created_at,
	updated_at`

type AlertRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
	cacheTTL    time.Duration
}

func NewAlertRepository(db *pgxpool.Pool, redisClient *redis.Client, cacheTTL time.Duration) service.AlertRepository {
	return &AlertRepository{
		db:          db,
		redisClient: redisClient,
		cacheTTL:    cacheTTL,
	}
}

// Create создает новую запись о сигнале в бд
func (r *AlertRepository) Create(ctx context.Context, alert *models.Alert) error {
	responder, timeline, err := encodeAlertDocuments(alert)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO alerts (id, user_id, type, description, timestamp, latitude, longitude, status, risk_score, responder, timeline, resolution_notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING created_at, updated_at;
	`
	err = r.db.QueryRow(ctx, query,
		alert.ID,
		alert.UserID,
		alert.Type,
		alert.Description,
		alert.Timestamp,
		alert.Location.Latitude,
		alert.Location.Longitude,
		alert.Status,
		alert.RiskScore,
		responder,
		timeline,
		alert.ResolutionNotes,
	).Scan(&alert.CreatedAt, &alert.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}
	return nil
}

// GetByID возвращает сигнал по его UUID
func (r *AlertRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Alert, error) {
	query := `SELECT` + alertColumns + `
		FROM alerts
		WHERE id = $1;
	`
	alert, err := scanAlert(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("alert with id %s: %w", id, service.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get alert by id: %w", err)
	}
	return alert, nil
}

// List возвращает все сигналы, новые первыми
func (r *AlertRepository) List(ctx context.Context) ([]*models.Alert, error) {
	query := `SELECT` + alertColumns + `
		FROM alerts
		ORDER BY timestamp DESC;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer rows.Close()

	alerts := make([]*models.Alert, 0)
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert row: %w", err)
		}
		alerts = append(alerts, alert)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return alerts, nil
}

// Update блокирует строку сигнала, передает текущее состояние в mutate и сохраняет результат.
// Если mutate вернул ошибку, транзакция откатывается.
func (r *AlertRepository) Update(ctx context.Context, id uuid.UUID, mutate func(*models.Alert) error) (*models.Alert, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin alert update: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	query := `SELECT` + alertColumns + `
		FROM alerts
		WHERE id = $1
		FOR UPDATE;
	`
	alert, err := scanAlert(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("alert with id %s not found for update: %w", id, service.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock alert: %w", err)
	}

	if err := mutate(alert); err != nil {
		return nil, err
	}
	alert.ID = id

	responder, timeline, err := encodeAlertDocuments(alert)
	if err != nil {
		return nil, err
	}

	update := `
		UPDATE alerts SET
			type = $1,
			description = $2,
			latitude = $3,
			longitude = $4,
			status = $5,
			risk_score = $6,
			responder = $7,
			timeline = $8,
			resolution_notes = $9,
			updated_at = NOW()
		WHERE id = $10
		RETURNING updated_at;
	`
	err = tx.QueryRow(ctx, update,
		alert.Type,
		alert.Description,
		alert.Location.Latitude,
		alert.Location.Longitude,
		alert.Status,
		alert.RiskScore,
		responder,
		timeline,
		alert.ResolutionNotes,
		id,
	).Scan(&alert.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update alert: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit alert update: %w", err)
	}
	return alert, nil
}

// GetAlertsFromCache пытается получить ленту сигналов из Redis вместе с ее версией
func (r *AlertRepository) GetAlertsFromCache(ctx context.Context) ([]*models.Alert, int64, error) {
	vals, err := r.redisClient.MGet(ctx, alertFeedKey, alertFeedVersionKey).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get alert feed from cache: %w", err)
	}

	version, err := parseFeedVersion(vals[1])
	if err != nil {
		return nil, 0, err
	}
	raw, ok := vals[0].(string)
	if !ok {
		return nil, version, nil
	}

	alerts := make([]*models.Alert, 0)
	if err := json.Unmarshal([]byte(raw), &alerts); err != nil {
		return nil, 0, fmt.Errorf("failed to unmarshal alert feed from cache: %w", err)
	}
	return alerts, version, nil
}

// SetAlertsCache сохраняет ленту сигналов в Redis, если версия ленты не изменилась с момента чтения
func (r *AlertRepository) SetAlertsCache(ctx context.Context, alerts []*models.Alert, version int64) error {
	val, err := json.Marshal(alerts)
	if err != nil {
		return fmt.Errorf("failed to marshal alert feed for cache: %w", err)
	}

	err = r.redisClient.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, alertFeedVersionKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return service.ErrCacheStale
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, alertFeedKey, val, r.cacheTTL)
			return nil
		})
		return err
	}, alertFeedVersionKey)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, service.ErrCacheStale), errors.Is(err, redis.TxFailedErr):
		return service.ErrCacheStale
	}
	return fmt.Errorf("failed to set alert feed in cache: %w", err)
}

// InvalidateAlertsCache увеличивает версию ленты и удаляет ее из Redis кэша
func (r *AlertRepository) InvalidateAlertsCache(ctx context.Context) error {
	_, err := r.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, alertFeedVersionKey)
		pipe.Del(ctx, alertFeedKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate alert feed cache: %w", err)
	}
	return nil
}

func parseFeedVersion(v interface{}) (int64, error) {
	s, ok := v.(string)
	if !ok {
		return 0, nil
	}
	version, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse alert feed version %q: %w", s, err)
	}
	return version, nil
}

func scanAlert(row pgx.Row) (*models.Alert, error) {
	alert := &models.Alert{}
	var responder, timeline []byte
	err := row.Scan(
		&alert.ID,
		&alert.UserID,
		&alert.Type,
		&alert.Description,
		&alert.Timestamp,
		&alert.Location.Latitude,
		&alert.Location.Longitude,
		&alert.Status,
		&alert.RiskScore,
		&responder,
		&timeline,
		&alert.ResolutionNotes,
		&alert.CreatedAt,
		&alert.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(responder) > 0 && string(responder) != "null" {
		alert.Responder = &models.Responder{}
		if err := json.Unmarshal(responder, alert.Responder); err != nil {
			return nil, fmt.Errorf("failed to decode responder: %w", err)
		}
	}
	alert.Timeline = make([]models.TimelineEvent, 0)
	if len(timeline) > 0 {
		if err := json.Unmarshal(timeline, &alert.Timeline); err != nil {
			return nil, fmt.Errorf("failed to decode timeline: %w", err)
		}
	}
	return alert, nil
}

// encodeAlertDocuments сериализует jsonb-поля сигнала. Пустой ответственный хранится как NULL.
func encodeAlertDocuments(alert *models.Alert) (responder, timeline []byte, err error) {
	if alert.Responder != nil {
		responder, err = json.Marshal(alert.Responder)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode responder: %w", err)
		}
	}
	events := alert.Timeline
	if events == nil {
		events = []models.TimelineEvent{}
	}
	timeline, err = json.Marshal(events)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode timeline: %w", err)
	}
	return responder, timeline, nil
}
