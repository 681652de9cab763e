package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/shenikar/tourist_safety_system/internal/geofence"
	"github.com/shenikar/tourist_safety_system/internal/models"
	"github.com/shenikar/tourist_safety_system/internal/triage"
)

// AlertRepository определяет контракт хранилища сигналов
type AlertRepository interface {
	Create(ctx context.Context, alert *models.Alert) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Alert, error)
	List(ctx context.Context) ([]*models.Alert, error)
	// Update атомарно применяет mutate к текущей версии записи и сохраняет результат
	Update(ctx context.Context, id uuid.UUID, mutate func(*models.Alert) error) (*models.Alert, error)

	// GetAlertsFromCache возвращает ленту из кеша (nil при промахе) и текущую версию ленты
	GetAlertsFromCache(ctx context.Context) ([]*models.Alert, int64, error)
	// SetAlertsCache кеширует ленту, только если ее версия все еще равна version, иначе ErrCacheStale
	SetAlertsCache(ctx context.Context, alerts []*models.Alert, version int64) error
	// InvalidateAlertsCache увеличивает версию ленты и удаляет кеш
	InvalidateAlertsCache(ctx context.Context) error
}

// LocationCheckRepository определяет контракт журнала проверок местоположения
type LocationCheckRepository interface {
	SaveLocationCheck(ctx context.Context, check *models.LocationCheck) error
	GetLocationCheckStats(ctx context.Context, minutes int) (int, error)
}

// ContactRepository определяет контракт хранилища экстренных контактов
type ContactRepository interface {
	Create(ctx context.Context, contact *models.Contact) error
	ListByUser(ctx context.Context, userID string) ([]*models.Contact, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserRepository определяет контракт хранилища учетных записей
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string, role models.Role) (*models.User, error)
}

// AlertService определяет контракт хранилища сигналов и жизненного цикла происшествия
type AlertService interface {
	CreateAlert(ctx context.Context, alert *models.Alert) error
	GetAlert(ctx context.Context, id uuid.UUID) (*models.Alert, error)
	ListAlerts(ctx context.Context) ([]*models.Alert, error)
	UpdateAlert(ctx context.Context, id uuid.UUID, patch *models.AlertPatch) (*models.Alert, error)

	PendingQueue(ctx context.Context) ([]*models.Alert, error)
	Stats(ctx context.Context) ([]triage.StatsPoint, error)
	DispatchAlert(ctx context.Context, id uuid.UUID, unit triage.UnitType) (*models.Alert, error)
	AddStatusNote(ctx context.Context, id uuid.UUID, note string) (*models.Alert, error)
	ResolveAlert(ctx context.Context, id uuid.UUID, notes string) (*models.Alert, error)
}

// LocationService определяет контракт проверки местоположения туриста
type LocationService interface {
	CheckLocation(ctx context.Context, userID string, pos geofence.Point, zones []geofence.Zone, spots []geofence.SafeSpot) (*geofence.Assessment, error)
	GetStats(ctx context.Context) (int, error)
}

// ContactService определяет контракт управления экстренными контактами
type ContactService interface {
	CreateContact(ctx context.Context, contact *models.Contact) error
	ListContacts(ctx context.Context, userID string) ([]*models.Contact, error)
	DeleteContact(ctx context.Context, id uuid.UUID) error
}

// AuthService определяет контракт регистрации и входа
type AuthService interface {
	Register(ctx context.Context, input *models.RegisterInput) (*models.User, error)
	Login(ctx context.Context, username, password string, role models.Role) (*models.AuthResult, error)
	ParseToken(token string) (*models.Claims, error)
}
