package v1

import (
	"time"

	"github.com/google/uuid"
)

// LocationDTO - координаты точки
// @Description Координаты точки
type LocationDTO struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lng float64 `json:"lng" validate:"longitude"`
}

// ResponderDTO - назначенная на сигнал бригада
// @Description Назначенная на сигнал бригада
type ResponderDTO struct {
	Name        string `json:"name" validate:"required"`
	Designation string `json:"designation,omitempty"`
	Contact     string `json:"contact,omitempty"`
}

// TimelineEventDTO - запись журнала сигнала
// @Description Запись журнала сигнала
type TimelineEventDTO struct {
	Status    string `json:"status" validate:"required,oneof=PENDING IN_PROGRESS RESOLVED"`
	Note      string `json:"note"`
	Timestamp int64  `json:"timestamp" validate:"gte=0"`
}

// CreateAlertRequest DTO для создания сигнала
// @Description DTO для создания сигнала
type CreateAlertRequest struct {
	ID          string      `json:"id,omitempty" validate:"omitempty,uuid"`
	UserID      string      `json:"userId" validate:"required"`
	Type        string      `json:"type" validate:"required,oneof=PANIC HARASSMENT MEDICAL LOST OTHER"`
	Description string      `json:"description,omitempty"`
	Timestamp   int64       `json:"timestamp,omitempty" validate:"gte=0"`
	Location    LocationDTO `json:"location"`
	RiskScore   float64     `json:"riskScore" validate:"gte=0"`
}

// UpdateAlertRequest DTO для слияния полей сигнала. Отсутствующие поля не меняются.
// @Description DTO для обновления сигнала
type UpdateAlertRequest struct {
	Type            *string            `json:"type,omitempty" validate:"omitempty,oneof=PANIC HARASSMENT MEDICAL LOST OTHER"`
	Description     *string            `json:"description,omitempty"`
	Location        *LocationDTO       `json:"location,omitempty"`
	Status          *string            `json:"status,omitempty" validate:"omitempty,oneof=PENDING IN_PROGRESS RESOLVED"`
	RiskScore       *float64           `json:"riskScore,omitempty" validate:"omitempty,gte=0"`
	Responder       *ResponderDTO      `json:"responder,omitempty"`
	Timeline        []TimelineEventDTO `json:"timeline,omitempty" validate:"omitempty,dive"`
	ResolutionNotes *string            `json:"resolutionNotes,omitempty"`
}

// AlertResponse DTO для ответа с информацией о сигнале
// @Description DTO для ответа с информацией о сигнале
type AlertResponse struct {
	ID              uuid.UUID          `json:"id"`
	UserID          string             `json:"userId"`
	Type            string             `json:"type"`
	Description     string             `json:"description,omitempty"`
	Timestamp       int64              `json:"timestamp"`
	Location        LocationDTO        `json:"location"`
	Status          string             `json:"status"`
	RiskScore       float64            `json:"riskScore"`
	Responder       *ResponderDTO      `json:"responder,omitempty"`
	Timeline        []TimelineEventDTO `json:"timeline"`
	ResolutionNotes string             `json:"resolutionNotes,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

// DispatchRequest DTO для отправки бригады
// @Description DTO для отправки бригады
type DispatchRequest struct {
	Unit string `json:"unit" validate:"required,oneof=POLICE AMBULANCE VOLUNTEER FIRE"`
}

// StatusNoteRequest DTO для заметки о ходе работ
// @Description DTO для заметки о ходе работ
type StatusNoteRequest struct {
	Note string `json:"note" validate:"required"`
}

// ResolveRequest DTO для закрытия сигнала
// @Description DTO для закрытия сигнала
type ResolveRequest struct {
	Notes string `json:"notes" validate:"required"`
}

// ContactRequest DTO для создания экстренного контакта
// @Description DTO для создания экстренного контакта
type ContactRequest struct {
	UserID   string `json:"userId" validate:"required"`
	Name     string `json:"name" validate:"required,max=255"`
	Phone    string `json:"phone" validate:"required,max=32"`
	Relation string `json:"relation,omitempty"`
}

// ContactResponse DTO для ответа с контактом
// @Description DTO для ответа с контактом
type ContactResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Relation  string    `json:"relation,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// RegisterRequest DTO для регистрации. Поля ведомства учитываются только для роли AUTHORITY/AGENCY.
// @Description DTO для регистрации
type RegisterRequest struct {
	Username      string `json:"username" validate:"required,min=3,max=64"`
	Password      string `json:"password" validate:"required,min=4"`
	Role          string `json:"role,omitempty" validate:"omitempty,oneof=TOURIST AUTHORITY AGENCY"`
	Name          string `json:"name" validate:"required"`
	AgencyType    string `json:"agencyType,omitempty"`
	OfficialEmail string `json:"officialEmail,omitempty" validate:"omitempty,email"`
	OfficialPhone string `json:"officialPhone,omitempty"`
	Jurisdiction  string `json:"jurisdiction,omitempty"`
	OfficerName   string `json:"officerName,omitempty"`
	Designation   string `json:"designation,omitempty"`
	OfficerID     string `json:"officerId,omitempty"`
	GeoRadius     int    `json:"geoRadius,omitempty" validate:"gte=0"`
}

// UserSummary - краткие данные учетной записи
// @Description Краткие данные учетной записи
type UserSummary struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name,omitempty"`
	Username     string    `json:"username"`
	Role         string    `json:"role"`
	Jurisdiction string    `json:"jurisdiction,omitempty"`
	OfficerName  string    `json:"officerName,omitempty"`
}

// RegisterResponse DTO для ответа на регистрацию
// @Description DTO для ответа на регистрацию
type RegisterResponse struct {
	Message string      `json:"message"`
	User    UserSummary `json:"user"`
}

// LoginRequest DTO для входа
// @Description DTO для входа
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=TOURIST AUTHORITY AGENCY"`
}

// LoginResponse DTO для ответа на вход
// @Description DTO для ответа на вход
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      UserSummary `json:"user"`
}

// ZoneDTO - круговая опасная зона
// @Description Круговая опасная зона
type ZoneDTO struct {
	Name         string      `json:"name" validate:"required"`
	Center       LocationDTO `json:"center"`
	RadiusMeters float64     `json:"radiusMeters" validate:"gt=0"`
	Reason       string      `json:"reason,omitempty"`
}

// SafeSpotDTO - безопасное место
// @Description Безопасное место
type SafeSpotDTO struct {
	Name     string      `json:"name" validate:"required"`
	Location LocationDTO `json:"location"`
}

// LocationCheckRequest DTO для проверки координат
// @Description DTO для проверки координат
type LocationCheckRequest struct {
	UserID    string        `json:"userId" validate:"required"`
	Latitude  float64       `json:"latitude" validate:"latitude"`
	Longitude float64       `json:"longitude" validate:"longitude"`
	Zones     []ZoneDTO     `json:"zones,omitempty" validate:"omitempty,dive"`
	SafeSpots []SafeSpotDTO `json:"safeSpots,omitempty" validate:"omitempty,dive"`
}

// LocationCheckResponse DTO для результата проверки координат
// @Description DTO для результата проверки координат
type LocationCheckResponse struct {
	IsDangerous bool          `json:"isDangerous"`
	Zone        *ZoneDTO      `json:"zone,omitempty"`
	SafeSpot    *SafeSpotDTO  `json:"safeSpot,omitempty"`
	Route       []LocationDTO `json:"route"`
}

// StatsResponse DTO для ответа со статистикой
// @Description DTO для ответа со статистикой
type StatsResponse struct {
	UserCount int `json:"userCount"`
}

// StatsPointResponse - точка графика обращений
// @Description Точка графика обращений
type StatsPointResponse struct {
	Name      string `json:"name"`
	Requested int    `json:"requested"`
	Resolved  int    `json:"resolved"`
}
