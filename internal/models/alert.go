package models

import (
	"time"

	"github.com/google/uuid"
)

// AlertType - категория происшествия, определяет приоритет в очереди
type AlertType string

const (
	AlertTypePanic      AlertType = "PANIC"
	AlertTypeHarassment AlertType = "HARASSMENT"
	AlertTypeMedical    AlertType = "MEDICAL"
	AlertTypeLost       AlertType = "LOST"
	AlertTypeOther      AlertType = "OTHER"
)

// Valid сообщает, входит ли тип в допустимое перечисление
func (t AlertType) Valid() bool {
	switch t {
	case AlertTypePanic, AlertTypeHarassment, AlertTypeMedical, AlertTypeLost, AlertTypeOther:
		return true
	}
	return false
}

// AlertStatus - состояние жизненного цикла: PENDING -> IN_PROGRESS -> RESOLVED
type AlertStatus string

const (
	AlertStatusPending    AlertStatus = "PENDING"
	AlertStatusInProgress AlertStatus = "IN_PROGRESS"
	AlertStatusResolved   AlertStatus = "RESOLVED"
)

// Valid сообщает, входит ли статус в допустимое перечисление
func (s AlertStatus) Valid() bool {
	return s.rank() >= 0
}

// CanAdvanceTo сообщает, допустим ли переход из s в to: статус остается прежним
// или переходит ровно на один шаг вперед
func (s AlertStatus) CanAdvanceTo(to AlertStatus) bool {
	return to.rank() == s.rank() || to.rank() == s.rank()+1
}

func (s AlertStatus) rank() int {
	switch s {
	case AlertStatusPending:
		return 0
	case AlertStatusInProgress:
		return 1
	case AlertStatusResolved:
		return 2
	}
	return -1
}

// Location - координаты места происшествия
type Location struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Responder - назначенная на вызов бригада
type Responder struct {
	Name        string `json:"name"`
	Designation string `json:"designation"`
	Contact     string `json:"contact"`
}

// TimelineEvent - запись журнала происшествия. Порядок вставки совпадает с хронологическим.
type TimelineEvent struct {
	Status    AlertStatus `json:"status"`
	Note      string      `json:"note"`
	Timestamp int64       `json:"timestamp"`
}

// Alert - сигнал о происшествии от туриста
type Alert struct {
	ID              uuid.UUID       `json:"id"`
	UserID          string          `json:"userId"`
	Type            AlertType       `json:"type"`
	Description     string          `json:"description,omitempty"`
	Timestamp       int64           `json:"timestamp"`
	Location        Location        `json:"location"`
	Status          AlertStatus     `json:"status"`
	RiskScore       float64         `json:"riskScore"`
	Responder       *Responder      `json:"responder,omitempty"`
	Timeline        []TimelineEvent `json:"timeline"`
	ResolutionNotes string          `json:"resolutionNotes,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Clone возвращает копию сигнала, не разделяющую срезы и указатели с оригиналом
func (a *Alert) Clone() *Alert {
	c := *a
	if a.Responder != nil {
		r := *a.Responder
		c.Responder = &r
	}
	c.Timeline = make([]TimelineEvent, len(a.Timeline))
	copy(c.Timeline, a.Timeline)
	return &c
}

// AlertPatch - частичное обновление сигнала. nil означает "поле не меняется".
// Timeline заменяется целиком: вызывающая сторона передает всю желаемую последовательность.
type AlertPatch struct {
	Type            *AlertType
	Description     *string
	Location        *Location
	Status          *AlertStatus
	RiskScore       *float64
	Responder       *Responder
	Timeline        []TimelineEvent
	ResolutionNotes *string

	// IfStatus - необязательное предусловие: обновление применяется,
	// только если текущий статус совпадает
	IfStatus *AlertStatus
}

// Apply выполняет поверхностное слияние патча в сигнал
func (p *AlertPatch) Apply(a *Alert) {
	if p.Type != nil {
		a.Type = *p.Type
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.Location != nil {
		a.Location = *p.Location
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.RiskScore != nil {
		a.RiskScore = *p.RiskScore
	}
	if p.Responder != nil {
		r := *p.Responder
		a.Responder = &r
	}
	if p.Timeline != nil {
		a.Timeline = make([]TimelineEvent, len(p.Timeline))
		copy(a.Timeline, p.Timeline)
	}
	if p.ResolutionNotes != nil {
		a.ResolutionNotes = *p.ResolutionNotes
	}
}
