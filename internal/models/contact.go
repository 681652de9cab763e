package models

import (
	"time"

	"github.com/google/uuid"
)

// Contact - экстренный контакт туриста
type Contact struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Relation  string    `json:"relation,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
