package models

import (
	"time"

	"github.com/google/uuid"
)

// Role - роль учетной записи. AGENCY при регистрации приводится к AUTHORITY.
type Role string

const (
	RoleTourist   Role = "TOURIST"
	RoleAuthority Role = "AUTHORITY"
	RoleAgency    Role = "AGENCY"
)

// Normalize сводит роль к одному из двух хранимых значений
func (r Role) Normalize() Role {
	if r == RoleAuthority || r == RoleAgency {
		return RoleAuthority
	}
	return RoleTourist
}

// AgencyProfile - сведения о ведомстве и сотруднике для учетных записей AUTHORITY
type AgencyProfile struct {
	AgencyType    string `json:"agencyType,omitempty"`
	OfficialEmail string `json:"officialEmail,omitempty"`
	OfficialPhone string `json:"officialPhone,omitempty"`
	Jurisdiction  string `json:"jurisdiction,omitempty"`
	OfficerName   string `json:"officerName,omitempty"`
	Designation   string `json:"designation,omitempty"`
	OfficerID     string `json:"officerId,omitempty"`
	GeoRadius     int    `json:"geoRadius,omitempty"`
}

// User - учетная запись туриста или сотрудника ведомства.
// Для AUTHORITY поле Name хранит название ведомства.
type User struct {
	ID           uuid.UUID      `json:"id"`
	Username     string         `json:"username"`
	PasswordHash string         `json:"-"`
	Name         string         `json:"name"`
	Role         Role           `json:"role"`
	Agency       *AgencyProfile `json:"agency,omitempty"`
	IsOnline     bool           `json:"isOnline"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// RegisterInput - данные регистрации
type RegisterInput struct {
	Username string
	Password string
	Name     string
	Role     Role
	Agency   *AgencyProfile
}

// AuthResult - результат успешного входа
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *User
}

// Claims - данные, извлеченные из токена доступа
type Claims struct {
	UserID uuid.UUID
	Role   Role
}
