package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/tourist_safety_system/internal/models"
	"github.com/shenikar/tourist_safety_system/internal/service"
)

// uniqueViolation - код ошибки PostgreSQL при нарушении уникального индекса
const uniqueViolation = "23505"

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) service.UserRepository {
	return &UserRepository{db: db}
}

// Create сохраняет пользователя. Данные ведомства пишутся только для сотрудников.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	agency := user.Agency
	if agency == nil {
		agency = &models.AgencyProfile{}
	}

	query := `
		INSERT INTO users (
			id, username, password_hash, name, role, is_online,
			agency_type, official_email, official_phone, jurisdiction,
			officer_name, designation, officer_id, geo_radius
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at;
	`
	err := r.db.QueryRow(ctx, query,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.Name,
		user.Role,
		user.IsOnline,
		agency.AgencyType,
		agency.OfficialEmail,
		agency.OfficialPhone,
		agency.Jurisdiction,
		agency.OfficerName,
		agency.Designation,
		agency.OfficerID,
		agency.GeoRadius,
	).Scan(&user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("user %q: %w", user.Username, service.ErrUserExists)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByUsername ищет пользователя по логину в пределах роли
func (r *UserRepository) GetByUsername(ctx context.Context, username string, role models.Role) (*models.User, error) {
	query := `
		SELECT
			id, username, password_hash, name, role, is_online, created_at,
			agency_type, official_email, official_phone, jurisdiction,
			officer_name, designation, officer_id, geo_radius
		FROM users
		WHERE username = $1 AND role = $2;
	`
	user := &models.User{}
	agency := &models.AgencyProfile{}
	err := r.db.QueryRow(ctx, query, username, role).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Name,
		&user.Role,
		&user.IsOnline,
		&user.CreatedAt,
		&agency.AgencyType,
		&agency.OfficialEmail,
		&agency.OfficialPhone,
		&agency.Jurisdiction,
		&agency.OfficerName,
		&agency.Designation,
		&agency.OfficerID,
		&agency.GeoRadius,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", username, service.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user.Role == models.RoleAuthority {
		user.Agency = agency
	}
	return user, nil
}
