package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shenikar/tourist_safety_system/internal/config"
	"github.com/shenikar/tourist_safety_system/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const defaultGeoRadius = 5

type authService struct {
	repo       UserRepository
	logger     *logrus.Logger
	secret     []byte
	ttl        time.Duration
	bcryptCost int
	now        func() time.Time
}

func NewAuthService(repo UserRepository, logger *logrus.Logger, cfg *config.Config) AuthService {
	return &authService{
		repo:       repo,
		logger:     logger,
		secret:     []byte(cfg.JWTSecret),
		ttl:        cfg.JWTTTL,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
}

// Register создает учетную запись туриста или сотрудника ведомства
func (s *authService) Register(ctx context.Context, input *models.RegisterInput) (*models.User, error) {
	role := input.Role.Normalize()
	log := s.logger.WithFields(logrus.Fields{
		"service":  "auth",
		"method":   "Register",
		"username": input.Username,
		"role":     role,
	})
	log.Info("Attempting to register user")

	if strings.TrimSpace(input.Username) == "" || input.Password == "" || strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("service: username, password and name are required: %w", ErrValidation)
	}

	existing, err := s.repo.GetByUsername(ctx, input.Username, role)
	if err != nil && !errors.Is(err, ErrNotFound) {
		log.WithError(err).Error("Failed to look up username")
		return nil, fmt.Errorf("service: could not register user: %w", err)
	}
	if existing != nil {
		log.Warn("Username already taken")
		return nil, fmt.Errorf("service: %s %q: %w", role, input.Username, ErrUserExists)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		log.WithError(err).Error("Failed to hash password")
		return nil, fmt.Errorf("service: could not hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     input.Username,
		PasswordHash: string(hash),
		Name:         input.Name,
		Role:         role,
		IsOnline:     true,
	}
	if role == models.RoleAuthority {
		agency := models.AgencyProfile{}
		if input.Agency != nil {
			agency = *input.Agency
		}
		if agency.GeoRadius <= 0 {
			agency.GeoRadius = defaultGeoRadius
		}
		user.Agency = &agency
	}

	if err := s.repo.Create(ctx, user); err != nil {
		log.WithError(err).Error("Failed to create user in repository")
		return nil, fmt.Errorf("service: could not register user: %w", err)
	}

	log.WithField("user_id", user.ID).Info("User registered successfully")
	return user, nil
}

// Login проверяет пароль и выдает токен доступа
func (s *authService) Login(ctx context.Context, username, password string, role models.Role) (*models.AuthResult, error) {
	role = role.Normalize()
	log := s.logger.WithFields(logrus.Fields{
		"service":  "auth",
		"method":   "Login",
		"username": username,
		"role":     role,
	})

	user, err := s.repo.GetByUsername(ctx, username, role)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("Login for unknown user")
			return nil, fmt.Errorf("service: user not found: %w", ErrInvalidCredentials)
		}
		log.WithError(err).Error("Failed to look up user")
		return nil, fmt.Errorf("service: could not log in: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Warn("Password mismatch")
		return nil, fmt.Errorf("service: password mismatch: %w", ErrInvalidCredentials)
	}

	expiresAt := s.now().Add(s.ttl)
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    string(user.Role),
		"exp":     expiresAt.Unix(),
		"iat":     s.now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		log.WithError(err).Error("Failed to sign token")
		return nil, fmt.Errorf("service: could not sign token: %w", err)
	}

	log.WithField("user_id", user.ID).Info("User logged in")
	return &models.AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// ParseToken проверяет подпись и срок действия токена
func (s *authService) ParseToken(tokenString string) (*models.Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("service: invalid token: %w", ErrUnauthorized)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("service: unexpected claims: %w", ErrUnauthorized)
	}
	rawID, _ := mapClaims["user_id"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("service: malformed user_id claim: %w", ErrUnauthorized)
	}
	role, _ := mapClaims["role"].(string)

	return &models.Claims{UserID: userID, Role: models.Role(role)}, nil
}
