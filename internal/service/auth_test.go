package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shenikar/tourist_safety_system/internal/config"
	"github.com/shenikar/tourist_safety_system/internal/models"
	"github.com/shenikar/tourist_safety_system/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(t *testing.T) (*authService, *mocks.MockUserRepository) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockUserRepository(ctrl)
	cfg := &config.Config{JWTSecret: "test-secret", JWTTTL: 24 * time.Hour}

	svc := NewAuthService(repoMock, newTestLogger(), cfg).(*authService)
	svc.bcryptCost = bcrypt.MinCost
	svc.now = func() time.Time { return testNow }
	return svc, repoMock
}

func TestRegister_Tourist(t *testing.T) {
	svc, repoMock := newTestAuthService(t)
	ctx := context.Background()

	repoMock.EXPECT().GetByUsername(ctx, "ravi", models.RoleTourist).Return(nil, ErrNotFound)
	repoMock.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	user, err := svc.Register(ctx, &models.RegisterInput{Username: "ravi", Password: "secret", Name: "Ravi"})

	require.NoError(t, err)
	assert.Equal(t, models.RoleTourist, user.Role)
	assert.Nil(t, user.Agency)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret")))
}

func TestRegister_AgencyBecomesAuthority(t *testing.T) {
	svc, repoMock := newTestAuthService(t)
	ctx := context.Background()

	repoMock.EXPECT().GetByUsername(ctx, "mysore-police", models.RoleAuthority).Return(nil, ErrNotFound)
	repoMock.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	user, err := svc.Register(ctx, &models.RegisterInput{
		Username: "mysore-police",
		Password: "secret",
		Name:     "Mysore City Police",
		Role:     models.RoleAgency,
		Agency:   &models.AgencyProfile{Jurisdiction: "Mysuru", OfficerName: "K. Rao"},
	})

	require.NoError(t, err)
	assert.Equal(t, models.RoleAuthority, user.Role)
	require.NotNil(t, user.Agency)
	assert.Equal(t, 5, user.Agency.GeoRadius)
	assert.Equal(t, "Mysuru", user.Agency.Jurisdiction)
}

func TestRegister_Duplicate(t *testing.T) {
	svc, repoMock := newTestAuthService(t)
	ctx := context.Background()

	repoMock.EXPECT().GetByUsername(ctx, "ravi", models.RoleTourist).Return(&models.User{Username: "ravi"}, nil)
	repoMock.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.Register(ctx, &models.RegisterInput{Username: "ravi", Password: "secret", Name: "Ravi"})

	assert.ErrorIs(t, err, ErrUserExists)
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Register(context.Background(), &models.RegisterInput{Username: "ravi"})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestLoginAndParseToken(t *testing.T) {
	svc, repoMock := newTestAuthService(t)
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &models.User{Username: "ravi", PasswordHash: string(hash), Role: models.RoleTourist}

	repoMock.EXPECT().GetByUsername(ctx, "ravi", models.RoleTourist).Return(stored, nil)

	result, err := svc.Login(ctx, "ravi", "secret", models.RoleTourist)
	require.NoError(t, err)
	assert.Equal(t, testNow.Add(24*time.Hour), result.ExpiresAt)

	claims, err := svc.ParseToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, claims.UserID)
	assert.Equal(t, models.RoleTourist, claims.Role)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name     string
		user     *models.User
		repoErr  error
		password string
	}{
		{name: "unknown user", repoErr: ErrNotFound, password: "secret"},
		{name: "wrong password", user: &models.User{PasswordHash: string(hash)}, password: "guess"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repoMock := newTestAuthService(t)
			repoMock.EXPECT().GetByUsername(gomock.Any(), "ravi", models.RoleTourist).Return(tt.user, tt.repoErr)

			_, err := svc.Login(context.Background(), "ravi", tt.password, models.RoleTourist)

			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestParseToken_Rejects(t *testing.T) {
	svc, _ := newTestAuthService(t)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "5b0c5f5e-2f0a-4d4f-9d8a-0d6a3c1f9e11",
		"exp":     testNow.Add(-time.Minute).Unix(),
	})
	expiredToken, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "5b0c5f5e-2f0a-4d4f-9d8a-0d6a3c1f9e11",
		"exp":     testNow.Add(time.Hour).Unix(),
	})
	foreignToken, err := foreign.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":      expiredToken,
		"wrong secret": foreignToken,
		"not a token":  "abc.def",
		"empty":        "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ParseToken(token)
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}
}
