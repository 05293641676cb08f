package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/classtrack/internal/app/models"
	"github.com/classtrack/classtrack/internal/app/models/dto"
	"github.com/classtrack/classtrack/internal/pkg/apperrors"
	"github.com/classtrack/classtrack/internal/pkg/auth"
)

type fakeUserRepo struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*models.User), nextID: 1}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.ErrResourceNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	copied := *u
	return &copied, nil
}

type fakeTokenRepo struct {
	tokens map[string]*models.RefreshToken
	nextID int64
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]*models.RefreshToken), nextID: 1}
}

func (r *fakeTokenRepo) Create(ctx context.Context, token *models.RefreshToken) error {
	token.ID = r.nextID
	r.nextID++
	token.CreatedAt = time.Now()
	stored := *token
	r.tokens[token.Token] = &stored
	return nil
}

func (r *fakeTokenRepo) GetByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	t, ok := r.tokens[token]
	if !ok {
		return nil, apperrors.ErrTokenInvalid
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTokenRepo) Delete(ctx context.Context, token string) error {
	delete(r.tokens, token)
	return nil
}

func (r *fakeTokenRepo) DeleteByUserID(ctx context.Context, userID int64) error {
	for k, t := range r.tokens {
		if t.UserID == userID {
			delete(r.tokens, k)
		}
	}
	return nil
}

func newTestAuthService(t *testing.T) (AuthService, *fakeUserRepo, *fakeTokenRepo) {
	t.Helper()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "classtrack-test",
	})
	userRepo := newFakeUserRepo()
	tokenRepo := newFakeTokenRepo()
	return NewAuthService(userRepo, tokenRepo, jwtService, 24*time.Hour), userRepo, tokenRepo
}

func registerTestUser(t *testing.T, svc AuthService) *models.User {
	t.Helper()
	user, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email:     "teacher@classtrack.app",
		Password:  "correct-horse",
		FirstName: "Ada",
		LastName:  "Reyes",
	})
	require.NoError(t, err)
	return user
}

func TestRegisterHashesPasswordAndRejectsDuplicates(t *testing.T) {
	svc, userRepo, _ := newTestAuthService(t)
	user := registerTestUser(t, svc)

	stored := userRepo.users[user.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, "correct-horse", stored.PasswordHash)
	assert.True(t, auth.CheckPassword(stored.PasswordHash, "correct-horse"))

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email:     "teacher@classtrack.app",
		Password:  "another-password",
		FirstName: "Ada",
		LastName:  "Reyes",
	})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestLoginIssuesAndPersistsTokenPair(t *testing.T) {
	svc, _, tokenRepo := newTestAuthService(t)
	registerTestUser(t, svc)

	tokens, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "teacher@classtrack.app",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, "Bearer", tokens.TokenType)

	stored, err := tokenRepo.GetByToken(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.False(t, stored.Expired())
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	registerTestUser(t, svc)

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "teacher@classtrack.app",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Email:    "nobody@classtrack.app",
		Password: "correct-horse",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestRefreshTokenRotates(t *testing.T) {
	svc, _, tokenRepo := newTestAuthService(t)
	registerTestUser(t, svc)

	tokens, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "teacher@classtrack.app",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, refreshed.RefreshToken)

	// The consumed token is gone; presenting it again fails.
	_, err = svc.RefreshToken(context.Background(), tokens.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	_, err = tokenRepo.GetByToken(context.Background(), refreshed.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshTokenExpired(t *testing.T) {
	svc, _, tokenRepo := newTestAuthService(t)
	user := registerTestUser(t, svc)

	expired := &models.RefreshToken{
		UserID:    user.ID,
		Token:     "stale-token",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, tokenRepo.Create(context.Background(), expired))

	_, err := svc.RefreshToken(context.Background(), "stale-token")
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)

	// Expired tokens are consumed on presentation.
	_, err = tokenRepo.GetByToken(context.Background(), "stale-token")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestLogoutRevokesAllUserTokens(t *testing.T) {
	svc, _, tokenRepo := newTestAuthService(t)
	user := registerTestUser(t, svc)

	for i := 0; i < 2; i++ {
		_, err := svc.Login(context.Background(), dto.LoginRequest{
			Email:    "teacher@classtrack.app",
			Password: "correct-horse",
		})
		require.NoError(t, err)
	}
	require.Len(t, tokenRepo.tokens, 2)

	require.NoError(t, svc.Logout(context.Background(), user.ID))
	assert.Empty(t, tokenRepo.tokens)
}
