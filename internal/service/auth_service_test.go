package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"ion-assistant/internal/dto"
	"ion-assistant/internal/models"
	"ion-assistant/pkg/auth"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeUserStore struct {
	mu    sync.Mutex
	users []*models.User
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = append(f.users, user)
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserStore) GetByPhone(_ context.Context, phone string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Phone == phone {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserStore) UpdateProfile(_ context.Context, updated *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, user := range f.users {
		if user.ID == updated.ID {
			f.users[i] = updated
			return nil
		}
	}
	return pgx.ErrNoRows
}

func newTestAuthService() (*AuthService, *fakeUserStore) {
	store := &fakeUserStore{}
	jwtManager := auth.NewJWTManager("test-secret", 15*time.Minute, 24*time.Hour)
	return NewAuthService(store, jwtManager, zap.NewNop()), store
}

func TestRegisterAndLogin(t *testing.T) {
	svc, store := newTestAuthService()

	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "Ana",
		Email:    "ANA@Example.com",
		Phone:    "+55 (11) 99999-0000",
		Password: "segredo1",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "ana@example.com", resp.User.Email)
	assert.Equal(t, "+5511999990000", resp.User.Phone)

	// Stored password is hashed.
	require.Len(t, store.users, 1)
	assert.NotEqual(t, "segredo1", store.users[0].Password)

	// Login accepts the unformatted phone too.
	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Phone:    "+55 11 99999-0000",
		Password: "segredo1",
	})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
}

func TestRegister_DuplicatePhone(t *testing.T) {
	svc, _ := newTestAuthService()

	req := &dto.RegisterRequest{Name: "Ana", Email: "a@b.com", Phone: "11999990000", Password: "segredo1"}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestAuthService()

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name: "Ana", Email: "a@b.com", Phone: "11999990000", Password: "segredo1",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &dto.LoginRequest{Phone: "11999990000", Password: "errada"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &dto.LoginRequest{Phone: "11888880000", Password: "segredo1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshToken(t *testing.T) {
	svc, _ := newTestAuthService()

	registered, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name: "Ana", Email: "a@b.com", Phone: "11999990000", Password: "segredo1",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), registered.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, refreshed.User.ID)

	_, err = svc.RefreshToken(context.Background(), "token-invalido")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newTestAuthService()

	registered, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name: "Ana", Email: "a@b.com", Phone: "11999990000", Password: "segredo1",
	})
	require.NoError(t, err)

	userID := uuid.MustParse(registered.User.ID)
	newName := "Ana Clara"
	updated, err := svc.UpdateProfile(context.Background(), userID, &dto.UpdateProfileRequest{
		Name: &newName,
	})
	require.NoError(t, err)

	assert.Equal(t, "Ana Clara", updated.Name)
	assert.Equal(t, "a@b.com", updated.Email)
}
