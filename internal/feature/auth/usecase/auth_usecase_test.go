package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"dashboard_backend/internal/feature/auth/domain/entity"
)

// mockUserRepository is a mock implementation of the UserRepository interface.
type mockUserRepository struct {
	// CreateFunc is called when the Create method is invoked.
	CreateFunc func(ctx context.Context, user *entity.User) error
	// FindByEmailFunc is called when the FindByEmail method is invoked.
	FindByEmailFunc func(ctx context.Context, email string) (*entity.User, error)
	// FindByIDFunc is called when the FindByID method is invoked.
	FindByIDFunc func(ctx context.Context, id uint) (*entity.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *entity.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, ErrUserNotFound
}

// mockJWTGenerator is a mock implementation of the JWTGenerator interface.
type mockJWTGenerator struct {
	GenerateTokenFunc func(userID uint, email string) (string, error)
}

func (m *mockJWTGenerator) GenerateToken(userID uint, email string) (string, error) {
	if m.GenerateTokenFunc != nil {
		return m.GenerateTokenFunc(userID, email)
	}
	return "mock-jwt-token", nil
}

func TestAuthUsecase_Signup(t *testing.T) {
	t.Run("successful signup hashes the password", func(t *testing.T) {
		mockRepo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				require.NotEqual(t, "password123", user.Password, "password is not hashed")
				assert.NoError(t,
					bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")),
					"invalid bcrypt hash")
				return nil
			},
		}
		uc := NewAuthUsecase(mockRepo, &mockJWTGenerator{})

		err := uc.Signup(context.Background(), "test@example.com", "password123")

		assert.NoError(t, err)
	})

	t.Run("rejects short passwords without touching the repository", func(t *testing.T) {
		mockRepo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				t.Error("Create must not be called for an invalid password")
				return nil
			},
		}
		uc := NewAuthUsecase(mockRepo, &mockJWTGenerator{})

		err := uc.Signup(context.Background(), "test@example.com", "short")

		assert.Error(t, err)
	})

	t.Run("propagates duplicate email", func(t *testing.T) {
		mockRepo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				return ErrEmailAlreadyExists
			},
		}
		uc := NewAuthUsecase(mockRepo, &mockJWTGenerator{})

		err := uc.Signup(context.Background(), "taken@example.com", "password123")

		assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	})
}

func TestAuthUsecase_Login(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	stored := &entity.User{ID: 7, Email: "test@example.com", Password: string(hashed)}

	t.Run("successful login returns user ID and token", func(t *testing.T) {
		mockRepo := &mockUserRepository{
			FindByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
				return stored, nil
			},
		}
		mockJWT := &mockJWTGenerator{
			GenerateTokenFunc: func(userID uint, email string) (string, error) {
				assert.Equal(t, uint(7), userID)
				assert.Equal(t, "test@example.com", email)
				return "signed-token", nil
			},
		}
		uc := NewAuthUsecase(mockRepo, mockJWT)

		userID, token, err := uc.Login(context.Background(), "test@example.com", "password123")

		require.NoError(t, err)
		assert.Equal(t, uint(7), userID)
		assert.Equal(t, "signed-token", token)
	})

	t.Run("wrong password", func(t *testing.T) {
		mockRepo := &mockUserRepository{
			FindByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
				return stored, nil
			},
		}
		uc := NewAuthUsecase(mockRepo, &mockJWTGenerator{})

		_, _, err := uc.Login(context.Background(), "test@example.com", "wrong-password")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user yields the same generic error", func(t *testing.T) {
		uc := NewAuthUsecase(&mockUserRepository{}, &mockJWTGenerator{})

		_, _, err := uc.Login(context.Background(), "nobody@example.com", "password123")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthUsecase_Profile(t *testing.T) {
	t.Run("resolves the user by ID", func(t *testing.T) {
		mockRepo := &mockUserRepository{
			FindByIDFunc: func(ctx context.Context, id uint) (*entity.User, error) {
				assert.Equal(t, uint(7), id)
				return &entity.User{ID: 7, Email: "test@example.com"}, nil
			},
		}
		uc := NewAuthUsecase(mockRepo, &mockJWTGenerator{})

		user, err := uc.Profile(context.Background(), 7)

		require.NoError(t, err)
		assert.Equal(t, "test@example.com", user.Email)
	})

	t.Run("deleted account", func(t *testing.T) {
		uc := NewAuthUsecase(&mockUserRepository{}, &mockJWTGenerator{})

		_, err := uc.Profile(context.Background(), 7)

		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
