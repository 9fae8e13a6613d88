package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/ukydev/automotive-catalog/internal/auth"
	"github.com/ukydev/automotive-catalog/internal/models"
	"github.com/ukydev/automotive-catalog/internal/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MockUserCollection is a mock implementation of store.UserCollection
type MockUserCollection struct {
	mock.Mock
}

func (m *MockUserCollection) InsertUser(ctx context.Context, user models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserCollection) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) UpdateLastLogin(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestAuthHandler_Login(t *testing.T) {
	authService, err := auth.NewService()
	if err != nil {
		t.Fatalf("Failed to create auth service: %v", err)
	}

	t.Run("successful login", func(t *testing.T) {
		mockUserCollection := new(MockUserCollection)
		handler := NewAuthHandler(authService, store.UserCollection(mockUserCollection))

		passwordHash, err := authService.HashPassword("password123")
		if err != nil {
			t.Fatalf("Failed to hash password: %v", err)
		}
		user := &models.User{
			ID:           primitive.NewObjectID(),
			Username:     "operator",
			Email:        "op@example.com",
			PasswordHash: passwordHash,
			Role:         models.RoleOperator,
			IsActive:     true,
		}

		mockUserCollection.On("FindUserByUsername", mock.Anything, "operator").Return(user, nil)
		mockUserCollection.On("UpdateLastLogin", mock.Anything, user.ID.Hex()).Return(nil)

		body, _ := json.Marshal(models.LoginRequest{Username: "operator", Password: "password123"})
		req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Login(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp models.LoginResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "operator", resp.User.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		mockUserCollection := new(MockUserCollection)
		handler := NewAuthHandler(authService, store.UserCollection(mockUserCollection))

		passwordHash, _ := authService.HashPassword("password123")
		user := &models.User{
			ID:           primitive.NewObjectID(),
			Username:     "operator",
			PasswordHash: passwordHash,
			Role:         models.RoleOperator,
			IsActive:     true,
		}
		mockUserCollection.On("FindUserByUsername", mock.Anything, "operator").Return(user, nil)

		body, _ := json.Marshal(models.LoginRequest{Username: "operator", Password: "wrong"})
		req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Login(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		mockUserCollection := new(MockUserCollection)
		handler := NewAuthHandler(authService, store.UserCollection(mockUserCollection))

		mockUserCollection.On("FindUserByUsername", mock.Anything, "ghost").
			Return(nil, mongo.ErrNoDocuments)

		body, _ := json.Marshal(models.LoginRequest{Username: "ghost", Password: "password123"})
		req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Login(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("deactivated account", func(t *testing.T) {
		mockUserCollection := new(MockUserCollection)
		handler := NewAuthHandler(authService, store.UserCollection(mockUserCollection))

		passwordHash, _ := authService.HashPassword("password123")
		user := &models.User{
			ID:           primitive.NewObjectID(),
			Username:     "operator",
			PasswordHash: passwordHash,
			Role:         models.RoleOperator,
			IsActive:     false,
		}
		mockUserCollection.On("FindUserByUsername", mock.Anything, "operator").Return(user, nil)

		body, _ := json.Marshal(models.LoginRequest{Username: "operator", Password: "password123"})
		req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Login(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		mockUserCollection := new(MockUserCollection)
		handler := NewAuthHandler(authService, store.UserCollection(mockUserCollection))

		body, _ := json.Marshal(models.LoginRequest{Username: "operator"})
		req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Login(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandler_Register(t *testing.T) {
	authService, _ := auth.NewService()

	t.Run("successful registration", func(t *testing.T) {
		mockUserCollection := new(MockUserCollection)
		handler := NewAuthHandler(authService, store.UserCollection(mockUserCollection))

		mockUserCollection.On("FindUserByUsername", mock.Anything, "newop").
			Return(nil, mongo.ErrNoDocuments)
		mockUserCollection.On("FindUserByEmail", mock.Anything, "newop@example.com").
			Return(nil, mongo.ErrNoDocuments)
		mockUserCollection.On("InsertUser", mock.Anything, mock.Anything).Return(nil)

		body, _ := json.Marshal(models.RegisterRequest{
			Username: "newop",
			Email:    "newop@example.com",
			Password: "password123",
			Role:     models.RoleOperator,
		})
		req := httptest.NewRequest("POST", "/api/auth/register", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Register(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("duplicate username", func(t *testing.T) {
		mockUserCollection := new(MockUserCollection)
		handler := NewAuthHandler(authService, store.UserCollection(mockUserCollection))

		existing := &models.User{ID: primitive.NewObjectID(), Username: "newop"}
		mockUserCollection.On("FindUserByUsername", mock.Anything, "newop").Return(existing, nil)

		body, _ := json.Marshal(models.RegisterRequest{
			Username: "newop",
			Email:    "newop@example.com",
			Password: "password123",
			Role:     models.RoleOperator,
		})
		req := httptest.NewRequest("POST", "/api/auth/register", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Register(w, req)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("invalid role", func(t *testing.T) {
		mockUserCollection := new(MockUserCollection)
		handler := NewAuthHandler(authService, store.UserCollection(mockUserCollection))

		body, _ := json.Marshal(models.RegisterRequest{
			Username: "newop",
			Email:    "newop@example.com",
			Password: "password123",
			Role:     "superuser",
		})
		req := httptest.NewRequest("POST", "/api/auth/register", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Register(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
