package login

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/monastery-admin/internal/models"
	"github.com/magabrotheeeer/monastery-admin/internal/services/auth"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Login(ctx context.Context, req models.DummyLogin) (string, models.User, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Get(1).(models.User), args.Error(2)
}

func TestLoginHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("успешный вход", func(t *testing.T) {
		m := new(AuthServiceMock)
		m.On("Login", mock.Anything, models.DummyLogin{Username: "admin", Password: "secret123"}).
			Return("jwt-token", models.User{UUID: "u-1", Username: "admin", Role: models.RoleAdmin}, nil).Once()

		w := httptest.NewRecorder()
		New(logger, m).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login",
			bytes.NewBufferString(`{"username":"admin","password":"secret123"}`)))

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Data map[string]string `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "jwt-token", resp.Data["token"])
		assert.Equal(t, models.RoleAdmin, resp.Data["role"])
		m.AssertExpectations(t)
	})

	t.Run("неверный пароль", func(t *testing.T) {
		m := new(AuthServiceMock)
		m.On("Login", mock.Anything, mock.Anything).
			Return("", models.User{}, fmt.Errorf("auth.Login: %w", auth.ErrInvalidCredentials)).Once()

		w := httptest.NewRecorder()
		New(logger, m).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login",
			bytes.NewBufferString(`{"username":"admin","password":"wrong"}`)))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid credentials")
	})

	t.Run("пустые поля", func(t *testing.T) {
		m := new(AuthServiceMock)
		w := httptest.NewRecorder()
		New(logger, m).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(`{}`)))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		m.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
	})
}
