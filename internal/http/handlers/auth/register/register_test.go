package register

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/monastery-admin/internal/models"
	"github.com/magabrotheeeer/monastery-admin/internal/services/auth"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Register(ctx context.Context, req models.DummyRegister) (models.User, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.User), args.Error(1)
}

func TestRegisterHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*AuthServiceMock)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешная регистрация",
			body: `{"email":"brother@example.org","username":"brother","password":"password1"}`,
			setupMock: func(m *AuthServiceMock) {
				m.On("Register", mock.Anything, models.DummyRegister{
					Email: "brother@example.org", Username: "brother", Password: "password1",
				}).Return(models.User{UUID: "u-2", Username: "brother", Role: models.RoleUser}, nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"role":"user"`,
		},
		{
			name:           "короткий пароль",
			body:           `{"email":"brother@example.org","username":"brother","password":"123"}`,
			setupMock:      func(_ *AuthServiceMock) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Password must be at least 8`,
		},
		{
			name: "имя занято",
			body: `{"email":"brother@example.org","username":"brother","password":"password1"}`,
			setupMock: func(m *AuthServiceMock) {
				m.On("Register", mock.Anything, mock.Anything).
					Return(models.User{}, fmt.Errorf("auth.Register: %w", auth.ErrUserExists)).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `user already exists`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(AuthServiceMock)
			tt.setupMock(m)

			w := httptest.NewRecorder()
			New(logger, m).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/register", bytes.NewBufferString(tt.body)))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			m.AssertExpectations(t)
		})
	}
}
