// Package auth отвечает за регистрацию, вход и управление пользователями админки.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/monastery-admin/internal/lib/jwt"
	"github.com/magabrotheeeer/monastery-admin/internal/lib/password"
	"github.com/magabrotheeeer/monastery-admin/internal/models"
	"github.com/magabrotheeeer/monastery-admin/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrSelfModification   = errors.New("cannot change own role or delete own account")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	RegisterUser(ctx context.Context, u *models.User) (string, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	GetUserByUID(ctx context.Context, uid string) (models.User, error)
	ListUsers(ctx context.Context, page models.Page) ([]models.User, int, error)
	UpdateUserRole(ctx context.Context, uid, role string) error
	DeleteUser(ctx context.Context, uid string) error
}

// TokenMaker создает и проверяет JWT.
type TokenMaker interface {
	GenerateToken(username, role, userUID string) (string, error)
	ParseToken(token string) (*jwt.CustomClaims, error)
}

// Service отвечает за регистрацию, авторизацию и валидацию JWT.
type Service struct {
	users    UserRepository
	jwtMaker TokenMaker
	log      *slog.Logger
}

// New создает Service.
func New(users UserRepository, jwtMaker TokenMaker, log *slog.Logger) *Service {
	return &Service{users: users, jwtMaker: jwtMaker, log: log}
}

// Register создает пользователя с ролью user. Права выдает администратор.
func (s *Service) Register(ctx context.Context, req models.DummyRegister) (models.User, error) {
	const op = "auth.Register"

	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	u := models.User{
		UUID:         uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: hashed,
		Role:         models.RoleUser,
	}
	if _, err = s.users.RegisterUser(ctx, &u); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return models.User{}, ErrUserExists
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user registered", slog.String("username", u.Username))
	return u, nil
}

// Login проверяет пароль и выдает JWT.
func (s *Service) Login(ctx context.Context, req models.DummyLogin) (string, models.User, error) {
	const op = "auth.Login"

	u, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(req.Username))
	if errors.Is(err, storage.ErrNotFound) {
		return "", models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(u.PasswordHash, req.Password); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return "", models.User{}, ErrInvalidCredentials
		}
		return "", models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	token, err := s.jwtMaker.GenerateToken(u.Username, u.Role, u.UUID)
	if err != nil {
		return "", models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return token, u, nil
}

// ValidateToken проверяет JWT и возвращает пользователя из claims.
func (s *Service) ValidateToken(token string) (models.User, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return models.User{}, err
	}
	return models.User{Username: claims.Username, Role: claims.Role, UUID: claims.UserUID}, nil
}

// GetUser возвращает пользователя по uid.
func (s *Service) GetUser(ctx context.Context, uid string) (models.User, error) {
	const op = "auth.GetUser"

	u, err := s.users.GetUserByUID(ctx, uid)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ListUsers возвращает страницу пользователей.
func (s *Service) ListUsers(ctx context.Context, page models.Page) (models.List[models.User], error) {
	const op = "auth.ListUsers"

	items, total, err := s.users.ListUsers(ctx, page)
	if err != nil {
		return models.List[models.User]{}, fmt.Errorf("%s: %w", op, err)
	}
	return models.List[models.User]{Items: items, Total: total, Limit: page.Limit, Offset: page.Offset}, nil
}

// UpdateRole меняет роль пользователя. Администратор не может снять роль с себя.
func (s *Service) UpdateRole(ctx context.Context, actorUID, uid, role string) (models.User, error) {
	const op = "auth.UpdateRole"

	if actorUID == uid && role != models.RoleAdmin {
		return models.User{}, ErrSelfModification
	}
	if err := s.users.UpdateUserRole(ctx, uid, role); err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user role changed", slog.String("uid", uid), slog.String("role", role))
	return s.GetUser(ctx, uid)
}

// DeleteUser удаляет пользователя. Удалить самого себя нельзя.
func (s *Service) DeleteUser(ctx context.Context, actorUID, uid string) error {
	const op = "auth.DeleteUser"

	if actorUID == uid {
		return ErrSelfModification
	}
	if err := s.users.DeleteUser(ctx, uid); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
