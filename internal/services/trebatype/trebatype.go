// Package trebatype управляет справочником видов треб и кеширует активные виды для расчета цены.
package trebatype

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/monastery-admin/internal/cache"
	"github.com/magabrotheeeer/monastery-admin/internal/lib/pricing"
	"github.com/magabrotheeeer/monastery-admin/internal/lib/sl"
	"github.com/magabrotheeeer/monastery-admin/internal/models"
	"github.com/magabrotheeeer/monastery-admin/internal/storage"
)

const cachePrefix = "treba_type:"

// Repository определяет методы хранилища для видов треб.
type Repository interface {
	CreateTrebaType(ctx context.Context, t *models.TrebaType) (int64, error)
	GetTrebaType(ctx context.Context, id int64) (models.TrebaType, error)
	GetActiveTrebaTypeByName(ctx context.Context, name string) (models.TrebaType, error)
	ListTrebaTypes(ctx context.Context, activeOnly bool) ([]models.TrebaType, error)
	UpdateTrebaType(ctx context.Context, t *models.TrebaType) error
	DeleteTrebaType(ctx context.Context, id int64) error
}

// Cache описывает методы кеша, используемые справочником.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	InvalidatePrefix(ctx context.Context, prefix string) error
}

// Service реализует работу со справочником.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New создает Service. cache может быть nil, тогда поиск идет напрямую в базу.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, log: log}
}

// LookupActive возвращает активный вид требы по имени или nil, если такого нет.
func (s *Service) LookupActive(ctx context.Context, name string) (*models.TrebaType, error) {
	const op = "trebatype.LookupActive"

	key := cache.TrebaTypeKey(name)
	if s.cache != nil {
		var cached models.TrebaType
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warn("failed to read treba type from cache", slog.String("key", key), sl.Err(err))
		}
		if found {
			return &cached, nil
		}
	}

	t, err := s.repo.GetActiveTrebaTypeByName(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, t, 0); err != nil {
			s.log.Warn("failed to cache treba type", slog.String("key", key), sl.Err(err))
		}
	}
	return &t, nil
}

// Create добавляет вид требы.
func (s *Service) Create(ctx context.Context, req models.DummyTrebaType) (models.TrebaType, error) {
	const op = "trebatype.Create"

	t := fromRequest(req)
	if _, err := s.repo.CreateTrebaType(ctx, &t); err != nil {
		return models.TrebaType{}, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx)
	s.log.Info("treba type created", slog.Int64("id", t.ID), slog.String("name", t.Name))
	return t, nil
}

// Get возвращает вид требы по id.
func (s *Service) Get(ctx context.Context, id int64) (models.TrebaType, error) {
	const op = "trebatype.Get"

	t, err := s.repo.GetTrebaType(ctx, id)
	if err != nil {
		return models.TrebaType{}, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// List возвращает справочник.
func (s *Service) List(ctx context.Context, activeOnly bool) ([]models.TrebaType, error) {
	const op = "trebatype.List"

	items, err := s.repo.ListTrebaTypes(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

// Update перезаписывает вид требы.
func (s *Service) Update(ctx context.Context, id int64, req models.DummyTrebaType) (models.TrebaType, error) {
	const op = "trebatype.Update"

	t := fromRequest(req)
	t.ID = id
	if err := s.repo.UpdateTrebaType(ctx, &t); err != nil {
		return models.TrebaType{}, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx)
	return t, nil
}

// Delete удаляет вид требы.
func (s *Service) Delete(ctx context.Context, id int64) error {
	const op = "trebatype.Delete"

	if err := s.repo.DeleteTrebaType(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx)
	return nil
}

// Любое изменение может поменять имя или активность, поэтому сбрасывается весь справочник.
func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidatePrefix(ctx, cachePrefix); err != nil {
		s.log.Warn("failed to invalidate treba type cache", sl.Err(err))
	}
}

func fromRequest(req models.DummyTrebaType) models.TrebaType {
	t := models.TrebaType{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		BasePrice:   req.BasePrice,
		Currency:    strings.ToUpper(req.Currency),
		IsActive:    true,
	}
	if t.Currency == "" {
		t.Currency = pricing.DefaultCurrency
	}
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}
	return t
}
