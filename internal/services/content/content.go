// Package content реализует новости обители: рубрики, метки и публикации.
package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/monastery-admin/internal/lib/slug"
	"github.com/magabrotheeeer/monastery-admin/internal/models"
	"github.com/magabrotheeeer/monastery-admin/internal/storage"
)

// ErrEmptySlug возвращается, когда из названия не удалось построить slug.
var ErrEmptySlug = errors.New("slug is empty")

// Repository определяет методы хранилища новостей.
type Repository interface {
	CreateCategory(ctx context.Context, c *models.Category) (int64, error)
	GetCategory(ctx context.Context, id int64) (models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	UpdateCategory(ctx context.Context, c *models.Category) error
	DeleteCategory(ctx context.Context, id int64) error

	CreateTag(ctx context.Context, t *models.Tag) (int64, error)
	GetTag(ctx context.Context, id int64) (models.Tag, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	UpdateTag(ctx context.Context, t *models.Tag) error
	DeleteTag(ctx context.Context, id int64) error

	CreatePost(ctx context.Context, p *models.Post) (int64, error)
	GetPost(ctx context.Context, id int64) (models.Post, error)
	GetPostBySlug(ctx context.Context, slug string) (models.Post, error)
	ListPosts(ctx context.Context, f models.PostFilter) ([]models.Post, int, error)
	UpdatePost(ctx context.Context, p *models.Post) error
	DeletePost(ctx context.Context, id int64) error
	SetPostTags(ctx context.Context, postID int64, tagIDs []int64) error
	ListPostTags(ctx context.Context, postID int64) ([]models.Tag, error)
}

// TxFunc выполняет fn в одной транзакции.
type TxFunc func(ctx context.Context, fn func(repo Repository) error) error

// Service реализует операции с новостями.
type Service struct {
	repo Repository
	inTx TxFunc
	log  *slog.Logger
	now  func() time.Time
}

// New создает Service.
func New(repo Repository, inTx TxFunc, log *slog.Logger) *Service {
	return &Service{repo: repo, inTx: inTx, log: log, now: time.Now}
}

func makeSlug(explicit, name string) (string, error) {
	s := slug.Make(explicit)
	if strings.TrimSpace(explicit) == "" {
		s = slug.Make(name)
	}
	if s == "" {
		return "", ErrEmptySlug
	}
	return s, nil
}

// CreateCategory добавляет рубрику.
func (s *Service) CreateCategory(ctx context.Context, req models.DummyCategory) (models.Category, error) {
	const op = "content.CreateCategory"

	slugValue, err := makeSlug(req.Slug, req.Name)
	if err != nil {
		return models.Category{}, fmt.Errorf("%s: %w", op, err)
	}
	c := models.Category{Name: strings.TrimSpace(req.Name), Slug: slugValue, Description: req.Description}
	if _, err := s.repo.CreateCategory(ctx, &c); err != nil {
		return models.Category{}, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// GetCategory возвращает рубрику.
func (s *Service) GetCategory(ctx context.Context, id int64) (models.Category, error) {
	const op = "content.GetCategory"

	c, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return models.Category{}, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// ListCategories возвращает все рубрики.
func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	const op = "content.ListCategories"

	items, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

// UpdateCategory перезаписывает рубрику.
func (s *Service) UpdateCategory(ctx context.Context, id int64, req models.DummyCategory) (models.Category, error) {
	const op = "content.UpdateCategory"

	slugValue, err := makeSlug(req.Slug, req.Name)
	if err != nil {
		return models.Category{}, fmt.Errorf("%s: %w", op, err)
	}
	c := models.Category{ID: id, Name: strings.TrimSpace(req.Name), Slug: slugValue, Description: req.Description}
	if err := s.repo.UpdateCategory(ctx, &c); err != nil {
		return models.Category{}, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// DeleteCategory удаляет рубрику.
func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	const op = "content.DeleteCategory"

	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CreateTag добавляет метку.
func (s *Service) CreateTag(ctx context.Context, req models.DummyTag) (models.Tag, error) {
	const op = "content.CreateTag"

	slugValue, err := makeSlug(req.Slug, req.Name)
	if err != nil {
		return models.Tag{}, fmt.Errorf("%s: %w", op, err)
	}
	t := models.Tag{Name: strings.TrimSpace(req.Name), Slug: slugValue}
	if _, err := s.repo.CreateTag(ctx, &t); err != nil {
		return models.Tag{}, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// GetTag возвращает метку.
func (s *Service) GetTag(ctx context.Context, id int64) (models.Tag, error) {
	const op = "content.GetTag"

	t, err := s.repo.GetTag(ctx, id)
	if err != nil {
		return models.Tag{}, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// ListTags возвращает все метки.
func (s *Service) ListTags(ctx context.Context) ([]models.Tag, error) {
	const op = "content.ListTags"

	items, err := s.repo.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

// UpdateTag перезаписывает метку.
func (s *Service) UpdateTag(ctx context.Context, id int64, req models.DummyTag) (models.Tag, error) {
	const op = "content.UpdateTag"

	slugValue, err := makeSlug(req.Slug, req.Name)
	if err != nil {
		return models.Tag{}, fmt.Errorf("%s: %w", op, err)
	}
	t := models.Tag{ID: id, Name: strings.TrimSpace(req.Name), Slug: slugValue}
	if err := s.repo.UpdateTag(ctx, &t); err != nil {
		return models.Tag{}, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// DeleteTag удаляет метку.
func (s *Service) DeleteTag(ctx context.Context, id int64) error {
	const op = "content.DeleteTag"

	if err := s.repo.DeleteTag(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CreatePost сохраняет публикацию вместе с метками.
// Публикация со статусом published получает дату публикации.
func (s *Service) CreatePost(ctx context.Context, req models.DummyPost) (models.Post, error) {
	const op = "content.CreatePost"

	p, err := s.fromRequest(req, nil)
	if err != nil {
		return models.Post{}, fmt.Errorf("%s: %w", op, err)
	}

	err = s.inTx(ctx, func(repo Repository) error {
		if _, err := repo.CreatePost(ctx, &p); err != nil {
			return err
		}
		if err := repo.SetPostTags(ctx, p.ID, req.TagIDs); err != nil {
			return err
		}
		p.Tags, err = repo.ListPostTags(ctx, p.ID)
		return err
	})
	if err != nil {
		return models.Post{}, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("post created", slog.Int64("id", p.ID), slog.String("status", p.Status))
	return p, nil
}

// GetPost возвращает публикацию с метками.
func (s *Service) GetPost(ctx context.Context, id int64) (models.Post, error) {
	const op = "content.GetPost"

	p, err := s.repo.GetPost(ctx, id)
	if err != nil {
		return models.Post{}, fmt.Errorf("%s: %w", op, err)
	}
	if p.Tags, err = s.repo.ListPostTags(ctx, p.ID); err != nil {
		return models.Post{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// GetPublishedBySlug возвращает опубликованную публикацию; черновики не видны.
func (s *Service) GetPublishedBySlug(ctx context.Context, postSlug string) (models.Post, error) {
	const op = "content.GetPublishedBySlug"

	p, err := s.repo.GetPostBySlug(ctx, postSlug)
	if err != nil {
		return models.Post{}, fmt.Errorf("%s: %w", op, err)
	}
	if p.Status != models.PostPublished {
		return models.Post{}, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if p.Tags, err = s.repo.ListPostTags(ctx, p.ID); err != nil {
		return models.Post{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// ListPosts возвращает страницу публикаций по фильтру.
func (s *Service) ListPosts(ctx context.Context, f models.PostFilter) (models.List[models.Post], error) {
	const op = "content.ListPosts"

	items, total, err := s.repo.ListPosts(ctx, f)
	if err != nil {
		return models.List[models.Post]{}, fmt.Errorf("%s: %w", op, err)
	}
	return models.List[models.Post]{Items: items, Total: total, Limit: f.Page.Limit, Offset: f.Page.Offset}, nil
}

// ListPublished возвращает только опубликованные публикации.
func (s *Service) ListPublished(ctx context.Context, f models.PostFilter) (models.List[models.Post], error) {
	f.Status = models.PostPublished
	if f.Page.Sort == "" {
		f.Page.Sort, f.Page.Desc = "published_at", true
	}
	return s.ListPosts(ctx, f)
}

// UpdatePost перезаписывает публикацию и ее метки.
func (s *Service) UpdatePost(ctx context.Context, id int64, req models.DummyPost) (models.Post, error) {
	const op = "content.UpdatePost"

	var p models.Post
	err := s.inTx(ctx, func(repo Repository) error {
		current, err := repo.GetPost(ctx, id)
		if err != nil {
			return err
		}
		p, err = s.fromRequest(req, current.PublishedAt)
		if err != nil {
			return err
		}
		p.ID = id
		if err := repo.UpdatePost(ctx, &p); err != nil {
			return err
		}
		if err := repo.SetPostTags(ctx, id, req.TagIDs); err != nil {
			return err
		}
		p.Tags, err = repo.ListPostTags(ctx, id)
		return err
	})
	if err != nil {
		return models.Post{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// DeletePost удаляет публикацию.
func (s *Service) DeletePost(ctx context.Context, id int64) error {
	const op = "content.DeletePost"

	if err := s.repo.DeletePost(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// fromRequest собирает публикацию. Дата первой публикации сохраняется при повторной
// публикации, черновик ее теряет.
func (s *Service) fromRequest(req models.DummyPost, publishedAt *time.Time) (models.Post, error) {
	slugValue, err := makeSlug(req.Slug, req.Title)
	if err != nil {
		return models.Post{}, err
	}
	p := models.Post{
		Title:      strings.TrimSpace(req.Title),
		Slug:       slugValue,
		Excerpt:    req.Excerpt,
		Content:    req.Content,
		CoverImage: req.CoverImage,
		CategoryID: req.CategoryID,
		Status:     req.Status,
	}
	if p.Status == "" {
		p.Status = models.PostDraft
	}
	if p.Status == models.PostPublished {
		if publishedAt == nil {
			now := s.now().UTC()
			publishedAt = &now
		}
		p.PublishedAt = publishedAt
	}
	return p, nil
}
