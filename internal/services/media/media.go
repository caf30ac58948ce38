// Package media хранит загруженные файлы на диске или на внешнем хостинге изображений.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/monastery-admin/internal/lib/sl"
	"github.com/magabrotheeeer/monastery-admin/internal/models"
)

var (
	// ErrTooLarge возвращается, когда файл больше допустимого размера.
	ErrTooLarge = errors.New("file is too large")
	// ErrUnsupportedType возвращается для файлов кроме изображений и PDF.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrExternalUnavailable возвращается, когда внешний хостинг не настроен или файл не изображение.
	ErrExternalUnavailable = errors.New("external image host is not available for this file")
)

// Repository определяет методы хранилища метаданных файлов.
type Repository interface {
	CreateMedia(ctx context.Context, m *models.Media) (int64, error)
	GetMedia(ctx context.Context, id int64) (models.Media, error)
	ListMedia(ctx context.Context, page models.Page) ([]models.Media, int, error)
	DeleteMedia(ctx context.Context, id int64) error
}

// ImageHost загружает изображение на внешний хостинг.
type ImageHost interface {
	Upload(ctx context.Context, fileName string, content io.Reader) (string, error)
}

// Options задает локальное хранилище.
type Options struct {
	Dir       string
	PublicURL string
	MaxSize   int64
}

// Service реализует операции с файлами.
type Service struct {
	repo Repository
	host ImageHost
	opts Options
	log  *slog.Logger
}

// New создает Service. host может быть nil, тогда доступно только локальное хранение.
func New(repo Repository, host ImageHost, opts Options, log *slog.Logger) *Service {
	return &Service{repo: repo, host: host, opts: opts, log: log}
}

// Upload описывает входящий файл.
type Upload struct {
	OriginalName string
	Content      io.Reader
	External     bool
}

// Save проверяет тип и размер файла, сохраняет его и записывает метаданные.
// Тип определяется по содержимому, а не по заголовку клиента.
func (s *Service) Save(ctx context.Context, up Upload) (models.Media, error) {
	const op = "media.Save"
	log := s.log.With(slog.String("op", op))

	data, err := io.ReadAll(io.LimitReader(up.Content, s.opts.MaxSize+1))
	if err != nil {
		return models.Media{}, fmt.Errorf("%s: %w", op, err)
	}
	if int64(len(data)) > s.opts.MaxSize {
		return models.Media{}, fmt.Errorf("%s: %w", op, ErrTooLarge)
	}

	mimeType := detectType(data)
	if !allowed(mimeType) {
		return models.Media{}, fmt.Errorf("%s: %w: %s", op, ErrUnsupportedType, mimeType)
	}

	m := models.Media{
		FileName:     uuid.NewString() + extension(up.OriginalName, mimeType),
		OriginalName: filepath.Base(up.OriginalName),
		MimeType:     mimeType,
		Size:         int64(len(data)),
	}

	if up.External {
		if s.host == nil || !strings.HasPrefix(mimeType, "image/") {
			return models.Media{}, fmt.Errorf("%s: %w", op, ErrExternalUnavailable)
		}
		m.Storage = models.StorageExternal
		if m.URL, err = s.host.Upload(ctx, m.FileName, bytes.NewReader(data)); err != nil {
			return models.Media{}, fmt.Errorf("%s: %w", op, err)
		}
	} else {
		m.Storage = models.StorageLocal
		if err := s.writeLocal(m.FileName, data); err != nil {
			return models.Media{}, fmt.Errorf("%s: %w", op, err)
		}
		m.URL = path.Join(s.opts.PublicURL, m.FileName)
	}

	if _, err := s.repo.CreateMedia(ctx, &m); err != nil {
		if m.Storage == models.StorageLocal {
			s.removeLocal(m.FileName)
		}
		return models.Media{}, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("media saved", slog.Int64("id", m.ID), slog.String("storage", m.Storage), slog.Int64("size", m.Size))
	return m, nil
}

// Get возвращает метаданные файла.
func (s *Service) Get(ctx context.Context, id int64) (models.Media, error) {
	const op = "media.Get"

	m, err := s.repo.GetMedia(ctx, id)
	if err != nil {
		return models.Media{}, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

// List возвращает страницу файлов.
func (s *Service) List(ctx context.Context, page models.Page) (models.List[models.Media], error) {
	const op = "media.List"

	items, total, err := s.repo.ListMedia(ctx, page)
	if err != nil {
		return models.List[models.Media]{}, fmt.Errorf("%s: %w", op, err)
	}
	return models.List[models.Media]{Items: items, Total: total, Limit: page.Limit, Offset: page.Offset}, nil
}

// Delete удаляет метаданные и локальный файл. Файлы на внешнем хостинге остаются.
func (s *Service) Delete(ctx context.Context, id int64) error {
	const op = "media.Delete"

	m, err := s.repo.GetMedia(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.DeleteMedia(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if m.Storage == models.StorageLocal {
		s.removeLocal(m.FileName)
	}
	return nil
}

func (s *Service) writeLocal(name string, data []byte) error {
	if err := os.MkdirAll(s.opts.Dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.opts.Dir, name), data, 0o644)
}

func (s *Service) removeLocal(name string) {
	err := os.Remove(filepath.Join(s.opts.Dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		s.log.Warn("failed to remove media file", slog.String("file", name), sl.Err(err))
	}
}

func detectType(data []byte) string {
	t := http.DetectContentType(data)
	if mt, _, err := mime.ParseMediaType(t); err == nil {
		return mt
	}
	return t
}

func allowed(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/") || mimeType == "application/pdf"
}

func extension(original, mimeType string) string {
	if ext := strings.ToLower(filepath.Ext(original)); ext != "" && len(ext) <= 6 {
		if byExt := mime.TypeByExtension(ext); byExt != "" && strings.HasPrefix(byExt, mimeType) {
			return ext
		}
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}
