package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/monastery-admin/internal/models"
	"github.com/magabrotheeeer/monastery-admin/internal/storage"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateMedia(ctx context.Context, md *models.Media) (int64, error) {
	args := m.Called(ctx, md)
	md.ID = args.Get(0).(int64)
	return md.ID, args.Error(1)
}
func (m *RepoMock) GetMedia(ctx context.Context, id int64) (models.Media, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Media), args.Error(1)
}
func (m *RepoMock) ListMedia(ctx context.Context, page models.Page) ([]models.Media, int, error) {
	args := m.Called(ctx, page)
	return args.Get(0).([]models.Media), args.Int(1), args.Error(2)
}
func (m *RepoMock) DeleteMedia(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type HostMock struct{ mock.Mock }

func (m *HostMock) Upload(ctx context.Context, fileName string, content io.Reader) (string, error) {
	args := m.Called(ctx, fileName, content)
	return args.String(0), args.Error(1)
}

var pngData = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)

func newService(t *testing.T, repo *RepoMock, host ImageHost) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	opts := Options{Dir: dir, PublicURL: "/uploads", MaxSize: 64}
	return New(repo, host, opts, slog.New(slog.NewTextHandler(io.Discard, nil))), dir
}

func TestSave_Local(t *testing.T) {
	repo := new(RepoMock)
	repo.On("CreateMedia", mock.Anything, mock.AnythingOfType("*models.Media")).Return(int64(7), nil).Once()
	svc, dir := newService(t, repo, nil)

	m, err := svc.Save(context.Background(), Upload{OriginalName: "icon.PNG", Content: bytes.NewReader(pngData)})
	require.NoError(t, err)
	assert.Equal(t, int64(7), m.ID)
	assert.Equal(t, "image/png", m.MimeType)
	assert.Equal(t, models.StorageLocal, m.Storage)
	assert.Equal(t, "icon.PNG", m.OriginalName)
	assert.True(t, strings.HasSuffix(m.FileName, ".png"))
	assert.Equal(t, "/uploads/"+m.FileName, m.URL)

	stored, err := os.ReadFile(filepath.Join(dir, m.FileName))
	require.NoError(t, err)
	assert.Equal(t, pngData, stored)
}

func TestSave_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		up      Upload
		host    ImageHost
		wantErr error
	}{
		{
			name:    "too large",
			up:      Upload{OriginalName: "big.png", Content: bytes.NewReader(bytes.Repeat(pngData, 3))},
			wantErr: ErrTooLarge,
		},
		{
			name:    "text file",
			up:      Upload{OriginalName: "notes.txt", Content: strings.NewReader("просто текст")},
			wantErr: ErrUnsupportedType,
		},
		{
			name:    "external without host",
			up:      Upload{OriginalName: "icon.png", Content: bytes.NewReader(pngData), External: true},
			wantErr: ErrExternalUnavailable,
		},
		{
			name:    "external pdf",
			up:      Upload{OriginalName: "doc.pdf", Content: strings.NewReader("%PDF-1.4\n"), External: true},
			host:    new(HostMock),
			wantErr: ErrExternalUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc, _ := newService(t, repo, tt.host)

			_, err := svc.Save(context.Background(), tt.up)
			assert.ErrorIs(t, err, tt.wantErr)
			repo.AssertNotCalled(t, "CreateMedia", mock.Anything, mock.Anything)
		})
	}
}

func TestSave_External(t *testing.T) {
	repo := new(RepoMock)
	host := new(HostMock)
	host.On("Upload", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return("https://i.example.org/x.png", nil).Once()
	repo.On("CreateMedia", mock.Anything, mock.Anything).Return(int64(2), nil).Once()
	svc, dir := newService(t, repo, host)

	m, err := svc.Save(context.Background(), Upload{OriginalName: "x.png", Content: bytes.NewReader(pngData), External: true})
	require.NoError(t, err)
	assert.Equal(t, models.StorageExternal, m.Storage)
	assert.Equal(t, "https://i.example.org/x.png", m.URL)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSave_RepositoryFailureRemovesFile(t *testing.T) {
	repo := new(RepoMock)
	repo.On("CreateMedia", mock.Anything, mock.Anything).Return(int64(0), errors.New("db down")).Once()
	svc, dir := newService(t, repo, nil)

	_, err := svc.Save(context.Background(), Upload{OriginalName: "doc.pdf", Content: strings.NewReader("%PDF-1.4\n")})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDelete(t *testing.T) {
	t.Run("local file removed", func(t *testing.T) {
		repo := new(RepoMock)
		svc, dir := newService(t, repo, nil)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), pngData, 0o644))

		repo.On("GetMedia", mock.Anything, int64(1)).
			Return(models.Media{ID: 1, FileName: "a.png", Storage: models.StorageLocal}, nil).Once()
		repo.On("DeleteMedia", mock.Anything, int64(1)).Return(nil).Once()

		require.NoError(t, svc.Delete(context.Background(), 1))
		_, err := os.Stat(filepath.Join(dir, "a.png"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(RepoMock)
		svc, _ := newService(t, repo, nil)
		repo.On("GetMedia", mock.Anything, int64(1)).Return(models.Media{}, storage.ErrNotFound).Once()

		assert.ErrorIs(t, svc.Delete(context.Background(), 1), storage.ErrNotFound)
	})
}
