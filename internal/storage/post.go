package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/magabrotheeeer/monastery-admin/internal/models"
)

const postColumns = "p.id, p.title, p.slug, p.excerpt, p.content, p.cover_image, p.category_id, " +
	"p.status, p.published_at, p.created_at, p.updated_at"

var postSortable = map[string]string{
	"created_at":   "p.created_at",
	"published_at": "p.published_at",
	"title":        "p.title",
}

func scanPost(row scanner) (models.Post, error) {
	var (
		p           models.Post
		categoryID  sql.NullInt64
		publishedAt sql.NullTime
	)
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.CoverImage, &categoryID,
		&p.Status, &publishedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return models.Post{}, err
	}
	p.CategoryID = intPtr(categoryID)
	p.PublishedAt = timePtr(publishedAt)
	return p, nil
}

func postConditions(b sq.SelectBuilder, f models.PostFilter) sq.SelectBuilder {
	if f.Status != "" {
		b = b.Where(sq.Eq{"p.status": f.Status})
	}
	if f.CategorySlug != "" {
		b = b.Where("p.category_id = (SELECT id FROM categories WHERE slug = ?)", f.CategorySlug)
	}
	if f.TagSlug != "" {
		b = b.Where(`EXISTS (SELECT 1 FROM post_tags pt JOIN tags tg ON tg.id = pt.tag_id
			WHERE pt.post_id = p.id AND tg.slug = ?)`, f.TagSlug)
	}
	return b
}

// CreatePost сохраняет публикацию без меток.
func (s *Storage) CreatePost(ctx context.Context, p *models.Post) (int64, error) {
	const op = "storage.CreatePost"

	err := s.q.QueryRowContext(ctx, `
		INSERT INTO posts (title, slug, excerpt, content, cover_image, category_id, status, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, created_at, updated_at`,
		p.Title, p.Slug, p.Excerpt, p.Content, p.CoverImage, nullInt(p.CategoryID), p.Status, nullTime(p.PublishedAt)).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return 0, wrap(op, err)
	}
	return p.ID, nil
}

// GetPost возвращает публикацию по id.
func (s *Storage) GetPost(ctx context.Context, id int64) (models.Post, error) {
	const op = "storage.GetPost"
	return s.getPost(ctx, op, psql.Select(postColumns).From("posts p").Where(sq.Eq{"p.id": id}))
}

// GetPostBySlug возвращает публикацию по slug.
func (s *Storage) GetPostBySlug(ctx context.Context, slug string) (models.Post, error) {
	const op = "storage.GetPostBySlug"
	return s.getPost(ctx, op, psql.Select(postColumns).From("posts p").Where(sq.Eq{"p.slug": slug}))
}

func (s *Storage) getPost(ctx context.Context, op string, b sq.SelectBuilder) (models.Post, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return models.Post{}, fmt.Errorf("%s: %w", op, err)
	}
	p, err := scanPost(s.q.QueryRowContext(ctx, query, args...))
	if err != nil {
		return models.Post{}, wrap(op, err)
	}
	return p, nil
}

// ListPosts возвращает страницу публикаций по фильтру.
func (s *Storage) ListPosts(ctx context.Context, f models.PostFilter) ([]models.Post, int, error) {
	const op = "storage.ListPosts"

	total, err := s.count(ctx, postConditions(psql.Select("COUNT(*)").From("posts p"), f))
	if err != nil {
		return nil, 0, wrap(op, err)
	}

	b := paginate(postConditions(psql.Select(postColumns).From("posts p"), f),
		f.Page, postSortable, "p.created_at")
	query, args, err := b.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, wrap(op, err)
	}
	defer rows.Close()

	result := make([]models.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, wrap(op, err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrap(op, err)
	}
	return result, total, nil
}

// UpdatePost перезаписывает публикацию.
func (s *Storage) UpdatePost(ctx context.Context, p *models.Post) error {
	const op = "storage.UpdatePost"

	err := s.q.QueryRowContext(ctx, `
		UPDATE posts SET title = $1, slug = $2, excerpt = $3, content = $4, cover_image = $5,
			category_id = $6, status = $7, published_at = $8, updated_at = now()
		WHERE id = $9 RETURNING created_at, updated_at`,
		p.Title, p.Slug, p.Excerpt, p.Content, p.CoverImage, nullInt(p.CategoryID), p.Status,
		nullTime(p.PublishedAt), p.ID).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return wrap(op, err)
	}
	return nil
}

// DeletePost удаляет публикацию вместе с привязками меток.
func (s *Storage) DeletePost(ctx context.Context, id int64) error {
	const op = "storage.DeletePost"

	res, err := s.q.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return wrap(op, err)
	}
	return expectOne(op, res)
}

// SetPostTags заменяет набор меток публикации.
func (s *Storage) SetPostTags(ctx context.Context, postID int64, tagIDs []int64) error {
	const op = "storage.SetPostTags"

	if _, err := s.q.ExecContext(ctx, `DELETE FROM post_tags WHERE post_id = $1`, postID); err != nil {
		return wrap(op, err)
	}
	if len(tagIDs) == 0 {
		return nil
	}
	b := psql.Insert("post_tags").Columns("post_id", "tag_id").Suffix("ON CONFLICT DO NOTHING")
	for _, id := range tagIDs {
		b = b.Values(postID, id)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err = s.q.ExecContext(ctx, query, args...); err != nil {
		return wrap(op, err)
	}
	return nil
}

// ListPostTags возвращает метки публикации.
func (s *Storage) ListPostTags(ctx context.Context, postID int64) ([]models.Tag, error) {
	const op = "storage.ListPostTags"

	rows, err := s.q.QueryContext(ctx, `
		SELECT t.id, t.name, t.slug FROM tags t
		JOIN post_tags pt ON pt.tag_id = t.id
		WHERE pt.post_id = $1 ORDER BY t.name`, postID)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	result := make([]models.Tag, 0)
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug); err != nil {
			return nil, wrap(op, err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return result, nil
}
