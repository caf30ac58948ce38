package models

import "time"

// Статусы публикаций.
const (
	PostDraft     = "draft"
	PostPublished = "published"
)

// Category — рубрика новостей.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
}

// Tag — метка публикации.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Post описывает новость или статью.
type Post struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt,omitempty"`
	Content     string     `json:"content"`
	CoverImage  string     `json:"cover_image,omitempty"`
	CategoryID  *int64     `json:"category_id,omitempty"`
	Tags        []Tag      `json:"tags,omitempty"`
	Status      string     `json:"status"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// DummyCategory описывает запрос создания или изменения рубрики.
type DummyCategory struct {
	Name        string `json:"name" validate:"required,max=200"`
	Slug        string `json:"slug,omitempty" validate:"omitempty,max=200"`
	Description string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// DummyTag — запрос создания или изменения метки.
type DummyTag struct {
	Name string `json:"name" validate:"required,max=100"`
	Slug string `json:"slug,omitempty" validate:"omitempty,max=100"`
}

// DummyPost — запрос создания или изменения публикации.
type DummyPost struct {
	Title      string  `json:"title" validate:"required,max=300"`
	Slug       string  `json:"slug,omitempty" validate:"omitempty,max=300"`
	Excerpt    string  `json:"excerpt,omitempty" validate:"omitempty,max=1000"`
	Content    string  `json:"content" validate:"required"`
	CoverImage string  `json:"cover_image,omitempty" validate:"omitempty,max=1000"`
	CategoryID *int64  `json:"category_id,omitempty"`
	TagIDs     []int64 `json:"tag_ids,omitempty"`
	Status     string  `json:"status,omitempty" validate:"omitempty,oneof=draft published"`
}

// PostFilter — параметры выборки публикаций.
type PostFilter struct {
	Status       string
	CategorySlug string
	TagSlug      string
	Page         Page
}
