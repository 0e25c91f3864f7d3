package content

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mariphil/foundation-site/internal/db"
)

// NavLimit caps the collections used by navigation menus and home page teasers.
const NavLimit = 5

var ErrNotFound = errors.New("not found")

const (
	keyProjects    = "content:projects"
	keyAllProjects = "content:projects:all"
	keyNews        = "content:news"
	keyAllNews     = "content:news:all"
)

// Store is the read side of the content tables.
type Store interface {
	ListActiveProjects(ctx context.Context, limit int64) ([]db.Project, error)
	ListProjects(ctx context.Context) ([]db.Project, error)
	GetProjectBySlug(ctx context.Context, slug string) (db.Project, error)
	ListRecentNews(ctx context.Context, limit int64) ([]db.News, error)
	ListNews(ctx context.Context) ([]db.News, error)
	GetNewsBySlug(ctx context.Context, slug string) (db.News, error)
}

// RedisClient defines the interface for Redis operations.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type Project struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Summary    string    `json:"summary"`
	Content    string    `json:"content"`
	CoverImage string    `json:"coverImage"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Excerpt     string    `json:"excerpt"`
	Content     string    `json:"content"`
	CoverImage  string    `json:"coverImage"`
	PublishedAt time.Time `json:"publishedAt"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Service serves projects and news. Collections are never nil so they
// encode as [] for an empty store.
type Service struct {
	store Store
	cache RedisClient
	ttl   time.Duration
}

// NewService returns a service. A nil cache disables caching.
func NewService(store Store, cache RedisClient, ttl time.Duration) *Service {
	return &Service{store: store, cache: cache, ttl: ttl}
}

func (s *Service) ListProjects(ctx context.Context) ([]Project, error) {
	return cached(ctx, s, keyProjects, func() ([]Project, error) {
		rows, err := s.store.ListActiveProjects(ctx, NavLimit)
		return projects(rows), err
	})
}

func (s *Service) ListAllProjects(ctx context.Context) ([]Project, error) {
	return cached(ctx, s, keyAllProjects, func() ([]Project, error) {
		rows, err := s.store.ListProjects(ctx)
		return projects(rows), err
	})
}

func (s *Service) ProjectBySlug(ctx context.Context, slug string) (Project, error) {
	row, err := s.store.GetProjectBySlug(ctx, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, ErrNotFound
	}
	if err != nil {
		return Project{}, fmt.Errorf("get project %q: %w", slug, err)
	}
	return toProject(row), nil
}

func (s *Service) ListNews(ctx context.Context) ([]Article, error) {
	return cached(ctx, s, keyNews, func() ([]Article, error) {
		rows, err := s.store.ListRecentNews(ctx, NavLimit)
		return articles(rows), err
	})
}

func (s *Service) ListAllNews(ctx context.Context) ([]Article, error) {
	return cached(ctx, s, keyAllNews, func() ([]Article, error) {
		rows, err := s.store.ListNews(ctx)
		return articles(rows), err
	})
}

func (s *Service) NewsBySlug(ctx context.Context, slug string) (Article, error) {
	row, err := s.store.GetNewsBySlug(ctx, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return Article{}, ErrNotFound
	}
	if err != nil {
		return Article{}, fmt.Errorf("get news %q: %w", slug, err)
	}
	return toArticle(row), nil
}

// Invalidate drops every cached collection, e.g. after seeding.
func (s *Service) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Del(ctx, keyProjects, keyAllProjects, keyNews, keyAllNews).Err()
}

// cached reads key from the cache or falls back to load, storing the result.
// Cache failures are logged and never surface to the caller.
func cached[T any](ctx context.Context, s *Service, key string, load func() ([]T, error)) ([]T, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			var out []T
			if jerr := json.Unmarshal(raw, &out); jerr == nil && out != nil {
				return out, nil
			}
		case !errors.Is(err, redis.Nil):
			slog.WarnContext(ctx, "Content cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		}
	}

	out, err := load()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}

	if s.cache != nil {
		if b, err := json.Marshal(out); err == nil {
			if err := s.cache.Set(ctx, key, b, s.ttl).Err(); err != nil {
				slog.WarnContext(ctx, "Content cache write failed", slog.String("key", key), slog.String("error", err.Error()))
			}
		}
	}
	return out, nil
}

func projects(rows []db.Project) []Project {
	out := make([]Project, 0, len(rows))
	for _, r := range rows {
		out = append(out, toProject(r))
	}
	return out
}

func toProject(r db.Project) Project {
	return Project{
		ID:         r.ID,
		Title:      r.Title,
		Slug:       r.Slug,
		Summary:    r.Summary,
		Content:    r.Content,
		CoverImage: r.CoverImage,
		Status:     r.Status,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func articles(rows []db.News) []Article {
	out := make([]Article, 0, len(rows))
	for _, r := range rows {
		out = append(out, toArticle(r))
	}
	return out
}

func toArticle(r db.News) Article {
	return Article{
		ID:          r.ID,
		Title:       r.Title,
		Slug:        r.Slug,
		Excerpt:     r.Excerpt,
		Content:     r.Content,
		CoverImage:  r.CoverImage,
		PublishedAt: r.PublishedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
