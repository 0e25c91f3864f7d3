package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/mariphil/foundation-site/internal/content"
	"github.com/mariphil/foundation-site/internal/db"
	"github.com/mariphil/foundation-site/internal/domain/role"
	"github.com/mariphil/foundation-site/internal/utils"
)

type seedOptions struct {
	adminEmail    string
	adminName     string
	adminPassword string
	fakeNews      int
}

func seedCmd() *cobra.Command {
	var opts seedOptions
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the first admin user and sample content",
		Long: `Seed is idempotent: the admin user and sample project are only created
when missing, sample articles are matched by slug.

Examples:
  foundation-site seed --admin-password 'change-me'
  foundation-site seed --admin-password 'change-me' --fake-news 20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(opts.adminPassword) < 8 {
				return fmt.Errorf("--admin-password must be at least 8 characters")
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			ctx := cmd.Context()
			if err := st.AutoMigrate(ctx); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			if err := seed(ctx, db.New(st.DB), opts, time.Now().UTC()); err != nil {
				return err
			}

			if cfg.RedisURL != "" {
				ropts, err := redis.ParseURL(cfg.RedisURL)
				if err != nil {
					return fmt.Errorf("parse REDIS_URL: %w", err)
				}
				rdb := redis.NewClient(ropts)
				defer rdb.Close()
				if err := content.NewService(nil, rdb, 0).Invalidate(ctx); err != nil {
					return fmt.Errorf("invalidate content cache: %w", err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Seeding finished.")
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.adminEmail, "admin-email", "admin@mariphilfoundation.org", "admin login email")
	cmd.Flags().StringVar(&opts.adminName, "admin-name", "Admin User", "admin display name")
	cmd.Flags().StringVar(&opts.adminPassword, "admin-password", "", "admin password (required)")
	cmd.Flags().IntVar(&opts.fakeNews, "fake-news", 0, "number of generated news articles to add")
	_ = cmd.MarkFlagRequired("admin-password")
	return cmd
}

type seedStore interface {
	CreateAdminUserIfMissing(ctx context.Context, arg db.CreateAdminUserIfMissingParams) error
	UpsertProject(ctx context.Context, arg db.UpsertProjectParams) error
	UpsertNews(ctx context.Context, arg db.UpsertNewsParams) error
}

func seed(ctx context.Context, q seedStore, opts seedOptions, now time.Time) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(opts.adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if err := q.CreateAdminUserIfMissing(ctx, db.CreateAdminUserIfMissingParams{
		ID:           utils.NewID(utils.PrefixAdmin),
		Email:        strings.ToLower(strings.TrimSpace(opts.adminEmail)),
		Name:         opts.adminName,
		Role:         string(role.ADMIN),
		PasswordHash: string(hash),
		CreatedAt:    now,
	}); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	for _, p := range sampleProjects {
		p.ID = utils.NewID(utils.PrefixProject)
		p.CreatedAt, p.UpdatedAt = now, now
		if err := q.UpsertProject(ctx, p); err != nil {
			return fmt.Errorf("seed project %s: %w", p.Slug, err)
		}
	}

	articles := append([]db.UpsertNewsParams(nil), sampleNews...)
	articles = append(articles, fakeArticles(opts.fakeNews, now)...)
	for _, n := range articles {
		n.ID = utils.NewID(utils.PrefixNews)
		n.CreatedAt, n.UpdatedAt = now, now
		if err := q.UpsertNews(ctx, n); err != nil {
			return fmt.Errorf("seed news %s: %w", n.Slug, err)
		}
	}
	return nil
}

func fakeArticles(n int, now time.Time) []db.UpsertNewsParams {
	out := make([]db.UpsertNewsParams, 0, n)
	for i := 0; i < n; i++ {
		title := strings.TrimSuffix(gofakeit.Sentence(5), ".")
		out = append(out, db.UpsertNewsParams{
			Title:       title,
			Slug:        fmt.Sprintf("%s-%d", slugify(title), i+1),
			Excerpt:     gofakeit.Sentence(16),
			Content:     "# " + title + "\n\n" + gofakeit.Paragraph(3, 5, 12, "\n\n"),
			CoverImage:  gofakeit.ImageURL(800, 450),
			PublishedAt: gofakeit.DateRange(now.AddDate(-1, 0, 0), now).UTC(),
		})
	}
	return out
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

var sampleProjects = []db.UpsertProjectParams{
	{
		Title:   "Education Program 2024",
		Slug:    "education-program-2024",
		Summary: "Supporting children's education with school supplies and scholarships.",
		Content: `# Education Program 2024

Our Education Program provides comprehensive support to underprivileged children in the Philippines.

## Goals
- Provide school supplies to 500 children
- Grant 50 scholarships for high school students
- Conduct after-school tutoring programs

## Impact
Through this program, we aim to break the cycle of poverty by ensuring every child has access to quality education.`,
		CoverImage: "https://images.unsplash.com/photo-1503676260728-1c00da094a0b?w=800",
		Status:     "active",
	},
}

var sampleNews = []db.UpsertNewsParams{
	{
		Title:   "Sports Festival in the Children's Village",
		Slug:    "sports-festival-childrens-village",
		Excerpt: "An exciting day of sports and games brought joy to all the children at our village.",
		Content: `# Sports Festival in the Children's Village

Our children's village recently hosted an exciting sports festival filled with fun activities and friendly competition!

## Activities

The day included:
- Basketball and volleyball tournaments
- Relay races and obstacle courses
- Traditional Filipino games (patintero, tumbang preso)
- Prizes and medals for all participants

## Community Spirit

The event brought together children, staff, and volunteers in a celebration of teamwork, sportsmanship, and community spirit. Every child received participation medals and enjoyed refreshments throughout the day.`,
		CoverImage:  "/images/news/Sportfest im Kinderdorf.jpeg",
		PublishedAt: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
	},
	{
		Title:   "Summer Festival 2025",
		Slug:    "summer-festival-2025",
		Excerpt: "Join us for our annual Summer Festival celebration with activities for the whole community!",
		Content: `# Summer Festival 2025

Mark your calendars! Mariphil Foundation presents the Summer Festival 2025, a day of fun, food, and fellowship.

## Event Details

**Date:** April 20, 2025
**Time:** 9:00 AM - 5:00 PM
**Location:** Mariphil Children's Village

All proceeds will support our educational programs and children's village operations.`,
		CoverImage:  "/images/news/Sommerfest 2025.jpg",
		PublishedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	},
	{
		Title:   "MARIPHIL Summer Festival 2025",
		Slug:    "mariphil-summer-festival-2025",
		Excerpt: "A celebration of community, culture, and hope - don't miss our biggest event of the year!",
		Content: `# MARIPHIL Summer Festival 2025

Get ready for the most anticipated event of the year! The MARIPHIL Summer Festival is back and bigger than ever.

## Impact Your Community

By attending, you're not just having fun - you're supporting:
- Educational scholarships for underprivileged children
- Healthcare programs in underserved communities
- Sustainable livelihood projects for families`,
		CoverImage:  "/images/news/MARIPHIL Sommerfest 2025.jpeg",
		PublishedAt: time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
	},
}
