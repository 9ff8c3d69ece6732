package seed

import (
	"context"
	"fmt"
	"log/slog"

	"sharehub/internal/middleware"
	"sharehub/internal/models"

	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	NumProfiles     int
	PostsPerProfile int
	MaxComments     int
	MaxDays         int
	// RandSeed makes a run reproducible; zero uses the clock.
	RandSeed int64
	// AdminUsername, when set, names the first profile and flags it admin.
	AdminUsername string
}

func (o Options) withDefaults() Options {
	if o.NumProfiles <= 0 {
		o.NumProfiles = 10
	}
	if o.PostsPerProfile <= 0 {
		o.PostsPerProfile = 3
	}
	if o.MaxComments < 0 {
		o.MaxComments = 0
	}
	if o.MaxDays <= 0 {
		o.MaxDays = 60
	}
	return o
}

// Summary counts what a seeding run created.
type Summary struct {
	Profiles  int
	Posts     int
	Comments  int
	Likes     int
	Bookmarks int
}

func (s Summary) String() string {
	return fmt.Sprintf("profiles=%d posts=%d comments=%d likes=%d bookmarks=%d",
		s.Profiles, s.Posts, s.Comments, s.Likes, s.Bookmarks)
}

// Seeder populates a database with a small social graph of demo data.
type Seeder struct {
	factory *Factory
	opts    Options
}

// NewSeeder creates a Seeder bound to db.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	f := NewFactory(db, opts)
	return &Seeder{factory: f, opts: f.opts}
}

// Run creates profiles, their posts, threaded comments with reactions, likes
// and bookmarks.
func (s *Seeder) Run(ctx context.Context) (Summary, error) {
	var sum Summary
	f := s.factory

	middleware.Logger.InfoContext(ctx, "seeding database",
		slog.Int("profiles", s.opts.NumProfiles),
		slog.Int("posts_per_profile", s.opts.PostsPerProfile),
	)

	profiles := make([]*models.Profile, 0, s.opts.NumProfiles)
	for i := range s.opts.NumProfiles {
		var overrides []func(*models.Profile)
		if i == 0 && s.opts.AdminUsername != "" {
			overrides = append(overrides, func(p *models.Profile) {
				p.Username = s.opts.AdminUsername
				p.IsAdmin = true
			})
		}
		p, err := f.CreateProfile(ctx, overrides...)
		if err != nil {
			return sum, fmt.Errorf("create profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	sum.Profiles = len(profiles)

	var posts []*models.Post
	for _, author := range profiles {
		for range s.opts.PostsPerProfile {
			post, err := f.CreatePost(ctx, author)
			if err != nil {
				return sum, fmt.Errorf("create post: %w", err)
			}
			if post != nil {
				posts = append(posts, post)
			}
		}
	}
	sum.Posts = len(posts)

	for _, post := range posts {
		n, err := s.seedThread(ctx, post, profiles)
		if err != nil {
			return sum, err
		}
		sum.Comments += n

		author := indexOf(profiles, post.UserID)
		for _, i := range f.pick(len(profiles), f.faker.Number(0, len(profiles)/2), author) {
			if err := f.Like(ctx, post, profiles[i]); err != nil {
				return sum, fmt.Errorf("like post %d: %w", post.ID, err)
			}
			sum.Likes++
		}
		for _, i := range f.pick(len(profiles), f.faker.Number(0, 2), author) {
			if err := f.Bookmark(ctx, post, profiles[i]); err != nil {
				return sum, fmt.Errorf("bookmark post %d: %w", post.ID, err)
			}
			sum.Bookmarks++
		}
	}

	middleware.Logger.InfoContext(ctx, "seeding complete", slog.String("summary", sum.String()))
	return sum, nil
}

// seedThread adds top-level comments to post, each with up to two replies.
func (s *Seeder) seedThread(ctx context.Context, post *models.Post, profiles []*models.Profile) (int, error) {
	f := s.factory
	created := 0
	for range f.faker.Number(0, s.opts.MaxComments) {
		author := profiles[f.faker.Number(0, len(profiles)-1)]
		top, err := f.CreateComment(ctx, post, author, nil)
		if err != nil {
			return created, fmt.Errorf("create comment on post %d: %w", post.ID, err)
		}
		created++

		if f.faker.Bool() {
			reactor := profiles[f.faker.Number(0, len(profiles)-1)]
			if err := f.React(ctx, top, reactor); err != nil {
				return created, fmt.Errorf("react to comment %d: %w", top.ID, err)
			}
		}

		for range f.faker.Number(0, 2) {
			replier := profiles[f.faker.Number(0, len(profiles)-1)]
			if _, err := f.CreateComment(ctx, post, replier, top); err != nil {
				return created, fmt.Errorf("reply to comment %d: %w", top.ID, err)
			}
			created++
		}
	}
	return created, nil
}

func indexOf(profiles []*models.Profile, id string) int {
	for i, p := range profiles {
		if p.ID == id {
			return i
		}
	}
	return -1
}
