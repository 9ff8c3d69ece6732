// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sharehub/internal/models"
	"sharehub/internal/repository"
	"sharehub/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// reactionEmojis is the pool comment reactions are drawn from.
var reactionEmojis = []string{"👍", "🎉", "🔥", "❤️", "👀", "🤔"}

// Factory builds domain entities and persists them through the repositories.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	faker     *gofakeit.Faker
	opts      Options
	profiles  repository.ProfileRepository
	posts     repository.PostRepository
	comments  repository.CommentRepository
	bookmarks repository.BookmarkRepository
}

// NewFactory creates a Factory bound to db. A zero Options.RandSeed seeds
// from the clock.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := opts.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Factory{
		faker:     gofakeit.New(seed),
		opts:      opts.withDefaults(),
		profiles:  repository.NewProfileRepository(db),
		posts:     repository.NewPostRepository(db),
		comments:  repository.NewCommentRepository(db),
		bookmarks: repository.NewBookmarkRepository(db),
	}
}

// BuildProfile constructs a profile without persisting it.
func (f *Factory) BuildProfile(overrides ...func(*models.Profile)) *models.Profile {
	username := fmt.Sprintf("%s%d", f.faker.Username(), f.faker.Number(100, 999))
	if len(username) > validation.MaxUsernameLength {
		username = username[:validation.MaxUsernameLength]
	}
	p := &models.Profile{
		ID:          uuid.NewString(),
		Username:    validation.NormalizeUsername(username),
		DisplayName: f.faker.Name(),
		AvatarURL:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", f.faker.UUID()),
	}
	for _, override := range overrides {
		override(p)
	}
	return p
}

// CreateProfile builds and persists a profile.
func (f *Factory) CreateProfile(ctx context.Context, overrides ...func(*models.Profile)) (*models.Profile, error) {
	p := f.BuildProfile(overrides...)
	// Upsert never writes the admin flag and reloads the row into p.
	admin := p.IsAdmin
	if err := f.profiles.Upsert(ctx, p); err != nil {
		return nil, err
	}
	if admin {
		if err := f.profiles.SetAdmin(ctx, p.ID, true); err != nil {
			return nil, err
		}
		p.IsAdmin = true
	}
	return p, nil
}

// BuildPost constructs a manual post by author with a created_at spread over
// the last MaxDays days. Tags are returned separately since they are stored
// through the join table.
func (f *Factory) BuildPost(author *models.Profile, overrides ...func(*models.Post)) (*models.Post, []string) {
	raw := fmt.Sprintf("https://%s/%s/%s-%d",
		f.faker.DomainName(), slug(f.faker.HackerNoun()), slug(f.faker.Word()), f.faker.Number(1, 1_000_000))
	url, err := validation.NormalizeURL(raw)
	if err != nil {
		url = raw
	}

	back := time.Duration(f.faker.Number(0, f.opts.MaxDays*24*60)) * time.Minute
	post := &models.Post{
		Title:     f.faker.Sentence(6),
		URL:       url,
		Content:   f.faker.Paragraph(1, 3, 12, "\n"),
		UserID:    author.ID,
		Source:    models.SourceManual,
		CreatedAt: time.Now().Add(-back),
	}
	for _, override := range overrides {
		override(post)
	}

	tags := make([]string, 0, 3)
	for range f.faker.Number(0, 3) {
		tags = append(tags, f.faker.HackerNoun())
	}
	tags, err = validation.NormalizeTags(tags)
	if err != nil {
		tags = nil
	}
	return post, tags
}

// CreatePost builds and persists a post. It returns (nil, nil) when the
// generated URL is already taken.
func (f *Factory) CreatePost(ctx context.Context, author *models.Profile, overrides ...func(*models.Post)) (*models.Post, error) {
	post, tags := f.BuildPost(author, overrides...)
	existing, err := f.posts.FindByURL(ctx, post.URL, 0)
	if err != nil && !repository.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, nil
	}
	if err := f.posts.Create(ctx, post, tags); err != nil {
		if repository.IsDuplicate(err) {
			return nil, nil
		}
		return nil, err
	}
	return post, nil
}

// CreateComment persists a comment on post, as a reply when parent is set.
func (f *Factory) CreateComment(ctx context.Context, post *models.Post, author *models.Profile, parent *models.Comment) (*models.Comment, error) {
	c := &models.Comment{
		PostID:  post.ID,
		UserID:  author.ID,
		Content: f.faker.Sentence(f.faker.Number(4, 20)),
	}
	if parent != nil {
		c.ParentID = &parent.ID
	}
	if err := f.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// React adds a random reaction by user to comment.
func (f *Factory) React(ctx context.Context, comment *models.Comment, user *models.Profile) error {
	emoji := reactionEmojis[f.faker.Number(0, len(reactionEmojis)-1)]
	_, _, err := f.comments.ToggleReaction(ctx, comment.ID, emoji, user.ID)
	return err
}

// Like records a like; an existing like is not an error.
func (f *Factory) Like(ctx context.Context, post *models.Post, user *models.Profile) error {
	_, err := f.posts.Like(ctx, user.ID, post.ID)
	return err
}

// Bookmark saves post for user, marking roughly a third as read.
func (f *Factory) Bookmark(ctx context.Context, post *models.Post, user *models.Profile) error {
	b := &models.Bookmark{
		UserID: user.ID,
		PostID: post.ID,
		IsRead: f.faker.Number(0, 2) == 0,
	}
	if f.faker.Bool() {
		b.Note = f.faker.Sentence(8)
	}
	err := f.bookmarks.Create(ctx, b)
	if repository.IsDuplicate(err) {
		return nil
	}
	return err
}

func slug(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
}

// pick returns n distinct indexes below size, excluding skip.
func (f *Factory) pick(size, n, skip int) []int {
	perm := f.faker.Rand.Perm(size)
	out := make([]int, 0, n)
	for _, i := range perm {
		if len(out) == n {
			break
		}
		if i == skip {
			continue
		}
		out = append(out, i)
	}
	return out
}
