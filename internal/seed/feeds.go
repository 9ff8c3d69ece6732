package seed

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"sharehub/internal/middleware"
	"sharehub/internal/models"
	"sharehub/internal/service"

	"gopkg.in/yaml.v3"
)

// FeedEntry is one feed in a feeds file.
type FeedEntry struct {
	Name   string   `yaml:"name"`
	URL    string   `yaml:"url"`
	Tags   []string `yaml:"tags"`
	Active *bool    `yaml:"active"`
}

type feedsFile struct {
	Feeds []FeedEntry `yaml:"feeds"`
}

// LoadFeedsFile reads a YAML feeds file of the form
//
//	feeds:
//	  - name: Go Blog
//	    url: https://go.dev/blog/feed.atom
//	    tags: [go]
func LoadFeedsFile(path string) ([]FeedEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read feeds file: %w", err)
	}
	return ParseFeeds(raw)
}

// ParseFeeds decodes feeds file contents. Entries without a name or url are
// rejected.
func ParseFeeds(raw []byte) ([]FeedEntry, error) {
	var file feedsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse feeds file: %w", err)
	}
	for i, f := range file.Feeds {
		if strings.TrimSpace(f.Name) == "" || strings.TrimSpace(f.URL) == "" {
			return nil, fmt.Errorf("feed %d: name and url are required", i+1)
		}
	}
	return file.Feeds, nil
}

// SeedFeeds registers entries through the feed service. Feeds whose URL is
// already registered are skipped. It returns how many were created.
func SeedFeeds(ctx context.Context, feeds *service.FeedService, createdBy string, entries []FeedEntry) (int, error) {
	created := 0
	for _, e := range entries {
		_, err := feeds.CreateFeed(ctx, createdBy, service.FeedInput{
			Name:     e.Name,
			URL:      e.URL,
			Tags:     e.Tags,
			IsActive: e.Active,
		})
		switch {
		case err == nil:
			created++
		case models.IsCode(err, models.CodeConflict):
			middleware.Logger.InfoContext(ctx, "feed already registered", slog.String("url", e.URL))
		default:
			return created, fmt.Errorf("feed %q: %w", e.Name, err)
		}
	}
	return created, nil
}
