// Package feeds turns RSS and Atom feed items into posts.
package feeds

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"sharehub/internal/middleware"
	"sharehub/internal/models"
	"sharehub/internal/observability"
	"sharehub/internal/repository"
	"sharehub/internal/validation"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"go.opentelemetry.io/otel/attribute"
)

// MaxSummaryLength bounds the post content derived from an item description.
const MaxSummaryLength = 2000

// ErrNoAuthor is returned when neither RSS_AUTHOR_ID nor the feed creator is set.
var ErrNoAuthor = errors.New("no author configured for feed posts")

// Options configures an Ingester.
type Options struct {
	AuthorID   string
	MaxItems   int
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Result counts what one ingestion did.
type Result struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// Ingester fetches feeds and stores new items as posts with source "rss".
type Ingester struct {
	posts    repository.PostRepository
	feeds    repository.RssFeedRepository
	parser   *gofeed.Parser
	authorID string
	maxItems int
	timeout  time.Duration
	now      func() time.Time
}

// NewIngester builds an Ingester. Zero options fall back to 30 items and a 20s timeout.
func NewIngester(posts repository.PostRepository, feeds repository.RssFeedRepository, opts Options) *Ingester {
	if opts.MaxItems <= 0 {
		opts.MaxItems = 30
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}

	parser := gofeed.NewParser()
	parser.UserAgent = "sharehub-ingest/1.0"
	if opts.HTTPClient != nil {
		parser.Client = opts.HTTPClient
	}

	return &Ingester{
		posts:    posts,
		feeds:    feeds,
		parser:   parser,
		authorID: opts.AuthorID,
		maxItems: opts.MaxItems,
		timeout:  opts.Timeout,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// IngestFeed runs one pass over feed and records the outcome on the feed row.
func (i *Ingester) IngestFeed(ctx context.Context, feed *models.RssFeed) (res Result, err error) {
	ctx, end := observability.StartSpan(ctx, "feeds", "ingest",
		attribute.Int("feed.id", int(feed.ID)),
		attribute.String("feed.url", feed.URL),
	)
	defer func() { end(err) }()

	res, err = i.ingest(ctx, feed)

	lastErr := ""
	if err != nil {
		lastErr = err.Error()
		observability.RSSFetchErrors.WithLabelValues(feed.Name).Inc()
		middleware.Logger.WarnContext(ctx, "feed ingestion failed",
			slog.Uint64("feed_id", uint64(feed.ID)),
			slog.String("url", feed.URL),
			slog.String("error", lastErr),
		)
	} else {
		middleware.Logger.InfoContext(ctx, "feed ingested",
			slog.Uint64("feed_id", uint64(feed.ID)),
			slog.Int("created", res.Created),
			slog.Int("skipped", res.Skipped),
		)
	}
	if res.Created > 0 {
		observability.RSSItemsIngested.WithLabelValues(feed.Name).Add(float64(res.Created))
	}

	if markErr := i.feeds.MarkFetched(ctx, feed.ID, i.now(), lastErr); markErr != nil && err == nil {
		err = fmt.Errorf("record fetch: %w", markErr)
	}
	return res, err
}

func (i *Ingester) ingest(ctx context.Context, feed *models.RssFeed) (Result, error) {
	var res Result

	authorID := i.authorID
	if authorID == "" {
		authorID = feed.CreatedBy
	}
	if authorID == "" {
		return res, ErrNoAuthor
	}

	tags, err := validation.NormalizeTags(feed.Tags)
	if err != nil {
		return res, fmt.Errorf("feed tags: %w", err)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()
	parsed, err := i.parser.ParseURLWithContext(feed.URL, fetchCtx)
	if err != nil {
		return res, fmt.Errorf("fetch %s: %w", feed.URL, err)
	}

	items := parsed.Items
	if len(items) > i.maxItems {
		items = items[:i.maxItems]
	}

	feedID := feed.ID
	for _, item := range items {
		if item == nil {
			continue
		}
		link, err := validation.NormalizeURL(item.Link)
		if err != nil {
			res.Skipped++
			continue
		}

		if _, err := i.posts.FindByURL(ctx, link, 0); err == nil {
			res.Skipped++
			continue
		} else if !repository.IsNotFound(err) {
			return res, err
		}

		post := &models.Post{
			Title:       itemTitle(item, link),
			URL:         link,
			Content:     Summary(firstNonEmpty(item.Description, item.Content)),
			UserID:      authorID,
			Source:      models.SourceRSS,
			FeedID:      &feedID,
			PublishedAt: publishedAt(item),
		}
		if err := i.posts.Create(ctx, post, tags); err != nil {
			if repository.IsDuplicate(err) {
				res.Skipped++
				continue
			}
			return res, err
		}
		res.Created++
	}
	return res, nil
}

// RunActive ingests every active feed. A failing feed does not stop the rest;
// the joined error reports all failures.
func (i *Ingester) RunActive(ctx context.Context) (map[uint]Result, error) {
	feeds, err := i.feeds.List(ctx, true)
	if err != nil {
		return nil, err
	}

	out := make(map[uint]Result, len(feeds))
	var errs []error
	for _, f := range feeds {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		res, err := i.IngestFeed(ctx, f)
		out[f.ID] = res
		if err != nil {
			errs = append(errs, fmt.Errorf("feed %d: %w", f.ID, err))
		}
	}
	return out, errors.Join(errs...)
}

// Summary strips markup from an item description and truncates it.
func Summary(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	text := raw
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw)); err == nil {
		text = doc.Text()
	}
	text = strings.Join(strings.Fields(text), " ")

	if utf8.RuneCountInString(text) > MaxSummaryLength {
		r := []rune(text)
		text = string(r[:MaxSummaryLength])
	}
	return text
}

func itemTitle(item *gofeed.Item, link string) string {
	title := strings.Join(strings.Fields(item.Title), " ")
	if title == "" {
		title = link
	}
	if utf8.RuneCountInString(title) > validation.MaxTitleLength {
		r := []rune(title)
		title = string(r[:validation.MaxTitleLength])
	}
	return title
}

func publishedAt(item *gofeed.Item) *time.Time {
	t := item.PublishedParsed
	if t == nil {
		t = item.UpdatedParsed
	}
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
