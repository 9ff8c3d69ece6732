package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"sharehub/internal/middleware"
)

const (
	PostKeyPrefix     = "post:%d"
	RankingsKeyPrefix = "rankings:"
	TagsKey           = "tags:all"
)

const (
	PostTTL     = 10 * time.Minute
	RankingsTTL = 5 * time.Minute
	TagsTTL     = 5 * time.Minute
)

// PostKey is the cache key of the anonymous view of a post.
func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

// RankingsKey identifies one rankings result.
func RankingsKey(kind, period, by string, limit int) string {
	return fmt.Sprintf("%s%s:%s:%s:%d", RankingsKeyPrefix, kind, period, by, limit)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

// InvalidatePosts drops the cached views of postIDs in one round trip.
func InvalidatePosts(ctx context.Context, postIDs []uint) {
	if client == nil || len(postIDs) == 0 {
		return
	}
	keys := make([]string, len(postIDs))
	for i, id := range postIDs {
		keys[i] = PostKey(id)
	}
	client.Del(ctx, keys...)
}

// InvalidateRankings drops every cached rankings result and the tag list.
func InvalidateRankings(ctx context.Context) {
	if client == nil {
		return
	}
	Invalidate(ctx, TagsKey)

	iter := client.Scan(ctx, 0, RankingsKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "rankings cache scan failed", slog.String("error", err.Error()))
		return
	}
	if len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}
