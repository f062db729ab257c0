package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	PostKeyPrefix      = "post:%d"
	GroupKeyPrefix     = "group:%s"
	IndexPageKeyPrefix = "index:page:%d"
	indexPagePattern   = "index:page:*"
)

const (
	PostTTL  = 30 * time.Minute
	GroupTTL = 10 * time.Minute
	// IndexPageTTL is short so new posts by other writers surface quickly.
	IndexPageTTL = 20 * time.Second
)

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func GroupKey(slug string) string {
	return fmt.Sprintf(GroupKeyPrefix, slug)
}

func IndexPageKey(page int) string {
	return fmt.Sprintf(IndexPageKeyPrefix, page)
}

// Invalidate deletes key; a nil client is a no-op.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

func InvalidateGroup(ctx context.Context, slug string) {
	Invalidate(ctx, GroupKey(slug))
}

// InvalidateIndex drops every cached index page.
func InvalidateIndex(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, indexPagePattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}
