package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix     = "user:%s"
	UserNameKeyPrefix = "username:%s"
	PostKeyPrefix     = "post:%s"
)

const (
	UserTTL = 5 * time.Minute
	PostTTL = 10 * time.Minute
)

func UserKey(id string) string {
	return fmt.Sprintf(UserKeyPrefix, id)
}

func UserByNameKey(username string) string {
	return fmt.Sprintf(UserNameKeyPrefix, username)
}

func PostKey(id string) string {
	return fmt.Sprintf(PostKeyPrefix, id)
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

func InvalidateUser(ctx context.Context, id, username string) {
	Invalidate(ctx, UserKey(id), UserByNameKey(username))
}

func InvalidatePost(ctx context.Context, id string) {
	Invalidate(ctx, PostKey(id))
}
