package cache

import (
	"crypto/md5"
	"fmt"
)

// ArticleKey derives the cache key for a single-article lookup by its
// public token.
func ArticleKey(token string) string {
	return fmt.Sprintf("article_%s", token)
}

// PreferenceKey derives the cache key for a user's stored preferences.
func PreferenceKey(userID int64) string {
	return fmt.Sprintf("user_preference_%d", userID)
}

// FeedKey derives the cache key for a user's feed page. It is a pure
// function of user identity and pagination parameters: identical requests
// share an entry, and differing per_page values never collide.
func FeedKey(userID int64, page, perPage int) string {
	params := fmt.Sprintf("page=%d&per_page=%d", page, perPage)
	return fmt.Sprintf("user_feed_%d_%x", userID, md5.Sum([]byte(params)))
}
