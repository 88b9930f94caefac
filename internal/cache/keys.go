package cache

import (
	"fmt"
	"time"
)

// PostTTL bounds how long a cached post detail may be served.
const PostTTL = 5 * time.Minute

// PostKey is the cache key of a post detail document.
func PostKey(postID uint) string {
	return fmt.Sprintf("board:post:%d", postID)
}

// RevokedSessionKey marks a logged-out session id.
func RevokedSessionKey(jti string) string {
	return "board:session:revoked:" + jti
}
