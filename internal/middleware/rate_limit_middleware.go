package middleware

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tsena-smart/tsena-api/internal/domain/repository"
)

// RateLimitMiddleware throttles a route group per client IP using a
// fixed Redis window. When Redis is unreachable the request passes;
// throttling is protection, not a dependency.
type RateLimitMiddleware struct {
	cache repository.CacheRepository
}

func NewRateLimitMiddleware(cache repository.CacheRepository) *RateLimitMiddleware {
	return &RateLimitMiddleware{cache: cache}
}

// Limit allows at most maxRequests per window for the named scope.
func (m *RateLimitMiddleware) Limit(scope string, maxRequests int64, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%s", scope, c.ClientIP())

		count, err := m.cache.Increment(c.Request.Context(), key)
		if err != nil {
			log.Printf("rate limit increment %q: %v", key, err)
			c.Next()
			return
		}
		if count == 1 {
			if err := m.cache.Expire(c.Request.Context(), key, window); err != nil {
				log.Printf("rate limit expire %q: %v", key, err)
			}
		}
		if count > maxRequests {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message": "Trop de requêtes, veuillez réessayer plus tard.",
				"success": false,
				"donnees": nil,
			})
			return
		}
		c.Next()
	}
}
