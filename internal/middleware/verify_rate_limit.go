package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/maskline/backend/internal/config"
	"github.com/redis/go-redis/v9"
)

// VerifyRateLimit limits how often one user can hit the verification
// endpoints, independent of the per-code attempt counter kept on the record.
// Keyed per user with the code-expiry window as TTL; Redis being down never
// blocks the request.
func VerifyRateLimit(redisClient *redis.Client, cfg *config.Config) gin.HandlerFunc {
	maxRequests := cfg.MaxVerificationAttempts * 4
	return func(c *gin.Context) {
		ctx := context.Background()

		userIDInterface, exists := c.Get("userID")
		if !exists {
			c.Next()
			return
		}
		userID, ok := userIDInterface.(uuid.UUID)
		if !ok {
			c.Next()
			return
		}

		key := fmt.Sprintf("verify_limit:%s", userID.String())

		count, err := redisClient.Get(ctx, key).Int()
		if err == redis.Nil {
			if err := redisClient.Set(ctx, key, 1, cfg.VerificationCodeExpiry).Err(); err != nil {
				c.Next()
				return
			}
		} else if err != nil {
			// Redis error - don't block verification
			c.Next()
			return
		} else if count >= maxRequests {
			ttl, _ := redisClient.TTL(ctx, key).Result()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":             "Too many verification requests",
				"retry_after_hours": int(ttl.Hours()),
			})
			c.Abort()
			return
		} else {
			redisClient.Incr(ctx, key)
		}

		c.Next()
	}
}
