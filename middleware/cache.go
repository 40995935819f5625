package middleware

import (
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"silverarcade/config"
)

// cachedResponse is the envelope stored in Redis for each cached GET.
type cachedResponse struct {
	Status int    `json:"status"`
	Body   []byte `json:"body"`
}

type cacheWriter struct {
	gin.ResponseWriter
	body []byte
}

func (w *cacheWriter) Write(b []byte) (int, error) {
	w.body = append(w.body, b...)
	return w.ResponseWriter.Write(b)
}

func cacheKey(group string, c *gin.Context) string {
	sum := sha1.Sum([]byte(c.Request.URL.Path + "?" + c.Request.URL.RawQuery))
	return fmt.Sprintf("cache:%s:%x", group, sum)
}

// CacheResponse serves public GET endpoints from Redis for the configured
// TTL. Only 200 responses are cached; everything else passes through. Keys
// are namespaced by group so mutations can invalidate them together.
func CacheResponse(client *redis.Client, group string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := cacheKey(group, c)
		ctx := c.Request.Context()

		if raw, err := client.Get(ctx, key).Bytes(); err == nil {
			var cached cachedResponse
			if err := json.Unmarshal(raw, &cached); err == nil {
				c.Header("X-Cache", "HIT")
				c.Data(cached.Status, "application/json; charset=utf-8", cached.Body)
				c.Abort()
				return
			}
		}

		writer := &cacheWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Header("X-Cache", "MISS")
		c.Next()

		if writer.Status() != http.StatusOK {
			return
		}
		raw, err := json.Marshal(cachedResponse{Status: writer.Status(), Body: writer.body})
		if err != nil {
			return
		}
		ttl := time.Duration(config.AppConfig.CacheTTLSeconds) * time.Second
		if ttl <= 0 {
			ttl = 30 * time.Second
		}
		_ = client.Set(ctx, key, raw, ttl).Err()
	}
}

// InvalidateCache drops every cached response in the group after a
// successful mutation so listings never serve stale table state.
func InvalidateCache(client *redis.Client, group string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if client == nil || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		ctx := c.Request.Context()
		iter := client.Scan(ctx, 0, "cache:"+group+":*", 100).Iterator()
		for iter.Next(ctx) {
			_ = client.Del(ctx, iter.Val()).Err()
		}
	}
}
