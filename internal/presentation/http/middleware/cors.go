package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sangkips/cafepos-api/internal/config"
)

// posRequestHeaders are always allowed: the POS client authenticates with a
// bearer token and marks checkouts with an idempotency key.
var posRequestHeaders = []string{
	"Accept",
	"Authorization",
	"Content-Type",
	"Origin",
	IdempotencyKeyHeader,
	"X-Request-ID",
}

// posExposedHeaders lets the client read download names and replay markers.
var posExposedHeaders = []string{
	"Content-Disposition",
	"Content-Length",
	"Content-Type",
	"X-Request-ID",
	ReplayedHeader,
}

var defaultMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
}

// CORSMiddleware creates a CORS middleware for the POS frontends. An origin
// list of "*" allows any origin without credentials.
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:  splitList(cfg.AllowedMethods),
		AllowHeaders:  mergeHeaders(splitList(cfg.AllowedHeaders), posRequestHeaders),
		ExposeHeaders: posExposedHeaders,
		MaxAge:        12 * time.Hour,
	}
	if len(corsConfig.AllowMethods) == 0 {
		corsConfig.AllowMethods = defaultMethods
	}

	origins := splitList(cfg.AllowedOrigins)
	switch {
	case len(origins) == 1 && origins[0] == "*":
		corsConfig.AllowAllOrigins = true
	case len(origins) == 0:
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
		corsConfig.AllowCredentials = true
	default:
		corsConfig.AllowOrigins = origins
		corsConfig.AllowCredentials = true
	}

	return cors.New(corsConfig)
}

// splitList flattens env values such as "a,b" into separate entries.
func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func mergeHeaders(configured, required []string) []string {
	seen := make(map[string]bool, len(configured)+len(required))
	out := make([]string, 0, len(configured)+len(required))
	for _, h := range append(configured, required...) {
		key := http.CanonicalHeaderKey(h)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	return out
}
