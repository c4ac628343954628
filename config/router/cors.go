package router

import (
	"net/url"
	"strings"
	"time"

	"github.com/akeren/waitlist-api/pkg/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// corsMiddleware returns nil when CORS_ALLOWED_ORIGIN is unset, leaving
// cross-origin browsers blocked.
func (routerService *RouterService) corsMiddleware() gin.HandlerFunc {
	raw := utils.GetEnvTrimmed("CORS_ALLOWED_ORIGIN")
	if raw == "" {
		routerService.logger.Info("CORS disabled (CORS_ALLOWED_ORIGIN not set)")
		return nil
	}

	cfg, ok := buildCORSConfig(raw)
	if !ok {
		routerService.logger.Warn("CORS_ALLOWED_ORIGIN has no usable origins; CORS disabled", "value", raw)
		return nil
	}

	routerService.logger.Info("CORS enabled", "origins", cfg.AllowOrigins, "all_origins", cfg.AllowAllOrigins)
	return cors.New(cfg)
}

func buildCORSConfig(raw string) (cors.Config, bool) {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Correlation-ID", "X-Requested-With"},
		ExposeHeaders: []string{"X-Correlation-ID", "Retry-After", "X-RateLimit-Limit", "X-RateLimit-Window"},
		MaxAge:        12 * time.Hour,
	}

	origins := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		origin := strings.TrimRight(strings.TrimSpace(part), "/")
		if origin == "" {
			continue
		}
		if origin == "*" {
			// Wildcard and credentials cannot be combined.
			cfg.AllowAllOrigins = true
			cfg.AllowOrigins = nil
			return cfg, true
		}
		if !isHTTPOrigin(origin) {
			continue
		}
		origins = append(origins, origin)
	}

	if len(origins) == 0 {
		return cors.Config{}, false
	}

	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg, true
}

func isHTTPOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
