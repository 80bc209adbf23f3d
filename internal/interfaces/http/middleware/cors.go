package middleware

import (
	"fmt"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows the configured origins. A "*" entry allows any origin
// without credentials; credentials are only sent to listed origins.
func CORSMiddleware(allowedOrigins []string) (gin.HandlerFunc, error) {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type", IdempotencyHeader, RequestIDHeader},
		ExposeHeaders: []string{RequestIDHeader, "X-Idempotency-Hit"},
		MaxAge:        12 * time.Hour,
	}
	if slices.Contains(allowedOrigins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
		cfg.AllowCredentials = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cors config: %w", err)
	}
	return cors.New(cfg), nil
}
