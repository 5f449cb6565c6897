package http

import (
	"github.com/gin-gonic/gin"
	"github.com/ilindan-dev/homemaster-mailer/internal/auth"
	"github.com/ilindan-dev/homemaster-mailer/internal/domain/model"
	"github.com/rs/zerolog"
	"strings"
)

const ctxCallerKey = "homemaster_caller"

// Authenticate resolves the bearer token into a caller and stores it in the context.
// A missing or invalid token leaves the caller anonymous; the services decide what
// anonymous callers may do.
func Authenticate(verifier auth.Verifier, logger *zerolog.Logger) gin.HandlerFunc {
	log := logger.With().Str("layer", "http_auth").Logger()
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if token, ok := strings.CutPrefix(header, "Bearer "); ok && token != "" {
			caller, err := verifier.Verify(c.Request.Context(), token)
			if err != nil {
				log.Warn().Err(err).Str("path", c.FullPath()).Msg("rejected bearer token")
			} else {
				c.Set(ctxCallerKey, caller)
			}
		}
		c.Next()
	}
}

// CallerFrom returns the caller stored by Authenticate, or an anonymous caller.
func CallerFrom(c *gin.Context) model.Caller {
	if v, ok := c.Get(ctxCallerKey); ok {
		if caller, ok := v.(model.Caller); ok {
			return caller
		}
	}
	return model.Caller{}
}
