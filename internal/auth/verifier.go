// Package auth resolves the caller identity from a bearer token.
package auth

import (
	"context"
	"errors"
	"fmt"
	"github.com/ilindan-dev/homemaster-mailer/internal/config"
	"github.com/ilindan-dev/homemaster-mailer/internal/domain/model"
	firebaseapp "github.com/ilindan-dev/homemaster-mailer/internal/platform/firebase"
)

// ErrInvalidToken is returned when a token cannot be verified.
var ErrInvalidToken = errors.New("invalid token")

// Verifier turns a raw bearer token into a caller.
type Verifier interface {
	Verify(ctx context.Context, token string) (model.Caller, error)
}

// NewVerifier selects the verifier configured in auth.provider.
func NewVerifier(cfg *config.Config, fb *firebaseapp.Provider) (Verifier, error) {
	switch cfg.Auth.Provider {
	case "jwt", "":
		if cfg.Auth.JWTSecret == "" {
			return nil, fmt.Errorf("auth: jwt provider requires auth.jwt_secret")
		}
		return NewJWTVerifier(cfg.Auth.JWTSecret), nil
	case "firebase":
		return NewFirebaseVerifier(fb), nil
	default:
		return nil, fmt.Errorf("auth: unknown provider %q", cfg.Auth.Provider)
	}
}
