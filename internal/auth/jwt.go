package auth

import (
	"context"
	"fmt"
	"github.com/golang-jwt/jwt/v5"
	"github.com/ilindan-dev/homemaster-mailer/internal/domain/model"
	"time"
)

// JWTVerifier accepts HS256 tokens signed with a shared secret. The subject is the caller UID.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a verifier for the given signing secret.
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// Verify implements Verifier.
func (v *JWTVerifier) Verify(_ context.Context, token string) (model.Caller, error) {
	tok, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithLeeway(30*time.Second), jwt.WithIssuedAt(), jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !tok.Valid {
		return model.Caller{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	sub, err := tok.Claims.GetSubject()
	if err != nil || sub == "" {
		return model.Caller{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return model.Caller{UID: sub}, nil
}

// Sign issues a token for uid valid for ttl. Used by tooling and tests.
func (v *JWTVerifier) Sign(uid string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   uid,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
