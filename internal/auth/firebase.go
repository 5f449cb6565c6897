package auth

import (
	"context"
	"fmt"
	"github.com/ilindan-dev/homemaster-mailer/internal/domain/model"
	firebaseapp "github.com/ilindan-dev/homemaster-mailer/internal/platform/firebase"
)

// FirebaseVerifier checks Firebase ID tokens issued to HomeMaster client apps.
type FirebaseVerifier struct {
	fb *firebaseapp.Provider
}

// NewFirebaseVerifier creates a verifier backed by Firebase Auth.
func NewFirebaseVerifier(fb *firebaseapp.Provider) *FirebaseVerifier {
	return &FirebaseVerifier{fb: fb}
}

// Verify implements Verifier.
func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (model.Caller, error) {
	client, err := v.fb.Auth(ctx)
	if err != nil {
		return model.Caller{}, fmt.Errorf("auth: firebase client: %w", err)
	}
	decoded, err := client.VerifyIDToken(ctx, token)
	if err != nil {
		return model.Caller{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return model.Caller{UID: decoded.UID}, nil
}
