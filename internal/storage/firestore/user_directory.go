package firestore

import (
	gofirestore "cloud.google.com/go/firestore"
	"context"
	"fmt"
	"github.com/ilindan-dev/homemaster-mailer/internal/domain/model"
	repo "github.com/ilindan-dev/homemaster-mailer/internal/domain/repository"
	"github.com/rs/zerolog"
	"strings"
)

// Ensure UserDirectory implements the interface
var _ repo.UserStore = (*UserDirectory)(nil)

// UserDirectory implements the user store on a Firestore collection
// of documents keyed by uid.
type UserDirectory struct {
	client     *gofirestore.Client
	collection string
	logger     zerolog.Logger
}

// NewUserDirectory creates a new instance of the UserDirectory.
func NewUserDirectory(client *gofirestore.Client, collection string, logger *zerolog.Logger) *UserDirectory {
	if collection == "" {
		collection = "users"
	}
	return &UserDirectory{
		client:     client,
		collection: collection,
		logger:     logger.With().Str("layer", "firestore_directory").Logger(),
	}
}

// ListRecipients returns every user document whose email is not null.
func (d *UserDirectory) ListRecipients(ctx context.Context) ([]model.Recipient, error) {
	docs, err := d.client.Collection(d.collection).
		Where("email", "!=", nil).
		Documents(ctx).
		GetAll()
	if err != nil {
		d.logger.Err(err).Str("method", "ListRecipients").Msg("cannot query recipients")
		return nil, fmt.Errorf("firestore: ListRecipients failed: %w", err)
	}

	recipients := make([]model.Recipient, 0, len(docs))
	for _, doc := range docs {
		recipients = append(recipients, model.Recipient{Email: emailOf(doc.Data())})
	}
	return recipients, nil
}

// Upsert overwrites the user document, stamping createdAt with the server time.
func (d *UserDirectory) Upsert(ctx context.Context, u *model.User) error {
	if _, err := d.client.Collection(d.collection).Doc(u.UID).Set(ctx, toDocument(u)); err != nil {
		d.logger.Err(err).Str("uid", u.UID).Msg("cannot set user document")
		return fmt.Errorf("firestore: Upsert failed: %w", err)
	}
	return nil
}

// emailOf reads the email field; non-string values count as missing.
func emailOf(data map[string]any) string {
	email, _ := data["email"].(string)
	return strings.TrimSpace(email)
}

// toDocument maps a user to the document shape the HomeMaster apps read.
func toDocument(u *model.User) map[string]any {
	doc := map[string]any{
		"uid":       u.UID,
		"email":     u.Email,
		"name":      u.Name,
		"role":      string(u.Role),
		"createdAt": gofirestore.ServerTimestamp,
	}
	if u.ServiceType != "" {
		doc["serviceType"] = u.ServiceType
	}
	if u.IsVerified != nil {
		doc["isVerified"] = *u.IsVerified
	}
	return doc
}
