// Package firebase lazily initializes the Firebase app shared by Firestore and Auth.
package firebase

import (
	"cloud.google.com/go/firestore"
	"context"
	"firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"fmt"
	"github.com/ilindan-dev/homemaster-mailer/internal/config"
	"google.golang.org/api/option"
	"sync"
)

// Provider creates the Firebase app on first use, so deployments that use
// neither Firestore nor Firebase Auth never need credentials.
type Provider struct {
	cfg config.FirebaseConfig

	once sync.Once
	app  *firebase.App
	err  error

	authOnce sync.Once
	auth     *auth.Client
	authErr  error
}

// NewProvider creates a Provider for the configured project.
func NewProvider(cfg *config.Config) *Provider {
	return &Provider{cfg: cfg.Firebase}
}

// App returns the initialized Firebase app.
func (p *Provider) App(ctx context.Context) (*firebase.App, error) {
	p.once.Do(func() {
		var opts []option.ClientOption
		if p.cfg.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(p.cfg.CredentialsFile))
		}
		var fbCfg *firebase.Config
		if p.cfg.ProjectID != "" {
			fbCfg = &firebase.Config{ProjectID: p.cfg.ProjectID}
		}
		p.app, p.err = firebase.NewApp(ctx, fbCfg, opts...)
		if p.err != nil {
			p.err = fmt.Errorf("firebase: init app: %w", p.err)
		}
	})
	return p.app, p.err
}

// Auth returns the cached Firebase Auth client.
func (p *Provider) Auth(ctx context.Context) (*auth.Client, error) {
	p.authOnce.Do(func() {
		app, err := p.App(ctx)
		if err != nil {
			p.authErr = err
			return
		}
		p.auth, p.authErr = app.Auth(ctx)
	})
	return p.auth, p.authErr
}

// Firestore opens a new Firestore client. The caller owns and closes it.
func (p *Provider) Firestore(ctx context.Context) (*firestore.Client, error) {
	app, err := p.App(ctx)
	if err != nil {
		return nil, err
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: firestore client: %w", err)
	}
	return client, nil
}
