// Package api implements the HTTP gateway to the VaultPass backend: the
// single choke point through which every request passes. It attaches the
// bearer credential, runs the refresh-on-401 protocol, and normalizes errors.
package api

import (
	"context"

	"vaultpass/internal/client/models"
)

// Client is the backend API surface consumed by the services layer.
type Client interface {
	Login(ctx context.Context, email, password string) (*models.TokenResponse, error)
	Register(ctx context.Context, email, username, password string) (*models.User, error)
	Me(ctx context.Context) (*models.User, error)
	VerifyEmail(ctx context.Context, token string) (*models.Message, error)
	ResendVerification(ctx context.Context, email string) (*models.Message, error)
	ForgotPassword(ctx context.Context, email string) (*models.Message, error)
	ResetPassword(ctx context.Context, token, newPassword string) (*models.Message, error)

	ListEntries(ctx context.Context, page, pageSize int) (*models.EntryPage, error)
	GetEntry(ctx context.Context, entryID string) (*models.Entry, error)
	CreateEntry(ctx context.Context, in models.EntryCreate) (*models.Entry, error)
	UpdateEntry(ctx context.Context, entryID string, in models.EntryUpdate) (*models.Entry, error)
	DeleteEntry(ctx context.Context, entryID string) error
	RevealEntry(ctx context.Context, entryID string) (*models.EntryReveal, error)
	SearchByWebsite(ctx context.Context, query string, page, pageSize int) (*models.EntryPage, error)
	SearchByEmail(ctx context.Context, query string, page, pageSize int) (*models.EntryPage, error)
	GeneratePassword(ctx context.Context, opts models.GeneratorOptions) (*models.GeneratedPassword, error)
}

// SessionInvalidator is notified when the gateway gives up on the current
// session (refresh failed after a 401). The session layer implements it and
// injects itself at startup; the gateway never imports the session package.
type SessionInvalidator interface {
	SessionInvalidated(ctx context.Context)
}
