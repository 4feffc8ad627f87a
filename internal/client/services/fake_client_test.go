package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"vaultpass/internal/client/api"
	"vaultpass/internal/client/models"
	"vaultpass/internal/logging"
)

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testUser() *models.User {
	return &models.User{
		UserID:    "u-1",
		Email:     "user@example.com",
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		IsActive:  true,
	}
}

// fakeClient implements api.Client for service unit tests: preset results,
// captured last-call arguments, and call counters.
type fakeClient struct {
	LoginResp *models.TokenResponse
	LoginErr  error

	RegisterResp *models.User
	RegisterErr  error

	MeResp *models.User
	MeErr  error

	MsgResp *models.Message
	MsgErr  error

	ListResp *models.EntryPage
	ListErr  error

	EntryResp *models.Entry
	EntryErr  error

	RevealResp *models.EntryReveal
	RevealErr  error

	GenResp *models.GeneratedPassword
	GenErr  error

	DeleteErr error

	// captured arguments
	LastLoginEmail    string
	LastLoginPassword string

	LastRegisterEmail    string
	LastRegisterUsername string

	LastForgotEmail string
	LastResendEmail string

	LastVerifyToken string
	LastResetToken  string
	LastNewPassword string

	LastEntryID     string
	LastEntryCreate models.EntryCreate
	LastEntryUpdate models.EntryUpdate
	LastQuery       string

	// call counters
	LoginCalls  int
	MeCalls     int
	ListCalls   int
	ForgotCalls int
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (*models.TokenResponse, error) {
	f.LoginCalls++
	f.LastLoginEmail = email
	f.LastLoginPassword = password
	return f.LoginResp, f.LoginErr
}

func (f *fakeClient) Register(ctx context.Context, email, username, password string) (*models.User, error) {
	f.LastRegisterEmail = email
	f.LastRegisterUsername = username
	return f.RegisterResp, f.RegisterErr
}

func (f *fakeClient) Me(ctx context.Context) (*models.User, error) {
	f.MeCalls++
	return f.MeResp, f.MeErr
}

func (f *fakeClient) VerifyEmail(ctx context.Context, token string) (*models.Message, error) {
	f.LastVerifyToken = token
	return f.MsgResp, f.MsgErr
}

func (f *fakeClient) ResendVerification(ctx context.Context, email string) (*models.Message, error) {
	f.LastResendEmail = email
	return f.MsgResp, f.MsgErr
}

func (f *fakeClient) ForgotPassword(ctx context.Context, email string) (*models.Message, error) {
	f.ForgotCalls++
	f.LastForgotEmail = email
	return f.MsgResp, f.MsgErr
}

func (f *fakeClient) ResetPassword(ctx context.Context, token, newPassword string) (*models.Message, error) {
	f.LastResetToken = token
	f.LastNewPassword = newPassword
	return f.MsgResp, f.MsgErr
}

func (f *fakeClient) ListEntries(ctx context.Context, page, pageSize int) (*models.EntryPage, error) {
	f.ListCalls++
	return f.ListResp, f.ListErr
}

func (f *fakeClient) GetEntry(ctx context.Context, entryID string) (*models.Entry, error) {
	f.LastEntryID = entryID
	return f.EntryResp, f.EntryErr
}

func (f *fakeClient) CreateEntry(ctx context.Context, in models.EntryCreate) (*models.Entry, error) {
	f.LastEntryCreate = in
	return f.EntryResp, f.EntryErr
}

func (f *fakeClient) UpdateEntry(ctx context.Context, entryID string, in models.EntryUpdate) (*models.Entry, error) {
	f.LastEntryID = entryID
	f.LastEntryUpdate = in
	return f.EntryResp, f.EntryErr
}

func (f *fakeClient) DeleteEntry(ctx context.Context, entryID string) error {
	f.LastEntryID = entryID
	return f.DeleteErr
}

func (f *fakeClient) RevealEntry(ctx context.Context, entryID string) (*models.EntryReveal, error) {
	f.LastEntryID = entryID
	return f.RevealResp, f.RevealErr
}

func (f *fakeClient) SearchByWebsite(ctx context.Context, query string, page, pageSize int) (*models.EntryPage, error) {
	f.LastQuery = query
	return f.ListResp, f.ListErr
}

func (f *fakeClient) SearchByEmail(ctx context.Context, query string, page, pageSize int) (*models.EntryPage, error) {
	f.LastQuery = query
	return f.ListResp, f.ListErr
}

func (f *fakeClient) GeneratePassword(ctx context.Context, opts models.GeneratorOptions) (*models.GeneratedPassword, error) {
	return f.GenResp, f.GenErr
}

var _ api.Client = (*fakeClient)(nil)
