// Package services contains the application services of the VaultPass client:
// authentication operations and credential-entry operations. Each service
// composes gateway calls with session/token-store updates and produces
// UI-facing results.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vaultpass/internal/client/api"
	"vaultpass/internal/client/models"
	"vaultpass/internal/client/session"
	"vaultpass/internal/client/tokenstore"
	"vaultpass/internal/logging"
)

// ErrEmailNotVerified marks a login rejected because the account's email is
// not verified yet. The CLI offers a resend-verification action on it.
var ErrEmailNotVerified = errors.New("email not verified")

// forgotPasswordMessage is what ForgotPassword reports regardless of whether
// the address exists, so the operation cannot be used to enumerate accounts.
const forgotPasswordMessage = "If the email address is registered, a password reset link has been sent."

// AuthService defines the authentication operations of the client.
//
// Contract:
//   - Login: authenticate, persist the session, return the profile.
//   - Register: create an account; does NOT sign in (email verification first).
//   - Logout: drop the session locally; no backend call.
//   - CurrentUser: fetch the profile for the held token; an authoritative
//     rejection invalidates the session.
//   - VerifyEmail / ResendVerification / ForgotPassword / ResetPassword:
//     single request/response account-recovery operations.
type AuthService interface {
	Login(ctx context.Context, email string, password []byte) (*models.User, error)
	Register(ctx context.Context, email, username string, password []byte) (*models.User, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*models.User, error)
	VerifyEmail(ctx context.Context, token string) (string, error)
	ResendVerification(ctx context.Context, email string) (string, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token string, newPassword []byte) (string, error)
}

type authService struct {
	client  api.Client
	tokens  tokenstore.Store
	session *session.Manager
	log     logging.Logger
}

// NewAuthService constructs an AuthService bound to the given gateway,
// token store, and session manager.
func NewAuthService(client api.Client, tokens tokenstore.Store, sess *session.Manager, log logging.Logger) AuthService {
	return &authService{client: client, tokens: tokens, session: sess, log: log.With("component", "auth")}
}

// Login authenticates and commits the session. The token is persisted before
// the profile fetch so the gateway can sign that very call; if the profile
// fetch fails only the just-stored token is rolled back, leaving the store
// (including any prior user snapshot) and the session exactly as they were.
func (a *authService) Login(ctx context.Context, email string, password []byte) (*models.User, error) {
	tok, err := a.client.Login(ctx, normalizeEmail(email), string(password))
	if err != nil {
		return nil, classifyLoginError(err)
	}

	if err := a.tokens.SaveToken(ctx, tok.AccessToken); err != nil {
		return nil, fmt.Errorf("failed to persist token: %w", err)
	}

	user, err := a.client.Me(ctx)
	if err != nil {
		if delErr := a.tokens.DeleteToken(ctx); delErr != nil {
			a.log.Error(ctx, "rollback of stored token failed", "error", delErr)
		}
		return nil, fmt.Errorf("failed to fetch user profile: %w", err)
	}

	if err := a.session.SetAuth(ctx, user, tok.AccessToken); err != nil {
		return nil, err
	}
	return user, nil
}

// Register creates the account. The caller stays signed out: the backend
// requires email verification before the first login.
func (a *authService) Register(ctx context.Context, email, username string, password []byte) (*models.User, error) {
	return a.client.Register(ctx, normalizeEmail(email), username, string(password))
}

// Logout clears the token store and the session. Purely local: token
// invalidation, if any, is the server's concern. Session-scoped caches are
// dropped by their owners via the session subscription.
func (a *authService) Logout(ctx context.Context) error {
	return a.session.ClearAuth(ctx)
}

// CurrentUser fetches the profile for the currently held token. A server
// rejection (token valid but user gone or deactivated) invalidates the
// session, same as a refresh failure; a connectivity failure does not.
func (a *authService) CurrentUser(ctx context.Context) (*models.User, error) {
	user, err := a.client.Me(ctx)
	if err != nil {
		if !errors.Is(err, api.ErrUnavailable) {
			a.log.Warn(ctx, "current-user fetch rejected, dropping session", "error", err)
			_ = a.session.ClearAuth(ctx)
		}
		return nil, err
	}

	if err := a.session.SetUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (a *authService) VerifyEmail(ctx context.Context, token string) (string, error) {
	msg, err := a.client.VerifyEmail(ctx, token)
	if err != nil {
		return "", err
	}
	return msg.Message, nil
}

func (a *authService) ResendVerification(ctx context.Context, email string) (string, error) {
	msg, err := a.client.ResendVerification(ctx, normalizeEmail(email))
	if err != nil {
		return "", err
	}
	return msg.Message, nil
}

// ForgotPassword reports the same success outcome whether or not the email
// exists; only connectivity failures surface. The real distinction is
// observable server-side only.
func (a *authService) ForgotPassword(ctx context.Context, email string) (string, error) {
	_, err := a.client.ForgotPassword(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, api.ErrUnavailable) {
			return "", err
		}
		a.log.Debug(ctx, "forgot-password server error suppressed", "error", err)
	}
	return forgotPasswordMessage, nil
}

func (a *authService) ResetPassword(ctx context.Context, token string, newPassword []byte) (string, error) {
	msg, err := a.client.ResetPassword(ctx, token, string(newPassword))
	if err != nil {
		return "", err
	}
	return msg.Message, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// classifyLoginError distinguishes "verify your email first" from generic
// invalid credentials, by the server's message. This only changes which UI
// affordance is shown, never control flow.
func classifyLoginError(err error) error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && strings.Contains(strings.ToLower(apiErr.Message), "verify") {
		return fmt.Errorf("%w: %s", ErrEmailNotVerified, apiErr.Message)
	}
	return err
}
