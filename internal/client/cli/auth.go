package cli

import (
	"context"
	"errors"
	"fmt"

	"vaultpass/internal/client/api"
	"vaultpass/internal/client/services"
	"vaultpass/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for an email, optional username, and password and creates
// an account. The user stays signed out: the backend requires email
// verification before the first login.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	username, err := getSimpleText(a.reader, "Enter username (optional)", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if _, err := a.auth.Register(ctx, email, username, password); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Account created. Please check your email to verify your account, then login.")
	return nil
}

// Login prompts for credentials and authenticates. A verification-required
// rejection gets a dedicated hint pointing at the resend command.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, loginErr := a.auth.Login(ctx, email, password)
	if loginErr != nil {
		switch {
		case errors.Is(loginErr, services.ErrEmailNotVerified):
			fmt.Fprintln(a.out, "Your email is not verified yet. Use 'resend' to request a new verification email.")
		case errors.Is(loginErr, api.ErrUnavailable):
			fmt.Fprintln(a.out, "Could not reach the server. Check your connection and try again.")
		}
		return loginErr
	}

	fmt.Fprintf(a.out, "Welcome back, %s!\n", user.Email)
	return nil
}

// Logout drops the local session. No backend call is made; invalidating the
// token server-side is the server's concern.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// WhoAmI fetches and prints the current profile.
func (a *App) WhoAmI(ctx context.Context) error {
	user, err := a.auth.CurrentUser(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Email:    %s\n", user.Email)
	if user.Username != "" {
		fmt.Fprintf(a.out, "Username: %s\n", user.Username)
	}
	fmt.Fprintf(a.out, "Since:    %s\n", user.CreatedAt.Format("2006-01-02"))

	if exp := a.session.Snapshot().ExpiresAt; !exp.IsZero() {
		fmt.Fprintf(a.out, "Token expires at %s\n", exp.Local().Format("15:04:05"))
	}
	return nil
}

// VerifyEmail submits a verification token from the verification email.
func (a *App) VerifyEmail(ctx context.Context) error {
	token, err := getSimpleText(a.reader, "Enter verification token", a.out)
	if err != nil {
		return err
	}

	msg, err := a.auth.VerifyEmail(ctx, token)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

// ResendVerification requests a new verification email.
func (a *App) ResendVerification(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	msg, err := a.auth.ResendVerification(ctx, email)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

// ForgotPassword requests a password-reset email. The reported outcome is
// the same whether or not the address is registered.
func (a *App) ForgotPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	msg, err := a.auth.ForgotPassword(ctx, email)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

// ResetPassword submits a reset token with a new password.
func (a *App) ResetPassword(ctx context.Context) error {
	token, err := getSimpleText(a.reader, "Enter reset token", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter new password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	msg, err := a.auth.ResetPassword(ctx, token, password)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, msg)
	return nil
}
