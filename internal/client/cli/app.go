package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"

	"vaultpass/internal/client/api"
	"vaultpass/internal/client/config"
	"vaultpass/internal/client/services"
	"vaultpass/internal/client/session"
	"vaultpass/internal/client/tokenstore"
	"vaultpass/internal/logging"
)

// App wires the client together: config, local session store, HTTP gateway,
// services, and the interactive loop.
type App struct {
	config  *config.Config
	session *session.Manager
	auth    services.AuthService
	entries services.EntryService
	db      *sql.DB
	reader  *bufio.Reader
	out     io.Writer
}

// NewApp constructs the application: opens the local database, builds the
// session manager and gateway, and injects the session layer into the gateway
// as its sign-out notifier.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	db, err := tokenstore.OpenDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	store := tokenstore.NewSQLiteStore(db, logger)
	sess := session.NewManager(store, logger)

	gateway := api.NewHTTPClient(cfg.APIBaseURL, cfg.RequestTimeout, store, logger)
	gateway.SetSessionInvalidator(sess)

	app := &App{
		config:  cfg,
		session: sess,
		auth:    services.NewAuthService(gateway, store, sess, logger),
		entries: services.NewEntryService(gateway, sess, logger),
		db:      db,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}

	// tell the user when the gateway dropped the session under their feet
	wasSignedIn := false
	sess.Subscribe(func(snap session.Snapshot) {
		if wasSignedIn && !snap.SignedIn() {
			fmt.Fprintln(app.out, "Session expired, please login again.")
		}
		wasSignedIn = snap.SignedIn()
	})

	return app, nil
}

// Run restores the persisted session and starts the REPL. Blocks until the
// user exits.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	if err := a.session.Hydrate(ctx); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Welcome to VaultPass CLI (type 'help' for commands)")
	if snap := a.session.Snapshot(); snap.SignedIn() {
		fmt.Fprintf(a.out, "Signed in as %s\n", snap.User.Email)
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner, a.out)
	return nil
}

func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.Snapshot().SignedIn()
}

func (a *App) getStatus() string {
	snap := a.session.Snapshot()
	if snap.SignedIn() {
		return fmt.Sprintf("(%s)", snap.User.Email)
	}
	return ""
}
