package cli

import (
	"bufio"
	"context"
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/marketpulse/internal/client/api"
	"github.com/dmitrijs2005/marketpulse/internal/client/config"
	"github.com/dmitrijs2005/marketpulse/internal/client/credential"
	"github.com/dmitrijs2005/marketpulse/internal/client/models"
	"github.com/dmitrijs2005/marketpulse/internal/client/services"
	"github.com/dmitrijs2005/marketpulse/internal/client/session"
	"github.com/dmitrijs2005/marketpulse/internal/filex"
	"github.com/dmitrijs2005/marketpulse/internal/logging"

	_ "modernc.org/sqlite"
)

// sessionAPI is the slice of *session.Manager the CLI commands use.
// Extracted as an interface so command handlers can be tested with a fake.
type sessionAPI interface {
	Bootstrap(ctx context.Context)
	Login(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, data models.SignUpData) (string, error)
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	Logout(ctx context.Context)
	FederatedLoginURL(provider session.Provider) (string, error)
	Identity() *models.Identity
	State() session.State
}

// App is the interactive MarketPulse client: a session manager plus the
// dashboard service, driven by a REPL over stdin.
type App struct {
	config    *config.Config
	sessions  sessionAPI
	dashboard services.DashboardService
	reader    *bufio.Reader
	db        *sql.DB
}

// NewApp wires the client stack: local SQLite credential store, HTTP API
// client reading the stored token, session manager, and dashboard service.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	dbPath := c.CredentialDBPath
	if filepath.Dir(dbPath) == "." {
		// Bare filename: keep it in a data subdirectory next to the binary.
		dir, err := filex.EnsureSubdDir("data")
		if err != nil {
			return nil, err
		}
		dbPath = filepath.Join(dir, dbPath)
	}

	db, err := credential.InitDatabase(ctx, dbPath)
	if err != nil {
		return nil, err
	}

	store := credential.NewSQLiteStore(db)
	apiClient := api.NewHTTPClient(c.ServerBaseURL, c.RequestTimeout, store)
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	return &App{
		config:    c,
		sessions:  session.New(apiClient, store, log),
		dashboard: services.NewDashboardService(apiClient),
		reader:    bufio.NewReader(os.Stdin),
		db:        db,
	}, nil
}

// Run bootstraps the session from any stored credential and starts the REPL.
// It blocks until the user exits or stdin is closed.
func (a *App) Run(ctx context.Context) {
	defer a.db.Close()

	a.sessions.Bootstrap(ctx)

	if id := a.sessions.Identity(); id != nil {
		printlnFn("Welcome back,", displayName(id))
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

func (a *App) isLoggedIn() bool {
	return a.sessions.Identity() != nil
}

// getStatus renders the prompt suffix: the signed-in user's email, or
// nothing when anonymous.
func (a *App) getStatus() string {
	if id := a.sessions.Identity(); id != nil {
		return "(" + id.Email + ")"
	}
	return ""
}

func displayName(id *models.Identity) string {
	if id.Name != "" {
		return id.Name
	}
	return id.Email
}
