package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/merrycards/merry/internal/client/capture"
	"github.com/merrycards/merry/internal/client/client"
	"github.com/merrycards/merry/internal/client/config"
	"github.com/merrycards/merry/internal/client/securestore"
	"github.com/merrycards/merry/internal/client/services"
	"github.com/merrycards/merry/internal/client/session"
	"github.com/merrycards/merry/internal/cryptox"
	"github.com/merrycards/merry/internal/filex"
	"github.com/merrycards/merry/internal/logging"
)

type App struct {
	config      *config.Config
	log         logging.Logger
	session     *session.Session
	authService services.AuthService
	recognition services.RecognitionService
	collections services.CollectionService
	newCamera   func(source string) capture.Camera
	db          *sql.DB
	reader      *bufio.Reader
	out         io.Writer
}

// NewApp wires local storage, the session, the API client and the services
// from c. The caller must Close the App.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	dataDir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return nil, err
	}
	captureDir, err := filex.EnsureSubDir(dataDir, "captures")
	if err != nil {
		return nil, err
	}
	assetDir, err := filex.EnsureSubDir(dataDir, "assets")
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, c.DatabasePath())
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	secret, err := cryptox.LoadOrCreateDeviceSecret(c.DeviceKeyPath())
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("device key: %w", err)
	}
	store, err := securestore.New(db, secret)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	sess := session.New(store)

	apiClient, err := client.NewHTTPClient(c.BaseURL, c.RequestTimeout, sess, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	transformer, err := capture.NewTransformer(c.Crop, assetDir, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{
		config:      c,
		log:         log,
		session:     sess,
		authService: services.NewAuthService(apiClient, sess, log),
		recognition: services.NewRecognitionService(apiClient, transformer, log),
		collections: services.NewCollectionService(apiClient, log),
		newCamera: func(source string) capture.Camera {
			return &capture.FileCamera{Source: source, Dir: captureDir}
		},
		db:     db,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

// Run restores any saved session and serves the REPL until the user exits
// or stdin is closed.
func (a *App) Run(ctx context.Context) {
	unsubscribe := a.session.Subscribe(func(authenticated bool) {
		a.log.Info(ctx, "authentication changed", "authenticated", authenticated)
	})
	defer unsubscribe()

	ok, err := a.authService.RestoreSession(ctx)
	switch {
	case err != nil:
		a.log.Warn(ctx, "session restore failed", "error", err)
	case ok:
		fmt.Fprintf(a.out, "Welcome back, %s!\n", a.session.Username())
	}

	fmt.Fprintln(a.out, "merry card scanner (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) getStatus() string {
	if u := a.session.Username(); u != "" && a.isLoggedIn() {
		return u
	}
	if a.isLoggedIn() {
		return "signed in"
	}
	return "guest"
}

// requireLogin prints a hint and reports false for guests.
func (a *App) requireLogin() bool {
	if a.isLoggedIn() {
		return true
	}
	fmt.Fprintln(a.out, "You need to log in first (type 'login' or 'register').")
	return false
}
