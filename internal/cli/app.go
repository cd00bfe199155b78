package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/storefront/internal/config"
	"github.com/dmitrijs2005/storefront/internal/cryptox"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/models"
	"github.com/dmitrijs2005/storefront/internal/repositories/kv"
	"github.com/dmitrijs2005/storefront/internal/repositories/users"
	"github.com/dmitrijs2005/storefront/internal/services"
	"github.com/dmitrijs2005/storefront/internal/snapshot"
)

type sessionService interface {
	Initialize(ctx context.Context) error
	Login(ctx context.Context, email, password string) (models.User, error)
	Logout(ctx context.Context) error
	Current() *models.User
	Subscribe(fn func(*models.User)) func()
}

type accountService interface {
	Register(ctx context.Context, u models.User) (bool, error)
	UpdateProfile(ctx context.Context, u models.User) (bool, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ChangePassword(ctx context.Context, email, newPassword string) (bool, error)
	ValidateCurrentPassword(ctx context.Context, email, password string) (bool, error)
	RemoveAccount(ctx context.Context, email string) (bool, error)
}

type adminService interface {
	LoadUsers(ctx context.Context) ([]*models.AdminRow, error)
	FilterUsers(rows []*models.AdminRow, f models.AdminFilter) []*models.AdminRow
	ToggleStatus(ctx context.Context, row *models.AdminRow) (bool, error)
}

// App is the interactive console.
type App struct {
	session  sessionService
	accounts accountService
	admin    adminService
	logger   logging.Logger

	reader *bufio.Reader
	out    io.Writer

	// mirrored from the session stream
	mu      sync.Mutex
	current *models.User

	// last listing, so toggle flips the rows the user is looking at
	rows []*models.AdminRow

	unsubscribe func()
	closer      io.Closer
}

func newApp(session sessionService, accounts accountService, admin adminService, logger logging.Logger, in io.Reader, out io.Writer) *App {
	a := &App{
		session:  session,
		accounts: accounts,
		admin:    admin,
		logger:   logger,
		reader:   bufio.NewReader(in),
		out:      out,
	}
	a.unsubscribe = session.Subscribe(a.onSessionChange)
	return a
}

// NewApp builds the storage backend, store, session manager and services
// described by c.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	repo, closer, err := kv.Open(ctx, kv.Options{
		Backend:       c.StorageBackend,
		SQLitePath:    c.SQLitePath,
		PostgresDSN:   c.PostgresDSN,
		RedisAddr:     c.RedisAddr,
		RedisPassword: c.RedisPassword,
		RedisDB:       c.RedisDB,
		RedisPrefix:   c.RedisPrefix,
	})
	if err != nil {
		return nil, err
	}

	hasher, err := cryptox.NewHasher(c.Hasher)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}

	fetcher, err := snapshot.New(ctx, c.SnapshotURL, snapshot.Options{
		Timeout:     c.FetchTimeout,
		S3Region:    c.S3Region,
		S3Endpoint:  c.S3Endpoint,
		S3AccessKey: c.S3AccessKey,
		S3SecretKey: c.S3SecretKey,
	})
	if err != nil {
		_ = closer.Close()
		return nil, err
	}

	available := kv.Available(c.StorageBackend)
	probe := func() bool { return available }

	store := users.NewStore(repo,
		users.WithKey(c.UsersKey),
		users.WithHasher(hasher),
		users.WithProbe(probe),
	)

	session := services.NewSessionManager(store, repo, fetcher,
		services.WithSessionKey(c.SessionKey),
		services.WithRestorePolicy(services.RestorePolicy(c.RestorePolicy)),
		services.WithSessionLogger(logger),
		services.WithSessionProbe(probe),
	)
	accounts := services.NewAccountService(store, session, services.EchoPolicy(c.EchoPolicy))
	admin := services.NewAdminService(store)

	logger.Info(ctx, "storage ready", "backend", c.StorageBackend, "hasher", c.Hasher)

	a := newApp(session, accounts, admin, logger, os.Stdin, os.Stdout)
	a.closer = closer
	return a, nil
}

func (a *App) onSessionChange(u *models.User) {
	a.mu.Lock()
	a.current = u
	a.mu.Unlock()

	if u == nil {
		a.logger.Debug(context.Background(), "session cleared")
		return
	}
	a.logger.Debug(context.Background(), "session changed", "email", u.Email, "role", string(u.Role))
}

func (a *App) currentUser() *models.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

func (a *App) isLoggedIn() bool {
	return a.currentUser() != nil
}

func (a *App) isAdmin() bool {
	u := a.currentUser()
	return u != nil && u.IsAdmin()
}

func (a *App) getStatus() string {
	u := a.currentUser()
	if u == nil {
		return "(guest)"
	}
	if u.IsAdmin() {
		return fmt.Sprintf("(%s admin)", u.Email)
	}
	return fmt.Sprintf("(%s)", u.Email)
}

// Run initializes the session and serves the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	fmt.Fprintln(a.out, "Welcome to the storefront console (type 'help' for commands)")
	if err := a.Init(ctx); err != nil {
		fmt.Fprintln(a.out, "Error:", err)
	}
	runREPL(ctx, a, a.getStatus, a.reader)
}

// Close detaches from the session stream and releases the storage backend.
func (a *App) Close() error {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
	if a.closer != nil {
		err := a.closer.Close()
		a.closer = nil
		return err
	}
	return nil
}
