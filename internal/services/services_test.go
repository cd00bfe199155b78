package services

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/models"
	"github.com/dmitrijs2005/storefront/internal/repositories/kv"
	"github.com/dmitrijs2005/storefront/internal/repositories/users"
)

// ---- helpers ----

// fakeFetcher records how often the snapshot was requested.
type fakeFetcher struct {
	mu sync.Mutex

	Ret   []models.User
	Err   error
	Calls int
}

func (f *fakeFetcher) FetchUsers(ctx context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	return f.Ret, f.Err
}

// panicRepo panics on Get to exercise the login recovery path.
type panicRepo struct{ kv.Repository }

func (panicRepo) Get(ctx context.Context, key string) ([]byte, error) { panic("boom") }

// failingRepo fails every call.
type failingRepo struct{ Err error }

func (f failingRepo) Get(ctx context.Context, key string) ([]byte, error) { return nil, f.Err }
func (f failingRepo) Set(ctx context.Context, key string, value []byte) error {
	return f.Err
}
func (f failingRepo) Delete(ctx context.Context, key string) error { return f.Err }

var errStorage = errors.New("storage down")

// recordingLogger captures messages per level.
type recordingLogger struct {
	mu     sync.Mutex
	Errors []string
	Warns  []string
	Infos  []string
}

func (l *recordingLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (l *recordingLogger) Info(ctx context.Context, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Infos = append(l.Infos, msg)
}
func (l *recordingLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Warns = append(l.Warns, msg)
}
func (l *recordingLogger) Error(ctx context.Context, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, msg)
}

func (l *recordingLogger) With(args ...any) logging.Logger { return l }

type fixture struct {
	repo    *kv.MemoryRepository
	store   *users.Store
	fetcher *fakeFetcher
	logger  *recordingLogger
	session *SessionManager
}

func newFixture(opts ...SessionOption) *fixture {
	repo := kv.NewMemoryRepository()
	store := users.NewStore(repo)
	f := &fixture{
		repo:    repo,
		store:   store,
		fetcher: &fakeFetcher{},
		logger:  &recordingLogger{},
	}
	opts = append([]SessionOption{WithSessionLogger(f.logger)}, opts...)
	f.session = NewSessionManager(store, repo, f.fetcher, opts...)
	return f
}

func admin() models.User {
	return models.User{
		FullName:    "Ada Admin",
		DisplayName: "ada",
		Email:       "a@x.com",
		Password:    "p",
		Role:        models.RoleAdmin,
		Status:      models.StatusActive,
	}
}

func customer() models.User {
	return models.User{
		FullName:    "Carl Customer",
		DisplayName: "carl",
		Email:       "c@x.com",
		Password:    "c",
		Role:        models.RoleCustomer,
	}
}
