package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/storefront/internal/config"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/models"
	"github.com/dmitrijs2005/storefront/internal/repositories/kv"
	"github.com/dmitrijs2005/storefront/internal/repositories/users"
	"github.com/dmitrijs2005/storefront/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticFetcher []models.User

func (f staticFetcher) FetchUsers(ctx context.Context) ([]models.User, error) {
	return f, nil
}

func seedUsers() []models.User {
	return []models.User{
		{FullName: "Ada Admin", DisplayName: "ada", Email: "a@x.com", Password: "p", Role: models.RoleAdmin, Status: models.StatusActive},
		{FullName: "Carl", DisplayName: "carl", Email: "c@x.com", Password: "c", Role: models.RoleCustomer},
	}
}

type harness struct {
	app     *App
	store   *users.Store
	session *services.SessionManager
	out     *bytes.Buffer
}

// newHarness wires real services over an in-memory repository. input is
// what the user types at the prompts, one answer per line.
func newHarness(t *testing.T, input string) *harness {
	t.Helper()
	repo := kv.NewMemoryRepository()
	store := users.NewStore(repo)
	session := services.NewSessionManager(store, repo, staticFetcher(seedUsers()))
	accounts := services.NewAccountService(store, session, services.EchoAlways)
	admin := services.NewAdminService(store)

	out := &bytes.Buffer{}
	app := newApp(session, accounts, admin, logging.Nop(), strings.NewReader(input), out)
	t.Cleanup(func() { _ = app.Close() })
	require.NoError(t, app.Init(context.Background()))

	return &harness{app: app, store: store, session: session, out: out}
}

// stubPasswords makes getPassword answer with pws in order.
func stubPasswords(t *testing.T, pws ...string) {
	t.Helper()
	orig := getPassword
	t.Cleanup(func() { getPassword = orig })
	getPassword = func(_ string, _ io.Writer) ([]byte, error) {
		if len(pws) == 0 {
			return nil, io.EOF
		}
		pw := pws[0]
		pws = pws[1:]
		return []byte(pw), nil
	}
}

func TestApp_InitSeedsAndLoginTracksSession(t *testing.T) {
	h := newHarness(t, " a@x.com \n")
	stubPasswords(t, " p ")
	ctx := context.Background()

	list, err := h.store.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, "(guest)", h.app.getStatus())

	require.NoError(t, h.app.Login(ctx))
	assert.True(t, h.app.isLoggedIn())
	assert.True(t, h.app.isAdmin())
	assert.Equal(t, "(a@x.com admin)", h.app.getStatus())
	assert.Contains(t, h.out.String(), "Hello, ada")

	require.NoError(t, h.app.Logout(ctx))
	assert.False(t, h.app.isLoggedIn())
}

func TestApp_LoginFailureIsReported(t *testing.T) {
	h := newHarness(t, "a@x.com\n")
	stubPasswords(t, "wrong")

	require.NoError(t, h.app.Login(context.Background()))
	assert.False(t, h.app.isLoggedIn())
	assert.Contains(t, h.out.String(), "Login failed: invalid email or password")
}

func TestApp_RegisterDoesNotLogIn(t *testing.T) {
	h := newHarness(t, "New Person\nnewbie\n n@x.com \n2000-02-02\nSome st 3\n")
	stubPasswords(t, "pw", "pw")
	ctx := context.Background()

	require.NoError(t, h.app.Register(ctx))
	assert.Contains(t, h.out.String(), "Account created")
	assert.False(t, h.app.isLoggedIn())

	u, err := h.store.FindByEmail(ctx, "n@x.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, models.RoleCustomer, u.Role)
	assert.Equal(t, "pw", u.Password)
}

func TestApp_RegisterMismatchedPasswords(t *testing.T) {
	h := newHarness(t, "X\nx\nx@x.com\n\n\n")
	stubPasswords(t, "one", "two")

	require.NoError(t, h.app.Register(context.Background()))
	assert.Contains(t, h.out.String(), "Passwords do not match")

	u, err := h.store.FindByEmail(context.Background(), "x@x.com")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestApp_ProfileKeepsPasswordAndEchoesSession(t *testing.T) {
	h := newHarness(t, "c@x.com\n\nCarlito\n\nNew st 9\n")
	stubPasswords(t, "c")
	ctx := context.Background()
	require.NoError(t, h.app.Login(ctx))

	require.NoError(t, h.app.Profile(ctx))
	assert.Contains(t, h.out.String(), "Profile updated")

	u, err := h.store.FindByEmail(ctx, "c@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Carlito", u.DisplayName)
	assert.Equal(t, "New st 9", u.Address)
	assert.Equal(t, "Carl", u.FullName)
	assert.Equal(t, "c", u.Password)

	assert.Equal(t, "Carlito", h.session.Current().DisplayName)
}

func TestApp_Passwd(t *testing.T) {
	h := newHarness(t, "c@x.com\n")
	stubPasswords(t, "c", "c", "n", "n")
	ctx := context.Background()
	require.NoError(t, h.app.Login(ctx))

	require.NoError(t, h.app.Passwd(ctx))
	assert.Contains(t, h.out.String(), "Password changed")

	u, err := h.store.Authenticate(ctx, "c@x.com", "n")
	require.NoError(t, err)
	assert.NotNil(t, u)
}

func TestApp_PasswdWrongCurrent(t *testing.T) {
	h := newHarness(t, "c@x.com\n")
	stubPasswords(t, "c", "nope")
	ctx := context.Background()
	require.NoError(t, h.app.Login(ctx))

	require.NoError(t, h.app.Passwd(ctx))
	assert.Contains(t, h.out.String(), "Current password is incorrect")
}

func TestApp_UnregisterLogsOut(t *testing.T) {
	h := newHarness(t, "c@x.com\nyes\n")
	stubPasswords(t, "c")
	ctx := context.Background()
	require.NoError(t, h.app.Login(ctx))

	require.NoError(t, h.app.Unregister(ctx))
	assert.False(t, h.app.isLoggedIn())

	u, err := h.store.FindByEmail(ctx, "c@x.com")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestApp_UnregisterCancelled(t *testing.T) {
	h := newHarness(t, "c@x.com\nno\n")
	stubPasswords(t, "c")
	ctx := context.Background()
	require.NoError(t, h.app.Login(ctx))

	require.NoError(t, h.app.Unregister(ctx))
	assert.True(t, h.app.isLoggedIn())
	assert.Contains(t, h.out.String(), "Cancelled")
}

func TestApp_UsersAndToggle(t *testing.T) {
	h := newHarness(t, "")
	ctx := context.Background()

	require.NoError(t, h.app.Users(ctx, []string{"role=customer"}))
	assert.Contains(t, h.out.String(), "c@x.com")
	assert.NotContains(t, h.out.String(), "a@x.com")
	assert.Contains(t, h.out.String(), "1 of 2 users")

	require.NoError(t, h.app.Toggle(ctx, []string{"c@x.com"}))
	assert.Contains(t, h.out.String(), "c@x.com is now inactive")
	assert.Equal(t, models.StatusInactive, h.app.findRow("c@x.com").Status)

	u, err := h.store.FindByEmail(ctx, "c@x.com")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInactive, u.Status)

	require.NoError(t, h.app.Toggle(ctx, []string{"ghost@x.com"}))
	assert.Contains(t, h.out.String(), "No such user: ghost@x.com")

	assert.Error(t, h.app.Users(ctx, []string{"name=x"}))
}

func TestApp_RunDrivesREPL(t *testing.T) {
	captureOutput(t)
	stubPasswords(t, "p")
	h := newHarness(t, "login\na@x.com\nwhoami\nexit\n")

	h.app.Run(context.Background())

	assert.Contains(t, h.out.String(), "Email:        a@x.com")
	assert.Contains(t, h.out.String(), "Role:         admin")
}

func TestNewApp_WiresMemoryBackend(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.StorageBackend = kv.BackendNone
	cfg.SnapshotURL = ""

	app, err := NewApp(context.Background(), cfg, logging.Nop())
	require.NoError(t, err)
	require.NoError(t, app.Init(context.Background()))
	assert.False(t, app.isLoggedIn())
	assert.NoError(t, app.Close())
}

func TestNewApp_UnknownHasher(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.StorageBackend = kv.BackendMemory
	cfg.Hasher = "rot13"

	_, err := NewApp(context.Background(), cfg, logging.Nop())
	assert.Error(t, err)
}
