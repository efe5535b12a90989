package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/toxidity-18/Veritas/internal/common"
	"github.com/toxidity-18/Veritas/internal/localcache"
	"github.com/toxidity-18/Veritas/internal/logging"
	"github.com/toxidity-18/Veritas/internal/models"
	"github.com/toxidity-18/Veritas/internal/portability"
	"github.com/toxidity-18/Veritas/internal/prefs"
	"github.com/toxidity-18/Veritas/internal/provision"
	"github.com/toxidity-18/Veritas/internal/session"
	"github.com/toxidity-18/Veritas/internal/store/repositories/casefiles"
	"github.com/toxidity-18/Veritas/internal/store/repositories/evidence"
	"github.com/toxidity-18/Veritas/internal/store/repositories/preferences"
	"github.com/toxidity-18/Veritas/internal/store/repositories/profiles"
)

// stubProvider is a minimal in-memory auth provider for command tests.
type stubProvider struct {
	current *models.Session
	subs    []func(models.SessionEvent)
}

func (s *stubProvider) SignUp(ctx context.Context, email string, password []byte) (string, error) {
	return "confirm-token", nil
}

func (s *stubProvider) ConfirmSignUp(ctx context.Context, token string) (*models.Session, error) {
	if token != "confirm-token" {
		return nil, common.ErrInvalidToken
	}
	s.current = &models.Session{PrincipalID: "u-1", Email: "alice@example.com", IssuedAt: time.Now()}
	return s.current, nil
}

func (s *stubProvider) SignIn(ctx context.Context, email string, password []byte) (*models.Session, error) {
	s.current = &models.Session{PrincipalID: "u-1", Email: email, IssuedAt: time.Now()}
	return s.current, nil
}

func (s *stubProvider) SignOut(ctx context.Context) error {
	s.current = nil
	return nil
}

func (s *stubProvider) UpdateEmail(ctx context.Context, newEmail string) error {
	if s.current == nil {
		return common.ErrorUnauthorized
	}
	s.current.Email = newEmail
	return nil
}

func (s *stubProvider) UpdatePassword(ctx context.Context, newPassword []byte) error { return nil }

func (s *stubProvider) RemovePrincipal(ctx context.Context, id string) error { return nil }

func (s *stubProvider) Current() *models.Session { return s.current }

func (s *stubProvider) Subscribe(fn func(models.SessionEvent)) func() {
	s.subs = append(s.subs, fn)
	return func() {}
}

type testOutput struct {
	lines []string
}

func (o *testOutput) capture(args ...any) (int, error) {
	o.lines = append(o.lines, fmt.Sprintln(args...))
	return 0, nil
}

func (o *testOutput) contains(sub string) bool {
	for _, l := range o.lines {
		if strings.Contains(l, sub) {
			return true
		}
	}
	return false
}

func newTestApp(t *testing.T, input string) (*App, *stubProvider, *casefiles.InMemoryRepository, *testOutput) {
	t.Helper()

	out := &testOutput{}
	origPrint := printlnFn
	printlnFn = out.capture
	t.Cleanup(func() { printlnFn = origPrint })

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	provider := &stubProvider{}
	profileRepo := profiles.NewInMemoryRepository()
	caseRepo := casefiles.NewInMemoryRepository()
	evidenceRepo := evidence.NewInMemoryRepository()
	prefsRepo := preferences.NewInMemoryRepository()

	cache, err := localcache.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })

	provisioner := provision.NewProvisioner(profileRepo, logger)
	sessions := session.NewManager(provider, profileRepo, provisioner, logger)

	return &App{
		logger:   logger,
		sessions: sessions,
		profiles: profileRepo,
		prefs:    prefs.NewSynchronizer(prefsRepo, cache, sessions, logger),
		data:     portability.NewEngine(profileRepo, caseRepo, evidenceRepo, caseRepo, logger),
		cache:    cache,
		reader:   bufio.NewReader(strings.NewReader(input)),
	}, provider, caseRepo, out
}

func withStubPassword(t *testing.T, pw string) {
	t.Helper()
	old := readPassword
	readPassword = func(int) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { readPassword = old })
}

func TestRegister_PrintsTokenWithoutSession(t *testing.T) {
	app, _, _, out := newTestApp(t, "alice@example.com\n")
	withStubPassword(t, "secret1")

	require.NoError(t, app.Register(context.Background()))
	require.True(t, out.contains("confirm-token"))
	require.False(t, app.isLoggedIn())
}

func TestRegister_ShortPassword(t *testing.T) {
	app, _, _, _ := newTestApp(t, "alice@example.com\n")
	withStubPassword(t, "abc")

	err := app.Register(context.Background())
	require.ErrorIs(t, err, common.ErrorCredentials)
}

func TestConfirmThenLoggedIn(t *testing.T) {
	app, _, _, _ := newTestApp(t, "confirm-token\n")

	require.NoError(t, app.Confirm(context.Background()))
	require.True(t, app.isLoggedIn())
}

func TestUpdateEmail_RequiresLogin(t *testing.T) {
	app, _, _, out := newTestApp(t, "new@example.com\n")

	err := app.UpdateEmail(context.Background())
	require.ErrorIs(t, err, common.ErrorUnauthorized)
	require.True(t, out.contains("log in first"))
}

func TestTheme_SetDark(t *testing.T) {
	app, _, _, out := newTestApp(t, "dark\n")

	require.NoError(t, app.Theme(context.Background()))
	require.True(t, out.contains("Theme set to dark"))
}

func TestTheme_KeepCurrent(t *testing.T) {
	app, _, _, out := newTestApp(t, "\n")

	require.NoError(t, app.Theme(context.Background()))
	require.True(t, out.contains("Current theme: light"))
}

func TestExportThenImport(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	t.Chdir(dir)

	app, _, caseRepo, out := newTestApp(t, "")
	require.NoError(t, app.sessions.SignIn(ctx, "alice@example.com", []byte("secret1")))

	require.NoError(t, caseRepo.InsertBatch(ctx, []*models.CaseFile{
		{UserID: "u-1", Title: "A", Status: models.CaseStatusActive, SocialMediaPlatforms: []string{"x"}},
	}))

	require.NoError(t, app.Export(ctx))
	require.True(t, out.contains("Export written to"))

	name := app.data.ExportFileName()
	exportPath := filepath.Join(dir, name)
	if _, err := os.Stat(exportPath); err != nil {
		t.Fatalf("export file missing: %v", err)
	}

	// Feed the export back through the import command.
	app.reader = bufio.NewReader(strings.NewReader(exportPath + "\n"))
	require.NoError(t, app.Import(ctx))
	require.True(t, out.contains("Imported 1 case(s)"))

	cases, err := caseRepo.ListByUser(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, cases, 2)
}

func TestImport_BadDocument(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"cases": "not-an-array"}`), 0o600))

	app, _, _, out := newTestApp(t, bad+"\n")
	require.NoError(t, app.sessions.SignIn(ctx, "alice@example.com", []byte("secret1")))

	err := app.Import(ctx)
	require.ErrorIs(t, err, common.ErrorBadFormat)
	require.True(t, out.contains("Import rejected"))
}

func TestDeleteAccount_Declined(t *testing.T) {
	ctx := context.Background()
	app, _, _, out := newTestApp(t, "n\n")
	require.NoError(t, app.sessions.SignIn(ctx, "alice@example.com", []byte("secret1")))

	require.NoError(t, app.DeleteAccount(ctx))
	require.True(t, out.contains("Cancelled"))
	require.True(t, app.isLoggedIn())
}

func TestDeleteAccount_Confirmed(t *testing.T) {
	ctx := context.Background()
	app, _, _, out := newTestApp(t, "y\n")
	require.NoError(t, app.sessions.SignIn(ctx, "alice@example.com", []byte("secret1")))
	require.NoError(t, app.cache.Set(ctx, localcache.ThemeKey, "dark"))

	require.NoError(t, app.DeleteAccount(ctx))
	require.True(t, out.contains("Account deleted"))
	require.False(t, app.isLoggedIn())

	v, err := app.cache.Get(ctx, localcache.ThemeKey)
	require.NoError(t, err)
	require.Equal(t, "", v)
}

func TestLogout_WhenNotLoggedIn(t *testing.T) {
	app, _, _, _ := newTestApp(t, "")

	require.NoError(t, app.Logout(context.Background()))
}
