package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/toxidity-18/Veritas/internal/config"
	"github.com/toxidity-18/Veritas/internal/localcache"
	"github.com/toxidity-18/Veritas/internal/logging"
	"github.com/toxidity-18/Veritas/internal/portability"
	"github.com/toxidity-18/Veritas/internal/prefs"
	"github.com/toxidity-18/Veritas/internal/provision"
	"github.com/toxidity-18/Veritas/internal/session"
	"github.com/toxidity-18/Veritas/internal/store/auth"
	"github.com/toxidity-18/Veritas/internal/store/repomanager"
	"github.com/toxidity-18/Veritas/internal/store/repositories/profiles"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	provider *auth.PostgresProvider
	sessions *session.Manager
	profiles profiles.Repository
	prefs    *prefs.Synchronizer
	data     *portability.Engine
	cache    *localcache.Cache
	reader   *bufio.Reader
}

// NewApp wires the Postgres store, the local cache, and the services on top
// of them.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	db, err := repomanager.Open(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	manager := repomanager.NewPostgresRepositoryManager()
	if err := manager.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	cache, err := localcache.Open(ctx, cfg.LocalCachePath)
	if err != nil {
		return nil, fmt.Errorf("local cache init error: %w", err)
	}

	provider := auth.NewPostgresProvider(db, []byte(cfg.SecretKey), cfg.TokenValidity, logger)

	profileRepo := manager.Profiles(db)
	provisioner := provision.NewProvisioner(profileRepo, logger)
	sessions := session.NewManager(provider, profileRepo, provisioner, logger)

	synchronizer := prefs.NewSynchronizer(manager.Preferences(db), cache, sessions, logger)

	engine := portability.NewEngine(
		profileRepo,
		manager.CaseFiles(db),
		manager.Evidence(db),
		repomanager.NewTxCaseImporter(db, manager),
		logger,
	)

	return &App{
		config:   cfg,
		logger:   logger,
		db:       db,
		provider: provider,
		sessions: sessions,
		profiles: profileRepo,
		prefs:    synchronizer,
		data:     engine,
		reader:   bufio.NewReader(os.Stdin),
		cache:    cache,
	}, nil
}

// Run owns the session-subscription lifecycle: init before the REPL,
// teardown after it.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.sessions.Init(ctx)
	defer a.sessions.Close()

	go a.provider.StartAutoRefresh(ctx, a.config.RefreshInterval)

	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))

	if err := a.cache.Close(); err != nil {
		a.logger.Warn(ctx, "local cache close failed", "error", err)
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn(ctx, "db close failed", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.sessions.Current() != nil
}

func (a *App) status() string {
	if sess := a.sessions.Current(); sess != nil {
		return fmt.Sprintf("(%s)", sess.Email)
	}
	return ""
}
