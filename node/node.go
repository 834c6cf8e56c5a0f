// Package node wires the hub process: data directory, storage, sync engine and
// the grpc service.
package node

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	grpc_logsettable "github.com/grpc-ecosystem/go-grpc-middleware/logging/settable"
	grpc_zap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/hubsync/go-hub/api/client"
	"github.com/hubsync/go-hub/api/grpcserver"
	"github.com/hubsync/go-hub/cmd"
	"github.com/hubsync/go-hub/common/types"
	"github.com/hubsync/go-hub/config"
	"github.com/hubsync/go-hub/database"
	"github.com/hubsync/go-hub/log"
	"github.com/hubsync/go-hub/messages"
	"github.com/hubsync/go-hub/metrics"
	"github.com/hubsync/go-hub/syncengine"
	"github.com/hubsync/go-hub/trie"
)

const (
	dbDirName    = "db"
	lockFileName = "LOCK.hub"

	dbCache   = 64
	dbHandles = 256
)

// Logger names.
const (
	StoreLogger   = "store"
	SyncLogger    = "sync"
	DialerLogger  = "dialer"
	GRPCLogger    = "grpc"
	MetricsLogger = "metrics"
	DBLogger      = "db"
)

var grpclog grpc_logsettable.SettableLoggerV2

func init() {
	grpclog = grpc_logsettable.ReplaceGrpcLoggerV2()
}

func GetCommand() *cobra.Command {
	conf := config.DefaultConfig()
	var configPath *string
	c := &cobra.Command{
		Use:   "hub",
		Short: "start hub",
		RunE: func(c *cobra.Command, args []string) error {
			if err := configure(c, *configPath, &conf); err != nil {
				return err
			}
			logger, err := log.New("hub", conf.Logging.Level, conf.Logging.Encoder)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer logger.Sync()

			// os.Interrupt for all systems, syscall.SIGTERM is mainly for docker.
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			app := New(WithConfig(&conf), WithLog(logger))
			if err := app.Lock(); err != nil {
				return fmt.Errorf("getting exclusive file lock: %w", err)
			}
			defer app.Unlock()

			// Don't print usage on error from this point forward
			c.SilenceUsage = true

			// This blocks until the context is finished or until an error is produced
			err = app.Start(ctx)
			cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cleanupCancel()
			app.Cleanup(cleanupCtx)
			return err
		},
	}

	configPath = cmd.AddFlags(c.PersistentFlags(), &conf)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version info",
		Run: func(c *cobra.Command, args []string) {
			fmt.Println(cmd.FullVersion())
		},
	}
	c.AddCommand(versionCmd)
	return c
}

func configure(c *cobra.Command, configPath string, conf *config.Config) error {
	if err := loadConfig(afero.NewOsFs(), conf, configPath); err != nil {
		return log.ErrMalformedConfig(err)
	}
	// apply CLI args to config
	if err := c.ParseFlags(os.Args[1:]); err != nil {
		return fmt.Errorf("parsing flags: %w", err)
	}
	return nil
}

// loadConfig reads the config file at path over cfg.
func loadConfig(fs afero.Fs, cfg *config.Config, path string) error {
	v := viper.New()
	if err := config.LoadConfig(fs, path, v); err != nil {
		return err
	}
	if err := v.Unmarshal(cfg, viper.DecodeHook(config.DecodeHook())); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}

// Option to modify an App instance.
type Option func(app *App)

// WithLog enables logger for an App.
func WithLog(logger *zap.Logger) Option {
	return func(app *App) {
		app.log = logger
	}
}

// WithConfig overwrites default App config.
func WithConfig(conf *config.Config) Option {
	return func(app *App) {
		app.Config = conf
	}
}

// WithDialer replaces the dialer built from the static peer list.
func WithDialer(dialer syncengine.Dialer) Option {
	return func(app *App) {
		app.dialer = dialer
	}
}

// New creates an instance of the hub app.
func New(opts ...Option) *App {
	defaultConfig := config.DefaultConfig()
	app := &App{
		Config:  &defaultConfig,
		log:     log.NewNop(),
		started: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(app)
	}
	return app
}

// App is the hub process.
type App struct {
	Config *config.Config

	log      *zap.Logger
	fileLock *flock.Flock
	self     types.PeerID

	db            *database.LDBDatabase
	store         *messages.Store
	dialer        syncengine.Dialer
	engine        *syncengine.Engine
	grpcServer    *grpcserver.Server
	metricsServer *metrics.Server

	cancel  context.CancelFunc
	started chan struct{} // this channel is closed once the app has finished starting
}

func (app *App) Started() <-chan struct{} {
	return app.started
}

// Lock locks the data directory for exclusive use. It returns an error if it is already locked.
func (app *App) Lock() error {
	if err := os.MkdirAll(app.Config.DataDir, 0o700); err != nil {
		return log.ErrEnsureDataDir(app.Config.DataDir, err)
	}
	path := filepath.Join(app.Config.DataDir, lockFileName)
	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return fmt.Errorf("flock %s: %w", path, err)
	} else if !locked {
		return log.ErrLockDataDir(app.Config.DataDir)
	}
	app.fileLock = fl
	return nil
}

// Unlock unlocks the data directory. It is a no-op if it is not locked.
func (app *App) Unlock() {
	if app.fileLock == nil {
		return
	}
	if err := app.fileLock.Unlock(); err != nil {
		app.log.Error("failed to unlock file",
			zap.String("path", app.fileLock.Path()),
			zap.Error(err),
		)
	}
}

// PeerID returns the identity of this hub, known once started.
func (app *App) PeerID() types.PeerID {
	return app.self
}

// Engine returns the sync engine, available once started.
func (app *App) Engine() *syncengine.Engine {
	return app.engine
}

// Store returns the message store, available once started.
func (app *App) Store() *messages.Store {
	return app.store
}

// GrpcAddress returns the address the sync service listens on.
func (app *App) GrpcAddress() string {
	if app.grpcServer == nil {
		return ""
	}
	return app.grpcServer.BoundAddress()
}

func (app *App) named(module string) *zap.Logger {
	return app.Config.Logging.Modules.Named(app.log, module)
}

// Start launches every service and blocks until ctx is done.
func (app *App) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	app.cancel = cancel
	if err := app.startSynchronous(ctx); err != nil {
		var fatal *log.FatalError
		if errors.As(err, &fatal) {
			app.log.Error("failed to start App", zap.Object("fatal", fatal))
		} else {
			app.log.Error("failed to start App", zap.Error(err))
		}
		return err
	}
	<-ctx.Done()
	return nil
}

func (app *App) startSynchronous(ctx context.Context) (err error) {
	// notify anyone who might be listening that the app has finished starting.
	// this can be used by, e.g., app tests.
	defer close(app.started)

	grpc_zap.SetGrpcLoggerV2(grpclog, app.named(GRPCLogger))
	app.log.Info("starting hub",
		zap.String("version", cmd.FullVersion()),
		zap.String("data-dir", app.Config.DataDir),
	)
	if err := app.Config.Sync.Validate(); err != nil {
		return log.ErrMalformedConfig(err)
	}
	if err := os.MkdirAll(app.Config.DataDir, 0o700); err != nil {
		return log.ErrEnsureDataDir(app.Config.DataDir, err)
	}
	if app.self, err = LoadIdentity(app.log, app.Config.DataDir); err != nil {
		return log.ErrRetrieveIdentity(err)
	}
	if err := app.setupDB(); err != nil {
		return err
	}
	tr, corrupted, err := app.loadTrie()
	if err != nil {
		return err
	}
	if app.dialer == nil {
		app.dialer = client.NewPeerDialer(app.named(DialerLogger), app.Config.Client, app.Config.Peers)
	}
	app.engine = syncengine.New(tr, app.store,
		syncengine.WithLogger(app.named(SyncLogger)),
		syncengine.WithConfig(app.Config.Sync),
		syncengine.WithDialer(app.dialer),
		syncengine.WithDatabase(app.db),
		syncengine.WithIdentity(app.self, cmd.FullVersion(), app.Config.Nickname),
	)
	if corrupted || app.Config.RebuildTrie || tr.Items() != app.store.Count() {
		app.log.Info("trie is out of date with the message store",
			zap.Int("trie", tr.Items()),
			zap.Int("store", app.store.Count()),
			zap.Bool("forced", app.Config.RebuildTrie),
		)
		if err := app.engine.Rebuild(ctx); err != nil {
			return err
		}
	}
	app.engine.Start()

	if err := app.startAPIServices(); err != nil {
		return err
	}
	if app.Config.CollectMetrics {
		app.metricsServer, err = metrics.NewServer(app.named(MetricsLogger), app.Config.MetricsListener)
		if err != nil {
			return err
		}
		app.metricsServer.Start()
	}
	if app.Config.MetricsPush != "" {
		metrics.StartPushingMetrics(ctx, app.named(MetricsLogger),
			app.Config.MetricsPush, app.Config.MetricsPushPeriod, app.self.String())
	}
	app.log.Info("app started",
		zap.Stringer("peer", app.self),
		zap.String("grpc", app.GrpcAddress()),
		zap.Int("messages", app.store.Count()),
	)
	return nil
}

func (app *App) setupDB() error {
	path := filepath.Join(app.Config.DataDir, dbDirName)
	db, err := database.NewLDBDatabase(path, dbCache, dbHandles, app.named(DBLogger))
	if err != nil {
		return log.ErrOpenDatabase(path, err)
	}
	app.db = db
	app.store, err = messages.New(db,
		messages.WithLogger(app.named(StoreLogger)),
		messages.WithCacheSize(app.Config.MessageCacheSize),
	)
	if err != nil {
		return fmt.Errorf("open message store: %w", err)
	}
	return nil
}

// loadTrie restores the persisted trie. A corrupted one is replaced by an empty
// trie that is rebuilt from the message store.
func (app *App) loadTrie() (tr *trie.Trie, corrupted bool, err error) {
	tr, err = trie.Load(app.db)
	switch {
	case errors.Is(err, trie.ErrCorrupted):
		app.log.Warn("persisted trie is corrupted, rebuilding", zap.Error(err))
		return trie.New(), true, nil
	case err != nil:
		return nil, false, fmt.Errorf("load trie: %w", err)
	}
	return tr, false, nil
}

func (app *App) startAPIServices() error {
	logger := app.named(GRPCLogger)
	svc := grpcserver.NewService(app.engine, app.store, app.Config.API, grpcserver.WithLogger(logger))
	app.grpcServer = grpcserver.New(app.Config.API, logger, svc, []grpcserver.ServiceAPI{svc})
	if err := app.grpcServer.Start(); err != nil {
		return fmt.Errorf("start grpc server: %w", err)
	}
	return nil
}

// Cleanup stops all app services.
func (app *App) Cleanup(ctx context.Context) {
	app.log.Info("app cleanup starting...")
	if app.cancel != nil {
		app.cancel()
	}
	if app.grpcServer != nil {
		app.log.Info("stopping grpc service")
		if err := app.grpcServer.Close(); err != nil {
			app.log.Error("error stopping grpc service", zap.Error(err))
		}
	}
	if app.metricsServer != nil {
		if err := app.metricsServer.Stop(ctx); err != nil {
			app.log.Error("error stopping metrics server", zap.Error(err))
		}
	}
	if app.engine != nil {
		app.engine.Stop()
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.log.Error("error closing database", zap.Error(err))
		}
	}
	app.log.Info("app cleanup completed")
}
