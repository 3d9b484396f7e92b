package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/maka/internal/repositories"
	"github.com/desertthunder/maka/internal/services"
	"github.com/desertthunder/maka/internal/shared"
	"github.com/desertthunder/maka/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The catalog client, watched store and engines are built on first use so commands that need neither
// (setup, help) never touch the network or the database.
type Runner struct {
	config       *shared.Config
	configLoaded bool
	catalog      services.Service
	store        repositories.WatchedStore
	db           *sql.DB
	engine       *tasks.BrowseEngine
	tracker      *tasks.WatchTracker
	httpClient   *http.Client
	logger       *log.Logger
	output       io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A non-nil Config is used as-is and the --config flag is ignored.
type RunnerOpts struct {
	Config     *shared.Config
	Catalog    services.Service
	Store      repositories.WatchedStore
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	configLoaded := opts.Config != nil
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:       opts.Config,
		configLoaded: configLoaded,
		catalog:      opts.Catalog,
		store:        opts.Store,
		httpClient:   opts.HTTPClient,
		logger:       opts.Logger,
		output:       opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, searchCommand, genresCommand, discoverCommand, watchedCommand, tuiCommand, serveCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads the config file named by --config, applies environment overrides and sets the log level.
//
// A missing config file is not an error; the embedded defaults apply.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if !r.configLoaded {
		path := cmd.String("config")
		if _, err := os.Stat(path); err == nil {
			config, err := shared.LoadConfig(path)
			if err != nil {
				return ctx, err
			}
			r.config = config
		} else {
			r.logger.Debug("config file not found, using defaults", "path", path)
		}
		r.configLoaded = true
	}
	r.config.ApplyEnv()

	level := cmd.String("log-level")
	if level == "" {
		level = r.config.Log.Level
	}
	ll, err := shared.ParseLogLevel(level)
	if err != nil {
		return ctx, err
	}
	shared.SetLogLevel(r.logger, ll)

	return ctx, nil
}

// SetLogger replaces the logger, keeping the current level.
//
// Must be called before the engines are built for them to pick it up.
func (r *Runner) SetLogger(l *log.Logger) {
	l.SetLevel(r.logger.GetLevel())
	r.logger = l
}

// Close releases the database handle if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// browseEngine builds the catalog client and search/browse engine on first use.
func (r *Runner) browseEngine() (*tasks.BrowseEngine, error) {
	if r.engine != nil {
		return r.engine, nil
	}

	if r.catalog == nil {
		creds := r.config.Credentials.TMDB
		if creds.APIKey == "" && creds.AccessToken == "" {
			return nil, fmt.Errorf("%w: set credentials.tmdb.api_key (or TMDB_API_KEY)", shared.ErrMissingConfig)
		}
		r.catalog = services.NewTMDBServiceFromConfig(creds, r.httpClient)
	}

	r.engine = tasks.NewBrowseEngine(r.catalog, r.logger)
	return r.engine, nil
}

// watchTracker opens the configured store and loads the watched list on first use.
func (r *Runner) watchTracker(ctx context.Context) (*tasks.WatchTracker, error) {
	if r.tracker != nil {
		return r.tracker, nil
	}

	if r.store == nil {
		store, err := r.openStore()
		if err != nil {
			return nil, err
		}
		r.store = store
	}

	r.tracker = tasks.NewWatchTracker(ctx, tasks.WatchTrackerOpts{Store: r.store, Logger: r.logger})
	return r.tracker, nil
}

func (r *Runner) openStore() (repositories.WatchedStore, error) {
	switch r.config.Storage.Backend {
	case shared.StorageFile:
		r.logger.Debug("using file watched store", "path", r.config.Storage.FilePath)
		return repositories.NewFileWatchedStore(nil, r.config.Storage.FilePath), nil
	default:
		db, err := shared.OpenDatabase(r.config.Database)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrStorage, err)
		}
		r.db = db
		r.logger.Debug("using sqlite watched store", "path", r.config.Database.Path)
		return repositories.NewSQLiteWatchedStore(repositories.NewKVRepository(db)), nil
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return err
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
