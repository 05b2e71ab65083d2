package commands

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/m4xw311/nexus/agent"
	"github.com/m4xw311/nexus/config"
	"github.com/m4xw311/nexus/errors"
	"github.com/m4xw311/nexus/llm"
	"github.com/m4xw311/nexus/session"
	"github.com/m4xw311/nexus/store"
	"github.com/spf13/cobra"
)

// newAcquirer builds the response acquirer; tests replace it.
var newAcquirer = func(timeout time.Duration, logger *slog.Logger) agent.Responder {
	return llm.NewAcquirer(timeout, logger)
}

// app bundles what every command needs once configuration is resolved.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	kv      store.KV
	manager *config.Manager
}

func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := config.LoadEnv(); err != nil {
		return nil, err
	}

	var cfg *config.Config
	path, _ := cmd.Root().PersistentFlags().GetString("config")
	if path != "" {
		cfg = config.Default()
		if err := config.LoadFromFile(path, cfg); err != nil {
			return nil, errors.Wrapf(err, "error loading config %s", path)
		}
	} else {
		var err error
		if cfg, err = config.LoadConfig(); err != nil {
			return nil, err
		}
	}
	config.ApplyEnv(cfg)

	if cfg.Storage.Backend == store.BackendSQLite && cfg.Storage.Path == config.Default().Storage.Path {
		cfg.Storage.Path = filepath.Join(".nexus", "nexus.db")
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg config.LogConfig, w io.Writer) *slog.Logger {
	verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose")
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelWarn
	}
	if verbose {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	}
	return slog.New(handler)
}

// newApp loads configuration, opens the store and restores the persisted
// API configuration. Callers must Close it.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger := newLogger(cmd, cfg.Log, cmd.ErrOrStderr())
	slog.SetDefault(logger)

	kv, err := store.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open %s store at %s", cfg.Storage.Backend, cfg.Storage.Path)
	}

	manager := config.NewManager(kv, cfg, logger)
	if err := manager.Load(); err != nil {
		kv.Close()
		return nil, err
	}
	logger.Debug("configuration loaded", "provider", manager.API().Provider, "mock", manager.API().UseMock, "store", cfg.Storage.Backend)

	return &app{cfg: cfg, logger: logger, kv: kv, manager: manager}, nil
}

func (a *app) Close() error {
	return a.kv.Close()
}

// sessionName returns the --session flag value.
func sessionName(cmd *cobra.Command) string {
	name, _ := cmd.Root().PersistentFlags().GetString("session")
	return name
}

// session loads the selected chat history. Unreadable history is logged and
// replaced by an empty one.
func (a *app) session(cmd *cobra.Command) *session.Session {
	name := sessionName(cmd)
	sess, err := session.Load(a.kv, name)
	if err != nil {
		a.logger.Warn("error loading chat history, starting fresh", "session", name, "error", err)
	}
	return sess
}

func (a *app) agent(cmd *cobra.Command) *agent.Agent {
	return agent.New(a.manager, a.session(cmd), newAcquirer(a.cfg.RequestTimeout, a.logger), a.logger)
}

// withApp wraps a command body so it runs with an open app.
func withApp(run func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		return run(cmd, args, a)
	}
}
