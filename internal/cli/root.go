package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/idilsaglam/cardtodo/internal/app"
	"github.com/idilsaglam/cardtodo/internal/config"
	"github.com/idilsaglam/cardtodo/internal/kv"
	"github.com/idilsaglam/cardtodo/internal/logging"
	"github.com/idilsaglam/cardtodo/internal/notify"
	"github.com/idilsaglam/cardtodo/internal/store"
	"github.com/idilsaglam/cardtodo/internal/store/jsonstore"
	"github.com/idilsaglam/cardtodo/internal/ui"
)

// usageError marks mistakes in how the command was invoked (exit code 2).
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// flushTimeout bounds how long a command waits for its last write on exit.
const flushTimeout = 10 * time.Second

// runtime is everything a command needs, built from the resolved config.
type runtime struct {
	cfg     config.Config
	log     *zap.Logger
	backend kv.Store
	store   *store.Store
	app     *app.App
}

// open builds the runtime and loads the persisted list.
func open(ctx context.Context, cfg config.Config) (*runtime, error) {
	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	ui.SetTheme(cfg.Theme)

	backend, err := openBackend(cfg.Storage)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}

	opts := []store.Option{store.WithLogger(log.Named("store"))}
	if cfg.IDs == config.IDsUUID {
		opts = append(opts, store.WithIDs(store.UUIDs{}))
	}
	adapter := jsonstore.New(backend, cfg.Storage.Key, log.Named("jsonstore"))
	s := store.New(adapter, opts...)
	s.Load(ctx)

	log.Debug("runtime ready",
		zap.String("backend", cfg.Storage.Backend),
		zap.String("path", cfg.Storage.DataPath()),
		zap.Int("records", s.Len()))

	return &runtime{
		cfg:     cfg,
		log:     log,
		backend: backend,
		store:   s,
		app:     app.New(s, &notify.Controller{}),
	}, nil
}

// close waits for pending writes, then releases the backend. It returns the
// result of the last write.
func (r *runtime) close() error {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	err := r.store.Close(ctx)
	if cerr := r.backend.Close(); cerr != nil {
		r.log.Warn("closing backend", zap.Error(cerr))
	}
	_ = r.log.Sync()
	return err
}

func openBackend(c config.StorageConfig) (kv.Store, error) {
	switch c.Backend {
	case config.BackendMemory:
		return kv.NewMemory(), nil
	case config.BackendSQLite:
		return kv.OpenSQLite(c.DataPath())
	default:
		return kv.OpenFile(c.DataPath())
	}
}

// NewRootCmd builds the command tree. Configuration precedence: flags, then
// TODO_* environment variables, then the config file, then defaults.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string
	var cfg config.Config

	root := &cobra.Command{
		Use:   "todo",
		Short: "todo - name/age todo cards in your terminal",
		Long: `todo keeps a list of name/age cards, newest first.

Run without arguments for the interactive screen, or use a subcommand.

Configuration (highest precedence first):
  flags, TODO_* environment variables, todo.yaml (./ or the user config dir)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usagef("unknown subcommand: %s", args[0])
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			bindFlags(v, cmd)
			c, err := config.Load(v, cfgFile)
			if err != nil {
				return usagef("%v", err)
			}
			cfg = c
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd.Context(), cfg)
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usagef("%v", err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./todo.yaml)")
	pf.String("backend", "", "storage backend: file, sqlite or memory")
	pf.String("data", "", "data file path")
	pf.String("key", "", "storage key holding the list")
	pf.String("ids", "", "id scheme: millis or uuid")
	pf.String("theme", "", "theme: classic, neon or mono")
	pf.String("log-level", "", "log level: debug, info, warn, error or off")
	pf.String("log-file", "", `log file ("-" for stderr)`)

	root.AddCommand(
		newAddCmd(&cfg),
		newListCmd(&cfg),
		newDoneCmd(&cfg),
		newRemoveCmd(&cfg),
	)
	return root
}

// flagKeys maps persistent flags to config keys.
var flagKeys = map[string]string{
	"backend":   "storage.backend",
	"data":      "storage.path",
	"key":       "storage.key",
	"ids":       "ids",
	"theme":     "theme",
	"log-level": "log.level",
	"log-file":  "log.file",
}

// bindFlags lets explicitly set flags override every other source.
func bindFlags(v *viper.Viper, cmd *cobra.Command) {
	flags := cmd.Flags()
	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil && f.Changed {
			_ = v.BindPFlag(key, f)
		}
	}
}

// Execute runs the command line and returns the exit code:
// 0 ok, 1 runtime failure, 2 usage error.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var ue *usageError
	if errors.As(err, &ue) {
		ui.Fail(stderr, ue.Error())
		fmt.Fprintln(stderr)
		fmt.Fprint(stderr, root.UsageString())
		return 2
	}
	ui.Fail(stderr, err.Error())
	return 1
}
