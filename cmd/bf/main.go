// Command bf is a terminal front end for a JSONPlaceholder-style blog API with a
// locally simulated login session.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/and161185/blogfront/internal/config"
	"github.com/and161185/blogfront/internal/errs"
	"github.com/and161185/blogfront/internal/guard"
	"github.com/and161185/blogfront/internal/notify"
	"github.com/and161185/blogfront/internal/query"
	"github.com/and161185/blogfront/internal/repository/rest"
	"github.com/and161185/blogfront/internal/service"
	"github.com/and161185/blogfront/internal/session"
	"github.com/and161185/blogfront/internal/storage"
	"github.com/and161185/blogfront/internal/storage/file"
	"github.com/and161185/blogfront/internal/storage/memory"
	"github.com/and161185/blogfront/internal/storage/sqlite"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// flags shared by every subcommand
type globalFlags struct {
	configPath string
	apiURL     string
	backend    string
	verbose    bool
	jsonOut    bool
}

// app is the wired object graph for one invocation.
type app struct {
	cfg      config.Config
	log      *zap.Logger
	kv       storage.KV
	closers  []func() error
	sessions *session.Store
	blog     service.BlogService
	auth     service.AuthService
	guard    *guard.Guard
	console  *notify.Console
	out      io.Writer
	in       io.Reader
	jsonOut  bool
}

// newRootCmd builds the command tree; the caller must a.close() after Execute.
func newRootCmd(in io.Reader, out, errOut io.Writer) (*cobra.Command, *app) {
	var (
		gf globalFlags
		a  = &app{out: out, in: in, console: notify.NewConsole(errOut)}
	)

	root := &cobra.Command{
		Use:           "bf",
		Short:         "Browse and edit blog posts from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch cmd.Name() {
			case "version", "help", "completion":
				return nil
			}
			return a.init(cmd.Context(), gf, errOut)
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&gf.configPath, "config", "", "config file (default: "+config.DefaultPath()+")")
	pf.StringVar(&gf.apiURL, "api-url", "", "provider base URL (overrides config)")
	pf.StringVar(&gf.backend, "storage", "", "session storage backend: sqlite, file or memory")
	pf.BoolVarP(&gf.verbose, "verbose", "v", false, "debug logging")
	pf.BoolVar(&gf.jsonOut, "json", false, "print JSON instead of tables")

	root.AddCommand(
		postsCmd(a), postCmd(a), userCmd(a), usersCmd(a),
		createCmd(a), editCmd(a), deleteCmd(a),
		loginCmd(a), signupCmd(a), logoutCmd(a), whoamiCmd(a), watchCmd(a),
		&cobra.Command{
			Use:   "version",
			Short: "Print version",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "bf %s (%s)\n", version, buildDate)
			},
		},
	)
	return root, a
}

// init loads configuration and wires storage, session, provider and services.
func (a *app) init(ctx context.Context, gf globalFlags, logOut io.Writer) error {
	cfg, err := config.Load(gf.configPath)
	if err != nil {
		return err
	}
	if gf.apiURL != "" {
		cfg.API.BaseURL = gf.apiURL
	}
	if gf.backend != "" {
		cfg.Storage.Backend = gf.backend
	}
	if gf.verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg, a.jsonOut = cfg, gf.jsonOut

	a.log = newLogger(cfg, logOut)

	kv, closeKV, err := openStorage(ctx, cfg, a.log)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	a.kv = kv
	a.closers = append(a.closers, closeKV)

	a.sessions, err = session.Open(ctx, kv, session.WithLogger(a.log.Named("session")))
	if err != nil {
		return err
	}

	client, err := rest.New(cfg.API.BaseURL,
		rest.WithTimeout(cfg.API.Timeout),
		rest.WithLogger(a.log.Named("provider")),
		rest.WithUserAgent("bf/"+version),
	)
	if err != nil {
		return err
	}
	cache := query.New(cfg.Cache.StaleTime, query.WithLogger(a.log.Named("query")))

	a.blog = service.NewBlogService(client, client.Users(), client.Comments(), cache, a.log.Named("blog"))
	a.auth = service.NewAuthService(a.sessions, a.log.Named("auth"))
	a.guard = guard.New(a.sessions, a.console, a.console, a.log.Named("guard"))
	return nil
}

func (a *app) close() {
	for _, c := range a.closers {
		_ = c()
	}
	a.closers = nil
	if a.log != nil {
		_ = a.log.Sync()
	}
}

func newLogger(cfg config.Config, w io.Writer) *zap.Logger {
	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.AddSync(w), cfg.Level())
	return zap.New(core)
}

func openStorage(ctx context.Context, cfg config.Config, log *zap.Logger) (storage.KV, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Storage.Backend {
	case storage.BackendMemory:
		return memory.New(), noop, nil
	case storage.BackendFile:
		return file.New(cfg.StoragePath(), file.WithLogger(log.Named("storage"))), noop, nil
	default:
		s, err := sqlite.Open(ctx, cfg.StoragePath(), log.Named("storage"))
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	}
}

// exitCode maps command errors; messages for expected failures were already shown.
func exitCode(err error, errOut io.Writer) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errs.ErrUnauthorized), errors.Is(err, errShown):
		return 1
	default:
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}
}

// run executes one invocation and returns the process exit code.
func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	root, a := newRootCmd(in, out, errOut)
	defer a.close()
	root.SetArgs(args)
	return exitCode(root.ExecuteContext(ctx), errOut)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
