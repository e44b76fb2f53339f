// Command answersd runs the Q&A API server.
//
// Usage:
//
//	answersd serve --config config.yaml
//	answersd migrate --config config.yaml
//	answersd validate --config config.yaml
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"golang.org/x/sync/errgroup"

	"github.com/answersai/backend/pkg/auth"
	"github.com/answersai/backend/pkg/config"
	"github.com/answersai/backend/pkg/llms"
	"github.com/answersai/backend/pkg/logger"
	"github.com/answersai/backend/pkg/observability"
	"github.com/answersai/backend/pkg/ratelimit"
	"github.com/answersai/backend/pkg/server"
	"github.com/answersai/backend/pkg/store"
)

// CLI defines the command-line interface.
type CLI struct {
	Version  VersionCmd  `cmd:"" help:"Show version information."`
	Serve    ServeCmd    `cmd:"" help:"Start the API server."`
	Migrate  MigrateCmd  `cmd:"" help:"Apply pending database migrations."`
	Validate ValidateCmd `cmd:"" help:"Validate configuration."`

	Config    string `short:"c" help:"Path to config file (empty = environment variables)." type:"path"`
	LogLevel  string `help:"Log level (debug, info, warn, error)." default:"info"`
	LogFile   string `help:"Log file path (empty = stderr)."`
	LogFormat string `help:"Log format (simple or verbose)." default:"simple"`
}

// VersionCmd shows version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	version := "dev"
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "(devel)" && info.Main.Version != "" {
			version = info.Main.Version
		}
	}
	fmt.Printf("answersd version %s\n", version)
	return nil
}

// ValidateCmd loads the configuration and reports whether it is usable.
type ValidateCmd struct{}

func (c *ValidateCmd) Run(cli *CLI) error {
	if _, err := loadConfig(cli.Config); err != nil {
		return err
	}
	fmt.Println("Configuration is valid")
	return nil
}

// MigrateCmd applies pending database migrations and exits.
type MigrateCmd struct{}

func (c *MigrateCmd) Run(cli *CLI) error {
	cfg, err := loadConfig(cli.Config)
	if err != nil {
		return err
	}

	db, err := store.Open(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return store.Migrate(db)
}

// ServeCmd starts the API server.
type ServeCmd struct {
	Port    int  `help:"Port to listen on (overrides config)."`
	Migrate bool `help:"Apply pending migrations before serving."`
}

func (c *ServeCmd) Run(cli *CLI) error {
	cfg, err := loadConfig(cli.Config)
	if err != nil {
		return err
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}

	// The config file's logging section applies unless CLI flags override it.
	if cli.LogLevel == "info" && cli.LogFile == "" && cli.LogFormat == "simple" {
		if err := applyLoggingConfig(&cfg.Logging); err != nil {
			return err
		}
	}

	db, err := store.Open(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if c.Migrate {
		if err := store.Migrate(db); err != nil {
			return err
		}
	}

	users := store.NewUserStore(db)
	questions := store.NewQuestionStore(db)

	issuer, err := auth.NewIssuer(cfg.Auth.Secret, cfg.Auth.RefreshSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	if err != nil {
		return fmt.Errorf("failed to create token issuer: %w", err)
	}
	accessVerifier, err := auth.NewVerifier(cfg.Auth.Secret)
	if err != nil {
		return fmt.Errorf("failed to create access verifier: %w", err)
	}
	refreshVerifier, err := auth.NewVerifier(cfg.Auth.RefreshSecret)
	if err != nil {
		return fmt.Errorf("failed to create refresh verifier: %w", err)
	}
	authenticator, err := auth.NewAuthenticator(accessVerifier, server.NewAccountLookup(users))
	if err != nil {
		return fmt.Errorf("failed to create authenticator: %w", err)
	}

	var limiter *ratelimit.SlidingWindowLimiter
	if cfg.RateLimiting.IsEnabled() {
		limiter, err = ratelimit.NewSlidingWindowLimiter(&cfg.RateLimiting, ratelimit.NewMemoryStore())
		if err != nil {
			return fmt.Errorf("failed to create rate limiter: %w", err)
		}
	} else {
		slog.Warn("rate limiting is disabled")
	}

	provider, err := llms.NewAnthropicProvider(&cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to create AI provider: %w", err)
	}

	srv, err := server.New(server.Dependencies{
		Config:        cfg,
		Logger:        slog.Default(),
		Users:         users,
		Questions:     questions,
		Issuer:        issuer,
		Authenticator: authenticator,
		RefreshVerify: refreshVerifier,
		Limiter:       limiter,
		Provider:      provider,
		Metrics:       observability.NewMetrics(),
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(),
			time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
		defer cancel()
		return srv.Stop(shutdownCtx)
	})

	return g.Wait()
}

// applyLoggingConfig reinitializes the logger from the config file's
// logging section.
func applyLoggingConfig(cfg *config.LoggingConfig) error {
	level, err := logger.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}

	output := os.Stderr
	if cfg.File != "" {
		file, _, err := logger.OpenLogFile(cfg.File)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		output = file
	}

	logger.Init(level, output, cfg.Format)
	return nil
}

// loadConfig reads the config from a file when a path is given and from
// environment variables otherwise.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.FromEnv()
}

func main() {
	_ = config.LoadDotEnv(".env")

	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("answersd"),
		kong.Description("AI-answered questions API server"),
		kong.UsageOnError(),
	)

	level, err := logger.ParseLevel(cli.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	output := os.Stderr
	if cli.LogFile != "" {
		file, cleanup, err := logger.OpenLogFile(cli.LogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer cleanup()
		output = file
	}
	logger.Init(level, output, cli.LogFormat)

	if err := ctx.Run(&cli); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
