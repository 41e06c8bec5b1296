package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"recipe-planner/internal/app"
	"recipe-planner/internal/config"
	"recipe-planner/internal/database"
	"recipe-planner/internal/logging"
	"recipe-planner/internal/metrics"
	"recipe-planner/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: failed to read .env: %v", err)
	}

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, os.Args[1], os.Args[2:]); err != nil {
		if errors.Is(err, errUsage) {
			printUsage()
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, command string, args []string) error {
	backend, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	recorder := metrics.NewRecorder()
	snaps := storage.NewSnapshots(backend, cfg.KeyPrefix, logger)
	session, err := app.Open(ctx, snaps,
		app.WithLogger(logger),
		app.WithRecorder(recorder),
		app.WithHistoryLimit(cfg.HistoryLimit),
	)
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}

	c := &cli{
		cfg:      cfg,
		session:  session,
		backend:  backend,
		recorder: recorder,
		logger:   logger,
		out:      os.Stdout,
	}
	return c.dispatch(ctx, command, args)
}

// openBackend selects the snapshot store named by cfg.Backend.
func openBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Backend, error) {
	switch cfg.Backend {
	case "file":
		return storage.NewFileBackend(cfg.DataDir)
	case "sqlite":
		db, err := database.NewDB(cfg.DatabasePath, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return storage.NewSQLiteBackend(db), nil
	case "redis":
		return storage.NewRedisBackend(ctx, storage.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

func printUsage() {
	fmt.Println("Usage: recipe-planner <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  import <file...>                   Import provider JSON dumps or saved recipe pages")
	fmt.Println("  recipes                            List imported recipes")
	fmt.Println("  view <id>                          Show a recipe and record the view")
	fmt.Println("  favorite <id>                      Toggle a favorite")
	fmt.Println("  favorites                          List favorites")
	fmt.Println("  plan [-servings n] <date> <id>     Plan a recipe on a day (YYYY-MM-DD)")
	fmt.Println("  unplan <date> <id>                 Remove a planned recipe")
	fmt.Println("  week [-today YYYY-MM-DD]           Show the week's meal plan")
	fmt.Println("  shopping [-xlsx path] [-hide-checked]  Show the shopping list")
	fmt.Println("  check <item> | -all | -clear       Toggle a shopping item, or check/uncheck all")
	fmt.Println("  history [-filter all|viewed|favorited|planned]  Show recent activity")
	fmt.Println("  clear-history                      Forget all history")
	fmt.Println("  dark-mode on|off                   Store the display preference")
	fmt.Println("  watch                              Import files dropped into the inbox")
	fmt.Println("  stats                              Show storage and usage figures")
}
