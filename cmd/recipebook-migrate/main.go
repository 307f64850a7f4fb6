// Package main is the entry point for the recipebook database migration tool.
// It applies the embedded goose migrations for the configured driver.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"github.com/prn-tf/recipebook/internal/config"
	"github.com/prn-tf/recipebook/internal/logging"
	"github.com/prn-tf/recipebook/internal/repository/migrations"
	"github.com/prn-tf/recipebook/internal/repository/sqlstore"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version":
		fmt.Printf("Recipebook Migration Tool\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)

	case "up", "down", "status", "current":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := run(ctx, command); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			stop()
			os.Exit(1)
		}

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func run(ctx context.Context, command string) error {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("RECIPEBOOK_CONFIG"))
	if err != nil {
		return err
	}

	logger, closer, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer closer.Close()

	store, err := sqlstore.Open(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	m, err := migrations.New(store.DB(), cfg.Database.Driver, logger)
	if err != nil {
		return err
	}

	switch command {
	case "up":
		return m.Up(ctx)

	case "down":
		return m.Down(ctx)

	case "current":
		v, err := m.Version(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Current version: %d\n", v)
		return nil

	default:
		statuses, err := m.Status(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "VERSION\tSTATE\tFILE")
		for _, s := range statuses {
			state := "pending"
			if s.Applied {
				state = "applied"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\n", s.Version, state, s.Path)
		}
		return w.Flush()
	}
}

func printUsage() {
	fmt.Println(`Recipebook Migration Tool

Usage:
  recipebook-migrate <command>

Commands:
  up          Run all pending migrations
  down        Rollback the last migration
  status      Show every migration and whether it is applied
  current     Print the current schema version
  version     Print version information
  help        Show this help message

Environment Variables:
  RECIPEBOOK_CONFIG            Path to the configuration file
  RECIPEBOOK_DATABASE_DRIVER   "sqlite" or "postgres"

Examples:
  recipebook-migrate up
  recipebook-migrate down
  recipebook-migrate status`)
}
