// Package main is the entry point for the recipebook admin CLI.
// It manages period types and superuser rights directly against the database.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/prn-tf/recipebook/internal/config"
	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/logging"
	"github.com/prn-tf/recipebook/internal/password"
	"github.com/prn-tf/recipebook/internal/repository"
	"github.com/prn-tf/recipebook/internal/repository/sqlstore"
	"github.com/prn-tf/recipebook/internal/schema"
	"github.com/prn-tf/recipebook/internal/service"
	"github.com/prn-tf/recipebook/internal/slug"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// listBatch is the page size used when listing every row.
const listBatch = 100

type app struct {
	users       *service.UserService
	periodTypes *service.PeriodTypeService
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version":
		fmt.Printf("Recipebook Admin CLI\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)
		return

	case "help", "-h", "--help":
		printUsage()
		return

	case "period-type", "user":
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, command, os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("RECIPEBOOK_CONFIG"))
	if err != nil {
		return err
	}

	// The CLI prints its own results; only problems are logged.
	cfg.Logging.Output = "stderr"
	cfg.Logging.Format = "console"
	if cfg.Logging.Level == "info" || cfg.Logging.Level == "debug" {
		cfg.Logging.Level = "warn"
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

	if cfg.Database.AutoMigrate {
		if err := store.Migrate(ctx); err != nil {
			return err
		}
	}

	a, err := newApp(store.Repositories(), cfg, logger)
	if err != nil {
		return err
	}

	switch command {
	case "period-type":
		return a.periodType(ctx, args)
	default:
		return a.user(ctx, args)
	}
}

func newApp(repos *repository.Repositories, cfg *config.Config, logger zerolog.Logger) (*app, error) {
	hasher, err := password.NewBcryptHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return nil, err
	}
	slugs := slug.NewGenerator()

	return &app{
		users: service.NewUserService(
			repos.User, hasher, password.NewPolicy(cfg.Auth.PasswordPolicy),
			schema.NewValidator(), nil, logger,
		),
		periodTypes: service.NewPeriodTypeService(repos.PeriodType, slugs, nil, logger),
	}, nil
}

func (a *app) periodType(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: recipebook-admin period-type <create|delete|list> [arguments]")
	}

	switch args[0] {
	case "create":
		if len(args) != 2 {
			return errors.New("usage: recipebook-admin period-type create <name>")
		}
		pt, err := a.periodTypes.Create(ctx, args[1])
		if err != nil {
			return describe(err)
		}
		fmt.Printf("Created period type %d: %s (%s)\n", pt.ID, pt.Name, pt.Slug)
		return nil

	case "delete":
		if len(args) != 2 {
			return errors.New("usage: recipebook-admin period-type delete <id|all>")
		}
		if args[1] == "all" {
			n, err := a.periodTypes.DeleteAll(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Deleted %d period types\n", n)
			return nil
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid period type id %q", args[1])
		}
		if err := a.periodTypes.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Printf("Deleted period type %d\n", id)
		return nil

	case "list":
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSLUG")
		for offset := 0; ; offset += listBatch {
			result, err := a.periodTypes.List(ctx, repository.ListOptions{Offset: offset, Limit: listBatch})
			if err != nil {
				return err
			}
			for _, pt := range result.Items {
				fmt.Fprintf(w, "%d\t%s\t%s\n", pt.ID, pt.Name, pt.Slug)
			}
			if int64(offset+listBatch) >= result.Total {
				break
			}
		}
		return w.Flush()

	default:
		return fmt.Errorf("unknown period-type command: %s", args[0])
	}
}

func (a *app) user(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: recipebook-admin user <superuser|list> [arguments]")
	}

	switch args[0] {
	case "superuser":
		if len(args) < 2 || len(args) > 3 || (len(args) == 3 && args[2] != "--revoke") {
			return errors.New("usage: recipebook-admin user superuser <email> [--revoke]")
		}
		grant := len(args) == 2
		u, err := a.users.SetSuperuser(ctx, args[1], grant)
		if err != nil {
			return err
		}
		if grant {
			fmt.Printf("User %d (%s) is now a superuser\n", u.ID, u.Email)
		} else {
			fmt.Printf("User %d (%s) is no longer a superuser\n", u.ID, u.Email)
		}
		return nil

	case "list":
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tEMAIL\tNAME\tACTIVE\tSUPERUSER")
		for offset := 0; ; offset += listBatch {
			result, err := a.users.ListAll(ctx, repository.ListOptions{Offset: offset, Limit: listBatch})
			if err != nil {
				return err
			}
			for _, u := range result.Items {
				fmt.Fprintf(w, "%d\t%s\t%s\t%t\t%t\n", u.ID, u.Email, u.Name, u.IsActive, u.IsSuperuser)
			}
			if int64(offset+listBatch) >= result.Total {
				break
			}
		}
		return w.Flush()

	default:
		return fmt.Errorf("unknown user command: %s", args[0])
	}
}

// describe turns validation and domain errors into their client message.
func describe(err error) error {
	var verr *schema.ValidationError
	if errors.As(err, &verr) && len(verr.Errors) > 0 {
		return errors.New(verr.Errors[0].Msg)
	}
	var derr *domain.DomainError
	if errors.As(err, &derr) && derr.Message != "" {
		return errors.New(derr.Message)
	}
	return err
}

func printUsage() {
	fmt.Println(`Recipebook Admin CLI

Usage:
  recipebook-admin <command> [arguments]

Commands:
  period-type   Manage period types (create, delete, list)
  user          Manage users (superuser, list)
  version       Print version information
  help          Show this help message

Examples:
  recipebook-admin period-type create "early breakfast"
  recipebook-admin period-type delete 3
  recipebook-admin period-type delete all
  recipebook-admin period-type list
  recipebook-admin user superuser admin@example.com
  recipebook-admin user superuser admin@example.com --revoke
  recipebook-admin user list

The configuration file is read from RECIPEBOOK_CONFIG; RECIPEBOOK_* variables override it.`)
}
