package main

import (
	"context" // Seeding context
	"errors"  // Error classification
	"fmt"     // Error formatting
	"os"      // Process arguments

	"jwt_pizza_service/internal/auth"   // Custom import path (Auth service)
	"jwt_pizza_service/internal/config" // Custom import path (Config)
	"jwt_pizza_service/internal/db"     // Custom import path (Database)
	"jwt_pizza_service/internal/domain" // Custom import path (Domain models)
	"jwt_pizza_service/internal/ledger" // Custom import path (Token ledger)
	"jwt_pizza_service/internal/store"  // Custom import path (Persistence)
	"jwt_pizza_service/internal/utils"  // Custom import path (Token codec)

	"github.com/sirupsen/logrus" // Logging library
	"github.com/spf13/pflag"     // POSIX style flags
)

// options are the bootstrap flags
type options struct {
	adminName     string
	adminEmail    string
	adminPassword string
	seedMenu      bool
}

// parseFlags reads bootstrap flags from args
func parseFlags(args []string) (options, error) {
	var opts options
	flagSet := pflag.NewFlagSet("migrate", pflag.ContinueOnError)
	flagSet.StringVar(&opts.adminName, "admin-name", "pizza admin", "display name of the seeded administrator")
	flagSet.StringVar(&opts.adminEmail, "admin-email", "", "email of an administrator to create (skipped when empty)")
	flagSet.StringVar(&opts.adminPassword, "admin-password", "", "password of the seeded administrator")
	flagSet.BoolVar(&opts.seedMenu, "seed-menu", false, "insert the default menu when the menu is empty")
	if err := flagSet.Parse(args); err != nil {
		return opts, err
	}
	if opts.adminEmail != "" && opts.adminPassword == "" {
		return opts, errors.New("--admin-password is required with --admin-email")
	}
	return opts, nil
}

// Main entry point for migration
func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		logrus.Fatalf("migrate: %v", err)
	}
}

func run(args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}
	cfg := config.LoadConfig() // Load configuration
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	conn, err := db.Open(cfg)
	if err != nil {
		return err
	}
	if err := db.Migrate(conn); err != nil {
		return err
	}

	ctx := context.Background()
	st := store.NewSQLStore(conn)
	if opts.adminEmail != "" {
		if cfg.JWTSecret == "" {
			return errors.New("JWT_SECRET is required to seed an administrator")
		}
		// The bootstrap token goes to the SQL ledger so Redis is not needed here
		svc := auth.NewService(st, utils.NewTokenCodec(cfg.JWTSecret, cfg.TokenTTL), ledger.NewSQLLedger(conn), cfg.BcryptCost)
		if err := seedAdmin(ctx, svc, opts); err != nil {
			return err
		}
	}
	if opts.seedMenu {
		if err := seedMenu(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// seedAdmin registers an administrator; an existing email is left untouched
func seedAdmin(ctx context.Context, svc *auth.Service, opts options) error {
	user, _, err := svc.Register(ctx, auth.RegisterInput{
		Name:     opts.adminName,
		Email:    opts.adminEmail,
		Password: opts.adminPassword,
		Roles:    []domain.RoleAssignment{domain.Admin()},
	})
	if errors.Is(err, domain.ErrDuplicateEmail) {
		logrus.WithField("email", opts.adminEmail).Info("Administrator already exists")
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed administrator: %w", err)
	}
	logrus.WithField("user_id", user.ID).Info("Administrator created")
	return nil
}

// menuSeeder is the part of the store the menu seed needs
type menuSeeder interface {
	GetMenu(ctx context.Context) ([]domain.MenuItem, error)
	AddMenuItem(ctx context.Context, item *domain.MenuItem) error
}

// defaultMenu is inserted by --seed-menu
var defaultMenu = []domain.MenuItem{
	{Title: "Veggie", Description: "A garden of delight", Image: "pizza1.png", Price: 0.0038},
	{Title: "Pepperoni", Description: "Spicy treat", Image: "pizza2.png", Price: 0.0042},
	{Title: "Margarita", Description: "Essential classic", Image: "pizza3.png", Price: 0.0042},
	{Title: "Crusty", Description: "A dry mouthed favorite", Image: "pizza4.png", Price: 0.0028},
	{Title: "Charred Leopard", Description: "For those with a darker side", Image: "pizza5.png", Price: 0.0099},
}

// seedMenu inserts the default menu unless items already exist
func seedMenu(ctx context.Context, menu menuSeeder) error {
	existing, err := menu.GetMenu(ctx)
	if err != nil {
		return fmt.Errorf("load menu: %w", err)
	}
	if len(existing) > 0 {
		logrus.WithField("items", len(existing)).Info("Menu already seeded")
		return nil
	}
	for _, item := range defaultMenu {
		item := item
		if err := menu.AddMenuItem(ctx, &item); err != nil {
			return fmt.Errorf("add menu item %s: %w", item.Title, err)
		}
	}
	logrus.WithField("items", len(defaultMenu)).Info("Menu seeded")
	return nil
}
