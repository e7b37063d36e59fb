// Command bootstrap-admin seeds an administrator account so the
// dashboard and live log channel are reachable on a fresh database.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"lantern/internal/config"
	"lantern/internal/model"
	"lantern/internal/session"
	"lantern/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "bootstrap-admin:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	email := flag.String("email", "", "admin email (required)")
	password := flag.String("password", "", "admin password (required)")
	flag.Parse()

	if *email == "" || *password == "" {
		return fmt.Errorf("both -email and -password are required")
	}

	if err := session.ValidateSignup(*email, *password); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	users := store.NewUsers(db)
	if err := users.Init(ctx); err != nil {
		return err
	}

	if existing, err := users.ByEmail(ctx, *email); err == nil {
		return fmt.Errorf("user %s already exists with role %s", existing.Email, existing.Role)
	}

	hash, err := session.HashPassword(*password)
	if err != nil {
		return err
	}

	admin := &model.User{
		Email:        model.NormalizeEmail(*email),
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}

	fmt.Printf("created admin %s (%s)\n", admin.Email, admin.ID)
	return nil
}
