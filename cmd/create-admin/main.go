package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"givora.backend/internal/config"
	"givora.backend/internal/domain/entities"
	"givora.backend/internal/infrastructure/datasources/postgres"
	"givora.backend/internal/infrastructure/repositories"
	"givora.backend/internal/usecases"
)

var openAdminDB = postgres.NewConnection

type adminProvisioner interface {
	ProvisionAdmin(ctx context.Context, email, password, firstName, lastName string) (*entities.User, bool, error)
}

type createAdminDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	prepare func(cfg *config.Config) (adminProvisioner, io.Closer, error)
	out     io.Writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func prepareProvisioner(cfg *config.Config) (adminProvisioner, io.Closer, error) {
	db, err := openAdminDB(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect db: %w", err)
	}
	return newProvisioner(db)
}

func newProvisioner(db *gorm.DB) (adminProvisioner, io.Closer, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init sql db: %w", err)
	}
	// only the user repository is needed to provision accounts
	authUsecase := usecases.NewAuthUsecase(repositories.NewUserRepository(db), nil, nil, nil)
	return authUsecase, sqlDB, nil
}

func defaultCreateAdminDeps() createAdminDeps {
	return createAdminDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		prepare: prepareProvisioner,
		out:     os.Stdout,
	}
}

func runCreateAdmin(args []string, deps createAdminDeps) error {
	def := defaultCreateAdminDeps()
	if deps.loadEnv == nil {
		deps.loadEnv = def.loadEnv
	}
	if deps.loadCfg == nil {
		deps.loadCfg = def.loadCfg
	}
	if deps.prepare == nil {
		deps.prepare = def.prepare
	}
	if deps.out == nil {
		deps.out = def.out
	}

	fs := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	email := fs.String("email", "", "admin email (required)")
	password := fs.String("password", "", "admin password; optional when promoting an existing user")
	firstName := fs.String("firstname", "Admin", "first name for a new account")
	lastName := fs.String("lastname", "User", "last name for a new account")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return fmt.Errorf("--email is required")
	}

	if err := deps.loadEnv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := deps.loadCfg()
	provisioner, closer, err := deps.prepare(cfg)
	if err != nil {
		return err
	}
	if closer == nil {
		closer = nopCloser{}
	}
	defer closer.Close()

	user, created, err := provisioner.ProvisionAdmin(context.Background(), *email, *password, *firstName, *lastName)
	if err != nil {
		return fmt.Errorf("failed provisioning admin: %w", err)
	}

	if created {
		_, _ = fmt.Fprintln(deps.out, "Created ADMIN account")
	} else {
		_, _ = fmt.Fprintln(deps.out, "Promoted existing account to ADMIN")
	}
	_, _ = fmt.Fprintf(deps.out, "user_id=%s\n", user.ID.String())
	_, _ = fmt.Fprintf(deps.out, "email=%s\n", user.Email)
	return nil
}

func main() {
	if err := runCreateAdmin(os.Args[1:], defaultCreateAdminDeps()); err != nil {
		log.Fatal(err)
	}
}
