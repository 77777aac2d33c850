package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-realty-backend/config"
	"github.com/oksasatya/go-realty-backend/internal/application"
	"github.com/oksasatya/go-realty-backend/internal/domain/entity"
	"github.com/oksasatya/go-realty-backend/internal/domain/scope"
	pginfra "github.com/oksasatya/go-realty-backend/internal/infrastructure/postgres"
	"github.com/oksasatya/go-realty-backend/pkg/helpers"
)

// operator is the identity CLI writes run as.
var operator = scope.Identity{Username: "realtyctl", Role: entity.RoleAdmin}

type backend struct {
	cfg       *config.Config
	logger    *logrus.Logger
	auth      *application.AuthService
	customers *application.CustomerService
}

func (b *backend) MigrateUp() error {
	return pginfra.MigrateUp(b.cfg.PostgresDSN(), b.cfg.MigrationsDir, b.logger)
}

func (b *backend) MigrateDown(steps int) error {
	return pginfra.MigrateDown(b.cfg.PostgresDSN(), b.cfg.MigrationsDir, steps, b.logger)
}

func (b *backend) CreateAdmin(ctx context.Context, in application.RegisterInput) (*entity.User, error) {
	return b.auth.CreateUser(ctx, operator, in)
}

func (b *backend) PurgeCustomer(ctx context.Context, id string) error {
	return b.customers.Purge(ctx, id)
}

func openBackend(ctx context.Context) (Backend, func(), error) {
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-ctl", cfg.Env)

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 1, cfg.DBMaxConnLife)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	users := pginfra.NewUserRepository(pool)
	// no publisher: operator writes never send mail or events
	notifier := application.NewNotifier(nil, cfg, logger)
	b := &backend{
		cfg:       cfg,
		logger:    logger,
		auth:      application.NewAuthService(users, helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL), nil, notifier, cfg.UserCacheTTL, logger),
		customers: application.NewCustomerService(pginfra.NewCustomerRepository(pool), users, notifier, logger),
	}
	return b, pool.Close, nil
}

func main() {
	_ = godotenv.Load()

	if err := NewRootCmd(openBackend).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
