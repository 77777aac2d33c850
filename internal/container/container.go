package container

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-realty-backend/config"
	"github.com/oksasatya/go-realty-backend/internal/application"
	"github.com/oksasatya/go-realty-backend/pkg/helpers"
)

// Container holds the infrastructure built in main and handed to the router.
// Optional integrations are nil when their backing service is not configured.
type Container struct {
	Cfg    *config.Config
	Logger *logrus.Logger
	DB     *pgxpool.Pool
	JWT    *helpers.JWTManager

	Sessions  application.SessionStore
	Publisher application.Publisher
	Images    application.ImageStore
}

// Option sets one optional integration.
type Option func(*Container)

func WithSessions(s *helpers.RedisSessions) Option {
	return func(c *Container) {
		if s != nil {
			c.Sessions = s
		}
	}
}

func WithPublisher(p *helpers.RabbitPublisher) Option {
	return func(c *Container) {
		if p != nil {
			c.Publisher = p
		}
	}
}

func WithImages(u *helpers.GCSUploader) Option {
	return func(c *Container) {
		if u != nil {
			c.Images = u
		}
	}
}

func New(cfg *config.Config, logger *logrus.Logger, db *pgxpool.Pool, jwt *helpers.JWTManager, opts ...Option) *Container {
	c := &Container{Cfg: cfg, Logger: logger, DB: db, JWT: jwt}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
