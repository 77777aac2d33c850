package router

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-realty-backend/internal/application"
	"github.com/oksasatya/go-realty-backend/internal/container"
	pginfra "github.com/oksasatya/go-realty-backend/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/go-realty-backend/internal/interface/http"
	"github.com/oksasatya/go-realty-backend/internal/interface/middleware"
	"github.com/oksasatya/go-realty-backend/internal/router/modules"
)

// Services are the application services shared by the HTTP modules.
type Services struct {
	Auth       *application.AuthService
	Customers  *application.CustomerService
	Properties *application.PropertyService
}

// BuildServices wires repositories and side-effect adapters from the container.
func BuildServices(c *container.Container) Services {
	var db pginfra.DB
	if c.DB != nil {
		db = c.DB
	}
	users := pginfra.NewUserRepository(db)
	notifier := application.NewNotifier(c.Publisher, c.Cfg, c.Logger)
	return Services{
		Auth:       application.NewAuthService(users, c.JWT, c.Sessions, notifier, c.Cfg.UserCacheTTL, c.Logger),
		Customers:  application.NewCustomerService(pginfra.NewCustomerRepository(db), users, notifier, c.Logger),
		Properties: application.NewPropertyService(pginfra.NewPropertyRepository(db), users, c.Images, notifier, c.Logger),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry, c *container.Container) {
	svc := BuildServices(c)
	pageMax := c.Cfg.PageSizeMax
	auth := middleware.Auth(svc.Auth)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc.Auth, c.Logger), auth))
	r.Add(modules.NewCustomerModule(handlers.NewCustomerHandler(svc.Customers, c.Logger, pageMax), auth))
	r.Add(modules.NewPropertyModule(handlers.NewPropertyHandler(svc.Properties, c.Logger, pageMax), auth))
	r.Add(modules.NewAdminModule(handlers.NewAdminHandler(svc.Auth, c.Logger, pageMax), auth))
	if c.Cfg.MetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}

// Global middleware for the /api group.
func DefaultMiddleware(c *container.Container) []gin.HandlerFunc {
	mws := []gin.HandlerFunc{middleware.RequestIDMiddleware()}
	if c.Cfg.MetricsEnabled {
		mws = append(mws, middleware.Metrics())
	}
	if c.Cfg.HTTPLogEnabled {
		mws = append(mws, middleware.AccessLog(c.Logger))
	}
	return mws
}
