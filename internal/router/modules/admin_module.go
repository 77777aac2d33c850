package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-realty-backend/internal/interface/http"
	"github.com/oksasatya/go-realty-backend/internal/interface/middleware"
)

type AdminModule struct {
	Handler *handlers.AdminHandler
	Auth    gin.HandlerFunc
}

func NewAdminModule(h *handlers.AdminHandler, auth gin.HandlerFunc) *AdminModule {
	return &AdminModule{Handler: h, Auth: auth}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/admin")
	g.Use(m.Auth, middleware.RequireAdmin())
	{
		g.GET("/users", m.Handler.ListUsers)
		g.POST("/users", m.Handler.CreateUser)
		g.PATCH("/users/:id/status", m.Handler.SetUserStatus)
	}
}
