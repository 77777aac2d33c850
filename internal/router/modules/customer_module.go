package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-realty-backend/internal/interface/http"
)

// CustomerModule registers /api/customers; every route is scoped to the caller.
type CustomerModule struct {
	Handler *handlers.CustomerHandler
	Auth    gin.HandlerFunc
}

func NewCustomerModule(h *handlers.CustomerHandler, auth gin.HandlerFunc) *CustomerModule {
	return &CustomerModule{Handler: h, Auth: auth}
}

func (m *CustomerModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/customers")
	g.Use(m.Auth)
	{
		g.GET("", m.Handler.List)
		g.POST("", m.Handler.Create)
		g.GET("/:id", m.Handler.Get)
		g.PUT("/:id", m.Handler.Update)
		g.DELETE("/:id", m.Handler.Delete)
		g.POST("/:id/reactivate", m.Handler.Reactivate)
	}
}
