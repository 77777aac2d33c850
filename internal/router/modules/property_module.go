package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-realty-backend/internal/interface/http"
)

type PropertyModule struct {
	Handler *handlers.PropertyHandler
	Auth    gin.HandlerFunc
}

func NewPropertyModule(h *handlers.PropertyHandler, auth gin.HandlerFunc) *PropertyModule {
	return &PropertyModule{Handler: h, Auth: auth}
}

func (m *PropertyModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/properties")
	g.Use(m.Auth)
	{
		g.GET("", m.Handler.List)
		g.POST("", m.Handler.Create)
		g.GET("/:id", m.Handler.Get)
		g.PUT("/:id", m.Handler.Update)
		g.DELETE("/:id", m.Handler.Delete)
		g.POST("/:id/images", m.Handler.UploadImage)
	}
}
