package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-realty-backend/internal/interface/http"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
	Auth    gin.HandlerFunc
}

func NewAuthModule(h *handlers.AuthHandler, auth gin.HandlerFunc) *AuthModule {
	return &AuthModule{Handler: h, Auth: auth}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/auth/register", m.Handler.Register)
	rg.POST("/auth/login", m.Handler.Login)

	auth := rg.Group("/auth")
	auth.Use(m.Auth)
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/profile", m.Handler.Profile)
		auth.PUT("/profile", m.Handler.UpdateProfile)
	}
}
