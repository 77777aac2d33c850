package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-realty-backend/pkg/response"
)

// Registry collects modules and the middleware shared by the /api group.
type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	engine.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "route not found", "not_found")
	})
	engine.HandleMethodNotAllowed = true
	engine.NoMethod(func(c *gin.Context) {
		response.Error(c, http.StatusMethodNotAllowed, "method not allowed", "method_not_allowed")
	})
	return &Registry{Engine: engine}
}

func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mod Module) {
	r.modules = append(r.modules, mod)
}

// RegisterAll creates the /api group; middleware added after this call is ignored.
func (r *Registry) RegisterAll() {
	r.API = r.Engine.Group("/api", r.middlewares...)
	for _, m := range r.modules {
		m.Register(r.API)
	}
}
