package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar is implemented by handlers that register their own routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router assembles the versioned API route tree
type Router struct {
	apiVersion string
	registrars []RouteRegistrar
}

// NewRouter creates a router for API version v1
func NewRouter() *Router {
	return &Router{
		apiVersion: "v1",
	}
}

// Register adds handlers whose routes should be mounted under the API group
func (r *Router) Register(registrars ...RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrars...)
	return r
}

// Setup mounts all registered routes under /api/<version> on the engine
func (r *Router) Setup(engine *gin.Engine) {
	api := engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}
