package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the public slot and booking endpoints.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	g.GET("/slots", h.ListSlots)

	group := g.Group("/bookings")
	{
		group.GET("", h.Get)
		group.POST("", h.Create)
	}
}

// RegisterAdminRoutes wires the admin booking endpoints behind the auth
// middleware.
func RegisterAdminRoutes(g *gin.RouterGroup, h *Handler, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/admin/bookings")
	group.Use(adminMiddleware)
	{
		group.GET("", h.AdminList)
		group.DELETE("/:id", h.AdminDelete)
	}
}
