package http

import "github.com/gin-gonic/gin"

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	g.POST("/items/:id/photos", authMiddleware, h.Upload)

	group := g.Group("/photos")
	group.Use(authMiddleware)
	{
		group.GET("/:id", h.Serve)
		group.GET("/:id/thumbnail", h.ServeThumbnail)
	}
}
