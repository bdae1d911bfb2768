package api

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the API on r.
func RegisterRoutes(r *gin.Engine, h *Handler) {
	r.Use(requestLogger(h.log))

	api := r.Group("/api")
	{
		api.GET("/health", health)
		api.GET("/qr", qrHandler)
		api.GET("/templates", h.withSession, h.listTemplates)
	}

	c := api.Group("/card", h.withSession)
	{
		c.GET("", h.getCard)
		c.PUT("/template", h.selectTemplate)
		c.PUT("/details", h.updateDetails)

		c.POST("/profile", h.uploadProfile)
		c.DELETE("/profile", h.clearProfile)
		c.POST("/qr", h.uploadQR)
		c.POST("/qr/text", h.qrFromText)
		c.DELETE("/qr", h.clearQR)

		c.GET("/preview.png", h.preview)
		c.POST("/download", h.download)
		c.POST("/share", h.share)
	}
}
