package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/shenikar/tourist_safety_system/internal/models"
)

// RegisterRoutes регистрирует все маршруты API
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Регистрация и вход
	auth := api.Group("/auth", RateLimitMiddleware(h.authLimiter, h.logger))
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
	}

	alerts := api.Group("/alerts")
	{
		alerts.GET("", h.listAlerts)
		alerts.POST("", h.createAlert)
		alerts.PUT("/:id", h.updateAlert)

		// Действия ведомства
		authority := alerts.Group("", AuthMiddleware(h.cfg, h.authService, h.logger), RequireRole(models.RoleAuthority))
		authority.GET("/queue", h.pendingQueue)
		authority.GET("/stats", h.alertStats)
		authority.POST("/:id/dispatch", h.dispatchAlert)
		authority.POST("/:id/status", h.addStatusNote)
		authority.POST("/:id/resolve", h.resolveAlert)

		alerts.GET("/:id", h.getAlert)
	}

	contacts := api.Group("/contacts")
	{
		contacts.GET("", h.listContacts)
		contacts.POST("", h.createContact)
		contacts.DELETE("/:id", h.deleteContact)
	}

	location := api.Group("/location")
	{
		location.POST("/check", h.checkLocation)
		location.GET("/stats", AuthMiddleware(h.cfg, h.authService, h.logger), RequireRole(models.RoleAuthority), h.getLocationStats)
	}

	api.GET("/health", h.healthCheck)
}
