package handler

import "github.com/gin-gonic/gin"

// Handlers groups every API handler
type Handlers struct {
	Auth      *AuthHandler
	Contract  *ContractHandler
	Document  *DocumentHandler
	Dispatch  *DispatchHandler
	Dashboard *DashboardHandler
	Logo      *LogoHandler
}

// Register mounts the API under api. Everything but signup and login goes
// through auth.
func (h *Handlers) Register(api *gin.RouterGroup, auth gin.HandlerFunc) {
	// Public routes
	api.POST("/auth/signup", h.Auth.Signup)
	api.POST("/auth/login", h.Auth.Login)

	// Protected routes
	protected := api.Group("/")
	protected.Use(auth)
	{
		protected.POST("/auth/logout", h.Auth.Logout)
		protected.GET("/auth/me", h.Auth.GetCurrentUser)
		protected.PUT("/auth/me", h.Auth.UpdateCurrentUser)

		protected.GET("/dashboard", h.Dashboard.Get)

		protected.POST("/contracts", h.Contract.Create)
		protected.GET("/contracts", h.Contract.List)
		protected.GET("/contracts/:id", h.Contract.Get)
		protected.PUT("/contracts/:id", h.Contract.Update)
		protected.DELETE("/contracts/:id", h.Contract.Delete)

		protected.GET("/contracts/:id/document", h.Document.Document)
		protected.GET("/contracts/:id/preview", h.Document.Preview)
		protected.GET("/contracts/:id/pdf", h.Document.PDF)
		protected.POST("/contracts/:id/archive", h.Document.Archive)

		protected.POST("/contracts/:id/dispatch", h.Dispatch.Send)
		protected.GET("/contracts/:id/dispatch", h.Dispatch.Status)

		protected.POST("/logos", h.Logo.Upload)
	}
}
