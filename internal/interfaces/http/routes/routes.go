// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/bakehouse-backend/internal/config"
	"github.com/your-org/bakehouse-backend/internal/interfaces/http/handlers"
	"github.com/your-org/bakehouse-backend/internal/interfaces/http/middleware"
)

// Handlers bundles every API handler
type Handlers struct {
	Auth       *handlers.AuthHandler
	Product    *handlers.ProductHandler
	Cart       *handlers.CartHandler
	Order      *handlers.OrderHandler
	AdminOrder *handlers.AdminOrderHandler
	Gallery    *handlers.GalleryHandler
	Settings   *handlers.SettingsHandler
	Upload     *handlers.UploadHandler
	Contact    *handlers.ContactHandler
}

// SetupRoutes mounts all API routes on rg
func SetupRoutes(rg *gin.RouterGroup, h *Handlers, cfg *config.Config) {
	SetupAuthRoutes(rg, h, cfg)
	SetupCatalogRoutes(rg, h)
	SetupCartRoutes(rg, h, cfg)
	SetupOrderRoutes(rg, h, cfg)
	SetupAdminRoutes(rg, h, cfg)
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, h *Handlers, cfg *config.Config) {
	auth := rg.Group("/auth")
	{
		// Public auth endpoints
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/admin/login", h.Auth.AdminLogin)
		auth.GET("/me", middleware.OptionalAuthMiddleware(cfg), h.Auth.Me)

		// Protected auth endpoints
		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.POST("/logout", h.Auth.Logout)
			protected.PUT("/profile", h.Auth.UpdateProfile)
		}
	}
}

// SetupCatalogRoutes sets up the public storefront routes
func SetupCatalogRoutes(rg *gin.RouterGroup, h *Handlers) {
	products := rg.Group("/products")
	{
		products.GET("", h.Product.GetProducts)
		products.GET("/:id", h.Product.GetProduct)
	}

	categories := rg.Group("/categories")
	{
		categories.GET("", h.Product.GetCategories)
		categories.GET("/:slug", h.Product.GetCategoryBySlug)
	}

	gallery := rg.Group("/gallery")
	{
		gallery.GET("", h.Gallery.GetItems)
		gallery.GET("/:id", h.Gallery.GetItem)
	}

	rg.GET("/settings", h.Settings.GetSettings)
	rg.POST("/contact", h.Contact.SendMessage)
}

// SetupCartRoutes sets up the session cart routes. Guests and signed-in
// customers share them; the session cookie identifies the cart.
func SetupCartRoutes(rg *gin.RouterGroup, h *Handlers, cfg *config.Config) {
	cart := rg.Group("/cart")
	cart.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		cart.GET("", h.Cart.GetCart)
		cart.GET("/count", h.Cart.GetItemCount)
		cart.POST("/items", h.Cart.AddToCart)
		cart.PUT("/items/:id", h.Cart.UpdateCartItem)
		cart.DELETE("/items/:id", h.Cart.RemoveFromCart)
		cart.DELETE("", h.Cart.ClearCart)
	}
}

// SetupOrderRoutes sets up the customer's order routes
func SetupOrderRoutes(rg *gin.RouterGroup, h *Handlers, cfg *config.Config) {
	// guests may check out; the order is linked to the account when signed in
	rg.POST("/orders/checkout", middleware.OptionalAuthMiddleware(cfg), h.Order.Checkout)

	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(cfg))
	{
		orders.GET("", h.Order.GetOrders)
		orders.GET("/:id", h.Order.GetOrder)
		orders.GET("/:id/history", h.Order.GetOrderHistory)
		orders.GET("/:id/receipt", h.Order.GetReceipt)
	}
}

// SetupAdminRoutes sets up admin related routes
func SetupAdminRoutes(rg *gin.RouterGroup, h *Handlers, cfg *config.Config) {
	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg)) // Require authentication
	admin.Use(middleware.AdminMiddleware())   // Require admin privileges
	{
		admin.PUT("/credentials", h.Auth.UpdateCredentials)

		// Order management
		orders := admin.Group("/orders")
		{
			orders.GET("", h.AdminOrder.ListOrders)
			orders.GET("/statuses", h.AdminOrder.GetStatuses)
			orders.GET("/:id", h.AdminOrder.GetOrder)
			orders.PUT("/:id/status", h.AdminOrder.UpdateOrderStatus)
			orders.PUT("/:id/notes", h.AdminOrder.UpdateOrderNotes)
			orders.GET("/:id/history", h.AdminOrder.GetOrderHistory)
		}

		// Product management
		products := admin.Group("/products")
		{
			products.POST("", h.Product.AdminCreateProduct)
			products.PUT("/:id", h.Product.AdminUpdateProduct)
			products.DELETE("/:id", h.Product.AdminDeleteProduct)
		}

		// Gallery management
		gallery := admin.Group("/gallery")
		{
			gallery.POST("", h.Gallery.AdminCreateItem)
			gallery.PUT("/:id", h.Gallery.AdminUpdateItem)
			gallery.DELETE("/:id", h.Gallery.AdminDeleteItem)
		}

		// Uploads
		uploads := admin.Group("/uploads")
		{
			uploads.GET("", h.Upload.GetUploads)
			uploads.POST("", h.Upload.UploadImage)
			uploads.DELETE("/:id", h.Upload.DeleteUpload)
		}

		admin.PUT("/settings", h.Settings.AdminSaveSettings)
	}
}
