package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/lvcampos/bookstore-api/config"
	bookController "github.com/lvcampos/bookstore-api/controllers/book"
	cartControllers "github.com/lvcampos/bookstore-api/controllers/cart"
	orderControllers "github.com/lvcampos/bookstore-api/controllers/order"
	userControllers "github.com/lvcampos/bookstore-api/controllers/user"
	"github.com/lvcampos/bookstore-api/middleware"
	"gorm.io/gorm"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires a JWT with
// the admin role.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateToken, middleware.RequireAdmin)
	{
		// ─────────── User Management ───────────
		adminGroup.GET("/users", userControllers.GetAllUsers(db))
		adminGroup.PUT("/users/:id/role", userControllers.UpdateUserRole(db))

		// ─────────── Catalog Management ───────────
		bookAdmin := adminGroup.Group("/books")
		{
			bookAdmin.POST("", bookController.CreateBook(db, cfg.UploadsDir))
			bookAdmin.PUT("/:id", bookController.UpdateBook(db, cfg.UploadsDir))
			bookAdmin.DELETE("/:id", bookController.DeleteBookHandler(db, cfg.UploadsDir))
			bookAdmin.POST("/import-excel", bookController.ImportBooksFromExcel(db))
			bookAdmin.GET("/export-excel", bookController.ExportBooksToExcel(db))
		}

		// ─────────── Order Management ───────────
		orderAdmin := adminGroup.Group("/orders")
		{
			orderAdmin.GET("", orderControllers.GetAllOrdersHandler(db))
			orderAdmin.PUT("/:order_id/status", orderControllers.UpdateOrderStatusHandler(db))

			// websocket endpoint for real-time order updates
			orderAdmin.GET("/ws", orderControllers.OrderWebSocketHandler)
		}

		// ─────────── Cart Inspection ───────────
		adminGroup.GET("/user-cart/:user_id", cartControllers.GetAdminUserCart(db))
	}
}
