package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/lvcampos/bookstore-api/auth"
	cartControllers "github.com/lvcampos/bookstore-api/controllers/cart"
	orderControllers "github.com/lvcampos/bookstore-api/controllers/order"
	userControllers "github.com/lvcampos/bookstore-api/controllers/user"
	"github.com/lvcampos/bookstore-api/middleware"
	"gorm.io/gorm"
)

// SetupUserRoutes registers all "/user/*" endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken)
	{
		// ──────────────── Profile ────────────────
		userGroup.GET("/", userControllers.GetUser(db))                    // GET /user/
		userGroup.POST("/change-password", auth.ChangePasswordHandler(db)) // POST /user/change-password

		// ──────────────── Shopping Cart ────────────────
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("/", cartControllers.GetUserCart(db))               // GET /user/cart
			cartGroup.POST("/", cartControllers.AddCartItem(db))              // POST /user/cart
			cartGroup.DELETE("/:item_id", cartControllers.DeleteCartItem(db)) // DELETE /user/cart/:item_id
			cartGroup.DELETE("/", cartControllers.ClearUserCart(db))          // DELETE /user/cart
		}

		// ──────────────── Orders ────────────────
		orderGroup := userGroup.Group("/orders")
		{
			orderGroup.POST("/", orderControllers.PlaceOrderHandler(db))                  // POST /user/orders (checkout)
			orderGroup.GET("/", orderControllers.GetMyOrdersHandler(db))                  // GET /user/orders
			orderGroup.GET("/:order_id", orderControllers.GetOrderByIDHandler(db))        // GET /user/orders/:order_id
			orderGroup.POST("/:order_id/cancel", orderControllers.CancelOrderHandler(db)) // POST /user/orders/:order_id/cancel
		}
	}
}
