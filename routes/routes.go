package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/lvcampos/bookstore-api/config"
	"gorm.io/gorm"
)

// SetupRoutes is the single entry-point that wires up Auth, User, and Admin
// route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	// Public auth routes (no middleware)
	SetupAuthRoutes(r, db)

	// User routes (JWT-protected)
	SetupUserRoutes(r, db)

	// Admin routes (JWT + admin role)
	SetupAdminRoutes(r, db, cfg)
}
