package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/lvcampos/bookstore-api/auth"
	bookController "github.com/lvcampos/bookstore-api/controllers/book"
	"gorm.io/gorm"
)

// SetupAuthRoutes registers the public endpoints: registration, login and
// catalog browsing.
func SetupAuthRoutes(r *gin.Engine, db *gorm.DB) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", auth.RegisterHandler(db)) // POST /auth/register
		authGroup.POST("/login", auth.LoginHandler(db))       // POST /auth/login
	}

	// Browsing the catalog needs no account.
	r.GET("/books", bookController.GetBooks(db))        // GET /books
	r.GET("/books/:id", bookController.GetBookByID(db)) // GET /books/:id
}
