package bookController

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lvcampos/bookstore-api/models"
	"gorm.io/gorm"
)

// GET /books
// Optional filters: ?category=...&q=... (title or author substring).
func GetBooks(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.Book{})

		if category := c.Query("category"); category != "" {
			query = query.Where("category = ?", category)
		}
		if q := c.Query("q"); q != "" {
			like := "%" + q + "%"
			query = query.Where("title LIKE ? OR author LIKE ?", like, like)
		}

		var books []models.Book
		if err := query.Order("title asc").Find(&books).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch books"})
			return
		}
		c.JSON(http.StatusOK, books)
	}
}

// GET /books/:id
func GetBookByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var book models.Book
		if err := db.First(&book, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch book"})
			return
		}
		c.JSON(http.StatusOK, book)
	}
}
