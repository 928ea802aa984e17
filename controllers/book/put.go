package bookController

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lvcampos/bookstore-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PUT /admin/books/:id
// Accepts the same fields as CreateBook; only provided fields change.
func UpdateBook(db *gorm.DB, uploadsDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		idStr := c.Param("id")
		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid book ID"})
			return
		}

		var book models.Book
		if err := db.First(&book, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
			return
		}

		if v := c.PostForm("title"); v != "" {
			book.Title = v
		}
		if v := c.PostForm("author"); v != "" {
			book.Author = v
		}
		if v := c.PostForm("category"); v != "" {
			book.Category = v
		}
		if v := c.PostForm("description"); v != "" {
			book.Description = v
		}
		if v := c.PostForm("price"); v != "" {
			price, err := decimal.NewFromString(v)
			if err != nil || price.IsNegative() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
				return
			}
			book.Price = price
		}
		if v := c.PostForm("stock"); v != "" {
			stock, err := strconv.Atoi(v)
			if err != nil || stock < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock"})
				return
			}
			book.Stock = stock
		}

		// Optional cover replacement.
		newCover := ""
		if file, err := c.FormFile("cover"); err == nil {
			newCover, err = saveCover(c, uploadsDir, file)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save cover image"})
				return
			}
		}
		oldCover := book.CoverFilename
		if newCover != "" {
			book.CoverFilename = newCover
		}

		if err := db.Save(&book).Error; err != nil {
			// The freshly uploaded file is now orphaned.
			removeCover(uploadsDir, newCover)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update book"})
			return
		}
		if newCover != "" && oldCover != "" {
			removeCover(uploadsDir, oldCover)
		}

		c.JSON(http.StatusOK, book)
	}
}
