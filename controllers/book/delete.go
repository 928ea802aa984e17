package bookController

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lvcampos/bookstore-api/models"
	"gorm.io/gorm"
)

// DeleteBook removes a book from the catalog. A book referenced by any
// order item is part of purchase history and must be refused, not cascaded.
// Cart lines referencing it are only staged intent and are dropped.
func DeleteBook(db *gorm.DB, uploadsDir string, bookID uint) error {
	var book models.Book
	if err := db.First(&book, bookID).Error; err != nil {
		return err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&models.OrderItem{}).Where("book_id = ?", bookID).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return models.ErrReferentialConflict
		}

		if err := tx.Where("book_id = ?", bookID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&book).Error
	})
	if err != nil {
		return err
	}

	removeCover(uploadsDir, book.CoverFilename)
	return nil
}

// DELETE /admin/books/:id
func DeleteBookHandler(db *gorm.DB, uploadsDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid book ID"})
			return
		}

		if err := DeleteBook(db, uploadsDir, uint(id)); err != nil {
			switch {
			case errors.Is(err, models.ErrReferentialConflict):
				c.JSON(http.StatusConflict, gin.H{"error": "Book appears in existing orders and cannot be deleted"})
			case errors.Is(err, gorm.ErrRecordNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete book"})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Book deleted successfully"})
	}
}
