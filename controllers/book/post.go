package bookController

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lvcampos/bookstore-api/logging"
	"github.com/lvcampos/bookstore-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// saveCover stores an uploaded cover image under <uploadsDir>/covers and
// returns the filename reference persisted on the book.
func saveCover(c *gin.Context, uploadsDir string, file *multipart.FileHeader) (string, error) {
	saveDir := filepath.Join(uploadsDir, "covers")
	if err := os.MkdirAll(saveDir, os.ModePerm); err != nil {
		return "", err
	}

	ext := filepath.Ext(file.Filename)
	base := strings.TrimSuffix(filepath.Base(file.Filename), ext)
	base = strings.ReplaceAll(base, " ", "_")
	filename := fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), base, ext)

	if err := c.SaveUploadedFile(file, filepath.Join(saveDir, filename)); err != nil {
		return "", err
	}
	return filepath.Join("covers", filename), nil
}

// removeCover is best-effort cleanup of an orphaned upload; failures are
// logged, never surfaced.
func removeCover(uploadsDir, coverFilename string) {
	if coverFilename == "" {
		return
	}
	if err := os.Remove(filepath.Join(uploadsDir, coverFilename)); err != nil {
		logging.New("books").Warn("failed to remove cover file",
			"cover", coverFilename, "error", err)
	}
}

// POST /admin/books
// Multipart form: title, author, price required; category, description,
// stock and a "cover" image optional.
func CreateBook(db *gorm.DB, uploadsDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		title := c.PostForm("title")
		author := c.PostForm("author")
		priceStr := c.PostForm("price")
		if title == "" || author == "" || priceStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title, author and price are required"})
			return
		}

		price, err := decimal.NewFromString(priceStr)
		if err != nil || price.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
			return
		}

		stock := 0
		if stockStr := c.PostForm("stock"); stockStr != "" {
			stock, err = strconv.Atoi(stockStr)
			if err != nil || stock < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock"})
				return
			}
		}

		coverFilename := ""
		if file, err := c.FormFile("cover"); err == nil {
			coverFilename, err = saveCover(c, uploadsDir, file)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save cover image"})
				return
			}
		}

		book := models.Book{
			Title:         title,
			Author:        author,
			Category:      c.PostForm("category"),
			Price:         price,
			Stock:         stock,
			Description:   c.PostForm("description"),
			CoverFilename: coverFilename,
		}
		if err := db.Create(&book).Error; err != nil {
			removeCover(uploadsDir, coverFilename)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create book"})
			return
		}

		c.JSON(http.StatusCreated, book)
	}
}
