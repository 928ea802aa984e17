package bookController

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lvcampos/bookstore-api/models"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// GET /admin/books/export-excel
func ExportBooksToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var books []models.Book
		if err := db.Order("id asc").Find(&books).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch books"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Books")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		headers := []string{
			"ID", "Title", "Author", "Category", "Price", "Stock",
			"Description", "CoverFilename", "CreatedAt", "UpdatedAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, b := range books {
			row := sheet.AddRow()
			row.AddCell().SetValue(b.ID)
			row.AddCell().SetValue(b.Title)
			row.AddCell().SetValue(b.Author)
			row.AddCell().SetValue(b.Category)
			row.AddCell().SetValue(b.Price.String())
			row.AddCell().SetValue(b.Stock)
			row.AddCell().SetValue(b.Description)
			row.AddCell().SetValue(b.CoverFilename)
			row.AddCell().SetValue(b.CreatedAt.Format("2006-01-02 15:04:05"))
			row.AddCell().SetValue(b.UpdatedAt.Format("2006-01-02 15:04:05"))
		}

		c.Header("Content-Disposition", "attachment; filename=books.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}
