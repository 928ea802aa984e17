package bookController

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lvcampos/bookstore-api/models"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// POST /admin/books/import-excel
// Expects the column layout produced by ExportBooksToExcel. Rows with an ID
// matching an existing book update it; rows without one create a new book.
func ImportBooksFromExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse Excel file"})
			return
		}
		if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is empty or missing header row"})
			return
		}

		sheet := xlFile.Sheets[0]
		createdCount, updatedCount, skippedCount := 0, 0, 0

		for i := 1; i < sheet.MaxRow; i++ {
			row := sheet.Rows[i]

			get := func(index int) string {
				if index < len(row.Cells) {
					return strings.TrimSpace(row.Cells[index].String())
				}
				return ""
			}

			idStr := get(0)
			title := get(1)
			author := get(2)
			category := get(3)
			price, priceErr := decimal.NewFromString(get(4))
			stock, stockErr := strconv.Atoi(get(5))
			description := get(6)
			cover := get(7)

			if title == "" || author == "" || priceErr != nil || price.IsNegative() {
				skippedCount++
				continue
			}
			if stockErr != nil || stock < 0 {
				stock = 0
			}

			if idStr != "" {
				if id, err := strconv.ParseUint(idStr, 10, 64); err == nil {
					var existing models.Book
					if db.First(&existing, id).Error == nil {
						existing.Title = title
						existing.Author = author
						existing.Category = category
						existing.Price = price
						existing.Stock = stock
						existing.Description = description
						if cover != "" {
							existing.CoverFilename = cover
						}
						if db.Save(&existing).Error == nil {
							updatedCount++
						} else {
							skippedCount++
						}
						continue
					}
				}
			}

			book := models.Book{
				Title:         title,
				Author:        author,
				Category:      category,
				Price:         price,
				Stock:         stock,
				Description:   description,
				CoverFilename: cover,
			}
			if db.Create(&book).Error == nil {
				createdCount++
			} else {
				skippedCount++
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"created": createdCount,
			"updated": updatedCount,
			"skipped": skippedCount,
		})
	}
}
