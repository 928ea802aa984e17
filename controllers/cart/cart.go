package cartControllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lvcampos/bookstore-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CartItemInput struct {
	BookID   uint `json:"book_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required"`
}

// -------- Core Logic --------

// GetOrCreateCart returns the user's cart, creating an empty one on first
// access. Idempotent.
func GetOrCreateCart(db *gorm.DB, userID uint) (models.Cart, error) {
	var cart models.Cart
	err := db.Where(models.Cart{UserID: userID}).FirstOrCreate(&cart).Error
	if err != nil {
		return models.Cart{}, err
	}
	return cart, nil
}

// AddItem puts qty units of a book into the actor's cart. If the book is
// already in the cart the line's quantity grows instead of duplicating the
// row. The combined quantity must be covered by current stock.
func AddItem(db *gorm.DB, actor models.Actor, bookID uint, qty int) (models.CartItem, error) {
	if qty <= 0 {
		return models.CartItem{}, fmt.Errorf("%w: quantity must be positive", models.ErrValidation)
	}

	var book models.Book
	if err := db.First(&book, bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.CartItem{}, fmt.Errorf("%w: book does not exist", models.ErrValidation)
		}
		return models.CartItem{}, err
	}

	cart, err := GetOrCreateCart(db, actor.UserID)
	if err != nil {
		return models.CartItem{}, err
	}

	var item models.CartItem
	err = db.Where("cart_id = ? AND book_id = ?", cart.CartID, bookID).First(&item).Error
	existing := 0
	if err == nil {
		existing = item.Quantity
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.CartItem{}, err
	}

	if book.Stock < existing+qty {
		return models.CartItem{}, &models.InsufficientStockError{
			BookID:    book.ID,
			Title:     book.Title,
			Requested: existing + qty,
			Available: book.Stock,
		}
	}

	if existing == 0 {
		item = models.CartItem{
			CartID:   cart.CartID,
			BookID:   bookID,
			Quantity: qty,
			AddedAt:  time.Now(),
		}
		if err := db.Create(&item).Error; err != nil {
			return models.CartItem{}, err
		}
		return item, nil
	}

	item.Quantity = existing + qty
	item.AddedAt = time.Now()
	if err := db.Save(&item).Error; err != nil {
		return models.CartItem{}, err
	}
	return item, nil
}

// RemoveItem deletes a cart line entirely. Quantity adjustments go through
// AddItem; there is no partial decrement. The item must belong to the
// actor's own cart.
func RemoveItem(db *gorm.DB, actor models.Actor, itemID uint) error {
	var item models.CartItem
	if err := db.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: cart item does not exist", models.ErrValidation)
		}
		return err
	}

	var cart models.Cart
	if err := db.First(&cart, item.CartID).Error; err != nil {
		return err
	}
	if cart.UserID != actor.UserID {
		return models.ErrUnauthorized
	}

	return db.Delete(&item).Error
}

// ClearCart drops every line from the actor's cart. The cart row persists.
func ClearCart(db *gorm.DB, actor models.Actor) error {
	cart, err := GetOrCreateCart(db, actor.UserID)
	if err != nil {
		return err
	}
	return db.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error
}

// CartTotal sums current book price times quantity over the cart's lines.
// Zero for an empty cart.
func CartTotal(db *gorm.DB, cartID uint) (decimal.Decimal, error) {
	var items []models.CartItem
	if err := db.Where("cart_id = ?", cartID).Find(&items).Error; err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, item := range items {
		var book models.Book
		if err := db.First(&book, item.BookID).Error; err != nil {
			return decimal.Zero, err
		}
		total = total.Add(book.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total, nil
}

// -------- Handlers --------

func getActor(c *gin.Context) (models.Actor, bool) {
	actorVal, exists := c.Get("actor")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return models.Actor{}, false
	}
	return actorVal.(models.Actor), true
}

// GET /user/cart
func GetUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := getActor(c)
		if !ok {
			return
		}

		cart, err := GetOrCreateCart(db, actor.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		if err := db.Preload("Items").First(&cart, cart.CartID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		total, err := CartTotal(db, cart.CartID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute total"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"cart": cart, "total": total})
	}
}

// POST /user/cart
func AddCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := getActor(c)
		if !ok {
			return
		}

		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		item, err := AddItem(db, actor, input.BookID, input.Quantity)
		if err != nil {
			var stockErr *models.InsufficientStockError
			switch {
			case errors.As(err, &stockErr):
				c.JSON(http.StatusConflict, gin.H{"error": stockErr.Error()})
			case errors.Is(err, models.ErrValidation):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
			}
			return
		}

		c.JSON(http.StatusCreated, item)
	}
}

// DELETE /user/cart/:item_id
func DeleteCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := getActor(c)
		if !ok {
			return
		}

		itemID, err := strconv.ParseUint(c.Param("item_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item id"})
			return
		}

		if err := RemoveItem(db, actor, uint(itemID)); err != nil {
			switch {
			case errors.Is(err, models.ErrUnauthorized):
				c.JSON(http.StatusForbidden, gin.H{"error": "Cart item belongs to another user"})
			case errors.Is(err, models.ErrValidation):
				c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Cart item deleted"})
	}
}

// DELETE /user/cart
func ClearUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := getActor(c)
		if !ok {
			return
		}

		if err := ClearCart(db, actor); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}

// GET /admin/user-cart/:user_id
func GetAdminUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
			return
		}

		var cart models.Cart
		if err := db.Preload("Items").Where("user_id = ?", uint(userID)).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "User cart not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		c.JSON(http.StatusOK, cart.Items)
	}
}
