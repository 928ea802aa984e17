package orderControllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lvcampos/bookstore-api/logging"
	"github.com/lvcampos/bookstore-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// -------- Request Structs --------

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// -------- Helpers --------

// Map string to OrderStatus
func mapOrderStatus(status string) (models.OrderStatus, error) {
	s := models.OrderStatus(strings.ToLower(status))
	if !s.Valid() {
		return "", models.ErrInvalidStatus
	}
	return s, nil
}

// Generate unique order reference
func generateOrderRef() string {
	// Example: 20250908130500-<uuid4>
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// lockForUpdate takes a row lock on Postgres. SQLite (used by the tests) has
// no row locks; a single writer serializes transactions there instead.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// -------- Core Logic --------

// PlaceOrder turns the actor's cart into a committed order. Within one
// transaction it re-validates stock for every line against locked book rows,
// decrements stock, snapshots (book, quantity, unit price), accumulates the
// total and drains the cart. Any shortfall or failure rolls the whole
// operation back; the cart is left untouched.
func PlaceOrder(db *gorm.DB, actor models.Actor) (models.Order, error) {
	var cart models.Cart
	if err := db.Where("user_id = ?", actor.UserID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, models.ErrEmptyCart
		}
		return models.Order{}, wrapOrderFailure(err)
	}

	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		// Items in the order they were added; this also fixes the order of
		// the resulting order items.
		var items []models.CartItem
		if err := tx.Where("cart_id = ?", cart.CartID).Order("id asc").Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return models.ErrEmptyCart
		}

		// First pass: lock every book row and re-validate stock. The cart
		// quantities may be stale; this check is the one that counts.
		books := make(map[uint]*models.Book, len(items))
		for _, item := range items {
			var book models.Book
			if err := lockForUpdate(tx).First(&book, item.BookID).Error; err != nil {
				return err
			}
			if book.Stock < item.Quantity {
				return &models.InsufficientStockError{
					BookID:    book.ID,
					Title:     book.Title,
					Requested: item.Quantity,
					Available: book.Stock,
				}
			}
			b := book
			books[item.BookID] = &b
		}

		order = models.Order{
			UserID:    actor.UserID,
			Status:    models.OrderStatusCreated,
			Total:     decimal.Zero,
			OrderRef:  generateOrderRef(),
			CreatedAt: time.Now(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// Second pass: decrement stock, snapshot the line, drain the cart.
		total := decimal.Zero
		for _, item := range items {
			book := books[item.BookID]
			book.Stock -= item.Quantity
			if err := tx.Save(book).Error; err != nil {
				return err
			}

			orderItem := models.OrderItem{
				OrderID:   order.ID,
				BookID:    book.ID,
				Title:     book.Title,
				UnitPrice: book.Price,
				Quantity:  item.Quantity,
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return err
			}

			total = total.Add(book.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))

			if err := tx.Delete(&models.CartItem{}, item.ID).Error; err != nil {
				return err
			}
		}

		order.Total = total
		return tx.Model(&order).Update("total", total).Error
	})
	if err != nil {
		return models.Order{}, wrapOrderFailure(err)
	}

	if err := db.Preload("Items").First(&order, order.ID).Error; err != nil {
		return models.Order{}, wrapOrderFailure(err)
	}
	return order, nil
}

// wrapOrderFailure passes business-rule errors through and hides everything
// else behind a generic failure, with the cause logged for operators.
func wrapOrderFailure(err error) error {
	var stockErr *models.InsufficientStockError
	if errors.As(err, &stockErr) ||
		errors.Is(err, models.ErrEmptyCart) ||
		errors.Is(err, models.ErrValidation) ||
		errors.Is(err, models.ErrUnauthorized) ||
		errors.Is(err, models.ErrInvalidTransition) ||
		errors.Is(err, models.ErrInvalidStatus) {
		return err
	}
	logging.New("orders").Error("order transaction failed", "error", err)
	return fmt.Errorf("%w: %v", models.ErrOrderCreationFailed, err)
}

// CancelOrder is the user-facing cancellation: owner only, and only while
// the order is still in created or paid. Restores every book's stock in the
// same all-or-nothing transaction that flips the status.
func CancelOrder(db *gorm.DB, actor models.Actor, orderID uint) (models.Order, error) {
	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, fmt.Errorf("%w: order does not exist", models.ErrValidation)
		}
		return models.Order{}, wrapOrderFailure(err)
	}
	if order.UserID != actor.UserID {
		return models.Order{}, models.ErrUnauthorized
	}

	if err := cancelTx(db, orderID); err != nil {
		return models.Order{}, wrapOrderFailure(err)
	}

	if err := db.Preload("Items").First(&order, orderID).Error; err != nil {
		return models.Order{}, wrapOrderFailure(err)
	}
	return order, nil
}

// cancelTx restores stock and marks the order cancelled. The status is
// re-checked under a lock on the order row so a cancel cannot interleave
// with another lifecycle write on the same order.
func cancelTx(db *gorm.DB, orderID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := lockForUpdate(tx).First(&order, orderID).Error; err != nil {
			return err
		}
		if !order.Status.Cancellable() {
			return models.ErrInvalidTransition
		}

		var items []models.OrderItem
		if err := tx.Where("order_id = ?", orderID).Order("id asc").Find(&items).Error; err != nil {
			return err
		}
		for _, item := range items {
			var book models.Book
			if err := lockForUpdate(tx).First(&book, item.BookID).Error; err != nil {
				return err
			}
			book.Stock += item.Quantity
			if err := tx.Save(&book).Error; err != nil {
				return err
			}
		}

		return tx.Model(&order).Update("status", models.OrderStatusCancelled).Error
	})
}

// SetOrderStatus is the administrative transition. Moving to cancelled runs
// through the stock-restoring path with the same precondition as a user
// cancel; every other transition is a plain status write with no stock side
// effects.
func SetOrderStatus(db *gorm.DB, actor models.Actor, orderID uint, newStatus models.OrderStatus) (models.Order, error) {
	if !actor.Role.CanAdministrate() {
		return models.Order{}, models.ErrUnauthorized
	}
	if !newStatus.Valid() {
		return models.Order{}, models.ErrInvalidStatus
	}

	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, fmt.Errorf("%w: order does not exist", models.ErrValidation)
		}
		return models.Order{}, wrapOrderFailure(err)
	}

	var err error
	if newStatus == models.OrderStatusCancelled {
		err = cancelTx(db, orderID)
	} else {
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := lockForUpdate(tx).First(&order, orderID).Error; err != nil {
				return err
			}
			return tx.Model(&order).Update("status", newStatus).Error
		})
	}
	if err != nil {
		return models.Order{}, wrapOrderFailure(err)
	}

	if err := db.Preload("Items").First(&order, orderID).Error; err != nil {
		return models.Order{}, wrapOrderFailure(err)
	}
	return order, nil
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

func orderErrStatus(err error) int {
	var stockErr *models.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		return http.StatusConflict
	case errors.Is(err, models.ErrEmptyCart),
		errors.Is(err, models.ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrValidation):
		return http.StatusNotFound
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, models.ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func orderErrMessage(err error) string {
	if errors.Is(err, models.ErrOrderCreationFailed) {
		// Cause already logged; keep the surface generic.
		return models.ErrOrderCreationFailed.Error()
	}
	return err.Error()
}

// POST /user/orders (checkout)
func PlaceOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := getActor(c)
		if !ok {
			return
		}

		order, err := PlaceOrder(db, actor)
		if err != nil {
			c.JSON(orderErrStatus(err), gin.H{"error": orderErrMessage(err)})
			return
		}

		logging.From(c).Info("order placed",
			"order_id", order.ID, "order_ref", order.OrderRef, "user_id", actor.UserID)
		broadcastOrderEvent("order_placed", order)
		c.JSON(http.StatusCreated, order)
	}
}

// POST /user/orders/:order_id/cancel
func CancelOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := getActor(c)
		if !ok {
			return
		}
		orderID, err := strconv.ParseUint(c.Param("order_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
			return
		}

		order, err := CancelOrder(db, actor, uint(orderID))
		if err != nil {
			c.JSON(orderErrStatus(err), gin.H{"error": orderErrMessage(err)})
			return
		}

		logging.From(c).Info("order cancelled", "order_id", order.ID, "user_id", actor.UserID)
		broadcastOrderEvent("order_cancelled", order)
		c.JSON(http.StatusOK, order)
	}
}

// GET /user/orders
func GetMyOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := getActor(c)
		if !ok {
			return
		}

		var orders []models.Order
		if err := db.
			Where("user_id = ?", actor.UserID).
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /user/orders/:order_id — owner or admin
func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := getActor(c)
		if !ok {
			return
		}
		id := c.Param("order_id")

		var order models.Order
		// Accepts a numeric id or an order_ref.
		query := db.Preload("Items")
		if n, convErr := strconv.ParseUint(id, 10, 64); convErr == nil {
			query = query.Where("id = ?", n)
		} else {
			query = query.Where("order_ref = ?", id)
		}
		if err := query.First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}

		if order.UserID != actor.UserID && !actor.Role.CanAdministrate() {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not your order"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// GET /admin/orders
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// PUT /admin/orders/:order_id/status
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := getActor(c)
		if !ok {
			return
		}
		orderID, err := strconv.ParseUint(c.Param("order_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
			return
		}

		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		newStatus, err := mapOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		order, err := SetOrderStatus(db, actor, uint(orderID), newStatus)
		if err != nil {
			c.JSON(orderErrStatus(err), gin.H{"error": orderErrMessage(err)})
			return
		}

		logging.From(c).Info("order status updated",
			"order_id", order.ID, "status", order.Status)
		broadcastOrderEvent("order_status_changed", order)
		c.JSON(http.StatusOK, order)
	}
}
