package cartControllers

import (
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/lvcampos/bookstore-api/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// The in-memory database lives on one connection; a single-connection
	// pool keeps every session on it and serializes writers.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Book{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         models.RoleUser,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createBook(t *testing.T, db *gorm.DB, title, price string, stock int) models.Book {
	t.Helper()
	book := models.Book{
		Title:  title,
		Author: "Test Author",
		Price:  decimal.RequireFromString(price),
		Stock:  stock,
	}
	require.NoError(t, db.Create(&book).Error)
	return book
}

func TestGetOrCreateCartIdempotent(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "ana")

	first, err := GetOrCreateCart(db, user.ID)
	require.NoError(t, err)
	second, err := GetOrCreateCart(db, user.ID)
	require.NoError(t, err)

	assert.Equal(t, first.CartID, second.CartID)

	var count int64
	require.NoError(t, db.Model(&models.Cart{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAddItemMergesQuantity(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "ana")
	book := createBook(t, db, "Cien años de soledad", "12.50", 10)
	actor := user.AsActor()

	_, err := AddItem(db, actor, book.ID, 2)
	require.NoError(t, err)
	item, err := AddItem(db, actor, book.ID, 1)
	require.NoError(t, err)

	assert.Equal(t, 3, item.Quantity)

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("book_id = ?", book.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count, "adding the same book twice must not duplicate the line")
}

func TestAddItemInsufficientStockAgainstCombinedQuantity(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "ana")
	book := createBook(t, db, "Rayuela", "10.00", 5)
	actor := user.AsActor()

	_, err := AddItem(db, actor, book.ID, 3)
	require.NoError(t, err)

	// 3 already staged + 3 more = 6 > 5 in stock.
	_, err = AddItem(db, actor, book.ID, 3)
	var stockErr *models.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, book.ID, stockErr.BookID)
	assert.Equal(t, 6, stockErr.Requested)
	assert.Equal(t, 5, stockErr.Available)

	// Nothing changed: stock stays 5, the staged line stays at 3.
	var reloaded models.Book
	require.NoError(t, db.First(&reloaded, book.ID).Error)
	assert.Equal(t, 5, reloaded.Stock)

	var item models.CartItem
	require.NoError(t, db.Where("book_id = ?", book.ID).First(&item).Error)
	assert.Equal(t, 3, item.Quantity)
}

func TestAddItemRejectsBadInput(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "ana")
	book := createBook(t, db, "Ficciones", "8.00", 5)
	actor := user.AsActor()

	_, err := AddItem(db, actor, book.ID, 0)
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = AddItem(db, actor, book.ID, -2)
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = AddItem(db, actor, 9999, 1)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestRemoveItemOwnership(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "ana")
	intruder := createUser(t, db, "eve")
	book := createBook(t, db, "Pedro Páramo", "9.00", 5)

	item, err := AddItem(db, owner.AsActor(), book.ID, 2)
	require.NoError(t, err)

	err = RemoveItem(db, intruder.AsActor(), item.ID)
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	// Still there.
	require.NoError(t, db.First(&models.CartItem{}, item.ID).Error)

	// The owner removes the whole line in one call.
	require.NoError(t, RemoveItem(db, owner.AsActor(), item.ID))
	err = db.First(&models.CartItem{}, item.ID).Error
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestRemoveItemUnknown(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "ana")

	err := RemoveItem(db, user.AsActor(), 12345)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestCartTotal(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "ana")
	actor := user.AsActor()

	cart, err := GetOrCreateCart(db, user.ID)
	require.NoError(t, err)

	total, err := CartTotal(db, cart.CartID)
	require.NoError(t, err)
	assert.True(t, total.IsZero(), "empty cart totals zero, got %s", total)

	cheap := createBook(t, db, "El Aleph", "5.00", 10)
	dear := createBook(t, db, "La ciudad y los perros", "20.00", 10)

	_, err = AddItem(db, actor, cheap.ID, 2)
	require.NoError(t, err)
	_, err = AddItem(db, actor, dear.ID, 1)
	require.NoError(t, err)

	total, err = CartTotal(db, cart.CartID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("30.00")),
		"expected 30.00, got %s", total)
}

func TestClearCartKeepsCartRow(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "ana")
	book := createBook(t, db, "Sobre héroes y tumbas", "11.00", 5)
	actor := user.AsActor()

	_, err := AddItem(db, actor, book.ID, 2)
	require.NoError(t, err)
	require.NoError(t, ClearCart(db, actor))

	cart, err := GetOrCreateCart(db, user.ID)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("cart_id = ?", cart.CartID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}
