package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lvcampos/bookstore-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Cart{}, &models.CartItem{}))
	return db
}

func postJSON(t *testing.T, handler gin.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST(path, handler)

	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterAndLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := newTestDB(t)

	w := postJSON(t, RegisterHandler(db), "/auth/register", RegisterRequest{
		Username: "ana",
		Email:    "ana@example.com",
		Password: "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Registration creates the cart alongside the user.
	var user models.User
	require.NoError(t, db.Preload("Cart").Where("email = ?", "ana@example.com").First(&user).Error)
	assert.NotZero(t, user.Cart.CartID)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "secret123", user.PasswordHash)

	// Duplicate username/email is refused.
	w = postJSON(t, RegisterHandler(db), "/auth/register", RegisterRequest{
		Username: "ana",
		Email:    "other@example.com",
		Password: "secret123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Wrong password.
	w = postJSON(t, LoginHandler(db), "/auth/login", LoginRequest{
		Email:    "ana@example.com",
		Password: "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Correct login returns a token carrying the actor claims.
	w = postJSON(t, LoginHandler(db), "/auth/login", LoginRequest{
		Email:    "ana@example.com",
		Password: "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	token, err := jwt.Parse(resp.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.EqualValues(t, user.ID, claims["user_id"])
	assert.Equal(t, "user", claims["role"])
}

func TestChangePasswordRequiresCurrent(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := newTestDB(t)

	w := postJSON(t, RegisterHandler(db), "/auth/register", RegisterRequest{
		Username: "ana",
		Email:    "ana@example.com",
		Password: "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var user models.User
	require.NoError(t, db.Where("email = ?", "ana@example.com").First(&user).Error)

	withActor := func(c *gin.Context) {
		c.Set("actor", user.AsActor())
		ChangePasswordHandler(db)(c)
	}

	w = postJSON(t, withActor, "/user/change-password", ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "newsecret",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(t, withActor, "/user/change-password", ChangePasswordRequest{
		CurrentPassword: "secret123",
		NewPassword:     "newsecret",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The new password logs in.
	w = postJSON(t, LoginHandler(db), "/auth/login", LoginRequest{
		Email:    "ana@example.com",
		Password: "newsecret",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}
