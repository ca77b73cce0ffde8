package cart_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"git.sr.ht/~aondrejcak/trendify-api/endpoints/cart"
	"git.sr.ht/~aondrejcak/trendify-api/kernel"
	"git.sr.ht/~aondrejcak/trendify-api/models"
)

func newTestEngine(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.CartItem{}))

	art := &kernel.AppRuntime{
		DatabaseClient: db,
		Diagnostic: &kernel.AppDiagnostic{
			Tracer: otel.Tracer("test-tracer"),
			Meter:  otel.Meter("test-meter"),
		},
	}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("rt", kernel.InitRequest(art, c))
	})
	cart.RegisterController(r)
	return r, db
}

func request(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	return w, parsed
}

func TestAddToCartIncrementsExistingLine(t *testing.T) {
	r, db := newTestEngine(t)
	line := gin.H{"userId": 7, "itemId": "sku-42", "size": "M"}

	w, _ := request(t, r, http.MethodPost, "/cart/add", line)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = request(t, r, http.MethodPost, "/cart/add", line)
	require.Equal(t, http.StatusOK, w.Code)

	var item models.CartItem
	require.NoError(t, db.First(&item, "user_id = ? AND item_id = ? AND size = ?", 7, "sku-42", "M").Error)
	assert.EqualValues(t, 2, item.Quantity, "adding the same line twice bumps the quantity")

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRemoveDecrementsThenDeletes(t *testing.T) {
	r, db := newTestEngine(t)
	line := gin.H{"userId": 7, "itemId": "sku-42", "size": "M"}

	w, _ := request(t, r, http.MethodPost, "/cart/add", line)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = request(t, r, http.MethodPost, "/cart/add", line)
	require.Equal(t, http.StatusOK, w.Code)

	w, body := request(t, r, http.MethodDelete, "/cart/remove", line)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])

	var item models.CartItem
	require.NoError(t, db.First(&item, "user_id = ?", 7).Error)
	assert.EqualValues(t, 1, item.Quantity, "quantity above one decrements instead of deleting")

	w, _ = request(t, r, http.MethodDelete, "/cart/remove", line)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&count).Error)
	assert.EqualValues(t, 0, count, "quantity of one removes the line entirely")
}

func TestRemoveMissingLine(t *testing.T) {
	r, _ := newTestEngine(t)

	w, body := request(t, r, http.MethodDelete, "/cart/remove",
		gin.H{"userId": 7, "itemId": "sku-42", "size": "M"})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["message"], "does not exist")
}

func TestListCartScopedToUser(t *testing.T) {
	r, _ := newTestEngine(t)

	w, _ := request(t, r, http.MethodPost, "/cart/add", gin.H{"userId": 7, "itemId": "sku-42", "size": "M"})
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = request(t, r, http.MethodPost, "/cart/add", gin.H{"userId": 8, "itemId": "sku-43", "size": "L"})
	require.Equal(t, http.StatusOK, w.Code)

	w, body := request(t, r, http.MethodGet, "/cart/list/7", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, body["count"])
}
