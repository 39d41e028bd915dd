package Controllers_test

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/joescafe/storefront/cart"
	"github.com/joescafe/storefront/controllers"
	"github.com/joescafe/storefront/models"
	"github.com/joescafe/storefront/services"
	"github.com/joescafe/storefront/utils"
)

func setupTestDBForCheckout() *gorm.DB {
	db := openTestDB("checkout")
	err := db.AutoMigrate(
		&models.MenuCategory{}, &models.Menu{}, &models.Variation{}, &models.AddOn{},
		&models.Order{}, &models.OrderItem{}, &models.OrderItemAddOn{},
	)
	if err != nil {
		panic(err)
	}

	category := models.MenuCategory{Name: "Coffee"}
	db.Create(&category)
	db.Create(&models.Menu{
		CategoryID:     category.ID,
		Name:           "Iced Latte",
		BasePrice:      decimal.NewFromInt(100),
		Available:      true,
		TrackInventory: true,
		StockQuantity:  3,
	})
	return db
}

type checkoutEnv struct {
	router  *gin.Engine
	orders  *services.OrderService
	uploads *services.ReceiptUploadService
}

func setupCheckoutEnv(db *gorm.DB) *checkoutEnv {
	gin.SetMode(gin.TestMode)
	router := gin.Default()

	carts := cart.NewManager()
	orders := services.NewOrderService(db)
	orders.RateLimitWindow = 0
	uploads := services.NewReceiptUploadService()

	cartCtrl := controllers.NewCartController(db, carts)
	checkoutCtrl := controllers.NewCheckoutController(carts, orders, uploads)

	router.POST("/cart", cartCtrl.CreateSession)
	router.GET("/cart", cartCtrl.GetCart)
	router.POST("/cart/items", cartCtrl.AddItem)
	router.POST("/checkout", checkoutCtrl.PlaceOrder)

	return &checkoutEnv{router: router, orders: orders, uploads: uploads}
}

func postCheckout(t *testing.T, router *gin.Engine, token string, payload map[string]interface{}) *httptest.ResponseRecorder {
	payloadBytes, err := json.Marshal(payload)
	assert.NoError(t, err)
	req, err := http.NewRequest("POST", "/checkout", bytes.NewBuffer(payloadBytes))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(controllers.SessionHeader, token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCheckoutHappyPath(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForCheckout()
	env := setupCheckoutEnv(db)

	token := createCartSession(t, env.router)
	w := addCartItem(t, env.router, token, map[string]interface{}{
		"menu_id":  1,
		"quantity": 2,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = postCheckout(t, env.router, token, map[string]interface{}{
		"customer_name":  "Maria Santos",
		"contact_number": "09171234567",
		"service_type":   "pickup",
		"pickup_time":    "6:30 PM",
		"payment_method": "gcash",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	data := resp["data"].(map[string]interface{})

	code := data["code"].(string)
	assert.Len(t, code, 8)
	assert.Equal(t, strings.ToUpper(code), code)

	summary := data["summary"].(string)
	assert.Contains(t, summary, "Joe's Cafe & Resto ORDER")
	assert.Contains(t, summary, "Order Code: #"+code)
	assert.Contains(t, summary, "2x Iced Latte")

	// Stock went from 3 to 1
	var menu models.Menu
	assert.NoError(t, db.First(&menu, 1).Error)
	assert.Equal(t, 1, menu.StockQuantity)

	// Cart session is gone after a successful checkout
	req, err := http.NewRequest("GET", "/cart", nil)
	assert.NoError(t, err)
	req.Header.Set(controllers.SessionHeader, token)
	w2 := httptest.NewRecorder()
	env.router.ServeHTTP(w2, req)
	assert.Equal(t, http.StatusNotFound, w2.Code)
}

func TestCheckoutValidationReportsField(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForCheckout()
	env := setupCheckoutEnv(db)

	token := createCartSession(t, env.router)
	w := addCartItem(t, env.router, token, map[string]interface{}{
		"menu_id":  1,
		"quantity": 1,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// Delivery without an address
	w = postCheckout(t, env.router, token, map[string]interface{}{
		"customer_name":  "Maria Santos",
		"contact_number": "09171234567",
		"service_type":   "delivery",
		"payment_method": "gcash",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Equal(t, "address", resp["field"])
	assert.Equal(t, "please enter a delivery address", resp["message"])
}

func TestCheckoutEmptyCart(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForCheckout()
	env := setupCheckoutEnv(db)

	token := createCartSession(t, env.router)
	w := postCheckout(t, env.router, token, map[string]interface{}{
		"customer_name":  "Maria Santos",
		"contact_number": "09171234567",
		"service_type":   "pickup",
		"pickup_time":    "6:30 PM",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutOutOfStock(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForCheckout()
	env := setupCheckoutEnv(db)

	token := createCartSession(t, env.router)
	w := addCartItem(t, env.router, token, map[string]interface{}{
		"menu_id":  1,
		"quantity": 5, // only 3 in stock
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = postCheckout(t, env.router, token, map[string]interface{}{
		"customer_name":  "Maria Santos",
		"contact_number": "09171234567",
		"service_type":   "pickup",
		"pickup_time":    "6:30 PM",
		"payment_method": "gcash",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Equal(t, "out_of_stock", resp["kind"])
	assert.Contains(t, resp["message"], "insufficient stock for Iced Latte")

	// Failed checkout keeps the cart
	req, err := http.NewRequest("GET", "/cart", nil)
	assert.NoError(t, err)
	req.Header.Set(controllers.SessionHeader, token)
	w2 := httptest.NewRecorder()
	env.router.ServeHTTP(w2, req)
	assert.Equal(t, http.StatusOK, w2.Code)
}

func TestCheckoutRateLimited(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForCheckout()
	env := setupCheckoutEnv(db)
	env.orders.RateLimitWindow = time.Minute

	place := func() *httptest.ResponseRecorder {
		token := createCartSession(t, env.router)
		w := addCartItem(t, env.router, token, map[string]interface{}{
			"menu_id":  1,
			"quantity": 1,
		})
		assert.Equal(t, http.StatusCreated, w.Code)
		return postCheckout(t, env.router, token, map[string]interface{}{
			"customer_name":  "Maria Santos",
			"contact_number": "09171234567",
			"service_type":   "pickup",
			"pickup_time":    "6:30 PM",
			"payment_method": "gcash",
		})
	}

	assert.Equal(t, http.StatusCreated, place().Code)

	w := place()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Equal(t, "rate_limited", resp["kind"])
	assert.Equal(t, "Too many orders: Please wait 1 minute before placing another order.", resp["message"])
}

func TestCheckoutReceiptUploadSequencing(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForCheckout()
	env := setupCheckoutEnv(db)

	image := base64.StdEncoding.EncodeToString([]byte("fake-jpeg-bytes"))

	// No endpoint configured: the upload fails and no order may be created.
	token := createCartSession(t, env.router)
	w := addCartItem(t, env.router, token, map[string]interface{}{
		"menu_id":  1,
		"quantity": 1,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = postCheckout(t, env.router, token, map[string]interface{}{
		"customer_name":    "Maria Santos",
		"contact_number":   "09170000001",
		"service_type":     "pickup",
		"pickup_time":      "6:30 PM",
		"payment_method":   "gcash",
		"receipt_image":    image,
		"receipt_filename": "receipt.jpg",
	})
	assert.Equal(t, http.StatusBadGateway, w.Code)

	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Equal(t, "upload_failed", resp["kind"])

	var count int64
	assert.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	// With a working endpoint the order carries the hosted URL.
	upstream := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "application/json")
		rw.Write([]byte(`{"secure_url":"https://img.example.com/receipt.jpg"}`))
	}))
	defer upstream.Close()
	env.uploads.Endpoint = upstream.URL

	w = postCheckout(t, env.router, token, map[string]interface{}{
		"customer_name":    "Maria Santos",
		"contact_number":   "09170000001",
		"service_type":     "pickup",
		"pickup_time":      "6:30 PM",
		"payment_method":   "gcash",
		"receipt_image":    image,
		"receipt_filename": "receipt.jpg",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var order models.Order
	assert.NoError(t, db.First(&order).Error)
	assert.NotNil(t, order.ReceiptUrl)
	assert.Equal(t, "https://img.example.com/receipt.jpg", *order.ReceiptUrl)
}
