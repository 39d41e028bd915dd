package Controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/joescafe/storefront/controllers"
	"github.com/joescafe/storefront/models"
	"github.com/joescafe/storefront/utils"
)

func setupTestDBForCatalog() *gorm.DB {
	db := openTestDB("catalog")
	err := db.AutoMigrate(
		&models.MenuCategory{}, &models.Menu{}, &models.Variation{}, &models.AddOn{},
		&models.PaymentMethod{}, &models.SiteSetting{},
	)
	if err != nil {
		panic(err)
	}

	coffee := models.MenuCategory{Name: "Coffee", SortOrder: 1}
	db.Create(&coffee)
	pastries := models.MenuCategory{Name: "Pastries", SortOrder: 2}
	db.Create(&pastries)

	discounted := decimal.NewFromInt(80)
	db.Create(&models.Menu{
		CategoryID:    coffee.ID,
		Name:          "Iced Latte",
		BasePrice:     decimal.NewFromInt(100),
		DiscountPrice: &discounted,
		IsOnDiscount:  true,
		Available:     true,
		Variations: []models.Variation{
			{Name: "Large", Price: decimal.NewFromInt(30)},
		},
		AddOns: []models.AddOn{
			{Name: "Extra Shot", Price: decimal.NewFromInt(25), Category: "coffee"},
		},
	})
	db.Create(&models.Menu{
		CategoryID: pastries.ID,
		Name:       "Croissant",
		BasePrice:  decimal.NewFromInt(65),
		Available:  true,
	})

	db.Create(&models.PaymentMethod{Code: "gcash", Label: "GCash", Active: true, SortOrder: 1})
	db.Create(&models.PaymentMethod{Code: "legacy", Label: "Legacy", Active: false, SortOrder: 2})

	db.Create(&models.SiteSetting{Key: "site_name", Value: "Joe's Cafe & Resto"})

	return db
}

func setupCatalogRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	catalogCtrl := controllers.NewCatalogController(db)
	router.GET("/categories", catalogCtrl.GetCategories)
	router.GET("/menus", catalogCtrl.GetMenus)
	router.GET("/payment-methods", catalogCtrl.GetPaymentMethods)
	router.GET("/settings", catalogCtrl.GetSettings)
	return router
}

func TestGetMenusWithDiscountBadge(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForCatalog()
	router := setupCatalogRouter(db)

	req, err := http.NewRequest("GET", "/menus", nil)
	assert.NoError(t, err)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Equal(t, "List of menus", resp["message"])

	menus := resp["data"].([]interface{})
	assert.Len(t, menus, 2)

	var latte map[string]interface{}
	for _, m := range menus {
		entry := m.(map[string]interface{})
		if entry["name"] == "Iced Latte" {
			latte = entry
		}
	}
	assert.NotNil(t, latte)
	// 100 -> 80 is a 20% discount badge
	assert.Equal(t, float64(20), latte["discount_percent"])
	assert.Len(t, latte["variations"].([]interface{}), 1)
	assert.Len(t, latte["add_ons"].([]interface{}), 1)
}

func TestGetMenusFilterByCategory(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForCatalog()
	router := setupCatalogRouter(db)

	req, err := http.NewRequest("GET", "/menus?category_id=2", nil)
	assert.NoError(t, err)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	menus := resp["data"].([]interface{})
	assert.Len(t, menus, 1)
	assert.Equal(t, "Croissant", menus[0].(map[string]interface{})["name"])
}

func TestGetPaymentMethodsOnlyActive(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForCatalog()
	router := setupCatalogRouter(db)

	req, err := http.NewRequest("GET", "/payment-methods", nil)
	assert.NoError(t, err)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	methods := resp["data"].([]interface{})
	assert.Len(t, methods, 1)
	assert.Equal(t, "gcash", methods[0].(map[string]interface{})["code"])
}

func TestGetSettingsAsMap(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForCatalog()
	router := setupCatalogRouter(db)

	req, err := http.NewRequest("GET", "/settings", nil)
	assert.NoError(t, err)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	settings := resp["data"].(map[string]interface{})
	assert.Equal(t, "Joe's Cafe & Resto", settings["site_name"])
}
