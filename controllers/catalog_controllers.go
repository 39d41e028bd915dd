package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/joescafe/storefront/models"
	"github.com/joescafe/storefront/pricing"
	"github.com/joescafe/storefront/utils"
)

// CatalogController serves the read-only storefront catalog: categories,
// menus, payment methods and branding.
type CatalogController struct {
	DB *gorm.DB
}

func NewCatalogController(db *gorm.DB) *CatalogController {
	return &CatalogController{DB: db}
}

func (cc *CatalogController) GetCategories(c *gin.Context) {
	var categories []models.MenuCategory
	if err := cc.DB.Order("sort_order asc, name asc").Find(&categories).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of categories", categories)
}

// GetMenus -> full menu with variations, add-ons and the computed discount
// badge percentage.
func (cc *CatalogController) GetMenus(c *gin.Context) {
	var menus []models.Menu
	q := cc.DB.Preload("Category").Preload("Variations").Preload("AddOns")
	if categoryID := c.Query("category_id"); categoryID != "" {
		q = q.Where("category_id = ?", categoryID)
	}
	if err := q.Order("name asc").Find(&menus).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	type menuWithDiscount struct {
		models.Menu
		DiscountPercent *int `json:"discount_percent,omitempty"`
	}
	out := make([]menuWithDiscount, 0, len(menus))
	for _, m := range menus {
		entry := menuWithDiscount{Menu: m}
		if pct, ok := pricing.DiscountPercent(m); ok {
			entry.DiscountPercent = &pct
		}
		out = append(out, entry)
	}

	utils.RespondJSON(c, http.StatusOK, "List of menus", out)
}

func (cc *CatalogController) GetPaymentMethods(c *gin.Context) {
	var methods []models.PaymentMethod
	if err := cc.DB.Where("active = ?", true).Order("sort_order asc").Find(&methods).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of payment methods", methods)
}

func (cc *CatalogController) GetSettings(c *gin.Context) {
	var settings []models.SiteSetting
	if err := cc.DB.Find(&settings).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	out := make(map[string]string, len(settings))
	for _, s := range settings {
		out[s.Key] = s.Value
	}
	utils.RespondJSON(c, http.StatusOK, "Site settings", out)
}
