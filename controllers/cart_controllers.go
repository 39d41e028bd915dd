package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/joescafe/storefront/cart"
	"github.com/joescafe/storefront/models"
	"github.com/joescafe/storefront/pricing"
	"github.com/joescafe/storefront/utils"
)

// SessionHeader carries the opaque cart session token.
const SessionHeader = "X-Cart-Session"

type CartController struct {
	DB    *gorm.DB
	Carts *cart.Manager
}

func NewCartController(db *gorm.DB, carts *cart.Manager) *CartController {
	return &CartController{DB: db, Carts: carts}
}

// CreateSession opens a fresh cart and hands the token back.
func (cc *CartController) CreateSession(c *gin.Context) {
	token, _ := cc.Carts.Create()
	utils.RespondJSON(c, http.StatusCreated, "Cart session created", gin.H{"session": token})
}

func (cc *CartController) session(c *gin.Context) (*cart.Cart, bool) {
	token := c.GetHeader(SessionHeader)
	if token == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("missing "+SessionHeader+" header"))
		return nil, false
	}
	ct, ok := cc.Carts.Get(token)
	if !ok {
		utils.RespondError(c, http.StatusNotFound, errors.New("cart session not found"))
		return nil, false
	}
	return ct, true
}

func cartPayload(ct *cart.Cart) gin.H {
	return gin.H{
		"items":       ct.Lines(),
		"total_price": ct.TotalPrice(),
	}
}

// GetCart -> current lines and derived total.
func (cc *CartController) GetCart(c *gin.Context) {
	ct, ok := cc.session(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart contents", cartPayload(ct))
}

// AddItem resolves the menu, variation and add-ons from the catalog and adds
// the priced line. Identical combinations merge into one line.
func (cc *CartController) AddItem(c *gin.Context) {
	ct, ok := cc.session(c)
	if !ok {
		return
	}

	type addOnReq struct {
		AddOnID  uint `json:"add_on_id" binding:"required"`
		Quantity int  `json:"quantity"`
	}
	type reqBody struct {
		MenuID      uint       `json:"menu_id" binding:"required"`
		Quantity    int        `json:"quantity"`
		VariationID *uint      `json:"variation_id"`
		AddOns      []addOnReq `json:"add_ons"`
	}

	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var menu models.Menu
	if err := cc.DB.Preload("Variations").Preload("AddOns").First(&menu, body.MenuID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu not found"))
		return
	}

	var variation *models.Variation
	if body.VariationID != nil {
		for i := range menu.Variations {
			if menu.Variations[i].ID == *body.VariationID {
				variation = &menu.Variations[i]
				break
			}
		}
		if variation == nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("variation does not belong to this menu"))
			return
		}
	}

	var selected []pricing.SelectedAddOn
	for _, sel := range body.AddOns {
		found := false
		for _, addOn := range menu.AddOns {
			if addOn.ID == sel.AddOnID {
				qty := sel.Quantity
				if qty < 1 {
					qty = 1
				}
				selected = append(selected, pricing.SelectedAddOn{AddOn: addOn, Quantity: qty})
				found = true
				break
			}
		}
		if !found {
			utils.RespondError(c, http.StatusBadRequest, errors.New("add-on does not belong to this menu"))
			return
		}
	}

	line, err := ct.AddItem(menu, body.Quantity, variation, selected)
	if err != nil {
		utils.RespondError(c, http.StatusUnprocessableEntity, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Item added to cart", gin.H{
		"line":        line,
		"total_price": ct.TotalPrice(),
	})
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
func (cc *CartController) UpdateQuantity(c *gin.Context) {
	ct, ok := cc.session(c)
	if !ok {
		return
	}

	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	ct.UpdateQuantity(c.Param("line_id"), body.Quantity)
	utils.RespondJSON(c, http.StatusOK, "Cart updated", cartPayload(ct))
}

func (cc *CartController) RemoveItem(c *gin.Context) {
	ct, ok := cc.session(c)
	if !ok {
		return
	}
	ct.RemoveItem(c.Param("line_id"))
	utils.RespondJSON(c, http.StatusOK, "Item removed", cartPayload(ct))
}

func (cc *CartController) ClearCart(c *gin.Context) {
	ct, ok := cc.session(c)
	if !ok {
		return
	}
	ct.Clear()
	utils.RespondJSON(c, http.StatusOK, "Cart cleared", cartPayload(ct))
}
