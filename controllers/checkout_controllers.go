package controllers

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joescafe/storefront/cart"
	"github.com/joescafe/storefront/checkout"
	"github.com/joescafe/storefront/utils"
)

// CheckoutController turns a session cart plus the checkout form into a
// persisted order. Receipt images arrive base64-encoded in the JSON body and
// are uploaded before the order is created.
type CheckoutController struct {
	Carts    *cart.Manager
	Orders   checkout.OrderCreator
	Receipts checkout.ReceiptUploader
}

func NewCheckoutController(carts *cart.Manager, orders checkout.OrderCreator, receipts checkout.ReceiptUploader) *CheckoutController {
	return &CheckoutController{Carts: carts, Orders: orders, Receipts: receipts}
}

type checkoutRequest struct {
	checkout.CustomerFields
	ReceiptImage    string `json:"receipt_image"`
	ReceiptFilename string `json:"receipt_filename"`
}

// noticeStatus maps a classified checkout failure onto an HTTP status.
func noticeStatus(n *checkout.Notice) int {
	switch n.Kind {
	case checkout.NoticeOutOfStock:
		return http.StatusConflict
	case checkout.NoticeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusBadGateway
	}
}

// PlaceOrder validates the form against the session cart, runs the
// upload-then-create sequence and, on success, drops the cart session and
// returns the order with its short code and shareable summary.
func (cc *CheckoutController) PlaceOrder(c *gin.Context) {
	token := c.GetHeader(SessionHeader)
	if token == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("missing "+SessionHeader+" header"))
		return
	}
	ct, ok := cc.Carts.Get(token)
	if !ok {
		utils.RespondError(c, http.StatusNotFound, errors.New("cart session not found"))
		return
	}

	var body checkoutRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	req, err := checkout.BuildOrderRequest(ct, body.CustomerFields)
	if err != nil {
		var vErr *checkout.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  false,
				"message": vErr.Message,
				"field":   vErr.Field,
			})
			return
		}
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var receipt []byte
	if body.ReceiptImage != "" {
		receipt, err = base64.StdEncoding.DecodeString(body.ReceiptImage)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("receipt_image is not valid base64"))
			return
		}
	}

	order, notice := checkout.PlaceOrder(c.Request.Context(), cc.Orders, cc.Receipts, req, receipt, body.ReceiptFilename)
	if notice != nil {
		utils.ErrorLogger.Printf("Checkout failed (%s): %s", notice.Kind, notice.Message)
		c.JSON(noticeStatus(notice), gin.H{
			"status":  false,
			"message": notice.Message,
			"kind":    notice.Kind,
		})
		return
	}

	cc.Carts.Drop(token)

	utils.RespondJSON(c, http.StatusCreated, "Order placed", gin.H{
		"order":   order,
		"code":    order.ShortCode(),
		"summary": checkout.SummaryText(order),
	})
}
