package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/joescafe/storefront/models"
	"github.com/joescafe/storefront/orderview"
	"github.com/joescafe/storefront/services"
	"github.com/joescafe/storefront/utils"
)

// OrderController serves the admin order table and the public order tracker.
type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

func queryFromContext(c *gin.Context) orderview.Query {
	return orderview.Query{
		Search:   c.Query("q"),
		Status:   c.Query("status"),
		DateFrom: c.Query("date_from"),
		DateTo:   c.Query("date_to"),
		SortKey:  c.DefaultQuery("sort", orderview.SortByCreatedAt),
		SortDir:  c.Query("dir"),
	}
}

// GetOrders -> the filtered, sorted admin view plus the completed-order
// aggregates scoped to that same view.
func (oc *OrderController) GetOrders(c *gin.Context) {
	orders, err := oc.Orders.List(c.Request.Context())
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	q := queryFromContext(c)
	view := orderview.DeriveView(orders, q)
	totalSales, completedCount := orderview.CompletedStats(view)

	utils.RespondJSON(c, http.StatusOK, "List of orders", gin.H{
		"orders":          view,
		"total_sales":     totalSales,
		"completed_count": completedCount,
	})
}

// ExportOrders streams the completed orders of the current view as a CSV
// attachment.
func (oc *OrderController) ExportOrders(c *gin.Context) {
	orders, err := oc.Orders.List(c.Request.Context())
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	view := orderview.DeriveView(orders, queryFromContext(c))

	filename := fmt.Sprintf("completed_orders_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	if _, err := orderview.WriteCSV(c.Writer, view); err != nil {
		utils.ErrorLogger.Printf("CSV export failed: %v", err)
	}
}

// UpdateStatus moves an order along its lifecycle.
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.UpdateStatus(c.Request.Context(), c.Param("order_id"), body.Status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
			return
		}
		// Invalid transitions and unknown statuses are both client mistakes.
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

func (oc *OrderController) DeleteOrder(c *gin.Context) {
	if err := oc.Orders.Delete(c.Request.Context(), c.Param("order_id")); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order deleted", nil)
}

// TrackOrder is the public lookup: by the short code from the order summary,
// or by the contact number used at checkout (most recent order wins).
func (oc *OrderController) TrackOrder(c *gin.Context) {
	code := c.Query("code")
	phone := c.Query("phone")
	if code == "" && phone == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("provide a code or phone query parameter"))
		return
	}

	var (
		order *models.Order
		err   error
	)
	if code != "" {
		order, err = oc.Orders.FindByCode(c.Request.Context(), code)
	} else {
		order, err = oc.Orders.FindByPhone(c.Request.Context(), phone)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order found", order)
}
