package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/joescafe/storefront/checkout"
	"github.com/joescafe/storefront/models"
	"github.com/joescafe/storefront/utils"
)

// ErrInvalidTransition is returned when a status update would move an order
// backwards or out of a terminal state.
var ErrInvalidTransition = errors.New("invalid status transition")

// OrderService is the persistence collaborator behind checkout and the admin
// panel. Creation is transactional: stock is checked and decremented together
// with the insert, so two competing orders cannot both take the last item.
type OrderService struct {
	DB *gorm.DB
	// RateLimitWindow throttles repeat orders per contact number. Zero
	// disables the throttle (used by tests).
	RateLimitWindow time.Duration
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{DB: db, RateLimitWindow: time.Minute}
}

// Create persists an assembled order request. It enforces the per-contact
// rate limit, rechecks the request total against its items, and decrements
// stock for inventory-tracked menus. Failures come back as the typed errors
// the checkout classifier understands.
func (s *OrderService) Create(ctx context.Context, req *checkout.OrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, checkout.ErrEmptyCart
	}

	if s.RateLimitWindow > 0 {
		var recent int64
		cutoff := time.Now().Add(-s.RateLimitWindow)
		if err := s.DB.WithContext(ctx).Model(&models.Order{}).
			Where("contact_number = ? AND created_at > ?", req.ContactNumber, cutoff).
			Count(&recent).Error; err != nil {
			return nil, err
		}
		if recent > 0 {
			return nil, checkout.ErrRateLimited
		}
	}

	// The assembler's total is authoritative, but a mismatch against the
	// lines means the payload was tampered with or assembled from a stale
	// cart; reject instead of silently correcting.
	sum := req.Items[0].Subtotal()
	for _, line := range req.Items[1:] {
		sum = sum.Add(line.Subtotal())
	}
	if !sum.Equal(req.Total) {
		return nil, fmt.Errorf("order total %s does not match item sum %s", req.Total.StringFixed(2), sum.StringFixed(2))
	}

	order := &models.Order{
		CustomerName:    req.CustomerName,
		ContactNumber:   req.ContactNumber,
		ServiceType:     req.ServiceType,
		Address:         req.Address,
		PickupTime:      req.PickupTime,
		PartySize:       req.PartySize,
		DineInTime:      req.DineInTime,
		PaymentMethod:   req.PaymentMethod,
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
		ReceiptUrl:      req.ReceiptUrl,
		Total:           req.Total,
		Status:          models.StatusPending,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, line := range req.Items {
			var menu models.Menu
			if err := tx.First(&menu, line.MenuID).Error; err != nil {
				return fmt.Errorf("menu %d not found: %w", line.MenuID, err)
			}
			if menu.TrackInventory {
				if menu.StockQuantity < line.Quantity {
					return &checkout.StockError{
						ItemName:  menu.Name,
						Requested: line.Quantity,
						Available: menu.StockQuantity,
					}
				}
				if err := tx.Model(&models.Menu{}).Where("id = ?", menu.ID).
					Update("stock_quantity", gorm.Expr("stock_quantity - ?", line.Quantity)).Error; err != nil {
					return err
				}
			}

			item := models.OrderItem{
				MenuID:        line.MenuID,
				MenuName:      line.MenuName,
				VariationID:   line.VariationID,
				VariationName: line.VariationName,
				Quantity:      line.Quantity,
				UnitPrice:     line.UnitPrice,
				Subtotal:      line.Subtotal(),
			}
			for _, sel := range line.AddOns {
				item.AddOns = append(item.AddOns, models.OrderItemAddOn{
					AddOnID:  sel.AddOn.ID,
					Name:     sel.AddOn.Name,
					Quantity: sel.Quantity,
					Price:    sel.AddOn.Price,
				})
			}
			order.OrderItems = append(order.OrderItems, item)
		}

		return tx.Create(order).Error
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Order %s created (%s, %s, total %s)",
		order.ShortCode(), order.ServiceType, order.ContactNumber, order.Total.StringFixed(2))
	return order, nil
}

// UpdateStatus moves an order along its lifecycle, rejecting backwards moves
// and changes to completed/cancelled orders.
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) (*models.Order, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("unknown status %q", status)
	}

	var order models.Order
	if err := s.DB.WithContext(ctx).Preload("OrderItems").Preload("OrderItems.AddOns").First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if !models.CanTransition(order.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, status)
	}

	order.Status = status
	order.UpdatedAt = time.Now()
	if err := s.DB.WithContext(ctx).Save(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// Delete removes an order and its items.
func (s *OrderService) Delete(ctx context.Context, id string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var itemIDs []uint
		if err := tx.Model(&models.OrderItem{}).Where("order_id = ?", id).Pluck("id", &itemIDs).Error; err != nil {
			return err
		}
		if len(itemIDs) > 0 {
			if err := tx.Where("order_item_id IN ?", itemIDs).Delete(&models.OrderItemAddOn{}).Error; err != nil {
				return err
			}
			if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Order{}, "id = ?", id).Error
	})
}

// List returns all orders newest first with their items preloaded.
func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.DB.WithContext(ctx).
		Preload("OrderItems").
		Preload("OrderItems.AddOns").
		Order("created_at desc").
		Find(&orders).Error
	return orders, err
}

// FindByCode looks an order up by its full id or the 8-character short code
// customers get on their summary.
func (s *OrderService) FindByCode(ctx context.Context, code string) (*models.Order, error) {
	code = strings.TrimSpace(code)
	var order models.Order

	q := s.DB.WithContext(ctx).Preload("OrderItems").Preload("OrderItems.AddOns")
	if len(code) >= 36 {
		err := q.First(&order, "id = ?", strings.ToLower(code)).Error
		if err != nil {
			return nil, err
		}
		return &order, nil
	}

	err := q.Where("id LIKE ?", "%"+strings.ToLower(code)).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByPhone returns the most recent order for a contact number.
func (s *OrderService) FindByPhone(ctx context.Context, phone string) (*models.Order, error) {
	var order models.Order
	err := s.DB.WithContext(ctx).
		Preload("OrderItems").
		Preload("OrderItems.AddOns").
		Where("contact_number = ?", strings.TrimSpace(phone)).
		Order("created_at desc").
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}
