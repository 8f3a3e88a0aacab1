package services

import (
	"errors"
	"fmt"

	"github.com/campuseats/backend/internal/dto"
	"github.com/campuseats/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrNotOrderOwner     = errors.New("you do not own this order")
	ErrCanteenClosed     = errors.New("canteen is closed")
	ErrEmptyOrder        = errors.New("order has no items")
	ErrItemUnavailable   = errors.New("an item in the order is unavailable")
	ErrInvalidTransition = errors.New("invalid order status transition")
)

type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// Create places an order. Prices come from the live menu rows, never from
// the client; each line snapshots name and unit price into the order item.
func (s *OrderService) Create(userID uuid.UUID, req *dto.CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	var canteen models.Canteen
	if err := s.db.First(&canteen, "id = ?", req.CanteenID).Error; err != nil {
		return nil, ErrCanteenNotFound
	}
	if !canteen.IsOpen {
		return nil, ErrCanteenClosed
	}

	itemIDs := make([]uuid.UUID, 0, len(req.Items))
	for _, line := range req.Items {
		if line.Quantity <= 0 {
			return nil, errors.New("item quantity must be positive")
		}
		itemIDs = append(itemIDs, line.MenuItemID)
	}

	var menuItems []models.MenuItem
	err := s.db.Where("canteen_id = ? AND is_available = true AND id IN ?", canteen.ID, itemIDs).
		Find(&menuItems).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load menu items: %w", err)
	}

	byID := make(map[uuid.UUID]models.MenuItem, len(menuItems))
	for _, item := range menuItems {
		byID[item.ID] = item
	}

	order := models.Order{
		ID:        uuid.New(),
		UserID:    userID,
		CanteenID: canteen.ID,
		Status:    models.OrderPending,
		Note:      req.Note,
	}
	for _, line := range req.Items {
		item, ok := byID[line.MenuItemID]
		if !ok {
			return nil, ErrItemUnavailable
		}
		order.Items = append(order.Items, models.OrderItem{
			ID:         uuid.New(),
			OrderID:    order.ID,
			MenuItemID: item.ID,
			Name:       item.Name,
			PriceCents: item.PriceCents,
			Quantity:   line.Quantity,
		})
		order.TotalCents += item.PriceCents * int64(line.Quantity)
	}

	if err := s.db.Create(&order).Error; err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return &order, nil
}

func (s *OrderService) ListForUser(userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Items").Where("user_id = ?", userID).
		Order("created_at DESC").Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (s *OrderService) ListForCanteen(canteenID uuid.UUID, status string) ([]models.Order, error) {
	q := s.db.Preload("Items").Where("canteen_id = ?", canteenID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var orders []models.Order
	if err := q.Order("created_at").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list canteen orders: %w", err)
	}
	return orders, nil
}

func (s *OrderService) Get(userID, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
		return nil, ErrOrderNotFound
	}
	if order.UserID != userID {
		return nil, ErrNotOrderOwner
	}
	return &order, nil
}

// Cancel lets the owner withdraw an order that the canteen has not started
// preparing yet.
func (s *OrderService) Cancel(userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.Get(userID, orderID)
	if err != nil {
		return nil, err
	}
	return s.transition(order, models.OrderCancelled)
}

// UpdateStatus is the canteen-side lifecycle move. Staff may only touch
// orders of their own canteen.
func (s *OrderService) UpdateStatus(staff *models.User, orderID uuid.UUID, status string) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
		return nil, ErrOrderNotFound
	}
	if staff.Role != models.RoleAdmin {
		if staff.CanteenID == nil || *staff.CanteenID != order.CanteenID {
			return nil, ErrNotCanteenStaff
		}
	}
	return s.transition(&order, status)
}

func (s *OrderService) transition(order *models.Order, to string) (*models.Order, error) {
	if !models.ValidOrderTransition(order.Status, to) {
		return nil, ErrInvalidTransition
	}
	if err := s.db.Model(order).Update("status", to).Error; err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	order.Status = to
	return order, nil
}
