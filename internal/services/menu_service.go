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
	ErrMenuItemNotFound = errors.New("menu item not found")
	// ErrNotCanteenStaff means the acting user does not manage the canteen
	// the item belongs to.
	ErrNotCanteenStaff = errors.New("not a staff member of this canteen")
)

type MenuService struct {
	db *gorm.DB
}

func NewMenuService(db *gorm.DB) *MenuService {
	return &MenuService{db: db}
}

func (s *MenuService) ListMenu(canteenID uuid.UUID) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := s.db.Where("canteen_id = ? AND is_available = true", canteenID).
		Order("category, name").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list menu: %w", err)
	}
	return items, nil
}

// canteenFor resolves which canteen the acting user manages. Admins may act
// on any canteen and pass their target explicitly via the item.
func canteenFor(user *models.User) (uuid.UUID, error) {
	if user.CanteenID == nil {
		return uuid.Nil, ErrNotCanteenStaff
	}
	return *user.CanteenID, nil
}

func (s *MenuService) CreateItem(user *models.User, req *dto.CreateMenuItemRequest) (*models.MenuItem, error) {
	if req.Name == "" || req.PriceCents <= 0 {
		return nil, errors.New("item name and a positive price are required")
	}

	canteenID, err := canteenFor(user)
	if err != nil {
		return nil, err
	}

	item := models.MenuItem{
		ID:          uuid.New(),
		CanteenID:   canteenID,
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		IsAvailable: true,
	}
	if err := s.db.Create(&item).Error; err != nil {
		return nil, fmt.Errorf("failed to create menu item: %w", err)
	}
	return &item, nil
}

func (s *MenuService) UpdateItem(user *models.User, id uuid.UUID, req *dto.UpdateMenuItemRequest) (*models.MenuItem, error) {
	item, err := s.ownedItem(user, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.PriceCents != nil {
		if *req.PriceCents <= 0 {
			return nil, errors.New("price must be positive")
		}
		updates["price_cents"] = *req.PriceCents
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.IsAvailable != nil {
		updates["is_available"] = *req.IsAvailable
	}
	if len(updates) == 0 {
		return item, nil
	}

	if err := s.db.Model(item).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update menu item: %w", err)
	}
	return item, nil
}

func (s *MenuService) DeleteItem(user *models.User, id uuid.UUID) error {
	item, err := s.ownedItem(user, id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(item).Error; err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	return nil
}

func (s *MenuService) ownedItem(user *models.User, id uuid.UUID) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := s.db.First(&item, "id = ?", id).Error; err != nil {
		return nil, ErrMenuItemNotFound
	}
	if user.Role != models.RoleAdmin {
		if user.CanteenID == nil || *user.CanteenID != item.CanteenID {
			return nil, ErrNotCanteenStaff
		}
	}
	return &item, nil
}
