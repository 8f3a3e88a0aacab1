package services

import (
	"errors"
	"fmt"

	"github.com/campuseats/backend/internal/dto"
	"github.com/campuseats/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserService covers the administrative user-directory operations: role
// assignment and bans. Roles are immutable outside this service.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) List(limit, offset int) ([]models.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var users []models.User
	err := s.db.Omit("password").Order("created_at DESC").
		Limit(limit).Offset(offset).Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *UserService) SetRole(id uuid.UUID, req *dto.SetRoleRequest) (*models.User, error) {
	if !models.ValidRole(req.Role) {
		return nil, errors.New("unknown role: " + req.Role)
	}
	if req.Role == models.RoleCampusStore && req.CanteenID == nil {
		return nil, errors.New("campus_store role requires a canteen_id")
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, ErrUserNotFound
	}

	updates := map[string]interface{}{"role": req.Role}
	if req.Role == models.RoleCampusStore {
		var canteen models.Canteen
		if err := s.db.First(&canteen, "id = ?", *req.CanteenID).Error; err != nil {
			return nil, ErrCanteenNotFound
		}
		updates["canteen_id"] = canteen.ID
	} else {
		updates["canteen_id"] = nil
	}

	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	return &user, nil
}

func (s *UserService) SetBanned(id uuid.UUID, banned bool) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, ErrUserNotFound
	}

	if err := s.db.Model(&user).Update("is_banned", banned).Error; err != nil {
		return nil, fmt.Errorf("failed to update ban flag: %w", err)
	}
	user.IsBanned = banned
	return &user, nil
}
