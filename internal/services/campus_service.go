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
	ErrCampusNotFound  = errors.New("campus not found")
	ErrCanteenNotFound = errors.New("canteen not found")
)

type CampusService struct {
	db *gorm.DB
}

func NewCampusService(db *gorm.DB) *CampusService {
	return &CampusService{db: db}
}

func (s *CampusService) ListCampuses() ([]models.Campus, error) {
	var campuses []models.Campus
	if err := s.db.Order("name").Find(&campuses).Error; err != nil {
		return nil, fmt.Errorf("failed to list campuses: %w", err)
	}
	return campuses, nil
}

func (s *CampusService) CreateCampus(req *dto.CreateCampusRequest) (*models.Campus, error) {
	if req.Name == "" {
		return nil, errors.New("campus name is required")
	}

	campus := models.Campus{
		ID:   uuid.New(),
		Name: req.Name,
		City: req.City,
	}
	if err := s.db.Create(&campus).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.New("campus already exists")
		}
		return nil, fmt.Errorf("failed to create campus: %w", err)
	}
	return &campus, nil
}

func (s *CampusService) ListCanteens(campusID uuid.UUID) ([]models.Canteen, error) {
	var canteens []models.Canteen
	if err := s.db.Where("campus_id = ?", campusID).Order("name").Find(&canteens).Error; err != nil {
		return nil, fmt.Errorf("failed to list canteens: %w", err)
	}
	return canteens, nil
}

func (s *CampusService) CreateCanteen(req *dto.CreateCanteenRequest) (*models.Canteen, error) {
	if req.Name == "" {
		return nil, errors.New("canteen name is required")
	}

	var campus models.Campus
	if err := s.db.First(&campus, "id = ?", req.CampusID).Error; err != nil {
		return nil, ErrCampusNotFound
	}

	canteen := models.Canteen{
		ID:       uuid.New(),
		CampusID: campus.ID,
		Name:     req.Name,
		IsOpen:   true,
	}
	if err := s.db.Create(&canteen).Error; err != nil {
		return nil, fmt.Errorf("failed to create canteen: %w", err)
	}
	return &canteen, nil
}

func (s *CampusService) UpdateCanteen(id uuid.UUID, req *dto.UpdateCanteenRequest) (*models.Canteen, error) {
	var canteen models.Canteen
	if err := s.db.First(&canteen, "id = ?", id).Error; err != nil {
		return nil, ErrCanteenNotFound
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.IsOpen != nil {
		updates["is_open"] = *req.IsOpen
	}
	if len(updates) == 0 {
		return &canteen, nil
	}

	if err := s.db.Model(&canteen).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update canteen: %w", err)
	}
	return &canteen, nil
}
