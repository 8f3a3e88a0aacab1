package dto

import "github.com/google/uuid"

type CreateCampusRequest struct {
	Name string `json:"name"`
	City string `json:"city"`
}

type CreateCanteenRequest struct {
	CampusID uuid.UUID `json:"campus_id"`
	Name     string    `json:"name"`
}

type UpdateCanteenRequest struct {
	Name   *string `json:"name"`
	IsOpen *bool   `json:"is_open"`
}

type CreateMenuItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	Category    string `json:"category"`
	ImageURL    string `json:"image_url"`
}

type UpdateMenuItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	PriceCents  *int64  `json:"price_cents"`
	Category    *string `json:"category"`
	ImageURL    *string `json:"image_url"`
	IsAvailable *bool   `json:"is_available"`
}
