package dto

import "github.com/google/uuid"

type OrderLineRequest struct {
	MenuItemID uuid.UUID `json:"menu_item_id"`
	Quantity   int       `json:"quantity"`
}

type CreateOrderRequest struct {
	CanteenID uuid.UUID          `json:"canteen_id"`
	Items     []OrderLineRequest `json:"items"`
	Note      string             `json:"note"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

type SetRoleRequest struct {
	Role      string     `json:"role"`
	CanteenID *uuid.UUID `json:"canteen_id"`
}

type SetBanRequest struct {
	Banned bool `json:"banned"`
}
