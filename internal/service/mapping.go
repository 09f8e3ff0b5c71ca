package service

import (
	"time"

	"github.com/nb2912/inventory/internal/dto"
	"github.com/nb2912/inventory/internal/model"

	"github.com/google/uuid"
)

func userToResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{ID: u.ID.String(), Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt}
}

func itemToResponse(it *model.Item) dto.ItemResponse {
	return dto.ItemResponse{
		ID:             it.ID.String(),
		SerialNo:       it.SerialNo,
		Name:           it.Name,
		Quantity:       it.Quantity,
		Price:          it.Price,
		Category:       it.Category,
		Description:    it.Description,
		AlertThreshold: it.AlertThreshold,
		SupplierID:     uuidString(it.SupplierID),
		CreatedAt:      it.CreatedAt,
		UpdatedAt:      it.UpdatedAt,
	}
}

func itemsToResponse(items []model.Item) []dto.ItemResponse {
	resp := make([]dto.ItemResponse, len(items))
	for i := range items {
		resp[i] = itemToResponse(&items[i])
	}
	return resp
}

func supplierToResponse(s *model.Supplier) dto.SupplierResponse {
	return dto.SupplierResponse{
		ID:            s.ID.String(),
		Name:          s.Name,
		ContactPerson: s.ContactPerson,
		Email:         s.Email,
		Phone:         s.Phone,
		Address:       s.Address,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func movementToResponse(m *model.InventoryMovement) dto.MovementResponse {
	resp := dto.MovementResponse{
		ID:             m.ID.String(),
		ItemID:         m.ItemID.String(),
		MovementType:   m.MovementType,
		QuantityChange: m.QuantityChange,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		Reason:         m.Reason,
		ReferenceID:    uuidString(m.ReferenceID),
		CreatedAt:      m.CreatedAt,
	}
	if m.Item != nil {
		resp.Name = m.Item.Name
		resp.SerialNo = m.Item.SerialNo
	}
	return resp
}

func movementsToResponse(movements []model.InventoryMovement) []dto.MovementResponse {
	resp := make([]dto.MovementResponse, len(movements))
	for i := range movements {
		resp[i] = movementToResponse(&movements[i])
	}
	return resp
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

// actorRef turns the authenticated user id into a nullable column value.
func actorRef(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}

func formatDate(t time.Time) string { return t.Format(dto.DateLayout) }

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatDate(*t)
	return &s
}

// parseDate parses a YYYY-MM-DD value as a UTC calendar date.
func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dto.DateLayout, value)
	if err != nil {
		return time.Time{}, Validation(field + " must be a date in YYYY-MM-DD format.")
	}
	return t, nil
}

func parseID(field, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, Validation("Invalid " + field + ".")
	}
	return id, nil
}
