// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
// The unique index on external_order_id is the storage-level guarantee behind
// duplicate-order prevention; the version column backs the optimistic
// concurrency check performed on every update.
type OrderDTO struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ExternalOrderID string          `gorm:"type:varchar(100);uniqueIndex;not null"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(19,2);not null"`
	Currency        string          `gorm:"type:varchar(3);not null"`
	Status          string          `gorm:"type:varchar(16);index;not null"`
	Version         int64           `gorm:"not null"`
	CreatedAt       time.Time       `gorm:"index;not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
	Items           []OrderItemDTO  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO represents a persisted order line item.
// The subtotal is stored for the read side but recomputed from unit price and
// quantity when the aggregate is restored.
type OrderItemDTO struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductID   string          `gorm:"type:varchar(100);not null"`
	ProductName string          `gorm:"type:varchar(255);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(19,2);not null"`
	Quantity    int             `gorm:"not null"`
	Subtotal    decimal.Decimal `gorm:"type:numeric(19,2);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName specifies the database table name for order line items.
func (OrderItemDTO) TableName() string {
	return "order_items"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	items := aggregate.Items()
	itemDTOs := make([]OrderItemDTO, 0, len(items))
	for _, item := range items {
		itemDTOs = append(itemDTOs, OrderItemDTO{
			ID:          item.ID().Bytes(),
			OrderID:     aggregate.ID().Bytes(),
			ProductID:   item.ProductID().Value(),
			ProductName: item.ProductName(),
			UnitPrice:   item.UnitPrice().Amount(),
			Quantity:    item.Quantity(),
			Subtotal:    item.Subtotal().Amount(),
			CreatedAt:   item.CreatedAt(),
		})
	}

	return OrderDTO{
		ID:              aggregate.ID().Bytes(),
		ExternalOrderID: aggregate.ExternalOrderID().Value(),
		TotalAmount:     aggregate.TotalAmount().Amount(),
		Currency:        aggregate.TotalAmount().Currency(),
		Status:          aggregate.Status().String(),
		Version:         aggregate.Version(),
		CreatedAt:       aggregate.CreatedAt(),
		UpdatedAt:       aggregate.UpdatedAt(),
		Items:           itemDTOs,
	}
}

// toDomain converts a database DTO to an order domain aggregate using
// RestoreOrder, re-validating every stored value on the way in.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	externalOrderID, err := kernel.NewExternalOrderID(dto.ExternalOrderID)
	if err != nil {
		return nil, err
	}

	totalAmount, err := kernel.NewMoney(dto.TotalAmount, dto.Currency)
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	items := make([]*order.OrderItem, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO, dto.Currency)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(
		id, externalOrderID, items, totalAmount, status, dto.Version, dto.CreatedAt, dto.UpdatedAt)
}

func itemToDomain(dto OrderItemDTO, currency string) (*order.OrderItem, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	productID, err := kernel.NewProductID(dto.ProductID)
	if err != nil {
		return nil, err
	}

	unitPrice, err := kernel.NewMoney(dto.UnitPrice, currency)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrderItem(id, productID, dto.ProductName, unitPrice, dto.Quantity, dto.CreatedAt)
}
