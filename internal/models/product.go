package models

import "time"

// Product is a stock-keeping item held in the products table.
type Product struct {
	ID       uint    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name     string  `json:"name" gorm:"type:varchar(100);not null"`
	Quantity int     `json:"quantity" gorm:"not null"`
	Price    float64 `json:"price" gorm:"not null"`
}

// ProductInput carries the fields of a product to be created.
type ProductInput struct {
	Name     string  `json:"name" validate:"notblank,max=100"`
	Quantity int     `json:"quantity" validate:"gte=0"`
	Price    float64 `json:"price" validate:"finite,gte=0"`
}

// ProductUpdate is a partial update. A nil field keeps the stored value.
type ProductUpdate struct {
	Name     *string  `json:"name,omitempty"`
	Quantity *int     `json:"quantity,omitempty"`
	Price    *float64 `json:"price,omitempty"`
}

// Apply copies every set field of u onto p.
func (u ProductUpdate) Apply(p *Product) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Quantity != nil {
		p.Quantity = *u.Quantity
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
}

type ProductEventType string

const (
	ProductCreated ProductEventType = "product.created"
	ProductUpdated ProductEventType = "product.updated"
	ProductDeleted ProductEventType = "product.deleted"
)

// ProductEvent describes a change to a stored product. Product is nil for deletions.
type ProductEvent struct {
	ID         string           `json:"id"`
	Type       ProductEventType `json:"type"`
	ProductID  uint             `json:"product_id"`
	Product    *Product         `json:"product,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}
