package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is owned by the auth service; the cart core only reads it and may
// attach a cart on first add.
type User struct {
	ID       uuid.UUID `gorm:"primaryKey"       json:"id"`
	Username string    `gorm:"unique;not null"  json:"username"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type Cart struct {
	ID     uuid.UUID  `gorm:"primaryKey"           json:"id"`
	UserID uuid.UUID  `gorm:"uniqueIndex;not null" json:"user_id"`
	Items  []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	// Total is derived, recomputed from item totals on mutation.
	Total float64 `json:"total"`
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (Cart) TableName() string {
	return "carts"
}

type CartItem struct {
	ID        uuid.UUID `gorm:"primaryKey"                            json:"id"`
	CartID    uuid.UUID `gorm:"uniqueIndex:idx_cart_product;not null" json:"cart_id"`
	ProductID uuid.UUID `gorm:"uniqueIndex:idx_cart_product;not null" json:"product_id"`
	Quantity  int       `gorm:"default:1;check:quantity>0"            json:"quantity"`
	// Total is quantity * product price at last mutation.
	Total     float64   `json:"total"`
	CreatedAt time.Time `json:"created_at"`
}

func (i *CartItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (CartItem) TableName() string {
	return "cart_items"
}

// Product is read-only from the cart core. Quantity is available stock.
type Product struct {
	ID          uuid.UUID `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null"   json:"name"`
	Description string    `gorm:"not null"   json:"description"`
	Price       float64   `gorm:"not null"   json:"price"`
	Quantity    int       `json:"quantity"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
