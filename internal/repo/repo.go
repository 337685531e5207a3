package repo

import (
	"gorm.io/gorm"
)

// GormRepo is the persistence layer for the cart service. All lookups are by
// primary key; mutating methods run inside a transaction so a failed
// operation leaves nothing behind.
type GormRepo struct {
	DB *gorm.DB
}
