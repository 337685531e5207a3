package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shoply/backend/internal/models"
)

func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("cart_items.created_at ASC")
	})
}

func (r *GormRepo) GetCart(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := withItems(r.DB.WithContext(ctx)).Where("id = ?", id).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *GormRepo) GetCartByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := withItems(r.DB.WithContext(ctx)).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// SaveCart persists the cart and all of its items in one transaction.
func (r *GormRepo) SaveCart(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(cart).Error
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *GormRepo) UpdateCartTotal(ctx context.Context, cartID uuid.UUID, total float64) error {
	return r.DB.WithContext(ctx).Model(&models.Cart{}).Where("id = ?", cartID).Update("total", total).Error
}

func (r *GormRepo) GetCartItem(ctx context.Context, id uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) SaveCartItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	if err := r.DB.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *GormRepo) DeleteCartItem(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.CartItem
		if err := tx.Where("id = ?", id).First(&item).Error; err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
}

// ClearCart removes every item of the cart and resets its total, atomically,
// so items never outlive the cleared cart.
func (r *GormRepo) ClearCart(ctx context.Context, cartID uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Cart{}).Where("id = ?", cartID).Update("total", 0.0).Error
	})
}
