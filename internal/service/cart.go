package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shoply/backend/internal/models"
	"github.com/shoply/backend/internal/repo"
)

// CartService owns every cart state transition. The stores behind Repo are
// passive; each operation here is a single read-validate-mutate-write pass.
type CartService struct {
	Repo *repo.GormRepo
}

// AddToCart puts quantity units of the product into the user's cart,
// creating the cart on first use and merging with an existing line for the
// same product. The stock check compares the requested amount against
// available stock directly, not against stock minus what other carts hold.
func (s *CartService) AddToCart(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be greater than 0: %w", ErrInvalidArgument)
	}

	user, err := s.Repo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no user with id %s: %w", userID, ErrUserNotFound)
		}
		return nil, err
	}

	cart, err := s.Repo.GetCartByUser(ctx, user.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		cart = &models.Cart{UserID: user.ID, Total: 0.0}
	}

	product, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no product with id %s: %w", productID, ErrProductNotFound)
		}
		return nil, err
	}

	if product.Quantity < quantity {
		return nil, fmt.Errorf("not enough product in stock: %w", ErrInvalidArgument)
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == product.ID {
			cart.Items[i].Quantity += quantity
			cart.Items[i].Total = float64(cart.Items[i].Quantity) * product.Price
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, models.CartItem{
			CartID:    cart.ID,
			ProductID: product.ID,
			Quantity:  quantity,
			Total:     float64(quantity) * product.Price,
		})
	}

	cart.Total = sumItemTotals(cart.Items)

	return s.Repo.SaveCart(ctx, cart)
}

// RemoveItem deletes one cart line by id. The owning cart's total is left
// as-is, matching the historical behavior; callers see the stale total
// until the next mutation recomputes it.
func (s *CartService) RemoveItem(ctx context.Context, cartItemID uuid.UUID) error {
	if _, err := s.Repo.GetCartItem(ctx, cartItemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("no item with id %s: %w", cartItemID, ErrItemNotFound)
		}
		return err
	}

	if err := s.Repo.DeleteCartItem(ctx, cartItemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("no item with id %s: %w", cartItemID, ErrItemNotFound)
		}
		return err
	}
	return nil
}

// UpdateItemQuantity shifts an existing line's quantity by delta and
// refreshes both the line total and the cart total from the current product
// price. It never creates a line.
func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, productID uuid.UUID, delta int) (*models.CartItem, error) {
	user, err := s.Repo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no user with id %s: %w", userID, ErrUserNotFound)
		}
		return nil, err
	}

	cart, err := s.Repo.GetCartByUser(ctx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no cart for user %s: %w", userID, ErrCartNotFound)
		}
		return nil, err
	}

	product, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no product with id %s: %w", productID, ErrProductNotFound)
		}
		return nil, err
	}

	var item *models.CartItem
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			item = &cart.Items[i]
			break
		}
	}
	if item == nil {
		return nil, fmt.Errorf("product %s not in cart: %w", productID, ErrItemNotFound)
	}

	item.Quantity += delta
	item.Total = product.Price * float64(item.Quantity)

	if err := s.updateCartTotal(ctx, cart); err != nil {
		return nil, err
	}

	return s.Repo.SaveCartItem(ctx, item)
}

// updateCartTotal re-reads the cart record and persists the sum of the
// in-memory item totals onto it.
func (s *CartService) updateCartTotal(ctx context.Context, cart *models.Cart) error {
	if _, err := s.Repo.GetCart(ctx, cart.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("no cart with id %s: %w", cart.ID, ErrCartNotFound)
		}
		return err
	}
	return s.Repo.UpdateCartTotal(ctx, cart.ID, sumItemTotals(cart.Items))
}

// ViewCart returns the stored cart as-is, without recomputing anything.
func (s *CartService) ViewCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	user, err := s.Repo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no user with id %s: %w", userID, ErrUserNotFound)
		}
		return nil, err
	}

	cart, err := s.Repo.GetCartByUser(ctx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no cart for user %s: %w", userID, ErrCartNotFound)
		}
		return nil, err
	}
	return cart, nil
}

// ViewCartItems returns the cart's lines in insertion order.
func (s *CartService) ViewCartItems(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	cart, err := s.ViewCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return cart.Items, nil
}

// ClearCart removes every line and resets the total to zero.
func (s *CartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	cart, err := s.ViewCart(ctx, userID)
	if err != nil {
		return err
	}
	return s.Repo.ClearCart(ctx, cart.ID)
}

func sumItemTotals(items []models.CartItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.Total
	}
	return sum
}
