package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shoply/backend/internal/models"
)

// GetProduct is the read-only catalog lookup the cart flow depends on.
func (s *CartService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no product with id %s: %w", id, ErrProductNotFound)
		}
		return nil, err
	}
	return product, nil
}
