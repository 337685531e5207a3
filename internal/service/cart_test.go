package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shoply/backend/internal/models"
	"github.com/shoply/backend/internal/repo"
)

func newTestService(t *testing.T) (*CartService, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Product{}, &models.Cart{}, &models.CartItem{})
	require.NoError(t, err)

	return &CartService{Repo: &repo.GormRepo{DB: db}}, db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	user := &models.User{Username: username}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) *models.Product {
	product := &models.Product{Name: name, Description: name + " description", Price: price, Quantity: stock}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestAddToCart_CreatesCartLazilyAndMergesLines(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	user := createUser(t, db, "alice")
	product := createProduct(t, db, "tea", 10.0, 5)

	cart, err := svc.AddToCart(ctx, user.ID, product.ID, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	require.Equal(t, 2, cart.Items[0].Quantity)
	require.Equal(t, 20.0, cart.Items[0].Total)
	require.Equal(t, 20.0, cart.Total)

	cart, err = svc.AddToCart(ctx, user.ID, product.ID, 1)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	require.Equal(t, 3, cart.Items[0].Quantity)
	require.Equal(t, 30.0, cart.Items[0].Total)
	require.Equal(t, 30.0, cart.Total)

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestAddToCart_TotalSpansDistinctProducts(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	user := createUser(t, db, "alice")
	tea := createProduct(t, db, "tea", 10.0, 5)
	coffee := createProduct(t, db, "coffee", 4.0, 10)

	_, err := svc.AddToCart(ctx, user.ID, tea.ID, 2)
	require.NoError(t, err)

	cart, err := svc.AddToCart(ctx, user.ID, coffee.ID, 3)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	require.Equal(t, 32.0, cart.Total)
}

func TestAddToCart_RejectsNonPositiveQuantity(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	user := createUser(t, db, "alice")
	product := createProduct(t, db, "tea", 10.0, 5)

	for _, qty := range []int{0, -1} {
		_, err := svc.AddToCart(ctx, user.ID, product.ID, qty)
		require.ErrorIs(t, err, ErrInvalidArgument)
	}

	var count int64
	require.NoError(t, db.Model(&models.Cart{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestAddToCart_RejectsInsufficientStock(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	user := createUser(t, db, "alice")
	product := createProduct(t, db, "tea", 10.0, 2)

	_, err := svc.AddToCart(ctx, user.ID, product.ID, 3)
	require.ErrorIs(t, err, ErrInvalidArgument)

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

// The stock check compares each request against absolute stock, so repeated
// adds can reserve more than is available in total. Documents the current
// behavior, not a guarantee.
func TestAddToCart_StockCheckIgnoresAlreadyReservedQuantity(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	user := createUser(t, db, "alice")
	product := createProduct(t, db, "tea", 10.0, 5)

	_, err := svc.AddToCart(ctx, user.ID, product.ID, 3)
	require.NoError(t, err)

	cart, err := svc.AddToCart(ctx, user.ID, product.ID, 3)
	require.NoError(t, err)
	require.Equal(t, 6, cart.Items[0].Quantity)
}

func TestAddToCart_UnknownUserAndProduct(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	user := createUser(t, db, "alice")
	product := createProduct(t, db, "tea", 10.0, 5)

	_, err := svc.AddToCart(ctx, uuid.New(), product.ID, 1)
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.AddToCart(ctx, user.ID, uuid.New(), 1)
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestRemoveItem(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	user := createUser(t, db, "alice")
	product := createProduct(t, db, "tea", 10.0, 5)

	cart, err := svc.AddToCart(ctx, user.ID, product.ID, 2)
	require.NoError(t, err)
	itemID := cart.Items[0].ID

	require.NoError(t, svc.RemoveItem(ctx, itemID))

	err = db.Where("id = ?", itemID).First(&models.CartItem{}).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRemoveItem_UnknownID(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.RemoveItem(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrItemNotFound)
}

// RemoveItem does not touch the owning cart's total; the stored total stays
// stale until the next mutation recomputes it.
func TestRemoveItem_LeavesCartTotalStale(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	user := createUser(t, db, "alice")
	product := createProduct(t, db, "tea", 10.0, 5)

	cart, err := svc.AddToCart(ctx, user.ID, product.ID, 2)
	require.NoError(t, err)
	require.Equal(t, 20.0, cart.Total)

	require.NoError(t, svc.RemoveItem(ctx, cart.Items[0].ID))

	stored, err := svc.ViewCart(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, stored.Items)
	require.Equal(t, 20.0, stored.Total)
}

func TestUpdateItemQuantity(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	user := createUser(t, db, "alice")
	product := createProduct(t, db, "tea", 10.0, 10)

	_, err := svc.AddToCart(ctx, user.ID, product.ID, 2)
	require.NoError(t, err)

	item, err := svc.UpdateItemQuantity(ctx, user.ID, product.ID, 3)
	require.NoError(t, err)
	require.Equal(t, 5, item.Quantity)
	require.Equal(t, 50.0, item.Total)

	cart, err := svc.ViewCart(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 50.0, cart.Total)
}

func TestUpdateItemQuantity_NegativeDelta(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	user := createUser(t, db, "alice")
	product := createProduct(t, db, "tea", 10.0, 10)

	_, err := svc.AddToCart(ctx, user.ID, product.ID, 5)
	require.NoError(t, err)

	item, err := svc.UpdateItemQuantity(ctx, user.ID, product.ID, -2)
	require.NoError(t, err)
	require.Equal(t, 3, item.Quantity)
	require.Equal(t, 30.0, item.Total)
}

func TestUpdateItemQuantity_UsesCurrentProductPrice(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	user := createUser(t, db, "alice")
	product := createProduct(t, db, "tea", 10.0, 10)

	_, err := svc.AddToCart(ctx, user.ID, product.ID, 2)
	require.NoError(t, err)

	require.NoError(t, db.Model(product).Update("price", 12.0).Error)

	item, err := svc.UpdateItemQuantity(ctx, user.ID, product.ID, 1)
	require.NoError(t, err)
	require.Equal(t, 3, item.Quantity)
	require.Equal(t, 36.0, item.Total)
}

func TestUpdateItemQuantity_ProductNotInCart(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	user := createUser(t, db, "alice")
	tea := createProduct(t, db, "tea", 10.0, 10)
	coffee := createProduct(t, db, "coffee", 4.0, 10)

	_, err := svc.AddToCart(ctx, user.ID, tea.ID, 1)
	require.NoError(t, err)

	_, err = svc.UpdateItemQuantity(ctx, user.ID, coffee.ID, 1)
	require.ErrorIs(t, err, ErrItemNotFound)

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestViewCart_ReturnsStoredCartVerbatim(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	user := createUser(t, db, "alice")
	product := createProduct(t, db, "tea", 10.0, 5)

	cart, err := svc.AddToCart(ctx, user.ID, product.ID, 2)
	require.NoError(t, err)

	// A manually skewed total is returned as stored, not recomputed.
	require.NoError(t, db.Model(&models.Cart{}).Where("id = ?", cart.ID).Update("total", 999.0).Error)

	stored, err := svc.ViewCart(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 999.0, stored.Total)
}

func TestViewCart_Errors(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	_, err := svc.ViewCart(ctx, uuid.New())
	require.ErrorIs(t, err, ErrUserNotFound)

	user := createUser(t, db, "alice")
	_, err = svc.ViewCart(ctx, user.ID)
	require.ErrorIs(t, err, ErrCartNotFound)
}

func TestViewCartItems_InsertionOrder(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	user := createUser(t, db, "alice")
	tea := createProduct(t, db, "tea", 10.0, 5)
	coffee := createProduct(t, db, "coffee", 4.0, 5)

	cart := &models.Cart{UserID: user.ID}
	require.NoError(t, db.Create(cart).Error)

	base := time.Now().UTC()
	second := models.CartItem{CartID: cart.ID, ProductID: coffee.ID, Quantity: 1, Total: 4.0, CreatedAt: base.Add(time.Minute)}
	first := models.CartItem{CartID: cart.ID, ProductID: tea.ID, Quantity: 1, Total: 10.0, CreatedAt: base}
	require.NoError(t, db.Create(&second).Error)
	require.NoError(t, db.Create(&first).Error)

	items, err := svc.ViewCartItems(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, tea.ID, items[0].ProductID)
	require.Equal(t, coffee.ID, items[1].ProductID)
}

func TestClearCart(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	user := createUser(t, db, "alice")
	tea := createProduct(t, db, "tea", 10.0, 5)
	coffee := createProduct(t, db, "coffee", 4.0, 5)

	_, err := svc.AddToCart(ctx, user.ID, tea.ID, 2)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, user.ID, coffee.ID, 1)
	require.NoError(t, err)

	require.NoError(t, svc.ClearCart(ctx, user.ID))

	cart, err := svc.ViewCart(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, cart.Items)
	require.Equal(t, 0.0, cart.Total)

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestClearCart_Errors(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	require.ErrorIs(t, svc.ClearCart(ctx, uuid.New()), ErrUserNotFound)

	user := createUser(t, db, "alice")
	require.ErrorIs(t, svc.ClearCart(ctx, user.ID), ErrCartNotFound)
}

func TestGetProduct(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	product := createProduct(t, db, "tea", 10.0, 5)

	got, err := svc.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, product.ID, got.ID)
	require.Equal(t, 10.0, got.Price)

	_, err = svc.GetProduct(ctx, uuid.New())
	require.ErrorIs(t, err, ErrProductNotFound)
}
