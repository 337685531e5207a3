package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/shoply/backend/internal/events"
	"github.com/shoply/backend/internal/logging"
	"github.com/shoply/backend/internal/service"
	"github.com/shoply/backend/internal/transport"
)

type CartHTTP struct {
	Svc      *service.CartService
	Producer events.Publisher
}

func (h *CartHTTP) GetID(c echo.Context) (uuid.UUID, error) {
	v := c.Get("user_id")
	s, ok := v.(string)
	if !ok || s == "" {
		return uuid.Nil, errors.New("unauthorized")
	}

	userID, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, errors.New("unauthorized")
	}

	return userID, nil
}

// publish sends a cart event, fire-and-forget; a broker failure is logged
// and never fails the request.
func (h *CartHTTP) publish(c echo.Context, userID uuid.UUID, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "cart_events", userID.String(), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "error", err)
	}
}

// status maps the service error taxonomy onto HTTP statuses: not-found
// kinds to 404, invalid arguments to 400, everything else to 500.
func status(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrCartNotFound),
		errors.Is(err, service.ErrItemNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func errBody(code int, err error) string {
	if code == http.StatusInternalServerError {
		return "internal error"
	}
	return err.Error()
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "add.cart")

	userID, err := h.GetID(c)
	if err != nil {
		l.Error("add_to_cart_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "invalid body")
	}

	cart, err := h.Svc.AddToCart(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		code := status(err)
		l.Warn("add_to_cart_error", "status", code, "error", err)
		return c.JSON(code, errBody(code, err))
	}

	h.publish(c, userID, map[string]any{
		"type":      "add_to_cart",
		"userID":    userID,
		"productID": req.ProductID,
		"quantity":  req.Quantity,
		"total":     cart.Total,
	})

	l.Info("item added to cart")
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) ViewCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "view.cart")

	userID, err := h.GetID(c)
	if err != nil {
		l.Error("view_cart_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := h.Svc.ViewCart(ctx, userID)
	if err != nil {
		code := status(err)
		l.Warn("view_cart_error", "status", code, "error", err)
		return c.JSON(code, errBody(code, err))
	}

	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) ViewCartItems(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "view.cart.items")

	userID, err := h.GetID(c)
	if err != nil {
		l.Error("view_cart_items_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	items, err := h.Svc.ViewCartItems(ctx, userID)
	if err != nil {
		code := status(err)
		l.Warn("view_cart_items_error", "status", code, "error", err)
		return c.JSON(code, errBody(code, err))
	}

	return c.JSON(http.StatusOK, items)
}

func (h *CartHTTP) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "update.cart.item")

	userID, err := h.GetID(c)
	if err != nil {
		l.Error("update_item_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_item_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.UpdateItemQuantity(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		code := status(err)
		l.Warn("update_item_error", "status", code, "error", err)
		return c.JSON(code, errBody(code, err))
	}

	h.publish(c, userID, map[string]any{
		"type":      "quantity_updated",
		"userID":    userID,
		"productID": req.ProductID,
		"quantity":  item.Quantity,
	})

	return c.JSON(http.StatusOK, item)
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "remove.cart.item")

	userID, err := h.GetID(c)
	if err != nil {
		l.Error("remove_item_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("remove_item_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "invalid id")
	}

	if err := h.Svc.RemoveItem(ctx, itemID); err != nil {
		code := status(err)
		l.Warn("remove_item_error", "status", code, "error", err)
		return c.JSON(code, errBody(code, err))
	}

	h.publish(c, userID, map[string]any{
		"type":   "item_removed",
		"userID": userID,
		"itemID": itemID,
	})

	l.Info("item removed from cart")
	return c.NoContent(http.StatusOK)
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "clear.cart")

	userID, err := h.GetID(c)
	if err != nil {
		l.Error("clear_cart_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	if err := h.Svc.ClearCart(ctx, userID); err != nil {
		code := status(err)
		l.Warn("clear_cart_error", "status", code, "error", err)
		return c.JSON(code, errBody(code, err))
	}

	h.publish(c, userID, map[string]any{
		"type":   "cart_cleared",
		"userID": userID,
	})

	l.Info("cart cleared")
	return c.JSON(http.StatusOK, "cart successfully cleared")
}
