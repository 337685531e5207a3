package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/shoply/backend/internal/logging"
)

func (h *CartHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.product")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("get_product_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "invalid id")
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		code := status(err)
		l.Warn("get_product_error", "status", code, "error", err)
		return c.JSON(code, errBody(code, err))
	}

	return c.JSON(http.StatusOK, product)
}
