package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/shoply/backend/internal/middleware/auth"
)

type Deps struct {
	CartHandler   *CartHTTP
	SearchHandler *SearchHTTP
	JWTSecret     []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	mw := authmw.New(d.JWTSecret)

	cart := e.Group("/cart")
	cart.Use(mw.RequireAuth)

	cart.POST("", d.CartHandler.AddToCart)
	cart.GET("", d.CartHandler.ViewCart)
	cart.GET("/items", d.CartHandler.ViewCartItems)
	cart.PATCH("/items", d.CartHandler.UpdateItem)
	cart.DELETE("/:id", d.CartHandler.RemoveItem)
	cart.DELETE("", d.CartHandler.ClearCart)

	products := e.Group("/products")
	products.Use(mw.RequireAuth)

	products.GET("/:id", d.CartHandler.GetProduct)
	if d.SearchHandler != nil {
		products.GET("/search", d.SearchHandler.Search)
	}
}
