package httpserver

import (
	"context"
	"net/http"

	"github.com/Skotchmaster/marine_shop/internal/middleware/auth"
	"github.com/Skotchmaster/marine_shop/pkg/logging"
	"github.com/labstack/echo/v4"
)

type Deps struct {
	Products    *CatalogHTTP
	Accessories *CatalogHTTP
	Setups      *CatalogHTTP
	Categories  *CategoryHTTP
	Cart        *CartHTTP
	Orders      *OrderHTTP
	Users       *UserHTTP
	Contact     *ContactHTTP
	Uploads     *UploadHTTP
	Gate        *auth.Gate
	// Ready reports whether the database answers.
	Ready func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				logging.FromContext(c.Request().Context()).Error("ready_check_error", "status", 503, "error", err)
				return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable").SetInternal(err)
			}
		}
		return c.NoContent(http.StatusOK)
	})

	private, admin := d.Gate.RequireAuth, d.Gate.RequireAdmin
	api := e.Group("/api")

	registerCatalog(api.Group("/products"), d.Products, private, admin)
	registerCatalog(api.Group("/accessories"), d.Accessories, private, admin)
	registerCatalog(api.Group("/full-marine-setup"), d.Setups, private, admin)

	categories := api.Group("/categories")
	categories.GET("", d.Categories.List)
	categories.GET("/:id", d.Categories.Get)
	categories.POST("", d.Categories.Create, admin)
	categories.PUT("/:id", d.Categories.Update, admin)
	categories.DELETE("/:id", d.Categories.Delete, admin)

	cart := api.Group("/cart", private)
	cart.GET("", d.Cart.GetCart)
	cart.POST("", d.Cart.AddItem)
	cart.DELETE("", d.Cart.ClearCart)
	cart.PUT("/:productId", d.Cart.SetQuantity)
	cart.DELETE("/:productId", d.Cart.RemoveItem)

	orders := api.Group("/orders")
	orders.POST("", d.Orders.CreateOrder, private)
	orders.GET("", d.Orders.ListAll, admin)
	orders.GET("/myorders", d.Orders.MyOrders, private)
	orders.GET("/:id", d.Orders.GetOrder, private)
	orders.PUT("/:id/pay", d.Orders.Pay, private)
	orders.PUT("/:id/deliver", d.Orders.Deliver, admin)
	orders.PUT("/:id/status", d.Orders.SetStatus, admin)

	users := api.Group("/users")
	users.POST("", d.Users.Register)
	users.POST("/login", d.Users.Login)
	users.POST("/logout", d.Users.Logout)
	users.POST("/forgot-password", d.Users.ForgotPassword)
	users.POST("/verify-otp", d.Users.VerifyOTP)
	users.POST("/reset-password", d.Users.ResetPassword)
	users.GET("/profile", d.Users.Profile, private)
	users.PUT("/profile", d.Users.UpdateProfile, private)
	users.GET("", d.Users.ListUsers, admin)
	users.GET("/:id", d.Users.GetUser, admin)
	users.PUT("/:id", d.Users.UpdateUser, admin)
	users.DELETE("/:id", d.Users.DeleteUser, admin)

	contact := api.Group("/contact")
	contact.POST("", d.Contact.Submit)
	contact.GET("", d.Contact.List, admin)
	contact.DELETE("/:id", d.Contact.Delete, admin)

	if d.Uploads != nil {
		api.POST("/upload", d.Uploads.Upload, admin)
		e.GET("/uploads/*", d.Uploads.Serve)
	}
}

func registerCatalog(g *echo.Group, h *CatalogHTTP, private, admin echo.MiddlewareFunc) {
	g.GET("", h.List)
	g.GET("/top", h.Top)
	g.GET("/search", h.Search)
	g.GET("/:id", h.Get)
	g.POST("", h.Create, admin)
	g.PUT("/:id", h.Update, admin)
	g.DELETE("/:id", h.Delete, admin)
	g.POST("/:id/reviews", h.AddReview, private)
}
