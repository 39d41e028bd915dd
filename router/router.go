package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/joescafe/storefront/cart"
	"github.com/joescafe/storefront/controllers"
	"github.com/joescafe/storefront/middlewares"
	"github.com/joescafe/storefront/services"
)

// SetupRouter wires all storefront and admin routes onto a fresh engine. The
// strict limiter only covers checkout and login.
func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.NewRateLimiter(100, 60).RateLimit())

	carts := cart.NewManager()
	orderService := services.NewOrderService(db)
	receiptService := services.NewReceiptUploadService()

	catalogController := controllers.NewCatalogController(db)
	cartController := controllers.NewCartController(db, carts)
	checkoutController := controllers.NewCheckoutController(carts, orderService, receiptService)
	orderController := controllers.NewOrderController(orderService)
	userController := controllers.NewUserController(db)

	strict := middlewares.NewStrictRateLimiter()

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	public := r.Group("/api/v1")
	{
		public.GET("/categories", catalogController.GetCategories)
		public.GET("/menus", catalogController.GetMenus)
		public.GET("/payment-methods", catalogController.GetPaymentMethods)
		public.GET("/settings", catalogController.GetSettings)

		public.POST("/cart", cartController.CreateSession)
		public.GET("/cart", cartController.GetCart)
		public.POST("/cart/items", cartController.AddItem)
		public.PATCH("/cart/items/:line_id", cartController.UpdateQuantity)
		public.DELETE("/cart/items/:line_id", cartController.RemoveItem)
		public.DELETE("/cart", cartController.ClearCart)

		public.POST("/checkout", strict, checkoutController.PlaceOrder)
		public.GET("/orders/track", orderController.TrackOrder)

		public.POST("/login", strict, userController.Login)
	}

	admin := r.Group("/api/v1/admin")
	admin.Use(middlewares.AuthMiddleware())
	{
		admin.POST("/register", userController.Register)

		admin.GET("/orders", orderController.GetOrders)
		admin.GET("/orders/export", orderController.ExportOrders)
		admin.PATCH("/orders/:order_id/status", orderController.UpdateStatus)
		admin.DELETE("/orders/:order_id", orderController.DeleteOrder)
	}

	return r
}
