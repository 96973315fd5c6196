package routes

import (
	"github.com/Ram-SrinivasChandran/cos-spring-project/controllers"
	"github.com/Ram-SrinivasChandran/cos-spring-project/middlewares"
	"github.com/Ram-SrinivasChandran/cos-spring-project/ws"

	"github.com/gin-gonic/gin"
)

type Deps struct {
	JWTSecret string
	Auth      *controllers.AuthController
	Orders    *controllers.OrderController
	Hub       *ws.OrderHub // optional
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	authMW := middlewares.AuthMiddleware(d.JWTSecret)

	// Auth (public)
	a := r.Group("/auth")
	{
		a.POST("/register", d.Auth.Register)
		a.POST("/login", d.Auth.Login)
		a.GET("/me", authMW, d.Auth.Me)
	}

	o := r.Group("/orders", authMW)
	{
		o.GET("/foodMenus", d.Orders.FoodMenus)

		o.POST("", d.Orders.Create)
		o.GET("/:id", d.Orders.Detail)
		o.PUT("/:id", d.Orders.Update)

		o.POST("/address", d.Orders.CreateAddress)
		o.GET("/address", d.Orders.ListAddresses)

		o.PUT("/placeOrder/:id", d.Orders.PlaceOrder)
		o.PUT("/cancelOrder/:id", d.Orders.CancelOrder)
		o.PUT("/orderPrepared/:id", d.Orders.OrderPrepared)
		o.PUT("/pendingDelivery/:id", d.Orders.PendingDelivery)
		o.PUT("/orderDelivered/:id", d.Orders.OrderDelivered)

		o.GET("/activeOrders", d.Orders.ActiveOrders)
		o.GET("/cancelledOrders", d.Orders.CancelledOrders)
		o.GET("/completedOrders", d.Orders.CompletedOrders)
		o.GET("/receivedOrder/:id", d.Orders.ReceivedOrder)
		o.GET("/cancelledOrder/:id", d.Orders.CancelledOrder)
		o.GET("/completedOrder/:id", d.Orders.CompletedOrder)
	}

	if d.Hub != nil {
		r.GET("/ws/orders/:id", middlewares.WSAuthMiddleware(d.JWTSecret), d.Hub.HandleWebSocket)
	}
}
