package httpserver

import (
	"log"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// buildRouter wires the storefront routes.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(corsMiddleware(deps.Origins))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{deps: deps, logger: logger, activities: newActivityRegistry()}

	api := router.Group("/api")
	{
		api.GET("/products", h.listProducts)
		api.GET("/products/:category", h.listByCategory)
		api.GET("/products/:category/:id", h.getProduct)
		api.GET("/products/:category/:id/related", h.relatedProducts)
		api.GET("/suggestions", h.suggestions)
	}

	authed := api.Group("", bearerAuth(deps.JWTSecret))
	{
		authed.GET("/cart", h.getCart)
		authed.GET("/cart/summary", h.cartSummary)
		authed.POST("/cart/add", h.addToCart)
		authed.POST("/cart/remove", h.removeFromCart)
		authed.PUT("/cart/update-quantity", h.updateQuantity)
		authed.DELETE("/cart/clear", h.clearCart)
		authed.POST("/cart/save-for-later", h.saveForLater)
		authed.POST("/cart/move-to-cart", h.moveToCart)

		authed.POST("/orders", h.placeOrder)
		authed.GET("/orders/:id/tracking", h.orderTracking)

		authed.POST("/products/:category/:id/price-alert", h.trackPrice)
		authed.DELETE("/products/:category/:id/price-alert", h.stopTrackingPrice)
		authed.GET("/products/:category/:id/price-alert", h.priceAlertStatus)

		authed.POST("/products/:category/:id/viewed", h.markViewed)
		authed.GET("/recently-viewed", h.recentlyViewed)
		authed.POST("/wishlist/:id", h.toggleWishlist)
		authed.GET("/wishlist", h.wishlist)
	}

	router.GET("/orders/my", bearerAuth(deps.JWTSecret), h.myOrders)

	admin := api.Group("/admin", bearerAuth(deps.JWTSecret), adminOnly())
	{
		admin.GET("/orders", h.adminListOrders)
		admin.PUT("/orders/:id", h.adminUpdateOrder)
		admin.DELETE("/orders/:id", h.adminDeleteOrder)
	}

	return router
}

func corsMiddleware(origins string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if origins == "" || origins == "*" {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = strings.Split(origins, ",")
	}
	return cors.New(cfg)
}
