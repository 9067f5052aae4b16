package router

import (
	"net/http"

	"github.com/belugagoods/storefront-backend/config"
	"github.com/belugagoods/storefront-backend/internal/app/controller"
	"github.com/belugagoods/storefront-backend/internal/cache"
	"github.com/belugagoods/storefront-backend/internal/metrics"
	"github.com/belugagoods/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

const (
	productsPrefix   = "/api/products"
	categoriesPrefix = "/api/categories"
)

// Controllers groups every HTTP handler the router mounts.
type Controllers struct {
	Auth       *controller.AuthController
	Category   *controller.CategoryController
	Product    *controller.ProductController
	Review     *controller.ReviewController
	Cart       *controller.CartController
	Order      *controller.OrderController
	Community  *controller.CommunityController
	Template   *controller.TemplateController
	Design     *controller.DesignController
	Preference *controller.PreferenceController
	Inquiry    *controller.InquiryController
	Admin      *controller.AdminController
	Upload     *controller.UploadController
	WebSocket  *controller.WebSocketController
}

type Router struct {
	controllers    Controllers
	authMiddleware *middleware.AuthMiddleware
	adminSessions  *middleware.AdminSessions
	cache          cache.Cache
	metrics        *metrics.Metrics
	config         *config.Config
}

// NewRouter wires controllers to routes. metrics may be nil.
func NewRouter(
	controllers Controllers,
	authMiddleware *middleware.AuthMiddleware,
	adminSessions *middleware.AdminSessions,
	responseCache cache.Cache,
	m *metrics.Metrics,
	cfg *config.Config,
) *Router {
	return &Router{
		controllers:    controllers,
		authMiddleware: authMiddleware,
		adminSessions:  adminSessions,
		cache:          responseCache,
		metrics:        m,
		config:         cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	if r.metrics != nil {
		router.Use(middleware.Metrics(r.metrics))
	}
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))
	router.Use(middleware.ClientID(r.config.Admin.SecureCookie))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Beluga goods API is running",
		})
	})
	if r.metrics != nil {
		router.GET("/metrics", gin.WrapH(r.metrics.Handler()))
	}
	router.GET("/ws", r.controllers.WebSocket.HandleWebSocket)

	ctl := r.controllers
	auth := r.authMiddleware
	requireAdmin := r.adminSessions.RequireAdmin(auth)
	cached := middleware.CacheResponse(r.cache, r.config.Cache.TTL, r.metrics)
	invalidateProducts := middleware.InvalidateCache(r.cache, productsPrefix)
	invalidateCatalog := middleware.InvalidateCache(r.cache, productsPrefix, categoriesPrefix)

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", ctl.Auth.Register)
			authGroup.POST("/login", ctl.Auth.Login)
			authGroup.POST("/refresh", ctl.Auth.Refresh)
			authGroup.POST("/logout", auth.Authenticate(), ctl.Auth.Logout)
			authGroup.GET("/me", auth.Authenticate(), ctl.Auth.GetMe)
		}

		categories := api.Group("/categories")
		{
			categories.GET("", cached, ctl.Category.ListCategories)
			categories.POST("", requireAdmin, invalidateCatalog, ctl.Category.CreateCategory)
			categories.POST("/:id/subcategories", requireAdmin, invalidateCatalog, ctl.Category.CreateSubcategory)
		}

		products := api.Group("/products")
		{
			products.GET("", cached, ctl.Product.ListProducts)
			products.GET("/:id", cached, ctl.Product.GetProduct)
			products.POST("", requireAdmin, invalidateProducts, ctl.Product.CreateProduct)
			products.PATCH("/:id", requireAdmin, invalidateProducts, ctl.Product.UpdateProduct)
			products.DELETE("/:id", requireAdmin, invalidateProducts, ctl.Product.DeleteProduct)

			products.POST("/:id/like", auth.Authenticate(), invalidateProducts, ctl.Product.ToggleLike)
			products.GET("/:id/reviews", ctl.Review.ListReviews)
			products.POST("/:id/reviews", auth.Authenticate(), invalidateProducts, ctl.Review.CreateReview)
		}

		cart := api.Group("/cart")
		{
			cart.GET("", ctl.Cart.GetCart)
			cart.POST("", ctl.Cart.AddToCart)
			cart.DELETE("", ctl.Cart.ClearCart)
			cart.POST("/select-all", ctl.Cart.ToggleSelectAll)
			cart.PUT("/:id", ctl.Cart.UpdateCartItem)
			cart.DELETE("/:id", ctl.Cart.RemoveFromCart)
			cart.PATCH("/:id/select", ctl.Cart.ToggleSelection)
		}

		orders := api.Group("/orders")
		orders.Use(auth.Authenticate())
		{
			orders.GET("", ctl.Order.GetOrders)
			orders.POST("", ctl.Order.CreateOrder)
			orders.GET("/:userId", ctl.Order.GetUserOrders)
			orders.GET("/:userId/:orderId", ctl.Order.GetOrder)
		}

		community := api.Group("/community/posts")
		{
			community.GET("", ctl.Community.GetPosts)
			community.POST("", auth.Authenticate(), ctl.Community.CreatePost)
			community.GET("/:id", ctl.Community.GetPost)
			community.POST("/:id/like", auth.Authenticate(), ctl.Community.TogglePostLike)
			community.GET("/:id/comments", ctl.Community.GetComments)
			community.POST("/:id/comments", auth.Authenticate(), ctl.Community.CreateComment)
		}

		templates := api.Group("/templates")
		{
			templates.GET("", ctl.Template.ListTemplates)
			templates.GET("/:id", ctl.Template.GetTemplate)
			templates.POST("/:id/download", ctl.Template.DownloadTemplate)
			templates.POST("", requireAdmin, ctl.Template.CreateTemplate)
		}

		designs := api.Group("/designs")
		designs.Use(auth.OptionalAuthenticate())
		{
			designs.POST("", ctl.Design.CreateDesign)
			designs.GET("/:id", ctl.Design.GetDesign)
			designs.POST("/:id/elements", ctl.Design.AddImage)
			designs.POST("/:id/elements/:elementId/ops", ctl.Design.ApplyOperation)
			designs.POST("/:id/interaction", ctl.Design.Interact)
		}

		api.GET("/preferences", ctl.Preference.GetPreferences)
		api.PUT("/preferences", ctl.Preference.UpdatePreferences)
		api.GET("/search-history", ctl.Preference.GetSearchHistory)
		api.POST("/search-history", ctl.Preference.AddSearchTerm)
		api.DELETE("/search-history", ctl.Preference.DeleteSearchHistory)

		api.POST("/inquiries", ctl.Inquiry.SubmitInquiry)

		admin := api.Group("/admin")
		{
			admin.POST("/login", ctl.Admin.Login)
			admin.POST("/logout", ctl.Admin.Logout)
			admin.GET("/status", ctl.Admin.Status)

			gated := admin.Group("", requireAdmin)
			gated.GET("/products/export", ctl.Product.ExportProducts)
			gated.POST("/products/import", invalidateProducts, ctl.Product.ImportProducts)
			gated.GET("/orders", ctl.Order.ListOrders)
			gated.PATCH("/orders/:id/status", ctl.Order.UpdateOrderStatus)
			gated.POST("/uploads/presigned-url", ctl.Upload.GeneratePresignedURL)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Accept-Language, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Client-ID, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Client-ID, X-Request-ID, X-Cache")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
