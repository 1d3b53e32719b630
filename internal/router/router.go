package router

import (
	"net/http"

	"github.com/chengtian/temple-backend/config"
	"github.com/chengtian/temple-backend/internal/app/controller"
	apperrors "github.com/chengtian/temple-backend/internal/errors"
	"github.com/chengtian/temple-backend/internal/middleware"
	"github.com/chengtian/temple-backend/internal/ratelimit"
	"github.com/chengtian/temple-backend/internal/session"
	"github.com/chengtian/temple-backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Controllers groups every handler set the router mounts. Upload may be nil
// when no bucket is configured.
type Controllers struct {
	Order    *controller.OrderController
	Feedback *controller.FeedbackController
	Shipment *controller.ShipmentController
	Product  *controller.ProductController
	Content  *controller.ContentController
	Auth     *controller.AuthController
	Line     *controller.LineController
	Export   *controller.ExportController
	Upload   *controller.UploadController
	Events   *controller.EventsController
}

type Router struct {
	controllers  Controllers
	sessions     *session.Manager
	limiter      ratelimit.Limiter
	loginLimiter ratelimit.Limiter
	storeEnabled bool
	config       *config.Config
}

func NewRouter(
	controllers Controllers,
	sessions *session.Manager,
	limiter ratelimit.Limiter,
	loginLimiter ratelimit.Limiter,
	storeEnabled bool,
	cfg *config.Config,
) *Router {
	return &Router{
		controllers:  controllers,
		sessions:     sessions,
		limiter:      limiter,
		loginLimiter: loginLimiter,
		storeEnabled: storeEnabled,
		config:       cfg,
	}
}

// store prefixes handlers with the unavailable guard when no database is
// configured.
func (r *Router) store(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	if r.storeEnabled {
		return handlers
	}
	return append([]gin.HandlerFunc{middleware.Unavailable(apperrors.MsgStoreUnavailable)}, handlers...)
}

// byID validates the :id parameter before the store guard and handler.
func (r *Router) byID(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	return append([]gin.HandlerFunc{middleware.ValidateID("id")}, r.store(handlers...)...)
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	// 빈 목록이면 X-Forwarded-For 를 무시하고 RemoteAddr 를 사용
	if err := router.SetTrustedProxies(r.config.Server.TrustedProxies); err != nil {
		logger.Error("Invalid TRUSTED_PROXIES, ignoring forwarded headers", err)
		_ = router.SetTrustedProxies(nil)
	}

	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.CORSMiddleware(r.config.CORS.AllowedOrigins))
	router.Use(middleware.SessionMiddleware(r.sessions))
	if r.limiter != nil {
		router.Use(middleware.RateLimit(r.limiter))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"database": r.storeEnabled,
		})
	})

	ctrl := r.controllers
	api := router.Group("/api")

	// Public
	{
		api.GET("/announcements", r.store(ctrl.Content.ListAnnouncements)...)
		api.GET("/faq", r.store(ctrl.Content.ListFAQ)...)
		api.GET("/faq/categories", r.store(ctrl.Content.FAQCategories)...)
		api.GET("/links", r.store(ctrl.Content.ListLinks)...)
		api.GET("/products", r.store(ctrl.Product.ListProducts)...)
		api.GET("/fund-settings", r.store(ctrl.Content.GetFundSettings)...)

		api.POST("/orders", r.store(ctrl.Order.CreateOrder)...)
		api.GET("/donations/public", r.store(ctrl.Order.PublicDonations)...)

		api.POST("/feedback", append([]gin.HandlerFunc{middleware.RequireLineUser()}, r.store(ctrl.Feedback.SubmitFeedback)...)...)
		api.GET("/feedback/public", r.store(ctrl.Feedback.ListPublic)...)

		api.GET("/captcha", ctrl.Shipment.Captcha)
		api.GET("/shipclothes/calc-date", ctrl.Shipment.CalcDate)
		api.POST("/shipclothes", r.store(ctrl.Shipment.Submit)...)
		api.GET("/shipclothes/list", r.store(ctrl.Shipment.ListWindow)...)
	}

	// Sessions
	{
		api.POST("/login", middleware.RateLimit(r.loginLimiter), ctrl.Auth.Login)
		api.POST("/logout", ctrl.Auth.Logout)
		api.GET("/session_check", ctrl.Auth.SessionCheck)

		api.GET("/line/login", ctrl.Line.Login)
		api.GET("/line/callback", r.store(ctrl.Line.Callback)...)
		api.GET("/user/me", middleware.RequireLineUser(), ctrl.Line.Me)
		api.POST("/user/logout", ctrl.Line.Logout)
	}

	admin := api.Group("")
	admin.Use(middleware.RequireAdmin(), middleware.RequireCSRF())
	{
		orders := admin.Group("/orders")
		orders.GET("", r.store(ctrl.Order.ListOrders)...)
		orders.GET("/export", r.store(ctrl.Export.ExportOrders)...)
		orders.POST("/cleanup/pending", r.store(ctrl.Order.CleanupPending)...)
		orders.POST("/cleanup/shipped", r.store(ctrl.Order.CleanupShipped)...)
		orders.GET("/:id", r.byID(ctrl.Order.GetOrder)...)
		orders.PUT("/:id/confirm", r.byID(ctrl.Order.ConfirmPayment)...)
		orders.PUT("/:id/ship", r.byID(ctrl.Order.ShipOrder)...)
		orders.POST("/:id/resend-email", r.byID(ctrl.Order.ResendEmail)...)
		orders.DELETE("/:id", r.byID(ctrl.Order.DeleteOrder)...)

		feedback := admin.Group("/feedback")
		feedback.GET("/pending", r.store(ctrl.Feedback.ListPending)...)
		feedback.GET("/approved", r.store(ctrl.Feedback.ListApproved)...)
		feedback.GET("/sent", r.store(ctrl.Feedback.ListSent)...)
		feedback.GET("/export-unmarked", r.store(ctrl.Export.ExportUnmarkedFeedback)...)
		feedback.PUT("/mark-all-approved", r.store(ctrl.Feedback.MarkAllApproved)...)
		feedback.PUT("/:id/approve", r.byID(ctrl.Feedback.Approve)...)
		feedback.PUT("/:id/ship", r.byID(ctrl.Feedback.Ship)...)
		feedback.PUT("/:id/mark", r.byID(ctrl.Feedback.Mark)...)
		feedback.DELETE("/:id", r.byID(ctrl.Feedback.Delete)...)

		admin.GET("/shipclothes", r.store(ctrl.Shipment.ListAll)...)
		admin.GET("/shipclothes/export", r.store(ctrl.Export.ExportShipments)...)

		admin.POST("/announcements", r.store(ctrl.Content.CreateAnnouncement)...)
		admin.PUT("/announcements/:id", r.byID(ctrl.Content.UpdateAnnouncement)...)
		admin.DELETE("/announcements/:id", r.byID(ctrl.Content.DeleteAnnouncement)...)

		admin.POST("/faq", r.store(ctrl.Content.CreateFAQ)...)
		admin.DELETE("/faq/:id", r.byID(ctrl.Content.DeleteFAQ)...)

		admin.POST("/links", r.store(ctrl.Content.CreateLink)...)
		admin.PUT("/links/:id", r.byID(ctrl.Content.UpdateLink)...)

		admin.POST("/products", r.store(ctrl.Product.CreateProduct)...)
		admin.PUT("/products/:id", r.byID(ctrl.Product.UpdateProduct)...)
		admin.DELETE("/products/:id", r.byID(ctrl.Product.DeleteProduct)...)

		admin.POST("/fund-settings", r.store(ctrl.Content.UpdateFundSettings)...)
		admin.PUT("/fund-settings", r.store(ctrl.Content.UpdateFundSettings)...)

		if ctrl.Upload != nil {
			admin.POST("/upload/presigned-url", ctrl.Upload.GeneratePresignedURL)
		} else {
			admin.POST("/upload/presigned-url", middleware.Unavailable(apperrors.MsgUploadDisabled))
		}

		admin.GET("/admin/events", ctrl.Events.Stream)
	}

	return router
}
