package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"

	"rental-booking/internal/handler/api"
	"rental-booking/internal/handler/middleware"
	"rental-booking/internal/pkg/config"
	"rental-booking/internal/pkg/metrics"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type RouterParams struct {
	fx.In

	Engine          *gin.Engine
	Config          config.Config
	Logger          *middleware.Logger
	AuthMiddleware  *middleware.AuthMiddleware
	RateLimiter     *middleware.RateLimiter
	HealthHandler   *api.HealthHandler
	AuthHandler     *api.AuthHandler
	BookingHandler  *api.BookingHandler
	PaymentHandler  *api.PaymentHandler
	PropertyHandler *api.PropertyHandler
}

func NewRouter(p RouterParams) {
	setupMiddleware(p.Engine, p.Config, p.Logger)
	setupRoutes(p)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.Metrics())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(p RouterParams) {
	engine := p.Engine
	engine.GET("/health", p.HealthHandler.Check)
	engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requireAuth := p.AuthMiddleware.RequireAuth()
	limited := p.RateLimiter.Middleware()

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/register", Handler: p.AuthHandler.Register, Mw: []gin.HandlerFunc{limited}},
				{Method: http.MethodPost, Path: "/login", Handler: p.AuthHandler.Login, Mw: []gin.HandlerFunc{limited}},
			})

			authRequired := auth.Group("")
			authRequired.Use(requireAuth)
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "/logout", Handler: p.AuthHandler.Logout},
				{Method: http.MethodGet, Path: "/me", Handler: p.AuthHandler.Me},
			})
		}

		bookings := apiGroup.Group("/booking")
		{
			// public
			addRoutes(bookings, []route{
				{Method: http.MethodGet, Path: "/booked-dates/:propertyId", Handler: p.BookingHandler.BookedDates},
				{Method: http.MethodGet, Path: "/quote/:propertyId", Handler: p.BookingHandler.Quote},
			})

			// limiter runs after auth so buckets are keyed per user
			addRoutes(bookings, []route{
				{Method: http.MethodPost, Path: "/book/:propertyId", Handler: p.BookingHandler.Create, Mw: []gin.HandlerFunc{requireAuth, limited}},
				{Method: http.MethodPut, Path: "/confirm/:id", Handler: p.BookingHandler.Confirm, Mw: []gin.HandlerFunc{requireAuth, limited}},
				{Method: http.MethodPut, Path: "/update/:bookingId", Handler: p.BookingHandler.Update, Mw: []gin.HandlerFunc{requireAuth, limited}},
				{Method: http.MethodDelete, Path: "/cancel/:bookingId", Handler: p.BookingHandler.Cancel, Mw: []gin.HandlerFunc{requireAuth, limited}},
				{Method: http.MethodGet, Path: "/my-bookings", Handler: p.BookingHandler.MyBookings, Mw: []gin.HandlerFunc{requireAuth}},
				{Method: http.MethodGet, Path: "/:bookingId", Handler: p.BookingHandler.Get, Mw: []gin.HandlerFunc{requireAuth}},
			})
		}

		payments := apiGroup.Group("/payment")
		{
			addRoutes(payments, []route{
				{Method: http.MethodPost, Path: "/create-intent", Handler: p.PaymentHandler.CreateIntent, Mw: []gin.HandlerFunc{requireAuth, limited}},
				// authenticated by the provider signature
				{Method: http.MethodPost, Path: "/webhook", Handler: p.PaymentHandler.Webhook},
			})
		}

		properties := apiGroup.Group("/properties")
		{
			addRoutes(properties, []route{
				{Method: http.MethodGet, Path: "", Handler: p.PropertyHandler.List},
				{Method: http.MethodGet, Path: "/:id", Handler: p.PropertyHandler.Get},
				{Method: http.MethodPost, Path: "", Handler: p.PropertyHandler.Create, Mw: []gin.HandlerFunc{requireAuth, limited}},
			})
		}
	}
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
