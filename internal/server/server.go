package server

import (
	"context"
	"net/http"
	"time"

	"gymbill/internal/attendance"
	"gymbill/internal/auth"
	"gymbill/internal/billing"
	"gymbill/internal/config"
	"gymbill/internal/email"
	"gymbill/internal/gym"
	"gymbill/internal/invoice"
	"gymbill/internal/member"
	"gymbill/internal/subscription"
	"gymbill/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	srv    *http.Server
	db     *sqlx.DB
	config *config.Config
	email  *email.Service
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(50, 100))

	userHandler := user.NewHandler(db, cfg.JWTSecret)
	gymHandler := gym.NewHandler(db, cfg.DefaultPaymentDeadlineDay)
	memberHandler := member.NewHandler(db)
	billingHandler := billing.NewHandler(db, emailService)
	invoiceHandler := invoice.NewHandler(db, emailService)
	subscriptionHandler := subscription.NewHandler(db)
	attendanceHandler := attendance.NewHandler(db)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.RefreshToken)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)

		protected.GET("/gyms/:gymID", gymHandler.GetGym)

		protected.POST("/members", memberHandler.CreateMember)
		protected.GET("/members", memberHandler.ListMembers)
		protected.GET("/members/expiring", memberHandler.ListExpiring)
		protected.GET("/members/:memberID", memberHandler.GetMember)
		protected.POST("/members/:memberID/renew", memberHandler.RenewMembership)
		protected.GET("/members/:memberID/check-ins", attendanceHandler.ListMemberCheckIns)
		protected.GET("/members/:memberID/subscriptions", subscriptionHandler.ListByMember)

		protected.POST("/billings", billingHandler.Generate)
		protected.GET("/billings", billingHandler.List)
		protected.GET("/billings/:year/:month", billingHandler.Get)
		protected.POST("/billings/:year/:month/payments", billingHandler.RecordPayment)
		protected.POST("/billings/:year/:month/send", billingHandler.Send)
		protected.POST("/billings/:year/:month/finalize", billingHandler.Finalize)

		protected.POST("/invoices", invoiceHandler.Create)
		protected.GET("/invoices", invoiceHandler.List)
		protected.GET("/invoices/:number", invoiceHandler.Get)

		protected.POST("/subscriptions", subscriptionHandler.Enroll)
		protected.POST("/subscriptions/:subID/renew", subscriptionHandler.Renew)
		protected.POST("/subscriptions/:subID/cancel", subscriptionHandler.Cancel)
		protected.GET("/subscriptions/:subID/charge/:year/:month", subscriptionHandler.MonthlyCharge)

		protected.POST("/attendance/check-in", attendanceHandler.CheckIn)
	}

	adminMiddleware := auth.RequireRole("admin")
	admin := router.Group("/admin")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.POST("/gyms", gymHandler.CreateGym)
		admin.GET("/gyms", gymHandler.ListGyms)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	router.GET("/test-email", TestEmail(emailService))

	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		email:  emailService,
	}
}

func (s *Server) Start(port string) error {
	s.srv = &http.Server{
		Addr:              ":" + port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
