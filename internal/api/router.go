package api

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jengzang/fleet-tracker-go/internal/auth"
	"github.com/jengzang/fleet-tracker-go/internal/config"
	"github.com/jengzang/fleet-tracker-go/internal/handler"
	"github.com/jengzang/fleet-tracker-go/internal/logger"
	"github.com/jengzang/fleet-tracker-go/internal/metrics"
	"github.com/jengzang/fleet-tracker-go/internal/middleware"
	"github.com/jengzang/fleet-tracker-go/internal/repository"
	"github.com/jengzang/fleet-tracker-go/internal/service"
	"github.com/jengzang/fleet-tracker-go/pkg/response"
)

// Deps are the collaborators the router is built from.
type Deps struct {
	Config  *config.Config
	DB      *sql.DB
	Log     zerolog.Logger
	Metrics *metrics.Metrics
	// Clock defaults to the system clock.
	Clock service.Clock
}

// SetupRouter 设置路由. Background work started here stops when ctx is done.
func SetupRouter(ctx context.Context, d Deps) *gin.Engine {
	cfg := d.Config
	clock := d.Clock
	if clock == nil {
		clock = service.SystemClock{}
	}
	loc := cfg.Location()

	vehicleRepo := repository.NewVehicleRepository(d.DB)
	tripRepo := repository.NewTripRepository(d.DB)
	userRepo := repository.NewUserRepository(d.DB)

	tokens := auth.NewTokenIssuer(cfg.Auth).WithClock(clock.Now)

	authService := service.NewAuthService(userRepo, tokens, cfg.Auth.BcryptCost, clock, logger.Component(d.Log, "auth"))
	vehicleService := service.NewVehicleService(vehicleRepo, tripRepo, clock, logger.Component(d.Log, "vehicles"))
	statusOpts := []service.StatusOption{service.WithStatusLogger(logger.Component(d.Log, "status"))}
	if d.Metrics != nil {
		statusOpts = append(statusOpts, service.WithStatusObserver(d.Metrics))
	}
	statusService := service.NewStatusService(service.NewSQLTripStore(vehicleRepo, tripRepo), clock, loc, statusOpts...)
	reportService := service.NewReportService(tripRepo, loc, logger.Component(d.Log, "reports"))

	handlerLog := logger.Component(d.Log, "http")
	authHandler := handler.NewAuthHandler(authService, handlerLog)
	userHandler := handler.NewUserHandler(authService, handlerLog)
	vehicleHandler := handler.NewVehicleHandler(vehicleService, statusService, handlerLog)
	reportHandler := handler.NewReportHandler(reportService, clock, handlerLog)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(handlerLog))
	r.Use(middleware.Metrics(d.Metrics))
	r.Use(middleware.CORS())
	r.Use(middleware.SecurityHeaders())

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "route not found")
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		if err := d.DB.PingContext(c.Request.Context()); err != nil {
			response.Error(c, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		response.Success(c, gin.H{"status": "ok"})
	})
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	limiter := middleware.NewRateLimiter(ctx, cfg.RateLimit.Requests, cfg.RateLimit.Window)
	authenticate := middleware.Authenticate(tokens)
	adminOnly := middleware.RequireAdmin()

	v1 := r.Group("/api/v1")
	{
		authGroup := v1.Group("/auth", middleware.RateLimit(limiter))
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		users := v1.Group("/users", authenticate)
		{
			users.GET("", adminOnly, userHandler.List)
			users.GET("/me", userHandler.Me)
		}

		vehicles := v1.Group("/vehicles", authenticate)
		{
			vehicles.GET("", vehicleHandler.List)
			vehicles.GET("/:id", vehicleHandler.Get)
			vehicles.GET("/:id/status", vehicleHandler.Status)
			vehicles.POST("", adminOnly, vehicleHandler.Create)
			vehicles.PUT("/:id", adminOnly, vehicleHandler.Update)
			vehicles.DELETE("/:id", adminOnly, vehicleHandler.Delete)
			vehicles.POST("/:id/trips", adminOnly, vehicleHandler.RecordTrip)
		}

		reports := v1.Group("/reports", authenticate)
		{
			reports.GET("/vehicles", reportHandler.VehicleReport)
		}
	}

	return r
}
