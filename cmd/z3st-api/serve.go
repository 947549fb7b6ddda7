package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/z3st/habits-api/internal/cache"
	"github.com/z3st/habits-api/internal/config"
	"github.com/z3st/habits-api/internal/cron"
	"github.com/z3st/habits-api/internal/handlers"
	"github.com/z3st/habits-api/internal/logger"
	"github.com/z3st/habits-api/internal/middleware"
	"github.com/z3st/habits-api/internal/repository"
	"github.com/z3st/habits-api/internal/service"
	"github.com/z3st/habits-api/pkg/supabase"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long:  `Start the HTTP API server and listen for requests.`,
	RunE:  runServe,
}

var (
	port string
)

func init() {
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Override port from flag if provided
	if port != "" {
		cfg.Server.Port = port
	}

	// Initialize structured logging
	logger.SetDefault(logger.NewSlogLogger(logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
	}))
	log := logger.Default()

	log.Info("starting z3st habits API server",
		logger.String("env", cfg.Server.Env),
		logger.String("port", cfg.Server.Port),
	)

	// Initialize Supabase client
	supabaseClient := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.ServiceKey)

	// Initialize the insights cache; the server runs fine without Redis,
	// insights are just computed on every request.
	var insightsCache *cache.InsightsCache
	if cfg.Redis.Addr != "" {
		insightsCache, err = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Insights.CacheTTL)
		if err != nil {
			log.Warn("insights cache unavailable, continuing without it", logger.Err(err))
			insightsCache = nil
		} else {
			defer insightsCache.Close()
		}
	}

	// Initialize repositories
	habitRepo := repository.NewHabitRepository(supabaseClient)
	checkinRepo := repository.NewCheckinRepository(supabaseClient)

	// Initialize services
	habitService := service.NewHabitService(habitRepo, checkinRepo)
	checkinService := service.NewCheckinService(habitRepo, checkinRepo, insightsCache)
	insightsService := service.NewInsightsService(habitRepo, checkinRepo, insightsCache)
	authService := service.NewAuthService(supabaseClient)

	// Initialize handlers
	habitHandler := handlers.NewHabitHandler(habitService)
	checkinHandler := handlers.NewCheckinHandler(checkinService)
	insightsHandler := handlers.NewInsightsHandler(insightsService)
	authHandler := handlers.NewAuthHandler(authService)

	// Start the background streak-risk sweep
	sweeper := cron.NewRiskSweeper(habitRepo, insightsService, cfg.Risk.SweepSchedule)
	if err := sweeper.Start(); err != nil {
		return fmt.Errorf("failed to start risk sweeper: %w", err)
	}
	defer sweeper.Stop()

	// Set Gin mode based on environment
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg.Server.CORSOrigins))
	router.Use(middleware.SecurityHeaders(cfg.Server.Env))
	router.Use(middleware.Metrics())
	router.Use(middleware.Logger())

	// Health check and metrics
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"env":    cfg.Server.Env,
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.RateLimit())
	{
		// Auth routes
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimitAuth())
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/signup", authHandler.Signup)
			auth.GET("/me", middleware.Auth(supabaseClient, cfg.Auth.JWTSecret), authHandler.Me)
		}

		// Protected routes
		protected := v1.Group("")
		protected.Use(middleware.Auth(supabaseClient, cfg.Auth.JWTSecret))
		{
			// Habit routes
			protected.GET("/habits", habitHandler.GetHabits)
			protected.POST("/habits", habitHandler.CreateHabit)
			protected.GET("/habits/:id", habitHandler.GetHabit)
			protected.PUT("/habits/:id", habitHandler.UpdateHabit)
			protected.DELETE("/habits/:id", habitHandler.DeleteHabit)

			// Check-in routes
			protected.POST("/habits/:id/checkins", checkinHandler.CreateCheckin)
			protected.GET("/habits/:id/checkins", checkinHandler.GetCheckins)

			// Streak and insight routes
			protected.GET("/habits/:id/streak", insightsHandler.GetHabitStreak)
			protected.GET("/habits/:id/insights/days", insightsHandler.GetDayInsights)
			protected.GET("/habits/:id/insights/trends", insightsHandler.GetTrends)
			protected.GET("/habits/:id/insights/survival", insightsHandler.GetSurvival)
			protected.GET("/insights/correlation", insightsHandler.GetCorrelation)

			// Account routes
			protected.GET("/account/streak", insightsHandler.GetAccountStreak)
			protected.GET("/account/risk", insightsHandler.GetRiskReport)
		}
	}

	log.Info("server listening", logger.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
