package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Aisenh037/MBC-sub002/audit"
	"github.com/Aisenh037/MBC-sub002/auth"
	"github.com/Aisenh037/MBC-sub002/cache"
	"github.com/Aisenh037/MBC-sub002/config"
	"github.com/Aisenh037/MBC-sub002/controller"
	"github.com/Aisenh037/MBC-sub002/db"
	logger "github.com/Aisenh037/MBC-sub002/logging"
	"github.com/Aisenh037/MBC-sub002/middleware"
	"github.com/Aisenh037/MBC-sub002/router"
	"github.com/Aisenh037/MBC-sub002/service"
	"github.com/Aisenh037/MBC-sub002/util"
)

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}

	// Initialize logger
	logger.InitLogger(config.GetString("log.dir"))
	defer logger.Sync()

	// Initialize Neo4j
	driver, err := db.NewNeo4jDriver()
	if err != nil {
		logger.Fatal("Failed to initialize Neo4j", zap.Error(err))
	}
	defer driver.Close()

	// Initialize Redis
	redisClient, err := db.NewRedisClient()
	if err != nil {
		logger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer db.CloseRedis(redisClient)

	// Initialize EventBus
	eventBus := util.NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eventBus.Start(ctx)

	// Cache layer over Redis
	store := cache.NewRedisStore(redisClient)
	ttls := cache.TTLs{
		Short:   config.GetDuration("cache.ttl.short"),
		Medium:  config.GetDuration("cache.ttl.medium"),
		Long:    config.GetDuration("cache.ttl.long"),
		Session: config.GetDuration("cache.ttl.session"),
	}
	cacheService := cache.New(store, config.GetString("cache.prefix"), ttls)

	// Token issuer
	issuer := auth.NewTokenIssuer(
		config.GetString("jwt.secret"),
		config.GetString("jwt.issuer"),
		config.GetDuration("jwt.accessTTL"),
		config.GetDuration("jwt.refreshTTL"),
	)

	// Audit trail: Elasticsearch when enabled, a no-op sink otherwise.
	auditService := audit.NewNopService()
	if config.GetBool("elasticsearch.enabled") {
		auditRepository, err := audit.NewElasticsearchRepository(config.GetString("elasticsearch.url"))
		if err != nil {
			logger.Warn("Audit backend unavailable, falling back to no-op", zap.Error(err))
		} else {
			auditService = audit.NewService(auditRepository)
		}
	}

	notificationService := util.NewNotificationService()

	// Initialize services
	services, err := service.InitializeServices(driver, issuer, cacheService, notificationService, eventBus)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}

	// Initialize controllers
	controllers := controller.InitializeControllers(services)

	authMw := middleware.NewAuthMiddleware(issuer, services.UserDAO, services.StudentDAO, auditService)

	// Set up Gin
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := router.SetupRouter(
		controllers,
		authMw,
		cacheService,
		redisClient,
		config.GetInt("ratelimit.requests"),
		config.GetDuration("ratelimit.window"),
	)

	// Set up the server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.GetString("server.port")),
		Handler: engine,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", config.GetString("server.port")))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
