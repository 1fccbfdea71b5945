package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/el-ostaa/ostaa-api/cache"
	"github.com/el-ostaa/ostaa-api/config"
	"github.com/el-ostaa/ostaa-api/models"
	"github.com/el-ostaa/ostaa-api/services"
	"github.com/gin-gonic/gin"
)

func main() {
	// Basic logging
	log.Println("Starting El Ostaa API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	if err := config.ConnectDatabase(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = services.NewAdminService(db).SeedCredentials(ctx, map[string]string{
		models.AdminRoleManager: cfg.ManagerPassword,
		models.AdminRoleStaff:   cfg.StaffAdminPassword,
	})
	if err != nil {
		log.Fatalf("Failed to seed admin credentials: %v", err)
	}

	redisClient := initRedis(ctx, cfg)
	defer redisClient.Close()
	initStorage(ctx, cfg)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      setupRouter(cfg),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		log.Printf("Server is running on http://localhost:%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	log.Println("Server stopped")
}

// initRedis switches token revocation and the quick order feed to Redis when
// it is configured and reachable. The returned client may be nil.
func initRedis(ctx context.Context, cfg *config.Config) *cache.Client {
	if !cfg.UsesRedis() {
		log.Println("REDIS_ADDR not set, using in-process token store and quick order feed")
		return nil
	}

	client := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := client.Ping(ctx); err != nil {
		log.Printf("Redis unavailable, using in-process token store and quick order feed: %v", err)
		client.Close()
		return nil
	}

	services.SetTokenStore(services.NewRedisTokenStore(client))
	services.SetQuickOrderFeed(services.NewRedisFeed(client))
	log.Printf("Redis connected at %s", cfg.RedisAddr)
	return client
}

// initStorage picks S3 or local disk for technician photos. Backups need S3.
func initStorage(ctx context.Context, cfg *config.Config) {
	if !cfg.UsesS3() {
		services.InitLocalImageService(cfg.UploadDir)
		log.Printf("AWS_S3_BUCKET not set, storing images in %s", cfg.UploadDir)
		return
	}

	s3Service, err := services.InitS3Service(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize S3: %v", err)
	}
	services.InitImageService(s3Service)
	log.Printf("S3 storage initialized (bucket=%s)", cfg.AWSS3Bucket)
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "El Ostaa API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	tables, err := db.Migrator().GetTables()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
