package main

import (
	"time"

	"github.com/el-ostaa/ostaa-api/config"
	"github.com/el-ostaa/ostaa-api/controllers"
	"github.com/el-ostaa/ostaa-api/middleware"
	"github.com/el-ostaa/ostaa-api/models"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}

	for _, origin := range cfg.CORSAllowedOrigins {
		if origin == "*" {
			corsCfg.AllowAllOrigins = true
			return corsCfg
		}
	}
	corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
	corsCfg.AllowCredentials = true
	return corsCfg
}

// setupRouter wires every /api/v1 route
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(cors.New(corsConfig(cfg)))

	auth := middleware.EnsureValidToken(cfg)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)

		// Home page content
		v1.GET("/settings", controllers.GetSettings)
		v1.GET("/categories", controllers.ListCategories)
		v1.GET("/time-slots", controllers.ListTimeSlots)

		// Customer accounts
		v1.POST("/auth/register", controllers.Register)
		v1.POST("/auth/login", controllers.Login)
		v1.POST("/auth/logout", auth, controllers.Logout)
		v1.GET("/session", auth, controllers.GetSession)

		customer := v1.Group("", auth, middleware.RequireRole(models.RoleCustomer))
		{
			customer.POST("/requests", controllers.CreateRequest)
			customer.GET("/requests", controllers.ListMyRequests)
			customer.GET("/profile", controllers.GetMyProfile)
		}

		v1.POST("/technicians", controllers.RegisterTechnician)
		v1.GET("/uploads/:filename", controllers.GetUploadedImage)

		// Quick orders
		v1.GET("/quick-orders", controllers.ListQuickOrders)
		v1.POST("/quick-orders", controllers.CreateQuickOrder)
		v1.GET("/quick-orders/stream", controllers.StreamQuickOrders)

		// Admin gateway
		v1.POST("/admin/login", controllers.AdminLogin)

		admin := v1.Group("/admin", auth, middleware.RequireAdmin())
		{
			admin.GET("/stats", controllers.GetDashboardStats)
			admin.GET("/requests", controllers.ListAdminRequests)
			admin.GET("/requests/:id", controllers.GetRequest)
			admin.PATCH("/requests/:id/status", controllers.UpdateRequestStatus)
			admin.PATCH("/requests/:id/assign", controllers.AssignTechnician)
			admin.GET("/users", controllers.ListUsers)
			admin.PATCH("/users/:id/block", controllers.ToggleUserBlock)
			admin.PATCH("/technicians/:id/approve", controllers.ApproveTechnician)

			manager := admin.Group("", middleware.RequireManager())
			{
				manager.DELETE("/requests/:id", controllers.DeleteRequest)
				manager.GET("/logs", controllers.ListLogs)
				manager.PUT("/passwords", controllers.UpdateAdminPassword)
				manager.PUT("/settings", controllers.UpdateSettings)
				manager.GET("/export", controllers.ExportSnapshot)
				manager.POST("/backup", controllers.CreateBackup)
			}
		}
	}

	return router
}
