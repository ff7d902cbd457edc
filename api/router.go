package api

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dashboard-service/config"
	"dashboard-service/middleware"
)

// NewRouter builds the read-only query surface. All dashboard endpoints serve
// from the cache; only the forecast endpoint calls upstream live.
func NewRouter(cfg *config.Config, handler *DashboardHandler) *gin.Engine {
	router := gin.Default()
	router.Use(middleware.Prometheus())

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Liveness probes
	router.GET("/", healthCheck)
	router.GET("/health", healthCheck)
	router.GET("/ready", healthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	dashboard := router.Group("/dashboard-api")
	{
		dashboard.GET("/news/world", handler.GetWorldNews)
		dashboard.GET("/news/football", handler.GetFootballNews)
		dashboard.GET("/weather", handler.GetWeather)
		dashboard.GET("/forecast", handler.GetForecast)
		dashboard.GET("/matches", handler.GetMatches)
		dashboard.GET("/health", handler.GetHealth)
		dashboard.POST("/refresh/:job", handler.TriggerRefresh)
	}

	return router
}

// StartServer runs the query surface; it blocks until the listener fails.
func StartServer(cfg *config.Config, handler *DashboardHandler) {
	router := NewRouter(cfg, handler)

	log.Printf("Dashboard API is running at :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(200, gin.H{"status": "healthy", "service": "dashboard-service"})
}
