package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"silverarcade/handlers"
	"silverarcade/middleware"
)

// RegisterTableRoutes registers the table catalog and state-machine
// endpoints. The availability listing is public and cached; everything else
// is staff-only.
func RegisterTableRoutes(r *gin.Engine, hb *handlers.HandlerBundle, cacheClient *redis.Client) {
	api := r.Group("/api/tables")
	{
		api.GET("/available", middleware.CacheResponse(cacheClient, "tables"), hb.Tables.Available)

		admin := api.Group("")
		admin.Use(middleware.AuthRequired(), middleware.RequireAdmin())
		admin.GET("", hb.Tables.List)
		admin.GET("/:id", hb.Tables.GetByID)

		mutating := admin.Group("")
		mutating.Use(middleware.InvalidateCache(cacheClient, "tables"))
		mutating.POST("", hb.Tables.Create)
		mutating.PUT("/:id", hb.Tables.Update)
		mutating.PUT("/:id/status", hb.Tables.UpdateStatus)
		mutating.PUT("/:id/transfer", hb.Tables.Transfer)
		mutating.DELETE("/:id", hb.Tables.Delete)
	}
}

// RegisterReservationRoutes registers the reservation lifecycle endpoints.
// Guests create reservations; management operations are staff-only.
func RegisterReservationRoutes(r *gin.Engine, hb *handlers.HandlerBundle, cacheClient *redis.Client) {
	api := r.Group("/api/reservations/:kind")
	{
		// Guests need a resolved user identity to book; only management
		// operations demand the admin role.
		api.POST("", middleware.AuthRequired(), hb.Reservations.Create)

		admin := api.Group("")
		admin.Use(middleware.AuthRequired(), middleware.RequireAdmin())
		admin.GET("", hb.Reservations.List)
		admin.GET("/:id", hb.Reservations.GetByID)
		admin.PUT("/:id", hb.Reservations.Update)

		// Status changes and deletes can reserve or free tables, so they
		// flush the cached availability listing too.
		mutating := admin.Group("")
		mutating.Use(middleware.InvalidateCache(cacheClient, "tables"))
		mutating.PUT("/:id/status", hb.Reservations.UpdateStatus)
		mutating.DELETE("/:id", hb.Reservations.Delete)
	}
}

// RegisterStorageRoutes registers venue media endpoints.
func RegisterStorageRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/storage")
	{
		api.Use(middleware.AuthRequired(), middleware.RequireAdmin())
		api.POST("/upload", hb.Storage.Upload)
		api.DELETE("/:publicId", hb.Storage.Delete)
	}
}

// RegisterHealthRoute registers the health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health.Check)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, cacheClient *redis.Client) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimit())

	RegisterHealthRoute(r, hb)
	RegisterTableRoutes(r, hb, cacheClient)
	RegisterReservationRoutes(r, hb, cacheClient)
	RegisterStorageRoutes(r, hb)
}
