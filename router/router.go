package router

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/bims-project/bims-backend/controllers"
	"github.com/bims-project/bims-backend/middlewares"
	"github.com/bims-project/bims-backend/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	// Middleware must be attached before any route is registered; gin
	// snapshots the handler chain per route at registration time.

	// Only image files may be fetched from /uploads
	r.Use(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/uploads/") {
			path := strings.ToLower(c.Request.URL.Path)
			if !strings.HasSuffix(path, ".jpg") &&
				!strings.HasSuffix(path, ".jpeg") &&
				!strings.HasSuffix(path, ".png") &&
				!strings.HasSuffix(path, ".gif") &&
				!strings.HasSuffix(path, ".webp") {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
		}
		c.Next()
	})

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	rateLimiter := middlewares.NewRateLimiter(50, 1)
	r.Use(rateLimiter.RateLimit())

	// Uploaded listing images
	workDir, _ := os.Getwd()
	uploadsPath := filepath.Join(workDir, "public", "uploads")
	r.Static("/uploads", uploadsPath)

	userCtrl := controllers.NewUserController(db)
	listingCtrl := controllers.NewListingController(db)
	adminCtrl := controllers.NewAdminController(db)
	notifCtrl := controllers.NewNotificationController(db)
	chatCtrl := controllers.NewChatController(db)

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "BIMS Backend Running"})
	})

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	authPublic := r.Group("/api/auth")
	authPublic.Use(middlewares.NewStrictRateLimiter())
	{
		authPublic.POST("/register", userCtrl.Register)
		authPublic.POST("/login", userCtrl.Login)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	authed := r.Group("/api")
	authed.Use(middlewares.AuthMiddleware())

	authed.GET("/auth/me", userCtrl.Me)
	authed.POST("/auth/logout", userCtrl.Logout)

	// LISTINGS
	listings := authed.Group("/listings")
	{
		broker := listings.Group("")
		broker.Use(middlewares.RequireRoles(models.RoleBroker))
		{
			broker.POST("/create", listingCtrl.Create)
			broker.GET("/my-listings", listingCtrl.MyListings)
			broker.PUT("/:id", listingCtrl.Update)
			broker.DELETE("/:id", listingCtrl.Delete)
		}

		listings.GET("/approved", middlewares.RequireRoles(models.RoleClient), listingCtrl.Approved)
		listings.GET("/all", middlewares.RequireRoles(models.RoleAdmin), listingCtrl.All)
		listings.PUT("/:id/status", middlewares.RequireRoles(models.RoleAdmin), listingCtrl.UpdateStatus)
	}

	// ADMIN (moderation gateway)
	admin := authed.Group("/admin")
	admin.Use(middlewares.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/stats", adminCtrl.GetDashboardStats)
		admin.GET("/pending-listings", adminCtrl.PendingListings)
		admin.PUT("/approve-listing/:id", adminCtrl.ApproveListing)
		admin.PUT("/reject-listing/:id", adminCtrl.RejectListing)
		admin.GET("/notifications", adminCtrl.SentNotifications)
	}

	// NOTIFICATIONS (any authenticated user, own records only)
	notifs := authed.Group("/notifications")
	{
		notifs.GET("", notifCtrl.MyNotifications)
		notifs.GET("/unread-count", notifCtrl.UnreadCount)
		notifs.PUT("/:notif_id/read", notifCtrl.MarkRead)
	}

	// CHAT
	authed.GET("/chat/history/:listing_id", chatCtrl.History)

	ws := r.Group("/ws")
	ws.Use(middlewares.WebSocketAuthMiddleware())
	{
		ws.GET("/chat", controllers.ChatHandler)
	}

	return r
}
