package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/harborchat/chat_backend/chat"
	"github.com/harborchat/chat_backend/config"
	"github.com/harborchat/chat_backend/controllers"
	"github.com/harborchat/chat_backend/database"
	"github.com/harborchat/chat_backend/docs"
	"github.com/harborchat/chat_backend/middleware"
	"github.com/harborchat/chat_backend/store"
	"github.com/harborchat/chat_backend/websocket"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Chat API
// @version         1.0
// @description     API Server for Chat Application
// @host            localhost:8080
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	// Real-time core: hub delivers events, the core owns presence,
	// room cache and typing state behind its serialized dispatcher.
	hub := websocket.NewHub()
	core := chat.NewCore(chat.Options{
		Store:        store.NewGormStore(db),
		Emitter:      hub,
		Clock:        chat.SystemClock(),
		IdleTimeout:  cfg.IdleTimeout,
		RingCapacity: cfg.RingCapacity,
		RecentLimit:  cfg.RecentLimit,
	})
	core.LoadRooms(context.Background())

	reaper := chat.NewReaper(core, cfg.SweepInterval)
	go reaper.Run(context.Background())

	// Controllers
	authController := controllers.NewAuthController(db, cfg.JWTSecret)
	roomController := controllers.NewRoomController(db, core)
	messageController := controllers.NewMessageController(db, core)
	userController := controllers.NewUserController(db)

	// Set up Swagger info
	docs.SwaggerInfo.Host = "localhost:" + cfg.Port

	// Set up router
	router := gin.Default()

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Authentication routes
	auth := router.Group("/api")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	// Protected routes
	api := router.Group("/api")
	api.Use(middleware.JWTAuth(cfg.JWTSecret))
	{
		// Room routes
		api.GET("/rooms", roomController.GetRooms)
		api.POST("/rooms", roomController.CreateRoom)
		api.GET("/rooms/:id", roomController.GetRoom)
		api.PUT("/rooms/:id", roomController.UpdateRoom)
		api.DELETE("/rooms/:id", roomController.DeleteRoom)
		api.GET("/rooms/:id/unread", roomController.GetUnreadCount)

		// Message routes
		api.GET("/messages", messageController.GetMessages)
		api.POST("/messages", messageController.CreateMessage)

		// User routes
		api.GET("/users/:id", userController.GetProfile)
	}

	// WebSocket route
	router.GET("/ws", websocket.HandleConnection(hub, core))

	// Start server
	log.Printf("Server running on port %s", cfg.Port)
	log.Printf("Swagger documentation available at http://localhost:%s/swagger/index.html", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
