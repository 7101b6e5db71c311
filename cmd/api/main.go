package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/talentverse/talentverse-backend/internal/database"
	"github.com/talentverse/talentverse-backend/internal/handlers"
	"github.com/talentverse/talentverse-backend/internal/middleware"
	"github.com/talentverse/talentverse-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Get underlying SQL DB instance
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Verification codes live in Redis when available so they survive
	// restarts and are shared across instances; otherwise in memory.
	var codes services.CodeStore
	if err := services.InitRedis(); err != nil {
		log.Printf("Redis unavailable (%v), falling back to in-memory code store", err)
		codes = services.NewMemoryCodeStore()
	} else {
		codes = services.NewRedisCodeStore(services.RedisClient)
	}

	// Initialize Firebase (optional - will log warning if not configured)
	if err := services.InitFirebase(); err != nil {
		log.Printf("Firebase initialization warning: %v", err)
	}

	// Initialize Storage (S3 or local fallback)
	if err := services.InitStorage(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Initialize WebSocket hub
	hub := services.NewHub()
	go hub.Run()

	r := gin.Default()

	// Configure CORS
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))

	// Serve locally stored uploads
	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "./uploads"
	}
	r.Static("/uploads", uploadDir)

	api := r.Group("/api")
	{
		// Public routes
		account := api.Group("/account")
		{
			account.POST("/register", handlers.Register(db))
			account.POST("/login", handlers.Login(db, codes))
			account.POST("/login-2fa", handlers.LoginWith2FA(db, codes))
		}
		api.GET("/skills", handlers.ListSkills(db))
		api.GET("/users/:id/reviews", handlers.ListUserReviews(db))

		// WebSocket connection
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocketHandler(hub))

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			protectedAccount := protected.Group("/account")
			{
				protectedAccount.POST("/request-2fa-code", handlers.RequestTwoFactorCode(db, codes))
				protectedAccount.POST("/enable-2fa", handlers.EnableTwoFactor(db, codes))
				protectedAccount.POST("/disable-2fa", handlers.DisableTwoFactor(db, codes))
				protectedAccount.POST("/enroll-authenticator", handlers.EnrollAuthenticator(db))
			}

			users := protected.Group("/users")
			{
				users.GET("/profile", handlers.GetProfile(db))
				users.PUT("/profile", handlers.UpdateProfile(db))
				users.POST("/profile/picture", handlers.UploadProfilePicture(db))
				users.POST("/device-token", handlers.RegisterDeviceToken(db))
				users.DELETE("/device-token", handlers.RemoveDeviceToken(db))
				users.GET("/me/skills", handlers.ListMySkills(db))
				users.POST("/me/skills", handlers.AddUserSkill(db))
				users.DELETE("/me/skills/:id", handlers.RemoveUserSkill(db))
			}

			protected.POST("/skills", handlers.CreateSkill(db))

			proposals := protected.Group("/proposals")
			{
				proposals.POST("", handlers.CreateProposal(db, hub))
				proposals.GET("/sent", handlers.ListSentProposals(db))
				proposals.GET("/received", handlers.ListReceivedProposals(db))
				proposals.GET("/:id", handlers.GetProposal(db))
				proposals.PATCH("/:id/status", handlers.UpdateProposalStatus(db, hub))
				proposals.POST("/:id/complete", handlers.CompleteProposal(db, hub))
				proposals.GET("/:id/messages", handlers.ListMessages(db))
				proposals.POST("/:id/messages", handlers.SendMessage(db, hub))
				proposals.PATCH("/:id/messages/read", handlers.MarkMessagesRead(db))
				proposals.POST("/:id/reviews", handlers.CreateReview(db))
				proposals.POST("/:id/appointments", handlers.CreateAppointment(db, hub))
			}

			protected.GET("/appointments", handlers.ListMyAppointments(db))

			credits := protected.Group("/credits")
			{
				credits.GET("/balance", handlers.GetCreditBalance(db))
				credits.GET("/history", handlers.GetCreditHistory(db))
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
