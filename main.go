package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/emotisync/backend/controllers"
	"github.com/emotisync/backend/database"
	"github.com/emotisync/backend/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	ctx := context.Background()
	if err := database.EnsureIndexes(ctx); err != nil {
		log.Fatal(err)
	}

	users := database.NewUserStore()
	rooms := database.NewRoomStore()
	journal := database.NewJournalStore()

	// Hourly sweep of expired refresh references.
	jobs := cron.New()
	_, err := jobs.AddFunc("@hourly", func() {
		sweepCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		n, err := users.ClearExpiredRefreshTokens(sweepCtx, time.Now().UTC())
		if err != nil {
			log.Printf("refresh token sweep failed: %v", err)
			return
		}
		if n > 0 {
			log.Printf("cleared %d expired refresh tokens", n)
		}
	})
	if err != nil {
		log.Fatal(err)
	}
	jobs.Start()

	r := gin.New()

	origins := os.Getenv("ALLOWED_ORIGINS")
	allowedOrigins := map[string]bool{}
	for _, origin := range strings.Split(origins, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowedOrigins[origin] = true
		}
	}
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowedOrigins[origin]
		},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", controllers.Register(users))
		auth.POST("/login", controllers.Login(users))
		auth.POST("/refresh", controllers.Refresh(users))
		auth.POST("/logout", controllers.Logout(users))
	}

	protected := r.Group("/api/protected")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/me", controllers.Me(users))
	}

	room := r.Group("/api/room")
	room.Use(middleware.AuthMiddleware())
	{
		room.POST("", controllers.CreateRoom(users, rooms))
		room.GET("", controllers.GetTherapistRooms(rooms))
		room.GET("/my", controllers.GetMyRoom(rooms))
		room.GET("/:id", controllers.GetRoom(rooms))

		room.POST("/:id/journal", controllers.AddSharedEntry(rooms))
		room.GET("/:id/journal", controllers.GetSharedJournal(rooms))
		room.POST("/:id/messages", controllers.AddMessage(rooms))
		room.GET("/:id/messages", controllers.GetMessages(rooms))
		room.POST("/:id/session-notes", controllers.AddSessionNote(rooms))
		room.GET("/:id/session-notes", controllers.GetSessionNotes(rooms))
		room.POST("/:id/session-notes/:noteId/comments", controllers.AddNoteComment(rooms))
		room.POST("/:id/checkins", controllers.AddCheckIn(rooms))
		room.GET("/:id/checkins", controllers.GetCheckIns(rooms))
		room.POST("/:id/resources", controllers.AddResource(rooms))
		room.GET("/:id/resources", controllers.GetResources(rooms))
		room.POST("/:id/therapist-notes", controllers.AddTherapistNote(rooms))
		room.GET("/:id/therapist-notes", controllers.GetTherapistNotes(rooms))
	}

	journalGroup := r.Group("/api/journal")
	journalGroup.Use(middleware.AuthMiddleware())
	{
		journalGroup.POST("", controllers.CreateJournalEntry(journal))
		journalGroup.GET("", controllers.GetJournalEntries(journal))
		journalGroup.POST("/:id/share", controllers.ShareJournalEntry(journal, rooms))
	}

	r.Run()
}
