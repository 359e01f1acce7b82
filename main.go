// api/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"studysynth/api/classifier"
	"studysynth/api/database"
	"studysynth/api/handlers"
	"studysynth/api/middleware"
	"studysynth/api/store"
)

func main() {
	// Load .env file at the very start
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading .env: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Session store (single JSON snapshot, source of truth) ---
	sessionsFile := os.Getenv("SESSIONS_FILE")
	if sessionsFile == "" {
		sessionsFile = "sessions.json"
	}
	sessionStore := store.NewFileSessionStore(sessionsFile)

	// --- Optional ClickHouse analytics mirror ---
	var analyticsStore *store.AnalyticsStore
	if os.Getenv("CLICKHOUSE_HOST") != "" {
		chClient, err := database.NewClickHouseDB()
		if err != nil {
			log.Printf("Analytics disabled: %v", err)
		} else {
			defer chClient.Close()
			analyticsStore = store.NewAnalyticsStore(chClient)
		}
	} else {
		log.Println("CLICKHOUSE_HOST not set; analytics mirror disabled.")
	}

	// --- External emotion classifier ---
	classifierClient := classifier.NewClientFromEnv()

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}

	// --- Initialize Handlers ---
	sessionHandlers := handlers.NewSessionHandlers(sessionStore, analyticsStore)
	detectHandlers := handlers.NewDetectHandlers(classifierClient, uploadDir)

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.POST("/detect-emotion", detectHandlers.DetectEmotion)

	session := r.Group("/session")
	{
		session.POST("/start", sessionHandlers.StartSession)
		session.POST("/:id/emotion", sessionHandlers.AppendEmotion)
		session.POST("/:id/event", sessionHandlers.AppendEvent)
		session.POST("/:id/end", sessionHandlers.EndSession)
		session.GET("/:id/summary", sessionHandlers.GetSummary)
	}

	if analyticsStore != nil {
		analyticsHandlers := handlers.NewAnalyticsHandlers(analyticsStore)
		stats := r.Group("/api/stats")
		{
			stats.GET("/emotion-counts", analyticsHandlers.GetEmotionCountsOverTime)
			stats.GET("/top-emotions", analyticsHandlers.GetTopEmotions)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Printf("Go API server starting on http://localhost:%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Go API server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
