package main

import (
	"context"
	"document-improver/auth"
	"document-improver/internal/analysis"
	"document-improver/internal/config"
	"document-improver/internal/db"
	"document-improver/internal/document"
	"document-improver/internal/extract"
	"document-improver/internal/grammar"
	"document-improver/internal/middleware"
	"document-improver/internal/paraphrase"
	"document-improver/internal/pipeline"
	"document-improver/internal/storage"
	"document-improver/internal/user"
	"document-improver/internal/worker"
	"document-improver/redis"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const defaultTemplate = `{{.Title}}

{{.Content}}

Generated {{.GeneratedAt.Format "2006-01-02 15:04"}}
`

func main() {
	// Load configuration
	config.LoadConfig()

	// Connect to database
	db.ConnectDb()
	defer db.CloseDb()

	// Migrate database schema
	db.Migrate()

	// Seed database with initial data
	db.SeedData()

	// Initialize Redis
	redis.InitRedis()
	cache := redis.NewCache(redis.RedisClient)

	// File storage
	files, err := storage.NewFileStore(config.AppConfig.StorageDir)
	if err != nil {
		log.Fatalf("error initializing file storage: %v", err)
	}
	ensureDefaultTemplate(files)

	// Processing pipeline
	docRepo := document.NewRepository(db.AppDb)
	analyzer := analysis.NewAnalyzer(grammar.NewClient(config.AppConfig.GrammarAddress))
	paraphraser := paraphrase.NewClient(config.AppConfig.ParaphraseAddress, config.AppConfig.ParaphraseModel)
	processor := pipeline.NewProcessor(
		docRepo,
		files,
		extract.NewRegistry(),
		analyzer,
		paraphraser,
		config.AppConfig.MaxRetries,
		config.AppConfig.RetryBackoff,
		config.AppConfig.ChunkMaxWords,
	)
	pool := worker.NewWorkerPool(config.AppConfig.WorkerCount)

	// Initialize repository
	userRepo := user.NewRepository(db.AppDb)
	// Initialize service
	userService := user.NewService(userRepo)
	docService := document.NewService(
		docRepo,
		files,
		processor,
		pool,
		cache,
		config.AppConfig.MaxUploadBytes,
		config.AppConfig.SyncProcessLimit,
	)
	// Initialize handler
	docHandler := document.NewHandler(docService)
	userHandler := user.NewHandler(userService)

	// Initialize Gin router
	router := gin.Default()
	router.MaxMultipartMemory = config.AppConfig.MaxUploadBytes

	// cors setting
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Version-Id"},
		AllowCredentials: false,
	}

	if config.AppConfig.Environment == "development" {
		// Allow all origins in development
		corsConfig.AllowAllOrigins = true
	} else {
		// Restrict origins in production
		corsConfig.AllowOrigins = []string{config.AppConfig.FrontendAddress}
	}
	router.Use(cors.New(corsConfig))
	router.Use(middleware.ErrorHandler())

	// User routes
	router.POST("/register", userHandler.Register)
	router.POST("/login", userHandler.Login)
	router.DELETE("/logout", auth.AuthMiddleWare(), userHandler.Logout)
	router.GET("/profile", auth.AuthMiddleWare(), userHandler.GetProfile)

	// Document routes
	router.POST("/documents", auth.AuthMiddleWare(), docHandler.Upload)
	router.GET("/documents", auth.AuthMiddleWare(), docHandler.ShowUserDocuments)
	router.GET("/documents/:id", auth.AuthMiddleWare(), docHandler.ShowDocument)
	router.DELETE("/documents/:id", auth.AuthMiddleWare(), docHandler.DeleteDocument)
	router.POST("/documents/:id/reprocess", auth.AuthMiddleWare(), docHandler.Reprocess)
	router.GET("/documents/:id/versions", auth.AuthMiddleWare(), docHandler.ListVersions)
	router.GET("/documents/:id/versions/:versionId", auth.AuthMiddleWare(), docHandler.ShowVersion)
	router.GET("/documents/:id/suggestions", auth.AuthMiddleWare(), docHandler.ListSuggestions)
	router.PUT("/documents/:id/suggestions/:suggestionId", auth.AuthMiddleWare(), docHandler.DecideSuggestion)
	router.POST("/documents/:id/apply", auth.AuthMiddleWare(), docHandler.ApplySuggestions)
	router.POST("/documents/:id/export", auth.AuthMiddleWare(), docHandler.Export)
	router.GET("/templates", auth.AuthMiddleWare(), docHandler.ListTemplates)

	// Server configuration
	serverPort := config.AppConfig.ServerPort
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverPort),
		Handler: router.Handler(),
	}

	// Start server
	go func() {
		log.Printf("Server listening on port %s", serverPort)
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Println("Server shutdown error:", err)
	}

	// Let in-flight processing land; failed claims are re-runnable.
	pool.Shutdown()

	<-ctx.Done()
	log.Println("Server shutdown complete")
}

// ensureDefaultTemplate writes the built-in export template if none is on
// disk yet, so the seeded template row always has a file behind it.
func ensureDefaultTemplate(files *storage.FileStore) {
	if _, err := files.Read("templates/plain.tmpl"); err == nil {
		return
	}
	if _, err := files.Save("templates", "plain.tmpl", []byte(defaultTemplate)); err != nil {
		log.Printf("Could not write default template: %v", err)
	}
}
