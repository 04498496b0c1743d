// File: stayfinder/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stayfinder/config"
	"stayfinder/handlers"
	"stayfinder/middleware"
	"stayfinder/routes"
	"stayfinder/services/conversation"
	"stayfinder/services/extract"
	"stayfinder/services/hotels"
	"stayfinder/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	utils.InitSessionCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// External collaborators.
	geminiClient := extract.NewGeminiClient(config.AppConfig.GeminiAPIKey, config.AppConfig.GeminiModel)
	extractor := extract.NewGeminiExtractor(geminiClient)
	searchProvider := hotels.NewAmadeusClient(
		config.AppConfig.AmadeusBaseURL,
		config.AppConfig.AmadeusAPIKey,
		config.AppConfig.AmadeusAPISecret,
		config.ProviderTimeout(),
	)

	// Conversation core.
	sessionStore := conversation.NewRedisStore(utils.GetSessionCacheClient(), config.SessionTTL())
	chatService := conversation.NewService(
		sessionStore,
		extractor,
		searchProvider,
		config.ProviderTimeout(),
		config.AppConfig.MaxSearchAttempts,
	)

	chatHandler := handlers.NewChatHandler(chatService, logger)
	routes.RegisterRoutes(router, chatHandler)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
