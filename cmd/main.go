package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/imyashkale/gatewayserver/internal/awsclient"
	"github.com/imyashkale/gatewayserver/internal/config"
	"github.com/imyashkale/gatewayserver/internal/handlers"
	"github.com/imyashkale/gatewayserver/internal/logger"
	"github.com/imyashkale/gatewayserver/internal/router"
	"github.com/imyashkale/gatewayserver/internal/services"
)

func main() {

	ctx := context.Background()

	// Load application configuration
	cfg := config.New()
	log.Println("Configuration loaded successfully")

	// Initialize structured logging
	logger.Init(cfg.LogLevel)

	// Initialize AWS clients (account ID resolved via STS when not configured)
	awsClient, err := awsclient.New(ctx, cfg.AWSRegion, cfg.AWSAccountID)
	if err != nil {
		log.Fatalf("Failed to initialize AWS clients: %v", err)
	}
	log.Printf("AWS clients initialized for region %s, account %s", awsClient.Region, awsClient.AccountID)

	// Initialize services
	specStore := services.NewSpecStore(awsClient.S3, awsClient.Region, awsClient.AccountID, cfg.SpecBucket)
	credentialService := services.NewCredentialService(awsClient.ControlPlane)
	gatewayService := services.NewGatewayService(awsClient.ControlPlane)
	targetService := services.NewTargetService(awsClient.ControlPlane)
	roleService := services.NewRoleService(awsClient.IAM)
	identityService := services.NewIdentityService(awsClient.Cognito, awsClient.Region)
	fetcher := services.NewSpecFetcher()

	orchestrator := services.NewOrchestrator(
		specStore,
		credentialService,
		targetService,
		gatewayService,
		roleService,
		fetcher,
	)
	log.Println("Services initialized")

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(awsClient.Region, cfg.SpecBucket)
	authHandler := handlers.NewAuthHandler(identityService, cfg)
	gatewayHandler := handlers.NewGatewayHandler(gatewayService, orchestrator, cfg)
	toolHandler := handlers.NewToolHandler(orchestrator, targetService)
	log.Println("Handlers initialized")

	// Setup router
	r := router.Setup(cfg.AuthEnabled, healthHandler, authHandler, gatewayHandler, toolHandler)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Setup graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Println("Shutting down server gracefully...")

		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// Start server
	log.Printf("Starting server on :%s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("Failed to start server:", err)
	}
}
