package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Abershum-Health/elis-sync-service/internal/auth"
	"github.com/Abershum-Health/elis-sync-service/internal/db"
	apihttp "github.com/Abershum-Health/elis-sync-service/internal/http"
	"github.com/Abershum-Health/elis-sync-service/internal/messaging"
	"github.com/Abershum-Health/elis-sync-service/internal/sequence"
	"github.com/Abershum-Health/elis-sync-service/internal/telemetry"
)

func main() {
	log.Println("elis-sync-service starting")

	ctx := context.Background()

	// OpenTelemetry
	provider, err := telemetry.Init(ctx)
	if err != nil {
		log.Printf("Warning: telemetry initialization failed: %v", err)
	}

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		log.Printf("Warning: metrics initialization failed: %v", err)
		metrics = nil
	}

	// Database
	database, err := db.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Seed the well-known sequences on first boot; existing counters are
	// never touched.
	sequences := sequence.NewStore(database)
	if err := sequences.Ensure(ctx, sequence.PatientIdentifier, "P", 6, 1); err != nil {
		log.Fatalf("Failed to seed patient identifier sequence: %v", err)
	}
	if err := sequences.Ensure(ctx, sequence.OrderReference, "SO-", 5, 1); err != nil {
		log.Fatalf("Failed to seed order reference sequence: %v", err)
	}
	log.Println("✓ Sequences ready")

	// RabbitMQ (optional: the service runs without a broker)
	var publisher messaging.PublisherInterface
	rabbitPublisher, err := messaging.NewPublisher()
	if err != nil {
		log.Printf("Warning: RabbitMQ unavailable, events will not be published: %v", err)
	} else {
		publisher = rabbitPublisher
		defer rabbitPublisher.Close()
	}

	// Auth (optional: disabled when no issuer is configured)
	var verifier *auth.Verifier
	perms := auth.DefaultPermissions()
	authCfg := auth.LoadConfig()
	if authCfg.Enabled() {
		jwks, err := auth.NewJWKS(authCfg.JWKSURL, 5*time.Minute)
		if err != nil {
			log.Fatalf("Failed to initialize JWKS: %v", err)
		}
		defer jwks.Close()
		verifier = auth.NewVerifier(authCfg, jwks)

		if path := os.Getenv("PERMISSIONS_FILE"); path != "" {
			loaded, err := auth.LoadPermissions(path)
			if err != nil {
				log.Fatalf("Failed to load permissions file %s: %v", path, err)
			}
			perms = loaded
		}
		log.Println("✓ Token verification enabled")
	} else {
		log.Println("Warning: AUTH_ISSUER not set, running without authentication")
	}

	router := apihttp.SetupRouter(database, publisher, verifier, perms, metrics)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      apihttp.CORSMiddleware(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("✓ Listening on :%s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	if provider != nil {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			log.Printf("Telemetry shutdown error: %v", err)
		}
	}

	log.Println("✓ Shutdown complete")
}
