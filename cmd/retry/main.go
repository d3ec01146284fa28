package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/Abershum-Health/elis-sync-service/internal/db"
	"github.com/Abershum-Health/elis-sync-service/internal/elis"
	"github.com/Abershum-Health/elis-sync-service/internal/settings"
)

// Retry job for failed OpenELIS sync events. Run it from cron; one run
// processes at most elis.MaxRetryBatch events, oldest first.
func main() {
	log.Println("OpenELIS Retry Job - Starting")

	database, err := db.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	settingsRepo := settings.NewRepository(database)
	failedRepo := elis.NewFailedEventRepository(database)
	retryService := elis.NewRetryService(failedRepo, elis.NewClient(), settingsRepo, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	succeeded, attempted, err := retryService.RetryDue(ctx)
	if err != nil {
		log.Fatalf("Retry run failed: %v", err)
	}

	if attempted == 0 {
		log.Println("No events needed retrying. Exiting.")
		os.Exit(0)
	}

	log.Printf("✓ Retry run finished: %d of %d events synced", succeeded, attempted)
	if succeeded < attempted {
		log.Printf("%d events remain queued for the next run", attempted-succeeded)
	}

	log.Println("OpenELIS Retry Job - Finished")
}
