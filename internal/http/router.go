package http

import (
	"database/sql"
	"net/http"

	"github.com/Abershum-Health/elis-sync-service/internal/auth"
	"github.com/Abershum-Health/elis-sync-service/internal/elis"
	"github.com/Abershum-Health/elis-sync-service/internal/messaging"
	"github.com/Abershum-Health/elis-sync-service/internal/order"
	"github.com/Abershum-Health/elis-sync-service/internal/patient"
	"github.com/Abershum-Health/elis-sync-service/internal/product"
	"github.com/Abershum-Health/elis-sync-service/internal/sequence"
	"github.com/Abershum-Health/elis-sync-service/internal/settings"
	"github.com/Abershum-Health/elis-sync-service/internal/telemetry"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

// SetupRouter initializes all routes for the application. A nil verifier
// disables authentication, for local development against a bare database.
func SetupRouter(db *sql.DB, publisher messaging.PublisherInterface, verifier *auth.Verifier, perms auth.Permissions, metrics *telemetry.Metrics) *mux.Router {
	// Shared infrastructure
	sequences := sequence.NewStore(db)
	settingsRepo := settings.NewRepository(db)
	settingsHandler := settings.NewHandler(settingsRepo)

	// OpenELIS sync components
	elisClient := elis.NewClient()
	failedRepo := elis.NewFailedEventRepository(db)
	syncer := elis.NewService(elisClient, settingsRepo, failedRepo, publisher, metrics)
	retryService := elis.NewRetryService(failedRepo, elisClient, settingsRepo, metrics)
	elisHandler := elis.NewHandler(failedRepo, retryService)

	// Patient components
	patientRepo := patient.NewRepository(db, publisher)
	patientService := patient.NewService(patientRepo, sequences, syncer, metrics)
	patientHandler := patient.NewHandler(patientService)

	// Product components
	productRepo := product.NewRepository(db)
	productService := product.NewService(productRepo, syncer)
	productHandler := product.NewHandler(productService)

	// Order components
	orderRepo := order.NewRepository(db)
	orderService := order.NewService(orderRepo, patientRepo, sequences, syncer, publisher, metrics)
	orderHandler := order.NewHandler(orderService)

	protect := func(permission string, h http.HandlerFunc) http.Handler {
		if verifier == nil {
			return h
		}
		return auth.MiddlewareWithMetrics(verifier, metrics)(
			auth.RequirePermission(permission, perms)(h),
		)
	}

	r := mux.NewRouter()
	r.Use(otelmux.Middleware("elis-sync-service"))

	// Public health endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"elis-sync-service"}`))
	}).Methods("GET")

	// Patient routes
	r.Handle("/patients", protect("patient:create", patientHandler.CreatePatient)).Methods("POST")
	r.Handle("/patients", protect("patient:view", patientHandler.ListPatients)).Methods("GET")
	r.Handle("/patients/by-identifier/{identifier}", protect("patient:view", patientHandler.GetPatientByIdentifier)).Methods("GET")
	r.Handle("/patients/{id}", protect("patient:view", patientHandler.GetPatient)).Methods("GET")
	r.Handle("/patients/{id}", protect("patient:update", patientHandler.UpdatePatient)).Methods("PUT")

	// Product routes
	r.Handle("/products", protect("product:create", productHandler.CreateProduct)).Methods("POST")
	r.Handle("/products", protect("product:view", productHandler.ListProducts)).Methods("GET")
	r.Handle("/products/{id}", protect("product:view", productHandler.GetProduct)).Methods("GET")
	r.Handle("/products/{id}", protect("product:update", productHandler.UpdateProduct)).Methods("PUT")

	// Order routes
	r.Handle("/orders", protect("order:create", orderHandler.CreateOrder)).Methods("POST")
	r.Handle("/orders", protect("order:view", orderHandler.ListOrders)).Methods("GET")
	r.Handle("/orders/{id}", protect("order:view", orderHandler.GetOrder)).Methods("GET")
	r.Handle("/orders/{id}/confirm", protect("order:confirm", orderHandler.ConfirmOrder)).Methods("POST")
	r.Handle("/orders/{id}/cancel", protect("order:cancel", orderHandler.CancelOrder)).Methods("POST")

	// Sync administration routes
	r.Handle("/sync/config", protect("sync:view", settingsHandler.GetSyncConfig)).Methods("GET")
	r.Handle("/sync/config", protect("sync:manage", settingsHandler.UpdateSyncConfig)).Methods("PUT")
	r.Handle("/sync/failed-events", protect("sync:view", elisHandler.ListFailedEvents)).Methods("GET")
	r.Handle("/sync/failed-events/retry", protect("sync:manage", elisHandler.RetryDueEvents)).Methods("POST")
	r.Handle("/sync/failed-events/{id}/retry", protect("sync:manage", elisHandler.RetryFailedEvent)).Methods("POST")

	return r
}
