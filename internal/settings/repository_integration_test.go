// go:build integration
//go:build integration

package settings

import (
	"context"
	"testing"

	"github.com/Abershum-Health/elis-sync-service/internal/testutil"
)

// TestRepositorySetGet_Integration tests the key/value round trip
func TestRepositorySetGet_Integration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	defer testutil.CleanupTestDB(t, db)

	repo := NewRepository(db)
	ctx := context.Background()

	value, err := repo.Get(ctx, KeyAPIURL)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != "" {
		t.Errorf("Expected unset key to read as empty, got %q", value)
	}

	if err := repo.Set(ctx, KeyAPIURL, "http://openelis:8080/openelis"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, err = repo.Get(ctx, KeyAPIURL)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != "http://openelis:8080/openelis" {
		t.Errorf("Expected stored value, got %q", value)
	}

	// Overwrite
	if err := repo.Set(ctx, KeyAPIURL, "http://elis.local"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	value, err = repo.Get(ctx, KeyAPIURL)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != "http://elis.local" {
		t.Errorf("Expected overwritten value, got %q", value)
	}
}

// TestRepositoryLoadSyncConfig_Integration tests assembling the sync config
func TestRepositoryLoadSyncConfig_Integration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	defer testutil.CleanupTestDB(t, db)

	testutil.SeedSyncConfig(t, db, map[string]string{
		KeyEnableTestOrderSync: "true",
		KeyEnablePatientSync:   "false",
		KeyAPIURL:              "http://openelis:8080/openelis",
		KeyAPIUsername:         "odoo",
		KeyAPIPassword:         "secret",
	})

	repo := NewRepository(db)

	cfg, err := repo.LoadSyncConfig(context.Background())
	if err != nil {
		t.Fatalf("LoadSyncConfig failed: %v", err)
	}

	if !cfg.EnableTestOrderSync {
		t.Error("Expected test order sync enabled")
	}
	if cfg.EnablePatientSync {
		t.Error("Expected patient sync disabled")
	}
	if cfg.EnableLabTestSync {
		t.Error("Expected unset lab test sync to default to disabled")
	}
	if cfg.APIURL != "http://openelis:8080/openelis" {
		t.Errorf("Expected API URL, got %q", cfg.APIURL)
	}
	if cfg.APIUsername != "odoo" {
		t.Errorf("Expected username odoo, got %q", cfg.APIUsername)
	}
	if cfg.APIPassword != "secret" {
		t.Errorf("Expected password to load, got %q", cfg.APIPassword)
	}
}

// TestRepositoryApplyUpdate_Integration tests partial config updates
func TestRepositoryApplyUpdate_Integration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	defer testutil.CleanupTestDB(t, db)

	testutil.SeedSyncConfig(t, db, map[string]string{
		KeyEnableTestOrderSync: "true",
		KeyAPIURL:              "http://openelis:8080/openelis",
	})

	repo := NewRepository(db)
	ctx := context.Background()

	enablePatient := true
	username := "odoo"
	err := repo.ApplyUpdate(ctx, UpdateSyncConfigRequest{
		EnablePatientSync: &enablePatient,
		APIUsername:       &username,
	})
	if err != nil {
		t.Fatalf("ApplyUpdate failed: %v", err)
	}

	cfg, err := repo.LoadSyncConfig(ctx)
	if err != nil {
		t.Fatalf("LoadSyncConfig failed: %v", err)
	}

	if !cfg.EnablePatientSync {
		t.Error("Expected patient sync enabled after update")
	}
	if cfg.APIUsername != "odoo" {
		t.Errorf("Expected username odoo, got %q", cfg.APIUsername)
	}
	// Fields absent from the request stay untouched
	if !cfg.EnableTestOrderSync {
		t.Error("Expected test order sync to stay enabled")
	}
	if cfg.APIURL != "http://openelis:8080/openelis" {
		t.Errorf("Expected API URL untouched, got %q", cfg.APIURL)
	}
}
