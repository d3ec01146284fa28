package settings

// Setting keys stored in the settings table, mirroring the configuration
// parameters the admin surface exposes.
const (
	KeyEnableTestOrderSync = "elis.enable_test_order_sync"
	KeyEnablePatientSync   = "elis.enable_patient_sync"
	KeyEnableLabTestSync   = "elis.enable_lab_test_sync"
	KeyAPIURL              = "elis.api_url"
	KeyAPIUsername         = "elis.api_username"
	KeyAPIPassword         = "elis.api_password"
)

// SyncConfig is the typed view of the OpenELIS sync configuration. It is
// loaded from storage at sync time and passed explicitly into the sync
// operations; nothing caches it across requests.
type SyncConfig struct {
	EnableTestOrderSync bool
	EnablePatientSync   bool
	EnableLabTestSync   bool
	APIURL              string
	APIUsername         string
	APIPassword         string
}

// HasCredentials reports whether basic auth should be sent.
func (c SyncConfig) HasCredentials() bool {
	return c.APIUsername != "" && c.APIPassword != ""
}

// SyncConfigResponse is the admin-facing view. The password is write-only and
// never echoed back.
type SyncConfigResponse struct {
	EnableTestOrderSync bool   `json:"enable_test_order_sync"`
	EnablePatientSync   bool   `json:"enable_patient_sync"`
	EnableLabTestSync   bool   `json:"enable_lab_test_sync"`
	APIURL              string `json:"api_url"`
	APIUsername         string `json:"api_username"`
	PasswordSet         bool   `json:"password_set"`
}

// UpdateSyncConfigRequest carries a partial update of the sync configuration.
type UpdateSyncConfigRequest struct {
	EnableTestOrderSync *bool   `json:"enable_test_order_sync,omitempty"`
	EnablePatientSync   *bool   `json:"enable_patient_sync,omitempty"`
	EnableLabTestSync   *bool   `json:"enable_lab_test_sync,omitempty"`
	APIURL              *string `json:"api_url,omitempty"`
	APIUsername         *string `json:"api_username,omitempty"`
	APIPassword         *string `json:"api_password,omitempty"`
}

func (c SyncConfig) Response() SyncConfigResponse {
	return SyncConfigResponse{
		EnableTestOrderSync: c.EnableTestOrderSync,
		EnablePatientSync:   c.EnablePatientSync,
		EnableLabTestSync:   c.EnableLabTestSync,
		APIURL:              c.APIURL,
		APIUsername:         c.APIUsername,
		PasswordSet:         c.APIPassword != "",
	}
}
