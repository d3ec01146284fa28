package elis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Abershum-Health/elis-sync-service/internal/settings"
)

// OpenELIS odoo-integration endpoints.
const (
	EndpointTestOrder = "/rest/odoo/test-order"
	EndpointPatient   = "/rest/odoo/patient"
	EndpointLabTest   = "/rest/odoo/test"
)

// requestTimeout matches the 30 seconds OpenELIS installations expect.
const requestTimeout = 30 * time.Second

// Client posts JSON payloads to the OpenELIS REST API. The response body is
// only checked for its status class; nothing in it drives business logic.
type Client struct {
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// Post sends one payload to the given endpoint using the supplied
// configuration. Basic auth is attached only when both username and password
// are configured.
func (c *Client) Post(ctx context.Context, cfg settings.SyncConfig, endpoint string, payload interface{}) error {
	if cfg.APIURL == "" {
		return ErrNotConfigured
	}

	url := normalizeBaseURL(cfg.APIURL) + endpoint

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if cfg.HasCredentials() {
		req.SetBasicAuth(cfg.APIUsername, cfg.APIPassword)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// keep a slice of the body for the error log
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	return nil
}

// normalizeBaseURL defaults the scheme to http and strips trailing slashes so
// endpoint paths can be appended directly.
func normalizeBaseURL(raw string) string {
	url := strings.TrimSpace(raw)
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "http://" + strings.TrimLeft(url, "/")
	}
	return strings.TrimRight(url, "/")
}
