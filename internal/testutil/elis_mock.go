package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// CapturedRequest is one request the mock OpenELIS server received.
type CapturedRequest struct {
	Method      string
	Path        string
	ContentType string
	Body        []byte
	Username    string
	Password    string
	HasAuth     bool
}

// JSON unmarshals the captured body into v.
func (r *CapturedRequest) JSON(v interface{}) error {
	return json.Unmarshal(r.Body, v)
}

// MockELISServer is an httptest-backed stand-in for the OpenELIS REST API.
type MockELISServer struct {
	Server *httptest.Server

	mu       sync.Mutex
	status   int
	body     string
	requests []CapturedRequest
}

// NewMockELISServer starts a fake OpenELIS that answers every request with
// 200 until told otherwise. Callers must Close it.
func NewMockELISServer() *MockELISServer {
	m := &MockELISServer{status: http.StatusOK}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		username, password, hasAuth := r.BasicAuth()

		m.mu.Lock()
		m.requests = append(m.requests, CapturedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			ContentType: r.Header.Get("Content-Type"),
			Body:        body,
			Username:    username,
			Password:    password,
			HasAuth:     hasAuth,
		})
		status := m.status
		responseBody := m.body
		m.mu.Unlock()

		w.WriteHeader(status)
		if responseBody != "" {
			w.Write([]byte(responseBody))
		}
	}))
	return m
}

// URL returns the base URL of the fake server.
func (m *MockELISServer) URL() string {
	return m.Server.URL
}

// Close shuts the fake server down.
func (m *MockELISServer) Close() {
	m.Server.Close()
}

// RespondWith sets the status (and optional body) for subsequent requests.
func (m *MockELISServer) RespondWith(status int, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = status
	m.body = body
}

// Requests returns a copy of everything received so far.
func (m *MockELISServer) Requests() []CapturedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()

	requests := make([]CapturedRequest, len(m.requests))
	copy(requests, m.requests)
	return requests
}

// RequestCount returns how many requests were received.
func (m *MockELISServer) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Reset drops all captured requests.
func (m *MockELISServer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
}
