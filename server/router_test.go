package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
)

// mockHandler answers every route with its own name.
type mockHandler struct{}

func reply(w http.ResponseWriter, body string) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}

func (h *mockHandler) GetStatus(w http.ResponseWriter, r *http.Request) { reply(w, "status") }
func (h *mockHandler) RefreshStatus(w http.ResponseWriter, r *http.Request) {
	reply(w, "refresh")
}
func (h *mockHandler) StatusWebSocket(w http.ResponseWriter, r *http.Request) { reply(w, "ws") }
func (h *mockHandler) Ping(w http.ResponseWriter, r *http.Request) { reply(w, "pong") }
func (h *mockHandler) GetHours(w http.ResponseWriter, r *http.Request) { reply(w, "hours") }
func (h *mockHandler) GetEffectiveHours(w http.ResponseWriter, r *http.Request) {
	reply(w, "effective")
}
func (h *mockHandler) GetHoursChart(w http.ResponseWriter, r *http.Request) { reply(w, "chart") }

func TestRouter_RegisterRoutes(t *testing.T) {
	// Setup
	handler := &mockHandler{}
	router := mux.NewRouter()
	appRouter := NewRouter(handler, handler, router)
	appRouter.RegisterRoutes()

	// Test Cases
	tests := []struct {
		name       string
		method     string
		path       string
		statusCode int
		response   string
	}{
		{"Get Status", "GET", "/v1/status", http.StatusOK, "status"},
		{"Refresh Status", "POST", "/v1/status/refresh", http.StatusOK, "refresh"},
		{"Refresh Status Wrong Method", "GET", "/v1/status/refresh", http.StatusMethodNotAllowed, ""},
		{"Status WebSocket", "GET", "/v1/status/ws", http.StatusOK, "ws"},
		{"Get Hours", "GET", "/v1/hours", http.StatusOK, "hours"},
		{"Get Effective Hours", "GET", "/v1/hours/effective?date=2025-12-25", http.StatusOK, "effective"},
		{"Get Hours Chart", "GET", "/v1/hours/chart", http.StatusOK, "chart"},
		{"Ping Route", "GET", "/ping", http.StatusOK, "pong"},
		{"Invalid Route", "GET", "/invalid", http.StatusNotFound, ""},
	}

	// Run tests
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := httptest.NewRequest(test.method, test.path, nil)
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			// Assert status code
			if rr.Code != test.statusCode {
				t.Errorf("Expected status %d, got %d", test.statusCode, rr.Code)
			}

			// Assert response body, if applicable
			if test.response != "" && rr.Body.String() != test.response {
				t.Errorf("Expected response %s, got %s", test.response, rr.Body.String())
			}
		})
	}
}
