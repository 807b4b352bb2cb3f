package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/kognisi/insight/internal/api/handlers"
	"github.com/kognisi/insight/internal/api/ws"
	"github.com/kognisi/insight/pkg/logger"
)

// NewRouter creates and configures the HTTP router
// SSOT: route registration lives in this function only
func NewRouter(
	learnerHandler *handlers.LearnerHandler,
	metricsHandler *handlers.MetricsHandler,
	dataHandler *handlers.DataHandler,
	refreshHandler *handlers.RefreshHandler,
	hub *ws.Hub,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// API v1
	api := r.PathPrefix("/api").Subrouter()

	// Learner endpoints
	api.HandleFunc("/learners/summary", learnerHandler.GetSummary).Methods("GET")
	api.HandleFunc("/learners/platforms", learnerHandler.GetPlatforms).Methods("GET")

	// Metric endpoints
	api.HandleFunc("/adoption", metricsHandler.GetAdoption).Methods("GET")
	api.HandleFunc("/hours", metricsHandler.GetHours).Methods("GET")
	api.HandleFunc("/content/top", metricsHandler.GetTopContent).Methods("GET")

	// Raw data endpoints
	api.HandleFunc("/data/raw", dataHandler.GetRaw).Methods("GET")
	api.HandleFunc("/data/export", dataHandler.Export).Methods("GET")

	// Snapshot control
	api.HandleFunc("/refresh", refreshHandler.Refresh).Methods("POST")

	// Push channel
	api.HandleFunc("/ws", hub.Handle)

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "insight-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
