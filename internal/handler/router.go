package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"bookmark-highlighter/internal/config"
)

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(container *config.Container) http.Handler {
	router := mux.NewRouter()

	// API prefix
	api := router.PathPrefix("/api/v1").Subrouter()

	// Health check endpoint (no auth required)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"bookmark-highlighter"}`))
	}).Methods("GET")

	// Initialize handlers
	highlightHandler := NewHighlightHandler(container.HighlightService, container.Logger)
	annotateHandler := NewAnnotateHandler(container.HighlightService, container.Logger)

	// Protected routes (require authentication)
	protected := api.PathPrefix("").Subrouter()
	protected.Use(AuthMiddleware(container))

	// Highlight CRUD
	protected.HandleFunc("/bookmarks/{bookmarkId}/highlights", highlightHandler.ListHighlights).Methods("GET")
	protected.HandleFunc("/bookmarks/{bookmarkId}/highlights", highlightHandler.CreateHighlight).Methods("POST")
	protected.HandleFunc("/highlights/{id}", highlightHandler.UpdateHighlight).Methods("PUT")
	protected.HandleFunc("/highlights/{id}", highlightHandler.DeleteHighlight).Methods("DELETE")

	// Anchoring engine
	protected.HandleFunc("/bookmarks/{bookmarkId}/annotate", annotateHandler.Annotate).Methods("POST")
	protected.HandleFunc("/bookmarks/{bookmarkId}/highlights/capture", annotateHandler.Capture).Methods("POST")

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: container.Config.GetAllowedOrigins(),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-CSRF-Token",
		},
		AllowCredentials: true,
		MaxAge:           300,
	})

	return c.Handler(router)
}
