package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(
	authHandler *AuthHandler,
	extractionHandler *ExtractionHandler,
	authMiddleware func(http.Handler) http.Handler,
	allowedOrigins []string,
) http.Handler {
	router := mux.NewRouter()

	// Health check endpoint (no auth required)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "ine-ocr-server"})
	}).Methods(http.MethodGet)

	// Protected routes (require authentication)
	protected := router.PathPrefix("/api/v1").Subrouter()
	protected.Use(authMiddleware)

	protected.HandleFunc("/auth/validate", authHandler.ValidateToken).Methods(http.MethodGet)

	protected.HandleFunc("/ine/extractions", extractionHandler.ListExtractions).Methods(http.MethodGet)
	protected.HandleFunc("/ine/extractions", extractionHandler.CreateExtraction).Methods(http.MethodPost)
	protected.HandleFunc("/ine/extractions/{id}", extractionHandler.GetExtraction).Methods(http.MethodGet)
	protected.HandleFunc("/ine/extractions/{id}", extractionHandler.DeleteExtraction).Methods(http.MethodDelete)
	protected.HandleFunc("/ine/parse", extractionHandler.ParseText).Methods(http.MethodPost)

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			guestHeader,
		},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(router)
}
