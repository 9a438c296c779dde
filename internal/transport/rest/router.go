package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"resistmap/internal/service"
	"resistmap/internal/transport/rest/handler"
	"resistmap/internal/transport/rest/middleware"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService       *service.AuthService
	DefinitionService *service.DefinitionService
	AssessmentService *service.AssessmentService
	Logger            *zap.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	authHandler := handler.NewAuthHandler(c.AuthService)
	definitionHandler := handler.NewDefinitionHandler(c.DefinitionService)
	assessmentHandler := handler.NewAssessmentHandler(c.AssessmentService)

	authMW := middleware.NewAuthMiddleware(c.AuthService)

	r.Use(corsMiddleware)
	r.Use(middleware.RequestLogger(c.Logger))

	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/assessments/{category}/start", assessmentHandler.Start).Methods("POST", "OPTIONS")
	v1.HandleFunc("/assessments/{category}/preview", assessmentHandler.Preview).Methods("POST", "OPTIONS")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Respondent routes (token from the start endpoint)
	respondentRoutes := v1.NewRoute().Subrouter()
	respondentRoutes.Use(authMW.RequireRespondent)

	respondentRoutes.HandleFunc("/assessments/{category}/submit", assessmentHandler.Submit).Methods("POST", "OPTIONS")
	respondentRoutes.HandleFunc("/assessments/results/me", assessmentHandler.History).Methods("GET", "OPTIONS")

	// Admin routes
	adminRoutes := v1.NewRoute().Subrouter()
	adminRoutes.Use(authMW.RequireAdmin)

	adminRoutes.HandleFunc("/definitions", definitionHandler.Create).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/definitions", definitionHandler.List).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/definitions/{category}", definitionHandler.Get).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/definitions/{category}", definitionHandler.Update).Methods("PUT", "OPTIONS")
	adminRoutes.HandleFunc("/definitions/{category}", definitionHandler.Delete).Methods("DELETE", "OPTIONS")
	adminRoutes.HandleFunc("/assessments/{category}/results", assessmentHandler.CategoryResults).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/assessments/{category}/stats", assessmentHandler.Stats).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
