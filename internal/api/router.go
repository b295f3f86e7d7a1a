package api

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"ai-vision-backend/internal/config"
	"ai-vision-backend/internal/handlers"
	"ai-vision-backend/pkg/httputil"
)

// RouterDependencies holds all the dependencies required by the router
// setup, primarily handlers and configuration.
type RouterDependencies struct {
	AnalysisHandler *handlers.AnalysisHandlers
	HistoryHandler  *handlers.HistoryHandlers
	Config          *config.Config
}

// NewRouter creates and configures the main Chi router for the application.
func NewRouter(deps RouterDependencies) *chi.Mux {
	r := chi.NewRouter()

	// --- Base Middleware Stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(90 * time.Second)) // must outlast the model call

	// --- CORS Configuration ---
	// The camera/voice frontend is served from a different origin.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// --- Liveness Routes ---
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondJSON(w, http.StatusOK, map[string]string{
			"message": "AI Vision API is running",
			"status":  "healthy",
		})
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondJSON(w, http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": "AI Vision API",
		})
	})

	// --- Analysis Routes ---
	if deps.AnalysisHandler != nil {
		r.Post("/analyze", deps.AnalysisHandler.HandleAnalyze)
		r.Post("/analyze/detailed", deps.AnalysisHandler.HandleAnalyzeDetailed)
	} else {
		log.Println("WARN: AnalysisHandler dependency is nil, skipping /analyze routes.")
	}

	// --- History & User Routes ---
	if deps.HistoryHandler != nil {
		r.Route("/history", func(r chi.Router) {
			r.Get("/{userID}", deps.HistoryHandler.HandleGetHistory)
			r.Delete("/{userID}", deps.HistoryHandler.HandleClearHistory)
		})
		r.Post("/users", deps.HistoryHandler.HandleCreateUser)
	} else {
		log.Println("WARN: HistoryHandler dependency is nil, skipping /history and /users routes.")
	}

	return r
}
