package rest

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SuryanshuBanerjee/tempmitra/internal/model"
	"github.com/SuryanshuBanerjee/tempmitra/internal/service"
	"github.com/SuryanshuBanerjee/tempmitra/internal/transport/rest/handler"
	"github.com/SuryanshuBanerjee/tempmitra/internal/transport/rest/middleware"
	"github.com/SuryanshuBanerjee/tempmitra/internal/transport/ws"
	"github.com/SuryanshuBanerjee/tempmitra/internal/triage"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService      *service.AuthService
	ChatService      *service.ChatService
	ScreeningService *service.ScreeningService
	AnalyticsService *service.AnalyticsService
	Classifier       *triage.Classifier
	WSHub            *ws.Hub

	// Gatherer backs /metrics; nil means the default registry
	Gatherer       prometheus.Gatherer
	AllowedOrigins string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler()
	chatHandler := handler.NewChatHandler(c.ChatService)
	screeningHandler := handler.NewScreeningHandler(c.ScreeningService)
	analyticsHandler := handler.NewAnalyticsHandler(c.AnalyticsService)
	referenceHandler := handler.NewReferenceHandler(c.Classifier)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.AllowedOrigins)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.AllowedOrigins))
	r.Use(middleware.RequestLogger)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	gatherer := c.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods("GET")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/reference/lexicon", referenceHandler.Lexicon).Methods("GET", "OPTIONS")
	v1.HandleFunc("/reference/cutoffs", referenceHandler.Cutoffs).Methods("GET", "OPTIONS")
	v1.HandleFunc("/reference/hotlines", referenceHandler.Hotlines).Methods("GET", "OPTIONS")

	// WebSocket routes (token in query param)
	v1.HandleFunc("/ws/counselors", wsHandler.CounselorWS).Methods("GET")

	// Any authenticated caller; ownership is checked by the service
	authed := v1.NewRoute().Subrouter()
	authed.Use(authMW.RequireAuth)

	authed.HandleFunc("/auth/me", authHandler.Me).Methods("GET", "OPTIONS")
	authed.HandleFunc("/chat/sessions/{id}", chatHandler.GetSession).Methods("GET", "OPTIONS")
	authed.HandleFunc("/chat/sessions/{id}/end", chatHandler.EndSession).Methods("POST", "OPTIONS")

	// Student routes
	studentRoutes := v1.NewRoute().Subrouter()
	studentRoutes.Use(authMW.RequireAuth, middleware.RequireRole(model.RoleStudent))

	studentRoutes.HandleFunc("/chat/messages", chatHandler.SendMessage).Methods("POST", "OPTIONS")
	studentRoutes.HandleFunc("/screenings/history", screeningHandler.History).Methods("GET", "OPTIONS")
	studentRoutes.HandleFunc("/screenings/{instrument}", screeningHandler.Submit).Methods("POST", "OPTIONS")

	// Counselor routes
	counselorRoutes := v1.NewRoute().Subrouter()
	counselorRoutes.Use(authMW.RequireAuth, middleware.RequireRole(model.RoleCounselor, model.RoleAdmin))

	counselorRoutes.HandleFunc("/users/{id}/risk-profile", screeningHandler.RiskProfile).Methods("GET", "OPTIONS")

	// Admin routes
	adminRoutes := v1.NewRoute().Subrouter()
	adminRoutes.Use(authMW.RequireAuth, middleware.RequireRole(model.RoleAdmin))

	adminRoutes.HandleFunc("/admin/analytics", analyticsHandler.Overview).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/admin/analytics/recompute", analyticsHandler.Recompute).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(allowedOrigins string) mux.MiddlewareFunc {
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
