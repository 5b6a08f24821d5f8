package api

import (
	"net/http"

	"github.com/fatih/color"
	"github.com/gorilla/mux"

	"github.com/jeffnmg/green-bin-buddy/internal/handler"
	"github.com/jeffnmg/green-bin-buddy/internal/middleware"
	"github.com/jeffnmg/green-bin-buddy/internal/utils"
)

func SetupRouter() http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.OptionalAuth)

	authenticatedRoutes := r.PathPrefix("/").Subrouter()
	authenticatedRoutes.Use(middleware.AuthMiddleware)
	authenticatedRoutes.Use(middleware.LoggerMiddleware)

	// Root - API documentation
	r.HandleFunc("/", handler.RootHandler).Methods(http.MethodGet)

	// Auth
	r.HandleFunc("/auth/signup", handler.Signup).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", handler.Login).Methods(http.MethodPost)
	authenticatedRoutes.HandleFunc("/auth/logout", handler.Logout).Methods(http.MethodPost)

	// Scans
	authenticatedRoutes.HandleFunc("/scans", handler.RegisterScan).Methods(http.MethodPost)
	authenticatedRoutes.HandleFunc("/scans/classify", handler.ClassifyAndRegister).Methods(http.MethodPost)
	r.HandleFunc("/users/{userId}/scans", handler.GetUserScans).Methods(http.MethodGet)

	// Users
	r.HandleFunc("/users/{id}", handler.GetUser).Methods(http.MethodGet)
	r.HandleFunc("/users/{userId}/stats", handler.GetUserStats).Methods(http.MethodGet)
	authenticatedRoutes.HandleFunc("/users/{id}/onboarding", handler.MarkOnboardingSeen).Methods(http.MethodPatch)
	authenticatedRoutes.HandleFunc("/users/{id}", handler.DeleteUser).Methods(http.MethodDelete)

	// Achievements
	r.HandleFunc("/achievements", handler.GetAchievements).Methods(http.MethodGet)
	r.HandleFunc("/users/{userId}/achievements", handler.GetUserAchievements).Methods(http.MethodGet)

	// Leaderboard
	r.HandleFunc("/leaderboard", handler.GetLeaderboard).Methods(http.MethodGet)
	r.HandleFunc("/leaderboard/users/{userId}", handler.GetUserRank).Methods(http.MethodGet)

	// Chat assistant
	authenticatedRoutes.HandleFunc("/chat", handler.ChatWithAssistant).Methods(http.MethodPost)

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.LogError("404 Not Found: %s %s", r.Method, r.URL.Path)
		color.Yellow("[404] %s %s (route non trouvée)", r.Method, r.URL.Path)
		http.Error(w, "Route not found", http.StatusNotFound)
	})

	return r
}
