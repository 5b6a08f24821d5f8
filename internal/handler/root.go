package handler

import (
	"net/http"

	"github.com/jeffnmg/green-bin-buddy/internal/utils"
)

// RootHandler affiche toutes les routes disponibles de l'API
func RootHandler(w http.ResponseWriter, r *http.Request) {
	routes := map[string]interface{}{
		"name":    "Green Bin Buddy API",
		"version": "1.0.0",
		"status":  "running",
		"routes": map[string]interface{}{
			"auth": []map[string]string{
				{"method": "POST", "path": "/auth/signup", "description": "Inscription utilisateur (bonus de bienvenue inclus)"},
				{"method": "POST", "path": "/auth/login", "description": "Connexion utilisateur"},
				{"method": "POST", "path": "/auth/logout", "description": "Déconnexion utilisateur"},
			},
			"scans": []map[string]string{
				{"method": "POST", "path": "/scans", "description": "Enregistrer un scan déjà classifié"},
				{"method": "POST", "path": "/scans/classify", "description": "Classifier une photo puis enregistrer le scan"},
				{"method": "GET", "path": "/users/{userId}/scans", "description": "Historique des scans (filtre ?tipo=)"},
			},
			"users": []map[string]string{
				{"method": "GET", "path": "/users/{id}", "description": "Profil utilisateur"},
				{"method": "GET", "path": "/users/{userId}/stats", "description": "Stats de jeu avec niveau dérivé"},
				{"method": "PATCH", "path": "/users/{id}/onboarding", "description": "Marquer le tour d'onboarding comme vu"},
				{"method": "DELETE", "path": "/users/{id}", "description": "Supprimer son compte (soft delete)"},
			},
			"achievements": []map[string]string{
				{"method": "GET", "path": "/achievements", "description": "Catalogue des logros actifs"},
				{"method": "GET", "path": "/users/{userId}/achievements", "description": "Logros débloqués d'un utilisateur"},
			},
			"leaderboard": []map[string]string{
				{"method": "GET", "path": "/leaderboard", "description": "Classement (?by=puntos|escaneos|racha)"},
				{"method": "GET", "path": "/leaderboard/users/{userId}", "description": "Rang et percentile d'un utilisateur"},
			},
			"chat": []map[string]string{
				{"method": "POST", "path": "/chat", "description": "Assistant recyclage (LLM)"},
			},
			"health": []map[string]string{
				{"method": "GET", "path": "/health", "description": "Health check"},
			},
		},
	}

	utils.Success(w, routes)
}
