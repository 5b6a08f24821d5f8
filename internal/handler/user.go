package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jeffnmg/green-bin-buddy/internal/database"
	"github.com/jeffnmg/green-bin-buddy/internal/gamification"
	"github.com/jeffnmg/green-bin-buddy/internal/middleware"
	"github.com/jeffnmg/green-bin-buddy/internal/scanner"
	"github.com/jeffnmg/green-bin-buddy/internal/utils"
)

// GetUser récupère le profil d'un utilisateur par ID
func GetUser(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID := vars["id"]

	ctx := context.Background()
	row := database.DB.QueryRow(ctx, `
		SELECT id, username, email, phone_number,
		       puntos, objetos_escaneados, racha_actual, racha_maxima,
		       ultimo_escaneo, bono_bienvenida, tour_visto,
		       created_at, updated_at
		FROM users
		WHERE id=$1 AND deleted_at IS NULL`,
		userID,
	)

	user, err := scanner.ScanUserProfile(row)
	if err != nil {
		utils.ErrorSimple(w, http.StatusNotFound, "user not found")
		return
	}

	utils.Success(w, user)
}

// GetUserStats retourne les statistiques de jeu avec le niveau dérivé.
// Le niveau est toujours recalculé depuis les points, jamais stocké.
func GetUserStats(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID := vars["userId"]

	ctx := context.Background()
	row := database.DB.QueryRow(ctx, `
		SELECT id, username, puntos, objetos_escaneados, racha_actual, racha_maxima,
		       ultimo_escaneo, bono_bienvenida, version
		FROM users
		WHERE id=$1 AND deleted_at IS NULL`,
		userID,
	)

	stats, err := scanner.ScanUserStats(row)
	if err != nil {
		utils.ErrorSimple(w, http.StatusNotFound, "user not found")
		return
	}

	level := gamification.GetLevelInfo(stats.Points)

	utils.Success(w, map[string]interface{}{
		"stats": stats,
		"level": level,
		"emoji": gamification.LevelEmoji(level.Tier),
	})
}

// MarkOnboardingSeen marque le tour d'onboarding comme vu, côté serveur
// pour survivre au multi-appareil
func MarkOnboardingSeen(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireAuth(r)
	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "authentication required")
		return
	}

	vars := mux.Vars(r)
	if vars["id"] != user.ID {
		utils.ErrorSimple(w, http.StatusForbidden, "cannot update another user")
		return
	}

	ctx := context.Background()
	res, err := database.DB.Exec(ctx,
		`UPDATE users SET tour_visto=true, updated_at=NOW() WHERE id=$1 AND deleted_at IS NULL`,
		user.ID,
	)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not update onboarding flag", err)
		return
	}
	if res.RowsAffected() == 0 {
		utils.ErrorSimple(w, http.StatusNotFound, "user not found")
		return
	}

	utils.Success(w, map[string]bool{"tourSeen": true})
}

// DeleteUser supprime un utilisateur (soft delete)
func DeleteUser(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireAuth(r)
	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "authentication required")
		return
	}

	vars := mux.Vars(r)
	if vars["id"] != user.ID {
		utils.ErrorSimple(w, http.StatusForbidden, "cannot delete another user")
		return
	}

	ctx := context.Background()
	res, err := database.DB.Exec(ctx,
		`UPDATE users SET deleted_at=NOW(), updated_at=NOW() WHERE id=$1 AND deleted_at IS NULL`,
		user.ID,
	)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not delete user", err)
		return
	}
	if res.RowsAffected() == 0 {
		utils.ErrorSimple(w, http.StatusNotFound, "user not found")
		return
	}

	utils.Success(w, map[string]bool{"deleted": true})
}
