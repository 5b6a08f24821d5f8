package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jeffnmg/green-bin-buddy/internal/database"
	model "github.com/jeffnmg/green-bin-buddy/internal/models"
	"github.com/jeffnmg/green-bin-buddy/internal/scanner"
	"github.com/jeffnmg/green-bin-buddy/internal/utils"
)

// GetAchievements retourne le catalogue des logros actifs, par seuil croissant
func GetAchievements(w http.ResponseWriter, r *http.Request) {
	ctx := context.Background()

	rows, err := database.DB.Query(ctx, `
		SELECT id, nombre, descripcion, icono, tipo, umbral, activo, created_at
		FROM achievements
		WHERE activo=true
		ORDER BY umbral ASC`,
	)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not query achievements", err)
		return
	}
	defer rows.Close()

	achievements := []model.Achievement{}
	for rows.Next() {
		a, err := scanner.ScanAchievement(rows)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not scan achievement row", err)
			return
		}
		achievements = append(achievements, *a)
	}

	utils.Success(w, achievements)
}

// GetUserAchievements retourne les logros débloqués d'un utilisateur avec
// leur date de déblocage
func GetUserAchievements(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID := vars["userId"]

	ctx := context.Background()

	rows, err := database.DB.Query(ctx, `
		SELECT a.id, a.nombre, a.descripcion, a.icono, a.tipo, a.umbral, a.activo, a.created_at,
		       ua.unlocked_at
		FROM user_achievements ua
		INNER JOIN achievements a ON ua.achievement_id = a.id
		WHERE ua.user_id = $1
		ORDER BY ua.unlocked_at DESC`,
		userID,
	)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not query user achievements", err)
		return
	}
	defer rows.Close()

	unlocked := []model.UnlockedAchievement{}
	for rows.Next() {
		var ua model.UnlockedAchievement
		if err := rows.Scan(
			&ua.ID, &ua.Name, &ua.Description, &ua.Icon,
			&ua.Kind, &ua.Threshold, &ua.Active, &ua.CreatedAt,
			&ua.UnlockedAt,
		); err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not scan user achievement row", err)
			return
		}
		unlocked = append(unlocked, ua)
	}

	utils.Success(w, unlocked)
}
