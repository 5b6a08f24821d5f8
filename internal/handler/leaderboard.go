package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/jeffnmg/green-bin-buddy/internal/database"
	model "github.com/jeffnmg/green-bin-buddy/internal/models"
	"github.com/jeffnmg/green-bin-buddy/internal/scanner"
	"github.com/jeffnmg/green-bin-buddy/internal/utils"
)

// leaderboardColumn associe la métrique demandée à sa colonne.
// Liste blanche : jamais d'interpolation directe du paramètre.
func leaderboardColumn(by string) string {
	switch by {
	case "escaneos":
		return "objetos_escaneados"
	case "racha":
		return "racha_maxima"
	default:
		return "puntos"
	}
}

// GetLeaderboard récupère le classement général (points, scans ou racha)
func GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	column := leaderboardColumn(query.Get("by"))

	limit := 10
	if l, err := strconv.Atoi(query.Get("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}

	ctx := context.Background()

	rows, err := database.DB.Query(ctx, `
		SELECT id, username, puntos, objetos_escaneados, racha_actual, racha_maxima,
		       ROW_NUMBER() OVER (ORDER BY `+column+` DESC) as rank,
		       `+column+` as score
		FROM leaderboard_users
		ORDER BY rank
		LIMIT $1`,
		limit,
	)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not query leaderboard", err)
		return
	}
	defer rows.Close()

	leaderboard := []model.LeaderboardEntry{}
	for rows.Next() {
		entry, err := scanner.ScanLeaderboardEntry(rows)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not scan leaderboard row", err)
			return
		}
		leaderboard = append(leaderboard, *entry)
	}

	utils.Success(w, leaderboard)
}

// GetUserRank récupère le rang d'un utilisateur dans le classement
func GetUserRank(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID := vars["userId"]
	column := leaderboardColumn(r.URL.Query().Get("by"))

	ctx := context.Background()

	var userRank model.UserRank
	err := database.DB.QueryRow(ctx, `
		WITH ranked_users AS (
			SELECT id, `+column+` as score,
			       ROW_NUMBER() OVER (ORDER BY `+column+` DESC) as rank
			FROM leaderboard_users
		),
		total_count AS (
			SELECT COUNT(*) as total FROM ranked_users
		)
		SELECT
			COALESCE(ru.rank, (SELECT total FROM total_count) + 1) as rank,
			COALESCE(ru.score, 0) as score,
			(SELECT total FROM total_count) as total_users
		FROM ranked_users ru
		RIGHT JOIN (SELECT $1::uuid as uid) u ON ru.id = u.uid`,
		userID,
	).Scan(&userRank.Rank, &userRank.Score, &userRank.TotalUsers)

	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not fetch user rank", err)
		return
	}

	userRank.UserID = userID

	// Calculer le percentile
	if userRank.TotalUsers > 0 {
		userRank.Percentile = float64(userRank.Rank) / float64(userRank.TotalUsers) * 100
	} else {
		userRank.Percentile = 100
	}

	utils.Success(w, userRank)
}
