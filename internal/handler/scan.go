package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/lib/pq"

	"github.com/jeffnmg/green-bin-buddy/internal/database"
	"github.com/jeffnmg/green-bin-buddy/internal/gamification"
	"github.com/jeffnmg/green-bin-buddy/internal/middleware"
	model "github.com/jeffnmg/green-bin-buddy/internal/models"
	"github.com/jeffnmg/green-bin-buddy/internal/scanner"
	"github.com/jeffnmg/green-bin-buddy/internal/utils"
)

// RegisterScan enregistre un scan déjà classifié : points, racha, niveau,
// logros. Le corps est le résultat de classification tel que reçu du
// classificateur externe.
func RegisterScan(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireAuth(r)
	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var input gamification.ScanInput
	if err := utils.DecodeAndValidate(r, &input); err != nil {
		utils.ErrorSimple(w, http.StatusBadRequest, "invalid scan payload")
		return
	}

	result, err := Gamification.RegisterScan(r.Context(), user.ID, input)
	if err != nil {
		respondScanError(w, err)
		return
	}

	utils.Success(w, result)
}

// ClassifyAndRegister reçoit la photo en multipart, la transmet au
// classificateur externe, stocke l'image si Cloudinary est configuré, puis
// déroule la même séquence de gamification que RegisterScan.
func ClassifyAndRegister(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireAuth(r)
	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "authentication required")
		return
	}

	// 10 Mo max pour la photo
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.ErrorSimple(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.ErrorSimple(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	classification, err := Classifier.Classify(r.Context(), file, header.Filename)
	if err != nil {
		utils.Error(w, http.StatusBadGateway, "classification failed", err)
		return
	}

	imageURL := ""
	if Uploads != nil {
		// Repartir du début du fichier après l'envoi au classificateur
		if _, err := file.Seek(0, 0); err == nil {
			url, upErr := Uploads.UploadScanImage(r.Context(), file, uuid.NewString())
			if upErr != nil {
				utils.LogError("scan image upload failed: %v", upErr)
			} else {
				imageURL = url
			}
		}
	}

	input := gamification.ScanInput{
		DetectedObject:   classification.DetectedObject,
		DetectedObjectES: classification.DetectedObjectES,
		WasteType:        classification.WasteType,
		Bin:              classification.Bin,
		Recyclable:       classification.Recyclable,
		Confidence:       classification.Confidence,
		Origin:           model.ScanOriginWeb,
		ImageURL:         imageURL,
	}
	if err := utils.Validate(&input); err != nil {
		utils.Error(w, http.StatusBadGateway, "classifier returned an unusable result", err)
		return
	}

	result, err := Gamification.RegisterScan(r.Context(), user.ID, input)
	if err != nil {
		if errors.Is(err, gamification.ErrUserNotFound) {
			// La classification reste exploitable même sans ligne de stats :
			// on la retourne sans effets de gamification
			utils.Success(w, map[string]interface{}{
				"classification": classification,
				"gamification":   nil,
			})
			return
		}
		respondScanError(w, err)
		return
	}

	utils.Success(w, map[string]interface{}{
		"classification": classification,
		"gamification":   result,
	})
}

// GetUserScans retourne l'historique des scans d'un utilisateur, du plus
// récent au plus ancien. Filtre optionnel par types de résidu (?tipo=...).
func GetUserScans(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID := vars["userId"]

	query := r.URL.Query()
	limit := 50
	if l, err := strconv.Atoi(query.Get("limit")); err == nil && l > 0 && l <= 200 {
		limit = l
	}
	wasteTypes := query["tipo"]

	ctx := context.Background()

	var sqlQuery string
	var args []interface{}

	if len(wasteTypes) > 0 {
		sqlQuery = `
			SELECT id, user_id, objeto_detectado, objeto_detectado_espanol,
			       tipo_residuo, caneca, reciclable, confianza,
			       puntos_ganados, origen, imagen_url, created_at
			FROM scans
			WHERE user_id = $1 AND tipo_residuo = ANY($2)
			ORDER BY created_at DESC
			LIMIT $3`
		args = []interface{}{userID, pq.Array(wasteTypes), limit}
	} else {
		sqlQuery = `
			SELECT id, user_id, objeto_detectado, objeto_detectado_espanol,
			       tipo_residuo, caneca, reciclable, confianza,
			       puntos_ganados, origen, imagen_url, created_at
			FROM scans
			WHERE user_id = $1
			ORDER BY created_at DESC
			LIMIT $2`
		args = []interface{}{userID, limit}
	}

	rows, err := database.DB.Query(ctx, sqlQuery, args...)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not query scans", err)
		return
	}
	defer rows.Close()

	scans := []model.ScanRecord{}
	for rows.Next() {
		rec, err := scanner.ScanScanRecord(rows)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not scan row", err)
			return
		}
		scans = append(scans, *rec)
	}

	utils.Success(w, scans)
}

func respondScanError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gamification.ErrUserNotFound):
		utils.ErrorSimple(w, http.StatusNotFound, "user stats not found")
	default:
		// Le client doit annoncer que les points n'ont PAS été comptés,
		// jamais animer un gain non confirmé
		utils.Error(w, http.StatusInternalServerError, "scan could not be recorded", err)
	}
}
