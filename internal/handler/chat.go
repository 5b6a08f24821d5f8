package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jeffnmg/green-bin-buddy/internal/database"
	"github.com/jeffnmg/green-bin-buddy/internal/middleware"
	"github.com/jeffnmg/green-bin-buddy/internal/utils"
)

type ChatRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

// ChatWithAssistant fait suivre la question au LLM avec les stats et les
// derniers scans de l'utilisateur en contexte
func ChatWithAssistant(w http.ResponseWriter, r *http.Request) {
	if Chat == nil {
		utils.ErrorSimple(w, http.StatusServiceUnavailable, "chat assistant is not configured")
		return
	}

	user, err := middleware.RequireAuth(r)
	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req ChatRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorSimple(w, http.StatusBadRequest, "message is required")
		return
	}

	systemPrompt := buildChatPrompt(r.Context(), user.ID, user.Points, user.ObjectsScanned, user.CurrentStreak)

	response, err := Chat.Complete(r.Context(), systemPrompt, req.Message)
	if err != nil {
		utils.Error(w, http.StatusBadGateway, "could not reach chat assistant", err)
		return
	}

	utils.Success(w, map[string]string{"response": response})
}

// buildChatPrompt construit le prompt système avec le contexte utilisateur.
// Les 3 derniers scans personnalisent la réponse ; leur absence n'est pas
// bloquante.
func buildChatPrompt(ctx context.Context, userID string, points, scanned, streak int) string {
	lastScans := "Sin escaneos recientes"

	rows, err := database.DB.Query(ctx, `
		SELECT COALESCE(objeto_detectado_espanol, objeto_detectado),
		       COALESCE(tipo_residuo, 'N/A'), reciclable
		FROM scans
		WHERE user_id=$1
		ORDER BY created_at DESC
		LIMIT 3`,
		userID,
	)
	if err == nil {
		defer rows.Close()
		var parts []string
		for rows.Next() {
			var obj, wasteType string
			var recyclable bool
			if err := rows.Scan(&obj, &wasteType, &recyclable); err != nil {
				break
			}
			recLabel := "no reciclable"
			if recyclable {
				recLabel = "reciclable"
			}
			parts = append(parts, fmt.Sprintf("%s (%s, %s)", obj, wasteType, recLabel))
		}
		if len(parts) > 0 {
			lastScans = strings.Join(parts, ", ")
		}
	} else {
		utils.LogError("could not fetch recent scans for chat context: %v", err)
	}

	return fmt.Sprintf(`Eres un asistente experto en reciclaje y medio ambiente en Colombia.
Respondes preguntas sobre reciclaje de forma clara y motivadora.

Contexto del usuario:
- Puntos: %d
- Objetos escaneados: %d
- Racha: %d días
- Últimos escaneos: %s

Usa este contexto para personalizar tus respuestas.
Sé breve (máximo 3 párrafos).
Usa emojis ocasionalmente.
Motiva al usuario a seguir reciclando.`, points, scanned, streak, lastScans)
}
