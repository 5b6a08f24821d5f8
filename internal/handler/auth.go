package handler

import (
	"context"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/jeffnmg/green-bin-buddy/internal/database"
	"github.com/jeffnmg/green-bin-buddy/internal/gamification"
	model "github.com/jeffnmg/green-bin-buddy/internal/models"
	"github.com/jeffnmg/green-bin-buddy/internal/utils"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SignupRequest struct {
	Username string `json:"username" validate:"required,min=2,max=40"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorSimple(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ctx := context.Background()
	var user model.UserProfile
	var hashedPassword string

	err := database.DB.QueryRow(ctx,
		`SELECT id, username, email, puntos, objetos_escaneados, racha_actual, racha_maxima,
		 bono_bienvenida, tour_visto, created_at, updated_at, password_hash
		 FROM users WHERE email=$1 AND deleted_at IS NULL`,
		req.Email,
	).Scan(&user.ID, &user.Username, &user.Email, &user.Points, &user.ObjectsScanned,
		&user.CurrentStreak, &user.MaxStreak, &user.WelcomeBonus, &user.TourSeen,
		&user.CreatedAt, &user.UpdatedAt, &hashedPassword)

	if err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(req.Password)); err != nil {
		utils.ErrorSimple(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	ip, userAgent := utils.ExtractIPAndUserAgent(r)
	token, err := utils.CreateSession(ctx, user.ID, ip, userAgent)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not create session", err)
		return
	}

	utils.Success(w, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

func Logout(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("Authorization")
	if token == "" {
		utils.ErrorSimple(w, http.StatusBadRequest, "missing token")
		return
	}

	if err := utils.InvalidateSession(context.Background(), token); err != nil {
		utils.ErrorSimple(w, http.StatusNotFound, "session not found or already logged out")
		return
	}

	utils.Success(w, map[string]bool{"success": true})
}

func Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorSimple(w, http.StatusBadRequest, "invalid signup payload")
		return
	}

	ctx := context.Background()
	hashed, _ := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)

	var user model.UserProfile
	err := database.DB.QueryRow(ctx,
		`INSERT INTO users(username, email, password_hash)
		 VALUES($1,$2,$3)
		 RETURNING id, username, email, puntos, objetos_escaneados, racha_actual, racha_maxima,
		           bono_bienvenida, tour_visto, created_at, updated_at`,
		req.Username, req.Email, string(hashed),
	).Scan(&user.ID, &user.Username, &user.Email, &user.Points, &user.ObjectsScanned,
		&user.CurrentStreak, &user.MaxStreak, &user.WelcomeBonus, &user.TourSeen,
		&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		utils.Error(w, http.StatusConflict, "could not create user", err)
		return
	}

	// Bonus de bienvenue : accordé une seule fois, via le même chemin
	// sérialisé que les scans
	if err := Gamification.GrantWelcomeBonus(ctx, user.ID); err != nil {
		utils.LogError("welcome bonus failed for user %s: %v", user.ID, err)
	} else {
		user.Points += gamification.WelcomeBonusPoints
		user.WelcomeBonus = true
	}

	ip, userAgent := utils.ExtractIPAndUserAgent(r)
	token, err := utils.CreateSession(ctx, user.ID, ip, userAgent)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not create session", err)
		return
	}

	utils.Success(w, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}
