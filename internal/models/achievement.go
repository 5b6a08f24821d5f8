package model

import (
	"time"
)

// Types de métrique d'un logro (enum achievement_type en base)
const (
	AchievementKindPoints = "puntos"
	AchievementKindScans  = "escaneos"
	AchievementKindStreak = "racha"
)

// Achievement est une entrée du catalogue de logros. Données immuables,
// chargées depuis la base, jamais calculées.
type Achievement struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Kind        string    `json:"kind"` // puntos, escaneos, racha
	Threshold   int       `json:"threshold"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// UnlockedAchievement associe un utilisateur à un logro débloqué.
// La paire (user, achievement) est unique en base.
type UnlockedAchievement struct {
	Achievement
	UnlockedAt time.Time `json:"unlockedAt"`
}
