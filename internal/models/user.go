package model

import (
	"time"
)

// UserProfile représente un utilisateur avec ses statistiques de jeu.
// Les stats (points, objets scannés, rachas) ne sont modifiées que par le
// service de gamification, jamais directement par les handlers.
type UserProfile struct {
	ID             string     `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	PhoneNumber    string     `json:"phoneNumber,omitempty"`
	Points         int        `json:"points"`
	ObjectsScanned int        `json:"objectsScanned"`
	CurrentStreak  int        `json:"currentStreak"`
	MaxStreak      int        `json:"maxStreak"`
	LastScanAt     *time.Time `json:"lastScanAt,omitempty"`
	WelcomeBonus   bool       `json:"welcomeBonus"`
	TourSeen       bool       `json:"tourSeen"`
	CreatedAt      time.Time  `json:"createdAt,omitempty"`
	UpdatedAt      time.Time  `json:"updatedAt,omitempty"`
}

// UserStats est la copie de travail des statistiques chargée par le service
// de gamification. Version porte la colonne de compare-and-swap : une mise à
// jour n'est acceptée que si la version lue est toujours celle en base.
type UserStats struct {
	UserID         string     `json:"userId"`
	Username       string     `json:"username"`
	Points         int        `json:"points"`
	ObjectsScanned int        `json:"objectsScanned"`
	CurrentStreak  int        `json:"currentStreak"`
	MaxStreak      int        `json:"maxStreak"`
	LastScanAt     *time.Time `json:"lastScanAt,omitempty"`
	WelcomeBonus   bool       `json:"-"`
	Version        int        `json:"-"`
}
