package gamification

import (
	"context"
	"errors"
	"time"

	model "github.com/jeffnmg/green-bin-buddy/internal/models"
)

var (
	// ErrUserNotFound : l'utilisateur authentifié n'a pas de ligne de stats.
	// La gamification est ignorée, l'affichage de la classification peut
	// continuer côté client.
	ErrUserNotFound = errors.New("user stats not found")

	// ErrConflict : une mise à jour concurrente a gagné la course
	// (version obsolète). Le service relit et réessaie.
	ErrConflict = errors.New("concurrent stats update")

	// ErrPersistence : échec d'écriture définitif, remonté au handler
	// comme success=false.
	ErrPersistence = errors.New("persistence failure")
)

// StatsUpdate porte les nouvelles valeurs absolues des statistiques.
// Appliqué uniquement si la version attendue est toujours celle en base.
type StatsUpdate struct {
	Points         int
	ObjectsScanned int
	CurrentStreak  int
	MaxStreak      int
	LastScanAt     *time.Time
	WelcomeBonus   bool
}

// Store est le contrat minimal attendu du stockage distant. Le service de
// gamification ne connaît que ces six opérations, ce qui permet de le tester
// avec un store en mémoire.
type Store interface {
	GetUserStats(ctx context.Context, userID string) (*model.UserStats, error)
	InsertScanRecord(ctx context.Context, rec *model.ScanRecord) error
	// UpdateUserStats échoue avec ErrConflict si la version en base n'est
	// plus expectedVersion.
	UpdateUserStats(ctx context.Context, userID string, upd StatsUpdate, expectedVersion int) error
	ListAchievementCatalog(ctx context.Context) ([]model.Achievement, error)
	ListUnlockedAchievementIDs(ctx context.Context, userID string) (map[string]bool, error)
	// InsertUnlockedAchievementIfAbsent retourne true si la ligne a été
	// insérée par cet appel, false si la paire existait déjà. Jamais
	// d'erreur pour un doublon : la contrainte unique absorbe la course.
	InsertUnlockedAchievementIfAbsent(ctx context.Context, userID, achievementID string) (bool, error)
}
