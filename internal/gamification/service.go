package gamification

import (
	"context"
	"fmt"
	"time"

	"github.com/jeffnmg/green-bin-buddy/internal/logger"
	model "github.com/jeffnmg/green-bin-buddy/internal/models"
)

const (
	// PointsPerScan : barème fixe, 10 points par scan.
	PointsPerScan = 10

	// WelcomeBonusPoints : bonus unique accordé à l'inscription.
	WelcomeBonusPoints = 50

	// maxUpdateRetries borne la boucle de réessai du compare-and-swap.
	maxUpdateRetries = 3
)

// ScanInput est le résultat de classification transmis par le client ou par
// le proxy de classification. Le service ne valide pas la justesse de la
// classification, seulement sa présence.
type ScanInput struct {
	DetectedObject   string `json:"detectedObject" validate:"required"`
	DetectedObjectES string `json:"detectedObjectEs"`
	WasteType        string `json:"wasteType"`
	Bin              string `json:"bin"`
	Recyclable       bool   `json:"recyclable"`
	Confidence       *int   `json:"confidence" validate:"omitempty,min=0,max=100"`
	Origin           string `json:"origin" validate:"omitempty,oneof=web whatsapp"`
	ImageURL         string `json:"imageUrl" validate:"omitempty,url"`
}

// ScanResult est le résumé consommé par le front pour déclencher
// l'animation de points, la modale de level-up et les badges.
type ScanResult struct {
	Success         bool                `json:"success"`
	ScanID          string              `json:"scanId,omitempty"`
	PointsAwarded   int                 `json:"pointsAwarded"`
	TotalPoints     int                 `json:"totalPoints"`
	PreviousLevel   int                 `json:"previousLevel"`
	NewLevel        int                 `json:"newLevel"`
	LevelUp         bool                `json:"levelUp"`
	Level           LevelInfo           `json:"level"`
	NewStreak       int                 `json:"newStreak"`
	MaxStreak       int                 `json:"maxStreak"`
	NewAchievements []model.Achievement `json:"newAchievements"`
}

// Service orchestre l'enregistrement d'un scan : racha, points, niveau,
// logros. Toutes les transitions lecture-puis-écriture passent par le
// compare-and-swap du Store pour rester sérialisées par utilisateur.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// RegisterScan applique la séquence complète après une classification
// réussie. En cas d'échec, aucun résultat partiel n'est retourné.
func (s *Service) RegisterScan(ctx context.Context, userID string, in ScanInput) (*ScanResult, error) {
	stats, err := s.store.GetUserStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	origin := in.Origin
	if origin == "" {
		origin = model.ScanOriginWeb
	}

	// Le scan est inséré une seule fois, avant la boucle de réessai du
	// compare-and-swap : seule la mise à jour des stats peut être rejouée.
	rec := &model.ScanRecord{
		UserID:           userID,
		DetectedObject:   in.DetectedObject,
		DetectedObjectES: in.DetectedObjectES,
		WasteType:        in.WasteType,
		Bin:              in.Bin,
		Recyclable:       in.Recyclable,
		Confidence:       in.Confidence,
		PointsAwarded:    PointsPerScan,
		Origin:           origin,
		ImageURL:         in.ImageURL,
		CreatedAt:        now,
	}
	if err := s.store.InsertScanRecord(ctx, rec); err != nil {
		return nil, fmt.Errorf("%w: insert scan: %v", ErrPersistence, err)
	}

	var newStreak, newMaxStreak int
	for attempt := 0; ; attempt++ {
		newStreak, newMaxStreak = ResolveStreak(stats.LastScanAt, now, stats.CurrentStreak, stats.MaxStreak)

		scanTime := now
		upd := StatsUpdate{
			Points:         stats.Points + PointsPerScan,
			ObjectsScanned: stats.ObjectsScanned + 1,
			CurrentStreak:  newStreak,
			MaxStreak:      newMaxStreak,
			LastScanAt:     &scanTime,
			WelcomeBonus:   stats.WelcomeBonus,
		}

		err = s.store.UpdateUserStats(ctx, userID, upd, stats.Version)
		if err == nil {
			break
		}
		if err != ErrConflict || attempt+1 >= maxUpdateRetries {
			// Le scan est en base mais les stats n'ont pas suivi : fenêtre
			// d'incohérence connue, à réconcilier par un job de réparation.
			logger.Error("stats update failed for user %s, orphan scan %s: %v", userID, rec.ID, err)
			return nil, fmt.Errorf("%w: update stats: %v", ErrPersistence, err)
		}

		// Un scan concurrent a gagné la course : relire et recalculer.
		stats, err = s.store.GetUserStats(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("%w: reread stats: %v", ErrPersistence, err)
		}
	}

	oldPoints := stats.Points
	newPoints := oldPoints + PointsPerScan
	prevLevel := GetLevelInfo(oldPoints).Level
	newLevelInfo := GetLevelInfo(newPoints)

	// Les logros sont évalués sur les stats mises à jour.
	updated := &model.UserStats{
		UserID:         userID,
		Points:         newPoints,
		ObjectsScanned: stats.ObjectsScanned + 1,
		CurrentStreak:  newStreak,
		MaxStreak:      newMaxStreak,
	}
	unlocked, err := s.evaluateAchievements(ctx, userID, updated)
	if err != nil {
		// Les points sont déjà engrangés, on ne fait pas échouer le scan
		// pour une évaluation de logros : ils seront rattrapés au prochain.
		logger.Warning("achievement evaluation failed for user %s: %v", userID, err)
		unlocked = []model.Achievement{}
	}

	return &ScanResult{
		Success:         true,
		ScanID:          rec.ID,
		PointsAwarded:   PointsPerScan,
		TotalPoints:     newPoints,
		PreviousLevel:   prevLevel,
		NewLevel:        newLevelInfo.Level,
		LevelUp:         newLevelInfo.Level > prevLevel,
		Level:           newLevelInfo,
		NewStreak:       newStreak,
		MaxStreak:       newMaxStreak,
		NewAchievements: unlocked,
	}, nil
}

// evaluateAchievements débloque les logros du catalogue nouvellement
// satisfaits. Seules les lignes réellement insérées par cet appel sont
// retournées : un insert perdu face à un appel concurrent n'est pas
// re-signalé au client.
func (s *Service) evaluateAchievements(ctx context.Context, userID string, stats *model.UserStats) ([]model.Achievement, error) {
	catalog, err := s.store.ListAchievementCatalog(ctx)
	if err != nil {
		return nil, err
	}
	already, err := s.store.ListUnlockedAchievementIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	newlyUnlocked := []model.Achievement{}
	for _, def := range catalog {
		if already[def.ID] {
			continue
		}

		var metric int
		switch def.Kind {
		case model.AchievementKindPoints:
			metric = stats.Points
		case model.AchievementKindScans:
			metric = stats.ObjectsScanned
		case model.AchievementKindStreak:
			metric = stats.CurrentStreak
			if stats.MaxStreak > metric {
				metric = stats.MaxStreak
			}
		default:
			continue
		}

		if metric < def.Threshold {
			continue
		}

		inserted, err := s.store.InsertUnlockedAchievementIfAbsent(ctx, userID, def.ID)
		if err != nil {
			return newlyUnlocked, err
		}
		if inserted {
			newlyUnlocked = append(newlyUnlocked, def)
		}
	}

	return newlyUnlocked, nil
}

// GrantWelcomeBonus accorde le bonus de bienvenue une seule fois, à
// l'inscription. Repasse par le même chemin compare-and-swap que les scans.
func (s *Service) GrantWelcomeBonus(ctx context.Context, userID string) error {
	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		stats, err := s.store.GetUserStats(ctx, userID)
		if err != nil {
			return err
		}
		if stats.WelcomeBonus {
			return nil
		}

		upd := StatsUpdate{
			Points:         stats.Points + WelcomeBonusPoints,
			ObjectsScanned: stats.ObjectsScanned,
			CurrentStreak:  stats.CurrentStreak,
			MaxStreak:      stats.MaxStreak,
			LastScanAt:     stats.LastScanAt,
			WelcomeBonus:   true,
		}

		err = s.store.UpdateUserStats(ctx, userID, upd, stats.Version)
		if err == nil {
			// Le bonus peut débloquer un premier logro de points.
			updated := *stats
			updated.Points = upd.Points
			updated.WelcomeBonus = true
			if _, err := s.evaluateAchievements(ctx, userID, &updated); err != nil {
				logger.Warning("achievement evaluation failed after welcome bonus for user %s: %v", userID, err)
			}
			return nil
		}
		if err != ErrConflict {
			return fmt.Errorf("%w: welcome bonus: %v", ErrPersistence, err)
		}
	}
	return fmt.Errorf("%w: welcome bonus: too many conflicts", ErrPersistence)
}
