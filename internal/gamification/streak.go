package gamification

import (
	"time"
)

// dayString réduit un instant à sa date calendaire UTC.
// Toute la logique de racha compare des jours UTC, jamais des heures locales.
func dayString(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ResolveStreak décide de la continuation de la racha quotidienne.
// Même jour → inchangée, jour précédent → +1, sinon → remise à 1.
// Un premier scan (lastScan nil) démarre une racha de 1.
// Déterministe : à réévaluer à chaque scan, jamais à mettre en cache.
func ResolveStreak(lastScan *time.Time, now time.Time, currentStreak, maxStreak int) (newStreak, newMaxStreak int) {
	if lastScan == nil {
		newStreak = 1
	} else {
		today := dayString(now)
		yesterday := dayString(now.AddDate(0, 0, -1))

		switch dayString(*lastScan) {
		case today:
			newStreak = currentStreak
		case yesterday:
			newStreak = currentStreak + 1
		default:
			newStreak = 1
		}
	}

	newMaxStreak = maxStreak
	if newStreak > newMaxStreak {
		newMaxStreak = newStreak
	}
	return newStreak, newMaxStreak
}
