package scanner

import (
	"database/sql"

	model "github.com/jeffnmg/green-bin-buddy/internal/models"
	"github.com/jeffnmg/green-bin-buddy/internal/utils"
)

// ScanUserStats scanne une ligne SQL vers un UserStats
// Utilise les types sql.Null* et les convertit automatiquement
func ScanUserStats(scanner interface {
	Scan(dest ...interface{}) error
}) (*model.UserStats, error) {
	var stats model.UserStats
	var lastScan sql.NullTime

	err := scanner.Scan(
		&stats.UserID, &stats.Username, &stats.Points, &stats.ObjectsScanned,
		&stats.CurrentStreak, &stats.MaxStreak, &lastScan,
		&stats.WelcomeBonus, &stats.Version,
	)
	if err != nil {
		return nil, err
	}

	stats.LastScanAt = utils.NullTimeToPointer(lastScan)

	return &stats, nil
}

// ScanUserProfile scanne une ligne SQL vers un UserProfile
func ScanUserProfile(scanner interface {
	Scan(dest ...interface{}) error
}) (*model.UserProfile, error) {
	var user model.UserProfile
	var phone sql.NullString
	var lastScan sql.NullTime

	err := scanner.Scan(
		&user.ID, &user.Username, &user.Email, &phone,
		&user.Points, &user.ObjectsScanned, &user.CurrentStreak, &user.MaxStreak,
		&lastScan, &user.WelcomeBonus, &user.TourSeen,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	// Conversions
	user.PhoneNumber = utils.NullStringToString(phone)
	user.LastScanAt = utils.NullTimeToPointer(lastScan)

	return &user, nil
}

// ScanScanRecord scanne une ligne SQL vers un ScanRecord
func ScanScanRecord(scanner interface {
	Scan(dest ...interface{}) error
}) (*model.ScanRecord, error) {
	var rec model.ScanRecord
	var detectedES, wasteType, bin, imageURL sql.NullString
	var confidence sql.NullInt64

	err := scanner.Scan(
		&rec.ID, &rec.UserID, &rec.DetectedObject, &detectedES,
		&wasteType, &bin, &rec.Recyclable, &confidence,
		&rec.PointsAwarded, &rec.Origin, &imageURL, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	// Conversions
	rec.DetectedObjectES = utils.NullStringToString(detectedES)
	rec.WasteType = utils.NullStringToString(wasteType)
	rec.Bin = utils.NullStringToString(bin)
	rec.ImageURL = utils.NullStringToString(imageURL)
	rec.Confidence = utils.NullInt64ToPointer(confidence)

	return &rec, nil
}

// ScanAchievement scanne une ligne SQL vers un Achievement
func ScanAchievement(scanner interface {
	Scan(dest ...interface{}) error
}) (*model.Achievement, error) {
	var a model.Achievement

	err := scanner.Scan(
		&a.ID, &a.Name, &a.Description, &a.Icon,
		&a.Kind, &a.Threshold, &a.Active, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &a, nil
}

// ScanLeaderboardEntry scanne une ligne SQL vers un LeaderboardEntry
func ScanLeaderboardEntry(scanner interface {
	Scan(dest ...interface{}) error
}) (*model.LeaderboardEntry, error) {
	var e model.LeaderboardEntry

	err := scanner.Scan(
		&e.UserID, &e.Username, &e.Points, &e.ObjectsScanned,
		&e.CurrentStreak, &e.MaxStreak, &e.Rank, &e.Score,
	)
	if err != nil {
		return nil, err
	}

	return &e, nil
}
