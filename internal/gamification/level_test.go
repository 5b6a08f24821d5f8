package gamification

import (
	"testing"
)

func TestGetLevelInfo_LevelFormula(t *testing.T) {
	// Niveau 1 à 0 point, un niveau tous les 100 points
	for points := 0; points <= 3000; points++ {
		info := GetLevelInfo(points)
		if want := points/100 + 1; info.Level != want {
			t.Fatalf("GetLevelInfo(%d).Level = %d, want %d", points, info.Level, want)
		}
		if want := points % 100; info.ProgressToNext != want {
			t.Fatalf("GetLevelInfo(%d).ProgressToNext = %d, want %d", points, info.ProgressToNext, want)
		}
		if info.ProgressToNext < 0 || info.ProgressToNext > 99 {
			t.Fatalf("GetLevelInfo(%d).ProgressToNext = %d, out of [0,99]", points, info.ProgressToNext)
		}
	}
}

func TestGetLevelInfo_PointsBounds(t *testing.T) {
	info := GetLevelInfo(250)
	if info.PointsForCurrentLevel != 200 {
		t.Errorf("PointsForCurrentLevel = %d, want 200", info.PointsForCurrentLevel)
	}
	if info.PointsForNextLevel != 300 {
		t.Errorf("PointsForNextLevel = %d, want 300", info.PointsForNextLevel)
	}
}

func TestGetLevelInfo_Tiers(t *testing.T) {
	tests := []struct {
		points int
		tier   string
		title  string
	}{
		{0, TierNovato, "Reciclador Novato"},
		{499, TierNovato, "Reciclador Novato"},
		{500, TierIntermedio, "Eco-Guerrero"}, // niveau 6
		{999, TierIntermedio, "Eco-Guerrero"},
		{1000, TierAvanzado, "Guardián Verde"}, // niveau 11
		{1999, TierAvanzado, "Guardián Verde"},
		{2000, TierMaestro, "Maestro del Reciclaje"}, // niveau 21
		{100000, TierMaestro, "Maestro del Reciclaje"},
	}

	for _, tt := range tests {
		info := GetLevelInfo(tt.points)
		if info.Tier != tt.tier {
			t.Errorf("GetLevelInfo(%d).Tier = %q, want %q", tt.points, info.Tier, tt.tier)
		}
		if info.Title != tt.title {
			t.Errorf("GetLevelInfo(%d).Title = %q, want %q", tt.points, info.Title, tt.title)
		}
	}
}

func TestLevelEmoji(t *testing.T) {
	tests := []struct {
		tier string
		want string
	}{
		{TierNovato, "🌱"},
		{TierIntermedio, "🌿"},
		{TierAvanzado, "🏆"},
		{TierMaestro, "👑"},
		{"unknown", ""},
	}
	for _, tt := range tests {
		if got := LevelEmoji(tt.tier); got != tt.want {
			t.Errorf("LevelEmoji(%q) = %q, want %q", tt.tier, got, tt.want)
		}
	}
}
