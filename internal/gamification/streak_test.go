package gamification

import (
	"testing"
	"time"
)

var streakNow = time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

func TestResolveStreak_FirstScan(t *testing.T) {
	newStreak, newMax := ResolveStreak(nil, streakNow, 0, 0)
	if newStreak != 1 {
		t.Errorf("newStreak = %d, want 1", newStreak)
	}
	if newMax != 1 {
		t.Errorf("newMaxStreak = %d, want 1", newMax)
	}
}

func TestResolveStreak_SameDayRepeat(t *testing.T) {
	// Re-scanner le même jour ne gonfle pas la racha
	last := streakNow.Add(-2 * time.Hour)
	newStreak, newMax := ResolveStreak(&last, streakNow, 3, 5)
	if newStreak != 3 {
		t.Errorf("newStreak = %d, want 3", newStreak)
	}
	if newMax != 5 {
		t.Errorf("newMaxStreak = %d, want 5", newMax)
	}
}

func TestResolveStreak_ConsecutiveDay(t *testing.T) {
	last := streakNow.AddDate(0, 0, -1)
	newStreak, newMax := ResolveStreak(&last, streakNow, 3, 3)
	if newStreak != 4 {
		t.Errorf("newStreak = %d, want 4", newStreak)
	}
	if newMax != 4 {
		t.Errorf("newMaxStreak = %d, want 4", newMax)
	}
}

func TestResolveStreak_ConsecutiveKeepsHigherMax(t *testing.T) {
	last := streakNow.AddDate(0, 0, -1)
	newStreak, newMax := ResolveStreak(&last, streakNow, 3, 6)
	if newStreak != 4 {
		t.Errorf("newStreak = %d, want 4", newStreak)
	}
	if newMax != 6 {
		t.Errorf("newMaxStreak = %d, want 6", newMax)
	}
}

func TestResolveStreak_GapResets(t *testing.T) {
	last := streakNow.AddDate(0, 0, -3)
	newStreak, newMax := ResolveStreak(&last, streakNow, 7, 7)
	if newStreak != 1 {
		t.Errorf("newStreak = %d, want 1", newStreak)
	}
	if newMax != 7 {
		t.Errorf("newMaxStreak = %d, want 7", newMax)
	}
}

func TestResolveStreak_DayBoundaryUTC(t *testing.T) {
	// 23:59 hier puis 00:01 aujourd'hui : jours UTC consécutifs
	last := time.Date(2025, 6, 14, 23, 59, 0, 0, time.UTC)
	now := time.Date(2025, 6, 15, 0, 1, 0, 0, time.UTC)
	newStreak, _ := ResolveStreak(&last, now, 1, 1)
	if newStreak != 2 {
		t.Errorf("newStreak = %d, want 2", newStreak)
	}
}

func TestResolveStreak_NonUTCInput(t *testing.T) {
	// Les instants sont ramenés au jour UTC quel que soit leur fuseau
	bogota := time.FixedZone("America/Bogota", -5*3600)
	last := time.Date(2025, 6, 14, 20, 0, 0, 0, bogota) // 2025-06-15 01:00 UTC
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, bogota)  // 2025-06-15 15:00 UTC
	newStreak, _ := ResolveStreak(&last, now, 2, 2)
	if newStreak != 2 {
		t.Errorf("newStreak = %d, want 2 (same UTC day)", newStreak)
	}
}
