package gamification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	model "github.com/jeffnmg/green-bin-buddy/internal/models"
)

// fakeStore est un Store en mémoire avec la même sémantique de version que
// l'implémentation Postgres : une mise à jour n'est acceptée que si la
// version attendue est la version courante.
type fakeStore struct {
	mu       sync.Mutex
	stats    map[string]*model.UserStats
	scans    []*model.ScanRecord
	catalog  []model.Achievement
	unlocked map[string]map[string]bool

	failScanInsert  bool
	failStatsUpdate bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		stats:    make(map[string]*model.UserStats),
		unlocked: make(map[string]map[string]bool),
	}
}

func (f *fakeStore) GetUserStats(ctx context.Context, userID string) (*model.UserStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats, ok := f.stats[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	copy := *stats
	return &copy, nil
}

func (f *fakeStore) InsertScanRecord(ctx context.Context, rec *model.ScanRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failScanInsert {
		return errors.New("simulated scan insert failure")
	}
	rec.ID = fmt.Sprintf("scan-%d", len(f.scans)+1)
	copy := *rec
	f.scans = append(f.scans, &copy)
	return nil
}

func (f *fakeStore) UpdateUserStats(ctx context.Context, userID string, upd StatsUpdate, expectedVersion int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failStatsUpdate {
		return errors.New("simulated stats update failure")
	}
	stats, ok := f.stats[userID]
	if !ok || stats.Version != expectedVersion {
		return ErrConflict
	}
	stats.Points = upd.Points
	stats.ObjectsScanned = upd.ObjectsScanned
	stats.CurrentStreak = upd.CurrentStreak
	stats.MaxStreak = upd.MaxStreak
	stats.LastScanAt = upd.LastScanAt
	stats.WelcomeBonus = upd.WelcomeBonus
	stats.Version++
	return nil
}

func (f *fakeStore) ListAchievementCatalog(ctx context.Context) ([]model.Achievement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Achievement(nil), f.catalog...), nil
}

func (f *fakeStore) ListUnlockedAchievementIDs(ctx context.Context, userID string) (map[string]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make(map[string]bool, len(f.unlocked[userID]))
	for id := range f.unlocked[userID] {
		ids[id] = true
	}
	return ids, nil
}

func (f *fakeStore) InsertUnlockedAchievementIfAbsent(ctx context.Context, userID, achievementID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unlocked[userID] == nil {
		f.unlocked[userID] = make(map[string]bool)
	}
	if f.unlocked[userID][achievementID] {
		return false, nil
	}
	f.unlocked[userID][achievementID] = true
	return true, nil
}

func newTestService(store Store, now time.Time) *Service {
	svc := NewService(store)
	svc.now = func() time.Time { return now }
	return svc
}

func achievement(id, kind string, threshold int) model.Achievement {
	return model.Achievement{ID: id, Name: id, Kind: kind, Threshold: threshold, Active: true}
}

var testNow = time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)

func TestRegisterScan_EndToEnd(t *testing.T) {
	store := newFakeStore()
	yesterday := testNow.AddDate(0, 0, -1)
	store.stats["u1"] = &model.UserStats{
		UserID:         "u1",
		Points:         95,
		ObjectsScanned: 9,
		CurrentStreak:  4,
		MaxStreak:      6,
		LastScanAt:     &yesterday,
	}
	store.catalog = []model.Achievement{
		achievement("a-racha-5", model.AchievementKindStreak, 5),
		achievement("a-racha-7", model.AchievementKindStreak, 7),
		achievement("a-escaneos-10", model.AchievementKindScans, 10),
		achievement("a-puntos-100", model.AchievementKindPoints, 100),
		achievement("a-puntos-500", model.AchievementKindPoints, 500),
	}

	svc := newTestService(store, testNow)
	result, err := svc.RegisterScan(context.Background(), "u1", ScanInput{DetectedObject: "botella"})
	if err != nil {
		t.Fatalf("RegisterScan: %v", err)
	}

	if result.PointsAwarded != 10 {
		t.Errorf("PointsAwarded = %d, want 10", result.PointsAwarded)
	}
	if result.TotalPoints != 105 {
		t.Errorf("TotalPoints = %d, want 105", result.TotalPoints)
	}
	if result.PreviousLevel != 1 || result.NewLevel != 2 {
		t.Errorf("levels = %d -> %d, want 1 -> 2", result.PreviousLevel, result.NewLevel)
	}
	if !result.LevelUp {
		t.Error("expected LevelUp")
	}
	if result.NewStreak != 5 {
		t.Errorf("NewStreak = %d, want 5", result.NewStreak)
	}
	if result.MaxStreak != 6 {
		t.Errorf("MaxStreak = %d, want 6", result.MaxStreak)
	}

	wantUnlocked := map[string]bool{"a-racha-5": true, "a-escaneos-10": true, "a-puntos-100": true}
	if len(result.NewAchievements) != len(wantUnlocked) {
		t.Fatalf("NewAchievements = %d entries, want %d (%v)", len(result.NewAchievements), len(wantUnlocked), result.NewAchievements)
	}
	for _, a := range result.NewAchievements {
		if !wantUnlocked[a.ID] {
			t.Errorf("unexpected achievement unlocked: %s", a.ID)
		}
	}

	// Les stats persistées reflètent le résultat
	stats, _ := store.GetUserStats(context.Background(), "u1")
	if stats.Points != 105 || stats.ObjectsScanned != 10 || stats.CurrentStreak != 5 || stats.MaxStreak != 6 {
		t.Errorf("persisted stats = %+v", stats)
	}
	if stats.LastScanAt == nil || !stats.LastScanAt.Equal(testNow) {
		t.Errorf("LastScanAt = %v, want %v", stats.LastScanAt, testNow)
	}
	if len(store.scans) != 1 || store.scans[0].PointsAwarded != 10 {
		t.Errorf("scan records = %+v", store.scans)
	}
}

func TestRegisterScan_SameDayDoesNotInflateStreak(t *testing.T) {
	store := newFakeStore()
	earlier := testNow.Add(-3 * time.Hour)
	store.stats["u1"] = &model.UserStats{
		UserID: "u1", Points: 20, ObjectsScanned: 2,
		CurrentStreak: 2, MaxStreak: 2, LastScanAt: &earlier,
	}

	svc := newTestService(store, testNow)
	result, err := svc.RegisterScan(context.Background(), "u1", ScanInput{DetectedObject: "lata"})
	if err != nil {
		t.Fatalf("RegisterScan: %v", err)
	}
	if result.NewStreak != 2 {
		t.Errorf("NewStreak = %d, want 2", result.NewStreak)
	}
}

func TestRegisterScan_UserNotFound(t *testing.T) {
	svc := newTestService(newFakeStore(), testNow)
	_, err := svc.RegisterScan(context.Background(), "ghost", ScanInput{DetectedObject: "carton"})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestRegisterScan_ScanInsertFailure(t *testing.T) {
	store := newFakeStore()
	store.stats["u1"] = &model.UserStats{UserID: "u1"}
	store.failScanInsert = true

	svc := newTestService(store, testNow)
	_, err := svc.RegisterScan(context.Background(), "u1", ScanInput{DetectedObject: "vidrio"})
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("err = %v, want ErrPersistence", err)
	}

	// Aucune mutation des stats
	stats, _ := store.GetUserStats(context.Background(), "u1")
	if stats.Points != 0 || stats.ObjectsScanned != 0 {
		t.Errorf("stats mutated after failed insert: %+v", stats)
	}
}

func TestRegisterScan_StatsUpdateFailureReportsNoResult(t *testing.T) {
	store := newFakeStore()
	store.stats["u1"] = &model.UserStats{UserID: "u1"}
	store.failStatsUpdate = true

	svc := newTestService(store, testNow)
	result, err := svc.RegisterScan(context.Background(), "u1", ScanInput{DetectedObject: "papel"})
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("err = %v, want ErrPersistence", err)
	}
	if result != nil {
		t.Errorf("result = %+v, want nil on failure", result)
	}
	// Le scan orphelin reste en base (fenêtre connue, job de réparation)
	if len(store.scans) != 1 {
		t.Errorf("scans = %d, want 1 orphan", len(store.scans))
	}
}

// conflictingStore force des conflits de version sur les premiers updates,
// comme si un autre appareil écrivait en parallèle.
type conflictingStore struct {
	*fakeStore
	conflicts int
}

func (c *conflictingStore) UpdateUserStats(ctx context.Context, userID string, upd StatsUpdate, expectedVersion int) error {
	c.mu.Lock()
	if c.conflicts > 0 {
		c.conflicts--
		c.stats[userID].Version++ // un écrivain concurrent est passé
		c.mu.Unlock()
		return ErrConflict
	}
	c.mu.Unlock()
	return c.fakeStore.UpdateUserStats(ctx, userID, upd, expectedVersion)
}

func TestRegisterScan_RetriesOnConflict(t *testing.T) {
	base := newFakeStore()
	base.stats["u1"] = &model.UserStats{UserID: "u1", Points: 30, ObjectsScanned: 3}
	store := &conflictingStore{fakeStore: base, conflicts: 2}

	svc := newTestService(store, testNow)
	result, err := svc.RegisterScan(context.Background(), "u1", ScanInput{DetectedObject: "plastico"})
	if err != nil {
		t.Fatalf("RegisterScan after conflicts: %v", err)
	}
	if result.TotalPoints != 40 {
		t.Errorf("TotalPoints = %d, want 40", result.TotalPoints)
	}
}

func TestRegisterScan_GivesUpAfterTooManyConflicts(t *testing.T) {
	base := newFakeStore()
	base.stats["u1"] = &model.UserStats{UserID: "u1"}
	store := &conflictingStore{fakeStore: base, conflicts: maxUpdateRetries}

	svc := newTestService(store, testNow)
	_, err := svc.RegisterScan(context.Background(), "u1", ScanInput{DetectedObject: "plastico"})
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("err = %v, want ErrPersistence", err)
	}
}

func TestRegisterScan_ConcurrentScansUnlockOnce(t *testing.T) {
	store := newFakeStore()
	store.stats["u1"] = &model.UserStats{UserID: "u1", Points: 95, ObjectsScanned: 9}
	store.catalog = []model.Achievement{
		achievement("a-puntos-100", model.AchievementKindPoints, 100),
		achievement("a-escaneos-10", model.AchievementKindScans, 10),
	}

	svc := newTestService(store, testNow)

	var wg sync.WaitGroup
	results := make([]*ScanResult, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Les deux scans peuvent réussir grâce au réessai sur conflit
			if r, err := svc.RegisterScan(context.Background(), "u1", ScanInput{DetectedObject: "botella"}); err == nil {
				results[i] = r
			}
		}(i)
	}
	wg.Wait()

	// Chaque logro n'est débloqué qu'une seule fois au total
	seen := map[string]int{}
	for _, r := range results {
		if r == nil {
			continue
		}
		for _, a := range r.NewAchievements {
			seen[a.ID]++
		}
	}
	for id, n := range seen {
		if n > 1 {
			t.Errorf("achievement %s reported %d times, want at most 1", id, n)
		}
	}
	if len(store.unlocked["u1"]) != 2 {
		t.Errorf("unlocked rows = %d, want 2", len(store.unlocked["u1"]))
	}
}

func TestEvaluateAchievements_SecondCallUnlocksNothing(t *testing.T) {
	store := newFakeStore()
	store.catalog = []model.Achievement{
		achievement("a-puntos-50", model.AchievementKindPoints, 50),
	}
	svc := newTestService(store, testNow)
	stats := &model.UserStats{UserID: "u1", Points: 60}

	first, err := svc.evaluateAchievements(context.Background(), "u1", stats)
	if err != nil {
		t.Fatalf("first evaluate: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("first evaluate unlocked %d, want 1", len(first))
	}

	second, err := svc.evaluateAchievements(context.Background(), "u1", stats)
	if err != nil {
		t.Fatalf("second evaluate: %v", err)
	}
	if len(second) != 0 {
		t.Errorf("second evaluate unlocked %d, want 0", len(second))
	}
}

func TestEvaluateAchievements_StreakUsesMax(t *testing.T) {
	store := newFakeStore()
	store.catalog = []model.Achievement{
		achievement("a-racha-6", model.AchievementKindStreak, 6),
	}
	svc := newTestService(store, testNow)

	// racha_actual 2 mais racha_maxima 6 : le logro doit tomber
	stats := &model.UserStats{UserID: "u1", CurrentStreak: 2, MaxStreak: 6}
	unlocked, err := svc.evaluateAchievements(context.Background(), "u1", stats)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(unlocked) != 1 || unlocked[0].ID != "a-racha-6" {
		t.Errorf("unlocked = %+v, want a-racha-6", unlocked)
	}
}

func TestGrantWelcomeBonus(t *testing.T) {
	store := newFakeStore()
	store.stats["u1"] = &model.UserStats{UserID: "u1"}
	store.catalog = []model.Achievement{
		achievement("a-puntos-50", model.AchievementKindPoints, 50),
	}

	svc := newTestService(store, testNow)
	if err := svc.GrantWelcomeBonus(context.Background(), "u1"); err != nil {
		t.Fatalf("GrantWelcomeBonus: %v", err)
	}

	stats, _ := store.GetUserStats(context.Background(), "u1")
	if stats.Points != WelcomeBonusPoints {
		t.Errorf("Points = %d, want %d", stats.Points, WelcomeBonusPoints)
	}
	if !stats.WelcomeBonus {
		t.Error("WelcomeBonus flag not set")
	}
	if !store.unlocked["u1"]["a-puntos-50"] {
		t.Error("bonus should unlock the 50-point achievement")
	}

	// Deuxième appel : no-op
	if err := svc.GrantWelcomeBonus(context.Background(), "u1"); err != nil {
		t.Fatalf("second GrantWelcomeBonus: %v", err)
	}
	stats, _ = store.GetUserStats(context.Background(), "u1")
	if stats.Points != WelcomeBonusPoints {
		t.Errorf("Points after second grant = %d, want %d", stats.Points, WelcomeBonusPoints)
	}
}

func TestUserStats_RoundTrip(t *testing.T) {
	store := newFakeStore()
	lastScan := testNow.Add(-time.Hour)
	want := &model.UserStats{
		UserID: "u1", Username: "maria", Points: 120, ObjectsScanned: 12,
		CurrentStreak: 3, MaxStreak: 8, LastScanAt: &lastScan, WelcomeBonus: true,
	}
	store.stats["u1"] = want

	got, err := store.GetUserStats(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetUserStats: %v", err)
	}
	if got.Points != want.Points || got.ObjectsScanned != want.ObjectsScanned ||
		got.CurrentStreak != want.CurrentStreak || got.MaxStreak != want.MaxStreak ||
		!got.LastScanAt.Equal(*want.LastScanAt) || got.WelcomeBonus != want.WelcomeBonus {
		t.Errorf("reloaded stats = %+v, want %+v", got, want)
	}
}
