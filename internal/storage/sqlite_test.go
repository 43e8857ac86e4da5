package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	for _, score := range []int{100, 50, 200} {
		if _, err := store.SaveScore("blast", score); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}
	if _, err := store.SaveScore("blast_daily", 500); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	scores, err := store.TopScores("blast", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}
	want := []int{200, 100, 50}
	for i, w := range want {
		if scores[i].Score != w {
			t.Errorf("scores[%d] = %d, want %d", i, scores[i].Score, w)
		}
		if scores[i].CreatedAt.IsZero() {
			t.Errorf("scores[%d].CreatedAt not parsed", i)
		}
	}

	daily, err := store.TopScores("blast_daily", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(daily) != 1 {
		t.Errorf("Expected 1 daily score, got %d", len(daily))
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := range 5 {
		store.SaveScore("blast", (i+1)*100)
	}

	scores, err := store.TopScores("blast", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores with limit, got %d", len(scores))
	}
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}

	all, err := store.AllScores("blast")
	if err != nil {
		t.Fatalf("AllScores() failed: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("AllScores() returned %d, want 5", len(all))
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("blast")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty game, got %d", high)
	}

	store.SaveScore("blast", 100)
	store.SaveScore("blast", 300)
	store.SaveScore("blast", 200)

	high, err = store.HighScore("blast")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore("blast", 100)
	store.SaveScore("blast", 200)
	store.SaveScore("blast_daily", 300)

	if err := store.ClearScores("blast"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	if scores, _ := store.TopScores("blast", 10); len(scores) != 0 {
		t.Errorf("Expected 0 scores after clear, got %d", len(scores))
	}
	if scores, _ := store.TopScores("blast_daily", 10); len(scores) != 1 {
		t.Error("daily scores should not be affected by clearing classic")
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.GetGameStats("blast")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 0 || !stats.LastPlayed.IsZero() {
		t.Errorf("empty stats = %+v", stats)
	}

	store.SaveScore("blast", 10)
	store.SaveScore("blast", 30)
	store.SaveScore("blast_daily", 7)

	stats, err = store.GetGameStats("blast")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 2 || stats.HighScore != 30 || stats.TotalScore != 40 || stats.AvgScore != 20 {
		t.Errorf("stats = %+v", stats)
	}

	all, err := store.GetAllGamesStats()
	if err != nil {
		t.Fatalf("GetAllGamesStats() failed: %v", err)
	}
	if len(all) != 2 || all["blast_daily"].HighScore != 7 {
		t.Errorf("all stats = %v", all)
	}
}

func TestStoreSaveGame(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.LoadGame("blast"); !errors.Is(err, ErrNoSave) {
		t.Fatalf("LoadGame() on empty store error = %v, want ErrNoSave", err)
	}

	first := []byte(`{"score":1}`)
	second := []byte(`{"score":2}`)

	if err := store.SaveGame("blast", first); err != nil {
		t.Fatalf("SaveGame() failed: %v", err)
	}
	if err := store.SaveGame("blast", second); err != nil {
		t.Fatalf("SaveGame() overwrite failed: %v", err)
	}

	data, err := store.LoadGame("blast")
	if err != nil {
		t.Fatalf("LoadGame() failed: %v", err)
	}
	if !bytes.Equal(data, second) {
		t.Errorf("LoadGame() = %s, want %s", data, second)
	}

	if _, err := store.LoadGame("blast_daily:2026-10-17"); !errors.Is(err, ErrNoSave) {
		t.Errorf("saves should be keyed by id, got %v", err)
	}

	if err := store.DeleteGame("blast"); err != nil {
		t.Fatalf("DeleteGame() failed: %v", err)
	}
	if _, err := store.LoadGame("blast"); !errors.Is(err, ErrNoSave) {
		t.Errorf("LoadGame() after delete error = %v, want ErrNoSave", err)
	}
	if err := store.DeleteGame("blast"); err != nil {
		t.Errorf("deleting a missing save should succeed, got %v", err)
	}
}

func TestStoreSavesSurviveReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := store.SaveGame("blast", []byte("x")); err != nil {
		t.Fatalf("SaveGame() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	data, err := store.LoadGame("blast")
	if err != nil || string(data) != "x" {
		t.Errorf("LoadGame() = %q, %v", data, err)
	}
}
