package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/daypoints/internal/constants"
	"github.com/julianstephens/daypoints/internal/models"
	"github.com/julianstephens/daypoints/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "daypoints.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	addHabit(t, store, "Meditate")
	store.Close()
	return dbPath
}

func addHabit(t *testing.T, store *sqlite.Store, name string) {
	t.Helper()
	_, err := store.AddHabit(context.Background(), models.Habit{
		Name: name, PriorityScore: 30, ColorTag: constants.ColorRed, Active: true,
	})
	if err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}
}

func countHabits(t *testing.T, dbPath string) int {
	t.Helper()
	store := sqlite.NewStore(dbPath)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("failed to load %s: %v", dbPath, err)
	}
	defer store.Close()
	habits, err := store.GetAllHabits(context.Background(), true)
	if err != nil {
		t.Fatalf("failed to list habits: %v", err)
	}
	return len(habits)
}

// fixedClock advances one second per call so names never collide.
func fixedClock(start time.Time) func() time.Time {
	n := 0
	return func() time.Time {
		n++
		return start.Add(time.Duration(n) * time.Second)
	}
}

func TestCreateBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	backupPath, err := mgr.CreateBackup(context.Background())
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if filepath.Dir(backupPath) != mgr.GetBackupDir() {
		t.Errorf("backup written to %s, want dir %s", backupPath, mgr.GetBackupDir())
	}
	if got := countHabits(t, backupPath); got != 1 {
		t.Errorf("expected 1 habit in backup, got %d", got)
	}
}

func TestCreateBackupMissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "absent.db"))
	if _, err := mgr.CreateBackup(context.Background()); err == nil {
		t.Error("expected error for missing database")
	}
}

func TestBackupRotation(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.now = fixedClock(time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC))

	for i := 0; i < constants.MaxBackups+5; i++ {
		if _, err := mgr.CreateBackup(context.Background()); err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != constants.MaxBackups {
		t.Errorf("expected %d backups after rotation, got %d", constants.MaxBackups, len(backups))
	}
	for i := 1; i < len(backups); i++ {
		if backups[i].Timestamp.After(backups[i-1].Timestamp) {
			t.Errorf("backups not sorted newest first at %d", i)
		}
	}
}

func TestSameInstantGetsUniqueNames(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	fixed := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	mgr.now = func() time.Time { return fixed }

	first, err := mgr.CreateBackup(context.Background())
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	second, err := mgr.CreateBackup(context.Background())
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct backup paths")
	}
	backups, _ := mgr.ListBackups()
	if len(backups) != 2 {
		t.Errorf("expected 2 backups, got %d", len(backups))
	}
}

func TestListBackupsIgnoresStrangers(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	backups, err := mgr.ListBackups()
	if err != nil || len(backups) != 0 {
		t.Fatalf("ListBackups() = %v, %v; want empty", backups, err)
	}

	if err := os.MkdirAll(mgr.GetBackupDir(), 0700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", constants.BackupFilePrefix + "garbage.db"} {
		if err := os.WriteFile(filepath.Join(mgr.GetBackupDir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := mgr.CreateBackup(context.Background()); err != nil {
		t.Fatal(err)
	}

	backups, err = mgr.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 1 {
		t.Fatalf("expected 1 backup, got %d", len(backups))
	}
	if backups[0].Size == 0 || backups[0].Timestamp.IsZero() {
		t.Errorf("incomplete backup info: %+v", backups[0])
	}
}

func TestRestoreWorkflow(t *testing.T) {
	ctx := context.Background()
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.now = fixedClock(time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC))

	backupPath, err := mgr.CreateBackup(ctx)
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	store := sqlite.NewStore(dbPath)
	if err := store.Load(ctx); err != nil {
		t.Fatal(err)
	}
	addHabit(t, store, "Run")
	store.Close()
	if got := countHabits(t, dbPath); got != 2 {
		t.Fatalf("expected 2 habits before restore, got %d", got)
	}

	safety, err := mgr.RestoreBackup(ctx, backupPath)
	if err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}
	if got := countHabits(t, dbPath); got != 1 {
		t.Errorf("expected 1 habit after restore, got %d", got)
	}
	if got := countHabits(t, safety); got != 2 {
		t.Errorf("expected safety backup to hold 2 habits, got %d", got)
	}
}

func TestRestoreRejectsBadFiles(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	if _, err := mgr.RestoreBackup(context.Background(), filepath.Join(t.TempDir(), "nope.db")); err == nil {
		t.Error("expected error for missing backup")
	}

	bogus := filepath.Join(t.TempDir(), "bogus.db")
	if err := os.WriteFile(bogus, []byte("definitely not sqlite, just text padding it out"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.RestoreBackup(context.Background(), bogus); err == nil {
		t.Error("expected error for corrupt backup")
	}
	if got := countHabits(t, dbPath); got != 1 {
		t.Errorf("database changed after failed restore: %d habits", got)
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{name: constants.BackupFilePrefix + "20240310-080000.000000.db", ok: true},
		{name: constants.BackupFilePrefix + "20240310-080000.000000-3.db", ok: true},
		{name: constants.BackupFilePrefix + "20240310.db", ok: false},
		{name: "other-20240310-080000.000000.db", ok: false},
	}
	for _, tt := range tests {
		if _, ok := parseName(tt.name); ok != tt.ok {
			t.Errorf("parseName(%q) ok = %v, want %v", tt.name, ok, tt.ok)
		}
	}
}
