package system

import (
	"context"
	"strings"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/daypoints/internal/backup"
	"github.com/julianstephens/daypoints/internal/models"
)

func TestDoctorCmd_HealthyDB(t *testing.T) {
	gokeyring.MockInit()
	ctx, _, out := newTestContext(t)

	// Missing backups is a warning, not a failure.
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor command failed on healthy database: %v\n%s", err, out.String())
	}
	for _, want := range []string{"✓ Database reachable: OK", "⚠ Backups present: WARNING", "✓ Data validation: OK", "All checks passed."} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("doctor output missing %q:\n%s", want, out.String())
		}
	}
}

func TestDoctorCmd_NewerSchema(t *testing.T) {
	gokeyring.MockInit()
	ctx, store, out := newTestContext(t)

	db := store.GetDB()
	if _, err := db.Exec("DELETE FROM schema_version"); err != nil {
		t.Fatalf("failed to delete schema version: %v", err)
	}
	if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (999)"); err != nil {
		t.Fatalf("failed to insert schema version: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor command should fail when the schema is newer than the build")
	}
	if !strings.Contains(out.String(), "❌ Schema version: FAIL") {
		t.Errorf("doctor output missing schema failure:\n%s", out.String())
	}
}

func TestDoctorCmd_WithBackups(t *testing.T) {
	gokeyring.MockInit()
	ctx, store, out := newTestContext(t)

	if _, err := backup.NewManager(store.GetConfigPath()).CreateBackup(context.Background()); err != nil {
		t.Fatalf("failed to create backup: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor command failed with backups present: %v", err)
	}
	if !strings.Contains(out.String(), "✓ Backups present: OK") {
		t.Errorf("doctor output missing backups check:\n%s", out.String())
	}
}

func TestDoctorCmd_ScoreDrift(t *testing.T) {
	gokeyring.MockInit()
	ctx, store, out := newTestContext(t)

	h := addHabit(t, store, "Meditate", 20)
	addEntry(t, store, h.ID, "2024-03-09")
	if err := store.UpsertDailyScore(context.Background(), models.DailyScore{Date: "2024-03-09", HabitScoreTotal: 99}); err != nil {
		t.Fatalf("failed to save score: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor command should fail when stored scores drift")
	}
	if !strings.Contains(out.String(), "❌ Data validation: FAIL") {
		t.Errorf("doctor output missing data failure:\n%s", out.String())
	}
}

func TestCheckTimezone(t *testing.T) {
	ctx, _, _ := newTestContext(t)

	res, detail := checkTimezone(ctx, true)
	if res != checkOK {
		t.Errorf("checkTimezone() = %v (%s), want OK", res, detail)
	}

	ctx.Config.Timezone = "Nowhere/Special"
	if res, _ := checkTimezone(ctx, true); res != checkFail {
		t.Errorf("checkTimezone() with unknown zone = %v, want fail", res)
	}
}

func TestCheckRedisDisabled(t *testing.T) {
	ctx, _, _ := newTestContext(t)

	res, detail := checkRedis(ctx)
	if res != checkOK || detail != "disabled" {
		t.Errorf("checkRedis() = %v %q, want OK disabled", res, detail)
	}
}
