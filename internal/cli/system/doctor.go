package system

import (
	"fmt"

	"github.com/julianstephens/daypoints/internal/backup"
	"github.com/julianstephens/daypoints/internal/cache"
	"github.com/julianstephens/daypoints/internal/cli"
	"github.com/julianstephens/daypoints/internal/clock"
	"github.com/julianstephens/daypoints/internal/config"
	"github.com/julianstephens/daypoints/internal/keyring"
)

type DoctorCmd struct{}

type checkResult int

const (
	checkOK checkResult = iota
	checkWarn
	checkFail
	checkSkipped
)

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	report := func(name string, res checkResult, detail string) {
		switch res {
		case checkOK:
			ctx.Printf("✓ %s: OK\n", name)
		case checkWarn:
			ctx.Printf("⚠ %s: WARNING\n", name)
		case checkFail:
			ctx.Printf("❌ %s: FAIL\n", name)
			hasError = true
		case checkSkipped:
			ctx.Printf("⊘ %s: SKIPPED\n", name)
		}
		if detail != "" {
			ctx.Printf("   %s\n", detail)
		}
	}

	dbReachable := false
	if err := ctx.Store.Ping(ctx.Context()); err != nil {
		report("Database reachable", checkFail, fmt.Sprintf("Error: %v", err))
	} else {
		report("Database reachable", checkOK, "")
		dbReachable = true
	}

	if dbReachable {
		res, detail := checkSchema(ctx)
		report("Schema version", res, detail)
	} else {
		report("Schema version", checkSkipped, "database not reachable")
	}

	if ctx.IsSQLite() {
		res, detail := checkBackups(ctx)
		report("Backups present", res, detail)
	}

	if dbReachable {
		res, detail := checkData(ctx)
		report("Data validation", res, detail)
	} else {
		report("Data validation", checkSkipped, "database not reachable")
	}

	res, detail := checkTimezone(ctx, dbReachable)
	report("Timezone", res, detail)

	if keyring.IsAvailable() {
		report("OS keyring", checkOK, "")
	} else {
		report("OS keyring", checkWarn, "not available; keep secrets in the environment instead")
	}

	res, detail = checkChat(ctx)
	report("Chat model", res, detail)

	res, detail = checkRedis(ctx)
	report("Trend cache", res, detail)

	ctx.Println()
	if hasError {
		return fmt.Errorf("some diagnostics failed")
	}
	ctx.Println("All checks passed.")
	return nil
}

func checkSchema(ctx *cli.Context) (checkResult, string) {
	st, err := ctx.Store.SchemaStatus(ctx.Context())
	if err != nil {
		return checkFail, fmt.Sprintf("Error: %v", err)
	}
	if st.Current > st.Latest {
		return checkFail, fmt.Sprintf("database version %d is newer than this build (%d)", st.Current, st.Latest)
	}
	if !st.UpToDate() {
		return checkFail, fmt.Sprintf("version %d, %d migration(s) pending; run 'daypoints migrate'", st.Current, len(st.Pending))
	}
	return checkOK, fmt.Sprintf("version %d", st.Current)
}

func checkBackups(ctx *cli.Context) (checkResult, string) {
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return checkWarn, fmt.Sprintf("failed to list backups: %v", err)
	}
	if len(backups) == 0 {
		return checkWarn, "no backups found; run 'daypoints backup create'"
	}
	return checkOK, fmt.Sprintf("%d backup(s), latest %s", len(backups), backups[0].Timestamp.Local().Format("2006-01-02 15:04"))
}

func checkData(ctx *cli.Context) (checkResult, string) {
	result, err := collectConflicts(ctx)
	if err != nil {
		return checkFail, fmt.Sprintf("Error: %v", err)
	}
	if result.HasConflicts() {
		return checkFail, fmt.Sprintf("%d conflict(s); run 'daypoints validate' for details", len(result.Conflicts))
	}
	return checkOK, ""
}

func checkTimezone(ctx *cli.Context, dbReachable bool) (checkResult, string) {
	persisted := ""
	if dbReachable {
		settings, err := ctx.Store.GetSettings(ctx.Context())
		if err != nil {
			return checkFail, fmt.Sprintf("Error reading settings: %v", err)
		}
		persisted = settings.Timezone
	}
	override := ""
	if ctx.Config != nil {
		override = ctx.Config.Timezone
	}
	clk, err := clock.New(override, persisted)
	if err != nil {
		return checkFail, fmt.Sprintf("Error: %v", err)
	}
	return checkOK, fmt.Sprintf("%s (from %s), today is %s", clk.EffectiveTimezone(), clk.Source(), clk.Today())
}

func checkChat(ctx *cli.Context) (checkResult, string) {
	if ctx.Config != nil && ctx.Config.GenAI.APIKey != "" {
		return checkOK, "API key from configuration"
	}
	if _, err := keyring.Get(keyring.SecretGenAI); err == nil {
		return checkOK, "API key from keyring"
	}
	return checkWarn, "no API key; chat runs in simulated mode"
}

func checkRedis(ctx *cli.Context) (checkResult, string) {
	var cfg config.RedisConfig
	if ctx.Config != nil {
		cfg = ctx.Config.Redis
	}
	if !cfg.Enabled() {
		return checkOK, "disabled"
	}
	client, err := cache.Connect(ctx.Context(), cfg)
	if err != nil {
		return checkWarn, fmt.Sprintf("redis at %s unreachable: %v", cfg.Addr, err)
	}
	_ = client.Close()
	return checkOK, "redis at " + cfg.Addr
}
