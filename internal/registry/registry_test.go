package registry

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/julianstephens/daypoints/internal/constants"
	apperrors "github.com/julianstephens/daypoints/internal/errors"
	"github.com/julianstephens/daypoints/internal/models"
	"github.com/julianstephens/daypoints/internal/storage/sqlite"
)

func setupTestRegistry(t *testing.T) (*Registry, *sqlite.Store) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return New(store, nil), store
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestCreate(t *testing.T) {
	r, _ := setupTestRegistry(t)
	ctx := context.Background()

	h, err := r.Create(ctx, CreateHabitRequest{
		Name:       "Meditate",
		Impact:     5,
		Difficulty: 3,
		TimeEffort: 2,
		ColorTag:   string(constants.ColorDarkBlue),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if h.ID == "" {
		t.Error("Create() should assign an id")
	}
	if h.PriorityScore != 30 {
		t.Errorf("PriorityScore = %d, want 30", h.PriorityScore)
	}
	if !h.Active {
		t.Error("new habit should be active")
	}
	if h.ColorTag != constants.ColorDarkBlue {
		t.Errorf("ColorTag = %q, want %q", h.ColorTag, constants.ColorDarkBlue)
	}

	got, err := r.Get(ctx, h.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.ColorTag != constants.ColorDarkBlue || got.Name != "Meditate" {
		t.Errorf("Get() = %+v, want round-tripped habit", got)
	}
}

func TestCreateValidation(t *testing.T) {
	r, store := setupTestRegistry(t)
	ctx := context.Background()
	valid := CreateHabitRequest{Name: "Run", Impact: 3, Difficulty: 3, TimeEffort: 3, ColorTag: string(constants.ColorRed)}

	tests := []struct {
		name   string
		mutate func(*CreateHabitRequest)
	}{
		{name: "blank name", mutate: func(r *CreateHabitRequest) { r.Name = "   " }},
		{name: "impact zero", mutate: func(r *CreateHabitRequest) { r.Impact = 0 }},
		{name: "difficulty six", mutate: func(r *CreateHabitRequest) { r.Difficulty = 6 }},
		{name: "time effort negative", mutate: func(r *CreateHabitRequest) { r.TimeEffort = -1 }},
		{name: "unknown color", mutate: func(r *CreateHabitRequest) { r.ColorTag = "#000000" }},
		{name: "color short name", mutate: func(r *CreateHabitRequest) { r.ColorTag = "red" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			_, err := r.Create(ctx, req)
			if !apperrors.IsValidation(err) {
				t.Errorf("Create() error = %v, want validation error", err)
			}
		})
	}

	// Nothing was written.
	all, err := store.GetAllHabits(ctx, true)
	if err != nil {
		t.Fatalf("GetAllHabits() error = %v", err)
	}
	if len(all) != 0 {
		t.Errorf("habits after failed creates = %d, want 0", len(all))
	}
}

func TestUpdate(t *testing.T) {
	r, _ := setupTestRegistry(t)
	ctx := context.Background()

	h, err := r.Create(ctx, CreateHabitRequest{Name: "Read", Impact: 2, Difficulty: 2, TimeEffort: 2, ColorTag: string(constants.ColorPink)})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, err := r.Update(ctx, h.ID, UpdateHabitRequest{PriorityScore: intPtr(55)})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.PriorityScore != 55 || updated.Name != "Read" || updated.ColorTag != constants.ColorPink {
		t.Errorf("partial Update() = %+v", updated)
	}

	updated, err = r.Update(ctx, h.ID, UpdateHabitRequest{Name: strPtr("Read fiction"), ColorTag: strPtr(string(constants.ColorYellow))})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Name != "Read fiction" || updated.PriorityScore != 55 || updated.ColorTag != constants.ColorYellow {
		t.Errorf("Update() = %+v", updated)
	}

	tests := []struct {
		name    string
		id      string
		req     UpdateHabitRequest
		checkFn func(error) bool
	}{
		{name: "unknown id", id: "nope", req: UpdateHabitRequest{Name: strPtr("x")}, checkFn: apperrors.IsNotFound},
		{name: "blank name", id: h.ID, req: UpdateHabitRequest{Name: strPtr(" ")}, checkFn: apperrors.IsValidation},
		{name: "negative score", id: h.ID, req: UpdateHabitRequest{PriorityScore: intPtr(-1)}, checkFn: apperrors.IsValidation},
		{name: "bad color", id: h.ID, req: UpdateHabitRequest{ColorTag: strPtr("blue")}, checkFn: apperrors.IsValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Update(ctx, tt.id, tt.req)
			if !tt.checkFn(err) {
				t.Errorf("Update() error = %v (kind %v)", err, apperrors.KindOf(err))
			}
		})
	}
}

func TestDeactivate(t *testing.T) {
	r, _ := setupTestRegistry(t)
	ctx := context.Background()

	h, err := r.Create(ctx, CreateHabitRequest{Name: "Stretch", Impact: 1, Difficulty: 1, TimeEffort: 1, ColorTag: string(constants.ColorLightGreen)})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	first, err := r.Deactivate(ctx, h.ID)
	if err != nil {
		t.Fatalf("Deactivate() error = %v", err)
	}
	if first.Active {
		t.Error("Deactivate() should clear Active")
	}
	second, err := r.Deactivate(ctx, h.ID)
	if err != nil {
		t.Fatalf("second Deactivate() error = %v", err)
	}
	if second.Active || !second.UpdatedAt.Equal(first.UpdatedAt) {
		t.Errorf("second Deactivate() = %+v, want unchanged %+v", second, first)
	}

	list, err := r.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 0 {
		t.Errorf("List() = %d habits, want 0", len(list))
	}
	all, err := r.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(all) != 1 {
		t.Errorf("ListAll() = %d habits, want 1", len(all))
	}

	if _, err := r.Deactivate(ctx, "missing"); !apperrors.IsNotFound(err) {
		t.Errorf("Deactivate(missing) error = %v, want not found", err)
	}
}

func TestListOrdering(t *testing.T) {
	r, _ := setupTestRegistry(t)
	ctx := context.Background()

	for _, name := range []string{"apple", "Zen", "banana", "Apple"} {
		if _, err := r.Create(ctx, CreateHabitRequest{Name: name, Impact: 1, Difficulty: 1, TimeEffort: 1, ColorTag: string(constants.ColorRed)}); err != nil {
			t.Fatalf("Create(%q) error = %v", name, err)
		}
	}

	list, err := r.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := []string{"Apple", "Zen", "apple", "banana"}
	for i, name := range want {
		if list[i].Name != name {
			t.Errorf("List()[%d] = %q, want %q", i, list[i].Name, name)
		}
	}
}

func TestListenersAndStorageErrors(t *testing.T) {
	r, store := setupTestRegistry(t)
	ctx := context.Background()

	var seen []models.Habit
	r.OnChange(func(_ context.Context, h models.Habit) { seen = append(seen, h) })

	h, err := r.Create(ctx, CreateHabitRequest{Name: "Walk", Impact: 2, Difficulty: 1, TimeEffort: 3, ColorTag: string(constants.ColorLightBlue)})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := r.Deactivate(ctx, h.ID); err != nil {
		t.Fatalf("Deactivate() error = %v", err)
	}
	if len(seen) != 2 {
		t.Errorf("listener calls = %d, want 2", len(seen))
	}

	store.GetDB().Close()
	_, err = r.List(ctx)
	if !apperrors.IsStorage(err) {
		t.Errorf("List() on closed store error = %v, want storage error", err)
	}
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) || appErr.Err == nil {
		t.Error("storage error should preserve its cause")
	}
}
