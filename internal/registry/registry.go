// Package registry manages habit definitions and their priority scores.
package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/julianstephens/daypoints/internal/constants"
	apperrors "github.com/julianstephens/daypoints/internal/errors"
	"github.com/julianstephens/daypoints/internal/logger"
	"github.com/julianstephens/daypoints/internal/models"
	"github.com/julianstephens/daypoints/internal/scoring"
	"github.com/julianstephens/daypoints/internal/storage"
)

type habitStore interface {
	AddHabit(ctx context.Context, habit models.Habit) (models.Habit, error)
	GetHabit(ctx context.Context, id string) (models.Habit, error)
	GetAllHabits(ctx context.Context, includeInactive bool) ([]models.Habit, error)
	UpdateHabit(ctx context.Context, habit models.Habit) error
}

// Listener is told about every habit that was created or changed.
type Listener func(ctx context.Context, habit models.Habit)

// Registry is the habit CRUD service.
type Registry struct {
	store     habitStore
	validator *validator.Validate
	listeners []Listener
	now       func() time.Time
}

// CreateHabitRequest describes a new habit. Dimensions are rated 1..5.
type CreateHabitRequest struct {
	Name       string `json:"name" validate:"notblank"`
	Impact     int    `json:"impact" validate:"min=1,max=5"`
	Difficulty int    `json:"difficulty" validate:"min=1,max=5"`
	TimeEffort int    `json:"time_effort" validate:"min=1,max=5"`
	ColorTag   string `json:"color_tag" validate:"colortag"`
}

// UpdateHabitRequest carries the fields to change. Nil fields are kept.
type UpdateHabitRequest struct {
	Name          *string `json:"name,omitempty"`
	PriorityScore *int    `json:"priority_score,omitempty"`
	ColorTag      *string `json:"color_tag,omitempty"`
}

// New constructs the registry.
func New(store habitStore, validate *validator.Validate) *Registry {
	if validate == nil {
		validate = validator.New()
	}
	r := &Registry{store: store, validator: validate, now: time.Now}
	r.validator.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	r.validator.RegisterValidation("colortag", func(fl validator.FieldLevel) bool {
		return constants.IsValidColorTag(fl.Field().String())
	})
	return r
}

// OnChange registers a listener for habit writes.
func (r *Registry) OnChange(l Listener) {
	r.listeners = append(r.listeners, l)
}

func (r *Registry) publish(ctx context.Context, h models.Habit) {
	for _, l := range r.listeners {
		l(ctx, h)
	}
}

// Create validates req, computes the priority score and stores an active habit.
func (r *Registry) Create(ctx context.Context, req CreateHabitRequest) (models.Habit, error) {
	const op = "registry.Create"
	if err := r.validator.Struct(req); err != nil {
		return models.Habit{}, validationError(op, err)
	}

	habit, err := r.store.AddHabit(ctx, models.Habit{
		Name:          strings.TrimSpace(req.Name),
		PriorityScore: scoring.PriorityScore(req.Impact, req.Difficulty, req.TimeEffort),
		ColorTag:      constants.ColorTag(req.ColorTag),
		Active:        true,
	})
	if err != nil {
		return models.Habit{}, apperrors.Storage(op, err)
	}

	logger.Info("Habit created", "id", habit.ID, "name", habit.Name, "priority_score", habit.PriorityScore)
	r.publish(ctx, habit)
	return habit, nil
}

// Update applies the set fields of req to habit id.
func (r *Registry) Update(ctx context.Context, id string, req UpdateHabitRequest) (models.Habit, error) {
	const op = "registry.Update"
	if req.Name != nil {
		if err := r.validator.Var(*req.Name, "notblank"); err != nil {
			return models.Habit{}, apperrors.Validation(op, "name must not be blank")
		}
	}
	if req.PriorityScore != nil {
		if err := r.validator.Var(*req.PriorityScore, "min=0"); err != nil {
			return models.Habit{}, apperrors.Validation(op, "priority score must be >= 0, got %d", *req.PriorityScore)
		}
	}
	if req.ColorTag != nil {
		if err := r.validator.Var(*req.ColorTag, "colortag"); err != nil {
			return models.Habit{}, apperrors.Validation(op, "color tag %q is not a palette value", *req.ColorTag)
		}
	}

	habit, err := r.get(ctx, op, id)
	if err != nil {
		return models.Habit{}, err
	}

	if req.Name != nil {
		habit.Name = strings.TrimSpace(*req.Name)
	}
	if req.PriorityScore != nil {
		habit.PriorityScore = *req.PriorityScore
	}
	if req.ColorTag != nil {
		habit.ColorTag = constants.ColorTag(*req.ColorTag)
	}
	habit.UpdatedAt = r.now().UTC()

	if err := r.save(ctx, op, habit); err != nil {
		return models.Habit{}, err
	}
	logger.Info("Habit updated", "id", habit.ID)
	r.publish(ctx, habit)
	return habit, nil
}

// Deactivate hides a habit from List. Its history stays valid.
// Deactivating an inactive habit is a no-op.
func (r *Registry) Deactivate(ctx context.Context, id string) (models.Habit, error) {
	const op = "registry.Deactivate"
	habit, err := r.get(ctx, op, id)
	if err != nil {
		return models.Habit{}, err
	}
	if !habit.Active {
		return habit, nil
	}

	habit.Active = false
	habit.UpdatedAt = r.now().UTC()
	if err := r.save(ctx, op, habit); err != nil {
		return models.Habit{}, err
	}
	logger.Info("Habit deactivated", "id", habit.ID)
	r.publish(ctx, habit)
	return habit, nil
}

// Get returns any habit, active or not.
func (r *Registry) Get(ctx context.Context, id string) (models.Habit, error) {
	return r.get(ctx, "registry.Get", id)
}

// List returns active habits ordered by name (byte-wise), then id.
func (r *Registry) List(ctx context.Context) ([]models.Habit, error) {
	habits, err := r.store.GetAllHabits(ctx, false)
	if err != nil {
		return nil, apperrors.Storage("registry.List", err)
	}
	return habits, nil
}

// ListAll includes deactivated habits.
func (r *Registry) ListAll(ctx context.Context) ([]models.Habit, error) {
	habits, err := r.store.GetAllHabits(ctx, true)
	if err != nil {
		return nil, apperrors.Storage("registry.ListAll", err)
	}
	return habits, nil
}

func (r *Registry) get(ctx context.Context, op, id string) (models.Habit, error) {
	if strings.TrimSpace(id) == "" {
		return models.Habit{}, apperrors.Validation(op, "habit id is required")
	}
	habit, err := r.store.GetHabit(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Habit{}, apperrors.NotFound(op, "habit", id)
	}
	if err != nil {
		return models.Habit{}, apperrors.Storage(op, err)
	}
	return habit, nil
}

func (r *Registry) save(ctx context.Context, op string, habit models.Habit) error {
	err := r.store.UpdateHabit(ctx, habit)
	if errors.Is(err, storage.ErrNotFound) {
		return apperrors.NotFound(op, "habit", habit.ID)
	}
	if err != nil {
		return apperrors.Storage(op, err)
	}
	return nil
}

// validationError turns validator output into one readable message.
func validationError(op string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.Validation(op, "%v", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeField(fe))
	}
	return apperrors.Validation(op, "%s", strings.Join(msgs, "; "))
}

func describeField(fe validator.FieldError) string {
	field := fieldName(fe.Field())
	switch fe.Tag() {
	case "notblank":
		return field + " must not be blank"
	case "min", "max":
		return fmt.Sprintf("%s must be between %d and %d, got %v",
			field, constants.MinDimensionRating, constants.MaxDimensionRating, fe.Value())
	case "colortag":
		return fmt.Sprintf("%s %q is not a palette value", field, fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

func fieldName(f string) string {
	switch f {
	case "TimeEffort":
		return "time effort"
	case "ColorTag":
		return "color tag"
	default:
		return strings.ToLower(f)
	}
}
