package storage

import (
	"context"
	"errors"

	"github.com/julianstephens/daypoints/internal/migration"
	"github.com/julianstephens/daypoints/internal/models"
)

// ErrNotFound is returned by every backend when a keyed row does not exist.
var ErrNotFound = errors.New("record not found")

// ConversationFilter narrows a transcript query. Empty fields match anything.
type ConversationFilter struct {
	UserID    string
	SessionID string
	Limit     int
}

type Provider interface {
	// Lifecycle
	Init(ctx context.Context) error
	Load(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error
	SchemaStatus(ctx context.Context) (migration.Status, error)

	// Settings
	GetSettings(ctx context.Context) (models.Settings, error)
	SaveSettings(ctx context.Context, settings models.Settings) error

	// Habits. AddHabit assigns ID and timestamps and returns the stored row.
	AddHabit(ctx context.Context, habit models.Habit) (models.Habit, error)
	GetHabit(ctx context.Context, id string) (models.Habit, error)
	GetAllHabits(ctx context.Context, includeInactive bool) ([]models.Habit, error)
	UpdateHabit(ctx context.Context, habit models.Habit) error

	// Habit tracking
	AddTrackingEntry(ctx context.Context, entry models.TrackingEntry) (models.TrackingEntry, error)
	// DeleteLastTrackingEntry removes the entry with the highest Seq for
	// (habitID, date) and returns it.
	DeleteLastTrackingEntry(ctx context.Context, habitID, date string) (models.TrackingEntry, error)
	DeleteTrackingEntriesForDate(ctx context.Context, date string) (int64, error)
	// GetTrackedInstancesForDate joins each entry with the current habit row.
	GetTrackedInstancesForDate(ctx context.Context, date string) ([]models.TrackedInstance, error)
	GetTrackingEntriesInRange(ctx context.Context, startDate, endDate string) ([]models.TrackingEntry, error)
	GetTrackingEntriesForHabit(ctx context.Context, habitID, startDate, endDate string) ([]models.TrackingEntry, error)

	// Daily scores, keyed by date
	GetDailyScore(ctx context.Context, date string) (models.DailyScore, error)
	UpsertDailyScore(ctx context.Context, score models.DailyScore) error
	GetDailyScores(ctx context.Context, startDate, endDate string) ([]models.DailyScore, error)

	// Conversations, newest first
	AddConversation(ctx context.Context, conv models.Conversation) (models.Conversation, error)
	GetConversations(ctx context.Context, filter ConversationFilter) ([]models.Conversation, error)

	// Utils
	GetConfigPath() string
	Backend() string
}
