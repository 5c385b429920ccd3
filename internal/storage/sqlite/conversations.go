package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/daypoints/internal/models"
	"github.com/julianstephens/daypoints/internal/storage"
)

func (s *Store) AddConversation(ctx context.Context, conv models.Conversation) (models.Conversation, error) {
	if conv.ID == "" {
		conv.ID = uuid.NewString()
	}
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO conversations (`+storage.ConversationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		conv.ID, conv.UserID, conv.SessionID, conv.ThreadID, conv.Message, conv.Response,
		conv.TokensUsed, conv.ModelUsed, conv.Simulated, storage.FormatTime(conv.CreatedAt))
	if err != nil {
		return models.Conversation{}, err
	}
	return conv, nil
}

func (s *Store) GetConversations(ctx context.Context, filter storage.ConversationFilter) ([]models.Conversation, error) {
	var where []string
	var args []interface{}
	if filter.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.SessionID != "" {
		where = append(where, "session_id = ?")
		args = append(args, filter.SessionID)
	}

	query := "SELECT " + storage.ConversationColumns + " FROM conversations"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	convs := []models.Conversation{}
	for rows.Next() {
		c, err := storage.ScanConversation(rows)
		if err != nil {
			return nil, err
		}
		convs = append(convs, c)
	}
	return convs, rows.Err()
}
