package postgres

import (
	"context"
	"fmt"
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
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
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
		args = append(args, filter.UserID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.SessionID != "" {
		args = append(args, filter.SessionID)
		where = append(where, fmt.Sprintf("session_id = $%d", len(args)))
	}

	query := "SELECT " + storage.ConversationColumns + " FROM conversations"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
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
