package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lu-zhengda/unimail/internal/store"
)

// SaveConversationInfo inserts or replaces the stored summary of a
// conversation. A zero UpdatedAt is stamped with the current time.
func (s *DB) SaveConversationInfo(ctx context.Context, conv *store.Conversation) error {
	if conv.UpdatedAt == 0 {
		conv.UpdatedAt = time.Now().Unix()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO conversations (id, account_id, conversation_info, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			account_id        = excluded.account_id,
			conversation_info = excluded.conversation_info,
			updated_at        = excluded.updated_at`,
		conv.ID, conv.AccountID, conv.Info, conv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save conversation %s: %w", conv.ID, err)
	}
	return nil
}

// GetConversationInfo returns the stored row without decoding it.
func (s *DB) GetConversationInfo(ctx context.Context, id string) (*store.Conversation, error) {
	var c store.Conversation
	err := s.db.QueryRowContext(ctx,
		`SELECT id, account_id, conversation_info, updated_at FROM conversations WHERE id = ?`, id,
	).Scan(&c.ID, &c.AccountID, &c.Info, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("conversation %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation %s: %w", id, err)
	}
	return &c, nil
}
