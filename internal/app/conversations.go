package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/lu-zhengda/unimail/internal/conversation"
	"github.com/lu-zhengda/unimail/internal/domain"
	"github.com/lu-zhengda/unimail/internal/provider"
	"github.com/lu-zhengda/unimail/internal/store"
)

// ConversationStore is the subset of store.Store the service needs.
type ConversationStore interface {
	SaveConversationInfo(ctx context.Context, conv *store.Conversation) error
	GetConversationInfo(ctx context.Context, id string) (*store.Conversation, error)
}

// ConversationService keeps the stored conversation summaries of a single
// account up to date.
type ConversationService struct {
	store     ConversationStore
	fetcher   provider.ThreadFetcher
	accountID string
	self      string
}

// NewConversationService creates a ConversationService for accountID. self
// is the account's own address, used to recognize outgoing messages.
func NewConversationService(s ConversationStore, f provider.ThreadFetcher, accountID, self string) *ConversationService {
	return &ConversationService{store: s, fetcher: f, accountID: accountID, self: self}
}

// Get returns the decoded summary of a conversation. A missing or corrupt
// row yields nil so callers can render the conversation without a preview.
func (s *ConversationService) Get(ctx context.Context, id string) (*domain.ConversationInfo, error) {
	row, err := s.store.GetConversationInfo(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation %s: %w", id, err)
	}
	info, err := conversation.Decode(row.Info)
	if err != nil {
		log.Printf("[conversation] ignoring corrupt summary for %s: %v", id, err)
		return nil, nil
	}
	return info, nil
}

// MarkRead marks every message of a stored conversation and swaps the
// displayed snippet. The row is rewritten whenever its encoding changed,
// which includes a snippet swap on a conversation whose messages are not
// stored locally. It reports whether the stored row changed.
func (s *ConversationService) MarkRead(ctx context.Context, id string, read bool) (bool, error) {
	row, err := s.store.GetConversationInfo(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to load conversation %s: %w", id, err)
	}
	info, err := conversation.Decode(row.Info)
	if err != nil {
		return false, fmt.Errorf("failed to decode conversation %s: %w", id, err)
	}
	if info == nil {
		return false, nil
	}
	info.MarkRead(read)
	encoded := conversation.Encode(info)
	if encoded == row.Info {
		return false, nil
	}
	row.Info = encoded
	row.UpdatedAt = 0
	if err := s.store.SaveConversationInfo(ctx, row); err != nil {
		return false, fmt.Errorf("failed to save conversation %s: %w", id, err)
	}
	return true, nil
}

// Sync fetches a thread from the backend and stores its summary.
func (s *ConversationService) Sync(ctx context.Context, threadID string) (*domain.ConversationInfo, error) {
	if s.fetcher == nil {
		return nil, errors.New("no mail backend configured")
	}
	t, err := s.fetcher.GetThread(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch thread %s: %w", threadID, err)
	}
	info := conversation.FromThread(*t, s.self)
	if err := s.store.SaveConversationInfo(ctx, &store.Conversation{
		ID:        t.ID,
		AccountID: s.accountID,
		Info:      conversation.Encode(info),
	}); err != nil {
		return nil, fmt.Errorf("failed to save conversation %s: %w", t.ID, err)
	}
	log.Printf("[conversation] synced %s: %d messages", t.ID, len(info.Messages))
	return info, nil
}
