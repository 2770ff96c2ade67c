package store

import (
	"context"
	"errors"

	"github.com/lu-zhengda/unimail/internal/domain"
	"github.com/lu-zhengda/unimail/internal/registry"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for the application.
type Store interface {
	// Accounts
	CreateAccount(ctx context.Context, account *domain.Account) error
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	ListAccounts(ctx context.Context, provider string) ([]domain.Account, error)
	DeleteAccount(ctx context.Context, id string) error
	QueryAccounts(ctx context.Context, uri string) (registry.Rows, error)

	// Conversations
	SaveConversationInfo(ctx context.Context, conv *Conversation) error
	GetConversationInfo(ctx context.Context, id string) (*Conversation, error)

	// Account cache
	SaveAccountCache(ctx context.Context, accounts []domain.CachedAccount) error
	LoadAccountCache(ctx context.Context) ([]domain.CachedAccount, error)

	// Lifecycle
	Close() error
}

// Conversation is a stored conversation row. Info holds the encoded
// conversation summary exactly as persisted.
type Conversation struct {
	ID        string
	AccountID string
	Info      string
	UpdatedAt int64 // Unix timestamp
}
