package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/lu-zhengda/unimail/internal/domain"
	"github.com/lu-zhengda/unimail/internal/registry"
	"github.com/lu-zhengda/unimail/internal/store"
)

func (s *DB) CreateAccount(ctx context.Context, acct *domain.Account) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (id, email, provider, display_name, capabilities) VALUES (?, ?, ?, ?, ?)`,
		acct.ID, acct.Email, acct.Provider, acct.DisplayName, int64(acct.Capabilities),
	)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (s *DB) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	var a domain.Account
	var caps int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, provider, display_name, capabilities, created_at FROM accounts WHERE id = ?`, id,
	).Scan(&a.ID, &a.Email, &a.Provider, &a.DisplayName, &caps, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", id, err)
	}
	a.Capabilities = domain.Capabilities(caps)
	return &a, nil
}

// ListAccounts returns accounts in creation order. An empty provider lists
// every account.
func (s *DB) ListAccounts(ctx context.Context, provider string) ([]domain.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, email, provider, display_name, capabilities, created_at FROM accounts
		WHERE ? = '' OR provider = ?
		ORDER BY created_at, rowid`, provider, provider,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var a domain.Account
		var caps int64
		if err := rows.Scan(&a.ID, &a.Email, &a.Provider, &a.DisplayName, &caps, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		a.Capabilities = domain.Capabilities(caps)
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (s *DB) DeleteAccount(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account %s: %w", id, err)
	}
	return nil
}

// QueryAccounts serves content://<provider>/uiaccts with the registry's
// account column contract. The row id is the backend-assigned identity.
func (s *DB) QueryAccounts(ctx context.Context, uri string) (registry.Rows, error) {
	provider, err := accountsProvider(uri)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT account_rowid, email, 1,
			base || 'uiaccount/' || email,
			capabilities,
			base || 'uifolders/' || email,
			base || 'uisearch/' || email,
			'',
			base || 'uisavedraft/' || email,
			base || 'uisendmail/' || email,
			base || 'uiexpunge/' || email,
			base || 'uiundo/' || email,
			base || 'uisettings/' || email,
			'',
			base || 'uicompose/' || email,
			'account/' || provider
		FROM (
			SELECT rowid AS account_rowid, email, provider, capabilities, created_at,
				'content://' || provider || '/' AS base
			FROM accounts WHERE provider = ?
		)
		ORDER BY created_at, account_rowid`, provider)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for %s: %w", uri, err)
	}
	return rows, nil
}

func accountsProvider(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("failed to parse accounts uri %q: %w", uri, err)
	}
	if u.Scheme != "content" || u.Host == "" || strings.Trim(u.Path, "/") != "uiaccts" {
		return "", fmt.Errorf("unsupported accounts uri %q", uri)
	}
	return u.Host, nil
}
