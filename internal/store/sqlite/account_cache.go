package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lu-zhengda/unimail/internal/domain"
)

// SaveAccountCache replaces the persisted registry snapshot. Slice order is
// kept as the restore order.
func (s *DB) SaveAccountCache(ctx context.Context, accounts []domain.CachedAccount) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin account cache transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM account_cache`); err != nil {
		return fmt.Errorf("failed to clear account cache: %w", err)
	}
	for i := range accounts {
		data, err := json.Marshal(&accounts[i])
		if err != nil {
			return fmt.Errorf("failed to marshal account %d: %w", accounts[i].ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO account_cache (id, position, source, data) VALUES (?, ?, ?, ?)`,
			accounts[i].ID, i, string(accounts[i].Source), string(data),
		); err != nil {
			return fmt.Errorf("failed to cache account %d: %w", accounts[i].ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit account cache: %w", err)
	}
	return nil
}

// LoadAccountCache returns the persisted snapshot in saved order. Rows that
// no longer decode are skipped.
func (s *DB) LoadAccountCache(ctx context.Context) ([]domain.CachedAccount, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, data FROM account_cache ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to load account cache: %w", err)
	}
	defer rows.Close()

	var accounts []domain.CachedAccount
	for rows.Next() {
		var (
			id   int64
			data string
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("failed to scan cached account: %w", err)
		}
		var a domain.CachedAccount
		if err := json.Unmarshal([]byte(data), &a); err != nil || a.ID != id {
			continue
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}
