package registry

import (
	"context"
	"fmt"
	"log"

	"github.com/lu-zhengda/unimail/internal/domain"
)

// Rows is the cursor a tabular account source returns. *sql.Rows satisfies it.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// Querier runs an account query against the tabular source at uri. Rows must
// carry the columns in Columns order. A nil Rows means no accounts.
type Querier interface {
	QueryAccounts(ctx context.Context, uri string) (Rows, error)
}

// ScanAccounts reads every row into a descriptor tagged with source and
// closes rows on every path.
func ScanAccounts(rows Rows, source domain.Source) (accounts []domain.CachedAccount, err error) {
	if rows == nil {
		return nil, nil
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close account rows: %w", cerr)
		}
	}()

	for rows.Next() {
		a := domain.CachedAccount{Source: source}
		var caps int64
		if err := rows.Scan(
			&a.ID, &a.Name, &a.ProviderVersion, &a.URI, &caps,
			&a.FolderListURI, &a.SearchURI, &a.FromAddressesURI,
			&a.SaveDraftURI, &a.SendMailURI, &a.ExpungeMessageURI, &a.UndoURI,
			&a.SettingsURI, &a.HelpURI, &a.ComposeURI, &a.MIMEType,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		a.Capabilities = domain.Capabilities(caps)
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate account rows: %w", err)
	}
	return accounts, nil
}

// AddAccountsForURI queries q at uri and registers every returned account.
// An empty result is not an error.
func (r *Registry) AddAccountsForURI(ctx context.Context, q Querier, uri string, source domain.Source) (int, error) {
	rows, err := q.QueryAccounts(ctx, uri)
	if err != nil {
		return 0, fmt.Errorf("failed to query accounts at %s: %w", uri, err)
	}
	accounts, err := ScanAccounts(rows, source)
	if err != nil {
		return 0, fmt.Errorf("failed to read accounts at %s: %w", uri, err)
	}
	added := r.AddAccounts(accounts)
	log.Printf("[registry] added %d accounts from %s", added, uri)
	return added, nil
}
