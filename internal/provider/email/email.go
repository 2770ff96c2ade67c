// Package email discovers Email/Exchange accounts through the tabular
// account query of the local mail store.
package email

import (
	"context"
	"fmt"

	"github.com/lu-zhengda/unimail/internal/domain"
	"github.com/lu-zhengda/unimail/internal/provider"
	"github.com/lu-zhengda/unimail/internal/registry"
)

// AccountsURI is the tabular source the email backend publishes.
const AccountsURI = "content://email/uiaccts"

// Source reports the accounts served at AccountsURI.
type Source struct {
	q   registry.Querier
	uri string
}

func New(q registry.Querier) *Source {
	return &Source{q: q, uri: AccountsURI}
}

func (s *Source) Name() domain.Source {
	return domain.SourceEmail
}

// Discover queries the backend. The row id is the account identity. Rows
// that carry no capabilities get the EAS base set.
func (s *Source) Discover(ctx context.Context) ([]domain.CachedAccount, error) {
	rows, err := s.q.QueryAccounts(ctx, s.uri)
	if err != nil {
		return nil, fmt.Errorf("failed to query email accounts: %w", err)
	}
	accounts, err := registry.ScanAccounts(rows, domain.SourceEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to read email accounts: %w", err)
	}
	for i := range accounts {
		if accounts[i].Capabilities == 0 {
			accounts[i].Capabilities = provider.EASCapabilities
		}
	}
	return accounts, nil
}

var _ provider.AccountSource = (*Source)(nil)
