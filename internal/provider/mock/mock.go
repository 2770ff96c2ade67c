// Package mock provides a fixed set of fake accounts for development and
// tests.
package mock

import (
	"context"
	"fmt"

	"github.com/lu-zhengda/unimail/internal/domain"
	"github.com/lu-zhengda/unimail/internal/provider"
)

// NumAccounts is the number of accounts the mock backend reports.
const NumAccounts = 2

const authority = "mock"

// Source reports NumAccounts mock accounts.
type Source struct{}

func New() *Source {
	return &Source{}
}

func (s *Source) Name() domain.Source {
	return domain.SourceMock
}

// Discover never fails.
func (s *Source) Discover(ctx context.Context) ([]domain.CachedAccount, error) {
	accounts := make([]domain.CachedAccount, 0, NumAccounts)
	for i := range NumAccounts {
		accounts = append(accounts, Account(i))
	}
	return accounts, nil
}

// Account returns the descriptor of mock account n.
func Account(n int) domain.CachedAccount {
	name := fmt.Sprintf("account%d@mockuiprovider.com", n)
	base := fmt.Sprintf("content://%s/account/%d", authority, n)
	return domain.CachedAccount{
		ID:                domain.AccountID(domain.SourceMock, name),
		Source:            domain.SourceMock,
		Name:              name,
		URI:               base,
		ProviderVersion:   1,
		Capabilities:      provider.MockCapabilities,
		FolderListURI:     base + "/folders",
		SearchURI:         base + "/search",
		FromAddressesURI:  base + "/fromAddresses",
		SaveDraftURI:      base + "/saveDraft",
		SendMailURI:       base + "/sendMail",
		ExpungeMessageURI: base + "/expunge",
		UndoURI:           base + "/undo",
		SettingsURI:       base + "/settings",
		HelpURI:           base + "/help",
		ComposeURI:        base + "/compose",
		MIMEType:          "account/mock",
	}
}

var _ provider.AccountSource = (*Source)(nil)
