package gmail

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/lu-zhengda/unimail/internal/domain"
	"github.com/lu-zhengda/unimail/internal/provider"
	"github.com/lu-zhengda/unimail/internal/store"
)

const authority = "gmail"

// AccountLister lists locally configured accounts of one provider.
type AccountLister interface {
	ListAccounts(ctx context.Context, provider string) ([]domain.Account, error)
}

// TokenChecker reports whether an OAuth token is stored for an address.
type TokenChecker interface {
	HasToken(address string) (bool, error)
}

// ProfileFunc returns the address the Gmail API reports for an account.
type ProfileFunc func(ctx context.Context, address string) (string, error)

// KeyringProfile returns a ProfileFunc that calls the Gmail API with the
// token stored for each address.
func KeyringProfile(ts *store.KeyringTokenStore) ProfileFunc {
	return func(ctx context.Context, address string) (string, error) {
		return New(address, ts).GetProfile(ctx)
	}
}

// Source discovers the Gmail accounts that are configured and signed in.
type Source struct {
	accounts AccountLister
	tokens   TokenChecker
	profile  ProfileFunc
}

// NewSource returns a Source. A nil profile skips the API check.
func NewSource(accounts AccountLister, tokens TokenChecker, profile ProfileFunc) *Source {
	return &Source{accounts: accounts, tokens: tokens, profile: profile}
}

func (s *Source) Name() domain.Source {
	return domain.SourceGmail
}

// Discover returns one descriptor per usable account. Accounts without a
// token or failing the profile check are skipped.
func (s *Source) Discover(ctx context.Context) ([]domain.CachedAccount, error) {
	configured, err := s.accounts.ListAccounts(ctx, string(domain.SourceGmail))
	if err != nil {
		return nil, fmt.Errorf("failed to list gmail accounts: %w", err)
	}

	accounts := make([]domain.CachedAccount, 0, len(configured))
	for _, a := range configured {
		ok, err := s.tokens.HasToken(a.Email)
		if err != nil {
			log.Printf("[gmail] skipping %s: %v", a.Email, err)
			continue
		}
		if !ok {
			log.Printf("[gmail] skipping %s: not signed in", a.Email)
			continue
		}
		if s.profile != nil {
			addr, err := s.profile(ctx, a.Email)
			if err != nil {
				log.Printf("[gmail] skipping %s: %v", a.Email, err)
				continue
			}
			if !strings.EqualFold(addr, a.Email) {
				log.Printf("[gmail] skipping %s: token belongs to %s", a.Email, addr)
				continue
			}
		}
		accounts = append(accounts, Account(a.Email, a.Capabilities))
	}
	return accounts, nil
}

// Account builds the descriptor for a Gmail address. Zero capabilities
// select the Gmail defaults.
func Account(address string, caps domain.Capabilities) domain.CachedAccount {
	if caps == 0 {
		caps = provider.GmailCapabilities
	}
	uri := func(kind string) string { return domain.AccountURI(authority, kind, address) }
	return domain.CachedAccount{
		ID:                domain.AccountID(domain.SourceGmail, address),
		Source:            domain.SourceGmail,
		Name:              address,
		URI:               uri("account"),
		ProviderVersion:   1,
		Capabilities:      caps,
		FolderListURI:     uri("labels"),
		SearchURI:         uri("search"),
		FromAddressesURI:  uri("fromAddresses"),
		SaveDraftURI:      uri("saveDraft"),
		SendMailURI:       uri("sendMail"),
		ExpungeMessageURI: uri("expunge"),
		UndoURI:           uri("undo"),
		SettingsURI:       uri("settings"),
		HelpURI:           uri("help"),
		ComposeURI:        uri("compose"),
		MIMEType:          "account/gmail",
	}
}

var _ provider.AccountSource = (*Source)(nil)
