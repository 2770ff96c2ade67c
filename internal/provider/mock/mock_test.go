package mock

import (
	"context"
	"testing"

	"github.com/lu-zhengda/unimail/internal/domain"
	"github.com/lu-zhengda/unimail/internal/provider"
)

func TestDiscover(t *testing.T) {
	accounts, err := New().Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if len(accounts) != NumAccounts {
		t.Fatalf("got %d accounts, want %d", len(accounts), NumAccounts)
	}

	seen := make(map[int64]bool)
	for i, a := range accounts {
		if err := a.Validate(); err != nil {
			t.Errorf("account %d invalid: %v", i, err)
		}
		if seen[a.ID] {
			t.Errorf("duplicate id %d", a.ID)
		}
		seen[a.ID] = true
		if a.Source != domain.SourceMock {
			t.Errorf("source = %q, want %q", a.Source, domain.SourceMock)
		}
		if a.Capabilities != provider.MockCapabilities {
			t.Errorf("capabilities = %d, want %d", a.Capabilities, provider.MockCapabilities)
		}
	}
}

func TestAccount(t *testing.T) {
	a := Account(1)
	if a.Name != "account1@mockuiprovider.com" {
		t.Errorf("name = %q", a.Name)
	}
	if a.URI != "content://mock/account/1" {
		t.Errorf("uri = %q", a.URI)
	}
	if a.SendMailURI != "content://mock/account/1/sendMail" {
		t.Errorf("send uri = %q", a.SendMailURI)
	}
	if Account(1) != a {
		t.Error("Account(1) is not stable")
	}
}
