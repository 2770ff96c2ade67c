package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/lu-zhengda/unimail/internal/domain"
	"github.com/lu-zhengda/unimail/internal/registry"
	"github.com/lu-zhengda/unimail/internal/store"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCreateAccount(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	acct := &domain.Account{
		ID:           "acc-1",
		Email:        "test@gmail.com",
		Provider:     "gmail",
		DisplayName:  "Test User",
		Capabilities: domain.CapArchive,
	}
	if err := db.CreateAccount(ctx, acct); err != nil {
		t.Fatalf("CreateAccount() error: %v", err)
	}

	got, err := db.GetAccount(ctx, "acc-1")
	if err != nil {
		t.Fatalf("GetAccount() error: %v", err)
	}
	if got.Email != "test@gmail.com" {
		t.Errorf("email = %q, want %q", got.Email, "test@gmail.com")
	}
	if got.DisplayName != "Test User" {
		t.Errorf("display_name = %q, want %q", got.DisplayName, "Test User")
	}
	if got.Capabilities != domain.CapArchive {
		t.Errorf("capabilities = %d, want %d", got.Capabilities, domain.CapArchive)
	}
}

func TestGetAccount_NotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := db.GetAccount(context.Background(), "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetAccount() error = %v, want ErrNotFound", err)
	}
}

func TestListAccounts(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	db.CreateAccount(ctx, &domain.Account{ID: "a1", Email: "a@test.com", Provider: "gmail"})
	db.CreateAccount(ctx, &domain.Account{ID: "a2", Email: "b@test.com", Provider: "gmail"})
	db.CreateAccount(ctx, &domain.Account{ID: "a3", Email: "c@corp.com", Provider: "email"})

	accounts, err := db.ListAccounts(ctx, "")
	if err != nil {
		t.Fatalf("ListAccounts() error: %v", err)
	}
	if len(accounts) != 3 {
		t.Errorf("got %d accounts, want 3", len(accounts))
	}

	gmail, err := db.ListAccounts(ctx, "gmail")
	if err != nil {
		t.Fatalf("ListAccounts(gmail) error: %v", err)
	}
	if len(gmail) != 2 {
		t.Errorf("got %d gmail accounts, want 2", len(gmail))
	}
}

func TestDeleteAccount(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	db.CreateAccount(ctx, &domain.Account{ID: "a1", Email: "a@test.com", Provider: "gmail"})
	if err := db.DeleteAccount(ctx, "a1"); err != nil {
		t.Fatalf("DeleteAccount() error: %v", err)
	}

	accounts, err := db.ListAccounts(ctx, "")
	if err != nil {
		t.Fatalf("ListAccounts() error: %v", err)
	}
	if len(accounts) != 0 {
		t.Errorf("got %d accounts after delete, want 0", len(accounts))
	}
}

func TestQueryAccounts(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	db.CreateAccount(ctx, &domain.Account{ID: "e1", Email: "one@corp.com", Provider: "email", Capabilities: domain.CapSmartReply})
	db.CreateAccount(ctx, &domain.Account{ID: "e2", Email: "two@corp.com", Provider: "email"})
	db.CreateAccount(ctx, &domain.Account{ID: "g1", Email: "me@gmail.com", Provider: "gmail"})

	rows, err := db.QueryAccounts(ctx, "content://email/uiaccts")
	if err != nil {
		t.Fatalf("QueryAccounts() error: %v", err)
	}
	accounts, err := registry.ScanAccounts(rows, domain.SourceEmail)
	if err != nil {
		t.Fatalf("ScanAccounts() error: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("got %d accounts, want 2", len(accounts))
	}

	a := accounts[0]
	if a.Name != "one@corp.com" {
		t.Errorf("name = %q, want %q", a.Name, "one@corp.com")
	}
	if a.ID == 0 || a.ID == accounts[1].ID {
		t.Errorf("ids = %d, %d, want distinct backend ids", a.ID, accounts[1].ID)
	}
	if want := "content://email/uisendmail/one@corp.com"; a.SendMailURI != want {
		t.Errorf("send uri = %q, want %q", a.SendMailURI, want)
	}
	if want := "content://email/uiaccount/one@corp.com"; a.URI != want {
		t.Errorf("uri = %q, want %q", a.URI, want)
	}
	if !a.Capabilities.Has(domain.CapSmartReply) {
		t.Errorf("capabilities = %d, want smart reply", a.Capabilities)
	}
	if a.MIMEType != "account/email" {
		t.Errorf("mime type = %q", a.MIMEType)
	}
}

func TestQueryAccounts_Empty(t *testing.T) {
	db := newTestDB(t)
	rows, err := db.QueryAccounts(context.Background(), "content://email/uiaccts")
	if err != nil {
		t.Fatalf("QueryAccounts() error: %v", err)
	}
	accounts, err := registry.ScanAccounts(rows, domain.SourceEmail)
	if err != nil {
		t.Fatalf("ScanAccounts() error: %v", err)
	}
	if len(accounts) != 0 {
		t.Errorf("got %d accounts, want 0", len(accounts))
	}
}

func TestQueryAccounts_BadURI(t *testing.T) {
	db := newTestDB(t)
	for _, uri := range []string{"http://email/uiaccts", "content://email/folders", "content:///uiaccts"} {
		if _, err := db.QueryAccounts(context.Background(), uri); err == nil {
			t.Errorf("QueryAccounts(%q) succeeded, want error", uri)
		}
	}
}
