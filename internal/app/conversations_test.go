package app

import (
	"context"
	"errors"
	"testing"

	"github.com/lu-zhengda/unimail/internal/conversation"
	"github.com/lu-zhengda/unimail/internal/domain"
	"github.com/lu-zhengda/unimail/internal/store"
	"github.com/lu-zhengda/unimail/internal/store/sqlite"
)

type fakeFetcher struct {
	thread *domain.Thread
	err    error
}

func (f fakeFetcher) GetThread(ctx context.Context, id string) (*domain.Thread, error) {
	return f.thread, f.err
}

func newTestStore(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("sqlite.New() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.CreateAccount(context.Background(), &domain.Account{ID: "a1", Email: "me@gmail.com", Provider: "gmail"}); err != nil {
		t.Fatalf("CreateAccount() error: %v", err)
	}
	return db
}

func TestConversationService_Get(t *testing.T) {
	db := newTestStore(t)
	ctx := context.Background()
	svc := NewConversationService(db, nil, "a1", "me@gmail.com")

	info := domain.NewConversationInfo(2, 0, "hi", "hi", "bye")
	info.AddMessage(domain.MessageInfo{Read: false, Sender: "Alice"})
	db.SaveConversationInfo(ctx, &store.Conversation{ID: "good", AccountID: "a1", Info: conversation.Encode(info)})
	db.SaveConversationInfo(ctx, &store.Conversation{ID: "corrupt", AccountID: "a1", Info: "2^0^no splitter"})

	got, err := svc.Get(ctx, "good")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !got.Equal(info) {
		t.Errorf("Get() = %+v, want %+v", got, info)
	}

	for _, id := range []string{"corrupt", "missing"} {
		got, err := svc.Get(ctx, id)
		if err != nil {
			t.Errorf("Get(%q) error: %v", id, err)
		}
		if got != nil {
			t.Errorf("Get(%q) = %+v, want nil", id, got)
		}
	}
}

func TestConversationService_MarkRead(t *testing.T) {
	db := newTestStore(t)
	ctx := context.Background()
	svc := NewConversationService(db, nil, "a1", "me@gmail.com")

	info := domain.NewConversationInfo(1, 0, "new", "new", "last")
	info.AddMessage(domain.MessageInfo{Read: false, Sender: "Bob"})
	db.SaveConversationInfo(ctx, &store.Conversation{ID: "c1", AccountID: "a1", Info: conversation.Encode(info)})

	changed, err := svc.MarkRead(ctx, "c1", true)
	if err != nil {
		t.Fatalf("MarkRead() error: %v", err)
	}
	if !changed {
		t.Error("MarkRead() = false, want true")
	}
	got, _ := svc.Get(ctx, "c1")
	if got.Unread() {
		t.Error("conversation still unread after MarkRead(true)")
	}
	if got.Snippet() != "last" {
		t.Errorf("snippet = %q, want %q", got.Snippet(), "last")
	}

	changed, err = svc.MarkRead(ctx, "c1", true)
	if err != nil {
		t.Fatalf("MarkRead() error: %v", err)
	}
	if changed {
		t.Error("second MarkRead(true) reported a change")
	}

	if _, err := svc.MarkRead(ctx, "missing", true); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("MarkRead(missing) error = %v, want ErrNotFound", err)
	}
}

func TestConversationService_MarkRead_NoLocalMessages(t *testing.T) {
	db := newTestStore(t)
	ctx := context.Background()
	svc := NewConversationService(db, nil, "a1", "me@gmail.com")

	info := domain.NewConversationInfo(3, 0, "A", "B", "C")
	db.SaveConversationInfo(ctx, &store.Conversation{ID: "c1", AccountID: "a1", Info: conversation.Encode(info)})

	tests := []struct {
		read        bool
		wantSnippet string
		wantChanged bool
	}{
		{read: true, wantSnippet: "C", wantChanged: true},
		{read: true, wantSnippet: "C", wantChanged: false},
		{read: false, wantSnippet: "B", wantChanged: true},
	}
	for _, tt := range tests {
		changed, err := svc.MarkRead(ctx, "c1", tt.read)
		if err != nil {
			t.Fatalf("MarkRead(%v) error: %v", tt.read, err)
		}
		if changed != tt.wantChanged {
			t.Errorf("MarkRead(%v) = %v, want %v", tt.read, changed, tt.wantChanged)
		}
		got, err := svc.Get(ctx, "c1")
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if got.Snippet() != tt.wantSnippet {
			t.Errorf("after MarkRead(%v) snippet = %q, want %q", tt.read, got.Snippet(), tt.wantSnippet)
		}
		if got.MessageCount != 3 {
			t.Errorf("MessageCount = %d, want 3", got.MessageCount)
		}
	}
}

func TestConversationService_Sync(t *testing.T) {
	db := newTestStore(t)
	ctx := context.Background()
	thread := &domain.Thread{ID: "t1", Messages: []domain.Email{
		{ID: "m1", From: domain.Address{Email: "me@gmail.com"}, Snippet: "question", IsRead: true},
		{ID: "m2", From: domain.Address{Name: "Alice", Email: "alice@example.com"}, Snippet: "answer"},
	}}
	svc := NewConversationService(db, fakeFetcher{thread: thread}, "a1", "me@gmail.com")

	info, err := svc.Sync(ctx, "t1")
	if err != nil {
		t.Fatalf("Sync() error: %v", err)
	}
	if len(info.Messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(info.Messages))
	}
	if !info.Messages[0].IsFromMe() {
		t.Error("first message should be from me")
	}
	if info.Messages[1].Sender != "Alice" {
		t.Errorf("sender = %q, want %q", info.Messages[1].Sender, "Alice")
	}

	stored, err := svc.Get(ctx, "t1")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !stored.Equal(info) {
		t.Errorf("stored = %+v, want %+v", stored, info)
	}

	failing := NewConversationService(db, fakeFetcher{err: errors.New("offline")}, "a1", "me@gmail.com")
	if _, err := failing.Sync(ctx, "t1"); err == nil {
		t.Error("Sync() with failing backend succeeded, want error")
	}
}
