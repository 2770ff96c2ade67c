package domain

import "testing"

func TestAddress_String(t *testing.T) {
	tests := []struct {
		name string
		addr Address
		want string
	}{
		{"with name", Address{Name: "John", Email: "john@example.com"}, "John <john@example.com>"},
		{"email only", Address{Email: "john@example.com"}, "john@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.addr.String(); got != tt.want {
				t.Errorf("Address.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAddress_DisplayName(t *testing.T) {
	if got := (Address{Name: "Jane", Email: "jane@example.com"}).DisplayName(); got != "Jane" {
		t.Errorf("DisplayName() = %q, want %q", got, "Jane")
	}
	if got := (Address{Email: "jane@example.com"}).DisplayName(); got != "jane@example.com" {
		t.Errorf("DisplayName() = %q, want %q", got, "jane@example.com")
	}
}

func TestEmail_HasLabel(t *testing.T) {
	e := &Email{Labels: []string{LabelInbox, LabelStarred}}
	if !e.HasLabel(LabelInbox) {
		t.Error("expected HasLabel(INBOX) = true")
	}
	if e.HasLabel(LabelSent) {
		t.Error("expected HasLabel(SENT) = false")
	}
}
