package gmail

import (
	"testing"

	gmailapi "google.golang.org/api/gmail/v1"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantName  string
		wantEmail string
	}{
		{
			name:      "name and email",
			input:     "John Doe <john@example.com>",
			wantName:  "John Doe",
			wantEmail: "john@example.com",
		},
		{
			name:      "email in angle brackets",
			input:     "<john@example.com>",
			wantName:  "",
			wantEmail: "john@example.com",
		},
		{
			name:      "bare email",
			input:     "john@example.com",
			wantName:  "",
			wantEmail: "john@example.com",
		},
		{
			name:      "quoted name",
			input:     `"Jane Doe" <jane@example.com>`,
			wantName:  "Jane Doe",
			wantEmail: "jane@example.com",
		},
		{
			name:      "empty string",
			input:     "",
			wantName:  "",
			wantEmail: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseAddress(tt.input)
			if got.Name != tt.wantName {
				t.Errorf("parseAddress(%q).Name = %q, want %q", tt.input, got.Name, tt.wantName)
			}
			if got.Email != tt.wantEmail {
				t.Errorf("parseAddress(%q).Email = %q, want %q", tt.input, got.Email, tt.wantEmail)
			}
		})
	}
}

func TestParseAddressList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"single address", "john@example.com", 1},
		{"multiple addresses", "john@example.com, jane@example.com", 2},
		{"with names", "John <john@example.com>, Jane <jane@example.com>", 2},
		{"empty string", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseAddressList(tt.input)
			if len(got) != tt.want {
				t.Errorf("parseAddressList(%q) returned %d addresses, want %d", tt.input, len(got), tt.want)
			}
		})
	}
}

func TestFindHeader(t *testing.T) {
	headers := []*gmailapi.MessagePartHeader{
		{Name: "From", Value: "john@example.com"},
		{Name: "Subject", Value: "Hello"},
		{Name: "Date", Value: "Mon, 1 Jan 2024 00:00:00 +0000"},
	}

	tests := []struct {
		name string
		key  string
		want string
	}{
		{"existing header", "From", "john@example.com"},
		{"case insensitive", "from", "john@example.com"},
		{"subject header", "Subject", "Hello"},
		{"missing header", "Bcc", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := findHeader(headers, tt.key)
			if got != tt.want {
				t.Errorf("findHeader(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestContainsLabel(t *testing.T) {
	labels := []string{"INBOX", "UNREAD", "STARRED"}

	tests := []struct {
		name  string
		label string
		want  bool
	}{
		{"present label", "INBOX", true},
		{"absent label", "TRASH", false},
		{"starred present", "STARRED", true},
		{"empty label", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := containsLabel(labels, tt.label)
			if got != tt.want {
				t.Errorf("containsLabel(%v, %q) = %v, want %v", labels, tt.label, got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:    "RFC1123Z format",
			input:   "Mon, 01 Jan 2024 12:00:00 -0500",
			wantErr: false,
		},
		{
			name:    "RFC1123 format",
			input:   "Mon, 01 Jan 2024 12:00:00 UTC",
			wantErr: false,
		},
		{
			name:    "RFC822Z format",
			input:   "01 Jan 24 12:00 -0500",
			wantErr: false,
		},
		{
			name:    "custom format with day name",
			input:   "Mon, 1 Jan 2024 12:00:00 -0500",
			wantErr: false,
		},
		{
			name:    "empty string returns zero time",
			input:   "",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseDate(tt.input)
			if tt.wantErr {
				if !got.IsZero() {
					t.Errorf("parseDate(%q) = %v, want zero time", tt.input, got)
				}
			} else {
				if got.IsZero() {
					t.Errorf("parseDate(%q) returned zero time", tt.input)
				}
				if got.Year() != 2024 {
					t.Errorf("parseDate(%q).Year() = %d, want 2024", tt.input, got.Year())
				}
			}
		})
	}
}

func TestDecodeBase64URL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple text", "SGVsbG8gV29ybGQ", "Hello World"},
		{"empty", "", ""},
		{"with special chars", "SGVsbG8rV29ybGQ", "Hello+World"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeBase64URL(tt.input)
			if got != tt.want {
				t.Errorf("decodeBase64URL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractText(t *testing.T) {
	tests := []struct {
		name    string
		payload *gmailapi.MessagePart
		want    string
	}{
		{
			name: "plain text body",
			payload: &gmailapi.MessagePart{
				MimeType: "text/plain",
				Body:     &gmailapi.MessagePartBody{Data: "SGVsbG8"},
			},
			want: "Hello",
		},
		{
			name: "html only",
			payload: &gmailapi.MessagePart{
				MimeType: "text/html",
				Body:     &gmailapi.MessagePartBody{Data: "PGI-SGk8L2I-"},
			},
			want: "",
		},
		{
			name: "multipart prefers nested text",
			payload: &gmailapi.MessagePart{
				MimeType: "multipart/mixed",
				Parts: []*gmailapi.MessagePart{
					{
						MimeType: "multipart/alternative",
						Parts: []*gmailapi.MessagePart{
							{MimeType: "text/html", Body: &gmailapi.MessagePartBody{Data: "PGI-SGk8L2I-"}},
							{MimeType: "text/plain", Body: &gmailapi.MessagePartBody{Data: "SGVsbG8"}},
						},
					},
					{MimeType: "application/pdf", Filename: "doc.pdf", Body: &gmailapi.MessagePartBody{AttachmentId: "att"}},
				},
			},
			want: "Hello",
		},
		{
			name:    "nil payload",
			payload: nil,
			want:    "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractText(tt.payload); got != tt.want {
				t.Errorf("extractText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMapMessage(t *testing.T) {
	msg := &gmailapi.Message{
		Id:       "msg123",
		ThreadId: "thread456",
		Snippet:  "Hello &amp; welcome",
		LabelIds: []string{"INBOX", "STARRED"},
		Payload: &gmailapi.MessagePart{
			MimeType: "text/plain",
			Headers: []*gmailapi.MessagePartHeader{
				{Name: "From", Value: "Alice <alice@example.com>"},
				{Name: "To", Value: "Bob <bob@example.com>"},
				{Name: "Subject", Value: "Test Subject"},
				{Name: "Date", Value: "Mon, 01 Jan 2024 12:00:00 +0000"},
			},
			Body: &gmailapi.MessagePartBody{Data: "SGVsbG8"},
		},
	}

	email := mapMessage(msg)
	if email.ID != "msg123" {
		t.Errorf("ID = %q, want %q", email.ID, "msg123")
	}
	if email.ThreadID != "thread456" {
		t.Errorf("ThreadID = %q, want %q", email.ThreadID, "thread456")
	}
	if email.Subject != "Test Subject" {
		t.Errorf("Subject = %q, want %q", email.Subject, "Test Subject")
	}
	if email.From.Name != "Alice" {
		t.Errorf("From.Name = %q, want %q", email.From.Name, "Alice")
	}
	if email.From.Email != "alice@example.com" {
		t.Errorf("From.Email = %q, want %q", email.From.Email, "alice@example.com")
	}
	if len(email.To) != 1 || email.To[0].Email != "bob@example.com" {
		t.Errorf("To = %v, want [bob@example.com]", email.To)
	}
	if !email.IsRead {
		t.Error("expected IsRead = true (UNREAD label absent)")
	}
	if !email.IsStarred {
		t.Error("expected IsStarred = true")
	}
	if email.Body != "Hello" {
		t.Errorf("Body = %q, want %q", email.Body, "Hello")
	}
	if email.Snippet != "Hello & welcome" {
		t.Errorf("Snippet = %q, want %q", email.Snippet, "Hello & welcome")
	}
	if email.Date.Year() != 2024 {
		t.Errorf("Date.Year() = %d, want 2024", email.Date.Year())
	}
}

func TestMapMessage_IsRead(t *testing.T) {
	// UNREAD label present means IsRead = false
	msg := &gmailapi.Message{
		Id:       "msg1",
		LabelIds: []string{"INBOX", "UNREAD"},
		Payload: &gmailapi.MessagePart{
			MimeType: "text/plain",
			Headers:  []*gmailapi.MessagePartHeader{},
			Body:     &gmailapi.MessagePartBody{},
		},
	}
	email := mapMessage(msg)
	if email.IsRead {
		t.Error("expected IsRead = false when UNREAD label present")
	}

	// No UNREAD label means IsRead = true
	msg.LabelIds = []string{"INBOX"}
	email = mapMessage(msg)
	if !email.IsRead {
		t.Error("expected IsRead = true when UNREAD label absent")
	}
}

func TestMapThread(t *testing.T) {
	thread := &gmailapi.Thread{
		Id:      "t1",
		Snippet: "latest",
		Messages: []*gmailapi.Message{
			{
				Id:       "m1",
				LabelIds: []string{"SENT"},
				Payload: &gmailapi.MessagePart{Headers: []*gmailapi.MessagePartHeader{
					{Name: "Subject", Value: "Plans"},
				}},
			},
			{
				Id:       "m2",
				LabelIds: []string{"INBOX", "UNREAD"},
				Payload: &gmailapi.MessagePart{Headers: []*gmailapi.MessagePartHeader{
					{Name: "Subject", Value: "Re: Plans"},
				}},
			},
		},
	}

	got := mapThread(thread)
	if got.ID != "t1" {
		t.Errorf("ID = %q, want %q", got.ID, "t1")
	}
	if got.Subject != "Plans" {
		t.Errorf("Subject = %q, want %q", got.Subject, "Plans")
	}
	if len(got.Messages) != 2 || got.Messages[0].ID != "m1" || got.Messages[1].ID != "m2" {
		t.Fatalf("messages out of order: %+v", got.Messages)
	}
	if !got.IsUnread() {
		t.Error("expected thread to be unread")
	}
}

func TestParseDate_Invalid(t *testing.T) {
	got := parseDate("not a date")
	if !got.IsZero() {
		t.Errorf("parseDate(invalid) = %v, want zero time", got)
	}
}
