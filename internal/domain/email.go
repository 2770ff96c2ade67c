package domain

import "time"

type Address struct {
	Name  string
	Email string
}

func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return a.Name + " <" + a.Email + ">"
}

// DisplayName prefers the personal name over the bare address.
func (a Address) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Email
}

type Email struct {
	ID        string
	ThreadID  string
	From      Address
	To        []Address
	Subject   string
	Body      string
	Snippet   string
	Date      time.Time
	Labels    []string
	IsRead    bool
	IsStarred bool
}

func (e *Email) HasLabel(label string) bool {
	for _, l := range e.Labels {
		if l == label {
			return true
		}
	}
	return false
}

const (
	LabelInbox   = "INBOX"
	LabelUnread  = "UNREAD"
	LabelStarred = "STARRED"
	LabelSent    = "SENT"
	LabelDraft   = "DRAFT"
)
