package domain

type Thread struct {
	ID       string
	Subject  string
	Messages []Email
	Snippet  string
}

func (t *Thread) IsUnread() bool {
	for i := range t.Messages {
		if !t.Messages[i].IsRead {
			return true
		}
	}
	return false
}
