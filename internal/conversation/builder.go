package conversation

import (
	"strings"
	"unicode/utf8"

	"github.com/lu-zhengda/unimail/internal/domain"
)

const maxSnippetLen = 100

// FromThread summarizes a thread for the conversation list. Messages sent by
// self, or labelled SENT, get an empty sender. The displayed snippet follows
// the same rule MarkRead applies: the first unread snippet while anything is
// unread, the last snippet otherwise.
func FromThread(t domain.Thread, self string) *domain.ConversationInfo {
	var (
		first, firstUnread, last string
		seenUnread               bool
	)
	c := &domain.ConversationInfo{MessageCount: len(t.Messages)}

	for i := range t.Messages {
		e := &t.Messages[i]
		snip := snippetOf(e)
		if i == 0 {
			first = snip
		}
		if !e.IsRead && !seenUnread {
			firstUnread = snip
			seenUnread = true
		}
		last = snip

		if e.HasLabel(domain.LabelDraft) {
			c.DraftCount++
		}
		c.AddMessage(domain.MessageInfo{
			Read:    e.IsRead,
			Starred: e.IsStarred,
			Sender:  senderOf(e, self),
		})
	}
	if !seenUnread {
		firstUnread = first
	}

	c.FirstUnreadSnippet = firstUnread
	c.LastSnippet = last
	if c.Unread() {
		c.FirstSnippet = firstUnread
	} else {
		c.FirstSnippet = last
	}
	return c
}

func senderOf(e *domain.Email, self string) string {
	if e.HasLabel(domain.LabelSent) {
		return ""
	}
	if self != "" && strings.EqualFold(e.From.Email, self) {
		return ""
	}
	return e.From.DisplayName()
}

func snippetOf(e *domain.Email) string {
	s := e.Snippet
	if s == "" {
		s = strings.Join(strings.Fields(e.Body), " ")
	}
	return truncate(s, maxSnippetLen)
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
