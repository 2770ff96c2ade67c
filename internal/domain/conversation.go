package domain

// MessageInfo is one message's contribution to a conversation summary.
// An empty Sender means the message was sent by the account owner.
type MessageInfo struct {
	Read     bool
	Starred  bool
	Sender   string
	Priority int
}

// IsFromMe reports whether the message was sent by the account owner.
func (m *MessageInfo) IsFromMe() bool {
	return m.Sender == ""
}

// MarkRead sets the read flag and reports whether it changed.
func (m *MessageInfo) MarkRead(read bool) bool {
	if m.Read == read {
		return false
	}
	m.Read = read
	return true
}

// ConversationInfo aggregates the message metadata of one conversation.
// MessageCount reflects the synced total; Messages may hold fewer entries.
type ConversationInfo struct {
	MessageCount       int
	DraftCount         int
	FirstSnippet       string
	FirstUnreadSnippet string
	LastSnippet        string
	Messages           []MessageInfo
}

func NewConversationInfo(count, drafts int, first, firstUnread, last string) *ConversationInfo {
	c := &ConversationInfo{}
	c.Set(count, drafts, first, firstUnread, last)
	return c
}

// Set replaces the scalar fields and clears the message list.
func (c *ConversationInfo) Set(count, drafts int, first, firstUnread, last string) {
	c.Messages = c.Messages[:0]
	c.MessageCount = count
	c.DraftCount = drafts
	c.FirstSnippet = first
	c.FirstUnreadSnippet = firstUnread
	c.LastSnippet = last
}

func (c *ConversationInfo) AddMessage(m MessageInfo) {
	c.Messages = append(c.Messages, m)
}

// MarkRead marks every message and swaps the displayed snippet: the last
// snippet once read, the first unread snippet otherwise. It reports whether
// any message changed.
func (c *ConversationInfo) MarkRead(read bool) bool {
	changed := false
	for i := range c.Messages {
		if c.Messages[i].MarkRead(read) {
			changed = true
		}
	}
	if read {
		c.FirstSnippet = c.LastSnippet
	} else {
		c.FirstSnippet = c.FirstUnreadSnippet
	}
	return changed
}

// Snippet returns the preview line the list UI shows.
func (c *ConversationInfo) Snippet() string {
	return c.FirstSnippet
}

func (c *ConversationInfo) Unread() bool {
	for i := range c.Messages {
		if !c.Messages[i].Read {
			return true
		}
	}
	return false
}

func (c *ConversationInfo) Equal(o *ConversationInfo) bool {
	if c == nil || o == nil {
		return c == o
	}
	if c.MessageCount != o.MessageCount || c.DraftCount != o.DraftCount ||
		c.FirstSnippet != o.FirstSnippet || c.FirstUnreadSnippet != o.FirstUnreadSnippet ||
		c.LastSnippet != o.LastSnippet || len(c.Messages) != len(o.Messages) {
		return false
	}
	for i := range c.Messages {
		if c.Messages[i] != o.Messages[i] {
			return false
		}
	}
	return true
}
