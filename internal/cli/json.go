package cli

import (
	"github.com/lu-zhengda/unimail/internal/app"
	"github.com/lu-zhengda/unimail/internal/domain"
	"github.com/lu-zhengda/unimail/internal/registry"
)

// ---------------------------------------------------------------------------
// Account JSON types (accounts list)
// ---------------------------------------------------------------------------

type jsonAccount struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Source       string `json:"source"`
	URI          string `json:"uri"`
	Capabilities int64  `json:"capabilities"`
	MIMEType     string `json:"mime_type,omitempty"`
}

func toJSONAccounts(accounts []domain.CachedAccount) []jsonAccount {
	out := make([]jsonAccount, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, jsonAccount{
			ID:           a.ID,
			Name:         a.Name,
			Source:       string(a.Source),
			URI:          a.URI,
			Capabilities: int64(a.Capabilities),
			MIMEType:     a.MIMEType,
		})
	}
	return out
}

// ---------------------------------------------------------------------------
// Discovery report JSON type (accounts refresh)
// ---------------------------------------------------------------------------

type jsonSourceResult struct {
	Source   string `json:"source"`
	Accounts int    `json:"accounts"`
	Added    int    `json:"added"`
	Removed  int    `json:"removed"`
	Error    string `json:"error,omitempty"`
}

func toJSONReport(r app.Report) []jsonSourceResult {
	out := make([]jsonSourceResult, 0, len(r.Results))
	for _, res := range r.Results {
		jr := jsonSourceResult{
			Source:   string(res.Source),
			Accounts: res.Accounts,
			Added:    res.Added,
			Removed:  res.Removed,
		}
		if res.Err != nil {
			jr.Error = res.Err.Error()
		}
		out = append(out, jr)
	}
	return out
}

// ---------------------------------------------------------------------------
// Registry table JSON type (accounts query)
// ---------------------------------------------------------------------------

type jsonTable struct {
	Columns        []string `json:"columns"`
	Rows           [][]any  `json:"rows"`
	AccountsLoaded bool     `json:"accounts_loaded"`
}

func toJSONTable(t *registry.Table) jsonTable {
	rows := t.Rows
	if rows == nil {
		rows = [][]any{}
	}
	return jsonTable{Columns: t.Columns, Rows: rows, AccountsLoaded: t.AccountsLoaded}
}

// ---------------------------------------------------------------------------
// Conversation JSON types (conversation show, sync)
// ---------------------------------------------------------------------------

type jsonConversation struct {
	ID           string        `json:"id"`
	MessageCount int           `json:"message_count"`
	DraftCount   int           `json:"draft_count"`
	Snippet      string        `json:"snippet"`
	Unread       bool          `json:"unread"`
	Messages     []jsonMessage `json:"messages"`
}

type jsonMessage struct {
	Sender   string `json:"sender,omitempty"`
	FromMe   bool   `json:"from_me"`
	Read     bool   `json:"read"`
	Starred  bool   `json:"starred"`
	Priority int    `json:"priority,omitempty"`
}

func toJSONConversation(id string, c *domain.ConversationInfo) jsonConversation {
	msgs := make([]jsonMessage, 0, len(c.Messages))
	for _, m := range c.Messages {
		msgs = append(msgs, jsonMessage{
			Sender:   m.Sender,
			FromMe:   m.IsFromMe(),
			Read:     m.Read,
			Starred:  m.Starred,
			Priority: m.Priority,
		})
	}
	return jsonConversation{
		ID:           id,
		MessageCount: c.MessageCount,
		DraftCount:   c.DraftCount,
		Snippet:      c.Snippet(),
		Unread:       c.Unread(),
		Messages:     msgs,
	}
}

// ---------------------------------------------------------------------------
// Action JSON type (add, remove, mark-read)
// ---------------------------------------------------------------------------

type jsonAction struct {
	OK             bool   `json:"ok"`
	Action         string `json:"action"`
	Email          string `json:"email,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
	Changed        bool   `json:"changed,omitempty"`
}
