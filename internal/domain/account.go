package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Source names the backend an account was discovered from.
type Source string

const (
	SourceGmail Source = "gmail"
	SourceEmail Source = "email"
	SourceMock  Source = "mock"
)

// Account is a locally configured mail account, as stored.
type Account struct {
	ID           string
	Email        string
	Provider     string
	DisplayName  string
	Capabilities Capabilities
	CreatedAt    time.Time
}

// Capabilities is a bitmask of features an account's backend supports.
type Capabilities int64

const (
	CapSyncableFolders Capabilities = 1 << iota
	CapReportSpam
	CapArchive
	CapMute
	CapServerSearch
	CapFolderServerSearch
	CapSanitizedHTML
	CapDraftSynchronization
	CapMultipleFromAddresses
	CapSmartReply
	CapLocalSearch
	CapThreadedConversations
	CapMultipleFoldersPerConv
)

// Has reports whether every flag in c is set.
func (caps Capabilities) Has(c Capabilities) bool {
	return caps&c == c
}

// ErrInvalidAccount is returned for descriptors without an identity or name.
var ErrInvalidAccount = errors.New("invalid account")

// CachedAccount is the backend-agnostic descriptor of one account.
type CachedAccount struct {
	ID              int64        `json:"id"`
	Source          Source       `json:"source"`
	Name            string       `json:"name"`
	URI             string       `json:"uri"`
	ProviderVersion int          `json:"provider_version"`
	Capabilities    Capabilities `json:"capabilities"`

	FolderListURI     string `json:"folder_list_uri,omitempty"`
	SearchURI         string `json:"search_uri,omitempty"`
	FromAddressesURI  string `json:"from_addresses_uri,omitempty"`
	SaveDraftURI      string `json:"save_draft_uri,omitempty"`
	SendMailURI       string `json:"send_mail_uri,omitempty"`
	ExpungeMessageURI string `json:"expunge_message_uri,omitempty"`
	UndoURI           string `json:"undo_uri,omitempty"`
	SettingsURI       string `json:"settings_uri,omitempty"`
	HelpURI           string `json:"help_uri,omitempty"`
	ComposeURI        string `json:"compose_uri,omitempty"`
	MIMEType          string `json:"mime_type,omitempty"`
}

// Validate checks the fields the registry relies on.
func (a *CachedAccount) Validate() error {
	if a.ID == 0 {
		return fmt.Errorf("%w: missing id for %q", ErrInvalidAccount, a.Name)
	}
	if a.Name == "" {
		return fmt.Errorf("%w: missing name for id %d", ErrInvalidAccount, a.ID)
	}
	return nil
}

// AccountID derives a stable, positive identity for accounts whose backend
// does not assign one.
func AccountID(source Source, name string) int64 {
	id := int64(xxhash.Sum64String(string(source)+":"+name) &^ (1 << 63))
	if id == 0 {
		return 1
	}
	return id
}

// AccountURI builds a reference string of the form
// content://<authority>/<kind>/<name>.
func AccountURI(authority, kind, name string) string {
	return "content://" + authority + "/" + kind + "/" + name
}
