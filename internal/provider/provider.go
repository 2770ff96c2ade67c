package provider

import (
	"context"

	"github.com/lu-zhengda/unimail/internal/domain"
)

// AccountSource discovers the accounts one backend contributes to the
// unified registry. Discover returns the complete current set for the
// source; accounts it no longer reports are dropped from the registry.
type AccountSource interface {
	Name() domain.Source
	Discover(ctx context.Context) ([]domain.CachedAccount, error)
}

// ThreadFetcher retrieves a full conversation from a mail backend.
type ThreadFetcher interface {
	GetThread(ctx context.Context, id string) (*domain.Thread, error)
}

// Base capabilities every EAS-backed account supports.
const EASCapabilities = domain.CapSyncableFolders |
	domain.CapFolderServerSearch |
	domain.CapSanitizedHTML |
	domain.CapSmartReply |
	domain.CapServerSearch

// Capabilities advertised by the mock backend.
const MockCapabilities = domain.CapSyncableFolders |
	domain.CapReportSpam |
	domain.CapArchive |
	domain.CapMute |
	domain.CapServerSearch |
	domain.CapFolderServerSearch |
	domain.CapSanitizedHTML |
	domain.CapDraftSynchronization |
	domain.CapMultipleFromAddresses |
	domain.CapSmartReply |
	domain.CapLocalSearch |
	domain.CapThreadedConversations

// Capabilities of a Gmail account.
const GmailCapabilities = domain.CapSyncableFolders |
	domain.CapReportSpam |
	domain.CapArchive |
	domain.CapMute |
	domain.CapServerSearch |
	domain.CapSanitizedHTML |
	domain.CapDraftSynchronization |
	domain.CapMultipleFromAddresses |
	domain.CapSmartReply |
	domain.CapThreadedConversations |
	domain.CapMultipleFoldersPerConv
