package registry

import (
	"errors"
	"fmt"

	"github.com/lu-zhengda/unimail/internal/domain"
)

// Account list columns.
const (
	ColumnID                = "_id"
	ColumnName              = "name"
	ColumnProviderVersion   = "providerVersion"
	ColumnURI               = "accountUri"
	ColumnCapabilities      = "capabilities"
	ColumnFolderListURI     = "folderListUri"
	ColumnSearchURI         = "searchUri"
	ColumnFromAddressesURI  = "accountFromAddressesUri"
	ColumnSaveDraftURI      = "saveDraftUri"
	ColumnSendMailURI       = "sendMailUri"
	ColumnExpungeMessageURI = "expungeMessageUri"
	ColumnUndoURI           = "undoUri"
	ColumnSettingsURI       = "accountSettingsIntentUri"
	ColumnHelpURI           = "helpIntentUri"
	ColumnComposeURI        = "composeUri"
	ColumnMIMEType          = "mimeType"
)

// Columns is the full account column contract, in order. Tabular account
// sources must produce rows in this order.
var Columns = []string{
	ColumnID,
	ColumnName,
	ColumnProviderVersion,
	ColumnURI,
	ColumnCapabilities,
	ColumnFolderListURI,
	ColumnSearchURI,
	ColumnFromAddressesURI,
	ColumnSaveDraftURI,
	ColumnSendMailURI,
	ColumnExpungeMessageURI,
	ColumnUndoURI,
	ColumnSettingsURI,
	ColumnHelpURI,
	ColumnComposeURI,
	ColumnMIMEType,
}

// ErrUnknownColumn is returned when a projection names a column outside the
// account contract.
var ErrUnknownColumn = errors.New("unknown account column")

// Table is a read-only tabular view of the registry.
type Table struct {
	Columns        []string
	Rows           [][]any
	AccountsLoaded bool
}

// Query returns the registered accounts restricted to projection. A nil or
// empty projection selects every column.
func (r *Registry) Query(projection []string) (*Table, error) {
	if len(projection) == 0 {
		projection = Columns
	}
	for _, col := range projection {
		if _, err := columnValue(&domain.CachedAccount{}, col); err != nil {
			return nil, err
		}
	}

	accounts := r.List()
	t := &Table{
		Columns:        append([]string(nil), projection...),
		Rows:           make([][]any, 0, len(accounts)),
		AccountsLoaded: r.Loaded(),
	}
	for i := range accounts {
		row := make([]any, len(projection))
		for j, col := range projection {
			row[j], _ = columnValue(&accounts[i], col)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func columnValue(a *domain.CachedAccount, col string) (any, error) {
	switch col {
	case ColumnID:
		return a.ID, nil
	case ColumnName:
		return a.Name, nil
	case ColumnProviderVersion:
		return a.ProviderVersion, nil
	case ColumnURI:
		return a.URI, nil
	case ColumnCapabilities:
		return int64(a.Capabilities), nil
	case ColumnFolderListURI:
		return a.FolderListURI, nil
	case ColumnSearchURI:
		return a.SearchURI, nil
	case ColumnFromAddressesURI:
		return a.FromAddressesURI, nil
	case ColumnSaveDraftURI:
		return a.SaveDraftURI, nil
	case ColumnSendMailURI:
		return a.SendMailURI, nil
	case ColumnExpungeMessageURI:
		return a.ExpungeMessageURI, nil
	case ColumnUndoURI:
		return a.UndoURI, nil
	case ColumnSettingsURI:
		return a.SettingsURI, nil
	case ColumnHelpURI:
		return a.HelpURI, nil
	case ColumnComposeURI:
		return a.ComposeURI, nil
	case ColumnMIMEType:
		return a.MIMEType, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
}
