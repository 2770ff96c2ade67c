// Package registry holds the unified, process-wide cache of account
// descriptors contributed by every account source.
package registry

import (
	"log"
	"slices"
	"sync"

	"github.com/lu-zhengda/unimail/internal/domain"
)

type entry struct {
	account  domain.CachedAccount
	position int
}

// Registry maps account identity to descriptor. It is safe for concurrent
// use; writers are serialized and readers receive copies.
type Registry struct {
	authority string

	mu       sync.RWMutex
	accounts map[int64]*entry
	bySource map[domain.Source]map[int64]struct{}
	nextPos  int
	loaded   bool
	watchers map[chan struct{}]struct{}
}

// New returns an empty registry serving accounts under authority.
func New(authority string) *Registry {
	return &Registry{
		authority: authority,
		accounts:  make(map[int64]*entry),
		bySource:  make(map[domain.Source]map[int64]struct{}),
		watchers:  make(map[chan struct{}]struct{}),
	}
}

// AccountsURI returns the URI of the registry's account list.
func (r *Registry) AccountsURI() string {
	return "content://" + r.authority + "/"
}

// AddAccount inserts or fully replaces the descriptor with the same ID. A
// replaced account keeps its original list position.
func (r *Registry) AddAccount(acct domain.CachedAccount) error {
	if err := acct.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	r.putLocked(acct)
	r.mu.Unlock()

	r.notify()
	return nil
}

// AddAccounts upserts every valid account and returns how many were stored.
// Invalid descriptors are logged and skipped.
func (r *Registry) AddAccounts(accounts []domain.CachedAccount) int {
	added := 0
	r.mu.Lock()
	for i := range accounts {
		if err := accounts[i].Validate(); err != nil {
			log.Printf("[registry] skipping account: %v", err)
			continue
		}
		r.putLocked(accounts[i])
		added++
	}
	r.mu.Unlock()

	if added > 0 {
		r.notify()
	}
	return added
}

// ReplaceSource upserts accounts for source and drops any account that
// source contributed earlier but no longer reports.
func (r *Registry) ReplaceSource(source domain.Source, accounts []domain.CachedAccount) (added, removed int) {
	seen := make(map[int64]struct{}, len(accounts))

	r.mu.Lock()
	for i := range accounts {
		acct := accounts[i]
		acct.Source = source
		if err := acct.Validate(); err != nil {
			log.Printf("[registry] skipping %s account: %v", source, err)
			continue
		}
		r.putLocked(acct)
		seen[acct.ID] = struct{}{}
		added++
	}
	for id := range r.bySource[source] {
		if _, ok := seen[id]; !ok {
			r.removeLocked(id)
			removed++
		}
	}
	r.mu.Unlock()

	if added > 0 || removed > 0 {
		r.notify()
	}
	return added, removed
}

// Remove drops the account with the given ID and reports whether it existed.
func (r *Registry) Remove(id int64) bool {
	r.mu.Lock()
	ok := r.removeLocked(id)
	r.mu.Unlock()

	if ok {
		r.notify()
	}
	return ok
}

func (r *Registry) putLocked(acct domain.CachedAccount) {
	if e, ok := r.accounts[acct.ID]; ok {
		if e.account.Source != acct.Source {
			delete(r.bySource[e.account.Source], acct.ID)
		}
		e.account = acct
	} else {
		r.accounts[acct.ID] = &entry{account: acct, position: r.nextPos}
		r.nextPos++
	}
	ids, ok := r.bySource[acct.Source]
	if !ok {
		ids = make(map[int64]struct{})
		r.bySource[acct.Source] = ids
	}
	ids[acct.ID] = struct{}{}
}

func (r *Registry) removeLocked(id int64) bool {
	e, ok := r.accounts[id]
	if !ok {
		return false
	}
	delete(r.accounts, id)
	delete(r.bySource[e.account.Source], id)
	return true
}

// Get returns the account with the given ID.
func (r *Registry) Get(id int64) (domain.CachedAccount, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.accounts[id]
	if !ok {
		return domain.CachedAccount{}, false
	}
	return e.account, true
}

// GetByURI returns the account whose URI matches uri.
func (r *Registry) GetByURI(uri string) (domain.CachedAccount, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.accounts {
		if e.account.URI == uri {
			return e.account, true
		}
	}
	return domain.CachedAccount{}, false
}

// List returns a snapshot of every account in registration order.
func (r *Registry) List() []domain.CachedAccount {
	r.mu.RLock()
	entries := make([]entry, 0, len(r.accounts))
	for _, e := range r.accounts {
		entries = append(entries, *e)
	}
	r.mu.RUnlock()

	slices.SortFunc(entries, func(a, b entry) int { return a.position - b.position })
	out := make([]domain.CachedAccount, len(entries))
	for i := range entries {
		out[i] = entries[i].account
	}
	return out
}

// IDs returns the identities currently contributed by source, sorted.
func (r *Registry) IDs(source domain.Source) []int64 {
	r.mu.RLock()
	ids := make([]int64, 0, len(r.bySource[source]))
	for id := range r.bySource[source] {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	slices.Sort(ids)
	return ids
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.accounts)
}

// SetLoaded records whether a full discovery round has completed.
func (r *Registry) SetLoaded(loaded bool) {
	r.mu.Lock()
	r.loaded = loaded
	r.mu.Unlock()
}

func (r *Registry) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}

// Watch returns a channel that receives a value after the registry changes.
// Notifications coalesce: a slow reader sees at most one pending signal.
// The returned func stops the watch.
func (r *Registry) Watch() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	r.mu.Lock()
	r.watchers[ch] = struct{}{}
	r.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.watchers, ch)
			r.mu.Unlock()
		})
	}
}

func (r *Registry) notify() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for ch := range r.watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
