package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"

	"github.com/lu-zhengda/unimail/internal/domain"
	"github.com/lu-zhengda/unimail/internal/provider"
	"github.com/lu-zhengda/unimail/internal/registry"
)

// DefaultTimeout bounds a single source's discovery.
const DefaultTimeout = 30 * time.Second

// AccountCache persists the registry snapshot between runs.
type AccountCache interface {
	SaveAccountCache(ctx context.Context, accounts []domain.CachedAccount) error
	LoadAccountCache(ctx context.Context) ([]domain.CachedAccount, error)
}

// Discovery fills a registry from a set of account sources.
type Discovery struct {
	Registry *registry.Registry
	Sources  []provider.AccountSource
	Cache    AccountCache // optional
	Timeout  time.Duration
}

// SourceResult is the outcome of one source in a discovery round.
type SourceResult struct {
	Source   domain.Source
	Accounts int // reported by the source
	Added    int // stored in the registry
	Removed  int // stale accounts dropped
	Err      error
}

// Report summarizes a discovery round in completion order.
type Report struct {
	Results []SourceResult
}

// Failed returns the results of sources that did not report.
func (r Report) Failed() []SourceResult {
	var failed []SourceResult
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

type discovered struct {
	source   domain.Source
	accounts []domain.CachedAccount
	err      error
}

// ProviderCreated runs one discovery round. Every source is queried on its
// own goroutine with its own timeout. A source that fails or panics keeps
// what it contributed before and does not affect the others. Accounts of a
// successful source replace that source's previous set.
func (d *Discovery) ProviderCreated(ctx context.Context) Report {
	results := make(chan discovered, len(d.Sources))

	var wg conc.WaitGroup
	for _, src := range d.Sources {
		wg.Go(func() {
			results <- d.discover(ctx, src)
		})
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var report Report
	for res := range results {
		sr := SourceResult{Source: res.source, Accounts: len(res.accounts), Err: res.err}
		if res.err != nil {
			log.Printf("[discovery] source %s failed: %v", res.source, res.err)
		} else {
			sr.Added, sr.Removed = d.Registry.ReplaceSource(res.source, res.accounts)
			log.Printf("[discovery] source %s: %d accounts (%d stored, %d removed)",
				res.source, sr.Accounts, sr.Added, sr.Removed)
		}
		report.Results = append(report.Results, sr)
	}

	// A cancelled round is incomplete: leave the loaded flag and the
	// persisted snapshot as they were.
	if ctx.Err() != nil {
		log.Printf("[discovery] round cancelled: %v", ctx.Err())
		return report
	}
	d.Registry.SetLoaded(true)
	if d.Cache != nil {
		if err := d.Cache.SaveAccountCache(ctx, d.Registry.List()); err != nil {
			log.Printf("[discovery] failed to save account cache: %v", err)
		}
	}
	return report
}

func (d *Discovery) discover(ctx context.Context, src provider.AccountSource) (res discovered) {
	res.source = src.Name()

	timeout := d.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var pc panics.Catcher
	pc.Try(func() {
		res.accounts, res.err = src.Discover(ctx)
	})
	if r := pc.Recovered(); r != nil {
		return discovered{source: res.source, err: fmt.Errorf("source panicked: %w", r.AsError())}
	}
	if res.err != nil {
		res.accounts = nil
		res.err = fmt.Errorf("failed to discover accounts: %w", res.err)
	}
	return res
}

// Run performs a discovery round for every signal on trigger until ctx is
// done or trigger is closed.
func (d *Discovery) Run(ctx context.Context, trigger <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-trigger:
			if !ok {
				return
			}
			d.ProviderCreated(ctx)
		}
	}
}

// Restore loads the persisted snapshot into the registry so accounts are
// available before the first discovery round completes.
func (d *Discovery) Restore(ctx context.Context) (int, error) {
	if d.Cache == nil {
		return 0, nil
	}
	accounts, err := d.Cache.LoadAccountCache(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load account cache: %w", err)
	}
	n := d.Registry.AddAccounts(accounts)
	log.Printf("[discovery] restored %d cached accounts", n)
	return n, nil
}
