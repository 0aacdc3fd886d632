package invoicelist

import (
	"context"
	"sync"

	"github.com/quimicinter/billing/internal/clock"
	invoicedomain "github.com/quimicinter/billing/internal/invoice/domain"
	"github.com/quimicinter/billing/pkg/pagination"
	"go.uber.org/zap"
)

// Fetcher is the slice of the invoice service the loader needs.
type Fetcher interface {
	ListAll(ctx context.Context) ([]invoicedomain.Invoice, error)
}

// Snapshot is one consistent rendering of the list: the current page under
// the active query plus the month's statistics.
type Snapshot struct {
	Query Query                    `json:"query"`
	Rows  []invoicedomain.Invoice  `json:"rows"`
	Page  pagination.PageInfo      `json:"page_info"`
	Stats MonthlyStats             `json:"stats"`
}

// Loader refreshes the list snapshot for one tenant. Concurrent refreshes
// are not deduplicated; instead each load takes a generation token and a
// response is applied only while its token is still current, so a stale
// response can never overwrite a fresher snapshot.
type Loader struct {
	fetcher  Fetcher
	clock    clock.Clock
	log      *zap.Logger
	pageSize int

	mu         sync.Mutex
	generation uint64
	query      Query
	snapshot   Snapshot
}

func NewLoader(fetcher Fetcher, clk clock.Clock, log *zap.Logger, pageSize int) *Loader {
	return &Loader{
		fetcher:  fetcher,
		clock:    clk,
		log:      log.Named("invoicelist.loader"),
		pageSize: pageSize,
		query:    Query{Page: 1},
	}
}

// Query returns the active query.
func (l *Loader) Query() Query {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.query
}

// Current returns the last applied snapshot without refreshing.
func (l *Loader) Current() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot
}

// Load makes next the active query and refreshes the snapshot. Changing
// the selection (category, date range or search) resets to page one. A
// failed fetch is logged and degrades to the last good snapshot rather
// than surfacing an error state.
func (l *Loader) Load(ctx context.Context, next Query) Snapshot {
	l.mu.Lock()
	if !filterEqual(l.query, next) {
		next.Page = 1
	}
	if next.Page < 1 {
		next.Page = 1
	}
	l.query = next
	l.generation++
	gen := l.generation
	l.mu.Unlock()

	invoices, err := l.fetcher.ListAll(ctx)
	if err != nil {
		l.log.Error("invoice fetch failed, keeping previous snapshot", zap.Error(err))
		return l.Current()
	}

	now := l.clock.Now()
	filtered := Apply(invoices, next, now)
	rows, info := pagination.Slice(filtered, pagination.Pagination{Page: next.Page, PageSize: l.pageSize}, l.pageSize)
	fresh := Snapshot{
		Query: next,
		Rows:  rows,
		Page:  info,
		Stats: ComputeStats(invoices, now),
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.generation {
		// A newer load superseded this one while it was in flight.
		l.log.Debug("dropping stale list response", zap.Uint64("generation", gen))
		return l.snapshot
	}
	l.snapshot = fresh
	return l.snapshot
}
