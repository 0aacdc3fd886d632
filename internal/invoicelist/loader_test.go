package invoicelist

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/quimicinter/billing/internal/clock"
	invoicedomain "github.com/quimicinter/billing/internal/invoice/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// gateFetcher blocks each ListAll call until the test releases it, so
// overlapping in-flight loads can be resolved in a chosen order.
type gateFetcher struct {
	mu      sync.Mutex
	pending []chan []invoicedomain.Invoice
	ready   chan struct{}
}

func newGateFetcher() *gateFetcher {
	return &gateFetcher{ready: make(chan struct{}, 8)}
}

func (g *gateFetcher) ListAll(ctx context.Context) ([]invoicedomain.Invoice, error) {
	release := make(chan []invoicedomain.Invoice)
	g.mu.Lock()
	g.pending = append(g.pending, release)
	g.mu.Unlock()
	g.ready <- struct{}{}
	return <-release, nil
}

func (g *gateFetcher) release(i int, data []invoicedomain.Invoice) {
	g.mu.Lock()
	ch := g.pending[i]
	g.mu.Unlock()
	ch <- data
}

type staticFetcher struct {
	data []invoicedomain.Invoice
	err  error
}

func (s *staticFetcher) ListAll(ctx context.Context) ([]invoicedomain.Invoice, error) {
	return s.data, s.err
}

func testClock() clock.Clock {
	return clock.NewFakeClock(time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC))
}

func draftAt(id int64) invoicedomain.Invoice {
	return invoicedomain.Invoice{
		ID:        snowflake.ID(id),
		Status:    invoicedomain.StatusDraft,
		IssueDate: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestLoadPaginatesAndFilters(t *testing.T) {
	data := make([]invoicedomain.Invoice, 0, 12)
	for i := int64(1); i <= 12; i++ {
		data = append(data, draftAt(i))
	}
	loader := NewLoader(&staticFetcher{data: data}, testClock(), zap.NewNop(), 10)

	snap := loader.Load(context.Background(), Query{Page: 1})
	assert.Len(t, snap.Rows, 10)
	assert.Equal(t, 12, snap.Page.TotalItems)
	assert.Equal(t, 2, snap.Page.TotalPages)
	assert.True(t, snap.Page.HasMore)

	snap = loader.Load(context.Background(), Query{Page: 2})
	assert.Len(t, snap.Rows, 2)
	assert.False(t, snap.Page.HasMore)
}

func TestLoadResetsPageWhenFilterChanges(t *testing.T) {
	data := make([]invoicedomain.Invoice, 0, 15)
	for i := int64(1); i <= 15; i++ {
		data = append(data, draftAt(i))
	}
	loader := NewLoader(&staticFetcher{data: data}, testClock(), zap.NewNop(), 10)

	snap := loader.Load(context.Background(), Query{Page: 2})
	require.Equal(t, 2, snap.Page.Page)

	next := loader.Query()
	next.Category = CategoryDraft
	snap = loader.Load(context.Background(), next)
	assert.Equal(t, 1, snap.Page.Page)
}

func TestLoadKeepsPreviousSnapshotOnFetchError(t *testing.T) {
	fetcher := &staticFetcher{data: []invoicedomain.Invoice{draftAt(1)}}
	loader := NewLoader(fetcher, testClock(), zap.NewNop(), 10)

	snap := loader.Load(context.Background(), Query{Page: 1})
	require.Len(t, snap.Rows, 1)

	fetcher.err = errors.New("connection reset")
	snap = loader.Load(context.Background(), Query{Page: 1})
	assert.Len(t, snap.Rows, 1, "stale data beats an error state")
}

func TestStaleResponseCannotOverwriteFresherSnapshot(t *testing.T) {
	gate := newGateFetcher()
	loader := NewLoader(gate, testClock(), zap.NewNop(), 10)

	var wg sync.WaitGroup
	wg.Add(2)

	// First load: will be released last, so its response arrives stale.
	go func() {
		defer wg.Done()
		loader.Load(context.Background(), Query{Page: 1})
	}()
	<-gate.ready

	// Second load supersedes the first.
	go func() {
		defer wg.Done()
		loader.Load(context.Background(), Query{Category: CategoryDraft})
	}()
	<-gate.ready

	gate.release(1, []invoicedomain.Invoice{draftAt(2)})
	gate.release(0, []invoicedomain.Invoice{draftAt(1), draftAt(99)})
	wg.Wait()

	snap := loader.Current()
	assert.Equal(t, CategoryDraft, snap.Query.Category)
	require.Len(t, snap.Rows, 1)
	assert.Equal(t, snowflake.ID(2), snap.Rows[0].ID)
}
