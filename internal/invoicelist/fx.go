package invoicelist

import (
	"sync"

	"github.com/quimicinter/billing/internal/clock"
	"github.com/quimicinter/billing/internal/config"
	invoicedomain "github.com/quimicinter/billing/internal/invoice/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Loaders holds one view-model loader per tenant. Each tenant's list state
// (active filter, page, last snapshot) is independent.
type Loaders struct {
	fetcher  Fetcher
	clock    clock.Clock
	log      *zap.Logger
	pageSize int

	mu      sync.Mutex
	bySchema map[string]*Loader
}

type LoadersParam struct {
	fx.In

	Cfg     config.Config
	Service invoicedomain.Service
	Clock   clock.Clock
	Log     *zap.Logger
}

func NewLoaders(p LoadersParam) *Loaders {
	return &Loaders{
		fetcher:  p.Service,
		clock:    p.Clock,
		log:      p.Log,
		pageSize: p.Cfg.PageSize,
		bySchema:  map[string]*Loader{},
	}
}

// For returns the loader for schema, creating it on first use.
func (ls *Loaders) For(schema string) *Loader {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	loader, ok := ls.bySchema[schema]
	if !ok {
		loader = NewLoader(ls.fetcher, ls.clock, ls.log, ls.pageSize)
		ls.bySchema[schema] = loader
	}
	return loader
}

var Module = fx.Module("invoicelist",
	fx.Provide(NewLoaders),
)
