// Package tenant holds the closed set of tenant schemas the application
// partitions data by. Adding a tenant is a configuration change, not a code
// change: the provisioner and access validator iterate over this registry
// instead of branching per tenant.
package tenant

import (
	"strings"

	"github.com/gosimple/slug"
	"github.com/quimicinter/billing/internal/config"
	"go.uber.org/fx"
)

type Registry struct {
	replication   []string
	all           []string
	defaultSchema string
	index         map[string]struct{}
}

// NewRegistry builds the registry from config. The configured schemas form
// the admin replication set; the default schema is always a known tenant
// but joins the replication set only when listed explicitly.
func NewRegistry(cfg config.Config) *Registry {
	def := Normalize(cfg.DefaultSchema)
	if def == "" {
		def = "public"
	}

	index := make(map[string]struct{})
	replication := make([]string, 0, len(cfg.Schemas))
	for _, raw := range cfg.Schemas {
		name := Normalize(raw)
		if name == "" {
			continue
		}
		if _, seen := index[name]; seen {
			continue
		}
		index[name] = struct{}{}
		replication = append(replication, name)
	}

	all := make([]string, len(replication))
	copy(all, replication)
	if _, seen := index[def]; !seen {
		index[def] = struct{}{}
		all = append(all, def)
	}

	return &Registry{
		replication:   replication,
		all:           all,
		defaultSchema: def,
		index:         index,
	}
}

// Normalize canonicalizes a schema name the same way everywhere: trimmed,
// lowercased, slugged.
func Normalize(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return slug.Make(name)
}

// All returns every known schema, replication set first, then the default
// when it is not part of the set.
func (r *Registry) All() []string {
	out := make([]string, len(r.all))
	copy(out, r.all)
	return out
}

// ReplicationSet returns the schemas administrators are replicated into.
func (r *Registry) ReplicationSet() []string {
	out := make([]string, len(r.replication))
	copy(out, r.replication)
	return out
}

// Default returns the schema assigned to identities with no tenant hint.
func (r *Registry) Default() string {
	return r.defaultSchema
}

// Contains reports whether name is a known schema.
func (r *Registry) Contains(name string) bool {
	_, ok := r.index[Normalize(name)]
	return ok
}

// Resolve maps an arbitrary requested name to a known schema, falling back
// to the default for unknown or empty names.
func (r *Registry) Resolve(name string) string {
	normalized := Normalize(name)
	if _, ok := r.index[normalized]; ok {
		return normalized
	}
	return r.defaultSchema
}

var Module = fx.Module("tenant",
	fx.Provide(NewRegistry),
)
