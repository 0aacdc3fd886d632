package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/quimicinter/billing/internal/clock"
	"github.com/quimicinter/billing/internal/config"
	"github.com/quimicinter/billing/internal/customer"
	"github.com/quimicinter/billing/internal/invoice"
	"github.com/quimicinter/billing/internal/invoicelist"
	"github.com/quimicinter/billing/internal/logger"
	"github.com/quimicinter/billing/internal/metrics"
	"github.com/quimicinter/billing/internal/migration"
	"github.com/quimicinter/billing/internal/product"
	"github.com/quimicinter/billing/internal/profile"
	"github.com/quimicinter/billing/internal/providers/email"
	"github.com/quimicinter/billing/internal/providers/pdf"
	"github.com/quimicinter/billing/internal/server"
	"github.com/quimicinter/billing/internal/tenant"
	"github.com/quimicinter/billing/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		tenant.Module,
		metrics.Module,
		migration.Module,

		// Functional domains
		profile.Module,
		customer.Module,
		product.Module,
		invoice.Module,
		invoicelist.Module,
		pdf.Module,
		email.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
