package ncf

import (
	"context"
	"testing"

	"github.com/quimicinter/billing/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextIsSequentialPerSchema(t *testing.T) {
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&Sequence{}))

	alloc := NewAllocator("B01")
	ctx := context.Background()

	first, err := alloc.Next(ctx, conn, "quimicinter")
	require.NoError(t, err)
	second, err := alloc.Next(ctx, conn, "quimicinter")
	require.NoError(t, err)
	other, err := alloc.Next(ctx, conn, "qalinkforce")
	require.NoError(t, err)

	assert.Equal(t, "B0100000001", first)
	assert.Equal(t, "B0100000002", second)
	// Each schema keeps its own counter.
	assert.Equal(t, "B0100000001", other)
}

func TestNextDefaultsSeries(t *testing.T) {
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&Sequence{}))

	number, err := NewAllocator("").Next(context.Background(), conn, "quimicinter")
	require.NoError(t, err)
	assert.Equal(t, "B0100000001", number)
}
