// Package testutil builds throwaway SQLite-backed stores for tests.
package testutil

import (
	"context"
	"testing"

	"github.com/Skotchmaster/marine_shop/internal/store/gormstore"
	"github.com/Skotchmaster/marine_shop/pkg/db"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func NewStore(t testing.TB) *gormstore.Store {
	t.Helper()

	ctx := context.Background()
	gdb, err := db.Open(ctx, "sqlite:file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)

	s := gormstore.New(gdb)
	require.NoError(t, s.Migrate(ctx))
	t.Cleanup(func() { _ = s.Close(ctx) })

	return s
}
