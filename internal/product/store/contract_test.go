package store

import (
	"context"
	"testing"

	perrors "github.com/abgdnv/productcatalog/internal/product/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testProductStoreContract exercises a freshly seeded ProductStore.
// newStore must return a store holding exactly SeedProducts().
func testProductStoreContract(t *testing.T, newStore func(t *testing.T) ProductStore) {
	ctx := context.Background()

	t.Run("FindAll returns seed in insertion order", func(t *testing.T) {
		st := newStore(t)

		products, err := st.FindAll(ctx)

		require.NoError(t, err)
		assert.Equal(t, SeedProducts(), products)
	})

	t.Run("Create appends and FindByID round-trips", func(t *testing.T) {
		st := newStore(t)
		toCreate := Product{ID: "abc", Name: "Kettle", Description: "", Price: -3.5, Category: "kitchen", InStock: true}

		created, err := st.Create(ctx, toCreate)
		require.NoError(t, err)
		assert.Equal(t, toCreate, *created)

		fetched, err := st.FindByID(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, toCreate, *fetched)

		all, err := st.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 4)
		assert.Equal(t, "abc", all[3].ID)
	})

	t.Run("Create rejects duplicate ID", func(t *testing.T) {
		st := newStore(t)

		_, err := st.Create(ctx, Product{ID: "1", Name: "Dup", Category: "x"})

		require.ErrorIs(t, err, perrors.ErrDuplicateProductID)
	})

	t.Run("FindByID not found", func(t *testing.T) {
		st := newStore(t)

		_, err := st.FindByID(ctx, "missing")

		require.ErrorIs(t, err, perrors.ErrProductNotFound)
	})

	t.Run("Update changes only patched fields", func(t *testing.T) {
		st := newStore(t)
		price := 999.0

		updated, err := st.Update(ctx, "1", ProductPatch{Price: &price})
		require.NoError(t, err)

		expected := SeedProducts()[0]
		expected.Price = 999
		assert.Equal(t, expected, *updated)

		fetched, err := st.FindByID(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, expected, *fetched)
	})

	t.Run("Update keeps position", func(t *testing.T) {
		st := newStore(t)
		name := "Renamed"

		_, err := st.Update(ctx, "2", ProductPatch{Name: &name})
		require.NoError(t, err)

		all, err := st.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []string{"1", "2", "3"}, []string{all[0].ID, all[1].ID, all[2].ID})
		assert.Equal(t, "Renamed", all[1].Name)
	})

	t.Run("Update not found", func(t *testing.T) {
		st := newStore(t)
		inStock := true

		_, err := st.Update(ctx, "missing", ProductPatch{InStock: &inStock})

		require.ErrorIs(t, err, perrors.ErrProductNotFound)
	})

	t.Run("DeleteByID removes and returns the product", func(t *testing.T) {
		st := newStore(t)

		deleted, err := st.DeleteByID(ctx, "2")
		require.NoError(t, err)
		assert.Equal(t, SeedProducts()[1], *deleted)

		_, err = st.FindByID(ctx, "2")
		require.ErrorIs(t, err, perrors.ErrProductNotFound)

		all, err := st.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("DeleteByID not found", func(t *testing.T) {
		st := newStore(t)

		_, err := st.DeleteByID(ctx, "missing")

		require.ErrorIs(t, err, perrors.ErrProductNotFound)
	})
}
