package cart

import (
	"path/filepath"
	"testing"

	"github.com/HamzaAshfaq01/sellsgoods/pkg/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bike() client.Product {
	return client.Product{ID: "p1", Title: "Mountain bike", Price: 200, Images: []string{"uploads/bike.jpg"}}
}

func TestCart_Add_MergesByProductID(t *testing.T) {
	c, err := New(NewMemoryStore())
	require.NoError(t, err)

	require.NoError(t, c.Add(bike(), 1))
	require.NoError(t, c.Add(bike(), 2))

	entries := c.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, 3, entries[0].Quantity)
	assert.Equal(t, 600.0, c.Total())
}

func TestCart_SetQuantity_ClampsToOne(t *testing.T) {
	c, err := New(NewMemoryStore())
	require.NoError(t, err)
	require.NoError(t, c.Add(bike(), 2))

	require.NoError(t, c.SetQuantity("p1", 0))
	assert.Equal(t, 1, c.Entries()[0].Quantity)

	require.NoError(t, c.SetQuantity("p1", -5))
	assert.Equal(t, 1, c.Entries()[0].Quantity)
}

func TestCart_Remove(t *testing.T) {
	c, err := New(NewMemoryStore())
	require.NoError(t, err)
	require.NoError(t, c.Add(bike(), 1))
	require.NoError(t, c.Add(client.Product{ID: "p2", Title: "Helmet", Price: 40}, 1))

	require.NoError(t, c.Remove("p1"))
	entries := c.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "p2", entries[0].ProductID)
}

func TestCart_PersistsEveryMutation(t *testing.T) {
	store := NewMemoryStore()
	c, err := New(store)
	require.NoError(t, err)
	require.NoError(t, c.Add(bike(), 2))

	// A second cart on the same store sees the snapshot.
	reloaded, err := New(store)
	require.NoError(t, err)
	require.Len(t, reloaded.Entries(), 1)
	assert.Equal(t, 2, reloaded.Entries()[0].Quantity)

	require.NoError(t, c.Clear())
	reloaded, err = New(store)
	require.NoError(t, err)
	assert.Zero(t, reloaded.Len())
}

func TestCart_FileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.json")
	c, err := New(NewFileStore(path))
	require.NoError(t, err)
	require.NoError(t, c.Add(bike(), 3))

	reloaded, err := New(NewFileStore(path))
	require.NoError(t, err)
	require.Len(t, reloaded.Entries(), 1)
	assert.Equal(t, 3, reloaded.Entries()[0].Quantity)
	assert.Equal(t, 200.0, reloaded.Entries()[0].Price)
}

func TestCart_Checkout_DerivesTotals(t *testing.T) {
	c, err := New(NewMemoryStore())
	require.NoError(t, err)
	require.NoError(t, c.Add(bike(), 2))

	req, err := c.Checkout("Aset", "aset@example.com", "+7700")
	require.NoError(t, err)
	require.NotNil(t, req.Subtotal)
	assert.Equal(t, 400.0, *req.Subtotal)
	assert.InDelta(t, 40.0, *req.Tax, 1e-9)
	assert.InDelta(t, 20.0, *req.Shipping, 1e-9)
	assert.InDelta(t, 460.0, *req.Total, 1e-9)
	require.Len(t, req.Items, 1)
	assert.Equal(t, 2, req.Items[0].Quantity)
}

func TestCart_Checkout_EmptyCart(t *testing.T) {
	c, err := New(NewMemoryStore())
	require.NoError(t, err)

	_, err = c.Checkout("Aset", "aset@example.com", "+7700")
	assert.Error(t, err)
}
