package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillnotes/skillnotes-backend/internal/cart"
	"github.com/skillnotes/skillnotes-backend/internal/storage"
	pkgerrors "github.com/skillnotes/skillnotes-backend/pkg/errors"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	items := c.List(context.Background(), Filter{})
	require.Len(t, items, 4)
	assert.Equal(t, cart.ProductID("1"), items[0].ID)

	item, err := c.GetProduct(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, "Complete Web Development Bundle", item.Title)
	assert.True(t, item.Price.Equal(decimal.NewFromInt(799)))
	assert.Equal(t, "zip", item.FileType)
}

func TestLoadFixtureFile(t *testing.T) {
	c, err := Load("testdata/catalog.yaml")
	require.NoError(t, err)

	item, err := c.GetProduct(context.Background(), "10")
	require.NoError(t, err)
	assert.True(t, item.Price.Equal(decimal.RequireFromString("149.5")))
	require.NotNil(t, item.OriginalPrice)
	assert.True(t, item.Savings().Equal(decimal.RequireFromString("49.5")))
	assert.Nil(t, item.Rating)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("testdata/nope.yaml")
	assert.Error(t, err)
}

func TestGetProductNotFound(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	_, err = c.GetProduct(context.Background(), "999")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Equal(t, "Product not found", pkgerrors.As(err).Message())
}

func TestGetProductReturnsCopy(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	first, err := c.GetProduct(context.Background(), "1")
	require.NoError(t, err)
	*first.Rating = 0

	second, err := c.GetProduct(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, 4.8, *second.Rating)
}

func TestListFilters(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	ctx := context.Background()

	pdfs := c.List(ctx, Filter{Category: "pdf"})
	assert.Len(t, pdfs, 2)

	lo := decimal.NewFromInt(400)
	hi := decimal.NewFromInt(800)
	priced := c.List(ctx, Filter{MinPrice: &lo, MaxPrice: &hi})
	require.Len(t, priced, 2)
	assert.Equal(t, cart.ProductID("2"), priced[0].ID)

	tagged := c.List(ctx, Filter{Search: "ui/ux"})
	require.Len(t, tagged, 1)
	assert.Equal(t, cart.ProductID("2"), tagged[0].ID)

	titled := c.List(ctx, Filter{Search: "node"})
	require.Len(t, titled, 1)
	assert.Equal(t, cart.ProductID("4"), titled[0].ID)
}

func TestParseRejectsBadFixtures(t *testing.T) {
	cases := map[string]string{
		"bad yaml":       "products: [",
		"missing id":     "products:\n  - title: x\n    price: \"1\"\n",
		"missing title":  "products:\n  - id: \"1\"\n    price: \"1\"\n",
		"bad price":      "products:\n  - id: \"1\"\n    title: x\n    price: abc\n",
		"negative price": "products:\n  - id: \"1\"\n    title: x\n    price: \"-1\"\n",
		"duplicate id":   "products:\n  - id: \"1\"\n    title: x\n    price: \"1\"\n  - id: \"1\"\n    title: y\n    price: \"2\"\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestAddProductThroughCatalog(t *testing.T) {
	ctx := context.Background()
	c, err := Default()
	require.NoError(t, err)
	store, err := cart.NewStore(ctx, cart.Params{Storage: storage.NewMemory()})
	require.NoError(t, err)

	items, err := store.AddProduct(ctx, c, "2")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "PSD", items[0].Category)
}
