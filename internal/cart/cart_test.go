package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bogartqtpie/construction-inventory-web/pkg/contracts"
)

func TestParseCatalog(t *testing.T) {
	got, err := ParseCatalog(" 1:Cement , 2:Sand,,3 ")
	require.NoError(t, err)
	assert.Equal(t, []Material{{"1", "Cement"}, {"2", "Sand"}, {"3", "3"}}, got)
}

func TestParseCatalogErrors(t *testing.T) {
	_, err := ParseCatalog(":Cement")
	assert.Error(t, err)

	_, err = ParseCatalog("1:Cement,1:Sand")
	assert.Error(t, err)
}

func TestCartKeepsFirstAddedOrder(t *testing.T) {
	c := New()
	c.Add("2")
	c.Add("1")
	c.Add("2")
	c.Set("3", 4)

	assert.Equal(t, []contracts.LineItem{
		{MaterialID: "2", Qty: 2},
		{MaterialID: "1", Qty: 1},
		{MaterialID: "3", Qty: 4},
	}, c.Items())
	assert.Equal(t, 3, c.Len())
}

func TestCartRemoveDropsEmptyLines(t *testing.T) {
	c := New()
	c.Add("1")
	c.Add("2")
	c.Remove("1")
	c.Remove("9")

	assert.Equal(t, []contracts.LineItem{{MaterialID: "2", Qty: 1}}, c.Items())
	assert.Zero(t, c.Qty("1"))

	c.Set("2", 0)
	assert.Empty(t, c.Items())
	assert.NotNil(t, c.Items())
}

func TestCartClear(t *testing.T) {
	c := New()
	c.Add("1")
	c.Clear()
	assert.Zero(t, c.Len())
	c.Add("1")
	assert.Equal(t, 1, c.Qty("1"))
}

func TestParseItem(t *testing.T) {
	it, err := ParseItem(" 12:3 ")
	require.NoError(t, err)
	assert.Equal(t, contracts.LineItem{MaterialID: "12", Qty: 3}, it)

	for _, bad := range []string{"12", ":3", "12:0", "12:-1", "12:x"} {
		_, err := ParseItem(bad)
		assert.Error(t, err, bad)
	}
}
