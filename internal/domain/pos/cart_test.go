package pos

import (
	"sync"
	"testing"

	"github.com/sangkips/cafepos-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddToCart_MergesIdenticalConfiguration(t *testing.T) {
	c := NewCart()

	first := c.AddToCart(latte, []Option{shot, oatMilk}, &grande, "less ice")
	second := c.AddToCart(latte, []Option{oatMilk, shot, shot}, &grande, "less ice")

	require.Len(t, c.Lines, 1)
	assert.Equal(t, first.LineID, second.LineID)
	assert.Equal(t, 2, c.Lines[0].Quantity)
	assert.Len(t, c.Lines[0].Addons, 2)
}

func TestAddToCart_DistinctConfigurations(t *testing.T) {
	c := NewCart()

	c.AddToCart(latte, nil, nil, "")
	c.AddToCart(latte, nil, &grande, "")
	c.AddToCart(latte, []Option{shot}, nil, "")
	c.AddToCart(latte, nil, nil, "extra hot")

	assert.Len(t, c.Lines, 4)
	for _, l := range c.Lines {
		assert.Equal(t, 1, l.Quantity)
	}
}

func TestAddToCart_FinalPriceFixedAtAddTime(t *testing.T) {
	c := NewCart()
	line := c.AddToCart(latte, []Option{shot}, nil, "")

	require.True(t, c.UpdateQuantity(line.LineID, 3))
	assert.Equal(t, "150", c.Lines[0].FinalPrice.String())
	assert.Equal(t, "450", c.Lines[0].LineTotal().String())
}

func TestUpdateQuantity_BelowOneRemoves(t *testing.T) {
	c := NewCart()
	a := c.AddToCart(latte, nil, nil, "")
	b := c.AddToCart(Option{ID: 2, Name: "Croissant", Price: dec("85")}, nil, nil, "")

	assert.True(t, c.UpdateQuantity(a.LineID, 0))
	require.Len(t, c.Lines, 1)
	assert.Equal(t, b.LineID, c.Lines[0].LineID)

	assert.False(t, c.UpdateQuantity("missing", 2))
	assert.True(t, c.RemoveLine(b.LineID))
	assert.True(t, c.IsEmpty())
}

func TestClear_ResetsEverything(t *testing.T) {
	c := NewCart()
	c.AddToCart(latte, nil, nil, "")
	c.Discounts = Discounts{SeniorPWD: true, Employee: true}
	c.PaymentMethod = enum.PaymentGCash
	c.Tendered = "500"

	c.Clear()

	assert.Empty(t, c.Lines)
	assert.Equal(t, Discounts{}, c.Discounts)
	assert.Equal(t, enum.PaymentCash, c.PaymentMethod)
	assert.Empty(t, c.Tendered)
}

func TestOrderItems_Snapshot(t *testing.T) {
	c := NewCart()
	c.AddQuantity(latte, []Option{shot}, &grande, "no sugar", 2)

	items := c.OrderItems()
	require.Len(t, items, 1)
	assert.Equal(t, "Latte", items[0].ProductName)
	assert.Equal(t, "Grande", items[0].Upgrade.Name)
	assert.Equal(t, "360", items[0].LineTotal.String())
}

func TestClone_IsIndependent(t *testing.T) {
	c := NewCart()
	c.AddToCart(latte, []Option{shot}, &grande, "")

	cp := c.Clone()
	cp.Lines[0].Addons[0].Name = "changed"
	cp.Lines[0].Upgrade.Name = "changed"

	assert.Equal(t, "Extra shot", c.Lines[0].Addons[0].Name)
	assert.Equal(t, "Grande", c.Lines[0].Upgrade.Name)
}

func TestRegistry_TerminalsAreIndependent(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Get(1).Do(func(c *Cart) error {
		c.AddToCart(latte, nil, nil, "")
		return nil
	}))

	assert.Len(t, r.Get(1).Snapshot().Lines, 1)
	assert.Empty(t, r.Get(2).Snapshot().Lines)

	r.Discard(1)
	assert.Empty(t, r.Get(1).Snapshot().Lines)
}

func TestTerminal_ConcurrentAdds(t *testing.T) {
	term := NewRegistry().Get(7)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = term.Do(func(c *Cart) error {
				c.AddToCart(latte, nil, nil, "")
				return nil
			})
		}()
	}
	wg.Wait()

	snap := term.Snapshot()
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, 50, snap.Lines[0].Quantity)
}
