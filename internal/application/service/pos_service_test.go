package service

import (
	"context"
	"testing"

	"github.com/sangkips/cafepos-api/internal/domain/enum"
	"github.com/sangkips/cafepos-api/internal/domain/pos"
	"github.com/sangkips/cafepos-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPosService_StoreClosedRejectsCartAndCheckout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.pos.AddItem(ctx, cashier, &AddItemInput{ProductID: env.latte.ID})
	assert.ErrorIs(t, err, apperror.ErrStoreClosed)
	assert.Empty(t, env.pos.GetCart(cashier).Lines)

	_, err = env.pos.Checkout(ctx, cashier)
	assert.ErrorIs(t, err, apperror.ErrStoreClosed)
}

func TestPosService_AddItemMergesIdenticalConfigurations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.openStore(t, cashier)

	in := &AddItemInput{ProductID: env.latte.ID, AddonIDs: []uint{env.shot.ID}, UpgradeID: &env.grande.ID}
	_, err := env.pos.AddItem(ctx, cashier, in)
	require.NoError(t, err)
	view, err := env.pos.AddItem(ctx, cashier, in)
	require.NoError(t, err)

	require.Len(t, view.Lines, 1)
	line := view.Lines[0]
	assert.Equal(t, 2, line.Quantity)
	// upgrade replaces the base price: 140 + 30
	assert.True(t, dec("170").Equal(line.FinalPrice))
	assert.True(t, dec("340").Equal(view.Subtotal))

	view, err = env.pos.AddItem(ctx, cashier, &AddItemInput{ProductID: env.latte.ID, Instructions: "less ice"})
	require.NoError(t, err)
	assert.Len(t, view.Lines, 2)
}

func TestPosService_CheckoutFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.openStore(t, cashier)

	_, err := env.pos.AddItem(ctx, cashier, &AddItemInput{ProductID: env.latte.ID})
	require.NoError(t, err)
	view := env.pos.SetDiscounts(cashier, pos.Discounts{SeniorPWD: true, Employee: true})
	assert.True(t, dec("76").Equal(view.Total))

	_, err = env.pos.SetPayment(cashier, enum.PaymentGCash, "50")
	require.NoError(t, err)
	_, err = env.pos.Checkout(ctx, cashier)
	assert.ErrorIs(t, err, apperror.ErrInsufficientAmount)
	assert.Len(t, env.pos.GetCart(cashier).Lines, 1, "failed checkout keeps the cart")

	_, err = env.pos.SetPayment(cashier, enum.PaymentGCash, "abc")
	require.NoError(t, err)
	_, err = env.pos.Checkout(ctx, cashier)
	assert.ErrorIs(t, err, apperror.ErrInvalidPayment)

	view, err = env.pos.SetPayment(cashier, enum.PaymentGCash, "100")
	require.NoError(t, err)
	assert.True(t, dec("24").Equal(view.Change))

	res, err := env.pos.Checkout(ctx, cashier)
	require.NoError(t, err)
	assert.True(t, dec("76").Equal(res.Order.Total))
	assert.True(t, dec("24").Equal(res.Order.Change))
	assert.True(t, dec("24").Equal(res.Order.DiscountAmount))
	assert.Equal(t, enum.PaymentGCash, res.Order.PaymentMethod)
	assert.Equal(t, "main", res.Order.Branch)
	require.Len(t, res.Order.Items, 1)
	assert.Equal(t, "Latte", res.Order.Items[0].ProductName)

	assert.Empty(t, res.Cart.Lines)
	assert.False(t, res.Cart.Discounts.SeniorPWD)
	assert.False(t, res.Cart.Discounts.Employee)
	assert.Equal(t, enum.PaymentCash, res.Cart.PaymentMethod)
	assert.Empty(t, res.Cart.Tendered)

	assert.Equal(t, 1, env.printer.count())
}

func TestPosService_EmptyCartCheckout(t *testing.T) {
	env := newTestEnv(t)
	env.openStore(t, cashier)

	_, err := env.pos.Checkout(context.Background(), cashier)
	assert.ErrorIs(t, err, apperror.ErrEmptyCart)
}

func TestPosService_QuantityAndClear(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.openStore(t, cashier)

	view, err := env.pos.AddItem(ctx, cashier, &AddItemInput{ProductID: env.croissant.ID})
	require.NoError(t, err)
	lineID := view.Lines[0].LineID

	view, err = env.pos.UpdateQuantity(cashier, lineID, 3)
	require.NoError(t, err)
	assert.True(t, dec("255").Equal(view.Total))

	_, err = env.pos.UpdateQuantity(cashier, "missing", 1)
	assert.Error(t, err)

	view, err = env.pos.RemoveLine(cashier, lineID)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)

	_, err = env.pos.AddItem(ctx, cashier, &AddItemInput{ProductID: env.croissant.ID})
	require.NoError(t, err)
	env.pos.SetDiscounts(cashier, pos.Discounts{Employee: true})
	view = env.pos.ClearCart(cashier)
	assert.Empty(t, view.Lines)
	assert.False(t, view.Discounts.Employee)
}

func TestPosService_TerminalsAreIndependent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.openStore(t, cashier)

	_, err := env.pos.AddItem(ctx, cashier, &AddItemInput{ProductID: env.latte.ID})
	require.NoError(t, err)

	other := cashier
	other.UserID = 99
	assert.Empty(t, env.pos.GetCart(other).Lines)

	env.auth.Logout(cashier.UserID)
	assert.Empty(t, env.pos.GetCart(cashier).Lines)
}
