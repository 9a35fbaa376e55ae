package app

import (
	"context"
	"testing"

	"github.com/UZHBCON/deathnote/deathnotetest"
	"github.com/UZHBCON/deathnote/errors"
	"github.com/UZHBCON/deathnote/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChain(t *testing.T) {
	var (
		first  deathnotetest.Decorator
		second deathnotetest.Decorator
		h      deathnotetest.Handler
	)
	var nilDecorator *deathnotetest.Decorator

	stack := ChainDecorators(&first, nil, nilDecorator).
		Chain(&second).
		WithHandler(&h)

	ctx := context.Background()
	db := store.MemStore()
	tx := &deathnotetest.Tx{}

	_, err := stack.Check(ctx, db, tx)
	require.NoError(t, err)
	_, err = stack.Deliver(ctx, db, tx)
	require.NoError(t, err)

	assert.Equal(t, 2, first.CallCount())
	assert.Equal(t, 2, second.CallCount())
	assert.Equal(t, 2, h.CallCount())
}

func TestChainStopsOnError(t *testing.T) {
	first := deathnotetest.Decorator{DeliverErr: errors.ErrUnauthorized}
	var (
		second deathnotetest.Decorator
		h      deathnotetest.Handler
	)
	stack := ChainDecorators(&first, &second).WithHandler(&h)

	ctx := context.Background()
	db := store.MemStore()
	tx := &deathnotetest.Tx{}

	_, err := stack.Check(ctx, db, tx)
	require.NoError(t, err)
	_, err = stack.Deliver(ctx, db, tx)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	assert.Equal(t, 2, first.CallCount())
	assert.Equal(t, 1, second.CallCount())
	assert.Equal(t, 1, h.CheckCallCount())
	assert.Equal(t, 0, h.DeliverCallCount())
}

func TestCutoffNil(t *testing.T) {
	var d deathnotetest.Decorator
	var nilPtr *deathnotetest.Decorator
	got := ChainDecorators(nil, &d, nilPtr, nil, &d).chain
	assert.Len(t, got, 2)
}
