package deathnote

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestContextLogger(t *testing.T) {
	bg := context.Background()
	assert.Equal(t, DefaultLogger, GetLogger(bg))

	logger := log.NewTMLogger(os.Stdout)
	assert.Equal(t, logger, GetLogger(WithLogger(bg, logger)))
}

func TestContextHeight(t *testing.T) {
	height, ok := GetHeight(context.Background())
	assert.False(t, ok)
	assert.Equal(t, int64(0), height)

	height, ok = GetHeight(WithHeight(context.Background(), 42))
	assert.True(t, ok)
	assert.Equal(t, int64(42), height)
}

func TestContextChainID(t *testing.T) {
	bg := context.Background()
	assert.Panics(t, func() { GetChainID(bg) })

	ctx := WithChainID(bg, "deathnote-test-1")
	assert.Equal(t, "deathnote-test-1", GetChainID(ctx))

	// set once, and only to a valid id
	assert.Panics(t, func() { WithChainID(ctx, "deathnote-test-2") })
	assert.Panics(t, func() { WithChainID(bg, "no") })
}

func TestBlockTime(t *testing.T) {
	ctx := context.Background()

	_, ok := BlockTime(ctx)
	assert.False(t, ok)
	assert.Panics(t, func() { Now(ctx) })
	assert.Panics(t, func() { IsExpired(ctx, 1) })

	// zero time is treated as not set
	_, ok = BlockTime(WithBlockTime(ctx, time.Time{}))
	assert.False(t, ok)

	now := time.Unix(1500000000, 0)
	ctx = WithBlockTime(ctx, now)
	got, ok := BlockTime(ctx)
	assert.True(t, ok)
	assert.Equal(t, now.Unix(), got.Unix())
	assert.Equal(t, UnixTime(1500000000), Now(ctx))

	// expiration is inclusive
	assert.True(t, IsExpired(ctx, UnixTime(1500000000)))
	assert.True(t, IsExpired(ctx, UnixTime(1499999999)))
	assert.False(t, IsExpired(ctx, UnixTime(1500000001)))
}
