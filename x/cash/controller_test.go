package cash

import (
	"testing"

	"github.com/UZHBCON/deathnote/coin"
	"github.com/UZHBCON/deathnote/deathnotetest"
	"github.com/UZHBCON/deathnote/errors"
	"github.com/UZHBCON/deathnote/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveCoins(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController(NewBucket())

	alice := deathnotetest.NewCondition().Address()
	bob := deathnotetest.NewCondition().Address()

	require.NoError(t, ctrl.CoinMint(db, alice, coin.NewAmount(100)))

	cases := map[string]struct {
		src, dest []byte
		amount    uint64
		wantErr   *errors.Error
		wantAlice uint64
		wantBob   uint64
	}{
		"partial transfer": {
			src: alice, dest: bob, amount: 30,
			wantAlice: 70, wantBob: 30,
		},
		"zero amount": {
			src: alice, dest: bob, amount: 0,
			wantErr: errors.ErrInput, wantAlice: 70, wantBob: 30,
		},
		"not enough funds": {
			src: bob, dest: alice, amount: 31,
			wantErr: errors.ErrAmount, wantAlice: 70, wantBob: 30,
		},
		"self transfer": {
			src: alice, dest: alice, amount: 70,
			wantAlice: 70, wantBob: 30,
		},
		"drain wallet": {
			src: bob, dest: alice, amount: 30,
			wantAlice: 100, wantBob: 0,
		},
	}

	// cases depend on each other so run in a fixed order
	for _, name := range []string{"partial transfer", "zero amount", "not enough funds", "self transfer", "drain wallet"} {
		tc := cases[name]
		t.Run(name, func(t *testing.T) {
			err := ctrl.MoveCoins(db, tc.src, tc.dest, coin.NewAmount(tc.amount))
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
			a, err := ctrl.Balance(db, alice)
			require.NoError(t, err)
			assert.Equal(t, coin.NewAmount(tc.wantAlice), a)
			b, err := ctrl.Balance(db, bob)
			require.NoError(t, err)
			assert.Equal(t, coin.NewAmount(tc.wantBob), b)
		})
	}

	// empty wallets are removed
	assert.True(t, errors.ErrNotFound.Is(NewBucket().Has(db, bob)))
}

func TestCoinMint(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController(NewBucket())
	addr := deathnotetest.NewCondition().Address()

	assert.True(t, errors.ErrInput.Is(ctrl.CoinMint(db, addr, coin.Amount{})))

	require.NoError(t, ctrl.CoinMint(db, addr, coin.NewAmount(5)))
	require.NoError(t, ctrl.CoinMint(db, addr, coin.NewAmount(7)))
	got, err := ctrl.Balance(db, addr)
	require.NoError(t, err)
	assert.Equal(t, coin.NewAmount(12), got)
}
