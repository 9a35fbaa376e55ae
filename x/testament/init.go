package testament

import (
	"github.com/UZHBCON/deathnote"
	"github.com/UZHBCON/deathnote/coin"
	"github.com/UZHBCON/deathnote/errors"
	"github.com/UZHBCON/deathnote/x/cash"
)

const optKey = "testament"

// GenesisTestament is the genesis file representation of a testament. The
// balance is minted straight into the custody account.
type GenesisTestament struct {
	Creator               deathnote.Address   `json:"creator"`
	Validators            []deathnote.Address `json:"validators"`
	Beneficiaries         []deathnote.Address `json:"beneficiaries"`
	Shares                []uint32            `json:"shares"`
	ConfirmationsRequired uint32              `json:"confirmationsRequired"`
	WaitingPeriodDays     uint32              `json:"waitingPeriodDays"`
	Balance               coin.Amount         `json:"balance"`
}

// Initializer fulfils the Initializer interface to load data from the
// genesis file.
type Initializer struct {
	Minter cash.CoinMinter
}

var _ deathnote.Initializer = (*Initializer)(nil)

// FromGenesis will parse initial testaments from genesis and save them to
// the database.
func (g *Initializer) FromGenesis(opts deathnote.Options, db deathnote.KVStore) error {
	var testaments []GenesisTestament
	if err := opts.ReadOptions(optKey, &testaments); err != nil {
		return err
	}
	bucket := NewBucket()
	for i, gt := range testaments {
		id, err := bucket.NextID(db)
		if err != nil {
			return errors.Wrap(err, "cannot acquire id")
		}
		t, err := New(id, Config{
			Creator:           gt.Creator,
			Validators:        gt.Validators,
			Threshold:         gt.ConfirmationsRequired,
			Beneficiaries:     gt.Beneficiaries,
			Shares:            gt.Shares,
			WaitingPeriodDays: gt.WaitingPeriodDays,
		})
		if err != nil {
			return errors.Wrapf(err, "testament %d", i)
		}
		if gt.Balance.IsPositive() {
			if g.Minter == nil {
				return errors.Wrap(errors.ErrHuman, "no minter to fund genesis testaments")
			}
			if err := g.Minter.CoinMint(db, t.Address, gt.Balance); err != nil {
				return errors.Wrapf(err, "testament %d", i)
			}
			t.Balance = gt.Balance
		}
		if _, err := bucket.Put(db, id, t); err != nil {
			return errors.Wrapf(err, "testament %d", i)
		}
	}
	return nil
}
