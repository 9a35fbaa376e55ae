package cash

import (
	"github.com/UZHBCON/deathnote"
	"github.com/UZHBCON/deathnote/coin"
	"github.com/UZHBCON/deathnote/errors"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file
// use deathnote.Address, so address in hex, not base64
type GenesisAccount struct {
	Address deathnote.Address `json:"address"`
	Balance coin.Amount       `json:"balance"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ deathnote.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts deathnote.Options, db deathnote.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return err
	}
	bucket := NewBucket()
	for i, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		switch err := bucket.Has(db, acct.Address); {
		case err == nil:
			return errors.Wrapf(errors.ErrDuplicate, "account %s", acct.Address)
		case !errors.ErrNotFound.Is(err):
			return err
		}
		w := &Wallet{Balance: acct.Balance}
		if err := bucket.Save(db, acct.Address, w); err != nil {
			return errors.Wrapf(err, "account %s", acct.Address)
		}
	}
	return nil
}
