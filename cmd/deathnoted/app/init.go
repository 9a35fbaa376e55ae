package app

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/UZHBCON/deathnote"
	"github.com/UZHBCON/deathnote/app"
	"github.com/UZHBCON/deathnote/coin"
	"github.com/UZHBCON/deathnote/crypto"
	"github.com/UZHBCON/deathnote/errors"
	"github.com/UZHBCON/deathnote/x/cash"
	"github.com/UZHBCON/deathnote/x/testament"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tendermint/tendermint/libs/log"
)

// Name is reported in the ABCI Info response.
const Name = "deathnoted"

// defaultBalance is given to the generated account of a dev genesis.
const defaultBalance = 123456789

// GenInitOptions will produce some basic options for one rich
// account, to use for dev mode.
//
// An optional first argument is the hex or bech32 address to fund. If none
// is given a key is generated and its recovery phrase is printed.
func GenInitOptions(args []string) (json.RawMessage, error) {
	var addr deathnote.Address
	if len(args) > 0 {
		a, err := deathnote.ParseAddress(args[0])
		if err != nil {
			return nil, err
		}
		addr = a
	} else {
		a, phrase, err := GenerateCoinKey()
		if err != nil {
			return nil, err
		}
		addr = a
		fmt.Println(phrase)
	}

	opts := struct {
		Cash      []cash.GenesisAccount        `json:"cash"`
		Testament []testament.GenesisTestament `json:"testament"`
	}{
		Cash: []cash.GenesisAccount{
			{Address: addr, Balance: coin.NewAmount(defaultBalance)},
		},
		Testament: []testament.GenesisTestament{},
	}
	return json.MarshalIndent(opts, "", "  ")
}

// GenerateApp is used to create a stub for server/start.go command. Metrics
// are registered with reg, which may be nil.
func GenerateApp(home string, logger log.Logger, debug bool, reg prometheus.Registerer) (*app.BaseApp, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "deathnote.db")
	}

	application, err := Application(Name, Stack(reg), TxDecoder, dbPath, debug)
	if err != nil {
		return nil, err
	}
	application.WithLogger(logger)
	return application, nil
}

// GenerateCoinKey returns the address of a fresh key, along with the
// recovery phrase it was derived from.
func GenerateCoinKey() (deathnote.Address, string, error) {
	phrase, err := crypto.NewMnemonic()
	if err != nil {
		return nil, "", err
	}
	key, err := crypto.DeriveKey(phrase, "", 0)
	if err != nil {
		return nil, "", errors.Wrap(err, "derive")
	}
	return key.PublicKey().Address(), phrase, nil
}
