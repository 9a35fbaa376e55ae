package server

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/UZHBCON/deathnote/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// GenOptions builds the app_state of the genesis file from the
// arguments of the init command.
type GenOptions func(args []string) (json.RawMessage, error)

// GenesisFile is where tendermint init writes the genesis file.
func GenesisFile(home string) string {
	return filepath.Join(home, "config", "genesis.json")
}

// GenesisDoc keeps every top level field of the genesis file as raw JSON,
// so app_state can be added without knowing the tendermint format.
type GenesisDoc map[string]json.RawMessage

// InitCmd adds the app_state built by gen to the genesis file of home.
// The file must exist and must not have an app_state yet.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	path := GenesisFile(home)
	doc, err := readGenesis(path)
	if err != nil {
		return err
	}
	if _, ok := doc["app_state"]; ok {
		return errors.Wrapf(errors.ErrDuplicate, "app_state already set in %s", path)
	}

	state, err := gen(args)
	if err != nil {
		return err
	}
	doc["app_state"] = state
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := ioutil.WriteFile(path, out, 0600); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	logger.Info("App state written to genesis file", "path", path)
	return nil
}

func readGenesis(path string) (GenesisDoc, error) {
	raw, err := ioutil.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		return nil, errors.Wrapf(errors.ErrNotFound, "%s, run tendermint init first", path)
	case err != nil:
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	var doc GenesisDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return doc, nil
}
