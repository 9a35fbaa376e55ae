package app

import (
	"github.com/UZHBCON/deathnote"
	"github.com/UZHBCON/deathnote/errors"
	amino "github.com/tendermint/go-amino"
	abci "github.com/tendermint/tendermint/abci/types"
)

var cdc = amino.NewCodec()

// ResultSet is the Key or the Value of a query response: one entry per
// returned model, keys and values at the same positions.
type ResultSet struct {
	Results [][]byte
}

var _ deathnote.Persistent = (*ResultSet)(nil)

func (r *ResultSet) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(r)
}

// Unmarshal accepts no bytes at all as the empty set.
func (r *ResultSet) Unmarshal(raw []byte) error {
	if len(raw) == 0 {
		r.Results = nil
		return nil
	}
	if err := cdc.UnmarshalBinaryBare(raw, r); err != nil {
		return errors.Wrap(errors.ErrType, err.Error())
	}
	return nil
}

// ResultsFromKeys collects the keys of models.
func ResultsFromKeys(models []deathnote.Model) *ResultSet {
	keys := make([][]byte, 0, len(models))
	for _, m := range models {
		keys = append(keys, m.Key)
	}
	return &ResultSet{Results: keys}
}

// ResultsFromValues collects the values of models.
func ResultsFromValues(models []deathnote.Model) *ResultSet {
	values := make([][]byte, 0, len(models))
	for _, m := range models {
		values = append(values, m.Value)
	}
	return &ResultSet{Results: values}
}

// JoinResults pairs keys and values back into models.
func JoinResults(keys, values *ResultSet) ([]deathnote.Model, error) {
	if len(keys.Results) != len(values.Results) {
		return nil, errors.Wrapf(errors.ErrInput, "mismatched result set size: %d keys, %d values",
			len(keys.Results), len(values.Results))
	}
	models := make([]deathnote.Model, len(keys.Results))
	for i, k := range keys.Results {
		models[i] = deathnote.Pair(k, values.Results[i])
	}
	return models, nil
}

// ParseQueryResponse returns the models of a query response. A failed
// query is returned as an error of the registered kind of its code.
func ParseQueryResponse(res abci.ResponseQuery) ([]deathnote.Model, error) {
	if res.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	var keys, values ResultSet
	if err := keys.Unmarshal(res.Key); err != nil {
		return nil, errors.Wrap(err, "keys")
	}
	if err := values.Unmarshal(res.Value); err != nil {
		return nil, errors.Wrap(err, "values")
	}
	return JoinResults(&keys, &values)
}
