package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/UZHBCON/deathnote"
	"github.com/UZHBCON/deathnote/coin"
	"github.com/UZHBCON/deathnote/deathnotetest"
	"github.com/UZHBCON/deathnote/store"
	"github.com/UZHBCON/deathnote/x/cash"
	"github.com/UZHBCON/deathnote/x/testament"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

// as authenticates the given addresses.
type as []deathnote.Address

func (c as) HasAddress(addr deathnote.Address) bool {
	for _, a := range c {
		if a.Equals(addr) {
			return true
		}
	}
	return false
}

type fixture struct {
	db            deathnote.KVStore
	creator       deathnote.Address
	validators    []deathnote.Address
	beneficiaries []deathnote.Address
	id            []byte
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	db := store.MemStore()
	bank := cash.NewController(cash.NewBucket())
	f := fixture{
		db:      db,
		creator: deathnotetest.NewCondition().Address(),
		validators: []deathnote.Address{
			deathnotetest.NewCondition().Address(),
			deathnotetest.NewCondition().Address(),
		},
		beneficiaries: []deathnote.Address{
			deathnotetest.NewCondition().Address(),
			deathnotetest.NewCondition().Address(),
		},
	}
	require.NoError(t, bank.CoinMint(db, f.creator, coin.NewAmount(1000)))

	ctrl := testament.NewController(testament.NewBucket(), bank)
	id, _, err := ctrl.Create(db, as{f.creator}, testament.Config{
		Creator:           f.creator,
		Validators:        f.validators,
		Threshold:         2,
		Beneficiaries:     f.beneficiaries,
		Shares:            []uint32{60, 40},
		WaitingPeriodDays: 30,
	}, coin.NewAmount(600))
	require.NoError(t, err)
	f.id = id

	_, err = ctrl.ConfirmDeath(db, id, as{f.validators[0]}, 1000)
	require.NoError(t, err)
	return f
}

func (f fixture) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	r := NewRouter(f.db, nil, prometheus.NewRegistry(), log.NewNopLogger())
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetTestament(t *testing.T) {
	f := newFixture(t)

	w := f.get(t, "/testaments/1")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var view testament.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, f.id, view.ID)
	assert.Equal(t, f.creator, view.Creator)
	assert.Equal(t, testament.StateActive, view.State)
	assert.True(t, coin.NewAmount(600).Equals(view.Balance), view.Balance.String())
	assert.Equal(t, 1, view.Confirmations)
	assert.Equal(t, uint32(2), view.Threshold)
	assert.Equal(t, 2, view.Beneficiaries)
}

func TestGetRegistries(t *testing.T) {
	f := newFixture(t)

	w := f.get(t, "/testaments/1/validators")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var validators ValidatorsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &validators))
	assert.Equal(t, f.validators, validators.Addresses)
	assert.Equal(t, []bool{true, false}, validators.Confirmed)

	w = f.get(t, "/testaments/1/beneficiaries")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var beneficiaries BeneficiariesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &beneficiaries))
	assert.Equal(t, f.beneficiaries, beneficiaries.Addresses)
	assert.Equal(t, []uint32{60, 40}, beneficiaries.Shares)
}

func TestGetAccount(t *testing.T) {
	f := newFixture(t)

	w := f.get(t, "/accounts/"+f.creator.String())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var acct AccountResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &acct))
	assert.True(t, coin.NewAmount(400).Equals(acct.Balance), acct.Balance.String())
	assert.Equal(t, []int64{1}, acct.Creator)
	assert.Empty(t, acct.Validator)
	assert.Empty(t, acct.Beneficiary)

	bech, err := f.beneficiaries[1].Bech32()
	require.NoError(t, err)
	w = f.get(t, "/accounts/bech32:"+bech)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	acct = AccountResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &acct))
	assert.True(t, acct.Balance.IsZero())
	assert.Equal(t, []int64{1}, acct.Beneficiary)
}

func TestRequestErrors(t *testing.T) {
	f := newFixture(t)

	cases := map[string]struct {
		path string
		want int
	}{
		"unknown testament": {path: "/testaments/7", want: http.StatusNotFound},
		"invalid id":        {path: "/testaments/abc", want: http.StatusBadRequest},
		"zero id":           {path: "/testaments/0/validators", want: http.StatusBadRequest},
		"invalid address":   {path: "/accounts/xyz", want: http.StatusBadRequest},
		"unknown route":     {path: "/nothing", want: http.StatusNotFound},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			w := f.get(t, tc.path)
			assert.Equal(t, tc.want, w.Code, w.Body.String())
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	r := NewRouter(store.MemStore(), nil, reg, log.NewNopLogger())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "test_total 1"), w.Body.String())
}
