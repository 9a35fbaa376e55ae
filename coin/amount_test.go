package coin

import (
	"encoding/json"
	"testing"

	"github.com/UZHBCON/deathnote/deathnotetest/assert"
	"github.com/UZHBCON/deathnote/errors"
	amino "github.com/tendermint/go-amino"
)

const maxUint256 = "115792089237316195423570985008687907853269984665640564039457584007913129639935"

func mustParse(t testing.TB, s string) Amount {
	t.Helper()
	a, err := ParseAmount(s)
	if err != nil {
		t.Fatalf("cannot parse %q: %s", s, err)
	}
	return a
}

func TestParseAmount(t *testing.T) {
	cases := map[string]struct {
		raw     string
		want    string
		wantErr *errors.Error
	}{
		"zero":              {raw: "0", want: "0"},
		"small":             {raw: "42", want: "42"},
		"surrounding space": {raw: " 42 ", want: "42"},
		"wei sized":         {raw: "1000000000000000000000", want: "1000000000000000000000"},
		"max":               {raw: maxUint256, want: maxUint256},
		"overflow":          {raw: maxUint256 + "0", wantErr: errors.ErrOverflow},
		"negative":          {raw: "-1", wantErr: errors.ErrInput},
		"explicit plus":     {raw: "+1", wantErr: errors.ErrInput},
		"fraction":          {raw: "1.5", wantErr: errors.ErrInput},
		"empty":             {raw: "", wantErr: errors.ErrInput},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := ParseAmount(tc.raw)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, tc.want, got.String())
		})
	}
}

func TestAmountArithmetic(t *testing.T) {
	a := NewAmount(100)
	b := NewAmount(40)

	sum, err := a.Add(b)
	assert.Nil(t, err)
	assert.Equal(t, "140", sum.String())

	diff, err := a.Subtract(b)
	assert.Nil(t, err)
	assert.Equal(t, "60", diff.String())

	_, err = b.Subtract(a)
	assert.IsErr(t, errors.ErrAmount, err)

	_, err = mustParse(t, maxUint256).Add(NewAmount(1))
	assert.IsErr(t, errors.ErrOverflow, err)

	assert.Equal(t, 1, a.Compare(b))
	assert.Equal(t, -1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(NewAmount(100)))
	assert.Equal(t, true, a.IsGTE(a))
	assert.Equal(t, false, b.IsGTE(a))
	assert.Equal(t, true, Amount{}.IsZero())
	assert.Equal(t, false, Amount{}.IsPositive())
	assert.Equal(t, b, Min(a, b))

	total, err := Sum(a, b, NewAmount(1))
	assert.Nil(t, err)
	assert.Equal(t, "141", total.String())
}

func TestAmountMulDiv(t *testing.T) {
	cases := map[string]struct {
		amount  string
		num     uint64
		den     uint64
		want    string
		wantErr *errors.Error
	}{
		"exact": {
			amount: "100", num: 60, den: 100, want: "60",
		},
		"floor": {
			amount: "100", num: 1, den: 3, want: "33",
		},
		"two thirds floor": {
			amount: "100", num: 2, den: 3, want: "66",
		},
		"zero numerator": {
			amount: "100", num: 0, den: 3, want: "0",
		},
		"huge amount does not overflow": {
			amount: maxUint256, num: 1, den: 1, want: maxUint256,
		},
		"huge amount with large weights": {
			amount: maxUint256, num: 4294967295, den: 4294967295 * 2,
			want: "57896044618658097711785492504343953926634992332820282019728792003956564819967",
		},
		"overflow": {
			amount: maxUint256, num: 2, den: 1, wantErr: errors.ErrOverflow,
		},
		"zero denominator": {
			amount: "1", num: 1, den: 0, wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := mustParse(t, tc.amount).MulDiv(tc.num, tc.den)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, tc.want, got.String())
		})
	}
}

func TestAmountJSON(t *testing.T) {
	raw, err := json.Marshal(NewAmount(1234))
	assert.Nil(t, err)
	assert.Equal(t, `"1234"`, string(raw))

	var a Amount
	assert.Nil(t, json.Unmarshal([]byte(`"1234"`), &a))
	assert.Equal(t, "1234", a.String())

	assert.Nil(t, json.Unmarshal([]byte(`77`), &a))
	assert.Equal(t, "77", a.String())

	assert.IsErr(t, errors.ErrInput, json.Unmarshal([]byte(`"-5"`), &a))
	assert.IsErr(t, errors.ErrInput, json.Unmarshal([]byte(`{}`), &a))
}

func TestAmountAmino(t *testing.T) {
	type holder struct {
		Balance Amount
	}
	cdc := amino.NewCodec()

	want := holder{Balance: mustParse(t, "1000000000000000000000")}
	raw, err := cdc.MarshalBinaryBare(want)
	assert.Nil(t, err)

	var got holder
	assert.Nil(t, cdc.UnmarshalBinaryBare(raw, &got))
	assert.Equal(t, true, want.Balance.Equals(got.Balance))
}
