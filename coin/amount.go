package coin

import (
	"encoding/json"
	"math/big"
	"strings"

	"github.com/UZHBCON/deathnote/errors"
	"github.com/holiman/uint256"
)

// Amount is a non negative quantity of the native currency.
//
// The zero value is a valid zero amount. All methods use value receivers and
// never modify the receiver.
type Amount struct {
	i uint256.Int
}

// NewAmount returns an amount of given integer value.
func NewAmount(v uint64) Amount {
	return Amount{i: *uint256.NewInt(v)}
}

// NewAmountp returns a pointer to a new amount.
func NewAmountp(v uint64) *Amount {
	a := NewAmount(v)
	return &a
}

// ParseAmount decodes an amount from its base 10 representation.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}, errors.Wrap(errors.ErrInput, "empty amount")
	}
	if s[0] == '-' || s[0] == '+' {
		return Amount{}, errors.Wrapf(errors.ErrInput, "invalid amount %q", s)
	}
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Amount{}, errors.Wrapf(errors.ErrInput, "invalid amount %q", s)
	}
	v, overflow := uint256.FromBig(b)
	if overflow {
		return Amount{}, errors.Wrapf(errors.ErrOverflow, "amount %q", s)
	}
	return Amount{i: *v}, nil
}

// String returns the base 10 representation.
func (a Amount) String() string {
	return a.i.ToBig().String()
}

// Uint64 returns the value if it fits into an uint64.
func (a Amount) Uint64() (uint64, bool) {
	return a.i.Uint64(), a.i.IsUint64()
}

// IsZero returns true if the amount is zero.
func (a Amount) IsZero() bool {
	return a.i.IsZero()
}

// IsPositive returns true if the amount is greater than zero.
func (a Amount) IsPositive() bool {
	return !a.i.IsZero()
}

// Compare returns 1 if a is greater than o, -1 if smaller and 0 when equal.
func (a Amount) Compare(o Amount) int {
	return a.i.Cmp(&o.i)
}

// Equals returns true if both amounts hold the same value.
func (a Amount) Equals(o Amount) bool {
	return a.i.Eq(&o.i)
}

// IsGTE returns true if a is greater than or equal to o.
func (a Amount) IsGTE(o Amount) bool {
	return !a.i.Lt(&o.i)
}

// Add returns the sum of both amounts.
func (a Amount) Add(o Amount) (Amount, error) {
	var res uint256.Int
	res.Add(&a.i, &o.i)
	if res.Lt(&a.i) {
		return Amount{}, errors.Wrapf(errors.ErrOverflow, "%s + %s", a, o)
	}
	return Amount{i: res}, nil
}

// Subtract returns a - o. It fails with ErrAmount if o is greater than a.
func (a Amount) Subtract(o Amount) (Amount, error) {
	if a.i.Lt(&o.i) {
		return Amount{}, errors.Wrapf(errors.ErrAmount, "%s - %s", a, o)
	}
	var res uint256.Int
	res.Sub(&a.i, &o.i)
	return Amount{i: res}, nil
}

// MulDiv returns floor(a * num / den). The intermediate product never
// exceeds the precision as long as den fits into 64 bits.
//
//	a * num / den = (a / den) * num + ((a % den) * num) / den
func (a Amount) MulDiv(num, den uint64) (Amount, error) {
	if den == 0 {
		return Amount{}, errors.Wrap(errors.ErrInput, "division by zero")
	}
	n := uint256.NewInt(num)
	d := uint256.NewInt(den)

	var quo, rem uint256.Int
	quo.Div(&a.i, d)
	rem.Mod(&a.i, d)

	var whole uint256.Int
	whole.Mul(&quo, n)
	if num != 0 {
		var check uint256.Int
		check.Div(&whole, n)
		if !check.Eq(&quo) {
			return Amount{}, errors.Wrapf(errors.ErrOverflow, "%s * %d", a, num)
		}
	}

	// rem < den < 2^64 and num < 2^64 so the product fits in 128 bits.
	var part uint256.Int
	part.Mul(&rem, n)
	part.Div(&part, d)

	return Amount{i: whole}.Add(Amount{i: part})
}

// Clone returns an independent copy. Amount already is a value type, this
// exists for symmetry with other models.
func (a Amount) Clone() Amount {
	return Amount{i: *a.i.Clone()}
}

// Validate always succeeds. Any representable value is a valid amount.
func (a Amount) Validate() error {
	return nil
}

// Min returns the smaller of both amounts.
func Min(a, b Amount) Amount {
	if a.Compare(b) <= 0 {
		return a
	}
	return b
}

// Sum adds all given amounts.
func Sum(amounts ...Amount) (Amount, error) {
	var total Amount
	for _, a := range amounts {
		var err error
		if total, err = total.Add(a); err != nil {
			return Amount{}, err
		}
	}
	return total, nil
}

// MarshalJSON encodes the amount as a decimal string. A string is used
// because many JSON consumers cannot represent integers wider than 53 bits.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts both a decimal string and a JSON number.
func (a *Amount) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return errors.Wrap(errors.ErrInput, "amount must be a string or a number")
		}
		s = n.String()
	}
	v, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// MarshalAmino is used by the codec to serialize the amount.
func (a Amount) MarshalAmino() (string, error) {
	return a.String(), nil
}

// UnmarshalAmino is used by the codec to deserialize the amount.
func (a *Amount) UnmarshalAmino(s string) error {
	if s == "" {
		*a = Amount{}
		return nil
	}
	v, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Set implements flag.Value so amounts can be provided on the command line.
func (a *Amount) Set(raw string) error {
	v, err := ParseAmount(raw)
	if err != nil {
		return err
	}
	*a = v
	return nil
}
