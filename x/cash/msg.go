package cash

import (
	"github.com/UZHBCON/deathnote"
	"github.com/UZHBCON/deathnote/coin"
	"github.com/UZHBCON/deathnote/errors"
)

const (
	sendTxCost int64 = 100

	maxMemoSize int = 128
)

// SendMsg moves funds from the source wallet to the destination.
type SendMsg struct {
	Source      deathnote.Address `json:"source"`
	Destination deathnote.Address `json:"destination"`
	Amount      coin.Amount       `json:"amount"`
	Memo        string            `json:"memo,omitempty"`
}

var _ deathnote.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return "cash/send"
}

// Validate makes sure that this is sensible
func (m *SendMsg) Validate() error {
	var err error
	if !m.Amount.IsPositive() {
		err = errors.Wrapf(errors.ErrInput, "non-positive amount: %s", m.Amount)
	}
	err = errors.Append(err, errors.Wrap(m.Source.Validate(), "source"))
	err = errors.Append(err, errors.Wrap(m.Destination.Validate(), "destination"))
	if len(m.Memo) > maxMemoSize {
		err = errors.Append(err, errors.Wrap(errors.ErrInput, "memo too long"))
	}
	return err
}
