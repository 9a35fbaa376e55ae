package deathnote

import (
	"github.com/UZHBCON/deathnote/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"
)

// EventTagKey is the tag under which the kind of every event emitted by a
// delivered transaction is indexed, so the history of a kind of change can
// be searched in tendermint.
const EventTagKey = "event"

// DeliverOrError builds the DeliverTx response of a handler call. A non nil
// error always wins over the result.
func DeliverOrError(result *DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err != nil {
		return DeliverTxError(err, debug)
	}
	if result == nil {
		return abci.ResponseDeliverTx{}
	}
	return result.ToABCI()
}

// CheckOrError builds the CheckTx response of a handler call. A non nil
// error always wins over the result.
func CheckOrError(result *CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err != nil {
		return CheckTxError(err, debug)
	}
	if result == nil {
		return abci.ResponseCheckTx{}
	}
	return result.ToABCI()
}

// ToABCI converts the result into a response. Each event adds an
// EventTagKey tag after the handler tags.
func (d DeliverResult) ToABCI() abci.ResponseDeliverTx {
	tags := d.Tags
	if len(d.Events) > 0 {
		tags = make([]common.KVPair, 0, len(d.Tags)+len(d.Events))
		tags = append(tags, d.Tags...)
		for _, e := range d.Events {
			tags = append(tags, common.KVPair{
				Key:   []byte(EventTagKey),
				Value: []byte(e.EventKind()),
			})
		}
	}
	return abci.ResponseDeliverTx{
		Data:    d.Data,
		Log:     d.Log,
		Tags:    tags,
		GasUsed: d.GasUsed,
	}
}

// ToABCI converts the result into a response.
func (c CheckResult) ToABCI() abci.ResponseCheckTx {
	return abci.ResponseCheckTx{
		Data:      c.Data,
		Log:       c.Log,
		GasWanted: c.GasAllocated,
	}
}

// ParseDeliverOrError reads a DeliverTx response back. A failed
// transaction is returned as an error of the registered kind matching the
// response code. Events cannot be restored, only their tags.
func ParseDeliverOrError(res abci.ResponseDeliverTx) (*DeliverResult, error) {
	if res.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	return &DeliverResult{
		Data:    res.Data,
		Log:     res.Log,
		Tags:    res.Tags,
		GasUsed: res.GasUsed,
	}, nil
}

// DeliverTxError converts an error into a failed DeliverTx response.
// Internal errors are redacted unless debug is set.
func DeliverTxError(err error, debug bool) abci.ResponseDeliverTx {
	code, log := txErrorInfo("deliver", err, debug)
	return abci.ResponseDeliverTx{Code: code, Log: log}
}

// CheckTxError converts an error into a failed CheckTx response.
// Internal errors are redacted unless debug is set.
func CheckTxError(err error, debug bool) abci.ResponseCheckTx {
	code, log := txErrorInfo("check", err, debug)
	return abci.ResponseCheckTx{Code: code, Log: log}
}

func txErrorInfo(phase string, err error, debug bool) (uint32, string) {
	code, log := errors.ABCIInfo(err, debug)
	if code == errors.SuccessABCICode {
		return code, log
	}
	return code, "cannot " + phase + " tx: " + log
}
