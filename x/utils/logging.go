package utils

import (
	"time"

	"github.com/UZHBCON/deathnote"
)

// Logging writes one entry per transaction with its path, duration and
// outcome. Failures are logged as errors. Successful CheckTx calls log at
// debug level and successful DeliverTx calls at info level.
type Logging struct{}

var _ deathnote.Decorator = Logging{}

func NewLogging() Logging {
	return Logging{}
}

func (Logging) Check(ctx deathnote.Context, db deathnote.KVStore, tx deathnote.Tx, next deathnote.Checker) (*deathnote.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	var msg string
	if err == nil {
		msg = res.Log
	}
	logTx(ctx, tx, start, msg, err, true)
	return res, err
}

func (Logging) Deliver(ctx deathnote.Context, db deathnote.KVStore, tx deathnote.Tx, next deathnote.Deliverer) (*deathnote.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	var msg string
	if err == nil {
		msg = res.Log
	}
	logTx(ctx, tx, start, msg, err, false)
	return res, err
}

// logTx always emits an entry, even with an empty message.
func logTx(ctx deathnote.Context, tx deathnote.Tx, start time.Time, msg string, err error, check bool) {
	logger := deathnote.GetLogger(ctx).With(
		"duration", time.Since(start)/time.Microsecond,
		"path", deathnote.GetPath(tx),
	)
	switch {
	case err != nil:
		logger.Error(msg, "err", err)
	case check:
		logger.Debug(msg)
	default:
		logger.Info(msg)
	}
}
