package deathnotetest

import "github.com/UZHBCON/deathnote"

// Handler is a mock implementation of the deathnote.Handler interface.
// It returns the configured result and counts every call.
type Handler struct {
	checkCall   int
	CheckResult deathnote.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult deathnote.DeliverResult
	DeliverErr    error
}

var _ deathnote.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx deathnote.Context, db deathnote.KVStore, tx deathnote.Tx) (*deathnote.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx deathnote.Context, db deathnote.KVStore, tx deathnote.Tx) (*deathnote.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}

// WriteHandler writes a key/value pair to the store and returns Err. It is
// used to verify that failed transactions leave no trace.
type WriteHandler struct {
	Key   []byte
	Value []byte
	Err   error
}

var _ deathnote.Handler = WriteHandler{}

func (h WriteHandler) Check(ctx deathnote.Context, db deathnote.KVStore, tx deathnote.Tx) (*deathnote.CheckResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	if h.Err != nil {
		return nil, h.Err
	}
	return &deathnote.CheckResult{}, nil
}

func (h WriteHandler) Deliver(ctx deathnote.Context, db deathnote.KVStore, tx deathnote.Tx) (*deathnote.DeliverResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	if h.Err != nil {
		return nil, h.Err
	}
	return &deathnote.DeliverResult{}, nil
}

// PanicHandler always panics with given value.
type PanicHandler struct {
	Value interface{}
}

var _ deathnote.Handler = PanicHandler{}

func (h PanicHandler) Check(deathnote.Context, deathnote.KVStore, deathnote.Tx) (*deathnote.CheckResult, error) {
	panic(h.Value)
}

func (h PanicHandler) Deliver(deathnote.Context, deathnote.KVStore, deathnote.Tx) (*deathnote.DeliverResult, error) {
	panic(h.Value)
}
