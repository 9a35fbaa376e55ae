package api

import (
	"net/http"
	"strconv"

	"github.com/UZHBCON/deathnote"
	"github.com/UZHBCON/deathnote/coin"
	"github.com/UZHBCON/deathnote/errors"
	"github.com/UZHBCON/deathnote/orm"
	"github.com/UZHBCON/deathnote/x/cash"
	"github.com/UZHBCON/deathnote/x/testament"
	"github.com/go-chi/chi/v5"
	"github.com/tendermint/tendermint/libs/log"
)

// Handler serves the testament and account endpoints.
type Handler struct {
	db      deathnote.ReadOnlyKVStore
	ctrl    testament.Controller
	bucket  testament.Bucket
	wallets cash.Balancer
	logger  log.Logger
}

// NewHandler returns a handler reading from db.
func NewHandler(db deathnote.ReadOnlyKVStore, logger log.Logger) *Handler {
	bucket := testament.NewBucket()
	return &Handler{
		db: db,
		// reads never move funds
		ctrl:    testament.NewController(bucket, nil),
		bucket:  bucket,
		wallets: cash.NewController(cash.NewBucket()),
		logger:  logger,
	}
}

// Register mounts the endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/testaments/{id}", h.HandleTestament)
	r.Get("/testaments/{id}/validators", h.HandleValidators)
	r.Get("/testaments/{id}/beneficiaries", h.HandleBeneficiaries)
	r.Get("/accounts/{address}", h.HandleAccount)
}

// TestamentIDFromURL parses the decimal sequence number of a testament.
func TestamentIDFromURL(r *http.Request) ([]byte, error) {
	raw := chi.URLParam(r, "id")
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return nil, errors.Wrapf(errors.ErrInput, "testament id %q", raw)
	}
	return orm.EncodeSequence(n), nil
}

// HandleTestament handles GET /testaments/{id}.
func (h *Handler) HandleTestament(w http.ResponseWriter, r *http.Request) {
	id, err := TestamentIDFromURL(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	view, err := h.ctrl.GetState(h.db, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// ValidatorsResponse lists validators in registration order.
type ValidatorsResponse struct {
	Addresses []deathnote.Address `json:"addresses"`
	Confirmed []bool              `json:"confirmed"`
}

// HandleValidators handles GET /testaments/{id}/validators.
func (h *Handler) HandleValidators(w http.ResponseWriter, r *http.Request) {
	id, err := TestamentIDFromURL(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	addrs, confirmed, err := h.ctrl.GetAllValidators(h.db, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ValidatorsResponse{Addresses: addrs, Confirmed: confirmed})
}

// BeneficiariesResponse lists beneficiaries in registration order.
type BeneficiariesResponse struct {
	Addresses []deathnote.Address `json:"addresses"`
	Shares    []uint32            `json:"shares"`
}

// HandleBeneficiaries handles GET /testaments/{id}/beneficiaries.
func (h *Handler) HandleBeneficiaries(w http.ResponseWriter, r *http.Request) {
	id, err := TestamentIDFromURL(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	addrs, shares, err := h.ctrl.GetAllBeneficiaries(h.db, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, BeneficiariesResponse{Addresses: addrs, Shares: shares})
}

// AccountResponse describes an address: its balance and the IDs of the
// testaments it plays a role in.
type AccountResponse struct {
	Address     deathnote.Address `json:"address"`
	Balance     coin.Amount       `json:"balance"`
	Creator     []int64           `json:"creator"`
	Validator   []int64           `json:"validator"`
	Beneficiary []int64           `json:"beneficiary"`
}

// HandleAccount handles GET /accounts/{address}.
func (h *Handler) HandleAccount(w http.ResponseWriter, r *http.Request) {
	addr, err := deathnote.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	balance, err := h.wallets.Balance(h.db, addr)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	res := AccountResponse{Address: addr, Balance: balance}
	for _, role := range []struct {
		index string
		dest  *[]int64
	}{
		{"creator", &res.Creator},
		{"validator", &res.Validator},
		{"beneficiary", &res.Beneficiary},
	} {
		ids, err := h.testamentsByIndex(role.index, addr)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		*role.dest = ids
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) testamentsByIndex(index string, addr deathnote.Address) ([]int64, error) {
	var found []*testament.Testament
	keys, err := h.bucket.ByIndex(h.db, index, addr, &found)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(keys))
	for _, k := range keys {
		n, err := orm.DecodeSequence(k)
		if err != nil {
			return nil, err
		}
		ids = append(ids, n)
	}
	return ids, nil
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusCode(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	code, msg := errors.ABCIInfo(err, false)
	writeJSON(w, status, ErrorResponse{Code: code, Message: msg})
}
