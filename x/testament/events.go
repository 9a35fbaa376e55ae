package testament

import (
	"sync"

	"github.com/UZHBCON/deathnote"
	"github.com/UZHBCON/deathnote/coin"
)

// Kinds of state changes.
const (
	KindCreated               = "testament/created"
	KindValidatorConfirmed    = "testament/validator_confirmed"
	KindDeathConfirmed        = "testament/death_confirmed"
	KindClaimed               = "testament/claimed"
	KindRevoked               = "testament/revoked"
	KindDeposited             = "testament/deposited"
	KindWithdrawn             = "testament/withdrawn"
	KindValidatorsReplaced    = "testament/validators_replaced"
	KindBeneficiariesReplaced = "testament/beneficiaries_replaced"
)

// StateChange describes a successful change of a testament. It carries
// enough of the state for an observer to refresh its view.
type StateChange struct {
	Kind          string             `json:"kind"`
	TestamentID   []byte             `json:"testament_id"`
	State         State              `json:"state"`
	Balance       coin.Amount        `json:"balance"`
	Confirmations int                `json:"confirmations"`
	Threshold     uint32             `json:"threshold"`
	Deadline      deathnote.UnixTime `json:"deadline"`
	Actor         deathnote.Address  `json:"actor,omitempty"`
	Amount        coin.Amount        `json:"amount"`
}

var _ deathnote.Event = (*StateChange)(nil)

// EventKind implements deathnote.Event.
func (c *StateChange) EventKind() string {
	return c.Kind
}

func newStateChange(kind string, id []byte, t *Testament, actor deathnote.Address, amount coin.Amount) *StateChange {
	return &StateChange{
		Kind:          kind,
		TestamentID:   id,
		State:         t.CurrentState(),
		Balance:       t.Balance.Clone(),
		Confirmations: t.Confirmations(),
		Threshold:     t.Threshold,
		Deadline:      t.Deadline(),
		Actor:         actor,
		Amount:        amount,
	}
}

// Observer is notified about every committed state change.
type Observer interface {
	OnStateChange(*StateChange)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(*StateChange)

func (fn ObserverFunc) OnStateChange(c *StateChange) {
	fn(c)
}

// Hub fans out state changes to subscribed observers. It is a
// deathnote.EventSink, so the application publishes into it after a
// transaction was delivered successfully.
type Hub struct {
	mu        sync.RWMutex
	next      int
	observers map[int]Observer
}

var _ deathnote.EventSink = (*Hub)(nil)

// NewHub returns a hub without observers.
func NewHub() *Hub {
	return &Hub{observers: make(map[int]Observer)}
}

// Subscribe registers an observer. Call the returned function to
// unsubscribe.
func (h *Hub) Subscribe(o Observer) (unsubscribe func()) {
	h.mu.Lock()
	id := h.next
	h.next++
	h.observers[id] = o
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.observers, id)
		h.mu.Unlock()
	}
}

// Publish implements deathnote.EventSink. Events of other extensions are
// ignored.
func (h *Hub) Publish(e deathnote.Event) {
	c, ok := e.(*StateChange)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, o := range h.observers {
		o.OnStateChange(c)
	}
}
