package api

import (
	"encoding/json"
	"net/http"

	"github.com/UZHBCON/deathnote/x/testament"
	"github.com/r3labs/sse/v2"
	"github.com/tendermint/tendermint/libs/log"
)

// StreamName is the name of the server sent events stream carrying
// testament state changes.
const StreamName = "testaments"

// Events streams every committed testament state change to connected
// clients. Each message is named after the change kind and carries the
// JSON encoded testament.StateChange.
type Events struct {
	server      *sse.Server
	logger      log.Logger
	marshal     func(interface{}) ([]byte, error)
	unsubscribe func()
}

var _ http.Handler = (*Events)(nil)

// NewEvents subscribes to the hub. Call Close to release it. Changes that
// cannot be encoded are dropped and logged.
func NewEvents(hub *testament.Hub, logger log.Logger) *Events {
	server := sse.New()
	server.CreateStream(StreamName)
	e := &Events{server: server, logger: logger, marshal: json.Marshal}
	e.unsubscribe = hub.Subscribe(testament.ObserverFunc(e.publish))
	return e
}

func (e *Events) publish(c *testament.StateChange) {
	data, err := e.marshal(c)
	if err != nil {
		e.logger.Error("cannot encode state change", "kind", c.Kind, "err", err)
		return
	}
	e.server.Publish(StreamName, &sse.Event{
		Event: []byte(c.Kind),
		Data:  data,
	})
}

// ServeHTTP attaches the client to the testament stream.
func (e *Events) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	q.Set("stream", StreamName)
	r.URL.RawQuery = q.Encode()
	e.server.ServeHTTP(w, r)
}

// Close disconnects all clients and stops listening to the hub.
func (e *Events) Close() {
	e.unsubscribe()
	e.server.Close()
}
