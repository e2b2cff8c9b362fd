// Package ws exposes the delivery hub over a websocket endpoint. Clients
// authenticate with an Authorization header during the HTTP upgrade, then
// exchange JSON frames on the socket.
package ws

import (
	"encoding/json"

	"github.com/dmitrijs2005/chatrelay/internal/server/models"
)

// Frame events. A client sends "send" frames and receives "ack" and
// "message" frames. Live-forwarded and replayed messages share the same
// event and shape.
const (
	EventSend    = "send"
	EventAck     = "ack"
	EventMessage = "message"
)

// envelope is the wire frame. Data stays raw until the event is known.
type envelope struct {
	Event string          `json:"event"`
	Seq   int64           `json:"seq,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// sendPayload is the client's send request. Anything else a client puts in
// the data object (a sender id in particular) is ignored: attribution is
// bound to the connection.
type sendPayload struct {
	RecipientID string `json:"recipientId"`
	Text        string `json:"text"`
}

// outbound is a server-to-client frame. An ack carries the seq of the send
// it answers and nothing else; a message frame carries the message.
type outbound struct {
	Event string          `json:"event"`
	Seq   int64           `json:"seq,omitempty"`
	Data  *models.Message `json:"data,omitempty"`
}
