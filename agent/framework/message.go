package framework

import (
	"encoding/json"
	"fmt"

	"github.com/hyperledger/aries-framework-go/pkg/didcomm/protocol/decorator"
)

// Message is a plaintext DIDComm message. The header fields are lifted from
// the JSON body for routing. Sender and Recipient are the verkeys of the
// envelope the message came in, if any.
type Message struct {
	ID       string
	Type     string
	ThreadID string
	Body     []byte

	// ReturnRoute tells that the sender waits for the reply in the
	// transport response.
	ReturnRoute bool

	Sender    string
	Recipient string
}

type header struct {
	ID     string            `json:"@id"`
	Type   string            `json:"@type"`
	Thread *decorator.Thread `json:"~thread,omitempty"`
	decorator.Transport
}

// NewMessage marshals v to a message. v must have @id and @type fields.
func NewMessage(v any) (*Message, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return ParseMessage(data)
}

// ParseMessage parses the header of the JSON message.
func ParseMessage(data []byte) (*Message, error) {
	var h header
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("parse message: %w", err)
	}
	if h.Type == "" {
		return nil, fmt.Errorf("parse message: @type missing")
	}
	m := &Message{ID: h.ID, Type: h.Type, ThreadID: h.ID, Body: data}
	if h.Thread != nil && h.Thread.ID != "" {
		m.ThreadID = h.Thread.ID
	}
	if rr := h.ReturnRoute; rr != nil {
		m.ReturnRoute = rr.Value == decorator.TransportReturnRouteAll ||
			rr.Value == decorator.TransportReturnRouteThread
	}
	return m, nil
}

// WithReturnRoute returns a copy of the message carrying the ~transport
// decorator that asks the receiver to answer in the transport response.
func (m *Message) WithReturnRoute() (*Message, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(m.Body, &fields); err != nil {
		return nil, fmt.Errorf("return route: %w", err)
	}
	rr, err := json.Marshal(&decorator.ReturnRoute{Value: decorator.TransportReturnRouteAll})
	if err != nil {
		return nil, err
	}
	fields["~transport"] = rr
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	return ParseMessage(data)
}

// Decode unmarshals the message body to v.
func (m *Message) Decode(v any) error {
	return json.Unmarshal(m.Body, v)
}

func (m *Message) String() string {
	return m.Type + "|" + m.ID
}
