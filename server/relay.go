package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/findy-network/findy-edge-agent/agent/utils"
	"github.com/findy-network/findy-edge-agent/protocol/invitation"
	"github.com/golang/glog"
	"github.com/gorilla/mux"
	"github.com/hyperledger/aries-framework-go/pkg/didcomm/protocol/messagepickup"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/tidwall/gjson"
)

var mailboxMessages = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "edge_mailbox_messages_total",
	Help: "Messages deposited to and picked up from the relay mailbox.",
}, []string{"op"})

var ErrNotEnvelope = errors.New("not an encrypted envelope")

// Mailbox keeps the envelopes of the consumers until they are picked up.
// It's a memory store; a restart drops the undelivered messages.
type Mailbox struct {
	lk    sync.Mutex
	boxes map[string][]*messagepickup.Message
}

func NewMailbox() *Mailbox {
	return &Mailbox{boxes: make(map[string][]*messagepickup.Message)}
}

// Registration returns the registration offer of a new consumer of the
// relay served at base.
func (mb *Mailbox) Registration(label, base string) *invitation.CloudAgentRegistration {
	base = strings.TrimSuffix(base, "/")
	return &invitation.CloudAgentRegistration{
		Type:       invitation.TypeCloudAgent,
		ID:         utils.UUID(),
		Label:      label,
		ConsumerID: utils.UUID(),
		Endpoint: invitation.CloudAgentEndpoint{
			URI:              base + "/pickup/",
			ResponseEndpoint: base + "/relay/",
		},
	}
}

// Deposit adds the envelope to the consumer's box.
func (mb *Mailbox) Deposit(consumer string, data []byte) {
	mb.lk.Lock()
	defer mb.lk.Unlock()

	mb.boxes[consumer] = append(mb.boxes[consumer], &messagepickup.Message{
		ID:        utils.UUID(),
		AddedTime: time.Now(),
		Message:   data,
	})
	mailboxMessages.WithLabelValues("deposit").Inc()
}

// Pickup removes and returns at most n oldest messages of the consumer.
// If n is not positive all of them are returned.
func (mb *Mailbox) Pickup(consumer string, n int) []*messagepickup.Message {
	mb.lk.Lock()
	defer mb.lk.Unlock()

	box := mb.boxes[consumer]
	if n <= 0 || n > len(box) {
		n = len(box)
	}
	msgs := box[:n:n]
	if rest := box[n:]; len(rest) > 0 {
		mb.boxes[consumer] = rest
	} else {
		delete(mb.boxes, consumer)
	}
	mailboxMessages.WithLabelValues("pickup").Add(float64(len(msgs)))
	return msgs
}

// Len returns the count of the consumer's messages.
func (mb *Mailbox) Len(consumer string) int {
	mb.lk.Lock()
	defer mb.lk.Unlock()
	return len(mb.boxes[consumer])
}

func (mb *Mailbox) deposit(w http.ResponseWriter, r *http.Request) {
	defer err2.Catch(err2.Err(func(err error) {
		glog.Warningln("relay deposit:", err)
		http.Error(w, "400 - Bad Request", http.StatusBadRequest)
	}))

	logRequestInfo("RELAY", r)
	consumer := mux.Vars(r)["consumer"]
	data := try.To1(io.ReadAll(io.LimitReader(r.Body, maxBodySize)))
	if !isEnvelope(data) {
		try.To(ErrNotEnvelope)
	}

	mb.Deposit(consumer, data)
	w.WriteHeader(http.StatusAccepted)
}

func (mb *Mailbox) pickup(w http.ResponseWriter, r *http.Request) {
	defer err2.Catch(err2.Err(func(err error) {
		glog.Warningln("relay pickup:", err)
		http.Error(w, "400 - Bad Request", http.StatusBadRequest)
	}))

	consumer := mux.Vars(r)["consumer"]
	var req messagepickup.BatchPickup
	try.To(json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&req))

	batch := messagepickup.Batch{
		Type:     messagepickup.BatchMsgType,
		ID:       utils.UUID(),
		Messages: mb.Pickup(consumer, req.BatchSize),
	}
	w.Header().Set("Content-Type", "application/json")
	try.To(json.NewEncoder(w).Encode(batch))
}

// isEnvelope checks the shape of the encrypted envelope. The relay can't
// open it, the keys are the consumer's.
func isEnvelope(data []byte) bool {
	if !gjson.ValidBytes(data) {
		return false
	}
	env := gjson.ParseBytes(data)
	return env.Get("protected").Exists() && env.Get("ciphertext").Exists()
}
