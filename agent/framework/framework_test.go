package framework

import (
	"errors"
	"fmt"
	"testing"

	"github.com/findy-network/findy-edge-agent/agent/auth"
	"github.com/findy-network/findy-edge-agent/agent/comm"
	"github.com/findy-network/findy-edge-agent/agent/storage/api"
	"github.com/findy-network/findy-edge-agent/protocol/invitation"
	"github.com/lainio/err2/assert"
)

type ping struct {
	ID     string            `json:"@id"`
	Type   string            `json:"@type"`
	Thread map[string]string `json:"~thread,omitempty"`
	Ask    bool              `json:"response_requested"`
}

func TestNewMessage(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	msg, err := NewMessage(ping{ID: "1", Type: "https://didcomm.org/trust_ping/1.0/ping", Ask: true})
	assert.NoError(err)
	assert.Equal(msg.ID, "1")
	assert.Equal(msg.ThreadID, "1")
	assert.Equal(msg.Type, "https://didcomm.org/trust_ping/1.0/ping")

	var p ping
	assert.NoError(msg.Decode(&p))
	assert.That(p.Ask)

	msg, err = NewMessage(ping{ID: "2", Type: "t", Thread: map[string]string{"thid": "1"}})
	assert.NoError(err)
	assert.Equal(msg.ThreadID, "1")

	_, err = ParseMessage([]byte(`{"@id":"3"}`))
	assert.Error(err)
	_, err = ParseMessage([]byte(`not json`))
	assert.Error(err)
}

func TestReturnRoute(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	msg, err := NewMessage(ping{ID: "1", Type: "ping", Thread: map[string]string{"thid": "0"}})
	assert.NoError(err)
	assert.ThatNot(msg.ReturnRoute)

	rr, err := msg.WithReturnRoute()
	assert.NoError(err)
	assert.That(rr.ReturnRoute)
	assert.Equal(rr.ID, "1")
	assert.Equal(rr.ThreadID, "0")
	assert.ThatNot(msg.ReturnRoute)

	var p ping
	assert.NoError(rr.Decode(&p))
	assert.Equal(p.Type, "ping")

	none, err := ParseMessage([]byte(`{"@id":"2","@type":"ping","~transport":{"~return_route":"none"}}`))
	assert.NoError(err)
	assert.ThatNot(none.ReturnRoute)
}

func TestUserMessage(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"invalid invitation", fmt.Errorf("decode: %w", invitation.ErrInvalidFormat), MsgInvalidInvitation},
		{"wrong state", &api.WrongStateError{Record: "Proof", Want: api.ProofRequested, Got: api.ProofAccepted},
			"Proof state should be Requested"},
		{"user error", fmt.Errorf("wrap: %w", NewUserError("x", "Some proof attributes are missing")),
			"Some proof attributes are missing"},
		{"wrong passcode", fmt.Errorf("accept: %w", auth.ErrAuthenticationFailed), "Wrong Passcode."},
		{"cancelled", fmt.Errorf("accept: %w", auth.ErrCancelled), "Unathorised. Canceling Activity."},
		{"transport", fmt.Errorf("post: %w", comm.ErrTransport), MsgTransport},
		{"other", errors.New("boom"), MsgFailedInvite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.PushTester(t)
			defer assert.PopTester()
			assert.Equal(UserMessage(tt.err), tt.want)
		})
	}
}

func TestUserError(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	ue := NewUserError("incomplete", "missing")
	err := fmt.Errorf("submit: %w", ue)
	assert.That(errors.Is(err, ue))
	assert.Equal(err.Error(), "submit: incomplete")
}
