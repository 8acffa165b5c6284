package protocol

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/findy-network/findy-edge-agent/agent/auth"
	"github.com/findy-network/findy-edge-agent/agent/bus"
	"github.com/findy-network/findy-edge-agent/agent/comm"
	"github.com/lainio/err2/assert"
)

type denyGate struct{}

func (denyGate) Authenticate(context.Context, string) error {
	return auth.ErrAuthenticationFailed
}

func TestDeps_Authenticate(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	tests := []struct {
		name string
		gate auth.Gate
		want error
	}{
		{"always allow", auth.AlwaysAllow{}, nil},
		{"denied", denyGate{}, auth.ErrAuthenticationFailed},
		{"no gate", nil, auth.ErrCancelled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.PushTester(t)
			defer assert.PopTester()

			err := Deps{Gate: tt.gate}.Authenticate(context.Background(), "Send proof?")
			if tt.want == nil {
				assert.NoError(err)
				return
			}
			assert.That(errors.Is(err, tt.want))
		})
	}
}

func TestDeps_PublishAndClient(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	Deps{}.Publish(bus.ConnectionsUpdated, "1") // no bus, no panic
	assert.That(Deps{}.Client() == comm.DefaultClient)

	station := bus.New()
	ch, unsubscribe := station.Subscribe(bus.ConnectionsUpdated)
	defer unsubscribe()
	Deps{Bus: station}.Publish(bus.ConnectionsUpdated, "1")
	select {
	case n := <-ch:
		assert.Equal(n.RecordID, "1")
		assert.That(n.Timestamp > 0)
	case <-time.After(time.Second):
		t.Fatal("no notification")
	}
}
