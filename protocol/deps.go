package protocol

import (
	"context"
	"fmt"
	"time"

	"github.com/findy-network/findy-edge-agent/agent/auth"
	"github.com/findy-network/findy-edge-agent/agent/bus"
	"github.com/findy-network/findy-edge-agent/agent/comm"
	"github.com/findy-network/findy-edge-agent/agent/framework"
	"github.com/golang/glog"
)

// Deps are the collaborators of a wallet session which every negotiator
// needs. They are injected, no negotiator uses package level state.
type Deps struct {
	FW   framework.Framework
	Gate auth.Gate
	Bus  *bus.Station
	HTTP *comm.Client
}

// Authenticate passes the gate. Without a gate nothing passes, use
// auth.AlwaysAllow to skip the authentication.
func (d Deps) Authenticate(ctx context.Context, prompt string) error {
	if d.Gate == nil {
		glog.Warningln("no authentication gate, cancelled:", prompt)
		return fmt.Errorf("%w: no gate", auth.ErrCancelled)
	}
	return d.Gate.Authenticate(ctx, prompt)
}

// Publish announces the change of the record if the bus is set.
func (d Deps) Publish(k bus.Kind, recordID string) {
	if d.Bus == nil {
		glog.V(5).Infoln("no bus for notification:", k, recordID)
		return
	}
	d.Bus.Publish(bus.Notification{
		Kind:      k,
		RecordID:  recordID,
		Timestamp: time.Now().UnixMilli(),
	})
}

func (d Deps) Client() *comm.Client {
	if d.HTTP == nil {
		return comm.DefaultClient
	}
	return d.HTTP
}
