// Package cloudagent keeps the wallet's cloud agent (relay) registrations and
// polls the relays for the messages which other agents have sent to us.
package cloudagent

import (
	"context"
	"errors"

	"github.com/findy-network/findy-edge-agent/agent/bus"
	"github.com/findy-network/findy-edge-agent/agent/storage/api"
	"github.com/findy-network/findy-edge-agent/protocol"
	"github.com/findy-network/findy-edge-agent/protocol/invitation"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/samber/lo"
)

var ErrAlreadyRegistered = errors.New("cloud agent already registered")

// ErrNoRelays is returned by Pick when nothing is registered.
var ErrNoRelays = errors.New("no cloud agents registered")

type AlreadyRegisteredError struct {
	Label string
}

func (e *AlreadyRegisteredError) Error() string {
	return "cloud agent " + e.Label + " already registered"
}

func (e *AlreadyRegisteredError) Unwrap() error {
	return ErrAlreadyRegistered
}

func (e *AlreadyRegisteredError) UserMessage() string {
	return e.Label + " already registered!"
}

// RelayPicker selects the relay which is given to the other end as our
// response endpoint. The slice is never empty.
type RelayPicker func(relays []api.CloudAgentRecord) api.CloudAgentRecord

// RandomRelay picks uniformly at random.
func RandomRelay(relays []api.CloudAgentRecord) api.CloudAgentRecord {
	return lo.Sample(relays)
}

// FirstRegistered picks the oldest registration, which makes the endpoint
// deterministic.
func FirstRegistered(relays []api.CloudAgentRecord) api.CloudAgentRecord {
	return lo.MinBy(relays, func(a, b api.CloudAgentRecord) bool {
		return a.CreatedAt.Before(b.CreatedAt)
	})
}

type Registry struct {
	protocol.Deps
}

func NewRegistry(deps protocol.Deps) *Registry {
	return &Registry{Deps: deps}
}

// Register stores the cloud agent registration. The label is unique per
// wallet, a second registration with the same label returns
// AlreadyRegisteredError and leaves the registry as it was.
func (r *Registry) Register(ctx context.Context, reg *invitation.CloudAgentRegistration) (rec *api.CloudAgentRecord, err error) {
	defer protocol.Count("cloudagent", "register", &err)
	defer err2.Handle(&err, "register cloud agent")

	ac := try.To1(r.FW.GetContext(ctx))
	registered := try.To1(r.FW.ListCloudAgents(ctx, ac))
	if lo.ContainsBy(registered, func(ca api.CloudAgentRecord) bool {
		return ca.Label == reg.Label
	}) {
		return nil, &AlreadyRegisteredError{Label: reg.Label}
	}

	try.To(r.Authenticate(ctx, "Register cloud agent "+reg.Label+"?"))

	rec = try.To1(r.FW.RegisterCloudAgent(ctx, ac, reg))
	glog.V(1).Infof("cloud agent %s registered: %s", rec.Label, rec.ID)
	r.Publish(bus.CloudAgentsUpdated, rec.ID)
	return rec, nil
}

// Unregister removes the registration. Messages already fetched from the
// relay stay in the poller's queue.
func (r *Registry) Unregister(ctx context.Context, id string) (err error) {
	defer protocol.Count("cloudagent", "unregister", &err)
	defer err2.Handle(&err, "unregister cloud agent")

	ac := try.To1(r.FW.GetContext(ctx))
	try.To(r.FW.RemoveCloudAgent(ctx, ac, id))
	r.Publish(bus.CloudAgentsUpdated, id)
	return nil
}

func (r *Registry) List(ctx context.Context) (_ []api.CloudAgentRecord, err error) {
	defer err2.Handle(&err, "list cloud agents")

	ac := try.To1(r.FW.GetContext(ctx))
	return r.FW.ListCloudAgents(ctx, ac)
}

// Pick returns the relay chosen by the picker. RandomRelay is used if picker
// is nil.
func (r *Registry) Pick(ctx context.Context, picker RelayPicker) (_ *api.CloudAgentRecord, err error) {
	defer err2.Handle(&err, "pick cloud agent")

	relays := try.To1(r.List(ctx))
	if len(relays) == 0 {
		return nil, ErrNoRelays
	}
	if picker == nil {
		picker = RandomRelay
	}
	ca := picker(relays)
	return &ca, nil
}
