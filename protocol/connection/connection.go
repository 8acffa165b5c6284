// Package connection accepts connection invitations, reactivates existing
// connections with SSO triggers, and creates our own invitations.
package connection

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/findy-network/findy-edge-agent/agent/bus"
	"github.com/findy-network/findy-edge-agent/agent/framework"
	"github.com/findy-network/findy-edge-agent/agent/storage/api"
	"github.com/findy-network/findy-edge-agent/protocol"
	"github.com/findy-network/findy-edge-agent/protocol/cloudagent"
	"github.com/findy-network/findy-edge-agent/protocol/invitation"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/samber/lo"
)

// ErrNoEndpoint is returned when an operation needs our endpoint but there
// is no relay or provisioned endpoint.
var ErrNoEndpoint = errors.New("no endpoint available")

// Negotiator runs the connection workflows of a wallet session. It isn't
// safe for concurrent use.
type Negotiator struct {
	protocol.Deps

	// Picker selects the relay for the response endpoint, RandomRelay if
	// nil.
	Picker cloudagent.RelayPicker
}

func New(deps protocol.Deps) *Negotiator {
	return &Negotiator{Deps: deps}
}

type Result struct {
	Connection *api.ConnectionRecord

	// Triggered is true when an existing connection was reactivated with
	// the SSO trigger instead of creating a new one.
	Triggered bool
}

// Accept accepts the connection invitation. With an SSO invitation from an
// inviter we are already connected to, the existing connection is triggered
// and no new connection is made. Nothing is changed if the authentication
// fails.
func (n *Negotiator) Accept(ctx context.Context, inv *invitation.ConnectionInvitation) (r *Result, err error) {
	defer protocol.Count("connection", "accept", &err)
	defer err2.Handle(&err, "accept invitation")

	if len(inv.RecipientKeys) == 0 {
		return nil, fmt.Errorf("%w: no recipient keys", invitation.ErrInvalidFormat)
	}
	try.To(n.Authenticate(ctx, "Accept invitation from "+inv.Label+"?"))

	ac := try.To1(n.FW.GetContext(ctx))

	if inv.SSO {
		conns := try.To1(n.FW.ListConnections(ctx, ac))
		// labels aren't unique, first one wins
		if conn, found := lo.Find(conns, func(c api.ConnectionRecord) bool {
			return c.Alias.Name == inv.Label
		}); found {
			glog.V(1).Infof("SSO: connection %s exists for %s", conn.ID, inv.Label)
			n.trigger(ctx, &conn, inv.InvitationKey())
			n.Publish(bus.ConnectionsUpdated, conn.ID)
			return &Result{Connection: &conn, Triggered: true}, nil
		}
	}

	endpoint := n.responseEndpoint(ctx, ac)
	returnRoute := endpoint == ""
	glog.V(3).Infof("response endpoint: '%s', return route: %v", endpoint, returnRoute)

	msg, conn := try.To2(n.FW.CreateConnectionRequest(ctx, ac, inv, endpoint))
	to := framework.Recipient{
		Key:         inv.RecipientKeys[0],
		Endpoint:    inv.ServiceEndpoint,
		RoutingKeys: inv.RoutingKeys,
	}
	resp := try.To1(n.FW.SendMessage(ctx, ac, msg, to, returnRoute))
	if returnRoute && resp != nil {
		conn = try.To1(n.FW.ProcessConnectionResponse(ctx, ac, resp))
	}

	n.Publish(bus.ConnectionsUpdated, conn.ID)
	return &Result{Connection: conn}, nil
}

// Login triggers the SSO login to the service of the existing connection.
// The trigger is best effort.
func (n *Negotiator) Login(ctx context.Context, id string) (err error) {
	defer protocol.Count("connection", "login", &err)
	defer err2.Handle(&err, "login")

	ac := try.To1(n.FW.GetContext(ctx))
	conn := try.To1(n.FW.GetConnection(ctx, ac, id))
	try.To(n.Authenticate(ctx, "Login to "+conn.Alias.Name+"?"))

	n.trigger(ctx, conn, conn.InvitationKey)
	n.Publish(bus.ConnectionsUpdated, conn.ID)
	return nil
}

// TriggerURL is the inviter's SSO trigger address for the connection.
func TriggerURL(conn *api.ConnectionRecord, invitationKey string) string {
	return strings.ReplaceAll(conn.Endpoint.URI, "response", "trigger/") +
		conn.MyDID + "/" + invitationKey
}

func (n *Negotiator) trigger(ctx context.Context, conn *api.ConnectionRecord, invitationKey string) {
	url := TriggerURL(conn, invitationKey)
	glog.V(1).Infoln("SSO trigger:", url)
	if _, err := n.Client().Get(ctx, url); err != nil {
		glog.Warningln("SSO trigger failed:", err)
	}
}

// responseEndpoint is a relay's response address if any relay is registered,
// the provisioned endpoint otherwise, and empty if neither exists.
func (n *Negotiator) responseEndpoint(ctx context.Context, ac *framework.AgentContext) string {
	relays, err := n.FW.ListCloudAgents(ctx, ac)
	if err != nil {
		glog.Warningln("list cloud agents:", err)
	}
	if len(relays) > 0 {
		picker := n.Picker
		if picker == nil {
			picker = cloudagent.RandomRelay
		}
		relay := picker(relays)
		return relay.ResponseAddress()
	}
	prov, err := n.FW.Provisioning(ctx, ac)
	if err != nil {
		if !errors.Is(err, api.ErrNotFound) {
			glog.Warningln("provisioning:", err)
		}
		return ""
	}
	return prov.Endpoint.URI
}

// Delete deletes the connection.
func (n *Negotiator) Delete(ctx context.Context, id string) (err error) {
	defer protocol.Count("connection", "delete", &err)
	defer err2.Handle(&err, "delete connection %s", id)

	ac := try.To1(n.FW.GetContext(ctx))
	conn := try.To1(n.FW.GetConnection(ctx, ac, id))
	try.To(n.Authenticate(ctx, "Delete connection "+conn.Alias.Name+"?"))

	try.To(n.FW.DeleteConnection(ctx, ac, id))
	n.Publish(bus.ConnectionsUpdated, id)
	return nil
}

// CreateInvitation creates a new connection invitation and returns it as a
// c_i URL on our endpoint.
func (n *Negotiator) CreateInvitation(ctx context.Context, label, imageURL string) (_ string, err error) {
	defer protocol.Count("connection", "invite", &err)
	defer err2.Handle(&err, "create invitation")

	ac := try.To1(n.FW.GetContext(ctx))
	endpoint := n.responseEndpoint(ctx, ac)
	if endpoint == "" {
		return "", ErrNoEndpoint
	}
	inv := try.To1(n.FW.CreateInvitation(ctx, ac, label, imageURL, endpoint))
	return invitation.Encode(endpoint, invitation.NewConnection(inv))
}

// TrustPing sends the trust ping over the connection.
func (n *Negotiator) TrustPing(ctx context.Context, id string) (err error) {
	defer protocol.Count("connection", "ping", &err)
	defer err2.Handle(&err, "trust ping")

	ac := try.To1(n.FW.GetContext(ctx))
	conn := try.To1(n.FW.GetConnection(ctx, ac, id))
	if conn.State != api.ConnectionComplete && conn.State != api.ConnectionResponded {
		return &api.WrongStateError{Record: "Connection", Want: api.ConnectionComplete, Got: conn.State}
	}
	msg := try.To1(n.FW.CreateTrustPing(ctx, ac, id))
	to := framework.Recipient{
		Key:         conn.TheirVerkey,
		Endpoint:    conn.Endpoint.URI,
		RoutingKeys: conn.Endpoint.RoutingKeys,
	}
	resp := try.To1(n.FW.SendMessage(ctx, ac, msg, to, false))
	if resp != nil {
		glog.V(3).Infoln("trust ping response:", resp)
	}
	return nil
}

func (n *Negotiator) List(ctx context.Context) (_ []api.ConnectionRecord, err error) {
	defer err2.Handle(&err, "list connections")

	ac := try.To1(n.FW.GetContext(ctx))
	return n.FW.ListConnections(ctx, ac)
}

func (r *Result) String() string {
	if r.Triggered {
		return fmt.Sprintf("%s (SSO triggered)", r.Connection.ID)
	}
	return r.Connection.ID
}
