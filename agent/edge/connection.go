package edge

import (
	"context"
	"time"

	"github.com/findy-network/findy-edge-agent/agent/framework"
	"github.com/findy-network/findy-edge-agent/agent/storage/api"
	"github.com/findy-network/findy-edge-agent/agent/utils"
	"github.com/findy-network/findy-edge-agent/protocol/invitation"
	"github.com/golang/glog"
	"github.com/hyperledger/aries-framework-go/pkg/didcomm/protocol/decorator"
	"github.com/hyperledger/aries-framework-go/pkg/didcomm/protocol/legacyconnection"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

func (a *Agent) ListConnections(_ context.Context, _ *framework.AgentContext) ([]api.ConnectionRecord, error) {
	return a.store.ConnectionStorage().ListConnections()
}

func (a *Agent) GetConnection(_ context.Context, _ *framework.AgentContext, id string) (*api.ConnectionRecord, error) {
	return a.store.ConnectionStorage().GetConnection(id)
}

func (a *Agent) DeleteConnection(_ context.Context, _ *framework.AgentContext, id string) error {
	return a.store.ConnectionStorage().DeleteConnection(id)
}

func (a *Agent) CreateConnectionRequest(
	ctx context.Context,
	ac *framework.AgentContext,
	inv *invitation.ConnectionInvitation,
	responseEndpoint string,
) (
	msg *framework.Message,
	rec *api.ConnectionRecord,
	err error,
) {
	defer err2.Handle(&err, "create connection request")

	label := ""
	if prov, err := a.Provisioning(ctx, ac); err == nil {
		label = prov.Label
	}
	me := try.To1(a.newDID(responseEndpoint))
	doc := try.To1(a.didDoc(me))

	req := legacyconnection.Request{
		Type:   TypeConnectionRequest,
		ID:     utils.UUID(),
		Label:  label,
		Thread: &decorator.Thread{PID: inv.ID},
		Connection: &legacyconnection.Connection{
			DID:    doc.ID,
			DIDDoc: doc,
		},
	}
	rec = &api.ConnectionRecord{
		ID:       req.ID,
		MyDID:    me.DID,
		MyVerkey: me.Verkey,
		Alias:    api.Alias{Name: inv.Label, ImageURL: inv.ImageURL},
		Endpoint: api.Endpoint{
			URI:              inv.ServiceEndpoint,
			ResponseEndpoint: responseEndpoint,
			Verkey:           inv.RecipientKeys[0],
			RoutingKeys:      inv.RoutingKeys,
		},
		SSO:           inv.SSO,
		InvitationKey: inv.InvitationKey(),
		State:         api.ConnectionRequested,
		CreatedAt:     time.Now(),
	}
	try.To(a.store.ConnectionStorage().AddConnection(*rec))

	return try.To1(framework.NewMessage(req)), rec, nil
}

func (a *Agent) ProcessConnectionResponse(
	_ context.Context,
	_ *framework.AgentContext,
	msg *framework.Message,
) (
	rec *api.ConnectionRecord,
	err error,
) {
	defer err2.Handle(&err, "process connection response %s", msg.ThreadID)

	var resp legacyconnection.Response
	try.To(msg.Decode(&resp))

	rec = try.To1(a.store.ConnectionStorage().GetConnection(msg.ThreadID))
	if rec.State != api.ConnectionRequested {
		return nil, &api.WrongStateError{
			Record: "Connection",
			Want:   api.ConnectionRequested,
			Got:    rec.State,
		}
	}

	conn := try.To1(a.verifyConnection(resp.ConnectionSignature, rec.Endpoint.Verkey))
	them := try.To1(parseTheirDID(conn))
	try.To(a.saveTheirDoc(conn))

	rec.TheirDID = them.DID
	rec.TheirVerkey = them.Verkey
	if them.Endpoint != "" {
		rec.Endpoint.URI = them.Endpoint
	}
	rec.Endpoint.RoutingKeys = them.RoutingKeys
	rec.State = api.ConnectionComplete
	try.To(a.store.ConnectionStorage().AddConnection(*rec))

	glog.V(1).Infof("connection %s complete with %s", rec.ID, rec.Alias.Name)
	return rec, nil
}

// CreateInvitation creates the invitation key and a connection record in
// Invited state. The record is the template of the connections made with
// the invitation.
func (a *Agent) CreateInvitation(
	_ context.Context,
	_ *framework.AgentContext,
	label string,
	imageURL string,
	endpoint string,
) (
	inv *invitation.ConnectionInvitation,
	err error,
) {
	defer err2.Handle(&err, "create invitation")

	key := try.To1(a.newDID(endpoint))
	rec := api.ConnectionRecord{
		ID:       utils.UUID(),
		MyDID:    key.DID,
		MyVerkey: key.Verkey,
		Endpoint: api.Endpoint{
			ResponseEndpoint: endpoint,
		},
		InvitationKey: key.Verkey,
		State:         api.ConnectionInvited,
		CreatedAt:     time.Now(),
	}
	try.To(a.store.ConnectionStorage().AddConnection(rec))

	return &invitation.ConnectionInvitation{
		Invitation: legacyconnection.Invitation{
			Type:            invitation.TypeConnection,
			ID:              rec.ID,
			Label:           label,
			RecipientKeys:   []string{key.Verkey},
			ServiceEndpoint: endpoint,
		},
		ImageURL: imageURL,
	}, nil
}

// handleConnectionRequest answers the request made with one of our
// invitations. The pairwise connection is complete when the response is
// out.
func (a *Agent) handleConnectionRequest(_ context.Context, msg *framework.Message) (out *outbound, err error) {
	defer err2.Handle(&err, "connection request %s", msg.ID)

	var req legacyconnection.Request
	try.To(msg.Decode(&req))

	inv := try.To1(a.invitationFor(msg, &req))
	invKey := try.To1(a.store.DIDStorage().GetDID(inv.InvitationKey))
	them := try.To1(parseTheirDID(req.Connection))
	try.To(a.saveTheirDoc(req.Connection))

	me := try.To1(a.newDID(inv.Endpoint.ResponseEndpoint))
	doc := try.To1(a.didDoc(me))
	sig := try.To1(a.signConnection(invKey, &legacyconnection.Connection{
		DID:    doc.ID,
		DIDDoc: doc,
	}))

	rec := api.ConnectionRecord{
		ID:          req.ID,
		MyDID:       me.DID,
		MyVerkey:    me.Verkey,
		TheirDID:    them.DID,
		TheirVerkey: them.Verkey,
		Alias:       api.Alias{Name: req.Label},
		Endpoint: api.Endpoint{
			URI:              them.Endpoint,
			ResponseEndpoint: inv.Endpoint.ResponseEndpoint,
			Verkey:           them.Verkey,
			RoutingKeys:      them.RoutingKeys,
		},
		InvitationKey: inv.InvitationKey,
		State:         api.ConnectionComplete,
		CreatedAt:     time.Now(),
	}
	try.To(a.store.ConnectionStorage().AddConnection(rec))

	resp := try.To1(framework.NewMessage(legacyconnection.Response{
		Type:                TypeConnectionResponse,
		ID:                  utils.UUID(),
		ConnectionSignature: sig,
		Thread:              &decorator.Thread{ID: req.ID},
	}))
	glog.V(1).Infof("connection %s from %s complete", rec.ID, req.Label)

	return &outbound{
		msg:    resp,
		sender: invKey.Verkey,
		to: framework.Recipient{
			Key:         them.Verkey,
			Endpoint:    them.Endpoint,
			RoutingKeys: them.RoutingKeys,
		},
	}, nil
}

// invitationFor finds the invitation the request answers. The envelope is
// addressed to the invitation key, the parent thread is the invitation.
func (a *Agent) invitationFor(msg *framework.Message, req *legacyconnection.Request) (_ *api.ConnectionRecord, err error) {
	defer err2.Handle(&err, "invitation for %s", msg.Recipient)

	conns := try.To1(a.store.ConnectionStorage().ListConnections())
	for i := range conns {
		c := &conns[i]
		if c.State != api.ConnectionInvited {
			continue
		}
		if msg.Recipient != "" && c.InvitationKey == msg.Recipient {
			return c, nil
		}
		if req.Thread != nil && req.Thread.PID != "" && c.ID == req.Thread.PID {
			return c, nil
		}
	}
	return nil, api.ErrNotFound
}

func (a *Agent) CreateTrustPing(_ context.Context, _ *framework.AgentContext, connectionID string) (_ *framework.Message, err error) {
	defer err2.Handle(&err, "create trust ping")

	_ = try.To1(a.store.ConnectionStorage().GetConnection(connectionID))
	return framework.NewMessage(trustPing{
		Type:              TypeTrustPing,
		ID:                utils.UUID(),
		ResponseRequested: true,
	})
}

func (a *Agent) handleTrustPing(_ context.Context, msg *framework.Message) (out *outbound, err error) {
	defer err2.Handle(&err, "trust ping %s", msg.ID)

	var ping trustPing
	try.To(msg.Decode(&ping))
	if !ping.ResponseRequested {
		return nil, nil
	}
	conn, found := a.connectionByTheirKey(msg.Sender)
	if !found {
		glog.Warningln("trust ping from unknown key:", msg.Sender)
		return nil, nil
	}
	pong := try.To1(framework.NewMessage(trustPing{
		Type:   TypeTrustPingResponse,
		ID:     utils.UUID(),
		Thread: &decorator.Thread{ID: msg.ThreadID},
	}))
	return &outbound{
		msg:    pong,
		sender: conn.MyVerkey,
		to:     recipientOf(conn),
	}, nil
}

// connectionByTheirKey returns the complete connection with the key.
func (a *Agent) connectionByTheirKey(key string) (*api.ConnectionRecord, bool) {
	if key == "" {
		return nil, false
	}
	conns, err := a.store.ConnectionStorage().ListConnections()
	if err != nil {
		glog.Errorln("list connections:", err)
		return nil, false
	}
	for i := range conns {
		if conns[i].State == api.ConnectionComplete && conns[i].TheirVerkey == key {
			return &conns[i], true
		}
	}
	return nil, false
}
