package edge

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/findy-network/findy-edge-agent/agent/framework"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

var ErrNoEndpoint = errors.New("recipient has no endpoint")

// outbound is a reply produced by the inbound message handler.
type outbound struct {
	msg    *framework.Message
	sender string
	to     framework.Recipient
}

// SendMessage seals the message to the recipient and posts it. The sender
// key is ours in the pairwise connection to the recipient, or the master
// key when there is no such connection.
func (a *Agent) SendMessage(
	ctx context.Context,
	ac *framework.AgentContext,
	msg *framework.Message,
	to framework.Recipient,
	returnRoute bool,
) (
	_ *framework.Message,
	err error,
) {
	defer err2.Handle(&err, "send %s", msg.Type)

	sender := ac.Verkey
	if my, found := a.myKeyFor(to.Key); found {
		sender = my
	}
	return a.send(ctx, &outbound{msg: msg, sender: sender, to: to}, returnRoute)
}

func (a *Agent) send(ctx context.Context, out *outbound, returnRoute bool) (_ *framework.Message, err error) {
	defer err2.Handle(&err, "post to %s", out.to.Endpoint)

	if out.to.Endpoint == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoEndpoint, out.to.Key)
	}
	if len(out.to.RoutingKeys) > 0 {
		glog.V(3).Infoln("routing keys not used, sending directly to", out.to.Endpoint)
	}
	msg := out.msg
	if returnRoute {
		msg = try.To1(msg.WithReturnRoute())
	}
	data := try.To1(a.packager.Seal(msg, out.sender, out.to.Key))
	rdata := try.To1(a.http.Post(ctx, out.to.Endpoint, data))

	if !returnRoute || len(bytes.TrimSpace(rdata)) == 0 {
		return nil, nil
	}
	return a.Unpack(rdata)
}

// Unpack opens the envelope addressed to one of our keys. The sender of
// the message is the key which authenticated the envelope.
func (a *Agent) Unpack(data []byte) (*framework.Message, error) {
	return a.packager.Open(data)
}

// myKeyFor returns our verkey of the connection to their key. An open
// connection request is addressed to the invitation key.
func (a *Agent) myKeyFor(theirKey string) (string, bool) {
	if conn, found := a.connectionByTheirKey(theirKey); found {
		return conn.MyVerkey, true
	}
	conns, err := a.store.ConnectionStorage().ListConnections()
	if err != nil {
		return "", false
	}
	for _, c := range conns {
		if c.Endpoint.Verkey == theirKey && c.MyVerkey != "" {
			return c.MyVerkey, true
		}
	}
	return "", false
}

// Process handles the inbound message. Replies are sent to the other end's
// endpoint.
func (a *Agent) Process(ctx context.Context, ac *framework.AgentContext, msg *framework.Message) (err error) {
	defer err2.Handle(&err, "process %s", msg)

	out := try.To1(a.handle(ctx, ac, msg))
	if out != nil {
		_ = try.To1(a.send(ctx, out, false))
	}
	return nil
}

// Respond handles the message posted to our endpoint. When the sender
// asked for the return route the reply is returned as a sealed envelope,
// otherwise it's sent and nil is returned.
func (a *Agent) Respond(ctx context.Context, msg *framework.Message) (_ []byte, err error) {
	defer err2.Handle(&err, "respond %s", msg)

	ac := try.To1(a.GetContext(ctx))

	out := try.To1(a.handle(ctx, ac, msg))
	if out == nil {
		return nil, nil
	}
	if msg.ReturnRoute {
		return a.packager.Seal(out.msg, out.sender, out.to.Key)
	}
	_ = try.To1(a.send(ctx, out, false))
	return nil, nil
}

func (a *Agent) handle(ctx context.Context, ac *framework.AgentContext, msg *framework.Message) (*outbound, error) {
	glog.V(3).Infoln("inbound:", msg)

	switch msg.Type {
	case TypeConnectionRequest:
		return a.handleConnectionRequest(ctx, msg)
	case TypeConnectionResponse:
		_, err := a.ProcessConnectionResponse(ctx, ac, msg)
		return nil, err
	case TypeTrustPing:
		return a.handleTrustPing(ctx, msg)
	case TypeTrustPingResponse:
		glog.V(1).Infoln("trust ping response from", msg.Sender)
		return nil, nil
	case TypeCredentialOffer:
		return nil, a.handleOffer(ctx, msg)
	case TypeCredentialRequest:
		return a.handleCredentialRequest(ctx, msg)
	case TypeCredentialIssue:
		return nil, a.handleIssue(ctx, msg)
	case TypeProofRequest:
		return nil, a.handleProofRequest(ctx, msg)
	case TypePresentation:
		return a.handlePresentation(ctx, msg)
	case TypeProofAck:
		glog.V(1).Infoln("proof acknowledged:", msg.ThreadID)
		return nil, nil
	case TypeProblemReport:
		var pr problemReport
		if err := msg.Decode(&pr); err != nil {
			return nil, err
		}
		glog.Warningf("problem report %s: %s (%s)", msg.ThreadID, pr.Description.En, pr.Description.Code)
		return nil, nil
	}
	return nil, fmt.Errorf("unsupported message type %s", msg.Type)
}
