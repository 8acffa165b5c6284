// Package issuecredential answers the credential offers received by the
// wallet.
package issuecredential

import (
	"context"
	"errors"
	"strings"

	"github.com/findy-network/findy-edge-agent/agent/bus"
	"github.com/findy-network/findy-edge-agent/agent/framework"
	"github.com/findy-network/findy-edge-agent/agent/storage/api"
	"github.com/findy-network/findy-edge-agent/protocol"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/samber/lo"
)

// ErrNoRecipient is returned when the offer has neither the issuer's verkey
// nor the invitation key tag.
var ErrNoRecipient = errors.New("credential offer has no recipient")

type Negotiator struct {
	protocol.Deps
}

func New(deps protocol.Deps) *Negotiator {
	return &Negotiator{Deps: deps}
}

// Accept sends the credential request for the offer. The credential must be
// in Offered state, otherwise nothing is done. If sending fails the offer
// stays Offered and Accept can be called again.
func (n *Negotiator) Accept(ctx context.Context, credID string) (rec *api.CredentialRecord, err error) {
	defer protocol.Count("issuecredential", "accept", &err)
	defer err2.Handle(&err, "accept credential offer")

	ac := try.To1(n.FW.GetContext(ctx))
	cred := try.To1(n.FW.GetCredential(ctx, ac, credID))
	try.To(cred.CheckState(api.CredentialOffered))

	to := try.To1(n.recipient(ctx, ac, cred))
	try.To(n.Authenticate(ctx, "Accept credential "+cred.Name()+"?"))

	msg, _ := try.To2(n.FW.CreateCredentialRequest(ctx, ac, credID))
	_ = try.To1(n.FW.SendMessage(ctx, ac, msg, to, false))
	rec = try.To1(n.FW.MarkCredentialRequested(ctx, ac, credID))
	glog.V(1).Infof("credential %s requested", rec.ID)

	n.Publish(bus.CredentialUpdated, rec.ID)
	return rec, nil
}

// Reject rejects the offer. The issuer isn't told about it, the credential
// is only marked Rejected in the wallet.
func (n *Negotiator) Reject(ctx context.Context, credID string) (rec *api.CredentialRecord, err error) {
	defer protocol.Count("issuecredential", "reject", &err)
	defer err2.Handle(&err, "reject credential offer")

	ac := try.To1(n.FW.GetContext(ctx))
	cred := try.To1(n.FW.GetCredential(ctx, ac, credID))
	try.To(cred.CheckState(api.CredentialOffered))
	try.To(n.Authenticate(ctx, "Reject credential "+cred.Name()+"?"))

	rec = try.To1(n.FW.RejectCredentialOffer(ctx, ac, credID))
	n.Publish(bus.CredentialUpdated, rec.ID)
	return rec, nil
}

func (n *Negotiator) recipient(
	ctx context.Context,
	ac *framework.AgentContext,
	cred *api.CredentialRecord,
) (to framework.Recipient, err error) {
	to.Key = cred.TheirVerkey
	if to.Key == "" {
		to.Key = cred.Tags[api.TagInvitationKey]
	}
	if to.Key == "" {
		return to, ErrNoRecipient
	}
	to.Endpoint = cred.Endpoint
	if cred.ConnectionID != "" {
		conn, err := n.FW.GetConnection(ctx, ac, cred.ConnectionID)
		if err != nil {
			return to, err
		}
		if to.Endpoint == "" {
			to.Endpoint = conn.Endpoint.URI
		}
		to.RoutingKeys = conn.Endpoint.RoutingKeys
	}
	return to, nil
}

// List returns the offered and issued credentials whose name contains the
// search text, case insensitive. Empty search returns all of them.
func (n *Negotiator) List(ctx context.Context, search string) (_ []api.CredentialRecord, err error) {
	defer err2.Handle(&err, "list credentials")

	ac := try.To1(n.FW.GetContext(ctx))
	creds := try.To1(n.FW.ListCredentials(ctx, ac))
	search = strings.ToLower(search)
	return lo.Filter(creds, func(c api.CredentialRecord, _ int) bool {
		if c.State != api.CredentialOffered && c.State != api.CredentialIssued {
			return false
		}
		return strings.Contains(strings.ToLower(c.Name()), search)
	}), nil
}

func (n *Negotiator) Get(ctx context.Context, id string) (_ *api.CredentialRecord, err error) {
	defer err2.Handle(&err, "get credential")

	ac := try.To1(n.FW.GetContext(ctx))
	return n.FW.GetCredential(ctx, ac, id)
}
