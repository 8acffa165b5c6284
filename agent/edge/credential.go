package edge

import (
	"context"
	"time"

	"github.com/findy-network/findy-edge-agent/agent/framework"
	"github.com/findy-network/findy-edge-agent/agent/storage/api"
	"github.com/findy-network/findy-edge-agent/agent/utils"
	"github.com/golang/glog"
	"github.com/hyperledger/aries-framework-go/pkg/didcomm/protocol/decorator"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/samber/lo"
)

// TagRole marks the records we made as the issuer or the verifier.
const (
	TagRole    = "Role"
	RoleIssuer = "issuer"
)

// tagRequestID holds the ID of the credential request built for the offer.
const tagRequestID = "RequestID"

func (a *Agent) ListCredentials(_ context.Context, _ *framework.AgentContext) ([]api.CredentialRecord, error) {
	creds, err := a.store.CredentialStorage().ListCredentials()
	if err != nil {
		return nil, err
	}
	return lo.Reject(creds, func(c api.CredentialRecord, _ int) bool {
		return c.Tags[TagRole] == RoleIssuer
	}), nil
}

func (a *Agent) GetCredential(_ context.Context, _ *framework.AgentContext, id string) (*api.CredentialRecord, error) {
	return a.store.CredentialStorage().GetCredential(id)
}

func (a *Agent) CreateCredentialRequest(
	_ context.Context,
	ac *framework.AgentContext,
	credentialID string,
) (
	msg *framework.Message,
	cred *api.CredentialRecord,
	err error,
) {
	defer err2.Handle(&err, "create credential request")

	cred = try.To1(a.store.CredentialStorage().GetCredential(credentialID))
	try.To(cred.CheckState(api.CredentialOffered))

	msg = try.To1(framework.NewMessage(credentialRequest{
		Type:      TypeCredentialRequest,
		ID:        utils.UUID(),
		CredDefID: cred.CredDefID,
		ProverDID: ac.DID,
		Thread:    &decorator.Thread{ID: cred.ID},
	}))
	if cred.Tags == nil {
		cred.Tags = make(map[string]string)
	}
	cred.Tags[tagRequestID] = msg.ID
	try.To(a.store.CredentialStorage().AddCredential(*cred))
	return msg, cred, nil
}

// MarkCredentialRequested moves the offer to Requested after the request is
// sent. The issue may have arrived already, then there is nothing to do.
func (a *Agent) MarkCredentialRequested(_ context.Context, _ *framework.AgentContext, credentialID string) (cred *api.CredentialRecord, err error) {
	defer err2.Handle(&err, "mark credential requested")

	cred = try.To1(a.store.CredentialStorage().GetCredential(credentialID))
	if cred.State == api.CredentialIssued {
		return cred, nil
	}
	try.To(cred.CheckState(api.CredentialOffered))
	cred.State = api.CredentialRequested
	try.To(a.store.CredentialStorage().AddCredential(*cred))
	return cred, nil
}

func (a *Agent) RejectCredentialOffer(_ context.Context, _ *framework.AgentContext, credentialID string) (cred *api.CredentialRecord, err error) {
	defer err2.Handle(&err, "reject credential offer")

	cred = try.To1(a.store.CredentialStorage().GetCredential(credentialID))
	try.To(cred.CheckState(api.CredentialOffered))
	cred.State = api.CredentialRejected
	try.To(a.store.CredentialStorage().AddCredential(*cred))
	return cred, nil
}

// handleOffer stores the offer. A repeated offer is ignored.
func (a *Agent) handleOffer(_ context.Context, msg *framework.Message) (err error) {
	defer err2.Handle(&err, "credential offer %s", msg.ID)

	if _, err := a.store.CredentialStorage().GetCredential(msg.ThreadID); err == nil {
		glog.V(3).Infoln("offer already stored:", msg.ThreadID)
		return nil
	}

	var offer CredentialOffer
	try.To(msg.Decode(&offer))

	cred := api.CredentialRecord{
		ID:          msg.ThreadID,
		SchemaID:    offer.SchemaID,
		CredDefID:   offer.CredDefID,
		State:       api.CredentialOffered,
		OfferJSON:   string(msg.Body),
		TheirVerkey: msg.Sender,
		Tags:        map[string]string{},
		CreatedAt:   time.Now(),
	}
	if offer.Preview != nil {
		cred.Attributes = lo.Map(offer.Preview.Attributes, func(p previewAttribute, _ int) api.CredentialAttribute {
			return api.CredentialAttribute{Name: p.Name, Value: p.Value}
		})
	}
	if conn, found := a.connectionByTheirKey(msg.Sender); found {
		cred.ConnectionID = conn.ID
		cred.Tags[api.TagInvitationKey] = conn.InvitationKey
	}
	if s := offer.Service; s != nil {
		if len(s.RecipientKeys) > 0 {
			cred.TheirVerkey = s.RecipientKeys[0]
		}
		cred.Endpoint = s.ServiceEndpoint
	}
	try.To(a.store.CredentialStorage().AddCredential(cred))
	glog.V(1).Infof("credential offer %s (%s) stored", cred.ID, cred.Name())
	return nil
}

func (a *Agent) handleIssue(_ context.Context, msg *framework.Message) (err error) {
	defer err2.Handle(&err, "credential issue %s", msg.ThreadID)

	var issue CredentialIssue
	try.To(msg.Decode(&issue))

	cred := try.To1(a.store.CredentialStorage().GetCredential(msg.ThreadID))
	// the issuer can answer before the sent request is marked
	if !(cred.State == api.CredentialOffered && cred.Tags[tagRequestID] != "") {
		try.To(cred.CheckState(api.CredentialRequested))
	}

	if len(issue.Values) > 0 {
		cred.Attributes = lo.Map(issue.Values, func(p previewAttribute, _ int) api.CredentialAttribute {
			return api.CredentialAttribute{Name: p.Name, Value: p.Value}
		})
	}
	cred.State = api.CredentialIssued
	try.To(a.store.CredentialStorage().AddCredential(*cred))
	glog.V(1).Infof("credential %s issued", cred.ID)
	return nil
}

// OfferCredential sends a credential offer over the connection. It plays
// the issuer role: the request coming back is answered with the values.
func (a *Agent) OfferCredential(
	ctx context.Context,
	connectionID string,
	schemaID string,
	credDefID string,
	attrs []api.CredentialAttribute,
) (
	cred *api.CredentialRecord,
	err error,
) {
	defer err2.Handle(&err, "offer credential")

	ac := try.To1(a.GetContext(ctx))
	conn := try.To1(a.store.ConnectionStorage().GetConnection(connectionID))

	offer := CredentialOffer{
		Type:      TypeCredentialOffer,
		ID:        utils.UUID(),
		SchemaID:  schemaID,
		CredDefID: credDefID,
		Preview: &credentialPreview{
			Attributes: lo.Map(attrs, func(a api.CredentialAttribute, _ int) previewAttribute {
				return previewAttribute{Name: a.Name, Value: a.Value}
			}),
		},
	}
	cred = &api.CredentialRecord{
		ID:           offer.ID,
		ConnectionID: conn.ID,
		SchemaID:     schemaID,
		CredDefID:    credDefID,
		State:        api.CredentialOffered,
		Attributes:   attrs,
		TheirVerkey:  conn.TheirVerkey,
		Tags:         map[string]string{TagRole: RoleIssuer},
		CreatedAt:    time.Now(),
	}
	try.To(a.store.CredentialStorage().AddCredential(*cred))

	msg := try.To1(framework.NewMessage(offer))
	_ = try.To1(a.SendMessage(ctx, ac, msg, recipientOf(conn), false))
	return cred, nil
}

func (a *Agent) handleCredentialRequest(_ context.Context, msg *framework.Message) (out *outbound, err error) {
	defer err2.Handle(&err, "credential request %s", msg.ThreadID)

	cred := try.To1(a.store.CredentialStorage().GetCredential(msg.ThreadID))
	try.To(cred.CheckState(api.CredentialOffered))
	conn := try.To1(a.store.ConnectionStorage().GetConnection(cred.ConnectionID))

	issue := try.To1(framework.NewMessage(CredentialIssue{
		Type: TypeCredentialIssue,
		ID:   utils.UUID(),
		Values: lo.Map(cred.Attributes, func(a api.CredentialAttribute, _ int) previewAttribute {
			return previewAttribute{Name: a.Name, Value: a.Value}
		}),
		Thread: &decorator.Thread{ID: cred.ID},
	}))
	cred.State = api.CredentialIssued
	try.To(a.store.CredentialStorage().AddCredential(*cred))

	return &outbound{msg: issue, sender: conn.MyVerkey, to: recipientOf(conn)}, nil
}

func recipientOf(conn *api.ConnectionRecord) framework.Recipient {
	return framework.Recipient{
		Key:         conn.TheirVerkey,
		Endpoint:    conn.Endpoint.URI,
		RoutingKeys: conn.Endpoint.RoutingKeys,
	}
}
