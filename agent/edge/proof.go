package edge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/findy-network/findy-edge-agent/agent/framework"
	"github.com/findy-network/findy-edge-agent/agent/storage/api"
	"github.com/findy-network/findy-edge-agent/agent/utils"
	"github.com/findy-network/findy-edge-agent/protocol/presentproof"
	"github.com/golang/glog"
	"github.com/hyperledger/aries-framework-go/pkg/didcomm/protocol/decorator"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/samber/lo"
)

const (
	RoleVerifier = "verifier"

	// TagPresentation holds the presentation the verifier received.
	TagPresentation = "Presentation"
)

type proofAck struct {
	Type   string            `json:"@type"`
	ID     string            `json:"@id"`
	Status string            `json:"status"`
	Thread *decorator.Thread `json:"~thread"`
}

func (a *Agent) ListProofs(_ context.Context, _ *framework.AgentContext) ([]api.ProofRecord, error) {
	proofs, err := a.store.ProofStorage().ListProofs()
	if err != nil {
		return nil, err
	}
	return lo.Reject(proofs, func(p api.ProofRecord, _ int) bool {
		return p.Tags[TagRole] == RoleVerifier
	}), nil
}

func (a *Agent) GetProof(_ context.Context, _ *framework.AgentContext, id string) (*api.ProofRecord, error) {
	return a.store.ProofStorage().GetProof(id)
}

func (a *Agent) AddProof(_ context.Context, _ *framework.AgentContext, rec api.ProofRecord) (_ *api.ProofRecord, err error) {
	defer err2.Handle(&err, "add proof")

	if rec.ID == "" {
		rec.ID = utils.UUID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	try.To(a.store.ProofStorage().AddProof(rec))
	return &rec, nil
}

// CreatePresentation builds the presentation of the selected credentials.
// Revealed attributes carry their raw values, hidden ones and predicates
// only the reference to the credential.
func (a *Agent) CreatePresentation(
	_ context.Context,
	_ *framework.AgentContext,
	proofID string,
	rc framework.RequestedCredentials,
) (
	msg *framework.Message,
	proof *api.ProofRecord,
	err error,
) {
	defer err2.Handle(&err, "create presentation")

	proof = try.To1(a.store.ProofStorage().GetProof(proofID))
	try.To(proof.CheckState(api.ProofRequested))
	req := try.To1(presentproof.ParseRequest(proof.RequestJSON))

	doc := proofDocument{
		RequestedProof: requestedProof{
			RevealedAttrs:   map[string]revealedAttr{},
			UnrevealedAttrs: map[string]subProof{},
			Predicates:      map[string]subProof{},
		},
		Identifiers: []identifier{},
	}
	index := map[string]int{}
	subProofOf := func(credID string) (*api.CredentialRecord, int) {
		cred := try.To1(a.store.CredentialStorage().GetCredential(credID))
		try.To(cred.CheckState(api.CredentialIssued))
		i, ok := index[credID]
		if !ok {
			i = len(doc.Identifiers)
			index[credID] = i
			doc.Identifiers = append(doc.Identifiers, identifier{
				SchemaID:  cred.SchemaID,
				CredDefID: cred.CredDefID,
			})
		}
		return cred, i
	}

	for ref, sel := range rc.RequestedAttributes {
		field, ok := req.Field(ref)
		if !ok || field.Predicate {
			return nil, nil, fmt.Errorf("%w: attribute %s", presentproof.ErrUnknownField, ref)
		}
		cred, i := subProofOf(sel.CredentialID)
		if !sel.Revealed {
			doc.RequestedProof.UnrevealedAttrs[ref] = subProof{SubProofIndex: i}
			continue
		}
		value, found := cred.Value(field.Name)
		if !found {
			return nil, nil, fmt.Errorf("credential %s has no %s", cred.ID, field.Name)
		}
		doc.RequestedProof.RevealedAttrs[ref] = revealedAttr{SubProofIndex: i, Raw: value}
	}
	for ref, sel := range rc.RequestedPredicates {
		if field, ok := req.Field(ref); !ok || !field.Predicate {
			return nil, nil, fmt.Errorf("%w: predicate %s", presentproof.ErrUnknownField, ref)
		}
		_, i := subProofOf(sel.CredentialID)
		doc.RequestedProof.Predicates[ref] = subProof{SubProofIndex: i}
	}

	msg = try.To1(framework.NewMessage(Presentation{
		Type:         TypePresentation,
		ID:           utils.UUID(),
		Presentation: doc,
		Thread:       &decorator.Thread{ID: proof.ThreadID},
	}))
	return msg, proof, nil
}

func (a *Agent) MarkProofAccepted(_ context.Context, _ *framework.AgentContext, proofID string) (err error) {
	defer err2.Handle(&err, "mark proof accepted")

	proof := try.To1(a.store.ProofStorage().GetProof(proofID))
	try.To(proof.CheckState(api.ProofRequested))
	proof.State = api.ProofAccepted
	return a.store.ProofStorage().AddProof(*proof)
}

func (a *Agent) RejectProof(_ context.Context, _ *framework.AgentContext, proofID string) (err error) {
	defer err2.Handle(&err, "reject proof")

	proof := try.To1(a.store.ProofStorage().GetProof(proofID))
	try.To(proof.CheckState(api.ProofRequested))
	proof.State = api.ProofRejected
	return a.store.ProofStorage().AddProof(*proof)
}

func (a *Agent) handleProofRequest(_ context.Context, msg *framework.Message) (err error) {
	defer err2.Handle(&err, "proof request %s", msg.ID)

	var req ProofRequest
	try.To(msg.Decode(&req))

	rec := api.ProofRecord{
		ID:          utils.UUID(),
		ThreadID:    msg.ThreadID,
		RequestJSON: try.To1(requestDocument(&req)),
		State:       api.ProofRequested,
		TheirVerkey: msg.Sender,
		CreatedAt:   time.Now(),
	}
	if conn, found := a.connectionByTheirKey(msg.Sender); found {
		rec.ConnectionID = conn.ID
		rec.ServiceEndpoint = conn.Endpoint.URI
	}
	try.To(a.store.ProofStorage().AddProof(rec))
	glog.V(1).Infof("proof request %s stored", rec.ID)
	return nil
}

// requestDocument returns the proof request document from the request
// field or from the first attachment.
func requestDocument(req *ProofRequest) (doc string, err error) {
	defer err2.Handle(&err, "proof request document")

	if req.Request == "" && len(req.Attach) > 0 {
		data := req.Attach[0].Data
		switch {
		case data.Base64 != "":
			req.Request = string(try.To1(utils.DecodeB64(data.Base64)))
		case data.JSON != nil:
			req.Request = string(try.To1(json.Marshal(data.JSON)))
		}
	}
	if req.Request == "" || !json.Valid([]byte(req.Request)) {
		return "", fmt.Errorf("no proof request document")
	}
	return req.Request, nil
}

// RequestProof sends the proof request over the connection. It plays the
// verifier role: the presentation coming back is stored to the record.
func (a *Agent) RequestProof(ctx context.Context, connectionID, requestJSON string) (proof *api.ProofRecord, err error) {
	defer err2.Handle(&err, "request proof")

	ac := try.To1(a.GetContext(ctx))
	conn := try.To1(a.store.ConnectionStorage().GetConnection(connectionID))
	_ = try.To1(presentproof.ParseRequest(requestJSON))

	req := ProofRequest{
		Type: TypeProofRequest,
		ID:   utils.UUID(),
		Attach: []decorator.Attachment{{
			ID:       "libindy-request-presentation-0",
			MimeType: "application/json",
			Data:     decorator.AttachmentData{Base64: utils.EncodeB64([]byte(requestJSON))},
		}},
	}
	proof = &api.ProofRecord{
		ID:           req.ID,
		ConnectionID: conn.ID,
		ThreadID:     req.ID,
		RequestJSON:  requestJSON,
		State:        api.ProofRequested,
		TheirVerkey:  conn.TheirVerkey,
		Tags:         map[string]string{TagRole: RoleVerifier},
		CreatedAt:    time.Now(),
	}
	try.To(a.store.ProofStorage().AddProof(*proof))

	msg := try.To1(framework.NewMessage(req))
	_ = try.To1(a.SendMessage(ctx, ac, msg, recipientOf(conn), false))
	return proof, nil
}

func (a *Agent) handlePresentation(_ context.Context, msg *framework.Message) (out *outbound, err error) {
	defer err2.Handle(&err, "presentation %s", msg.ThreadID)

	proof := try.To1(a.store.ProofStorage().GetProof(msg.ThreadID))
	if proof.Tags[TagRole] != RoleVerifier {
		return nil, fmt.Errorf("proof %s isn't ours to verify", proof.ID)
	}
	try.To(proof.CheckState(api.ProofRequested))

	var pres Presentation
	try.To(msg.Decode(&pres))

	proof.Tags[TagPresentation] = string(msg.Body)
	proof.State = api.ProofAccepted
	try.To(a.store.ProofStorage().AddProof(*proof))
	glog.V(1).Infof("presentation %s received, %d revealed", proof.ID,
		len(pres.Presentation.RequestedProof.RevealedAttrs))

	conn := try.To1(a.store.ConnectionStorage().GetConnection(proof.ConnectionID))
	ack := try.To1(framework.NewMessage(proofAck{
		Type:   TypeProofAck,
		ID:     utils.UUID(),
		Status: "OK",
		Thread: &decorator.Thread{ID: proof.ThreadID},
	}))
	return &outbound{msg: ack, sender: conn.MyVerkey, to: recipientOf(conn)}, nil
}
