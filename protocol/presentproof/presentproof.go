// Package presentproof negotiates the holder's answer to a proof request.
// The user opens the requested fields one at a time, picks a credential for
// each of them and decides which attributes are revealed. The presentation
// is sent only when every field has a credential.
package presentproof

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/findy-network/findy-edge-agent/agent/bus"
	"github.com/findy-network/findy-edge-agent/agent/framework"
	"github.com/findy-network/findy-edge-agent/agent/storage/api"
	"github.com/findy-network/findy-edge-agent/agent/utils"
	"github.com/findy-network/findy-edge-agent/protocol"
	"github.com/findy-network/findy-edge-agent/protocol/invitation"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/samber/lo"
)

var (
	ErrIncompleteSelection = framework.NewUserError(
		"incomplete credential selection", "Some proof attributes are missing")

	ErrNotExpanded  = errors.New("no field is expanded")
	ErrNotAttribute = errors.New("predicate cannot be revealed")
	ErrUnknownField = errors.New("unknown field")
	ErrClosed       = errors.New("negotiation is closed")
)

// Negotiator holds the working state of a single proof request. It isn't
// safe for concurrent use, the owner of the proof request view drives it.
type Negotiator struct {
	protocol.Deps

	proof *api.ProofRecord
	req   *Request

	attrs    map[string]framework.RequestedAttribute // by referent
	preds    map[string]framework.RequestedAttribute // by referent
	revealed map[string]bool                         // attribute referents only
	expanded string                                  // referent of the open field
	closed   bool
}

// New starts the negotiation for the proof. All the attributes are revealed
// by default.
func New(deps protocol.Deps, proof *api.ProofRecord) (n *Negotiator, err error) {
	defer err2.Handle(&err, "new proof negotiation")

	req := try.To1(ParseRequest(proof.RequestJSON))
	n = &Negotiator{
		Deps:     deps,
		proof:    proof,
		req:      req,
		attrs:    make(map[string]framework.RequestedAttribute),
		preds:    make(map[string]framework.RequestedAttribute),
		revealed: make(map[string]bool, len(req.Attributes)),
	}
	for _, f := range req.Attributes {
		n.revealed[f.Referent] = true
	}
	return n, nil
}

// Open loads the proof record and starts the negotiation for it.
func Open(ctx context.Context, deps protocol.Deps, proofID string) (n *Negotiator, err error) {
	defer err2.Handle(&err, "open proof request")

	ac := try.To1(deps.FW.GetContext(ctx))
	proof := try.To1(deps.FW.GetProof(ctx, ac, proofID))
	return New(deps, proof)
}

// FromInvitation stores the connectionless proof request received as an
// invitation and starts the negotiation for it.
func FromInvitation(ctx context.Context, deps protocol.Deps, inv *invitation.ProofRequest) (n *Negotiator, err error) {
	defer err2.Handle(&err, "proof request from invitation")

	ac := try.To1(deps.FW.GetContext(ctx))
	threadID := inv.ID
	if inv.Thread != nil && inv.Thread.ID != "" {
		threadID = inv.Thread.ID
	}
	rec := api.ProofRecord{
		ID:              utils.UUID(),
		ThreadID:        threadID,
		RequestJSON:     inv.RequestJSON(),
		State:           api.ProofRequested,
		TheirVerkey:     inv.Service.RecipientKeys[0],
		ServiceEndpoint: inv.Service.ServiceEndpoint,
		Connectionless:  true,
		CreatedAt:       time.Now(),
	}
	proof := try.To1(deps.FW.AddProof(ctx, ac, rec))
	deps.Publish(bus.ProofRequestUpdated, proof.ID)
	return New(deps, proof)
}

// List returns the proof records of the wallet.
func List(ctx context.Context, deps protocol.Deps) (_ []api.ProofRecord, err error) {
	defer err2.Handle(&err, "list proofs")

	ac := try.To1(deps.FW.GetContext(ctx))
	return deps.FW.ListProofs(ctx, ac)
}

func (n *Negotiator) Proof() *api.ProofRecord {
	return n.proof
}

func (n *Negotiator) Request() *Request {
	return n.req
}

// Expand opens the credential picker of the field, or closes it if it's
// already open. Only one field is open at a time, opening a field closes the
// other one. Selections aren't touched. It returns true if the field is open
// after the call.
func (n *Negotiator) Expand(f Field) (bool, error) {
	if err := n.check(); err != nil {
		return false, err
	}
	if _, ok := n.req.Field(f.Referent); !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownField, f.Referent)
	}
	if n.expanded == f.Referent {
		n.expanded = ""
		return false, nil
	}
	n.expanded = f.Referent
	return true, nil
}

func (n *Negotiator) Collapse() {
	n.expanded = ""
}

// Expanded returns the open field.
func (n *Negotiator) Expanded() (Field, bool) {
	if n.expanded == "" {
		return Field{}, false
	}
	return n.req.Field(n.expanded)
}

// SelectCredential selects the credential for the expanded field and closes
// the picker. Selecting the same credential again keeps the earlier
// selection as it is.
func (n *Negotiator) SelectCredential(cred api.CredentialRecord) error {
	if err := n.check(); err != nil {
		n.Collapse()
		return err
	}
	f, ok := n.Expanded()
	if !ok {
		return ErrNotExpanded
	}
	defer n.Collapse()

	selections := n.attrs
	if f.Predicate {
		selections = n.preds
	}
	if prev, ok := selections[f.Referent]; ok && prev.CredentialID == cred.ID {
		glog.V(5).Infoln("same credential selected again for", f.Referent)
		return nil
	}
	selections[f.Referent] = framework.NewRequestedAttribute(cred.ID, n.Revealed(f))
	n.Publish(bus.ProofRequestAttributeUpdated, n.proof.ID)
	return nil
}

// Selected returns the credential selection of the field.
func (n *Negotiator) Selected(f Field) (framework.RequestedAttribute, bool) {
	if f.Predicate {
		ra, ok := n.preds[f.Referent]
		return ra, ok
	}
	ra, ok := n.attrs[f.Referent]
	return ra, ok
}

// ToggleRevealed flips the reveal flag of the attribute and returns the new
// value. The flag of an existing selection follows it.
func (n *Negotiator) ToggleRevealed(f Field) (bool, error) {
	if err := n.check(); err != nil {
		return false, err
	}
	if f.Predicate {
		return false, ErrNotAttribute
	}
	if _, ok := n.revealed[f.Referent]; !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownField, f.Referent)
	}
	revealed := !n.revealed[f.Referent]
	n.revealed[f.Referent] = revealed
	if ra, ok := n.attrs[f.Referent]; ok {
		ra.Revealed = revealed
		n.attrs[f.Referent] = ra
	}
	n.Publish(bus.ProofRequestAttributeUpdated, n.proof.ID)
	return revealed, nil
}

// Revealed tells if the field's value is disclosed. Predicates never are.
func (n *Negotiator) Revealed(f Field) bool {
	if f.Predicate {
		return false
	}
	return n.revealed[f.Referent]
}

// FilterCredentialRecords returns the issued credentials which satisfy the
// field's restrictions. A field without restrictions accepts every issued
// credential.
func (n *Negotiator) FilterCredentialRecords(ctx context.Context, f Field) (_ []api.CredentialRecord, err error) {
	defer err2.Handle(&err, "filter credentials")

	ac := try.To1(n.FW.GetContext(ctx))
	creds := try.To1(n.FW.ListCredentials(ctx, ac))
	ids := f.CredDefIDs()
	return lo.Filter(creds, func(c api.CredentialRecord, _ int) bool {
		if c.State != api.CredentialIssued {
			return false
		}
		return len(ids) == 0 || lo.Contains(ids, c.CredDefID)
	}), nil
}

// RequestedCredentials builds the answer from the selections. Predicates
// are never revealed.
func (n *Negotiator) RequestedCredentials() framework.RequestedCredentials {
	rc := framework.RequestedCredentials{
		RequestedAttributes: make(map[string]framework.RequestedAttribute, len(n.attrs)),
		RequestedPredicates: make(map[string]framework.RequestedAttribute, len(n.preds)),
	}
	for ref, ra := range n.attrs {
		ra.Revealed = n.revealed[ref]
		rc.RequestedAttributes[ref] = ra
	}
	for ref, ra := range n.preds {
		ra.Revealed = false
		rc.RequestedPredicates[ref] = ra
	}
	return rc
}

// Submit sends the presentation. Every requested field must have a
// credential. If sending fails the proof stays Requested and Submit can be
// called again.
func (n *Negotiator) Submit(ctx context.Context) (err error) {
	defer protocol.Count("presentproof", "submit", &err)
	defer err2.Handle(&err, "submit proof")

	try.To(n.check())
	ac := try.To1(n.FW.GetContext(ctx))
	proof := try.To1(n.FW.GetProof(ctx, ac, n.proof.ID))
	try.To(proof.CheckState(api.ProofRequested))
	if len(n.attrs)+len(n.preds) != n.req.Len() {
		return ErrIncompleteSelection
	}

	try.To(n.Authenticate(ctx, "Send proof "+n.req.Name+"?"))

	msg, proof := try.To2(n.FW.CreatePresentation(ctx, ac, proof.ID, n.RequestedCredentials()))
	to := try.To1(n.recipient(ctx, ac, proof))
	_ = try.To1(n.FW.SendMessage(ctx, ac, msg, to, false))
	try.To(n.FW.MarkProofAccepted(ctx, ac, proof.ID))
	glog.V(1).Infoln("proof presented:", proof.ID)

	n.proof = proof
	n.proof.State = api.ProofAccepted
	n.closed = true
	n.Collapse()
	n.Publish(bus.ProofRequestUpdated, proof.ID)
	return nil
}

// Reject declines the proof request.
func (n *Negotiator) Reject(ctx context.Context) (err error) {
	defer protocol.Count("presentproof", "reject", &err)
	defer err2.Handle(&err, "reject proof")

	try.To(n.check())
	ac := try.To1(n.FW.GetContext(ctx))
	proof := try.To1(n.FW.GetProof(ctx, ac, n.proof.ID))
	try.To(proof.CheckState(api.ProofRequested))
	try.To(n.Authenticate(ctx, "Reject proof request "+n.req.Name+"?"))

	try.To(n.FW.RejectProof(ctx, ac, proof.ID))
	n.proof.State = api.ProofRejected
	n.closed = true
	n.Collapse()
	n.Publish(bus.ProofRequestUpdated, proof.ID)
	return nil
}

func (n *Negotiator) check() error {
	if n.closed {
		return ErrClosed
	}
	return n.proof.CheckState(api.ProofRequested)
}

func (n *Negotiator) recipient(
	ctx context.Context,
	ac *framework.AgentContext,
	proof *api.ProofRecord,
) (to framework.Recipient, err error) {
	to = framework.Recipient{Key: proof.TheirVerkey, Endpoint: proof.ServiceEndpoint}
	if proof.Connectionless || proof.ConnectionID == "" {
		return to, nil
	}
	conn, err := n.FW.GetConnection(ctx, ac, proof.ConnectionID)
	if err != nil {
		return to, err
	}
	if to.Key == "" {
		to.Key = conn.TheirVerkey
	}
	if to.Endpoint == "" {
		to.Endpoint = conn.Endpoint.URI
	}
	to.RoutingKeys = conn.Endpoint.RoutingKeys
	return to, nil
}
