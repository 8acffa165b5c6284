package presentproof

import (
	"context"
	"errors"
	"flag"
	"os"
	"testing"
	"time"

	"github.com/findy-network/findy-edge-agent/agent/auth"
	"github.com/findy-network/findy-edge-agent/agent/bus"
	"github.com/findy-network/findy-edge-agent/agent/framework"
	"github.com/findy-network/findy-edge-agent/agent/storage/api"
	"github.com/findy-network/findy-edge-agent/protocol"
	"github.com/findy-network/findy-edge-agent/protocol/invitation"
	"github.com/golang/mock/gomock"
	"github.com/lainio/err2/assert"
	"github.com/lainio/err2/try"
)

var (
	ac = &framework.AgentContext{WalletID: "wallet", DID: "did:peer:1abc"}

	requestJSON string
)

func TestMain(m *testing.M) {
	try.To(flag.Set("logtostderr", "true"))
	try.To(flag.Set("stderrthreshold", "WARNING"))
	flag.Parse()
	requestJSON = string(try.To1(os.ReadFile("test_data/proof-request.json")))
	os.Exit(m.Run())
}

func proof(state api.ProofState) *api.ProofRecord {
	return &api.ProofRecord{
		ID:              "proof1",
		RequestJSON:     requestJSON,
		State:           state,
		TheirVerkey:     "verifier-key",
		ServiceEndpoint: "http://verifier",
		Connectionless:  true,
	}
}

type denyGate struct{}

func (denyGate) Authenticate(context.Context, string) error {
	return auth.ErrAuthenticationFailed
}

func newNegotiator(t *testing.T, fw framework.Framework) *Negotiator {
	t.Helper()
	n, err := New(protocol.Deps{FW: fw, Gate: auth.AlwaysAllow{}, Bus: bus.New()}, proof(api.ProofRequested))
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func field(n *Negotiator, referent string) Field {
	f, ok := n.Request().Field(referent)
	if !ok {
		panic("no field " + referent)
	}
	return f
}

// selectFor expands the field and selects the credential for it.
func selectFor(n *Negotiator, referent, credID string) {
	f := field(n, referent)
	if open, _ := n.Expanded(); open.Referent != referent {
		try.To1(n.Expand(f))
	}
	try.To(n.SelectCredential(api.CredentialRecord{ID: credID}))
}

func TestParseRequest(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	req, err := ParseRequest(requestJSON)
	assert.NoError(err)
	assert.Equal(req.Name, "employment check")
	assert.Equal(req.Len(), 3)
	assert.Equal(req.Attributes[0].Referent, "attr1_referent")
	assert.Equal(req.Attributes[0].Name, "email")
	assert.DeepEqual(req.Attributes[0].CredDefIDs(), []string{"cd1"})
	assert.Equal(len(req.Attributes[1].CredDefIDs()), 0)

	pred := req.Predicates[0]
	assert.That(pred.Predicate)
	assert.Equal(pred.PType, ">=")
	assert.Equal(pred.PValue, int64(18))
	assert.DeepEqual(pred.CredDefIDs(), []string{"cd2", "cd3"})
	assert.Equal(pred.String(), "age >= 18")

	_, err = ParseRequest("{not json")
	assert.Error(err)

	_, err = New(protocol.Deps{}, &api.ProofRecord{RequestJSON: "{"})
	assert.Error(err)
}

func TestExpand_SingleOpen(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	n := newNegotiator(t, nil)
	a, b := field(n, "attr1_referent"), field(n, "attr2_referent")

	open, err := n.Expand(a)
	assert.NoError(err)
	assert.That(open)
	assert.NoError(n.SelectCredential(api.CredentialRecord{ID: "cred-a"}))
	_, isOpen := n.Expanded()
	assert.ThatNot(isOpen) // selecting collapses

	try.To1(n.Expand(a))
	open, err = n.Expand(b)
	assert.NoError(err)
	assert.That(open)
	cur, _ := n.Expanded()
	assert.Equal(cur.Referent, b.Referent)

	ra, ok := n.Selected(a)
	assert.That(ok)
	assert.Equal(ra.CredentialID, "cred-a")

	open, err = n.Expand(b) // toggle closes
	assert.NoError(err)
	assert.ThatNot(open)

	_, err = n.Expand(Field{Referent: "nope"})
	assert.That(errors.Is(err, ErrUnknownField))
	assert.That(errors.Is(n.SelectCredential(api.CredentialRecord{ID: "x"}), ErrNotExpanded))
}

func TestSelectCredential(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	n := newNegotiator(t, nil)
	ch, unsubscribe := n.Bus.Subscribe(bus.ProofRequestAttributeUpdated)
	defer unsubscribe()

	selectFor(n, "attr1_referent", "cred1")
	first, _ := n.Selected(field(n, "attr1_referent"))
	assert.That(first.Revealed)
	assert.That(first.Timestamp > 0)

	select {
	case note := <-ch:
		assert.Equal(note.RecordID, "proof1")
	case <-time.After(time.Second):
		t.Fatal("no notification")
	}

	time.Sleep(2 * time.Millisecond)
	selectFor(n, "attr1_referent", "cred1") // same credential: no-op
	again, _ := n.Selected(field(n, "attr1_referent"))
	assert.Equal(again.Timestamp, first.Timestamp)

	selectFor(n, "attr1_referent", "cred2")
	other, _ := n.Selected(field(n, "attr1_referent"))
	assert.Equal(other.CredentialID, "cred2")

	selectFor(n, "pred1_referent", "cred3")
	pred, ok := n.Selected(field(n, "pred1_referent"))
	assert.That(ok)
	assert.ThatNot(pred.Revealed)
}

func TestToggleRevealed(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	n := newNegotiator(t, nil)
	attr := field(n, "attr1_referent")
	pred := field(n, "pred1_referent")

	orig := n.Revealed(attr)
	assert.That(orig)
	v, err := n.ToggleRevealed(attr)
	assert.NoError(err)
	assert.ThatNot(v)

	selectFor(n, "attr1_referent", "cred1")
	ra, _ := n.Selected(attr)
	assert.ThatNot(ra.Revealed)

	v, err = n.ToggleRevealed(attr)
	assert.NoError(err)
	assert.Equal(v, orig)
	ra, _ = n.Selected(attr)
	assert.Equal(ra.Revealed, orig)

	_, err = n.ToggleRevealed(pred)
	assert.That(errors.Is(err, ErrNotAttribute))
	assert.ThatNot(n.Revealed(pred))

	// even a forced flag never reveals a predicate
	selectFor(n, "pred1_referent", "cred3")
	n.preds["pred1_referent"] = framework.RequestedAttribute{CredentialID: "cred3", Revealed: true}
	rc := n.RequestedCredentials()
	assert.ThatNot(rc.RequestedPredicates["pred1_referent"].Revealed)
	assert.That(rc.RequestedAttributes["attr1_referent"].Revealed)
}

func TestFilterCredentialRecords(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	creds := []api.CredentialRecord{
		{ID: "1", CredDefID: "cd1", State: api.CredentialIssued},
		{ID: "2", CredDefID: "cd2", State: api.CredentialIssued},
		{ID: "3", CredDefID: "cd1", State: api.CredentialOffered},
		{ID: "4", CredDefID: "cd3", State: api.CredentialIssued},
	}
	ctrl := gomock.NewController(t)
	fw := framework.NewMockFramework(ctrl)
	fw.EXPECT().GetContext(gomock.Any()).Return(ac, nil).AnyTimes()
	fw.EXPECT().ListCredentials(gomock.Any(), ac).Return(creds, nil).AnyTimes()

	n := newNegotiator(t, fw)
	tests := []struct {
		referent string
		want     []string
	}{
		{"attr1_referent", []string{"1"}},
		{"attr2_referent", []string{"1", "2", "4"}},
		{"pred1_referent", []string{"2", "4"}},
	}
	for _, tt := range tests {
		t.Run(tt.referent, func(t *testing.T) {
			assert.PushTester(t)
			defer assert.PopTester()

			got, err := n.FilterCredentialRecords(context.Background(), field(n, tt.referent))
			assert.NoError(err)
			ids := make([]string, 0, len(got))
			for _, c := range got {
				ids = append(ids, c.ID)
			}
			assert.DeepEqual(ids, tt.want)
		})
	}
}

func TestSubmit(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	msg := &framework.Message{ID: "pres1"}
	ctrl := gomock.NewController(t)
	fw := framework.NewMockFramework(ctrl)
	fw.EXPECT().GetContext(gomock.Any()).Return(ac, nil).AnyTimes()
	fw.EXPECT().GetProof(gomock.Any(), ac, "proof1").Return(proof(api.ProofRequested), nil).Times(2)

	var got framework.RequestedCredentials
	fw.EXPECT().CreatePresentation(gomock.Any(), ac, "proof1", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *framework.AgentContext, _ string, rc framework.RequestedCredentials) (*framework.Message, *api.ProofRecord, error) {
			got = rc
			return msg, proof(api.ProofRequested), nil
		})
	fw.EXPECT().SendMessage(gomock.Any(), ac, msg,
		framework.Recipient{Key: "verifier-key", Endpoint: "http://verifier"}, false).Return(nil, nil)
	fw.EXPECT().MarkProofAccepted(gomock.Any(), ac, "proof1").Return(nil)

	n := newNegotiator(t, fw)
	ch, unsubscribe := n.Bus.Subscribe(bus.ProofRequestUpdated)
	defer unsubscribe()

	selectFor(n, "attr1_referent", "cred1")
	selectFor(n, "pred1_referent", "cred3")

	// N+M-1 selections
	err := n.Submit(context.Background())
	assert.That(errors.Is(err, ErrIncompleteSelection))
	assert.Equal(framework.UserMessage(err), "Some proof attributes are missing")
	assert.Equal(n.Proof().State, api.ProofRequested)

	selectFor(n, "attr2_referent", "cred2")
	try.To1(n.ToggleRevealed(field(n, "attr2_referent")))
	assert.NoError(n.Submit(context.Background()))

	assert.Equal(len(got.RequestedAttributes), 2)
	assert.Equal(len(got.RequestedPredicates), 1)
	assert.That(got.RequestedAttributes["attr1_referent"].Revealed)
	assert.ThatNot(got.RequestedAttributes["attr2_referent"].Revealed)
	assert.ThatNot(got.RequestedPredicates["pred1_referent"].Revealed)
	assert.Equal(n.Proof().State, api.ProofAccepted)

	select {
	case note := <-ch:
		assert.Equal(note.RecordID, "proof1")
	case <-time.After(time.Second):
		t.Fatal("no notification")
	}

	assert.That(errors.Is(n.Submit(context.Background()), ErrClosed))
}

func selectAll(n *Negotiator) {
	selectFor(n, "attr1_referent", "cred1")
	selectFor(n, "attr2_referent", "cred2")
	selectFor(n, "pred1_referent", "cred3")
}

func TestSubmit_Failures(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	t.Run("wrong state", func(t *testing.T) {
		assert.PushTester(t)
		defer assert.PopTester()

		ctrl := gomock.NewController(t)
		fw := framework.NewMockFramework(ctrl)
		fw.EXPECT().GetContext(gomock.Any()).Return(ac, nil)
		fw.EXPECT().GetProof(gomock.Any(), ac, "proof1").Return(proof(api.ProofAccepted), nil)

		n := newNegotiator(t, fw)
		selectAll(n)
		err := n.Submit(context.Background())
		assert.That(errors.Is(err, api.ErrWrongState))
		assert.Equal(framework.UserMessage(err), "Proof state should be Requested")
	})
	t.Run("authentication", func(t *testing.T) {
		assert.PushTester(t)
		defer assert.PopTester()

		ctrl := gomock.NewController(t)
		fw := framework.NewMockFramework(ctrl)
		fw.EXPECT().GetContext(gomock.Any()).Return(ac, nil)
		fw.EXPECT().GetProof(gomock.Any(), ac, "proof1").Return(proof(api.ProofRequested), nil)

		n := newNegotiator(t, fw)
		n.Gate = denyGate{}
		selectAll(n)
		assert.That(errors.Is(n.Submit(context.Background()), auth.ErrAuthenticationFailed))
	})
	t.Run("no gate", func(t *testing.T) {
		assert.PushTester(t)
		defer assert.PopTester()

		ctrl := gomock.NewController(t)
		fw := framework.NewMockFramework(ctrl)
		fw.EXPECT().GetContext(gomock.Any()).Return(ac, nil)
		fw.EXPECT().GetProof(gomock.Any(), ac, "proof1").Return(proof(api.ProofRequested), nil)

		n := newNegotiator(t, fw)
		n.Gate = nil
		selectAll(n)
		assert.That(errors.Is(n.Submit(context.Background()), auth.ErrCancelled))
		assert.Equal(n.Proof().State, api.ProofRequested)
	})
	t.Run("send fails, retry works", func(t *testing.T) {
		assert.PushTester(t)
		defer assert.PopTester()

		msg := &framework.Message{ID: "pres1"}
		ctrl := gomock.NewController(t)
		fw := framework.NewMockFramework(ctrl)
		fw.EXPECT().GetContext(gomock.Any()).Return(ac, nil).AnyTimes()
		fw.EXPECT().GetProof(gomock.Any(), ac, "proof1").Return(proof(api.ProofRequested), nil).Times(2)
		fw.EXPECT().CreatePresentation(gomock.Any(), ac, "proof1", gomock.Any()).
			Return(msg, proof(api.ProofRequested), nil).Times(2)
		gomock.InOrder(
			fw.EXPECT().SendMessage(gomock.Any(), ac, msg, gomock.Any(), false).
				Return(nil, errors.New("connection refused")),
			fw.EXPECT().SendMessage(gomock.Any(), ac, msg, gomock.Any(), false).Return(nil, nil),
			fw.EXPECT().MarkProofAccepted(gomock.Any(), ac, "proof1").Return(nil),
		)

		n := newNegotiator(t, fw)
		selectAll(n)
		assert.Error(n.Submit(context.Background()))
		assert.Equal(n.Proof().State, api.ProofRequested)
		assert.NoError(n.Submit(context.Background()))
	})
}

func TestReject(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	ctrl := gomock.NewController(t)
	fw := framework.NewMockFramework(ctrl)
	fw.EXPECT().GetContext(gomock.Any()).Return(ac, nil)
	fw.EXPECT().GetProof(gomock.Any(), ac, "proof1").Return(proof(api.ProofRequested), nil)
	fw.EXPECT().RejectProof(gomock.Any(), ac, "proof1").Return(nil)

	n := newNegotiator(t, fw)
	assert.NoError(n.Reject(context.Background()))
	assert.Equal(n.Proof().State, api.ProofRejected)
	_, err := n.Expand(field(n, "attr1_referent"))
	assert.That(errors.Is(err, ErrClosed))
}

func TestSelectCredential_AfterClose(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	ctrl := gomock.NewController(t)
	fw := framework.NewMockFramework(ctrl)
	fw.EXPECT().GetContext(gomock.Any()).Return(ac, nil)
	fw.EXPECT().GetProof(gomock.Any(), ac, "proof1").Return(proof(api.ProofRequested), nil)
	fw.EXPECT().RejectProof(gomock.Any(), ac, "proof1").Return(nil)

	n := newNegotiator(t, fw)
	a := field(n, "attr1_referent")
	try.To1(n.Expand(a))
	assert.NoError(n.Reject(context.Background()))
	_, isOpen := n.Expanded()
	assert.ThatNot(isOpen)

	ch, unsubscribe := n.Bus.Subscribe(bus.ProofRequestAttributeUpdated)
	defer unsubscribe()

	n.expanded = a.Referent // picker left open by the UI
	err := n.SelectCredential(api.CredentialRecord{ID: "cred1"})
	assert.That(errors.Is(err, ErrClosed))
	_, ok := n.Selected(a)
	assert.ThatNot(ok)
	_, isOpen = n.Expanded()
	assert.ThatNot(isOpen)

	select {
	case note := <-ch:
		t.Fatal("unexpected notification", note)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestFromInvitation(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	inv := &invitation.ProofRequest{
		ID:      "thread1",
		Request: requestJSON,
		Service: &invitation.Service{
			RecipientKeys:   []string{"verifier-key"},
			ServiceEndpoint: "http://verifier",
		},
	}
	ctrl := gomock.NewController(t)
	fw := framework.NewMockFramework(ctrl)
	fw.EXPECT().GetContext(gomock.Any()).Return(ac, nil)
	fw.EXPECT().AddProof(gomock.Any(), ac, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *framework.AgentContext, rec api.ProofRecord) (*api.ProofRecord, error) {
			return &rec, nil
		})

	n, err := FromInvitation(context.Background(), protocol.Deps{FW: fw}, inv)
	assert.NoError(err)
	p := n.Proof()
	assert.That(p.Connectionless)
	assert.Equal(p.ThreadID, "thread1")
	assert.Equal(p.TheirVerkey, "verifier-key")
	assert.Equal(p.ServiceEndpoint, "http://verifier")
	assert.Equal(p.State, api.ProofRequested)
	assert.SNotEmpty(n.Request().Attributes)
}
