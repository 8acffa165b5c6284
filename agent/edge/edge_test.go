package edge

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/findy-network/findy-edge-agent/agent/comm"
	"github.com/findy-network/findy-edge-agent/agent/framework"
	"github.com/findy-network/findy-edge-agent/agent/storage/api"
	"github.com/findy-network/findy-edge-agent/protocol/invitation"
	"github.com/hyperledger/aries-framework-go/pkg/didcomm/protocol/messagepickup"
	"github.com/lainio/err2/assert"
	"github.com/lainio/err2/try"
	"github.com/stretchr/testify/require"
)

const walletKey = "15308490f1e4026284594dd08d31291bc8ef2aeac730d0daf6ff87bb92d4336c"

const proofRequest = `{
  "name": "employment check",
  "version": "1.0",
  "nonce": "1234567890",
  "requested_attributes": {
    "attr1_referent": {"name": "email", "restrictions": [{"cred_def_id": "cd1"}]},
    "attr2_referent": {"name": "employer"}
  },
  "requested_predicates": {
    "pred1_referent": {"name": "age", "p_type": ">=", "p_value": 18}
  }
}`

func TestMain(m *testing.M) {
	try.To(flag.Set("logtostderr", "true"))
	try.To(flag.Set("stderrthreshold", "WARNING"))
	flag.Parse()
	os.Exit(m.Run())
}

// mailbox is a relay keeping the envelopes until they are picked up.
type mailbox struct {
	sync.Mutex
	boxes map[string][][]byte
}

func (mb *mailbox) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	consumer := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]

	mb.Lock()
	defer mb.Unlock()

	if strings.HasPrefix(r.URL.Path, "/response/") {
		mb.boxes[consumer] = append(mb.boxes[consumer], body)
		w.WriteHeader(http.StatusAccepted)
		return
	}
	batch := messagepickup.Batch{Type: messagepickup.BatchMsgType}
	for i, data := range mb.boxes[consumer] {
		batch.Messages = append(batch.Messages, &messagepickup.Message{
			ID:        consumer + string(rune('a'+i)),
			AddedTime: time.Now(),
			Message:   data,
		})
	}
	delete(mb.boxes, consumer)
	_ = json.NewEncoder(w).Encode(batch)
}

func newAgent(t *testing.T, name string) *Agent {
	a, err := Open(api.AgentStorageConfig{
		AgentKey: walletKey,
		AgentID:  name,
		FilePath: t.TempDir(),
	}, WithClient(comm.NewClient(comm.WithRetries(0))))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

// serve starts the agent's endpoint and provisions the agent with it.
func serve(t *testing.T, a *Agent, label string) string {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		msg, err := a.Unpack(body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		reply, err := a.Respond(r.Context(), msg)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if reply == nil {
			w.WriteHeader(http.StatusAccepted)
			return
		}
		_, _ = w.Write(reply)
	}))
	t.Cleanup(srv.Close)

	_, err := a.Provision(context.Background(), label, srv.URL)
	require.NoError(t, err)
	return srv.URL
}

type pair struct {
	faber, alice *Agent
	faberAC      *framework.AgentContext
	aliceAC      *framework.AgentContext
	relay        api.CloudAgentRecord
	aliceConn    *api.ConnectionRecord
	faberConn    *api.ConnectionRecord
}

// consume processes everything the relay holds for alice.
func (p *pair) consume(t *testing.T) int {
	ctx := context.Background()
	msgs, err := p.alice.ConsumeRelayMessages(ctx, p.aliceAC, p.relay)
	require.NoError(t, err)
	for _, m := range msgs {
		require.NoError(t, p.alice.Process(ctx, p.aliceAC, m))
	}
	return len(msgs)
}

// connect makes the connection from alice to faber. Faber's response goes
// through alice's relay.
func connect(t *testing.T) *pair {
	ctx := context.Background()
	p := &pair{faber: newAgent(t, "faber"), alice: newAgent(t, "alice")}
	faberURL := serve(t, p.faber, "Faber College")
	p.faberAC = try.To1(p.faber.GetContext(ctx))
	p.aliceAC = try.To1(p.alice.GetContext(ctx))
	_, err := p.alice.Provision(ctx, "Alice", "")
	require.NoError(t, err)

	relaySrv := httptest.NewServer(&mailbox{boxes: map[string][][]byte{}})
	t.Cleanup(relaySrv.Close)
	relay, err := p.alice.RegisterCloudAgent(ctx, p.aliceAC, &invitation.CloudAgentRegistration{
		Label: "relay",
		Endpoint: invitation.CloudAgentEndpoint{
			URI:              relaySrv.URL + "/pickup",
			ResponseEndpoint: relaySrv.URL + "/response",
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, relay.MyConsumerID)
	p.relay = *relay

	inv, err := p.faber.CreateInvitation(ctx, p.faberAC, "Faber College", "", faberURL)
	require.NoError(t, err)

	msg, rec, err := p.alice.CreateConnectionRequest(ctx, p.aliceAC, inv, relay.ResponseAddress())
	require.NoError(t, err)
	require.Equal(t, api.ConnectionRequested, rec.State)
	require.Equal(t, "Faber College", rec.Alias.Name)

	reply, err := p.alice.SendMessage(ctx, p.aliceAC, msg, framework.Recipient{
		Key:      inv.RecipientKeys[0],
		Endpoint: inv.ServiceEndpoint,
	}, false)
	require.NoError(t, err)
	require.Nil(t, reply)

	require.Equal(t, 1, p.consume(t))

	p.aliceConn, err = p.alice.GetConnection(ctx, p.aliceAC, rec.ID)
	require.NoError(t, err)
	require.Equal(t, api.ConnectionComplete, p.aliceConn.State)
	require.Equal(t, faberURL, p.aliceConn.Endpoint.URI)

	p.faberConn, err = p.faber.GetConnection(ctx, p.faberAC, rec.ID)
	require.NoError(t, err)
	require.Equal(t, api.ConnectionComplete, p.faberConn.State)
	require.Equal(t, "Alice", p.faberConn.Alias.Name)
	require.Equal(t, p.aliceConn.MyVerkey, p.faberConn.TheirVerkey)
	require.Equal(t, p.faberConn.MyVerkey, p.aliceConn.TheirVerkey)
	require.Equal(t, inv.RecipientKeys[0], p.faberConn.InvitationKey)
	return p
}

func TestGetContext(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	ctx := context.Background()
	a := newAgent(t, "ctx")
	ac := try.To1(a.GetContext(ctx))
	assert.That(strings.HasPrefix(ac.DID, "did:peer:"))
	assert.NotEmpty(ac.Verkey)
	assert.Equal(ac.WalletID, "ctx")

	again := try.To1(a.GetContext(ctx))
	assert.DeepEqual(again, ac)

	prov := try.To1(a.Provisioning(ctx, ac))
	assert.Equal(prov.MasterVerkey, ac.Verkey)
}

func TestConnection_ReturnRoute(t *testing.T) {
	ctx := context.Background()
	faber, alice := newAgent(t, "faber"), newAgent(t, "alice")
	url := serve(t, faber, "Faber College")
	faberAC := try.To1(faber.GetContext(ctx))
	aliceAC := try.To1(alice.GetContext(ctx))

	inv, err := faber.CreateInvitation(ctx, faberAC, "Faber College", "https://img/faber.png", url)
	require.NoError(t, err)
	require.Equal(t, invitation.TypeConnection, inv.Type)
	require.Len(t, inv.RecipientKeys, 1)

	msg, rec, err := alice.CreateConnectionRequest(ctx, aliceAC, inv, "")
	require.NoError(t, err)

	reply, err := alice.SendMessage(ctx, aliceAC, msg, framework.Recipient{
		Key:      inv.RecipientKeys[0],
		Endpoint: inv.ServiceEndpoint,
	}, true)
	require.NoError(t, err)
	require.NotNil(t, reply)
	require.Equal(t, TypeConnectionResponse, reply.Type)
	require.Equal(t, rec.ID, reply.ThreadID)

	conn, err := alice.ProcessConnectionResponse(ctx, aliceAC, reply)
	require.NoError(t, err)
	require.Equal(t, api.ConnectionComplete, conn.State)
	require.NotEmpty(t, conn.TheirDID)

	// the response is processed once
	_, err = alice.ProcessConnectionResponse(ctx, aliceAC, reply)
	require.ErrorIs(t, err, api.ErrWrongState)

	conns, err := faber.ListConnections(ctx, faberAC)
	require.NoError(t, err)
	require.Len(t, conns, 2) // the invitation and the connection
}

func TestConnectionResponse_WrongSigner(t *testing.T) {
	ctx := context.Background()
	faber, alice := newAgent(t, "faber"), newAgent(t, "alice")
	url := serve(t, faber, "Faber College")
	faberAC := try.To1(faber.GetContext(ctx))
	aliceAC := try.To1(alice.GetContext(ctx))

	inv := try.To1(faber.CreateInvitation(ctx, faberAC, "Faber College", "", url))

	// alice expects the response to be signed by a key faber doesn't have
	forged := *inv
	forged.RecipientKeys = []string{try.To1(alice.newDID("")).Verkey}
	msg, _, err := alice.CreateConnectionRequest(ctx, aliceAC, &forged, "")
	require.NoError(t, err)

	reply, err := alice.SendMessage(ctx, aliceAC, msg, framework.Recipient{
		Key:      inv.RecipientKeys[0],
		Endpoint: url,
	}, true)
	require.NoError(t, err)
	require.NotNil(t, reply)

	_, err = alice.ProcessConnectionResponse(ctx, aliceAC, reply)
	require.Error(t, err)
}

func TestTrustPing(t *testing.T) {
	ctx := context.Background()
	p := connect(t)

	ping, err := p.alice.CreateTrustPing(ctx, p.aliceAC, p.aliceConn.ID)
	require.NoError(t, err)
	_, err = p.alice.SendMessage(ctx, p.aliceAC, ping, recipientOf(p.aliceConn), false)
	require.NoError(t, err)

	require.Equal(t, 1, p.consume(t))

	_, err = p.alice.CreateTrustPing(ctx, p.aliceAC, "unknown")
	require.ErrorIs(t, err, api.ErrNotFound)
}

func TestCredentialAndProof(t *testing.T) {
	ctx := context.Background()
	p := connect(t)

	offered, err := p.faber.OfferCredential(ctx, p.faberConn.ID,
		"Th7MpTaRZVRYnPiabds81Y:2:employment:1.0", "cd1",
		[]api.CredentialAttribute{
			{Name: "email", Value: "alice@example.com"},
			{Name: "employer", Value: "Faber"},
			{Name: "age", Value: "31"},
		})
	require.NoError(t, err)

	// the issuer's own records aren't listed
	creds, err := p.faber.ListCredentials(ctx, p.faberAC)
	require.NoError(t, err)
	require.Len(t, creds, 0)

	require.Equal(t, 1, p.consume(t))
	cred, err := p.alice.GetCredential(ctx, p.aliceAC, offered.ID)
	require.NoError(t, err)
	require.Equal(t, api.CredentialOffered, cred.State)
	require.Equal(t, "employment 1.0", cred.Name())
	require.Equal(t, p.aliceConn.ID, cred.ConnectionID)
	require.Equal(t, p.aliceConn.TheirVerkey, cred.TheirVerkey)
	require.Equal(t, p.aliceConn.InvitationKey, cred.Tags[api.TagInvitationKey])

	msg, cred, err := p.alice.CreateCredentialRequest(ctx, p.aliceAC, cred.ID)
	require.NoError(t, err)
	require.Equal(t, api.CredentialOffered, cred.State)
	_, err = p.alice.SendMessage(ctx, p.aliceAC, msg, recipientOf(p.aliceConn), false)
	require.NoError(t, err)

	// the issue is processed before the request is marked sent
	require.Equal(t, 1, p.consume(t))
	cred, err = p.alice.MarkCredentialRequested(ctx, p.aliceAC, cred.ID)
	require.NoError(t, err)
	require.Equal(t, api.CredentialIssued, cred.State)

	_, _, err = p.alice.CreateCredentialRequest(ctx, p.aliceAC, cred.ID)
	require.ErrorIs(t, err, api.ErrWrongState)

	cred, err = p.alice.GetCredential(ctx, p.aliceAC, cred.ID)
	require.NoError(t, err)
	require.Equal(t, api.CredentialIssued, cred.State)
	email, found := cred.Value("email")
	require.True(t, found)
	require.Equal(t, "alice@example.com", email)

	requested, err := p.faber.RequestProof(ctx, p.faberConn.ID, proofRequest)
	require.NoError(t, err)
	require.Equal(t, 1, p.consume(t))

	proofs, err := p.alice.ListProofs(ctx, p.aliceAC)
	require.NoError(t, err)
	require.Len(t, proofs, 1)
	proof := proofs[0]
	require.Equal(t, api.ProofRequested, proof.State)
	require.Equal(t, requested.ThreadID, proof.ThreadID)
	require.Equal(t, p.aliceConn.ID, proof.ConnectionID)

	rc := framework.RequestedCredentials{
		RequestedAttributes: map[string]framework.RequestedAttribute{
			"attr1_referent": framework.NewRequestedAttribute(cred.ID, true),
			"attr2_referent": framework.NewRequestedAttribute(cred.ID, false),
		},
		RequestedPredicates: map[string]framework.RequestedAttribute{
			"pred1_referent": framework.NewRequestedAttribute(cred.ID, false),
		},
	}
	msg, _, err = p.alice.CreatePresentation(ctx, p.aliceAC, proof.ID, rc)
	require.NoError(t, err)
	_, err = p.alice.SendMessage(ctx, p.aliceAC, msg, recipientOf(p.aliceConn), false)
	require.NoError(t, err)
	require.NoError(t, p.alice.MarkProofAccepted(ctx, p.aliceAC, proof.ID))
	require.ErrorIs(t, p.alice.RejectProof(ctx, p.aliceAC, proof.ID), api.ErrWrongState)

	verified, err := p.faber.GetProof(ctx, p.faberAC, requested.ID)
	require.NoError(t, err)
	require.Equal(t, api.ProofAccepted, verified.State)

	var pres Presentation
	require.NoError(t, json.Unmarshal([]byte(verified.Tags[TagPresentation]), &pres))
	revealed := pres.Presentation.RequestedProof.RevealedAttrs
	require.Len(t, revealed, 1)
	require.Equal(t, "alice@example.com", revealed["attr1_referent"].Raw)
	require.Contains(t, pres.Presentation.RequestedProof.UnrevealedAttrs, "attr2_referent")
	require.Contains(t, pres.Presentation.RequestedProof.Predicates, "pred1_referent")
	require.Len(t, pres.Presentation.Identifiers, 1)

	require.Equal(t, 1, p.consume(t)) // ack
}

func TestRejectCredentialOffer(t *testing.T) {
	ctx := context.Background()
	p := connect(t)

	offered := try.To1(p.faber.OfferCredential(ctx, p.faberConn.ID,
		"Th7MpTaRZVRYnPiabds81Y:2:email:1.0", "cd1",
		[]api.CredentialAttribute{{Name: "email", Value: "alice@example.com"}}))
	require.Equal(t, 1, p.consume(t))

	cred, err := p.alice.RejectCredentialOffer(ctx, p.aliceAC, offered.ID)
	require.NoError(t, err)
	require.Equal(t, api.CredentialRejected, cred.State)

	_, err = p.alice.RejectCredentialOffer(ctx, p.aliceAC, offered.ID)
	require.ErrorIs(t, err, api.ErrWrongState)
}

func TestMarkCredentialRequested(t *testing.T) {
	ctx := context.Background()
	p := connect(t)

	offered := try.To1(p.faber.OfferCredential(ctx, p.faberConn.ID,
		"Th7MpTaRZVRYnPiabds81Y:2:email:1.0", "cd1",
		[]api.CredentialAttribute{{Name: "email", Value: "alice@example.com"}}))
	require.Equal(t, 1, p.consume(t))

	_, err := p.alice.MarkCredentialRequested(ctx, p.aliceAC, "unknown")
	require.Error(t, err)

	// a request which was never sent keeps the offer open
	_, cred, err := p.alice.CreateCredentialRequest(ctx, p.aliceAC, offered.ID)
	require.NoError(t, err)
	require.Equal(t, api.CredentialOffered, cred.State)

	cred, err = p.alice.MarkCredentialRequested(ctx, p.aliceAC, offered.ID)
	require.NoError(t, err)
	require.Equal(t, api.CredentialRequested, cred.State)

	_, err = p.alice.MarkCredentialRequested(ctx, p.aliceAC, offered.ID)
	require.ErrorIs(t, err, api.ErrWrongState)
	_, err = p.alice.RejectCredentialOffer(ctx, p.aliceAC, offered.ID)
	require.ErrorIs(t, err, api.ErrWrongState)
}

func TestCreatePresentation_Failures(t *testing.T) {
	ctx := context.Background()
	a := newAgent(t, "holder")
	ac := try.To1(a.GetContext(ctx))

	proof, err := a.AddProof(ctx, ac, api.ProofRecord{
		RequestJSON: proofRequest,
		State:       api.ProofRequested,
	})
	require.NoError(t, err)
	require.NotEmpty(t, proof.ID)

	offer := api.CredentialRecord{ID: "offered", State: api.CredentialOffered}
	require.NoError(t, a.Storage().CredentialStorage().AddCredential(offer))

	tests := []struct {
		name string
		rc   framework.RequestedCredentials
	}{
		{"unknown referent", framework.RequestedCredentials{
			RequestedAttributes: map[string]framework.RequestedAttribute{
				"nope": framework.NewRequestedAttribute("offered", true),
			},
		}},
		{"predicate as attribute", framework.RequestedCredentials{
			RequestedAttributes: map[string]framework.RequestedAttribute{
				"pred1_referent": framework.NewRequestedAttribute("offered", true),
			},
		}},
		{"credential not issued", framework.RequestedCredentials{
			RequestedAttributes: map[string]framework.RequestedAttribute{
				"attr1_referent": framework.NewRequestedAttribute("offered", true),
			},
		}},
		{"credential missing", framework.RequestedCredentials{
			RequestedPredicates: map[string]framework.RequestedAttribute{
				"pred1_referent": framework.NewRequestedAttribute("missing", false),
			},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := a.CreatePresentation(ctx, ac, proof.ID, tt.rc)
			require.Error(t, err)
		})
	}
}

func TestProcess_Unsupported(t *testing.T) {
	ctx := context.Background()
	a := newAgent(t, "holder")
	ac := try.To1(a.GetContext(ctx))

	msg := try.To1(framework.ParseMessage([]byte(`{"@type":"https://didcomm.org/unknown/1.0/x","@id":"1"}`)))
	require.Error(t, a.Process(ctx, ac, msg))

	msg = try.To1(framework.ParseMessage([]byte(`{"@type":"` + TypeProblemReport + `","@id":"2","description":{"code":"x","en":"failed"}}`)))
	require.NoError(t, a.Process(ctx, ac, msg))
}

func TestSendMessage_NoEndpoint(t *testing.T) {
	ctx := context.Background()
	a := newAgent(t, "holder")
	ac := try.To1(a.GetContext(ctx))

	ping := try.To1(framework.NewMessage(trustPing{Type: TypeTrustPing, ID: "1"}))
	_, err := a.SendMessage(ctx, ac, ping, framework.Recipient{Key: "key"}, false)
	require.ErrorIs(t, err, ErrNoEndpoint)
}

func TestConsumeRelayMessages_SkipsBroken(t *testing.T) {
	ctx := context.Background()
	a := newAgent(t, "holder")
	ac := try.To1(a.GetContext(ctx))

	them := newAgent(t, "them")
	themAC := try.To1(them.GetContext(ctx))

	ping := try.To1(framework.NewMessage(trustPing{Type: TypeTrustPing, ID: "1"}))
	good := try.To1(them.packager.Seal(ping, themAC.Verkey, ac.Verkey))
	notOurs := try.To1(them.packager.Seal(ping, themAC.Verkey, themAC.Verkey))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var pickup messagepickup.BatchPickup
		require.NoError(t, json.NewDecoder(r.Body).Decode(&pickup))
		require.Equal(t, messagepickup.BatchPickupMsgType, pickup.Type)
		require.True(t, strings.HasSuffix(r.URL.Path, "/consumer1"))
		_ = json.NewEncoder(w).Encode(messagepickup.Batch{
			Messages: []*messagepickup.Message{
				{ID: "1", Message: []byte(`{"not":"envelope"}`)},
				nil,
				{ID: "2", Message: notOurs},
				{ID: "3", Message: good},
			},
		})
	}))
	defer srv.Close()

	ca, err := a.RegisterCloudAgent(ctx, ac, &invitation.CloudAgentRegistration{
		Label:      "relay",
		ConsumerID: "consumer1",
		Endpoint:   invitation.CloudAgentEndpoint{URI: srv.URL + "/"},
	})
	require.NoError(t, err)
	require.Equal(t, srv.URL+"/", ca.Endpoint.ResponseEndpoint)
	require.Equal(t, srv.URL+"/consumer1", PickupURL(*ca))

	msgs, err := a.ConsumeRelayMessages(ctx, ac, *ca)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, themAC.Verkey, msgs[0].Sender)
	require.Equal(t, ac.Verkey, msgs[0].Recipient)

	cas := try.To1(a.ListCloudAgents(ctx, ac))
	require.Len(t, cas, 1)
	require.NoError(t, a.RemoveCloudAgent(ctx, ac, ca.ID))
	require.ErrorIs(t, a.RemoveCloudAgent(ctx, ac, ca.ID), api.ErrNotFound)
}

func TestEnvelope_Confidential(t *testing.T) {
	ctx := context.Background()
	alice, bob := newAgent(t, "alice"), newAgent(t, "bob")
	aliceAC := try.To1(alice.GetContext(ctx))
	bobAC := try.To1(bob.GetContext(ctx))

	offer := try.To1(framework.NewMessage(CredentialOffer{
		Type:     TypeCredentialOffer,
		ID:       "offer1",
		SchemaID: "Th7MpTaRZVRYnPiabds81Y:2:ssn:1.0",
		Preview: &credentialPreview{Attributes: []previewAttribute{
			{Name: "ssn", Value: "SSN-123-45-6789"},
		}},
	}))
	data, err := alice.packager.Seal(offer, aliceAC.Verkey, bobAC.Verkey)
	require.NoError(t, err)
	require.NotContains(t, string(data), "SSN-123-45-6789")
	require.NotContains(t, string(data), TypeCredentialOffer)

	msg, err := bob.Unpack(data)
	require.NoError(t, err)
	require.Equal(t, aliceAC.Verkey, msg.Sender)
	require.Equal(t, "offer1", msg.ID)
	require.Contains(t, string(msg.Body), "SSN-123-45-6789")

	// alice can't read what she sent to bob
	_, err = alice.Unpack(data)
	require.Error(t, err)

	// the sender key must be our own
	_, err = alice.packager.Seal(offer, bobAC.Verkey, bobAC.Verkey)
	require.Error(t, err)
}

func TestOffer_AttributedToAuthenticatedSender(t *testing.T) {
	ctx := context.Background()
	p := connect(t)
	mallory := newAgent(t, "mallory")
	malloryAC := try.To1(mallory.GetContext(ctx))

	offer := try.To1(framework.NewMessage(CredentialOffer{
		Type:      TypeCredentialOffer,
		ID:        "forged",
		SchemaID:  "Th7MpTaRZVRYnPiabds81Y:2:email:1.0",
		CredDefID: "cd1",
	}))
	// mallory can only seal with her own key, not with faber's
	_, err := mallory.packager.Seal(offer, p.faberConn.MyVerkey, p.aliceConn.MyVerkey)
	require.Error(t, err)

	data := try.To1(mallory.packager.Seal(offer, malloryAC.Verkey, p.aliceConn.MyVerkey))
	msg, err := p.alice.Unpack(data)
	require.NoError(t, err)
	require.NoError(t, p.alice.Process(ctx, p.aliceAC, msg))

	cred, err := p.alice.GetCredential(ctx, p.aliceAC, "forged")
	require.NoError(t, err)
	require.Empty(t, cred.ConnectionID)
	require.Equal(t, malloryAC.Verkey, cred.TheirVerkey)
}
