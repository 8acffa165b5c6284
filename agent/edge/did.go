package edge

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/findy-network/findy-edge-agent/agent/storage/api"
	"github.com/findy-network/findy-edge-agent/agent/utils"
	"github.com/golang/glog"
	"github.com/hyperledger/aries-framework-go/component/models/did/endpoint"
	"github.com/hyperledger/aries-framework-go/pkg/didcomm/protocol/legacyconnection"
	"github.com/hyperledger/aries-framework-go/pkg/doc/did"
	"github.com/hyperledger/aries-framework-go/pkg/kms"
	"github.com/hyperledger/aries-framework-go/pkg/vdr/peer"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/mr-tron/base58"
)

// newDID creates a did:peer with a new ED25519 key. The DID is stored by
// its verkey.
func (a *Agent) newDID(addr string) (d *api.DID, err error) {
	defer err2.Handle(&err, "new did:peer")

	keys := a.store.KMS()
	kid, pk := try.To2(keys.CreateAndExportPubKeyBytes(kms.ED25519))

	key := did.VerificationMethod{
		ID:    "1",
		Type:  "Ed25519VerificationKey2018",
		Value: pk,
	}
	doc := try.To1(peer.NewDoc(
		[]did.VerificationMethod{key},
		did.WithAuthentication([]did.Verification{{
			VerificationMethod: key,
			Embedded:           true,
		}}),
		did.WithService([]did.Service{{
			ID:              "didcomm",
			Type:            "did-communication",
			RecipientKeys:   []string{base58.Encode(pk)},
			ServiceEndpoint: endpoint.NewDIDCommV1Endpoint(addr),
		}}),
	))

	try.To(a.vdr.Save(doc))

	d = &api.DID{
		ID:     base58.Encode(pk),
		DID:    doc.ID,
		KID:    kid,
		Verkey: base58.Encode(pk),
		Doc:    try.To1(doc.JSONBytes()),
	}
	try.To(a.store.DIDStorage().AddDID(*d))
	return d, nil
}

func (a *Agent) didDoc(d *api.DID) (doc *did.Doc, err error) {
	defer err2.Handle(&err, "did doc %s", d.DID)
	return did.ParseDocument(d.Doc)
}

// theirDID is what we need from the other end's DID doc.
type theirDID struct {
	DID         string
	Verkey      string
	Endpoint    string
	RoutingKeys []string
}

func parseTheirDID(c *legacyconnection.Connection) (t theirDID, err error) {
	if c == nil || c.DIDDoc == nil {
		return t, fmt.Errorf("connection DID doc missing")
	}
	t.DID = c.DID
	if t.DID == "" {
		t.DID = c.DIDDoc.ID
	}
	if len(c.DIDDoc.Service) > 0 {
		s := c.DIDDoc.Service[0]
		t.Endpoint, _ = s.ServiceEndpoint.URI()
		t.RoutingKeys = s.RoutingKeys
		if len(s.RecipientKeys) > 0 {
			t.Verkey = s.RecipientKeys[0]
		}
	}
	if t.Verkey == "" && len(c.DIDDoc.VerificationMethod) > 0 {
		t.Verkey = base58.Encode(c.DIDDoc.VerificationMethod[0].Value)
	}
	if t.Verkey == "" {
		return t, fmt.Errorf("connection DID doc has no keys")
	}
	return t, nil
}

// saveTheirDoc keeps the other end's DID doc resolvable through our VDR.
func (a *Agent) saveTheirDoc(c *legacyconnection.Connection) error {
	if c.DIDDoc.ID == "" {
		glog.V(3).Infoln("their DID doc has no id, not saved:", c.DID)
		return nil
	}
	return a.vdr.Save(c.DIDDoc)
}

// signConnection builds the connection~sig of the response. The signed
// data is an 8 byte big endian timestamp followed by the connection JSON.
func (a *Agent) signConnection(signer *api.DID, c *legacyconnection.Connection) (sig *legacyconnection.ConnectionSignature, err error) {
	defer err2.Handle(&err, "sign connection")

	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, uint64(time.Now().Unix()))
	data = append(data, try.To1(json.Marshal(c))...)

	kh := try.To1(a.store.KMS().Get(signer.KID))
	signature := try.To1(a.crypto.Sign(data, kh))

	return &legacyconnection.ConnectionSignature{
		Type:       typeSignature,
		Signature:  utils.EncodeB64(signature),
		SignedData: utils.EncodeB64(data),
		SignVerKey: signer.Verkey,
	}, nil
}

// verifyConnection checks the signature made with the signer key and
// returns the signed connection.
func (a *Agent) verifyConnection(sig *legacyconnection.ConnectionSignature, signer string) (c *legacyconnection.Connection, err error) {
	defer err2.Handle(&err, "verify connection signature")

	if sig == nil {
		return nil, fmt.Errorf("signature missing")
	}
	if sig.SignVerKey != signer {
		return nil, fmt.Errorf("signed by %s, want %s", sig.SignVerKey, signer)
	}
	data := try.To1(utils.DecodeB64(sig.SignedData))
	signature := try.To1(utils.DecodeB64(sig.Signature))
	if len(data) <= 8 {
		return nil, fmt.Errorf("signed data too short")
	}

	pk := try.To1(base58.Decode(signer))
	kh := try.To1(a.store.KMS().PubKeyBytesToHandle(pk, kms.ED25519))
	try.To(a.crypto.Verify(signature, data, kh))

	c = new(legacyconnection.Connection)
	try.To(json.Unmarshal(data[8:], c))
	return c, nil
}
