// Package vdr is the DID resolver of the edge agent. Peer DID documents of
// our own and of the other ends of our connections are kept in the wallet.
package vdr

import (
	"github.com/hyperledger/aries-framework-go/pkg/doc/did"
	"github.com/hyperledger/aries-framework-go/pkg/framework/aries/api/vdr"
	registry "github.com/hyperledger/aries-framework-go/pkg/vdr"
	"github.com/hyperledger/aries-framework-go/pkg/vdr/key"
	"github.com/hyperledger/aries-framework-go/pkg/vdr/peer"
	"github.com/hyperledger/aries-framework-go/spi/storage"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

type VDR struct {
	registry vdr.Registry

	keyVDR  vdr.VDR
	peerVDR vdr.VDR
}

// New returns the did:key and did:peer resolvers. The peer documents are
// stored to the "peer" store of the provider.
func New(store storage.Provider) (v *VDR, err error) {
	defer err2.Handle(&err, "vdr new")

	v = &VDR{
		keyVDR:  &key.VDR{},
		peerVDR: try.To1(peer.New(store)),
	}
	v.registry = registry.New(
		registry.WithVDR(v.keyVDR),
		registry.WithVDR(v.peerVDR),
	)
	return v, nil
}

// Save stores the peer DID document as it is.
func (v *VDR) Save(doc *did.Doc) (err error) {
	defer err2.Handle(&err, "save %s", doc.ID)

	_ = try.To1(v.peerVDR.Create(doc, vdr.WithOption("store", true)))
	return nil
}

// Resolve returns the DID document of the did:peer or did:key.
func (v *VDR) Resolve(id string) (doc *did.Doc, err error) {
	defer err2.Handle(&err, "resolve %s", id)

	res := try.To1(v.registry.Resolve(id))
	return res.DIDDocument, nil
}

func (v *VDR) Key() vdr.VDR {
	return v.keyVDR
}

func (v *VDR) Peer() vdr.VDR {
	return v.peerVDR
}

func (v *VDR) Registry() vdr.Registry {
	return v.registry
}
