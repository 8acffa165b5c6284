package api

import (
	"strings"

	"github.com/golang/glog"
)

type DIDMethod string

const (
	DIDMethodPrefix                = "did:"
	DIDMethodKey         DIDMethod = DIDMethodPrefix + "key"
	DIDMethodPeer        DIDMethod = DIDMethodPrefix + "peer"
	DIDMethodSov         DIDMethod = DIDMethodPrefix + "sov"
	DIDMethodUnsupported DIDMethod = "unsupported"
)

// DID is our own pairwise DID. Doc holds the JSON of the DID document.
type DID struct {
	ID     string // ID is the key. Use real DID value for that
	DID    string
	KID    string
	Verkey string // base58 encoded ED25519 public key
	Doc    []byte
}

func (d *DID) Method() DIDMethod {
	methods := []DIDMethod{
		DIDMethodKey, DIDMethodPeer, DIDMethodSov,
	}
	for _, method := range methods {
		if strings.HasPrefix(d.DID, string(method)) {
			return method
		}
	}
	glog.Warningf("DID method not found for %s", d.DID)
	return DIDMethodUnsupported
}
