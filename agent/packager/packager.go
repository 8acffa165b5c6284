// Package packager seals and opens the DIDComm envelopes of the edge agent.
// Outbound messages are packed with legacy authcrypt (RFC 0019) so only the
// recipient can read them and the recipient knows which key sent them.
package packager

import (
	"errors"

	"github.com/findy-network/findy-edge-agent/agent/framework"
	cryptoapi "github.com/hyperledger/aries-framework-go/pkg/crypto"
	"github.com/hyperledger/aries-framework-go/pkg/crypto/tinkcrypto"
	"github.com/hyperledger/aries-framework-go/pkg/didcomm/packager"
	"github.com/hyperledger/aries-framework-go/pkg/didcomm/packer"
	"github.com/hyperledger/aries-framework-go/pkg/didcomm/packer/anoncrypt"
	"github.com/hyperledger/aries-framework-go/pkg/didcomm/packer/authcrypt"
	legacy "github.com/hyperledger/aries-framework-go/pkg/didcomm/packer/legacy/authcrypt"
	"github.com/hyperledger/aries-framework-go/pkg/didcomm/transport"
	"github.com/hyperledger/aries-framework-go/pkg/doc/jose"
	"github.com/hyperledger/aries-framework-go/pkg/framework/aries/api/vdr"
	"github.com/hyperledger/aries-framework-go/pkg/kms"
	"github.com/hyperledger/aries-framework-go/spi/storage"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/mr-tron/base58"
)

var ErrNoSender = errors.New("envelope sender key missing")

// KeyStorage is the wallet the packer keys come from.
type KeyStorage interface {
	storage.Provider
	KMS() kms.KeyManager
}

type Packager struct {
	packager *packager.Packager
	storage  KeyStorage
	registry vdr.Registry
	packers  []packer.Packer
	crypto   cryptoapi.Crypto
}

func New(keyStorage KeyStorage, registry vdr.Registry) (p *Packager, err error) {
	defer err2.Handle(&err, "packager new")

	p = &Packager{
		storage:  keyStorage,
		registry: registry,
		crypto:   try.To1(tinkcrypto.New()),
	}

	// legacy authcrypt is the primary, the others are for unpacking
	p.packers = append(p.packers,
		legacy.New(p),
		try.To1(authcrypt.New(p, jose.A256CBCHS512)),
		try.To1(anoncrypt.New(p, jose.A256GCM)),
	)
	p.packager = try.To1(packager.New(p))

	return p, nil
}

// Seal packs the message from our sender verkey to the recipient verkey.
// Both are base58 encoded ED25519 keys and the sender's private key must
// be in our KMS.
func (p *Packager) Seal(msg *framework.Message, sender, recipient string) (_ []byte, err error) {
	defer err2.Handle(&err, "seal %s", msg)

	if sender == "" {
		return nil, ErrNoSender
	}
	return p.PackMessage(&transport.Envelope{
		MediaTypeProfile: transport.LegacyDIDCommV1Profile,
		Message:          msg.Body,
		FromKey:          try.To1(base58.Decode(sender)),
		ToKeys:           []string{recipient},
	})
}

// Open unpacks the envelope addressed to one of our keys. The sender of
// the returned message is the key the envelope was authenticated with.
func (p *Packager) Open(data []byte) (msg *framework.Message, err error) {
	defer err2.Handle(&err, "open envelope")

	env := try.To1(p.UnpackMessage(data))
	if len(env.FromKey) == 0 {
		return nil, ErrNoSender
	}
	msg = try.To1(framework.ParseMessage(env.Message))
	msg.Sender = base58.Encode(env.FromKey)
	msg.Recipient = base58.Encode(env.ToKey)
	return msg, nil
}

func (p *Packager) PackMessage(messageEnvelope *transport.Envelope) ([]byte, error) {
	return p.packager.PackMessage(messageEnvelope)
}

func (p *Packager) UnpackMessage(encMessage []byte) (*transport.Envelope, error) {
	return p.packager.UnpackMessage(encMessage)
}

func (p *Packager) Packers() []packer.Packer {
	return p.packers
}

func (p *Packager) PrimaryPacker() packer.Packer {
	return p.packers[0]
}

func (p *Packager) VDRegistry() vdr.Registry {
	return p.registry
}

func (p *Packager) KMS() kms.KeyManager {
	return p.storage.KMS()
}

func (p *Packager) Crypto() cryptoapi.Crypto {
	return p.crypto
}

func (p *Packager) StorageProvider() storage.Provider {
	return p.storage
}
