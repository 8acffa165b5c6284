package api

import (
	"github.com/hyperledger/aries-framework-go/pkg/kms"
	"github.com/hyperledger/aries-framework-go/spi/storage"
)

// ErrNotFound is returned by all Get functions when the record doesn't exist.
var ErrNotFound = storage.ErrDataNotFound

type AgentStorageConfig struct {
	AgentKey string
	AgentID  string
	FilePath string
}

// AgentStorage is the wallet of the edge agent. It holds keys and all of
// the protocol records. As a storage.Provider it serves the aries stores
// like the peer DID documents.
type AgentStorage interface {
	storage.Provider
	Open() error
	Close() error

	KMS() kms.KeyManager

	DIDStorage() DIDStorage
	ConnectionStorage() ConnectionStorage
	CredentialStorage() CredentialStorage
	ProofStorage() ProofStorage
	CloudAgentStorage() CloudAgentStorage
	ProvisioningStorage() ProvisioningStorage
}

type DIDStorage interface {
	AddDID(did DID) error
	GetDID(id string) (*DID, error)
}

type ConnectionStorage interface {
	AddConnection(conn ConnectionRecord) error
	GetConnection(id string) (*ConnectionRecord, error)
	ListConnections() ([]ConnectionRecord, error)
	DeleteConnection(id string) error
}

type CredentialStorage interface {
	AddCredential(cred CredentialRecord) error
	GetCredential(id string) (*CredentialRecord, error)
	ListCredentials() ([]CredentialRecord, error)
}

type ProofStorage interface {
	AddProof(proof ProofRecord) error
	GetProof(id string) (*ProofRecord, error)
	ListProofs() ([]ProofRecord, error)
}

type CloudAgentStorage interface {
	AddCloudAgent(rec CloudAgentRecord) error
	GetCloudAgent(id string) (*CloudAgentRecord, error)
	ListCloudAgents() ([]CloudAgentRecord, error)
	DeleteCloudAgent(id string) error
}

type ProvisioningStorage interface {
	SaveProvisioning(rec ProvisioningRecord) error
	// GetProvisioning returns ErrNotFound if the wallet isn't provisioned.
	GetProvisioning() (*ProvisioningRecord, error)
}
