// Package framework is the contract between the edge agent's protocol
// negotiators and the agent framework that owns the wallet, builds the
// protocol messages and processes the inbound ones. Negotiators only decide
// what to do and when; the framework does it.
package framework

//go:generate mockgen -package framework -destination mock_framework.go -source framework.go Framework

import (
	"context"
	"time"

	"github.com/findy-network/findy-edge-agent/agent/storage/api"
	"github.com/findy-network/findy-edge-agent/protocol/invitation"
)

// AgentContext identifies the wallet and the agent's own public DID the
// operations are made for.
type AgentContext struct {
	WalletID string
	DID      string
	Verkey   string
}

// Recipient is where a message is sent. Key is the recipient's verkey and
// Endpoint its service endpoint.
type Recipient struct {
	Key         string
	Endpoint    string
	RoutingKeys []string
}

type RequestedAttribute struct {
	CredentialID string
	Revealed     bool
	Timestamp    int64
}

// RequestedCredentials is the holder's answer to the proof request, keyed by
// the referents of the proof request.
type RequestedCredentials struct {
	RequestedAttributes    map[string]RequestedAttribute
	RequestedPredicates    map[string]RequestedAttribute
	SelfAttestedAttributes map[string]string
}

// NewRequestedAttribute returns the selection stamped with current time in
// milliseconds.
func NewRequestedAttribute(credID string, revealed bool) RequestedAttribute {
	return RequestedAttribute{
		CredentialID: credID,
		Revealed:     revealed,
		Timestamp:    time.Now().UnixMilli(),
	}
}

type Framework interface {
	GetContext(ctx context.Context) (*AgentContext, error)
	Provisioning(ctx context.Context, ac *AgentContext) (*api.ProvisioningRecord, error)

	ListConnections(ctx context.Context, ac *AgentContext) ([]api.ConnectionRecord, error)
	GetConnection(ctx context.Context, ac *AgentContext, id string) (*api.ConnectionRecord, error)
	// CreateConnectionRequest creates our pairwise DID and a connection
	// record in Requested state. Empty responseEndpoint means that the
	// response must come through the return route.
	CreateConnectionRequest(ctx context.Context, ac *AgentContext, inv *invitation.ConnectionInvitation, responseEndpoint string) (*Message, *api.ConnectionRecord, error)
	ProcessConnectionResponse(ctx context.Context, ac *AgentContext, msg *Message) (*api.ConnectionRecord, error)
	DeleteConnection(ctx context.Context, ac *AgentContext, id string) error
	CreateInvitation(ctx context.Context, ac *AgentContext, label string, imageURL string, endpoint string) (*invitation.ConnectionInvitation, error)
	CreateTrustPing(ctx context.Context, ac *AgentContext, connectionID string) (*Message, error)

	ListCredentials(ctx context.Context, ac *AgentContext) ([]api.CredentialRecord, error)
	GetCredential(ctx context.Context, ac *AgentContext, id string) (*api.CredentialRecord, error)
	// CreateCredentialRequest builds the request for the offer. The
	// credential stays Offered until MarkCredentialRequested.
	CreateCredentialRequest(ctx context.Context, ac *AgentContext, credentialID string) (*Message, *api.CredentialRecord, error)
	MarkCredentialRequested(ctx context.Context, ac *AgentContext, credentialID string) (*api.CredentialRecord, error)
	// RejectCredentialOffer moves the credential to Rejected state. Nothing
	// is sent to the issuer.
	RejectCredentialOffer(ctx context.Context, ac *AgentContext, credentialID string) (*api.CredentialRecord, error)

	ListProofs(ctx context.Context, ac *AgentContext) ([]api.ProofRecord, error)
	GetProof(ctx context.Context, ac *AgentContext, id string) (*api.ProofRecord, error)
	AddProof(ctx context.Context, ac *AgentContext, rec api.ProofRecord) (*api.ProofRecord, error)
	// CreatePresentation builds the presentation. The proof record state
	// isn't changed before MarkProofAccepted.
	CreatePresentation(ctx context.Context, ac *AgentContext, proofID string, rc RequestedCredentials) (*Message, *api.ProofRecord, error)
	MarkProofAccepted(ctx context.Context, ac *AgentContext, proofID string) error
	RejectProof(ctx context.Context, ac *AgentContext, proofID string) error

	// SendMessage sends the message. With returnRoute the other end answers
	// in the HTTP response, which is returned if there is one.
	SendMessage(ctx context.Context, ac *AgentContext, msg *Message, to Recipient, returnRoute bool) (*Message, error)

	RegisterCloudAgent(ctx context.Context, ac *AgentContext, reg *invitation.CloudAgentRegistration) (*api.CloudAgentRecord, error)
	ListCloudAgents(ctx context.Context, ac *AgentContext) ([]api.CloudAgentRecord, error)
	RemoveCloudAgent(ctx context.Context, ac *AgentContext, id string) error
	ConsumeRelayMessages(ctx context.Context, ac *AgentContext, ca api.CloudAgentRecord) ([]*Message, error)

	// Process hands an inbound message to the protocol handlers.
	Process(ctx context.Context, ac *AgentContext, msg *Message) error
}
