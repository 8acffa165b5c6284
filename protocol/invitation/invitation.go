// Package invitation decodes scanned or deep-linked invitation URLs. An
// invitation is one of three messages: a connection invitation, a cloud agent
// registration or a connectionless proof request. The message type is told by
// a marker in the URL's query string.
package invitation

import (
	"errors"
	"fmt"

	"github.com/hyperledger/aries-framework-go/pkg/didcomm/protocol/decorator"
	"github.com/hyperledger/aries-framework-go/pkg/didcomm/protocol/legacyconnection"
)

const (
	MarkerCloudAgent   = "c_a_r="
	MarkerProofRequest = "m="
	MarkerConnection   = "c_i="
)

// Markers in the classification order.
var Markers = []string{MarkerCloudAgent, MarkerProofRequest, MarkerConnection}

const (
	TypeConnection   = "https://didcomm.org/connections/1.0/invitation"
	TypeCloudAgent   = "https://didcomm.org/cloud-agent/1.0/registration"
	TypeProofRequest = "https://didcomm.org/present-proof/1.0/request-presentation"
)

// ErrInvalidFormat is returned when the invitation cannot be decoded. The
// decoder never returns a partial invitation.
var ErrInvalidFormat = errors.New("invalid invitation")

type Kind int

const (
	KindConnection Kind = iota
	KindCloudAgent
	KindProofRequest
)

func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "ConnectionInvitation"
	case KindCloudAgent:
		return "CloudAgentRegistration"
	case KindProofRequest:
		return "ProofRequest"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Marker returns the query marker of the kind.
func (k Kind) Marker() string {
	switch k {
	case KindCloudAgent:
		return MarkerCloudAgent
	case KindProofRequest:
		return MarkerProofRequest
	}
	return MarkerConnection
}

// Classify tells the invitation kind by the markers in the raw text. A cloud
// agent marker anywhere wins. A proof request marker wins over connection
// invitation, but "m=" is so short that it's first looked as a query
// parameter name; otherwise base64 padding like "...Im0=" would match it.
func Classify(raw string) Kind {
	switch {
	case contains(raw, MarkerCloudAgent):
		return KindCloudAgent
	case isParam(raw, MarkerProofRequest):
		return KindProofRequest
	case isParam(raw, MarkerConnection):
		return KindConnection
	case contains(raw, MarkerProofRequest):
		return KindProofRequest
	default:
		return KindConnection
	}
}

// Invitation is a tagged union. Exactly one of the pointers matching Kind is
// set.
type Invitation struct {
	Kind Kind

	Connection   *ConnectionInvitation
	CloudAgent   *CloudAgentRegistration
	ProofRequest *ProofRequest
}

// Visitor has a method per invitation kind.
type Visitor interface {
	VisitConnection(inv *ConnectionInvitation) error
	VisitCloudAgent(reg *CloudAgentRegistration) error
	VisitProofRequest(req *ProofRequest) error
}

// Visit calls the visitor method of the invitation's kind.
func (inv *Invitation) Visit(v Visitor) error {
	switch inv.Kind {
	case KindConnection:
		return v.VisitConnection(inv.Connection)
	case KindCloudAgent:
		return v.VisitCloudAgent(inv.CloudAgent)
	case KindProofRequest:
		return v.VisitProofRequest(inv.ProofRequest)
	}
	return fmt.Errorf("%w: unknown kind %v", ErrInvalidFormat, inv.Kind)
}

// Label returns the display label of the invitation.
func (inv *Invitation) Label() string {
	switch inv.Kind {
	case KindConnection:
		return inv.Connection.Label
	case KindCloudAgent:
		return inv.CloudAgent.Label
	case KindProofRequest:
		return inv.ProofRequest.Comment
	}
	return ""
}

// ConnectionInvitation is the Aries connection invitation extended with the
// inviter image and the SSO flag.
type ConnectionInvitation struct {
	legacyconnection.Invitation

	ImageURL string `json:"imageUrl,omitempty"`

	// SSO tells that the inviter can reactivate an existing connection with
	// the same label.
	SSO bool `json:"sso,omitempty"`

	// Key is the invitation key sent in the SSO trigger. If it's empty the
	// first recipient key is used.
	Key string `json:"invitationKey,omitempty"`
}

// InvitationKey returns the key identifying this invitation.
func (c *ConnectionInvitation) InvitationKey() string {
	if c.Key != "" {
		return c.Key
	}
	if len(c.RecipientKeys) > 0 {
		return c.RecipientKeys[0]
	}
	return ""
}

func (c *ConnectionInvitation) validate() error {
	if len(c.RecipientKeys) == 0 || c.RecipientKeys[0] == "" {
		return fmt.Errorf("%w: recipient keys missing", ErrInvalidFormat)
	}
	if c.ServiceEndpoint == "" && c.DID == "" {
		return fmt.Errorf("%w: service endpoint missing", ErrInvalidFormat)
	}
	return nil
}

type CloudAgentEndpoint struct {
	URI              string `json:"uri"`
	ResponseEndpoint string `json:"responseEndpoint,omitempty"`
	TriggerEndpoint  string `json:"triggerEndpoint,omitempty"`
}

// CloudAgentRegistration is the offer of a relay to store and forward our
// inbound messages.
type CloudAgentRegistration struct {
	Type        string             `json:"@type,omitempty"`
	ID          string             `json:"@id,omitempty"`
	Label       string             `json:"label"`
	ImageURL    string             `json:"imageUrl,omitempty"`
	TheirVerkey string             `json:"verkey,omitempty"`
	ConsumerID  string             `json:"consumerId,omitempty"`
	Endpoint    CloudAgentEndpoint `json:"endpoint"`
}

func (c *CloudAgentRegistration) validate() error {
	if c.Label == "" {
		return fmt.Errorf("%w: label missing", ErrInvalidFormat)
	}
	if c.Endpoint.URI == "" {
		return fmt.Errorf("%w: endpoint missing", ErrInvalidFormat)
	}
	return nil
}

// Service is the ~service decorator of the connectionless messages.
type Service struct {
	RecipientKeys   []string `json:"recipientKeys"`
	RoutingKeys     []string `json:"routingKeys,omitempty"`
	ServiceEndpoint string   `json:"serviceEndpoint"`
}

// ProofRequest is a connectionless request-presentation message. The proof
// request document is either in the request field or in the first
// request_presentations~attach attachment.
type ProofRequest struct {
	Type    string                 `json:"@type,omitempty"`
	ID      string                 `json:"@id,omitempty"`
	Comment string                 `json:"comment,omitempty"`
	Request string                 `json:"request,omitempty"`
	Attach  []decorator.Attachment `json:"request_presentations~attach,omitempty"`
	Thread  *decorator.Thread      `json:"~thread,omitempty"`
	Service *Service               `json:"~service,omitempty"`
}

// RequestJSON returns the proof request document.
func (p *ProofRequest) RequestJSON() string {
	return p.Request
}

func (p *ProofRequest) validate() error {
	if p.Request == "" {
		return fmt.Errorf("%w: proof request missing", ErrInvalidFormat)
	}
	if p.Service == nil || len(p.Service.RecipientKeys) == 0 || p.Service.RecipientKeys[0] == "" {
		return fmt.Errorf("%w: service recipient keys missing", ErrInvalidFormat)
	}
	return nil
}
