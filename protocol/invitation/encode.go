package invitation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/findy-network/findy-edge-agent/agent/utils"
)

// Encode builds the invitation URL: base?<marker><base64 JSON>.
func Encode(base string, inv *Invitation) (string, error) {
	var v any
	switch inv.Kind {
	case KindConnection:
		v = inv.Connection
	case KindCloudAgent:
		v = inv.CloudAgent
	case KindProofRequest:
		v = inv.ProofRequest
	default:
		return "", fmt.Errorf("%w: unknown kind %v", ErrInvalidFormat, inv.Kind)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + inv.Kind.Marker() + utils.EncodeB64(data), nil
}

// NewConnection wraps the connection invitation to the union.
func NewConnection(c *ConnectionInvitation) *Invitation {
	if c.Type == "" {
		c.Type = TypeConnection
	}
	return &Invitation{Kind: KindConnection, Connection: c}
}

func NewCloudAgent(c *CloudAgentRegistration) *Invitation {
	if c.Type == "" {
		c.Type = TypeCloudAgent
	}
	return &Invitation{Kind: KindCloudAgent, CloudAgent: c}
}

func NewProofRequest(p *ProofRequest) *Invitation {
	if p.Type == "" {
		p.Type = TypeProofRequest
	}
	return &Invitation{Kind: KindProofRequest, ProofRequest: p}
}
