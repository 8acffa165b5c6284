package api

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrWrongState is the base error for actions that are tried against a
// record which isn't in the expected lifecycle state.
var ErrWrongState = errors.New("wrong state")

type WrongStateError struct {
	Record string
	Want   fmt.Stringer
	Got    fmt.Stringer
}

func (e *WrongStateError) Error() string {
	return fmt.Sprintf("%s state should be %s, was %s", e.Record, e.Want, e.Got)
}

func (e *WrongStateError) Unwrap() error {
	return ErrWrongState
}

type ConnectionState uint

const (
	ConnectionInvited ConnectionState = iota
	ConnectionRequested
	ConnectionResponded
	ConnectionComplete
	ConnectionError
	ConnectionAbandoned
)

func (s ConnectionState) String() string {
	switch s {
	case ConnectionInvited:
		return "Invited"
	case ConnectionRequested:
		return "Requested"
	case ConnectionResponded:
		return "Responded"
	case ConnectionComplete:
		return "Complete"
	case ConnectionError:
		return "Error"
	case ConnectionAbandoned:
		return "Abandoned"
	}
	return fmt.Sprintf("ConnectionState(%d)", uint(s))
}

func (s ConnectionState) IsTerminal() bool {
	return s == ConnectionError || s == ConnectionAbandoned
}

type Alias struct {
	Name     string
	ImageURL string
}

// Endpoint describes where the other end of the connection is reached. The
// ResponseEndpoint is used by cloud agents that relay our inbound traffic.
type Endpoint struct {
	URI              string
	ResponseEndpoint string
	Verkey           string
	RoutingKeys      []string
}

type ConnectionRecord struct {
	ID            string
	MyDID         string
	MyVerkey      string
	TheirDID      string
	TheirVerkey   string
	Alias         Alias
	Endpoint      Endpoint
	SSO           bool
	InvitationKey string
	State         ConnectionState
	CreatedAt     time.Time
}

type CredentialState uint

const (
	CredentialOffered CredentialState = iota
	CredentialRequested
	CredentialIssued
	CredentialRejected
)

func (s CredentialState) String() string {
	switch s {
	case CredentialOffered:
		return "Offered"
	case CredentialRequested:
		return "Requested"
	case CredentialIssued:
		return "Issued"
	case CredentialRejected:
		return "Rejected"
	}
	return fmt.Sprintf("CredentialState(%d)", uint(s))
}

// TagInvitationKey is the credential tag used as a recipient when the offer
// didn't carry a direct verkey.
const TagInvitationKey = "InvitationKey"

type CredentialAttribute struct {
	Name  string
	Value string
}

type CredentialRecord struct {
	ID           string
	ConnectionID string
	SchemaID     string
	CredDefID    string
	State        CredentialState
	Attributes   []CredentialAttribute
	OfferJSON    string
	TheirVerkey  string
	Endpoint     string
	Tags         map[string]string
	CreatedAt    time.Time
}

// Name returns the display name built from the schema ID, e.g. for
// "did:2:email:1.0" it's "email 1.0".
func (c *CredentialRecord) Name() string {
	parts := strings.Split(c.SchemaID, ":")
	if len(parts) < 4 {
		return c.SchemaID
	}
	return parts[2] + " " + parts[3]
}

// Value returns the attribute value by its name.
func (c *CredentialRecord) Value(name string) (string, bool) {
	for _, a := range c.Attributes {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// CheckState returns WrongStateError if the credential isn't in state s.
func (c *CredentialRecord) CheckState(s CredentialState) error {
	if c.State != s {
		return &WrongStateError{Record: "Credential", Want: s, Got: c.State}
	}
	return nil
}

type ProofState uint

const (
	ProofRequested ProofState = iota
	ProofAccepted
	ProofRejected
)

func (s ProofState) String() string {
	switch s {
	case ProofRequested:
		return "Requested"
	case ProofAccepted:
		return "Accepted"
	case ProofRejected:
		return "Rejected"
	}
	return fmt.Sprintf("ProofState(%d)", uint(s))
}

type ProofRecord struct {
	ID              string
	ConnectionID    string
	ThreadID        string
	RequestJSON     string
	State           ProofState
	TheirVerkey     string
	ServiceEndpoint string
	Connectionless  bool
	Tags            map[string]string
	CreatedAt       time.Time
}

// CheckState returns WrongStateError if the proof isn't in state s.
func (p *ProofRecord) CheckState(s ProofState) error {
	if p.State != s {
		return &WrongStateError{Record: "Proof", Want: s, Got: p.State}
	}
	return nil
}

// CloudAgentEndpoint is the relay's base address and its two sub paths. The
// ResponseEndpoint is given to the others as our inbound address, and the
// messages are fetched from the URI.
type CloudAgentEndpoint struct {
	URI              string
	ResponseEndpoint string
	TriggerEndpoint  string
}

type CloudAgentRecord struct {
	ID           string
	Label        string
	TheirVerkey  string
	MyConsumerID string
	Endpoint     CloudAgentEndpoint
	CreatedAt    time.Time
}

// ResponseAddress is the address other agents use to reach us through this
// relay.
func (c *CloudAgentRecord) ResponseAddress() string {
	return strings.TrimSuffix(c.Endpoint.ResponseEndpoint, "/") + "/" + c.MyConsumerID
}

type ProvisioningRecord struct {
	Label        string
	Endpoint     Endpoint
	MasterVerkey string
	PasscodeHash []byte
	CreatedAt    time.Time
}
