package edge

import (
	"github.com/findy-network/findy-edge-agent/protocol/invitation"
	"github.com/hyperledger/aries-framework-go/pkg/didcomm/protocol/decorator"
)

const (
	didCommPrefix = "https://didcomm.org/"

	TypeConnectionRequest  = didCommPrefix + "connections/1.0/request"
	TypeConnectionResponse = didCommPrefix + "connections/1.0/response"

	TypeTrustPing         = didCommPrefix + "trust_ping/1.0/ping"
	TypeTrustPingResponse = didCommPrefix + "trust_ping/1.0/ping_response"

	TypeCredentialOffer   = didCommPrefix + "issue-credential/1.0/offer-credential"
	TypeCredentialRequest = didCommPrefix + "issue-credential/1.0/request-credential"
	TypeCredentialIssue   = didCommPrefix + "issue-credential/1.0/issue-credential"

	TypeProofRequest = didCommPrefix + "present-proof/1.0/request-presentation"
	TypePresentation = didCommPrefix + "present-proof/1.0/presentation"
	TypeProofAck     = didCommPrefix + "present-proof/1.0/ack"

	TypeProblemReport = didCommPrefix + "notification/1.0/problem-report"

	typeSignature = didCommPrefix + "signature/1.0/ed25519Sha512_single"
)

type trustPing struct {
	Type              string            `json:"@type"`
	ID                string            `json:"@id"`
	Comment           string            `json:"comment,omitempty"`
	ResponseRequested bool              `json:"response_requested"`
	Thread            *decorator.Thread `json:"~thread,omitempty"`
}

type previewAttribute struct {
	Name     string `json:"name"`
	MimeType string `json:"mime-type,omitempty"`
	Value    string `json:"value"`
}

type credentialPreview struct {
	Type       string             `json:"@type,omitempty"`
	Attributes []previewAttribute `json:"attributes"`
}

// CredentialOffer is the issuer's offer. Connectionless offers carry the
// issuer's service.
type CredentialOffer struct {
	Type      string              `json:"@type"`
	ID        string              `json:"@id"`
	Comment   string              `json:"comment,omitempty"`
	SchemaID  string              `json:"schema_id"`
	CredDefID string              `json:"cred_def_id"`
	Preview   *credentialPreview  `json:"credential_preview,omitempty"`
	Thread    *decorator.Thread   `json:"~thread,omitempty"`
	Service   *invitation.Service `json:"~service,omitempty"`
}

type credentialRequest struct {
	Type      string            `json:"@type"`
	ID        string            `json:"@id"`
	CredDefID string            `json:"cred_def_id"`
	ProverDID string            `json:"prover_did"`
	Thread    *decorator.Thread `json:"~thread"`
}

// CredentialIssue carries the issued values of the credential.
type CredentialIssue struct {
	Type   string             `json:"@type"`
	ID     string             `json:"@id"`
	Values []previewAttribute `json:"values"`
	Thread *decorator.Thread  `json:"~thread"`
}

// ProofRequest is the connection bound request-presentation message.
type ProofRequest struct {
	Type    string                 `json:"@type"`
	ID      string                 `json:"@id"`
	Comment string                 `json:"comment,omitempty"`
	Request string                 `json:"request,omitempty"`
	Attach  []decorator.Attachment `json:"request_presentations~attach,omitempty"`
	Thread  *decorator.Thread      `json:"~thread,omitempty"`
}

type revealedAttr struct {
	SubProofIndex int    `json:"sub_proof_index"`
	Raw           string `json:"raw"`
}

type subProof struct {
	SubProofIndex int `json:"sub_proof_index"`
}

type identifier struct {
	SchemaID  string `json:"schema_id"`
	CredDefID string `json:"cred_def_id"`
}

type requestedProof struct {
	RevealedAttrs   map[string]revealedAttr `json:"revealed_attrs"`
	UnrevealedAttrs map[string]subProof     `json:"unrevealed_attrs"`
	Predicates      map[string]subProof     `json:"predicates"`
}

type proofDocument struct {
	RequestedProof requestedProof `json:"requested_proof"`
	Identifiers    []identifier   `json:"identifiers"`
}

// Presentation is the holder's answer. The document has the references of
// the selected credentials and the revealed values.
type Presentation struct {
	Type         string            `json:"@type"`
	ID           string            `json:"@id"`
	Presentation proofDocument     `json:"presentation"`
	Thread       *decorator.Thread `json:"~thread"`
}

type problemReport struct {
	Type        string            `json:"@type"`
	ID          string            `json:"@id"`
	Description struct {
		Code string `json:"code"`
		En   string `json:"en"`
	} `json:"description"`
	Thread *decorator.Thread `json:"~thread,omitempty"`
}
