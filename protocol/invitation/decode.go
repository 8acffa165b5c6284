package invitation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/findy-network/findy-edge-agent/agent/comm"
	"github.com/findy-network/findy-edge-agent/agent/utils"
	"github.com/golang/glog"
)

// Resolver resolves shortened URLs to the full invitation URLs.
type Resolver interface {
	Lengthen(ctx context.Context, url string, markers ...string) string
}

type Decoder struct {
	Resolver Resolver
}

var defaultDecoder = &Decoder{Resolver: comm.DefaultClient}

// Decode decodes the raw invitation with the default HTTP resolver.
func Decode(ctx context.Context, raw string) (*Invitation, error) {
	return defaultDecoder.Decode(ctx, raw)
}

// Decode classifies the raw text and decodes the base64 JSON payload after
// the matching marker. If the text has no query string it's first resolved
// through HTTP redirects.
func (d *Decoder) Decode(ctx context.Context, raw string) (inv *Invitation, err error) {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "?") && d.Resolver != nil {
		glog.V(3).Infoln("resolving short url:", raw)
		raw = d.Resolver.Lengthen(ctx, raw, Markers...)
	}

	kind := Classify(raw)
	payload, err := extract(raw, kind.Marker())
	if err != nil {
		return nil, err
	}
	data, err := utils.DecodeB64(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %v", ErrInvalidFormat, err)
	}

	inv = &Invitation{Kind: kind}
	switch kind {
	case KindCloudAgent:
		inv.CloudAgent, err = unmarshal[CloudAgentRegistration](data)
	case KindProofRequest:
		inv.ProofRequest, err = decodeProofRequest(data)
	default:
		inv.Connection, err = unmarshal[ConnectionInvitation](data)
	}
	if err != nil {
		return nil, err
	}
	glog.V(3).Infoln("decoded invitation:", kind, inv.Label())
	return inv, nil
}

type validator interface {
	validate() error
}

func unmarshal[T any, PT interface {
	*T
	validator
}](data []byte) (*T, error) {
	v := PT(new(T))
	if err := json.Unmarshal(data, v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if err := v.validate(); err != nil {
		return nil, err
	}
	return v, nil
}

func decodeProofRequest(data []byte) (*ProofRequest, error) {
	var p ProofRequest
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if p.Request == "" && len(p.Attach) > 0 {
		a := p.Attach[0].Data
		switch {
		case a.Base64 != "":
			d, err := utils.DecodeB64(a.Base64)
			if err != nil {
				return nil, fmt.Errorf("%w: attachment: %v", ErrInvalidFormat, err)
			}
			p.Request = string(d)
		case a.JSON != nil:
			d, err := json.Marshal(a.JSON)
			if err != nil {
				return nil, fmt.Errorf("%w: attachment: %v", ErrInvalidFormat, err)
			}
			p.Request = string(d)
		}
	}
	if p.Request != "" && !json.Valid([]byte(p.Request)) {
		return nil, fmt.Errorf("%w: proof request isn't JSON", ErrInvalidFormat)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// extract returns the value after the marker. The value ends at the next
// query parameter or fragment.
func extract(raw, marker string) (string, error) {
	i := index(raw, marker)
	if i < 0 {
		return "", fmt.Errorf("%w: %s not found", ErrInvalidFormat, strings.TrimSuffix(marker, "="))
	}
	v := raw[i+len(marker):]
	if end := strings.IndexAny(v, "&#"); end >= 0 {
		v = v[:end]
	}
	if uv, err := url.QueryUnescape(v); err == nil {
		v = uv
	}
	if v == "" {
		return "", fmt.Errorf("%w: empty payload", ErrInvalidFormat)
	}
	return v, nil
}

// index finds the marker as a query parameter name, i.e. after '?' or '&'.
// If there is no such, the first plain occurrence is used.
func index(raw, marker string) int {
	for _, sep := range []string{"?", "&"} {
		if i := strings.Index(raw, sep+marker); i >= 0 {
			return i + len(sep)
		}
	}
	return strings.Index(raw, marker)
}

func isParam(raw, marker string) bool {
	return strings.Contains(raw, "?"+marker) || strings.Contains(raw, "&"+marker)
}

func contains(raw, marker string) bool {
	return strings.Contains(raw, marker)
}
