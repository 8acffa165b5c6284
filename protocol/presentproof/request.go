package presentproof

import (
	"fmt"

	"github.com/tidwall/gjson"
)

type Restriction struct {
	CredDefID string
}

// Field is a single requested attribute or predicate of the proof request.
// Referent is the request's internal key of the field, e.g. attr1_referent.
type Field struct {
	Referent     string
	Name         string
	Restrictions []Restriction
	Predicate    bool

	// PType and PValue are set for predicates only.
	PType  string
	PValue int64
}

// CredDefIDs returns the credential definitions the field is restricted to.
// Empty means no restriction.
func (f Field) CredDefIDs() []string {
	ids := make([]string, 0, len(f.Restrictions))
	for _, r := range f.Restrictions {
		if r.CredDefID != "" {
			ids = append(ids, r.CredDefID)
		}
	}
	return ids
}

func (f Field) String() string {
	if f.Predicate {
		return fmt.Sprintf("%s %s %d", f.Name, f.PType, f.PValue)
	}
	return f.Name
}

// Request is the parsed proof request document. Fields are in the order of
// the document.
type Request struct {
	Name       string
	Version    string
	Nonce      string
	Attributes []Field
	Predicates []Field
}

// ParseRequest parses the proof request document.
func ParseRequest(doc string) (*Request, error) {
	if !gjson.Valid(doc) {
		return nil, fmt.Errorf("proof request isn't valid JSON")
	}
	root := gjson.Parse(doc)
	req := &Request{
		Name:    root.Get("name").String(),
		Version: root.Get("version").String(),
		Nonce:   root.Get("nonce").String(),
	}
	root.Get("requested_attributes").ForEach(func(key, value gjson.Result) bool {
		req.Attributes = append(req.Attributes, parseField(key.String(), value, false))
		return true
	})
	root.Get("requested_predicates").ForEach(func(key, value gjson.Result) bool {
		f := parseField(key.String(), value, true)
		f.PType = value.Get("p_type").String()
		f.PValue = value.Get("p_value").Int()
		req.Predicates = append(req.Predicates, f)
		return true
	})
	return req, nil
}

func parseField(referent string, value gjson.Result, predicate bool) Field {
	f := Field{
		Referent:  referent,
		Name:      value.Get("name").String(),
		Predicate: predicate,
	}
	value.Get("restrictions").ForEach(func(_, r gjson.Result) bool {
		f.Restrictions = append(f.Restrictions, Restriction{
			CredDefID: r.Get("cred_def_id").String(),
		})
		return true
	})
	return f
}

// Len is the count of requested fields.
func (r *Request) Len() int {
	return len(r.Attributes) + len(r.Predicates)
}

// Fields returns the attributes followed by the predicates.
func (r *Request) Fields() []Field {
	fields := make([]Field, 0, r.Len())
	fields = append(fields, r.Attributes...)
	return append(fields, r.Predicates...)
}

func (r *Request) Field(referent string) (Field, bool) {
	for _, f := range r.Fields() {
		if f.Referent == referent {
			return f, true
		}
	}
	return Field{}, false
}
