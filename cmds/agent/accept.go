package agent

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/findy-network/findy-edge-agent/cmds"
	"github.com/findy-network/findy-edge-agent/protocol/cloudagent"
	"github.com/findy-network/findy-edge-agent/protocol/connection"
	"github.com/findy-network/findy-edge-agent/protocol/invitation"
	"github.com/findy-network/findy-edge-agent/protocol/presentproof"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// AcceptCmd accepts any kind of invitation, i.e. the content of a scanned
// QR code. "-" reads the invitation from stdin.
type AcceptCmd struct {
	cmds.Cmd
	Invitation string

	in io.Reader
}

func (c AcceptCmd) Validate() error {
	if err := c.Cmd.Validate(); err != nil {
		return err
	}
	if c.Invitation == "" {
		return errors.New("invitation cannot be empty")
	}
	return nil
}

type AcceptResult struct {
	Kind     string `json:"kind"`
	RecordID string `json:"id"`
	Info     string `json:"info,omitempty"`
}

func (r AcceptResult) JSON() ([]byte, error) {
	return json.Marshal(r)
}

func (c AcceptCmd) raw() (_ string, err error) {
	defer err2.Handle(&err, "read invitation")

	if c.Invitation != "-" {
		return c.Invitation, nil
	}
	in := c.in
	if in == nil {
		in = os.Stdin
	}
	return strings.TrimSpace(string(try.To1(io.ReadAll(in)))), nil
}

func (c AcceptCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err)

	raw := try.To1(c.raw())
	return c.Cmd.Exec(w, func(s *cmds.Session) (_ cmds.Result, err error) {
		defer err2.Handle(&err, "accept")

		ctx := context.Background()
		d := &invitation.Decoder{Resolver: s.Deps.Client()}
		inv := try.To1(d.Decode(ctx, raw))
		v := &acceptor{ctx: ctx, s: s, res: AcceptResult{Kind: inv.Kind.String()}}
		try.To(inv.Visit(v))
		cmds.Fprintf(w, "%s %s %s\n", v.res.Kind, v.res.RecordID, v.res.Info)
		return v.res, nil
	})
}

type acceptor struct {
	ctx context.Context
	s   *cmds.Session
	res AcceptResult
}

func (a *acceptor) VisitConnection(inv *invitation.ConnectionInvitation) (err error) {
	defer err2.Handle(&err)

	r := try.To1(connection.New(a.s.Deps).Accept(a.ctx, inv))
	a.res.RecordID = r.Connection.ID
	if r.Triggered {
		a.res.Info = "SSO triggered"
	}
	return nil
}

func (a *acceptor) VisitCloudAgent(reg *invitation.CloudAgentRegistration) (err error) {
	defer err2.Handle(&err)

	rec := try.To1(cloudagent.NewRegistry(a.s.Deps).Register(a.ctx, reg))
	a.res.RecordID = rec.ID
	a.res.Info = rec.ResponseAddress()
	return nil
}

func (a *acceptor) VisitProofRequest(req *invitation.ProofRequest) (err error) {
	defer err2.Handle(&err)

	n := try.To1(presentproof.FromInvitation(a.ctx, a.s.Deps, req))
	a.res.RecordID = n.Proof().ID
	a.res.Info = fieldNames(n.Request().Fields())
	return nil
}

func fieldNames(fields []presentproof.Field) string {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.String())
	}
	return strings.Join(names, ", ")
}
