// Package proof has the commands of the proof requests.
package proof

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/findy-network/findy-edge-agent/agent/storage/api"
	"github.com/findy-network/findy-edge-agent/cmds"
	"github.com/findy-network/findy-edge-agent/protocol/presentproof"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/samber/lo"
)

type ListCmd struct {
	cmds.Cmd
}

func (c ListCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	return c.Cmd.Exec(w, func(s *cmds.Session) (_ cmds.Result, err error) {
		defer err2.Handle(&err, "list proofs")

		proofs := try.To1(presentproof.List(context.Background(), s.Deps))
		for _, p := range proofs {
			cmds.Fprintf(w, "%s\t%s\t%s\n", p.ID, p.ConnectionID, p.State)
		}
		return cmds.Records[api.ProofRecord](proofs), nil
	})
}

type Cmd struct {
	cmds.Cmd
	ID string
}

func (c Cmd) Validate() error {
	if err := c.Cmd.Validate(); err != nil {
		return err
	}
	if c.ID == "" {
		return errors.New("proof id cannot be empty")
	}
	return nil
}

// PresentCmd answers the proof request. Select maps a field referent to the
// credential ID used for it; fields without a selection get the first
// matching credential. The values of the Hide referents are not revealed.
type PresentCmd struct {
	Cmd
	Select map[string]string
	Hide   []string
}

func (c PresentCmd) Validate() error {
	if err := c.Cmd.Validate(); err != nil {
		return err
	}
	for ref, credID := range c.Select {
		if ref == "" || credID == "" {
			return fmt.Errorf("invalid selection %q=%q", ref, credID)
		}
	}
	return nil
}

func (c PresentCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	return c.Cmd.Exec(w, func(s *cmds.Session) (_ cmds.Result, err error) {
		defer err2.Handle(&err, "present proof %s", c.ID)

		ctx := context.Background()
		n := try.To1(presentproof.Open(ctx, s.Deps, c.ID))
		for _, ref := range c.Hide {
			f, ok := n.Request().Field(ref)
			if !ok {
				return nil, fmt.Errorf("%w: %s", presentproof.ErrUnknownField, ref)
			}
			_ = try.To1(n.ToggleRevealed(f))
		}
		for _, f := range n.Request().Fields() {
			try.To(c.selectFor(ctx, n, f))
		}
		try.To(n.Submit(ctx))

		proof := n.Proof()
		cmds.Fprintln(w, proof.ID, proof.State)
		return cmds.Records[api.ProofRecord]{*proof}, nil
	})
}

func (c PresentCmd) selectFor(ctx context.Context, n *presentproof.Negotiator, f presentproof.Field) (err error) {
	defer err2.Handle(&err, "select %s", f.Referent)

	creds := try.To1(n.FilterCredentialRecords(ctx, f))
	if len(creds) == 0 {
		return fmt.Errorf("no credential for %s", f)
	}
	cred := creds[0]
	if id, ok := c.Select[f.Referent]; ok {
		var found bool
		cred, found = lo.Find(creds, func(cr api.CredentialRecord) bool {
			return cr.ID == id
		})
		if !found {
			return fmt.Errorf("credential %s doesn't satisfy %s", id, f)
		}
	}
	_ = try.To1(n.Expand(f))
	return n.SelectCredential(cred)
}

type RejectCmd struct {
	Cmd
}

func (c RejectCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	return c.Cmd.Exec(w, func(s *cmds.Session) (_ cmds.Result, err error) {
		defer err2.Handle(&err, "reject proof %s", c.ID)

		n := try.To1(presentproof.Open(context.Background(), s.Deps, c.ID))
		try.To(n.Reject(context.Background()))
		cmds.Fprintln(w, c.ID, n.Proof().State)
		return nil, nil
	})
}
