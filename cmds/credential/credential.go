// Package credential has the commands of the credential offers and the
// issued credentials.
package credential

import (
	"context"
	"errors"
	"io"

	"github.com/findy-network/findy-edge-agent/agent/storage/api"
	"github.com/findy-network/findy-edge-agent/cmds"
	"github.com/findy-network/findy-edge-agent/protocol/issuecredential"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

type ListCmd struct {
	cmds.Cmd
	Search string
}

func (c ListCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	return c.Cmd.Exec(w, func(s *cmds.Session) (_ cmds.Result, err error) {
		defer err2.Handle(&err, "list credentials")

		creds := try.To1(issuecredential.New(s.Deps).List(context.Background(), c.Search))
		for i := range creds {
			cred := &creds[i]
			cmds.Fprintf(w, "%s\t%s\t%s\n", cred.ID, cred.Name(), cred.State)
		}
		return cmds.Records[api.CredentialRecord](creds), nil
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
		return errors.New("credential id cannot be empty")
	}
	return nil
}

type Result struct {
	api.CredentialRecord
}

func (r Result) JSON() ([]byte, error) {
	return cmds.Records[api.CredentialRecord]{r.CredentialRecord}.JSON()
}

type AcceptCmd struct {
	Cmd
}

func (c AcceptCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	return c.Cmd.Exec(w, func(s *cmds.Session) (_ cmds.Result, err error) {
		defer err2.Handle(&err, "accept offer %s", c.ID)

		rec := try.To1(issuecredential.New(s.Deps).Accept(context.Background(), c.ID))
		cmds.Fprintln(w, rec.ID, rec.State)
		return Result{CredentialRecord: *rec}, nil
	})
}

type RejectCmd struct {
	Cmd
}

func (c RejectCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	return c.Cmd.Exec(w, func(s *cmds.Session) (_ cmds.Result, err error) {
		defer err2.Handle(&err, "reject offer %s", c.ID)

		rec := try.To1(issuecredential.New(s.Deps).Reject(context.Background(), c.ID))
		cmds.Fprintln(w, rec.ID, rec.State)
		return Result{CredentialRecord: *rec}, nil
	})
}
