// Package connection has the commands of the pairwise connections.
package connection

import (
	"context"
	"errors"
	"io"

	"github.com/findy-network/findy-edge-agent/agent/storage/api"
	"github.com/findy-network/findy-edge-agent/cmds"
	"github.com/findy-network/findy-edge-agent/protocol/connection"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// Cmd is the base of the commands which target a single connection.
type Cmd struct {
	cmds.Cmd
	ID string
}

func (c Cmd) Validate() error {
	if err := c.Cmd.Validate(); err != nil {
		return err
	}
	if c.ID == "" {
		return errors.New("connection id cannot be empty")
	}
	return nil
}

type ListCmd struct {
	cmds.Cmd
}

func (c ListCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	return c.Cmd.Exec(w, func(s *cmds.Session) (_ cmds.Result, err error) {
		defer err2.Handle(&err, "list connections")

		conns := try.To1(connection.New(s.Deps).List(context.Background()))
		for _, conn := range conns {
			cmds.Fprintf(w, "%s\t%s\t%s\n", conn.ID, conn.Alias.Name, conn.State)
		}
		return cmds.Records[api.ConnectionRecord](conns), nil
	})
}

type DeleteCmd struct {
	Cmd
}

func (c DeleteCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	return c.Cmd.Exec(w, func(s *cmds.Session) (_ cmds.Result, err error) {
		defer err2.Handle(&err, "delete connection %s", c.ID)

		try.To(connection.New(s.Deps).Delete(context.Background(), c.ID))
		cmds.Fprintln(w, "deleted", c.ID)
		return nil, nil
	})
}

// LoginCmd sends the SSO trigger of the connection.
type LoginCmd struct {
	Cmd
}

func (c LoginCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	return c.Cmd.Exec(w, func(s *cmds.Session) (_ cmds.Result, err error) {
		defer err2.Handle(&err, "login %s", c.ID)

		try.To(connection.New(s.Deps).Login(context.Background(), c.ID))
		cmds.Fprintln(w, "login triggered", c.ID)
		return nil, nil
	})
}

type TrustPingCmd struct {
	Cmd
}

func (c TrustPingCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	return c.Cmd.Exec(w, func(s *cmds.Session) (_ cmds.Result, err error) {
		defer err2.Handle(&err, "trust ping %s", c.ID)

		try.To(connection.New(s.Deps).TrustPing(context.Background(), c.ID))
		cmds.Fprintln(w, "trust ping ok")
		return nil, nil
	})
}
