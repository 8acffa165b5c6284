package agent

import (
	"context"
	"encoding/json"
	"io"

	"github.com/findy-network/findy-edge-agent/cmds"
	"github.com/findy-network/findy-edge-agent/protocol/connection"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// InvitationCmd creates a connection invitation to this agent.
type InvitationCmd struct {
	cmds.Cmd
	Label    string
	ImageURL string
}

type InvitationResult struct {
	URL string `json:"url"`
}

func (r InvitationResult) JSON() ([]byte, error) {
	return json.Marshal(r)
}

func (c InvitationCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	return c.Cmd.Exec(w, func(s *cmds.Session) (_ cmds.Result, err error) {
		defer err2.Handle(&err, "invitation")

		url := try.To1(connection.New(s.Deps).CreateInvitation(context.Background(), c.Label, c.ImageURL))
		cmds.Fprintln(w, url)
		return InvitationResult{URL: url}, nil
	})
}
