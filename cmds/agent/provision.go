// Package agent has the commands of the edge agent itself: provisioning,
// invitations and the inbound service.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/findy-network/findy-edge-agent/agent/auth"
	"github.com/findy-network/findy-edge-agent/agent/storage/api"
	"github.com/findy-network/findy-edge-agent/cmds"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

type ProvisionCmd struct {
	cmds.Cmd
	Label    string
	Endpoint string

	// NewPasscode replaces the passcode of the authentication gate when
	// it's set.
	NewPasscode string
}

func (c ProvisionCmd) Validate() error {
	if err := c.Cmd.Validate(); err != nil {
		return err
	}
	if c.Label == "" {
		return errors.New("label cannot be empty")
	}
	return nil
}

type ProvisionResult struct {
	api.ProvisioningRecord
}

func (r ProvisionResult) JSON() ([]byte, error) {
	return json.Marshal(struct {
		Label    string `json:"label"`
		Endpoint string `json:"endpoint,omitempty"`
		Verkey   string `json:"verkey"`
	}{r.Label, r.Endpoint.URI, r.MasterVerkey})
}

func (c ProvisionCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	return c.Cmd.Exec(w, func(s *cmds.Session) (_ cmds.Result, err error) {
		defer err2.Handle(&err, "provision")

		rec := try.To1(s.Agent.Provision(context.Background(), c.Label, c.Endpoint))
		if c.NewPasscode != "" {
			try.To(auth.SetPasscode(s.Agent.Storage().ProvisioningStorage(), c.NewPasscode))
			cmds.Fprintln(w, "passcode set")
		}
		res := ProvisionResult{ProvisioningRecord: *rec}
		cmds.Fprintln(w, string(try.To1(res.JSON())))
		return res, nil
	})
}
