// Package cloudagent has the commands of the cloud agent relays.
package cloudagent

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/findy-network/findy-edge-agent/agent/storage/api"
	"github.com/findy-network/findy-edge-agent/cmds"
	"github.com/findy-network/findy-edge-agent/protocol/cloudagent"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

type ListCmd struct {
	cmds.Cmd
}

func (c ListCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	return c.Cmd.Exec(w, func(s *cmds.Session) (_ cmds.Result, err error) {
		defer err2.Handle(&err, "list cloud agents")

		relays := try.To1(cloudagent.NewRegistry(s.Deps).List(context.Background()))
		for _, ca := range relays {
			cmds.Fprintf(w, "%s\t%s\t%s\n", ca.ID, ca.Label, ca.ResponseAddress())
		}
		return cmds.Records[api.CloudAgentRecord](relays), nil
	})
}

type RemoveCmd struct {
	cmds.Cmd
	ID string
}

func (c RemoveCmd) Validate() error {
	if err := c.Cmd.Validate(); err != nil {
		return err
	}
	if c.ID == "" {
		return errors.New("cloud agent id cannot be empty")
	}
	return nil
}

func (c RemoveCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	return c.Cmd.Exec(w, func(s *cmds.Session) (_ cmds.Result, err error) {
		defer err2.Handle(&err, "remove cloud agent %s", c.ID)

		try.To(cloudagent.NewRegistry(s.Deps).Unregister(context.Background(), c.ID))
		cmds.Fprintln(w, "removed", c.ID)
		return nil, nil
	})
}

// PollCmd fetches and dispatches the relayed messages. Once fetches and
// dispatches a single round, otherwise it polls until interrupted.
type PollCmd struct {
	cmds.Cmd
	Once     bool
	Interval time.Duration
}

type PollResult struct {
	Dispatched int `json:"dispatched"`
	Fetched    int `json:"fetched"`
}

func (r PollResult) JSON() ([]byte, error) {
	return json.Marshal(r)
}

func (c PollCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	return c.Cmd.Exec(w, func(s *cmds.Session) (_ cmds.Result, err error) {
		defer err2.Handle(&err, "poll")

		p := cloudagent.NewPoller(s.Deps, cloudagent.NewQueue(c.WalletName))
		p.Interval = c.Interval
		if c.Once {
			ctx := context.Background()
			res := PollResult{}
			_, res.Fetched = p.Tick(ctx)
			res.Dispatched = p.Flush(ctx)
			cmds.Fprintf(w, "fetched %d, dispatched %d\n", res.Fetched, res.Dispatched)
			return res, nil
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		try.To(p.Start(ctx))
		<-ctx.Done()
		p.Stop()
		return nil, nil
	})
}
