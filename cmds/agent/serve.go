package agent

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/findy-network/findy-edge-agent/agent/utils"
	"github.com/findy-network/findy-edge-agent/cmds"
	"github.com/findy-network/findy-edge-agent/protocol/cloudagent"
	"github.com/findy-network/findy-edge-agent/protocol/invitation"
	"github.com/findy-network/findy-edge-agent/server"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// ServeCmd runs the inbound endpoint of the agent and polls the registered
// cloud agents until it's interrupted.
type ServeCmd struct {
	cmds.Cmd
	ServiceName  string
	HostAddr     string
	HostScheme   string
	HostPort     uint
	ServerPort   uint
	PollInterval time.Duration

	// Relay serves the mailbox of a cloud agent as well.
	Relay bool
}

func (c ServeCmd) Validate() error {
	if err := c.Cmd.Validate(); err != nil {
		return err
	}
	if c.ServiceName == "" {
		return errors.New("service name cannot be empty")
	}
	if c.ServerPort == 0 {
		return errors.New("server port cannot be zero")
	}
	return nil
}

func (c ServeCmd) setup() {
	utils.Settings.SetServiceName(c.ServiceName)
	if c.HostAddr != "" {
		utils.Settings.SetHostAddr(c.HostAddr)
	}
	if c.PollInterval > 0 {
		utils.Settings.SetPollInterval(c.PollInterval)
	}
	scheme := c.HostScheme
	if scheme == "" {
		scheme = "http"
	}
	port := c.HostPort
	if port == 0 {
		port = c.ServerPort
	}
	server.BuildHostAddr(scheme, port)
}

func (c ServeCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	c.setup()
	return c.Cmd.Exec(w, func(s *cmds.Session) (_ cmds.Result, err error) {
		defer err2.Handle(&err, "serve")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		poller := cloudagent.NewPoller(s.Deps, cloudagent.NewQueue(c.WalletName))
		srv := &server.Server{
			ServiceName: c.ServiceName,
			Responder:   s.Agent,
			Queue:       poller,
		}
		if c.Relay {
			srv.Mailbox = server.NewMailbox()
			base := utils.Settings.HostAddr()
			reg := srv.Mailbox.Registration(c.ServiceName, base)
			cmds.Fprintln(w, "relay registration:",
				try.To1(invitation.Encode(base, invitation.NewCloudAgent(reg))))
		}
		try.To(poller.Start(ctx))
		defer poller.Stop()

		cmds.Fprintln(w, "endpoint:", server.Endpoint())
		try.To(server.StartHTTPServer(ctx, c.ServerPort, srv.Handler()))
		glog.V(1).Infoln("serve done")
		return nil, nil
	})
}
