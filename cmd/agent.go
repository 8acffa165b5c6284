package cmd

import (
	"log"

	"github.com/findy-network/findy-edge-agent/cmds/agent"
	"github.com/lainio/err2"
	"github.com/spf13/cobra"
)

var provisionEnvs = map[string]string{
	"label":        "LABEL",
	"endpoint":     "ENDPOINT",
	"new-passcode": "NEW_PASSCODE",
}

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Provisions the wallet of the edge agent",
	Long: `
Provisions the wallet: the master key is created on the first run, the label
and the public endpoint are set, and optionally the passcode of the
confirmations.

Example
	findy-edge-agent provision \
		--wallet-name MyWallet \
		--wallet-key 4f9d3c5b...f0e9d8c \
		--label Alice \
		--endpoint http://localhost:8090/a2a/ \
		--new-passcode 1234
`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(provisionEnvs, cmd.Name())
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		provCmd.Cmd = wFlags
		return run(cmd, provCmd)
	},
}

var provCmd = agent.ProvisionCmd{}

var invitationEnvs = map[string]string{
	"label":     "LABEL",
	"image-url": "IMAGE_URL",
}

var invitationCmd = &cobra.Command{
	Use:   "invitation",
	Short: "Creates a connection invitation URL",
	Long: `
Creates a connection invitation URL to this agent. The URL is built on the
response address of a registered cloud agent if there is one, on the
provisioned endpoint otherwise.
`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(invitationEnvs, cmd.Name())
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		invCmd.Cmd = wFlags
		return run(cmd, invCmd)
	},
}

var invCmd = agent.InvitationCmd{}

var acceptCmd = &cobra.Command{
	Use:   "accept <invitation|->",
	Short: "Accepts an invitation of any kind",
	Long: `
Accepts a connection invitation, a cloud agent registration or a
connectionless proof request, i.e. the content of a scanned QR code.
The kind is told by the invitation itself. Use - to read it from stdin.

Example
	findy-edge-agent accept 'https://example.com/?c_i=eyJAdHlwZSI6...'
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		return run(cmd, agent.AcceptCmd{Cmd: wFlags, Invitation: args[0]})
	},
}

var serveEnvs = map[string]string{
	"service-name":  "SERVICE_NAME",
	"host-address":  "HOST_ADDRESS",
	"host-scheme":   "HOST_SCHEME",
	"host-port":     "HOST_PORT",
	"server-port":   "SERVER_PORT",
	"poll-interval": "POLL_INTERVAL",
	"relay":         "RELAY",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the inbound endpoint and the cloud agent poller",
	Long: `
Runs the inbound DIDComm endpoint of the agent and polls the registered cloud
agents until interrupted. With --relay the process is a cloud agent as well,
and the registration URL of a new consumer is printed.

Example
	findy-edge-agent serve \
		--wallet-name MyWallet \
		--wallet-key 4f9d3c5b...f0e9d8c \
		--host-address localhost \
		--server-port 8090
`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(serveEnvs, cmd.Name())
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		srvCmd.Cmd = wFlags
		return run(cmd, srvCmd)
	},
}

var srvCmd = agent.ServeCmd{}

func init() {
	defer err2.Catch(err2.Err(func(err error) {
		log.Println(err)
	}))

	f := provisionCmd.Flags()
	f.StringVar(&provCmd.Label, "label", "", flagInfo("label shown to the other agents", provisionCmd.Name(), provisionEnvs["label"]))
	f.StringVar(&provCmd.Endpoint, "endpoint", "", flagInfo("public endpoint of the agent", provisionCmd.Name(), provisionEnvs["endpoint"]))
	f.StringVar(&provCmd.NewPasscode, "new-passcode", "", flagInfo("new passcode of the confirmations", provisionCmd.Name(), provisionEnvs["new-passcode"]))

	f = invitationCmd.Flags()
	f.StringVar(&invCmd.Label, "label", "", flagInfo("label of the invitation", invitationCmd.Name(), invitationEnvs["label"]))
	f.StringVar(&invCmd.ImageURL, "image-url", "", flagInfo("image URL of the inviter", invitationCmd.Name(), invitationEnvs["image-url"]))

	f = serveCmd.Flags()
	f.StringVar(&srvCmd.ServiceName, "service-name", "a2a", flagInfo("service name of the endpoint", serveCmd.Name(), serveEnvs["service-name"]))
	f.StringVar(&srvCmd.HostAddr, "host-address", "localhost", flagInfo("host address the world sees", serveCmd.Name(), serveEnvs["host-address"]))
	f.StringVar(&srvCmd.HostScheme, "host-scheme", "http", flagInfo("scheme of the host address", serveCmd.Name(), serveEnvs["host-scheme"]))
	f.UintVar(&srvCmd.HostPort, "host-port", 0, flagInfo("host port the world sees, default is the server port", serveCmd.Name(), serveEnvs["host-port"]))
	f.UintVar(&srvCmd.ServerPort, "server-port", 8090, flagInfo("server port", serveCmd.Name(), serveEnvs["server-port"]))
	f.DurationVar(&srvCmd.PollInterval, "poll-interval", 0, flagInfo("cloud agent poll interval", serveCmd.Name(), serveEnvs["poll-interval"]))
	f.BoolVar(&srvCmd.Relay, "relay", false, flagInfo("serve a cloud agent mailbox as well", serveCmd.Name(), serveEnvs["relay"]))

	rootCmd.AddCommand(provisionCmd, invitationCmd, acceptCmd, serveCmd)
}
