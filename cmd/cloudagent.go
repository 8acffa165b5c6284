package cmd

import (
	"log"

	"github.com/findy-network/findy-edge-agent/cmds/cloudagent"
	"github.com/lainio/err2"
	"github.com/spf13/cobra"
)

var cloudAgentCmd = &cobra.Command{
	Use:     "cloudagent",
	Aliases: []string{"ca"},
	Short:   "Parent command for the cloud agent relays",
	Long: `
Parent command for the cloud agent relays. A cloud agent keeps the inbound
messages of the edge agent until they are polled.

This command requires a subcommand so command itself does nothing.
New cloud agents are registered with the accept command.
`,
	Run: func(cmd *cobra.Command, args []string) {
		SubCmdNeeded(cmd)
	},
}

var caListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists the registered cloud agents",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		return run(cmd, cloudagent.ListCmd{Cmd: wFlags})
	},
}

var caRemoveCmd = &cobra.Command{
	Use:   "remove <cloud-agent-id>",
	Short: "Removes the cloud agent registration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		return run(cmd, cloudagent.RemoveCmd{Cmd: wFlags, ID: args[0]})
	},
}

var pollEnvs = map[string]string{
	"once":     "ONCE",
	"interval": "INTERVAL",
}

var caPollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Polls the cloud agents for the relayed messages",
	Long: `
Polls the registered cloud agents and dispatches the messages to the agent.
With --once the messages are fetched and dispatched once, otherwise the
polling goes on until interrupted.
`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(pollEnvs, cmd.Name())
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		pollCmd.Cmd = wFlags
		return run(cmd, pollCmd)
	},
}

var pollCmd = cloudagent.PollCmd{}

func init() {
	defer err2.Catch(err2.Err(func(err error) {
		log.Println(err)
	}))

	f := caPollCmd.Flags()
	f.BoolVar(&pollCmd.Once, "once", false, flagInfo("poll once and exit", caPollCmd.Name(), pollEnvs["once"]))
	f.DurationVar(&pollCmd.Interval, "interval", 0, flagInfo("poll interval", caPollCmd.Name(), pollEnvs["interval"]))

	cloudAgentCmd.AddCommand(caListCmd, caRemoveCmd, caPollCmd)
	rootCmd.AddCommand(cloudAgentCmd)
}
