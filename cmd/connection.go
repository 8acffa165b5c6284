package cmd

import (
	"github.com/findy-network/findy-edge-agent/cmds/connection"
	"github.com/spf13/cobra"
)

var connectionCmd = &cobra.Command{
	Use:     "connection",
	Aliases: []string{"conn"},
	Short:   "Parent command for the pairwise connections",
	Long: `
Parent command for the pairwise connections.

This command requires a subcommand so command itself does nothing.
New connections are made with the accept command.
`,
	Run: func(cmd *cobra.Command, args []string) {
		SubCmdNeeded(cmd)
	},
}

var connListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists the connections",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		return run(cmd, connection.ListCmd{Cmd: wFlags})
	},
}

var connDeleteCmd = &cobra.Command{
	Use:   "delete <connection-id>",
	Short: "Deletes the connection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		return run(cmd, connection.DeleteCmd{Cmd: connCmd(args[0])})
	},
}

var connLoginCmd = &cobra.Command{
	Use:   "login <connection-id>",
	Short: "Sends the SSO trigger of the connection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		return run(cmd, connection.LoginCmd{Cmd: connCmd(args[0])})
	},
}

var connPingCmd = &cobra.Command{
	Use:   "trustping <connection-id>",
	Short: "Makes a trust ping over the connection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		return run(cmd, connection.TrustPingCmd{Cmd: connCmd(args[0])})
	},
}

func connCmd(id string) connection.Cmd {
	return connection.Cmd{Cmd: wFlags, ID: id}
}

func init() {
	connectionCmd.AddCommand(connListCmd, connDeleteCmd, connLoginCmd, connPingCmd)
	rootCmd.AddCommand(connectionCmd)
}
