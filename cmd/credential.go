package cmd

import (
	"log"

	"github.com/findy-network/findy-edge-agent/cmds/credential"
	"github.com/lainio/err2"
	"github.com/spf13/cobra"
)

var credentialCmd = &cobra.Command{
	Use:     "credential",
	Aliases: []string{"cred"},
	Short:   "Parent command for the credentials and credential offers",
	Run: func(cmd *cobra.Command, args []string) {
		SubCmdNeeded(cmd)
	},
}

var credListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists the offered and issued credentials",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		credList.Cmd = wFlags
		return run(cmd, credList)
	},
}

var credList = credential.ListCmd{}

var credAcceptCmd = &cobra.Command{
	Use:   "accept <credential-id>",
	Short: "Accepts the credential offer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		return run(cmd, credential.AcceptCmd{Cmd: credCmd(args[0])})
	},
}

var credRejectCmd = &cobra.Command{
	Use:   "reject <credential-id>",
	Short: "Rejects the credential offer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		return run(cmd, credential.RejectCmd{Cmd: credCmd(args[0])})
	},
}

func credCmd(id string) credential.Cmd {
	return credential.Cmd{Cmd: wFlags, ID: id}
}

func init() {
	defer err2.Catch(err2.Err(func(err error) {
		log.Println(err)
	}))

	credListCmd.Flags().StringVar(&credList.Search, "search", "", "case insensitive search of the credential names")

	credentialCmd.AddCommand(credListCmd, credAcceptCmd, credRejectCmd)
	rootCmd.AddCommand(credentialCmd)
}
