package cmd

import (
	"log"

	"github.com/findy-network/findy-edge-agent/cmds/proof"
	"github.com/lainio/err2"
	"github.com/spf13/cobra"
)

var proofCmd = &cobra.Command{
	Use:   "proof",
	Short: "Parent command for the proof requests",
	Run: func(cmd *cobra.Command, args []string) {
		SubCmdNeeded(cmd)
	},
}

var proofListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists the proof requests",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		return run(cmd, proof.ListCmd{Cmd: wFlags})
	},
}

var proofPresentCmd = &cobra.Command{
	Use:   "present <proof-id>",
	Short: "Presents the proof",
	Long: `
Presents the proof. Every requested field gets the first credential which
satisfies it unless another one is selected. All attributes are revealed
unless hidden.

Example
	findy-edge-agent proof present 8d3f... \
		--select attr1_referent=5a1c... \
		--hide attr2_referent
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		present.Cmd = proof.Cmd{Cmd: wFlags, ID: args[0]}
		return run(cmd, present)
	},
}

var present = proof.PresentCmd{}

var proofRejectCmd = &cobra.Command{
	Use:   "reject <proof-id>",
	Short: "Rejects the proof request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		return run(cmd, proof.RejectCmd{Cmd: proof.Cmd{Cmd: wFlags, ID: args[0]}})
	},
}

func init() {
	defer err2.Catch(err2.Err(func(err error) {
		log.Println(err)
	}))

	f := proofPresentCmd.Flags()
	f.StringToStringVar(&present.Select, "select", nil, "credential of the field: referent=credential-id")
	f.StringSliceVar(&present.Hide, "hide", nil, "referents of the attributes not revealed")

	proofCmd.AddCommand(proofListCmd, proofPresentCmd, proofRejectCmd)
	rootCmd.AddCommand(proofCmd)
}
