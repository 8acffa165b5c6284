package agent

import (
	"bytes"
	"context"
	"flag"
	"os"
	"strings"
	"testing"

	"github.com/findy-network/findy-edge-agent/cmds"
	"github.com/findy-network/findy-edge-agent/cmds/cloudagent"
	"github.com/findy-network/findy-edge-agent/protocol/invitation"
	"github.com/findy-network/findy-edge-agent/server"
	"github.com/lainio/err2/try"
	"github.com/stretchr/testify/require"
)

const walletKey = "4f9d3c5b8e2a7f1d6c0b9a8e7d6c5b4a3f2e1d0c9b8a7f6e5d4c3b2a1f0e9d8c"

func TestMain(m *testing.M) {
	try.To(flag.Set("logtostderr", "true"))
	try.To(flag.Set("stderrthreshold", "WARNING"))
	flag.Parse()
	os.Exit(m.Run())
}

func wallet(t *testing.T) cmds.Cmd {
	return cmds.Cmd{
		WalletName: "cli",
		WalletKey:  walletKey,
		WalletPath: t.TempDir(),
		Passcode:   "1234",
	}
}

func TestProvisionCmd_Validate(t *testing.T) {
	require.Error(t, ProvisionCmd{Cmd: wallet(t)}.Validate())
	require.NoError(t, ProvisionCmd{Cmd: wallet(t), Label: "edge"}.Validate())
}

func TestProvisionAndInvite(t *testing.T) {
	w := wallet(t)
	var out bytes.Buffer

	r, err := ProvisionCmd{
		Cmd:         w,
		Label:       "edge",
		Endpoint:    "http://localhost:8090/a2a/",
		NewPasscode: "1234",
	}.Exec(&out)
	require.NoError(t, err)
	data, err := r.JSON()
	require.NoError(t, err)
	require.Contains(t, string(data), `"label":"edge"`)
	require.Contains(t, out.String(), "passcode set")

	out.Reset()
	r, err = InvitationCmd{Cmd: w, Label: "edge"}.Exec(&out)
	require.NoError(t, err)
	url := r.(InvitationResult).URL
	require.True(t, strings.HasPrefix(url, "http://localhost:8090/a2a/?c_i="), url)

	inv, err := invitation.Decode(context.Background(), url)
	require.NoError(t, err)
	require.Equal(t, invitation.KindConnection, inv.Kind)
	require.Equal(t, "edge", inv.Label())
}

func TestAcceptCmd_CloudAgent(t *testing.T) {
	w := wallet(t)
	_, err := ProvisionCmd{Cmd: w, Label: "edge", NewPasscode: "1234"}.Exec(nil)
	require.NoError(t, err)

	reg := server.NewMailbox().Registration("relay", "http://localhost:9000")
	url, err := invitation.Encode("http://localhost:9000", invitation.NewCloudAgent(reg))
	require.NoError(t, err)

	c := AcceptCmd{Cmd: w, Invitation: "-", in: strings.NewReader(url + "\n")}
	require.NoError(t, c.Validate())
	r, err := c.Exec(nil)
	require.NoError(t, err)
	res := r.(AcceptResult)
	require.Equal(t, invitation.KindCloudAgent.String(), res.Kind)
	require.Equal(t, "http://localhost:9000/relay/"+reg.ConsumerID, res.Info)

	var out bytes.Buffer
	_, err = cloudagent.ListCmd{Cmd: w}.Exec(&out)
	require.NoError(t, err)
	require.Contains(t, out.String(), "relay")

	// the label is unique
	_, err = AcceptCmd{Cmd: w, Invitation: url}.Exec(nil)
	require.Error(t, err)
}

func TestAcceptCmd_WrongPasscode(t *testing.T) {
	w := wallet(t)
	_, err := ProvisionCmd{Cmd: w, Label: "edge", NewPasscode: "4321"}.Exec(nil)
	require.NoError(t, err)

	reg := server.NewMailbox().Registration("relay", "http://localhost:9000")
	url, err := invitation.Encode("http://localhost:9000", invitation.NewCloudAgent(reg))
	require.NoError(t, err)

	_, err = AcceptCmd{Cmd: w, Invitation: url}.Exec(nil)
	require.Error(t, err)

	var out bytes.Buffer
	_, err = cloudagent.ListCmd{Cmd: w}.Exec(&out)
	require.NoError(t, err)
	require.Empty(t, out.String())
}
