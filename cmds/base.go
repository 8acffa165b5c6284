// Package cmds has the command implementations of the edge agent CLI. A
// command is a struct of its arguments with Validate and Exec methods, so
// it can be run without cobra as well.
package cmds

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/findy-network/findy-edge-agent/agent/auth"
	"github.com/findy-network/findy-edge-agent/agent/bus"
	"github.com/findy-network/findy-edge-agent/agent/comm"
	"github.com/findy-network/findy-edge-agent/agent/edge"
	"github.com/findy-network/findy-edge-agent/agent/framework"
	"github.com/findy-network/findy-edge-agent/agent/storage/api"
	"github.com/findy-network/findy-edge-agent/agent/utils"
	"github.com/findy-network/findy-edge-agent/protocol"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// walletKeyLength is the length of the hex encoded 32 byte key.
const walletKeyLength = 64


// Cmd has the wallet arguments every command needs.
type Cmd struct {
	WalletName string
	WalletKey  string
	WalletPath string

	// Passcode answers the passcode challenges. Empty means that the
	// passcode is asked from the terminal.
	Passcode string
}

func (c Cmd) Validate() error {
	if c.WalletName == "" {
		return errors.New("wallet name cannot be empty")
	}
	return c.ValidateWalletKey()
}

func (c Cmd) ValidateWalletKey() error {
	return ValidateKey(c.WalletKey)
}

func ValidateKey(k string) error {
	if k == "" {
		return errors.New("wallet key cannot be empty")
	}
	if len(k) != walletKeyLength {
		return fmt.Errorf("wallet key length must be %d", walletKeyLength)
	}
	if _, err := hex.DecodeString(k); err != nil {
		return errors.New("wallet key must be hex encoded")
	}
	return nil
}

func (c Cmd) Config() api.AgentStorageConfig {
	path := c.WalletPath
	if path == "" {
		path = utils.Settings.WalletPath()
	}
	return api.AgentStorageConfig{
		AgentKey: c.WalletKey,
		AgentID:  c.WalletName,
		FilePath: path,
	}
}

type Result interface {
	JSON() ([]byte, error)
}

type Command interface {
	Validate() error
	Exec(w io.Writer) (r Result, err error)
}

// Records is the result of the list commands.
type Records[T any] []T

func (r Records[T]) JSON() ([]byte, error) {
	return json.Marshal(r)
}

// Session is an open wallet with the collaborators of the negotiators.
type Session struct {
	Agent *edge.Agent
	Deps  protocol.Deps

	stopAnswerer func()
}

// Open opens the wallet. Passcode questions of the session are answered
// from the terminal, or with the Passcode argument if it's set.
func (c Cmd) Open(w io.Writer) (s *Session, err error) {
	defer err2.Handle(&err, "open wallet %s", c.WalletName)

	client := comm.NewClient()
	agent := try.To1(edge.Open(c.Config(), edge.WithClient(client)))

	questions := bus.NewQuestions()
	tc := TerminalChallenger{In: os.Stdin, Out: w, Passcode: c.Passcode}

	return &Session{
		Agent: agent,
		Deps: protocol.Deps{
			FW: agent,
			Gate: &auth.Authenticator{
				Challenger: auth.QuestionChallenger{Questions: questions},
				Store:      agent.Storage().ProvisioningStorage(),
			},
			Bus:  bus.New(),
			HTTP: client,
		},
		stopAnswerer: tc.Listen(questions),
	}, nil
}

func (s *Session) Close() {
	s.stopAnswerer()
	if err := s.Agent.Close(); err != nil {
		fmt.Fprintln(os.Stderr, "close wallet:", err)
	}
}

// Exec opens the session for f and closes it after.
func (c Cmd) Exec(w io.Writer, f func(s *Session) (Result, error)) (r Result, err error) {
	defer err2.Handle(&err)

	s := try.To1(c.Open(w))
	defer s.Close()

	return f(s)
}

// UserError returns the error text for the user.
func UserError(err error) string {
	return framework.UserMessage(err)
}

// Fprintln is fmt.Fprintln but it allows writer to be nil. Note! it throws an
// error.
func Fprintln(w io.Writer, a ...any) {
	if w != nil {
		try.To1(fmt.Fprintln(w, a...))
	}
}

// Fprintf is fmt.Fprintf but it allows writer to be nil. Note! it throws an
// error.
func Fprintf(w io.Writer, format string, a ...any) {
	if w != nil {
		try.To1(fmt.Fprintf(w, format, a...))
	}
}
