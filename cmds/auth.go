package cmds

import (
	"io"
	"os"

	"github.com/findy-network/findy-edge-agent/agent/bus"
	"github.com/golang/glog"
	"golang.org/x/term"
)

// TerminalChallenger answers the passcode questions by prompting the
// terminal. A preset Passcode is answered without a prompt. Without a
// terminal the question is cancelled.
type TerminalChallenger struct {
	In       *os.File
	Out      io.Writer
	Passcode string
}

// Listen answers the questions until the returned stop is called.
func (tc TerminalChallenger) Listen(qs *bus.Questions) (stop func()) {
	ch, remove := qs.AddAnswerer()
	done := make(chan struct{})
	go func() {
		for {
			select {
			case q := <-ch:
				q.Reply(tc.answer(q))
			case <-done:
				return
			}
		}
	}()
	return func() {
		remove()
		close(done)
	}
}

func (tc TerminalChallenger) answer(q bus.Question) bus.Answer {
	if tc.Passcode != "" {
		return bus.Answer{Passcode: tc.Passcode}
	}
	if tc.In == nil || !term.IsTerminal(int(tc.In.Fd())) {
		glog.Warningln("no terminal for the passcode:", q.Prompt)
		return bus.Answer{Cancelled: true}
	}
	out := tc.Out
	if out == nil {
		out = os.Stderr
	}
	_, _ = io.WriteString(out, q.Prompt+"\nPasscode: ")
	pw, err := term.ReadPassword(int(tc.In.Fd()))
	_, _ = io.WriteString(out, "\n")
	if err != nil || len(pw) == 0 {
		return bus.Answer{Cancelled: true}
	}
	return bus.Answer{Passcode: string(pw)}
}
