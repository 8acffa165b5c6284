// Package auth implements the authentication gate which every user-visible
// mutation passes before it touches the wallet or the network. The gate is a
// single blocking call: the pending action waits in its caller's stack frame
// until the user answers, cancels or the wait times out.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/findy-network/findy-edge-agent/agent/bus"
	"github.com/findy-network/findy-edge-agent/agent/storage/api"
	"github.com/findy-network/findy-edge-agent/agent/utils"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"golang.org/x/crypto/bcrypt"
)

type authError struct {
	msg  string
	user string
}

func (e *authError) Error() string {
	return e.msg
}

func (e *authError) UserMessage() string {
	return e.user
}

var (
	ErrAuthenticationFailed error = &authError{msg: "authentication failed", user: "Wrong Passcode."}
	ErrCancelled            error = &authError{msg: "authentication cancelled", user: "Unathorised. Canceling Activity."}
)

// Gate authenticates the user before a protected action. A nil error means
// the action may proceed.
type Gate interface {
	Authenticate(ctx context.Context, prompt string) error
}

// Biometric is the platform's biometric prompt.
type Biometric interface {
	Available() bool
	Authenticate(ctx context.Context, prompt string) error
}

// Challenger asks the passcode from the user. The returned channel delivers
// the single answer.
type Challenger interface {
	Challenge(ctx context.Context, prompt string) (<-chan bus.Answer, error)
}

// Authenticator is the Gate implementation. Biometric is used when it is
// available, the passcode challenge otherwise.
type Authenticator struct {
	Biometric  Biometric
	Challenger Challenger
	Store      api.ProvisioningStorage

	// Timeout overrides utils.Settings.AuthTimeout when it's not zero.
	Timeout time.Duration
}

func (a *Authenticator) timeout() time.Duration {
	if a.Timeout != 0 {
		return a.Timeout
	}
	return utils.Settings.AuthTimeout()
}

func (a *Authenticator) Authenticate(ctx context.Context, prompt string) (err error) {
	defer err2.Handle(&err, "authenticate")

	if a.Biometric != nil && a.Biometric.Available() {
		glog.V(3).Infoln("biometric authentication")
		if err := a.Biometric.Authenticate(ctx, prompt); err != nil {
			return fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
		}
		return nil
	}
	if a.Challenger == nil {
		return fmt.Errorf("%w: no challenger", ErrCancelled)
	}

	if to := a.timeout(); to > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, to)
		defer cancel()
	}

	answerCh, err := a.Challenger.Challenge(ctx, prompt)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCancelled, err)
	}

	select {
	case answer := <-answerCh:
		if answer.Cancelled {
			glog.V(1).Infoln("passcode challenge cancelled")
			return ErrCancelled
		}
		try.To(VerifyPasscode(a.Store, answer.Passcode))
	case <-ctx.Done():
		glog.V(1).Infoln("passcode challenge:", ctx.Err())
		return fmt.Errorf("%w: %v", ErrCancelled, ctx.Err())
	}
	return nil
}

// AlwaysAllow is the gate for non-interactive runs.
type AlwaysAllow struct{}

func (AlwaysAllow) Authenticate(context.Context, string) error {
	return nil
}

// QuestionChallenger sends the passcode challenge as a question to whoever
// answers questions of the session, e.g. the terminal prompt or a UI.
type QuestionChallenger struct {
	Questions *bus.Questions
}

func (c QuestionChallenger) Challenge(ctx context.Context, prompt string) (<-chan bus.Answer, error) {
	return c.Questions.Ask(ctx, bus.Question{
		ID:     utils.UUID(),
		Type:   bus.QuestionPasscode,
		Prompt: prompt,
	})
}

// SetPasscode stores the bcrypt hash of the passcode to the provisioning
// record. The record is created if it doesn't exist.
func SetPasscode(store api.ProvisioningStorage, passcode string) (err error) {
	defer err2.Handle(&err, "set passcode")

	if passcode == "" {
		return errors.New("passcode cannot be empty")
	}
	rec, err := store.GetProvisioning()
	if errors.Is(err, api.ErrNotFound) {
		rec = &api.ProvisioningRecord{CreatedAt: time.Now()}
	} else {
		try.To(err)
	}
	rec.PasscodeHash = try.To1(bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost))
	return store.SaveProvisioning(*rec)
}

// VerifyPasscode returns ErrAuthenticationFailed if the passcode doesn't
// match the stored one.
func VerifyPasscode(store api.ProvisioningStorage, passcode string) error {
	if store == nil {
		return fmt.Errorf("%w: no passcode store", ErrAuthenticationFailed)
	}
	rec, err := store.GetProvisioning()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}
	if len(rec.PasscodeHash) == 0 {
		return fmt.Errorf("%w: passcode not set", ErrAuthenticationFailed)
	}
	if bcrypt.CompareHashAndPassword(rec.PasscodeHash, []byte(passcode)) != nil {
		return ErrAuthenticationFailed
	}
	return nil
}
