package framework

import (
	"errors"

	"github.com/findy-network/findy-edge-agent/agent/comm"
	"github.com/findy-network/findy-edge-agent/agent/storage/api"
	"github.com/findy-network/findy-edge-agent/protocol/invitation"
)

// UserError is an error which carries a message for the end user.
type UserError struct {
	Err error
	Msg string
}

func NewUserError(text, userMsg string) *UserError {
	return &UserError{Err: errors.New(text), Msg: userMsg}
}

func (e *UserError) Error() string {
	return e.Err.Error()
}

func (e *UserError) Unwrap() error {
	return e.Err
}

func (e *UserError) UserMessage() string {
	return e.Msg
}

type userMessenger interface {
	UserMessage() string
}

const (
	MsgInvalidInvitation = "Invalid invitation!"
	MsgFailedInvite      = "Failed to accept invite!"
	MsgTransport         = "Could not reach the other agent."
)

// UserMessage returns the text shown to the user for the error.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var um userMessenger
	if errors.As(err, &um) {
		return um.UserMessage()
	}
	var wse *api.WrongStateError
	if errors.As(err, &wse) {
		return wse.Record + " state should be " + wse.Want.String()
	}
	switch {
	case errors.Is(err, invitation.ErrInvalidFormat):
		return MsgInvalidInvitation
	case errors.Is(err, comm.ErrTransport):
		return MsgTransport
	}
	return MsgFailedInvite
}
