package api

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCredentialName(t *testing.T) {
	tests := []struct {
		name     string
		schemaID string
		want     string
	}{
		{"full schema id", "Th7MpTaRZVRYnPiabds81Y:2:email:1.0", "email 1.0"},
		{"short", "email", "email"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &CredentialRecord{SchemaID: tt.schemaID}
			require.Equal(t, tt.want, c.Name())
		})
	}
}

func TestCheckState(t *testing.T) {
	c := &CredentialRecord{State: CredentialIssued}
	require.NoError(t, c.CheckState(CredentialIssued))

	err := c.CheckState(CredentialOffered)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrWrongState))

	var wse *WrongStateError
	require.True(t, errors.As(err, &wse))
	require.Equal(t, CredentialOffered, wse.Want)
	require.Equal(t, CredentialIssued, wse.Got)

	p := &ProofRecord{State: ProofAccepted}
	err = p.CheckState(ProofRequested)
	require.ErrorIs(t, err, ErrWrongState)
	require.Equal(t, "Proof state should be Requested, was Accepted", err.Error())
}

func TestResponseAddress(t *testing.T) {
	ca := &CloudAgentRecord{
		MyConsumerID: "consumer1",
		Endpoint:     CloudAgentEndpoint{ResponseEndpoint: "https://relay.example/response/"},
	}
	require.Equal(t, "https://relay.example/response/consumer1", ca.ResponseAddress())
}

func TestDIDMethod(t *testing.T) {
	d := &DID{DID: "did:peer:1zQmZ"}
	require.Equal(t, DIDMethodPeer, d.Method())
	d.DID = "did:foo:123"
	require.Equal(t, DIDMethodUnsupported, d.Method())
}
