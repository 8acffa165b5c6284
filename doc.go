/*
Package main is the CLI of the Findy edge agent, the holder side of an SSI
wallet. The edge agent runs on the user's own device. It's reached through
cloud agents, relays which keep its inbound messages until they are polled.

The edge agent does the following:

 1. decodes the invitations, e.g. scanned QR codes: connection invitations,
    cloud agent registrations and connectionless proof requests
 2. makes the pairwise connections, and reactivates the existing ones with
    the SSO trigger instead of connecting again
 3. registers the cloud agents and polls them for the relayed messages
 4. accepts and rejects the credential offers
 5. presents the proofs, the user selects the credentials and decides which
    attributes are revealed

Every change of the wallet which the user should approve passes the
authentication gate: a biometric check or the passcode.

# Sub-packages

	agent    the edge agent framework, storage, the authentication gate
	         and the notification bus
	protocol the negotiators, one per protocol, on top of the framework
	server   the inbound HTTP endpoint and an optional relay mailbox
	cmds     the command implementations
	cmd      the cobra commands of the CLI
*/
package main
