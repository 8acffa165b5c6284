/*
Package agent is the root of the edge agent framework packages. The package
itself is empty, the functionality is in the sub-packages:

	auth       the authentication gate: biometric check or passcode
	bus        the notification bus and the interactive questions
	comm       the HTTP client of the outbound messages
	edge       the edge agent, the framework.Framework implementation
	framework  the framework interface the negotiators use, and the envelope
	storage    the wallet: keys and the protocol records
	utils      settings, logging, and helpers
*/
package agent
