/*
Package protocol is the root of the edge agent's protocol negotiators. A
negotiator drives one user-facing workflow (accept an invitation, answer a
credential offer, disclose a proof) from the user's decision to the sent
message. The negotiators decide what to do and when, the agent framework
(agent/framework) builds and processes the messages.

Every mutating negotiator operation passes the authentication gate first, and
every state change is announced on the session's notification bus.
*/
package protocol
