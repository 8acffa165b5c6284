package utils

import "github.com/google/uuid"

// UUID returns a new random UUID string. It's the ID of every record and
// DIDComm message the agent creates.
func UUID() string {
	return uuid.New().String()
}
