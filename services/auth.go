package services

import (
	"errors"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Identity is the authenticated user attached to a request. It is passed
// explicitly to everything that needs an actor (status history, capability
// checks) instead of being read from ambient state.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// ErrInvalidCredentials is returned for an unknown email or a wrong
// password. Callers must not distinguish the two cases to the client.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Authenticate verifies an email/password pair against the users auth
// collection and returns the matching identity.
func Authenticate(app *pocketbase.PocketBase, email, password string) (*Identity, *core.Record, error) {
	record, err := app.FindAuthRecordByEmail("users", email)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	// A soft-deleted account is indistinguishable from an unknown one.
	if record.GetBool("deleted") {
		return nil, nil, ErrInvalidCredentials
	}
	if !record.ValidatePassword(password) {
		return nil, nil, ErrInvalidCredentials
	}
	return IdentityFromRecord(record), record, nil
}

// IdentityFromRecord builds an Identity from a users auth record.
func IdentityFromRecord(record *core.Record) *Identity {
	return &Identity{
		ID:    record.Id,
		Email: record.Email(),
		Name:  record.GetString("name"),
		Role:  ParseRole(record.GetString("role")),
	}
}
