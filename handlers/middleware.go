package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotemanagement/services"
)

type contextKey string

const IdentityKey contextKey = "identity"

// GetIdentity extracts the authenticated identity from the request context.
func GetIdentity(r *http.Request) *services.Identity {
	if val, ok := r.Context().Value(IdentityKey).(*services.Identity); ok {
		return val
	}
	return nil
}

// WithIdentity stores an identity in the request context. Used by the auth
// middleware and by handler tests.
func WithIdentity(r *http.Request, identity *services.Identity) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), IdentityKey, identity))
}

// RequireAuth resolves the Authorization bearer token to a users record and
// stores the identity in the request context. Requests without a valid
// token are rejected.
func RequireAuth(app *pocketbase.PocketBase) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		token := bearerToken(e.Request)
		if token == "" {
			return apiError(e, http.StatusUnauthorized, "Missing authorization token")
		}

		record, err := app.FindAuthRecordByToken(token, core.TokenTypeAuth)
		if err != nil {
			return apiError(e, http.StatusUnauthorized, "Invalid or expired token")
		}
		// Tokens issued before a soft delete stay syntactically valid.
		if record.GetBool("deleted") {
			return apiError(e, http.StatusUnauthorized, "Invalid or expired token")
		}

		e.Request = WithIdentity(e.Request, services.IdentityFromRecord(record))
		return e.Next()
	}
}

// bearerToken extracts the token from an "Authorization: Bearer ..." header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	// Plain token without a scheme prefix is accepted too.
	return strings.TrimSpace(header)
}
