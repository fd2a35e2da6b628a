package rules

import (
	"strings"

	"github.com/etickets/ticket-admin/internal/domain"
)

// FindCredential returns the credential whose email matches
// case-insensitively, or nil.
func FindCredential(credentials []domain.Credential, email string) *domain.Credential {
	for i := range credentials {
		if strings.EqualFold(credentials[i].Email, email) {
			return &credentials[i]
		}
	}
	return nil
}

// UpsertCredential replaces the credential with a matching email or appends
// a new one. Credentials are never deleted individually; only a full store
// reset clears the list.
func UpsertCredential(credentials []domain.Credential, cred domain.Credential) []domain.Credential {
	out := make([]domain.Credential, len(credentials))
	copy(out, credentials)
	for i := range out {
		if strings.EqualFold(out[i].Email, cred.Email) {
			out[i] = cred
			return out
		}
	}
	return append(out, cred)
}
