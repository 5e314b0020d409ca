package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions
// (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// BlogUUID derives the stable id used for imported blog posts so re-running
// an import never duplicates records.
func BlogUUID(slug string) uuid.UUID {
	return UUID("sitecms:blog:" + strings.ToLower(strings.TrimSpace(slug)))
}

// AdminUserUUID derives the stable id for seeded admin accounts.
func AdminUserUUID(email string) uuid.UUID {
	return UUID("sitecms:admin_user:" + strings.ToLower(strings.TrimSpace(email)))
}
