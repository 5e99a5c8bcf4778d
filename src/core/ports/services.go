package ports

// PasswordHasher produces and checks one-way password digests.
type PasswordHasher interface {
	// Hash returns a salted digest for the password. Two calls with the
	// same password yield different digests that both verify.
	Hash(password string) (string, error)

	// Verify reports whether password matches digest. A malformed digest
	// verifies as false; it never panics.
	Verify(password, digest string) bool
}

// SessionCodec serializes an authenticated identity to and from the
// session cookie value.
type SessionCodec interface {
	// Encode signs a fresh session token carrying the user id.
	Encode(userID string) (string, error)

	// Decode recovers the user id from a token. Tampered, expired, or
	// otherwise malformed tokens report ok=false; Decode never errors.
	Decode(token string) (userID string, ok bool)
}
