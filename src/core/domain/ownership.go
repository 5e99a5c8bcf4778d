package domain

// AuthorizeDelete decides whether userID may delete a joke owned by ownerID.
// It is a pure comparison with no I/O; callers must have already confirmed
// the joke exists, so that a missing joke and a foreign joke stay distinct
// conditions.
func AuthorizeDelete(ownerID, userID string) error {
	if ownerID != userID {
		return NewForbiddenError("only the joke's creator may delete it")
	}
	return nil
}
