package model

// Caller is the identity attached to an invocation.
// The zero value is an anonymous caller.
type Caller struct {
	UID string
}

// IsAuthenticated reports whether the caller carries a verified identity.
func (c Caller) IsAuthenticated() bool {
	return c.UID != ""
}
