package secrets

// Store defines the interface for working with password sources.
type Store interface {
	// Resolve a new password from a secret source
	// - keyName is the name of the source.
	// - keyValue is source specific, e.g. the prompt shown to the user.
	// Examples:
	// - keyName=random
	// - keyName=prompt, keyValue="New password: "
	Resolve(keyName string, keyValue string) (string, error)
}
