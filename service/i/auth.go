package i

// Authenticator exchanges the operator password for an access token.
type Authenticator interface {
	SignIn(password string) (string, error)
}
