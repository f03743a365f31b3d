package port

import "time"

type TokenIssuer interface {
	// Issue signs a token carrying identity, returns the token and its expiry
	Issue(identity string) (string, time.Time, error)

	// Verify checks signature and expiry and returns the embedded identity
	Verify(token string) (string, error)
}
