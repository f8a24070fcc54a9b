// Package i holds the contracts between services, infrastructure and the API.
package i

import (
	"time"
)

// Tokenizer signs and checks operator tokens.
type Tokenizer interface {
	// Generate signs claims into a token valid for expTime.
	Generate(claims map[string]interface{}, expTime time.Duration) (string, error)

	// Decode validates a token and returns its claims.
	Decode(token string) (map[string]interface{}, error)
}
