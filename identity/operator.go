package identity

import (
	"errors"

	"github.com/nbutton23/zxcvbn-go"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordStrengthScore = 3

var (
	ErrWeakPassword   = errors.New("weak password")
	ErrEmptyHash      = errors.New("empty password hash")
	ErrPasswordLength = errors.New("password longer than 72 bytes")
)

// hashCost is lowered by tests.
var hashCost = 14

// Operator is the single account allowed to start and stop runs.
type Operator struct {
	PasswordHash string
}

// NewOperator wraps a bcrypt hash, as produced by HashPassword.
func NewOperator(passwordHash string) (*Operator, error) {
	if passwordHash == "" {
		return nil, ErrEmptyHash
	}
	if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
		return nil, err
	}
	return &Operator{PasswordHash: passwordHash}, nil
}

// VerifyPassword verifies if the given password matches the stored hash.
func (o *Operator) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(o.PasswordHash), []byte(password))
	return err == nil
}

// HashPassword checks the strength of password and returns its bcrypt hash.
func HashPassword(password string) (string, error) {
	if err := validatePassword(password); err != nil {
		return "", err
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	return string(bytes), err
}

// validatePassword checks the strength of the password.
func validatePassword(password string) error {
	if len(password) > 72 {
		return ErrPasswordLength
	}
	result := zxcvbn.PasswordStrength(password, nil)
	if result.Score < minPasswordStrengthScore {
		return ErrWeakPassword
	}
	return nil
}
