package service

import (
	"errors"
	"time"

	"github.com/beka-birhanu/gridbot/identity"
	"github.com/beka-birhanu/gridbot/service/i"
)

const (
	operatorRole  = "operator"
	tokenLifetime = 24 * time.Hour
)

var ErrInvalidPassword = errors.New("invalid password")

// OperatorAuth signs the operator in with the configured password.
type OperatorAuth struct {
	operator  *identity.Operator
	tokenizer i.Tokenizer
}

var _ i.Authenticator = &OperatorAuth{}

// NewOperatorAuth creates an authenticator for operator.
func NewOperatorAuth(operator *identity.Operator, tokenizer i.Tokenizer) *OperatorAuth {
	return &OperatorAuth{
		operator:  operator,
		tokenizer: tokenizer,
	}
}

// SignIn returns an operator token when password matches.
func (a *OperatorAuth) SignIn(password string) (string, error) {
	if !a.operator.VerifyPassword(password) {
		return "", ErrInvalidPassword
	}

	return a.tokenizer.Generate(map[string]interface{}{
		"role": operatorRole,
	}, tokenLifetime)
}
