package session

import "errors"

// Storage is the durable slot the session survives reloads in. It holds
// exactly two string entries keyed by fixed names; values are opaque and
// replaced wholesale.
type Storage interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

var ErrNotFound = errors.New("key not found")

const (
	tokenKey = "token"
	roleKey  = "role"
)
